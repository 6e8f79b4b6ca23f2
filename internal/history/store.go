package history

import (
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rebeliceyang/lazyinv/internal/models"
)

// HistoryEntry represents a single submitted search
type HistoryEntry struct {
	ID           uuid.UUID
	Segment      models.Segment
	Human        string // what the user typed
	Query        string // compiled query, filter included
	Keyword      bool
	SubmittedAt  time.Time
	Duration     time.Duration
	Done         bool
	Success      bool
	ErrorMessage string
}

// Store keeps the most recent searches of the session in memory
type Store struct {
	mu      sync.Mutex
	entries []HistoryEntry // oldest first
	limit   int
}

// NewStore creates a store holding at most limit entries. limit <= 0 means unbounded.
func NewStore(limit int) *Store {
	return &Store{limit: limit}
}

// Add records a new search
func (s *Store) Add(entry HistoryEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if entry.SubmittedAt.IsZero() {
		entry.SubmittedAt = time.Now()
	}
	s.entries = append(s.entries, entry)
	if s.limit > 0 && len(s.entries) > s.limit {
		s.entries = slices.Delete(s.entries, 0, len(s.entries)-s.limit)
	}
}

// Complete marks the search with the given id as finished. It reports
// whether the entry was found.
func (s *Store) Complete(id uuid.UUID, err error) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.entries {
		e := &s.entries[i]
		if e.ID != id {
			continue
		}
		e.Done = true
		e.Duration = time.Since(e.SubmittedAt)
		e.Success = err == nil
		if err != nil {
			e.ErrorMessage = err.Error()
		}
		return true
	}
	return false
}

// GetRecent retrieves the most recent entries, newest first
func (s *Store) GetRecent(limit int) []HistoryEntry {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := len(s.entries)
	if limit > 0 {
		n = min(n, limit)
	}
	out := make([]HistoryEntry, 0, n)
	for i := len(s.entries) - 1; i >= 0 && len(out) < n; i-- {
		out = append(out, s.entries[i])
	}
	return out
}

// Search returns entries whose typed or compiled text contains query, newest first
func (s *Store) Search(query string, limit int) []HistoryEntry {
	q := strings.ToLower(query)
	var out []HistoryEntry
	for _, e := range s.GetRecent(0) {
		if limit > 0 && len(out) >= limit {
			break
		}
		if strings.Contains(strings.ToLower(e.Human), q) || strings.Contains(strings.ToLower(e.Query), q) {
			out = append(out, e)
		}
	}
	return out
}

// Clear drops every entry
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = nil
}
