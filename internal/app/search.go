package app

import (
	"context"

	"github.com/google/uuid"
	"github.com/rebeliceyang/lazyinv/internal/logger"
	"github.com/rebeliceyang/lazyinv/internal/models"
)

// Request is one submitted search
type Request struct {
	ID      uuid.UUID
	Segment models.Segment
	Human   string // text typed in the query field
	Query   string // compiled query without facets
	Filter  string // compiled facet filter
	CQL     string // query and filter combined
	Keyword bool
}

// Searcher runs a search. It is called from a tea.Cmd, never from Update.
type Searcher interface {
	Search(ctx context.Context, req Request) error
}

// SearcherFunc adapts a function to Searcher
type SearcherFunc func(ctx context.Context, req Request) error

// Search implements Searcher
func (f SearcherFunc) Search(ctx context.Context, req Request) error {
	return f(ctx, req)
}

// LogSearcher only records requests in the log. It is used when no
// backend is configured.
type LogSearcher struct{}

// Search implements Searcher
func (LogSearcher) Search(_ context.Context, req Request) error {
	logger.Infof("search %s [%s] %s", req.ID, req.Segment, req.CQL)
	return nil
}
