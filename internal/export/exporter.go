package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/rebeliceyang/lazyinv/internal/history"
)

const timeLayout = "2006-01-02 15:04:05"

// record is the exported shape of a history entry
type record struct {
	ID          string `json:"id"`
	Segment     string `json:"segment"`
	Human       string `json:"human"`
	Query       string `json:"query"`
	Keyword     bool   `json:"keyword"`
	SubmittedAt string `json:"submitted_at"`
	DurationMs  int64  `json:"duration_ms"`
	Success     bool   `json:"success"`
	Error       string `json:"error,omitempty"`
}

func toRecord(e history.HistoryEntry) record {
	return record{
		ID:          e.ID.String(),
		Segment:     string(e.Segment),
		Human:       e.Human,
		Query:       e.Query,
		Keyword:     e.Keyword,
		SubmittedAt: e.SubmittedAt.Format(timeLayout),
		DurationMs:  e.Duration.Milliseconds(),
		Success:     e.Success,
		Error:       e.ErrorMessage,
	}
}

// ExportToCSV writes search history entries as CSV
func ExportToCSV(w io.Writer, entries []history.HistoryEntry) error {
	writer := csv.NewWriter(w)

	header := []string{"ID", "Segment", "Human", "Query", "Keyword", "Submitted", "Duration (ms)", "Success", "Error"}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, e := range entries {
		r := toRecord(e)
		row := []string{
			r.ID,
			r.Segment,
			r.Human,
			r.Query,
			strconv.FormatBool(r.Keyword),
			r.SubmittedAt,
			strconv.FormatInt(r.DurationMs, 10),
			strconv.FormatBool(r.Success),
			r.Error,
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// ExportToJSON writes search history entries as an indented JSON array
func ExportToJSON(w io.Writer, entries []history.HistoryEntry) error {
	records := make([]record, len(entries))
	for i, e := range entries {
		records[i] = toRecord(e)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(records); err != nil {
		return fmt.Errorf("failed to marshal history to JSON: %w", err)
	}
	return nil
}

// ParseSubmitted parses the submitted_at value written by the exporters
func ParseSubmitted(s string) (time.Time, error) {
	return time.ParseInLocation(timeLayout, s, time.Local)
}
