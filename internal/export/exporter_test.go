package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rebeliceyang/lazyinv/internal/history"
	"github.com/rebeliceyang/lazyinv/internal/models"
)

func testEntries() []history.HistoryEntry {
	return []history.HistoryEntry{
		{
			ID:          uuid.MustParse("6f1c2a9e-1b2c-4d3e-8f90-123456789abc"),
			Segment:     models.SegmentInstances,
			Human:       `Title = "the great, gatsby"`,
			Query:       `title all "the great, gatsby"`,
			SubmittedAt: time.Date(2024, 1, 1, 12, 0, 0, 0, time.Local),
			Duration:    150 * time.Millisecond,
			Done:        true,
			Success:     true,
		},
		{
			ID:           uuid.New(),
			Segment:      models.SegmentItems,
			Human:        "dragons",
			Query:        `keyword all "dragons"`,
			Keyword:      true,
			SubmittedAt:  time.Date(2024, 1, 1, 13, 0, 0, 0, time.Local),
			Done:         true,
			ErrorMessage: "timeout",
		},
	}
}

func TestExportToCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := ExportToCSV(&buf, testEntries()); err != nil {
		t.Fatalf("ExportToCSV failed: %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("Failed to read CSV: %v", err)
	}

	// Header + 2 rows
	if len(records) != 3 {
		t.Fatalf("Expected 3 records, got %d", len(records))
	}
	if records[0][0] != "ID" || records[0][3] != "Query" {
		t.Errorf("Unexpected header: %v", records[0])
	}

	row := records[1]
	if row[0] != "6f1c2a9e-1b2c-4d3e-8f90-123456789abc" {
		t.Errorf("Expected id, got %s", row[0])
	}
	if row[3] != `title all "the great, gatsby"` {
		t.Errorf("Expected quotes and commas to survive, got %s", row[3])
	}
	if row[5] != "2024-01-01 12:00:00" {
		t.Errorf("Expected formatted time, got %s", row[5])
	}
	if row[6] != "150" {
		t.Errorf("Expected duration 150, got %s", row[6])
	}

	failed := records[2]
	if failed[4] != "true" || failed[7] != "false" || failed[8] != "timeout" {
		t.Errorf("Unexpected failed row: %v", failed)
	}
}

func TestExportToJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := ExportToJSON(&buf, testEntries()); err != nil {
		t.Fatalf("ExportToJSON failed: %v", err)
	}

	var out []map[string]any
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("Failed to parse JSON: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("Expected 2 entries, got %d", len(out))
	}
	if out[0]["segment"] != "instances" {
		t.Errorf("Expected instances, got %v", out[0]["segment"])
	}
	if _, ok := out[0]["error"]; ok {
		t.Error("Expected error to be omitted for successful searches")
	}
	if out[1]["error"] != "timeout" {
		t.Errorf("Expected timeout error, got %v", out[1]["error"])
	}

	submitted, err := ParseSubmitted(out[1]["submitted_at"].(string))
	if err != nil {
		t.Fatalf("ParseSubmitted failed: %v", err)
	}
	if !submitted.Equal(time.Date(2024, 1, 1, 13, 0, 0, 0, time.Local)) {
		t.Errorf("Unexpected time %v", submitted)
	}
}

func TestExportToJSON_Empty(t *testing.T) {
	var buf bytes.Buffer
	if err := ExportToJSON(&buf, nil); err != nil {
		t.Fatalf("ExportToJSON failed: %v", err)
	}
	if got := bytes.TrimSpace(buf.Bytes()); string(got) != "[]" {
		t.Errorf("Expected empty array, got %s", got)
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestExportToCSV_WriteError(t *testing.T) {
	if err := ExportToCSV(failingWriter{}, testEntries()); err == nil {
		t.Error("Expected write error")
	}
}
