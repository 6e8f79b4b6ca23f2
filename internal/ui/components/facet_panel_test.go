package components

import (
	"strings"
	"testing"

	"github.com/charmbracelet/bubbles/cursor"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rebeliceyang/lazyinv/internal/models"
	"github.com/rebeliceyang/lazyinv/internal/ui/theme"
)

func newTestFacetPanel() *FacetPanel {
	facets := []models.Facet{
		{Name: "source", CQL: "source", Operator: "==", Kind: models.FacetValues, Values: []string{"FOLIO", "MARC"}},
		{Name: "staffSuppress", CQL: "staffSuppress", Kind: models.FacetBoolean},
		{Name: "createdDate", CQL: "metadata.createdDate", Kind: models.FacetDateRange},
	}
	p := NewFacetPanel(models.SegmentInstances, facets, theme.DefaultTheme())
	p.Height = 30
	p.input.Cursor.SetMode(cursor.CursorStatic)
	return p
}

func sendKey(p *FacetPanel, key string) tea.Msg {
	var msg tea.KeyMsg
	switch key {
	case "enter":
		msg = tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		msg = tea.KeyMsg{Type: tea.KeyEsc}
	case "down":
		msg = tea.KeyMsg{Type: tea.KeyDown}
	case "up":
		msg = tea.KeyMsg{Type: tea.KeyUp}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
	}
	_, cmd := p.Update(msg)
	if cmd == nil {
		return nil
	}
	return cmd()
}

func TestFacetPanel_Rows(t *testing.T) {
	p := newTestFacetPanel()

	// source + 2 values, staffSuppress + true/false, createdDate
	if len(p.rows) != 7 {
		t.Errorf("expected 7 rows, got %d", len(p.rows))
	}
	if last := p.rows[6]; p.facets[last.facet].Name != "createdDate" || last.value != "" {
		t.Errorf("expected createdDate header last, got %+v", last)
	}
}

func TestFacetPanel_ToggleValue(t *testing.T) {
	p := newTestFacetPanel()

	sendKey(p, "down") // FOLIO
	sendKey(p, "down") // MARC
	msg := sendKey(p, " ")

	changed, ok := msg.(FilterChangedMsg)
	if !ok {
		t.Fatalf("expected FilterChangedMsg, got %T", msg)
	}
	if changed.CQL != `source==("MARC")` {
		t.Errorf("unexpected CQL '%s'", changed.CQL)
	}

	msg = sendKey(p, " ")
	if changed := msg.(FilterChangedMsg); changed.CQL != "" {
		t.Errorf("expected empty CQL after toggling off, got '%s'", changed.CQL)
	}
}

func TestFacetPanel_ToggleOnHeaderIsNoop(t *testing.T) {
	p := newTestFacetPanel()
	if msg := sendKey(p, " "); msg != nil {
		t.Errorf("expected no message on header row, got %T", msg)
	}
}

func TestFacetPanel_TypedValue(t *testing.T) {
	p := newTestFacetPanel()

	sendKey(p, "enter")
	if !p.Inputting() {
		t.Fatal("expected input mode on values facet header")
	}
	for _, r := range "LDP" {
		sendKey(p, string(r))
	}
	msg := sendKey(p, "enter")

	changed := msg.(FilterChangedMsg)
	if changed.CQL != `source==("LDP")` {
		t.Errorf("unexpected CQL '%s'", changed.CQL)
	}
	if p.Inputting() {
		t.Error("expected input mode to end")
	}
	// FOLIO, MARC and the typed LDP
	if len(p.rows) != 8 {
		t.Errorf("expected typed value to get a row, got %d rows", len(p.rows))
	}
}

func TestFacetPanel_DateRange(t *testing.T) {
	p := newTestFacetPanel()
	for range 6 {
		sendKey(p, "down") // createdDate
	}

	sendKey(p, "enter")
	if !p.Inputting() {
		t.Fatal("expected range input")
	}
	for _, r := range "2024-01-01..2024-12-31" {
		sendKey(p, string(r))
	}
	msg := sendKey(p, "enter")

	want := `metadata.createdDate>="2024-01-01" and metadata.createdDate<="2024-12-31"`
	if changed := msg.(FilterChangedMsg); changed.CQL != want {
		t.Errorf("expected '%s', got '%s'", want, changed.CQL)
	}
}

func TestFacetPanel_InvalidRange(t *testing.T) {
	p := newTestFacetPanel()
	for range 6 {
		sendKey(p, "down") // createdDate
	}

	sendKey(p, "enter")
	for _, r := range "2024-12-31..2024-01-01" {
		sendKey(p, string(r))
	}
	sendKey(p, "enter")

	if p.Error() == "" {
		t.Error("expected validation error for reversed range")
	}
	if p.CQL() != "" {
		t.Error("invalid selections must not produce a filter")
	}
	if !strings.Contains(p.View(true), "Error:") {
		t.Error("expected error to be rendered")
	}

	sendKey(p, "x")
	if p.Error() != "" {
		t.Errorf("expected clearing the facet to drop the error, got '%s'", p.Error())
	}
}

func TestFacetPanel_EscCancelsInput(t *testing.T) {
	p := newTestFacetPanel()

	sendKey(p, "enter")
	sendKey(p, "a")
	if msg := sendKey(p, "esc"); msg != nil {
		t.Errorf("expected no message on cancel, got %T", msg)
	}
	if p.Inputting() {
		t.Error("expected input mode to end")
	}
	if len(p.Filter().Selections) != 0 {
		t.Error("cancelled input must not select anything")
	}
}

func TestFacetPanel_SetFacetsClears(t *testing.T) {
	p := newTestFacetPanel()
	sendKey(p, "down")
	sendKey(p, " ")

	p.SetFacets(models.SegmentItems, models.DefaultFacets(models.SegmentItems))
	if len(p.Filter().Selections) != 0 {
		t.Error("expected selections to be cleared")
	}
	if p.Filter().Segment != models.SegmentItems {
		t.Errorf("expected items segment, got %s", p.Filter().Segment)
	}
}
