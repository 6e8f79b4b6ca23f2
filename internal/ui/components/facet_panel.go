package components

import (
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/rebeliceyang/lazyinv/internal/filter"
	"github.com/rebeliceyang/lazyinv/internal/models"
	"github.com/rebeliceyang/lazyinv/internal/ui/theme"
)

// FilterChangedMsg is sent whenever the facet selections change
type FilterChangedMsg struct {
	Filter models.Filter
	CQL    string
}

// facetRow is one line of the panel: a facet header when value is empty
type facetRow struct {
	facet int
	value string
}

// FacetPanel lists the facets of a segment and lets the user select values
type FacetPanel struct {
	Width  int
	Height int
	Theme  theme.Theme

	facets  []models.Facet
	builder *filter.Builder
	filter  models.Filter

	rows   []facetRow
	cursor int
	offset int

	editMode        string // "", "value", "range"
	input           textinput.Model
	validationError string
	previewCQL      string
}

// NewFacetPanel creates a panel for a segment's facets
func NewFacetPanel(seg models.Segment, facets []models.Facet, th theme.Theme) *FacetPanel {
	ti := textinput.New()
	ti.CharLimit = 256
	ti.Width = 30

	p := &FacetPanel{
		Width:  40,
		Height: 20,
		Theme:  th,
		input:  ti,
	}
	p.SetFacets(seg, facets)
	return p
}

// SetFacets replaces the facets and clears every selection
func (p *FacetPanel) SetFacets(seg models.Segment, facets []models.Facet) {
	p.facets = facets
	p.builder = filter.NewBuilder(facets)
	p.filter = models.Filter{Segment: seg}
	p.cursor = 0
	p.offset = 0
	p.editMode = ""
	p.validationError = ""
	p.previewCQL = ""
	p.rebuildRows()
}

// Filter returns the current selections
func (p *FacetPanel) Filter() models.Filter {
	return p.filter
}

// CQL returns the compiled filter, empty when nothing is selected or the
// selections are invalid
func (p *FacetPanel) CQL() string {
	if p.validationError != "" {
		return ""
	}
	return p.previewCQL
}

// Error returns the current validation error
func (p *FacetPanel) Error() string {
	return p.validationError
}

// Inputting reports whether the panel is capturing typed text
func (p *FacetPanel) Inputting() bool {
	return p.editMode != ""
}

// ClearAll drops every selection
func (p *FacetPanel) ClearAll() tea.Cmd {
	p.filter = models.Filter{Segment: p.filter.Segment}
	return p.changed()
}

// rebuildRows flattens facets and their values. Values selected by typing
// are listed after the configured ones.
func (p *FacetPanel) rebuildRows() {
	p.rows = p.rows[:0]
	for i, f := range p.facets {
		p.rows = append(p.rows, facetRow{facet: i})
		for _, v := range p.rowValues(f) {
			p.rows = append(p.rows, facetRow{facet: i, value: v})
		}
	}
	p.cursor = min(p.cursor, max(len(p.rows)-1, 0))
}

func (p *FacetPanel) rowValues(f models.Facet) []string {
	switch f.Kind {
	case models.FacetBoolean:
		return []string{"true", "false"}
	case models.FacetDateRange:
		return nil
	}
	values := slices.Clone(f.Values)
	if sel, ok := p.filter.Selected(f.Name); ok {
		for _, v := range sel.Values {
			if !slices.Contains(values, v) {
				values = append(values, v)
			}
		}
	}
	return values
}

// Update handles keyboard input
func (p *FacetPanel) Update(msg tea.KeyMsg) (*FacetPanel, tea.Cmd) {
	switch p.editMode {
	case "value", "range":
		return p.handleInputMode(msg)
	default:
		return p.handleNavigationMode(msg)
	}
}

// handleNavigationMode handles keys while moving through the list
func (p *FacetPanel) handleNavigationMode(msg tea.KeyMsg) (*FacetPanel, tea.Cmd) {
	if len(p.rows) == 0 {
		return p, nil
	}
	row := p.rows[p.cursor]
	facet := p.facets[row.facet]

	switch msg.String() {
	case "up", "k":
		if p.cursor > 0 {
			p.cursor--
		}
	case "down", "j":
		if p.cursor < len(p.rows)-1 {
			p.cursor++
		}
	case " ":
		if row.value == "" {
			return p, nil
		}
		p.filter = filter.Toggle(p.filter, facet.Name, row.value)
		return p, p.changed()
	case "enter":
		switch facet.Kind {
		case models.FacetDateRange:
			p.editMode = "range"
			p.input.Placeholder = "YYYY-MM-DD..YYYY-MM-DD"
			p.input.SetValue(p.rangeText(facet.Name))
		case models.FacetBoolean:
			return p, nil
		default:
			p.editMode = "value"
			p.input.Placeholder = "value"
			p.input.SetValue("")
		}
		p.input.CursorEnd()
		return p, p.input.Focus()
	case "x", "d":
		p.filter = filter.Clear(p.filter, facet.Name)
		return p, p.changed()
	}
	p.scrollIntoView()
	return p, nil
}

// handleInputMode handles typed values and date ranges
func (p *FacetPanel) handleInputMode(msg tea.KeyMsg) (*FacetPanel, tea.Cmd) {
	facet := p.facets[p.rows[p.cursor].facet]

	switch msg.String() {
	case "esc":
		p.editMode = ""
		p.input.Blur()
		return p, nil
	case "enter":
		text := strings.TrimSpace(p.input.Value())
		if p.editMode == "range" {
			from, to, _ := strings.Cut(text, "..")
			p.filter = filter.SetRange(p.filter, facet.Name, strings.TrimSpace(from), strings.TrimSpace(to))
		} else if text != "" {
			if sel, ok := p.filter.Selected(facet.Name); !ok || !slices.Contains(sel.Values, text) {
				p.filter = filter.Toggle(p.filter, facet.Name, text)
			}
		}
		p.editMode = ""
		p.input.Blur()
		return p, p.changed()
	}

	var cmd tea.Cmd
	p.input, cmd = p.input.Update(msg)
	return p, cmd
}

func (p *FacetPanel) rangeText(name string) string {
	sel, ok := p.filter.Selected(name)
	if !ok || (sel.From == "" && sel.To == "") {
		return ""
	}
	return sel.From + ".." + sel.To
}

// changed recompiles the filter and notifies the app
func (p *FacetPanel) changed() tea.Cmd {
	p.rebuildRows()
	p.updatePreview()

	msg := FilterChangedMsg{Filter: p.filter, CQL: p.CQL()}
	return func() tea.Msg { return msg }
}

// updatePreview updates the CQL preview
func (p *FacetPanel) updatePreview() {
	cql, err := p.builder.BuildFilter(p.filter)
	if err != nil {
		p.validationError = err.Error()
		p.previewCQL = ""
		return
	}
	p.validationError = ""
	p.previewCQL = cql
}

func (p *FacetPanel) visibleRows() int {
	// title, preview and error lines
	return max(p.Height-4, 1)
}

func (p *FacetPanel) scrollIntoView() {
	visible := p.visibleRows()
	if p.cursor < p.offset {
		p.offset = p.cursor
	}
	if p.cursor >= p.offset+visible {
		p.offset = p.cursor - visible + 1
	}
}

// View renders the facet list
func (p *FacetPanel) View(focused bool) string {
	var sections []string

	headerStyle := lipgloss.NewStyle().Foreground(p.Theme.FacetName).Bold(true)
	valueStyle := lipgloss.NewStyle().Foreground(p.Theme.Foreground)
	selectedStyle := lipgloss.NewStyle().Foreground(p.Theme.FacetSelected)
	mutedStyle := lipgloss.NewStyle().Foreground(p.Theme.Muted)
	contentWidth := max(p.Width-4, 8)

	p.scrollIntoView()
	end := min(p.offset+p.visibleRows(), len(p.rows))
	for i := p.offset; i < end; i++ {
		row := p.rows[i]
		facet := p.facets[row.facet]
		sel, _ := p.filter.Selected(facet.Name)

		var line string
		if row.value == "" {
			line = headerStyle.Render(runewidth.Truncate(facet.Name, contentWidth, "…"))
			if facet.Kind == models.FacetDateRange && (sel.From != "" || sel.To != "") {
				line += " " + selectedStyle.Render(sel.From+".."+sel.To)
			}
		} else {
			box := "[ ] "
			style := valueStyle
			if slices.Contains(sel.Values, row.value) {
				box = "[x] "
				style = selectedStyle
			}
			line = "  " + style.Render(box+runewidth.Truncate(row.value, contentWidth-6, "…"))
		}

		if focused && i == p.cursor && p.editMode == "" {
			line = lipgloss.NewStyle().Background(p.Theme.Selection).Render(line)
		}
		sections = append(sections, line)
	}

	if p.editMode != "" {
		label := "Value"
		if p.editMode == "range" {
			label = "Range"
		}
		sections = append(sections, fmt.Sprintf("%s: %s", label, p.input.View()))
	}

	if p.validationError != "" {
		errorStyle := lipgloss.NewStyle().Foreground(p.Theme.Error).Bold(true)
		sections = append(sections, errorStyle.Render("Error: "+p.validationError))
	} else if p.previewCQL != "" {
		sections = append(sections, mutedStyle.Italic(true).Render(runewidth.Truncate(p.previewCQL, contentWidth, "…")))
	}

	return strings.Join(sections, "\n")
}
