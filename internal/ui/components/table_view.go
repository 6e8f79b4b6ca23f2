package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/rebeliceyang/lazyinv/internal/ui/theme"
)

// TableView displays rows with a fixed header and scrolling
type TableView struct {
	Columns []string
	Rows    [][]string
	Width   int
	Height  int
	Focused bool
	Theme   theme.Theme

	// StyleCell, when set, styles a padded cell of an unselected row
	StyleCell func(row, col int, cell string) string

	// Scrolling state
	TopRow      int
	VisibleRows int
	SelectedRow int

	// Column widths (calculated)
	ColumnWidths []int
}

// NewTableView creates a new table view
func NewTableView(th theme.Theme) *TableView {
	return &TableView{
		Theme:        th,
		Columns:      []string{},
		Rows:         [][]string{},
		ColumnWidths: []int{},
	}
}

// SetData sets the table data, keeping the selection in range
func (tv *TableView) SetData(columns []string, rows [][]string) {
	tv.Columns = columns
	tv.Rows = rows
	tv.SelectedRow = min(tv.SelectedRow, max(len(rows)-1, 0))
	tv.calculateColumnWidths()
}

// calculateColumnWidths sizes every column to its content. The last
// column takes whatever width is left.
func (tv *TableView) calculateColumnWidths() {
	if len(tv.Columns) == 0 {
		return
	}

	tv.ColumnWidths = make([]int, len(tv.Columns))
	for i, col := range tv.Columns {
		tv.ColumnWidths[i] = runewidth.StringWidth(col)
	}
	for _, row := range tv.Rows {
		for i, cell := range row {
			if i < len(tv.ColumnWidths) {
				tv.ColumnWidths[i] = max(tv.ColumnWidths[i], runewidth.StringWidth(cell))
			}
		}
	}

	const maxWidth = 30
	used := 0
	last := len(tv.ColumnWidths) - 1
	for i := range last {
		tv.ColumnWidths[i] = min(tv.ColumnWidths[i], maxWidth)
		used += tv.ColumnWidths[i] + 3 // " │ "
	}
	if tv.Width > 0 {
		tv.ColumnWidths[last] = max(tv.Width-used-2, 5)
	}
}

// Selected returns the index of the selected row, or -1 when empty
func (tv *TableView) Selected() int {
	if len(tv.Rows) == 0 {
		return -1
	}
	return tv.SelectedRow
}

// View renders the table
func (tv *TableView) View() string {
	mutedStyle := lipgloss.NewStyle().Foreground(tv.Theme.Muted).Italic(true)
	if len(tv.Columns) == 0 || len(tv.Rows) == 0 {
		return mutedStyle.Render("No searches yet")
	}
	tv.calculateColumnWidths()

	var b strings.Builder
	b.WriteString(tv.renderHeader())
	b.WriteString("\n")
	b.WriteString(tv.renderSeparator())

	// Header + separator + status
	tv.VisibleRows = max(tv.Height-3, 1)
	tv.scrollIntoView()

	endRow := min(tv.TopRow+tv.VisibleRows, len(tv.Rows))
	for i := tv.TopRow; i < endRow; i++ {
		b.WriteString("\n")
		b.WriteString(tv.renderRow(i, tv.Focused && i == tv.SelectedRow))
	}

	b.WriteString("\n")
	b.WriteString(mutedStyle.Render(fmt.Sprintf(" %d-%d of %d", tv.TopRow+1, endRow, len(tv.Rows))))
	return b.String()
}

func (tv *TableView) renderHeader() string {
	var parts []string
	for i, col := range tv.Columns {
		parts = append(parts, tv.pad(col, tv.ColumnWidths[i]))
	}
	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(tv.Theme.Info)
	return headerStyle.Render(" " + strings.Join(parts, " │ "))
}

func (tv *TableView) renderSeparator() string {
	var parts []string
	for _, width := range tv.ColumnWidths {
		parts = append(parts, strings.Repeat("─", width))
	}
	return lipgloss.NewStyle().Foreground(tv.Theme.Border).Render("─" + strings.Join(parts, "─┼─"))
}

func (tv *TableView) renderRow(index int, selected bool) string {
	var parts []string
	for i, cell := range tv.Rows[index] {
		if i >= len(tv.ColumnWidths) {
			break
		}
		cell = tv.pad(cell, tv.ColumnWidths[i])
		if !selected && tv.StyleCell != nil {
			cell = tv.StyleCell(index, i, cell)
		}
		parts = append(parts, cell)
	}

	line := " " + strings.Join(parts, " │ ")
	if selected {
		return lipgloss.NewStyle().
			Background(tv.Theme.Selection).
			Foreground(tv.Theme.Foreground).
			Bold(true).
			Render(line)
	}
	return line
}

// pad fits s into width display cells
func (tv *TableView) pad(s string, width int) string {
	if runewidth.StringWidth(s) > width {
		return runewidth.Truncate(s, width, "…")
	}
	return runewidth.FillRight(s, width)
}

func (tv *TableView) scrollIntoView() {
	if tv.SelectedRow < tv.TopRow {
		tv.TopRow = tv.SelectedRow
	}
	if tv.VisibleRows > 0 && tv.SelectedRow >= tv.TopRow+tv.VisibleRows {
		tv.TopRow = tv.SelectedRow - tv.VisibleRows + 1
	}
	tv.TopRow = max(min(tv.TopRow, len(tv.Rows)-tv.VisibleRows), 0)
}

// MoveSelection moves the selection up or down
func (tv *TableView) MoveSelection(delta int) {
	if len(tv.Rows) == 0 {
		return
	}
	tv.SelectedRow = min(max(tv.SelectedRow+delta, 0), len(tv.Rows)-1)
	tv.scrollIntoView()
}

// PageUp moves the selection one page up
func (tv *TableView) PageUp() {
	tv.MoveSelection(-max(tv.VisibleRows, 1))
}

// PageDown moves the selection one page down
func (tv *TableView) PageDown() {
	tv.MoveSelection(max(tv.VisibleRows, 1))
}
