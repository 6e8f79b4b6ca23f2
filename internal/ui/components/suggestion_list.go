package components

import (
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/rebeliceyang/lazyinv/internal/models"
	"github.com/rebeliceyang/lazyinv/internal/ui/theme"
)

// SuggestionList renders the dropdown under the query field. It keeps the
// focused item inside a window of at most MaxVisible rows.
type SuggestionList struct {
	Items      []models.Option
	Focused    int // -1 when nothing is highlighted
	MaxVisible int
	Width      int
	Theme      theme.Theme

	offset int
}

// NewSuggestionList creates an empty list
func NewSuggestionList(th theme.Theme) *SuggestionList {
	return &SuggestionList{
		Focused:    -1,
		MaxVisible: 8,
		Width:      40,
		Theme:      th,
	}
}

// SetItems replaces the items and focused index. The scroll offset is kept
// when the items did not change so that moving the focus scrolls smoothly.
func (l *SuggestionList) SetItems(items []models.Option, focused int) {
	same := slices.EqualFunc(l.Items, items, func(a, b models.Option) bool {
		return a.Kind == b.Kind && a.Label == b.Label
	})
	if !same {
		l.offset = 0
	}
	l.Items = items
	l.Focused = focused
	l.scrollIntoView()
}

// Window returns the half-open range of visible items
func (l *SuggestionList) Window() (start, end int) {
	visible := l.visibleRows()
	start = l.offset
	end = min(start+visible, len(l.Items))
	return start, end
}

func (l *SuggestionList) visibleRows() int {
	if l.MaxVisible <= 0 {
		return len(l.Items)
	}
	return l.MaxVisible
}

// scrollIntoView moves the window so the focused item is visible
func (l *SuggestionList) scrollIntoView() {
	visible := l.visibleRows()
	if l.Focused >= 0 {
		if l.Focused < l.offset {
			l.offset = l.Focused
		}
		if l.Focused >= l.offset+visible {
			l.offset = l.Focused - visible + 1
		}
	}
	maxOffset := max(len(l.Items)-visible, 0)
	l.offset = max(min(l.offset, maxOffset), 0)
}

// View renders the visible items
func (l *SuggestionList) View() string {
	if len(l.Items) == 0 {
		return ""
	}

	itemStyle := lipgloss.NewStyle().Foreground(l.Theme.Suggestion)
	focusedStyle := lipgloss.NewStyle().
		Foreground(l.Theme.Background).
		Background(l.Theme.SuggestionFocused).
		Bold(true)
	hintStyle := lipgloss.NewStyle().Foreground(l.Theme.Muted)

	contentWidth := max(l.Width-2, 4)
	start, end := l.Window()

	var lines []string
	if start > 0 {
		lines = append(lines, hintStyle.Render("  ▲"))
	}
	for i := start; i < end; i++ {
		item := l.Items[i]
		label := runewidth.Truncate(item.Label, contentWidth-2, "…")
		pad := strings.Repeat(" ", max(contentWidth-2-runewidth.StringWidth(label), 0))
		if i == l.Focused {
			lines = append(lines, focusedStyle.Render("▸ "+label+pad))
			continue
		}
		lines = append(lines, itemStyle.Render("  "+label+pad))
	}
	if end < len(l.Items) {
		lines = append(lines, hintStyle.Render("  ▼"))
	}

	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(l.Theme.Border)

	return boxStyle.Render(strings.Join(lines, "\n"))
}
