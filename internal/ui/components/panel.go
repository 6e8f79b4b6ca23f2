package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/rebeliceyang/lazyinv/internal/ui/theme"
)

// Panel frames one area of the screen. The title line carries a key hint
// on the right, and the border follows focus.
type Panel struct {
	Title   string
	Hint    string
	Content string
	Width   int
	Height  int
	Focused bool
	Theme   theme.Theme
}

// NewPanel creates an unfocused panel
func NewPanel(title, hint string, th theme.Theme) Panel {
	return Panel{Title: title, Hint: hint, Theme: th}
}

// ContentHeight is the number of lines left below the title
func (p *Panel) ContentHeight() int {
	return max(p.Height-1, 0)
}

// View renders the panel, or nothing before it has a size
func (p *Panel) View() string {
	if p.Width <= 0 || p.Height <= 0 {
		return ""
	}

	border := p.Theme.Border
	if p.Focused {
		border = p.Theme.BorderFocused
	}
	style := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Width(p.Width).
		Height(p.Height)

	return style.Render(p.titleLine() + "\n" + p.Content)
}

func (p *Panel) titleLine() string {
	titleStyle := lipgloss.NewStyle().Bold(true).Padding(0, 1)
	if !p.Focused {
		titleStyle = titleStyle.Faint(true)
	}
	title := titleStyle.Render(p.Title)

	// the hint is dropped before the title is cut
	gap := p.Width - runewidth.StringWidth(p.Title) - 2 - runewidth.StringWidth(p.Hint) - 1
	if p.Hint == "" || gap < 1 {
		return title
	}
	hint := lipgloss.NewStyle().Foreground(p.Theme.Muted).Render(p.Hint)
	return title + strings.Repeat(" ", gap) + hint
}
