package help

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// KeyBinding represents a keyboard shortcut
type KeyBinding struct {
	Key         string
	Description string
}

// GetGlobalKeys returns global key bindings
func GetGlobalKeys() []KeyBinding {
	return []KeyBinding{
		{"F1", "Toggle help"},
		{"Ctrl+C", "Quit application"},
		{"Ctrl+T", "Switch segment"},
		{"Ctrl+Y", "Copy compiled query"},
		{"Ctrl+L", "Clear query and facets"},
		{"Ctrl+R", "Browse recent searches"},
		{"Esc/Enter", "Dismiss error"},
	}
}

// GetQueryKeys returns query field key bindings
func GetQueryKeys() []KeyBinding {
	return []KeyBinding{
		{"Space", "Commit the typed token"},
		{"↑/↓", "Move through suggestions"},
		{"Enter", "Choose suggestion or search"},
		{"Tab", "Close suggestions, then go to facets"},
		{"Esc", "Cancel edit and leave the field"},
		{"Backspace", "Delete, reopening the last part"},
		{"PgUp/PgDn", "Scroll the compiled query"},
	}
}

// GetFacetKeys returns facet panel key bindings
func GetFacetKeys() []KeyBinding {
	return []KeyBinding{
		{"↑/k", "Move up"},
		{"↓/j", "Move down"},
		{"Space", "Toggle value"},
		{"Enter", "Type a value or date range"},
		{"x", "Clear facet"},
		{"Tab, Esc, /", "Back to the query field"},
		{"?", "Toggle help"},
		{"q", "Quit application"},
	}
}

// GetHistoryKeys returns recent searches key bindings
func GetHistoryKeys() []KeyBinding {
	return []KeyBinding{
		{"↑/k ↓/j", "Select search"},
		{"PgUp/PgDn", "Page through searches"},
		{"Enter", "Load into the query field"},
		{"y", "Copy compiled query"},
		{"Tab, Esc, /", "Back to the query field"},
	}
}

// Render creates the help view
func Render(width, height int, theme lipgloss.Style) string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("62")).
		Padding(1, 0)

	sectionStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("75")).
		Padding(0, 0, 0, 2)

	keyStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("220")).
		Width(20)

	descStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("252"))

	var b strings.Builder

	b.WriteString(titleStyle.Render("lazyinv - Keyboard Shortcuts"))
	b.WriteString("\n\n")

	sections := []struct {
		title string
		keys  []KeyBinding
	}{
		{"Global", GetGlobalKeys()},
		{"Query", GetQueryKeys()},
		{"Facets", GetFacetKeys()},
		{"Recent searches", GetHistoryKeys()},
	}
	for _, sec := range sections {
		b.WriteString(sectionStyle.Render(sec.title))
		b.WriteString("\n")
		for _, kb := range sec.keys {
			b.WriteString("  ")
			b.WriteString(keyStyle.Render(kb.Key))
			b.WriteString(descStyle.Render(kb.Description))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	b.WriteString(lipgloss.NewStyle().Faint(true).Render("Press '?' or Esc to close help"))

	boxStyle := theme.
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("62")).
		Padding(1, 2).
		Width(max(width-4, 0)).
		Height(max(height-4, 0))

	return boxStyle.Render(b.String())
}
