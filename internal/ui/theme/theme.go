package theme

import "github.com/charmbracelet/lipgloss"

// Theme defines the color scheme and styling
type Theme struct {
	Name string

	// Background colors
	Background lipgloss.Color
	Foreground lipgloss.Color

	// UI elements
	Border        lipgloss.Color
	BorderFocused lipgloss.Color
	Selection     lipgloss.Color
	Cursor        lipgloss.Color
	Muted         lipgloss.Color

	// Status colors
	Success lipgloss.Color
	Warning lipgloss.Color
	Error   lipgloss.Color
	Info    lipgloss.Color

	// Query parts
	SearchOption    lipgloss.Color
	Operator        lipgloss.Color
	Term            lipgloss.Color
	BooleanOperator lipgloss.Color
	Pending         lipgloss.Color

	// Suggestion list
	Suggestion        lipgloss.Color
	SuggestionFocused lipgloss.Color

	// Facets
	FacetName     lipgloss.Color
	FacetSelected lipgloss.Color
}

// GetTheme returns a theme by name
func GetTheme(name string) Theme {
	switch name {
	case "catppuccin-mocha", "catppuccin":
		return CatppuccinMochaTheme()
	default:
		return DefaultTheme()
	}
}
