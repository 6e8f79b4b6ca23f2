package theme

import "github.com/charmbracelet/lipgloss"

// DefaultTheme returns the default dark theme
func DefaultTheme() Theme {
	return Theme{
		Name: "default",

		// Background colors
		Background: lipgloss.Color("235"),
		Foreground: lipgloss.Color("252"),

		// UI elements
		Border:        lipgloss.Color("240"),
		BorderFocused: lipgloss.Color("62"),
		Selection:     lipgloss.Color("237"),
		Cursor:        lipgloss.Color("248"),
		Muted:         lipgloss.Color("244"),

		// Status colors
		Success: lipgloss.Color("42"),
		Warning: lipgloss.Color("220"),
		Error:   lipgloss.Color("196"),
		Info:    lipgloss.Color("75"),

		// Query parts
		SearchOption:    lipgloss.Color("117"),
		Operator:        lipgloss.Color("252"),
		Term:            lipgloss.Color("180"),
		BooleanOperator: lipgloss.Color("75"),
		Pending:         lipgloss.Color("248"),

		// Suggestion list
		Suggestion:        lipgloss.Color("252"),
		SuggestionFocused: lipgloss.Color("62"),

		// Facets
		FacetName:     lipgloss.Color("150"),
		FacetSelected: lipgloss.Color("42"),
	}
}
