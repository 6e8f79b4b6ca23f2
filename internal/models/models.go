package models

// AppState holds the application state
type AppState struct {
	Width          int
	Height         int
	LeftPanelWidth int // percent of the width used by the facet panel
	FocusedPanel   PanelType
	ViewMode       ViewMode
	Segment        Segment
}

// PanelType identifies which panel is focused
type PanelType int

const (
	QueryPanel PanelType = iota
	FacetPanel
	HistoryPanel
)

// ViewMode identifies the current view
type ViewMode int

const (
	NormalMode ViewMode = iota
	HelpMode
)

// NewAppState creates a new AppState with defaults
func NewAppState() AppState {
	return AppState{
		Width:          80,
		Height:         24,
		LeftPanelWidth: 35,
		FocusedPanel:   QueryPanel,
		ViewMode:       NormalMode,
		Segment:        SegmentInstances,
	}
}
