package query

import (
	"strings"

	"github.com/rebeliceyang/lazyinv/internal/models"
)

// Slot is the structural role the next resolved token fills
type Slot int

const (
	SlotSearchOption Slot = iota
	SlotOperator
	SlotTerm
	SlotBooleanOperator
)

func (s Slot) String() string {
	switch s {
	case SlotSearchOption:
		return "search option"
	case SlotOperator:
		return "operator"
	case SlotTerm:
		return "term"
	case SlotBooleanOperator:
		return "boolean operator"
	default:
		return "unknown"
	}
}

// Part is one committed token, including its trailing space
type Part struct {
	Text string
	Slot Slot
}

// EditSession describes a committed part re-opened for retyping.
// Before and After are never modified while the session is open.
type EditSession struct {
	Index    int
	Slot     Slot
	Before   string // not editable value before the part
	After    string // not editable value after the part, pending text included
	Original string
	Pending  string // pending text at the time editing started
}

// State is the whole query field state. Transitions never modify a State in
// place; they return a new value.
type State struct {
	Committed string
	Parts     []Part
	Pending   string

	SearchOption string
	Operator     string
	Term         string

	// BracketDepth counts "(" not yet closed. Carried is set when a boolean
	// operator inside an open group kept the search option and operator.
	BracketDepth int
	Carried      bool

	Editing *EditSession
	Warning string

	Suggestions []models.Option
	Focused     int
	ListOpen    bool

	Keyword bool
}

// NewState returns the initial state
func NewState() State {
	return State{Focused: -1}
}

// Slot returns the first unset clause field
func (s State) Slot() Slot {
	switch {
	case s.SearchOption == "":
		return SlotSearchOption
	case s.Operator == "":
		return SlotOperator
	case s.Term == "":
		return SlotTerm
	default:
		return SlotBooleanOperator
	}
}

// activeSlot is the slot being typed, which differs from Slot while editing
func (s State) activeSlot() Slot {
	if s.Editing != nil {
		return s.Editing.Slot
	}
	return s.Slot()
}

// Display is the text shown in the input field
func (s State) Display() string {
	if s.Editing != nil {
		return s.Editing.Before + s.Pending + s.Editing.After
	}
	return s.Committed + s.Pending
}

// HasWarning reports whether the pending token is flagged
func (s State) HasWarning() bool {
	return s.Warning != ""
}

// IsEditing reports whether a committed part is re-opened
func (s State) IsEditing() bool {
	return s.Editing != nil
}

// FocusedSuggestion returns the highlighted suggestion, if any
func (s State) FocusedSuggestion() (models.Option, bool) {
	if s.Focused < 0 || s.Focused >= len(s.Suggestions) {
		return models.Option{}, false
	}
	return s.Suggestions[s.Focused], true
}

func joinParts(parts []Part) string {
	var b strings.Builder
	for _, p := range parts {
		b.WriteString(p.Text)
	}
	return b.String()
}

// partAt returns the index of the part containing byte offset pos
func partAt(parts []Part, pos int) int {
	start := 0
	for i, p := range parts {
		if pos < start+len(p.Text) {
			return i
		}
		start += len(p.Text)
	}
	return len(parts) - 1
}

// Effect is an output of a transition for the rendering layer or the host
type Effect interface {
	effect()
}

// DisplayEffect asks the host to show Text in the input
type DisplayEffect struct {
	Text string
}

// CaretEffect asks the host to move the caret
type CaretEffect struct {
	Pos int
}

// SubmitEffect carries a compiled query to the search trigger
type SubmitEffect struct {
	Query   string
	Human   string
	Keyword bool
}

// BlurEffect asks the host to drop focus from the input
type BlurEffect struct{}

func (DisplayEffect) effect() {}
func (CaretEffect) effect()   {}
func (SubmitEffect) effect()  {}
func (BlurEffect) effect()    {}
