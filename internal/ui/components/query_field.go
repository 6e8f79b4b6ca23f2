package components

import (
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"github.com/rebeliceyang/lazyinv/internal/logger"
	"github.com/rebeliceyang/lazyinv/internal/query"
	"github.com/rebeliceyang/lazyinv/internal/ui/theme"
)

// SubmitQueryMsg is sent when the field produced a compiled query
type SubmitQueryMsg struct {
	FieldID uuid.UUID
	Query   string
	Human   string
	Keyword bool
}

// QueryFieldBlurredMsg is sent when the field gave up focus
type QueryFieldBlurredMsg struct {
	FieldID uuid.UUID
}

// QueryField is the structured query input. Key presses go to the text
// input, value changes go to the builder, and the builder's effects are
// written back into the text input.
type QueryField struct {
	ID      uuid.UUID
	Input   textinput.Model
	Builder *query.Builder
	State   query.State
	Theme   theme.Theme
	Width   int

	list *SuggestionList
}

// NewQueryField creates a focused, empty query field
func NewQueryField(b *query.Builder, th theme.Theme) *QueryField {
	ti := textinput.New()
	ti.Placeholder = "Type a search option, or just words for a keyword search..."
	ti.Prompt = "› "
	ti.CharLimit = 1024
	ti.Width = 60
	ti.Cursor.Style = lipgloss.NewStyle().Foreground(th.Cursor)
	ti.Focus()

	return &QueryField{
		ID:      uuid.New(),
		Input:   ti,
		Builder: b,
		State:   b.Reset(),
		Theme:   th,
		Width:   80,
		list:    NewSuggestionList(th),
	}
}

// SetBuilder swaps the vocabulary and clears the field
func (q *QueryField) SetBuilder(b *query.Builder) {
	q.Builder = b
	q.Reset()
}

// Reset clears the field
func (q *QueryField) Reset() {
	q.State = q.Builder.Reset()
	q.Input.SetValue("")
	q.Input.CursorStart()
}

// Load replaces the field content with text, rebuilding the parts as if
// it had been typed
func (q *QueryField) Load(text string) {
	q.State = q.Builder.CloseList(q.Builder.Replay(text))
	q.Input.SetValue(q.State.Display())
	q.Input.CursorEnd()
}

// Focus gives the field keyboard focus
func (q *QueryField) Focus() tea.Cmd {
	return q.Input.Focus()
}

// Blur removes keyboard focus
func (q *QueryField) Blur() {
	q.Input.Blur()
}

// Focused reports whether the field has keyboard focus
func (q *QueryField) Focused() bool {
	return q.Input.Focused()
}

// Update handles messages
func (q *QueryField) Update(msg tea.Msg) (*QueryField, tea.Cmd) {
	if !q.Input.Focused() {
		return q, nil
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "up":
			q.State = q.Builder.MoveFocus(q.State, -1)
			return q, nil
		case "down":
			q.State = q.Builder.MoveFocus(q.State, 1)
			return q, nil
		case "tab":
			q.State = q.Builder.CloseList(q.State)
			return q, nil
		case "enter":
			var effects []query.Effect
			q.State, effects = q.Builder.Submit(q.State)
			q.logWarning()
			return q, q.apply(effects)
		case "esc":
			var effects []query.Effect
			q.State, effects = q.Builder.Blur(q.State)
			return q, q.apply(effects)
		}

	case tea.MouseMsg:
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			q.State = q.Builder.MoveFocus(q.State, -1)
		case tea.MouseButtonWheelDown:
			q.State = q.Builder.MoveFocus(q.State, 1)
		}
		return q, nil
	}

	before := q.Input.Value()
	var cmd tea.Cmd
	q.Input, cmd = q.Input.Update(msg)

	value := q.Input.Value()
	if value == before {
		return q, cmd
	}

	var effects []query.Effect
	q.State, effects = q.Builder.TextChanged(q.State, value, q.caretOffset())
	return q, tea.Batch(cmd, q.apply(effects))
}

// caretOffset converts the text input's rune position to a byte offset
func (q *QueryField) caretOffset() int {
	runes := []rune(q.Input.Value())
	pos := min(max(q.Input.Position(), 0), len(runes))
	return len(string(runes[:pos]))
}

// apply writes builder effects back into the text input
func (q *QueryField) apply(effects []query.Effect) tea.Cmd {
	var cmds []tea.Cmd
	for _, e := range effects {
		switch e := e.(type) {
		case query.DisplayEffect:
			q.Input.SetValue(e.Text)
			q.Input.CursorEnd()
		case query.CaretEffect:
			value := q.Input.Value()
			pos := min(max(e.Pos, 0), len(value))
			q.Input.SetCursor(utf8.RuneCountInString(value[:pos]))
		case query.SubmitEffect:
			msg := SubmitQueryMsg{FieldID: q.ID, Query: e.Query, Human: e.Human, Keyword: e.Keyword}
			logger.Debugf("field %s submitted %q as %q", q.ID, e.Human, e.Query)
			cmds = append(cmds, func() tea.Msg { return msg })
		case query.BlurEffect:
			q.Blur()
			id := q.ID
			cmds = append(cmds, func() tea.Msg { return QueryFieldBlurredMsg{FieldID: id} })
		}
	}
	return tea.Batch(cmds...)
}

func (q *QueryField) logWarning() {
	if q.State.HasWarning() {
		logger.Debugf("field %s warning: %s", q.ID, q.State.Warning)
	}
}

// View renders the field, its warning and the suggestion list
func (q *QueryField) View() string {
	q.Input.Width = max(q.Width-8, 10)

	border := q.Theme.Border
	if q.Input.Focused() {
		border = q.Theme.BorderFocused
	}
	if q.State.HasWarning() {
		border = q.Theme.Warning
	}

	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Padding(0, 1).
		Width(max(q.Width-2, 0))

	content := q.Input.View()
	if !q.Input.Focused() && q.State.Display() != "" {
		content = q.renderParts()
	}

	sections := []string{boxStyle.Render(content)}

	if q.State.HasWarning() {
		warnStyle := lipgloss.NewStyle().Foreground(q.Theme.Warning).Padding(0, 1)
		sections = append(sections, warnStyle.Render("⚠ "+q.State.Warning))
	}

	if q.Input.Focused() && q.State.ListOpen {
		q.list.Width = min(q.Width, 50)
		q.list.SetItems(q.State.Suggestions, q.State.Focused)
		if list := q.list.View(); list != "" {
			sections = append(sections, list)
		}
	}

	return strings.Join(sections, "\n")
}

// renderParts colors committed parts by the slot they fill
func (q *QueryField) renderParts() string {
	var b strings.Builder
	for _, p := range q.State.Parts {
		b.WriteString(lipgloss.NewStyle().Foreground(q.slotColor(p.Slot)).Render(p.Text))
	}
	if q.State.Pending != "" {
		b.WriteString(lipgloss.NewStyle().Foreground(q.Theme.Pending).Italic(true).Render(q.State.Pending))
	}
	return b.String()
}

func (q *QueryField) slotColor(slot query.Slot) lipgloss.Color {
	switch slot {
	case query.SlotSearchOption:
		return q.Theme.SearchOption
	case query.SlotOperator:
		return q.Theme.Operator
	case query.SlotTerm:
		return q.Theme.Term
	default:
		return q.Theme.BooleanOperator
	}
}
