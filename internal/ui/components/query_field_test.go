package components

import (
	"strings"
	"testing"

	"github.com/charmbracelet/bubbles/cursor"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rebeliceyang/lazyinv/internal/models"
	"github.com/rebeliceyang/lazyinv/internal/query"
	"github.com/rebeliceyang/lazyinv/internal/ui/theme"
)

func newTestQueryField() *QueryField {
	b := query.NewBuilder(models.DefaultVocabulary(models.SegmentInstances), query.DefaultOptions())
	f := NewQueryField(b, theme.DefaultTheme())
	// A blinking cursor returns commands that sleep
	f.Input.Cursor.SetMode(cursor.CursorStatic)
	return f
}

func runeKey(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

// typeKeys sends text one key at a time and collects the resulting messages
func typeKeys(f *QueryField, text string) []tea.Msg {
	var msgs []tea.Msg
	for _, r := range text {
		var cmd tea.Cmd
		f, cmd = f.Update(runeKey(r))
		msgs = append(msgs, collect(cmd)...)
	}
	return msgs
}

func press(f *QueryField, key tea.KeyType) []tea.Msg {
	_, cmd := f.Update(tea.KeyMsg{Type: key})
	return collect(cmd)
}

// collect runs cmd and flattens batches, keeping the field's own messages
func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var msgs []tea.Msg
		for _, c := range batch {
			msgs = append(msgs, collect(c)...)
		}
		return msgs
	}
	switch msg.(type) {
	case SubmitQueryMsg, QueryFieldBlurredMsg:
		return []tea.Msg{msg}
	}
	return nil
}

func findSubmitMsg(msgs []tea.Msg) (SubmitQueryMsg, bool) {
	for _, m := range msgs {
		if sub, ok := m.(SubmitQueryMsg); ok {
			return sub, true
		}
	}
	return SubmitQueryMsg{}, false
}

func TestQueryField_TypeAndSubmit(t *testing.T) {
	f := newTestQueryField()

	typeKeys(f, "Title =")
	if got := f.Input.Value(); got != "Title = " {
		t.Errorf("expected operator to be committed, got '%s'", got)
	}

	typeKeys(f, "gatsby")
	sub, ok := findSubmitMsg(press(f, tea.KeyEnter))
	if !ok {
		t.Fatal("expected a SubmitQueryMsg after Enter")
	}
	if sub.Query != `title all "gatsby"` {
		t.Errorf("expected 'title all \"gatsby\"', got '%s'", sub.Query)
	}
	if sub.FieldID != f.ID {
		t.Error("submit message should carry the field id")
	}
	if sub.Keyword {
		t.Error("structured query reported as keyword search")
	}
}

func TestQueryField_KeywordSearch(t *testing.T) {
	f := newTestQueryField()

	typeKeys(f, "gatsby")
	sub, ok := findSubmitMsg(press(f, tea.KeyEnter))
	if !ok {
		t.Fatal("expected keyword submit")
	}
	if !sub.Keyword {
		t.Error("expected keyword flag")
	}
	if sub.Query != `keyword all "gatsby"` {
		t.Errorf("unexpected keyword query '%s'", sub.Query)
	}
}

func TestQueryField_SuggestionNavigation(t *testing.T) {
	f := newTestQueryField()

	typeKeys(f, "I")
	if len(f.State.Suggestions) < 2 {
		t.Fatalf("expected several suggestions for 'I', got %d", len(f.State.Suggestions))
	}

	press(f, tea.KeyDown)
	if f.State.Focused != 0 {
		t.Errorf("expected first suggestion focused, got %d", f.State.Focused)
	}
	press(f, tea.KeyUp)
	if f.State.Focused != len(f.State.Suggestions)-1 {
		t.Errorf("expected focus to wrap to the last item, got %d", f.State.Focused)
	}

	press(f, tea.KeyDown)
	chosen := f.State.Suggestions[0].Label
	press(f, tea.KeyEnter)
	if got := f.Input.Value(); got != chosen+" " {
		t.Errorf("expected '%s ', got '%s'", chosen, got)
	}
	if f.State.Slot() != query.SlotOperator {
		t.Errorf("expected operator slot, got %s", f.State.Slot())
	}
}

func TestQueryField_TabClosesList(t *testing.T) {
	f := newTestQueryField()

	typeKeys(f, "Ti")
	if !f.State.ListOpen {
		t.Fatal("expected suggestion list to be open")
	}
	press(f, tea.KeyTab)
	if f.State.ListOpen {
		t.Error("expected Tab to close the list")
	}
	if f.Input.Value() != "Ti" {
		t.Errorf("Tab must not commit, got '%s'", f.Input.Value())
	}
}

func TestQueryField_EscBlurs(t *testing.T) {
	f := newTestQueryField()
	typeKeys(f, "Ti")

	msgs := press(f, tea.KeyEsc)
	if f.Focused() {
		t.Error("expected field to lose focus")
	}
	found := false
	for _, m := range msgs {
		if _, ok := m.(QueryFieldBlurredMsg); ok {
			found = true
		}
	}
	if !found {
		t.Error("expected QueryFieldBlurredMsg")
	}

	// Keys are ignored while blurred
	typeKeys(f, "x")
	if f.Input.Value() != "Ti" {
		t.Errorf("blurred field changed to '%s'", f.Input.Value())
	}
}

func TestQueryField_Warning(t *testing.T) {
	f := newTestQueryField()
	typeKeys(f, "Title zz ")

	if !f.State.HasWarning() {
		t.Fatal("expected warning for unknown operator")
	}
	if !strings.Contains(f.View(), f.State.Warning) {
		t.Error("expected warning to be rendered")
	}
}

func TestQueryField_BackspaceReopensPart(t *testing.T) {
	f := newTestQueryField()
	typeKeys(f, "Title ")
	if f.State.Committed != "Title " {
		t.Fatalf("expected 'Title ' committed, got '%s'", f.State.Committed)
	}

	press(f, tea.KeyBackspace)
	if f.State.Committed != "" {
		t.Errorf("expected nothing committed after backspace, got '%s'", f.State.Committed)
	}
	if f.State.Pending != "Title" {
		t.Errorf("expected 'Title' pending, got '%s'", f.State.Pending)
	}
}

func TestQueryField_Reset(t *testing.T) {
	f := newTestQueryField()
	typeKeys(f, "Title = foo")

	f.Reset()
	if f.Input.Value() != "" || f.State.Display() != "" {
		t.Error("expected empty field after reset")
	}
}

func TestQueryField_BlurredViewColorsParts(t *testing.T) {
	f := newTestQueryField()
	typeKeys(f, "Title = foo")
	f.Blur()

	if !strings.Contains(f.View(), "Title") {
		t.Error("expected committed parts in blurred view")
	}
}

func TestQueryField_Load(t *testing.T) {
	f := newTestQueryField()
	f.Load("Title = gatsby")

	if f.Input.Value() != "Title = gatsby" {
		t.Errorf("unexpected input value '%s'", f.Input.Value())
	}
	if f.State.ListOpen {
		t.Error("loading must not open the suggestion list")
	}

	sub, ok := findSubmitMsg(press(f, tea.KeyEnter))
	if !ok {
		t.Fatal("expected a SubmitQueryMsg after Enter")
	}
	if sub.Query != `title all "gatsby"` {
		t.Errorf("unexpected query '%s'", sub.Query)
	}
}
