package query

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEditing_ReplaceTerm(t *testing.T) {
	b := newTestBuilder()
	s := typeText(b, b.Reset(), "Title = foo AND Contributor = ")
	require.Equal(t, "Title = foo AND Contributor = ", s.Committed)

	// backspace the last "o" of foo
	s, effects := b.TextChanged(s, "Title = fo AND Contributor = ", len("Title = fo"))
	require.True(t, s.IsEditing())
	assert.Empty(t, effects)
	assert.Equal(t, SlotTerm, s.Editing.Slot)
	// the edited part keeps its separating space
	assert.Equal(t, "fo ", s.Pending)

	before, after := s.Editing.Before, s.Editing.After
	assert.Equal(t, "Title = ", before)
	assert.Equal(t, "AND Contributor = ", after)

	s, _ = b.TextChanged(s, "Title = the fun AND Contributor = ", len("Title = the fun"))
	require.True(t, s.IsEditing())
	assert.Equal(t, "the fun ", s.Pending)
	assert.Equal(t, before, s.Editing.Before)
	assert.Equal(t, after, s.Editing.After)

	s, effects = b.ConfirmEdit(s)
	require.False(t, s.IsEditing())

	want := `Title = "the fun" AND Contributor = `
	assert.Equal(t, want, s.Display())
	assert.True(t, strings.HasPrefix(s.Display(), before))
	assert.True(t, strings.HasSuffix(s.Display(), after))
	assert.Equal(t, want, applyDisplay("", effects))
	assert.Contains(t, effects, CaretEffect{Pos: len(`Title = "the fun" `)})

	// clause fields follow the last clause
	assert.Equal(t, "Contributor", s.SearchOption)
	assert.Equal(t, "=", s.Operator)
	assert.Empty(t, s.Term)
}

func TestEditing_ReplaceSearchOption(t *testing.T) {
	b := newTestBuilder()
	s := typeText(b, b.Reset(), "Title = foo AND ")

	s, _ = b.TextChanged(s, "Contributor = foo AND ", len("Contributor"))
	require.True(t, s.IsEditing())
	assert.Equal(t, SlotSearchOption, s.Editing.Slot)
	assert.Empty(t, s.Editing.Before)

	s, _ = b.Submit(s)
	assert.False(t, s.IsEditing())
	assert.Equal(t, "Contributor = foo AND ", s.Committed)

	s = typeText(b, s, "Title = bar")
	_, effects := b.Submit(s)
	sub, ok := findSubmit(effects)
	require.True(t, ok)
	assert.Equal(t, `contributors= "foo" and title all "bar"`, sub.Query)
}

func TestEditing_KeepsPendingText(t *testing.T) {
	b := newTestBuilder()
	s := typeText(b, b.Reset(), "Title = ga")

	s, _ = b.TextChanged(s, "title = ga", 1)
	require.True(t, s.IsEditing())
	assert.Equal(t, "= ga", s.Editing.After)

	s, _ = b.ConfirmEdit(s)
	assert.Equal(t, "Title = ga", s.Display())
	assert.Equal(t, "ga", s.Pending)
}

func TestEditing_InvalidTokenStaysOpen(t *testing.T) {
	b := newTestBuilder()
	s := typeText(b, b.Reset(), "Title = foo")

	s, _ = b.TextChanged(s, "Title x foo", len("Title x"))
	require.True(t, s.IsEditing())
	assert.Equal(t, SlotOperator, s.Editing.Slot)
	assert.True(t, s.HasWarning())

	s, effects := b.ConfirmEdit(s)
	assert.Empty(t, effects)
	assert.True(t, s.IsEditing())
	assert.True(t, s.HasWarning())

	s, effects = b.CancelEdit(s)
	assert.False(t, s.IsEditing())
	assert.False(t, s.HasWarning())
	assert.Equal(t, "Title = foo", s.Display())
	assert.Equal(t, "Title = foo", applyDisplay("", effects))
}

func TestEditing_EscapeCancels(t *testing.T) {
	b := newTestBuilder()
	s := typeText(b, b.Reset(), "Title = foo AND ")

	s, _ = b.TextChanged(s, "Titl = foo AND ", len("Titl"))
	require.True(t, s.IsEditing())

	s, effects := b.Blur(s)
	assert.False(t, s.IsEditing())
	assert.Equal(t, "Title = foo AND ", s.Display())
	assert.Contains(t, effects, BlurEffect{})
}

func TestEditing_ChangeAcrossPartsReplays(t *testing.T) {
	b := newTestBuilder()
	s := typeText(b, b.Reset(), "Title = foo AND ")

	// a selection spanning the operator and the term was replaced
	s, _ = b.TextChanged(s, "Title bar AND ", len("Title bar"))
	assert.False(t, s.IsEditing())
	assert.Equal(t, "Title ", s.Committed)
	assert.True(t, s.HasWarning())
}
