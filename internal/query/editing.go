package query

import (
	"math"
	"slices"
	"strings"
)

// EnterEditingMode re-opens the committed part changed by value. It fails
// when the change spans more than one part, in which case the caller
// replays the text instead.
func (b *Builder) EnterEditingMode(s State, value string, caret int) (State, bool) {
	if s.Editing != nil || len(s.Parts) == 0 {
		return s, false
	}
	pos := commonPrefixLen(s.Display(), value)
	if pos >= len(s.Committed) {
		if caret < 0 || caret >= len(s.Committed) {
			return s, false
		}
		pos = caret
	}

	idx := partAt(s.Parts, pos)
	before := joinParts(s.Parts[:idx])
	after := joinParts(s.Parts[idx+1:]) + s.Pending
	if len(value) < len(before)+len(after) ||
		!strings.HasPrefix(value, before) || !strings.HasSuffix(value, after) {
		return s, false
	}

	s.Editing = &EditSession{
		Index:    idx,
		Slot:     s.Parts[idx].Slot,
		Before:   before,
		After:    after,
		Original: s.Parts[idx].Text,
		Pending:  s.Pending,
	}
	s.Pending = value[len(before) : len(value)-len(after)]
	s.Warning = b.validate("", s)
	return b.refresh(s), true
}

func (b *Builder) editChanged(s State, value string) (State, []Effect) {
	e := s.Editing
	if len(value) >= len(e.Before)+len(e.After) &&
		strings.HasPrefix(value, e.Before) && strings.HasSuffix(value, e.After) {
		prev := s.Pending
		s.Pending = value[len(e.Before) : len(value)-len(e.After)]
		s.Warning = b.validate(prev, s)
		return b.refresh(s), nil
	}
	// the change escaped the edited part
	ns := b.Replay(value)
	return ns, syncDisplay(value, ns)
}

// ConfirmEdit validates the retyped part and stitches it back between the
// untouched text before and after it
func (b *Builder) ConfirmEdit(s State) (State, []Effect) {
	e := s.Editing
	if e == nil {
		return s, nil
	}
	token := strings.TrimSpace(s.Pending)
	// bracket balance of the whole query is checked when it compiles
	text, ok := b.resolve(e.Slot, token, math.MaxInt)
	if !ok {
		s.Warning = UnmatchedTokenWarning(token, e.Slot).Message
		return s, nil
	}

	parts := slices.Clone(s.Parts)
	parts[e.Index] = Part{Text: text + " ", Slot: e.Slot}
	ns := rebuild(parts)
	ns.Pending = e.Pending
	ns = closeList(b.refresh(ns))

	return ns, []Effect{
		DisplayEffect{Text: ns.Display()},
		CaretEffect{Pos: len(e.Before) + len(text) + 1},
	}
}

// CancelEdit drops the retyped text and restores the original part
func (b *Builder) CancelEdit(s State) (State, []Effect) {
	e := s.Editing
	if e == nil {
		return s, nil
	}
	s.Editing = nil
	s.Pending = e.Pending
	s.Warning = ""
	s = closeList(b.refresh(s))
	return s, show(s)
}

func commonPrefixLen(a, b string) int {
	n := min(len(a), len(b))
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			return i
		}
	}
	return n
}
