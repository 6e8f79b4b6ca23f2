package query

import (
	"errors"
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/rebeliceyang/lazyinv/internal/models"
)

// Options tunes the builder
type Options struct {
	// MaxSuggestions caps the dropdown. Zero means no cap.
	MaxSuggestions int
	// KeywordFallback submits unrecognized input as a keyword search
	KeywordFallback bool
}

// DefaultOptions returns the options used when nothing is configured
func DefaultOptions() Options {
	return Options{MaxSuggestions: 10, KeywordFallback: true}
}

// Builder turns text changes and key events into a progressively committed
// clause structure. It holds no per-field state: every transition takes a
// State and returns the next one plus the effects the host must apply.
type Builder struct {
	vocab    models.Vocabulary
	compiler *Compiler
	opts     Options
}

// NewBuilder creates a builder for one vocabulary
func NewBuilder(vocab models.Vocabulary, opts Options) *Builder {
	c := NewCompiler(vocab)
	return &Builder{vocab: c.vocab, compiler: c, opts: opts}
}

// Vocabulary returns the normalized vocabulary
func (b *Builder) Vocabulary() models.Vocabulary {
	return b.vocab
}

// Compiler returns the compiler sharing the builder's vocabulary
func (b *Builder) Compiler() *Compiler {
	return b.compiler
}

// Reset returns an empty field with the search option list prepared but closed
func (b *Builder) Reset() State {
	s := b.refresh(NewState())
	s.ListOpen = false
	return s
}

// TextChanged handles a new input value. caret is the byte offset of the
// caret after the change.
func (b *Builder) TextChanged(s State, value string, caret int) (State, []Effect) {
	if value == "" {
		return b.Reset(), nil
	}
	if s.Editing != nil {
		return b.editChanged(s, value)
	}
	if strings.HasPrefix(value, s.Committed) {
		ns := b.appendChanged(s, value[len(s.Committed):], true)
		return ns, syncDisplay(value, ns)
	}
	// deleting backwards from the end un-commits rather than editing
	if !strings.HasPrefix(s.Committed, value) && caret < len(s.Committed) {
		if ns, ok := b.EnterEditingMode(s, value, caret); ok {
			return ns, nil
		}
	}
	ns := b.Replay(value)
	return ns, syncDisplay(value, ns)
}

// Replay rebuilds the state for value as if it had been typed one rune at a
// time. The final rune never completes an operator on its own, so
// backspacing over the space after "=" leaves "=" pending.
func (b *Builder) Replay(value string) State {
	s := b.Reset()
	start := 0
	for i := 1; i <= len(value); i++ {
		if i < len(value) && !utf8.RuneStart(value[i]) {
			continue
		}
		s = b.appendChanged(s, value[start:i], i < len(value))
		if s.Pending == "" {
			start = i
		}
	}
	return s
}

// appendChanged updates the pending token typed after the committed text.
// eager lets an exact unambiguous operator commit without a trailing space.
func (b *Builder) appendChanged(s State, pending string, eager bool) State {
	prev := s.Pending
	if s.Committed != "" {
		// committed text already ends with the delimiter
		pending = strings.TrimLeftFunc(pending, unicode.IsSpace)
	}
	s.Pending = pending
	s.Keyword = false

	if strings.TrimSpace(pending) != "" {
		if ns, ok := b.autoCommit(s, eager); ok {
			return b.refresh(ns)
		}
	}
	s.Warning = b.validate(prev, s)
	return b.refresh(s)
}

// autoCommit commits the pending token without an explicit Enter
func (b *Builder) autoCommit(s State, eager bool) (State, bool) {
	token := strings.TrimSpace(s.Pending)
	trailingSpace := endsWithSpace(s.Pending)

	switch s.Slot() {
	case SlotOperator:
		if trailingSpace || (eager && b.uniqueOperator(token)) {
			return b.commit(s, token)
		}
		return s, false

	case SlotTerm:
		if !trailingSpace || insideQuotes(s.Pending) {
			return s, false
		}
		if s.Carried {
			if ns, ok := b.reopen(s, token); ok {
				return ns, true
			}
		}
		before, word := lastWord(s.Pending)
		if strings.TrimSpace(before) != "" && !insideQuotes(before) {
			if bo, ok := lookupLabel(b.vocab.BooleanOperators, word); ok {
				ns, ok := b.commit(s, before)
				if !ok {
					return s, false
				}
				return b.commit(ns, bo.Label)
			}
		}
		if s.BracketDepth > 0 && strings.HasSuffix(token, ")") {
			return b.commit(s, token)
		}
		return s, false

	default:
		if !trailingSpace {
			return s, false
		}
		return b.commit(s, token)
	}
}

// uniqueOperator reports whether token names an operator that no longer label extends
func (b *Builder) uniqueOperator(token string) bool {
	if _, ok := lookupLabel(b.vocab.Operators, token); !ok {
		return false
	}
	for _, op := range b.vocab.Operators {
		if matchRank(op.Label, token) == rankPrefix {
			return false
		}
	}
	return true
}

// CommitToken resolves token against the current slot. An explicit commit
// (Enter) of an unknown first token falls back to a keyword search.
func (b *Builder) CommitToken(s State, token string, explicit bool) (State, []Effect) {
	if explicit && b.keywordFallback(s, token) {
		return b.submitKeyword(s)
	}
	ns, ok := b.commit(s, token)
	if !ok {
		return ns, nil
	}
	return ns, show(ns)
}

// commit appends the canonical form of token to the committed text. On
// failure the returned state carries the warning and nothing advances.
func (b *Builder) commit(s State, token string) (State, bool) {
	token = strings.TrimSpace(token)
	if token == "" {
		return s, false
	}
	slot := s.Slot()
	if slot == SlotTerm && s.Carried {
		if ns, ok := b.reopen(s, token); ok {
			return ns, true
		}
	}
	text, ok := b.resolve(slot, token, s.BracketDepth)
	if !ok {
		s.Warning = UnmatchedTokenWarning(token, slot).Message
		return s, false
	}
	return applyPart(s, Part{Text: text + " ", Slot: slot}), true
}

// reopen starts a new clause from a search option typed where a grouped
// term was expected, as in "(Title = foo OR Title = bar)"
func (b *Builder) reopen(s State, token string) (State, bool) {
	core := stripOpenBracket(token)
	open := token[:len(token)-len(core)]
	opt, ok := lookupLabel(b.vocab.SearchOptions, core)
	if !ok {
		return s, false
	}
	return applyPart(s, Part{Text: open + opt.Label + " ", Slot: SlotSearchOption}), true
}

// resolve returns the canonical committed form of token for slot. depth
// bounds how many ")" a term may close.
func (b *Builder) resolve(slot Slot, token string, depth int) (string, bool) {
	if slot == SlotSearchOption {
		// labels such as "Identifier (all)" may end with ")"
		core := stripOpenBracket(token)
		opt, ok := lookupLabel(b.vocab.SearchOptions, core)
		if !ok {
			return "", false
		}
		return token[:len(token)-len(core)] + opt.Label, true
	}

	open, core, closing := splitBrackets(token)
	switch slot {
	case SlotOperator, SlotBooleanOperator:
		if open != "" || closing != "" {
			return "", false
		}
		opt, ok := lookupLabel(b.slotOptions(slot), core)
		if !ok {
			return "", false
		}
		return opt.Label, true

	case SlotTerm:
		if open != "" || unquote(core) == "" || len(closing) > depth {
			return "", false
		}
		if len(b.vocab.Terms) > 0 && !b.termAccepted(unquote(core)) {
			return "", false
		}
		return AddQuotes(core + closing), true
	}
	return "", false
}

// applyPart appends a resolved part and folds it into the clause fields
func applyPart(s State, p Part) State {
	s.Parts = append(slices.Clip(s.Parts), p)
	s.Committed += p.Text
	s.Pending = ""
	s.Warning = ""

	label := strings.TrimSpace(p.Text)
	switch p.Slot {
	case SlotSearchOption:
		core := stripOpenBracket(label)
		s.BracketDepth += len(label) - len(core)
		s.SearchOption, s.Operator, s.Term = core, "", ""
		s.Carried = false
	case SlotOperator:
		s.Operator = label
	case SlotTerm:
		_, core, closing := splitBrackets(label)
		s.Term = unquote(core)
		s.BracketDepth = max(0, s.BracketDepth-len(closing))
	case SlotBooleanOperator:
		if s.BracketDepth > 0 {
			s.Term = ""
			s.Carried = true
		} else {
			s.SearchOption, s.Operator, s.Term = "", "", ""
			s.Carried = false
		}
	}
	return s
}

// rebuild folds parts into a fresh state
func rebuild(parts []Part) State {
	s := NewState()
	for _, p := range parts {
		s = applyPart(s, p)
	}
	return s
}

// ChooseSuggestion commits label as if it had been typed. A "(" run typed
// before the label is kept.
func (b *Builder) ChooseSuggestion(s State, label string) (State, []Effect) {
	raw := strings.TrimLeftFunc(s.Pending, unicode.IsSpace)
	open := raw[:len(raw)-len(stripOpenBracket(raw))]
	if s.Editing != nil {
		s.Pending = open + label
		return b.ConfirmEdit(s)
	}
	ns, ok := b.commit(s, open+label)
	if !ok {
		return ns, nil
	}
	return ns, show(ns)
}

// Submit handles Enter
func (b *Builder) Submit(s State) (State, []Effect) {
	if s.Editing != nil {
		return b.ConfirmEdit(s)
	}
	if opt, ok := s.FocusedSuggestion(); ok && s.ListOpen {
		return b.ChooseSuggestion(s, opt.Label)
	}

	pending := strings.TrimSpace(s.Pending)
	if pending == "" {
		if s.Committed == "" {
			return s, nil
		}
		return b.submitQuery(s)
	}

	ns, effects := b.CommitToken(s, pending, true)
	if ns.Keyword || ns.Pending != "" {
		return ns, effects
	}
	if ns.Slot() == SlotBooleanOperator && ns.BracketDepth == 0 {
		ns, more := b.submitQuery(ns)
		return ns, append(effects, more...)
	}
	return ns, effects
}

// Preview returns the query Submit would send for s without changing it.
// An empty query previews as "". A clause or group that is still open is an
// ErrIncomplete error; a pending token that matches nothing is ErrUnmatchedToken.
func (b *Builder) Preview(s State) (string, error) {
	if s.Editing != nil {
		return "", IncompleteQueryError("editing")
	}
	s.Parts = slices.Clone(s.Parts)

	if pending := strings.TrimSpace(s.Pending); pending != "" {
		if b.keywordFallback(s, pending) {
			return b.compiler.CompileKeyword(strings.TrimSpace(s.Display()))
		}
		ns, ok := b.commit(s, pending)
		if !ok {
			return "", UnmatchedTokenWarning(pending, s.Slot())
		}
		s = ns
	}

	if strings.TrimSpace(s.Committed) == "" {
		return "", nil
	}
	if s.Slot() != SlotBooleanOperator || s.BracketDepth > 0 {
		return "", IncompleteQueryError("incomplete")
	}
	return b.compiler.Compile(strings.TrimSpace(s.Committed))
}

func (b *Builder) keywordFallback(s State, token string) bool {
	if !b.opts.KeywordFallback || s.Committed != "" || s.Slot() != SlotSearchOption {
		return false
	}
	_, ok := lookupLabel(b.vocab.SearchOptions, stripOpenBracket(strings.TrimSpace(token)))
	return !ok
}

func (b *Builder) submitKeyword(s State) (State, []Effect) {
	raw := strings.TrimSpace(s.Display())
	q, err := b.compiler.CompileKeyword(raw)
	if err != nil {
		s.Warning = errorMessage(err)
		return s, nil
	}
	s.Warning = ""
	s.Keyword = true
	s = closeList(s)
	return s, []Effect{SubmitEffect{Query: q, Human: raw, Keyword: true}}
}

func (b *Builder) submitQuery(s State) (State, []Effect) {
	human := strings.TrimSpace(s.Committed)
	q, err := b.compiler.Compile(human)
	if err != nil {
		s.Warning = errorMessage(err)
		return s, nil
	}
	s.Warning = ""
	s.Keyword = false
	s = closeList(s)
	return s, []Effect{SubmitEffect{Query: q, Human: human}}
}

// MoveFocus moves the highlighted suggestion by delta, wrapping around
func (b *Builder) MoveFocus(s State, delta int) State {
	n := len(s.Suggestions)
	if n == 0 || delta == 0 {
		return s
	}
	s.ListOpen = true
	switch {
	case s.Focused < 0 && delta > 0:
		s.Focused = 0
	case s.Focused < 0:
		s.Focused = n - 1
	default:
		s.Focused = ((s.Focused+delta)%n + n) % n
	}
	return s
}

// CloseList hides the dropdown without committing anything
func (b *Builder) CloseList(s State) State {
	return closeList(s)
}

// Blur handles Escape: editing is cancelled and focus leaves the field
func (b *Builder) Blur(s State) (State, []Effect) {
	var effects []Effect
	if s.Editing != nil {
		s, effects = b.CancelEdit(s)
	}
	s = closeList(s)
	return s, append(effects, BlurEffect{})
}

func closeList(s State) State {
	s.ListOpen = false
	s.Focused = -1
	return s
}

// validate returns the warning for the pending token
func (b *Builder) validate(prevPending string, s State) string {
	tok := stripOpenBracket(strings.TrimLeftFunc(s.Pending, unicode.IsSpace))
	if strings.TrimSpace(tok) == "" {
		return ""
	}
	// an invalid token stays invalid while it grows, until a delimiter
	if s.Warning != "" && prevPending != "" && strings.HasPrefix(s.Pending, prevPending) && !endsWithSpace(s.Pending) {
		return s.Warning
	}
	slot := s.activeSlot()
	if b.accepts(s, slot, tok) {
		return ""
	}
	return UnmatchedTokenWarning(strings.TrimSpace(tok), slot).Message
}

// accepts reports whether tok is, or may still become, valid for slot
func (b *Builder) accepts(s State, slot Slot, tok string) bool {
	if slot == SlotTerm {
		if s.Carried && s.Editing == nil && hasPrefixMatch(b.vocab.SearchOptions, strings.TrimSpace(tok)) {
			return true
		}
		if len(b.vocab.Terms) == 0 {
			return true
		}
		core := unquote(strings.TrimRight(strings.TrimSpace(tok), ")"))
		return b.termAccepted(core) || hasPrefixMatch(b.vocab.Terms, core)
	}
	opts := b.slotOptions(slot)
	return hasPrefixMatch(opts, tok) || hasPrefixMatch(opts, strings.TrimSpace(tok))
}

// termAccepted reports whether term equals or starts with a term suggestion
func (b *Builder) termAccepted(term string) bool {
	lower := strings.ToLower(term)
	for _, t := range b.vocab.Terms {
		if strings.HasPrefix(lower, strings.ToLower(t.Label)) {
			return true
		}
	}
	return false
}

func (b *Builder) slotOptions(slot Slot) []models.Option {
	switch slot {
	case SlotSearchOption:
		return b.vocab.SearchOptions
	case SlotOperator:
		return b.vocab.Operators
	case SlotBooleanOperator:
		return b.vocab.BooleanOperators
	case SlotTerm:
		return b.vocab.Terms
	}
	return nil
}

// refresh recomputes the dropdown for the active slot and pending token
func (b *Builder) refresh(s State) State {
	slot := s.activeSlot()
	token := strings.TrimLeftFunc(s.Pending, unicode.IsSpace)
	opts := b.slotOptions(slot)
	if slot == SlotTerm && s.Carried && s.Editing == nil && strings.TrimSpace(stripOpenBracket(token)) != "" {
		opts = slices.Concat(opts, b.vocab.SearchOptions)
	}
	s.Suggestions = FilterSuggestions(opts, token, b.opts.MaxSuggestions)
	s.Focused = -1
	s.ListOpen = len(s.Suggestions) > 0
	return s
}

// show asks the host to display the state with the caret at the end
func show(s State) []Effect {
	d := s.Display()
	return []Effect{DisplayEffect{Text: d}, CaretEffect{Pos: len(d)}}
}

// syncDisplay returns display effects only when the state differs from what was typed
func syncDisplay(typed string, s State) []Effect {
	if s.Display() == typed {
		return nil
	}
	return show(s)
}

func endsWithSpace(s string) bool {
	r, _ := utf8.DecodeLastRuneInString(s)
	return s != "" && unicode.IsSpace(r)
}

func errorMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}
