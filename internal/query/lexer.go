package query

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/rebeliceyang/lazyinv/internal/models"
)

// TokenKind is the type of a lexed token
type TokenKind int

const (
	TokWord TokenKind = iota
	TokString
	TokSearchOption
	TokOperator
	TokBool
	TokLParen
	TokRParen
	TokEOF
)

func (k TokenKind) String() string {
	switch k {
	case TokWord:
		return "Word"
	case TokString:
		return "String"
	case TokSearchOption:
		return "SearchOption"
	case TokOperator:
		return "Operator"
	case TokBool:
		return "Bool"
	case TokLParen:
		return "LParen"
	case TokRParen:
		return "RParen"
	case TokEOF:
		return "EOF"
	default:
		return "Unknown"
	}
}

// Token represents a lexical token of a human readable query
type Token struct {
	Kind   TokenKind
	Value  string
	Pos    int
	Option models.Option
}

// labelMatcher finds vocabulary labels as whole tokens, longest label first
type labelMatcher struct {
	pattern *regexp.Regexp
	labels  map[string]models.Option
}

func newLabelMatcher(searchOptions, operators []models.Option) *labelMatcher {
	m := &labelMatcher{labels: make(map[string]models.Option)}
	// operators win on label collisions
	for _, group := range [][]models.Option{searchOptions, operators} {
		for _, opt := range group {
			if opt.Label == "" {
				continue
			}
			m.labels[strings.ToLower(opt.Label)] = opt
		}
	}
	if len(m.labels) == 0 {
		return m
	}

	keys := make([]string, 0, len(m.labels))
	for k := range m.labels {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) > len(keys[j])
		}
		return keys[i] < keys[j]
	})
	quoted := make([]string, len(keys))
	for i, k := range keys {
		quoted[i] = regexp.QuoteMeta(k)
	}
	m.pattern = regexp.MustCompile(`(?i)^(?:` + strings.Join(quoted, "|") + `)`)
	return m
}

// match returns the label matched at the start of s, if it ends on a token boundary
func (m *labelMatcher) match(s string) (models.Option, int, bool) {
	if m.pattern == nil {
		return models.Option{}, 0, false
	}
	loc := m.pattern.FindStringIndex(s)
	if loc == nil {
		return models.Option{}, 0, false
	}
	end := loc[1]
	last, _ := utf8.DecodeLastRuneInString(s[:end])
	if end < len(s) && isWordRune(last) && !isBoundary(s[end:]) && !m.operatorAt(s[end:]) {
		return models.Option{}, 0, false
	}
	opt, ok := m.labels[strings.ToLower(s[:end])]
	return opt, end, ok
}

// operatorAt reports whether s starts with an operator label, as in "Title=foo"
func (m *labelMatcher) operatorAt(s string) bool {
	loc := m.pattern.FindStringIndex(s)
	if loc == nil {
		return false
	}
	opt, ok := m.labels[strings.ToLower(s[:loc[1]])]
	return ok && opt.Kind == models.KindOperator
}

// isBoundary reports whether a label may end right before s
func isBoundary(s string) bool {
	r, _ := utf8.DecodeRuneInString(s)
	return unicode.IsSpace(r) || r == '(' || r == ')' || r == '"'
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}

// Lexer tokenizes a human readable query against a vocabulary
type Lexer struct {
	input    string
	pos      int
	labels   *labelMatcher
	booleans []models.Option
	pending  []Token
}

// NewLexer creates a lexer for input
func NewLexer(input string, labels *labelMatcher, booleans []models.Option) *Lexer {
	return &Lexer{input: input, labels: labels, booleans: booleans}
}

// Lex tokenizes the entire input
func (l *Lexer) Lex() ([]Token, error) {
	var tokens []Token
	for {
		tok, err := l.Next()
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, tok)
		if tok.Kind == TokEOF {
			return tokens, nil
		}
	}
}

// Next returns the next token
func (l *Lexer) Next() (Token, error) {
	if len(l.pending) > 0 {
		tok := l.pending[0]
		l.pending = l.pending[1:]
		return tok, nil
	}

	l.skipWhitespace()
	if l.pos >= len(l.input) {
		return Token{Kind: TokEOF, Pos: l.pos}, nil
	}

	start := l.pos
	rest := l.input[l.pos:]

	switch rest[0] {
	case '(':
		l.pos++
		return Token{Kind: TokLParen, Value: "(", Pos: start}, nil
	case ')':
		l.pos++
		return Token{Kind: TokRParen, Value: ")", Pos: start}, nil
	case '"':
		return l.scanString()
	}

	if word := l.peekWord(); word != "" {
		for _, b := range l.booleans {
			if strings.EqualFold(word, b.Label) {
				l.pos += len(word)
				return Token{Kind: TokBool, Value: word, Pos: start, Option: b}, nil
			}
		}
	}

	if opt, n, ok := l.labels.match(rest); ok {
		l.pos += n
		kind := TokSearchOption
		if opt.Kind == models.KindOperator {
			kind = TokOperator
		}
		return Token{Kind: kind, Value: rest[:n], Pos: start, Option: opt}, nil
	}

	return l.scanWord(), nil
}

func (l *Lexer) skipWhitespace() {
	for l.pos < len(l.input) {
		r, size := utf8.DecodeRuneInString(l.input[l.pos:])
		if !unicode.IsSpace(r) {
			return
		}
		l.pos += size
	}
}

// peekWord returns the run of word runes at the current position
func (l *Lexer) peekWord() string {
	end := l.pos
	for end < len(l.input) {
		r, size := utf8.DecodeRuneInString(l.input[end:])
		if !isWordRune(r) {
			break
		}
		end += size
	}
	if end < len(l.input) {
		r, _ := utf8.DecodeRuneInString(l.input[end:])
		if !unicode.IsSpace(r) && r != '(' && r != ')' && r != '"' {
			return ""
		}
	}
	return l.input[l.pos:end]
}

func (l *Lexer) scanString() (Token, error) {
	start := l.pos
	l.pos++ // opening quote
	for l.pos < len(l.input) {
		switch l.input[l.pos] {
		case '\\':
			l.pos += 2
			continue
		case '"':
			l.pos++
			return Token{Kind: TokString, Value: l.input[start:l.pos], Pos: start}, nil
		}
		l.pos++
	}
	l.pos = len(l.input)
	return Token{}, MalformedQueryError("unterminated quoted term", start)
}

// scanWord reads up to whitespace or a quote; a trailing ")" run becomes RParen tokens
func (l *Lexer) scanWord() Token {
	start := l.pos
	for l.pos < len(l.input) {
		r, size := utf8.DecodeRuneInString(l.input[l.pos:])
		if unicode.IsSpace(r) || r == '"' {
			break
		}
		l.pos += size
	}
	word := l.input[start:l.pos]
	// a word never starts with ")", Next handles that case
	trimmed := strings.TrimRight(word, ")")
	for i := len(trimmed); i < len(word); i++ {
		l.pending = append(l.pending, Token{Kind: TokRParen, Value: ")", Pos: start + i})
	}
	return Token{Kind: TokWord, Value: trimmed, Pos: start}
}

func (t Token) String() string {
	if t.Kind == TokEOF {
		return "end of query"
	}
	return fmt.Sprintf("%q", t.Value)
}
