package query

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/rebeliceyang/lazyinv/internal/models"
)

// TermPlaceholder marks where a legacy index template expects the raw term
const TermPlaceholder = "%{query.query}"

var multiSpace = regexp.MustCompile(` {2,}`)

// Compiler turns a human readable query into the backend query language
// by substituting every label with its template.
type Compiler struct {
	vocab  models.Vocabulary
	labels *labelMatcher
}

// NewCompiler creates a compiler for a vocabulary. Boolean operators default
// to AND/OR when the vocabulary has none.
func NewCompiler(vocab models.Vocabulary) *Compiler {
	if len(vocab.BooleanOperators) == 0 {
		vocab.BooleanOperators = models.DefaultBooleanOperators()
	}
	vocab = vocab.Normalize()
	return &Compiler{
		vocab:  vocab,
		labels: newLabelMatcher(vocab.SearchOptions, vocab.Operators),
	}
}

// Compile translates humanQuery using the given search options and operators
func Compile(humanQuery string, searchOptions, operators []models.Option) (string, error) {
	return NewCompiler(models.Vocabulary{
		SearchOptions: searchOptions,
		Operators:     operators,
	}).Compile(humanQuery)
}

// CompileKeyword builds a keyword search over the whole raw input
func CompileKeyword(raw string, searchOptions []models.Option) (string, error) {
	return NewCompiler(models.Vocabulary{SearchOptions: searchOptions}).CompileKeyword(raw)
}

// Parse validates humanQuery against the clause grammar
func (c *Compiler) Parse(humanQuery string) (*Group, error) {
	tokens, err := NewLexer(humanQuery, c.labels, c.vocab.BooleanOperators).Lex()
	if err != nil {
		return nil, err
	}
	return parse(humanQuery, tokens)
}

// Compile validates humanQuery and returns the backend query.
// A *Error of kind ErrMalformedQuery is returned when it does not parse.
func (c *Compiler) Compile(humanQuery string) (string, error) {
	g, err := c.Parse(humanQuery)
	if err != nil {
		return "", err
	}
	out := multiSpace.ReplaceAllString(c.render(g), " ")
	return strings.TrimSpace(out), nil
}

// CompileKeyword searches raw as a single phrase on the keyword index
func (c *Compiler) CompileKeyword(raw string) (string, error) {
	opt, ok := c.vocab.KeywordOption()
	if !ok {
		return "", NoKeywordIndexError()
	}
	raw = strings.TrimSpace(raw)
	tmpl := strings.TrimSpace(opt.QueryTemplate)
	if strings.Contains(tmpl, TermPlaceholder) {
		return strings.ReplaceAll(tmpl, TermPlaceholder, escapeTerm(raw)), nil
	}
	return tmpl + ` "` + escapeTerm(raw) + `"`, nil
}

func (c *Compiler) render(n Node) string {
	switch v := n.(type) {
	case *Clause:
		return renderClause(v)
	case *Group:
		var b strings.Builder
		if v.Paren {
			b.WriteString("(")
		}
		for i, child := range v.Nodes {
			if i > 0 {
				b.WriteString(" ")
				b.WriteString(v.Joins[i-1].QueryTemplate)
				b.WriteString(" ")
			}
			b.WriteString(c.render(child))
		}
		if v.Paren {
			b.WriteString(")")
		}
		return b.String()
	}
	return ""
}

func renderClause(c *Clause) string {
	index := strings.TrimSpace(c.SearchOption.QueryTemplate)
	if index == "" {
		index = c.SearchOption.Value
	}
	if strings.Contains(index, TermPlaceholder) {
		return strings.ReplaceAll(index, TermPlaceholder, escapeTerm(unquote(c.Term)))
	}

	parts := []string{index}
	if !carriesRelation(index) {
		parts = append(parts, c.Operator.QueryTemplate)
	}
	parts = append(parts, quoteTerm(c.Term))
	return strings.Join(parts, " ")
}

// carriesRelation reports whether an index template already ends with its
// relation, as in "title all" or "isbn==". Such templates absorb the operator.
func carriesRelation(tmpl string) bool {
	if tmpl == "" {
		return false
	}
	if strings.ContainsFunc(tmpl, unicode.IsSpace) {
		return true
	}
	last, _ := utf8.DecodeLastRuneInString(tmpl)
	return !isWordRune(last) && last != '.'
}

func escapeTerm(term string) string {
	return strings.ReplaceAll(term, `"`, `\"`)
}
