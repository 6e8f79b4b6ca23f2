package models

import "strings"

// OptionKind tags the structural role of a vocabulary entry
type OptionKind int

const (
	KindSearchOption OptionKind = iota
	KindOperator
	KindBooleanOperator
	KindTerm
)

func (k OptionKind) String() string {
	switch k {
	case KindSearchOption:
		return "search option"
	case KindOperator:
		return "operator"
	case KindBooleanOperator:
		return "boolean operator"
	case KindTerm:
		return "term"
	default:
		return "unknown"
	}
}

// Option is a single vocabulary entry offered by the query editor.
// Search options carry the backend index template, operators the relation template.
type Option struct {
	Kind          OptionKind `mapstructure:"-" yaml:"-"`
	Label         string     `mapstructure:"label" yaml:"label"`
	Value         string     `mapstructure:"value" yaml:"value"`
	QueryTemplate string     `mapstructure:"query_template" yaml:"query_template"`
}

// SearchOption creates a searchable index entry
func SearchOption(label, value, queryTemplate string) Option {
	return Option{Kind: KindSearchOption, Label: label, Value: value, QueryTemplate: queryTemplate}
}

// Operator creates a comparison operator entry
func Operator(label, queryTemplate string) Option {
	return Option{Kind: KindOperator, Label: label, Value: label, QueryTemplate: queryTemplate}
}

// BooleanOperator creates an AND/OR entry. The template defaults to the lowercased label.
func BooleanOperator(label string) Option {
	return Option{Kind: KindBooleanOperator, Label: label, Value: label, QueryTemplate: strings.ToLower(label)}
}

// Term creates a term suggestion
func Term(label string) Option {
	return Option{Kind: KindTerm, Label: label, Value: label}
}

// Vocabulary is the full set of entries the editor can offer for one segment
type Vocabulary struct {
	SearchOptions    []Option
	Operators        []Option
	BooleanOperators []Option
	Terms            []Option
}

// ForKind returns the entries of the given kind
func (v Vocabulary) ForKind(kind OptionKind) []Option {
	switch kind {
	case KindSearchOption:
		return v.SearchOptions
	case KindOperator:
		return v.Operators
	case KindBooleanOperator:
		return v.BooleanOperators
	case KindTerm:
		return v.Terms
	}
	return nil
}

// Lookup finds an entry of the given kind by label, case-insensitively
func (v Vocabulary) Lookup(kind OptionKind, label string) (Option, bool) {
	for _, opt := range v.ForKind(kind) {
		if strings.EqualFold(opt.Label, label) {
			return opt, true
		}
	}
	return Option{}, false
}

// KeywordOption returns the search option used for plain keyword searches
func (v Vocabulary) KeywordOption() (Option, bool) {
	for _, opt := range v.SearchOptions {
		if opt.Value == KeywordValue {
			return opt, true
		}
	}
	return Option{}, false
}

// KeywordValue is the value of the search option that searches all indexes
const KeywordValue = "all"

// Normalize stamps the kind on every entry so entries decoded from
// configuration carry the right tag.
func (v Vocabulary) Normalize() Vocabulary {
	out := Vocabulary{
		SearchOptions:    withKind(v.SearchOptions, KindSearchOption),
		Operators:        withKind(v.Operators, KindOperator),
		BooleanOperators: withKind(v.BooleanOperators, KindBooleanOperator),
		Terms:            withKind(v.Terms, KindTerm),
	}
	for i, b := range out.BooleanOperators {
		if b.QueryTemplate == "" {
			out.BooleanOperators[i].QueryTemplate = strings.ToLower(b.Label)
		}
	}
	return out
}

func withKind(opts []Option, kind OptionKind) []Option {
	if opts == nil {
		return nil
	}
	out := make([]Option, len(opts))
	for i, o := range opts {
		o.Kind = kind
		if o.Value == "" {
			o.Value = o.Label
		}
		out[i] = o
	}
	return out
}
