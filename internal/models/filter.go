package models

// FacetKind determines how a facet selection is turned into a query fragment
type FacetKind string

const (
	FacetValues    FacetKind = "values"     // one or more discrete values
	FacetBoolean   FacetKind = "boolean"    // "true" / "false"
	FacetDateRange FacetKind = "date_range" // inclusive from/to dates
)

// Facet describes one filter that can narrow a search
type Facet struct {
	Name     string    `mapstructure:"name" yaml:"name"`
	CQL      string    `mapstructure:"cql" yaml:"cql"`
	Operator string    `mapstructure:"operator" yaml:"operator"` // defaults to "=="
	Kind     FacetKind `mapstructure:"kind" yaml:"kind"`
	Values   []string  `mapstructure:"values" yaml:"values"` // values offered in the UI
}

// Selected returns the selection for the named facet
func (f Filter) Selected(name string) (FacetSelection, bool) {
	for _, sel := range f.Selections {
		if sel.Name == name {
			return sel, true
		}
	}
	return FacetSelection{}, false
}

// FacetSelection holds what the user picked for one facet
type FacetSelection struct {
	Name   string
	Values []string
	From   string // FacetDateRange only, YYYY-MM-DD
	To     string
}

// Filter is the full set of facet selections applied to a segment
type Filter struct {
	Segment    Segment
	Selections []FacetSelection
}
