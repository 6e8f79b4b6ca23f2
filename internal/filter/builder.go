package filter

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/rebeliceyang/lazyinv/internal/models"
)

const dateLayout = "2006-01-02"

// Builder generates CQL filter clauses from facet selections
type Builder struct {
	facets map[string]models.Facet
}

// NewBuilder creates a filter builder for a segment's facets
func NewBuilder(facets []models.Facet) *Builder {
	b := &Builder{facets: make(map[string]models.Facet, len(facets))}
	for _, f := range facets {
		b.facets[f.Name] = f
	}
	return b
}

// BuildFilter generates the filter clause for f. Facets are ANDed together;
// an empty string means nothing is selected.
func (b *Builder) BuildFilter(filter models.Filter) (string, error) {
	var clauses []string
	for _, sel := range filter.Selections {
		clause, err := b.buildSelection(sel)
		if err != nil {
			return "", err
		}
		if clause != "" {
			clauses = append(clauses, clause)
		}
	}
	return strings.Join(clauses, " and "), nil
}

// buildSelection builds the clause of a single facet
func (b *Builder) buildSelection(sel models.FacetSelection) (string, error) {
	facet, ok := b.facets[sel.Name]
	if !ok {
		return "", fmt.Errorf("unknown facet: %s", sel.Name)
	}

	switch facet.Kind {
	case models.FacetBoolean:
		return buildBoolean(facet, sel.Values)
	case models.FacetDateRange:
		return buildDateRange(facet, sel.From, sel.To)
	case models.FacetValues, "":
		return buildValues(facet, sel.Values), nil
	default:
		return "", fmt.Errorf("unsupported facet kind %q for %s", facet.Kind, facet.Name)
	}
}

// buildValues matches any of the selected values: cql==("a" or "b")
func buildValues(facet models.Facet, values []string) string {
	if len(values) == 0 {
		return ""
	}
	op := facet.Operator
	if op == "" {
		op = "=="
	}
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = `"` + strings.ReplaceAll(v, `"`, `\"`) + `"`
	}
	return fmt.Sprintf("%s%s(%s)", facet.CQL, op, strings.Join(quoted, " or "))
}

// buildBoolean handles optional boolean facets. Selecting both values is
// the same as selecting none.
func buildBoolean(facet models.Facet, values []string) (string, error) {
	var picked []string
	for _, v := range values {
		v = strings.ToLower(strings.TrimSpace(v))
		if v != "true" && v != "false" {
			return "", fmt.Errorf("invalid value %q for boolean facet %s", v, facet.Name)
		}
		if !slices.Contains(picked, v) {
			picked = append(picked, v)
		}
	}
	if len(picked) != 1 {
		return "", nil
	}
	return fmt.Sprintf(`%s=="%s"`, facet.CQL, picked[0]), nil
}

// buildDateRange builds an inclusive range; either end may be open
func buildDateRange(facet models.Facet, from, to string) (string, error) {
	var fromDate, toDate time.Time
	var err error
	if from != "" {
		if fromDate, err = time.Parse(dateLayout, from); err != nil {
			return "", fmt.Errorf("invalid start date for %s: %w", facet.Name, err)
		}
	}
	if to != "" {
		if toDate, err = time.Parse(dateLayout, to); err != nil {
			return "", fmt.Errorf("invalid end date for %s: %w", facet.Name, err)
		}
	}

	switch {
	case from != "" && to != "":
		if fromDate.After(toDate) {
			return "", fmt.Errorf("start date %s is after end date %s for %s", from, to, facet.Name)
		}
		return fmt.Sprintf(`%s>="%s" and %s<="%s"`, facet.CQL, from, facet.CQL, to), nil
	case from != "":
		return fmt.Sprintf(`%s>="%s"`, facet.CQL, from), nil
	case to != "":
		return fmt.Sprintf(`%s<="%s"`, facet.CQL, to), nil
	default:
		return "", nil
	}
}

// Combine ANDs a filter clause onto a compiled query
func Combine(query, filter string) string {
	switch {
	case filter == "":
		return query
	case query == "":
		return filter
	default:
		return "(" + query + ") and " + filter
	}
}

// Toggle adds value to the named facet's selection, or removes it when present
func Toggle(filter models.Filter, name, value string) models.Filter {
	out := clone(filter)
	for i, sel := range out.Selections {
		if sel.Name != name {
			continue
		}
		if idx := slices.Index(sel.Values, value); idx >= 0 {
			out.Selections[i].Values = slices.Delete(slices.Clone(sel.Values), idx, idx+1)
		} else {
			out.Selections[i].Values = append(slices.Clip(sel.Values), value)
		}
		return prune(out)
	}
	out.Selections = append(out.Selections, models.FacetSelection{Name: name, Values: []string{value}})
	return out
}

// SetRange sets the date range of the named facet
func SetRange(filter models.Filter, name, from, to string) models.Filter {
	out := Clear(filter, name)
	if from == "" && to == "" {
		return out
	}
	out.Selections = append(out.Selections, models.FacetSelection{Name: name, From: from, To: to})
	return out
}

// Clear removes the selection of the named facet
func Clear(filter models.Filter, name string) models.Filter {
	out := clone(filter)
	out.Selections = slices.DeleteFunc(out.Selections, func(sel models.FacetSelection) bool {
		return sel.Name == name
	})
	return out
}

func clone(filter models.Filter) models.Filter {
	filter.Selections = slices.Clone(filter.Selections)
	return filter
}

// prune drops selections left without values or range
func prune(filter models.Filter) models.Filter {
	filter.Selections = slices.DeleteFunc(filter.Selections, func(sel models.FacetSelection) bool {
		return len(sel.Values) == 0 && sel.From == "" && sel.To == ""
	})
	return filter
}
