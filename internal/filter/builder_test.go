package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rebeliceyang/lazyinv/internal/models"
)

func instanceBuilder() *Builder {
	return NewBuilder(models.DefaultFacets(models.SegmentInstances))
}

func TestBuildFilter_Empty(t *testing.T) {
	got, err := instanceBuilder().BuildFilter(models.Filter{})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestBuildFilter_Values(t *testing.T) {
	f := models.Filter{Selections: []models.FacetSelection{
		{Name: "source", Values: []string{"MARC", "FOLIO"}},
		{Name: "language", Values: []string{"eng"}},
	}}

	got, err := instanceBuilder().BuildFilter(f)
	require.NoError(t, err)
	assert.Equal(t, `source==("MARC" or "FOLIO") and languages=("eng")`, got)
}

func TestBuildFilter_DefaultOperator(t *testing.T) {
	f := models.Filter{Selections: []models.FacetSelection{
		{Name: "format", Values: []string{"a1b2"}},
	}}

	got, err := instanceBuilder().BuildFilter(f)
	require.NoError(t, err)
	assert.Equal(t, `instanceFormatIds==("a1b2")`, got)
}

func TestBuildFilter_Boolean(t *testing.T) {
	b := instanceBuilder()

	got, err := b.BuildFilter(models.Filter{Selections: []models.FacetSelection{
		{Name: "staffSuppress", Values: []string{"true"}},
	}})
	require.NoError(t, err)
	assert.Equal(t, `staffSuppress=="true"`, got)

	got, err = b.BuildFilter(models.Filter{Selections: []models.FacetSelection{
		{Name: "discoverySuppress", Values: []string{"true", "false"}},
	}})
	require.NoError(t, err)
	assert.Empty(t, got, "both values select everything")

	_, err = b.BuildFilter(models.Filter{Selections: []models.FacetSelection{
		{Name: "staffSuppress", Values: []string{"maybe"}},
	}})
	assert.Error(t, err)
}

func TestBuildFilter_DateRange(t *testing.T) {
	b := instanceBuilder()

	tests := []struct {
		name     string
		from, to string
		want     string
		wantErr  bool
	}{
		{"closed", "2024-01-01", "2024-12-31", `metadata.createdDate>="2024-01-01" and metadata.createdDate<="2024-12-31"`, false},
		{"open end", "2024-01-01", "", `metadata.createdDate>="2024-01-01"`, false},
		{"open start", "", "2024-12-31", `metadata.createdDate<="2024-12-31"`, false},
		{"reversed", "2024-12-31", "2024-01-01", "", true},
		{"bad date", "2024-13-01", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := b.BuildFilter(models.Filter{Selections: []models.FacetSelection{
				{Name: "createdDate", From: tt.from, To: tt.to},
			}})
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBuildFilter_UnknownFacet(t *testing.T) {
	_, err := instanceBuilder().BuildFilter(models.Filter{Selections: []models.FacetSelection{
		{Name: "nope", Values: []string{"x"}},
	}})
	assert.ErrorContains(t, err, "unknown facet")
}

func TestBuildFilter_EscapesQuotes(t *testing.T) {
	b := NewBuilder([]models.Facet{{Name: "tags", CQL: "tags.tagList", Operator: "=", Kind: models.FacetValues}})

	got, err := b.BuildFilter(models.Filter{Selections: []models.FacetSelection{
		{Name: "tags", Values: []string{`say "hi"`}},
	}})
	require.NoError(t, err)
	assert.Equal(t, `tags.tagList=("say \"hi\"")`, got)
}

func TestCombine(t *testing.T) {
	assert.Equal(t, `title all "foo"`, Combine(`title all "foo"`, ""))
	assert.Equal(t, `source==("MARC")`, Combine("", `source==("MARC")`))
	assert.Equal(t, `(title all "foo") and source==("MARC")`, Combine(`title all "foo"`, `source==("MARC")`))
}

func TestToggle(t *testing.T) {
	var f models.Filter

	f = Toggle(f, "source", "MARC")
	f = Toggle(f, "source", "FOLIO")
	sel, ok := f.Selected("source")
	require.True(t, ok)
	assert.Equal(t, []string{"MARC", "FOLIO"}, sel.Values)

	before := f
	f = Toggle(f, "source", "MARC")
	sel, _ = f.Selected("source")
	assert.Equal(t, []string{"FOLIO"}, sel.Values)

	orig, _ := before.Selected("source")
	assert.Equal(t, []string{"MARC", "FOLIO"}, orig.Values, "toggle does not modify its input")

	f = Toggle(f, "source", "FOLIO")
	_, ok = f.Selected("source")
	assert.False(t, ok, "empty selections are dropped")
}

func TestSetRangeAndClear(t *testing.T) {
	f := SetRange(models.Filter{}, "createdDate", "2024-01-01", "")
	sel, ok := f.Selected("createdDate")
	require.True(t, ok)
	assert.Equal(t, "2024-01-01", sel.From)

	f = SetRange(f, "createdDate", "", "2024-02-01")
	sel, _ = f.Selected("createdDate")
	assert.Empty(t, sel.From)
	assert.Equal(t, "2024-02-01", sel.To)
	assert.Len(t, f.Selections, 1)

	f = Clear(f, "createdDate")
	assert.Empty(t, f.Selections)
}
