package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rebeliceyang/lazyinv/internal/models"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestLoadFile_Defaults(t *testing.T) {
	path := writeConfig(t, "ui:\n  theme: catppuccin-mocha\n")

	cfg, err := LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, "catppuccin-mocha", cfg.UI.Theme)
	assert.Equal(t, "instances", cfg.UI.DefaultSegment)
	assert.Equal(t, 10, cfg.Search.MaxSuggestions)
	assert.True(t, cfg.Search.KeywordFallback)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, 35, cfg.UI.PanelWidthRatio)
	assert.Equal(t, 20, cfg.UI.HistorySize)
}

func TestLoadFile_SegmentOverrides(t *testing.T) {
	path := writeConfig(t, `
search:
  max_suggestions: 5
  keyword_fallback: false
segments:
  items:
    search_options:
      - label: Barcode
        value: barcode
        query_template: item.barcode
    operators:
      - label: "="
        query_template: "=="
    facets:
      - name: itemStatus
        cql: item.status.name
        kind: values
        values: [Available, Missing]
`)

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.Search.MaxSuggestions)
	assert.False(t, cfg.Search.KeywordFallback)

	vocab := cfg.Vocabulary(models.SegmentItems)
	require.Len(t, vocab.SearchOptions, 1)
	assert.Equal(t, models.KindSearchOption, vocab.SearchOptions[0].Kind)
	assert.Equal(t, "item.barcode", vocab.SearchOptions[0].QueryTemplate)
	require.Len(t, vocab.Operators, 1)
	assert.Equal(t, models.KindOperator, vocab.Operators[0].Kind)
	assert.Equal(t, "==", vocab.Operators[0].QueryTemplate)
	assert.Len(t, vocab.BooleanOperators, 2, "booleans keep their defaults")

	facets := cfg.Facets(models.SegmentItems)
	require.Len(t, facets, 1)
	assert.Equal(t, models.FacetValues, facets[0].Kind)
	assert.Equal(t, []string{"Available", "Missing"}, facets[0].Values)

	assert.Equal(t, models.DefaultFacets(models.SegmentInstances), cfg.Facets(models.SegmentInstances))
}

func TestLoadFile_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"bad segment", "ui:\n  default_segment: loans\n"},
		{"negative suggestions", "search:\n  max_suggestions: -1\n"},
		{"panel ratio", "ui:\n  panel_width_ratio: 100\n"},
		{"unknown segment override", "segments:\n  loans:\n    terms: []\n"},
		{"facet kind", "segments:\n  items:\n    facets:\n      - name: x\n        kind: range\n"},
		{"malformed yaml", "ui: [\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFile(writeConfig(t, tt.body))
			assert.Error(t, err)
		})
	}
}

func TestLoadFile_MissingExplicitFile(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestVocabulary_Defaults(t *testing.T) {
	cfg := GetDefaults()
	vocab := cfg.Vocabulary(models.SegmentHoldings)

	opt, ok := vocab.KeywordOption()
	require.True(t, ok)
	assert.Equal(t, "keyword all", opt.QueryTemplate)
	assert.NoError(t, cfg.Validate())
}
