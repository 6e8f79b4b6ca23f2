package query

import (
	"testing"

	"github.com/rebeliceyang/lazyinv/internal/models"
)

func optionLabels(options []models.Option) []string {
	out := make([]string, len(options))
	for i, o := range options {
		out[i] = o.Label
	}
	return out
}

func TestFilterSuggestions_Ranking(t *testing.T) {
	options := []models.Option{
		models.SearchOption("Subject", "subject", "subjects all"),
		models.SearchOption("Title (uniform)", "uniform", "uniformTitle all"),
		models.SearchOption("Title", "title", "title all"),
		models.SearchOption("Series title", "series", "series all"),
	}

	got := optionLabels(FilterSuggestions(options, "title", 0))
	want := []string{"Title", "Title (uniform)", "Series title"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("position %d: expected '%s', got '%s'", i, want[i], got[i])
		}
	}
}

func TestFilterSuggestions_IgnoresOpenBracket(t *testing.T) {
	options := models.DefaultVocabulary(models.SegmentInstances).SearchOptions

	got := optionLabels(FilterSuggestions(options, "((sub", 0))
	if len(got) != 1 || got[0] != "Subject" {
		t.Errorf("expected [Subject], got %v", got)
	}
}

func TestFilterSuggestions_EmptyTokenAndLimit(t *testing.T) {
	options := models.DefaultVocabulary(models.SegmentInstances).SearchOptions

	all := FilterSuggestions(options, "", 0)
	if len(all) != len(options) {
		t.Errorf("expected all %d options, got %d", len(options), len(all))
	}

	capped := FilterSuggestions(options, "", 3)
	if len(capped) != 3 {
		t.Errorf("expected 3 options, got %d", len(capped))
	}
	if capped[0].Label != options[0].Label {
		t.Errorf("expected vocabulary order, got '%s' first", capped[0].Label)
	}
}

func TestFilterSuggestions_NoMatch(t *testing.T) {
	options := models.DefaultVocabulary(models.SegmentInstances).SearchOptions
	if got := FilterSuggestions(options, "zzz", 0); len(got) != 0 {
		t.Errorf("expected no suggestions, got %v", optionLabels(got))
	}
}
