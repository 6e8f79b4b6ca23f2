package query

import (
	"strings"

	"github.com/rebeliceyang/lazyinv/internal/models"
)

// match tiers, lower ranks first
const (
	rankExact = iota
	rankPrefix
	rankSubstring
	rankNone
)

// matchRank classifies how label matches token, case-insensitively
func matchRank(label, token string) int {
	l := strings.ToLower(label)
	t := strings.ToLower(token)
	switch {
	case l == t:
		return rankExact
	case strings.HasPrefix(l, t):
		return rankPrefix
	case strings.Contains(l, t):
		return rankSubstring
	default:
		return rankNone
	}
}

// FilterSuggestions returns the options whose label contains token, ignoring
// a leading "(" in the token. Exact matches come first, then prefix matches,
// then other substring matches; vocabulary order is kept inside each tier.
// limit <= 0 means no limit.
func FilterSuggestions(options []models.Option, token string, limit int) []models.Option {
	token = strings.TrimSpace(stripOpenBracket(token))

	var tiers [rankNone][]models.Option
	for _, opt := range options {
		rank := rankPrefix
		if token != "" {
			rank = matchRank(opt.Label, token)
		}
		if rank == rankNone {
			continue
		}
		tiers[rank] = append(tiers[rank], opt)
	}

	var out []models.Option
	for _, tier := range tiers {
		out = append(out, tier...)
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// hasPrefixMatch reports whether token equals or is a prefix of any label
func hasPrefixMatch(options []models.Option, token string) bool {
	for _, opt := range options {
		if r := matchRank(opt.Label, token); r == rankExact || r == rankPrefix {
			return true
		}
	}
	return false
}

// lookupLabel finds an option whose label equals token, case-insensitively
func lookupLabel(options []models.Option, token string) (models.Option, bool) {
	for _, opt := range options {
		if strings.EqualFold(opt.Label, token) {
			return opt, true
		}
	}
	return models.Option{}, false
}
