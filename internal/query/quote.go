package query

import (
	"strings"
	"unicode"
)

// AddQuotes wraps a term in double quotes when it contains whitespace.
// Leading "(" and trailing ")" runs stay outside the quotes, and an already
// quoted term is returned unchanged, so AddQuotes(AddQuotes(s)) == AddQuotes(s).
func AddQuotes(token string) string {
	open, core, closing := splitBrackets(token)
	if isQuoted(core) || !strings.ContainsFunc(core, unicode.IsSpace) {
		return token
	}
	return open + `"` + strings.Trim(core, `"`) + `"` + closing
}

// quoteTerm always quotes a compiled term. Already quoted terms are kept.
func quoteTerm(term string) string {
	if isQuoted(term) {
		return term
	}
	return `"` + strings.ReplaceAll(term, `"`, `\"`) + `"`
}

// unquote strips one pair of surrounding double quotes
func unquote(term string) string {
	if isQuoted(term) {
		return strings.ReplaceAll(term[1:len(term)-1], `\"`, `"`)
	}
	return term
}

func isQuoted(s string) bool {
	return len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"'
}

// splitBrackets separates the leading "(" run and trailing ")" run of a token
func splitBrackets(token string) (open, core, closing string) {
	i := 0
	for i < len(token) && token[i] == '(' {
		i++
	}
	open, rest := token[:i], token[i:]
	j := len(rest)
	for j > 0 && rest[j-1] == ')' {
		j--
	}
	return open, rest[:j], rest[j:]
}

// stripOpenBracket removes the structural leading "(" run before vocabulary matching
func stripOpenBracket(token string) string {
	return strings.TrimLeft(token, "(")
}

// lastWord returns the final whitespace separated word of s and the text before it
func lastWord(s string) (before, word string) {
	s = strings.TrimRightFunc(s, unicode.IsSpace)
	idx := strings.LastIndexFunc(s, unicode.IsSpace)
	if idx < 0 {
		return "", s
	}
	return s[:idx+1], s[idx+1:]
}

// insideQuotes reports whether s ends inside an unterminated double quoted string
func insideQuotes(s string) bool {
	return strings.Count(s, `"`)%2 == 1
}
