package query

import (
	"testing"
	"testing/quick"
)

func TestAddQuotes(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"gatsby", "gatsby"},
		{"great gatsby", `"great gatsby"`},
		{`"great gatsby"`, `"great gatsby"`},
		{"(great gatsby", `("great gatsby"`},
		{"great gatsby))", `"great gatsby"))`},
		{"(foo)", "(foo)"},
		{`"half quoted`, `"half quoted"`},
		{`half "quoted`, `"half "quoted"`},
		{"", ""},
	}

	for _, tt := range tests {
		if got := AddQuotes(tt.in); got != tt.want {
			t.Errorf("AddQuotes(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestAddQuotes_Idempotent(t *testing.T) {
	f := func(s string) bool {
		once := AddQuotes(s)
		return AddQuotes(once) == once
	}
	if err := quick.Check(f, nil); err != nil {
		t.Error(err)
	}

	for _, s := range []string{"a b", "((a b)", `"a b`, `a b"`, " ", `" "`, "( )", `(" a")`} {
		if !f(s) {
			t.Errorf("AddQuotes not idempotent for %q", s)
		}
	}
}

func TestSplitBrackets(t *testing.T) {
	open, core, closing := splitBrackets("((foo bar)")
	if open != "((" || core != "foo bar" || closing != ")" {
		t.Errorf("unexpected split: %q %q %q", open, core, closing)
	}
}

func TestLastWord(t *testing.T) {
	before, word := lastWord("war and peace OR ")
	if before != "war and peace " {
		t.Errorf("expected before 'war and peace ', got '%s'", before)
	}
	if word != "OR" {
		t.Errorf("expected word 'OR', got '%s'", word)
	}

	before, word = lastWord("single")
	if before != "" || word != "single" {
		t.Errorf("unexpected split of single word: %q %q", before, word)
	}
}
