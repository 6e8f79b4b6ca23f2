package query

import (
	"errors"
	"fmt"
)

// ErrorKind classifies query editor failures
type ErrorKind string

const (
	ErrUnmatchedToken ErrorKind = "unmatched_token"
	ErrMalformedQuery ErrorKind = "malformed_query"
	ErrNoKeywordIndex ErrorKind = "no_keyword_index"
	ErrIncomplete     ErrorKind = "incomplete_query"
)

// Error is returned by the compiler and used internally by the builder to
// produce warnings. Offset is -1 when no position applies.
type Error struct {
	Kind    ErrorKind
	Message string
	Token   string
	Offset  int
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	base := fmt.Sprintf("%s: %s", e.Kind, e.Message)
	if e.Offset >= 0 {
		base = fmt.Sprintf("%s (offset %d)", base, e.Offset)
	}
	return base
}

// MalformedQueryError reports a query that does not fit the clause grammar
func MalformedQueryError(msg string, offset int) *Error {
	return &Error{Kind: ErrMalformedQuery, Message: msg, Offset: offset}
}

// UnmatchedTokenWarning reports a token that matches nothing allowed in its slot
func UnmatchedTokenWarning(token string, slot Slot) *Error {
	return &Error{
		Kind:    ErrUnmatchedToken,
		Message: fmt.Sprintf("%q is not a valid %s", token, slot),
		Token:   token,
		Offset:  -1,
	}
}

// NoKeywordIndexError reports a vocabulary without a keyword search option
func NoKeywordIndexError() *Error {
	return &Error{Kind: ErrNoKeywordIndex, Message: "no keyword search option is configured", Offset: -1}
}

// IncompleteQueryError reports a query that cannot be submitted yet
func IncompleteQueryError(msg string) *Error {
	return &Error{Kind: ErrIncomplete, Message: msg, Offset: -1}
}

// IsKind reports whether err is a query error of the given kind
func IsKind(err error, kind ErrorKind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}
