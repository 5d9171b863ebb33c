package model

import (
	"errors"
	"fmt"
)

// Specification errors. They are caller misuse: never retried, never
// partially applied. Match them with errors.Is.
var (
	// ErrMissingWhere is returned when an UPDATE or DELETE has no effective filter.
	ErrMissingWhere = errors.New("missing where clause")

	// ErrNullComparison is returned when NULL is used with an ordering comparator.
	ErrNullComparison = errors.New("invalid comparison with NULL")

	// ErrDuplicateAlias is returned when two projected columns share an output key.
	ErrDuplicateAlias = errors.New("duplicate alias")

	// ErrUnsupportedComparator is returned for a comparator outside = != <> < <= > >=.
	ErrUnsupportedComparator = errors.New("unsupported comparator")

	// ErrUnsupportedPresence is returned for a presence other than IN / NOT IN.
	ErrUnsupportedPresence = errors.New("unsupported presence")

	// ErrUnsupportedJoin is returned for a join type other than INNER, LEFT or RIGHT.
	ErrUnsupportedJoin = errors.New("unsupported join type")
)

// Error is a specification error carrying a human readable message.
type Error struct {
	Kind error
	Msg  string
}

// Errorf creates an Error of the given kind.
func Errorf(kind error, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// Error implements the error interface.
func (e *Error) Error() string { return e.Msg }

// Unwrap returns the error kind.
func (e *Error) Unwrap() error { return e.Kind }
