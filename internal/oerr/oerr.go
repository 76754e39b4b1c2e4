// Package oerr defines the single error type surfaced by every stage of the
// compiler: lexing, parsing, lowering and limit enforcement.
package oerr

import "fmt"

// ParseError is raised synchronously at the site of failure. Kind names the
// sub-category (see spec §7): UnknownOption, UnhandledNode,
// PaginationBound, ExpandBound, ParameterBudget, SearchDisabled,
// InvalidGeo, InvalidOrderBy, ForbiddenFunction, InvalidGuid, InvalidDate,
// InvalidTimeOfDay, InvalidDuration, SyntaxError and RecursionTooDeep. There is no local recovery; callers propagate it.
type ParseError struct {
	Kind     string
	Msg      string
	Position *int
	Props    map[string]any
}

func (e *ParseError) Error() string {
	if e.Position != nil {
		return fmt.Sprintf("odatasql: %s (at position %d)", e.Msg, *e.Position)
	}
	return fmt.Sprintf("odatasql: %s", e.Msg)
}

// New builds a ParseError without a source position.
func New(kind, msg string) *ParseError {
	return &ParseError{Kind: kind, Msg: msg}
}

// Newf builds a ParseError with a formatted message.
func Newf(kind, format string, args ...any) *ParseError {
	return &ParseError{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// At builds a ParseError anchored to a source position.
func At(kind string, pos int, msg string) *ParseError {
	p := pos
	return &ParseError{Kind: kind, Msg: msg, Position: &p}
}

// Atf builds a ParseError anchored to a source position with a formatted message.
func Atf(kind string, pos int, format string, args ...any) *ParseError {
	p := pos
	return &ParseError{Kind: kind, Msg: fmt.Sprintf(format, args...), Position: &p}
}

// WithProps attaches extra diagnostic properties and returns e for chaining.
func (e *ParseError) WithProps(props map[string]any) *ParseError {
	e.Props = props
	return e
}

// Error kind constants, matching spec §7's named sub-messages.
const (
	KindUnknownOption      = "UnknownOption"
	KindUnhandledNode      = "UnhandledNode"
	KindPaginationBound    = "PaginationBound"
	KindExpandBound        = "ExpandBound"
	KindParameterBudget    = "ParameterBudget"
	KindSearchDisabled     = "SearchDisabled"
	KindInvalidGeo         = "InvalidGeo"
	KindInvalidOrderBy     = "InvalidOrderBy"
	KindForbiddenFunction  = "ForbiddenFunction"
	KindInvalidGuid        = "InvalidGuid"
	KindInvalidDate        = "InvalidDate"
	KindInvalidTimeOfDay   = "InvalidTimeOfDay"
	KindInvalidDuration    = "InvalidDuration"
	KindSyntaxError        = "SyntaxError"
	KindRecursionTooDeep   = "RecursionTooDeep"
)
