package syntax

import "fmt"

// ParseError carries enough context for an editor to place a diagnostic:
// a byte span, its computed line/column, a message, and (when known) the
// token the parser expected instead. Shared by the script and CWT
// parsers, which otherwise have independent grammars.
type ParseError struct {
	Span     Span
	Line     int
	Column   int
	Message  string
	Expected string
}

func (e *ParseError) Error() string {
	if e.Expected != "" {
		return fmt.Sprintf("%d:%d: %s (expected %s)", e.Line, e.Column, e.Message, e.Expected)
	}
	return fmt.Sprintf("%d:%d: %s", e.Line, e.Column, e.Message)
}

// NewParseError computes the (line, column) of span.Start against src and
// builds the error.
func NewParseError(src string, span Span, expected, format string, args ...any) *ParseError {
	pos := PositionAt(src, span.Start)
	return &ParseError{
		Span:     span,
		Line:     pos.Line,
		Column:   pos.Column,
		Message:  fmt.Sprintf(format, args...),
		Expected: expected,
	}
}
