// Package script implements the recursive-descent parser and AST for the
// script grammar: nested key/value entities, positional values, colors,
// inline maths, and conditional blocks.
package script

import "github.com/abrenneke/stelpatch-sub002/internal/syntax"

// Trivia is the comment and blank-line context attached to a node: any
// leading comments found in the trivia run immediately before it, the
// number of blank lines within that run (see syntax.LeadingNewlines), and
// an optional same-line trailing comment.
type Trivia struct {
	LeadingComments   []syntax.Comment
	LeadingBlankLines int
	TrailingComment   *syntax.Comment
}

// Module is the top-level sequence of entity items terminated by end of
// input.
type Module struct {
	Span  syntax.Span
	Items []EntityItem
}

// Entity is a `{ … }`-delimited ordered list of entity items.
type Entity struct {
	Span  syntax.Span
	Items []EntityItem
}

// EntityItemKind discriminates the three shapes an entity item can take.
type EntityItemKind int

const (
	ItemExpression EntityItemKind = iota
	ItemPositional
	ItemConditional
)

// EntityItem is one member of a Module or Entity: a key/operator/value
// expression, a bare positional value, or a conditional block.
type EntityItem struct {
	Kind   EntityItemKind
	Span   syntax.Span
	Trivia Trivia

	// Expression fields.
	Key          string
	KeyQuoted    bool
	KeySpan      syntax.Span
	Operator     syntax.Operator
	OperatorSpan syntax.Span
	Value        *Value

	// Positional fields.
	Positional *Value

	// Conditional fields.
	Conditional *ConditionalBlock
}

// ConditionalBlock is `[[ [!]key ] items ]`. Nested conditionals are not
// supported; items inside are expressions and positional values only.
type ConditionalBlock struct {
	Span    syntax.Span
	Not     bool
	Key     string
	KeySpan syntax.Span
	Items   []EntityItem
}

// ValueKind discriminates the Value tagged union.
type ValueKind int

const (
	ValString ValueKind = iota
	ValNumber
	ValBoolean
	ValEntity
	ValColor
	ValMaths
)

// Value is the tagged union of everything that can appear after an
// operator or as a positional entity item.
type Value struct {
	Kind   ValueKind
	Span   syntax.Span
	Trivia Trivia

	// String
	StringText string
	Quoted     bool

	// Number
	NumberText string
	Negative   bool
	Decimal    bool
	Percent    bool

	// Boolean. The parser never produces Kind == ValBoolean directly (the
	// grammar's value dispatch tries color/entity/number/string/maths, in
	// that order, and never reaches a dedicated boolean production); callers
	// that need yes/no semantics call AsBool on an unquoted ValString.
	BoolValue bool

	// Entity
	Entity *Entity

	// Color
	Color *Color

	// Maths (inline @[ … ] expression, stored verbatim including delimiters).
	MathsRaw string
}

// ColorType distinguishes the two color keywords.
type ColorType int

const (
	ColorRGB ColorType = iota
	ColorHSV
)

func (c ColorType) String() string {
	if c == ColorHSV {
		return "hsv"
	}
	return "rgb"
}

// Color is `rgb { r g b [a] }` or `hsv { h s v [a] }`. Each component is a
// Number value so it can carry its own trivia; long form (one component
// per line, with comments) and compact form share this same AST — the
// formatter chooses based on whether any component carries trivia.
type Color struct {
	Span    syntax.Span
	Type    ColorType
	R, G, B *Value
	A       *Value // nil when the tuple has no fourth component
}
