// Package cwt implements the parser and AST for the schema language: a
// grammar parallel to internal/script's, describing the expected shape
// of script data via blocks, rules, reference-tagged identifiers, and
// two flavors of specially-tagged comments.
package cwt

import "github.com/abrenneke/stelpatch-sub002/internal/syntax"

// ReferenceKind tags what an identifier like `<type>` or `enum[key]`
// refers to.
type ReferenceKind int

const (
	RefNone ReferenceKind = iota
	RefType
	RefEnum
	RefComplexEnum
	RefValueSet
	RefValue
	RefScope
	RefScopeGroup
	RefAlias
	RefAliasName
	RefAliasMatchLeft
	RefSingleAlias
	RefAliasKeysField
	RefColour
	RefIcon
	RefFilepath
	RefSubtype
	RefStellarisNameFormat
)

// tagKeywords maps a CWT identifier's bracket-tag keyword to its
// ReferenceKind. RefType is reachable two ways: `type[key]` here, and the
// shorthand `<key>` form handled separately in tryTaggedKey.
var tagKeywords = map[string]ReferenceKind{
	"type":                  RefType,
	"enum":                  RefEnum,
	"complex_enum":          RefComplexEnum,
	"value_set":             RefValueSet,
	"value":                 RefValue,
	"scope":                 RefScope,
	"scope_group":           RefScopeGroup,
	"alias":                 RefAlias,
	"alias_name":            RefAliasName,
	"alias_match_left":      RefAliasMatchLeft,
	"single_alias":          RefSingleAlias,
	"alias_keys_field":      RefAliasKeysField,
	"colour":                RefColour,
	"icon":                  RefIcon,
	"filepath":              RefFilepath,
	"subtype":               RefSubtype,
	"stellaris_name_format": RefStellarisNameFormat,
}

// NodeKind discriminates the CWT expression union: a rule (key = value),
// a standalone block, a reference-tagged identifier, or a bare value.
type NodeKind int

const (
	NodeRule NodeKind = iota
	NodeBlock
	NodeIdentifier
	NodeValue
)

// Node is one member of a Document or Block: a Rule, a Block, an
// Identifier, or a Value.
type Node struct {
	Kind       NodeKind
	Span       syntax.Span
	Rule       *Rule
	Block      *Block
	Identifier *Identifier
	Value      *Value
}

// Document is the top-level sequence of CWT expressions in a schema
// file.
type Document struct {
	Span  syntax.Span
	Items []Node
}

// Block is a `{ … }`-delimited ordered list of CWT expressions.
type Block struct {
	Span             syntax.Span
	Items            []Node
	LeadingComments  []string
	TrailingComments []string
}

// Option is one key/value pair parsed out of a `##` comment's mini-DSL,
// e.g. `push_scope = country` or `cardinality = 0..1`.
type Option struct {
	Key   string
	Value string
}

// Rule is `key operator value`, optionally preceded by `##` option
// comments and `###` documentation comments.
type Rule struct {
	Span          syntax.Span
	Key           string
	KeyKind       ReferenceKind // RefNone when the key is a bare identifier
	KeySpan       syntax.Span
	Operator      syntax.Operator
	OperatorSpan  syntax.Span
	Value         Node
	Options       []Option
	Documentation []string
}

// Identifier is a standalone reference-tagged token: `<country>`,
// `enum[some_enum]`, `alias[effect:set_owner]`, and so on.
type Identifier struct {
	Span            syntax.Span
	Kind            ReferenceKind
	Key             string
	KeySpan         syntax.Span
	LeadingComments []string
}

// ValueKind discriminates the small set of bare CWT value literals.
type ValueKind int

const (
	ValString ValueKind = iota
	ValNumber
	ValRange
)

// Value is a bare literal appearing where a rule or block expects a
// value: a string, a number, or a `min..max` numeric range (used by
// definitions like `float[0.0..255.0]`).
type Value struct {
	Span     syntax.Span
	Kind     ValueKind
	Text     string
	Quoted   bool
	RangeMin string
	RangeMax string
}
