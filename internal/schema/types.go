// Package schema builds a TypeRegistry from a parsed CWT schema: block
// types, enums, complex enums, value sets, alias categories, links, and
// scope groups. It holds data only — navigating a ScopedType against the
// registry is internal/resolver's job.
package schema

import "github.com/abrenneke/stelpatch-sub002/internal/cwt"

// CwtKind discriminates the CwtType tagged union.
type CwtKind int

const (
	KindSimple CwtKind = iota
	KindLiteral
	KindLiteralSet
	KindBlock
	KindArray
	KindUnion
	KindComparable
	KindReference
	KindUnknown
	KindAny
)

// ReferenceTarget names what a Reference CwtType resolves against: a
// ReferenceKind tag (from the CWT identifier it came from) plus the key
// that followed it, e.g. `enum[civic_or_origin]` → (RefEnum,
// "civic_or_origin").
type ReferenceTarget struct {
	Kind cwt.ReferenceKind
	Key  string
}

// CwtType is the expected-value type for a property or entity, per the
// type-registry's tagged union.
type CwtType struct {
	Kind CwtKind

	Primitive string // Simple
	Literal   string // Literal

	LiteralSet []string // LiteralSet

	Block *BlockType // Block

	Elem *CwtType // Array

	Variants []*CwtType // Union

	Inner *CwtType // Comparable

	// RangeMin/RangeMax are only set when Inner came from a CWT
	// `int[min..max]`/`float[min..max]` range literal.
	RangeMin string
	RangeMax string

	Ref ReferenceTarget // Reference
}

func Unknown() *CwtType { return &CwtType{Kind: KindUnknown} }
func Any() *CwtType     { return &CwtType{Kind: KindAny} }

func Simple(primitive string) *CwtType { return &CwtType{Kind: KindSimple, Primitive: primitive} }
func Literal(text string) *CwtType     { return &CwtType{Kind: KindLiteral, Literal: text} }
func LiteralSet(values []string) *CwtType {
	return &CwtType{Kind: KindLiteralSet, LiteralSet: values}
}
func Block(b *BlockType) *CwtType   { return &CwtType{Kind: KindBlock, Block: b} }
func Array(elem *CwtType) *CwtType  { return &CwtType{Kind: KindArray, Elem: elem} }
func Union(variants []*CwtType) *CwtType {
	return &CwtType{Kind: KindUnion, Variants: variants}
}
func Comparable(inner *CwtType) *CwtType { return &CwtType{Kind: KindComparable, Inner: inner} }
func Reference(kind cwt.ReferenceKind, key string) *CwtType {
	return &CwtType{Kind: KindReference, Ref: ReferenceTarget{Kind: kind, Key: key}}
}

// Property is a named, declared member of a BlockType.
type Property struct {
	Name        string
	Type        *CwtType
	Cardinality string // e.g. "0..1", "1..inf"; empty means exactly-once
}

// PatternKind discriminates the pattern-property mini-DSL.
type PatternKind int

const (
	PatternLiteral PatternKind = iota
	PatternEnumMembership
	PatternValueSetMembership
	PatternTypeNamespace
	PatternPrefix
	PatternSuffix
	PatternScope
	PatternLink
)

// PropertyPattern is one key-matching rule in a BlockType's pattern
// property list. Matching logic lives in internal/resolver, since it
// needs registry and dynamic-collection context this package doesn't
// hold.
type PropertyPattern struct {
	Kind PatternKind
	Text string
}

// PatternProperty pairs a key-matching pattern with the value type that
// applies when a property name matches it.
type PatternProperty struct {
	Pattern PropertyPattern
	Type    *CwtType
}

// SubtypeFilter is the condition that must hold on a concrete AST entity
// for a subtype to be considered active.
type SubtypeFilter struct {
	RequiredKeys   []string
	RequiredValues map[string]string
}

// SubtypeDefinition is one named subtype of a BlockType: the filter that
// activates it, and the extra properties it contributes once active.
type SubtypeDefinition struct {
	Name              string
	Filter            SubtypeFilter
	AllowedProperties map[string]*Property
	PatternProperties []*PatternProperty
}

// BlockType is the named-property/pattern-property/subtype shape of a
// `{ … }` value.
type BlockType struct {
	Properties        map[string]*Property
	PatternProperties []*PatternProperty
	Subtypes          map[string]*SubtypeDefinition

	// Path is the `common/<namespace>` this type declares itself as the
	// entity shape for, taken from a `path = "..."` property and
	// stripped out of Properties — it's registry metadata, not a data
	// field every entity of this type carries.
	Path string
}

func newBlockType() *BlockType {
	return &BlockType{
		Properties: make(map[string]*Property),
		Subtypes:   make(map[string]*SubtypeDefinition),
	}
}

// ComplexEnumDefinition names a dynamically-collected enum: its members
// come from walking every entity in NamespacePath and extracting a name
// per NameFromPath (the block form's `name_from`/`name` value, or left
// empty by the bare-path form; empty and "key" both mean the entity key —
// see internal/resolver/collect.go).
type ComplexEnumDefinition struct {
	Name          string
	NamespacePath string
	NameFromPath  string
}

// AliasOptions are the push_scope/replace_scope/… mini-DSL options
// attached to an alias definition via `##` comments.
type AliasOptions struct {
	PushScope         string
	ReplaceScope      map[string]string
	Cardinality       string
	Severity          string
	GraphRelatedTypes []string
}

// AliasDefinition is one member of an alias category, e.g.
// `alias[effect:set_owner] = <country>`.
type AliasDefinition struct {
	Category  string
	Key       string
	ValueType *CwtType
	Options   AliasOptions
}

// LinkDefinition is a scope-transitioning property: `owner`,
// `controller`, `planet`, and similar both navigate the data and change
// the current scope.
type LinkDefinition struct {
	Name        string
	InputScopes []string // empty means usable from any scope
	OutputScope string
}

// CanBeUsedFrom reports whether this link is valid when the current
// scope is `scope` (case-insensitively), or when InputScopes is empty.
func (l *LinkDefinition) CanBeUsedFrom(scope string) bool {
	if len(l.InputScopes) == 0 {
		return true
	}
	for _, s := range l.InputScopes {
		if equalFold(s, scope) {
			return true
		}
	}
	return false
}

// ScopeGroupDefinition is a named family of scope types, e.g.
// "celestial_coordinate" = { planet, system }.
type ScopeGroupDefinition struct {
	Name    string
	Members []string
}

func equalFold(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := 0; i < len(a); i++ {
		ca, cb := a[i], b[i]
		if 'A' <= ca && ca <= 'Z' {
			ca += 'a' - 'A'
		}
		if 'A' <= cb && cb <= 'Z' {
			cb += 'a' - 'A'
		}
		if ca != cb {
			return false
		}
	}
	return true
}
