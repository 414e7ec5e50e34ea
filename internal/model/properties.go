// Package model builds the semantic layer on top of internal/script's AST:
// modules grouped into namespaces and aggregated into a GameMod, using
// case-insensitive interned keys throughout.
package model

import (
	"github.com/abrenneke/stelpatch-sub002/internal/intern"
	"github.com/abrenneke/stelpatch-sub002/internal/script"
	"github.com/abrenneke/stelpatch-sub002/internal/syntax"
)

// PropertyInfo is the "= value" half of a `key = value` property occurrence.
type PropertyInfo struct {
	Operator syntax.Operator
	Value    *script.Value
}

// PropertyInfoList holds every occurrence of a repeated key, in the order
// they were encountered — a key appearing N times in an entity (or across
// every module merged into a namespace) keeps all N occurrences.
type PropertyInfoList []PropertyInfo

// Properties is an interned-key-to-occurrences map, optionally flagged as
// a module-level property bag (module scope vs. entity scope).
type Properties struct {
	kv       map[intern.Symbol]*PropertyInfoList
	IsModule bool
}

// NewProperties returns an empty entity-scope Properties.
func NewProperties() *Properties {
	return &Properties{kv: make(map[intern.Symbol]*PropertyInfoList)}
}

// NewModuleProperties returns an empty module-scope Properties.
func NewModuleProperties() *Properties {
	p := NewProperties()
	p.IsModule = true
	return p
}

// Append adds one occurrence of key, creating its PropertyInfoList if this
// is the first occurrence. Existing occurrences are never overwritten.
func (p *Properties) Append(key intern.Symbol, info PropertyInfo) {
	list, ok := p.kv[key]
	if !ok {
		list = &PropertyInfoList{}
		p.kv[key] = list
	}
	*list = append(*list, info)
}

// Get returns the occurrence list for key, if any.
func (p *Properties) Get(key intern.Symbol) (*PropertyInfoList, bool) {
	list, ok := p.kv[key]
	return list, ok
}

// GetOnly returns the single value for key when it occurred exactly once,
// mirroring the model's "get_only" convenience for unambiguous lookups.
func (p *Properties) GetOnly(key intern.Symbol) (*script.Value, bool) {
	list, ok := p.kv[key]
	if !ok || len(*list) != 1 {
		return nil, false
	}
	return (*list)[0].Value, true
}

// Keys returns every interned key with at least one occurrence, in no
// particular order (callers that need determinism sort by Display text).
func (p *Properties) Keys() []intern.Symbol {
	keys := make([]intern.Symbol, 0, len(p.kv))
	for k := range p.kv {
		keys = append(keys, k)
	}
	return keys
}

// Len reports the number of distinct keys with at least one occurrence.
func (p *Properties) Len() int { return len(p.kv) }

// merge appends every occurrence of every key in other onto p, preserving
// the order occurrences appear in other.
func (p *Properties) merge(other *Properties) {
	for key, list := range other.kv {
		for _, info := range *list {
			p.Append(key, info)
		}
	}
}
