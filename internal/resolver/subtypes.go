package resolver

import (
	"strings"

	"github.com/abrenneke/stelpatch-sub002/internal/schema"
	"github.com/abrenneke/stelpatch-sub002/internal/script"
)

// NarrowSubtypes evaluates every subtype declared on st.Type's block
// against the properties an AST entity actually carries, returning the
// names of every subtype whose filter is satisfied. A subtype with no
// required keys never activates implicitly — a filter-less subtype isn't
// used by any schema this grounds on, so treating it as always-active
// would be a guess, not a read.
func NarrowSubtypes(st *ScopedType, entity *script.Entity) []string {
	if st == nil || st.Type == nil || st.Type.Kind != schema.KindBlock || entity == nil {
		return nil
	}
	values := entityStringValues(entity)

	var active []string
	for name, sub := range st.Type.Block.Subtypes {
		if len(sub.Filter.RequiredKeys) == 0 {
			continue
		}
		if subtypeMatches(sub.Filter, values) {
			active = append(active, name)
		}
	}
	return active
}

func subtypeMatches(filter schema.SubtypeFilter, values map[string]string) bool {
	for _, key := range filter.RequiredKeys {
		want, wantOK := filter.RequiredValues[key]
		got, gotOK := values[strings.ToLower(key)]
		if !gotOK {
			return false
		}
		if wantOK && !strings.EqualFold(want, got) {
			return false
		}
	}
	return true
}

// entityStringValues collects every unquoted-string-valued top-level
// property on entity, lowercased on both key and value, for comparing
// against a subtype filter's required values.
func entityStringValues(entity *script.Entity) map[string]string {
	out := make(map[string]string)
	for _, item := range entity.Items {
		if item.Kind != script.ItemExpression || item.Value == nil {
			continue
		}
		if item.Value.Kind != script.ValString || item.Value.Quoted {
			continue
		}
		out[strings.ToLower(item.Key)] = strings.ToLower(item.Value.StringText)
	}
	return out
}
