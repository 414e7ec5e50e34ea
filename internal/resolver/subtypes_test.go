package resolver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abrenneke/stelpatch-sub002/internal/schema"
	"github.com/abrenneke/stelpatch-sub002/internal/script"
)

func parseEntity(t *testing.T, src string) *script.Entity {
	t.Helper()
	mod, errs := script.ParseModule("root = { " + src + " }")
	require.Empty(t, errs)
	require.Len(t, mod.Items, 1)
	require.Equal(t, script.ValEntity, mod.Items[0].Value.Kind)
	return mod.Items[0].Value.Entity
}

func buildingType(t *testing.T) *schema.TypeRegistry {
	return loadTestSchema(t, `
type[building] = {
	size = int[0..10]
	subtype[capital] = {
		is_capital = yes
		capital_only_field = value_field
	}
}
`)
}

func TestNarrowSubtypesActivatesOnMatchingFlag(t *testing.T) {
	reg := buildingType(t)
	bt, _ := reg.GetType("building")
	st := &ScopedType{Type: schema.Block(bt), Scopes: NewScopeStack("building")}

	entity := parseEntity(t, `is_capital = yes capital_only_field = something`)
	active := NarrowSubtypes(st, entity)
	assert.Equal(t, []string{"capital"}, active)
}

func TestNarrowSubtypesInactiveWhenFlagAbsent(t *testing.T) {
	reg := buildingType(t)
	bt, _ := reg.GetType("building")
	st := &ScopedType{Type: schema.Block(bt), Scopes: NewScopeStack("building")}

	entity := parseEntity(t, `size = 5`)
	active := NarrowSubtypes(st, entity)
	assert.Empty(t, active)
}

func TestNarrowSubtypesInactiveWhenFlagIsNo(t *testing.T) {
	reg := buildingType(t)
	bt, _ := reg.GetType("building")
	st := &ScopedType{Type: schema.Block(bt), Scopes: NewScopeStack("building")}

	entity := parseEntity(t, `is_capital = no`)
	active := NarrowSubtypes(st, entity)
	assert.Empty(t, active)
}

func TestNavigateUsesActiveSubtypeProperties(t *testing.T) {
	reg := buildingType(t)
	bt, _ := reg.GetType("building")
	st := &ScopedType{Type: schema.Block(bt), Scopes: NewScopeStack("building")}

	// Before narrowing, the subtype-only property isn't reachable.
	result := Navigate(reg, NewCache(), nil, st, "capital_only_field")
	assert.Equal(t, NavNotFound, result.Outcome)

	entity := parseEntity(t, `is_capital = yes capital_only_field = something`)
	narrowed := &ScopedType{Type: st.Type, Scopes: st.Scopes, ActiveSubtypes: NarrowSubtypes(st, entity)}

	result = Navigate(reg, NewCache(), nil, narrowed, "capital_only_field")
	assert.Equal(t, NavSuccess, result.Outcome)

	// The always-present property is still reachable regardless of subtype.
	result = Navigate(reg, NewCache(), nil, narrowed, "size")
	assert.Equal(t, NavSuccess, result.Outcome)
}
