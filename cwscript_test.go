package cwscript

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abrenneke/stelpatch-sub002/internal/model"
	"github.com/abrenneke/stelpatch-sub002/internal/resolver"
	"github.com/abrenneke/stelpatch-sub002/internal/schema"
)

func TestParseModuleBuildsSemanticModuleAndAST(t *testing.T) {
	s := New()
	mod, ast, errs := s.ParseModule("common/buildings", "a.txt", "key = value\n")
	require.Empty(t, errs)
	require.NotNil(t, ast)
	require.NotNil(t, mod)
	assert.Equal(t, "common/buildings", mod.Namespace)
	assert.Equal(t, "a.txt", mod.Filename)
}

func TestParseModuleReturnsNilOnFatalParseError(t *testing.T) {
	s := New()
	mod, ast, errs := s.ParseModule("common/buildings", "a.txt", "key = {")
	assert.Nil(t, mod)
	assert.Nil(t, ast)
	assert.NotEmpty(t, errs)
}

func TestFormatRendersParsedModule(t *testing.T) {
	s := New()
	_, ast, errs := s.ParseModule("common/buildings", "a.txt", "key = value\n")
	require.Empty(t, errs)
	assert.Equal(t, "key = value\n", Format(ast))
}

func TestSessionLifecycleReachesReady(t *testing.T) {
	s := New()
	errs := s.LoadSchema([]schema.SchemaFile{{
		Path: "b.cwt",
		Text: `type[building] = { path = "game/common/buildings" size = int[0..10] }`,
	}})
	require.Empty(t, errs)

	gm := model.NewGameMod(model.ModDescriptor{Name: "test"})
	s.LoadGameData(gm)

	result := s.Analyze()
	require.NotNil(t, result)
}

func TestNamespaceEntityTypeAndNavigate(t *testing.T) {
	s := New()
	errs := s.LoadSchema([]schema.SchemaFile{{
		Path: "b.cwt",
		Text: `type[building] = { path = "game/common/buildings" size = int[0..10] }`,
	}})
	require.Empty(t, errs)
	s.LoadGameData(model.NewGameMod(model.ModDescriptor{Name: "test"}))
	s.Analyze()

	st := s.NamespaceEntityType("common/buildings")
	require.Equal(t, schema.KindBlock, st.Type.Kind)

	result := s.Navigate(st, "size")
	assert.Equal(t, resolver.NavSuccess, result.Outcome)

	result = s.Navigate(st, "nonexistent")
	assert.Equal(t, resolver.NavNotFound, result.Outcome)
}

func TestNavigateFromASTWalksNestedPath(t *testing.T) {
	s := New()
	errs := s.LoadSchema([]schema.SchemaFile{{
		Path: "b.cwt",
		Text: `
type[building] = {
	path = "game/common/buildings"
	upkeep = {
		energy = int
	}
}
`,
	}})
	require.Empty(t, errs)
	s.LoadGameData(model.NewGameMod(model.ModDescriptor{Name: "test"}))
	s.Analyze()

	_, ast, parseErrs := s.ParseModule("common/buildings", "a.txt", `my_building = { upkeep = { energy = 5 } }`)
	require.Empty(t, parseErrs)
	require.Len(t, ast.Items, 1)
	entity := ast.Items[0].Value.Entity

	result := s.NavigateFromAST("common/buildings", entity, []string{"upkeep", "energy"})
	assert.Equal(t, resolver.NavSuccess, result.Outcome)

	result = s.NavigateFromAST("common/buildings", entity, []string{"upkeep", "nonexistent"})
	assert.Equal(t, resolver.NavNotFound, result.Outcome)
}
