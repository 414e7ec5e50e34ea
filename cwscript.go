// Package cwscript is the only exported surface of this module: a query
// facade over script parsing, directory loading, schema loading, dynamic
// analysis, type navigation, and canonical formatting. Everything it
// wraps lives under internal/ so an external adapter (an editor's
// language server, a lint CLI) reaches the core only through the methods
// documented here.
package cwscript

import (
	"context"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/abrenneke/stelpatch-sub002/internal/format"
	"github.com/abrenneke/stelpatch-sub002/internal/intern"
	"github.com/abrenneke/stelpatch-sub002/internal/loader"
	"github.com/abrenneke/stelpatch-sub002/internal/model"
	"github.com/abrenneke/stelpatch-sub002/internal/resolver"
	"github.com/abrenneke/stelpatch-sub002/internal/schema"
	"github.com/abrenneke/stelpatch-sub002/internal/script"
)

// Session holds one interner and one resolver generation. Every piece of
// state lives here, not in package-level variables, so a caller can run
// multiple independent sessions (e.g. one per open workspace) in the same
// process.
type Session struct {
	interner *intern.Interner
	resolver *resolver.Resolver
}

// New returns a fresh, Uninitialized Session.
func New() *Session {
	in := intern.New()
	return &Session{interner: in, resolver: resolver.New(in)}
}

// SetLogger routes this Session's resolver generation-swap diagnostics
// (schema/game-data reloads, analysis completion) to l instead of
// logrus.StandardLogger(). A *Session never logs through a shared
// package-level logger on its own.
func (s *Session) SetLogger(l *logrus.Logger) {
	s.resolver.SetLogger(l)
}

// ParseModule parses text with the script grammar and folds the result
// into a semantic Module keyed by namespace and filename. Parsing stops at
// the first error; when there is one, both returned modules are nil and
// errs carries the error with its span.
func (s *Session) ParseModule(namespace, filename, text string) (*model.Module, *script.Module, []*script.ParseError) {
	ast, errs := script.ParseModule(text)
	if ast == nil || len(errs) > 0 {
		return nil, nil, errs
	}
	return model.BuildModule(namespace, filename, ast, s.interner), ast, errs
}

// LoadDirectory walks root's `common/` tree, parses every `*.txt` file,
// and merges the result into a GameMod. Per-file errors never abort the
// load; the returned map is keyed by file path.
func (s *Session) LoadDirectory(ctx context.Context, root string, mode loader.Mode, def model.ModDescriptor, opts loader.Options) (*model.GameMod, map[string]error, error) {
	result, err := loader.LoadDirectory(ctx, root, mode, def, s.interner, opts)
	if err != nil {
		return nil, nil, err
	}
	return result.GameMod, result.Errors, nil
}

// LoadSchema parses CWT schema files and installs the resulting type
// registry. Advances the session to SchemaLoaded.
func (s *Session) LoadSchema(files []schema.SchemaFile) map[string]error {
	return s.resolver.LoadSchema(files)
}

// LoadGameData installs gm as the current game data snapshot. Advances to
// GameDataLoaded once a schema is already loaded.
func (s *Session) LoadGameData(gm *model.GameMod) {
	s.resolver.LoadGameData(gm)
}

// Analyze runs the dynamic collection pass (value-set membership,
// complex-enum membership, scripted-effect parameters) over the current
// registry and game data. Advances the session to Ready.
func (s *Session) Analyze() *resolver.FullAnalysisResult {
	return s.resolver.Analyze()
}

// NamespaceEntityType returns the ScopedType a namespace's top-level
// entities conform to, per the schema's `path`-tagged type. Unknown if
// the namespace isn't described by the loaded schema.
func (s *Session) NamespaceEntityType(namespace string) *resolver.ScopedType {
	return s.resolver.NamespaceEntityType(namespace)
}

// Navigate resolves key against a ScopedType, returning the property's
// type and updated scope, or NotFound/TypeMismatch.
func (s *Session) Navigate(st *resolver.ScopedType, key string) resolver.NavigationResult {
	return s.resolver.Navigate(st, key)
}

// NavigateFromAST walks path through namespace's entity type, narrowing
// subtypes against entity at every block-valued step so the right
// subtype-only properties become reachable along the way. It stops at the
// first NotFound/TypeMismatch and returns that result.
func (s *Session) NavigateFromAST(namespace string, entity *script.Entity, path []string) resolver.NavigationResult {
	st := s.resolver.NamespaceEntityType(namespace)
	if st.Type.Kind != schema.KindBlock {
		return resolver.NavigationResult{Outcome: resolver.NavTypeMismatch}
	}
	current := s.resolver.NarrowSubtypes(st, entity)

	for i, key := range path {
		result := s.resolver.Navigate(current, key)
		if result.Outcome != resolver.NavSuccess {
			return result
		}
		if i == len(path)-1 {
			return result
		}
		next := result.Result
		if next.Type.Kind != schema.KindBlock {
			return resolver.NavigationResult{Outcome: resolver.NavTypeMismatch}
		}
		nested, ok := nestedEntity(entity, key)
		if ok {
			next = s.resolver.NarrowSubtypes(next, nested)
		}
		current = next
		entity = nested
	}
	return resolver.NavigationResult{Outcome: resolver.NavSuccess, Result: current}
}

// nestedEntity returns the block value of entity's first property named
// key, if any. NavigateFromAST uses it to keep subtype narrowing anchored
// to the concrete AST as it descends.
func nestedEntity(entity *script.Entity, key string) (*script.Entity, bool) {
	if entity == nil {
		return nil, false
	}
	for _, item := range entity.Items {
		if item.Kind != script.ItemExpression || !strings.EqualFold(item.Key, key) {
			continue
		}
		if item.Value == nil || item.Value.Kind != script.ValEntity {
			return nil, false
		}
		return item.Value.Entity, true
	}
	return nil, false
}

// Format renders mod back to canonical script text.
func Format(mod *script.Module) string {
	return format.Module(mod)
}
