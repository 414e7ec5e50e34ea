package resolver

import (
	"sync/atomic"

	"github.com/sirupsen/logrus"

	"github.com/abrenneke/stelpatch-sub002/internal/intern"
	"github.com/abrenneke/stelpatch-sub002/internal/model"
	"github.com/abrenneke/stelpatch-sub002/internal/schema"
	"github.com/abrenneke/stelpatch-sub002/internal/script"
)

// State is one stage of a Resolver's startup sequence. Queries are
// answerable (best-effort) at every stage, but get progressively more
// complete: NamespaceEntityType only works from SchemaLoaded on, dynamic
// value-set/complex-enum membership is only present from Ready on.
type State int32

const (
	Uninitialized State = iota
	SchemaLoaded
	GameDataLoaded
	Analyzed
	Ready
)

func (s State) String() string {
	switch s {
	case SchemaLoaded:
		return "schema-loaded"
	case GameDataLoaded:
		return "game-data-loaded"
	case Analyzed:
		return "analyzed"
	case Ready:
		return "ready"
	default:
		return "uninitialized"
	}
}

// Resolver holds the current schema registry, loaded game data, and
// dynamic-collection results as atomically-swapped snapshots, so a query
// running concurrently with a reload always sees one consistent
// generation rather than a partially-updated mix.
type Resolver struct {
	state    atomic.Int32
	registry atomic.Pointer[schema.TypeRegistry]
	gameMod  atomic.Pointer[model.GameMod]
	analysis atomic.Pointer[FullAnalysisResult]
	cache    atomic.Pointer[Cache]
	interner *intern.Interner
	logger   *logrus.Logger
}

// New returns an Uninitialized Resolver using in to resolve interned
// property keys collected from game data.
func New(in *intern.Interner) *Resolver {
	r := &Resolver{interner: in}
	r.state.Store(int32(Uninitialized))
	r.cache.Store(NewCache())
	return r
}

// SetLogger installs l as the destination for this Resolver's
// generation-swap diagnostics (schema reloads, game-data reloads,
// analysis completion). Passing nil restores the package-level
// logrus.StandardLogger(). Not used as a hidden package-level singleton:
// each Resolver tracks its own logger, consistent with New's one-instance-
// per-caller shape.
func (r *Resolver) SetLogger(l *logrus.Logger) { r.logger = l }

func (r *Resolver) log() *logrus.Logger {
	if r.logger != nil {
		return r.logger
	}
	return logrus.StandardLogger()
}

// LoadSchema replaces the registry and starts a fresh memoization cache
// (a stale cache entry from the previous schema generation would be
// wrong, not just outdated). Advances to SchemaLoaded.
func (r *Resolver) LoadSchema(files []schema.SchemaFile) map[string]error {
	reg, errs := schema.LoadSchema(files)
	r.registry.Store(reg)
	r.cache.Store(NewCache())
	r.state.Store(int32(SchemaLoaded))
	r.log().WithFields(logrus.Fields{
		"files": len(files), "errors": len(errs),
	}).Debug("resolver: schema generation swapped in")
	return errs
}

// LoadGameData installs gm as the current game data snapshot. Advances to
// GameDataLoaded if a schema is already loaded.
func (r *Resolver) LoadGameData(gm *model.GameMod) {
	r.gameMod.Store(gm)
	if r.State() >= SchemaLoaded {
		r.state.Store(int32(GameDataLoaded))
	}
	r.log().WithFields(logrus.Fields{
		"namespaces": len(gm.Namespaces()),
	}).Debug("resolver: game-data generation swapped in")
}

// Analyze runs the dynamic collection pass over the current registry and
// game data, then advances through Analyzed to Ready. Returns nil if
// either a schema or game data hasn't been loaded yet.
func (r *Resolver) Analyze() *FullAnalysisResult {
	reg := r.registry.Load()
	gm := r.gameMod.Load()
	if reg == nil || gm == nil {
		r.log().Debug("resolver: analyze skipped, schema or game data not yet loaded")
		return nil
	}
	result := Collect(reg, gm, r.interner)
	r.analysis.Store(result)
	r.state.Store(int32(Analyzed))
	r.state.Store(int32(Ready))
	r.log().WithFields(logrus.Fields{
		"valueSets": len(result.ValueSets), "complexEnums": len(result.ComplexEnumMembers),
	}).Debug("resolver: analysis generation swapped in, ready")
	return result
}

// Registry returns the currently installed type registry, or nil before
// LoadSchema has run.
func (r *Resolver) Registry() *schema.TypeRegistry { return r.registry.Load() }

// State reports the startup stage the Resolver has reached.
func (r *Resolver) State() State { return State(r.state.Load()) }

// Analysis returns the most recent dynamic-collection result, or nil
// before Analyze has run.
func (r *Resolver) Analysis() *FullAnalysisResult { return r.analysis.Load() }

// NamespaceEntityType returns the ScopedType a namespace's entities
// conform to, per the registered type whose `path` property named it.
// Unknown if the registry doesn't describe this namespace, or if no
// schema has been loaded yet.
func (r *Resolver) NamespaceEntityType(namespace string) *ScopedType {
	reg := r.registry.Load()
	if reg == nil {
		return &ScopedType{Type: schema.Unknown(), Scopes: NewScopeStack("")}
	}
	bt, ok := reg.GetTypeByPath(namespace)
	if !ok {
		return &ScopedType{Type: schema.Unknown(), Scopes: NewScopeStack("")}
	}
	return &ScopedType{Type: schema.Block(bt), Scopes: NewScopeStack(typeNameForPath(reg, namespace))}
}

func typeNameForPath(reg *schema.TypeRegistry, namespace string) string {
	name, ok := reg.PathIndex[namespace]
	if !ok {
		return ""
	}
	return name
}

// Navigate resolves key against st using the resolver's current registry
// and analysis snapshots.
func (r *Resolver) Navigate(st *ScopedType, key string) NavigationResult {
	return Navigate(r.registry.Load(), r.cache.Load(), r.analysis.Load(), st, key)
}

// NarrowSubtypes evaluates st's subtypes against a concrete AST entity and
// returns a copy of st with ActiveSubtypes populated.
func (r *Resolver) NarrowSubtypes(st *ScopedType, entity *script.Entity) *ScopedType {
	next := *st
	next.ActiveSubtypes = NarrowSubtypes(st, entity)
	return &next
}
