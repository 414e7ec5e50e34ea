// Package resolver navigates a schema.TypeRegistry against concrete
// script data: it turns (current type, current scope) plus a property
// key into the next (type, scope) pair, resolves every reference kind a
// schema can declare, collects the dynamic value-set/complex-enum
// membership a schema alone can't express, and tracks the load/analyze
// state machine a host progresses through before queries are reliable.
package resolver

import "github.com/abrenneke/stelpatch-sub002/internal/schema"

// ScopedType pairs a resolved type with the scope stack in effect at that
// point in the navigation — the same property name can mean different
// things depending on what scope it's reached from (an alias's
// push_scope, a link's output scope), so the two always travel together.
type ScopedType struct {
	Type   *schema.CwtType
	Scopes *ScopeStack

	// ActiveSubtypes is the set of subtype names already known to apply
	// to the concrete entity this ScopedType describes, narrowed via
	// NarrowSubtypes. Nil until narrowing has been attempted.
	ActiveSubtypes []string
}

// NavigationOutcome classifies the result of one navigation step.
type NavigationOutcome int

const (
	// NavSuccess means key resolved to a property, pattern property,
	// active subtype property, scope alias, or link.
	NavSuccess NavigationOutcome = iota
	// NavNotFound means none of the navigation steps matched key.
	NavNotFound
	// NavTypeMismatch means the current type isn't a block, so no
	// property lookup is possible at all.
	NavTypeMismatch
)

// NavigationResult is what Navigate returns: the outcome, and — only on
// NavSuccess — the ScopedType the key navigated to.
type NavigationResult struct {
	Outcome NavigationOutcome
	Result  *ScopedType
}

func notFound() NavigationResult     { return NavigationResult{Outcome: NavNotFound} }
func typeMismatch() NavigationResult { return NavigationResult{Outcome: NavTypeMismatch} }
func success(st *ScopedType) NavigationResult {
	return NavigationResult{Outcome: NavSuccess, Result: st}
}
