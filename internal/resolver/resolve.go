package resolver

import (
	"github.com/abrenneke/stelpatch-sub002/internal/cwt"
	"github.com/abrenneke/stelpatch-sub002/internal/schema"
)

// ResolveType follows t through every layer of reference indirection
// (type/enum/value_set/single_alias/scope/colour/icon/filepath) until it
// reaches a concrete shape, memoizing each reference it passes through in
// cache. Non-reference types are returned unchanged. ValueSet/ComplexEnum
// results carry only the schema-declared membership (none, for a complex
// enum); members collected by Collect are not merged into them, here or
// in navigate.go, which consults the analysis only when matching
// value_set pattern keys.
func ResolveType(reg *schema.TypeRegistry, cache *Cache, t *schema.CwtType) (*schema.CwtType, error) {
	return resolveVisited(reg, cache, t, make(map[cacheKey]bool))
}

func resolveVisited(reg *schema.TypeRegistry, cache *Cache, t *schema.CwtType, visited map[cacheKey]bool) (*schema.CwtType, error) {
	if t == nil || t.Kind != schema.KindReference {
		return t, nil
	}
	ref := t.Ref
	k := cacheKey{kind: ref.Kind, key: ref.Key}
	if visited[k] {
		return nil, &ResolutionError{Kind: ErrAliasCycle, Ref: ref}
	}
	visited[k] = true

	return cache.GetOrResolve(ref.Kind, ref.Key, func() (*schema.CwtType, error) {
		switch ref.Kind {
		case cwt.RefType:
			bt, ok := reg.GetType(ref.Key)
			if !ok {
				return nil, &ResolutionError{Kind: ErrReferenceNotFound, Ref: ref}
			}
			return schema.Block(bt), nil

		case cwt.RefEnum:
			members, ok := reg.GetEnum(ref.Key)
			if !ok {
				return nil, &ResolutionError{Kind: ErrReferenceNotFound, Ref: ref}
			}
			return schema.LiteralSet(members), nil

		case cwt.RefComplexEnum:
			if _, ok := reg.GetComplexEnum(ref.Key); !ok {
				return nil, &ResolutionError{Kind: ErrReferenceNotFound, Ref: ref}
			}
			// Membership is collected by Collect and is not included here.
			return schema.LiteralSet(nil), nil

		case cwt.RefValueSet:
			members, ok := reg.GetValueSet(ref.Key)
			if !ok {
				return nil, &ResolutionError{Kind: ErrReferenceNotFound, Ref: ref}
			}
			return schema.LiteralSet(members), nil

		case cwt.RefSingleAlias:
			inner, ok := reg.GetSingleAlias(ref.Key)
			if !ok {
				return nil, &ResolutionError{Kind: ErrReferenceNotFound, Ref: ref}
			}
			return resolveVisited(reg, cache, inner, visited)

		case cwt.RefScope, cwt.RefScopeGroup:
			return schema.Simple("scope"), nil

		case cwt.RefColour:
			return schema.Simple("colour"), nil

		case cwt.RefIcon, cwt.RefFilepath:
			return schema.Simple("path"), nil

		default:
			return schema.Unknown(), nil
		}
	})
}

// ApplyAliasScope returns the scope stack produced by applying opts to
// scopes: push_scope adds a frame first; then a replace_scope entry for
// "this" replaces the current frame's scope type on a copy of the stack.
// replace_scope entries naming any other alias are ignored.
func ApplyAliasScope(scopes *ScopeStack, opts schema.AliasOptions) (*ScopeStack, error) {
	next := scopes
	if opts.PushScope != "" {
		pushed, err := next.Push(opts.PushScope)
		if err != nil {
			return nil, err
		}
		next = pushed
	}
	for name, scopeType := range opts.ReplaceScope {
		frame, ok := next.GetScopeByName(name)
		_ = frame
		if !ok {
			continue
		}
		if name == "this" {
			next = next.WithCurrentReplaced(scopeType)
		}
	}
	return next, nil
}
