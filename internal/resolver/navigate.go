package resolver

import (
	"strings"

	"github.com/abrenneke/stelpatch-sub002/internal/schema"
)

// Navigate resolves one property key against st, trying in order: a
// named property, a pattern property, an already-narrowed active
// subtype's property, a reserved scope alias, then a link. The first
// match wins; analysis supplies dynamically-collected value-set and
// complex-enum membership that the static registry alone can't provide
// (nil is fine — patterns that need it just won't match anything extra).
func Navigate(reg *schema.TypeRegistry, cache *Cache, analysis *FullAnalysisResult, st *ScopedType, key string) NavigationResult {
	if st == nil || st.Type == nil || st.Type.Kind != schema.KindBlock {
		return typeMismatch()
	}
	bt := st.Type.Block

	if prop, ok := bt.Properties[key]; ok {
		return navigateInto(reg, cache, st.Scopes, prop.Type)
	}

	if r, ok := navigatePatterns(reg, cache, analysis, st, bt.PatternProperties, key); ok {
		return r
	}

	for _, subName := range st.ActiveSubtypes {
		sub, ok := bt.Subtypes[subName]
		if !ok {
			continue
		}
		if prop, ok := sub.AllowedProperties[key]; ok {
			return navigateInto(reg, cache, st.Scopes, prop.Type)
		}
		if r, ok := navigatePatterns(reg, cache, analysis, st, sub.PatternProperties, key); ok {
			return r
		}
	}

	if frame, ok := st.Scopes.GetScopeByName(strings.ToLower(key)); ok {
		return navigateScope(reg, st.Scopes, frame.ScopeType)
	}

	if link, ok := reg.GetLink(key); ok && link.CanBeUsedFrom(st.Scopes.Current().ScopeType) {
		pushed, err := st.Scopes.Push(link.OutputScope)
		if err != nil {
			return notFound()
		}
		return navigateScope(reg, pushed, link.OutputScope)
	}

	return notFound()
}

func navigateInto(reg *schema.TypeRegistry, cache *Cache, scopes *ScopeStack, t *schema.CwtType) NavigationResult {
	resolved, err := ResolveType(reg, cache, t)
	if err != nil {
		return notFound()
	}
	return success(&ScopedType{Type: resolved, Scopes: scopes})
}

// navigateScope builds the pseudo-property ScopedType a scope alias or
// link resolves to: the block type registered for scopeType, if any,
// else Unknown (the scope is still valid, just not schema-described).
func navigateScope(reg *schema.TypeRegistry, scopes *ScopeStack, scopeType string) NavigationResult {
	bt, ok := reg.GetType(scopeType)
	if !ok {
		return success(&ScopedType{Type: schema.Unknown(), Scopes: scopes})
	}
	return success(&ScopedType{Type: schema.Block(bt), Scopes: scopes})
}

// navigatePatterns checks key against one pattern-property list. A
// PatternLink match applies the matching alias definition's scope
// options before returning its value type, since alias dispatch is the
// one pattern kind that mutates the scope stack as part of matching.
func navigatePatterns(reg *schema.TypeRegistry, cache *Cache, analysis *FullAnalysisResult, st *ScopedType, patterns []*schema.PatternProperty, key string) (NavigationResult, bool) {
	for _, pp := range patterns {
		if pp.Pattern.Kind == schema.PatternLink {
			if r, ok := dispatchAlias(reg, cache, st.Scopes, pp.Pattern.Text, key); ok {
				return r, true
			}
			continue
		}
		if matchesPattern(reg, analysis, pp.Pattern, key) {
			return navigateInto(reg, cache, st.Scopes, pp.Type), true
		}
	}
	return NavigationResult{}, false
}

// dispatchAlias finds the alias in category whose Key matches propName
// and, if found, applies its push_scope/replace_scope options before
// resolving its value type.
func dispatchAlias(reg *schema.TypeRegistry, cache *Cache, scopes *ScopeStack, category, propName string) (NavigationResult, bool) {
	defs, ok := reg.GetAliases(category)
	if !ok {
		return NavigationResult{}, false
	}
	for _, def := range defs {
		if !strings.EqualFold(def.Key, propName) {
			continue
		}
		next, err := ApplyAliasScope(scopes, def.Options)
		if err != nil {
			return notFound(), true
		}
		return navigateInto(reg, cache, next, def.ValueType), true
	}
	return NavigationResult{}, false
}

func matchesPattern(reg *schema.TypeRegistry, analysis *FullAnalysisResult, p schema.PropertyPattern, key string) bool {
	switch p.Kind {
	case schema.PatternLiteral:
		return strings.EqualFold(p.Text, key)
	case schema.PatternPrefix:
		return strings.HasPrefix(strings.ToLower(key), strings.ToLower(p.Text))
	case schema.PatternSuffix:
		return strings.HasSuffix(strings.ToLower(key), strings.ToLower(p.Text))
	case schema.PatternEnumMembership:
		members, _ := reg.GetEnum(p.Text)
		return containsFold(members, key)
	case schema.PatternValueSetMembership:
		members, _ := reg.GetValueSet(p.Text)
		if containsFold(members, key) {
			return true
		}
		if analysis != nil {
			return containsFold(analysis.ValueSets[p.Text], key)
		}
		return false
	case schema.PatternTypeNamespace:
		_, ok := reg.GetType(p.Text)
		return ok
	case schema.PatternScope:
		if strings.EqualFold(p.Text, key) {
			return true
		}
		if group, ok := reg.GetScopeGroup(p.Text); ok {
			return containsFold(group.Members, key)
		}
		return false
	default:
		return false
	}
}

func containsFold(values []string, key string) bool {
	for _, v := range values {
		if strings.EqualFold(v, key) {
			return true
		}
	}
	return false
}
