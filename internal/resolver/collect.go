package resolver

import (
	"regexp"
	"sort"
	"strings"

	"github.com/abrenneke/stelpatch-sub002/internal/cwt"
	"github.com/abrenneke/stelpatch-sub002/internal/intern"
	"github.com/abrenneke/stelpatch-sub002/internal/model"
	"github.com/abrenneke/stelpatch-sub002/internal/schema"
	"github.com/abrenneke/stelpatch-sub002/internal/script"
)

// FullAnalysisResult is the dynamic-collection pass's output: membership
// a schema alone can't declare, because it depends on what game data
// actually contains rather than what the schema permits.
type FullAnalysisResult struct {
	// ValueSets holds, per value_set name, every string value collected
	// from a property whose declared type references that set — the
	// schema-declared members (if any) plus whatever game data added.
	ValueSets map[string][]string

	// ComplexEnumMembers holds, per complex-enum name, every member name
	// collected from its declared namespace.
	ComplexEnumMembers map[string][]string

	// ScriptedEffectParams holds, per scripted-effect/trigger name under
	// `common/scripted_effects` and `common/scripted_triggers`, every
	// `$PARAM$`-style placeholder token found in its body.
	ScriptedEffectParams map[string][]string
}

var paramPlaceholder = regexp.MustCompile(`\$([A-Za-z_][A-Za-z0-9_]*)\$`)

// Collect walks every namespace in gm, mirroring value_set_collector.rs's
// per-namespace, per-entity recursive walk: value-set membership comes
// from properties whose registry-declared type is a value_set reference
// (recursing into nested block-typed properties), complex-enum membership
// comes from each top-level entity under the complex enum's declared
// namespace (its key, or the value of the property its NameFromPath
// names, falling back to the key), and scripted-effect parameters come
// from scanning
// `scripted_effects`/`scripted_triggers` bodies for placeholder tokens.
func Collect(reg *schema.TypeRegistry, gm *model.GameMod, in *intern.Interner) *FullAnalysisResult {
	sets := make(map[string]map[string]bool)
	for name, members := range reg.ValueSets {
		if len(members) == 0 {
			continue
		}
		s := make(map[string]bool, len(members))
		for _, m := range members {
			s[m] = true
		}
		sets[name] = s
	}

	result := &FullAnalysisResult{
		ComplexEnumMembers:   make(map[string][]string),
		ScriptedEffectParams: make(map[string][]string),
	}

	for _, nsName := range gm.Namespaces() {
		ns, ok := gm.Namespace(nsName)
		if !ok {
			continue
		}
		if bt, ok := reg.GetTypeByPath(nsName); ok {
			collectNamespaceValueSets(reg, bt, ns.Properties, in, sets)
		}
		if isScriptedEffectNamespace(nsName) {
			collectScriptedParams(ns.Properties, in, result.ScriptedEffectParams)
		}
	}

	for name, def := range reg.ComplexEnums {
		result.ComplexEnumMembers[name] = collectComplexEnumMembers(gm, def, in)
	}

	result.ValueSets = make(map[string][]string, len(sets))
	for name, s := range sets {
		result.ValueSets[name] = sortedKeys(s)
	}
	return result
}

func isScriptedEffectNamespace(ns string) bool {
	return ns == "common/scripted_effects" || ns == "common/scripted_triggers"
}

func collectNamespaceValueSets(reg *schema.TypeRegistry, bt *schema.BlockType, props *model.Properties, in *intern.Interner, sets map[string]map[string]bool) {
	lower := lowerPropertyIndex(bt)
	for _, sym := range props.Keys() {
		text, ok := in.Resolve(sym)
		if !ok {
			continue
		}
		prop, ok := lower[text]
		if !ok {
			continue
		}
		list, _ := props.Get(sym)
		for _, info := range *list {
			collectValueSetsForProperty(reg, prop.Type, info.Value, sets)
		}
	}
}

func collectBlockValueSets(reg *schema.TypeRegistry, bt *schema.BlockType, items []script.EntityItem, sets map[string]map[string]bool) {
	lower := lowerPropertyIndex(bt)
	for _, item := range items {
		if item.Kind != script.ItemExpression || item.Value == nil {
			continue
		}
		prop, ok := lower[strings.ToLower(item.Key)]
		if !ok {
			continue
		}
		collectValueSetsForProperty(reg, prop.Type, item.Value, sets)
	}
}

func collectValueSetsForProperty(reg *schema.TypeRegistry, t *schema.CwtType, value *script.Value, sets map[string]map[string]bool) {
	if t == nil || value == nil {
		return
	}
	switch t.Kind {
	case schema.KindReference:
		switch t.Ref.Kind {
		case cwt.RefValueSet:
			if value.Kind == script.ValString {
				addMember(sets, t.Ref.Key, value.StringText)
			}
		case cwt.RefType:
			if nested, ok := reg.GetType(t.Ref.Key); ok && value.Kind == script.ValEntity && value.Entity != nil {
				collectBlockValueSets(reg, nested, value.Entity.Items, sets)
			}
		}
	case schema.KindBlock:
		if value.Kind == script.ValEntity && value.Entity != nil {
			collectBlockValueSets(reg, t.Block, value.Entity.Items, sets)
		}
	}
}

func lowerPropertyIndex(bt *schema.BlockType) map[string]*schema.Property {
	idx := make(map[string]*schema.Property, len(bt.Properties))
	for k, v := range bt.Properties {
		idx[strings.ToLower(k)] = v
	}
	return idx
}

func addMember(sets map[string]map[string]bool, name, value string) {
	s, ok := sets[name]
	if !ok {
		s = make(map[string]bool)
		sets[name] = s
	}
	s[value] = true
}

func sortedKeys(s map[string]bool) []string {
	out := make([]string, 0, len(s))
	for k := range s {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// collectComplexEnumMembers collects one member name per entity in
// def.NamespacePath's namespace. When NameFromPath is empty or "key", the
// member name is the entity's own top-level key (the common convention).
// Otherwise it's interpreted as a property name on the entity itself: each
// occurrence of the top-level key is navigated one level into its entity
// value looking for that property, and its string value (if any) becomes
// the member name, falling back to the entity key when the property is
// absent or isn't a plain string — still a member list either way, just
// with a name_from-aware display name when the convention supplies one.
func collectComplexEnumMembers(gm *model.GameMod, def *schema.ComplexEnumDefinition, in *intern.Interner) []string {
	ns, ok := gm.Namespace(def.NamespacePath)
	if !ok {
		return nil
	}
	byKey := def.NameFromPath == "" || strings.EqualFold(def.NameFromPath, "key")

	seen := make(map[string]bool)
	var out []string
	for _, sym := range ns.Properties.Keys() {
		text, ok := in.Resolve(sym)
		if !ok {
			continue
		}
		if byKey {
			if !seen[text] {
				seen[text] = true
				out = append(out, text)
			}
			continue
		}
		list, _ := ns.Properties.Get(sym)
		for _, info := range *list {
			name := text
			if nested, ok := nestedStringProperty(info.Value, def.NameFromPath); ok {
				name = nested
			}
			if !seen[name] {
				seen[name] = true
				out = append(out, name)
			}
		}
	}
	sort.Strings(out)
	return out
}

// nestedStringProperty looks up name as a top-level (case-insensitive)
// property of v's entity and returns its string value, if v is an entity
// and the property's value is a plain string.
func nestedStringProperty(v *script.Value, name string) (string, bool) {
	if v == nil || v.Kind != script.ValEntity || v.Entity == nil {
		return "", false
	}
	for _, item := range v.Entity.Items {
		if item.Kind != script.ItemExpression || !strings.EqualFold(item.Key, name) {
			continue
		}
		if item.Value == nil || item.Value.Kind != script.ValString {
			return "", false
		}
		return item.Value.StringText, true
	}
	return "", false
}

func collectScriptedParams(props *model.Properties, in *intern.Interner, out map[string][]string) {
	for _, sym := range props.Keys() {
		name, ok := in.Resolve(sym)
		if !ok {
			continue
		}
		list, _ := props.Get(sym)
		seen := make(map[string]bool)
		var params []string
		for _, info := range *list {
			for _, tok := range scanPlaceholders(info.Value) {
				if !seen[tok] {
					seen[tok] = true
					params = append(params, tok)
				}
			}
		}
		if len(params) > 0 {
			sort.Strings(params)
			out[name] = params
		}
	}
}

func scanPlaceholders(v *script.Value) []string {
	if v == nil {
		return nil
	}
	var found []string
	switch v.Kind {
	case script.ValString:
		for _, m := range paramPlaceholder.FindAllStringSubmatch(v.StringText, -1) {
			found = append(found, m[1])
		}
	case script.ValEntity:
		if v.Entity != nil {
			for _, item := range v.Entity.Items {
				if item.Kind == script.ItemExpression {
					found = append(found, scanPlaceholders(item.Value)...)
				}
				if item.Kind == script.ItemPositional {
					found = append(found, scanPlaceholders(item.Positional)...)
				}
			}
		}
	}
	return found
}
