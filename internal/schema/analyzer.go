package schema

import (
	"strings"

	"github.com/abrenneke/stelpatch-sub002/internal/cwt"
)

// SchemaFile is one (path, text) input to LoadSchema.
type SchemaFile struct {
	Path string
	Text string
}

// LoadSchema parses every file with internal/cwt and folds the results
// into a single TypeRegistry. A file that fails to parse is recorded in
// the returned error map, keyed by path; the load never fails
// wholesale — every other file still contributes to the registry.
func LoadSchema(files []SchemaFile) (*TypeRegistry, map[string]error) {
	reg := NewTypeRegistry()
	errs := make(map[string]error)
	for _, f := range files {
		doc, perrs := cwt.ParseDocument(f.Text)
		if len(perrs) > 0 {
			errs[f.Path] = perrs[0]
			continue
		}
		analyzeDocument(reg, doc)
	}
	return reg, errs
}

func analyzeDocument(reg *TypeRegistry, doc *cwt.Document) {
	for _, item := range doc.Items {
		analyzeTopLevel(reg, item)
	}
}

func analyzeTopLevel(reg *TypeRegistry, node cwt.Node) {
	if node.Kind != cwt.NodeRule {
		return
	}
	rule := node.Rule
	switch rule.KeyKind {
	case cwt.RefType:
		registerType(reg, rule)
	case cwt.RefEnum:
		registerEnum(reg, rule)
	case cwt.RefComplexEnum:
		registerComplexEnum(reg, rule)
	case cwt.RefValueSet:
		registerValueSet(reg, rule)
	case cwt.RefAlias:
		registerAlias(reg, rule)
	case cwt.RefSingleAlias:
		registerSingleAlias(reg, rule)
	case cwt.RefNone:
		switch rule.Key {
		case "links":
			registerLinks(reg, rule)
		case "scope_groups":
			registerScopeGroups(reg, rule)
		}
	}
}

func registerType(reg *TypeRegistry, rule *cwt.Rule) {
	block, ok := blockOf(rule.Value)
	if !ok {
		return
	}
	bt := buildBlockType(block)
	if path, ok := bt.Properties["path"]; ok && path.Type.Kind == KindLiteral {
		bt.Path = strings.TrimPrefix(path.Type.Literal, "game/")
		delete(bt.Properties, "path")
		reg.PathIndex[bt.Path] = rule.Key
	}
	reg.Types[rule.Key] = bt
}

func registerEnum(reg *TypeRegistry, rule *cwt.Rule) {
	block, ok := blockOf(rule.Value)
	if !ok {
		return
	}
	reg.Enums[rule.Key] = collectBareValues(block)
}

// registerComplexEnum accepts both documented conventions for
// "name-from": a bare path value, or a block carrying `path`/`name_from`
// rules (see the open question this mirrors in SPEC_FULL.md §4.7).
func registerComplexEnum(reg *TypeRegistry, rule *cwt.Rule) {
	def := &ComplexEnumDefinition{Name: rule.Key}
	switch rule.Value.Kind {
	case cwt.NodeValue:
		def.NamespacePath = rule.Value.Value.Text
	case cwt.NodeBlock:
		for _, item := range rule.Value.Block.Items {
			if item.Kind != cwt.NodeRule {
				continue
			}
			switch item.Rule.Key {
			case "path":
				def.NamespacePath = valueText(item.Rule.Value)
			case "name_from", "name":
				def.NameFromPath = valueText(item.Rule.Value)
			}
		}
	}
	reg.ComplexEnums[rule.Key] = def
}

func registerValueSet(reg *TypeRegistry, rule *cwt.Rule) {
	block, ok := blockOf(rule.Value)
	if !ok {
		reg.ValueSets[rule.Key] = nil
		return
	}
	reg.ValueSets[rule.Key] = collectBareValues(block)
}

func registerAlias(reg *TypeRegistry, rule *cwt.Rule) {
	category, key := splitAliasKey(rule.Key)
	def := &AliasDefinition{
		Category:  category,
		Key:       key,
		ValueType: valueTypeFromNode(rule.Value),
		Options:   optionsFromRule(rule),
	}
	reg.Aliases[category] = append(reg.Aliases[category], def)
}

func registerSingleAlias(reg *TypeRegistry, rule *cwt.Rule) {
	reg.SingleAliases[rule.Key] = valueTypeFromNode(rule.Value)
}

func registerLinks(reg *TypeRegistry, rule *cwt.Rule) {
	block, ok := blockOf(rule.Value)
	if !ok {
		return
	}
	for _, item := range block.Items {
		if item.Kind != cwt.NodeRule {
			continue
		}
		childRule := item.Rule
		linkBlock, ok := blockOf(childRule.Value)
		if !ok {
			continue
		}
		link := &LinkDefinition{Name: childRule.Key}
		for _, sub := range linkBlock.Items {
			if sub.Kind != cwt.NodeRule {
				continue
			}
			switch sub.Rule.Key {
			case "input_scopes":
				link.InputScopes = collectScopeNames(sub.Rule.Value)
			case "output_scope":
				link.OutputScope = valueText(sub.Rule.Value)
			}
		}
		reg.Links[childRule.Key] = link
	}
}

func registerScopeGroups(reg *TypeRegistry, rule *cwt.Rule) {
	block, ok := blockOf(rule.Value)
	if !ok {
		return
	}
	for _, item := range block.Items {
		if item.Kind != cwt.NodeRule {
			continue
		}
		childRule := item.Rule
		reg.ScopeGroups[childRule.Key] = &ScopeGroupDefinition{
			Name:    childRule.Key,
			Members: collectScopeNames(childRule.Value),
		}
	}
}

// buildBlockType walks one `{ … }` block's rules into named properties,
// pattern properties (keyed by a reference-tagged or wildcard-literal
// key), and subtype definitions (keyed by a `subtype[name]` key).
func buildBlockType(block *cwt.Block) *BlockType {
	bt := newBlockType()
	for _, item := range block.Items {
		if item.Kind != cwt.NodeRule {
			continue
		}
		childRule := item.Rule
		if childRule.KeyKind == cwt.RefSubtype {
			addSubtype(bt, childRule)
			continue
		}
		prop := buildProperty(childRule)
		if isPatternKey(childRule) {
			bt.PatternProperties = append(bt.PatternProperties, &PatternProperty{
				Pattern: patternFor(childRule),
				Type:    prop.Type,
			})
			continue
		}
		bt.Properties[childRule.Key] = prop
	}
	return bt
}

func buildProperty(rule *cwt.Rule) *Property {
	p := &Property{Name: rule.Key, Type: valueTypeFromNode(rule.Value)}
	for _, opt := range rule.Options {
		if strings.EqualFold(opt.Key, "cardinality") {
			p.Cardinality = opt.Value
		}
	}
	return p
}

// addSubtype treats any child property whose value is a yes/no literal as
// both a required-filter condition (the subtype is active only when
// that property holds that literal value) and an allowed property of
// the subtype — matching how schemas both gate and re-document a
// subtype discriminator like `is_capital = yes`. Other literal-valued
// properties become allowed properties only.
func addSubtype(bt *BlockType, rule *cwt.Rule) {
	block, ok := blockOf(rule.Value)
	if !ok {
		return
	}
	sub := &SubtypeDefinition{
		Name:              rule.Key,
		AllowedProperties: make(map[string]*Property),
		Filter:            SubtypeFilter{RequiredValues: make(map[string]string)},
	}
	for _, item := range block.Items {
		if item.Kind != cwt.NodeRule {
			continue
		}
		childRule := item.Rule
		prop := buildProperty(childRule)
		sub.AllowedProperties[childRule.Key] = prop
		if prop.Type.Kind == KindLiteral && isBooleanLiteral(prop.Type.Literal) {
			sub.Filter.RequiredKeys = append(sub.Filter.RequiredKeys, childRule.Key)
			sub.Filter.RequiredValues[childRule.Key] = prop.Type.Literal
		}
	}
	bt.Subtypes[rule.Key] = sub
}

func valueTypeFromNode(n cwt.Node) *CwtType {
	switch n.Kind {
	case cwt.NodeBlock:
		return Block(buildBlockType(n.Block))
	case cwt.NodeIdentifier:
		return Reference(n.Identifier.Kind, n.Identifier.Key)
	case cwt.NodeValue:
		v := n.Value
		switch v.Kind {
		case cwt.ValRange:
			t := Comparable(Simple(v.Text))
			t.RangeMin = v.RangeMin
			t.RangeMax = v.RangeMax
			return t
		case cwt.ValNumber:
			return Simple("number")
		default:
			return Literal(v.Text)
		}
	default:
		return Unknown()
	}
}

func optionsFromRule(rule *cwt.Rule) AliasOptions {
	opts := AliasOptions{ReplaceScope: make(map[string]string)}
	for _, o := range rule.Options {
		switch strings.ToLower(o.Key) {
		case "push_scope":
			opts.PushScope = o.Value
		case "replace_scope":
			if k, v, ok := strings.Cut(o.Value, ":"); ok {
				opts.ReplaceScope[k] = v
			}
		case "cardinality":
			opts.Cardinality = o.Value
		case "severity":
			opts.Severity = o.Value
		case "graph_related_types":
			opts.GraphRelatedTypes = strings.Split(o.Value, ",")
		}
	}
	return opts
}

func isPatternKey(rule *cwt.Rule) bool {
	if rule.KeyKind != cwt.RefNone {
		return true
	}
	return strings.Contains(rule.Key, "*")
}

func patternFor(rule *cwt.Rule) PropertyPattern {
	switch rule.KeyKind {
	case cwt.RefEnum:
		return PropertyPattern{Kind: PatternEnumMembership, Text: rule.Key}
	case cwt.RefValueSet:
		return PropertyPattern{Kind: PatternValueSetMembership, Text: rule.Key}
	case cwt.RefType:
		return PropertyPattern{Kind: PatternTypeNamespace, Text: rule.Key}
	case cwt.RefScope, cwt.RefScopeGroup:
		return PropertyPattern{Kind: PatternScope, Text: rule.Key}
	case cwt.RefAlias, cwt.RefAliasMatchLeft, cwt.RefAliasName:
		return PropertyPattern{Kind: PatternLink, Text: rule.Key}
	}
	if strings.HasSuffix(rule.Key, "*") {
		return PropertyPattern{Kind: PatternPrefix, Text: strings.TrimSuffix(rule.Key, "*")}
	}
	if strings.HasPrefix(rule.Key, "*") {
		return PropertyPattern{Kind: PatternSuffix, Text: strings.TrimPrefix(rule.Key, "*")}
	}
	return PropertyPattern{Kind: PatternLiteral, Text: rule.Key}
}

func blockOf(n cwt.Node) (*cwt.Block, bool) {
	if n.Kind == cwt.NodeBlock {
		return n.Block, true
	}
	return nil, false
}

func valueText(n cwt.Node) string {
	switch n.Kind {
	case cwt.NodeValue:
		return n.Value.Text
	case cwt.NodeIdentifier:
		return n.Identifier.Key
	default:
		return ""
	}
}

func collectBareValues(block *cwt.Block) []string {
	var out []string
	for _, item := range block.Items {
		switch item.Kind {
		case cwt.NodeValue:
			out = append(out, item.Value.Text)
		case cwt.NodeIdentifier:
			out = append(out, item.Identifier.Key)
		}
	}
	return out
}

func collectScopeNames(n cwt.Node) []string {
	if block, ok := blockOf(n); ok {
		return collectBareValues(block)
	}
	if text := valueText(n); text != "" {
		return []string{text}
	}
	return nil
}

// isBooleanLiteral reports whether text looks like a CW boolean flag.
// Subtype discriminators conventionally gate on a yes/no property (e.g.
// `is_capital = yes`); other literal-valued properties inside a subtype
// block are ordinary allowed properties, not activation filters.
func isBooleanLiteral(text string) bool {
	return strings.EqualFold(text, "yes") || strings.EqualFold(text, "no")
}

func splitAliasKey(key string) (category, sub string) {
	if c, s, ok := strings.Cut(key, ":"); ok {
		return c, s
	}
	return key, ""
}
