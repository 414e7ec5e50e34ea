package schema

// TypeRegistry is the fully-built result of analyzing a schema: every
// type, enum, complex-enum, value-set, alias category, link, and scope
// group declared across all loaded CWT files. It is built once and is
// read-only and freely shared afterward — rebuilds produce a new
// registry rather than mutating this one.
type TypeRegistry struct {
	Types         map[string]*BlockType
	Enums         map[string][]string
	ComplexEnums  map[string]*ComplexEnumDefinition
	ValueSets     map[string][]string
	Aliases       map[string][]*AliasDefinition
	SingleAliases map[string]*CwtType
	Links         map[string]*LinkDefinition
	ScopeGroups   map[string]*ScopeGroupDefinition

	// PathIndex maps a `common/<namespace>` path to the type name whose
	// `path = "..."` property declared it, for namespace_entity_type
	// lookups.
	PathIndex map[string]string
}

// NewTypeRegistry returns an empty registry ready to be populated by the
// analyzer.
func NewTypeRegistry() *TypeRegistry {
	return &TypeRegistry{
		Types:         make(map[string]*BlockType),
		Enums:         make(map[string][]string),
		ComplexEnums:  make(map[string]*ComplexEnumDefinition),
		ValueSets:     make(map[string][]string),
		Aliases:       make(map[string][]*AliasDefinition),
		SingleAliases: make(map[string]*CwtType),
		Links:         make(map[string]*LinkDefinition),
		ScopeGroups:   make(map[string]*ScopeGroupDefinition),
		PathIndex:     make(map[string]string),
	}
}

func (r *TypeRegistry) GetType(name string) (*BlockType, bool) {
	b, ok := r.Types[name]
	return b, ok
}

// GetTypeByPath finds the type whose declared path equals namespace.
func (r *TypeRegistry) GetTypeByPath(namespace string) (*BlockType, bool) {
	name, ok := r.PathIndex[namespace]
	if !ok {
		return nil, false
	}
	return r.GetType(name)
}

func (r *TypeRegistry) GetEnum(name string) ([]string, bool) {
	vs, ok := r.Enums[name]
	return vs, ok
}

func (r *TypeRegistry) GetComplexEnum(name string) (*ComplexEnumDefinition, bool) {
	c, ok := r.ComplexEnums[name]
	return c, ok
}

func (r *TypeRegistry) GetValueSet(name string) ([]string, bool) {
	vs, ok := r.ValueSets[name]
	return vs, ok
}

// AddValueSetMembers appends dynamically-collected members to a value
// set, deduplicating against what's already there.
func (r *TypeRegistry) AddValueSetMembers(name string, members []string) {
	existing := r.ValueSets[name]
	seen := make(map[string]bool, len(existing))
	for _, m := range existing {
		seen[m] = true
	}
	for _, m := range members {
		if !seen[m] {
			seen[m] = true
			existing = append(existing, m)
		}
	}
	r.ValueSets[name] = existing
}

func (r *TypeRegistry) GetAliases(category string) ([]*AliasDefinition, bool) {
	defs, ok := r.Aliases[category]
	return defs, ok
}

func (r *TypeRegistry) GetSingleAlias(name string) (*CwtType, bool) {
	t, ok := r.SingleAliases[name]
	return t, ok
}

func (r *TypeRegistry) GetLink(name string) (*LinkDefinition, bool) {
	l, ok := r.Links[name]
	return l, ok
}

// GetLinks returns every declared link, keyed by name.
func (r *TypeRegistry) GetLinks() map[string]*LinkDefinition {
	return r.Links
}

func (r *TypeRegistry) GetScopeGroup(name string) (*ScopeGroupDefinition, bool) {
	g, ok := r.ScopeGroups[name]
	return g, ok
}

// ResolveScopeName resolves a push_scope/replace_scope option value to a
// concrete scope type name. A scope-group name resolves to itself (a
// scope matches the group if it's one of the group's members — see the
// scope-pattern matching in internal/resolver/navigate.go); anything else
// is assumed to already be a
// concrete scope type.
func (r *TypeRegistry) ResolveScopeName(name string) (string, bool) {
	if name == "" {
		return "", false
	}
	return name, true
}
