package model

// MergeKind is how a namespace's conflicting property occurrences should
// be *displayed* by diff tooling. It never causes occurrences to be
// dropped from a merged Namespace — see Namespace.Insert.
type MergeKind int

const (
	MergeUnknown MergeKind = iota
	MergeLIOS               // last-in-overrides
	MergeFIOS               // first-in-overrides
	MergeFIOSKeyed          // first-in-overrides, keyed by KeyField
	MergeDuplicate
	MergeShallow
	MergeDeep
	MergeNo
)

// EntityMergeMode is a namespace's declared conflict-display policy.
// KeyField is only meaningful when Kind is MergeFIOSKeyed.
type EntityMergeMode struct {
	Kind     MergeKind
	KeyField string
}

// namespaceMergeModes maps a `common/<name>` namespace path to its merge
// mode. This list isn't exhaustive — the rest of the namespaces default
// to MergeUnknown via MergeModeForNamespace.
//
// TODO: fill in the remaining namespaces as their merge behavior is
// confirmed against game data.
var namespaceMergeModes = map[string]EntityMergeMode{
	"common/achievements":              {Kind: MergeUnknown},
	"common/agendas":                   {Kind: MergeLIOS},
	"common/agreement_presets":         {Kind: MergeUnknown},
	"common/agreement_resources":       {Kind: MergeUnknown},
	"common/agreement_term_values":     {Kind: MergeFIOS},
	"common/agreement_terms":           {Kind: MergeUnknown},
	"common/ai_budget":                 {Kind: MergeUnknown},
	"common/ai_espionage/spynetworks":  {Kind: MergeUnknown},
	"common/ai_espionage/operations":   {Kind: MergeUnknown},
	"common/ai_espionage":              {Kind: MergeUnknown},
	"common/ambient_objects":           {Kind: MergeUnknown},
	"common/anomalies":                 {Kind: MergeLIOS},
	"common/archaeological_site_types": {Kind: MergeUnknown},
	"common/armies":                    {Kind: MergeLIOS},
	"common/artifact_actions":          {Kind: MergeLIOS},
	"common/ascension_perks":           {Kind: MergeLIOS},
	"common/asteroid_belts":            {Kind: MergeUnknown},
	"common/attitudes":                 {Kind: MergeLIOS},
	"common/bombardment_stances":       {Kind: MergeLIOS},
	"common/scripted_triggers":         {Kind: MergeDuplicate},
	"common/scripted_effects":          {Kind: MergeDuplicate},
	"common/on_actions":                {Kind: MergeShallow},
	"common/game_rules":                {Kind: MergeDeep},
	"common/static_modifiers":          {Kind: MergeFIOSKeyed, KeyField: "key"},
}

// MergeModeForNamespace looks up the merge mode for a namespace path,
// defaulting to MergeUnknown when the namespace isn't in the table.
func MergeModeForNamespace(namespace string) EntityMergeMode {
	if mode, ok := namespaceMergeModes[namespace]; ok {
		return mode
	}
	return EntityMergeMode{Kind: MergeUnknown}
}
