package model

import "sort"

// ModDescriptor is the parsed contents of a mod's descriptor file: name,
// install path, version constraints, and optional metadata.
type ModDescriptor struct {
	Name             string
	Path             string
	Version          string
	SupportedVersion string
	Picture          string
	RemoteFileID     string
	Tags             []string
	Dependencies     []string
	Archive          string
}

// GameMod is every namespace loaded for one mod (or the base game),
// keyed by namespace name.
type GameMod struct {
	Definition ModDescriptor
	namespaces map[string]*Namespace
}

// NewGameMod returns a GameMod with no namespaces loaded yet.
func NewGameMod(def ModDescriptor) *GameMod {
	return &GameMod{Definition: def, namespaces: make(map[string]*Namespace)}
}

// Push inserts mod into its namespace, creating the namespace (with the
// merge mode from the static namespace table) on first use.
func (gm *GameMod) Push(mod *Module) *Namespace {
	ns, ok := gm.namespaces[mod.Namespace]
	if !ok {
		ns = NewNamespace(mod.Namespace, MergeModeForNamespace(mod.Namespace))
		gm.namespaces[mod.Namespace] = ns
	}
	ns.Insert(mod)
	return ns
}

// Namespace returns the namespace registered under name, if any.
func (gm *GameMod) Namespace(name string) (*Namespace, bool) {
	ns, ok := gm.namespaces[name]
	return ns, ok
}

// Namespaces returns the sorted names of every namespace loaded so far —
// a debugging/introspection aid, replacing the original's stdout dump
// with a value the host can render however it likes.
func (gm *GameMod) Namespaces() []string {
	names := make([]string, 0, len(gm.namespaces))
	for name := range gm.namespaces {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
