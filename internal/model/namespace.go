package model

import "github.com/abrenneke/stelpatch-sub002/internal/script"

// Namespace aggregates every module beneath one `common/<name>` directory.
// All modules in a namespace are merged together: property occurrences
// from every module are appended, in the order modules are inserted, so
// presenting modules in sorted-path order (as the loader does) makes the
// merge deterministic.
type Namespace struct {
	Name       string
	Properties *Properties
	Positional []*script.Value
	Modules    map[string]*Module
	MergeMode  EntityMergeMode
}

// NewNamespace returns an empty Namespace with the given merge mode.
func NewNamespace(name string, mode EntityMergeMode) *Namespace {
	return &Namespace{
		Name:       name,
		Properties: NewModuleProperties(),
		Modules:    make(map[string]*Module),
		MergeMode:  mode,
	}
}

// Insert merges mod into the namespace: every property occurrence and
// positional value is appended (never overwritten), and the module is
// registered under its filename. The merge mode governs how diff tooling
// later *displays* conflicts; it never causes occurrences to be dropped
// here.
func (ns *Namespace) Insert(mod *Module) {
	ns.Properties.merge(mod.Properties)
	ns.Positional = append(ns.Positional, mod.Positional...)
	ns.Modules[mod.Filename] = mod
}

// Module returns the module registered under filename, if any.
func (ns *Namespace) Module(filename string) (*Module, bool) {
	mod, ok := ns.Modules[filename]
	return mod, ok
}
