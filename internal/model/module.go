package model

import "github.com/abrenneke/stelpatch-sub002/internal/script"

// Module is the contents of a single source file: its namespace-scoped
// properties, positional values, and any module-scope conditional blocks
// (preserved but not folded into namespace properties — merging behavior
// for module-scope conditionals is unspecified upstream).
type Module struct {
	Namespace    string
	Filename     string
	Properties   *Properties
	Positional   []*script.Value
	Conditionals []*script.ConditionalBlock
}

// NewModule returns an empty Module for the given namespace/filename pair.
func NewModule(namespace, filename string) *Module {
	return &Module{
		Namespace:  namespace,
		Filename:   filename,
		Properties: NewModuleProperties(),
	}
}
