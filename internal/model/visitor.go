package model

import (
	"github.com/abrenneke/stelpatch-sub002/internal/intern"
	"github.com/abrenneke/stelpatch-sub002/internal/script"
)

// BuildModule walks a parsed script AST and produces the Module it
// describes: every Expression item becomes a Properties occurrence
// (appended, never overwritten), every positional item becomes a
// positional value, and every top-level conditional block is kept
// unresolved on Conditionals.
func BuildModule(namespace, filename string, ast *script.Module, in *intern.Interner) *Module {
	mod := NewModule(namespace, filename)
	for _, item := range ast.Items {
		visitItem(mod, item, in)
	}
	return mod
}

func visitItem(mod *Module, item script.EntityItem, in *intern.Interner) {
	switch item.Kind {
	case script.ItemExpression:
		key := in.GetOrIntern(item.Key)
		mod.Properties.Append(key, PropertyInfo{Operator: item.Operator, Value: item.Value})
	case script.ItemPositional:
		mod.Positional = append(mod.Positional, item.Positional)
	case script.ItemConditional:
		mod.Conditionals = append(mod.Conditionals, item.Conditional)
	}
}
