package script

import "github.com/abrenneke/stelpatch-sub002/internal/syntax"

// Document owns a source buffer together with the Module parsed from it,
// so a caller that needs to keep serving queries against the AST (an
// editor session, say) can hold one handle instead of juggling the
// buffer and the borrowed spans separately.
type Document struct {
	source string
	module *Module
	errors []*ParseError
}

// Parse parses source and returns a Document owning both.
func Parse(source string) *Document {
	m, errs := ParseModule(source)
	return &Document{source: source, module: m, errors: errs}
}

func (d *Document) Source() string        { return d.source }
func (d *Document) Module() *Module       { return d.module }
func (d *Document) Errors() []*ParseError { return d.errors }

// Text returns the substring of the document's source covered by span.
func (d *Document) Text(span syntax.Span) string {
	return span.Text(d.source)
}
