// Package format implements the canonical script formatter: one-tab
// indentation, single-item entities collapsed onto one line when they
// fit, and leading/trailing comments placed the way they were attached
// during parsing. Round-tripping already-canonical text through Format
// reproduces it byte for byte.
package format

import (
	"strings"

	"github.com/abrenneke/stelpatch-sub002/internal/script"
	"github.com/abrenneke/stelpatch-sub002/internal/syntax"
)

// Tab is the single indentation unit; nested blocks indent by one Tab per
// level.
const Tab = "\t"

// compactEntityThreshold is the byte length under which a single-item
// entity is printed `{ key = value }` on one line instead of expanded
// across three.
const compactEntityThreshold = 150

// Module renders a whole parsed module back to canonical script text.
func Module(mod *script.Module) string {
	var b strings.Builder
	for _, item := range mod.Items {
		writeEntityItem(&b, item)
	}
	return b.String()
}

// Entity renders a standalone entity value, e.g. for previewing a single
// block without its enclosing module.
func Entity(e *script.Entity) string {
	var b strings.Builder
	writeEntity(&b, e)
	return b.String()
}

func writeEntityItem(b *strings.Builder, item script.EntityItem) {
	switch item.Kind {
	case script.ItemExpression:
		writeTrivia(b, item.Trivia)
		writeKey(b, item.Key, item.KeyQuoted)
		b.WriteByte(' ')
		b.WriteString(item.Operator.String())
		b.WriteByte(' ')
		writeValue(b, item.Value)
		writeTrailingComment(b, item.Trivia.TrailingComment)
	case script.ItemPositional:
		writeTrivia(b, item.Trivia)
		writeValue(b, item.Positional)
		writeTrailingComment(b, item.Trivia.TrailingComment)
	case script.ItemConditional:
		writeTrivia(b, item.Trivia)
		writeConditional(b, item.Conditional)
		writeTrailingComment(b, item.Trivia.TrailingComment)
	}
}

func writeKey(b *strings.Builder, key string, quoted bool) {
	if quoted {
		b.WriteByte('"')
		b.WriteString(key)
		b.WriteByte('"')
		return
	}
	b.WriteString(key)
}

// writeTrivia emits leading blank lines, then every leading comment on
// its own line.
func writeTrivia(b *strings.Builder, t script.Trivia) {
	if t.LeadingBlankLines > 0 {
		b.WriteString(strings.Repeat("\n", t.LeadingBlankLines))
	}
	for _, c := range t.LeadingComments {
		b.WriteByte('#')
		b.WriteString(c.Text)
		b.WriteByte('\n')
	}
}

// writeTrailingComment ends the current line: either " #comment\n" or
// just "\n" if there's nothing to attach.
func writeTrailingComment(b *strings.Builder, c *syntax.Comment) {
	if c != nil {
		b.WriteString(" #")
		b.WriteString(c.Text)
	}
	b.WriteByte('\n')
}

func writeValue(b *strings.Builder, v *script.Value) {
	if v == nil {
		return
	}
	switch v.Kind {
	case script.ValString:
		writeString(b, v)
	case script.ValNumber:
		writeNumber(b, v)
	case script.ValEntity:
		writeEntity(b, v.Entity)
	case script.ValColor:
		writeColor(b, v.Color)
	case script.ValMaths:
		b.WriteString(v.MathsRaw)
	}
}

// writeString re-emits StringText byte for byte: the scanner keeps escape
// sequences in a quoted string intact rather than decoding them, so no
// re-escaping happens here.
func writeString(b *strings.Builder, v *script.Value) {
	if v.Quoted {
		b.WriteByte('"')
		b.WriteString(v.StringText)
		b.WriteByte('"')
		return
	}
	b.WriteString(v.StringText)
}

// writeNumber emits NumberText verbatim: it already carries a leading '-'
// when the value is negative, so Negative is informational only here.
func writeNumber(b *strings.Builder, v *script.Value) {
	b.WriteString(v.NumberText)
	if v.Percent {
		b.WriteByte('%')
	}
}

func writeEntity(b *strings.Builder, e *script.Entity) {
	if e == nil {
		b.WriteString("{}")
		return
	}
	if len(e.Items) == 1 {
		if compact, ok := tryCompactEntity(e.Items[0]); ok {
			b.WriteString(compact)
			return
		}
	}

	b.WriteByte('{')
	var body strings.Builder
	for _, item := range e.Items {
		writeEntityItem(&body, item)
	}
	if body.Len() > 0 {
		b.WriteByte('\n')
		b.WriteString(indent(body.String()))
		b.WriteByte('\n')
	}
	b.WriteByte('}')
}

// tryCompactEntity renders a single-item entity as `{ item }` and
// accepts it only if the item has no comments attached and the result is
// short and carries no embedded newline — matching the threshold the
// original formatter uses to decide between inline and expanded block form.
func tryCompactEntity(item script.EntityItem) (string, bool) {
	if len(item.Trivia.LeadingComments) > 0 || item.Trivia.TrailingComment != nil {
		return "", false
	}
	var buf strings.Builder
	buf.WriteString("{ ")
	writeCompactItem(&buf, item)
	buf.WriteString(" }")
	out := buf.String()
	if len(out) < compactEntityThreshold && !strings.Contains(out, "\n") {
		return out, true
	}
	return "", false
}

// writeCompactItem renders an item without trivia or a trailing newline,
// for embedding inside a one-line entity.
func writeCompactItem(b *strings.Builder, item script.EntityItem) {
	switch item.Kind {
	case script.ItemExpression:
		writeKey(b, item.Key, item.KeyQuoted)
		b.WriteByte(' ')
		b.WriteString(item.Operator.String())
		b.WriteByte(' ')
		writeValue(b, item.Value)
	case script.ItemPositional:
		writeValue(b, item.Positional)
	case script.ItemConditional:
		writeConditionalCompact(b, item.Conditional)
	}
}

func writeColor(b *strings.Builder, c *script.Color) {
	if c == nil {
		return
	}
	if colorHasTrivia(c) {
		b.WriteString(c.Type.String())
		b.WriteString(" {\n")
		writeColorComponentLine(b, c.R)
		writeColorComponentLine(b, c.G)
		writeColorComponentLine(b, c.B)
		if c.A != nil {
			writeColorComponentLine(b, c.A)
		}
		b.WriteByte('}')
		return
	}
	b.WriteString(c.Type.String())
	b.WriteString(" { ")
	writeNumber(b, c.R)
	b.WriteByte(' ')
	writeNumber(b, c.G)
	b.WriteByte(' ')
	writeNumber(b, c.B)
	if c.A != nil {
		b.WriteByte(' ')
		writeNumber(b, c.A)
	}
	b.WriteString(" }")
}

func colorHasTrivia(c *script.Color) bool {
	return hasTrivia(c.R) || hasTrivia(c.G) || hasTrivia(c.B) || (c.A != nil && hasTrivia(c.A))
}

func hasTrivia(v *script.Value) bool {
	return v != nil && (len(v.Trivia.LeadingComments) > 0 || v.Trivia.TrailingComment != nil)
}

func writeColorComponentLine(b *strings.Builder, v *script.Value) {
	if v.Trivia.LeadingBlankLines > 0 {
		b.WriteString(strings.Repeat("\n", v.Trivia.LeadingBlankLines))
	}
	for _, c := range v.Trivia.LeadingComments {
		b.WriteString(Tab)
		b.WriteByte('#')
		b.WriteString(c.Text)
		b.WriteByte('\n')
	}
	b.WriteString(Tab)
	writeNumber(b, v)
	writeTrailingComment(b, v.Trivia.TrailingComment)
}

func writeConditional(b *strings.Builder, cb *script.ConditionalBlock) {
	b.WriteString("[[")
	if cb.Not {
		b.WriteByte('!')
	}
	b.WriteString(cb.Key)
	b.WriteString("]\n")

	var body strings.Builder
	for _, item := range cb.Items {
		writeEntityItem(&body, item)
	}
	if body.Len() > 0 {
		b.WriteString(indent(body.String()))
		b.WriteByte('\n')
	}
	b.WriteByte(']')
}

func writeConditionalCompact(b *strings.Builder, cb *script.ConditionalBlock) {
	b.WriteString("[[")
	if cb.Not {
		b.WriteByte('!')
	}
	b.WriteString(cb.Key)
	b.WriteString("] ")
	for i, item := range cb.Items {
		if i > 0 {
			b.WriteByte(' ')
		}
		writeCompactItem(b, item)
	}
	b.WriteString(" ]")
}

// indent prefixes every line of s with one Tab.
func indent(s string) string {
	lines := strings.Split(strings.TrimSuffix(s, "\n"), "\n")
	for i, line := range lines {
		lines[i] = Tab + line
	}
	return strings.Join(lines, "\n")
}
