package script

import (
	"strings"

	"github.com/abrenneke/stelpatch-sub002/internal/syntax"
)

// parser drives a single top-to-bottom pass over a Scanner, backtracking
// with SetPos when a tentative production doesn't pan out.
type parser struct {
	s   *syntax.Scanner
	src string
}

// ParseModule parses src as a sequence of top-level entity items. A
// failing item aborts the parse; the error is the single element of the
// returned slice and items collected before the failure are still
// returned in m.Items.
func ParseModule(src string) (*Module, []*ParseError) {
	p := &parser{s: syntax.New(src), src: src}
	var items []EntityItem
	var errs []*ParseError

	for {
		trivia := p.leadingTrivia()
		if p.s.Eof() {
			break
		}
		item, err := p.parseEntityItem(trivia, true)
		if err != nil {
			errs = append(errs, err)
			break
		}
		items = append(items, item)
	}

	return &Module{Span: syntax.Span{Start: 0, End: p.s.Pos()}, Items: items}, errs
}

func (p *parser) leadingTrivia() Trivia {
	items := p.s.ScanTrivia()
	return Trivia{
		LeadingComments:   syntax.Comments(items),
		LeadingBlankLines: syntax.LeadingNewlines(items),
	}
}

func (p *parser) attachTrailing(t *Trivia) {
	if c, ok := p.s.TrailingComment(); ok {
		t.TrailingComment = &c
	}
}

// tryKey attempts to scan a key token: a quoted string or an identifier.
// It does not backtrack on failure because it consumes nothing when
// neither matches.
func (p *parser) tryKey() (text string, span syntax.Span, quoted bool, ok bool) {
	if t, sp, ok := p.s.QuotedString(); ok {
		return t, sp, true, true
	}
	if t, sp, ok := p.s.Identifier(); ok {
		return t, sp, false, true
	}
	return "", syntax.Span{}, false, false
}

// parseEntityItem tries, in order: an Expression (a key followed by an
// operator), a Conditional block (only when allowConditional, since
// conditional blocks don't nest), and finally a positional Value.
func (p *parser) parseEntityItem(trivia Trivia, allowConditional bool) (EntityItem, *ParseError) {
	saved := p.s.Pos()

	if key, keySpan, quoted, ok := p.tryKey(); ok {
		p.s.ScanTrivia()
		if op, opSpan, ok2 := p.s.Operator(); ok2 {
			p.s.ScanTrivia()
			value, err := p.parseValue()
			if err != nil {
				return EntityItem{}, err
			}
			item := EntityItem{
				Kind:         ItemExpression,
				Trivia:       trivia,
				Key:          key,
				KeyQuoted:    quoted,
				KeySpan:      keySpan,
				Operator:     op,
				OperatorSpan: opSpan,
				Value:        value,
				Span:         syntax.Span{Start: keySpan.Start, End: p.s.Pos()},
			}
			p.attachTrailing(&item.Trivia)
			return item, nil
		}
		p.s.SetPos(saved)
	}

	if allowConditional && p.s.StartsWith("[[") {
		cond, err := p.parseConditionalBlock()
		if err != nil {
			return EntityItem{}, err
		}
		item := EntityItem{Kind: ItemConditional, Trivia: trivia, Conditional: cond, Span: cond.Span}
		p.attachTrailing(&item.Trivia)
		return item, nil
	}

	value, err := p.parseValue()
	if err != nil {
		return EntityItem{}, err
	}
	item := EntityItem{Kind: ItemPositional, Trivia: trivia, Positional: value, Span: value.Span}
	p.attachTrailing(&item.Trivia)
	return item, nil
}

func (p *parser) parseConditionalBlock() (*ConditionalBlock, *ParseError) {
	start := p.s.Pos()
	p.s.Advance(2) // "[["
	p.s.ScanTrivia()

	not := false
	if b, ok := p.s.Peek(); ok && b == '!' {
		not = true
		p.s.Advance(1)
		p.s.ScanTrivia()
	}

	key, keySpan, _, ok := p.tryKey()
	if !ok {
		return nil, newParseError(p.src, syntax.Span{Start: p.s.Pos(), End: p.s.Pos()}, "identifier", "expected conditional block key")
	}
	p.s.ScanTrivia()
	if b, ok := p.s.Peek(); !ok || b != ']' {
		return nil, newParseError(p.src, syntax.Span{Start: p.s.Pos(), End: p.s.Pos()}, "]", "expected ']' after conditional key")
	}
	p.s.Advance(1)

	var items []EntityItem
	for {
		trivia := p.leadingTrivia()
		b, ok := p.s.Peek()
		if ok && b == ']' {
			p.s.Advance(1)
			break
		}
		if !ok {
			return nil, newParseError(p.src, syntax.Span{Start: start, End: p.s.Pos()}, "]", "unterminated conditional block")
		}
		item, err := p.parseEntityItem(trivia, false)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	return &ConditionalBlock{
		Span:    syntax.Span{Start: start, End: p.s.Pos()},
		Not:     not,
		Key:     key,
		KeySpan: keySpan,
		Items:   items,
	}, nil
}

func (p *parser) parseEntity() (*Entity, *ParseError) {
	start := p.s.Pos()
	p.s.Advance(1) // '{'

	var items []EntityItem
	for {
		trivia := p.leadingTrivia()
		b, ok := p.s.Peek()
		if ok && b == '}' {
			p.s.Advance(1)
			return &Entity{Span: syntax.Span{Start: start, End: p.s.Pos()}, Items: items}, nil
		}
		if !ok {
			return nil, newParseError(p.src, syntax.Span{Start: start, End: p.s.Pos()}, "}", "unterminated entity")
		}
		item, err := p.parseEntityItem(trivia, true)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
}

// parseValue tries, in order: color, entity, number, string, inline
// maths. The first success wins.
func (p *parser) parseValue() (*Value, *ParseError) {
	start := p.s.Pos()

	if v, matched, err := p.tryColor(); matched {
		return v, err
	}

	if b, ok := p.s.Peek(); ok && b == '{' {
		ent, err := p.parseEntity()
		if err != nil {
			return nil, err
		}
		return &Value{Kind: ValEntity, Span: ent.Span, Entity: ent}, nil
	}

	if v, ok := p.tryNumber(); ok {
		return v, nil
	}

	if text, span, quoted, ok := p.tryKey(); ok {
		return &Value{Kind: ValString, Span: span, StringText: text, Quoted: quoted}, nil
	}

	if v, ok := p.tryMaths(); ok {
		return v, nil
	}

	return nil, newParseError(p.src, syntax.Span{Start: start, End: start}, "", "unexpected value")
}

func (p *parser) tryNumber() (*Value, bool) {
	start := p.s.Pos()
	text, span, ok := p.s.Number()
	percent := false
	if !ok {
		// '%' isn't a value terminator, so "50%" is checked with Number on
		// the text before the '%'.
		end := len(p.src) - len(strings.TrimLeft(p.src[start:], "+-.0123456789"))
		if end == len(p.src) || p.src[end] != '%' {
			return nil, false
		}
		text, _, ok = syntax.New(p.src[start:end]).Number()
		p.s.SetPos(end + 1)
		if !ok || len(text) != end-start || !p.s.AtValueTerminator() {
			p.s.SetPos(start)
			return nil, false
		}
		span, percent = syntax.Span{Start: start, End: end + 1}, true
	}
	v := &Value{
		Kind:       ValNumber,
		Span:       span,
		NumberText: text,
		Negative:   strings.HasPrefix(text, "-"),
		Decimal:    strings.Contains(text, "."),
		Percent:    percent,
	}
	return v, true
}

// parseColorComponent scans a single number inside a color tuple,
// carrying its own leading/trailing trivia so long-form colors with a
// comment per line round-trip.
func (p *parser) parseColorComponent() (*Value, *ParseError) {
	trivia := p.leadingTrivia()
	v, ok := p.tryNumber()
	if !ok {
		return nil, newParseError(p.src, syntax.Span{Start: p.s.Pos(), End: p.s.Pos()}, "number", "expected color component")
	}
	v.Trivia.LeadingComments = trivia.LeadingComments
	v.Trivia.LeadingBlankLines = trivia.LeadingBlankLines
	p.attachTrailing(&v.Trivia)
	return v, nil
}

// tryColor recognizes `rgb { r g b [a] }` / `hsv { h s v [a] }`. It
// backtracks fully when the keyword isn't followed by a brace, since
// "rgb" is otherwise just an ordinary string.
func (p *parser) tryColor() (*Value, bool, *ParseError) {
	start := p.s.Pos()
	kw, _, ok := p.s.Identifier()
	if !ok || (kw != "rgb" && kw != "hsv") {
		p.s.SetPos(start)
		return nil, false, nil
	}

	p.s.ScanTrivia()
	if b, ok := p.s.Peek(); !ok || b != '{' {
		p.s.SetPos(start)
		return nil, false, nil
	}
	p.s.Advance(1) // '{'

	colorType := ColorRGB
	if kw == "hsv" {
		colorType = ColorHSV
	}

	r, err := p.parseColorComponent()
	if err != nil {
		return nil, true, err
	}
	g, err := p.parseColorComponent()
	if err != nil {
		return nil, true, err
	}
	b, err := p.parseColorComponent()
	if err != nil {
		return nil, true, err
	}

	var a *Value
	preAlpha := p.s.Pos()
	p.leadingTrivia()
	if peek, ok := p.s.Peek(); !ok || peek != '}' {
		p.s.SetPos(preAlpha)
		a, err = p.parseColorComponent()
		if err != nil {
			return nil, true, err
		}
		p.leadingTrivia()
	}

	if peek, ok := p.s.Peek(); !ok || peek != '}' {
		return nil, true, newParseError(p.src, syntax.Span{Start: p.s.Pos(), End: p.s.Pos()}, "}", "expected closing brace in color")
	}
	p.s.Advance(1)

	span := syntax.Span{Start: start, End: p.s.Pos()}
	return &Value{
		Kind: ValColor,
		Span: span,
		Color: &Color{
			Span: span,
			Type: colorType,
			R:    r,
			G:    g,
			B:    b,
			A:    a,
		},
	}, true, nil
}

// tryMaths recognizes `@[ … ]` or `@\[ … ]`, storing the whole literal
// (delimiters included) verbatim: the expression grammar inside is a
// game-engine concern, not the parser's.
func (p *parser) tryMaths() (*Value, bool) {
	start := p.s.Pos()
	var prefixLen int
	switch {
	case p.s.StartsWith("@["):
		prefixLen = 2
	case p.s.StartsWith(`@\[`):
		prefixLen = 3
	default:
		return nil, false
	}
	p.s.Advance(prefixLen)
	for {
		b, ok := p.s.Peek()
		if !ok {
			break // unterminated: tolerate, treat rest of input as the body
		}
		p.s.Advance(1)
		if b == ']' {
			break
		}
	}
	span := syntax.Span{Start: start, End: p.s.Pos()}
	return &Value{Kind: ValMaths, Span: span, MathsRaw: span.Text(p.s.Source())}, true
}
