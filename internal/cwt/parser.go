package cwt

import (
	"strings"

	"github.com/abrenneke/stelpatch-sub002/internal/syntax"
)

type parser struct {
	s   *syntax.Scanner
	src string
}

// ParseDocument parses a whole CWT schema file into a Document, returning
// diagnostics for anything it could not make sense of. Parsing stops at
// the first error, the same way internal/script's does.
func ParseDocument(src string) (*Document, []*ParseError) {
	p := &parser{s: syntax.New(src), src: src}
	var items []Node
	var errs []*ParseError
	for {
		trivia := p.s.ScanTrivia()
		if p.s.Eof() {
			break
		}
		node, err := p.parseExpression(syntax.Comments(trivia))
		if err != nil {
			errs = append(errs, err)
			break
		}
		items = append(items, node)
	}
	return &Document{Span: syntax.Span{Start: 0, End: p.s.Pos()}, Items: items}, errs
}

// parseExpression dispatches on the byte at the cursor, trying Block, then
// Rule (a tagged-or-plain key followed by an operator), then a standalone
// tagged Identifier, then falling back to a bare Value. comments is the
// trivia run already scanned ahead of this expression by the caller.
func (p *parser) parseExpression(comments []syntax.Comment) (Node, *ParseError) {
	if b, ok := p.s.Peek(); ok && b == '{' {
		block, err := p.parseBlock()
		if err != nil {
			return Node{}, err
		}
		block.LeadingComments = rawComments(comments)
		return Node{Kind: NodeBlock, Span: block.Span, Block: block}, nil
	}

	saved := p.s.Pos()
	if key, kind, keySpan, ok := p.tryRuleKey(); ok {
		p.s.ScanTrivia()
		if op, opSpan, ok2 := p.s.Operator(); ok2 {
			valueTrivia := p.s.ScanTrivia()
			value, err := p.parseExpression(syntax.Comments(valueTrivia))
			if err != nil {
				return Node{}, err
			}
			options, documentation, _ := classifyComments(comments)
			rule := &Rule{
				Span:          syntax.Span{Start: keySpan.Start, End: p.s.Pos()},
				Key:           key,
				KeyKind:       kind,
				KeySpan:       keySpan,
				Operator:      op,
				OperatorSpan:  opSpan,
				Value:         value,
				Options:       options,
				Documentation: documentation,
			}
			return Node{Kind: NodeRule, Span: rule.Span, Rule: rule}, nil
		}
		p.s.SetPos(saved)
	}

	if kind, key, span, ok := p.tryTaggedKey(); ok {
		ident := &Identifier{Span: span, Kind: kind, Key: key, KeySpan: span, LeadingComments: rawComments(comments)}
		return Node{Kind: NodeIdentifier, Span: span, Identifier: ident}, nil
	}

	value, err := p.parseValue()
	if err != nil {
		return Node{}, err
	}
	return Node{Kind: NodeValue, Span: value.Span, Value: value}, nil
}

func (p *parser) parseBlock() (*Block, *ParseError) {
	start := p.s.Pos()
	p.s.Advance(1) // '{'
	var items []Node
	for {
		trivia := p.s.ScanTrivia()
		if b, ok := p.s.Peek(); ok && b == '}' {
			p.s.Advance(1)
			return &Block{Span: syntax.Span{Start: start, End: p.s.Pos()}, Items: items}, nil
		}
		if p.s.Eof() {
			return nil, syntax.NewParseError(p.src, syntax.Span{Start: start, End: p.s.Pos()}, "}", "unterminated block")
		}
		node, err := p.parseExpression(syntax.Comments(trivia))
		if err != nil {
			return nil, err
		}
		items = append(items, node)
	}
}

// tryRuleKey attempts a rule key in either form: a reference-tagged
// identifier (`<type>`, `enum[x]`) or a plain quoted-string/identifier key.
func (p *parser) tryRuleKey() (text string, kind ReferenceKind, span syntax.Span, ok bool) {
	if kind, key, span, ok := p.tryTaggedKey(); ok {
		return key, kind, span, true
	}
	if t, sp, ok := p.s.QuotedString(); ok {
		return t, RefNone, sp, true
	}
	if t, sp, ok := p.s.Identifier(); ok {
		return t, RefNone, sp, true
	}
	return "", RefNone, syntax.Span{}, false
}

// tryTaggedKey matches `<content>` (RefType) or `keyword[content]` where
// keyword is one of tagKeywords. It fully backtracks on failure.
func (p *parser) tryTaggedKey() (ReferenceKind, string, syntax.Span, bool) {
	start := p.s.Pos()

	if b, ok := p.s.Peek(); ok && b == '<' {
		p.s.Advance(1)
		contentStart := p.s.Pos()
		for {
			b, ok := p.s.Peek()
			if !ok || b == '>' {
				break
			}
			p.s.Advance(1)
		}
		content := p.src[contentStart:p.s.Pos()]
		if b, ok := p.s.Peek(); ok && b == '>' {
			p.s.Advance(1)
			return RefType, content, syntax.Span{Start: start, End: p.s.Pos()}, true
		}
		p.s.SetPos(start)
		return RefNone, "", syntax.Span{}, false
	}

	kwStart := p.s.Pos()
	kw, _, ok := p.s.IdentifierRun()
	if !ok {
		return RefNone, "", syntax.Span{}, false
	}
	kind, known := tagKeywords[kw]
	if !known {
		p.s.SetPos(kwStart)
		return RefNone, "", syntax.Span{}, false
	}
	if b, ok := p.s.Peek(); !ok || b != '[' {
		p.s.SetPos(kwStart)
		return RefNone, "", syntax.Span{}, false
	}
	p.s.Advance(1)
	depth := 1
	contentStart := p.s.Pos()
	for depth > 0 {
		b, ok := p.s.Peek()
		if !ok {
			p.s.SetPos(kwStart)
			return RefNone, "", syntax.Span{}, false
		}
		if b == '[' {
			depth++
		} else if b == ']' {
			depth--
			if depth == 0 {
				break
			}
		}
		p.s.Advance(1)
	}
	content := p.src[contentStart:p.s.Pos()]
	p.s.Advance(1) // ']'
	return kind, content, syntax.Span{Start: kwStart, End: p.s.Pos()}, true
}

// parseValue parses a bare CWT literal: a numeric range like
// `float[0.0..255.0]`, a quoted string, a plain number, or an unquoted
// string.
func (p *parser) parseValue() (*Value, *ParseError) {
	start := p.s.Pos()

	if v, ok := p.tryNumericRange(); ok {
		return v, nil
	}
	if t, sp, ok := p.s.QuotedString(); ok {
		return &Value{Span: sp, Kind: ValString, Text: t, Quoted: true}, nil
	}
	if t, sp, ok := p.s.Number(); ok {
		return &Value{Span: sp, Kind: ValNumber, Text: t}, nil
	}
	if t, sp, ok := p.s.Identifier(); ok {
		return &Value{Span: sp, Kind: ValString, Text: t}, nil
	}
	return nil, syntax.NewParseError(p.src, syntax.Span{Start: start, End: start}, "", "unexpected cwt value")
}

// tryNumericRange matches `int[min..max]` or `float[min..max]`, fully
// backtracking on any mismatch.
func (p *parser) tryNumericRange() (*Value, bool) {
	start := p.s.Pos()
	kw, _, ok := p.s.IdentifierRun()
	if !ok || (kw != "int" && kw != "float") {
		p.s.SetPos(start)
		return nil, false
	}
	if b, ok := p.s.Peek(); !ok || b != '[' {
		p.s.SetPos(start)
		return nil, false
	}
	p.s.Advance(1)
	// The min bound ends at "..", which isn't a value terminator, so it is
	// checked with Number on its own text.
	minStart := p.s.Pos()
	sep := strings.Index(p.src[minStart:], "..")
	if sep < 0 {
		p.s.SetPos(start)
		return nil, false
	}
	min, _, ok := syntax.New(p.src[minStart : minStart+sep]).Number()
	if !ok || len(min) != sep {
		p.s.SetPos(start)
		return nil, false
	}
	p.s.SetPos(minStart + sep + 2)
	max, _, ok := p.s.Number()
	if !ok {
		p.s.SetPos(start)
		return nil, false
	}
	if b, ok := p.s.Peek(); !ok || b != ']' {
		p.s.SetPos(start)
		return nil, false
	}
	p.s.Advance(1)
	return &Value{Span: syntax.Span{Start: start, End: p.s.Pos()}, Kind: ValRange, Text: kw, RangeMin: min, RangeMax: max}, true
}
