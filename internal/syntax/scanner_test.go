package syntax

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIdentifier(t *testing.T) {
	s := New("my_key-1 = value")
	text, span, ok := s.Identifier()
	require.True(t, ok)
	assert.Equal(t, "my_key-1", text)
	assert.Equal(t, Span{Start: 0, End: 8}, span)
}

func TestIdentifierRejectsNonStart(t *testing.T) {
	s := New("{foo}")
	_, _, ok := s.Identifier()
	assert.False(t, ok)
}

func TestIdentifierRequiresTerminator(t *testing.T) {
	// "@" alone is a valid identifier start and "[" isn't an identifier
	// continuation character, but "[" also isn't a value terminator, so
	// the match must fail rather than silently commit to "@" (this is
	// what keeps "@[ … ]" inline maths from being shadowed by a one-byte
	// identifier).
	s := New("@[1]")
	_, _, ok := s.Identifier()
	assert.False(t, ok)
	assert.Equal(t, 0, s.Pos())
}

func TestQuotedStringEscapes(t *testing.T) {
	s := New(`"a \"b\" c" rest`)
	text, span, ok := s.QuotedString()
	require.True(t, ok)
	assert.Equal(t, `a \"b\" c`, text)
	assert.Equal(t, 11, span.End)
}

func TestNumberRequiresTerminator(t *testing.T) {
	s := New("123abc")
	_, _, ok := s.Number()
	assert.False(t, ok, "1abc must not parse as a number")
	assert.Equal(t, 0, s.Pos(), "failed number scan must not move the cursor")
}

func TestNumberPlain(t *testing.T) {
	s := New("-12.5 ")
	text, _, ok := s.Number()
	require.True(t, ok)
	assert.Equal(t, "-12.5", text)
}

func TestNumberIntegerNoTrailingDot(t *testing.T) {
	s := New("42}")
	text, _, ok := s.Number()
	require.True(t, ok)
	assert.Equal(t, "42", text)
}

func TestOperatorLongestMatchFirst(t *testing.T) {
	cases := map[string]Operator{
		"=":  OpEquals,
		">=": OpGreaterThanOrEqual,
		"<=": OpLessThanOrEqual,
		"!=": OpNotEquals,
		"+=": OpPlusEquals,
		"-=": OpMinusEquals,
		"*=": OpMultiplyEquals,
		"?=": OpConditional,
		">":  OpGreaterThan,
		"<":  OpLessThan,
	}
	for lit, want := range cases {
		s := New(lit + " x")
		op, span, ok := s.Operator()
		require.True(t, ok, lit)
		assert.Equal(t, want, op, lit)
		assert.Equal(t, len(lit), span.End)
	}
}

func TestScanTriviaBlankLineAndComments(t *testing.T) {
	src := "\n# doc 1\n# doc 2\n\na = b"
	s := New(src)
	items := s.ScanTrivia()
	comments := Comments(items)
	require.Len(t, comments, 2)
	assert.Equal(t, " doc 1", comments[0].Text)
	assert.Equal(t, " doc 2", comments[1].Text)
	assert.Equal(t, 1, LeadingNewlines(items), "one blank line between the comment group and the next token")

	rest := src[s.Pos():]
	assert.Equal(t, "a = b", rest)
}

func TestTrailingCommentSameLineOnly(t *testing.T) {
	s := New("a = b # tail\nc = d")
	s.Advance(5) // past "a = b"
	c, ok := s.TrailingComment()
	require.True(t, ok)
	assert.Equal(t, " tail", c.Text)
	assert.Equal(t, "c = d", s.Source()[s.Pos():])
}

func TestTrailingCommentAbsentLeavesNewline(t *testing.T) {
	s := New("a = b\nc = d")
	s.Advance(5)
	_, ok := s.TrailingComment()
	assert.False(t, ok)
	assert.Equal(t, byte('\n'), s.Source()[s.Pos()])
}

func TestAtValueTerminator(t *testing.T) {
	for _, lit := range []string{" ", "\t", "\n", "#", "}", "]", ")", "=", "<", ">", ";", "?", "\"", "{"} {
		s := New(lit)
		assert.True(t, s.AtValueTerminator(), "terminator: %q", lit)
	}
	s := New("x")
	assert.False(t, s.AtValueTerminator())
	s2 := New("")
	assert.True(t, s2.AtValueTerminator(), "EOF is a terminator")
}

func TestPositionAt(t *testing.T) {
	src := "abc\ndef\nghi"
	assert.Equal(t, Position{Line: 1, Column: 1}, PositionAt(src, 0))
	assert.Equal(t, Position{Line: 2, Column: 1}, PositionAt(src, 4))
	assert.Equal(t, Position{Line: 3, Column: 3}, PositionAt(src, 10))
}
