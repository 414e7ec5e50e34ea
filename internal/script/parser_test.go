package script

import (
	"testing"

	"github.com/abrenneke/stelpatch-sub002/internal/syntax"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCompactEntity(t *testing.T) {
	m, errs := ParseModule("a = { b = 1 c = 2 }\n")
	require.Empty(t, errs)
	require.Len(t, m.Items, 1)

	top := m.Items[0]
	require.Equal(t, ItemExpression, top.Kind)
	assert.Equal(t, "a", top.Key)
	assert.Equal(t, syntax.OpEquals, top.Operator)

	require.Equal(t, ValEntity, top.Value.Kind)
	inner := top.Value.Entity
	require.Len(t, inner.Items, 2)

	b := inner.Items[0]
	require.Equal(t, ItemExpression, b.Kind)
	assert.Equal(t, "b", b.Key)
	assert.Equal(t, ValNumber, b.Value.Kind)
	assert.Equal(t, "1", b.Value.NumberText)

	c := inner.Items[1]
	assert.Equal(t, "c", c.Key)
	assert.Equal(t, "2", c.Value.NumberText)
}

func TestParseColorLongFormTrailingComments(t *testing.T) {
	src := "color = rgb {\n\t255 #red\n\t128 #green\n\t0 #blue\n}\n"
	m, errs := ParseModule(src)
	require.Empty(t, errs)
	require.Len(t, m.Items, 1)

	v := m.Items[0].Value
	require.Equal(t, ValColor, v.Kind)
	require.Equal(t, ColorRGB, v.Color.Type)
	assert.Equal(t, "255", v.Color.R.NumberText)
	assert.Equal(t, "128", v.Color.G.NumberText)
	assert.Equal(t, "0", v.Color.B.NumberText)
	assert.Nil(t, v.Color.A)

	require.NotNil(t, v.Color.R.Trivia.TrailingComment)
	assert.Equal(t, "red", v.Color.R.Trivia.TrailingComment.Text)
	require.NotNil(t, v.Color.G.Trivia.TrailingComment)
	assert.Equal(t, "green", v.Color.G.Trivia.TrailingComment.Text)
	require.NotNil(t, v.Color.B.Trivia.TrailingComment)
	assert.Equal(t, "blue", v.Color.B.Trivia.TrailingComment.Text)
}

func TestParseColorWithAlpha(t *testing.T) {
	m, errs := ParseModule("c = rgb { 1 2 3 4 }\n")
	require.Empty(t, errs)
	v := m.Items[0].Value
	require.NotNil(t, v.Color.A)
	assert.Equal(t, "4", v.Color.A.NumberText)
}

func TestParseTriviaAttachment(t *testing.T) {
	src := "# doc 1\n# doc 2\n\na = b # tail\n"
	m, errs := ParseModule(src)
	require.Empty(t, errs)
	require.Len(t, m.Items, 1)

	item := m.Items[0]
	require.Len(t, item.Trivia.LeadingComments, 2)
	assert.Equal(t, " doc 1", item.Trivia.LeadingComments[0].Text)
	assert.Equal(t, " doc 2", item.Trivia.LeadingComments[1].Text)
	assert.Equal(t, 1, item.Trivia.LeadingBlankLines)

	require.NotNil(t, item.Trivia.TrailingComment)
	assert.Equal(t, " tail", item.Trivia.TrailingComment.Text)

	assert.Equal(t, "a", item.Key)
	assert.Equal(t, ValString, item.Value.Kind)
	assert.Equal(t, "b", item.Value.StringText)
}

func TestParseConditionalBlock(t *testing.T) {
	m, errs := ParseModule("a = { [[SOME_KEY] x = 1 y ] }\n")
	require.Empty(t, errs)
	ent := m.Items[0].Value.Entity
	require.Len(t, ent.Items, 1)

	cond := ent.Items[0]
	require.Equal(t, ItemConditional, cond.Kind)
	assert.False(t, cond.Conditional.Not)
	assert.Equal(t, "SOME_KEY", cond.Conditional.Key)
	require.Len(t, cond.Conditional.Items, 2)
	assert.Equal(t, ItemExpression, cond.Conditional.Items[0].Kind)
	assert.Equal(t, ItemPositional, cond.Conditional.Items[1].Kind)
}

func TestParseConditionalBlockNegated(t *testing.T) {
	m, errs := ParseModule("a = { [[!FLAG] x = 1] }\n")
	require.Empty(t, errs)
	cond := m.Items[0].Value.Entity.Items[0].Conditional
	assert.True(t, cond.Not)
	assert.Equal(t, "FLAG", cond.Key)
}

func TestParsePositionalValues(t *testing.T) {
	m, errs := ParseModule("list = { a b c }\n")
	require.Empty(t, errs)
	ent := m.Items[0].Value.Entity
	require.Len(t, ent.Items, 3)
	for i, want := range []string{"a", "b", "c"} {
		assert.Equal(t, ItemPositional, ent.Items[i].Kind)
		assert.Equal(t, want, ent.Items[i].Positional.StringText)
	}
}

func TestParseQuotedStringValue(t *testing.T) {
	m, errs := ParseModule(`name = "hello world"` + "\n")
	require.Empty(t, errs)
	v := m.Items[0].Value
	assert.Equal(t, ValString, v.Kind)
	assert.True(t, v.Quoted)
	assert.Equal(t, "hello world", v.StringText)
}

func TestParseInlineMaths(t *testing.T) {
	m, errs := ParseModule("x = @[ 1 + 2 ]\n")
	require.Empty(t, errs)
	v := m.Items[0].Value
	require.Equal(t, ValMaths, v.Kind)
	assert.Equal(t, "@[ 1 + 2 ]", v.MathsRaw)
}

func TestParseInlineMathsEscapedBracket(t *testing.T) {
	m, errs := ParseModule(`x = @\[ 1 + 2 ]` + "\n")
	require.Empty(t, errs)
	v := m.Items[0].Value
	require.Equal(t, ValMaths, v.Kind)
	assert.Equal(t, `@\[ 1 + 2 ]`, v.MathsRaw)
}

func TestParseNegativeDecimalNumber(t *testing.T) {
	m, errs := ParseModule("x = -1.5\n")
	require.Empty(t, errs)
	v := m.Items[0].Value
	require.Equal(t, ValNumber, v.Kind)
	assert.True(t, v.Negative)
	assert.True(t, v.Decimal)
	assert.Equal(t, "-1.5", v.NumberText)
}

func TestParsePercentNumber(t *testing.T) {
	m, errs := ParseModule("x = 50%\n")
	require.Empty(t, errs)
	v := m.Items[0].Value
	require.Equal(t, ValNumber, v.Kind)
	assert.True(t, v.Percent)
	assert.Equal(t, "50", v.NumberText)
}

func TestAsBoolRecognizesYesNo(t *testing.T) {
	m, errs := ParseModule("flag = yes\n")
	require.Empty(t, errs)
	v, ok := m.Items[0].Value.AsBool()
	require.True(t, ok)
	assert.True(t, v)
}

func TestAsBoolRejectsQuotedYes(t *testing.T) {
	m, errs := ParseModule(`flag = "yes"` + "\n")
	require.Empty(t, errs)
	_, ok := m.Items[0].Value.AsBool()
	assert.False(t, ok)
}

func TestOperatorVariants(t *testing.T) {
	m, errs := ParseModule("a >= 1\nb != 2\nc ?= 3\n")
	require.Empty(t, errs)
	require.Len(t, m.Items, 3)
	assert.Equal(t, syntax.OpGreaterThanOrEqual, m.Items[0].Operator)
	assert.Equal(t, syntax.OpNotEquals, m.Items[1].Operator)
	assert.Equal(t, syntax.OpConditional, m.Items[2].Operator)
}

func TestSpanCoversSourceText(t *testing.T) {
	src := "a = { b = 1 }\n"
	m, errs := ParseModule(src)
	require.Empty(t, errs)
	item := m.Items[0]
	assert.Equal(t, "a = { b = 1 }", item.Span.Text(src))
}

func TestUnexpectedValueReportsSpan(t *testing.T) {
	_, errs := ParseModule("a = }\n")
	require.Len(t, errs, 1)
	assert.Equal(t, "unexpected value", errs[0].Message)
}

func TestUnterminatedEntity(t *testing.T) {
	_, errs := ParseModule("a = { b = 1\n")
	require.Len(t, errs, 1)
}

func TestMathsNotShadowedByIdentifier(t *testing.T) {
	m, errs := ParseModule("x = @[1]\n")
	require.Empty(t, errs)
	v := m.Items[0].Value
	require.Equal(t, ValMaths, v.Kind)
}
