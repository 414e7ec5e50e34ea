package cwt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abrenneke/stelpatch-sub002/internal/syntax"
)

func TestParseSimpleRule(t *testing.T) {
	doc, errs := ParseDocument(`foo = yes`)
	require.Empty(t, errs)
	require.Len(t, doc.Items, 1)
	rule := doc.Items[0].Rule
	require.NotNil(t, rule)
	assert.Equal(t, "foo", rule.Key)
	assert.Equal(t, RefNone, rule.KeyKind)
	assert.Equal(t, syntax.OpEquals, rule.Operator)
	require.Equal(t, NodeValue, rule.Value.Kind)
	assert.Equal(t, "yes", rule.Value.Value.Text)
}

func TestParseTypedIdentifierKey(t *testing.T) {
	doc, errs := ParseDocument(`<country> = { name = <localisation> }`)
	require.Empty(t, errs)
	require.Len(t, doc.Items, 1)
	rule := doc.Items[0].Rule
	require.NotNil(t, rule)
	assert.Equal(t, "country", rule.Key)
	assert.Equal(t, RefType, rule.KeyKind)
	require.Equal(t, NodeBlock, rule.Value.Kind)
	require.Len(t, rule.Value.Block.Items, 1)

	inner := rule.Value.Block.Items[0].Rule
	require.NotNil(t, inner)
	assert.Equal(t, "name", inner.Key)
	require.Equal(t, NodeIdentifier, inner.Value.Kind)
	assert.Equal(t, RefType, inner.Value.Identifier.Kind)
	assert.Equal(t, "localisation", inner.Value.Identifier.Key)
}

func TestParseBracketTagKey(t *testing.T) {
	doc, errs := ParseDocument(`enum[civic_or_origin] = { civic origin }`)
	require.Empty(t, errs)
	rule := doc.Items[0].Rule
	require.NotNil(t, rule)
	assert.Equal(t, RefEnum, rule.KeyKind)
	assert.Equal(t, "civic_or_origin", rule.Key)
	require.Equal(t, NodeBlock, rule.Value.Kind)
	require.Len(t, rule.Value.Block.Items, 2)
	assert.Equal(t, NodeValue, rule.Value.Block.Items[0].Kind)
	assert.Equal(t, "civic", rule.Value.Block.Items[0].Value.Text)
}

func TestParseStandaloneIdentifierWithColonPath(t *testing.T) {
	doc, errs := ParseDocument(`alias[effect:set_owner]`)
	require.Empty(t, errs)
	require.Len(t, doc.Items, 1)
	ident := doc.Items[0].Identifier
	require.NotNil(t, ident)
	assert.Equal(t, RefAlias, ident.Kind)
	assert.Equal(t, "effect:set_owner", ident.Key)
}

func TestParseNumericRangeValue(t *testing.T) {
	doc, errs := ParseDocument(`opacity = float[0.0..255.0]`)
	require.Empty(t, errs)
	rule := doc.Items[0].Rule
	require.NotNil(t, rule)
	require.Equal(t, NodeValue, rule.Value.Kind)
	assert.Equal(t, ValRange, rule.Value.Value.Kind)
	assert.Equal(t, "0.0", rule.Value.Value.RangeMin)
	assert.Equal(t, "255.0", rule.Value.Value.RangeMax)
}

func TestParseIntRangeValue(t *testing.T) {
	doc, errs := ParseDocument(`count = int[0..10]`)
	require.Empty(t, errs)
	rule := doc.Items[0].Rule
	assert.Equal(t, ValRange, rule.Value.Value.Kind)
	assert.Equal(t, "0", rule.Value.Value.RangeMin)
	assert.Equal(t, "10", rule.Value.Value.RangeMax)
}

func TestParseOptionComment(t *testing.T) {
	src := "## cardinality = 0..1\nsome_key = <some_type>\n"
	doc, errs := ParseDocument(src)
	require.Empty(t, errs)
	rule := doc.Items[0].Rule
	require.NotNil(t, rule)
	require.Len(t, rule.Options, 1)
	assert.Equal(t, "cardinality", rule.Options[0].Key)
	assert.Equal(t, "0..1", rule.Options[0].Value)
	assert.Empty(t, rule.Documentation)
}

func TestParseDocumentationComment(t *testing.T) {
	src := "### This field sets the owner's ideology.\nideology = <ideology>\n"
	doc, errs := ParseDocument(src)
	require.Empty(t, errs)
	rule := doc.Items[0].Rule
	require.NotNil(t, rule)
	require.Len(t, rule.Documentation, 1)
	assert.Equal(t, "This field sets the owner's ideology.", rule.Documentation[0])
	assert.Empty(t, rule.Options)
}

func TestParseRegularCommentDroppedFromRule(t *testing.T) {
	src := "# just a note\nfoo = yes\n"
	doc, errs := ParseDocument(src)
	require.Empty(t, errs)
	rule := doc.Items[0].Rule
	require.NotNil(t, rule)
	assert.Empty(t, rule.Options)
	assert.Empty(t, rule.Documentation)
}

func TestParseRegularCommentKeptOnIdentifier(t *testing.T) {
	src := "# a plain note\n<some_type>\n"
	doc, errs := ParseDocument(src)
	require.Empty(t, errs)
	ident := doc.Items[0].Identifier
	require.NotNil(t, ident)
	require.Len(t, ident.LeadingComments, 1)
	assert.Equal(t, "a plain note", ident.LeadingComments[0])
}

func TestParseBlockLeadingComments(t *testing.T) {
	src := "# block note\n{\n\ta = 1\n}\n"
	doc, errs := ParseDocument(src)
	require.Empty(t, errs)
	block := doc.Items[0].Block
	require.NotNil(t, block)
	require.Len(t, block.LeadingComments, 1)
	assert.Equal(t, "block note", block.LeadingComments[0])
}

func TestParseOptionAndDocCommentsKeptVerbatimOnIdentifier(t *testing.T) {
	src := "## cardinality = 0..1\n### This is documentation.\n<some_type>\n"
	doc, errs := ParseDocument(src)
	require.Empty(t, errs)
	ident := doc.Items[0].Identifier
	require.NotNil(t, ident)
	require.Len(t, ident.LeadingComments, 2)
	assert.Equal(t, "# cardinality = 0..1", ident.LeadingComments[0])
	assert.Equal(t, "## This is documentation.", ident.LeadingComments[1])
}

func TestParseOptionAndDocCommentsKeptVerbatimOnBlock(t *testing.T) {
	src := "## push_scope = country\n### Block documentation.\n{\n\ta = 1\n}\n"
	doc, errs := ParseDocument(src)
	require.Empty(t, errs)
	block := doc.Items[0].Block
	require.NotNil(t, block)
	require.Len(t, block.LeadingComments, 2)
	assert.Equal(t, "# push_scope = country", block.LeadingComments[0])
	assert.Equal(t, "## Block documentation.", block.LeadingComments[1])
}

func TestParseMultipleRulesInBlock(t *testing.T) {
	src := `{
		a = 1
		b = 2
		c = { nested = yes }
	}`
	doc, errs := ParseDocument(src)
	require.Empty(t, errs)
	block := doc.Items[0].Block
	require.NotNil(t, block)
	require.Len(t, block.Items, 3)
	assert.Equal(t, "a", block.Items[0].Rule.Key)
	assert.Equal(t, "b", block.Items[1].Rule.Key)
	assert.Equal(t, "c", block.Items[2].Rule.Key)
	assert.Equal(t, NodeBlock, block.Items[2].Rule.Value.Kind)
}

func TestParseQuotedKey(t *testing.T) {
	doc, errs := ParseDocument(`"some key" = yes`)
	require.Empty(t, errs)
	rule := doc.Items[0].Rule
	require.NotNil(t, rule)
	assert.Equal(t, "some key", rule.Key)
	assert.Equal(t, RefNone, rule.KeyKind)
}

func TestParseOperatorVariants(t *testing.T) {
	doc, errs := ParseDocument(`severity >= 1`)
	require.Empty(t, errs)
	assert.Equal(t, syntax.OpGreaterThanOrEqual, doc.Items[0].Rule.Operator)
}

func TestUnterminatedBlockReportsError(t *testing.T) {
	_, errs := ParseDocument(`foo = { a = 1`)
	require.NotEmpty(t, errs)
}

func TestParseSpanCoversWholeRule(t *testing.T) {
	src := `foo = yes`
	doc, errs := ParseDocument(src)
	require.Empty(t, errs)
	rule := doc.Items[0].Rule
	assert.Equal(t, src, src[rule.Span.Start:rule.Span.End])
}
