package format

import (
	"testing"

	"github.com/pmezard/go-difflib/difflib"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abrenneke/stelpatch-sub002/internal/script"
)

// assertIdempotent fails with a unified diff, not just a blob compare,
// when formatting a second time changes anything — a fixed point is the
// whole point of a canonical formatter.
func assertIdempotent(t *testing.T, first, second string) {
	t.Helper()
	if first == second {
		return
	}
	d := difflib.UnifiedDiff{
		A:        difflib.SplitLines(first),
		B:        difflib.SplitLines(second),
		FromFile: "first-pass",
		ToFile:   "second-pass",
		Context:  2,
	}
	text, _ := difflib.GetUnifiedDiffString(d)
	t.Fatalf("formatting is not idempotent:\n%s", text)
}

func mustParse(t *testing.T, src string) *script.Module {
	t.Helper()
	mod, errs := script.ParseModule(src)
	require.Empty(t, errs)
	return mod
}

func TestModuleRoundTripsSimpleExpression(t *testing.T) {
	mod := mustParse(t, "key = value\n")
	assert.Equal(t, "key = value\n", Module(mod))
}

func TestModuleRoundTripsQuotedString(t *testing.T) {
	mod := mustParse(t, `name = "Jane \"Doe\""`+"\n")
	assert.Equal(t, `name = "Jane \"Doe\""`+"\n", Module(mod))
}

func TestModuleRoundTripsNegativeDecimalNumber(t *testing.T) {
	mod := mustParse(t, "value = -0.5\n")
	assert.Equal(t, "value = -0.5\n", Module(mod))
}

func TestModuleRoundTripsPercentNumber(t *testing.T) {
	mod := mustParse(t, "value = 10%\n")
	assert.Equal(t, "value = 10%\n", Module(mod))
}

func TestSmallEntityRendersCompact(t *testing.T) {
	mod := mustParse(t, "block = { only_item = yes }\n")
	out := Module(mod)
	assert.Equal(t, "block = { only_item = yes }\n", out)
	assert.NotContains(t, out, "\n\t")
}

func TestMultiItemEntityExpandsOnePerLineIndented(t *testing.T) {
	mod := mustParse(t, "block = { a = 1 b = 2 }\n")
	out := Module(mod)
	assert.Equal(t, "block = {\n\ta = 1\n\tb = 2\n}\n", out)
}

func TestNestedEntityIndentsEachLevel(t *testing.T) {
	mod := mustParse(t, "outer = { inner = { a = 1 b = 2 } extra = 3 }\n")
	out := Module(mod)
	assert.Equal(t, "outer = {\n\tinner = {\n\t\ta = 1\n\t\tb = 2\n\t}\n\textra = 3\n}\n", out)
}

func TestLeadingCommentPrecedesItemOnOwnLine(t *testing.T) {
	mod := mustParse(t, "# note\nkey = value\n")
	assert.Equal(t, "# note\nkey = value\n", Module(mod))
}

func TestTrailingCommentStaysOnSameLine(t *testing.T) {
	mod := mustParse(t, "key = value # trailing\n")
	assert.Equal(t, "key = value # trailing\n", Module(mod))
}

func TestLeadingBlankLinesArePreserved(t *testing.T) {
	mod := mustParse(t, "a = 1\n\n\nb = 2\n")
	assert.Equal(t, "a = 1\n\n\nb = 2\n", Module(mod))
}

func TestPositionalValuesEachGetTheirOwnLine(t *testing.T) {
	mod := mustParse(t, "a b c\n")
	assert.Equal(t, "a\nb\nc\n", Module(mod))
}

func TestConditionalBlockRoundTrips(t *testing.T) {
	mod := mustParse(t, "[[!has_dlc]\n\ta = 1\n\tb = 2\n]\n")
	assert.Equal(t, "[[!has_dlc]\n\ta = 1\n\tb = 2\n]\n", Module(mod))
}

func TestShortColorRendersOnOneLine(t *testing.T) {
	mod := mustParse(t, "color = rgb { 255 128 0 }\n")
	assert.Equal(t, "color = rgb { 255 128 0 }\n", Module(mod))
}

func TestLongColorPreservesPerComponentComments(t *testing.T) {
	src := "color = rgb {\n\t# red\n\t255\n\t128 # green\n\t0\n}\n"
	mod := mustParse(t, src)
	assert.Equal(t, src, Module(mod))
}

func TestIdempotentOnAlreadyCanonicalOutput(t *testing.T) {
	src := "outer = {\n\tinner = { a = 1 }\n\tlist = { 1 2 3 }\n}\n"
	mod := mustParse(t, src)
	first := Module(mod)
	reparsed := mustParse(t, first)
	second := Module(reparsed)
	assertIdempotent(t, first, second)
}

func TestIdempotentWithComments(t *testing.T) {
	src := "# about a\na = 1 # trailing\n\nb = {\n\t# nested\n\tc = 2\n}\n"
	mod := mustParse(t, src)
	first := Module(mod)
	reparsed := mustParse(t, first)
	second := Module(reparsed)
	assertIdempotent(t, first, second)
}

func TestOperatorVariantsRoundTrip(t *testing.T) {
	for _, op := range []string{"=", "!=", ">", ">=", "<", "<=", "+=", "-=", "*=", "?="} {
		src := "key " + op + " value\n"
		mod := mustParse(t, src)
		assert.Equal(t, src, Module(mod), "operator %q", op)
	}
}
