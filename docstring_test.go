package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const calculatorDoc = `Add two numbers.

Args:
    a (int): First operand.
    b (int): Second operand. Defaults to 0.

Returns:
    int: The sum of a and b.

Raises:
    ValueError: If b is negative.
`

func TestParseDocstringSections(t *testing.T) {
	ds := parseDocstring(calculatorDoc)

	assert.Equal(t, "Add two numbers.", ds.Summary)
	assert.Empty(t, ds.Description)
	require.Len(t, ds.Sections, 3)

	args := ds.Sections[0]
	assert.Equal(t, SectionArgs, args.Kind)
	assert.Equal(t, "Args", args.Label)
	require.Len(t, args.Entries, 2)
	assert.Equal(t, Entry{Name: "a", Type: "int", Text: "First operand."}, args.Entries[0])
	assert.Equal(t, Entry{Name: "b", Type: "int", Text: "Second operand. Defaults to 0."}, args.Entries[1])

	returns := ds.Sections[1]
	assert.Equal(t, SectionReturns, returns.Kind)
	require.Len(t, returns.Entries, 1)
	assert.Equal(t, Entry{Type: "int", Text: "The sum of a and b."}, returns.Entries[0])

	raises := ds.Sections[2]
	assert.Equal(t, SectionRaises, raises.Kind)
	require.Len(t, raises.Entries, 1)
	assert.Equal(t, "ValueError", raises.Entries[0].Name)
}

func TestParseDocstringContinuationLines(t *testing.T) {
	doc := "Make a greeter.\n\nArgs:\n    greeting (string): Template containing exactly one %s verb which\n        receives the name being greeted.\n"
	ds := parseDocstring(doc)

	require.Len(t, ds.Sections, 1)
	require.Len(t, ds.Sections[0].Entries, 1)
	assert.Equal(t,
		"Template containing exactly one %s verb which receives the name being greeted.",
		ds.Sections[0].Entries[0].Text)
}

func TestParseDocstringMalformedEntryDegradesToProse(t *testing.T) {
	doc := "Summary.\n\nArgs:\n    just some free words without a delimiter\n    a (int): A real entry.\n"
	ds := parseDocstring(doc)

	require.Len(t, ds.Sections, 1)
	sec := ds.Sections[0]
	require.Len(t, sec.Entries, 1)
	assert.Equal(t, "a", sec.Entries[0].Name)
	assert.Contains(t, sec.Text, "just some free words")
}

func TestParseDocstringHeaderMatchingIsCaseSensitive(t *testing.T) {
	doc := "Summary.\n\nargs:\n    a (int): Lowercase label is body prose.\n"
	ds := parseDocstring(doc)

	assert.Empty(t, ds.Sections)
	assert.Contains(t, ds.Description, "args:")
}

func TestParseDocstringUnrecognizedHeaderStaysProse(t *testing.T) {
	doc := "Summary.\n\nImplementation:\n    details here.\n"
	ds := parseDocstring(doc)

	assert.Empty(t, ds.Sections)
	assert.Contains(t, ds.Description, "Implementation:")
}

func TestParseDocstringNeverFails(t *testing.T) {
	for _, raw := range []string{
		"",
		"   \n\t\n",
		"Args:\nReturns:\nArgs:",
		"\x00\x01 garbage \xff",
		"Returns:\n    ",
	} {
		assert.NotPanics(t, func() { parseDocstring(raw) })
	}
	assert.Equal(t, Docstring{}, parseDocstring("  \n \n"))
}

func TestParseDocstringDedentsIndentedSource(t *testing.T) {
	doc := "Summary line.\n\n    Args:\n        a (int): Indented four spaces.\n"
	ds := parseDocstring(doc)

	require.Len(t, ds.Sections, 1)
	require.Len(t, ds.Sections[0].Entries, 1)
	assert.Equal(t, "a", ds.Sections[0].Entries[0].Name)
}

func TestEscapeProse(t *testing.T) {
	assert.Equal(t, `\*emphasis\* and snake\_case`, escapeProse("*emphasis* and snake_case"))
	assert.Equal(t, "use &lt;table> here", escapeProse("use <table> here"))
	assert.Equal(t, "spaced * star", escapeProse("spaced * star"))
	assert.Equal(t, "keep `*raw*` spans", escapeProse("keep `*raw*` spans"))
	assert.Equal(t, `\> quoted`, escapeProse("> quoted"))
}

func TestEscapeProseSkipsFencedCode(t *testing.T) {
	in := "text *here*\n```\ncode *stays*\n```\nmore _text_"
	out := escapeProse(in)

	assert.Contains(t, out, `\*here\*`)
	assert.Contains(t, out, "code *stays*")
	assert.Contains(t, out, `\_text\_`)
}
