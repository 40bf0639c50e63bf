package main

import (
	"regexp"
	"strings"
)

// SectionKind identifies a recognized docstring section.
type SectionKind string

// Recognized section kinds. Spelling variants in the lexicon map onto these.
const (
	SectionArgs       SectionKind = "args"
	SectionAttributes SectionKind = "attributes"
	SectionReturns    SectionKind = "returns"
	SectionYields     SectionKind = "yields"
	SectionRaises     SectionKind = "raises"
	SectionExample    SectionKind = "example"
	SectionNote       SectionKind = "note"
	SectionTodo       SectionKind = "todo"
	SectionReferences SectionKind = "references"
)

type sectionStyle int

const (
	// styleNamed sections hold `name (type): text` entries (Args, Attributes,
	// Raises and their variants).
	styleNamed sectionStyle = iota
	// styleReturns sections hold `type: text` entries with no name (Returns,
	// Yields).
	styleReturns
	// styleProse sections hold free text only (Example, Note, ...).
	styleProse
)

// sectionLexicon is the fixed policy table of recognized section header
// labels. Matching is case-sensitive: `args:` is body prose, `Args:` is a
// section header.
var sectionLexicon = map[string]struct {
	kind  SectionKind
	style sectionStyle
}{
	"Args":       {SectionArgs, styleNamed},
	"Arg":        {SectionArgs, styleNamed},
	"Arguments":  {SectionArgs, styleNamed},
	"Parameters": {SectionArgs, styleNamed},
	"Kwargs":     {SectionArgs, styleNamed},
	"Attributes": {SectionAttributes, styleNamed},
	"Raises":     {SectionRaises, styleNamed},
	"Returns":    {SectionReturns, styleReturns},
	"Yields":     {SectionYields, styleReturns},
	"Example":    {SectionExample, styleProse},
	"Examples":   {SectionExample, styleProse},
	"Note":       {SectionNote, styleProse},
	"Notes":      {SectionNote, styleProse},
	"Todo":       {SectionTodo, styleProse},
	"Reference":  {SectionReferences, styleProse},
	"References": {SectionReferences, styleProse},
}

// Entry is one item of an Args/Attributes/Raises/Returns-style section.
// Name is empty for Returns/Yields entries; Type may be empty everywhere.
type Entry struct {
	Name string
	Type string
	Text string
}

// Section is one recognized docstring section in order of first appearance.
// Entries holds structured items; Text holds the section's prose, including
// malformed entry lines that degraded to prose.
type Section struct {
	Kind    SectionKind
	Label   string
	Entries []Entry
	Text    string
}

// Docstring is the parsed representation of one documentation comment.
// Immutable after construction.
type Docstring struct {
	Summary     string
	Description string
	Sections    []Section
}

var (
	// A section header is a lexicon label at line start with a trailing
	// colon, optionally followed by a parenthesized type annotation.
	reSectionHeader = regexp.MustCompile(`^([A-Za-z]+)(?:\s*\(([^)]*)\))?:\s*$`)
	// `name (type): text`
	reTypedEntry = regexp.MustCompile(`^([\w.\[\]*]+)\s*\(([^)]*)\)\s*:\s+(\S.*)$`)
	// `name: text`
	rePlainEntry = regexp.MustCompile(`^([\w.\[\]*]+)\s*:\s+(\S.*)$`)

	reCodeFence = regexp.MustCompile("^```")
)

// parseDocstring parses a raw documentation comment into a Docstring. It
// never fails: unparseable or empty input yields an empty Docstring, and
// anything that does not match the section grammar is kept as prose.
func parseDocstring(raw string) Docstring {
	var ds Docstring
	raw = strings.ReplaceAll(raw, "\r\n", "\n")
	if strings.TrimSpace(raw) == "" {
		return ds
	}
	lines := strings.Split(dedentText(raw), "\n")

	i := 0
	for i < len(lines) && strings.TrimSpace(lines[i]) == "" {
		i++
	}

	// Summary: leading non-blank lines up to the first blank line or first
	// recognized section header.
	var summary []string
	for ; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == "" || matchSectionHeader(lines[i]) != "" {
			break
		}
		summary = append(summary, strings.TrimSpace(lines[i]))
	}
	ds.Summary = escapeProse(strings.Join(summary, "\n"))

	// Description: everything up to the first recognized section header.
	var description []string
	for ; i < len(lines); i++ {
		if matchSectionHeader(lines[i]) != "" {
			break
		}
		description = append(description, strings.TrimRight(lines[i], " \t"))
	}
	ds.Description = escapeProse(strings.TrimSpace(strings.Join(description, "\n")))

	for i < len(lines) {
		label := matchSectionHeader(lines[i])
		if label == "" {
			// Unreachable by construction, but never loop forever on a
			// malformed state.
			i++
			continue
		}
		i++
		start := i
		for i < len(lines) && matchSectionHeader(lines[i]) == "" {
			i++
		}
		entry := sectionLexicon[label]
		sec := Section{Kind: entry.kind, Label: label}
		parseSectionBody(&sec, entry.style, lines[start:i])
		ds.Sections = append(ds.Sections, sec)
	}
	return ds
}

// matchSectionHeader returns the lexicon label if the line starts a section,
// otherwise "". Headers are matched at line start only; indented or
// unrecognized labels are body prose.
func matchSectionHeader(line string) string {
	if line == "" || line[0] == ' ' || line[0] == '\t' {
		return ""
	}
	m := reSectionHeader.FindStringSubmatch(strings.TrimRight(line, " \t"))
	if m == nil {
		return ""
	}
	if _, ok := sectionLexicon[m[1]]; !ok {
		return ""
	}
	return m[1]
}

// parseSectionBody fills a section from its raw (still indented) body lines.
func parseSectionBody(sec *Section, style sectionStyle, body []string) {
	stripped := stripIndent(body)
	if style == styleProse {
		sec.Text = escapeProse(strings.TrimSpace(strings.Join(stripped, "\n")))
		return
	}

	var prose []string
	flushEntry := func(e *Entry) {
		if e == nil {
			return
		}
		e.Text = escapeProse(strings.TrimSpace(e.Text))
		sec.Entries = append(sec.Entries, *e)
	}

	var current *Entry
	for _, line := range stripped {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		indented := line != strings.TrimLeft(line, " \t")
		if indented && current != nil {
			// Continuation line: further-indented, appended to the previous
			// entry's text rather than starting a new entry.
			current.Text += " " + trimmed
			continue
		}
		if m := reTypedEntry.FindStringSubmatch(trimmed); m != nil {
			flushEntry(current)
			if style == styleReturns {
				current = &Entry{Type: m[1], Text: m[3]}
			} else {
				current = &Entry{Name: m[1], Type: m[2], Text: m[3]}
			}
			continue
		}
		if m := rePlainEntry.FindStringSubmatch(trimmed); m != nil {
			flushEntry(current)
			if style == styleReturns {
				current = &Entry{Type: m[1], Text: m[2]}
			} else {
				current = &Entry{Name: m[1], Text: m[2]}
			}
			continue
		}
		// Malformed entry line: no delimiter and nothing to continue.
		// Degrades to section body prose.
		flushEntry(current)
		current = nil
		prose = append(prose, trimmed)
	}
	flushEntry(current)
	sec.Text = escapeProse(strings.Join(prose, "\n"))
}

// stripIndent removes one shared level of indentation from a section body.
func stripIndent(body []string) []string {
	indent := -1
	for _, line := range body {
		if strings.TrimSpace(line) == "" {
			continue
		}
		n := len(line) - len(strings.TrimLeft(line, " \t"))
		if indent == -1 || n < indent {
			indent = n
		}
	}
	if indent <= 0 {
		return body
	}
	out := make([]string, len(body))
	for i, line := range body {
		if len(line) >= indent {
			out[i] = line[indent:]
		} else {
			out[i] = line
		}
	}
	return out
}

// dedentText removes the common leading whitespace shared by all non-blank
// lines, so docstrings indented inside their source read from column zero.
func dedentText(src string) string {
	lines := strings.Split(src, "\n")
	minIndent := -1
	for i, line := range lines {
		if i == 0 || strings.TrimSpace(line) == "" {
			// The first line of a docstring usually starts right after the
			// opening quotes and carries no indentation of its own.
			continue
		}
		indent := len(line) - len(strings.TrimLeft(line, " \t"))
		if minIndent == -1 || indent < minIndent {
			minIndent = indent
		}
	}
	if minIndent <= 0 {
		return src
	}
	for i := 1; i < len(lines); i++ {
		if len(lines[i]) >= minIndent {
			lines[i] = lines[i][minIndent:]
		}
	}
	return strings.Join(lines, "\n")
}

// escapeProse escapes markdown-sensitive characters in free text. Fenced code
// blocks and inline code spans are passed through untouched.
func escapeProse(text string) string {
	if text == "" {
		return ""
	}
	lines := strings.Split(text, "\n")
	inFence := false
	for i, line := range lines {
		if reCodeFence.MatchString(strings.TrimSpace(line)) {
			inFence = !inFence
			continue
		}
		if !inFence {
			lines[i] = escapeInline(line)
		}
	}
	return strings.Join(lines, "\n")
}

// escapeInline escapes `*`, `_` and HTML-opening `<` where they would be
// misinterpreted as emphasis or tags, skipping inline code spans.
func escapeInline(line string) string {
	var b strings.Builder
	inCode := false
	for i := 0; i < len(line); i++ {
		c := line[i]
		switch {
		case c == '`':
			inCode = !inCode
			b.WriteByte(c)
		case inCode:
			b.WriteByte(c)
		case c == '*' || c == '_':
			if couldEmphasize(line, i) {
				b.WriteByte('\\')
			}
			b.WriteByte(c)
		case c == '<' && i+1 < len(line) && (isTagStart(line[i+1])):
			b.WriteString("&lt;")
		case c == '>' && i == 0:
			// A leading > would render as a blockquote.
			b.WriteString("\\>")
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

// couldEmphasize reports whether a `*` or `_` at index i touches a non-space
// character and so could open or close an emphasis span.
func couldEmphasize(line string, i int) bool {
	if i > 0 && line[i-1] != ' ' && line[i-1] != '\t' {
		return true
	}
	return i+1 < len(line) && line[i+1] != ' ' && line[i+1] != '\t'
}

func isTagStart(c byte) bool {
	return c == '/' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
