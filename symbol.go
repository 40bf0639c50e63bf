package main

import "strings"

// SymbolKind classifies a documentable unit.
type SymbolKind string

// Symbol kinds, also used verbatim as the <kbd> tag in rendered headings.
const (
	KindModule      SymbolKind = "module"
	KindClass       SymbolKind = "class"
	KindFunction    SymbolKind = "function"
	KindMethod      SymbolKind = "method"
	KindConstructor SymbolKind = "constructor"
)

// Param describes one parameter of a callable. A nil Default means the
// parameter has no default value; a non-nil empty Default means the resolver
// could not produce a safe textual form and the renderer substitutes a
// placeholder token.
type Param struct {
	Name    string
	Type    string
	Default *string
}

// Signature is the callable portion of a symbol descriptor.
type Signature struct {
	Name   string
	Params []Param
	Return string
}

// SourceLocation points at the defining file and line of a symbol.
type SourceLocation struct {
	File string
	Line int
}

// SymbolRecord is one renderable unit as produced by a resolver. Records are
// never mutated after creation; Children preserve discovery order.
type SymbolRecord struct {
	Kind          SymbolKind
	QualifiedName string
	Doc           string
	Signature     *Signature
	Source        *SourceLocation
	Language      string
	Children      []*SymbolRecord
}

// lastSegment returns the final dotted segment of a qualified name.
func lastSegment(qualified string) string {
	if i := strings.LastIndexByte(qualified, '.'); i >= 0 {
		return qualified[i+1:]
	}
	return qualified
}

// summaryLine returns the first line of a raw docstring, used for index
// registration and overview listings without running the full parser.
func summaryLine(doc string) string {
	line, _, _ := strings.Cut(doc, "\n")
	return strings.TrimSpace(line)
}
