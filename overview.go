package main

import (
	"fmt"
	"strings"
)

// overviewBuilder aggregates the cross-reference index into an API overview
// page and per-module table-of-contents blocks. It only reads the index, so
// it must run after all rendering completes.
type overviewBuilder struct {
	index *crossRefIndex
	ext   string
}

// build emits the categorized overview page: one linked list each for
// modules, classes and functions, in registration order.
func (b *overviewBuilder) build() string {
	var w strings.Builder
	w.WriteString("# API Overview\n\n")
	b.writeCategory(&w, "Modules", KindModule)
	b.writeCategory(&w, "Classes", KindClass)
	b.writeCategory(&w, "Functions", KindFunction)
	return w.String()
}

func (b *overviewBuilder) writeCategory(w *strings.Builder, title string, kind SymbolKind) {
	fmt.Fprintf(w, "## %s\n\n", title)
	entries := b.index.all(kind)
	if len(entries) == 0 {
		fmt.Fprintf(w, "- No %s\n\n", strings.ToLower(title))
		return
	}
	for _, e := range entries {
		w.WriteString(b.linkLine(e, e.DisplayName, 0))
	}
	w.WriteString("\n")
}

// tableOfContents emits the per-file contents block for one module, one line
// per child symbol, nested by indentation matching its depth.
func (b *overviewBuilder) tableOfContents(module string) string {
	entries := b.index.moduleEntries(module)
	if len(entries) == 0 {
		return ""
	}
	var w strings.Builder
	w.WriteString("## Table of Contents\n\n")
	for _, e := range entries {
		w.WriteString(b.linkLine(e, e.LocalName, strings.Count(e.LocalName, ".")))
	}
	w.WriteString("\n")
	return w.String()
}

func (b *overviewBuilder) linkLine(e crossRefEntry, label string, depth int) string {
	line := fmt.Sprintf("- [`%s`](./%s.%s#%s)", label, e.File, b.ext, e.Anchor)
	if e.Summary != "" {
		line += ": " + e.Summary
	}
	return strings.Repeat("\t", depth) + line + "\n"
}
