package main

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"
)

// ignoreInstruction excludes a symbol (and its children) from generation
// when it appears anywhere in the symbol's docstring.
const ignoreInstruction = "lazydocs: ignore"

const (
	sourceBadgeTemplate    = "<a href=%q><img align=\"right\" style=\"float:right;\" src=\"https://img.shields.io/badge/-source-cccccc?style=flat-square\" /></a>\n\n"
	sourceBadgeMDXTemplate = "<a href=%q><img align=\"right\" style={{\"float\":\"right\"}} src=\"https://img.shields.io/badge/-source-cccccc?style=flat-square\" /></a>\n\n"
)

// markdownRenderer renders SymbolRecord trees into markdown blocks at a
// given heading depth and registers every rendered symbol with the
// cross-reference index before recursing into its children.
type markdownRenderer struct {
	opts  options
	index *crossRefIndex
	toc   *overviewBuilder
	log   *slog.Logger

	// parse is the docstring parser; a field so tests can exercise the
	// per-symbol containment boundary.
	parse func(string) Docstring

	// currentModule and currentFile identify the top-level symbol whose
	// output file is being rendered.
	currentModule string
	currentFile   string
}

func newMarkdownRenderer(opts options, index *crossRefIndex, toc *overviewBuilder, log *slog.Logger) *markdownRenderer {
	return &markdownRenderer{
		opts:  opts,
		index: index,
		toc:   toc,
		log:   log,
		parse: parseDocstring,
	}
}

// renderSymbol renders one symbol at the given heading depth and recurses
// into its children at depth+1. A failure while rendering a single symbol
// never aborts the run: the symbol degrades to a heading-only block and
// rendering continues.
func (r *markdownRenderer) renderSymbol(w io.Writer, rec *SymbolRecord, depth int) {
	if r.skipSymbol(rec) {
		return
	}
	display := r.index.displayName(rec.QualifiedName)
	if rec.Kind != KindConstructor {
		r.registerSymbol(rec, display)
	}

	var body bytes.Buffer
	if !r.renderBody(&body, rec, display, depth) {
		r.log.Warn("symbol degraded to heading-only block",
			slog.String("symbol", rec.QualifiedName))
		body.Reset()
		fmt.Fprintf(&body, "%s <kbd>%s</kbd> `%s`\n\n", headingMarks(depth), rec.Kind, display)
	}
	// Children render first so the module table of contents already has
	// every symbol registered when it is emitted.
	var children bytes.Buffer
	for _, child := range rec.Children {
		if child.Kind == KindConstructor {
			// Rendered inline under the class heading, not as a separate
			// children entry.
			continue
		}
		if r.skipSymbol(child) {
			continue
		}
		children.WriteString("---\n\n")
		r.renderSymbol(&children, child, depth+1)
	}

	io.Copy(w, &body)
	if rec.Kind == KindModule && r.opts.includeTOC {
		io.WriteString(w, r.toc.tableOfContents(rec.QualifiedName))
	}
	io.Copy(w, &children)
}

// renderBody writes the symbol's own block (badge, heading, signature,
// docstring, inline constructor) into buf. It reports false when rendering
// panicked, in which case buf contents must be discarded.
func (r *markdownRenderer) renderBody(buf *bytes.Buffer, rec *SymbolRecord, display string, depth int) (ok bool) {
	defer func() {
		if p := recover(); p != nil {
			r.log.Error("rendering symbol failed",
				slog.String("symbol", rec.QualifiedName),
				slog.Any("panic", p))
			ok = false
		}
	}()

	r.writeBadge(buf, rec)
	fmt.Fprintf(buf, "%s <kbd>%s</kbd> `%s`\n\n", headingMarks(depth), rec.Kind, display)
	if rec.Signature != nil {
		buf.WriteString(renderSignature(*rec.Signature, rec.Language))
		buf.WriteString("\n")
	}

	ds := r.parse(rec.Doc)
	r.writeDocstring(buf, ds, rec.Signature != nil)

	if rec.Kind == KindClass {
		if ctor := findConstructor(rec); ctor != nil && !r.skipSymbol(ctor) {
			var cb bytes.Buffer
			cdisplay := r.index.displayName(ctor.QualifiedName)
			if r.renderBody(&cb, ctor, cdisplay, depth+1) {
				io.Copy(buf, &cb)
			} else {
				fmt.Fprintf(buf, "%s <kbd>%s</kbd> `%s`\n\n", headingMarks(depth+1), ctor.Kind, cdisplay)
			}
		}
	}
	return true
}

func (r *markdownRenderer) writeDocstring(buf *bytes.Buffer, ds Docstring, isCallable bool) {
	if ds.Summary == "" && ds.Description == "" && len(ds.Sections) == 0 {
		if isCallable {
			buf.WriteString("*No documentation found.*\n\n")
		}
		return
	}
	if ds.Summary != "" {
		buf.WriteString(ds.Summary + "\n\n")
	}
	if ds.Description != "" {
		buf.WriteString(ds.Description + "\n\n")
	}
	for _, sec := range ds.Sections {
		fmt.Fprintf(buf, "**%s:**\n\n", sec.Label)
		for _, e := range sec.Entries {
			switch {
			case e.Name != "" && e.Type != "":
				fmt.Fprintf(buf, "- <b>`%s`</b> (%s): %s\n", e.Name, e.Type, e.Text)
			case e.Name != "":
				fmt.Fprintf(buf, "- <b>`%s`</b>: %s\n", e.Name, e.Text)
			case e.Type != "":
				fmt.Fprintf(buf, "- <b>`%s`</b>: %s\n", e.Type, e.Text)
			default:
				fmt.Fprintf(buf, "- %s\n", e.Text)
			}
		}
		if len(sec.Entries) > 0 {
			buf.WriteString("\n")
		}
		if sec.Text != "" {
			buf.WriteString(sec.Text + "\n\n")
		}
	}
}

// writeBadge emits the right-aligned source badge. When no source base URL
// is configured the badge is omitted entirely, never rendered as a broken
// relative link.
func (r *markdownRenderer) writeBadge(buf *bytes.Buffer, rec *SymbolRecord) {
	if r.opts.srcBaseURL == "" || rec.Source == nil || rec.Source.File == "" {
		return
	}
	rel := rec.Source.File
	if r.opts.srcRootPath != "" {
		if rr, err := filepath.Rel(r.opts.srcRootPath, rec.Source.File); err == nil && !strings.HasPrefix(rr, "..") {
			rel = rr
		}
	}
	url := strings.TrimSuffix(r.opts.srcBaseURL, "/") + "/" + filepath.ToSlash(rel)
	if rec.Source.Line > 0 {
		url += "#" + r.opts.urlLinePrefix + strconv.Itoa(rec.Source.Line)
	}
	template := sourceBadgeTemplate
	if r.opts.outputFormat == "mdx" {
		template = sourceBadgeMDXTemplate
	}
	fmt.Fprintf(buf, template, url)
}

// skipSymbol filters private-named symbols and explicit ignore instructions.
// Applied before any side effect, so skipped symbols are never registered.
func (r *markdownRenderer) skipSymbol(rec *SymbolRecord) bool {
	name := lastSegment(rec.QualifiedName)
	if !r.opts.privateSymbols && strings.HasPrefix(name, "_") && !strings.HasPrefix(name, "__") {
		return true
	}
	doc := strings.ToLower(strings.ReplaceAll(rec.Doc, " ", ""))
	return strings.Contains(doc, strings.ReplaceAll(ignoreInstruction, " ", ""))
}

func (r *markdownRenderer) registerSymbol(rec *SymbolRecord, display string) {
	local := strings.TrimPrefix(rec.QualifiedName, r.currentModule+".")
	if rec.QualifiedName == r.currentModule {
		local = display
	}
	r.index.register(crossRefEntry{
		QualifiedName: rec.QualifiedName,
		DisplayName:   display,
		LocalName:     local,
		Module:        r.currentModule,
		File:          r.currentFile,
		Category:      rec.Kind,
		Summary:       summaryLine(rec.Doc),
	})
}

func findConstructor(rec *SymbolRecord) *SymbolRecord {
	for _, child := range rec.Children {
		if child.Kind == KindConstructor {
			return child
		}
	}
	return nil
}

func headingMarks(depth int) string {
	if depth < 1 {
		depth = 1
	}
	return strings.Repeat("#", depth)
}
