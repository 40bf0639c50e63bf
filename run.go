package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Fatal error classes. Both abort the run before any output is written;
// callers can distinguish a bad input path from non-conforming docstrings.
var (
	ErrUnresolvable = errors.New("unresolvable documentation target")
	ErrValidation   = errors.New("docstring validation failed")
)

// options is the resolved configuration of one generation run.
type options struct {
	paths          []string
	descriptors    string
	outputPath     string
	outputFormat   string
	srcBaseURL     string
	srcRootPath    string
	urlLinePrefix  string
	removePrefix   bool
	ignoredModules []string
	overviewFile   string
	watermark      bool
	validate       bool
	privateSymbols bool
	includeTOC     bool
}

func (o options) stdoutMode() bool {
	return strings.EqualFold(o.outputPath, "stdout")
}

func (o options) fileName(name string) string {
	return name + "." + o.outputFormat
}

// mkdocsPagesTemplate is written next to the overview file so mkdocs-style
// site generators pick up the navigation.
const mkdocsPagesTemplate = `title: API Reference
nav:
    - Overview: %s
    - ...
`

const watermarkTemplate = "\n---\n\n_This file was automatically generated via [lazydocs](https://github.com/ml-tooling/lazydocs) on %s._\n"

type renderedFile struct {
	name    string
	content []byte
}

// generator owns one resolve -> render -> register -> overview -> write
// cycle. All markdown is materialized in memory before anything is written,
// so a failure partway through never produces a partially-written file.
type generator struct {
	opts     options
	log      *slog.Logger
	resolver symbolResolver
	now      func() time.Time
}

func newGenerator(opts options, log *slog.Logger) *generator {
	g := &generator{opts: opts, log: log, now: time.Now}
	if opts.descriptors != "" {
		g.resolver = &descriptorResolver{path: opts.descriptors}
	} else {
		g.resolver = &packageResolver{includePrivate: opts.privateSymbols}
	}
	return g
}

func (g *generator) run(ctx context.Context, stdout io.Writer) error {
	records, err := g.resolve(ctx)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		return fmt.Errorf("%w: no documentable symbols found", ErrUnresolvable)
	}

	if g.opts.validate {
		findings := lintSymbols(records)
		for _, f := range findings {
			g.log.Error("docstring violation", slog.String("finding", f.String()))
		}
		if len(findings) > 0 {
			return fmt.Errorf("%w: %d finding(s)", ErrValidation, len(findings))
		}
	}

	index := newCrossRefIndex(g.opts.removePrefix)
	names := make([]string, 0, len(records))
	for _, rec := range records {
		names = append(names, rec.QualifiedName)
	}
	index.computePrefix(names)

	toc := &overviewBuilder{index: index, ext: g.opts.outputFormat}
	renderer := newMarkdownRenderer(g.opts, index, toc, g.log)

	var files []renderedFile
	for _, rec := range records {
		renderer.currentModule = rec.QualifiedName
		renderer.currentFile = index.displayName(rec.QualifiedName)
		var buf bytes.Buffer
		renderer.renderSymbol(&buf, rec, 1)
		if buf.Len() == 0 {
			continue
		}
		files = append(files, renderedFile{
			name:    renderer.currentFile,
			content: buf.Bytes(),
		})
	}

	if g.opts.overviewFile != "" && !g.opts.stdoutMode() {
		files = append(files, renderedFile{
			name:    strings.TrimSuffix(strings.TrimSuffix(g.opts.overviewFile, ".mdx"), ".md"),
			content: []byte(toc.build()),
		})
	}

	// Write phase, strictly last.
	if g.opts.stdoutMode() {
		for _, f := range files {
			if _, err := io.WriteString(stdout, normalizeMarkdown(string(f.content))); err != nil {
				return err
			}
		}
		return nil
	}
	return g.writeFiles(files)
}

func (g *generator) resolve(ctx context.Context) ([]*SymbolRecord, error) {
	paths := g.opts.paths
	if g.opts.descriptors != "" {
		// The descriptor file is the single input; positional paths do not
		// multiply it.
		paths = []string{g.opts.descriptors}
	}
	var records []*SymbolRecord
	for _, path := range paths {
		recs, err := g.resolver.Resolve(ctx, path)
		if err != nil {
			return nil, err
		}
		records = append(records, recs...)
	}
	kept := records[:0]
	for _, rec := range records {
		if isModuleIgnored(rec.QualifiedName, g.opts.ignoredModules) {
			g.log.Info("ignoring module", slog.String("module", rec.QualifiedName))
			continue
		}
		kept = append(kept, rec)
	}
	return kept, nil
}

func (g *generator) writeFiles(files []renderedFile) error {
	if err := os.MkdirAll(g.opts.outputPath, 0o755); err != nil {
		return err
	}
	for _, f := range files {
		name := g.opts.fileName(f.name)
		g.log.Info("writing file", slog.String("file", name))
		if err := os.WriteFile(filepath.Join(g.opts.outputPath, name), g.finalize(f.content), 0o644); err != nil {
			return err
		}
	}
	if g.opts.overviewFile != "" {
		pages := fmt.Sprintf(mkdocsPagesTemplate, g.opts.fileName(strings.TrimSuffix(strings.TrimSuffix(g.opts.overviewFile, ".mdx"), ".md")))
		if err := os.WriteFile(filepath.Join(g.opts.outputPath, ".pages"), []byte(pages), 0o644); err != nil {
			return err
		}
	}
	return nil
}

// finalize normalizes a rendered page and adds the markdownlint preamble and
// the optional watermark. Output is byte-stable aside from the watermark
// date.
func (g *generator) finalize(body []byte) []byte {
	var b strings.Builder
	b.WriteString("<!-- markdownlint-disable -->\n\n")
	b.WriteString(normalizeMarkdown(string(body)))
	if g.opts.watermark {
		fmt.Fprintf(&b, watermarkTemplate, g.now().Format("2 Jan 2006"))
	}
	return []byte(b.String())
}

// normalizeMarkdown strips trailing whitespace and collapses runs of blank
// lines outside fenced code blocks, so regenerated docs produce minimal
// diffs.
func normalizeMarkdown(s string) string {
	lines := strings.Split(s, "\n")
	var out []string
	inFence := false
	blanks := 0
	for _, line := range lines {
		trimmed := strings.TrimRight(line, " \t")
		if strings.HasPrefix(strings.TrimSpace(trimmed), "```") {
			inFence = !inFence
		}
		if !inFence && strings.TrimSpace(trimmed) == "" {
			blanks++
			if blanks > 1 {
				continue
			}
			out = append(out, "")
			continue
		}
		blanks = 0
		out = append(out, trimmed)
	}
	result := strings.Join(out, "\n")
	result = strings.TrimRight(result, "\n")
	return result + "\n"
}

func isModuleIgnored(name string, ignored []string) bool {
	for _, mod := range ignored {
		if name == mod || strings.HasPrefix(name, mod+".") {
			return true
		}
	}
	return false
}

// run executes the CLI with the given arguments, writing markdown output to
// stdout. It is the entry point shared by main and the tests.
func run(argv []string, stdout io.Writer) error {
	return runContext(context.Background(), argv, stdout)
}

func runContext(ctx context.Context, argv []string, stdout io.Writer) error {
	cmd := newRootCmd(stdout)
	cmd.SetArgs(argv)
	return cmd.ExecuteContext(ctx)
}
