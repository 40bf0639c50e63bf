package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"go/ast"
	"go/doc"
	"go/format"
	"go/token"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/tools/go/packages"
)

// symbolResolver yields the tree of symbol descriptors to document for one
// requested path. The renderer consumes descriptor records only and never
// performs reflection or parsing of source languages itself.
type symbolResolver interface {
	Resolve(ctx context.Context, path string) ([]*SymbolRecord, error)
}

// packageResolver loads Go packages and maps them onto descriptor records:
// package -> module, type -> class, method -> method, func -> function.
type packageResolver struct {
	includePrivate bool
}

func (p *packageResolver) Resolve(ctx context.Context, pattern string) ([]*SymbolRecord, error) {
	pkgs, err := loadPackageTree(ctx, pattern)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnresolvable, err)
	}
	if len(pkgs) == 0 {
		return nil, fmt.Errorf("%w: no Go packages matched %q", ErrUnresolvable, pattern)
	}
	records := make([]*SymbolRecord, 0, len(pkgs))
	for _, pkg := range pkgs {
		rec, err := p.packageRecord(pkg)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnresolvable, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

func (p *packageResolver) packageRecord(pkg *packages.Package) (*SymbolRecord, error) {
	mode := doc.Mode(0)
	if p.includePrivate {
		mode |= doc.AllDecls | doc.AllMethods
	}
	docPkg, err := doc.NewFromFiles(pkg.Fset, pkg.Syntax, pkg.PkgPath, mode)
	if err != nil {
		return nil, err
	}

	qname := strings.ReplaceAll(pkg.PkgPath, "/", ".")
	rec := &SymbolRecord{
		Kind:          KindModule,
		QualifiedName: qname,
		Doc:           docPkg.Doc,
		Language:      "go",
	}
	if len(pkg.GoFiles) > 0 {
		rec.Source = &SourceLocation{File: pkg.GoFiles[0], Line: 1}
	}

	for _, f := range docPkg.Funcs {
		rec.Children = append(rec.Children, p.funcRecord(pkg.Fset, qname, f, KindFunction))
	}
	for _, t := range docPkg.Types {
		rec.Children = append(rec.Children, p.typeRecord(pkg.Fset, qname, t))
	}
	sortBySourceLine(rec.Children)
	return rec, nil
}

func (p *packageResolver) typeRecord(fset *token.FileSet, parent string, t *doc.Type) *SymbolRecord {
	qname := parent + "." + t.Name
	rec := &SymbolRecord{
		Kind:          KindClass,
		QualifiedName: qname,
		Doc:           t.Doc,
		Language:      "go",
		Source:        sourceAt(fset, t.Decl.Pos()),
	}
	for _, f := range t.Funcs {
		// Package-level constructors and other functions returning the type
		// are documented under it.
		rec.Children = append(rec.Children, p.funcRecord(fset, parent, f, KindFunction))
	}
	for _, m := range t.Methods {
		rec.Children = append(rec.Children, p.funcRecord(fset, qname, m, KindMethod))
	}
	sortBySourceLine(rec.Children)
	return rec
}

func (p *packageResolver) funcRecord(fset *token.FileSet, parent string, f *doc.Func, kind SymbolKind) *SymbolRecord {
	qname := parent + "." + f.Name
	return &SymbolRecord{
		Kind:          kind,
		QualifiedName: qname,
		Doc:           f.Doc,
		Signature:     signatureFromDecl(fset, f.Name, f.Decl),
		Source:        sourceAt(fset, f.Decl.Pos()),
		Language:      "go",
	}
}

func signatureFromDecl(fset *token.FileSet, name string, decl *ast.FuncDecl) *Signature {
	if decl == nil || decl.Type == nil {
		return nil
	}
	sig := &Signature{Name: name}
	if decl.Type.Params != nil {
		for _, field := range decl.Type.Params.List {
			typeStr := formatNode(fset, field.Type)
			if len(field.Names) == 0 {
				sig.Params = append(sig.Params, Param{Type: typeStr})
				continue
			}
			for _, n := range field.Names {
				sig.Params = append(sig.Params, Param{Name: n.Name, Type: typeStr})
			}
		}
	}
	sig.Return = formatResults(fset, decl.Type.Results)
	return sig
}

func formatResults(fset *token.FileSet, results *ast.FieldList) string {
	if results == nil || len(results.List) == 0 {
		return ""
	}
	var parts []string
	named := false
	for _, field := range results.List {
		typeStr := formatNode(fset, field.Type)
		if len(field.Names) == 0 {
			parts = append(parts, typeStr)
			continue
		}
		named = true
		for _, n := range field.Names {
			parts = append(parts, n.Name+" "+typeStr)
		}
	}
	if len(parts) == 1 && !named {
		return parts[0]
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

func formatNode(fset *token.FileSet, node ast.Node) string {
	if node == nil {
		return ""
	}
	var buf bytes.Buffer
	if err := format.Node(&buf, fset, node); err != nil {
		return ""
	}
	return strings.TrimSpace(buf.String())
}

func sourceAt(fset *token.FileSet, pos token.Pos) *SourceLocation {
	if !pos.IsValid() {
		return nil
	}
	position := fset.Position(pos)
	return &SourceLocation{File: position.Filename, Line: position.Line}
}

// sortBySourceLine orders sibling records by defining line so output follows
// source order rather than go/doc's alphabetical order.
func sortBySourceLine(records []*SymbolRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		return sourceLine(records[i]) < sourceLine(records[j])
	})
}

func sourceLine(rec *SymbolRecord) int {
	if rec.Source == nil {
		return 0
	}
	return rec.Source.Line
}

func loadPackageTree(ctx context.Context, root string) ([]*packages.Package, error) {
	cfg := &packages.Config{
		Context: ctx,
		Mode: packages.NeedName | packages.NeedCompiledGoFiles | packages.NeedFiles |
			packages.NeedSyntax | packages.NeedTypes | packages.NeedTypesInfo |
			packages.NeedModule | packages.NeedImports,
	}
	pkgs, err := packages.Load(cfg, buildPatterns(root)...)
	if err != nil {
		return nil, err
	}
	unique := make(map[string]*packages.Package)
	for _, pkg := range pkgs {
		if len(pkg.Errors) > 0 {
			return nil, fmt.Errorf("%s", pkg.Errors[0])
		}
		unique[pkg.PkgPath] = pkg
	}
	result := make([]*packages.Package, 0, len(unique))
	for _, pkg := range unique {
		result = append(result, pkg)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].PkgPath < result[j].PkgPath
	})
	return result, nil
}

func buildPatterns(root string) []string {
	root = strings.TrimSpace(root)
	if root == "" {
		root = "."
	}
	root = filepath.ToSlash(root)
	patterns := []string{root}
	if !strings.Contains(root, "...") {
		recursive := root
		switch {
		case recursive == ".":
			recursive = "./..."
		case strings.HasSuffix(recursive, "/"):
			recursive += "..."
		default:
			recursive += "/..."
		}
		patterns = append(patterns, recursive)
	}
	return patterns
}

// descriptorResolver reads a language-neutral JSON descriptor tree, the
// external-interface shape any frontend can produce for the engine.
type descriptorResolver struct {
	path string
}

type descriptorFile struct {
	Language string              `json:"language"`
	Symbols  []*symbolDescriptor `json:"symbols"`
}

type symbolDescriptor struct {
	Kind          string               `json:"kind"`
	QualifiedName string               `json:"qualified_name"`
	Doc           string               `json:"doc"`
	Signature     *signatureDescriptor `json:"signature"`
	Source        *sourceDescriptor    `json:"source"`
	Children      []*symbolDescriptor  `json:"children"`
}

type signatureDescriptor struct {
	Name   string            `json:"name"`
	Params []paramDescriptor `json:"params"`
	Return string            `json:"return"`
}

type paramDescriptor struct {
	Name    string  `json:"name"`
	Type    string  `json:"type"`
	Default *string `json:"default"`
}

type sourceDescriptor struct {
	File string `json:"file"`
	Line int    `json:"line"`
}

func (d *descriptorResolver) Resolve(ctx context.Context, _ string) ([]*SymbolRecord, error) {
	data, err := os.ReadFile(d.path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnresolvable, err)
	}
	var file descriptorFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("%w: parsing %s: %v", ErrUnresolvable, d.path, err)
	}
	language := file.Language
	if language == "" {
		language = "python"
	}
	records := make([]*SymbolRecord, 0, len(file.Symbols))
	for _, sym := range file.Symbols {
		rec, err := sym.toRecord(language)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}

func (s *symbolDescriptor) toRecord(language string) (*SymbolRecord, error) {
	kind, err := parseKind(s.Kind)
	if err != nil {
		return nil, fmt.Errorf("%w: symbol %q: %v", ErrUnresolvable, s.QualifiedName, err)
	}
	rec := &SymbolRecord{
		Kind:          kind,
		QualifiedName: s.QualifiedName,
		Doc:           s.Doc,
		Language:      language,
	}
	if s.Signature != nil {
		sig := &Signature{Name: s.Signature.Name, Return: s.Signature.Return}
		for _, p := range s.Signature.Params {
			sig.Params = append(sig.Params, Param{Name: p.Name, Type: p.Type, Default: p.Default})
		}
		rec.Signature = sig
	}
	if s.Source != nil {
		rec.Source = &SourceLocation{File: s.Source.File, Line: s.Source.Line}
	}
	for _, child := range s.Children {
		childRec, err := child.toRecord(language)
		if err != nil {
			return nil, err
		}
		rec.Children = append(rec.Children, childRec)
	}
	return rec, nil
}

func parseKind(kind string) (SymbolKind, error) {
	switch SymbolKind(kind) {
	case KindModule, KindClass, KindFunction, KindMethod, KindConstructor:
		return SymbolKind(kind), nil
	}
	return "", fmt.Errorf("unknown symbol kind %q", kind)
}
