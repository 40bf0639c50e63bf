package main

import (
	"fmt"
	"strings"
)

// lintFinding is one docstring style violation.
type lintFinding struct {
	Symbol  string
	Message string
}

func (f lintFinding) String() string {
	return fmt.Sprintf("%s: %s", f.Symbol, f.Message)
}

// lintSymbols checks the docstrings of all public symbols against the
// Google-style convention. It is a pure pre-write gate: any finding aborts
// the run before output is produced, it never mutates the records.
func lintSymbols(records []*SymbolRecord) []lintFinding {
	var findings []lintFinding
	var walk func(rec *SymbolRecord)
	walk = func(rec *SymbolRecord) {
		name := lastSegment(rec.QualifiedName)
		if strings.HasPrefix(name, "_") && !strings.HasPrefix(name, "__") {
			return
		}
		findings = append(findings, lintSymbol(rec)...)
		for _, child := range rec.Children {
			walk(child)
		}
	}
	for _, rec := range records {
		walk(rec)
	}
	return findings
}

func lintSymbol(rec *SymbolRecord) []lintFinding {
	var findings []lintFinding
	summary := summaryLine(rec.Doc)
	if summary == "" {
		findings = append(findings, lintFinding{rec.QualifiedName, "missing docstring summary"})
		return findings
	}
	if !strings.HasSuffix(summary, ".") {
		findings = append(findings, lintFinding{rec.QualifiedName, "summary should end with a period"})
	}
	if rec.Signature != nil {
		findings = append(findings, lintArgs(rec)...)
	}
	return findings
}

// lintArgs flags documented Args entries that name parameters absent from
// the signature, the most common drift between code and docstring.
func lintArgs(rec *SymbolRecord) []lintFinding {
	declared := make(map[string]bool, len(rec.Signature.Params))
	for _, p := range rec.Signature.Params {
		declared[strings.TrimLeft(p.Name, "*")] = true
	}
	var findings []lintFinding
	ds := parseDocstring(rec.Doc)
	for _, sec := range ds.Sections {
		if sec.Kind != SectionArgs {
			continue
		}
		for _, e := range sec.Entries {
			if name := strings.TrimLeft(e.Name, "*"); name != "" && !declared[name] {
				findings = append(findings, lintFinding{
					rec.QualifiedName,
					fmt.Sprintf("documents unknown parameter %q", e.Name),
				})
			}
		}
	}
	return findings
}
