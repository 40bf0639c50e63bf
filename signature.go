package main

import "strings"

// signatureWrapColumn is the width beyond which a signature is wrapped one
// parameter per line, keeping regenerated diffs small.
const signatureWrapColumn = 80

// unrenderableDefault is substituted for default values that have no safe
// textual form.
const unrenderableDefault = "..."

// renderSignature formats a callable signature as a fenced code block:
//
//	name(param1: type1 = default1, param2) -> return_type
//
// Variadic and keyword-only markers arrive as part of the parameter name and
// are passed through rather than reinterpreted.
func renderSignature(sig Signature, language string) string {
	parts := make([]string, 0, len(sig.Params))
	for _, p := range sig.Params {
		parts = append(parts, formatParam(p))
	}

	line := sig.Name + "(" + strings.Join(parts, ", ") + ")" + returnSuffix(sig.Return)
	if len(line) > signatureWrapColumn && len(parts) > 0 {
		var b strings.Builder
		b.WriteString(sig.Name)
		b.WriteString("(\n")
		for i, part := range parts {
			b.WriteString("    ")
			b.WriteString(part)
			if i < len(parts)-1 {
				b.WriteString(",")
			}
			b.WriteString("\n")
		}
		b.WriteString(")")
		b.WriteString(returnSuffix(sig.Return))
		line = b.String()
	}

	return "```" + language + "\n" + line + "\n```\n"
}

func formatParam(p Param) string {
	part := p.Name
	if p.Type != "" {
		if part == "" {
			part = p.Type
		} else {
			part += ": " + p.Type
		}
	}
	if p.Default != nil {
		value := *p.Default
		if value == "" {
			value = unrenderableDefault
		}
		part += " = " + value
	}
	return part
}

func returnSuffix(ret string) string {
	if ret == "" {
		return ""
	}
	return " -> " + ret
}
