package main

import (
	"strconv"
	"strings"
)

// crossRefEntry is one registered symbol in a generation run. Entries are
// read only after all rendering completes.
type crossRefEntry struct {
	QualifiedName string
	DisplayName   string
	// LocalName is the name within the enclosing top-level file, used to
	// compute table-of-contents nesting.
	LocalName string
	Module    string
	Anchor    string
	// File is the target file name without extension.
	File     string
	Category SymbolKind
	Summary  string
}

// crossRefIndex accumulates the name -> (anchor, file) mapping for one
// generation run, in registration order. Scoped to a single run; concurrent
// runs must use independent instances.
type crossRefIndex struct {
	entries    []crossRefEntry
	slugCounts map[string]int
	prefix     string
	stripOn    bool
}

func newCrossRefIndex(stripPrefix bool) *crossRefIndex {
	return &crossRefIndex{
		slugCounts: make(map[string]int),
		stripOn:    stripPrefix,
	}
}

// computePrefix derives the longest common leading dotted-segment prefix of
// all top-level paths in the run. Computed once, applied uniformly to every
// display name.
func (x *crossRefIndex) computePrefix(topLevel []string) {
	x.prefix = commonDottedPrefix(topLevel)
}

// displayName returns the qualified name with the run's package prefix
// removed when stripping is enabled. Stripping never consumes the entire
// name: a name equal to the prefix keeps its final segment.
func (x *crossRefIndex) displayName(qualified string) string {
	if !x.stripOn || x.prefix == "" {
		return qualified
	}
	if qualified == x.prefix {
		return lastSegment(qualified)
	}
	if rest, ok := strings.CutPrefix(qualified, x.prefix+"."); ok {
		return rest
	}
	return qualified
}

// register stores the entry, assigning its anchor slug. If two symbols slug
// identically, the second gets a numeric suffix; given identical registration
// order the result is deterministic.
func (x *crossRefIndex) register(e crossRefEntry) crossRefEntry {
	slug := slugify(string(e.Category) + "-" + e.DisplayName)
	if n := x.slugCounts[slug]; n > 0 {
		e.Anchor = slug + "-" + strconv.Itoa(n)
	} else {
		e.Anchor = slug
	}
	x.slugCounts[slug]++
	x.entries = append(x.entries, e)
	return e
}

// all returns the registered entries of one category in registration order.
func (x *crossRefIndex) all(category SymbolKind) []crossRefEntry {
	var out []crossRefEntry
	for _, e := range x.entries {
		if e.Category == category {
			out = append(out, e)
		}
	}
	return out
}

// moduleEntries returns all non-module entries registered under the given
// module, in registration order.
func (x *crossRefIndex) moduleEntries(module string) []crossRefEntry {
	var out []crossRefEntry
	for _, e := range x.entries {
		if e.Module == module && e.Category != KindModule {
			out = append(out, e)
		}
	}
	return out
}

// slugify lowercases, maps spaces to hyphens, and strips every character
// outside [a-z0-9-].
func slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	var b strings.Builder
	for _, r := range s {
		switch {
		case r == ' ' || r == '\t':
			b.WriteByte('-')
		case r == '-' || (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9'):
			b.WriteRune(r)
		}
	}
	return b.String()
}

// commonDottedPrefix returns the longest common leading dotted-segment
// prefix shared by all paths, or "" when there is none.
func commonDottedPrefix(paths []string) string {
	if len(paths) == 0 {
		return ""
	}
	prefix := strings.Split(paths[0], ".")
	for _, p := range paths[1:] {
		segs := strings.Split(p, ".")
		n := 0
		for n < len(prefix) && n < len(segs) && prefix[n] == segs[n] {
			n++
		}
		prefix = prefix[:n]
		if len(prefix) == 0 {
			return ""
		}
	}
	return strings.Join(prefix, ".")
}
