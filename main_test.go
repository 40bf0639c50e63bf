package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func assertContains(t *testing.T, haystack, needle string) {
	t.Helper()
	if !strings.Contains(haystack, needle) {
		t.Fatalf("output does not contain %q:\n%s", needle, haystack)
	}
}

func assertNotContains(t *testing.T, haystack, needle string) {
	t.Helper()
	if strings.Contains(haystack, needle) {
		t.Fatalf("output must not contain %q:\n%s", needle, haystack)
	}
}

func TestRunStdoutGoPackages(t *testing.T) {
	var out bytes.Buffer
	if err := run([]string{"--output-path", "stdout", "./testdata/example"}, &out); err != nil {
		t.Fatalf("run failed: %v", err)
	}
	got := out.String()

	assertContains(t, got, "# <kbd>module</kbd> `example`")
	assertContains(t, got, "# <kbd>module</kbd> `subpkg`")
	assertContains(t, got, "<kbd>class</kbd> `Greeter`")
	assertContains(t, got, "**Attributes:**")
	assertContains(t, got, "<kbd>function</kbd> `NewGreeter`")
	assertContains(t, got, "<kbd>method</kbd> `Greeter.Greet`")
	assertContains(t, got, "<kbd>function</kbd> `Add`")
	assertContains(t, got, "```go\nAdd(a: int, b: int) -> int\n```")
	assertContains(t, got, "- <b>`a`</b> (int): First operand.")
	assertNotContains(t, got, "hidden")
}

func TestRunStdoutDescriptors(t *testing.T) {
	var out bytes.Buffer
	err := run([]string{"--descriptors", "testdata/descriptors.json", "--output-path", "stdout"}, &out)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	got := out.String()

	assertContains(t, got, "# <kbd>module</kbd> `core`")
	assertContains(t, got, "## <kbd>function</kbd> `add`")
	assertContains(t, got, "```python\nadd(a: int, b: int = 0) -> int\n```")
	assertContains(t, got, "## <kbd>class</kbd> `Calculator`")
	assertContains(t, got, "<kbd>constructor</kbd> `Calculator.__init__`")
	assertContains(t, got, "<kbd>method</kbd> `Calculator.add`")
	assertNotContains(t, got, "_helper")
}

func TestRunWritesFiles(t *testing.T) {
	dir := t.TempDir()
	err := run([]string{
		"--output-path", dir,
		"--overview-file", "README.md",
		"--include-toc",
		"./testdata/example",
	}, io.Discard)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	example := readFile(t, filepath.Join(dir, "example.md"))
	assertContains(t, example, "<!-- markdownlint-disable -->")
	assertContains(t, example, "## Table of Contents")
	assertContains(t, example, "_This file was automatically generated via [lazydocs]")

	readFile(t, filepath.Join(dir, "subpkg.md"))

	overview := readFile(t, filepath.Join(dir, "README.md"))
	assertContains(t, overview, "# API Overview")
	assertContains(t, overview, "[`example`](./example.md#module-example)")

	pages := readFile(t, filepath.Join(dir, ".pages"))
	assertContains(t, pages, "Overview: README.md")
}

func TestRunSourceBadges(t *testing.T) {
	var out bytes.Buffer
	err := run([]string{
		"--descriptors", "testdata/descriptors.json",
		"--output-path", "stdout",
		"--src-base-url", "https://github.com/example/calc/blob/main",
	}, &out)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	assertContains(t, out.String(),
		`<a href="https://github.com/example/calc/blob/main/calc/core.py#L12">`)
}

func TestRunValidateAbortsBeforeWriting(t *testing.T) {
	descriptor := filepath.Join(t.TempDir(), "bad.json")
	writeFile(t, descriptor, `{
  "symbols": [
    {"kind": "module", "qualified_name": "m", "doc": "Module.", "children": [
      {"kind": "function", "qualified_name": "m.f", "doc": "",
       "signature": {"name": "f"}}
    ]}
  ]
}`)
	dir := t.TempDir()
	err := run([]string{"--descriptors", descriptor, "--validate", "--output-path", dir}, io.Discard)
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}

	entries, readErr := os.ReadDir(dir)
	if readErr != nil {
		t.Fatal(readErr)
	}
	if len(entries) != 0 {
		t.Fatalf("validation failure must not write output, found %d entries", len(entries))
	}
}

func TestRunNoInputs(t *testing.T) {
	if err := run(nil, io.Discard); err == nil {
		t.Fatal("expected an error without input paths")
	}
}

func TestRunUnknownPath(t *testing.T) {
	err := run([]string{"--output-path", "stdout", "./testdata/does-not-exist"}, io.Discard)
	if !errors.Is(err, ErrUnresolvable) {
		t.Fatalf("expected unresolvable error, got %v", err)
	}
}

func TestGeneratorOutputIsByteStable(t *testing.T) {
	fixed := time.Date(2024, time.May, 3, 12, 0, 0, 0, time.UTC)
	render := func(dir string) string {
		g := newGenerator(options{
			descriptors:  "testdata/descriptors.json",
			outputPath:   dir,
			outputFormat: "md",
			removePrefix: true,
			watermark:    true,
		}, discardLogger())
		g.now = func() time.Time { return fixed }
		if err := g.run(context.Background(), io.Discard); err != nil {
			t.Fatalf("run failed: %v", err)
		}
		return readFile(t, filepath.Join(dir, "core.md"))
	}

	first := render(t.TempDir())
	second := render(t.TempDir())
	if first != second {
		t.Fatal("identical inputs must produce identical bytes")
	}
	assertContains(t, first, "on 3 May 2024.")
}

func TestGeneratorWatermarkDisabled(t *testing.T) {
	dir := t.TempDir()
	g := newGenerator(options{
		descriptors:  "testdata/descriptors.json",
		outputPath:   dir,
		outputFormat: "md",
		removePrefix: true,
	}, discardLogger())
	if err := g.run(context.Background(), io.Discard); err != nil {
		t.Fatalf("run failed: %v", err)
	}
	assertNotContains(t, readFile(t, filepath.Join(dir, "core.md")), "automatically generated")
}

func TestIsModuleIgnored(t *testing.T) {
	ignored := []string{"pkg.internal"}
	for name, want := range map[string]bool{
		"pkg.internal":       true,
		"pkg.internal.sub":   true,
		"pkg.internals":      false,
		"pkg.api":            false,
		"other.pkg.internal": false,
	} {
		if got := isModuleIgnored(name, ignored); got != want {
			t.Errorf("isModuleIgnored(%q) = %v, want %v", name, got, want)
		}
	}
}

func TestNormalizeMarkdown(t *testing.T) {
	in := "# Title   \n\n\n\nBody text\n\n```\n\n\nraw   \n```\n\n\n"
	want := "# Title\n\nBody text\n\n```\n\n\nraw\n```\n"
	if got := normalizeMarkdown(in); got != want {
		t.Errorf("normalizeMarkdown:\n got %q\nwant %q", got, want)
	}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading %s: %v", path, err)
	}
	return string(data)
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}
