package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	assert.Equal(t, "function-add", slugify("function-add"))
	assert.Equal(t, "class-calculator", slugify("class-Calculator"))
	assert.Equal(t, "method-calculatoradd", slugify("method-Calculator.add"))
	assert.Equal(t, "function-init", slugify("function-__init__"))
	assert.Equal(t, "a-b", slugify("  A B  "))
}

func TestRegisterAssignsCollisionSuffixes(t *testing.T) {
	x := newCrossRefIndex(false)

	first := x.register(crossRefEntry{DisplayName: "Add", Category: KindFunction})
	second := x.register(crossRefEntry{DisplayName: "add", Category: KindFunction})
	third := x.register(crossRefEntry{DisplayName: "add", Category: KindFunction})

	assert.Equal(t, "function-add", first.Anchor)
	assert.Equal(t, "function-add-1", second.Anchor)
	assert.Equal(t, "function-add-2", third.Anchor)
}

func TestDisplayNameStripsCommonPrefix(t *testing.T) {
	x := newCrossRefIndex(true)
	x.computePrefix([]string{"pkg.a", "pkg.b"})

	assert.Equal(t, "a", x.displayName("pkg.a"))
	assert.Equal(t, "b.C", x.displayName("pkg.b.C"))
	assert.Equal(t, "other.x", x.displayName("other.x"))
}

func TestDisplayNameNeverConsumesEntireName(t *testing.T) {
	x := newCrossRefIndex(true)
	x.computePrefix([]string{"calc.core"})

	assert.Equal(t, "core", x.displayName("calc.core"))
	assert.Equal(t, "add", x.displayName("calc.core.add"))
}

func TestDisplayNameStrippingDisabled(t *testing.T) {
	x := newCrossRefIndex(false)
	x.computePrefix([]string{"pkg.a", "pkg.b"})

	assert.Equal(t, "pkg.a", x.displayName("pkg.a"))
}

func TestCommonDottedPrefix(t *testing.T) {
	assert.Equal(t, "pkg", commonDottedPrefix([]string{"pkg.a", "pkg.b.c"}))
	assert.Equal(t, "pkg.a", commonDottedPrefix([]string{"pkg.a"}))
	assert.Equal(t, "", commonDottedPrefix([]string{"pkg.a", "other.b"}))
	assert.Equal(t, "", commonDottedPrefix(nil))
}

func TestModuleEntriesFiltersByModule(t *testing.T) {
	x := newCrossRefIndex(false)
	x.register(crossRefEntry{DisplayName: "m", Module: "m", Category: KindModule})
	x.register(crossRefEntry{DisplayName: "m.f", Module: "m", Category: KindFunction})
	x.register(crossRefEntry{DisplayName: "n.g", Module: "n", Category: KindFunction})

	entries := x.moduleEntries("m")
	assert.Len(t, entries, 1)
	assert.Equal(t, "m.f", entries[0].DisplayName)
}
