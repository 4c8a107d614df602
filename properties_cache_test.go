package glyphcache

import (
	"errors"
	"testing"
)

func TestGlyphPropertiesCache_Scenario(t *testing.T) {
	c := NewGlyphPropertiesCache()
	defer c.Destroy()

	if err := c.Set(42, GlyphProperties{Colored: true}); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if got := c.Get(42); got != (GlyphProperties{Colored: true}) {
		t.Errorf("Get(42) = %+v, want {Colored:true}", got)
	}
	if got := c.Get(99); got != (GlyphProperties{}) {
		t.Errorf("Get(99) = %+v, want zero value", got)
	}
}

func TestGlyphPropertiesCache_Overwrite(t *testing.T) {
	c := NewGlyphPropertiesCache()
	defer c.Destroy()

	_ = c.Set(1, GlyphProperties{EmptySet: true, Empty: true})
	_ = c.Set(1, GlyphProperties{EmptySet: true, SpecialSet: true, Special: true})

	got := c.Get(1)
	want := GlyphProperties{EmptySet: true, SpecialSet: true, Special: true}
	if got != want {
		t.Errorf("Get(1) = %+v, want %+v", got, want)
	}
	if c.Len() != 1 {
		t.Errorf("Len() = %d, want 1", c.Len())
	}
}

func TestGlyphPropertiesCache_ValueSemantics(t *testing.T) {
	c := NewGlyphPropertiesCache()
	defer c.Destroy()

	v := GlyphProperties{Width: 2}
	_ = c.Set(7, v)
	v.Width = 1

	got := c.Get(7)
	if got.Width != 2 {
		t.Errorf("Width = %d, want 2 (stored copy)", got.Width)
	}
	got.Width = 5
	if c.Get(7).Width != 2 {
		t.Error("mutating a returned value changed the cache")
	}
}

func TestGlyphPropertiesCache_ManyGlyphs(t *testing.T) {
	c := NewGlyphPropertiesCache()
	defer c.Destroy()

	for g := GlyphIndex(0); g < 3000; g++ {
		if err := c.Set(g, GlyphProperties{Width: uint8(g%2 + 1)}); err != nil {
			t.Fatalf("Set(%d): %v", g, err)
		}
	}
	for g := GlyphIndex(0); g < 3000; g++ {
		if got := c.Get(g).Width; got != uint8(g%2+1) {
			t.Fatalf("Get(%d).Width = %d, want %d", g, got, g%2+1)
		}
	}
}

func TestGlyphPropertiesCache_MaxEntries(t *testing.T) {
	c := NewGlyphPropertiesCache(WithMaxEntries(1))
	defer c.Destroy()

	if err := c.Set(1, GlyphProperties{Empty: true}); err != nil {
		t.Fatal(err)
	}
	if err := c.Set(2, GlyphProperties{}); !errors.Is(err, ErrAllocationFailed) {
		t.Errorf("err = %v, want ErrAllocationFailed", err)
	}
	// Overwrite needs no room.
	if err := c.Set(1, GlyphProperties{}); err != nil {
		t.Errorf("overwrite at limit: %v", err)
	}
}

func TestGlyphPropertiesCache_Destroy(t *testing.T) {
	c := NewGlyphPropertiesCache()
	_ = c.Set(1, GlyphProperties{Colored: true})

	c.Destroy()
	c.Destroy()

	if got := c.Get(1); got != (GlyphProperties{}) {
		t.Errorf("Get after Destroy = %+v, want zero value", got)
	}
	if err := c.Set(1, GlyphProperties{}); !errors.Is(err, ErrDestroyed) {
		t.Errorf("Set after Destroy: err = %v, want ErrDestroyed", err)
	}
	if c.Len() != 0 {
		t.Errorf("Len() = %d, want 0", c.Len())
	}
}

func BenchmarkGlyphPropertiesCache_Get(b *testing.B) {
	c := NewGlyphPropertiesCache()
	defer c.Destroy()
	for g := GlyphIndex(0); g < 1024; g++ {
		_ = c.Set(g, GlyphProperties{EmptySet: true})
	}

	b.ReportAllocs()
	var g GlyphIndex
	for b.Loop() {
		_ = c.Get(g & 1023)
		g++
	}
}
