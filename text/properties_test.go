package text

import (
	"errors"
	"testing"

	"golang.org/x/image/font/gofont/goregular"

	"github.com/gogpu/glyphcache"
)

func testResolver(t *testing.T) *PropertyResolver {
	t.Helper()
	r, _ := testResolverWithCache(t)
	return r
}

func testResolverWithCache(t *testing.T) (*PropertyResolver, *glyphcache.GlyphPropertiesCache) {
	t.Helper()
	cache := glyphcache.NewGlyphPropertiesCache()
	t.Cleanup(cache.Destroy)
	r, err := NewPropertyResolver(goregular.TTF, cache)
	if err != nil {
		t.Fatalf("NewPropertyResolver: %v", err)
	}
	return r, cache
}

func TestNewPropertyResolver_Errors(t *testing.T) {
	cache := glyphcache.NewGlyphPropertiesCache()
	defer cache.Destroy()
	if _, err := NewPropertyResolver(nil, cache); !errors.Is(err, ErrEmptyFontData) {
		t.Errorf("err = %v, want ErrEmptyFontData", err)
	}
	if _, err := NewPropertyResolver([]byte("junk"), cache); err == nil {
		t.Error("expected parse error")
	}
}

func TestPropertyResolver_IsEmpty(t *testing.T) {
	r, cache := testResolverWithCache(t)

	space := r.GlyphIndex(' ')
	letter := r.GlyphIndex('A')
	if letter == 0 {
		t.Fatal("Go Regular has no glyph for 'A'")
	}

	if !r.IsEmpty(space) {
		t.Error("space glyph should be empty")
	}
	if r.IsEmpty(letter) {
		t.Error("'A' glyph should not be empty")
	}

	p := cache.Get(letter)
	if !p.EmptySet || p.Empty {
		t.Errorf("cached properties for 'A' = %+v, want EmptySet and not Empty", p)
	}
}

func TestPropertyResolver_IsEmptyUsesCache(t *testing.T) {
	r, cache := testResolverWithCache(t)
	letter := r.GlyphIndex('B')

	// A stored answer wins over the font.
	if err := cache.Set(letter, glyphcache.GlyphProperties{EmptySet: true, Empty: true}); err != nil {
		t.Fatal(err)
	}
	if !r.IsEmpty(letter) {
		t.Error("IsEmpty ignored the cached value")
	}
}

func TestPropertyResolver_IsSpecial(t *testing.T) {
	r, cache := testResolverWithCache(t)

	a := r.GlyphIndex('a')
	b := r.GlyphIndex('b')
	c := r.GlyphIndex('c')

	if r.IsSpecial(a, 'a') {
		t.Error("cmap glyph for 'a' reported special")
	}
	if !r.IsSpecial(b, 'a') {
		t.Error("glyph 'b' shaped from 'a' should be special")
	}
	if r.IsSpecial(c, 0) {
		t.Error("zero codepoint should never be special")
	}

	// Both flags live in the same record.
	_ = r.IsEmpty(b)
	p := cache.Get(b)
	if !p.SpecialSet || !p.Special || !p.EmptySet {
		t.Errorf("cached properties = %+v, want SpecialSet, Special and EmptySet", p)
	}
}

func TestPropertyResolver_OutOfRangeGlyph(t *testing.T) {
	r := testResolver(t)
	if r.IsEmpty(1 << 20) {
		t.Error("glyph beyond uint16 reported empty")
	}
	if r.NumGlyphs() <= 0 {
		t.Errorf("NumGlyphs() = %d", r.NumGlyphs())
	}
}

func TestPropertyResolver_DestroyedCache(t *testing.T) {
	cache := glyphcache.NewGlyphPropertiesCache()
	r, err := NewPropertyResolver(goregular.TTF, cache)
	if err != nil {
		t.Fatal(err)
	}
	cache.Destroy()

	// Answers are still computed, just not remembered.
	if r.IsEmpty(r.GlyphIndex('A')) {
		t.Error("'A' reported empty")
	}
	if cache.Len() != 0 {
		t.Errorf("Len() = %d, want 0", cache.Len())
	}
}
