package text

import (
	"fmt"

	"fortio.org/safecast"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"

	"github.com/gogpu/glyphcache"
)

// PropertyResolver computes per-glyph properties from a font and memoizes
// them in a glyphcache.GlyphPropertiesCache. Each property is computed at
// most once per glyph; later queries are a single table lookup.
//
// PropertyResolver is NOT safe for concurrent use.
type PropertyResolver struct {
	font  *sfnt.Font
	buf   sfnt.Buffer
	ppem  fixed.Int26_6
	cache *glyphcache.GlyphPropertiesCache
}

// NewPropertyResolver parses fontData and stores results in cache.
// The font must be the one the glyph indices were shaped with.
func NewPropertyResolver(fontData []byte, cache *glyphcache.GlyphPropertiesCache) (*PropertyResolver, error) {
	if len(fontData) == 0 {
		return nil, ErrEmptyFontData
	}
	f, err := sfnt.Parse(fontData)
	if err != nil {
		return nil, fmt.Errorf("text: failed to parse font: %w", err)
	}
	return &PropertyResolver{
		font:  f,
		ppem:  fixed.I(int(f.UnitsPerEm())),
		cache: cache,
	}, nil
}

// NumGlyphs returns the number of glyphs in the font.
func (r *PropertyResolver) NumGlyphs() int {
	return r.font.NumGlyphs()
}

// GlyphIndex returns the font's default glyph for a codepoint, 0 if none.
func (r *PropertyResolver) GlyphIndex(codepoint rune) glyphcache.GlyphIndex {
	idx, err := r.font.GlyphIndex(&r.buf, codepoint)
	if err != nil {
		return 0
	}
	return glyphcache.GlyphIndex(idx)
}

// IsEmpty reports whether glyph has no outline, like a space.
func (r *PropertyResolver) IsEmpty(glyph glyphcache.GlyphIndex) bool {
	p := r.cache.Get(glyph)
	if !p.EmptySet {
		p.Empty = r.glyphEmpty(glyph)
		p.EmptySet = true
		r.store(glyph, p)
	}
	return p.Empty
}

// IsSpecial reports whether glyph differs from the font's default glyph for
// codepoint, which is the case for ligatures and contextual alternates.
// A zero codepoint is never special.
func (r *PropertyResolver) IsSpecial(glyph glyphcache.GlyphIndex, codepoint rune) bool {
	p := r.cache.Get(glyph)
	if !p.SpecialSet {
		p.Special = codepoint != 0 && glyph != r.GlyphIndex(codepoint)
		p.SpecialSet = true
		r.store(glyph, p)
	}
	return p.Special
}

func (r *PropertyResolver) glyphEmpty(glyph glyphcache.GlyphIndex) bool {
	idx, err := safecast.Conv[uint16](glyph)
	if err != nil {
		return false
	}
	segs, err := r.font.LoadGlyph(&r.buf, sfnt.GlyphIndex(idx), r.ppem, nil)
	if err != nil {
		glyphcache.Logger().Debug("text: cannot load glyph", "glyph", glyph, "err", err)
		return false
	}
	return len(segs) == 0
}

// store writes p back. A failed write only costs a recomputation later.
func (r *PropertyResolver) store(glyph glyphcache.GlyphIndex, p glyphcache.GlyphProperties) {
	if err := r.cache.Set(glyph, p); err != nil {
		glyphcache.Logger().Warn("text: glyph properties not cached", "glyph", glyph, "err", err)
	}
}
