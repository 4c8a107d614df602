package glyphcache

// GlyphIndex is a glyph index within a font.
type GlyphIndex = uint32

// SpritePosition is the atlas slot of one cached glyph run.
//
// A SpritePosition is created zeroed by SpritePositionCache.FindOrCreate and
// then filled in by the renderer. Its address is stable for the lifetime of
// the cache entry, so renderers may keep the pointer across frames.
type SpritePosition struct {
	// X and Y are the slot coordinates within a layer, in cells.
	X, Y uint16

	// Z is the layer of the 2D array texture.
	Z uint16

	// Rendered is set once the run has been rasterized into the slot.
	Rendered bool

	// Colored marks a slot holding a color (emoji) bitmap.
	Colored bool
}

// GlyphProperties caches per-glyph facts that are expensive to compute
// from the font. The *Set flags record whether the matching value has been
// computed; the zero value means nothing is known yet.
type GlyphProperties struct {
	// SpecialSet reports whether Special has been computed.
	SpecialSet bool

	// Special is true when the glyph is not the font's default glyph for
	// the codepoint it was shaped from (an alternate or ligature glyph).
	Special bool

	// EmptySet reports whether Empty has been computed.
	EmptySet bool

	// Empty is true when the glyph has no ink.
	Empty bool

	// Colored is true when the glyph renders from a color bitmap.
	Colored bool

	// Width is the glyph width in cells, 0 if unknown.
	Width uint8
}
