// Package text connects shaped text to the glyphcache sprite caches.
//
// The pipeline for one line of terminal text is:
//
//   - Shaper: normalizes the line (NFC) and shapes it with HarfBuzz
//     (go-text/typesetting) into clusters, each with its glyph indices and
//     the number of terminal cells it covers.
//   - PropertyResolver: answers per-glyph questions (does it have ink, is it
//     an alternate glyph) from the font, memoized in a
//     glyphcache.GlyphPropertiesCache.
//   - SpriteMapper: turns clusters into one sprite per cell, looking each up
//     in a glyphcache.SpritePositionCache and giving new sprites an atlas
//     slot from a glyphcache.SpriteTracker.
//
// # Example usage
//
//	shaper, err := text.NewShaper(goregular.TTF, 16)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	sprites := glyphcache.NewSpritePositionCache()
//	defer sprites.Destroy()
//	tracker, _ := glyphcache.NewSpriteTracker(glyphcache.DefaultSpriteTrackerConfig(), 10, 20)
//
//	mapper := text.NewSpriteMapper(sprites, tracker)
//	cells := mapper.Map(shaper.Shape("fi → ffi"), nil)
//
// None of the types in this package are safe for concurrent use; create one
// set per rendering goroutine.
package text
