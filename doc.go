// Package glyphcache provides the sprite caches used when drawing shaped text
// through a GPU sprite atlas.
//
// # Overview
//
// Two caches sit on the per-frame rendering path:
//
//   - SpritePositionCache maps a glyph run (one or more glyph indices plus a
//     ligature index and a cell count) to the atlas slot that holds its
//     pre-rendered bitmap.
//   - GlyphPropertiesCache maps a single glyph index to a small record of
//     rendering flags.
//
// Neither cache decides where a sprite goes. On a miss the caller picks a
// slot, typically with a SpriteTracker, and stores it in the returned
// SpritePosition.
//
// # Quick Start
//
//	import "github.com/gogpu/glyphcache"
//
//	sprites := glyphcache.NewSpritePositionCache()
//	defer sprites.Destroy()
//
//	tracker, err := glyphcache.NewSpriteTracker(glyphcache.DefaultSpriteTrackerConfig(), 10, 20)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	pos, created, err := sprites.FindOrCreate([]glyphcache.GlyphIndex{42}, 0, 1)
//	if err != nil {
//	    // skip this run for the current frame
//	}
//	if created {
//	    if err := tracker.Assign(pos); err != nil {
//	        // atlas is full
//	    }
//	}
//
// # Allocation
//
// A lookup that hits does not allocate. Lookup keys are staged in a reusable
// KeyScratch; only a miss allocates the persistent key copy and the
// SpritePosition record. Records are individually boxed, so the pointer
// returned by FindOrCreate stays valid while the table grows.
//
// # Thread Safety
//
// The caches are meant for one rendering goroutine at a time. By default all
// SpritePositionCache instances share one process-wide scratch buffer; give
// each goroutine its own buffer with WithScratch when caches are used from
// several goroutines.
//
// # Logging
//
// The package is silent by default. See SetLogger.
package glyphcache
