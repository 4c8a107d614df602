package glyphcache

import (
	"fmt"

	"github.com/gogpu/glyphcache/internal/hashmap"
)

// GlyphPropertiesCache maps glyph indices to GlyphProperties.
// Values are copied in and out; there is nothing to release per entry.
//
// GlyphPropertiesCache is not safe for concurrent use.
type GlyphPropertiesCache struct {
	table *hashmap.Map[GlyphIndex, GlyphProperties]
}

// NewGlyphPropertiesCache creates an empty cache.
//
// Options: WithMaxEntries, WithInitialCapacity.
func NewGlyphPropertiesCache(opts ...Option) *GlyphPropertiesCache {
	o := buildOptions(opts)

	c := &GlyphPropertiesCache{
		table: hashmap.New[GlyphIndex, GlyphProperties](
			hashmap.HashUint32,
			func(a, b GlyphIndex) bool { return a == b },
			hashmap.WithMaxLen[GlyphIndex, GlyphProperties](o.maxEntries),
		),
	}
	if o.initialCapacity > 0 {
		if err := c.table.Reserve(o.initialCapacity); err != nil {
			Logger().Warn("glyphcache: initial reservation failed", "capacity", o.initialCapacity, "err", err)
		}
	}
	return c
}

// Get returns the properties stored for glyph, or the zero value if none
// were stored. Absence is not an error.
func (c *GlyphPropertiesCache) Get(glyph GlyphIndex) GlyphProperties {
	if c.table == nil {
		return GlyphProperties{}
	}
	it := c.table.Get(glyph)
	if it.IsEnd() {
		return GlyphProperties{}
	}
	return it.Value()
}

// Set stores the properties for glyph, replacing any previous value.
// It fails only when the table cannot grow (ErrAllocationFailed) or the
// cache was destroyed (ErrDestroyed).
func (c *GlyphPropertiesCache) Set(glyph GlyphIndex, v GlyphProperties) error {
	if c.table == nil {
		return ErrDestroyed
	}
	if _, err := c.table.Insert(glyph, v); err != nil {
		err = fmt.Errorf("%w: glyph properties table: %w", ErrAllocationFailed, err)
		Logger().Warn("glyphcache: cannot store glyph properties", "glyph", glyph, "err", err)
		return err
	}
	return nil
}

// Len returns the number of glyphs with stored properties.
func (c *GlyphPropertiesCache) Len() int {
	if c.table == nil {
		return 0
	}
	return c.table.Len()
}

// Destroy releases the table. Get returns zero values afterwards.
// Destroy may be called more than once.
func (c *GlyphPropertiesCache) Destroy() {
	if c.table == nil {
		return
	}
	c.table.Cleanup()
	c.table = nil
}
