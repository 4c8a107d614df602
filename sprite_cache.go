package glyphcache

import (
	"fmt"

	"github.com/gogpu/glyphcache/internal/hashmap"
)

// SpritePositionCache maps glyph runs to their sprite atlas slots.
//
// A run is identified by its glyph indices (order matters), the ligature
// index and the number of cells it covers. Runs that differ in any of these
// are distinct entries. Entries are never evicted; the cache grows with the
// working set of runs and is released as a whole by Destroy.
//
// SpritePositionCache is not safe for concurrent use.
type SpritePositionCache struct {
	table   *hashmap.Map[[]byte, *SpritePosition]
	scratch *KeyScratch

	maxRunGlyphs int
	maxKeyBytes  int

	hits   uint64
	misses uint64
}

// NewSpritePositionCache creates an empty cache.
//
// Options: WithMaxEntries, WithMaxRunGlyphs, WithInitialCapacity, WithScratch.
func NewSpritePositionCache(opts ...Option) *SpritePositionCache {
	o := buildOptions(opts)

	c := &SpritePositionCache{
		table: hashmap.New[[]byte, *SpritePosition](
			hashRunKey,
			runKeyEqual,
			hashmap.WithMaxLen[[]byte, *SpritePosition](o.maxEntries),
			// Stale handles read as an unassigned slot after release.
			hashmap.WithValueDestructor[[]byte](func(p *SpritePosition) { *p = SpritePosition{} }),
		),
		scratch:      o.scratch,
		maxRunGlyphs: o.maxRunGlyphs,
	}
	if c.scratch == nil {
		c.scratch = &sharedScratch
	}
	if o.maxRunGlyphs > 0 {
		c.maxKeyBytes = RunKeySize(o.maxRunGlyphs)
	}
	if o.initialCapacity > 0 {
		if err := c.table.Reserve(o.initialCapacity); err != nil {
			Logger().Warn("glyphcache: initial reservation failed", "capacity", o.initialCapacity, "err", err)
		}
	}
	return c
}

// FindOrCreate returns the sprite position for a glyph run.
//
// If the run is cached, the existing position is returned with created set
// to false; this path performs no allocation. Otherwise a zeroed position is
// stored and returned with created set to true, and the caller is expected
// to assign its atlas slot.
//
// On error the returned position is nil and the cache is unchanged. Errors
// wrap ErrAllocationFailed, or are ErrEmptyRun or ErrDestroyed.
func (c *SpritePositionCache) FindOrCreate(glyphs []GlyphIndex, ligatureIndex, cellCount GlyphIndex) (pos *SpritePosition, created bool, err error) {
	if c.table == nil {
		return nil, false, ErrDestroyed
	}
	if len(glyphs) == 0 {
		return nil, false, ErrEmptyRun
	}
	if c.maxRunGlyphs > 0 && len(glyphs) > c.maxRunGlyphs {
		err = fmt.Errorf("%w: run of %d glyphs exceeds limit of %d", ErrAllocationFailed, len(glyphs), c.maxRunGlyphs)
		Logger().Warn("glyphcache: glyph run rejected", "err", err)
		return nil, false, err
	}

	key, err := c.scratch.build(glyphs, ligatureIndex, cellCount, c.maxKeyBytes)
	if err != nil {
		Logger().Warn("glyphcache: cannot stage run key", "err", err)
		return nil, false, err
	}

	if it := c.table.Get(key); !it.IsEnd() {
		c.hits++
		return it.Value(), false, nil
	}
	c.misses++

	pos = &SpritePosition{}
	persistent := make([]byte, len(key))
	copy(persistent, key)

	capBefore := c.table.Cap()
	if _, err := c.table.Insert(persistent, pos); err != nil {
		err = fmt.Errorf("%w: sprite table: %w", ErrAllocationFailed, err)
		Logger().Warn("glyphcache: cannot insert sprite position", "entries", c.table.Len(), "err", err)
		return nil, false, err
	}
	if c.table.Cap() != capBefore {
		Logger().Debug("glyphcache: sprite table grown", "cap", c.table.Cap(), "len", c.table.Len())
	}
	return pos, true, nil
}

// Len returns the number of cached runs.
func (c *SpritePositionCache) Len() int {
	if c.table == nil {
		return 0
	}
	return c.table.Len()
}

// Destroy releases every cached key and position. Positions previously
// returned must not be used afterwards. Destroy may be called more than once.
func (c *SpritePositionCache) Destroy() {
	if c.table == nil {
		return
	}
	c.table.Cleanup()
	c.table = nil
}

// Stats returns current cache statistics.
func (c *SpritePositionCache) Stats() Stats {
	s := Stats{
		Hits:       c.hits,
		Misses:     c.misses,
		ScratchCap: c.scratch.Cap(),
	}
	if c.table != nil {
		s.Len = c.table.Len()
		s.Cap = c.table.Cap()
	}
	total := s.Hits + s.Misses
	if total > 0 {
		s.HitRate = float64(s.Hits) / float64(total)
	}
	return s
}

// Stats contains cache statistics.
type Stats struct {
	// Len is the current number of entries.
	Len int
	// Cap is the number of table slots allocated.
	Cap int
	// Hits is the number of lookups answered from the cache.
	Hits uint64
	// Misses is the number of lookups that created an entry or failed to.
	Misses uint64
	// HitRate is Hits / (Hits + Misses), 0 when no lookups happened.
	HitRate float64
	// ScratchCap is the capacity of the scratch buffer in bytes.
	ScratchCap int
}
