package text

import (
	"fortio.org/safecast"

	"github.com/gogpu/glyphcache"
)

// RasterizeFunc draws cell ligatureIndex of cluster c into the atlas slot
// held by pos. It is called once per sprite, right after the slot is
// assigned.
type RasterizeFunc func(c Cluster, ligatureIndex int, pos *glyphcache.SpritePosition) error

// MapStats counts what SpriteMapper.Map did since the mapper was created.
type MapStats struct {
	// Created is the number of sprites added to the position cache.
	Created int
	// Reused is the number of sprites found in the position cache.
	Reused int
	// Rendered is the number of sprites given an atlas slot.
	Rendered int
	// Blank is the number of cells left without a sprite because every
	// glyph of their cluster is empty.
	Blank int
	// Ligatures is the number of clusters drawn with an alternate glyph.
	Ligatures int
	// Skipped is the number of cells dropped because of an error.
	Skipped int
}

// MapperOption configures a SpriteMapper.
type MapperOption func(*SpriteMapper)

// WithProperties lets the mapper skip empty clusters and count ligatures.
func WithProperties(r *PropertyResolver) MapperOption {
	return func(m *SpriteMapper) {
		m.props = r
	}
}

// WithRasterizer sets the function that draws new sprites.
func WithRasterizer(fn RasterizeFunc) MapperOption {
	return func(m *SpriteMapper) {
		m.rasterize = fn
	}
}

// SpriteMapper resolves shaped clusters to per-cell sprites.
//
// A cluster covering N cells is drawn as N sprites, one per cell, keyed by
// the same glyphs with ligature index 0..N-1 and cell count N. A sprite that
// has not been rendered yet gets the next slot from the tracker.
//
// SpriteMapper is NOT safe for concurrent use.
type SpriteMapper struct {
	sprites   *glyphcache.SpritePositionCache
	tracker   *glyphcache.SpriteTracker
	props     *PropertyResolver
	rasterize RasterizeFunc
	stats     MapStats
}

// NewSpriteMapper creates a mapper over a position cache and a tracker that
// places the sprites of that cache.
func NewSpriteMapper(sprites *glyphcache.SpritePositionCache, tracker *glyphcache.SpriteTracker, opts ...MapperOption) *SpriteMapper {
	m := &SpriteMapper{
		sprites: sprites,
		tracker: tracker,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Map appends one entry per cell to dst and returns the extended slice.
// An entry is nil for blank cells and for cells that could not be given a
// sprite this time; such failures are logged and retried on the next call.
func (m *SpriteMapper) Map(clusters []Cluster, dst []*glyphcache.SpritePosition) []*glyphcache.SpritePosition {
	for _, c := range clusters {
		if m.props != nil {
			if m.allEmpty(c) {
				m.stats.Blank += c.Cells
				for range c.Cells {
					dst = append(dst, nil)
				}
				continue
			}
			if len(c.Runes) > 0 && m.props.IsSpecial(c.Glyphs[0], c.Runes[0]) {
				m.stats.Ligatures++
			}
		}
		dst = m.mapCluster(c, dst)
	}
	return dst
}

// Stats returns the counters accumulated so far.
func (m *SpriteMapper) Stats() MapStats {
	return m.stats
}

func (m *SpriteMapper) mapCluster(c Cluster, dst []*glyphcache.SpritePosition) []*glyphcache.SpritePosition {
	cells, err := safecast.Conv[uint32](c.Cells)
	if err != nil {
		glyphcache.Logger().Warn("text: cluster width out of range", "cells", c.Cells, "err", err)
		m.stats.Skipped += c.Cells
		for range c.Cells {
			dst = append(dst, nil)
		}
		return dst
	}

	for i := range c.Cells {
		pos, created, err := m.sprites.FindOrCreate(c.Glyphs, uint32(i), cells)
		if err != nil {
			glyphcache.Logger().Warn("text: no sprite for cell", "glyphs", c.Glyphs, "cell", i, "err", err)
			m.stats.Skipped++
			dst = append(dst, nil)
			continue
		}
		if created {
			m.stats.Created++
		} else {
			m.stats.Reused++
		}

		if !pos.Rendered {
			if err := m.render(c, i, pos); err != nil {
				glyphcache.Logger().Warn("text: sprite not rendered", "glyphs", c.Glyphs, "cell", i, "err", err)
				m.stats.Skipped++
				dst = append(dst, nil)
				continue
			}
		}
		dst = append(dst, pos)
	}
	return dst
}

func (m *SpriteMapper) render(c Cluster, cell int, pos *glyphcache.SpritePosition) error {
	if err := m.tracker.Assign(pos); err != nil {
		return err
	}
	if m.rasterize != nil {
		if err := m.rasterize(c, cell, pos); err != nil {
			return err
		}
	}
	pos.Rendered = true
	m.stats.Rendered++
	return nil
}

func (m *SpriteMapper) allEmpty(c Cluster) bool {
	for _, g := range c.Glyphs {
		if !m.props.IsEmpty(g) {
			return false
		}
	}
	return true
}
