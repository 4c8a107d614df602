package text

import (
	"bytes"
	"fmt"

	"github.com/go-text/typesetting/di"
	"github.com/go-text/typesetting/font"
	"github.com/go-text/typesetting/language"
	"github.com/go-text/typesetting/shaping"
	"github.com/mattn/go-runewidth"
	"golang.org/x/image/math/fixed"
	"golang.org/x/text/unicode/norm"

	"github.com/gogpu/glyphcache"
)

// Cluster is a group of glyphs HarfBuzz produced for a contiguous run of
// runes. A ligature is one cluster with one glyph and several runes.
type Cluster struct {
	// Glyphs are the glyph indices in visual order.
	Glyphs []glyphcache.GlyphIndex

	// Runes is the source text of the cluster.
	Runes []rune

	// Cells is the number of terminal cells the cluster covers, at least 1.
	Cells int
}

// ShaperOption configures a Shaper.
type ShaperOption func(*Shaper)

// WithAmbiguousWide counts East Asian ambiguous-width runes as two cells.
func WithAmbiguousWide(wide bool) ShaperOption {
	return func(s *Shaper) {
		s.widths.EastAsianWidth = wide
	}
}

// WithLanguage sets the BCP 47 language tag passed to HarfBuzz.
// Default: "en".
func WithLanguage(tag string) ShaperOption {
	return func(s *Shaper) {
		s.lang = language.NewLanguage(tag)
	}
}

// Shaper shapes lines of terminal text into clusters using
// go-text/typesetting's HarfBuzz implementation.
//
// Shaper keeps a HarfBuzz buffer and a font face between calls and is NOT
// safe for concurrent use.
type Shaper struct {
	face   *font.Face
	hb     shaping.HarfbuzzShaper
	size   fixed.Int26_6
	lang   language.Language
	widths *runewidth.Condition
}

// NewShaper parses an OpenType/TrueType font and returns a shaper for the
// given pixel size.
func NewShaper(fontData []byte, size float64, opts ...ShaperOption) (*Shaper, error) {
	if len(fontData) == 0 {
		return nil, ErrEmptyFontData
	}
	if size <= 0 {
		return nil, ErrInvalidSize
	}
	face, err := font.ParseTTF(bytes.NewReader(fontData))
	if err != nil {
		return nil, fmt.Errorf("text: failed to parse font: %w", err)
	}

	s := &Shaper{
		// Each Shaper owns its Face; font.Face is not safe for concurrent use.
		face:   font.NewFace(face.Font),
		size:   floatToFixed(size),
		lang:   language.NewLanguage("en"),
		widths: runewidth.NewCondition(),
	}
	s.widths.EastAsianWidth = false
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Shape normalizes line to NFC and shapes it left to right.
// Clusters are returned in logical order.
func (s *Shaper) Shape(line string) []Cluster {
	if line == "" {
		return nil
	}
	runes := []rune(norm.NFC.String(line))

	input := shaping.Input{
		Text:      runes,
		RunStart:  0,
		RunEnd:    len(runes),
		Direction: di.DirectionLTR,
		Face:      s.face,
		Size:      s.size,
		Script:    detectScript(runes),
		Language:  s.lang,
	}
	out := s.hb.Shape(input)
	return s.groupClusters(out.Glyphs, runes)
}

// CellWidth returns the number of cells a string covers, at least 1.
func (s *Shaper) CellWidth(str string) int {
	return max(1, s.widths.StringWidth(str))
}

// groupClusters merges consecutive glyphs sharing a cluster index.
func (s *Shaper) groupClusters(glyphs []shaping.Glyph, runes []rune) []Cluster {
	if len(glyphs) == 0 {
		return nil
	}
	clusters := make([]Cluster, 0, len(glyphs))
	for i := 0; i < len(glyphs); {
		start := glyphs[i].ClusterIndex
		j := i + 1
		for j < len(glyphs) && glyphs[j].ClusterIndex == start {
			j++
		}

		ids := make([]glyphcache.GlyphIndex, 0, j-i)
		for _, g := range glyphs[i:j] {
			ids = append(ids, glyphcache.GlyphIndex(g.GlyphID))
		}

		end := min(start+max(1, glyphs[i].RuneCount), len(runes))
		src := runes[start:end]
		clusters = append(clusters, Cluster{
			Glyphs: ids,
			Runes:  src,
			Cells:  s.CellWidth(string(src)),
		})
		i = j
	}
	return clusters
}

// detectScript returns the script of the first non-space rune.
// Mixed-script lines should be split by the caller before shaping.
func detectScript(runes []rune) language.Script {
	for _, r := range runes {
		if r == ' ' || r == '\t' {
			continue
		}
		return language.LookupScript(r)
	}
	return language.Latin
}

// floatToFixed converts a pixel size to 26.6 fixed point.
func floatToFixed(size float64) fixed.Int26_6 {
	return fixed.Int26_6(size * 64)
}
