package glyphcache

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"fortio.org/safecast"

	"github.com/gogpu/glyphcache/internal/hashmap"
)

const (
	// wordSize is the encoded size of every field of a run key.
	wordSize = 4

	// runKeyHeaderWords counts the header fields: count, ligature index, cell count.
	runKeyHeaderWords = 3

	// scratchSlack is added whenever the scratch buffer grows, so nearby
	// key sizes reuse the same buffer.
	scratchSlack = 64
)

// RunKeySize returns the encoded size in bytes of the key for a run of
// count glyphs.
func RunKeySize(count int) int {
	return (count + runKeyHeaderWords) * wordSize
}

// EncodeRunKey appends the key encoding of a glyph run to dst:
// count, ligature index, cell count, then the glyphs, each as a
// little-endian uint32.
func EncodeRunKey(dst []byte, glyphs []GlyphIndex, ligatureIndex, cellCount GlyphIndex) ([]byte, error) {
	count, err := safecast.Conv[uint32](len(glyphs))
	if err != nil {
		return dst, fmt.Errorf("%w: run of %d glyphs: %w", ErrAllocationFailed, len(glyphs), err)
	}
	dst = binary.LittleEndian.AppendUint32(dst, count)
	dst = binary.LittleEndian.AppendUint32(dst, ligatureIndex)
	dst = binary.LittleEndian.AppendUint32(dst, cellCount)
	for _, g := range glyphs {
		dst = binary.LittleEndian.AppendUint32(dst, g)
	}
	return dst, nil
}

// hashRunKey hashes the full key span.
func hashRunKey(k []byte) uint64 {
	return hashmap.HashBytes(k)
}

// runKeyEqual compares length and content. The glyph count is part of the
// encoding, so keys of different runs never alias by prefix.
func runKeyEqual(a, b []byte) bool {
	return len(a) == len(b) && bytes.Equal(a, b)
}

// KeyScratch is a reusable buffer for staging lookup keys.
//
// The buffer grows on demand and never shrinks. Its contents are only
// meaningful during a single FindOrCreate call. A KeyScratch must not be
// used by two goroutines at once.
type KeyScratch struct {
	buf []byte
}

// sharedScratch is used by every SpritePositionCache created without
// WithScratch.
var sharedScratch KeyScratch

// NewKeyScratch returns an empty scratch buffer.
func NewKeyScratch() *KeyScratch {
	return &KeyScratch{}
}

// Cap returns the current buffer capacity in bytes.
func (s *KeyScratch) Cap() int {
	return cap(s.buf)
}

// Release drops the buffer. The scratch stays usable and regrows on demand.
func (s *KeyScratch) Release() {
	s.buf = nil
}

// build stages the key for a run and returns it. The returned slice aliases
// the scratch buffer. maxBytes bounds buffer growth; zero means unlimited.
func (s *KeyScratch) build(glyphs []GlyphIndex, ligatureIndex, cellCount GlyphIndex, maxBytes int) ([]byte, error) {
	need := RunKeySize(len(glyphs))
	if cap(s.buf) < need {
		if maxBytes > 0 && need > maxBytes {
			return nil, fmt.Errorf("%w: run key of %d bytes exceeds limit of %d", ErrAllocationFailed, need, maxBytes)
		}
		s.buf = make([]byte, 0, need+scratchSlack)
		Logger().Debug("glyphcache: scratch buffer grown", "cap", cap(s.buf))
	}
	return EncodeRunKey(s.buf[:0], glyphs, ligatureIndex, cellCount)
}

// ReleaseGlobalResources frees the process-wide scratch buffer shared by
// caches created without WithScratch. It is safe to call at any time from
// the rendering goroutine, any number of times, including when no cache was
// ever used.
func ReleaseGlobalResources() {
	sharedScratch.Release()
}
