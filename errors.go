package glyphcache

import "errors"

// Sentinel errors for glyphcache package.
var (
	// ErrAllocationFailed is returned when the cache cannot grow to hold a
	// new entry or a larger lookup key. Callers should skip the glyph run for
	// the current frame; nothing was inserted.
	ErrAllocationFailed = errors.New("glyphcache: allocation failed")

	// ErrEmptyRun is returned when a glyph run has no glyphs.
	ErrEmptyRun = errors.New("glyphcache: glyph run is empty")

	// ErrDestroyed is returned when a destroyed cache is used.
	ErrDestroyed = errors.New("glyphcache: cache destroyed")

	// ErrOutOfSpriteSpace is returned when every atlas slot has been handed out.
	ErrOutOfSpriteSpace = errors.New("glyphcache: out of texture space for sprites")
)

// ConfigError represents a configuration validation error.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return "glyphcache: invalid config." + e.Field + ": " + e.Reason
}
