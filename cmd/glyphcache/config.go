package main

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/gogpu/glyphcache"
)

// Config is the TOML configuration of the stats command.
//
//	[atlas]
//	max_texture_size = 8192
//	max_array_len = 256
//
//	[cell]
//	width = 10
//	height = 20
//
//	[cache]
//	max_entries = 0      # 0 means unbounded
//	max_run_glyphs = 0
//	initial_capacity = 0
type Config struct {
	Atlas AtlasConfig `toml:"atlas"`
	Cell  CellConfig  `toml:"cell"`
	Cache CacheConfig `toml:"cache"`
}

// AtlasConfig mirrors glyphcache.SpriteTrackerConfig.
type AtlasConfig struct {
	MaxTextureSize int `toml:"max_texture_size"`
	MaxArrayLen    int `toml:"max_array_len"`
}

// CellConfig is the pixel size of one terminal cell.
type CellConfig struct {
	Width  int `toml:"width"`
	Height int `toml:"height"`
}

// CacheConfig bounds the sprite position and glyph properties caches.
type CacheConfig struct {
	MaxEntries      int `toml:"max_entries"`
	MaxRunGlyphs    int `toml:"max_run_glyphs"`
	InitialCapacity int `toml:"initial_capacity"`
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() Config {
	tracker := glyphcache.DefaultSpriteTrackerConfig()
	return Config{
		Atlas: AtlasConfig{
			MaxTextureSize: tracker.MaxTextureSize,
			MaxArrayLen:    tracker.MaxArrayLen,
		},
		Cell: CellConfig{Width: 10, Height: 20},
	}
}

// LoadConfig reads path on top of DefaultConfig. Keys the config does not
// know about are an error.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	tracker := c.trackerConfig()
	if err := tracker.Validate(); err != nil {
		return err
	}
	if c.Cell.Width < 1 {
		return &glyphcache.ConfigError{Field: "cell.width", Reason: "must be at least 1"}
	}
	if c.Cell.Height < 1 {
		return &glyphcache.ConfigError{Field: "cell.height", Reason: "must be at least 1"}
	}
	if c.Cache.MaxEntries < 0 || c.Cache.MaxRunGlyphs < 0 || c.Cache.InitialCapacity < 0 {
		return &glyphcache.ConfigError{Field: "cache", Reason: "limits must not be negative"}
	}
	return nil
}

func (c *Config) trackerConfig() glyphcache.SpriteTrackerConfig {
	return glyphcache.SpriteTrackerConfig{
		MaxTextureSize: c.Atlas.MaxTextureSize,
		MaxArrayLen:    c.Atlas.MaxArrayLen,
	}
}

// cacheOptions returns the options for one file's caches. Zero limits are
// left at the library defaults.
func (c *Config) cacheOptions(scratch *glyphcache.KeyScratch) []glyphcache.Option {
	opts := []glyphcache.Option{glyphcache.WithScratch(scratch)}
	if c.Cache.MaxEntries > 0 {
		opts = append(opts, glyphcache.WithMaxEntries(c.Cache.MaxEntries))
	}
	if c.Cache.MaxRunGlyphs > 0 {
		opts = append(opts, glyphcache.WithMaxRunGlyphs(c.Cache.MaxRunGlyphs))
	}
	if c.Cache.InitialCapacity > 0 {
		opts = append(opts, glyphcache.WithInitialCapacity(c.Cache.InitialCapacity))
	}
	return opts
}
