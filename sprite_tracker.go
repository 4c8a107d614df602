package glyphcache

import (
	"fmt"

	"fortio.org/safecast"
	"github.com/gogpu/gputypes"
)

const (
	// maxSpriteArrayLen caps the number of array texture layers.
	maxSpriteArrayLen = 0xfff

	// maxSpriteAxis is the largest slot count along one axis (uint16 coordinates).
	maxSpriteAxis = 0xffff
)

// SpriteTrackerConfig holds the texture limits sprite slots are laid out in.
type SpriteTrackerConfig struct {
	// MaxTextureSize is the maximum width and height of one layer, in pixels.
	MaxTextureSize int

	// MaxArrayLen is the maximum number of layers. Values above 4095 are clamped.
	MaxArrayLen int
}

// DefaultSpriteTrackerConfig returns limits every WebGPU device supports.
func DefaultSpriteTrackerConfig() SpriteTrackerConfig {
	return SpriteTrackerConfigFromLimits(gputypes.DefaultLimits())
}

// SpriteTrackerConfigFromLimits derives the config from device limits.
func SpriteTrackerConfigFromLimits(l gputypes.Limits) SpriteTrackerConfig {
	return SpriteTrackerConfig{
		MaxTextureSize: int(l.MaxTextureDimension2D),
		MaxArrayLen:    int(l.MaxTextureArrayLayers),
	}
}

// Validate checks if the configuration is valid.
func (c *SpriteTrackerConfig) Validate() error {
	if c.MaxTextureSize < 1 {
		return &ConfigError{Field: "MaxTextureSize", Reason: "must be at least 1"}
	}
	if c.MaxArrayLen < 1 {
		return &ConfigError{Field: "MaxArrayLen", Reason: "must be at least 1"}
	}
	return nil
}

// SpriteTracker hands out sprite atlas slots in order: left to right, then
// top to bottom within a layer, then layer by layer.
//
// The atlas grows lazily: ynum, the number of rows in use, increases as
// slots are handed out, up to the number of rows that fit in a layer.
//
// SpriteTracker is not safe for concurrent use.
type SpriteTracker struct {
	maxTextureSize int
	maxArrayLen    int

	xnum, ynum, maxY int
	x, y, z          int
}

// NewSpriteTracker creates a tracker for cells of the given pixel size.
func NewSpriteTracker(cfg SpriteTrackerConfig, cellWidth, cellHeight int) (*SpriteTracker, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	t := &SpriteTracker{
		maxTextureSize: cfg.MaxTextureSize,
		maxArrayLen:    min(cfg.MaxArrayLen, maxSpriteArrayLen),
	}
	if err := t.SetLayout(cellWidth, cellHeight); err != nil {
		return nil, err
	}
	return t, nil
}

// SetLayout resets the tracker for a new cell size. All previously handed
// out slots become invalid; the caller must drop its sprite caches.
func (t *SpriteTracker) SetLayout(cellWidth, cellHeight int) error {
	if cellWidth < 1 {
		return &ConfigError{Field: "cellWidth", Reason: "must be at least 1"}
	}
	if cellHeight < 1 {
		return &ConfigError{Field: "cellHeight", Reason: "must be at least 1"}
	}
	t.xnum = min(max(1, t.maxTextureSize/cellWidth), maxSpriteAxis)
	t.maxY = min(max(1, t.maxTextureSize/cellHeight), maxSpriteAxis)
	t.ynum = 1
	t.x, t.y, t.z = 0, 0, 0
	return nil
}

// Next returns the current free slot and advances past it.
// It fails with ErrOutOfSpriteSpace once every layer is full.
func (t *SpriteTracker) Next() (x, y, z uint16, err error) {
	if t.z >= t.maxArrayLen {
		Logger().Warn("glyphcache: sprite atlas exhausted", "layers", t.maxArrayLen)
		return 0, 0, 0, ErrOutOfSpriteSpace
	}
	cx, cy, cz := t.x, t.y, t.z

	t.x++
	if t.x >= t.xnum {
		t.x = 0
		t.y++
		t.ynum = min(max(t.ynum, t.y+1), t.maxY)
		if t.y >= t.maxY {
			t.y = 0
			t.z++
		}
	}

	if x, err = safecast.Conv[uint16](cx); err != nil {
		return 0, 0, 0, fmt.Errorf("glyphcache: sprite x: %w", err)
	}
	if y, err = safecast.Conv[uint16](cy); err != nil {
		return 0, 0, 0, fmt.Errorf("glyphcache: sprite y: %w", err)
	}
	if z, err = safecast.Conv[uint16](cz); err != nil {
		return 0, 0, 0, fmt.Errorf("glyphcache: sprite z: %w", err)
	}
	return x, y, z, nil
}

// Assign stores the next free slot in p.
func (t *SpriteTracker) Assign(p *SpritePosition) error {
	x, y, z, err := t.Next()
	if err != nil {
		return err
	}
	p.X, p.Y, p.Z = x, y, z
	return nil
}

// Layout returns the slots per row, the rows in use and the current layer.
func (t *SpriteTracker) Layout() (xnum, ynum, z int) {
	return t.xnum, t.ynum, t.z
}

// Index returns the linear sprite index of a slot for the current layout.
func (t *SpriteTracker) Index(x, y, z uint16) uint32 {
	return uint32(z)*uint32(t.xnum*t.ynum) + uint32(y)*uint32(t.xnum) + uint32(x)
}

// PositionOf is the inverse of Index for the current layout.
func (t *SpriteTracker) PositionOf(index uint32) (x, y, z uint16) {
	perLayer := uint32(t.xnum * t.ynum)
	rem := index % perLayer
	return uint16(rem % uint32(t.xnum)), uint16(rem / uint32(t.xnum)), uint16(index / perLayer)
}
