package glyphcache

// Option configures a cache during creation.
//
// Example:
//
//	// Unbounded cache sharing the process-wide scratch buffer
//	sprites := glyphcache.NewSpritePositionCache()
//
//	// Bounded cache with a private scratch buffer for a render goroutine
//	sprites := glyphcache.NewSpritePositionCache(
//	    glyphcache.WithMaxEntries(1<<16),
//	    glyphcache.WithScratch(glyphcache.NewKeyScratch()),
//	)
type Option func(*cacheOptions)

// cacheOptions holds optional configuration for cache creation.
type cacheOptions struct {
	maxEntries      int
	maxRunGlyphs    int
	initialCapacity int
	scratch         *KeyScratch
}

// defaultOptions returns the default cache options.
func defaultOptions() cacheOptions {
	return cacheOptions{
		maxEntries:      0, // unlimited
		maxRunGlyphs:    0, // unlimited
		initialCapacity: 0, // allocate on first insert
		scratch:         nil,
	}
}

func buildOptions(opts []Option) cacheOptions {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithMaxEntries bounds the number of entries a cache may hold.
// Inserting past the bound fails with ErrAllocationFailed instead of
// growing the table. Zero or negative means unlimited.
func WithMaxEntries(n int) Option {
	return func(o *cacheOptions) {
		if n > 0 {
			o.maxEntries = n
		}
	}
}

// WithMaxRunGlyphs bounds the number of glyphs in a single run, and with it
// the size the lookup scratch buffer may grow to. Longer runs fail with
// ErrAllocationFailed. Zero or negative means unlimited.
// Only SpritePositionCache uses this option.
func WithMaxRunGlyphs(n int) Option {
	return func(o *cacheOptions) {
		if n > 0 {
			o.maxRunGlyphs = n
		}
	}
}

// WithInitialCapacity reserves room for n entries up front.
func WithInitialCapacity(n int) Option {
	return func(o *cacheOptions) {
		if n > 0 {
			o.initialCapacity = n
		}
	}
}

// WithScratch makes a SpritePositionCache stage its lookup keys in s
// instead of the process-wide shared buffer. Caches used from different
// goroutines must not share a KeyScratch.
// Only SpritePositionCache uses this option.
func WithScratch(s *KeyScratch) Option {
	return func(o *cacheOptions) {
		o.scratch = s
	}
}
