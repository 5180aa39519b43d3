package fontstash

import (
	"log/slog"
)

// Origin selects where y = 0 lies for quads and bounds.
type Origin int

const (
	// OriginTopLeft puts y = 0 at the top with y growing down.
	OriginTopLeft Origin = iota
	// OriginBottomLeft puts y = 0 at the bottom with y growing up.
	OriginBottomLeft
)

// String returns the origin name.
func (o Origin) String() string {
	switch o {
	case OriginTopLeft:
		return "TopLeft"
	case OriginBottomLeft:
		return "BottomLeft"
	default:
		return "Unknown"
	}
}

// Atlas size limits accepted by [Config.Validate].
const (
	MinAtlasSize = 16
	MaxAtlasSize = 16384
)

// Config holds the parameters of a [Stash].
type Config struct {
	// Width and Height are the initial atlas texture size in texels.
	Width  int
	Height int

	// Origin is the coordinate convention of quads and bounds.
	Origin Origin

	// Renderer receives texture updates and vertex batches. It may be nil.
	Renderer Renderer

	// OnAtlasFull is called once when a glyph does not fit. It typically
	// calls ExpandAtlas or ResetAtlas; the allocation is then retried once.
	// When nil, glyph lookups fail with ErrAtlasFull.
	OnAtlasFull func(s *Stash) error

	// Logger overrides the package logger for this stash.
	Logger *slog.Logger
}

// DefaultConfig returns a 512x512 atlas with a top-left origin.
func DefaultConfig() Config {
	return Config{
		Width:  512,
		Height: 512,
		Origin: OriginTopLeft,
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if c.Width < MinAtlasSize || c.Width > MaxAtlasSize {
		return &ConfigError{Field: "Width", Reason: "must be between 16 and 16384"}
	}
	if c.Height < MinAtlasSize || c.Height > MaxAtlasSize {
		return &ConfigError{Field: "Height", Reason: "must be between 16 and 16384"}
	}
	if c.Origin != OriginTopLeft && c.Origin != OriginBottomLeft {
		return &ConfigError{Field: "Origin", Reason: "unknown origin"}
	}
	return nil
}
