package fontstash

import "errors"

// Sentinel errors for the fontstash package.
var (
	// ErrAtlasFull is returned when a glyph bitmap does not fit in the
	// atlas. Call [Stash.ExpandAtlas] or [Stash.ResetAtlas] and retry, or
	// set [Config.OnAtlasFull].
	ErrAtlasFull = errors.New("fontstash: atlas full")

	// ErrStateOverflow is returned by PushState when the state stack is full.
	ErrStateOverflow = errors.New("fontstash: state stack overflow")

	// ErrStateUnderflow is returned by PopState on the last state.
	ErrStateUnderflow = errors.New("fontstash: state stack underflow")

	// ErrInvalidFont is returned for unknown font ids and unusable fonts.
	ErrInvalidFont = errors.New("fontstash: invalid font")

	// ErrSizeTooSmall is returned for glyph sizes below 0.2 pixels.
	ErrSizeTooSmall = errors.New("fontstash: glyph size too small")

	// ErrTooManyFallbacks is returned when a font already has the maximum
	// number of fallback fonts.
	ErrTooManyFallbacks = errors.New("fontstash: too many fallback fonts")

	// ErrRendererResize is returned when the renderer rejects a new texture
	// size.
	ErrRendererResize = errors.New("fontstash: renderer resize failed")
)

// ConfigError describes an invalid [Config] field.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return "fontstash: invalid config." + e.Field + ": " + e.Reason
}
