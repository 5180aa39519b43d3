package sdf

import "errors"

// Sentinel errors for sdf package.
var (
	// ErrZeroScale is returned when the requested scale is zero.
	ErrZeroScale = errors.New("sdf: zero scale")

	// ErrEmptyGlyph is returned for glyphs without an outline, such as space.
	ErrEmptyGlyph = errors.New("sdf: glyph has no outline")
)
