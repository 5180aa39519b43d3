// Package sdf generates single-channel signed distance fields for glyphs.
//
// Each texel stores the distance from its centre to the nearest point of the
// glyph outline, mapped to a byte:
//
//	value = clamp(onEdge + pixelDistScale*d, 0, 255)
//
// where d is positive inside the glyph and negative outside. Inside/outside
// is decided by counting crossings of a horizontal ray with the exact line
// and quadratic segments; distances to quadratics are found by solving the
// cubic that minimizes the squared distance.
//
// Typical use renders the field once at a moderate size and scales it on the
// GPU with a smoothstep around onEdge/255:
//
//	fld, err := sdf.Codepoint(f, 'A', f.ScaleForPixelHeight(32), 4, 128, 32)
package sdf
