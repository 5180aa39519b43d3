// Package truetype parses TrueType and OpenType font binaries.
//
// A [Font] is created from raw bytes with [Parse] and is read-only
// afterwards, so one parsed font may be shared between goroutines. Fonts
// with glyf/loca outlines and fonts with CFF Type 2 charstrings (including
// CID-keyed fonts) are supported, as are font collections.
//
// The package covers what a glyph rasterizer needs:
//
//   - codepoint to glyph index lookup (cmap formats 0, 4, 6, 12 and 13)
//   - horizontal and vertical metrics
//   - pair kerning from GPOS or the legacy kern table
//   - glyph outlines as a stream of [Vertex] values in font units
//
// Malformed glyph data never returns an error. Out-of-range reads yield zero
// values and broken outlines come back empty, so a bad glyph renders as
// nothing instead of aborting the rest of a text run. Only [Parse] fails.
//
// # Example
//
//	f, err := truetype.Parse(goregular.TTF, 0)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	g := f.FindGlyphIndex('A')
//	advance, _ := f.HMetrics(g)
//	scale := f.ScaleForEMToPixels(16)
//	fmt.Println(float32(advance) * scale)
package truetype
