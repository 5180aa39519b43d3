package truetype

import (
	"image"
	"math"
)

// HMetrics returns the advance width and left side bearing of glyph g in
// font units. Glyphs past the last long metric share its advance.
func (f *Font) HMetrics(g GlyphIndex) (advance, lsb int) {
	numLong := int(f.u16(f.hhea + 34))
	if numLong == 0 || g < 0 {
		return 0, 0
	}
	i := int(g)
	if i < numLong {
		return int(f.i16(f.hmtx + 4*i)), int(f.i16(f.hmtx + 4*i + 2))
	}
	return int(f.i16(f.hmtx + 4*(numLong-1))),
		int(f.i16(f.hmtx + 4*numLong + 2*(i-numLong)))
}

// VMetrics returns ascent, descent and line gap from hhea, in font units.
// Descent is usually negative.
func (f *Font) VMetrics() (ascent, descent, lineGap int) {
	return int(f.i16(f.hhea + 4)), int(f.i16(f.hhea + 6)), int(f.i16(f.hhea + 8))
}

// OS2VMetrics returns the typographic metrics from the OS/2 table.
// ok is false when the font has no OS/2 table.
func (f *Font) OS2VMetrics() (typoAscent, typoDescent, typoLineGap int, ok bool) {
	if f.os2 == 0 {
		return 0, 0, 0, false
	}
	return int(f.i16(f.os2 + 68)), int(f.i16(f.os2 + 70)), int(f.i16(f.os2 + 72)), true
}

// BoundingBox returns the union of all glyph bounds, from head.
func (f *Font) BoundingBox() (x0, y0, x1, y1 int) {
	return int(f.i16(f.head + 36)), int(f.i16(f.head + 38)),
		int(f.i16(f.head + 40)), int(f.i16(f.head + 42))
}

// UnitsPerEm returns the design units per em square.
func (f *Font) UnitsPerEm() int {
	return int(f.u16(f.head + 18))
}

// ScaleForPixelHeight returns the scale that maps ascent-descent to px.
func (f *Font) ScaleForPixelHeight(px float32) float32 {
	ascent, descent, _ := f.VMetrics()
	h := ascent - descent
	if h == 0 {
		return 0
	}
	return px / float32(h)
}

// ScaleForEMToPixels returns the scale that maps one em to px.
func (f *Font) ScaleForEMToPixels(px float32) float32 {
	upem := f.UnitsPerEm()
	if upem == 0 {
		return 0
	}
	return px / float32(upem)
}

// GlyphBox returns the outline bounds of g in font units. ok is false when
// the glyph has no outline data.
func (f *Font) GlyphBox(g GlyphIndex) (x0, y0, x1, y1 int, ok bool) {
	if f.IsCFF() {
		x0, y0, x1, y1, _ = f.charstringBounds(g)
		return x0, y0, x1, y1, true
	}
	off := f.glyfOffset(g)
	if off < 0 {
		return 0, 0, 0, 0, false
	}
	return int(f.i16(off + 2)), int(f.i16(off + 4)),
		int(f.i16(off + 6)), int(f.i16(off + 8)), true
}

// IsGlyphEmpty reports whether g has no contours.
func (f *Font) IsGlyphEmpty(g GlyphIndex) bool {
	if f.IsCFF() {
		_, _, _, _, n := f.charstringBounds(g)
		return n == 0
	}
	off := f.glyfOffset(g)
	if off < 0 {
		return true
	}
	return f.i16(off) == 0
}

// BitmapBox returns the pixel bounds of g scaled by (sx, sy) and shifted by
// (shx, shy), with y pointing down. A glyph without a box yields the zero
// rectangle.
func (f *Font) BitmapBox(g GlyphIndex, sx, sy, shx, shy float32) image.Rectangle {
	x0, y0, x1, y1, ok := f.GlyphBox(g)
	if !ok {
		return image.Rectangle{}
	}
	return image.Rectangle{
		Min: image.Point{
			X: floor(float32(x0)*sx + shx),
			Y: floor(-float32(y1)*sy + shy),
		},
		Max: image.Point{
			X: ceil(float32(x1)*sx + shx),
			Y: ceil(-float32(y0)*sy + shy),
		},
	}
}

// CodepointBitmapBox is BitmapBox for the glyph mapped to cp.
func (f *Font) CodepointBitmapBox(cp rune, sx, sy, shx, shy float32) image.Rectangle {
	return f.BitmapBox(f.FindGlyphIndex(cp), sx, sy, shx, shy)
}

// glyfOffset returns the offset of g's glyf record, or -1 when the glyph
// has no outline.
func (f *Font) glyfOffset(g GlyphIndex) int {
	if g < 0 || int(g) >= f.numGlyphs || f.indexToLocFormat >= 2 {
		return -1
	}
	i := int(g)
	var g1, g2 int
	if f.indexToLocFormat == 0 {
		g1 = f.glyf + int(f.u16(f.loca+i*2))*2
		g2 = f.glyf + int(f.u16(f.loca+i*2+2))*2
	} else {
		g1 = f.glyf + int(f.u32(f.loca+i*4))
		g2 = f.glyf + int(f.u32(f.loca+i*4+4))
	}
	if g1 == g2 {
		return -1
	}
	return g1
}

func floor(v float32) int { return int(math.Floor(float64(v))) }
func ceil(v float32) int  { return int(math.Ceil(float64(v))) }
