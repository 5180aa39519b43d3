// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package raster

import (
	"image"

	"github.com/gogpu/fontstash/truetype"
)

// Flatness is the curve tolerance, in pixels, used for glyph bitmaps.
const Flatness = 0.35

// GlyphBitmap renders glyph g into a new image sized to its bitmap box.
// xoff and yoff give the position of the image's top-left corner relative
// to the glyph origin, with y pointing down. A zero sx takes the value of
// sy and vice versa. Empty glyphs return an empty image.
func GlyphBitmap(f *truetype.Font, sx, sy, shx, shy float32, g truetype.GlyphIndex) (img *image.Alpha, xoff, yoff int) {
	if sx == 0 {
		sx = sy
	}
	if sy == 0 {
		if sx == 0 {
			return image.NewAlpha(image.Rectangle{}), 0, 0
		}
		sy = sx
	}

	box := f.BitmapBox(g, sx, sy, shx, shy)
	w, h := box.Dx(), box.Dy()
	if w <= 0 || h <= 0 {
		return image.NewAlpha(image.Rectangle{}), box.Min.X, box.Min.Y
	}
	bm := NewBitmap(w, h)
	Rasterize(bm, Flatness, f.GlyphShape(g), sx, sy, shx, shy, box.Min.X, box.Min.Y, true)
	return bm.Alpha(), box.Min.X, box.Min.Y
}

// CodepointBitmap is GlyphBitmap for the glyph mapped to cp.
func CodepointBitmap(f *truetype.Font, sx, sy, shx, shy float32, cp rune) (img *image.Alpha, xoff, yoff int) {
	return GlyphBitmap(f, sx, sy, shx, shy, f.FindGlyphIndex(cp))
}

// MakeGlyphBitmap renders glyph g into dst, a w×h window with the given
// row stride, positioned at the glyph's bitmap box origin. dst must hold
// at least (h-1)*stride+w bytes. Coverage outside the window is dropped.
func MakeGlyphBitmap(f *truetype.Font, dst []byte, w, h, stride int,
	sx, sy, shx, shy float32, g truetype.GlyphIndex) {
	if w <= 0 || h <= 0 {
		return
	}
	box := f.BitmapBox(g, sx, sy, shx, shy)
	bm := &Bitmap{W: w, H: h, Stride: stride, Pix: dst}
	Rasterize(bm, Flatness, f.GlyphShape(g), sx, sy, shx, shy, box.Min.X, box.Min.Y, true)
}
