package fontstash

import (
	"image"
	"math"

	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

// Face returns a font.Face drawing font id at size pixels per em from the
// atlas, so that a font.Drawer can render text through the stash. Glyph
// masks alias the atlas texels and are valid until the atlas is expanded
// or reset.
func (s *Stash) Face(id int, size float32) (font.Face, error) {
	if _, err := s.font(id); err != nil {
		return nil, err
	}
	isize := int(size * 10)
	if isize < 2 {
		return nil, ErrSizeTooSmall
	}
	return &face{s: s, id: id, isize: isize}, nil
}

type face struct {
	s     *Stash
	id    int
	isize int
}

var _ font.Face = (*face)(nil)

func (fc *face) entry() *fontEntry { return fc.s.fonts[fc.id] }

func (fc *face) size() float32 { return float32(fc.isize) / 10 }

func (fc *face) Close() error { return nil }

func (fc *face) Glyph(dot fixed.Point26_6, r rune) (
	dr image.Rectangle, mask image.Image, maskp image.Point, advance fixed.Int26_6, ok bool) {
	f := fc.entry()
	if _, index := fc.s.resolve(f, r); index == 0 {
		return image.Rectangle{}, nil, image.Point{}, 0, false
	}
	g, err := fc.s.glyph(f, r, fc.isize, 0, BitmapRequired)
	if err != nil {
		return image.Rectangle{}, nil, image.Point{}, 0, false
	}

	x := dot.X.Round() + g.XOff
	y := dot.Y.Round() + g.YOff
	dr = image.Rect(x, y, x+g.X1-g.X0, y+g.Y1-g.Y0)
	mask = &image.Alpha{
		Pix:    fc.s.tex,
		Stride: fc.s.width,
		Rect:   image.Rect(0, 0, fc.s.width, fc.s.height),
	}
	return dr, mask, image.Pt(g.X0, g.Y0), fixedAdvance(g), true
}

func (fc *face) GlyphBounds(r rune) (bounds fixed.Rectangle26_6, advance fixed.Int26_6, ok bool) {
	render, index := fc.s.resolve(fc.entry(), r)
	if index == 0 {
		return fixed.Rectangle26_6{}, 0, false
	}
	scale := render.info.ScaleForEMToPixels(fc.size())
	adv, _ := render.info.HMetrics(index)
	advance = toFixed(float32(adv) * scale)

	x0, y0, x1, y1, hasBox := render.info.GlyphBox(index)
	if !hasBox {
		return fixed.Rectangle26_6{}, advance, true
	}
	bounds = fixed.Rectangle26_6{
		Min: fixed.Point26_6{X: toFixed(float32(x0) * scale), Y: toFixed(-float32(y1) * scale)},
		Max: fixed.Point26_6{X: toFixed(float32(x1) * scale), Y: toFixed(-float32(y0) * scale)},
	}
	return bounds, advance, true
}

func (fc *face) GlyphAdvance(r rune) (advance fixed.Int26_6, ok bool) {
	f := fc.entry()
	if _, index := fc.s.resolve(f, r); index == 0 {
		return 0, false
	}
	g, err := fc.s.glyph(f, r, fc.isize, 0, BitmapOptional)
	if err != nil {
		return 0, false
	}
	return fixedAdvance(g), true
}

func (fc *face) Kern(r0, r1 rune) fixed.Int26_6 {
	f := fc.entry()
	a := f.info.FindGlyphIndex(r0)
	b := f.info.FindGlyphIndex(r1)
	scale := f.info.ScaleForEMToPixels(fc.size())
	return toFixed(float32(f.info.KernAdvance(a, b)) * scale)
}

func (fc *face) Metrics() font.Metrics {
	f := fc.entry()
	size := fc.size()
	scale := f.info.ScaleForEMToPixels(size)
	return font.Metrics{
		Height:     toFixed(f.lineh * size),
		Ascent:     toFixed(f.ascender * size),
		Descent:    toFixed(-f.descender * size),
		XHeight:    toFixed(float32(fc.glyphTop('x')) * scale),
		CapHeight:  toFixed(float32(fc.glyphTop('H')) * scale),
		CaretSlope: image.Point{X: 0, Y: 1},
	}
}

// glyphTop returns the top of the outline of r in font units.
func (fc *face) glyphTop(r rune) int {
	info := fc.entry().info
	_, _, _, y1, ok := info.GlyphBox(info.FindGlyphIndex(r))
	if !ok {
		return 0
	}
	return y1
}

func fixedAdvance(g *Glyph) fixed.Int26_6 {
	return fixed.Int26_6(g.XAdvance * 64 / 10)
}

func toFixed(v float32) fixed.Int26_6 {
	return fixed.Int26_6(math.Round(float64(v) * 64))
}
