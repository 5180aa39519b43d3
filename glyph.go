package fontstash

import (
	"errors"
	"fmt"

	"github.com/gogpu/fontstash/atlas"
	"github.com/gogpu/fontstash/raster"
	"github.com/gogpu/fontstash/truetype"
)

const (
	hashLUTSize  = 256
	initGlyphs   = 256
	maxFallbacks = 20
)

// BitmapMode selects whether a glyph lookup must place a bitmap in the atlas.
type BitmapMode int

const (
	// BitmapOptional computes metrics only. Glyphs looked up this way have
	// negative atlas coordinates until they are requested with BitmapRequired.
	BitmapOptional BitmapMode = iota
	// BitmapRequired rasterizes the glyph into the atlas if it is not
	// there yet.
	BitmapRequired
)

// Glyph is a cached glyph of one font at one size and blur.
type Glyph struct {
	Codepoint rune
	Index     truetype.GlyphIndex

	// Size is the pixel size times 10; Blur is the blur radius.
	Size int
	Blur int

	// X0, Y0, X1, Y1 is the atlas rectangle including padding. X0 and Y0
	// are negative when the glyph has no bitmap.
	X0, Y0, X1, Y1 int

	// XAdvance is the horizontal advance in pixels times 10.
	XAdvance int

	// XOff and YOff locate the rectangle relative to the pen position,
	// y down.
	XOff, YOff int

	next int
}

// HasBitmap reports whether the glyph occupies atlas space.
func (g *Glyph) HasBitmap() bool {
	return g.X0 >= 0 && g.Y0 >= 0
}

// hashint is Thomas Wang's 32-bit integer hash.
func hashint(a uint32) uint32 {
	a += ^(a << 15)
	a ^= a >> 10
	a += a << 3
	a ^= a >> 6
	a += ^(a << 11)
	a ^= a >> 16
	return a
}

// lutIndex hashes the whole cache key so that one codepoint at many sizes
// spreads over the table.
func lutIndex(cp rune, isize, iblur int) int {
	k := hashint(uint32(isize)<<8 | uint32(iblur&0xff))
	return int(hashint(uint32(cp)^k) & (hashLUTSize - 1))
}

// Glyph returns the cached glyph for codepoint cp of font at isize (pixel
// size times 10) and blur iblur, creating it on first use. With
// BitmapRequired the glyph is rasterized into the atlas; when it does not
// fit the error is ErrAtlasFull. The returned value is a copy.
func (s *Stash) Glyph(font int, cp rune, isize, iblur int, mode BitmapMode) (*Glyph, error) {
	f, err := s.font(font)
	if err != nil {
		return nil, err
	}
	g, err := s.glyph(f, cp, isize, iblur, mode)
	if err != nil {
		return nil, err
	}
	c := *g
	return &c, nil
}

// glyph returns a pointer into f.glyphs, valid until the next lookup.
func (s *Stash) glyph(f *fontEntry, cp rune, isize, iblur int, mode BitmapMode) (*Glyph, error) {
	if isize < 2 {
		return nil, ErrSizeTooSmall
	}
	iblur = max(0, min(iblur, maxBlur))
	pad := iblur + 2

	if i := f.find(cp, isize, iblur); i >= 0 {
		g := &f.glyphs[i]
		if mode == BitmapOptional || g.HasBitmap() {
			return g, nil
		}
	}

	render, index := s.resolve(f, cp)
	scale := render.info.ScaleForEMToPixels(float32(isize) / 10)
	advance, _ := render.info.HMetrics(index)
	box := render.info.BitmapBox(index, scale, scale, 0, 0)
	gw := box.Dx() + 2*pad
	gh := box.Dy() + 2*pad

	gx, gy := -1, -1
	if mode == BitmapRequired {
		var err error
		gx, gy, err = s.allocRect(gw, gh)
		if err != nil {
			return nil, err
		}
	}

	// The atlas-full handler may have reset the glyph caches.
	i := f.find(cp, isize, iblur)
	if i < 0 {
		i = f.allocGlyph(cp, isize, iblur)
	}
	g := &f.glyphs[i]
	g.Index = index
	g.X0 = gx
	g.Y0 = gy
	g.X1 = gx + gw
	g.Y1 = gy + gh
	g.XAdvance = int(scale * float32(advance) * 10)
	g.XOff = box.Min.X - pad
	g.YOff = box.Min.Y - pad

	if mode == BitmapOptional {
		return g, nil
	}
	s.renderGlyph(render, g, scale, pad, iblur)
	return g, nil
}

// resolve maps cp to a glyph index, trying the fallback fonts of f when f
// has no glyph for it. It returns the font that owns the glyph.
func (s *Stash) resolve(f *fontEntry, cp rune) (*fontEntry, truetype.GlyphIndex) {
	if g := f.info.FindGlyphIndex(cp); g != 0 {
		return f, g
	}
	for _, id := range f.fallbacks {
		fb := s.fonts[id]
		if g := fb.info.FindGlyphIndex(cp); g != 0 {
			return fb, g
		}
	}
	return f, 0
}

// allocRect places a w×h rectangle in the atlas, giving OnAtlasFull one
// chance to make room.
func (s *Stash) allocRect(w, h int) (x, y int, err error) {
	x, y, err = s.atlas.AddRect(w, h)
	if err == nil {
		return x, y, nil
	}
	if !errors.Is(err, atlas.ErrFull) {
		return 0, 0, err
	}
	s.logger().Warn("fontstash: atlas full",
		"atlas_width", s.width, "atlas_height", s.height, "w", w, "h", h)
	if s.onAtlasFull == nil {
		return 0, 0, ErrAtlasFull
	}
	if err := s.onAtlasFull(s); err != nil {
		return 0, 0, fmt.Errorf("fontstash: atlas full handler: %w", err)
	}
	if x, y, err = s.atlas.AddRect(w, h); err != nil {
		return 0, 0, ErrAtlasFull
	}
	return x, y, nil
}

// renderGlyph rasterizes g into its atlas rectangle, clears a one texel
// border around it and applies the blur.
func (s *Stash) renderGlyph(f *fontEntry, g *Glyph, scale float32, pad, iblur int) {
	stride := s.width
	gw, gh := g.X1-g.X0, g.Y1-g.Y0

	off := (g.X0 + pad) + (g.Y0+pad)*stride
	raster.MakeGlyphBitmap(f.info, s.tex[off:], gw-2*pad, gh-2*pad, stride, scale, scale, 0, 0, g.Index)

	dst := s.tex[g.X0+g.Y0*stride:]
	for y := range gh {
		dst[y*stride] = 0
		dst[gw-1+y*stride] = 0
	}
	for x := range gw {
		dst[x] = 0
		dst[x+(gh-1)*stride] = 0
	}

	if iblur > 0 {
		blur(dst, gw, gh, stride, iblur)
	}

	s.dirty.union(g.X0, g.Y0, g.X1, g.Y1)
	s.logger().Debug("fontstash: glyph rasterized",
		"codepoint", g.Codepoint, "size", g.Size, "blur", g.Blur, "x", g.X0, "y", g.Y0)
}

func (f *fontEntry) find(cp rune, isize, iblur int) int {
	for i := f.lut[lutIndex(cp, isize, iblur)]; i != -1; i = f.glyphs[i].next {
		g := &f.glyphs[i]
		if g.Codepoint == cp && g.Size == isize && g.Blur == iblur {
			return i
		}
	}
	return -1
}

func (f *fontEntry) allocGlyph(cp rune, isize, iblur int) int {
	h := lutIndex(cp, isize, iblur)
	f.glyphs = append(f.glyphs, Glyph{
		Codepoint: cp,
		Size:      isize,
		Blur:      iblur,
		next:      f.lut[h],
	})
	i := len(f.glyphs) - 1
	f.lut[h] = i
	return i
}

func (f *fontEntry) resetGlyphs() {
	f.glyphs = f.glyphs[:0]
	for i := range f.lut {
		f.lut[i] = -1
	}
}
