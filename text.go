package fontstash

import (
	"math"

	"github.com/gogpu/fontstash/truetype"
)

// Quad is a textured rectangle for one glyph: screen corners X0,Y0 and
// X1,Y1 with matching texture coordinates S0,T0 and S1,T1.
type Quad struct {
	X0, Y0, S0, T0 float32
	X1, Y1, S1, T1 float32
}

// noGlyph marks the absence of a previous glyph for kerning.
const noGlyph = -1

// quad computes the quad of g at pen position (*x, y), applies kerning
// against prev and advances *x.
func (s *Stash) quad(f *fontEntry, prev truetype.GlyphIndex, g *Glyph, scale, spacing float32, x *float32, y float32) Quad {
	if prev != noGlyph {
		adv := float32(f.info.KernAdvance(prev, g.Index)) * scale
		*x += float32(int(adv + spacing + 0.5))
	}

	// inset one texel into the padding
	xoff := float32(g.XOff + 1)
	yoff := float32(g.YOff + 1)
	x0 := float32(g.X0 + 1)
	y0 := float32(g.Y0 + 1)
	x1 := float32(g.X1 - 1)
	y1 := float32(g.Y1 - 1)

	rx := floor(*x + xoff)
	q := Quad{
		X0: rx,
		X1: rx + x1 - x0,
		S0: x0 * s.itw,
		T0: y0 * s.ith,
		S1: x1 * s.itw,
		T1: y1 * s.ith,
	}
	if s.origin == OriginTopLeft {
		ry := floor(y + yoff)
		q.Y0 = ry
		q.Y1 = ry + y1 - y0
	} else {
		ry := floor(y - yoff)
		q.Y0 = ry
		q.Y1 = ry - y1 + y0
	}

	*x += float32(int(float32(g.XAdvance)/10 + 0.5))
	return q
}

// vertAlign returns the y offset that moves the baseline for align.
func (s *Stash) vertAlign(f *fontEntry, align Align, isize int) float32 {
	size := float32(isize) / 10
	var dy float32
	switch {
	case align&AlignTop != 0:
		dy = f.ascender * size
	case align&AlignMiddle != 0:
		dy = (f.ascender + f.descender) / 2 * size
	case align&AlignBaseline != 0:
		dy = 0
	case align&AlignBottom != 0:
		dy = f.descender * size
	}
	if s.origin == OriginBottomLeft {
		dy = -dy
	}
	return dy
}

// currentFont returns the font of the current state with its integer size
// and blur.
func (s *Stash) currentFont(st *State) (f *fontEntry, isize, iblur int, ok bool) {
	if st.Font < 0 || st.Font >= len(s.fonts) {
		return nil, 0, 0, false
	}
	return s.fonts[st.Font], int(st.Size * 10), int(st.Blur), true
}

// TextBounds measures str drawn at (x, y) with the current state. It
// returns the advance of the pen and the bounding box of the glyph quads.
func (s *Stash) TextBounds(x, y float32, str string) (advance float32, bounds Bounds) {
	return s.textBounds(s.state(), x, y, str)
}

// TextAdvance measures str in font at size pixels, at the origin and with
// the current alignment and spacing.
func (s *Stash) TextAdvance(font int, size float32, str string) (advance float32, bounds Bounds, err error) {
	if _, err := s.font(font); err != nil {
		return 0, Bounds{}, err
	}
	st := *s.state()
	st.Font = font
	st.Size = size
	advance, bounds = s.textBounds(&st, 0, 0, str)
	return advance, bounds, nil
}

func (s *Stash) textBounds(st *State, x, y float32, str string) (float32, Bounds) {
	f, isize, iblur, ok := s.currentFont(st)
	if !ok {
		return 0, Bounds{}
	}
	scale := f.info.ScaleForEMToPixels(float32(isize) / 10)

	y += s.vertAlign(f, st.Align, isize)

	b := Bounds{MinX: x, MinY: y, MaxX: x, MaxY: y}
	startx := x
	prev := truetype.GlyphIndex(noGlyph)
	for i := 0; ; {
		cp, next, ok := nextRune(str, i)
		if !ok {
			break
		}
		i = next

		g, err := s.glyph(f, cp, isize, iblur, BitmapOptional)
		if err != nil {
			prev = noGlyph
			continue
		}
		q := s.quad(f, prev, g, scale, st.Spacing, &x, y)
		b.MinX = min(b.MinX, q.X0)
		b.MaxX = max(b.MaxX, q.X1)
		if s.origin == OriginTopLeft {
			b.MinY = min(b.MinY, q.Y0)
			b.MaxY = max(b.MaxY, q.Y1)
		} else {
			b.MinY = min(b.MinY, q.Y1)
			b.MaxY = max(b.MaxY, q.Y0)
		}
		prev = g.Index
	}

	advance := x - startx
	switch {
	case st.Align&AlignLeft != 0:
	case st.Align&AlignRight != 0:
		b.MinX -= advance
		b.MaxX -= advance
	case st.Align&AlignCenter != 0:
		b.MinX -= advance / 2
		b.MaxX -= advance / 2
	}
	return advance, b
}

// alignX shifts x for right and centre aligned text.
func (s *Stash) alignX(st *State, x, y float32, str string) float32 {
	switch {
	case st.Align&AlignLeft != 0:
	case st.Align&AlignRight != 0:
		w, _ := s.textBounds(st, x, y, str)
		x -= w
	case st.Align&AlignCenter != 0:
		w, _ := s.textBounds(st, x, y, str)
		x -= w / 2
	}
	return x
}

// VertMetrics returns the ascender, descender and line height of the
// current font at the current size. Descender is negative for fonts that
// extend below the baseline.
func (s *Stash) VertMetrics() (ascender, descender, lineh float32) {
	f, isize, _, ok := s.currentFont(s.state())
	if !ok {
		return 0, 0, 0
	}
	size := float32(isize) / 10
	return f.ascender * size, f.descender * size, f.lineh * size
}

// LineBounds returns the vertical extent of a line of text whose baseline,
// before alignment, is at y.
func (s *Stash) LineBounds(y float32) (miny, maxy float32) {
	st := s.state()
	f, isize, _, ok := s.currentFont(st)
	if !ok {
		return 0, 0
	}
	size := float32(isize) / 10
	y += s.vertAlign(f, st.Align, isize)
	if s.origin == OriginTopLeft {
		miny = y - f.ascender*size
		maxy = miny + f.lineh*size
	} else {
		maxy = y + f.descender*size
		miny = maxy - f.lineh*size
	}
	return miny, maxy
}

// DrawText renders str at (x, y) with the current state and returns the
// pen position after the last glyph. Glyphs that cannot be placed in the
// atlas are skipped. Vertices are handed to the renderer before returning.
func (s *Stash) DrawText(x, y float32, str string) float32 {
	st := s.state()
	f, isize, iblur, ok := s.currentFont(st)
	if !ok {
		return x
	}
	scale := f.info.ScaleForEMToPixels(float32(isize) / 10)

	x = s.alignX(st, x, y, str)
	y += s.vertAlign(f, st.Align, isize)

	prev := truetype.GlyphIndex(noGlyph)
	for i := 0; ; {
		cp, next, ok := nextRune(str, i)
		if !ok {
			break
		}
		i = next

		g, err := s.glyph(f, cp, isize, iblur, BitmapRequired)
		if err != nil {
			prev = noGlyph
			continue
		}
		q := s.quad(f, prev, g, scale, st.Spacing, &x, y)
		prev = g.Index

		if s.nverts+6 > vertexCount {
			s.flush()
		}
		s.quadVertices(q, st.Color)
	}

	s.flush()
	return x
}

func (s *Stash) quadVertices(q Quad, c uint32) {
	s.vertex(q.X0, q.Y0, q.S0, q.T0, c)
	s.vertex(q.X1, q.Y1, q.S1, q.T1, c)
	s.vertex(q.X1, q.Y0, q.S1, q.T0, c)

	s.vertex(q.X0, q.Y0, q.S0, q.T0, c)
	s.vertex(q.X0, q.Y1, q.S0, q.T1, c)
	s.vertex(q.X1, q.Y1, q.S1, q.T1, c)
}

func (s *Stash) vertex(x, y, u, v float32, c uint32) {
	s.verts[s.nverts*2] = x
	s.verts[s.nverts*2+1] = y
	s.tcoords[s.nverts*2] = u
	s.tcoords[s.nverts*2+1] = v
	s.colors[s.nverts] = c
	s.nverts++
}

// flush uploads the dirty texels and draws the buffered vertices.
func (s *Stash) flush() {
	if !s.dirty.Empty() {
		if s.renderer != nil {
			s.renderer.Update(s.dirty, s.tex)
		}
		s.dirty = s.emptyRect()
	}
	if s.nverts > 0 {
		if s.renderer != nil {
			n := s.nverts
			s.renderer.Draw(s.verts[:n*2], s.tcoords[:n*2], s.colors[:n])
		}
		s.nverts = 0
	}
}

// DrawDebug draws the whole atlas texture at (x, y) over a faint
// background, with the skyline marked in red.
func (s *Stash) DrawDebug(x, y float32) {
	w, h := float32(s.width), float32(s.height)
	u, v := 1/w, 1/h

	if s.nverts+6+6 > vertexCount {
		s.flush()
	}

	const background = 0x0fffffff
	s.quadVertices(Quad{X0: x, Y0: y, S0: u, T0: v, X1: x + w, Y1: y + h, S1: u, T1: v}, background)
	s.quadVertices(Quad{X0: x, Y0: y, S0: 0, T0: 0, X1: x + w, Y1: y + h, S1: 1, T1: 1}, 0xffffffff)

	const skyline = 0xc00000ff
	for _, n := range s.atlas.Nodes() {
		if s.nverts+6 > vertexCount {
			s.flush()
		}
		nx, ny, nw := float32(n.X), float32(n.Y), float32(n.Width)
		s.quadVertices(Quad{X0: x + nx, Y0: y + ny, S0: u, T0: v, X1: x + nx + nw, Y1: y + ny + 1, S1: u, T1: v}, skyline)
	}

	s.flush()
}

func floor(v float32) float32 {
	return float32(math.Floor(float64(v)))
}
