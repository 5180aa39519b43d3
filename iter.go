package fontstash

import "github.com/gogpu/fontstash/truetype"

// TextIter walks the glyphs of a string one quad at a time.
//
//	it, err := s.NewTextIter(x, y, "Hello", fontstash.BitmapRequired)
//	for q, ok := it.Next(); ok; q, ok = it.Next() {
//		// draw q
//	}
type TextIter struct {
	// X and Y are the pen position of the current glyph, NextX and NextY
	// the position after it.
	X, Y         float32
	NextX, NextY float32

	// Codepoint is the current codepoint. Start and End are its byte
	// offsets in the string.
	Codepoint  rune
	Start, End int

	s       *Stash
	f       *fontEntry
	str     string
	scale   float32
	spacing float32
	isize   int
	iblur   int
	mode    BitmapMode
	prev    truetype.GlyphIndex
}

// NewTextIter starts iterating str at (x, y) with the current state,
// alignment applied. With BitmapOptional the texture coordinates of the
// quads are not valid.
func (s *Stash) NewTextIter(x, y float32, str string, mode BitmapMode) (*TextIter, error) {
	st := s.state()
	f, isize, iblur, ok := s.currentFont(st)
	if !ok {
		return nil, ErrInvalidFont
	}

	x = s.alignX(st, x, y, str)
	y += s.vertAlign(f, st.Align, isize)

	return &TextIter{
		X:       x,
		Y:       y,
		NextX:   x,
		NextY:   y,
		s:       s,
		f:       f,
		str:     str,
		scale:   f.info.ScaleForEMToPixels(float32(isize) / 10),
		spacing: st.Spacing,
		isize:   isize,
		iblur:   iblur,
		mode:    mode,
		prev:    noGlyph,
	}, nil
}

// Next decodes the next codepoint and returns its quad. ok is false at the
// end of the string. A codepoint whose glyph cannot be produced yields a
// zero quad and does not move the pen.
func (it *TextIter) Next() (q Quad, ok bool) {
	cp, next, ok := nextRune(it.str, it.End)
	if !ok {
		it.Start = it.End
		it.End = next
		return Quad{}, false
	}
	it.Start = it.End
	it.End = next
	it.Codepoint = cp
	it.X = it.NextX
	it.Y = it.NextY

	g, err := it.s.glyph(it.f, cp, it.isize, it.iblur, it.mode)
	if err != nil {
		it.prev = noGlyph
		return Quad{}, true
	}
	q = it.s.quad(it.f, it.prev, g, it.scale, it.spacing, &it.NextX, it.NextY)
	it.prev = g.Index
	return q, true
}
