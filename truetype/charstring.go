package truetype

import (
	"github.com/gogpu/fontstash/internal/cursor"
)

const (
	csStackSize  = 48
	csSubrsDepth = 10
)

// csContext collects the output of a Type 2 charstring run. In bounds mode
// only the extent and vertex count are tracked.
type csContext struct {
	bounds  bool
	started bool

	firstX, firstY float32
	x, y           float32

	minX, maxX, minY, maxY int32
	numVertices            int

	verts []Vertex
}

func (c *csContext) track(x, y int32) {
	if x > c.maxX || !c.started {
		c.maxX = x
	}
	if y > c.maxY || !c.started {
		c.maxY = y
	}
	if x < c.minX || !c.started {
		c.minX = x
	}
	if y < c.minY || !c.started {
		c.minY = y
	}
	c.started = true
}

func (c *csContext) vertex(op VertexOp, x, y, cx, cy, cx1, cy1 int32) {
	if c.bounds {
		c.track(x, y)
		if op == CubicTo {
			c.track(cx, cy)
			c.track(cx1, cy1)
		}
	} else {
		c.verts = append(c.verts, Vertex{
			Op: op,
			X:  int16(x), Y: int16(y),
			CX: int16(cx), CY: int16(cy),
			CX1: int16(cx1), CY1: int16(cy1),
		})
	}
	c.numVertices++
}

func (c *csContext) closeShape() {
	if c.firstX != c.x || c.firstY != c.y {
		c.vertex(LineTo, int32(c.firstX), int32(c.firstY), 0, 0, 0, 0)
	}
}

func (c *csContext) moveTo(dx, dy float32) {
	c.closeShape()
	c.x += dx
	c.y += dy
	c.firstX, c.firstY = c.x, c.y
	c.vertex(MoveTo, int32(c.x), int32(c.y), 0, 0, 0, 0)
}

func (c *csContext) lineTo(dx, dy float32) {
	c.x += dx
	c.y += dy
	c.vertex(LineTo, int32(c.x), int32(c.y), 0, 0, 0, 0)
}

func (c *csContext) curveTo(dx1, dy1, dx2, dy2, dx3, dy3 float32) {
	cx1 := c.x + dx1
	cy1 := c.y + dy1
	cx2 := cx1 + dx2
	cy2 := cy1 + dy2
	c.x = cx2 + dx3
	c.y = cy2 + dy3
	c.vertex(CubicTo, int32(c.x), int32(c.y), int32(cx1), int32(cy1), int32(cx2), int32(cy2))
}

func (f *Font) charstringShape(g GlyphIndex) []Vertex {
	ctx := csContext{}
	if !f.runCharstring(g, &ctx) {
		return nil
	}
	return ctx.verts
}

func (f *Font) charstringBounds(g GlyphIndex) (x0, y0, x1, y1, n int) {
	ctx := csContext{bounds: true}
	if !f.runCharstring(g, &ctx) {
		return 0, 0, 0, 0, 0
	}
	return int(ctx.minX), int(ctx.minY), int(ctx.maxX), int(ctx.maxY), ctx.numVertices
}

// cidGlyphSubrs returns the local subroutines of the font DICT that
// FDSelect assigns to g.
func (f *Font) cidGlyphSubrs(g GlyphIndex) cursor.Cursor {
	sel := f.fdSelect
	sel.Seek(0)
	fdIndex := -1
	switch sel.Read8() {
	case 0:
		sel.Skip(int(g))
		fdIndex = int(sel.Read8())
	case 3:
		nRanges := int(sel.Read16())
		start := GlyphIndex(sel.Read16())
		for i := 0; i < nRanges; i++ {
			v := int(sel.Read8())
			end := GlyphIndex(sel.Read16())
			if g >= start && g < end {
				fdIndex = v
				break
			}
			start = end
		}
	}
	if fdIndex < 0 {
		return cursor.Cursor{}
	}
	return getSubrs(f.cff, f.fontDicts.IndexGet(fdIndex))
}

// subr returns subroutine n of idx after applying the Type 2 bias.
func subr(idx cursor.Cursor, n int) cursor.Cursor {
	count := idx.IndexCount()
	bias := 107
	switch {
	case count >= 33900:
		bias = 32768
	case count >= 1240:
		bias = 1131
	}
	n += bias
	if n < 0 || n >= count {
		return cursor.Cursor{}
	}
	return idx.IndexGet(n)
}

// runCharstring interprets the Type 2 charstring of g. It reports false on
// any malformed input, in which case the context content is meaningless.
func (f *Font) runCharstring(g GlyphIndex, c *csContext) bool {
	var (
		inHeader   = true
		maskBits   int
		subrDepth  int
		stack      [csStackSize]float32
		sp         int
		subrStack  [csSubrsDepth]cursor.Cursor
		subrs      = f.subrs
		hasSubrs   bool
		clearStack bool
	)

	b := f.charStrings.IndexGet(int(g))
	for b.Remaining() {
		i := 0
		clearStack = true
		b0 := int(b.Read8())

		switch b0 {
		case 0x13, 0x14: // hintmask, cntrmask
			if inHeader {
				maskBits += sp / 2 // implicit vstem
			}
			inHeader = false
			b.Skip((maskBits + 7) / 8)

		case 0x01, 0x03, 0x12, 0x17: // hstem, vstem, hstemhm, vstemhm
			maskBits += sp / 2

		case 0x15: // rmoveto
			inHeader = false
			if sp < 2 {
				return false
			}
			c.moveTo(stack[sp-2], stack[sp-1])

		case 0x04: // vmoveto
			inHeader = false
			if sp < 1 {
				return false
			}
			c.moveTo(0, stack[sp-1])

		case 0x16: // hmoveto
			inHeader = false
			if sp < 1 {
				return false
			}
			c.moveTo(stack[sp-1], 0)

		case 0x05: // rlineto
			if sp < 2 {
				return false
			}
			for ; i+1 < sp; i += 2 {
				c.lineTo(stack[i], stack[i+1])
			}

		case 0x06, 0x07: // hlineto, vlineto alternate axes
			if sp < 1 {
				return false
			}
			horizontal := b0 == 0x06
			for ; i < sp; i++ {
				if horizontal {
					c.lineTo(stack[i], 0)
				} else {
					c.lineTo(0, stack[i])
				}
				horizontal = !horizontal
			}

		case 0x1E, 0x1F: // vhcurveto, hvcurveto alternate start tangents
			if sp < 4 {
				return false
			}
			vertical := b0 == 0x1E
			for ; i+3 < sp; i += 4 {
				var last float32
				if sp-i == 5 {
					last = stack[i+4]
				}
				if vertical {
					c.curveTo(0, stack[i], stack[i+1], stack[i+2], stack[i+3], last)
				} else {
					c.curveTo(stack[i], 0, stack[i+1], stack[i+2], last, stack[i+3])
				}
				vertical = !vertical
			}

		case 0x08: // rrcurveto
			if sp < 6 {
				return false
			}
			for ; i+5 < sp; i += 6 {
				c.curveTo(stack[i], stack[i+1], stack[i+2], stack[i+3], stack[i+4], stack[i+5])
			}

		case 0x18: // rcurveline
			if sp < 8 {
				return false
			}
			for ; i+5 < sp-2; i += 6 {
				c.curveTo(stack[i], stack[i+1], stack[i+2], stack[i+3], stack[i+4], stack[i+5])
			}
			if i+1 >= sp {
				return false
			}
			c.lineTo(stack[i], stack[i+1])

		case 0x19: // rlinecurve
			if sp < 8 {
				return false
			}
			for ; i+1 < sp-6; i += 2 {
				c.lineTo(stack[i], stack[i+1])
			}
			if i+5 >= sp {
				return false
			}
			c.curveTo(stack[i], stack[i+1], stack[i+2], stack[i+3], stack[i+4], stack[i+5])

		case 0x1A, 0x1B: // vvcurveto, hhcurveto
			if sp < 4 {
				return false
			}
			var d float32
			if sp&1 != 0 {
				d = stack[i]
				i++
			}
			for ; i+3 < sp; i += 4 {
				if b0 == 0x1B {
					c.curveTo(stack[i], d, stack[i+1], stack[i+2], stack[i+3], 0)
				} else {
					c.curveTo(d, stack[i], stack[i+1], stack[i+2], 0, stack[i+3])
				}
				d = 0
			}

		case 0x0A, 0x1D: // callsubr, callgsubr
			if b0 == 0x0A && !hasSubrs {
				if f.fdSelect.Len() > 0 {
					subrs = f.cidGlyphSubrs(g)
				}
				hasSubrs = true
			}
			if sp < 1 {
				return false
			}
			sp--
			v := int(stack[sp])
			if subrDepth >= csSubrsDepth {
				return false
			}
			subrStack[subrDepth] = b
			subrDepth++
			if b0 == 0x0A {
				b = subr(subrs, v)
			} else {
				b = subr(f.gsubrs, v)
			}
			if b.Len() == 0 {
				return false
			}
			clearStack = false

		case 0x0B: // return
			if subrDepth <= 0 {
				return false
			}
			subrDepth--
			b = subrStack[subrDepth]
			clearStack = false

		case 0x0E: // endchar
			c.closeShape()
			return true

		case 0x0C: // two-byte escape
			if !flex(&b, c, stack[:sp]) {
				return false
			}

		default:
			if b0 != 255 && b0 != 28 && b0 < 32 {
				return false // reserved operator
			}
			var v float32
			if b0 == 255 {
				v = float32(int32(b.Read32())) / 0x10000
			} else {
				b.Skip(-1)
				v = float32(int16(b.ReadInt()))
			}
			if sp >= csStackSize {
				return false
			}
			stack[sp] = v
			sp++
			clearStack = false
		}

		if clearStack {
			sp = 0
		}
	}
	return false // no endchar
}

// flex handles the escaped flex operators. Their final depth argument is
// ignored and the curves are always drawn.
func flex(b *cursor.Cursor, c *csContext, s []float32) bool {
	var dx1, dx2, dx3, dx4, dx5, dx6, dy1, dy2, dy3, dy4, dy5, dy6 float32

	switch b.Read8() {
	case 0x22: // hflex
		if len(s) < 7 {
			return false
		}
		dx1, dx2, dy2, dx3 = s[0], s[1], s[2], s[3]
		dx4, dx5, dx6 = s[4], s[5], s[6]
		c.curveTo(dx1, 0, dx2, dy2, dx3, 0)
		c.curveTo(dx4, 0, dx5, -dy2, dx6, 0)

	case 0x23: // flex
		if len(s) < 13 {
			return false
		}
		dx1, dy1, dx2, dy2, dx3, dy3 = s[0], s[1], s[2], s[3], s[4], s[5]
		dx4, dy4, dx5, dy5, dx6, dy6 = s[6], s[7], s[8], s[9], s[10], s[11]
		c.curveTo(dx1, dy1, dx2, dy2, dx3, dy3)
		c.curveTo(dx4, dy4, dx5, dy5, dx6, dy6)

	case 0x24: // hflex1
		if len(s) < 9 {
			return false
		}
		dx1, dy1, dx2, dy2, dx3 = s[0], s[1], s[2], s[3], s[4]
		dx4, dx5, dy5, dx6 = s[5], s[6], s[7], s[8]
		c.curveTo(dx1, dy1, dx2, dy2, dx3, 0)
		c.curveTo(dx4, 0, dx5, dy5, dx6, -(dy1 + dy2 + dy5))

	case 0x25: // flex1
		if len(s) < 11 {
			return false
		}
		dx1, dy1, dx2, dy2, dx3, dy3 = s[0], s[1], s[2], s[3], s[4], s[5]
		dx4, dy4, dx5, dy5 = s[6], s[7], s[8], s[9]
		dx6, dy6 = s[10], s[10]
		dx := dx1 + dx2 + dx3 + dx4 + dx5
		dy := dy1 + dy2 + dy3 + dy4 + dy5
		if abs32(dx) > abs32(dy) {
			dy6 = -dy
		} else {
			dx6 = -dx
		}
		c.curveTo(dx1, dy1, dx2, dy2, dx3, dy3)
		c.curveTo(dx4, dy4, dx5, dy5, dx6, dy6)

	default:
		return false
	}
	return true
}

func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
