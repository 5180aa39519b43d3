package truetype

import (
	"math"

	"github.com/gogpu/fontstash/internal/cursor"
)

// maxCompositeDepth bounds composite glyph recursion.
const maxCompositeDepth = 16

// Simple glyph point flags.
const (
	flagOnCurve = 1 << iota
	flagXShort
	flagYShort
	flagRepeat
	flagXSame
	flagYSame
)

// Composite glyph component flags.
const (
	compArgWords = 1 << 0
	compArgsXY   = 1 << 1
	compScale    = 1 << 3
	compMore     = 1 << 5
	compXYScale  = 1 << 6
	compTwoByTwo = 1 << 7
)

type glyfPoint struct {
	x, y  int16
	flags uint8
}

func (f *Font) glyfShape(g GlyphIndex, depth int) []Vertex {
	if depth > maxCompositeDepth {
		return nil
	}
	off := f.glyfOffset(g)
	if off < 0 {
		return nil
	}
	numContours := int(f.i16(off))
	switch {
	case numContours > 0:
		return f.simpleShape(off, numContours)
	case numContours < 0:
		return f.compositeShape(off, depth)
	}
	return nil
}

func (f *Font) simpleShape(off, numContours int) []Vertex {
	endPts := off + 10
	insLen := int(f.u16(endPts + numContours*2))
	n := 1 + int(f.u16(endPts+numContours*2-2))

	c := cursor.New(f.data)
	c.Seek(endPts + numContours*2 + 2 + insLen)

	pts := make([]glyfPoint, n)
	var flags, repeat uint8
	for i := range pts {
		if repeat == 0 {
			flags = c.Read8()
			if flags&flagRepeat != 0 {
				repeat = c.Read8()
			}
		} else {
			repeat--
		}
		pts[i].flags = flags
	}

	var x int32
	for i := range pts {
		fl := pts[i].flags
		if fl&flagXShort != 0 {
			dx := int32(c.Read8())
			if fl&flagXSame != 0 {
				x += dx
			} else {
				x -= dx
			}
		} else if fl&flagXSame == 0 {
			x += int32(int16(c.Read16()))
		}
		pts[i].x = int16(x)
	}

	var y int32
	for i := range pts {
		fl := pts[i].flags
		if fl&flagYShort != 0 {
			dy := int32(c.Read8())
			if fl&flagYSame != 0 {
				y += dy
			} else {
				y -= dy
			}
		} else if fl&flagYSame == 0 {
			y += int32(int16(c.Read16()))
		}
		pts[i].y = int16(y)
	}

	return contoursToVertices(pts, func(j int) int {
		return int(f.u16(endPts + j*2))
	}, numContours)
}

// contoursToVertices turns on/off-curve points into MoveTo, LineTo and QuadTo
// commands. Two consecutive off-curve points imply an on-curve point at
// their midpoint. A contour that starts off-curve begins at the next
// on-curve point, or at the implied midpoint.
func contoursToVertices(pts []glyfPoint, endPt func(j int) int, numContours int) []Vertex {
	verts := make([]Vertex, 0, len(pts)+2*numContours)

	var sx, sy, cx, cy, scx, scy int32
	var wasOff, startOff bool
	nextMove, j := 0, 0

	for i := 0; i < len(pts); i++ {
		p := pts[i]
		x, y := int32(p.x), int32(p.y)

		switch {
		case nextMove == i:
			if i != 0 {
				verts = closeShape(verts, wasOff, startOff, sx, sy, scx, scy, cx, cy)
			}
			startOff = p.flags&flagOnCurve == 0
			if startOff {
				scx, scy = x, y
				switch {
				case i+1 >= len(pts):
					sx, sy = x, y
				case pts[i+1].flags&flagOnCurve == 0:
					sx = (x + int32(pts[i+1].x)) >> 1
					sy = (y + int32(pts[i+1].y)) >> 1
				default:
					sx, sy = int32(pts[i+1].x), int32(pts[i+1].y)
					i++
				}
			} else {
				sx, sy = x, y
			}
			verts = append(verts, Vertex{Op: MoveTo, X: int16(sx), Y: int16(sy)})
			wasOff = false
			nextMove = 1 + endPt(j)
			j++

		case p.flags&flagOnCurve == 0:
			if wasOff {
				verts = append(verts, Vertex{
					Op: QuadTo,
					X:  int16((cx + x) >> 1), Y: int16((cy + y) >> 1),
					CX: int16(cx), CY: int16(cy),
				})
			}
			cx, cy = x, y
			wasOff = true

		default:
			if wasOff {
				verts = append(verts, Vertex{
					Op: QuadTo,
					X:  int16(x), Y: int16(y),
					CX: int16(cx), CY: int16(cy),
				})
			} else {
				verts = append(verts, Vertex{Op: LineTo, X: int16(x), Y: int16(y)})
			}
			wasOff = false
		}
	}
	return closeShape(verts, wasOff, startOff, sx, sy, scx, scy, cx, cy)
}

func closeShape(verts []Vertex, wasOff, startOff bool, sx, sy, scx, scy, cx, cy int32) []Vertex {
	if startOff {
		if wasOff {
			verts = append(verts, Vertex{
				Op: QuadTo,
				X:  int16((cx + scx) >> 1), Y: int16((cy + scy) >> 1),
				CX: int16(cx), CY: int16(cy),
			})
		}
		return append(verts, Vertex{
			Op: QuadTo,
			X:  int16(sx), Y: int16(sy),
			CX: int16(scx), CY: int16(scy),
		})
	}
	if wasOff {
		return append(verts, Vertex{
			Op: QuadTo,
			X:  int16(sx), Y: int16(sy),
			CX: int16(cx), CY: int16(cy),
		})
	}
	return append(verts, Vertex{Op: LineTo, X: int16(sx), Y: int16(sy)})
}

// compositeShape assembles a glyph from transformed component glyphs.
func (f *Font) compositeShape(off, depth int) []Vertex {
	c := cursor.New(f.data)
	c.Seek(off + 10)

	var verts []Vertex
	for more := true; more; {
		flags := c.Read16()
		gi := GlyphIndex(c.Read16())

		// a b c d e f of the affine transform x' = a*x + c*y + e
		mtx := [6]float32{1, 0, 0, 1, 0, 0}
		if flags&compArgsXY != 0 {
			if flags&compArgWords != 0 {
				mtx[4] = float32(int16(c.Read16()))
				mtx[5] = float32(int16(c.Read16()))
			} else {
				mtx[4] = float32(int8(c.Read8()))
				mtx[5] = float32(int8(c.Read8()))
			}
		} else {
			// Point matching is not supported; the component is
			// placed at the origin.
			if flags&compArgWords != 0 {
				c.Skip(4)
			} else {
				c.Skip(2)
			}
		}

		switch {
		case flags&compScale != 0:
			s := f2dot14(c.Read16())
			mtx[0], mtx[3] = s, s
		case flags&compXYScale != 0:
			mtx[0] = f2dot14(c.Read16())
			mtx[3] = f2dot14(c.Read16())
		case flags&compTwoByTwo != 0:
			mtx[0] = f2dot14(c.Read16())
			mtx[1] = f2dot14(c.Read16())
			mtx[2] = f2dot14(c.Read16())
			mtx[3] = f2dot14(c.Read16())
		}

		m := float32(math.Sqrt(float64(mtx[0]*mtx[0] + mtx[1]*mtx[1])))
		n := float32(math.Sqrt(float64(mtx[2]*mtx[2] + mtx[3]*mtx[3])))

		for _, v := range f.glyfShape(gi, depth+1) {
			v.X, v.Y = transform(&mtx, m, n, v.X, v.Y)
			v.CX, v.CY = transform(&mtx, m, n, v.CX, v.CY)
			verts = append(verts, v)
		}
		more = flags&compMore != 0
	}
	return verts
}

func transform(mtx *[6]float32, m, n float32, x, y int16) (int16, int16) {
	fx, fy := float32(x), float32(y)
	return int16(m * (mtx[0]*fx + mtx[2]*fy + mtx[4])),
		int16(n * (mtx[1]*fx + mtx[3]*fy + mtx[5]))
}

func f2dot14(v uint16) float32 {
	return float32(int16(v)) / 16384
}
