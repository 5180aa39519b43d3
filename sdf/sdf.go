package sdf

import (
	"image"
	"math"

	"github.com/gogpu/fontstash/raster"
	"github.com/gogpu/fontstash/truetype"
)

// cubicFlatness is the tolerance, in pixels, for turning cubic segments into
// lines before measuring.
const cubicFlatness = 0.35

// far is the starting distance before any segment is measured.
const far = 999999

// Field is an 8-bit distance field. XOff and YOff locate its top-left texel
// relative to the glyph origin, with y pointing down.
type Field struct {
	Pix    []byte
	Width  int
	Height int
	XOff   int
	YOff   int
}

// Alpha returns an *image.Alpha sharing the field texels.
func (f *Field) Alpha() *image.Alpha {
	return &image.Alpha{
		Pix:    f.Pix,
		Stride: f.Width,
		Rect:   image.Rect(0, 0, f.Width, f.Height),
	}
}

// At returns the texel at (x, y), or 0 outside the field.
func (f *Field) At(x, y int) uint8 {
	if x < 0 || y < 0 || x >= f.Width || y >= f.Height {
		return 0
	}
	return f.Pix[y*f.Width+x]
}

// Codepoint is Glyph for the glyph mapped to cp.
func Codepoint(f *truetype.Font, cp rune, scale float32, padding int,
	onEdge uint8, pixelDistScale float32) (*Field, error) {
	return Glyph(f, f.FindGlyphIndex(cp), scale, padding, onEdge, pixelDistScale)
}

// Glyph computes the distance field of glyph g at the given scale. The
// field covers the glyph bitmap box grown by padding texels on every side.
// Texels on the outline get onEdge; every pixel of distance moves the value
// by pixelDistScale, up inside the glyph and down outside.
func Glyph(f *truetype.Font, g truetype.GlyphIndex, scale float32, padding int,
	onEdge uint8, pixelDistScale float32) (*Field, error) {
	if scale == 0 {
		return nil, ErrZeroScale
	}
	box := f.BitmapBox(g, scale, scale, 0, 0)
	if box.Dx() <= 0 || box.Dy() <= 0 {
		return nil, ErrEmptyGlyph
	}
	box.Min = box.Min.Sub(image.Pt(padding, padding))
	box.Max = box.Max.Add(image.Pt(padding, padding))

	segs := outline(f.GlyphShape(g), cubicFlatness/float32(math.Abs(float64(scale))))
	// pixel space, y down
	scaled := scaleSegments(segs, scale, -scale)

	w, h := box.Dx(), box.Dy()
	fld := &Field{
		Pix:    make([]byte, w*h),
		Width:  w,
		Height: h,
		XOff:   box.Min.X,
		YOff:   box.Min.Y,
	}
	for y := box.Min.Y; y < box.Max.Y; y++ {
		row := fld.Pix[(y-box.Min.Y)*w:]
		for x := box.Min.X; x < box.Max.X; x++ {
			sx := float32(x) + 0.5
			sy := float32(y) + 0.5

			d := distance(scaled, sx, sy)
			if winding(segs, sx/scale, -sy/scale) == 0 {
				d = -d
			}
			v := float32(onEdge) + pixelDistScale*d
			row[x-box.Min.X] = uint8(min(max(v, 0), 255))
		}
	}
	return fld, nil
}

// segment is one line or quadratic of the outline, from (x0, y0) to
// (x1, y1).
type segment struct {
	quad   bool
	x0, y0 float32
	cx, cy float32
	x1, y1 float32

	// inv is 1/length for lines and 1/|p0 - 2c + p1|² for quadratics; 0
	// when degenerate.
	inv float32
}

// outline converts a vertex stream into segments in font units. Cubics are
// flattened to lines with the given tolerance.
func outline(verts []truetype.Vertex, tolerance float32) []segment {
	segs := make([]segment, 0, len(verts))
	var prev truetype.Vertex
	for _, v := range verts {
		x0, y0 := float32(prev.X), float32(prev.Y)
		x1, y1 := float32(v.X), float32(v.Y)
		switch v.Op {
		case truetype.LineTo:
			segs = append(segs, segment{x0: x0, y0: y0, x1: x1, y1: y1})
		case truetype.QuadTo:
			segs = append(segs, segment{
				quad: true,
				x0:   x0,
				y0:   y0,
				cx:   float32(v.CX),
				cy:   float32(v.CY),
				x1:   x1,
				y1:   y1,
			})
		case truetype.CubicTo:
			c := raster.Flatten([]truetype.Vertex{
				{Op: truetype.MoveTo, X: prev.X, Y: prev.Y},
				v,
			}, tolerance)[0]
			for i := 1; i < len(c); i++ {
				segs = append(segs, segment{x0: c[i-1].X, y0: c[i-1].Y, x1: c[i].X, y1: c[i].Y})
			}
		}
		prev = v
	}
	return segs
}

func scaleSegments(segs []segment, sx, sy float32) []segment {
	out := make([]segment, len(segs))
	for i, s := range segs {
		t := segment{
			quad: s.quad,
			x0:   s.x0 * sx,
			y0:   s.y0 * sy,
			cx:   s.cx * sx,
			cy:   s.cy * sy,
			x1:   s.x1 * sx,
			y1:   s.y1 * sy,
		}
		if t.quad {
			bx := t.x0 - 2*t.cx + t.x1
			by := t.y0 - 2*t.cy + t.y1
			if l2 := bx*bx + by*by; l2 != 0 {
				t.inv = 1 / l2
			}
		} else if l := hypot(t.x1-t.x0, t.y1-t.y0); l != 0 {
			t.inv = 1 / l
		}
		out[i] = t
	}
	return out
}

// winding counts signed crossings of the outline with a ray from
// (-inf, y) to (x, y). Coordinates are font units.
func winding(segs []segment, x, y float32) int {
	// keep the ray off integer coordinates, where outline vertices sit
	frac := float32(math.Mod(float64(y), 1))
	if frac < 0.01 {
		y += 0.01
	} else if frac > 0.99 {
		y -= 0.01
	}

	n := 0
	for i := range segs {
		s := &segs[i]
		if s.quad && !(s.x0 == s.cx && s.y0 == s.cy) && !(s.cx == s.x1 && s.cy == s.y1) {
			if y > min(s.y0, s.cy, s.y1) && y < max(s.y0, s.cy, s.y1) && x > min(s.x0, s.cx, s.x1) {
				n += quadCrossings(s, x, y)
			}
			continue
		}
		if y > min(s.y0, s.y1) && y < max(s.y0, s.y1) && x > min(s.x0, s.x1) {
			xi := (y-s.y0)/(s.y1-s.y0)*(s.x1-s.x0) + s.x0
			if xi < x {
				if s.y0 < s.y1 {
					n++
				} else {
					n--
				}
			}
		}
	}
	return n
}

// quadCrossings intersects the horizontal line through (x, y) with the
// quadratic and counts the hits left of x, signed by the curve's vertical
// direction.
func quadCrossings(s *segment, x, y float32) int {
	a := s.y0 - 2*s.cy + s.y1
	b := s.cy - s.y0
	c := s.y0 - y

	var ts [2]float32
	n := 0
	if a != 0 {
		discr := b*b - a*c
		if discr > 0 {
			rcpna := -1 / a
			d := float32(math.Sqrt(float64(discr)))
			t0 := (b + d) * rcpna
			t1 := (b - d) * rcpna
			if t0 >= 0 && t0 <= 1 {
				ts[n] = t0
				n++
			}
			if d > 0 && t1 >= 0 && t1 <= 1 {
				ts[n] = t1
				n++
			}
		}
	} else {
		t := c / (-2 * b)
		if t >= 0 && t <= 1 {
			ts[n] = t
			n++
		}
	}

	w := 0
	for _, t := range ts[:n] {
		hx := s.x0 - x + t*(2-2*t)*(s.cx-s.x0) + t*t*(s.x1-s.x0)
		if hx >= 0 {
			continue
		}
		if a*t+b < 0 {
			w--
		} else {
			w++
		}
	}
	return w
}

// distance returns the unsigned distance from (sx, sy) to the nearest
// segment. Coordinates are pixels.
func distance(segs []segment, sx, sy float32) float32 {
	minDist := float32(far)
	for i := range segs {
		s := &segs[i]
		// measure from the segment end, like the outline walk
		x0, y0 := s.x1, s.y1
		if !s.quad {
			if s.inv == 0 {
				continue
			}
			if d2 := sq(x0-sx) + sq(y0-sy); d2 < minDist*minDist {
				minDist = sqrt(d2)
			}
			dx, dy := s.x0-x0, s.y0-y0
			dist := abs(dx*(y0-sy)-dy*(x0-sx)) * s.inv
			if dist < minDist {
				px, py := x0-sx, y0-sy
				t := -(px*dx + py*dy) / (dx*dx + dy*dy)
				if t >= 0 && t <= 1 {
					minDist = dist
				}
			}
			continue
		}

		x1, y1 := s.cx, s.cy
		x2, y2 := s.x0, s.y0
		if sx <= min(x0, x1, x2)-minDist || sx >= max(x0, x1, x2)+minDist ||
			sy <= min(y0, y1, y2)-minDist || sy >= max(y0, y1, y2)+minDist {
			continue
		}

		ax, ay := x1-x0, y1-y0
		bx, by := x0-2*x1+x2, y0-2*y1+y2
		mx, my := x0-sx, y0-sy

		var res [3]float32
		num := 0
		if s.inv == 0 {
			a := 3 * (ax*bx + ay*by)
			b := 2*(ax*ax+ay*ay) + (mx*bx + my*by)
			c := mx*ax + my*ay
			if a == 0 {
				if b != 0 {
					res[0] = -c / b
					num = 1
				}
			} else if disc := b*b - 4*a*c; disc >= 0 {
				root := sqrt(disc)
				res[0] = (-b - root) / (2 * a)
				res[1] = (-b + root) / (2 * a)
				num = 2
			}
		} else {
			b := 3 * (ax*bx + ay*by) * s.inv
			c := (2*(ax*ax+ay*ay) + (mx*bx + my*by)) * s.inv
			d := (mx*ax + my*ay) * s.inv
			res, num = solveCubic(b, c, d)
		}

		if d2 := sq(x0-sx) + sq(y0-sy); d2 < minDist*minDist {
			minDist = sqrt(d2)
		}
		for _, t := range res[:num] {
			if t < 0 || t > 1 {
				continue
			}
			it := 1 - t
			px := it*it*x0 + 2*t*it*x1 + t*t*x2
			py := it*it*y0 + 2*t*it*y1 + t*t*y2
			if d2 := sq(px-sx) + sq(py-sy); d2 < minDist*minDist {
				minDist = sqrt(d2)
			}
		}
	}
	return minDist
}

// solveCubic returns the real roots of x³ + a·x² + b·x + c. With a positive
// discriminant only one root is reported.
func solveCubic(a, b, c float32) ([3]float32, int) {
	fa, fb, fc := float64(a), float64(b), float64(c)
	s := -fa / 3
	p := fb - fa*fa/3
	q := fa*(2*fa*fa-9*fb)/27 + fc
	p3 := p * p * p
	d := q*q + 4*p3/27

	var r [3]float32
	if d >= 0 {
		z := math.Sqrt(d)
		u := math.Cbrt((-q + z) / 2)
		v := math.Cbrt((-q - z) / 2)
		r[0] = float32(s + u + v)
		return r, 1
	}

	// three real roots; p3 < 0 here
	u := math.Sqrt(-p / 3)
	k := -math.Sqrt(-27/p3) * q / 2
	v := math.Acos(max(-1, min(1, k))) / 3
	m := math.Cos(v)
	n := math.Sin(v) * math.Sqrt(3)
	r[0] = float32(s + 2*u*m)
	r[1] = float32(s - u*(m+n))
	r[2] = float32(s - u*(m-n))
	return r, 3
}

func sq(v float32) float32 { return v * v }

func sqrt(v float32) float32 { return float32(math.Sqrt(float64(v))) }

func abs(v float32) float32 { return float32(math.Abs(float64(v))) }

func hypot(x, y float32) float32 { return sqrt(x*x + y*y) }
