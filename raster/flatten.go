// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package raster

import (
	"math"

	"github.com/gogpu/fontstash/truetype"
)

// maxSubdivision bounds curve bisection depth (at most 65536 segments per
// curve).
const maxSubdivision = 16

// Point is a 2D point in float32.
type Point struct {
	X, Y float32
}

// Contour is a closed polyline. The closing edge from the last point back
// to the first is implicit.
type Contour []Point

// Flatten converts a vertex stream into polylines, one per MoveTo.
// Curves are bisected until they deviate from their chord by less than
// tolerance, in the units of the vertices.
func Flatten(vertices []truetype.Vertex, tolerance float32) []Contour {
	tol2 := tolerance * tolerance

	var contours []Contour
	var cur Contour
	var x, y float32
	for _, v := range vertices {
		switch v.Op {
		case truetype.MoveTo:
			if cur != nil {
				contours = append(contours, cur)
			}
			x, y = float32(v.X), float32(v.Y)
			cur = Contour{{x, y}}
		case truetype.LineTo:
			x, y = float32(v.X), float32(v.Y)
			cur = append(cur, Point{x, y})
		case truetype.QuadTo:
			cur = flattenQuad(cur, x, y, float32(v.CX), float32(v.CY),
				float32(v.X), float32(v.Y), tol2, 0)
			x, y = float32(v.X), float32(v.Y)
		case truetype.CubicTo:
			cur = flattenCubic(cur, x, y, float32(v.CX), float32(v.CY),
				float32(v.CX1), float32(v.CY1), float32(v.X), float32(v.Y), tol2, 0)
			x, y = float32(v.X), float32(v.Y)
		}
	}
	if cur != nil {
		contours = append(contours, cur)
	}
	return contours
}

// flattenQuad compares the curve midpoint with the chord midpoint and
// bisects while they are further apart than the tolerance.
func flattenQuad(pts Contour, x0, y0, x1, y1, x2, y2, tol2 float32, n int) Contour {
	mx := (x0 + 2*x1 + x2) / 4
	my := (y0 + 2*y1 + y2) / 4
	dx := (x0+x2)/2 - mx
	dy := (y0+y2)/2 - my
	if n > maxSubdivision {
		return pts
	}
	if dx*dx+dy*dy > tol2 {
		pts = flattenQuad(pts, x0, y0, (x0+x1)/2, (y0+y1)/2, mx, my, tol2, n+1)
		return flattenQuad(pts, mx, my, (x1+x2)/2, (y1+y2)/2, x2, y2, tol2, n+1)
	}
	return append(pts, Point{x2, y2})
}

// flattenCubic uses the difference between the control polygon length and
// the chord length as the flatness measure.
func flattenCubic(pts Contour, x0, y0, x1, y1, x2, y2, x3, y3, tol2 float32, n int) Contour {
	longLen := hypot(x1-x0, y1-y0) + hypot(x2-x1, y2-y1) + hypot(x3-x2, y3-y2)
	shortLen := hypot(x3-x0, y3-y0)
	flat2 := longLen*longLen - shortLen*shortLen
	if n > maxSubdivision {
		return pts
	}
	if flat2 > tol2 {
		x01, y01 := (x0+x1)/2, (y0+y1)/2
		x12, y12 := (x1+x2)/2, (y1+y2)/2
		x23, y23 := (x2+x3)/2, (y2+y3)/2
		xa, ya := (x01+x12)/2, (y01+y12)/2
		xb, yb := (x12+x23)/2, (y12+y23)/2
		mx, my := (xa+xb)/2, (ya+yb)/2
		pts = flattenCubic(pts, x0, y0, x01, y01, xa, ya, mx, my, tol2, n+1)
		return flattenCubic(pts, mx, my, xb, yb, x23, y23, x3, y3, tol2, n+1)
	}
	return append(pts, Point{x3, y3})
}

// QuadTangents returns the unit tangents at both ends of the quadratic
// p0 p1 p2. A control point that coincides with an endpoint yields the
// chord direction. A fully degenerate curve yields zero vectors.
func QuadTangents(p0, p1, p2 Point) (start, end Point) {
	chord := sub(p2, p0)
	start = direction(sub(p1, p0), chord)
	end = direction(sub(p2, p1), chord)
	return start, end
}

// CubicTangents is QuadTangents for the cubic p0 p1 p2 p3. When a control
// point coincides with its endpoint the other control point is tried before
// the chord.
func CubicTangents(p0, p1, p2, p3 Point) (start, end Point) {
	chord := sub(p3, p0)
	start = direction(sub(p1, p0), direction(sub(p2, p0), chord))
	end = direction(sub(p3, p2), direction(sub(p3, p1), chord))
	return start, end
}

// direction normalizes d, falling back to the normalized fallback when d
// has zero length.
func direction(d, fallback Point) Point {
	l := hypot(d.X, d.Y)
	if l == 0 {
		d = fallback
		l = hypot(d.X, d.Y)
		if l == 0 {
			return Point{}
		}
	}
	return Point{d.X / l, d.Y / l}
}

func sub(a, b Point) Point { return Point{a.X - b.X, a.Y - b.Y} }

func hypot(x, y float32) float32 {
	return float32(math.Sqrt(float64(x*x + y*y)))
}
