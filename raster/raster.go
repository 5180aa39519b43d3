// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package raster

import (
	"image"
	"math"

	"github.com/gogpu/fontstash/truetype"
)

// Bitmap is an 8-bit coverage buffer. Row y starts at Pix[y*Stride].
type Bitmap struct {
	W, H   int
	Stride int
	Pix    []byte
}

// NewBitmap allocates a zeroed w×h bitmap with a stride of w.
func NewBitmap(w, h int) *Bitmap {
	return &Bitmap{W: w, H: h, Stride: w, Pix: make([]byte, w*h)}
}

// Alpha returns an *image.Alpha sharing the bitmap pixels.
func (b *Bitmap) Alpha() *image.Alpha {
	return &image.Alpha{
		Pix:    b.Pix,
		Stride: b.Stride,
		Rect:   image.Rect(0, 0, b.W, b.H),
	}
}

// Rasterize flattens vertices with the given flatness in pixels and fills
// dst with non-zero winding coverage. Vertices are mapped to bitmap space
// by (x*sx + shx, ±y*sy + shy) and the bitmap origin sits at (offX, offY)
// in that space. invert flips y, as needed for y-up font outlines.
func Rasterize(dst *Bitmap, flatness float32, vertices []truetype.Vertex,
	sx, sy, shx, shy float32, offX, offY int, invert bool) {
	scale := min(sx, sy)
	if scale <= 0 {
		return
	}
	contours := Flatten(vertices, flatness/scale)
	RasterizeContours(dst, contours, sx, sy, shx, shy, offX, offY, invert)
}

// RasterizeContours fills dst from already flattened contours.
func RasterizeContours(dst *Bitmap, contours []Contour,
	sx, sy, shx, shy float32, offX, offY int, invert bool) {
	if dst.W <= 0 || dst.H <= 0 || len(contours) == 0 {
		return
	}
	edges := buildEdges(contours, sx, sy, shx, shy, invert)
	fillEdges(dst, edges, offX, offY)
}

// fillEdges sweeps the sorted edges one scanline at a time. Each active
// edge adds its exact signed area to the pixels it crosses; the area to the
// right of an edge goes to a running fill buffer.
func fillEdges(dst *Bitmap, edges []Edge, offX, offY int) {
	w := dst.W
	scanline := make([]float32, w)
	fill := make([]float32, w+1)

	var active []activeEdge
	next := 0
	y := float32(offY)

	for j := 0; j < dst.H; j++ {
		top := y
		bottom := y + 1

		clear(scanline)
		clear(fill)

		kept := active[:0]
		for _, e := range active {
			if e.ey > top {
				kept = append(kept, e)
			}
		}
		active = kept

		for next < len(edges) && edges[next].Y0 <= bottom {
			e := &edges[next]
			next++
			if e.Y0 == e.Y1 {
				continue
			}
			z := newActiveEdge(e, offX, top)
			if j == 0 && offY != 0 && z.ey < top {
				z.ey = top
			}
			active = append(active, z)
		}

		for i := range active {
			fillActiveEdge(scanline, fill, &active[i], top)
		}

		var sum float32
		row := dst.Pix[j*dst.Stride:]
		for i := 0; i < w; i++ {
			sum += fill[i]
			k := abs(scanline[i]+sum)*255 + 0.5
			row[i] = uint8(min(int(k), 255))
		}

		for i := range active {
			active[i].fx += active[i].fdx
		}
		y++
	}
}

// fillActiveEdge accumulates the coverage of one edge on the scanline
// starting at yTop. fill is indexed one pixel to the left of scanline:
// fill[x+1] affects every pixel right of x.
func fillActiveEdge(scanline, fill []float32, e *activeEdge, yTop float32) {
	yBottom := yTop + 1
	w := len(scanline)

	if e.fdx == 0 {
		x0 := e.fx
		if x0 < float32(w) {
			if x0 >= 0 {
				clippedEdge(scanline, int(x0), e, x0, yTop, x0, yBottom)
				clippedEdge(fill, int(x0)+1, e, x0, yTop, x0, yBottom)
			} else {
				clippedEdge(fill, 0, e, x0, yTop, x0, yBottom)
			}
		}
		return
	}

	x0 := e.fx
	dx := e.fdx
	xb := x0 + dx
	dy := e.fdy

	// clip the segment to this scanline
	var xTop, xBottom, sy0, sy1 float32
	if e.sy > yTop {
		xTop = x0 + dx*(e.sy-yTop)
		sy0 = e.sy
	} else {
		xTop = x0
		sy0 = yTop
	}
	if e.ey < yBottom {
		xBottom = x0 + dx*(e.ey-yTop)
		sy1 = e.ey
	} else {
		xBottom = xb
		sy1 = yBottom
	}

	fw := float32(w)
	if xTop < 0 || xBottom < 0 || xTop >= fw || xBottom >= fw {
		fillClipped(scanline, e, x0, xb, dx, yTop, yBottom)
		return
	}

	if int(xTop) == int(xBottom) {
		// the edge stays within one pixel
		x := int(xTop)
		height := (sy1 - sy0) * e.direction
		scanline[x] += trapezoidArea(height, xTop, float32(x)+1, xBottom, float32(x)+1)
		fill[x+1] += height
		return
	}

	if xTop > xBottom {
		// flip vertically so the edge runs down-right; the signed area
		// is unchanged
		sy0 = yBottom - (sy0 - yTop)
		sy1 = yBottom - (sy1 - yTop)
		sy0, sy1 = sy1, sy0
		xTop, xBottom = xBottom, xTop
		dy = -dy
		x0 = xb
	}

	x1 := int(xTop)
	x2 := int(xBottom)
	yCrossing := yTop + dy*(float32(x1+1)-x0)
	yFinal := yTop + dy*(float32(x2)-x0)

	if yCrossing > yBottom {
		yCrossing = yBottom
	}

	sign := e.direction
	area := sign * (yCrossing - sy0)
	// triangle from (xTop, sy0) to (x1+1, sy0) to (x1+1, yCrossing)
	scanline[x1] += triangleArea(area, float32(x1+1)-xTop)

	if yFinal > yBottom {
		denom := x2 - (x1 + 1)
		yFinal = yBottom
		if denom != 0 {
			dy = (yFinal - yCrossing) / float32(denom)
		}
	}

	// each whole pixel in between gains a rectangle from the pixels to its
	// left plus its own sliding trapezoid
	step := sign * dy
	for x := x1 + 1; x < x2; x++ {
		scanline[x] += area + step/2
		area += step
	}

	scanline[x2] += area + sign*trapezoidArea(sy1-yFinal, float32(x2), float32(x2)+1, xBottom, float32(x2)+1)
	fill[x2+1] += sign * (sy1 - sy0)
}

// fillClipped handles an edge that leaves the bitmap horizontally by
// splitting it at every pixel boundary it crosses.
func fillClipped(scanline []float32, e *activeEdge, x0, x3, dx, yTop, yBottom float32) {
	for x := 0; x < len(scanline); x++ {
		y0 := yTop
		x1 := float32(x)
		x2 := float32(x + 1)
		y3 := yBottom

		y1 := (float32(x)-x0)/dx + yTop
		y2 := (float32(x+1)-x0)/dx + yTop

		switch {
		case x0 < x1 && x3 > x2: // three segments down-right
			clippedEdge(scanline, x, e, x0, y0, x1, y1)
			clippedEdge(scanline, x, e, x1, y1, x2, y2)
			clippedEdge(scanline, x, e, x2, y2, x3, y3)
		case x3 < x1 && x0 > x2: // three segments down-left
			clippedEdge(scanline, x, e, x0, y0, x2, y2)
			clippedEdge(scanline, x, e, x2, y2, x1, y1)
			clippedEdge(scanline, x, e, x1, y1, x3, y3)
		case x0 < x1 && x3 > x1: // across x, down-right
			clippedEdge(scanline, x, e, x0, y0, x1, y1)
			clippedEdge(scanline, x, e, x1, y1, x3, y3)
		case x3 < x1 && x0 > x1: // across x, down-left
			clippedEdge(scanline, x, e, x0, y0, x1, y1)
			clippedEdge(scanline, x, e, x1, y1, x3, y3)
		case x0 < x2 && x3 > x2: // across x+1, down-right
			clippedEdge(scanline, x, e, x0, y0, x2, y2)
			clippedEdge(scanline, x, e, x2, y2, x3, y3)
		case x3 < x2 && x0 > x2: // across x+1, down-left
			clippedEdge(scanline, x, e, x0, y0, x2, y2)
			clippedEdge(scanline, x, e, x2, y2, x3, y3)
		default:
			clippedEdge(scanline, x, e, x0, y0, x3, y3)
		}
	}
}

// clippedEdge adds the coverage of the sub-segment (x0,y0)-(x1,y1) of e to
// pixel x, after clipping it to the vertical extent of e.
func clippedEdge(buf []float32, x int, e *activeEdge, x0, y0, x1, y1 float32) {
	if y0 == y1 || y0 > e.ey || y1 < e.sy {
		return
	}
	if y0 < e.sy {
		x0 += (x1 - x0) * (e.sy - y0) / (y1 - y0)
		y0 = e.sy
	}
	if y1 > e.ey {
		x1 += (x1 - x0) * (e.ey - y1) / (y1 - y0)
		y1 = e.ey
	}

	fx := float32(x)
	switch {
	case x0 <= fx && x1 <= fx:
		buf[x] += e.direction * (y1 - y0)
	case x0 >= fx+1 && x1 >= fx+1:
	default:
		// coverage is one minus the average x position in the pixel
		buf[x] += e.direction * (y1 - y0) * (1 - ((x0-fx)+(x1-fx))/2)
	}
}

// trapezoidArea is the area of a trapezoid with horizontal top and bottom
// spans [tx0, tx1] and [bx0, bx1] and the given height.
func trapezoidArea(height, tx0, tx1, bx0, bx1 float32) float32 {
	return ((tx1 - tx0) + (bx1 - bx0)) / 2 * height
}

func triangleArea(height, width float32) float32 {
	return height * width / 2
}

func abs(v float32) float32 {
	return float32(math.Abs(float64(v)))
}
