// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package raster

import (
	"cmp"
	"slices"
)

// Edge is one non-horizontal polyline segment in bitmap space, stored
// top to bottom (Y0 < Y1).
type Edge struct {
	X0, Y0 float32
	X1, Y1 float32

	// Invert is set when the original segment pointed the other way.
	// It decides the winding direction of the edge.
	Invert bool
}

// buildEdges scales and shifts every contour segment into bitmap space and
// returns the edges sorted by Y0. When invert is set, y is negated so that
// y-up font units produce a y-down bitmap.
func buildEdges(contours []Contour, sx, sy, shx, shy float32, invert bool) []Edge {
	ys := sy
	if invert {
		ys = -sy
	}
	n := 0
	for _, c := range contours {
		n += len(c)
	}
	edges := make([]Edge, 0, n)

	for _, p := range contours {
		j := len(p) - 1
		for k := 0; k < len(p); j, k = k, k+1 {
			if p[j].Y == p[k].Y {
				continue
			}
			a, b := k, j
			var inv bool
			if invert && p[j].Y > p[k].Y || !invert && p[j].Y < p[k].Y {
				inv = true
				a, b = j, k
			}
			edges = append(edges, Edge{
				X0:     p[a].X*sx + shx,
				Y0:     p[a].Y*ys + shy,
				X1:     p[b].X*sx + shx,
				Y1:     p[b].Y*ys + shy,
				Invert: inv,
			})
		}
	}

	slices.SortStableFunc(edges, func(a, b Edge) int {
		return cmp.Compare(a.Y0, b.Y0)
	})
	return edges
}

// activeEdge is an edge crossing the current scanline.
type activeEdge struct {
	fx  float32 // x at the top of the scanline, relative to the bitmap
	fdx float32 // dx/dy
	fdy float32 // dy/dx, 0 for vertical edges

	direction float32 // +1 or -1 winding contribution
	sy, ey    float32 // vertical extent
}

func newActiveEdge(e *Edge, offX int, start float32) activeEdge {
	dxdy := (e.X1 - e.X0) / (e.Y1 - e.Y0)
	var dydx float32
	if dxdy != 0 {
		dydx = 1 / dxdy
	}
	dir := float32(-1)
	if e.Invert {
		dir = 1
	}
	return activeEdge{
		fx:        e.X0 + dxdy*(start-e.Y0) - float32(offX),
		fdx:       dxdy,
		fdy:       dydx,
		direction: dir,
		sy:        e.Y0,
		ey:        e.Y1,
	}
}
