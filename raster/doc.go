// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package raster turns glyph outlines into 8-bit antialiased coverage.
//
// Outlines are first flattened into polylines ([Flatten]), then swept one
// scanline at a time. For every pixel the exact area covered by each edge is
// accumulated, signed by the edge direction, so the result is analytic
// coverage under the non-zero winding rule with no supersampling.
//
// Usage:
//
//	f, _ := truetype.Parse(goregular.TTF, 0)
//	s := f.ScaleForPixelHeight(32)
//	img, xoff, yoff := raster.GlyphBitmap(f, s, s, 0, 0, f.FindGlyphIndex('g'))
package raster
