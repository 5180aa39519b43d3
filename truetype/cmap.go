package truetype

// FindGlyphIndex maps a Unicode codepoint to a glyph index using the cmap
// subtable selected at parse time. Unmapped codepoints return 0.
func (f *Font) FindGlyphIndex(cp rune) GlyphIndex {
	if cp < 0 {
		return 0
	}
	m := f.indexMap
	switch f.u16(m) {
	case 0:
		n := int(f.u16(m+2)) - 6
		if int(cp) < n {
			return GlyphIndex(f.u8(m + 6 + int(cp)))
		}
		return 0

	case 6:
		first := rune(f.u16(m + 6))
		count := rune(f.u16(m + 8))
		if cp >= first && cp < first+count {
			return GlyphIndex(f.u16(m + 10 + int(cp-first)*2))
		}
		return 0

	case 4:
		return f.cmap4(cp)

	case 12, 13:
		return f.cmap12(cp, f.u16(m) == 13)
	}
	return 0
}

// cmap4 looks cp up in a segment mapping subtable. The end codes are
// sorted, so the segment is found by binary search.
func (f *Font) cmap4(cp rune) GlyphIndex {
	if cp > 0xffff {
		return 0
	}
	m := f.indexMap
	segCount := int(f.u16(m+6)) / 2
	endCodes := m + 14
	startCodes := endCodes + segCount*2 + 2
	idDeltas := startCodes + segCount*2
	idRangeOffsets := idDeltas + segCount*2

	lo, hi := 0, segCount
	for lo < hi {
		mid := int(uint(lo+hi) >> 1)
		if rune(f.u16(endCodes+mid*2)) < cp {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	if lo == segCount {
		return 0
	}
	seg := lo
	start := rune(f.u16(startCodes + seg*2))
	if cp < start {
		return 0
	}

	delta := f.u16(idDeltas + seg*2)
	rangeOff := int(f.u16(idRangeOffsets + seg*2))
	if rangeOff == 0 {
		return GlyphIndex(uint16(cp) + delta)
	}
	g := f.u16(idRangeOffsets + seg*2 + rangeOff + int(cp-start)*2)
	if g == 0 {
		return 0
	}
	return GlyphIndex(g + delta)
}

// cmap12 handles segmented coverage (format 12) and many-to-one range
// mappings (format 13).
func (f *Font) cmap12(cp rune, manyToOne bool) GlyphIndex {
	m := f.indexMap
	ngroups := int(f.u32(m + 12))
	groups := m + 16

	lo, hi := 0, ngroups
	for lo < hi {
		mid := lo + (hi-lo)/2
		g := groups + mid*12
		start := rune(f.u32(g))
		end := rune(f.u32(g + 4))
		switch {
		case cp < start:
			hi = mid
		case cp > end:
			lo = mid + 1
		default:
			startGlyph := GlyphIndex(f.u32(g + 8))
			if manyToOne {
				return startGlyph
			}
			return startGlyph + GlyphIndex(cp-start)
		}
	}
	return 0
}

// CodepointHMetrics is HMetrics for the glyph mapped to cp.
func (f *Font) CodepointHMetrics(cp rune) (advance, lsb int) {
	return f.HMetrics(f.FindGlyphIndex(cp))
}

// CodepointKernAdvance is KernAdvance for the glyphs mapped to a and b.
func (f *Font) CodepointKernAdvance(a, b rune) int {
	if f.kern == 0 && f.gpos == 0 {
		return 0
	}
	return f.KernAdvance(f.FindGlyphIndex(a), f.FindGlyphIndex(b))
}

// CodepointShape is GlyphShape for the glyph mapped to cp.
func (f *Font) CodepointShape(cp rune) []Vertex {
	return f.GlyphShape(f.FindGlyphIndex(cp))
}

// CodepointBox is GlyphBox for the glyph mapped to cp.
func (f *Font) CodepointBox(cp rune) (x0, y0, x1, y1 int, ok bool) {
	return f.GlyphBox(f.FindGlyphIndex(cp))
}
