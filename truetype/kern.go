package truetype

// KernPair is one entry of the legacy kern table.
type KernPair struct {
	Glyph1, Glyph2 GlyphIndex
	Advance        int
}

// KernAdvance returns the extra horizontal advance between glyphs a and b
// in font units. GPOS pair adjustment is preferred when the font has a GPOS
// table; otherwise the first horizontal kern subtable is used.
func (f *Font) KernAdvance(a, b GlyphIndex) int {
	switch {
	case f.gpos != 0:
		return f.gposAdvance(a, b)
	case f.kern != 0:
		return f.kernAdvance(a, b)
	}
	return 0
}

// KernTable returns every pair of the first kern subtable, or nil when the
// font has no usable kern table.
func (f *Font) KernTable() []KernPair {
	if !f.hasHorizontalKern() {
		return nil
	}
	n := int(f.u16(f.kern + 10))
	pairs := make([]KernPair, n)
	for i := range pairs {
		rec := f.kern + 18 + i*6
		pairs[i] = KernPair{
			Glyph1:  GlyphIndex(f.u16(rec)),
			Glyph2:  GlyphIndex(f.u16(rec + 2)),
			Advance: int(f.i16(rec + 4)),
		}
	}
	return pairs
}

func (f *Font) hasHorizontalKern() bool {
	// at least one subtable, and its coverage is horizontal format 0
	return f.kern != 0 && f.u16(f.kern+2) >= 1 && f.u16(f.kern+8) == 1
}

func (f *Font) kernAdvance(a, b GlyphIndex) int {
	if !f.hasHorizontalKern() {
		return 0
	}
	needle := uint32(a)<<16 | uint32(b)&0xffff
	lo, hi := 0, int(f.u16(f.kern+10))-1
	for lo <= hi {
		m := (lo + hi) >> 1
		rec := f.kern + 18 + m*6
		straw := f.u32(rec)
		switch {
		case needle < straw:
			hi = m - 1
		case needle > straw:
			lo = m + 1
		default:
			return int(f.i16(rec + 4))
		}
	}
	return 0
}

// gposAdvance walks the pair adjustment lookups of GPOS 1.0. Only value
// records carrying XAdvance for the first glyph are understood.
func (f *Font) gposAdvance(a, b GlyphIndex) int {
	t := f.gpos
	if f.u16(t) != 1 || f.u16(t+2) != 0 {
		return 0
	}
	lookupList := t + int(f.u16(t+8))
	lookupCount := int(f.u16(lookupList))

	for i := 0; i < lookupCount; i++ {
		lookup := lookupList + int(f.u16(lookupList+2+2*i))
		if f.u16(lookup) != 2 { // pair adjustment
			continue
		}
		subCount := int(f.u16(lookup + 4))
		for s := 0; s < subCount; s++ {
			sub := lookup + int(f.u16(lookup+6+2*s))
			cov := f.coverageIndex(sub+int(f.u16(sub+2)), a)
			if cov < 0 {
				continue
			}
			if f.u16(sub+4) != 4 || f.u16(sub+6) != 0 {
				return 0
			}
			switch f.u16(sub) {
			case 1:
				if adv, ok := f.pairPosFormat1(sub, cov, b); ok {
					return adv
				}
			case 2:
				return f.pairPosFormat2(sub, a, b)
			default:
				return 0
			}
		}
	}
	return 0
}

// pairPosFormat1 searches the pair set of the covered first glyph for b.
func (f *Font) pairPosFormat1(sub, cov int, b GlyphIndex) (int, bool) {
	if cov >= int(f.u16(sub+8)) {
		return 0, true
	}
	set := sub + int(f.u16(sub+10+2*cov))
	lo, hi := 0, int(f.u16(set))-1
	for lo <= hi {
		m := (lo + hi) >> 1
		rec := set + 2 + 4*m
		second := GlyphIndex(f.u16(rec))
		switch {
		case b < second:
			hi = m - 1
		case b > second:
			lo = m + 1
		default:
			return int(f.i16(rec + 2)), true
		}
	}
	return 0, false
}

func (f *Font) pairPosFormat2(sub int, a, b GlyphIndex) int {
	c1 := f.glyphClass(sub+int(f.u16(sub+8)), a)
	c2 := f.glyphClass(sub+int(f.u16(sub+10)), b)
	class1Count := int(f.u16(sub + 12))
	class2Count := int(f.u16(sub + 14))
	if c1 < 0 || c1 >= class1Count || c2 < 0 || c2 >= class2Count {
		return 0
	}
	return int(f.i16(sub + 16 + 2*(c1*class2Count) + 2*c2))
}

// coverageIndex returns the coverage index of g, or -1.
func (f *Font) coverageIndex(cov int, g GlyphIndex) int {
	switch f.u16(cov) {
	case 1:
		lo, hi := 0, int(f.u16(cov+2))-1
		for lo <= hi {
			m := (lo + hi) >> 1
			straw := GlyphIndex(f.u16(cov + 4 + 2*m))
			switch {
			case g < straw:
				hi = m - 1
			case g > straw:
				lo = m + 1
			default:
				return m
			}
		}
	case 2:
		lo, hi := 0, int(f.u16(cov+2))-1
		for lo <= hi {
			m := (lo + hi) >> 1
			rec := cov + 4 + 6*m
			start := GlyphIndex(f.u16(rec))
			end := GlyphIndex(f.u16(rec + 2))
			switch {
			case g < start:
				hi = m - 1
			case g > end:
				lo = m + 1
			default:
				return int(f.u16(rec+4)) + int(g-start)
			}
		}
	}
	return -1
}

// glyphClass returns the class of g in a class definition table. Glyphs
// not listed are class 0; an unknown table format yields -1.
func (f *Font) glyphClass(def int, g GlyphIndex) int {
	switch f.u16(def) {
	case 1:
		start := GlyphIndex(f.u16(def + 2))
		count := GlyphIndex(f.u16(def + 4))
		if g >= start && g < start+count {
			return int(f.u16(def + 6 + 2*int(g-start)))
		}
	case 2:
		lo, hi := 0, int(f.u16(def+2))-1
		for lo <= hi {
			m := (lo + hi) >> 1
			rec := def + 4 + 6*m
			start := GlyphIndex(f.u16(rec))
			end := GlyphIndex(f.u16(rec + 2))
			switch {
			case g < start:
				hi = m - 1
			case g > end:
				lo = m + 1
			default:
				return int(f.u16(rec + 4))
			}
		}
	default:
		return -1
	}
	return 0
}
