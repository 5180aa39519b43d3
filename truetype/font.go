package truetype

import (
	"github.com/gogpu/fontstash/internal/cursor"
)

// GlyphIndex is a glyph id within one font. Index 0 is the missing glyph.
type GlyphIndex int

// Font is a parsed font. It keeps a reference to the data passed to
// [Parse], which must not be modified while the Font is in use.
type Font struct {
	data      []byte
	fontStart int
	numGlyphs int

	// table offsets from the start of data, 0 when absent
	loca, head, glyf, hhea, hmtx, kern, gpos, name, os2 int

	indexMap         int // cmap subtable in use
	indexToLocFormat int

	cff         cursor.Cursor
	charStrings cursor.Cursor
	gsubrs      cursor.Cursor
	subrs       cursor.Cursor
	fontDicts   cursor.Cursor
	fdSelect    cursor.Cursor
}

// NumFonts returns the number of fonts in data: 1 for a single font, the
// collection size for a TrueType collection, and 0 when data is neither.
func NumFonts(data []byte) int {
	if isFont(data) {
		return 1
	}
	if tag(data, 0, "ttcf") {
		v := u32(data, 4)
		if v == 0x00010000 || v == 0x00020000 {
			return int(u32(data, 8))
		}
	}
	return 0
}

// FontOffset returns the byte offset of font index in data.
func FontOffset(data []byte, index int) (int, error) {
	if len(data) == 0 {
		return 0, ErrEmptyData
	}
	if isFont(data) {
		if index != 0 {
			return 0, ErrIndexOutOfRange
		}
		return 0, nil
	}
	n := NumFonts(data)
	if n == 0 {
		return 0, ErrUnknownFormat
	}
	if index < 0 || index >= n {
		return 0, ErrIndexOutOfRange
	}
	return int(u32(data, 12+index*4)), nil
}

// Parse parses font index from data. Index 0 selects the only font of a
// single-font file.
func Parse(data []byte, index int) (*Font, error) {
	start, err := FontOffset(data, index)
	if err != nil {
		return nil, err
	}
	f := &Font{data: data, fontStart: start}

	cmap := f.findTable("cmap")
	f.loca = f.findTable("loca")
	f.head = f.findTable("head")
	f.glyf = f.findTable("glyf")
	f.hhea = f.findTable("hhea")
	f.hmtx = f.findTable("hmtx")
	f.kern = f.findTable("kern")
	f.gpos = f.findTable("GPOS")
	f.name = f.findTable("name")
	f.os2 = f.findTable("OS/2")

	switch {
	case cmap == 0:
		return nil, missing("cmap")
	case f.head == 0:
		return nil, missing("head")
	case f.hhea == 0:
		return nil, missing("hhea")
	case f.hmtx == 0:
		return nil, missing("hmtx")
	}

	if f.glyf != 0 {
		if f.loca == 0 {
			return nil, missing("loca")
		}
	} else if err := f.initCFF(); err != nil {
		return nil, err
	}

	if maxp := f.findTable("maxp"); maxp != 0 {
		f.numGlyphs = int(f.u16(maxp + 4))
	} else {
		f.numGlyphs = 0xffff
	}

	// Scan every encoding record. Later matches win, so a font listing
	// both a BMP and a full-repertoire Microsoft subtable uses the latter.
	numTables := int(f.u16(cmap + 2))
	for i := 0; i < numTables; i++ {
		rec := cmap + 4 + 8*i
		switch f.u16(rec) {
		case platformMicrosoft:
			switch f.u16(rec + 2) {
			case msEncodingUnicodeBMP, msEncodingUnicodeFull:
				f.indexMap = cmap + int(f.u32(rec+4))
			}
		case platformUnicode:
			f.indexMap = cmap + int(f.u32(rec+4))
		}
	}
	if f.indexMap == 0 {
		return nil, &FormatError{Table: "cmap", Err: ErrNoCmap}
	}

	f.indexToLocFormat = int(f.u16(f.head + 50))
	return f, nil
}

func (f *Font) initCFF() error {
	off := f.findTable("CFF ")
	if off == 0 {
		return missing("glyf")
	}
	data := cursor.New(f.data)
	f.cff = data.Range(off, len(f.data)-off)

	b := f.cff
	b.Skip(2)
	b.Seek(int(b.Read8())) // hdrsize

	b.ReadIndex() // name INDEX
	topDictIdx := b.ReadIndex()
	topDict := topDictIdx.IndexGet(0)
	b.ReadIndex() // string INDEX
	f.gsubrs = b.ReadIndex()

	var charStrings, csType, fdArray, fdSelect [1]int32
	csType[0] = 2
	topDict.DictInts(17, charStrings[:])
	topDict.DictInts(0x100|6, csType[:])
	topDict.DictInts(0x100|36, fdArray[:])
	topDict.DictInts(0x100|37, fdSelect[:])
	f.subrs = getSubrs(f.cff, topDict)

	if csType[0] != 2 {
		return &FormatError{Table: "CFF ", Err: ErrUnsupportedCharstring}
	}
	if charStrings[0] == 0 {
		return missing("CharStrings")
	}

	if fdArray[0] != 0 {
		if fdSelect[0] == 0 {
			return missing("FDSelect")
		}
		b.Seek(int(fdArray[0]))
		f.fontDicts = b.ReadIndex()
		f.fdSelect = b.Range(int(fdSelect[0]), b.Len()-int(fdSelect[0]))
	}

	b.Seek(int(charStrings[0]))
	f.charStrings = b.ReadIndex()
	return nil
}

// getSubrs returns the local subroutine INDEX referenced by the Private
// DICT of dict, or an empty cursor.
func getSubrs(cff, dict cursor.Cursor) cursor.Cursor {
	var private [2]int32
	dict.DictInts(18, private[:])
	if private[0] == 0 || private[1] == 0 {
		return cursor.Cursor{}
	}
	pdict := cff.Range(int(private[1]), int(private[0]))
	var subrsOff [1]int32
	pdict.DictInts(19, subrsOff[:])
	if subrsOff[0] == 0 {
		return cursor.Cursor{}
	}
	cff.Seek(int(private[1] + subrsOff[0]))
	return cff.ReadIndex()
}

// IsCFF reports whether glyph outlines come from a CFF table.
func (f *Font) IsCFF() bool {
	return f.glyf == 0
}

// NumGlyphs returns the glyph count from maxp, or 0xffff when maxp is absent.
func (f *Font) NumGlyphs() int {
	return f.numGlyphs
}

// Data returns the font data the Font was parsed from.
func (f *Font) Data() []byte {
	return f.data
}

func (f *Font) findTable(t string) int {
	numTables := int(f.u16(f.fontStart + 4))
	dir := f.fontStart + 12
	for i := 0; i < numTables; i++ {
		loc := dir + 16*i
		if tag(f.data, loc, t) {
			return int(f.u32(loc + 8))
		}
	}
	return 0
}

const (
	platformUnicode   = 0
	platformMac       = 1
	platformMicrosoft = 3

	msEncodingUnicodeBMP  = 1
	msEncodingUnicodeFull = 10
)

func isFont(data []byte) bool {
	switch {
	case tag(data, 0, "1\x00\x00\x00"),
		tag(data, 0, "typ1"),
		tag(data, 0, "OTTO"),
		tag(data, 0, "\x00\x01\x00\x00"),
		tag(data, 0, "true"):
		return true
	}
	return false
}

func tag(data []byte, off int, t string) bool {
	if off < 0 || off+4 > len(data) {
		return false
	}
	return string(data[off:off+4]) == t
}

// The fixed-offset readers return 0 for offsets outside data.

func u32(data []byte, off int) uint32 {
	c := cursor.New(data)
	r := c.Range(off, 4)
	return r.Read32()
}

func (f *Font) u8(off int) uint8 {
	c := cursor.New(f.data)
	r := c.Range(off, 1)
	return r.Read8()
}

func (f *Font) u16(off int) uint16 {
	c := cursor.New(f.data)
	r := c.Range(off, 2)
	return r.Read16()
}

func (f *Font) i16(off int) int16 {
	return int16(f.u16(off))
}

func (f *Font) u32(off int) uint32 {
	return u32(f.data, off)
}
