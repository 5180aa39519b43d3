package truetype

import (
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

// NameID identifies a record of the name table.
type NameID uint16

// Common name IDs.
const (
	NameCopyright     NameID = 0
	NameFamily        NameID = 1
	NameSubfamily     NameID = 2
	NameUniqueID      NameID = 3
	NameFull          NameID = 4
	NameVersion       NameID = 5
	NamePostScript    NameID = 6
	NameTypoFamily    NameID = 16
	NameTypoSubfamily NameID = 17
)

const langEnglishUS = 0x409

// Name returns the decoded string for id, or "" when the font has no such
// record. Windows US English records are preferred, then any Unicode
// record, then Macintosh Roman.
func (f *Font) Name(id NameID) string {
	if f.name == 0 {
		return ""
	}
	count := int(f.u16(f.name + 2))
	storage := f.name + int(f.u16(f.name+4))

	best, bestRank := -1, 0
	for i := 0; i < count; i++ {
		rec := f.name + 6 + 12*i
		if NameID(f.u16(rec+6)) != id {
			continue
		}
		rank := nameRank(f.u16(rec), f.u16(rec+2), f.u16(rec+4))
		if rank > bestRank {
			best, bestRank = rec, rank
		}
	}
	if best < 0 {
		return ""
	}

	length := int(f.u16(best + 8))
	off := storage + int(f.u16(best+10))
	if off+length > len(f.data) {
		return ""
	}
	raw := f.data[off : off+length]

	var dec *encoding.Decoder
	if f.u16(best) == platformMac {
		dec = charmap.Macintosh.NewDecoder()
	} else {
		dec = unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM).NewDecoder()
	}
	s, err := dec.Bytes(raw)
	if err != nil {
		return ""
	}
	return string(s)
}

// nameRank orders name records by preference; 0 means unusable.
func nameRank(platform, enc, lang uint16) int {
	switch platform {
	case platformMicrosoft:
		if enc != msEncodingUnicodeBMP && enc != msEncodingUnicodeFull {
			return 0
		}
		if lang == langEnglishUS {
			return 4
		}
		return 3
	case platformUnicode:
		return 2
	case platformMac:
		if enc == 0 {
			return 1
		}
	}
	return 0
}
