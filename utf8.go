package fontstash

// UTF-8 is decoded with Bjoern Hoehrmann's byte-at-a-time DFA.
const (
	utf8Accept = 0
	utf8Reject = 12
)

// utf8Class maps a byte to its character class.
var utf8Class = [256]uint8{
	0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
	0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
	0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
	0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
	0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
	0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
	0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
	0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
	1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1,
	9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9,
	7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7,
	7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7,
	8, 8, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2,
	2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2,
	10, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 4, 3, 3,
	11, 6, 6, 6, 5, 8, 8, 8, 8, 8, 8, 8, 8, 8, 8, 8,
}

// utf8Trans maps state+class to the next state.
var utf8Trans = [108]uint8{
	0, 12, 24, 36, 60, 96, 84, 12, 12, 12, 48, 72,
	12, 12, 12, 12, 12, 12, 12, 12, 12, 12, 12, 12,
	12, 0, 12, 12, 12, 12, 12, 0, 12, 0, 12, 12,
	12, 24, 12, 12, 12, 12, 12, 24, 12, 24, 12, 12,
	12, 12, 12, 12, 12, 12, 12, 24, 12, 12, 12, 12,
	12, 24, 12, 12, 12, 12, 12, 12, 12, 24, 12, 12,
	12, 12, 12, 12, 12, 12, 12, 36, 12, 36, 12, 12,
	12, 36, 12, 12, 12, 12, 12, 36, 12, 36, 12, 12,
	12, 36, 12, 12, 12, 12, 12, 12, 12, 12, 12, 12,
}

// decodeUTF8 feeds one byte to the decoder. It returns the new state; the
// codepoint is complete when the state is utf8Accept.
func decodeUTF8(state *uint32, cp *rune, b byte) uint32 {
	class := uint32(utf8Class[b])
	if *state != utf8Accept {
		*cp = rune(b&0x3f) | *cp<<6
	} else {
		*cp = rune((0xff >> class) & uint32(b))
	}
	*state = uint32(utf8Trans[*state+class])
	return *state
}

// nextRune decodes the next codepoint of s starting at i. It returns the
// codepoint, the index after it and false when s is exhausted first.
// Invalid sequences are dropped. A byte that breaks a sequence is decoded
// again as the start of the next one.
func nextRune(s string, i int) (rune, int, bool) {
	var state uint32
	var cp rune
	start := i
	for i < len(s) {
		switch decodeUTF8(&state, &cp, s[i]) {
		case utf8Accept:
			return cp, i + 1, true
		case utf8Reject:
			state = utf8Accept
			if i == start {
				i++
			}
			start = i
			continue
		}
		i++
	}
	return 0, i, false
}
