// Package cursor provides a bounds-checked big-endian reader over font data.
//
// Reads past the end of the buffer never panic. A read that would overrun
// returns zero and leaves the cursor at the end, so malformed fonts degrade
// to zero-valued fields instead of crashing the caller.
package cursor

// Cursor is a byte slice plus a read position.
// The zero value is an empty cursor.
type Cursor struct {
	data []byte
	pos  int
}

// New returns a cursor positioned at the start of data.
func New(data []byte) Cursor {
	return Cursor{data: data}
}

// Len returns the size of the underlying buffer.
func (c *Cursor) Len() int { return len(c.data) }

// Offset returns the current read position.
func (c *Cursor) Offset() int { return c.pos }

// Bytes returns the underlying buffer.
func (c *Cursor) Bytes() []byte { return c.data }

// Remaining reports whether unread bytes are left.
func (c *Cursor) Remaining() bool { return c.pos < len(c.data) }

// Seek moves to off clamped to [0, Len].
func (c *Cursor) Seek(off int) {
	c.pos = min(max(off, 0), len(c.data))
}

// Skip advances by n bytes (n may be negative).
func (c *Cursor) Skip(n int) {
	c.Seek(c.pos + n)
}

// Peek8 returns the next byte without consuming it.
func (c *Cursor) Peek8() uint8 {
	if c.pos >= len(c.data) {
		return 0
	}
	return c.data[c.pos]
}

// Read8 consumes one byte.
func (c *Cursor) Read8() uint8 {
	if c.pos >= len(c.data) {
		return 0
	}
	b := c.data[c.pos]
	c.pos++
	return b
}

// Read returns the big-endian value of the next n bytes, 1 <= n <= 4.
// When fewer than n bytes remain it returns 0 and moves to the end.
func (c *Cursor) Read(n int) uint32 {
	if n > len(c.data)-c.pos {
		c.pos = len(c.data)
		return 0
	}
	var v uint32
	for _, b := range c.data[c.pos : c.pos+n] {
		v = v<<8 | uint32(b)
	}
	c.pos += n
	return v
}

// Read16 consumes a big-endian uint16.
func (c *Cursor) Read16() uint16 { return uint16(c.Read(2)) }

// Read32 consumes a big-endian uint32.
func (c *Cursor) Read32() uint32 { return c.Read(4) }

// Range returns a new cursor over data[off:off+n], or an empty cursor when
// the range does not lie inside the buffer.
func (c *Cursor) Range(off, n int) Cursor {
	if off < 0 || n < 0 || off > len(c.data) || n > len(c.data)-off {
		return Cursor{}
	}
	return Cursor{data: c.data[off : off+n]}
}
