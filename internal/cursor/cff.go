package cursor

// CFF INDEX and DICT helpers. An INDEX is a count, an offset size and count+1
// offsets followed by the object data; a DICT is a sequence of operands
// followed by a one or two byte operator.

// ReadIndex consumes a CFF INDEX at the current position and returns a
// cursor spanning the whole structure.
func (c *Cursor) ReadIndex() Cursor {
	start := c.pos
	count := int(c.Read16())
	if count > 0 {
		offSize := int(c.Read8())
		if offSize < 1 || offSize > 4 {
			c.Seek(len(c.data))
			return Cursor{}
		}
		c.Skip(offSize * count)
		if last := int(c.Read(offSize)); last > 0 {
			c.Skip(last - 1)
		}
	}
	return c.Range(start, c.pos-start)
}

// IndexCount returns the number of objects in an INDEX cursor.
func (c *Cursor) IndexCount() int {
	b := Cursor{data: c.data}
	return int(b.Read16())
}

// IndexGet returns object i of an INDEX cursor, or an empty cursor when i
// is out of range.
func (c *Cursor) IndexGet(i int) Cursor {
	b := Cursor{data: c.data}
	count := int(b.Read16())
	offSize := int(b.Read8())
	if i < 0 || i >= count || offSize < 1 || offSize > 4 {
		return Cursor{}
	}
	b.Skip(i * offSize)
	start := int(b.Read(offSize))
	end := int(b.Read(offSize))
	return b.Range(2+(count+1)*offSize+start, end-start)
}

// ReadInt consumes a CFF DICT integer operand.
func (c *Cursor) ReadInt() int32 {
	b0 := int32(c.Read8())
	switch {
	case b0 >= 32 && b0 <= 246:
		return b0 - 139
	case b0 >= 247 && b0 <= 250:
		return (b0-247)*256 + int32(c.Read8()) + 108
	case b0 >= 251 && b0 <= 254:
		return -(b0-251)*256 - int32(c.Read8()) - 108
	case b0 == 28:
		return int32(c.Read16())
	case b0 == 29:
		return int32(c.Read32())
	}
	return 0
}

// SkipOperand consumes one DICT operand, including real numbers.
func (c *Cursor) SkipOperand() {
	if c.Peek8() == 30 {
		c.Skip(1)
		for c.pos < len(c.data) {
			v := c.Read8()
			if v&0xF == 0xF || v>>4 == 0xF {
				break
			}
		}
		return
	}
	c.ReadInt()
}

// DictGet returns the operands of key in a DICT cursor. Two byte operators
// are keyed as 0x100|b1.
func (c *Cursor) DictGet(key int) Cursor {
	c.Seek(0)
	for c.pos < len(c.data) {
		start := c.pos
		for c.Peek8() >= 28 {
			c.SkipOperand()
		}
		end := c.pos
		op := int(c.Read8())
		if op == 12 {
			op = int(c.Read8()) | 0x100
		}
		if op == key {
			return c.Range(start, end-start)
		}
	}
	return Cursor{}
}

// DictInts reads up to n integer operands of key. Absent operands keep the
// values already in out.
func (c *Cursor) DictInts(key int, out []int32) {
	ops := c.DictGet(key)
	for i := 0; i < len(out) && ops.pos < len(ops.data); i++ {
		out[i] = ops.ReadInt()
	}
}
