package quantizedmesh

import "encoding/binary"

// cursor is a bounds-checked little-endian reader over a byte slice.
// Every read advances the cursor only on success; any read that would
// extend past the end of the buffer sets ok=false permanently, and all
// further reads on the same cursor are no-ops returning zero values.
// This is what lets the decoder implement "any out-of-range read aborts
// the decode and yields empty, non-fatal content" without an explicit
// bounds check before every single field access.
type cursor struct {
	buf []byte
	pos int
	ok  bool
}

func newCursor(buf []byte) *cursor {
	return &cursor{buf: buf, ok: true}
}

func (c *cursor) remaining() int {
	return len(c.buf) - c.pos
}

func (c *cursor) require(n int) bool {
	if !c.ok || c.remaining() < n {
		c.ok = false
		return false
	}
	return true
}

func (c *cursor) u8() uint8 {
	if !c.require(1) {
		return 0
	}
	v := c.buf[c.pos]
	c.pos++
	return v
}

func (c *cursor) u16() uint16 {
	if !c.require(2) {
		return 0
	}
	v := binary.LittleEndian.Uint16(c.buf[c.pos : c.pos+2])
	c.pos += 2
	return v
}

func (c *cursor) u32() uint32 {
	if !c.require(4) {
		return 0
	}
	v := binary.LittleEndian.Uint32(c.buf[c.pos : c.pos+4])
	c.pos += 4
	return v
}

func (c *cursor) bytes(n int) []byte {
	if !c.require(n) {
		return nil
	}
	v := c.buf[c.pos : c.pos+n]
	c.pos += n
	return v
}

func (c *cursor) skip(n int) {
	c.require(n)
	if c.ok {
		c.pos += n
	}
}

// align4 advances the cursor to the next 4-byte boundary relative to the
// start of the buffer, as the format requires before reading a u32 index
// stream, skipping 2 bytes if the current offset is odd-aligned to 4.
func (c *cursor) align4() {
	if c.pos%4 != 0 {
		c.skip(2)
	}
}
