package quantizedmesh

// decodeIndices reads `count` high-water-mark delta-encoded indices. If
// vertexCount > 65536 the format uses u32 codes and the cursor must first
// be aligned to a 4-byte boundary; otherwise it uses u16 codes.
//
// High-water-mark decoding: highest starts at 0; each code emits
// highest-code; a code of exactly 0 means "this is a new vertex, not yet
// seen" and bumps highest by one afterwards.
func decodeIndices(c *cursor, count int, vertexCount uint32) []uint32 {
	wide := vertexCount > 65536
	if wide {
		c.align4()
	}

	out := make([]uint32, count)
	var highest uint32
	for i := 0; i < count; i++ {
		var code uint32
		if wide {
			code = c.u32()
		} else {
			code = uint32(c.u16())
		}
		if !c.ok {
			return nil
		}
		out[i] = highest - code
		if code == 0 {
			highest++
		}
	}
	return out
}

// decodeEdgeIndices reads a u32 count followed by that many vertex
// indices (u16 or u32 depending on vertexCount), used for the four edge
// arrays (west/south/east/north).
func decodeEdgeIndices(c *cursor, vertexCount uint32) []uint32 {
	count := c.u32()
	if !c.ok {
		return nil
	}
	wide := vertexCount > 65536
	out := make([]uint32, count)
	for i := range out {
		if wide {
			out[i] = c.u32()
		} else {
			out[i] = uint32(c.u16())
		}
		if !c.ok {
			return nil
		}
	}
	return out
}
