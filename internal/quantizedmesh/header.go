// Package quantizedmesh decodes the quantized-mesh terrain binary format
// into an in-memory mesh: a fixed 92-byte header, zig-zag delta-encoded
// u/v/h vertex streams, high-water-mark delta-encoded indices, four
// edge-index arrays used to synthesise skirts, and a trailing sequence of
// {id, length, bytes} extension records.
//
// Every field is read with explicit little-endian decoding
// (encoding/binary.LittleEndian), the same idiom the rest of this
// codebase uses for framed binary protocols, rather than an unsafe
// struct cast that would depend on host byte order.
package quantizedmesh

import (
	"encoding/binary"
	"math"

	"geostream/internal/geomath"
)

// HeaderSizeBytes is the fixed size of the quantized-mesh header: three
// f64 for the bounding-sphere centre, two f32 for min/max height, four
// f64 for the bounding-sphere centre+radius, three f64 for the horizon
// occlusion point, one u32 for the vertex count. Computed explicitly
// rather than trusted to a struct's sizeof, since platform padding would
// make that value wrong.
const HeaderSizeBytes = 3*8 + 2*4 + 4*8 + 3*8 + 4

// Header is the fixed-size prefix of a quantized-mesh payload.
type Header struct {
	Center               geomath.Vec3
	MinimumHeight        float32
	MaximumHeight        float32
	BoundingSphereCenter geomath.Vec3
	BoundingSphereRadius float64
	HorizonOcclusionPoint geomath.Vec3
	VertexCount          uint32
}

// decodeHeader reads a Header from the start of buf. It returns false if
// buf is shorter than HeaderSizeBytes; this is a truncated-payload
// condition, not a panic.
func decodeHeader(buf []byte) (Header, bool) {
	if len(buf) < HeaderSizeBytes {
		return Header{}, false
	}

	var h Header
	off := 0

	h.Center = readVec3f64(buf, &off)
	h.MinimumHeight = readFloat32(buf, &off)
	h.MaximumHeight = readFloat32(buf, &off)
	h.BoundingSphereCenter = readVec3f64(buf, &off)
	h.BoundingSphereRadius = readFloat64(buf, &off)
	h.HorizonOcclusionPoint = readVec3f64(buf, &off)
	h.VertexCount = binary.LittleEndian.Uint32(buf[off : off+4])
	off += 4

	return h, true
}

func readFloat32(buf []byte, off *int) float32 {
	v := math.Float32frombits(binary.LittleEndian.Uint32(buf[*off : *off+4]))
	*off += 4
	return v
}

func readFloat64(buf []byte, off *int) float64 {
	v := math.Float64frombits(binary.LittleEndian.Uint64(buf[*off : *off+8]))
	*off += 8
	return v
}

func readVec3f64(buf []byte, off *int) geomath.Vec3 {
	x := readFloat64(buf, off)
	y := readFloat64(buf, off)
	z := readFloat64(buf, off)
	return geomath.Vec3{X: x, Y: y, Z: z}
}
