package quantizedmesh

import (
	"encoding/binary"
	"math"
	"testing"

	"geostream/internal/geomath"
)

func TestDecodeTruncatedPayloadYieldsEmptyNonFatalMesh(t *testing.T) {
	buf := make([]byte, 50) // shorter than the 92-byte header
	mesh := Decode(buf, Options{
		Rectangle:     geomath.NewRectangle(-0.1, -0.1, 0.1, 0.1),
		MinimumHeight: 0,
		MaximumHeight: 100,
	})
	if !mesh.Empty() {
		t.Errorf("expected an empty mesh for a truncated payload, got %d positions", len(mesh.Positions))
	}
}

func TestDecodeSyntheticPayloadProducesBoundedIndices(t *testing.T) {
	opts := Options{
		Rectangle:     geomath.NewRectangle(-0.1, -0.1, 0.1, 0.1),
		MinimumHeight: 0,
		MaximumHeight: 100,
		TileLevel:     2,
	}
	buf := buildSyntheticPayload()

	mesh := Decode(buf, opts)
	if mesh.Empty() {
		t.Fatalf("expected non-empty mesh")
	}

	for _, idx := range mesh.Indices {
		if int(idx) >= len(mesh.Positions) {
			t.Fatalf("index %d out of range for %d positions", idx, len(mesh.Positions))
		}
	}

	if mesh.MinPosition.X > mesh.MaxPosition.X || mesh.MinPosition.Y > mesh.MaxPosition.Y || mesh.MinPosition.Z > mesh.MaxPosition.Z {
		t.Errorf("min position exceeds max position: min=%+v max=%+v", mesh.MinPosition, mesh.MaxPosition)
	}
}

func TestDecodeAllFourEdgesProduceSkirtGeometry(t *testing.T) {
	opts := Options{
		Rectangle:     geomath.NewRectangle(-0.1, -0.1, 0.1, 0.1),
		MinimumHeight: 0,
		MaximumHeight: 100,
	}
	buf := buildSyntheticPayload()
	mesh := Decode(buf, opts)

	// buildSyntheticPayload has 4 real vertices and a non-empty edge
	// array for every one of west/south/east/north, each contributing 2
	// skirt vertices, so the decoded mesh must carry 4 + 4*2 = 12
	// positions: skirts on all four sides, not just west.
	if len(mesh.Positions) != 12 {
		t.Fatalf("expected 12 positions (4 real + 2 skirt vertices per edge), got %d", len(mesh.Positions))
	}
}

// buildSyntheticPayload hand-assembles a minimal but structurally valid
// quantized-mesh payload: a 92-byte header, 4 vertices forming a unit
// quad (one on each edge), 2 triangles, and a 2-vertex edge array for
// each of the four edges so all four skirts have something to build.
func buildSyntheticPayload() []byte {
	var buf []byte

	// Header: center, minH, maxH, bsphere center+radius, HOP, vertexCount.
	buf = appendF64(buf, 0, 0, 0) // center
	buf = appendF32(buf, 0, 100)  // min/max height
	buf = appendF64(buf, 0, 0, 0) // bounding sphere center
	buf = appendF64(buf, 1000)    // bounding sphere radius
	buf = appendF64(buf, 0, 0, 0) // horizon occlusion point
	buf = appendU32(buf, 4)       // vertex count

	// u array: vertices at corners of the quad, as zig-zag deltas from 0.
	// Raw u values: [0, 32767, 0, 32767] -> deltas [0, 32767, -32767, 32767]
	buf = appendZigZagStream(buf, []int32{0, 32767, -32767, 32767})
	// v array: [0, 0, 32767, 32767] -> deltas [0,0,32767,0]
	buf = appendZigZagStream(buf, []int32{0, 0, 32767, 0})
	// h array: all zero height
	buf = appendZigZagStream(buf, []int32{0, 0, 0, 0})

	// triangleCount = 2, indices via high-water-mark for [0,1,2, 0,2,3]
	buf = appendU32(buf, 2)
	buf = appendHighWaterIndices(buf, []uint32{0, 1, 2, 0, 2, 3})

	// Edge arrays: west=[0,2], south=[0,1], east=[1,3], north=[2,3]
	buf = appendEdge(buf, []uint16{0, 2})
	buf = appendEdge(buf, []uint16{0, 1})
	buf = appendEdge(buf, []uint16{1, 3})
	buf = appendEdge(buf, []uint16{2, 3})

	return buf
}

func appendF64(buf []byte, vals ...float64) []byte {
	for _, v := range vals {
		b := make([]byte, 8)
		binary.LittleEndian.PutUint64(b, math.Float64bits(v))
		buf = append(buf, b...)
	}
	return buf
}

func appendF32(buf []byte, vals ...float32) []byte {
	for _, v := range vals {
		b := make([]byte, 4)
		binary.LittleEndian.PutUint32(b, math.Float32bits(v))
		buf = append(buf, b...)
	}
	return buf
}

func appendU32(buf []byte, v uint32) []byte {
	b := make([]byte, 4)
	binary.LittleEndian.PutUint32(b, v)
	return append(buf, b...)
}

func appendU16(buf []byte, v uint16) []byte {
	b := make([]byte, 2)
	binary.LittleEndian.PutUint16(b, v)
	return append(buf, b...)
}

// appendZigZagStream encodes cumulative deltas as zig-zag codes.
func appendZigZagStream(buf []byte, deltas []int32) []byte {
	for _, d := range deltas {
		code := uint16((d << 1) ^ (d >> 31))
		buf = appendU16(buf, code)
	}
	return buf
}

// appendHighWaterIndices encodes a sequence of vertex indices using the
// high-water-mark scheme, the inverse of decodeIndices.
func appendHighWaterIndices(buf []byte, wanted []uint32) []byte {
	var highest uint32
	for _, idx := range wanted {
		code := highest - idx
		buf = appendU16(buf, uint16(code))
		if code == 0 {
			highest++
		}
	}
	return buf
}

func appendEdge(buf []byte, indices []uint16) []byte {
	buf = appendU32(buf, uint32(len(indices)))
	for _, idx := range indices {
		buf = appendU16(buf, idx)
	}
	return buf
}
