package gltfcontent

import (
	"encoding/binary"
	"fmt"
	"math"

	"geostream/internal/geomath"
)

func componentSize(componentType int) int {
	switch componentType {
	case ComponentByte, ComponentUnsignedByte:
		return 1
	case ComponentShort, ComponentUnsignedShort:
		return 2
	case ComponentUnsignedInt, ComponentFloat:
		return 4
	default:
		return 0
	}
}

func typeComponentCount(t string) int {
	switch t {
	case "SCALAR":
		return 1
	case "VEC2":
		return 2
	case "VEC3":
		return 3
	case "VEC4":
		return 4
	default:
		return 0
	}
}

// readVec3Accessor reads a VEC3/FLOAT accessor's values out of buf,
// interpreting bufferView/accessor byte offsets the way the format
// defines them: buffer -> bufferView byte range -> accessor byte offset
// within that range, tightly packed (no byteStride support, matching
// the spec's mesh content which never uses interleaved attributes).
func readVec3Accessor(buf []byte, doc Document, accessorIndex int) ([]geomath.Vec3, error) {
	if accessorIndex < 0 || accessorIndex >= len(doc.Accessors) {
		return nil, fmt.Errorf("accessor index %d out of range", accessorIndex)
	}
	acc := doc.Accessors[accessorIndex]
	if acc.ComponentType != ComponentFloat || typeComponentCount(acc.Type) != 3 {
		return nil, fmt.Errorf("accessor %d is not a FLOAT VEC3 accessor", accessorIndex)
	}
	if acc.BufferView < 0 || acc.BufferView >= len(doc.BufferViews) {
		return nil, fmt.Errorf("accessor %d has no bufferView", accessorIndex)
	}
	bv := doc.BufferViews[acc.BufferView]

	start := bv.ByteOffset + acc.ByteOffset
	stride := 12 // 3 * float32
	needed := start + acc.Count*stride
	if needed > len(buf) {
		return nil, fmt.Errorf("accessor %d reads past end of buffer (need %d, have %d)", accessorIndex, needed, len(buf))
	}

	out := make([]geomath.Vec3, acc.Count)
	for i := 0; i < acc.Count; i++ {
		off := start + i*stride
		out[i] = geomath.Vec3{
			X: float64(readFloat32LE(buf, off)),
			Y: float64(readFloat32LE(buf, off+4)),
			Z: float64(readFloat32LE(buf, off+8)),
		}
	}
	return out, nil
}

// readIndicesAccessor reads a SCALAR accessor of unsigned byte, unsigned
// short, or unsigned int indices, upconverting everything to uint32 so
// the rest of the pipeline never branches on index width (the same
// normalisation the quantized-mesh decoder applies for its u16/u32
// index split).
func readIndicesAccessor(buf []byte, doc Document, accessorIndex int) ([]uint32, error) {
	if accessorIndex < 0 || accessorIndex >= len(doc.Accessors) {
		return nil, fmt.Errorf("accessor index %d out of range", accessorIndex)
	}
	acc := doc.Accessors[accessorIndex]
	if typeComponentCount(acc.Type) != 1 {
		return nil, fmt.Errorf("accessor %d is not a SCALAR accessor", accessorIndex)
	}
	size := componentSize(acc.ComponentType)
	if size == 0 {
		return nil, fmt.Errorf("accessor %d has unsupported componentType %d", accessorIndex, acc.ComponentType)
	}
	if acc.BufferView < 0 || acc.BufferView >= len(doc.BufferViews) {
		return nil, fmt.Errorf("accessor %d has no bufferView", accessorIndex)
	}
	bv := doc.BufferViews[acc.BufferView]

	start := bv.ByteOffset + acc.ByteOffset
	needed := start + acc.Count*size
	if needed > len(buf) {
		return nil, fmt.Errorf("accessor %d reads past end of buffer (need %d, have %d)", accessorIndex, needed, len(buf))
	}

	out := make([]uint32, acc.Count)
	for i := 0; i < acc.Count; i++ {
		off := start + i*size
		switch acc.ComponentType {
		case ComponentUnsignedByte:
			out[i] = uint32(buf[off])
		case ComponentUnsignedShort:
			out[i] = uint32(binary.LittleEndian.Uint16(buf[off : off+2]))
		case ComponentUnsignedInt:
			out[i] = binary.LittleEndian.Uint32(buf[off : off+4])
		}
	}
	return out, nil
}

func readFloat32LE(buf []byte, off int) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(buf[off : off+4]))
}
