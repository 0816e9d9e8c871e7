package gltfcontent

import (
	"encoding/binary"
	"math"
	"testing"
)

func TestReadVec3AccessorReadsPackedFloats(t *testing.T) {
	doc := Document{
		BufferViews: []BufferView{{Buffer: 0, ByteOffset: 0, ByteLength: 36}},
		Accessors:   []Accessor{{BufferView: 0, ByteOffset: 0, ComponentType: ComponentFloat, Count: 3, Type: "VEC3"}},
	}
	buf := make([]byte, 36)
	vals := []float32{0, 0, 0, 1, 0, 0, 0, 1, 0}
	for i, v := range vals {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(v))
	}

	got, err := readVec3Accessor(buf, doc, 0)
	if err != nil {
		t.Fatalf("readVec3Accessor: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 vectors, got %d", len(got))
	}
	if got[1].X != 1 || got[2].Y != 1 {
		t.Fatalf("unexpected decoded vectors: %+v", got)
	}
}

func TestReadVec3AccessorRejectsOutOfRangeAccessor(t *testing.T) {
	if _, err := readVec3Accessor(nil, Document{}, 0); err == nil {
		t.Fatal("expected error for out-of-range accessor index")
	}
}

func TestReadVec3AccessorRejectsShortBuffer(t *testing.T) {
	doc := Document{
		BufferViews: []BufferView{{Buffer: 0, ByteOffset: 0, ByteLength: 36}},
		Accessors:   []Accessor{{BufferView: 0, ComponentType: ComponentFloat, Count: 3, Type: "VEC3"}},
	}
	if _, err := readVec3Accessor(make([]byte, 10), doc, 0); err == nil {
		t.Fatal("expected error when buffer is shorter than accessor demands")
	}
}

func TestReadIndicesAccessorUpconvertsToUint32(t *testing.T) {
	doc := Document{
		BufferViews: []BufferView{{Buffer: 0, ByteOffset: 0, ByteLength: 6}},
		Accessors:   []Accessor{{BufferView: 0, ComponentType: ComponentUnsignedShort, Count: 3, Type: "SCALAR"}},
	}
	buf := make([]byte, 6)
	binary.LittleEndian.PutUint16(buf[0:2], 0)
	binary.LittleEndian.PutUint16(buf[2:4], 1)
	binary.LittleEndian.PutUint16(buf[4:6], 2)

	got, err := readIndicesAccessor(buf, doc, 0)
	if err != nil {
		t.Fatalf("readIndicesAccessor: %v", err)
	}
	want := []uint32{0, 1, 2}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("index %d: got %d want %d", i, got[i], want[i])
		}
	}
}

func TestReadIndicesAccessorRejectsNonScalarType(t *testing.T) {
	doc := Document{
		BufferViews: []BufferView{{Buffer: 0, ByteLength: 6}},
		Accessors:   []Accessor{{BufferView: 0, ComponentType: ComponentUnsignedShort, Count: 1, Type: "VEC3"}},
	}
	if _, err := readIndicesAccessor(make([]byte, 6), doc, 0); err == nil {
		t.Fatal("expected error for non-SCALAR indices accessor")
	}
}
