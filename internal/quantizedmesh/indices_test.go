package quantizedmesh

import "testing"

func TestDecodeIndicesHighWaterMark(t *testing.T) {
	// codes [0,0,2,1] against the high-water-mark rule in §4.2:
	// highest starts at 0, each code emits highest-code, and a code of
	// exactly 0 bumps highest afterwards.
	buf := []byte{
		0, 0, // code 0
		0, 0, // code 0
		2, 0, // code 2
		1, 0, // code 1
	}
	c := newCursor(buf)
	got := decodeIndices(c, 4, 100)
	want := []uint32{0, 1, 0, 1}
	if !c.ok {
		t.Fatalf("decode failed unexpectedly")
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("decoded[%d] = %d, want %d", i, got[i], want[i])
		}
	}
}

func TestDecodeIndicesTruncatedReturnsNil(t *testing.T) {
	buf := []byte{0, 0, 1} // second code truncated
	c := newCursor(buf)
	got := decodeIndices(c, 2, 100)
	if got != nil {
		t.Errorf("expected nil on truncated input, got %v", got)
	}
	if c.ok {
		t.Errorf("expected cursor to be marked !ok after truncated read")
	}
}

func TestDecodeIndicesWideUsesU32AndAligns(t *testing.T) {
	// vertexCount > 65536 selects u32 codes and requires 4-byte alignment
	// first; pos starts at 2 (odd relative to 4), so align4 should skip 2
	// bytes before reading codes.
	buf := []byte{
		0xAA, 0xAA, // 2 bytes already consumed before this buffer by caller
		0, 0, // padding skipped by align4
		5, 0, 0, 0, // u32 code = 5
	}
	c := newCursor(buf)
	c.skip(2) // simulate 2 bytes already read elsewhere
	got := decodeIndices(c, 1, 70000)
	if !c.ok {
		t.Fatalf("decode failed unexpectedly")
	}
	five := int32(5)
	want := uint32(-five)
	if len(got) != 1 || got[0] != want {
		t.Errorf("got %v, want [%d]", got, want)
	}
}

func TestDecodeEdgeIndices(t *testing.T) {
	buf := []byte{
		3, 0, 0, 0, // count = 3
		1, 0,
		2, 0,
		3, 0,
	}
	c := newCursor(buf)
	got := decodeEdgeIndices(c, 100)
	want := []uint32{1, 2, 3}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("edge[%d] = %d, want %d", i, got[i], want[i])
		}
	}
}
