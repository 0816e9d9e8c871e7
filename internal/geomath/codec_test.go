package geomath

import "testing"

func TestZigZagDecode(t *testing.T) {
	codes := []uint16{0, 2, 1, 4}
	wantDeltas := []int32{0, 1, -1, 2}
	wantCumulative := []int32{0, 1, 0, 2}

	var cumulative int32
	for i, code := range codes {
		delta := ZigZagDecode(code)
		if delta != wantDeltas[i] {
			t.Errorf("ZigZagDecode(%d) = %d, want %d", code, delta, wantDeltas[i])
		}
		cumulative += delta
		if cumulative != wantCumulative[i] {
			t.Errorf("cumulative[%d] = %d, want %d", i, cumulative, wantCumulative[i])
		}
	}
}

func TestOctDecodeRoundTripsUnitVectors(t *testing.T) {
	tests := []struct {
		x, y uint8
	}{
		{127, 127},
		{0, 0},
		{255, 255},
		{255, 0},
		{0, 255},
	}
	for _, tt := range tests {
		v := OctDecode(tt.x, tt.y)
		length := v.Length()
		if length < 0.99 || length > 1.01 {
			t.Errorf("OctDecode(%d,%d) length = %f, want ~1.0", tt.x, tt.y, length)
		}
	}
}

func TestLerp(t *testing.T) {
	if got := Lerp(0, 10, 0.5); got != 5 {
		t.Errorf("Lerp(0,10,0.5) = %f, want 5", got)
	}
	if got := Lerp(-1, 1, 0); got != -1 {
		t.Errorf("Lerp(-1,1,0) = %f, want -1", got)
	}
}
