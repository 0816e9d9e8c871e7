package quantizedmesh

import (
	"testing"

	"geostream/internal/geomath"
)

func TestAddSkirtAppendsDisplacedVerticesAndTriangles(t *testing.T) {
	positions := []geomath.Vec3{
		{X: 0, Y: 0, Z: 6378137},
		{X: 100, Y: 0, Z: 6378137},
		{X: 200, Y: 0, Z: 6378137},
	}
	us := []uint16{0, 100, 200}
	vs := []uint16{0, 10, 20}
	center := geomath.Vec3{X: 100, Y: 0, Z: 6378137}
	edge := []uint32{0, 1, 2}

	positions, indices := addSkirt(edgeWest, edge, us, vs, positions, center, 200.0, nil)

	if len(positions) != 6 {
		t.Fatalf("got %d positions, want 6 (3 original + 3 skirt)", len(positions))
	}
	// 2 adjacent pairs among 3 sorted vertices -> 2 quads -> 4 triangles -> 12 indices.
	if len(indices) != 12 {
		t.Fatalf("got %d indices, want 12 (2 quads * 2 triangles * 3 indices)", len(indices))
	}
	for _, idx := range indices {
		if int(idx) >= len(positions) {
			t.Errorf("index %d out of range for %d positions", idx, len(positions))
		}
	}
}

func TestAddSkirtNoOpOnFewerThanTwoVertices(t *testing.T) {
	positions := []geomath.Vec3{{X: 0, Y: 0, Z: 0}}
	out, indices := addSkirt(edgeWest, []uint32{0}, []uint16{0}, []uint16{0}, positions, geomath.Vec3{}, 200.0, nil)
	if len(out) != 1 {
		t.Errorf("expected no new vertices for a single-vertex edge, got %d", len(out))
	}
	if len(indices) != 0 {
		t.Errorf("expected no new indices, got %d", len(indices))
	}
}
