package gltfcontent

import (
	"testing"

	"geostream/internal/geomath"
)

func TestGenerateSmoothNormalsForSingleTriangle(t *testing.T) {
	positions := []geomath.Vec3{
		{X: 0, Y: 0, Z: 0},
		{X: 1, Y: 0, Z: 0},
		{X: 0, Y: 1, Z: 0},
	}
	indices := []uint32{0, 1, 2}

	normals := generateSmoothNormals(positions, indices)
	if len(normals) != 3 {
		t.Fatalf("expected 3 normals, got %d", len(normals))
	}
	for i, n := range normals {
		if n.Z <= 0 {
			t.Fatalf("normal %d expected to point toward +Z for this winding, got %+v", i, n)
		}
	}
}

func TestGenerateSmoothNormalsFallsBackForUnreferencedVertex(t *testing.T) {
	positions := []geomath.Vec3{
		{X: 0, Y: 0, Z: 0},
		{X: 1, Y: 0, Z: 0},
		{X: 0, Y: 1, Z: 0},
		{X: 5, Y: 5, Z: 5},
	}
	indices := []uint32{0, 1, 2}

	normals := generateSmoothNormals(positions, indices)
	if normals[3] != (geomath.Vec3{Z: 1}) {
		t.Fatalf("expected fallback unit-Z normal for unreferenced vertex, got %+v", normals[3])
	}
}
