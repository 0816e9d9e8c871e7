package gltfcontent

import (
	"encoding/binary"
	"math"
	"testing"

	"geostream/internal/geomath"
	"geostream/internal/tileset"
)

// buildQuadGLB builds a minimal .glb payload for a single-primitive,
// non-indexed-normal quad: 4 positions (48 bytes) followed by 6
// uint16 indices (12 bytes) in one packed BIN buffer, with no NORMAL
// accessor so the loader must generate smooth normals itself.
func buildQuadGLB() []byte {
	positions := []float32{
		0, 0, 0,
		1, 0, 0,
		1, 1, 0,
		0, 1, 0,
	}
	bin := make([]byte, 0, 60)
	for _, v := range positions {
		b := make([]byte, 4)
		binary.LittleEndian.PutUint32(b, math.Float32bits(v))
		bin = append(bin, b...)
	}
	indices := []uint16{0, 1, 2, 0, 2, 3}
	for _, v := range indices {
		b := make([]byte, 2)
		binary.LittleEndian.PutUint16(b, v)
		bin = append(bin, b...)
	}

	json := `{` +
		`"buffers":[{"byteLength":60}],` +
		`"bufferViews":[{"buffer":0,"byteOffset":0,"byteLength":48},{"buffer":0,"byteOffset":48,"byteLength":12}],` +
		`"accessors":[` +
		`{"bufferView":0,"byteOffset":0,"componentType":5126,"count":4,"type":"VEC3"},` +
		`{"bufferView":1,"byteOffset":0,"componentType":5123,"count":6,"type":"SCALAR"}` +
		`],` +
		`"meshes":[{"primitives":[{"attributes":{"POSITION":0},"indices":1}]}]` +
		`}`

	return buildGLB([]byte(json), bin)
}

func TestLoaderDecodesEmbeddedPrimitiveWithGeneratedNormals(t *testing.T) {
	payload := buildQuadGLB()
	tile := tileset.Tile{ContentURI: "https://example.com/tile.glb", Transform: geomath.Identity4()}

	content, err := Loader{}.Decode(tile, payload)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if content.Kind != tileset.ContentMesh {
		t.Fatalf("expected ContentMesh, got kind %v", content.Kind)
	}
	if len(content.Mesh.Positions) != 4 {
		t.Fatalf("expected 4 positions, got %d", len(content.Mesh.Positions))
	}
	if len(content.Mesh.Indices) != 6 {
		t.Fatalf("expected 6 indices, got %d", len(content.Mesh.Indices))
	}
	if len(content.Mesh.Normals) != 4 {
		t.Fatalf("expected 4 generated normals, got %d", len(content.Mesh.Normals))
	}
	for i, n := range content.Mesh.Normals {
		if n.Z <= 0 {
			t.Fatalf("normal %d expected +Z for this flat quad, got %+v", i, n)
		}
	}
}

func TestLoaderGeneratesOverlayUVsForBoundReadyOverlay(t *testing.T) {
	payload := buildQuadGLB()
	tile := tileset.Tile{
		ContentURI: "https://example.com/tile.glb",
		Transform:  geomath.Identity4(),
		Overlays: []tileset.BoundOverlayTile{
			{
				ProviderID: "imagery",
				TileKey:    "2/1/1",
				Rectangle:  geomath.NewRectangle(-1, -1, 1, 1),
				Ready:      true,
			},
			{
				ProviderID: "basemap",
				TileKey:    "2/1/1",
				Rectangle:  geomath.NewRectangle(-1, -1, 1, 1),
				Ready:      false, // not ready yet: must not produce UVs
			},
		},
	}

	content, err := Loader{}.Decode(tile, payload)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	uvs, ok := content.Mesh.OverlayUVs["_CESIUMOVERLAY_imagery"]
	if !ok {
		t.Fatal("expected a _CESIUMOVERLAY_imagery UV accessor for the ready overlay")
	}
	if len(uvs) != len(content.Mesh.Positions) {
		t.Fatalf("expected one UV per position, got %d UVs for %d positions", len(uvs), len(content.Mesh.Positions))
	}
	for _, uv := range uvs {
		if uv.U < 0 || uv.U > 1 || uv.V < 0 || uv.V > 1 {
			t.Fatalf("expected UV clamped into [0,1], got %+v", uv)
		}
	}

	if _, ok := content.Mesh.OverlayUVs["_CESIUMOVERLAY_basemap"]; ok {
		t.Fatal("expected no UV accessor for an overlay not yet Ready")
	}
}

func TestLoaderRejectsNonGLBPayload(t *testing.T) {
	tile := tileset.Tile{ContentURI: "https://example.com/tile.glb"}
	if _, err := (Loader{}).Decode(tile, []byte("not a glb")); err == nil {
		t.Fatal("expected error for non-glb payload")
	}
}
