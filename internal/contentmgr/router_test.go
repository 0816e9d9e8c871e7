package contentmgr

import (
	"testing"

	"geostream/internal/gltfcontent"
	"geostream/internal/tileset"
)

type stubLoader struct {
	called bool
	err    error
}

func (s *stubLoader) Decode(tile tileset.Tile, body []byte) (tileset.Content, error) {
	s.called = true
	return tileset.Content{}, s.err
}

func TestRouterLoaderDispatchesByContentURISuffix(t *testing.T) {
	terrain := &stubLoader{}
	gltf := &stubLoader{}
	external := &stubLoader{}
	router := RouterLoader{Terrain: terrain, Gltf: gltf, External: external}

	cases := []struct {
		uri    string
		loader *stubLoader
	}{
		{"https://example.com/0/0/0.terrain", terrain},
		{"https://example.com/0/0/0.glb", gltf},
		{"https://example.com/sub/tileset.json", external},
	}
	for _, tc := range cases {
		terrain.called, gltf.called, external.called = false, false, false
		tile := tileset.Tile{ContentURI: tc.uri}
		if _, err := router.Decode(tile, nil); err != nil {
			t.Fatalf("unexpected error for %q: %v", tc.uri, err)
		}
		if !tc.loader.called {
			t.Fatalf("expected the matching loader to be called for %q", tc.uri)
		}
	}
}

func TestRouterLoaderRejectsUnknownSuffix(t *testing.T) {
	router := NewRouterLoader(gltfcontent.Loader{}, 200.0)
	_, err := router.Decode(tileset.Tile{ContentURI: "https://example.com/asset.unknown"}, nil)
	if err == nil {
		t.Fatal("expected an error for an unrecognised content URI suffix")
	}
}
