package gltfcontent

import (
	"context"
	"testing"

	"geostream/internal/accessor"
)

func TestResolveExternalImagesFetchesNonDataURIsAndSkipsEmbedded(t *testing.T) {
	fake := &accessor.Fake{Responses: []accessor.Response{{Status: 200, Body: []byte("png-bytes")}}}
	doc := Document{Images: []Image{
		{URI: "texture.png", BufferView: -1},
		{URI: "data:image/png;base64,AAAA", BufferView: -1},
		{URI: "", BufferView: 0},
	}}

	if err := resolveExternalImages(context.Background(), fake, "https://example.com/tiles/tile.glb", doc); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(fake.Requests) != 1 {
		t.Fatalf("expected exactly 1 fetch (data: and embedded images skipped), got %d: %v", len(fake.Requests), fake.Requests)
	}
	if fake.Requests[0] != "https://example.com/tiles/texture.png" {
		t.Fatalf("unexpected resolved image URL: %q", fake.Requests[0])
	}
}

func TestResolveExternalImagesPropagatesFetchFailure(t *testing.T) {
	fake := &accessor.Fake{Responses: []accessor.Response{{Status: 404}}}
	doc := Document{Images: []Image{{URI: "missing.png", BufferView: -1}}}

	if err := resolveExternalImages(context.Background(), fake, "https://example.com/tile.glb", doc); err == nil {
		t.Fatal("expected an error for a 404 image fetch")
	}
}
