package renderer

import (
	"testing"

	"geostream/internal/tileset"
)

func TestNoOpFreeToleratesNilHandles(t *testing.T) {
	var p NoOp
	tile := &tileset.Tile{}

	// Must not panic when one or both handles are nil, since a tile can
	// be unloaded before one of the two prepare phases ever ran.
	p.Free(tile, nil, nil)

	h, err := p.PrepareInWorker(&tileset.RenderableMesh{}, [16]float64{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	p.Free(tile, h, nil)

	main, err := p.PrepareInMain(tile, h)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	p.Free(tile, h, main)
}
