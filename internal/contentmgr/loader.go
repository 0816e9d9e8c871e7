package contentmgr

import (
	"fmt"

	"geostream/internal/geomath"
	"geostream/internal/quantizedmesh"
	"geostream/internal/tileset"
)

// ContentLoader turns a fetched tile payload into tile Content. Decoding
// is format-specific (quantized-mesh terrain, binary glTF, an external
// tileset.json); the manager itself stays agnostic of the wire format.
type ContentLoader interface {
	Decode(tile tileset.Tile, body []byte) (tileset.Content, error)
}

// QuantizedMeshLoader adapts the quantized-mesh terrain decoder to the
// ContentLoader contract, deriving the decoder's Options from the tile's
// own region bounding volume and quadtree level.
type QuantizedMeshLoader struct {
	SkirtHeightMeters float64
}

func (l QuantizedMeshLoader) Decode(tile tileset.Tile, body []byte) (tileset.Content, error) {
	bv := tile.BoundingVolume
	if bv.Kind != tileset.BoundingVolumeRegion {
		return tileset.Content{}, fmt.Errorf("quantized-mesh content requires a region bounding volume, got kind %d", bv.Kind)
	}

	mesh := quantizedmesh.Decode(body, quantizedmesh.Options{
		Rectangle:         bv.Rectangle,
		MinimumHeight:     bv.MinimumHeight,
		MaximumHeight:     bv.MaximumHeight,
		TileLevel:         int(tile.TileID.Level),
		SkirtHeightMeters: l.SkirtHeightMeters,
	})
	if mesh.Empty() {
		// A header too short to parse and a legitimately geometry-free
		// tile both decode to an empty mesh; either way the tile has
		// nothing to render, and the load-state invariant forbids a
		// ContentLoaded tile with an empty content slot, so this has to
		// surface as a decode failure rather than a quiet success.
		return tileset.Content{}, fmt.Errorf("quantized-mesh payload decoded to no geometry: %w", ErrMalformed)
	}

	// The decoder centres every position on the payload's own bounding
	// sphere centre (unknown until decode, so tile.Transform can't carry
	// it); re-add it here via the geocentric-to-Y-up node transform,
	// composed after the tile's own transform.
	nodeTransform := tile.Transform.Mul(geomath.GeocentricToYUp(mesh.BoundingSphereCenter))

	return tileset.Content{
		Kind: tileset.ContentMesh,
		Mesh: &tileset.RenderableMesh{
			Positions: mesh.Positions,
			Normals:   mesh.Normals,
			Indices:   mesh.Indices,
			Transform: nodeTransform,
		},
	}, nil
}

// ExternalTilesetLoader treats the payload as an opaque pointer to
// another tileset.json rather than decoding geometry: it records the
// tile's content URI and does not parse the payload or insert the
// referenced subtree into the arena.
type ExternalTilesetLoader struct{}

func (ExternalTilesetLoader) Decode(tile tileset.Tile, body []byte) (tileset.Content, error) {
	return tileset.Content{
		Kind:               tileset.ContentExternalTileset,
		ExternalTilesetURL: tile.ContentURI,
		// Marking UnconditionallyRefine is deferred to the tile
		// initialiser rather than set here directly, matching §4.6's
		// "update(tile) ... marks external-tileset tiles as
		// unconditionally-refined": it only takes effect once the tile
		// actually reaches Done, not merely ContentLoaded.
		Initializer: func(t *tileset.Tile) {
			t.Content.UnconditionallyRefine = true
		},
	}, nil
}
