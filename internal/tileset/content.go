package tileset

import "geostream/internal/geomath"

// ContentKind tags which variant a tile's Content holds: no content yet,
// a pointer to an external tileset.json to expand, or a renderable mesh.
// A tagged variant rather than subtype polymorphism, since the set of
// content kinds is closed and the content manager needs to switch on it.
type ContentKind int

const (
	ContentEmpty ContentKind = iota
	ContentExternalTileset
	ContentMesh
)

// RenderableMesh is the in-memory mesh graph produced by either the
// quantized-mesh decoder or the glTF content loader, generalised enough
// that the content manager does not need to know which loader produced
// it.
type RenderableMesh struct {
	Positions []geomath.Vec3
	Normals   []geomath.Vec3
	Indices   []uint32
	Transform geomath.Mat4

	// OverlayUVs maps an overlay accessor name (_CESIUMOVERLAY_<id>) to
	// its generated per-vertex UV coordinates.
	OverlayUVs map[string][]OverlayUV
}

// OverlayUV is a single generated texture coordinate pair.
type OverlayUV struct {
	U, V float64
}

// Content is the tagged union occupying a tile's content slot.
type Content struct {
	Kind ContentKind

	ExternalTilesetURL string
	Mesh               *RenderableMesh

	// UnconditionallyRefine marks external-tileset content that must
	// always be refined into its children regardless of geometric error,
	// set by the content manager once the external tileset loads.
	UnconditionallyRefine bool

	// Initializer, if set by the loader, runs once on the tile's
	// ContentLoaded -> Done transition, the "tile initialiser" closure
	// the content manager's update() drives post-load work through.
	Initializer func(*Tile)
}
