package tileset

import (
	"github.com/google/uuid"

	"geostream/internal/geomath"
)

// TileIDKind tags which identifier scheme a TileID uses.
type TileIDKind int

const (
	TileIDQuadtree TileIDKind = iota
	TileIDOctree
	TileIDOpaque
)

// TileID is a tile's identifier: a quadtree key, an octree key, or an
// opaque string, depending on the tileset format that produced it.
type TileID struct {
	Kind TileIDKind

	Level uint32
	X, Y  uint32
	Z     uint32 // octree only

	Opaque string
}

// RefinementPolicy controls how a tile relates to its children.
type RefinementPolicy int

const (
	// Replace means render children instead of this tile once they are
	// available.
	Replace RefinementPolicy = iota
	// Add means render this tile AND its children simultaneously.
	Add
)

// RendererResourceHandle is an opaque handle produced by the renderer
// preparer collaborator. The zero value (nil) represents "not yet
// prepared", and free() must tolerate receiving it for either phase.
type RendererResourceHandle any

// BoundOverlayTile attaches one raster overlay's tile to this geometry
// tile: which provider, which key in the overlay's own tiling scheme,
// and the sub-rectangle of the overlay that applies here.
type BoundOverlayTile struct {
	ProviderID string
	TileKey    string
	Rectangle  geomath.Rectangle
	Ready      bool
}

// SelectionRecord is the per-frame bookkeeping the selection traversal
// attaches to a tile; it is owned by the traversal, not by the tile's
// persistent state, and is overwritten every frame.
type SelectionRecord struct {
	FrameNumber   uint64
	Selected      bool
	DistanceToCam float64
	TaggedForLoad bool
}

// Tile is one node of the bounding-volume hierarchy.
type Tile struct {
	ID uuid.UUID

	TileID TileID

	Parent   uint32 // arena index; ParentNone if this is a root
	Children []uint32

	BoundingVolume        BoundingVolume
	ContentBoundingVolume *BoundingVolume // tighter volume around content, if any
	ViewerRequestVolume   *BoundingVolume // tile only considered when camera is inside

	GeometricError   float64
	Refine           RefinementPolicy
	Transform        geomath.Mat4 // pre-composed with parent's transform

	// ContentURI is the URL or resolved URI template this tile's content
	// should be fetched from. Empty for tiles with no content (e.g. a
	// purely structural node whose children carry the geometry).
	ContentURI string

	State   LoadState
	Content Content

	WorkerResourceHandle RendererResourceHandle
	MainResourceHandle   RendererResourceHandle

	Selection SelectionRecord
	Overlays  []BoundOverlayTile
}

// ParentNone marks a tile with no parent (a tree root).
const ParentNone = ^uint32(0)

// NewTile constructs a tile in the Unloaded state with an identity
// content slot, ready to be inserted into an Arena.
func NewTile(id TileID, bv BoundingVolume, geometricError float64, refine RefinementPolicy, transform geomath.Mat4) Tile {
	return Tile{
		ID:             uuid.New(),
		TileID:         id,
		Parent:         ParentNone,
		BoundingVolume: bv,
		GeometricError: geometricError,
		Refine:         refine,
		Transform:      transform,
		State:          Unloaded,
	}
}
