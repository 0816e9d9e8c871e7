// Package selection implements the per-frame bounding-volume-hierarchy
// traversal: given a camera, decide which tiles to render this frame and
// which tiles need a content load, back-pressured to a fixed budget so a
// sudden camera cut does not tag the whole tree for loading at once.
package selection

import (
	"math"

	"geostream/internal/geomath"
	"geostream/internal/tileset"
	"geostream/internal/util"
)

// Camera is the minimal per-frame viewing state the traversal needs to
// rank tiles by screen-space error.
type Camera struct {
	Position         geomath.Vec3
	ViewportHeightPx float64
	FOVYRadians      float64
}

// Options tunes the traversal.
type Options struct {
	MaximumScreenSpaceError float64
	MaxLoadsPerFrame        int
}

// Result is one frame's traversal outcome.
type Result struct {
	Selected  []uint32 // arena indices to render this frame
	LoadQueue []uint32 // arena indices tagged for load this frame, capped to MaxLoadsPerFrame
}

// Traversal walks an Arena's tree, ranking tiles by screen-space error.
type Traversal struct {
	arena *tileset.Arena
	opts  Options
}

// NewTraversal returns a Traversal over arena.
func NewTraversal(arena *tileset.Arena, opts Options) *Traversal {
	if opts.MaximumScreenSpaceError <= 0 {
		opts.MaximumScreenSpaceError = 16
	}
	if opts.MaxLoadsPerFrame <= 0 {
		opts.MaxLoadsPerFrame = 6
	}
	return &Traversal{arena: arena, opts: opts}
}

// Select walks the tree rooted at rootIdx and returns the tiles to
// render this frame plus, capped at MaxLoadsPerFrame, the tiles that
// should have Load called on them.
func (t *Traversal) Select(rootIdx uint32, cam Camera, frame uint64) Result {
	loadQueue := util.NewUniqueQueue[uint32, struct{}]()
	var selected []uint32

	t.visit(rootIdx, cam, frame, loadQueue, &selected)

	out := Result{Selected: selected}
	for loadQueue.Len() > 0 && len(out.LoadQueue) < t.opts.MaxLoadsPerFrame {
		idx, _, ok := loadQueue.Dequeue()
		if !ok {
			break
		}
		out.LoadQueue = append(out.LoadQueue, idx)
	}
	return out
}

func (t *Traversal) visit(idx uint32, cam Camera, frame uint64, loadQueue *util.UniqueQueue[uint32, struct{}], selected *[]uint32) {
	tile, ok := t.arena.Get(idx)
	if !ok {
		return
	}

	if tile.ViewerRequestVolume != nil && !tile.ViewerRequestVolume.ContainsPoint(cam.Position) {
		// A tile gated by a viewer-request volume is not considered at
		// all while the camera sits outside it: not selected, not
		// tagged for load, and its children are not visited either.
		return
	}

	distance := tile.BoundingVolume.DistanceToCamera(cam.Position)
	sse := screenSpaceError(tile.GeometricError, distance, cam)

	_ = t.arena.Mutate(idx, func(tl *tileset.Tile) {
		tl.Selection = tileset.SelectionRecord{FrameNumber: frame, DistanceToCam: distance}
	})

	// An external-tileset tile's content is a pointer to its inserted
	// subtree, not renderable geometry of its own: once Update has marked
	// it unconditionally-refined (§4.6), it always refines into its
	// children regardless of screen-space error.
	needsRefinement := len(tile.Children) > 0 && (tile.Content.UnconditionallyRefine || sse > t.opts.MaximumScreenSpaceError)
	if !needsRefinement {
		t.markSelected(idx, tile, loadQueue, selected)
		return
	}

	if tile.Refine == tileset.Add {
		// Additive refinement renders this tile alongside its children,
		// unlike Replace where the children supersede it once ready.
		t.markSelected(idx, tile, loadQueue, selected)
	}

	allChildrenReady := true
	for _, childIdx := range tile.Children {
		child, ok := t.arena.Get(childIdx)
		// A child with no content of its own (a purely structural node)
		// never blocks the placeholder, since it has nothing to load and
		// PermitsContentAccess() would never become true for it. A child
		// that does have content is ready only once its state actually
		// permits reading that content; Content.Kind alone can't tell
		// "nothing to load" apart from "not loaded yet", since both sit
		// at ContentEmpty before the first load completes.
		if ok && child.ContentURI != "" && !child.State.PermitsContentAccess() {
			allChildrenReady = false
		}
		t.visit(childIdx, cam, frame, loadQueue, selected)
	}

	if tile.Refine == tileset.Replace && !allChildrenReady {
		// Children aren't all ready; keep rendering this tile as a
		// placeholder so refinement never leaves a visible hole.
		t.markSelected(idx, tile, loadQueue, selected)
	}
}

func (t *Traversal) markSelected(idx uint32, tile tileset.Tile, loadQueue *util.UniqueQueue[uint32, struct{}], selected *[]uint32) {
	*selected = append(*selected, idx)
	if tile.State.CanInitiateLoad() {
		loadQueue.Enqueue(idx, struct{}{})
	}
}

// screenSpaceError estimates the projected error in pixels a tile's
// geometric error would introduce at distance, given the camera's
// vertical field of view and viewport height. A camera positioned
// inside the bounding volume (distance 0) always demands maximum
// refinement rather than dividing by zero.
func screenSpaceError(geometricError, distance float64, cam Camera) float64 {
	if distance <= 0 {
		return math.MaxFloat64
	}
	sseDenominator := 2 * math.Tan(cam.FOVYRadians/2)
	if sseDenominator <= 0 || cam.ViewportHeightPx <= 0 {
		return 0
	}
	return (geometricError * cam.ViewportHeightPx) / (distance * sseDenominator)
}
