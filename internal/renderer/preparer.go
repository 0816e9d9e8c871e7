// Package renderer defines the narrow "prepare resources" collaborator
// the content manager hands off to: render-engine binding itself is out
// of scope, so this package only describes the interface and ships a
// no-op implementation for exercising the content manager's state
// machine without a GPU.
package renderer

import (
	"geostream/internal/tileset"
)

// Preparer uploads a decoded mesh to the renderer, in two phases: a
// worker-thread phase (building whatever vertex/index buffer layout the
// renderer wants, off the main lane) and a main-thread phase (handing
// those buffers to the graphics API, which on most backends is not safe
// to do off the main thread). Free must tolerate a nil handle for either
// phase, since a tile can be unloaded before one of the two phases ever
// ran.
type Preparer interface {
	PrepareInWorker(mesh *tileset.RenderableMesh, transform [16]float64) (workerHandle tileset.RendererResourceHandle, err error)
	PrepareInMain(tile *tileset.Tile, workerHandle tileset.RendererResourceHandle) (mainHandle tileset.RendererResourceHandle, err error)
	Free(tile *tileset.Tile, workerHandle, mainHandle tileset.RendererResourceHandle)
}

// NoOp is a Preparer that does nothing and returns a synthetic handle,
// grounded conceptually on the teacher's renderer's upload/unload
// lifecycle (cliente/internal/render/renderer.go's UploadResult/Unload)
// without reusing any of its raylib/cgo internals, since no concrete
// GPU binding is in scope here.
type NoOp struct{}

type noOpHandle struct{ prepared bool }

func (NoOp) PrepareInWorker(mesh *tileset.RenderableMesh, transform [16]float64) (tileset.RendererResourceHandle, error) {
	return noOpHandle{prepared: true}, nil
}

func (NoOp) PrepareInMain(tile *tileset.Tile, workerHandle tileset.RendererResourceHandle) (tileset.RendererResourceHandle, error) {
	return noOpHandle{prepared: true}, nil
}

func (NoOp) Free(tile *tileset.Tile, workerHandle, mainHandle tileset.RendererResourceHandle) {
	// Nothing to release; accepts nil handles for either phase.
}
