package gltfcontent

import (
	"context"
	"fmt"

	"geostream/internal/accessor"
	"geostream/internal/geomath"
	"geostream/internal/overlay"
	"geostream/internal/tileset"
)

// Loader implements the content manager's ContentLoader contract for
// binary glTF tile content. Accessor is optional; when nil, external
// buffer/image URIs are left unresolved and any primitive depending on
// one fails to decode rather than silently dropping geometry.
type Loader struct {
	Reader   Reader
	Accessor accessor.AssetAccessor
}

func (l Loader) Decode(tile tileset.Tile, body []byte) (tileset.Content, error) {
	container, err := decodeGLB(body)
	if err != nil {
		return tileset.Content{}, err
	}

	reader := l.Reader
	if reader == nil {
		reader = JSONReader{}
	}
	doc, err := reader.ReadDocument(container.JSON)
	if err != nil {
		return tileset.Content{}, fmt.Errorf("parse gltf document: %w", err)
	}

	buffers := make([][]byte, len(doc.Buffers))
	for i, b := range doc.Buffers {
		if b.URI == "" {
			buffers[i] = container.BIN
		}
	}
	if l.Accessor != nil {
		external, err := resolveExternalBuffers(context.Background(), l.Accessor, tile.ContentURI, doc)
		if err != nil {
			return tileset.Content{}, fmt.Errorf("resolve external gltf buffers: %w", err)
		}
		for i, data := range external {
			if data != nil {
				buffers[i] = data
			}
		}
		if err := resolveExternalImages(context.Background(), l.Accessor, tile.ContentURI, doc); err != nil {
			return tileset.Content{}, fmt.Errorf("resolve external gltf images: %w", err)
		}
	}

	var positions, normals []geomath.Vec3
	var indices []uint32
	overlayUVs := make(map[string][]tileset.OverlayUV)
	overlayGen := overlay.NewGenerator()

	for _, mesh := range doc.Meshes {
		for _, prim := range mesh.Primitives {
			posBuf, err := bufferForAccessor(doc, buffers, prim.PositionAccessor)
			if err != nil {
				return tileset.Content{}, fmt.Errorf("primitive position buffer: %w", err)
			}
			primPositions, err := readVec3Accessor(posBuf, doc, prim.PositionAccessor)
			if err != nil {
				return tileset.Content{}, fmt.Errorf("decode primitive positions: %w", err)
			}

			for _, bound := range tile.Overlays {
				if !bound.Ready {
					continue
				}
				accessorName := "_CESIUMOVERLAY_" + bound.ProviderID
				// The Generator's own cache keys on accessor+overlay, so
				// a POSITION accessor shared by multiple primitives (and
				// bound to the same overlay) only has its UVs computed
				// once, per §4.4.
				cacheKey := fmt.Sprintf("%s:%d", bound.ProviderID, prim.PositionAccessor)
				uvs := overlayGen.Generate(cacheKey, primPositions, tile.Transform, bound.Rectangle, overlay.GeographicProjection{})
				overlayUVs[accessorName] = append(overlayUVs[accessorName], uvs...)
			}

			var primIndices []uint32
			if prim.IndicesAccessor >= 0 {
				idxBuf, err := bufferForAccessor(doc, buffers, prim.IndicesAccessor)
				if err != nil {
					return tileset.Content{}, fmt.Errorf("primitive indices buffer: %w", err)
				}
				primIndices, err = readIndicesAccessor(idxBuf, doc, prim.IndicesAccessor)
				if err != nil {
					return tileset.Content{}, fmt.Errorf("decode primitive indices: %w", err)
				}
			} else {
				primIndices = sequentialIndices(len(primPositions))
			}

			var primNormals []geomath.Vec3
			if prim.NormalAccessor >= 0 {
				normBuf, err := bufferForAccessor(doc, buffers, prim.NormalAccessor)
				if err != nil {
					return tileset.Content{}, fmt.Errorf("primitive normal buffer: %w", err)
				}
				primNormals, err = readVec3Accessor(normBuf, doc, prim.NormalAccessor)
				if err != nil {
					return tileset.Content{}, fmt.Errorf("decode primitive normals: %w", err)
				}
			} else {
				primNormals = generateSmoothNormals(primPositions, primIndices)
			}

			base := uint32(len(positions))
			positions = append(positions, primPositions...)
			normals = append(normals, primNormals...)
			for _, idx := range primIndices {
				indices = append(indices, base+idx)
			}
		}
	}

	if len(positions) == 0 {
		return tileset.Content{Kind: tileset.ContentEmpty}, nil
	}
	if len(overlayUVs) == 0 {
		overlayUVs = nil
	}

	return tileset.Content{
		Kind: tileset.ContentMesh,
		Mesh: &tileset.RenderableMesh{
			Positions:  positions,
			Normals:    normals,
			Indices:    indices,
			Transform:  tile.Transform,
			OverlayUVs: overlayUVs,
		},
	}, nil
}

func bufferForAccessor(doc Document, buffers [][]byte, accessorIndex int) ([]byte, error) {
	if accessorIndex < 0 || accessorIndex >= len(doc.Accessors) {
		return nil, fmt.Errorf("accessor %d out of range", accessorIndex)
	}
	acc := doc.Accessors[accessorIndex]
	if acc.BufferView < 0 || acc.BufferView >= len(doc.BufferViews) {
		return nil, fmt.Errorf("accessor %d has no bufferView", accessorIndex)
	}
	bufIdx := doc.BufferViews[acc.BufferView].Buffer
	if bufIdx < 0 || bufIdx >= len(buffers) || buffers[bufIdx] == nil {
		return nil, fmt.Errorf("buffer %d unresolved", bufIdx)
	}
	return buffers[bufIdx], nil
}

func sequentialIndices(n int) []uint32 {
	out := make([]uint32, n)
	for i := range out {
		out[i] = uint32(i)
	}
	return out
}
