package contentmgr

import (
	"fmt"
	"strings"

	"geostream/internal/gltfcontent"
	"geostream/internal/tileset"
)

// RouterLoader dispatches Decode to one of several format-specific
// loaders by the fetched tile's content URI suffix, so a single Manager
// can serve a tileset that mixes quantized-mesh terrain, binary glTF
// tile content, and external tileset.json pointers, the same mixed-format
// tree a real Cesium ion 3D Tiles tileset presents.
type RouterLoader struct {
	Terrain  ContentLoader // handles ".terrain"
	Gltf     ContentLoader // handles ".glb", ".gltf"
	External ContentLoader // handles ".json"
}

// NewRouterLoader returns a RouterLoader with the standard three
// sub-loaders wired: quantized-mesh terrain, binary glTF, and external
// tileset expansion.
func NewRouterLoader(gltf gltfcontent.Loader, skirtHeightMeters float64) RouterLoader {
	return RouterLoader{
		Terrain:  QuantizedMeshLoader{SkirtHeightMeters: skirtHeightMeters},
		Gltf:     gltf,
		External: ExternalTilesetLoader{},
	}
}

func (r RouterLoader) Decode(tile tileset.Tile, body []byte) (tileset.Content, error) {
	switch {
	case strings.HasSuffix(tile.ContentURI, ".terrain"):
		return r.Terrain.Decode(tile, body)
	case strings.HasSuffix(tile.ContentURI, ".glb"), strings.HasSuffix(tile.ContentURI, ".gltf"):
		return r.Gltf.Decode(tile, body)
	case strings.HasSuffix(tile.ContentURI, ".json"):
		return r.External.Decode(tile, body)
	default:
		return tileset.Content{}, fmt.Errorf("router loader: no loader for content URI %q", tile.ContentURI)
	}
}
