package overlay

import (
	"math"
	"sync"

	"geostream/internal/geomath"
	"geostream/internal/tileset"
)

// GenerateTextureCoordinates computes one UV pair per position for a
// single raster overlay: transform tile-local position to geocentric
// using the tile's accumulated transform, invert to cartographic, retry
// the inversion's antimeridian wrap if the point falls outside rect,
// project into rect, and clamp into [0,1] since a tile straddling the
// overlay's edge will always produce some vertices that fall just
// outside it.
func GenerateTextureCoordinates(positions []geomath.Vec3, transform geomath.Mat4, rect geomath.Rectangle, projection Projection) []tileset.OverlayUV {
	out := make([]tileset.OverlayUV, len(positions))
	for i, pos := range positions {
		c := cartographicForPosition(transform.TransformPoint(pos))
		c = bestWrappedCartographic(c, rect)
		u, v := projection.Project(c, rect)
		out[i] = tileset.OverlayUV{U: clamp01(u), V: clamp01(v)}
	}
	return out
}

func cartographicForPosition(pos geomath.Vec3) geomath.Cartographic {
	c, ok := geomath.WGS84.CartesianToCartographic(pos)
	if !ok {
		return geomath.Cartographic{}
	}
	return c
}

// bestWrappedCartographic retries the antimeridian-adjacent longitudes
// (lon +/- 2pi) when c falls outside rect, and keeps whichever of the
// three candidates rect.SignedDistance ranks closest to being inside.
// A tile whose geometry crosses the overlay's own antimeridian seam
// would otherwise have half its vertices project to the wrong edge.
func bestWrappedCartographic(c geomath.Cartographic, rect geomath.Rectangle) geomath.Cartographic {
	if rect.Contains(c.Longitude, c.Latitude) {
		return c
	}

	const twoPi = 2 * math.Pi
	plus := c
	plus.Longitude += twoPi
	minus := c
	minus.Longitude -= twoPi

	best := c
	bestDist := rect.SignedDistance(c.Longitude, c.Latitude)
	for _, candidate := range [2]geomath.Cartographic{plus, minus} {
		if d := rect.SignedDistance(candidate.Longitude, candidate.Latitude); d < bestDist {
			best, bestDist = candidate, d
		}
	}
	return best
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}

// Generator caches generated UVs by a caller-chosen key. The glTF loader
// keys it by overlay provider and POSITION accessor, so primitives that
// share an accessor pay for UV generation once per overlay rather than
// once per primitive.
type Generator struct {
	mu    sync.Mutex
	cache map[string][]tileset.OverlayUV
}

// NewGenerator returns an empty Generator.
func NewGenerator() *Generator {
	return &Generator{cache: make(map[string][]tileset.OverlayUV)}
}

// Generate returns the cached UVs for accessorKey if already computed,
// otherwise computes, caches, and returns them.
func (g *Generator) Generate(accessorKey string, positions []geomath.Vec3, transform geomath.Mat4, rect geomath.Rectangle, projection Projection) []tileset.OverlayUV {
	g.mu.Lock()
	defer g.mu.Unlock()
	if cached, ok := g.cache[accessorKey]; ok {
		return cached
	}
	uvs := GenerateTextureCoordinates(positions, transform, rect, projection)
	g.cache[accessorKey] = uvs
	return uvs
}
