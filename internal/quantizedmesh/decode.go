package quantizedmesh

import "geostream/internal/geomath"

// DefaultSkirtHeightMeters is the format's own constant skirt height; the
// content manager may override it from configuration for testing.
const DefaultSkirtHeightMeters = 200.0

// Options carries the per-tile context the decoder needs beyond the raw
// bytes: the geodetic rectangle and height range used to reconstruct
// cartographic positions, the tile's quadtree level (for child
// availability ranges), and an optional skirt height override.
type Options struct {
	Rectangle      geomath.Rectangle
	MinimumHeight  float64
	MaximumHeight  float64
	TileLevel      int
	SkirtHeightMeters float64
}

// Decode parses a quantized-mesh payload into a Mesh. Any truncation or
// malformation at any point yields an empty, non-fatal Mesh rather than
// an error: per the format's error-handling policy, a bad payload simply
// produces no geometry for this tile, it does not abort the caller.
func Decode(payload []byte, opts Options) Mesh {
	skirtHeight := opts.SkirtHeightMeters
	if skirtHeight <= 0 {
		skirtHeight = DefaultSkirtHeightMeters
	}

	header, ok := decodeHeader(payload)
	if !ok {
		return Mesh{}
	}

	c := newCursor(payload[HeaderSizeBytes:])

	positions, us, vs, minPos, maxPos, ok := decodeVertices(
		c, header.VertexCount, opts.Rectangle, opts.MinimumHeight, opts.MaximumHeight, header.BoundingSphereCenter,
	)
	if !ok {
		return Mesh{}
	}

	triangleCount := c.u32()
	if !c.ok {
		return Mesh{}
	}
	indices := decodeIndices(c, int(triangleCount)*3, header.VertexCount)
	if !c.ok {
		return Mesh{}
	}

	west := decodeEdgeIndices(c, header.VertexCount)
	south := decodeEdgeIndices(c, header.VertexCount)
	east := decodeEdgeIndices(c, header.VertexCount)
	north := decodeEdgeIndices(c, header.VertexCount)
	if !c.ok {
		return Mesh{}
	}

	positions, indices = addSkirt(edgeWest, west, us, vs, positions, header.Center, skirtHeight, indices)
	positions, indices = addSkirt(edgeSouth, south, us, vs, positions, header.Center, skirtHeight, indices)
	positions, indices = addSkirt(edgeEast, east, us, vs, positions, header.Center, skirtHeight, indices)
	positions, indices = addSkirt(edgeNorth, north, us, vs, positions, header.Center, skirtHeight, indices)

	normals, availability := decodeExtensions(c, header.VertexCount, opts.TileLevel)

	return Mesh{
		Positions:            positions,
		Normals:              normals,
		Indices:              indices,
		BoundingSphereCenter: header.BoundingSphereCenter,
		BoundingSphereRadius: header.BoundingSphereRadius,
		MinimumHeight:        float64(header.MinimumHeight),
		MaximumHeight:        float64(header.MaximumHeight),
		MinPosition:          minPos,
		MaxPosition:          maxPos,
		ChildAvailability:    availability,
	}
}
