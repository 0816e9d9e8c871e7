package tilesetjson

import (
	"net/url"

	"geostream/internal/geomath"
	"geostream/internal/tileset"
)

// BuildArena inserts doc's tile tree into arena, resolving every
// content.uri against baseURL, and returns the root tile's arena index.
// Refine is inherited from the nearest ancestor that sets it, matching
// the format's own inheritance rule; a document with no refine anywhere
// defaults to Replace.
func BuildArena(arena *tileset.Arena, doc Document, baseURL string) uint32 {
	return insertTile(arena, doc.Root, baseURL, tileset.ParentNone, tileset.Replace, geomath.Identity4())
}

func insertTile(arena *tileset.Arena, t TileJSON, baseURL string, parent uint32, inheritedRefine tileset.RefinementPolicy, parentTransform geomath.Mat4) uint32 {
	refine := inheritedRefine
	switch t.Refine {
	case "ADD":
		refine = tileset.Add
	case "REPLACE":
		refine = tileset.Replace
	}

	localTransform := geomath.Identity4()
	if t.Transform != nil {
		localTransform = columnMajorToMat4(*t.Transform)
	}
	transform := parentTransform.Mul(localTransform)

	tile := tileset.NewTile(
		tileset.TileID{Kind: tileset.TileIDOpaque},
		decodeBoundingVolume(t.BoundingVolume),
		t.GeometricError,
		refine,
		transform,
	)
	tile.Parent = parent
	if t.Content != nil && t.Content.URI != "" {
		tile.ContentURI = resolveRelative(baseURL, t.Content.URI)
	}

	idx := arena.Add(tile)

	for _, child := range t.Children {
		insertTile(arena, child, baseURL, idx, refine, transform)
	}
	return idx
}

func decodeBoundingVolume(bv BoundingVolumeJSON) tileset.BoundingVolume {
	switch {
	case bv.Region != nil:
		r := *bv.Region
		rect := geomath.NewRectangle(r[0], r[1], r[2], r[3])
		return tileset.NewRegion(rect, r[4], r[5])
	case bv.Sphere != nil:
		s := *bv.Sphere
		return tileset.NewSphere(geomath.Vec3{X: s[0], Y: s[1], Z: s[2]}, s[3])
	case bv.Box != nil:
		b := *bv.Box
		center := geomath.Vec3{X: b[0], Y: b[1], Z: b[2]}
		halfAxes := [3]geomath.Vec3{
			{X: b[3], Y: b[4], Z: b[5]},
			{X: b[6], Y: b[7], Z: b[8]},
			{X: b[9], Y: b[10], Z: b[11]},
		}
		return tileset.NewOrientedBox(center, halfAxes)
	default:
		return tileset.BoundingVolume{}
	}
}

// columnMajorToMat4 transposes the format's column-major 16-float
// transform array into the row-major layout geomath.Mat4 expects.
func columnMajorToMat4(c [16]float64) geomath.Mat4 {
	var m geomath.Mat4
	for row := 0; row < 4; row++ {
		for col := 0; col < 4; col++ {
			m[row*4+col] = c[col*4+row]
		}
	}
	return m
}

func resolveRelative(base, rel string) string {
	if rel == "" {
		return base
	}
	relURL, err := url.Parse(rel)
	if err != nil {
		return rel
	}
	baseURL, err := url.Parse(base)
	if err != nil {
		return rel
	}
	return baseURL.ResolveReference(relURL).String()
}
