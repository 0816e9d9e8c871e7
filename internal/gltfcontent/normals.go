package gltfcontent

import "geostream/internal/geomath"

// generateSmoothNormals computes per-vertex normals for a primitive that
// did not carry a NORMAL accessor, averaging the face normal of every
// triangle touching a vertex. Degenerate vertices (touched by no
// triangle, or whose accumulated normal is zero-length) fall back to a
// unit Z so every position still carries a usable direction.
func generateSmoothNormals(positions []geomath.Vec3, indices []uint32) []geomath.Vec3 {
	normals := make([]geomath.Vec3, len(positions))
	for i := 0; i+2 < len(indices); i += 3 {
		ia, ib, ic := indices[i], indices[i+1], indices[i+2]
		if int(ia) >= len(positions) || int(ib) >= len(positions) || int(ic) >= len(positions) {
			continue
		}
		a, b, c := positions[ia], positions[ib], positions[ic]
		face := b.Sub(a).Cross(c.Sub(a))
		normals[ia] = normals[ia].Add(face)
		normals[ib] = normals[ib].Add(face)
		normals[ic] = normals[ic].Add(face)
	}
	for i, n := range normals {
		if n.Length() > 0 {
			normals[i] = n.Normalize()
		} else {
			normals[i] = geomath.Vec3{Z: 1}
		}
	}
	return normals
}
