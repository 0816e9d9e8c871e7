package quantizedmesh

import (
	"sort"

	"geostream/internal/geomath"
)

// edgeKind identifies which of the four tile edges a skirt belongs to,
// controlling the sort order its vertices are threaded in.
type edgeKind int

const (
	edgeWest edgeKind = iota
	edgeSouth
	edgeEast
	edgeNorth
)

// addSkirt appends skirt vertices and triangle indices for one edge onto
// positions/indices in place, sorting the edge's vertex indices along its
// varying parameter and connecting each adjacent pair of sorted vertices
// to a displaced duplicate.
//
// All four edges are synthesised here, unlike the reference C++
// implementation this format comes from, which only wires up the west
// edge and leaves south/east/north calls commented out — a gap in that
// implementation, not a property of the format.
func addSkirt(kind edgeKind, edgeIndices []uint32, us, vs []uint16, positions []geomath.Vec3, center geomath.Vec3, skirtHeight float64, indices []uint32) ([]geomath.Vec3, []uint32) {
	if len(edgeIndices) < 2 {
		return positions, indices
	}

	sorted := make([]uint32, len(edgeIndices))
	copy(sorted, edgeIndices)

	switch kind {
	case edgeWest, edgeEast:
		sort.Slice(sorted, func(i, j int) bool {
			vi, vj := vs[sorted[i]], vs[sorted[j]]
			if kind == edgeWest {
				return vi < vj
			}
			return vi > vj
		})
	case edgeSouth, edgeNorth:
		sort.Slice(sorted, func(i, j int) bool {
			ui, uj := us[sorted[i]], us[sorted[j]]
			if kind == edgeSouth {
				return ui > uj
			}
			return ui < uj
		})
	}

	normal := geomath.WGS84.GeodeticSurfaceNormal(center)
	displacement := normal.Scale(-skirtHeight)

	// Duplicate every edge vertex, displaced downward, appending to the
	// end of the position buffer.
	base := uint32(len(positions))
	displaced := make([]geomath.Vec3, len(sorted))
	for i, idx := range sorted {
		displaced[i] = positions[idx].Add(displacement)
	}
	positions = append(positions, displaced...)

	for i := 0; i+1 < len(sorted); i++ {
		a := sorted[i]
		b := sorted[i+1]
		da := base + uint32(i)
		db := base + uint32(i+1)

		// Two triangles forming the quad between the original edge
		// segment (a,b) and its displaced duplicate (da,db).
		indices = append(indices,
			a, b, da,
			b, db, da,
		)
	}

	return positions, indices
}
