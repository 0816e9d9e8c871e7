package quantizedmesh

import "geostream/internal/geomath"

// AvailabilityRange is a rectangle of child tiles declared available by
// the extension id=4 metadata block, at a specific level relative to the
// decoded tile.
type AvailabilityRange struct {
	Level                  int
	StartX, StartY         int
	EndX, EndY             int
}

// Mesh is the output of decoding a quantized-mesh payload: one TRIANGLES
// primitive plus the bookkeeping the content manager and selection
// traversal need.
type Mesh struct {
	Positions []geomath.Vec3 // tile-local, centred at BoundingSphereCenter
	Normals   []geomath.Vec3 // empty if the payload carried no oct-normal extension
	Indices   []uint32

	BoundingSphereCenter geomath.Vec3
	BoundingSphereRadius float64
	MinimumHeight        float64
	MaximumHeight        float64

	// MinPosition/MaxPosition are the axis-aligned bounds over Positions,
	// satisfying the componentwise min<=max testable property.
	MinPosition geomath.Vec3
	MaxPosition geomath.Vec3

	ChildAvailability []AvailabilityRange
}

// Empty reports whether the mesh has no geometry, the non-fatal outcome
// of a truncated or malformed payload.
func (m Mesh) Empty() bool {
	return len(m.Positions) == 0
}
