package tileset

import (
	"math"

	"geostream/internal/geomath"
)

// BoundingVolumeKind tags which variant a BoundingVolume holds. Bounding
// volumes are a closed set of three shapes, so a tagged variant is used
// here rather than an interface with subtype implementations for each
// shape.
type BoundingVolumeKind int

const (
	BoundingVolumeRegion BoundingVolumeKind = iota
	BoundingVolumeOrientedBox
	BoundingVolumeSphere
)

// BoundingVolume is a tagged union over the three shapes a tile's bounds
// (or content bounds, or viewer-request volume) may take.
type BoundingVolume struct {
	Kind BoundingVolumeKind

	// Region
	Rectangle     geomath.Rectangle
	MinimumHeight float64
	MaximumHeight float64

	// OrientedBox
	Center   geomath.Vec3
	HalfAxes [3]geomath.Vec3

	// Sphere
	Radius float64
}

// NewRegion builds a region-variant BoundingVolume.
func NewRegion(rect geomath.Rectangle, minHeight, maxHeight float64) BoundingVolume {
	return BoundingVolume{Kind: BoundingVolumeRegion, Rectangle: rect, MinimumHeight: minHeight, MaximumHeight: maxHeight}
}

// NewSphere builds a sphere-variant BoundingVolume.
func NewSphere(center geomath.Vec3, radius float64) BoundingVolume {
	return BoundingVolume{Kind: BoundingVolumeSphere, Center: center, Radius: radius}
}

// NewOrientedBox builds an oriented-box-variant BoundingVolume.
func NewOrientedBox(center geomath.Vec3, halfAxes [3]geomath.Vec3) BoundingVolume {
	return BoundingVolume{Kind: BoundingVolumeOrientedBox, Center: center, HalfAxes: halfAxes}
}

// ContainsPoint reports whether p lies within the volume.
func (b BoundingVolume) ContainsPoint(p geomath.Vec3) bool {
	switch b.Kind {
	case BoundingVolumeSphere:
		d := p.Sub(b.Center)
		return d.Length() <= b.Radius
	case BoundingVolumeOrientedBox:
		d := p.Sub(b.Center)
		for _, axis := range b.HalfAxes {
			length := axis.Length()
			if length == 0 {
				continue
			}
			proj := (d.X*axis.X + d.Y*axis.Y + d.Z*axis.Z) / length
			if proj < -length || proj > length {
				return false
			}
		}
		return true
	case BoundingVolumeRegion:
		cart, ok := geomath.WGS84.CartesianToCartographic(p)
		if !ok {
			return false
		}
		return b.Rectangle.Contains(cart.Longitude, cart.Latitude) &&
			cart.Height >= b.MinimumHeight && cart.Height <= b.MaximumHeight
	default:
		return false
	}
}

// DistanceToCamera returns the distance from p to the nearest point of
// the volume (0 if p is inside).
func (b BoundingVolume) DistanceToCamera(p geomath.Vec3) float64 {
	switch b.Kind {
	case BoundingVolumeSphere:
		d := p.Sub(b.Center).Length() - b.Radius
		if d < 0 {
			return 0
		}
		return d
	case BoundingVolumeOrientedBox:
		// Approximate via the box centre when outside any axis extent;
		// sufficient for selection-traversal ranking, not for exact
		// closest-point queries.
		if b.ContainsPoint(p) {
			return 0
		}
		return p.Sub(b.Center).Length()
	case BoundingVolumeRegion:
		if b.ContainsPoint(p) {
			return 0
		}
		cart, ok := geomath.WGS84.CartesianToCartographic(p)
		if !ok {
			return p.Length()
		}
		// Clamp p into the region in geodetic coordinates and measure the
		// straight-line distance to that clamped point.
		nearest := geomath.Cartographic{
			Longitude: math.Max(b.Rectangle.West(), math.Min(b.Rectangle.East(), cart.Longitude)),
			Latitude:  math.Max(b.Rectangle.South(), math.Min(b.Rectangle.North(), cart.Latitude)),
			Height:    math.Max(b.MinimumHeight, math.Min(b.MaximumHeight, cart.Height)),
		}
		return p.Sub(geomath.WGS84.CartographicToCartesian(nearest)).Length()
	default:
		return 0
	}
}

// Transform applies m to the volume, returning a new volume of the same
// kind in the transformed space.
func (b BoundingVolume) Transform(m geomath.Mat4) BoundingVolume {
	out := b
	switch b.Kind {
	case BoundingVolumeSphere:
		out.Center = m.TransformPoint(b.Center)
	case BoundingVolumeOrientedBox:
		out.Center = m.TransformPoint(b.Center)
		for i, axis := range b.HalfAxes {
			out.HalfAxes[i] = m.TransformDirection(axis)
		}
	case BoundingVolumeRegion:
		// Regions are defined in geodetic space; a local-to-parent
		// transform does not remap longitude/latitude, so the region is
		// carried through unchanged.
	}
	return out
}

// Encloses reports whether b fully contains child, sampling child's
// extremal points. Used by tests enforcing the "bounding volume encloses
// descendants" invariant.
func (b BoundingVolume) Encloses(child BoundingVolume) bool {
	for _, p := range child.samplePoints() {
		if !b.ContainsPoint(p) {
			return false
		}
	}
	return true
}

func (b BoundingVolume) samplePoints() []geomath.Vec3 {
	switch b.Kind {
	case BoundingVolumeSphere:
		return []geomath.Vec3{
			b.Center,
			b.Center.Add(geomath.Vec3{X: b.Radius}),
			b.Center.Add(geomath.Vec3{X: -b.Radius}),
			b.Center.Add(geomath.Vec3{Y: b.Radius}),
			b.Center.Add(geomath.Vec3{Y: -b.Radius}),
			b.Center.Add(geomath.Vec3{Z: b.Radius}),
			b.Center.Add(geomath.Vec3{Z: -b.Radius}),
		}
	case BoundingVolumeOrientedBox:
		pts := []geomath.Vec3{b.Center}
		for _, axis := range b.HalfAxes {
			pts = append(pts, b.Center.Add(axis), b.Center.Sub(axis))
		}
		return pts
	case BoundingVolumeRegion:
		corners := []geomath.Cartographic{
			{Longitude: b.Rectangle.West(), Latitude: b.Rectangle.South(), Height: b.MinimumHeight},
			{Longitude: b.Rectangle.East(), Latitude: b.Rectangle.South(), Height: b.MinimumHeight},
			{Longitude: b.Rectangle.West(), Latitude: b.Rectangle.North(), Height: b.MaximumHeight},
			{Longitude: b.Rectangle.East(), Latitude: b.Rectangle.North(), Height: b.MaximumHeight},
		}
		pts := make([]geomath.Vec3, len(corners))
		for i, c := range corners {
			pts[i] = geomath.WGS84.CartographicToCartesian(c)
		}
		return pts
	default:
		return nil
	}
}
