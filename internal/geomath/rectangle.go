package geomath

import (
	"math"

	"github.com/paulmach/orb"
)

// Rectangle is a geodetic rectangle in radians: west/south/east/north
// bounds. It is kept as a thin wrapper over orb.Bound so the overlay UV
// generator and region bounding volumes share one containment/distance
// implementation instead of each hand-rolling one.
type Rectangle struct {
	bound orb.Bound
}

// NewRectangle builds a Rectangle from west/south/east/north, in radians.
func NewRectangle(west, south, east, north float64) Rectangle {
	return Rectangle{bound: orb.Bound{
		Min: orb.Point{west, south},
		Max: orb.Point{east, north},
	}}
}

func (r Rectangle) West() float64  { return r.bound.Min[0] }
func (r Rectangle) South() float64 { return r.bound.Min[1] }
func (r Rectangle) East() float64  { return r.bound.Max[0] }
func (r Rectangle) North() float64 { return r.bound.Max[1] }

func (r Rectangle) Width() float64  { return r.East() - r.West() }
func (r Rectangle) Height() float64 { return r.North() - r.South() }

// Contains reports whether (x,y) lies within the rectangle, inclusive of
// its edges.
func (r Rectangle) Contains(x, y float64) bool {
	return r.bound.Contains(orb.Point{x, y})
}

// SignedDistance returns a negative value for points inside the
// rectangle (more negative = further inside) and a positive value for
// points outside it (the Euclidean distance to the nearest edge), used
// to pick the better of two anti-meridian-wrapped projections.
func (r Rectangle) SignedDistance(x, y float64) float64 {
	if r.Contains(x, y) {
		dx := math.Min(x-r.West(), r.East()-x)
		dy := math.Min(y-r.South(), r.North()-y)
		return -math.Min(dx, dy)
	}
	dx := math.Max(0, math.Max(r.West()-x, x-r.East()))
	dy := math.Max(0, math.Max(r.South()-y, y-r.North()))
	return math.Hypot(dx, dy)
}
