// Package geomath implements the small set of geospatial math primitives
// the decoders need: WGS84 cartographic/geocentric conversion, the
// zig-zag and oct-encoding schemes used by the quantized-mesh format, and
// thin wrappers around orb.Bound/orb.Point for rectangle arithmetic.
package geomath

import "math"

// Ellipsoid is a biaxial ellipsoid of revolution, described by its
// semi-major and semi-minor radii.
type Ellipsoid struct {
	RadiiSquared    [3]float64
	OneOverRadiiSq  [3]float64
}

// WGS84 is the standard geodetic ellipsoid used by quantized-mesh terrain
// and 3D Tiles content.
var WGS84 = NewEllipsoid(6378137.0, 6378137.0, 6356752.3142451793)

// NewEllipsoid builds an Ellipsoid from its three radii.
func NewEllipsoid(radiusX, radiusY, radiusZ float64) Ellipsoid {
	e := Ellipsoid{
		RadiiSquared: [3]float64{radiusX * radiusX, radiusY * radiusY, radiusZ * radiusZ},
	}
	e.OneOverRadiiSq = [3]float64{1 / e.RadiiSquared[0], 1 / e.RadiiSquared[1], 1 / e.RadiiSquared[2]}
	return e
}

// Cartographic is a geodetic position: longitude and latitude in radians,
// height in meters above the ellipsoid.
type Cartographic struct {
	Longitude float64
	Latitude  float64
	Height    float64
}

// Vec3 is a plain 3-component double vector, used for geocentric
// (Earth-centred, Earth-fixed) positions and directions.
type Vec3 struct {
	X, Y, Z float64
}

func (v Vec3) Sub(o Vec3) Vec3 { return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }
func (v Vec3) Add(o Vec3) Vec3 { return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }
func (v Vec3) Scale(s float64) Vec3 { return Vec3{v.X * s, v.Y * s, v.Z * s} }

func (v Vec3) Cross(o Vec3) Vec3 {
	return Vec3{
		X: v.Y*o.Z - v.Z*o.Y,
		Y: v.Z*o.X - v.X*o.Z,
		Z: v.X*o.Y - v.Y*o.X,
	}
}

func (v Vec3) Length() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

func (v Vec3) Normalize() Vec3 {
	l := v.Length()
	if l == 0 {
		return v
	}
	return v.Scale(1 / l)
}

// CartographicToCartesian converts a geodetic position to a geocentric
// Earth-centred, Earth-fixed Cartesian position on this ellipsoid.
func (e Ellipsoid) CartographicToCartesian(c Cartographic) Vec3 {
	n := e.geodeticSurfaceNormalFromCartographic(c)
	k := Vec3{
		X: e.RadiiSquared[0] * n.X,
		Y: e.RadiiSquared[1] * n.Y,
		Z: e.RadiiSquared[2] * n.Z,
	}
	gamma := math.Sqrt(n.X*k.X + n.Y*k.Y + n.Z*k.Z)
	k = k.Scale(1 / gamma)
	hScaled := n.Scale(c.Height)
	return k.Add(hScaled)
}

func (e Ellipsoid) geodeticSurfaceNormalFromCartographic(c Cartographic) Vec3 {
	cosLat := math.Cos(c.Latitude)
	return Vec3{
		X: cosLat * math.Cos(c.Longitude),
		Y: cosLat * math.Sin(c.Longitude),
		Z: math.Sin(c.Latitude),
	}.Normalize()
}

// GeodeticSurfaceNormal returns the outward unit normal of the ellipsoid
// surface at the point nearest to the given geocentric position,
// approximated via the ellipsoid's implicit-surface gradient.
func (e Ellipsoid) GeodeticSurfaceNormal(position Vec3) Vec3 {
	return Vec3{
		X: position.X * e.OneOverRadiiSq[0],
		Y: position.Y * e.OneOverRadiiSq[1],
		Z: position.Z * e.OneOverRadiiSq[2],
	}.Normalize()
}

// CartesianToCartographic inverts CartographicToCartesian. It returns
// false on failure (e.g. the position is at the ellipsoid centre), the
// same degenerate case the raster overlay UV generator must tolerate by
// substituting (0,0).
func (e Ellipsoid) CartesianToCartographic(position Vec3) (Cartographic, bool) {
	p := e.scaleToGeodeticSurface(position)
	if p == nil {
		return Cartographic{}, false
	}
	n := e.GeodeticSurfaceNormal(*p)
	a2, e2 := e.RadiiSquared[0], 1-e.RadiiSquared[2]/e.RadiiSquared[0]
	r := math.Hypot(position.X, position.Y)
	latitude := math.Atan2(position.Z, r*(1-e2))
	for i := 0; i < 10; i++ {
		s := math.Sin(latitude)
		latitude = math.Atan2(position.Z+e2*math.Sqrt(a2/(1-e2*s*s))*s, r)
	}
	s := math.Sin(latitude)
	height := r*math.Cos(latitude) + position.Z*s - math.Sqrt(a2*(1-e2*s*s))
	longitude := math.Atan2(n.Y, n.X)
	return Cartographic{Longitude: longitude, Latitude: latitude, Height: height}, true
}

func (e Ellipsoid) scaleToGeodeticSurface(position Vec3) *Vec3 {
	x2 := position.X * position.X * e.OneOverRadiiSq[0]
	y2 := position.Y * position.Y * e.OneOverRadiiSq[1]
	z2 := position.Z * position.Z * e.OneOverRadiiSq[2]
	squaredNorm := x2 + y2 + z2
	if squaredNorm == 0 {
		return nil
	}
	ratio := math.Sqrt(1.0 / squaredNorm)
	scaled := position.Scale(ratio)
	if math.IsNaN(scaled.X) || math.IsNaN(scaled.Y) || math.IsNaN(scaled.Z) {
		return nil
	}
	return &scaled
}

// Lerp linearly interpolates between a and b by t in [0,1].
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}
