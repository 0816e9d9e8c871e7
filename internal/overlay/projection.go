// Package overlay generates per-vertex raster overlay texture
// coordinates for a mesh's POSITION accessor: geocentric position ->
// cartographic inversion -> anti-meridian wrap retry against the
// overlay's own rectangle -> projection into that rectangle -> clamp.
// Distinct from the overlay tile-bounds bookkeeping (BoundOverlayTile),
// which lives in the tileset package as part of each Tile.
package overlay

import "geostream/internal/geomath"

// Projection maps a cartographic position into normalized [0,1] UV
// space within rect. GeographicProjection is the only implementation
// needed for the WGS84 equirectangular overlays this system targets;
// a Web Mercator variant would implement the same interface.
type Projection interface {
	Project(c geomath.Cartographic, rect geomath.Rectangle) (u, v float64)
}

// GeographicProjection is a plain equirectangular (lon/lat -> UV) map.
type GeographicProjection struct{}

func (GeographicProjection) Project(c geomath.Cartographic, rect geomath.Rectangle) (float64, float64) {
	width, height := rect.Width(), rect.Height()
	if width == 0 || height == 0 {
		return 0, 0
	}
	u := (c.Longitude - rect.West()) / width
	v := (c.Latitude - rect.South()) / height
	return u, v
}
