package quantizedmesh

import (
	"geostream/internal/geomath"
)

// decodeVertices reads the u, v, h delta-encoded streams (one u16 per
// vertex, vertexCount long each) and converts each to a tile-local
// geocentric position, centred at the header's bounding-sphere centre.
// It also returns the raw u/v values (needed later to sort skirt edges
// by their varying parameter) and the axis-aligned min/max over all
// positions.
func decodeVertices(c *cursor, vertexCount uint32, rect geomath.Rectangle, minHeight, maxHeight float64, center geomath.Vec3) (positions []geomath.Vec3, us, vs []uint16, minPos, maxPos geomath.Vec3, ok bool) {
	n := int(vertexCount)
	uBuf := make([]uint16, n)
	vBuf := make([]uint16, n)
	hBuf := make([]uint16, n)

	decodeDeltaStream(c, uBuf)
	decodeDeltaStream(c, vBuf)
	decodeDeltaStream(c, hBuf)
	if !c.ok {
		return nil, nil, nil, geomath.Vec3{}, geomath.Vec3{}, false
	}

	positions = make([]geomath.Vec3, n)
	if n == 0 {
		return positions, uBuf, vBuf, minPos, maxPos, true
	}

	const maxCode = 32767.0
	for i := 0; i < n; i++ {
		u := float64(uBuf[i]) / maxCode
		v := float64(vBuf[i]) / maxCode
		h := float64(hBuf[i]) / maxCode

		cart := geomath.Cartographic{
			Longitude: geomath.Lerp(rect.West(), rect.East(), u),
			Latitude:  geomath.Lerp(rect.South(), rect.North(), v),
			Height:    geomath.Lerp(minHeight, maxHeight, h),
		}
		geocentric := geomath.WGS84.CartographicToCartesian(cart)
		local := geocentric.Sub(center)
		positions[i] = local

		if i == 0 {
			minPos, maxPos = local, local
		} else {
			minPos = componentMin(minPos, local)
			maxPos = componentMax(maxPos, local)
		}
	}

	return positions, uBuf, vBuf, minPos, maxPos, true
}

// decodeDeltaStream decodes a zig-zag delta-encoded u16 stream in place.
func decodeDeltaStream(c *cursor, out []uint16) {
	var accumulated int32
	for i := range out {
		code := c.u16()
		if !c.ok {
			return
		}
		accumulated += geomath.ZigZagDecode(code)
		out[i] = uint16(accumulated)
	}
}

func componentMin(a, b geomath.Vec3) geomath.Vec3 {
	return geomath.Vec3{X: minf(a.X, b.X), Y: minf(a.Y, b.Y), Z: minf(a.Z, b.Z)}
}

func componentMax(a, b geomath.Vec3) geomath.Vec3 {
	return geomath.Vec3{X: maxf(a.X, b.X), Y: maxf(a.Y, b.Y), Z: maxf(a.Z, b.Z)}
}

func minf(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func maxf(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
