package quantizedmesh

import (
	"encoding/json"

	"geostream/internal/geomath"
)

const (
	extensionOctEncodedNormals = 1
	extensionMetadata          = 4
)

// decodeExtensions walks the {id, length, bytes} records trailing the
// index buffer. Recognised extensions populate normals/availability;
// anything else is skipped by its declared length, never inspected.
func decodeExtensions(c *cursor, vertexCount uint32, tileLevel int) (normals []geomath.Vec3, availability []AvailabilityRange) {
	for c.ok && c.remaining() > 0 {
		id := c.u8()
		length := c.u32()
		if !c.ok {
			return normals, availability
		}
		payload := c.bytes(int(length))
		if !c.ok {
			return normals, availability
		}

		switch id {
		case extensionOctEncodedNormals:
			normals = decodeOctNormals(payload, vertexCount)
		case extensionMetadata:
			availability = decodeAvailability(payload, tileLevel)
		default:
			// Unrecognised extension: already skipped by length via c.bytes.
		}
	}
	return normals, availability
}

func decodeOctNormals(payload []byte, vertexCount uint32) []geomath.Vec3 {
	n := int(vertexCount)
	if len(payload) < n*2 {
		return nil
	}
	normals := make([]geomath.Vec3, n)
	for i := 0; i < n; i++ {
		x := payload[i*2]
		y := payload[i*2+1]
		normals[i] = geomath.OctDecode(x, y)
	}
	return normals
}

type availabilityRect struct {
	StartX int `json:"startX"`
	StartY int `json:"startY"`
	EndX   int `json:"endX"`
	EndY   int `json:"endY"`
}

type availabilityDocument struct {
	Available [][]availabilityRect `json:"available"`
}

// decodeAvailability parses the extension id=4 JSON blob: an array whose
// entry i lists the rectangles of available child tiles at level
// tileLevel+1+i (entry 0 is the first child level).
func decodeAvailability(payload []byte, tileLevel int) []AvailabilityRange {
	var doc availabilityDocument
	if err := json.Unmarshal(payload, &doc); err != nil {
		return nil
	}

	var ranges []AvailabilityRange
	for outerIndex, rects := range doc.Available {
		level := tileLevel + 1 + outerIndex
		for _, r := range rects {
			ranges = append(ranges, AvailabilityRange{
				Level:  level,
				StartX: r.StartX,
				StartY: r.StartY,
				EndX:   r.EndX,
				EndY:   r.EndY,
			})
		}
	}
	return ranges
}
