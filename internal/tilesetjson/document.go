// Package tilesetjson parses a 3D Tiles tileset.json root document and
// builds its tile hierarchy into a tileset.Arena, the same
// injected-JSON-reader shape internal/gltfcontent uses for the glTF
// document: a narrow Document/Reader seam plus a stdlib-based default
// reader, since no repo in the example pack ships a 3D Tiles schema
// parser and the subset consumed here (boundingVolume, geometricError,
// refine, content.uri, children) is far smaller than a full schema
// library's surface.
package tilesetjson

import "encoding/json"

// BoundingVolumeJSON mirrors the format's tagged-union boundingVolume
// object: exactly one of Region, Sphere, or Box is set.
type BoundingVolumeJSON struct {
	Region *[6]float64 `json:"region,omitempty"`
	Sphere *[4]float64 `json:"sphere,omitempty"`
	Box    *[12]float64 `json:"box,omitempty"`
}

// ContentJSON mirrors the format's content object.
type ContentJSON struct {
	URI string `json:"uri"`
}

// TileJSON mirrors one node of the format's tile tree.
type TileJSON struct {
	BoundingVolume BoundingVolumeJSON `json:"boundingVolume"`
	GeometricError float64            `json:"geometricError"`
	Refine         string             `json:"refine,omitempty"` // "ADD" or "REPLACE", inherited from parent if empty
	Transform      *[16]float64       `json:"transform,omitempty"`
	Content        *ContentJSON       `json:"content,omitempty"`
	Children       []TileJSON         `json:"children,omitempty"`
}

// AssetJSON mirrors the format's required top-level asset object.
type AssetJSON struct {
	Version string `json:"version"`
}

// Document is the structured form of a tileset.json document.
type Document struct {
	Asset      AssetJSON
	GeometricError float64
	Root       TileJSON
}

// Reader parses a tileset.json payload into a Document.
type Reader interface {
	ReadDocument(body []byte) (Document, error)
}

type rawDocument struct {
	Asset          AssetJSON `json:"asset"`
	GeometricError float64   `json:"geometricError"`
	Root           TileJSON  `json:"root"`
}

// JSONReader is the default Reader: a plain encoding/json decode into
// Document, matching gltfcontent.JSONReader's stdlib-justified shape.
type JSONReader struct{}

func (JSONReader) ReadDocument(body []byte) (Document, error) {
	var raw rawDocument
	if err := json.Unmarshal(body, &raw); err != nil {
		return Document{}, err
	}
	return Document{Asset: raw.Asset, GeometricError: raw.GeometricError, Root: raw.Root}, nil
}
