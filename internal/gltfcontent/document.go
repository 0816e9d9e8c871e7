package gltfcontent

import "encoding/json"

// glTF accessor componentType codes, per the format's spec.
const (
	ComponentByte          = 5120
	ComponentUnsignedByte  = 5121
	ComponentShort         = 5122
	ComponentUnsignedShort = 5123
	ComponentUnsignedInt   = 5125
	ComponentFloat         = 5126
)

// Buffer describes one glTF buffer: either the GLB's own binary chunk
// (URI empty) or external data at URI.
type Buffer struct {
	ByteLength int
	URI        string
}

// BufferView is a byte range into a Buffer.
type BufferView struct {
	Buffer     int
	ByteOffset int
	ByteLength int
}

// Accessor describes how to read typed values out of a BufferView.
type Accessor struct {
	BufferView    int
	ByteOffset    int
	ComponentType int
	Count         int
	Type          string // "SCALAR", "VEC2", "VEC3", "VEC4"
}

// Primitive is one draw call's worth of a mesh: a POSITION accessor,
// optionally a NORMAL accessor and an indices accessor.
type Primitive struct {
	PositionAccessor int
	NormalAccessor   int // -1 if absent
	IndicesAccessor  int // -1 if the primitive is non-indexed
}

// Mesh groups the primitives referenced by a node.
type Mesh struct {
	Primitives []Primitive
}

// Image is an external or buffer-view-embedded image resource; this
// package does not decode pixel data, only tracks which images need an
// external fetch before the tile can be considered fully resolved.
type Image struct {
	URI        string
	BufferView int // -1 if the image is external (URI set) rather than embedded
}

// Document is the structured form of a glTF JSON chunk, the shape the
// injected Reader collaborator is responsible for producing.
type Document struct {
	Buffers     []Buffer
	BufferViews []BufferView
	Accessors   []Accessor
	Meshes      []Mesh
	Images      []Image
}

// Reader parses a glTF JSON chunk into a Document. Implementations may
// support the full glTF JSON schema (extensions, animations, skins,
// materials, ...); this package only consumes the subset captured by
// Document.
type Reader interface {
	ReadDocument(jsonChunk []byte) (Document, error)
}

// rawDocument mirrors the subset of the glTF JSON schema JSONReader
// understands, using the format's own field names.
type rawDocument struct {
	Buffers []struct {
		ByteLength int    `json:"byteLength"`
		URI        string `json:"uri"`
	} `json:"buffers"`
	BufferViews []struct {
		Buffer     int `json:"buffer"`
		ByteOffset int `json:"byteOffset"`
		ByteLength int `json:"byteLength"`
	} `json:"bufferViews"`
	Accessors []struct {
		BufferView    int    `json:"bufferView"`
		ByteOffset    int    `json:"byteOffset"`
		ComponentType int    `json:"componentType"`
		Count         int    `json:"count"`
		Type          string `json:"type"`
	} `json:"accessors"`
	Meshes []struct {
		Primitives []struct {
			Attributes struct {
				Position int  `json:"POSITION"`
				Normal   *int `json:"NORMAL"`
			} `json:"attributes"`
			Indices *int `json:"indices"`
		} `json:"primitives"`
	} `json:"meshes"`
	Images []struct {
		URI        string `json:"uri"`
		BufferView *int   `json:"bufferView"`
	} `json:"images"`
}

// JSONReader is the default Reader, a plain encoding/json decode of the
// glTF document subset this package needs. Grounded as a stdlib choice:
// no repo in the example pack ships a glTF JSON schema parser, and the
// subset consumed here (buffers/bufferViews/accessors/meshes/images) is
// small enough that reaching for a full third-party glTF library would
// pull in a much larger surface (materials, animations, skins, cameras)
// than any SPEC_FULL.md component exercises.
type JSONReader struct{}

func (JSONReader) ReadDocument(jsonChunk []byte) (Document, error) {
	var raw rawDocument
	if err := json.Unmarshal(jsonChunk, &raw); err != nil {
		return Document{}, err
	}

	doc := Document{
		Buffers:     make([]Buffer, len(raw.Buffers)),
		BufferViews: make([]BufferView, len(raw.BufferViews)),
		Accessors:   make([]Accessor, len(raw.Accessors)),
		Images:      make([]Image, len(raw.Images)),
	}
	for i, b := range raw.Buffers {
		doc.Buffers[i] = Buffer{ByteLength: b.ByteLength, URI: b.URI}
	}
	for i, v := range raw.BufferViews {
		doc.BufferViews[i] = BufferView{Buffer: v.Buffer, ByteOffset: v.ByteOffset, ByteLength: v.ByteLength}
	}
	for i, a := range raw.Accessors {
		doc.Accessors[i] = Accessor{
			BufferView:    a.BufferView,
			ByteOffset:    a.ByteOffset,
			ComponentType: a.ComponentType,
			Count:         a.Count,
			Type:          a.Type,
		}
	}
	for i, img := range raw.Images {
		bv := -1
		if img.BufferView != nil {
			bv = *img.BufferView
		}
		doc.Images[i] = Image{URI: img.URI, BufferView: bv}
	}
	for _, m := range raw.Meshes {
		mesh := Mesh{}
		for _, p := range m.Primitives {
			prim := Primitive{PositionAccessor: p.Attributes.Position, NormalAccessor: -1, IndicesAccessor: -1}
			if p.Attributes.Normal != nil {
				prim.NormalAccessor = *p.Attributes.Normal
			}
			if p.Indices != nil {
				prim.IndicesAccessor = *p.Indices
			}
			mesh.Primitives = append(mesh.Primitives, prim)
		}
		doc.Meshes = append(doc.Meshes, mesh)
	}
	return doc, nil
}
