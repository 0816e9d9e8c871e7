// Package gltfcontent decodes binary glTF (.glb) tile content: the
// container framing and post-processing (smooth-normal generation,
// external buffer/image URI resolution) live here; parsing the glTF
// JSON document itself is delegated to an injected Reader, since the
// full glTF JSON schema is its own large surface orthogonal to the
// container format.
package gltfcontent

import (
	"encoding/binary"
	"fmt"
)

const (
	glbMagic      = 0x46546C67 // "glTF"
	chunkTypeJSON = 0x4E4F534A // "JSON"
	chunkTypeBIN  = 0x004E4942 // "BIN\0"
	glbHeaderSize = 12
	chunkHeaderSize = 8
)

// glbContainer holds the two chunks a .glb file carries: the JSON
// document and, for tiles with non-external buffers, the packed binary
// buffer.
type glbContainer struct {
	JSON []byte
	BIN  []byte
}

// decodeGLB parses the 12-byte glTF binary header followed by a
// sequence of (length, type, data) chunks, the same explicit
// LittleEndian-at-every-field style the quantized-mesh header decoder
// uses rather than relying on host byte order or struct layout.
func decodeGLB(payload []byte) (glbContainer, error) {
	if len(payload) < glbHeaderSize {
		return glbContainer{}, fmt.Errorf("glb payload shorter than header (%d bytes)", len(payload))
	}
	if magic := binary.LittleEndian.Uint32(payload[0:4]); magic != glbMagic {
		return glbContainer{}, fmt.Errorf("not a glb payload: magic 0x%x", magic)
	}
	length := int(binary.LittleEndian.Uint32(payload[8:12]))
	if length > len(payload) {
		return glbContainer{}, fmt.Errorf("glb header length %d exceeds payload size %d", length, len(payload))
	}

	var out glbContainer
	pos := glbHeaderSize
	for pos+chunkHeaderSize <= length {
		chunkLength := int(binary.LittleEndian.Uint32(payload[pos : pos+4]))
		chunkType := binary.LittleEndian.Uint32(payload[pos+4 : pos+8])
		pos += chunkHeaderSize
		if pos+chunkLength > length {
			return glbContainer{}, fmt.Errorf("glb chunk of length %d overruns payload", chunkLength)
		}
		data := payload[pos : pos+chunkLength]
		switch chunkType {
		case chunkTypeJSON:
			out.JSON = data
		case chunkTypeBIN:
			out.BIN = data
		}
		pos += chunkLength
	}

	if out.JSON == nil {
		return glbContainer{}, fmt.Errorf("glb payload has no JSON chunk")
	}
	return out, nil
}
