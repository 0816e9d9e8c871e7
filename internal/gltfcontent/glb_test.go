package gltfcontent

import (
	"encoding/binary"
	"testing"
)

func appendU32(buf []byte, v uint32) []byte {
	b := make([]byte, 4)
	binary.LittleEndian.PutUint32(b, v)
	return append(buf, b...)
}

func buildGLB(jsonChunk, binChunk []byte) []byte {
	var out []byte
	out = appendU32(out, glbMagic)
	out = appendU32(out, 2)
	lengthPos := len(out)
	out = appendU32(out, 0)

	out = appendU32(out, uint32(len(jsonChunk)))
	out = appendU32(out, chunkTypeJSON)
	out = append(out, jsonChunk...)

	if binChunk != nil {
		out = appendU32(out, uint32(len(binChunk)))
		out = appendU32(out, chunkTypeBIN)
		out = append(out, binChunk...)
	}

	binary.LittleEndian.PutUint32(out[lengthPos:lengthPos+4], uint32(len(out)))
	return out
}

func TestDecodeGLBParsesJSONAndBINChunks(t *testing.T) {
	jsonChunk := []byte(`{"buffers":[{"byteLength":12}]}`)
	binChunk := make([]byte, 12)
	for i := range binChunk {
		binChunk[i] = byte(i)
	}

	container, err := decodeGLB(buildGLB(jsonChunk, binChunk))
	if err != nil {
		t.Fatalf("decodeGLB: %v", err)
	}
	if string(container.JSON) != string(jsonChunk) {
		t.Fatalf("json chunk mismatch: got %q", container.JSON)
	}
	if len(container.BIN) != len(binChunk) {
		t.Fatalf("bin chunk length mismatch: got %d want %d", len(container.BIN), len(binChunk))
	}
}

func TestDecodeGLBRejectsBadMagic(t *testing.T) {
	payload := buildGLB([]byte(`{}`), nil)
	payload[0] = 0
	if _, err := decodeGLB(payload); err == nil {
		t.Fatal("expected error for bad magic")
	}
}

func TestDecodeGLBRejectsTruncatedPayload(t *testing.T) {
	payload := buildGLB([]byte(`{"buffers":[]}`), make([]byte, 16))
	truncated := payload[:len(payload)-4]
	if _, err := decodeGLB(truncated); err == nil {
		t.Fatal("expected error for truncated payload whose declared length exceeds its actual size")
	}
}

func TestDecodeGLBRequiresJSONChunk(t *testing.T) {
	var out []byte
	out = appendU32(out, glbMagic)
	out = appendU32(out, 2)
	lengthPos := len(out)
	out = appendU32(out, 0)
	bin := make([]byte, 4)
	out = appendU32(out, uint32(len(bin)))
	out = appendU32(out, chunkTypeBIN)
	out = append(out, bin...)
	binary.LittleEndian.PutUint32(out[lengthPos:lengthPos+4], uint32(len(out)))

	if _, err := decodeGLB(out); err == nil {
		t.Fatal("expected error for glb payload with no JSON chunk")
	}
}
