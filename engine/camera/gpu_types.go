package camera

import (
	_ "embed"
	"encoding/binary"
	"math"
	"unsafe"
)

// GPUCameraSource is the canonical WGSL definition of the Camera uniform struct.
// Matches GPUCamera layout exactly (128 bytes).
//
//go:embed assets/camera.wgsl
var GPUCameraSource string

// GPUCamera is the GPU-aligned representation of the camera uniform buffer.
// Both matrices are column-major and stored as little-endian f32.
// Size: 128 bytes.
type GPUCamera struct {
	Model [16]float32 // offset  0: model transform (mat4x4<f32>)
	Proj  [16]float32 // offset 64: projection (mat4x4<f32>)
}

// Size returns the size of the GPUCamera struct in bytes.
//
// Returns:
//   - int: the struct size in bytes (128)
func (g *GPUCamera) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPUCamera struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: the serialized byte buffer
func (g *GPUCamera) Marshal() []byte {
	buf := make([]byte, g.Size())
	for i := range 16 {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(g.Model[i]))
	}
	for i := range 16 {
		binary.LittleEndian.PutUint32(buf[64+i*4:], math.Float32bits(g.Proj[i]))
	}
	return buf
}
