package mesh

import (
	_ "embed"
	"encoding/binary"
	"math"
	"unsafe"

	"github.com/cogentcore/webgpu/wgpu"
)

// GPUPositionVertexSource is the WGSL VertexIn struct matching GPUPositionVertex (12 bytes).
//
//go:embed assets/vertex_position.wgsl
var GPUPositionVertexSource string

// GPUPositionNormalVertexSource is the WGSL VertexIn struct matching GPUPositionNormalVertex (24 bytes).
//
//go:embed assets/vertex_position_normal.wgsl
var GPUPositionNormalVertexSource string

// GPUVertexSource is the WGSL VertexIn struct matching GPUVertex (32 bytes).
//
//go:embed assets/vertex.wgsl
var GPUVertexSource string

// GPUHomogeneousVertexSource is the WGSL VertexIn struct matching GPUHomogeneousVertex (16 bytes).
//
//go:embed assets/vertex_homogeneous.wgsl
var GPUHomogeneousVertexSource string

// GPUPositionVertex is a bare position vertex.
// Size: 12 bytes.
type GPUPositionVertex struct {
	Position [3]float32 // offset 0: vec3<f32> @location(0)
}

// Size returns the size of the GPUPositionVertex struct in bytes.
func (v *GPUPositionVertex) Size() int {
	return int(unsafe.Sizeof(*v))
}

// Marshal serializes the vertex into a little-endian byte buffer.
func (v *GPUPositionVertex) Marshal() []byte {
	buf := make([]byte, v.Size())
	putFloats(buf, v.Position[:])
	return buf
}

// VertexBufferLayout returns the wgpu layout of a GPUPositionVertex stream.
func (v *GPUPositionVertex) VertexBufferLayout() wgpu.VertexBufferLayout {
	return wgpu.VertexBufferLayout{
		ArrayStride: uint64(unsafe.Sizeof(*v)),
		StepMode:    wgpu.VertexStepModeVertex,
		Attributes: []wgpu.VertexAttribute{
			{Format: wgpu.VertexFormatFloat32x3, Offset: uint64(unsafe.Offsetof(v.Position)), ShaderLocation: 0},
		},
	}
}

// GPUPositionNormalVertex is a position with a unit surface normal.
// Size: 24 bytes.
type GPUPositionNormalVertex struct {
	Position [3]float32 // offset  0: vec3<f32> @location(0)
	Normal   [3]float32 // offset 12: vec3<f32> @location(1)
}

// Size returns the size of the GPUPositionNormalVertex struct in bytes.
func (v *GPUPositionNormalVertex) Size() int {
	return int(unsafe.Sizeof(*v))
}

// Marshal serializes the vertex into a little-endian byte buffer.
func (v *GPUPositionNormalVertex) Marshal() []byte {
	buf := make([]byte, v.Size())
	putFloats(buf, v.Position[:])
	putFloats(buf[12:], v.Normal[:])
	return buf
}

// VertexBufferLayout returns the wgpu layout of a GPUPositionNormalVertex stream.
func (v *GPUPositionNormalVertex) VertexBufferLayout() wgpu.VertexBufferLayout {
	return wgpu.VertexBufferLayout{
		ArrayStride: uint64(unsafe.Sizeof(*v)),
		StepMode:    wgpu.VertexStepModeVertex,
		Attributes: []wgpu.VertexAttribute{
			{Format: wgpu.VertexFormatFloat32x3, Offset: uint64(unsafe.Offsetof(v.Position)), ShaderLocation: 0},
			{Format: wgpu.VertexFormatFloat32x3, Offset: uint64(unsafe.Offsetof(v.Normal)), ShaderLocation: 1},
		},
	}
}

// GPUVertex is the canonical globe vertex: position, unit normal and texture coordinate.
// Size: 32 bytes.
type GPUVertex struct {
	Position [3]float32 // offset  0: vec3<f32> @location(0)
	Normal   [3]float32 // offset 12: vec3<f32> @location(1)
	UV       [2]float32 // offset 24: vec2<f32> @location(2)
}

// Size returns the size of the GPUVertex struct in bytes.
//
// Returns:
//   - int: the struct size in bytes (32)
func (v *GPUVertex) Size() int {
	return int(unsafe.Sizeof(*v))
}

// Marshal serializes the GPUVertex struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: the serialized byte buffer
func (v *GPUVertex) Marshal() []byte {
	buf := make([]byte, v.Size())
	putFloats(buf, v.Position[:])
	putFloats(buf[12:], v.Normal[:])
	putFloats(buf[24:], v.UV[:])
	return buf
}

// VertexBufferLayout returns the wgpu layout of a GPUVertex stream.
//
// Returns:
//   - wgpu.VertexBufferLayout: stride 32 with position, normal and uv at locations 0, 1 and 2
func (v *GPUVertex) VertexBufferLayout() wgpu.VertexBufferLayout {
	return wgpu.VertexBufferLayout{
		ArrayStride: uint64(unsafe.Sizeof(*v)),
		StepMode:    wgpu.VertexStepModeVertex,
		Attributes: []wgpu.VertexAttribute{
			{Format: wgpu.VertexFormatFloat32x3, Offset: uint64(unsafe.Offsetof(v.Position)), ShaderLocation: 0},
			{Format: wgpu.VertexFormatFloat32x3, Offset: uint64(unsafe.Offsetof(v.Normal)), ShaderLocation: 1},
			{Format: wgpu.VertexFormatFloat32x2, Offset: uint64(unsafe.Offsetof(v.UV)), ShaderLocation: 2},
		},
	}
}

// GPUHomogeneousVertex is a homogeneous position with an explicit w component.
// Size: 16 bytes.
type GPUHomogeneousVertex struct {
	Position [4]float32 // offset 0: vec4<f32> @location(0)
}

// Size returns the size of the GPUHomogeneousVertex struct in bytes.
func (v *GPUHomogeneousVertex) Size() int {
	return int(unsafe.Sizeof(*v))
}

// Marshal serializes the vertex into a little-endian byte buffer.
func (v *GPUHomogeneousVertex) Marshal() []byte {
	buf := make([]byte, v.Size())
	putFloats(buf, v.Position[:])
	return buf
}

// VertexBufferLayout returns the wgpu layout of a GPUHomogeneousVertex stream.
func (v *GPUHomogeneousVertex) VertexBufferLayout() wgpu.VertexBufferLayout {
	return wgpu.VertexBufferLayout{
		ArrayStride: uint64(unsafe.Sizeof(*v)),
		StepMode:    wgpu.VertexStepModeVertex,
		Attributes: []wgpu.VertexAttribute{
			{Format: wgpu.VertexFormatFloat32x4, Offset: uint64(unsafe.Offsetof(v.Position)), ShaderLocation: 0},
		},
	}
}

// putFloats writes values as consecutive little-endian f32 starting at buf[0].
func putFloats(buf []byte, values []float32) {
	for i, f := range values {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
}
