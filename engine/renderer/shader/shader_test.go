package shader

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const globeSource = `
struct Camera {
    model: mat4x4<f32>,
    proj: mat4x4<f32>,
};

// vertex input, one per tile corner
struct VertexIn {
    @location(0) position: vec3<f32>,
    @location(1) normal: vec3<f32>,
    @location(2) uv: vec2<f32>,
};

struct VertexOut {
    @builtin(position) position: vec4<f32>,
    @location(0) uv: vec2<f32>,
};

@group(0) @binding(0) var<uniform> camera: Camera;
@group(1) @binding(0) var mainTexture: texture_2d<f32>;
@group(1) @binding(1) var mainSampler: sampler;

/* block comment with a fake
   struct Fake { @location(9) x: f32, } */

@vertex
fn vertex_main(in: VertexIn) -> VertexOut {
    var out: VertexOut;
    out.position = camera.proj * camera.model * vec4<f32>(in.position, 1.0);
    out.uv = in.uv;
    return out;
}

@fragment
fn fragment_main(in: VertexOut) -> @location(0) vec4<f32> {
    return textureSample(mainTexture, mainSampler, in.uv);
}
`

func TestNewShaderVertex(t *testing.T) {
	s, err := NewShader("globe_vs", ShaderTypeVertex, globeSource)
	require.NoError(t, err)

	assert.Equal(t, "vertex_main", s.EntryPoint())
	assert.Equal(t, ShaderTypeVertex, s.ShaderType())
	require.NotNil(t, s.Module())
	assert.Equal(t, "globe_vs", s.Module().Label)

	inputs := s.VertexInputs()
	require.Len(t, inputs, 1)
	assert.Equal(t, "VertexIn", inputs[0].Name)

	layout := inputs[0].Layout
	assert.Equal(t, uint64(32), layout.ArrayStride)
	assert.Equal(t, wgpu.VertexStepModeVertex, layout.StepMode)
	require.Len(t, layout.Attributes, 3)
	assert.Equal(t, wgpu.VertexAttribute{Format: wgpu.VertexFormatFloat32x3, Offset: 0, ShaderLocation: 0}, layout.Attributes[0])
	assert.Equal(t, wgpu.VertexAttribute{Format: wgpu.VertexFormatFloat32x3, Offset: 12, ShaderLocation: 1}, layout.Attributes[1])
	assert.Equal(t, wgpu.VertexAttribute{Format: wgpu.VertexFormatFloat32x2, Offset: 24, ShaderLocation: 2}, layout.Attributes[2])
	assert.Len(t, s.VertexLayouts(), 1)
}

func TestNewShaderBindGroups(t *testing.T) {
	vs, err := NewShader("globe_vs", ShaderTypeVertex, globeSource)
	require.NoError(t, err)

	cam := vs.BindGroupLayoutDescriptor(0)
	require.Len(t, cam.Entries, 1)
	assert.Equal(t, wgpu.BufferBindingTypeUniform, cam.Entries[0].Buffer.Type)
	assert.Equal(t, uint64(128), cam.Entries[0].Buffer.MinBindingSize)
	assert.Equal(t, wgpu.ShaderStageVertex, cam.Entries[0].Visibility)
	assert.Equal(t, "camera", vs.BindGroupVarName(0, 0))

	fs, err := NewShader("globe_fs", ShaderTypeFragment, globeSource)
	require.NoError(t, err)
	assert.Equal(t, "fragment_main", fs.EntryPoint())
	assert.Empty(t, fs.VertexInputs())

	tex := fs.BindGroupLayoutDescriptor(1)
	require.Len(t, tex.Entries, 2)
	assert.Equal(t, uint32(0), tex.Entries[0].Binding)
	assert.Equal(t, wgpu.TextureSampleTypeFloat, tex.Entries[0].Texture.SampleType)
	assert.Equal(t, wgpu.TextureViewDimension2D, tex.Entries[0].Texture.ViewDimension)
	assert.Equal(t, wgpu.SamplerBindingTypeFiltering, tex.Entries[1].Sampler.Type)
	assert.Equal(t, wgpu.ShaderStageFragment, tex.Entries[1].Visibility)
	assert.Equal(t, "mainSampler", fs.BindGroupVarName(1, 1))
	assert.Equal(t, "", fs.BindGroupVarName(3, 0))
}

func TestNewShaderMissingEntryPoint(t *testing.T) {
	_, err := NewShader("broken", ShaderTypeFragment, "struct A { x: f32, };")
	assert.Error(t, err)
}

func TestNewShaderFromPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "globe.wgsl")
	require.NoError(t, os.WriteFile(path, []byte(globeSource), 0o644))

	s, err := NewShaderFromPath("globe_vs", ShaderTypeVertex, path)
	require.NoError(t, err)
	assert.Equal(t, "vertex_main", s.EntryPoint())

	_, err = NewShaderFromPath("missing", ShaderTypeVertex, filepath.Join(t.TempDir(), "nope.wgsl"))
	assert.Error(t, err)
}

func TestStructLayout(t *testing.T) {
	tests := []struct {
		name   string
		source string
		target string
		size   uint64
		align  uint64
	}{
		{"camera", globeSource, "Camera", 128, 16},
		{"vec3 padding", "struct P { a: vec3<f32>, b: f32, c: vec3<f32>, };", "P", 32, 16},
		{"nested array", "struct E { v: vec2f, }; struct L { items: array<E, 3>, n: u32, };", "L", 32, 8},
		{"mat3", "struct M { m: mat3x3<f32>, };", "M", 48, 16},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			size, align, err := StructLayout(tt.source, tt.target)
			require.NoError(t, err)
			assert.Equal(t, tt.size, size)
			assert.Equal(t, tt.align, align)
		})
	}

	_, _, err := StructLayout(globeSource, "Missing")
	assert.Error(t, err)
	_, _, err = StructLayout("struct U { x: Unknown, };", "U")
	assert.Error(t, err)
}

func TestVerifyVertexLayout(t *testing.T) {
	s, err := NewShader("globe_vs", ShaderTypeVertex, globeSource)
	require.NoError(t, err)

	expected := wgpu.VertexBufferLayout{
		ArrayStride: 32,
		StepMode:    wgpu.VertexStepModeVertex,
		Attributes: []wgpu.VertexAttribute{
			{Format: wgpu.VertexFormatFloat32x3, Offset: 0, ShaderLocation: 0},
			{Format: wgpu.VertexFormatFloat32x3, Offset: 12, ShaderLocation: 1},
			{Format: wgpu.VertexFormatFloat32x2, Offset: 24, ShaderLocation: 2},
		},
	}
	assert.NoError(t, VerifyVertexLayout(s, expected))

	positionOnly := wgpu.VertexBufferLayout{
		ArrayStride: 12,
		Attributes:  []wgpu.VertexAttribute{{Format: wgpu.VertexFormatFloat32x3}},
	}
	err = VerifyVertexLayout(s, positionOnly)
	assert.ErrorIs(t, err, ErrLayoutMismatch)
	assert.Contains(t, err.Error(), "stride 32, host 12")

	fs, err := NewShader("globe_fs", ShaderTypeFragment, globeSource)
	require.NoError(t, err)
	assert.ErrorIs(t, VerifyVertexLayout(fs, expected), ErrLayoutMismatch)
}

func TestStripComments(t *testing.T) {
	src := "a // line\nb /* x /* nested */ y\n */ c"
	assert.Equal(t, "a \nb \n c", stripComments(src))
}
