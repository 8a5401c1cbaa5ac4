package pipeline

import (
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMergeBindGroupLayouts(t *testing.T) {
	camera := wgpu.BindGroupLayoutEntry{
		Binding:    0,
		Visibility: wgpu.ShaderStageVertex,
		Buffer:     wgpu.BufferBindingLayout{Type: wgpu.BufferBindingTypeUniform, MinBindingSize: 128},
	}
	tex := wgpu.BindGroupLayoutEntry{
		Binding:    0,
		Visibility: wgpu.ShaderStageFragment,
		Texture:    wgpu.TextureBindingLayout{SampleType: wgpu.TextureSampleTypeFloat, ViewDimension: wgpu.TextureViewDimension2D},
	}
	samp := wgpu.BindGroupLayoutEntry{
		Binding:    1,
		Visibility: wgpu.ShaderStageFragment,
		Sampler:    wgpu.SamplerBindingLayout{Type: wgpu.SamplerBindingTypeFiltering},
	}
	cameraInFragment := camera
	cameraInFragment.Visibility = wgpu.ShaderStageFragment

	vertex := map[int]wgpu.BindGroupLayoutDescriptor{
		0: {Label: "camera", Entries: []wgpu.BindGroupLayoutEntry{camera}},
	}
	fragment := map[int]wgpu.BindGroupLayoutDescriptor{
		0: {Label: "camera", Entries: []wgpu.BindGroupLayoutEntry{cameraInFragment}},
		1: {Label: "texture", Entries: []wgpu.BindGroupLayoutEntry{samp, tex}},
	}

	merged := mergeBindGroupLayouts(vertex, fragment)
	require.Len(t, merged, 2)

	require.Len(t, merged[0].Entries, 1)
	assert.Equal(t, "camera", merged[0].Label)
	assert.Equal(t, wgpu.ShaderStageVertex|wgpu.ShaderStageFragment, merged[0].Entries[0].Visibility)

	// single-stage groups pass through untouched
	assert.Equal(t, fragment[1], merged[1])
}

func TestMergeBindGroupLayoutsSortsBindings(t *testing.T) {
	a := wgpu.BindGroupLayoutEntry{Binding: 2, Visibility: wgpu.ShaderStageVertex}
	b := wgpu.BindGroupLayoutEntry{Binding: 0, Visibility: wgpu.ShaderStageFragment}
	c := wgpu.BindGroupLayoutEntry{Binding: 1, Visibility: wgpu.ShaderStageVertex}

	merged := mergeBindGroupLayouts(
		map[int]wgpu.BindGroupLayoutDescriptor{3: {Entries: []wgpu.BindGroupLayoutEntry{a, c}}},
		map[int]wgpu.BindGroupLayoutDescriptor{3: {Entries: []wgpu.BindGroupLayoutEntry{b}}},
	)
	require.Len(t, merged[3].Entries, 3)
	for i, e := range merged[3].Entries {
		assert.Equal(t, uint32(i), e.Binding)
	}
}

func TestMergeBindGroupLayoutsEmpty(t *testing.T) {
	assert.Empty(t, mergeBindGroupLayouts(nil, nil))
}
