package bind_group_provider

import (
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
)

func TestNewBindGroupProviderDefaults(t *testing.T) {
	p := NewBindGroupProvider("camera_0")

	assert.Equal(t, "camera_0", p.Label())
	assert.Equal(t, uint32(0), p.Group())
	assert.Equal(t, wgpu.IndexFormatUint16, p.IndexFormat())
	assert.Nil(t, p.BindGroup())
	assert.Nil(t, p.Buffer(0))
	assert.Nil(t, p.TextureView(0))
	assert.Nil(t, p.Sampler(1))
	assert.Zero(t, p.IndexCount())
}

func TestBindGroupProviderOptions(t *testing.T) {
	p := NewBindGroupProvider("textures", WithGroup(1), WithIndexFormat(wgpu.IndexFormatUint32))

	assert.Equal(t, uint32(1), p.Group())
	assert.Equal(t, wgpu.IndexFormatUint32, p.IndexFormat())
}

func TestReleaseWithoutGPUResources(t *testing.T) {
	p := NewBindGroupProvider("tile_0")
	p.SetIndexBuffer(nil, 6)
	assert.Equal(t, 6, p.IndexCount())

	assert.NotPanics(t, p.Release)
	assert.Zero(t, p.IndexCount())
}
