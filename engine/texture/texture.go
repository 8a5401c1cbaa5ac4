package texture

import (
	"github.com/Carmen-Shannon/oxy-globe/common"
	"github.com/cogentcore/webgpu/wgpu"
)

// TexturesIndex is the fragment-stage binding slot of a texture in the texture bind group.
type TexturesIndex uint32

const (
	// MainTexture is the globe surface image.
	MainTexture TexturesIndex = 0
)

// SamplerBinding is the binding of the sampler that follows the texture slots in the texture bind group.
const SamplerBinding uint32 = 1

// Binding returns the WGSL @binding index of the slot.
func (i TexturesIndex) Binding() uint32 {
	return uint32(i)
}

// Fallback returns a 1x1 opaque white texture, bound in place of a texture that failed to load.
func Fallback() *common.TextureStagingData {
	return &common.TextureStagingData{
		Pixels: []byte{255, 255, 255, 255},
		Width:  1,
		Height: 1,
	}
}

// DefaultSampler returns linear filtering that wraps around the longitude and clamps at the poles.
func DefaultSampler() common.SamplerStagingData {
	return common.SamplerStagingData{
		AddressModeU:  wgpu.AddressModeRepeat,
		AddressModeV:  wgpu.AddressModeClampToEdge,
		AddressModeW:  wgpu.AddressModeClampToEdge,
		MagFilter:     wgpu.FilterModeLinear,
		MinFilter:     wgpu.FilterModeLinear,
		MipmapFilter:  wgpu.MipmapFilterModeLinear,
		LodMaxClamp:   32,
		MaxAnisotropy: 1,
	}
}
