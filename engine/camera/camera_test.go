package camera

import (
	"encoding/binary"
	"math"
	"testing"
	"unsafe"

	"github.com/Carmen-Shannon/oxy-globe/common"
	"github.com/Carmen-Shannon/oxy-globe/engine/renderer/shader"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGPUCameraLayout(t *testing.T) {
	var g GPUCamera
	assert.Equal(t, 128, g.Size())
	assert.Equal(t, uintptr(0), unsafe.Offsetof(g.Model))
	assert.Equal(t, uintptr(64), unsafe.Offsetof(g.Proj))
}

func TestGPUCameraMatchesWGSL(t *testing.T) {
	size, align, err := shader.StructLayout(GPUCameraSource, "Camera")
	require.NoError(t, err)
	assert.Equal(t, uint64(128), size)
	assert.Equal(t, uint64(16), align)
}

func TestGPUCameraMarshal(t *testing.T) {
	var g GPUCamera
	for i := range 16 {
		g.Model[i] = float32(i)
		g.Proj[i] = float32(100 + i)
	}
	buf := g.Marshal()
	require.Len(t, buf, 128)

	assert.Equal(t, float32(0), math.Float32frombits(binary.LittleEndian.Uint32(buf[0:])))
	assert.Equal(t, float32(15), math.Float32frombits(binary.LittleEndian.Uint32(buf[60:])))
	assert.Equal(t, float32(100), math.Float32frombits(binary.LittleEndian.Uint32(buf[64:])))
	assert.Equal(t, float32(115), math.Float32frombits(binary.LittleEndian.Uint32(buf[124:])))
}

func TestNewCameraDefaults(t *testing.T) {
	c := NewCamera()

	assert.Equal(t, float32(1), c.Aspect())
	assert.Equal(t, float32(1), c.Near())
	assert.Equal(t, float32(2), c.Far())
	assert.Equal(t, float32(2), c.Distance())
	assert.Zero(t, c.Timer())
	require.NotNil(t, c.BindGroupProvider())
	assert.Equal(t, uint32(0), c.BindGroupProvider().Group())

	var wantModel [16]float32
	common.Translation(wantModel[:], 0, 0, 2)
	assert.Equal(t, wantModel, c.ModelMatrix())

	var wantProj [16]float32
	common.GlobeProjection(wantProj[:], 1, 1, 2)
	assert.Equal(t, wantProj, c.ProjectionMatrix())
}

func TestCameraAdvance(t *testing.T) {
	c := NewCamera(WithSpinRate(2))
	c.Advance(45)
	assert.Equal(t, float32(90), c.Timer())

	var translation, rotation, want [16]float32
	common.Translation(translation[:], 0, 0, 2)
	common.RotationXYZ(rotation[:], math.Pi/2, math.Pi/2, 0)
	common.Mul4(want[:], translation[:], rotation[:])

	got := c.ModelMatrix()
	for i := range want {
		assert.InDelta(t, want[i], got[i], 1e-5, "element %d", i)
	}
}

func TestCameraSetAspect(t *testing.T) {
	c := NewCamera(WithNear(1), WithFar(3))
	c.SetAspect(0.5)

	p := c.ProjectionMatrix()
	assert.Equal(t, float32(1), p[0])
	assert.Equal(t, float32(2), p[5])
	assert.Equal(t, float32(1.5), p[10])
	assert.Equal(t, float32(-1.5), p[14])
}

func TestCameraUniformAndClip(t *testing.T) {
	c := NewCamera(WithAspect(2), WithDistance(3))
	u := c.Uniform()
	assert.Equal(t, c.ModelMatrix(), u.Model)
	assert.Equal(t, c.ProjectionMatrix(), u.Proj)

	// The globe center lands on the camera axis at the configured distance.
	clip := c.ClipMatrix()
	center := common.MulVec4(clip[:], [4]float32{0, 0, 0, 1})
	assert.InDelta(t, 0, center[0], 1e-6)
	assert.InDelta(t, 0, center[1], 1e-6)
	assert.InDelta(t, 3, center[3], 1e-6)
}

func TestCameraProvidersAreUnique(t *testing.T) {
	a := NewCamera()
	b := NewCamera()
	assert.NotEqual(t, a.BindGroupProvider().Label(), b.BindGroupProvider().Label())
}
