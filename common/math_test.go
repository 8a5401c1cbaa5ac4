package common

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const eps = 1e-5

func assertMatrixInDelta(t *testing.T, want, got []float32) {
	t.Helper()
	require.Len(t, got, len(want))
	for i := range want {
		assert.InDelta(t, want[i], got[i], eps, "element %d", i)
	}
}

func TestIdentityMul(t *testing.T) {
	var id, m, out [16]float32
	Identity(id[:])
	for i := range m {
		m[i] = float32(i + 1)
	}
	Mul4(out[:], id[:], m[:])
	assert.Equal(t, m, out)
	Mul4(out[:], m[:], id[:])
	assert.Equal(t, m, out)
}

func TestTranslationInverse(t *testing.T) {
	var tr, inv, want [16]float32
	Translation(tr[:], 0, 0, -2)
	require.True(t, Invert4(inv[:], tr[:]))
	Translation(want[:], 0, 0, 2)
	assertMatrixInDelta(t, want[:], inv[:])
}

func TestInvert4Singular(t *testing.T) {
	var zero, out [16]float32
	out[0] = 7
	assert.False(t, Invert4(out[:], zero[:]))
	assert.Equal(t, float32(7), out[0])
}

func TestRotations(t *testing.T) {
	tests := []struct {
		name string
		rot  func(out []float32, angle float32)
		in   [4]float32
		want [4]float32
	}{
		{"x maps y to z", RotationX, [4]float32{0, 1, 0, 1}, [4]float32{0, 0, 1, 1}},
		{"y maps z to x", RotationY, [4]float32{0, 0, 1, 1}, [4]float32{1, 0, 0, 1}},
		{"z maps x to y", RotationZ, [4]float32{1, 0, 0, 1}, [4]float32{0, 1, 0, 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var m [16]float32
			tt.rot(m[:], math.Pi/2)
			got := MulVec4(m[:], tt.in)
			assertMatrixInDelta(t, tt.want[:], got[:])
		})
	}
}

func TestRotationXYZOrder(t *testing.T) {
	var x, y, z, xy, want, got [16]float32
	RotationX(x[:], 0.3)
	RotationY(y[:], 0.5)
	RotationZ(z[:], 0.7)
	Mul4(xy[:], x[:], y[:])
	Mul4(want[:], xy[:], z[:])
	RotationXYZ(got[:], 0.3, 0.5, 0.7)
	assertMatrixInDelta(t, want[:], got[:])
}

func TestDegreesToRadians(t *testing.T) {
	assert.InDelta(t, math.Pi, DegreesToRadians(180), eps)
	assert.InDelta(t, math.Pi/180, DegreesToRadians(1), eps)
}

func TestGlobeProjection(t *testing.T) {
	tests := []struct {
		name   string
		aspect float32
		sx, sy float32
	}{
		{"portrait", 2, 2, 1},
		{"square", 1, 2, 2},
		{"landscape", 0.5, 1, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var m [16]float32
			GlobeProjection(m[:], tt.aspect, 1, 2)
			want := []float32{
				tt.sx, 0, 0, 0,
				0, tt.sy, 0, 0,
				0, 0, 2, 1,
				0, 0, -2, 0,
			}
			assertMatrixInDelta(t, want, m[:])
		})
	}
}

func TestGlobeProjectionDepthRange(t *testing.T) {
	var m [16]float32
	GlobeProjection(m[:], 1, 1, 2)

	near := MulVec4(m[:], [4]float32{0, 0, 1, 1})
	far := MulVec4(m[:], [4]float32{0, 0, 2, 1})
	assert.InDelta(t, 0, near[2]/near[3], eps)
	assert.InDelta(t, 1, far[2]/far[3], eps)
}

func TestAspectRatio(t *testing.T) {
	assert.Equal(t, float32(0.5), AspectRatio(800, 400))
	assert.Equal(t, float32(2), AspectRatio(400, 800))
	assert.Equal(t, float32(600), AspectRatio(0, 600))
}

func TestNormalize3(t *testing.T) {
	n := Normalize3([3]float32{3, 0, 4})
	assertMatrixInDelta(t, []float32{0.6, 0, 0.8}, n[:])
	assert.Equal(t, [3]float32{}, Normalize3([3]float32{}))
}
