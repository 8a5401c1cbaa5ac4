package common

import (
	"math"

	"github.com/chewxy/math32"
)

// Identity resets a 4x4 matrix (flat slice) to the identity matrix.
// The matrix is stored in column-major order.
//
// Parameters:
//   - m: destination slice (must be at least 16 elements)
func Identity(m []float32) {
	for i := range m {
		m[i] = 0
	}
	m[0], m[5], m[10], m[15] = 1, 1, 1, 1
}

// Mul4 multiplies two 4x4 matrices and stores the result in out.
// All matrices are stored in column-major order (WebGPU convention).
// Result: out = a * b
//
// Parameters:
//   - out: destination slice (must be at least 16 elements)
//   - a: left-hand matrix (16 elements)
//   - b: right-hand matrix (16 elements)
func Mul4(out, a, b []float32) {
	var buf [16]float32
	for i := 0; i < 4; i++ { // column of B
		for j := 0; j < 4; j++ { // row of A
			sum := float32(0)
			for k := 0; k < 4; k++ {
				sum += a[k*4+j] * b[i*4+k]
			}
			buf[i*4+j] = sum
		}
	}
	copy(out, buf[:])
}

// MulVec4 multiplies a 4x4 column-major matrix by a column vector.
//
// Parameters:
//   - m: matrix (16 elements, column-major)
//   - v: vector to transform
//
// Returns:
//   - [4]float32: m * v
func MulVec4(m []float32, v [4]float32) [4]float32 {
	var out [4]float32
	for row := 0; row < 4; row++ {
		out[row] = m[row]*v[0] + m[4+row]*v[1] + m[8+row]*v[2] + m[12+row]*v[3]
	}
	return out
}

// Translation writes a translation matrix into out.
//
// Parameters:
//   - out: destination slice (must be at least 16 elements)
//   - x, y, z: translation along each axis
func Translation(out []float32, x, y, z float32) {
	Identity(out)
	out[12], out[13], out[14] = x, y, z
}

// RotationX writes a rotation of angle radians around the X axis into out.
func RotationX(out []float32, angle float32) {
	s, c := math32.Sincos(angle)
	Identity(out)
	out[5], out[6] = c, s
	out[9], out[10] = -s, c
}

// RotationY writes a rotation of angle radians around the Y axis into out.
func RotationY(out []float32, angle float32) {
	s, c := math32.Sincos(angle)
	Identity(out)
	out[0], out[2] = c, -s
	out[8], out[10] = s, c
}

// RotationZ writes a rotation of angle radians around the Z axis into out.
func RotationZ(out []float32, angle float32) {
	s, c := math32.Sincos(angle)
	Identity(out)
	out[0], out[1] = c, s
	out[4], out[5] = -s, c
}

// RotationXYZ writes the composed Euler rotation Rx * Ry * Rz into out.
// Vectors are therefore rotated around Z first, then Y, then X.
//
// Parameters:
//   - out: destination slice (must be at least 16 elements)
//   - rx, ry, rz: rotation angles in radians around each axis
func RotationXYZ(out []float32, rx, ry, rz float32) {
	var x, y, z [16]float32
	RotationX(x[:], rx)
	RotationY(y[:], ry)
	RotationZ(z[:], rz)
	Mul4(out, x[:], y[:])
	Mul4(out, out, z[:])
}

// DegreesToRadians converts an angle in degrees to radians.
func DegreesToRadians(deg float32) float32 {
	return deg * math.Pi / 180
}

// GlobeProjection writes the fixed-scale projection used by the globe view into out.
// Depth maps linearly in 1/w so that view-space z == near lands on 0 and z == far lands on 1,
// matching the WebGPU [0, 1] clip range. +Z points into the screen.
//
// The aspect ratio is height divided by width. Landscape surfaces (aspect < 1) keep the
// vertical scale at 2 and shrink X, portrait surfaces keep the horizontal scale at 2.
//
// Parameters:
//   - out: destination slice (must be at least 16 elements)
//   - aspect: surface height / width
//   - near: near plane distance
//   - far: far plane distance (must differ from near)
func GlobeProjection(out []float32, aspect, near, far float32) {
	a := far / (far - near)
	b := -far * near / (far - near)

	sx, sy := float32(2), float32(2)
	if aspect > 1 {
		sy = 2 / aspect
	} else {
		sx = 2 * aspect
	}

	for i := range out[:16] {
		out[i] = 0
	}
	out[0] = sx
	out[5] = sy
	out[10], out[11] = a, 1
	out[14] = b
}

// AspectRatio returns height / width with width clamped to at least one pixel.
func AspectRatio(width, height uint32) float32 {
	w := float32(width)
	if w < 1 {
		w = 1
	}
	return float32(height) / w
}

// Normalize3 returns v scaled to unit length. A zero vector is returned unchanged.
func Normalize3(v [3]float32) [3]float32 {
	l := math32.Sqrt(v[0]*v[0] + v[1]*v[1] + v[2]*v[2])
	if l == 0 {
		return v
	}
	return [3]float32{v[0] / l, v[1] / l, v[2] / l}
}

// Invert4 computes the inverse of a 4x4 column-major matrix using the Laplace
// expansion (cofactor) method. If the matrix is singular (determinant ≈ 0) the
// output is left unchanged and the function returns false.
//
// Parameters:
//   - out: destination slice (must be at least 16 elements)
//   - m: source matrix (16 elements, column-major)
//
// Returns:
//   - bool: true if the matrix was successfully inverted, false if singular
func Invert4(out, m []float32) bool {
	s0 := m[0]*m[5] - m[4]*m[1]
	s1 := m[0]*m[6] - m[4]*m[2]
	s2 := m[0]*m[7] - m[4]*m[3]
	s3 := m[1]*m[6] - m[5]*m[2]
	s4 := m[1]*m[7] - m[5]*m[3]
	s5 := m[2]*m[7] - m[6]*m[3]

	c5 := m[10]*m[15] - m[14]*m[11]
	c4 := m[9]*m[15] - m[13]*m[11]
	c3 := m[9]*m[14] - m[13]*m[10]
	c2 := m[8]*m[15] - m[12]*m[11]
	c1 := m[8]*m[14] - m[12]*m[10]
	c0 := m[8]*m[13] - m[12]*m[9]

	det := s0*c5 - s1*c4 + s2*c3 + s3*c2 - s4*c1 + s5*c0
	if det == 0 {
		return false
	}

	invDet := 1.0 / det
	var buf [16]float32

	buf[0] = (m[5]*c5 - m[6]*c4 + m[7]*c3) * invDet
	buf[1] = (-m[1]*c5 + m[2]*c4 - m[3]*c3) * invDet
	buf[2] = (m[13]*s5 - m[14]*s4 + m[15]*s3) * invDet
	buf[3] = (-m[9]*s5 + m[10]*s4 - m[11]*s3) * invDet

	buf[4] = (-m[4]*c5 + m[6]*c2 - m[7]*c1) * invDet
	buf[5] = (m[0]*c5 - m[2]*c2 + m[3]*c1) * invDet
	buf[6] = (-m[12]*s5 + m[14]*s2 - m[15]*s1) * invDet
	buf[7] = (m[8]*s5 - m[10]*s2 + m[11]*s1) * invDet

	buf[8] = (m[4]*c4 - m[5]*c2 + m[7]*c0) * invDet
	buf[9] = (-m[0]*c4 + m[1]*c2 - m[3]*c0) * invDet
	buf[10] = (m[12]*s4 - m[13]*s2 + m[15]*s0) * invDet
	buf[11] = (-m[8]*s4 + m[9]*s2 - m[11]*s0) * invDet

	buf[12] = (-m[4]*c3 + m[5]*c1 - m[6]*c0) * invDet
	buf[13] = (m[0]*c3 - m[1]*c1 + m[2]*c0) * invDet
	buf[14] = (-m[12]*s3 + m[13]*s1 - m[14]*s0) * invDet
	buf[15] = (m[8]*s3 - m[9]*s1 + m[10]*s0) * invDet

	copy(out, buf[:])
	return true
}
