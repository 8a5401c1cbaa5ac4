package globe

import (
	"math"

	"github.com/Carmen-Shannon/oxy-globe/common"
	"github.com/Carmen-Shannon/oxy-globe/engine/mesh"
	"github.com/chewxy/math32"
)

type sphere struct {
	radius   float32
	offset   [3]float32
	segments SegmentsInfo
}

// Sphere is the point-cloud sphere: one vertex per (u, v) sample, drawn as a point list.
// It streams positions only (mesh.LayoutPosition).
type Sphere interface {
	// Radius returns the sphere radius.
	Radius() float32

	// Offset returns the translation applied to every position.
	Offset() [3]float32

	// Segments returns the tessellation density.
	Segments() SegmentsInfo

	// PositionForParams returns the offset surface point at polar angle u and azimuth v, in radians.
	PositionForParams(u, v float32) [3]float32

	// Vertices returns the U*V samples in u-major order. Normals point away from the sphere centre.
	Vertices() []mesh.GPUVertex

	// Indices returns 0..U*V-1 in order.
	Indices() []uint16
}

var _ Sphere = &sphere{}

// NewSphere creates a point sphere sampling u in [0, π) and v in [0, 2π).
//
// Parameters:
//   - segments: the number of u and v samples
//   - options: variadic list of SphereBuilderOption functions to configure the sphere
//
// Returns:
//   - Sphere: the sphere
//   - error: an error wrapping ErrInvalidSegments if segments cannot be indexed
func NewSphere(segments SegmentsInfo, options ...SphereBuilderOption) (Sphere, error) {
	if err := segments.Validate(); err != nil {
		return nil, err
	}
	s := &sphere{
		radius:   1,
		offset:   [3]float32{0, 0, 1},
		segments: segments,
	}
	for _, opt := range options {
		opt(s)
	}
	return s, nil
}

func (s *sphere) Radius() float32 {
	return s.radius
}

func (s *sphere) Offset() [3]float32 {
	return s.offset
}

func (s *sphere) Segments() SegmentsInfo {
	return s.segments
}

func (s *sphere) PositionForParams(u, v float32) [3]float32 {
	sinU, cosU := math32.Sincos(u)
	sinV, cosV := math32.Sincos(v)
	return [3]float32{
		s.radius*sinU*cosV + s.offset[0],
		s.radius*cosU + s.offset[1],
		s.radius*sinU*sinV + s.offset[2],
	}
}

func (s *sphere) Vertices() []mesh.GPUVertex {
	uPart := float32(math.Pi) / float32(s.segments.UParts)
	vPart := 2 * float32(math.Pi) / float32(s.segments.VParts)

	vertices := make([]mesh.GPUVertex, 0, s.segments.UParts*s.segments.VParts)
	for u := range s.segments.UParts {
		for v := range s.segments.VParts {
			p := s.PositionForParams(uPart*float32(u), vPart*float32(v))
			vertices = append(vertices, mesh.GPUVertex{
				Position: p,
				Normal:   common.Normalize3([3]float32{p[0] - s.offset[0], p[1] - s.offset[1], p[2] - s.offset[2]}),
			})
		}
	}
	return vertices
}

func (s *sphere) Indices() []uint16 {
	n := s.segments.UParts * s.segments.VParts
	indices := make([]uint16, n)
	for i := range n {
		indices[i] = uint16(i)
	}
	return indices
}
