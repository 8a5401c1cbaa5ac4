package globe

// SphereBuilderOption is a functional option for configuring a point sphere.
type SphereBuilderOption func(*sphere)

// WithRadius sets the sphere radius.
func WithRadius(radius float32) SphereBuilderOption {
	return func(s *sphere) {
		s.radius = radius
	}
}

// WithOffset sets the translation added to every generated position. Defaults to {0, 0, 1}.
//
// Parameters:
//   - offset: the x, y, z offset
//
// Returns:
//   - SphereBuilderOption: option function to apply
func WithOffset(offset [3]float32) SphereBuilderOption {
	return func(s *sphere) {
		s.offset = offset
	}
}
