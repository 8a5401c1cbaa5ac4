package shader

import (
	"errors"
	"fmt"
	"strings"

	"github.com/cogentcore/webgpu/wgpu"
)

// ErrLayoutMismatch is returned when a host-side vertex layout disagrees with the vertex input a shader declares.
var ErrLayoutMismatch = errors.New("vertex layout mismatch")

// VerifyVertexLayout checks that the first vertex input of a vertex shader has exactly the stride,
// attribute formats, offsets and locations of the expected host layout.
//
// Parameters:
//   - s: a vertex shader
//   - expected: the layout the host will upload vertex data in
//
// Returns:
//   - error: nil when the layouts agree, otherwise an error wrapping ErrLayoutMismatch that lists every difference
func VerifyVertexLayout(s Shader, expected wgpu.VertexBufferLayout) error {
	inputs := s.VertexInputs()
	if len(inputs) == 0 {
		return fmt.Errorf("%w: shader %s declares no vertex input struct", ErrLayoutMismatch, s.Key())
	}
	got := inputs[0].Layout

	var problems []string
	if got.ArrayStride != expected.ArrayStride {
		problems = append(problems, fmt.Sprintf("stride %d, host %d", got.ArrayStride, expected.ArrayStride))
	}
	if len(got.Attributes) != len(expected.Attributes) {
		problems = append(problems, fmt.Sprintf("%d attributes, host %d", len(got.Attributes), len(expected.Attributes)))
	}
	for i := range min(len(got.Attributes), len(expected.Attributes)) {
		g, e := got.Attributes[i], expected.Attributes[i]
		if g.Format != e.Format {
			problems = append(problems, fmt.Sprintf("attribute %d format %v, host %v", i, g.Format, e.Format))
		}
		if g.Offset != e.Offset {
			problems = append(problems, fmt.Sprintf("attribute %d offset %d, host %d", i, g.Offset, e.Offset))
		}
		if g.ShaderLocation != e.ShaderLocation {
			problems = append(problems, fmt.Sprintf("attribute %d location %d, host %d", i, g.ShaderLocation, e.ShaderLocation))
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s (%s): %s", ErrLayoutMismatch, s.Key(), inputs[0].Name, strings.Join(problems, "; "))
	}
	return nil
}
