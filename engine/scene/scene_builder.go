package scene

import (
	"github.com/Carmen-Shannon/oxy-globe/common"
	"github.com/Carmen-Shannon/oxy-globe/engine/globe"
	"github.com/Carmen-Shannon/oxy-globe/engine/mesh"
)

// SceneBuilderOption is a functional option for configuring a Scene.
// Use the With* functions to create options.
type SceneBuilderOption func(s *scene)

// WithActive sets whether the scene is active for rendering.
//
// Parameters:
//   - active: whether the scene is active
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithActive(active bool) SceneBuilderOption {
	return func(s *scene) {
		s.active = active
	}
}

// WithLayout sets the vertex layout the tiles are uploaded in, which also selects the globe program.
// Unknown layouts are ignored.
//
// Parameters:
//   - kind: the vertex layout
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithLayout(kind mesh.LayoutKind) SceneBuilderOption {
	return func(s *scene) {
		if kind.Valid() {
			s.layout = kind
		}
	}
}

// WithSegments sets the tessellation density of the globe. Defaults to 32x64.
func WithSegments(segments globe.SegmentsInfo) SceneBuilderOption {
	return func(s *scene) {
		s.segments = segments
	}
}

// WithRadius sets the globe radius. Values <= 0 keep globe.DefaultRadius.
func WithRadius(radius float64) SceneBuilderOption {
	return func(s *scene) {
		if radius > 0 {
			s.radius = radius
		}
	}
}

// WithTexture sets the main texture bound at construction. Without it the white fallback is bound.
//
// Parameters:
//   - tex: the decoded RGBA texture
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithTexture(tex *common.TextureStagingData) SceneBuilderOption {
	return func(s *scene) {
		s.texture = tex
	}
}

// WithPointSphere enables the point sphere drawn over the globe.
func WithPointSphere(enabled bool) SceneBuilderOption {
	return func(s *scene) {
		s.pointSphere = enabled
	}
}

// WithTickRate sets how many camera ticks one second of Update time is worth. Defaults to 60,
// so the globe turns by the camera's spin rate 60 times per second regardless of the engine rate.
//
// Parameters:
//   - ticksPerSecond: camera ticks per second (values <= 0 keep the default)
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithTickRate(ticksPerSecond float32) SceneBuilderOption {
	return func(s *scene) {
		if ticksPerSecond > 0 {
			s.tickRate = ticksPerSecond
		}
	}
}

// WithWorkers sets the number of worker goroutines used to tessellate the tiles.
// Defaults to runtime.NumCPU()-1.
//
// Parameters:
//   - n: the number of workers (minimum 1)
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithWorkers(n int) SceneBuilderOption {
	return func(s *scene) {
		if n < 1 {
			n = 1
		}
		s.workers = n
	}
}

// WithCullingDisabled disables frustum culling for the scene. When set to true every tile is
// drawn each frame. By default culling is enabled (disabled = false).
//
// Parameters:
//   - disabled: true to disable frustum culling, false to enable it (default)
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithCullingDisabled(disabled bool) SceneBuilderOption {
	return func(s *scene) {
		s.cullingDisabled = disabled
	}
}
