package camera

import (
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/Carmen-Shannon/oxy-globe/common"
	"github.com/Carmen-Shannon/oxy-globe/engine/renderer/bind_group_provider"
)

// cameraCount is an atomic counter used to generate unique bind group provider names for each camera instance.
var cameraCount atomic.Uint64

type cameraImpl struct {
	mu *sync.Mutex

	aspect   float32
	near     float32
	far      float32
	distance float32

	// spinRate is the rotation in degrees added per tick.
	spinRate float32
	// timer is the accumulated rotation in degrees, applied to both the X and Y axes.
	timer float32

	modelMatrix      [16]float32
	projectionMatrix [16]float32

	bindGroupProvider bind_group_provider.BindGroupProvider
}

// Camera holds the globe view settings and produces the Camera uniform each frame.
// The globe sits distance units in front of the viewer and spins around X and Y by the same
// angle, which grows by the spin rate every tick.
type Camera interface {
	// Aspect returns the aspect ratio (height / width).
	Aspect() float32

	// Near returns the near clipping plane distance.
	Near() float32

	// Far returns the far clipping plane distance.
	Far() float32

	// Distance returns how far in front of the viewer the globe is placed.
	Distance() float32

	// Timer returns the accumulated spin angle in degrees.
	Timer() float32

	// ModelMatrix returns the current model matrix (column-major).
	ModelMatrix() [16]float32

	// ProjectionMatrix returns the current projection matrix (column-major).
	ProjectionMatrix() [16]float32

	// ClipMatrix returns Projection * Model, mapping globe-local positions to clip space.
	// Used to cull tiles against the view frustum.
	//
	// Returns:
	//   - [16]float32: the combined matrix
	ClipMatrix() [16]float32

	// Uniform returns the GPU representation of the current camera state.
	//
	// Returns:
	//   - GPUCamera: model and projection matrices ready for Marshal
	Uniform() GPUCamera

	// Advance moves the spin timer forward and recomputes the model matrix.
	//
	// Parameters:
	//   - ticks: number of ticks elapsed (fractional ticks are allowed)
	Advance(ticks float32)

	// SetAspect sets the aspect ratio (height / width) and recomputes the projection.
	//
	// Parameters:
	//   - aspect: the aspect ratio
	SetAspect(aspect float32)

	// BindGroupProvider returns the camera's bind group provider for GPU resources.
	BindGroupProvider() bind_group_provider.BindGroupProvider
}

var _ Camera = &cameraImpl{}

// NewCamera creates a new Camera.
// Defaults: aspect 1, near 1, far 2, distance 2, spin rate 1 degree per tick.
//
// Parameters:
//   - options: functional options to configure the camera
//
// Returns:
//   - Camera: the newly created camera
func NewCamera(options ...CameraBuilderOption) Camera {
	c := &cameraImpl{
		mu:       &sync.Mutex{},
		aspect:   1,
		near:     1,
		far:      2,
		distance: 2,
		spinRate: 1,
		bindGroupProvider: bind_group_provider.NewBindGroupProvider(
			"camera_"+strconv.FormatUint(cameraCount.Add(1)-1, 10),
			bind_group_provider.WithGroup(0),
		),
	}
	for _, option := range options {
		option(c)
	}
	c.updateModel()
	c.updateProjection()
	return c
}

func (c *cameraImpl) Aspect() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.aspect
}

func (c *cameraImpl) Near() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.near
}

func (c *cameraImpl) Far() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.far
}

func (c *cameraImpl) Distance() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.distance
}

func (c *cameraImpl) Timer() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.timer
}

func (c *cameraImpl) ModelMatrix() [16]float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.modelMatrix
}

func (c *cameraImpl) ProjectionMatrix() [16]float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.projectionMatrix
}

func (c *cameraImpl) ClipMatrix() [16]float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out [16]float32
	common.Mul4(out[:], c.projectionMatrix[:], c.modelMatrix[:])
	return out
}

func (c *cameraImpl) Uniform() GPUCamera {
	c.mu.Lock()
	defer c.mu.Unlock()
	return GPUCamera{Model: c.modelMatrix, Proj: c.projectionMatrix}
}

func (c *cameraImpl) Advance(ticks float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.timer += c.spinRate * ticks
	c.updateModel()
}

func (c *cameraImpl) SetAspect(aspect float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.aspect = aspect
	c.updateProjection()
}

func (c *cameraImpl) BindGroupProvider() bind_group_provider.BindGroupProvider {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.bindGroupProvider
}

// updateModel rebuilds model = inverse(T(0, 0, -distance)) * R(timer, timer, 0). Caller must hold mu.
func (c *cameraImpl) updateModel() {
	var translation, inverse, rotation [16]float32
	common.Translation(translation[:], 0, 0, -c.distance)
	if !common.Invert4(inverse[:], translation[:]) {
		common.Identity(inverse[:])
	}
	angle := common.DegreesToRadians(c.timer)
	common.RotationXYZ(rotation[:], angle, angle, 0)
	common.Mul4(c.modelMatrix[:], inverse[:], rotation[:])
}

// updateProjection rebuilds the projection from aspect, near and far. Caller must hold mu.
func (c *cameraImpl) updateProjection() {
	common.GlobeProjection(c.projectionMatrix[:], c.aspect, c.near, c.far)
}
