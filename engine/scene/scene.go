package scene

import (
	"fmt"
	"log"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/oxy-globe/common"
	"github.com/Carmen-Shannon/oxy-globe/engine/camera"
	"github.com/Carmen-Shannon/oxy-globe/engine/globe"
	"github.com/Carmen-Shannon/oxy-globe/engine/mesh"
	"github.com/Carmen-Shannon/oxy-globe/engine/renderer"
	"github.com/Carmen-Shannon/oxy-globe/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-globe/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-globe/engine/texture"
	"github.com/cogentcore/webgpu/wgpu"
)

// Scene draws one tiled globe with a Camera and Renderer, plus an optional point sphere overlay.
// The tile meshes are uploaded once at construction in the configured vertex layout.
// Scenes can be hot-swapped via the Active flag.
// Thread-safe for concurrent access.
type Scene interface {
	// Name returns the scene's identifier.
	Name() string

	// Active returns whether this scene is currently active for rendering.
	Active() bool

	// SetActive sets whether this scene is active for rendering.
	SetActive(active bool)

	// Camera returns the scene's camera.
	Camera() camera.Camera

	// Renderer returns the scene's renderer.
	Renderer() renderer.Renderer

	// Layout returns the vertex layout the tiles were uploaded in.
	Layout() mesh.LayoutKind

	// PipelineKey returns the key of the globe render pipeline.
	PipelineKey() string

	// TileCount returns the number of uploaded tiles.
	TileCount() int

	// VisibleTiles returns how many tiles the last DrawCalls drew after frustum culling.
	VisibleTiles() int

	// CullingDisabled returns whether frustum culling is disabled.
	CullingDisabled() bool

	// SetCullingDisabled enables or disables frustum culling. When disabled every tile is drawn.
	//
	// Parameters:
	//   - disabled: true to draw every tile, false to cull against the view frustum
	SetCullingDisabled(disabled bool)

	// SetTexture rebinds the main texture. A nil texture binds the white fallback.
	// Does nothing when the globe program samples no texture.
	//
	// Parameters:
	//   - tex: the decoded RGBA texture
	//
	// Returns:
	//   - error: error if the texture could not be uploaded or bound
	SetTexture(tex *common.TextureStagingData) error

	// Update advances the camera spin by the elapsed time converted to ticks.
	//
	// Parameters:
	//   - deltaTime: elapsed time since the last update in seconds
	Update(deltaTime float32)

	// DrawCalls writes the camera uniform once, then issues one draw per visible tile and one for
	// the point sphere if enabled. Must be called within a BeginFrame/EndFrame block on the renderer.
	//
	// Returns:
	//   - error: error if a draw call fails
	DrawCalls() error

	// Release frees the GPU resources owned by the scene. The camera and renderer are left alone.
	Release()
}

type tileDraw struct {
	provider bind_group_provider.BindGroupProvider
	center   [3]float32
	radius   float32
}

type scene struct {
	mu *sync.RWMutex

	name   string
	active bool

	cam camera.Camera
	r   renderer.Renderer

	layout      mesh.LayoutKind
	segments    globe.SegmentsInfo
	radius      float64
	tickRate    float32 // camera ticks per second of elapsed time
	workers     int
	pointSphere bool

	// computePool encodes the tile meshes; owned by the scene and stopped in Release
	computePool worker.DynamicWorkerPool

	cullingDisabled bool

	globePipeline  pipeline.Pipeline
	pointsPipeline pipeline.Pipeline

	texture      *common.TextureStagingData // initial main texture, nil binds the fallback
	textureGroup int
	textureBGP   bind_group_provider.BindGroupProvider

	tiles        []tileDraw
	pointsMesh   bind_group_provider.BindGroupProvider
	visibleTiles atomic.Int64

	// reused each frame to avoid per-frame allocations
	drawBindGroupsPool []bind_group_provider.BindGroupProvider
}

// Ensure scene implements Scene interface.
var _ Scene = &scene{}

// NewScene builds the globe for the configured layout and uploads it through the renderer.
// The program for the layout is reflected and verified against the Go vertex layout before any
// GPU pipeline is created. The camera's bind group and the texture bind group are initialized
// from the pipeline's merged layouts. NewScene panics if the camera or renderer is nil.
//
// Parameters:
//   - name: the name of the scene, used as a prefix for pipeline keys and GPU labels
//   - cam: the camera to attach (must not be nil)
//   - r: the renderer to attach (must not be nil)
//   - options: functional options to further configure the scene
//
// Returns:
//   - Scene: the newly created scene
//   - error: an error wrapping globe.ErrInvalidSegments or shader.ErrLayoutMismatch, or a GPU resource error
func NewScene(name string, cam camera.Camera, r renderer.Renderer, options ...SceneBuilderOption) (Scene, error) {
	if cam == nil {
		panic("scene: NewScene requires a non-nil Camera")
	}
	if r == nil {
		panic("scene: NewScene requires a non-nil Renderer")
	}

	s := &scene{
		mu:                 &sync.RWMutex{},
		name:               name,
		active:             false,
		cam:                cam,
		r:                  r,
		layout:             mesh.DefaultLayout,
		segments:           globe.SegmentsInfo{UParts: 32, VParts: 64},
		radius:             globe.DefaultRadius,
		tickRate:           60,
		workers:            max(runtime.NumCPU()-1, 1),
		textureGroup:       -1,
		drawBindGroupsPool: make([]bind_group_provider.BindGroupProvider, 0, 2),
	}

	for _, option := range options {
		option(s)
	}

	if err := s.segments.Validate(); err != nil {
		return nil, fmt.Errorf("scene %s: %w", name, err)
	}
	if err := s.initGlobePipeline(); err != nil {
		return nil, err
	}
	if err := s.initCamera(); err != nil {
		return nil, err
	}

	s.computePool = worker.NewDynamicWorkerPool(s.workers, 256, 1*time.Second)
	if err := s.initResources(); err != nil {
		s.Release()
		return nil, err
	}

	log.Printf("[Scene] %s: %d tiles (%s) in layout %s", name, len(s.tiles), s.segments, s.layout)
	return s, nil
}

// initResources binds the texture and uploads the globe meshes.
func (s *scene) initResources() error {
	if s.textureGroup >= 0 {
		if err := s.bindTexture(s.texture); err != nil {
			return err
		}
	}
	if err := s.uploadTiles(); err != nil {
		return err
	}
	if s.pointSphere {
		return s.initPointSphere()
	}
	return nil
}

func (s *scene) initGlobePipeline() error {
	source, err := Program(s.layout)
	if err != nil {
		return err
	}
	p, err := NewProgramPipeline(s.name+"_globe_"+s.layout.String(), s.layout, source)
	if err != nil {
		return err
	}
	if err := s.r.RegisterPipelines(p); err != nil {
		return err
	}
	// a scene rebuilt under the same name reuses the pipeline already cached for the key
	s.globePipeline = s.r.Pipeline(p.PipelineKey())
	s.textureGroup = textureGroup(s.globePipeline)
	return nil
}

// initCamera creates the camera's uniform buffer and bind group from the globe pipeline's camera layout.
func (s *scene) initCamera() error {
	group := cameraGroup(s.globePipeline)
	if group < 0 {
		return fmt.Errorf("scene %s: globe program declares no camera uniform", s.name)
	}
	bgp := s.cam.BindGroupProvider()
	if bgp == nil {
		return fmt.Errorf("scene %s: camera has no bind group provider", s.name)
	}
	if int(bgp.Group()) != group {
		return fmt.Errorf("scene %s: camera is bound at group %d, program expects %d", s.name, bgp.Group(), group)
	}
	if bgp.BindGroup() != nil {
		return nil
	}
	if err := s.r.InitBindGroup(bgp, s.globePipeline.BindGroupLayoutDescriptor(group), nil); err != nil {
		return fmt.Errorf("scene %s: failed to init camera bind group: %w", s.name, err)
	}
	return nil
}

// bindTexture uploads tex (or the fallback) into a fresh texture bind group and swaps it in.
// Caller must hold mu for writing, or be the constructor.
func (s *scene) bindTexture(tex *common.TextureStagingData) error {
	if tex == nil {
		tex = texture.Fallback()
	}

	bgp := bind_group_provider.NewBindGroupProvider(
		s.name+"_texture",
		bind_group_provider.WithGroup(uint32(s.textureGroup)),
	)
	if err := s.r.InitTexture(bgp, int(texture.MainTexture.Binding()), *tex); err != nil {
		bgp.Release()
		return fmt.Errorf("scene %s: failed to upload main texture: %w", s.name, err)
	}
	if err := s.r.InitSampler(bgp, int(texture.SamplerBinding), texture.DefaultSampler()); err != nil {
		bgp.Release()
		return fmt.Errorf("scene %s: failed to create sampler: %w", s.name, err)
	}
	if err := s.r.InitBindGroup(bgp, s.globePipeline.BindGroupLayoutDescriptor(s.textureGroup), nil); err != nil {
		bgp.Release()
		return fmt.Errorf("scene %s: failed to init texture bind group: %w", s.name, err)
	}

	if s.textureBGP != nil {
		s.textureBGP.Release()
	}
	s.textureBGP = bgp
	return nil
}

// uploadTiles tessellates the globe on the worker pool and uploads one mesh per root tile.
func (s *scene) uploadTiles() error {
	sphere, err := globe.NewGlobusSphere(s.radius, s.segments)
	if err != nil {
		return fmt.Errorf("scene %s: %w", s.name, err)
	}

	meshes := globe.BuildTileMeshes(s.computePool, sphere.RootTiles(), s.layout)
	s.tiles = make([]tileDraw, 0, len(meshes))
	for i, m := range meshes {
		provider := bind_group_provider.NewBindGroupProvider(fmt.Sprintf("%s_tile_%d", s.name, i))
		if err := s.r.InitMeshBuffers(provider, m.Vertices, m.Indices, int(m.IndexCount)); err != nil {
			provider.Release()
			return fmt.Errorf("scene %s: failed to upload tile %d: %w", s.name, i, err)
		}
		s.tiles = append(s.tiles, tileDraw{provider: provider, center: m.Center, radius: m.Radius})
	}
	return nil
}

// initPointSphere uploads the point sphere just outside the globe surface, centered on the globe.
func (s *scene) initPointSphere() error {
	sphere, err := globe.NewSphere(s.segments,
		globe.WithRadius(float32(s.radius)*1.01),
		globe.WithOffset([3]float32{0, 0, 0}),
	)
	if err != nil {
		return fmt.Errorf("scene %s: %w", s.name, err)
	}

	p, err := NewProgramPipeline(s.name+"_points", mesh.LayoutPosition, PointProgram(),
		pipeline.WithTopology(wgpu.PrimitiveTopologyPointList),
	)
	if err != nil {
		return err
	}
	if err := s.r.RegisterPipelines(p); err != nil {
		return err
	}

	indices := sphere.Indices()
	provider := bind_group_provider.NewBindGroupProvider(s.name + "_points")
	if err := s.r.InitMeshBuffers(provider, mesh.Encode(mesh.LayoutPosition, sphere.Vertices()), mesh.EncodeIndices(indices), len(indices)); err != nil {
		provider.Release()
		return fmt.Errorf("scene %s: failed to upload point sphere: %w", s.name, err)
	}
	s.pointsPipeline = s.r.Pipeline(p.PipelineKey())
	s.pointsMesh = provider
	return nil
}

func (s *scene) Name() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.name
}

func (s *scene) Active() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.active
}

func (s *scene) SetActive(active bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active = active
}

func (s *scene) Camera() camera.Camera {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cam
}

func (s *scene) Renderer() renderer.Renderer {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.r
}

func (s *scene) Layout() mesh.LayoutKind {
	return s.layout
}

func (s *scene) PipelineKey() string {
	return s.globePipeline.PipelineKey()
}

func (s *scene) TileCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.tiles)
}

func (s *scene) VisibleTiles() int {
	return int(s.visibleTiles.Load())
}

func (s *scene) CullingDisabled() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cullingDisabled
}

func (s *scene) SetCullingDisabled(disabled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cullingDisabled = disabled
}

func (s *scene) SetTexture(tex *common.TextureStagingData) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.textureGroup < 0 {
		return nil
	}
	return s.bindTexture(tex)
}

func (s *scene) Update(deltaTime float32) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.cam == nil || deltaTime <= 0 {
		return
	}
	s.cam.Advance(deltaTime * s.tickRate)
}

func (s *scene) DrawCalls() error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.r == nil {
		return fmt.Errorf("scene %q has no renderer attached", s.name)
	}

	camBGP := s.cam.BindGroupProvider()
	uniform := s.cam.Uniform()
	s.r.WriteBuffers([]bind_group_provider.BufferWrite{
		{
			Provider: camBGP,
			Binding:  0,
			Offset:   0,
			Data:     uniform.Marshal(),
		},
	})

	bindGroups := append(s.drawBindGroupsPool[:0], camBGP)
	if s.textureBGP != nil {
		bindGroups = append(bindGroups, s.textureBGP)
	}
	s.drawBindGroupsPool = bindGroups

	var frustum common.Frustum
	if !s.cullingDisabled {
		clip := s.cam.ClipMatrix()
		frustum = common.ExtractFrustumFromMatrix(clip[:])
	}

	key := s.globePipeline.PipelineKey()
	visible := 0
	for i := range s.tiles {
		t := &s.tiles[i]
		if !s.cullingDisabled && !frustum.IntersectsSphere(t.center, t.radius) {
			continue
		}
		if err := s.r.DrawCall(key, t.provider, bindGroups); err != nil {
			return fmt.Errorf("draw call failed for tile %d in scene %q: %w", i, s.name, err)
		}
		visible++
	}
	s.visibleTiles.Store(int64(visible))

	if s.pointsMesh != nil {
		if err := s.r.DrawCall(s.pointsPipeline.PipelineKey(), s.pointsMesh, bindGroups[:1]); err != nil {
			return fmt.Errorf("point sphere draw call failed in scene %q: %w", s.name, err)
		}
	}

	return nil
}

func (s *scene) Release() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, t := range s.tiles {
		t.provider.Release()
	}
	s.tiles = nil
	if s.pointsMesh != nil {
		s.pointsMesh.Release()
		s.pointsMesh = nil
	}
	if s.textureBGP != nil {
		s.textureBGP.Release()
		s.textureBGP = nil
	}
	if s.computePool != nil {
		s.computePool.Stop()
		s.computePool = nil
	}
}
