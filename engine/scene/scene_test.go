package scene

import (
	"strings"
	"testing"

	"github.com/Carmen-Shannon/oxy-globe/common"
	"github.com/Carmen-Shannon/oxy-globe/engine/camera"
	"github.com/Carmen-Shannon/oxy-globe/engine/globe"
	"github.com/Carmen-Shannon/oxy-globe/engine/mesh"
	"github.com/Carmen-Shannon/oxy-globe/engine/renderer"
	"github.com/Carmen-Shannon/oxy-globe/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-globe/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-globe/engine/renderer/shader"
	"github.com/Carmen-Shannon/oxy-globe/engine/texture"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRenderer records what a scene asks of the GPU without touching one.
type fakeRenderer struct {
	pipelines  map[string]pipeline.Pipeline
	meshes     map[string]int
	bindGroups []wgpu.BindGroupLayoutDescriptor
	textures   []common.TextureStagingData
	writes     [][]bind_group_provider.BufferWrite
	draws      []string
	drawGroups [][]uint32
}

var _ renderer.Renderer = &fakeRenderer{}

func newFakeRenderer() *fakeRenderer {
	return &fakeRenderer{
		pipelines: make(map[string]pipeline.Pipeline),
		meshes:    make(map[string]int),
	}
}

func (f *fakeRenderer) Pipeline(key string) pipeline.Pipeline { return f.pipelines[key] }

func (f *fakeRenderer) RegisterPipelines(pipelines ...pipeline.Pipeline) error {
	for _, p := range pipelines {
		if err := p.Verify(); err != nil {
			return err
		}
		if _, exists := f.pipelines[p.PipelineKey()]; exists {
			continue
		}
		f.pipelines[p.PipelineKey()] = p
	}
	return nil
}

func (f *fakeRenderer) Resize(width, height int) {}

func (f *fakeRenderer) SetPresentMode(mode renderer.PresentMode) {}

func (f *fakeRenderer) ClearColor() [4]float64 { return renderer.DefaultClearColor }

func (f *fakeRenderer) InitMeshBuffers(provider bind_group_provider.BindGroupProvider, vertexData, indexData []byte, indexCount int) error {
	f.meshes[provider.Label()] = len(vertexData)
	provider.SetIndexBuffer(nil, indexCount)
	return nil
}

func (f *fakeRenderer) InitBindGroup(provider bind_group_provider.BindGroupProvider, descriptor wgpu.BindGroupLayoutDescriptor, bufferSizeOverrides map[int]uint64) error {
	f.bindGroups = append(f.bindGroups, descriptor)
	return nil
}

func (f *fakeRenderer) InitTexture(provider bind_group_provider.BindGroupProvider, binding int, stagingData common.TextureStagingData) error {
	f.textures = append(f.textures, stagingData)
	return nil
}

func (f *fakeRenderer) InitSampler(provider bind_group_provider.BindGroupProvider, binding int, samplerStagingData common.SamplerStagingData) error {
	return nil
}

func (f *fakeRenderer) WriteBuffers(writes []bind_group_provider.BufferWrite) {
	f.writes = append(f.writes, writes)
}

func (f *fakeRenderer) BeginFrame() error { return nil }

func (f *fakeRenderer) DrawCall(pipelineKey string, meshProvider bind_group_provider.BindGroupProvider, bindGroups []bind_group_provider.BindGroupProvider) error {
	f.draws = append(f.draws, pipelineKey)
	groups := make([]uint32, 0, len(bindGroups))
	for _, bg := range bindGroups {
		groups = append(groups, bg.Group())
	}
	f.drawGroups = append(f.drawGroups, groups)
	return nil
}

func (f *fakeRenderer) EndFrame() {}

func (f *fakeRenderer) Present() {}

var allLayouts = []mesh.LayoutKind{
	mesh.LayoutPosition,
	mesh.LayoutPositionNormal,
	mesh.LayoutPositionNormalUV,
	mesh.LayoutHomogeneous,
}

func TestProgramMatchesEveryLayout(t *testing.T) {
	for _, kind := range allLayouts {
		t.Run(kind.String(), func(t *testing.T) {
			source, err := Program(kind)
			require.NoError(t, err)
			assert.True(t, strings.HasPrefix(source, camera.GPUCameraSource))

			p, err := NewProgramPipeline("globe_"+kind.String(), kind, source)
			require.NoError(t, err)

			vs := p.Shader(shader.ShaderTypeVertex)
			require.Len(t, vs.VertexInputs(), 1)
			assert.Equal(t, "VertexIn", vs.VertexInputs()[0].Name)
			assert.Equal(t, kind.Stride(), vs.VertexInputs()[0].Layout.ArrayStride)
			assert.Equal(t, "vs_main", vs.EntryPoint())
			assert.Equal(t, "fs_main", p.Shader(shader.ShaderTypeFragment).EntryPoint())

			assert.Equal(t, 0, cameraGroup(p))
			assert.Equal(t, 1, textureGroup(p))
		})
	}
}

func TestProgramUnknownLayout(t *testing.T) {
	_, err := Program(mesh.LayoutKind(42))
	assert.Error(t, err)
}

func TestNewProgramPipelineLayoutMismatch(t *testing.T) {
	source, err := Program(mesh.LayoutPosition)
	require.NoError(t, err)

	_, err = NewProgramPipeline("mismatch", mesh.LayoutPositionNormalUV, source)
	assert.ErrorIs(t, err, shader.ErrLayoutMismatch)

	_, err = NewProgramPipeline("homogeneous", mesh.LayoutHomogeneous, source)
	assert.ErrorIs(t, err, shader.ErrLayoutMismatch)
}

func TestGlobeProgramBindGroups(t *testing.T) {
	source, err := Program(mesh.DefaultLayout)
	require.NoError(t, err)
	p, err := NewProgramPipeline("globe", mesh.DefaultLayout, source)
	require.NoError(t, err)

	cam := p.BindGroupLayoutDescriptor(0)
	require.Len(t, cam.Entries, 1)
	assert.Equal(t, wgpu.BufferBindingTypeUniform, cam.Entries[0].Buffer.Type)
	assert.Equal(t, uint64((&camera.GPUCamera{}).Size()), cam.Entries[0].Buffer.MinBindingSize)
	assert.Equal(t, wgpu.ShaderStageVertex|wgpu.ShaderStageFragment, cam.Entries[0].Visibility)

	tex := p.BindGroupLayoutDescriptor(1)
	require.Len(t, tex.Entries, 2)
	assert.Equal(t, texture.MainTexture.Binding(), tex.Entries[0].Binding)
	assert.Equal(t, wgpu.TextureSampleTypeFloat, tex.Entries[0].Texture.SampleType)
	assert.Equal(t, texture.SamplerBinding, tex.Entries[1].Binding)
	assert.Equal(t, wgpu.SamplerBindingTypeFiltering, tex.Entries[1].Sampler.Type)
}

func TestPointProgram(t *testing.T) {
	p, err := NewProgramPipeline("points", mesh.LayoutPosition, PointProgram(),
		pipeline.WithTopology(wgpu.PrimitiveTopologyPointList))
	require.NoError(t, err)
	assert.Equal(t, wgpu.PrimitiveTopologyPointList, p.Topology())
	assert.Equal(t, 0, cameraGroup(p))
	assert.Equal(t, -1, textureGroup(p))

	_, err = NewProgramPipeline("points", mesh.LayoutPositionNormal, PointProgram())
	assert.ErrorIs(t, err, shader.ErrLayoutMismatch)
}

func TestNewSceneUploadsTiles(t *testing.T) {
	r := newFakeRenderer()
	segments := globe.SegmentsInfo{UParts: 8, VParts: 16}
	s, err := NewScene("earth", camera.NewCamera(), r,
		WithSegments(segments),
		WithLayout(mesh.LayoutPositionNormal),
		WithWorkers(2),
	)
	require.NoError(t, err)

	assert.Equal(t, mesh.LayoutPositionNormal, s.Layout())
	assert.Equal(t, "earth_globe_position_normal", s.PipelineKey())
	assert.Equal(t, 8*16, s.TileCount())
	assert.Equal(t, globe.DefaultRadius, s.(*scene).radius)
	assert.Contains(t, r.pipelines, s.PipelineKey())

	// four corners per tile in the chosen stride
	assert.Equal(t, 4*int(mesh.LayoutPositionNormal.Stride()), r.meshes["earth_tile_0"])

	// camera group, then texture group with the fallback since no texture was given
	require.Len(t, r.bindGroups, 2)
	require.Len(t, r.textures, 1)
	assert.Equal(t, *texture.Fallback(), r.textures[0])
}

func TestNewSceneReusesCachedPipeline(t *testing.T) {
	r := newFakeRenderer()
	segments := WithSegments(globe.SegmentsInfo{UParts: 2, VParts: 4})
	first, err := NewScene("earth", camera.NewCamera(), r, segments, WithPointSphere(true))
	require.NoError(t, err)
	second, err := NewScene("earth", camera.NewCamera(), r, segments, WithPointSphere(true))
	require.NoError(t, err)

	assert.Len(t, r.pipelines, 2)
	assert.Same(t, first.(*scene).globePipeline, second.(*scene).globePipeline)
	assert.Same(t, first.(*scene).pointsPipeline, second.(*scene).pointsPipeline)
}

func TestReleaseStopsComputePool(t *testing.T) {
	s, err := NewScene("earth", camera.NewCamera(), newFakeRenderer(),
		WithSegments(globe.SegmentsInfo{UParts: 2, VParts: 4}), WithWorkers(2))
	require.NoError(t, err)
	require.NotNil(t, s.(*scene).computePool)
	assert.Equal(t, 2, s.(*scene).computePool.GetMaxWorkers())

	s.Release()
	assert.Nil(t, s.(*scene).computePool)
	assert.Zero(t, s.TileCount())
	s.Release()
}

func TestNewSceneInvalidSegments(t *testing.T) {
	_, err := NewScene("bad", camera.NewCamera(), newFakeRenderer(),
		WithSegments(globe.SegmentsInfo{UParts: 0, VParts: 4}))
	assert.ErrorIs(t, err, globe.ErrInvalidSegments)
}

func TestNewScenePanicsWithoutDependencies(t *testing.T) {
	assert.Panics(t, func() { _, _ = NewScene("x", nil, newFakeRenderer()) })
	assert.Panics(t, func() { _, _ = NewScene("x", camera.NewCamera(), nil) })
}

func TestDrawCallsCullsBackTiles(t *testing.T) {
	r := newFakeRenderer()
	s, err := NewScene("earth", camera.NewCamera(), r, WithSegments(globe.SegmentsInfo{UParts: 8, VParts: 16}))
	require.NoError(t, err)

	require.NoError(t, s.DrawCalls())
	require.Len(t, r.writes, 1, "camera uniform is written once per frame")
	require.Len(t, r.writes[0], 1)
	assert.Len(t, r.writes[0][0].Data, 128)

	visible := s.VisibleTiles()
	assert.Positive(t, visible)
	assert.Less(t, visible, s.TileCount())
	assert.Len(t, r.draws, visible)
	for _, groups := range r.drawGroups {
		assert.ElementsMatch(t, []uint32{0, 1}, groups)
	}

	r.draws = nil
	s.SetCullingDisabled(true)
	require.NoError(t, s.DrawCalls())
	assert.Equal(t, s.TileCount(), s.VisibleTiles())
	assert.Len(t, r.draws, s.TileCount())
	assert.Len(t, r.writes, 2)
}

func TestPointSphereDrawnWithCameraOnly(t *testing.T) {
	r := newFakeRenderer()
	s, err := NewScene("earth", camera.NewCamera(), r,
		WithSegments(globe.SegmentsInfo{UParts: 4, VParts: 8}),
		WithPointSphere(true),
		WithCullingDisabled(true),
	)
	require.NoError(t, err)
	assert.Contains(t, r.pipelines, "earth_points")
	assert.Equal(t, 4*8*int(mesh.LayoutPosition.Stride()), r.meshes["earth_points"])

	require.NoError(t, s.DrawCalls())
	require.Len(t, r.draws, s.TileCount()+1)
	assert.Equal(t, "earth_points", r.draws[len(r.draws)-1])
	assert.Equal(t, []uint32{0}, r.drawGroups[len(r.drawGroups)-1])
}

func TestUpdateAdvancesCamera(t *testing.T) {
	cam := camera.NewCamera(camera.WithSpinRate(2))
	s, err := NewScene("earth", cam, newFakeRenderer(),
		WithSegments(globe.SegmentsInfo{UParts: 2, VParts: 4}),
		WithTickRate(10),
	)
	require.NoError(t, err)

	s.Update(0.5)
	assert.InDelta(t, 10.0, cam.Timer(), 1e-5)
	s.Update(0)
	s.Update(-1)
	assert.InDelta(t, 10.0, cam.Timer(), 1e-5)
}

func TestSetTextureRebinds(t *testing.T) {
	r := newFakeRenderer()
	s, err := NewScene("earth", camera.NewCamera(), r, WithSegments(globe.SegmentsInfo{UParts: 2, VParts: 4}))
	require.NoError(t, err)

	tex := &common.TextureStagingData{Pixels: make([]byte, 2*2*4), Width: 2, Height: 2}
	require.NoError(t, s.SetTexture(tex))
	require.Len(t, r.textures, 2)
	assert.Equal(t, uint32(2), r.textures[1].Width)

	require.NoError(t, s.SetTexture(nil))
	assert.Equal(t, *texture.Fallback(), r.textures[2])
}

func TestSceneOptions(t *testing.T) {
	s := &scene{layout: mesh.DefaultLayout, radius: 1, tickRate: 60, workers: 3}
	for _, opt := range []SceneBuilderOption{
		WithActive(true),
		WithLayout(mesh.LayoutKind(99)),
		WithRadius(-1),
		WithTickRate(0),
		WithWorkers(0),
	} {
		opt(s)
	}
	assert.True(t, s.active)
	assert.Equal(t, mesh.DefaultLayout, s.layout)
	assert.Equal(t, 1.0, s.radius)
	assert.Equal(t, float32(60), s.tickRate)
	assert.Equal(t, 1, s.workers)
}
