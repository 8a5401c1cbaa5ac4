package scene

import (
	_ "embed"
	"fmt"
	"sort"
	"strings"

	"github.com/Carmen-Shannon/oxy-globe/engine/camera"
	"github.com/Carmen-Shannon/oxy-globe/engine/mesh"
	"github.com/Carmen-Shannon/oxy-globe/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-globe/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
)

var (
	//go:embed assets/globe_position.wgsl
	globePositionBody string

	//go:embed assets/globe_position_normal.wgsl
	globePositionNormalBody string

	//go:embed assets/globe.wgsl
	globeBody string

	//go:embed assets/globe_homogeneous.wgsl
	globeHomogeneousBody string

	//go:embed assets/points.wgsl
	pointsBody string
)

// programBodies holds the entry points drawing the globe for each vertex layout.
// The Camera and VertexIn structs are prepended by Program.
var programBodies = map[mesh.LayoutKind]string{
	mesh.LayoutPosition:         globePositionBody,
	mesh.LayoutPositionNormal:   globePositionNormalBody,
	mesh.LayoutPositionNormalUV: globeBody,
	mesh.LayoutHomogeneous:      globeHomogeneousBody,
}

// Program returns the WGSL program that draws globe tiles uploaded in the given layout.
// The camera sits at group 0 and the main texture with its sampler at group 1.
//
// Parameters:
//   - kind: the vertex layout of the tile meshes
//
// Returns:
//   - string: the complete WGSL source with vertex and fragment entry points
//   - error: error if kind is not a known layout
func Program(kind mesh.LayoutKind) (string, error) {
	body, ok := programBodies[kind]
	if !ok {
		return "", fmt.Errorf("scene: no globe program for %v", kind)
	}
	return assemble(kind.Source(), body), nil
}

// PointProgram returns the WGSL program for the untextured point sphere, which always uses the position layout.
func PointProgram() string {
	return assemble(mesh.LayoutPosition.Source(), pointsBody)
}

func assemble(vertexIn, body string) string {
	return strings.Join([]string{camera.GPUCameraSource, vertexIn, body}, "\n")
}

// NewProgramPipeline reflects both stages of a WGSL program and builds a pipeline that uploads
// vertices in kind. The program's vertex input is verified against the layout before the
// pipeline is returned, so no GPU pipeline is ever created for a mismatched pair.
//
// Parameters:
//   - key: the pipeline key; the shaders are keyed key_vs and key_fs
//   - kind: the host vertex layout
//   - source: the WGSL program
//   - options: additional pipeline options such as topology
//
// Returns:
//   - pipeline.Pipeline: the verified pipeline
//   - error: a parse error, or an error wrapping shader.ErrLayoutMismatch
func NewProgramPipeline(key string, kind mesh.LayoutKind, source string, options ...pipeline.PipelineBuilderOption) (pipeline.Pipeline, error) {
	vs, err := shader.NewShader(key+"_vs", shader.ShaderTypeVertex, source)
	if err != nil {
		return nil, err
	}
	fs, err := shader.NewShader(key+"_fs", shader.ShaderTypeFragment, source)
	if err != nil {
		return nil, err
	}

	opts := append([]pipeline.PipelineBuilderOption{
		pipeline.WithVertexShader(vs),
		pipeline.WithFragmentShader(fs),
		pipeline.WithVertexLayout(kind.VertexBufferLayout()),
	}, options...)
	p := pipeline.NewPipeline(key, opts...)
	if err := p.Verify(); err != nil {
		return nil, err
	}
	return p, nil
}

// cameraGroup finds the group whose uniform variable is named like the camera, or -1.
func cameraGroup(p pipeline.Pipeline) int {
	vs := p.Shader(shader.ShaderTypeVertex)
	if vs == nil {
		return -1
	}
	for _, g := range sortedGroups(p.BindGroupLayoutDescriptors()) {
		for _, e := range p.BindGroupLayoutDescriptor(g).Entries {
			if e.Buffer.Type != wgpu.BufferBindingTypeUniform {
				continue
			}
			if strings.Contains(strings.ToLower(vs.BindGroupVarName(g, int(e.Binding))), "camera") {
				return g
			}
		}
	}
	return -1
}

// textureGroup finds the first group holding a sampled texture, or -1 when the program samples nothing.
func textureGroup(p pipeline.Pipeline) int {
	layouts := p.BindGroupLayoutDescriptors()
	for _, g := range sortedGroups(layouts) {
		for _, e := range layouts[g].Entries {
			if e.Texture.SampleType != wgpu.TextureSampleTypeUndefined {
				return g
			}
		}
	}
	return -1
}

func sortedGroups(layouts map[int]wgpu.BindGroupLayoutDescriptor) []int {
	groups := make([]int, 0, len(layouts))
	for g := range layouts {
		groups = append(groups, g)
	}
	sort.Ints(groups)
	return groups
}
