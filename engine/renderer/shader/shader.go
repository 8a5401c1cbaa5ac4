package shader

import (
	"fmt"
	"os"

	"github.com/cogentcore/webgpu/wgpu"
)

// ShaderType identifies which render stage a shader object describes.
type ShaderType int

const (
	// ShaderTypeVertex is the vertex stage. Vertex input layouts are reflected for this type only.
	ShaderTypeVertex ShaderType = iota

	// ShaderTypeFragment is the fragment stage, paired with a vertex shader in a render pipeline.
	ShaderTypeFragment
)

// String returns the WGSL attribute name of the stage.
func (t ShaderType) String() string {
	switch t {
	case ShaderTypeVertex:
		return "vertex"
	case ShaderTypeFragment:
		return "fragment"
	default:
		return fmt.Sprintf("ShaderType(%d)", int(t))
	}
}

// VertexInput is a reflected vertex input struct: every field carries @location and none is a @builtin.
type VertexInput struct {
	// Name is the WGSL struct name.
	Name string
	// Layout is the tightly packed buffer layout built from the struct fields in declaration order.
	Layout wgpu.VertexBufferLayout
}

type shader struct {
	key                        string
	source                     string
	shaderType                 ShaderType
	bindGroupLayoutDescriptors map[int]wgpu.BindGroupLayoutDescriptor
	bindingVarNames            map[int]map[int]string
	vertexInputs               []VertexInput
	entryPoint                 string
	module                     *wgpu.ShaderModuleDescriptor
}

// Shader is a parsed WGSL program bound to one stage. It exposes the entry point, the bind group
// layout descriptors the stage declares and, for vertex shaders, the vertex input layouts.
type Shader interface {
	// Key returns the unique identifier for this shader, used for caching and labels.
	Key() string

	// Source returns the WGSL source code.
	Source() string

	// ShaderType returns the stage this shader object describes.
	ShaderType() ShaderType

	// EntryPoint returns the name of the @vertex or @fragment function.
	EntryPoint() string

	// Module returns the wgpu.ShaderModuleDescriptor built from the source.
	Module() *wgpu.ShaderModuleDescriptor

	// BindGroupLayoutDescriptor returns the layout descriptor for one group, or an empty descriptor.
	//
	// Parameters:
	//   - group: the @group index
	//
	// Returns:
	//   - wgpu.BindGroupLayoutDescriptor: the parsed descriptor, entries sorted by binding
	BindGroupLayoutDescriptor(group int) wgpu.BindGroupLayoutDescriptor

	// BindGroupLayoutDescriptors returns every parsed layout descriptor keyed by group index.
	BindGroupLayoutDescriptors() map[int]wgpu.BindGroupLayoutDescriptor

	// BindGroupVarName returns the WGSL variable bound at group/binding, or "" if none.
	//
	// Parameters:
	//   - group: the bind group index
	//   - binding: the binding index within the group
	//
	// Returns:
	//   - string: the variable name
	BindGroupVarName(group, binding int) string

	// VertexInputs returns the reflected vertex input structs in source order.
	// Always empty for fragment shaders.
	VertexInputs() []VertexInput

	// VertexLayouts returns the buffer layouts of VertexInputs, ready for wgpu.VertexState.
	VertexLayouts() []wgpu.VertexBufferLayout
}

var _ Shader = &shader{}

// NewShader parses WGSL source for one stage.
//
// Parameters:
//   - key: a unique identifier for the shader
//   - shaderType: the stage to reflect
//   - source: the WGSL source code
//
// Returns:
//   - Shader: the parsed shader
//   - error: error if the source has no entry point for the stage
func NewShader(key string, shaderType ShaderType, source string) (Shader, error) {
	s := &shader{
		key:        key,
		source:     source,
		shaderType: shaderType,
		module: &wgpu.ShaderModuleDescriptor{
			Label: key,
			WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{
				Code: source,
			},
		},
	}

	s.entryPoint = parseEntryPoint(source, shaderType)
	if s.entryPoint == "" {
		return nil, fmt.Errorf("shader %s: no @%s entry point", key, shaderType)
	}
	if shaderType == ShaderTypeVertex {
		s.vertexInputs = parseVertexInputs(source)
	}

	visibility := wgpu.ShaderStageFragment
	if shaderType == ShaderTypeVertex {
		visibility = wgpu.ShaderStageVertex
	}
	s.bindGroupLayoutDescriptors, s.bindingVarNames = parseBindGroupLayouts(source, visibility)
	return s, nil
}

// NewShaderFromPath reads a WGSL file and parses it for one stage.
//
// Parameters:
//   - key: a unique identifier for the shader
//   - shaderType: the stage to reflect
//   - path: the WGSL file to read
//
// Returns:
//   - Shader: the parsed shader
//   - error: error if the file cannot be read or has no entry point for the stage
func NewShaderFromPath(key string, shaderType ShaderType, path string) (Shader, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("shader %s: failed to read %q: %w", key, path, err)
	}
	return NewShader(key, shaderType, string(data))
}

func (s *shader) Key() string {
	return s.key
}

func (s *shader) Source() string {
	return s.source
}

func (s *shader) ShaderType() ShaderType {
	return s.shaderType
}

func (s *shader) EntryPoint() string {
	return s.entryPoint
}

func (s *shader) Module() *wgpu.ShaderModuleDescriptor {
	return s.module
}

func (s *shader) BindGroupLayoutDescriptor(group int) wgpu.BindGroupLayoutDescriptor {
	return s.bindGroupLayoutDescriptors[group]
}

func (s *shader) BindGroupLayoutDescriptors() map[int]wgpu.BindGroupLayoutDescriptor {
	return s.bindGroupLayoutDescriptors
}

func (s *shader) BindGroupVarName(group, binding int) string {
	return s.bindingVarNames[group][binding]
}

func (s *shader) VertexInputs() []VertexInput {
	return s.vertexInputs
}

func (s *shader) VertexLayouts() []wgpu.VertexBufferLayout {
	layouts := make([]wgpu.VertexBufferLayout, len(s.vertexInputs))
	for i, in := range s.vertexInputs {
		layouts[i] = in.Layout
	}
	return layouts
}
