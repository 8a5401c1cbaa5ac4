package shader

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Carmen-Shannon/oxy-globe/common"
	"github.com/cogentcore/webgpu/wgpu"
)

// wgslPrimitiveLayoutMap maps WGSL scalar, vector and f32 matrix type names to their size and alignment.
//
// Reference: https://www.w3.org/TR/WGSL/#alignment-and-size
var wgslPrimitiveLayoutMap = buildPrimitiveLayouts()

// buildPrimitiveLayouts derives vector and matrix layouts from the scalar sizes: vec2 aligns to twice
// the scalar, vec3 and vec4 to four times it, and a matCxR is C columns of vecR at vecR alignment.
func buildPrimitiveLayouts() map[string]wgslTypeLayout {
	layouts := map[string]wgslTypeLayout{
		"f32":  {4, 4},
		"i32":  {4, 4},
		"u32":  {4, 4},
		"f16":  {2, 2},
		"bool": {4, 4},
	}
	shorthand := map[string]string{"f32": "f", "i32": "i", "u32": "u", "f16": "h"}

	for scalar, short := range shorthand {
		s := layouts[scalar].size
		for n := uint64(2); n <= 4; n++ {
			align := s * 4
			if n == 2 {
				align = s * 2
			}
			l := wgslTypeLayout{size: n * s, align: align}
			layouts[fmt.Sprintf("vec%d<%s>", n, scalar)] = l
			layouts[fmt.Sprintf("vec%d%s", n, short)] = l
		}
	}

	for cols := uint64(2); cols <= 4; cols++ {
		for rows := uint64(2); rows <= 4; rows++ {
			col := layouts[fmt.Sprintf("vec%d<f32>", rows)]
			l := wgslTypeLayout{size: cols * common.AlignTo(col.size, col.align), align: col.align}
			layouts[fmt.Sprintf("mat%dx%d<f32>", cols, rows)] = l
			layouts[fmt.Sprintf("mat%dx%df", cols, rows)] = l
		}
	}

	layouts["atomic<u32>"] = layouts["u32"]
	layouts["atomic<i32>"] = layouts["i32"]
	return layouts
}

// StructLayout computes the host-shareable size and alignment of a named struct in WGSL source.
// Nested struct and fixed-size array members are resolved.
//
// Parameters:
//   - source: WGSL source declaring the struct and any struct it depends on
//   - name: the struct name
//
// Returns:
//   - size: the struct size in bytes, rounded up to its alignment
//   - align: the struct alignment in bytes
//   - error: error if the struct is missing or has a member that cannot be resolved
func StructLayout(source, name string) (size, align uint64, err error) {
	structs := parseStructBlocks(stripComments(source))
	found := false
	for _, ps := range structs {
		if ps.name == name {
			found = true
			break
		}
	}
	if !found {
		return 0, 0, fmt.Errorf("struct %s not declared", name)
	}

	layout, ok := computeStructSizes(structs)[name]
	if !ok {
		return 0, 0, fmt.Errorf("struct %s has a member of unknown layout", name)
	}
	return layout.size, layout.align, nil
}

// resolveTypeLayout resolves a WGSL type name using primitives and already-computed struct layouts.
// Fixed-size arrays resolve to count * stride; runtime-sized arrays resolve to one element stride.
//
// Parameters:
//   - typeName: the WGSL type name, e.g. "f32", "Camera", "array<vec4<f32>, 4>"
//   - knownTypes: already-resolved struct layouts
//
// Returns:
//   - wgslTypeLayout: the resolved layout
//   - bool: false for unknown types
func resolveTypeLayout(typeName string, knownTypes map[string]wgslTypeLayout) (wgslTypeLayout, bool) {
	if layout, ok := wgslPrimitiveLayoutMap[typeName]; ok {
		return layout, true
	}
	if layout, ok := knownTypes[typeName]; ok {
		return layout, true
	}

	base, params := splitTypeParams(typeName)
	if base != "array" || params == "" {
		return wgslTypeLayout{}, false
	}

	elemType, countStr, fixed := strings.Cut(params, ",")
	elem, ok := resolveTypeLayout(strings.TrimSpace(elemType), knownTypes)
	if !ok {
		return wgslTypeLayout{}, false
	}
	stride := common.AlignTo(elem.size, elem.align)
	if !fixed {
		return wgslTypeLayout{stride, elem.align}, true
	}
	count, err := strconv.ParseUint(strings.TrimSpace(countStr), 10, 64)
	if err != nil {
		return wgslTypeLayout{}, false
	}
	return wgslTypeLayout{count * stride, elem.align}, true
}

// computeStructLayout places each non-builtin member at its next aligned offset and rounds the
// total up to the largest member alignment.
//
// Parameters:
//   - ps: the parsed struct
//   - knownTypes: already-resolved struct layouts
//
// Returns:
//   - wgslTypeLayout: the computed layout
//   - bool: false if a member could not be resolved yet
func computeStructLayout(ps parsedStruct, knownTypes map[string]wgslTypeLayout) (wgslTypeLayout, bool) {
	offset := uint64(0)
	maxAlign := uint64(1)

	for _, field := range ps.fields {
		if field.isBuiltin {
			continue
		}
		fl, ok := resolveTypeLayout(field.typeName, knownTypes)
		if !ok {
			return wgslTypeLayout{}, false
		}
		offset = common.AlignTo(offset, fl.align) + fl.size
		maxAlign = max(maxAlign, fl.align)
	}

	return wgslTypeLayout{common.AlignTo(offset, maxAlign), maxAlign}, true
}

// computeStructSizes resolves every struct layout, iterating until structs that depend on other
// structs can be placed. Structs that never resolve are left out of the result.
func computeStructSizes(structs []parsedStruct) map[string]wgslTypeLayout {
	resolved := make(map[string]wgslTypeLayout, len(structs))
	remaining := append([]parsedStruct(nil), structs...)

	for len(remaining) > 0 {
		next := remaining[:0]
		for _, ps := range remaining {
			if layout, ok := computeStructLayout(ps, resolved); ok {
				resolved[ps.name] = layout
			} else {
				next = append(next, ps)
			}
		}
		if len(next) == len(remaining) {
			break
		}
		remaining = next
	}
	return resolved
}

// classifyResource builds a wgpu.BindGroupLayoutEntry from a parsed WGSL resource declaration.
// Buffers are identified by their address space, handle types by their type name.
//
// Parameters:
//   - binding: the binding index from @binding(N)
//   - visibility: the shader stage visibility flag
//   - addressSpace: the address space qualifier, empty for handle types
//   - typeName: the WGSL type string, e.g. "Camera", "texture_2d<f32>", "sampler"
//
// Returns:
//   - wgpu.BindGroupLayoutEntry: the populated layout entry
func classifyResource(binding uint32, visibility wgpu.ShaderStage, addressSpace, typeName string) wgpu.BindGroupLayoutEntry {
	entry := wgpu.BindGroupLayoutEntry{
		Binding:    binding,
		Visibility: visibility,
	}

	switch {
	case addressSpace == "uniform":
		entry.Buffer.Type = wgpu.BufferBindingTypeUniform
	case strings.HasPrefix(addressSpace, "storage"):
		entry.Buffer.Type = wgpu.BufferBindingTypeReadOnlyStorage
		if strings.Contains(addressSpace, "read_write") {
			entry.Buffer.Type = wgpu.BufferBindingTypeStorage
		}
	case typeName == "sampler":
		entry.Sampler.Type = wgpu.SamplerBindingTypeFiltering
	case typeName == "sampler_comparison":
		entry.Sampler.Type = wgpu.SamplerBindingTypeComparison
	case strings.HasPrefix(typeName, "texture_depth_"):
		entry.Texture.SampleType = wgpu.TextureSampleTypeDepth
		if info, ok := wgslSampledTextureMap[typeName]; ok {
			entry.Texture.ViewDimension = info.viewDimension
		}
	case strings.HasPrefix(typeName, "texture_"):
		base, param := splitTypeParams(typeName)
		if info, ok := wgslSampledTextureMap[base]; ok {
			entry.Texture.ViewDimension = info.viewDimension
			entry.Texture.Multisampled = info.multisampled
		}
		if st, ok := wgslSampleTypeMap[param]; ok {
			entry.Texture.SampleType = st
		}
	}
	return entry
}
