package mesh

import (
	"encoding/binary"
	"fmt"
	"strings"

	"github.com/Carmen-Shannon/oxy-globe/common"
	"github.com/cogentcore/webgpu/wgpu"
)

// LayoutKind selects one of the vertex layouts a globe mesh can be uploaded in.
type LayoutKind int

const (
	// LayoutPosition streams float3 positions only (12 bytes per vertex).
	LayoutPosition LayoutKind = iota

	// LayoutPositionNormal streams float3 position and float3 normal (24 bytes per vertex).
	LayoutPositionNormal

	// LayoutPositionNormalUV streams position, normal and float2 uv (32 bytes per vertex).
	// This is the canonical layout.
	LayoutPositionNormalUV

	// LayoutHomogeneous streams float4 positions with w = 1 (16 bytes per vertex).
	LayoutHomogeneous
)

// DefaultLayout is the layout used when none is configured.
const DefaultLayout = LayoutPositionNormalUV

var layoutNames = map[LayoutKind]string{
	LayoutPosition:         "position",
	LayoutPositionNormal:   "position_normal",
	LayoutPositionNormalUV: "position_normal_uv",
	LayoutHomogeneous:      "homogeneous",
}

// short aliases accepted by ParseLayoutKind
var layoutAliases = map[string]LayoutKind{
	"a": LayoutPosition,
	"b": LayoutPositionNormal,
	"c": LayoutPositionNormalUV,
	"d": LayoutHomogeneous,
}

// String returns the config name of the layout.
func (k LayoutKind) String() string {
	if name, ok := layoutNames[k]; ok {
		return name
	}
	return fmt.Sprintf("LayoutKind(%d)", int(k))
}

// Valid reports whether k is a known layout.
func (k LayoutKind) Valid() bool {
	_, ok := layoutNames[k]
	return ok
}

// ParseLayoutKind resolves a layout by config name or by its single letter alias (a-d), case-insensitively.
//
// Parameters:
//   - s: the layout name
//
// Returns:
//   - LayoutKind: the resolved layout
//   - error: error if the name is unknown
func ParseLayoutKind(s string) (LayoutKind, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if k, ok := layoutAliases[name]; ok {
		return k, nil
	}
	for k, n := range layoutNames {
		if n == name {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown vertex layout %q", s)
}

// UnmarshalText lets config decoders read a layout by name.
func (k *LayoutKind) UnmarshalText(text []byte) error {
	parsed, err := ParseLayoutKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// MarshalText writes the config name of the layout.
func (k LayoutKind) MarshalText() ([]byte, error) {
	if !k.Valid() {
		return nil, fmt.Errorf("unknown vertex layout %d", int(k))
	}
	return []byte(k.String()), nil
}

// Stride returns the byte size of one vertex in this layout.
func (k LayoutKind) Stride() uint64 {
	return k.VertexBufferLayout().ArrayStride
}

// HasNormal reports whether the layout carries a normal attribute.
func (k LayoutKind) HasNormal() bool {
	return k == LayoutPositionNormal || k == LayoutPositionNormalUV
}

// HasUV reports whether the layout carries a texture coordinate attribute.
func (k LayoutKind) HasUV() bool {
	return k == LayoutPositionNormalUV
}

// VertexBufferLayout returns the host-side wgpu layout of the kind. Unknown kinds get the zero layout.
func (k LayoutKind) VertexBufferLayout() wgpu.VertexBufferLayout {
	switch k {
	case LayoutPosition:
		return (&GPUPositionVertex{}).VertexBufferLayout()
	case LayoutPositionNormal:
		return (&GPUPositionNormalVertex{}).VertexBufferLayout()
	case LayoutPositionNormalUV:
		return (&GPUVertex{}).VertexBufferLayout()
	case LayoutHomogeneous:
		return (&GPUHomogeneousVertex{}).VertexBufferLayout()
	default:
		return wgpu.VertexBufferLayout{}
	}
}

// Source returns the WGSL VertexIn struct declaration matching the kind.
func (k LayoutKind) Source() string {
	switch k {
	case LayoutPosition:
		return GPUPositionVertexSource
	case LayoutPositionNormal:
		return GPUPositionNormalVertexSource
	case LayoutPositionNormalUV:
		return GPUVertexSource
	case LayoutHomogeneous:
		return GPUHomogeneousVertexSource
	default:
		return ""
	}
}

// Encode converts canonical vertices into the byte stream of the given layout. Attributes the
// layout does not carry are dropped and homogeneous positions get w = 1.
//
// Parameters:
//   - kind: the target layout
//   - vertices: canonical vertices
//
// Returns:
//   - []byte: len(vertices) * kind.Stride() bytes, little-endian
func Encode(kind LayoutKind, vertices []GPUVertex) []byte {
	stride := int(kind.Stride())
	buf := make([]byte, 0, stride*len(vertices))
	for i := range vertices {
		v := &vertices[i]
		switch kind {
		case LayoutPosition:
			out := GPUPositionVertex{Position: v.Position}
			buf = append(buf, out.Marshal()...)
		case LayoutPositionNormal:
			out := GPUPositionNormalVertex{Position: v.Position, Normal: v.Normal}
			buf = append(buf, out.Marshal()...)
		case LayoutPositionNormalUV:
			buf = append(buf, v.Marshal()...)
		case LayoutHomogeneous:
			out := GPUHomogeneousVertex{Position: [4]float32{v.Position[0], v.Position[1], v.Position[2], 1}}
			buf = append(buf, out.Marshal()...)
		}
	}
	return buf
}

// EncodeIndices serializes uint16 indices little-endian and pads the result to a multiple of 4
// bytes, the copy alignment wgpu requires for buffer writes.
//
// Parameters:
//   - indices: the triangle list indices
//
// Returns:
//   - []byte: the padded byte stream
func EncodeIndices(indices []uint16) []byte {
	size := common.AlignTo(uint64(len(indices))*2, 4)
	buf := make([]byte, size)
	for i, idx := range indices {
		binary.LittleEndian.PutUint16(buf[i*2:], idx)
	}
	return buf
}
