package globe

import "math"

// LimitAngle is half of the polar span the tiled sphere covers, in radians.
// The caps within (π/2 - LimitAngle) of each pole are left open.
const LimitAngle = 1.48442223321

// DefaultRadius is the globe radius that fits the default camera: at distance 2 with near 1 and
// far 2 the whole silhouette stays inside the viewport.
const DefaultRadius = 0.5

// AccurateVertex is a grid sample of the tiled sphere kept in double precision until a tile
// converts it to a GPU vertex.
type AccurateVertex struct {
	// U is the polar angle in radians.
	U float64
	// V is the azimuth in radians.
	V float64
	// TexCoord is (v/V, u/U) across the grid.
	TexCoord [2]float64
}

type globusSphere struct {
	radius    float64
	segments  SegmentsInfo
	vertices  []AccurateVertex
	indices   []uint16
	rootTiles []Tile
}

// GlobusSphere is the tiled globe: a (U+1)x(V+1) grid of samples split into one root tile per grid cell.
type GlobusSphere interface {
	// Radius returns the sphere radius.
	Radius() float64

	// Segments returns the grid density.
	Segments() SegmentsInfo

	// Vertices returns the (U+1)*(V+1) grid samples in u-major order.
	Vertices() []AccurateVertex

	// Indices returns four grid indices per cell: bottom right, bottom left, top right, top left.
	Indices() []uint16

	// RootTiles returns one tile per grid cell, in cell order.
	RootTiles() []Tile
}

var _ GlobusSphere = &globusSphere{}

// NewGlobusSphere builds the grid, the cell indices and the root tiles.
//
// Parameters:
//   - radius: the sphere radius
//   - segments: the grid density
//
// Returns:
//   - GlobusSphere: the tiled sphere
//   - error: an error wrapping ErrInvalidSegments if the grid cannot be indexed with uint16
func NewGlobusSphere(radius float64, segments SegmentsInfo) (GlobusSphere, error) {
	if err := segments.Validate(); err != nil {
		return nil, err
	}
	g := &globusSphere{
		radius:   radius,
		segments: segments,
	}
	g.vertices = gridVertices(segments)
	g.indices = cellIndices(segments)

	tiles := len(g.indices) / 4
	g.rootTiles = make([]Tile, 0, tiles)
	for t := range tiles {
		i := g.indices[t*4 : t*4+4]
		g.rootTiles = append(g.rootTiles, Tile{
			BottomRight: g.vertices[i[0]],
			BottomLeft:  g.vertices[i[1]],
			TopRight:    g.vertices[i[2]],
			TopLeft:     g.vertices[i[3]],
			Radius:      radius,
		})
	}
	return g, nil
}

func (g *globusSphere) Radius() float64 {
	return g.radius
}

func (g *globusSphere) Segments() SegmentsInfo {
	return g.segments
}

func (g *globusSphere) Vertices() []AccurateVertex {
	return g.vertices
}

func (g *globusSphere) Indices() []uint16 {
	return g.indices
}

func (g *globusSphere) RootTiles() []Tile {
	return g.rootTiles
}

// gridVertices samples u over [start, start + 2·LimitAngle] and v over [0, 2π], both ends inclusive.
func gridVertices(s SegmentsInfo) []AccurateVertex {
	uPart := 1.0 / float64(s.UParts)
	vPart := 1.0 / float64(s.VParts)
	uPartAngle := LimitAngle * 2 * uPart
	vPartAngle := 2 * math.Pi * vPart
	startUAngle := (math.Pi - LimitAngle*2) * 0.5

	vertices := make([]AccurateVertex, 0, (s.UParts+1)*(s.VParts+1))
	for u := 0; u <= s.UParts; u++ {
		for v := 0; v <= s.VParts; v++ {
			vertices = append(vertices, AccurateVertex{
				U:        uPartAngle*float64(u) + startUAngle,
				V:        vPartAngle * float64(v),
				TexCoord: [2]float64{vPart * float64(v), uPart * float64(u)},
			})
		}
	}
	return vertices
}

// cellIndices emits i, i+1, i+V+1, i+V+2 for every cell, skipping the last sample of each row.
func cellIndices(s SegmentsInfo) []uint16 {
	row := uint16(s.VParts + 1)
	indices := make([]uint16, 0, s.UParts*s.VParts*4)
	var index uint16
	for range s.UParts {
		for range s.VParts {
			indices = append(indices, index, index+1, index+row, index+row+1)
			index++
		}
		index++
	}
	return indices
}
