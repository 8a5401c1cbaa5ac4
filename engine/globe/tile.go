package globe

import (
	"math"

	"github.com/Carmen-Shannon/oxy-globe/common"
	"github.com/Carmen-Shannon/oxy-globe/engine/mesh"
	"github.com/chewxy/math32"
)

// TileIndices is the two-triangle index list shared by every tile, over the corners in Corners order.
var TileIndices = [6]uint16{0, 1, 2, 2, 1, 3}

// Tile is one grid cell of the tiled sphere, drawn as a separate quad.
type Tile struct {
	BottomRight AccurateVertex
	BottomLeft  AccurateVertex
	TopRight    AccurateVertex
	TopLeft     AccurateVertex
	Radius      float64
}

// Corners returns the corners in vertex order: bottom right, bottom left, top right, top left.
func (t Tile) Corners() [4]AccurateVertex {
	return [4]AccurateVertex{t.BottomRight, t.BottomLeft, t.TopRight, t.TopLeft}
}

// PositionForParams returns the surface point at polar angle u and azimuth v, computed in double precision.
func (t Tile) PositionForParams(u, v float64) [3]float32 {
	sinU, cosU := math.Sincos(u)
	sinV, cosV := math.Sincos(v)
	return [3]float32{
		float32(t.Radius * sinU * cosV),
		float32(t.Radius * cosU),
		float32(t.Radius * sinU * sinV),
	}
}

// Vertices returns the four corner vertices with normals along the position and the grid texCoord as uv.
func (t Tile) Vertices() []mesh.GPUVertex {
	corners := t.Corners()
	vertices := make([]mesh.GPUVertex, 0, len(corners))
	for _, c := range corners {
		p := t.PositionForParams(c.U, c.V)
		vertices = append(vertices, mesh.GPUVertex{
			Position: p,
			Normal:   common.Normalize3(p),
			UV:       [2]float32{float32(c.TexCoord[0]), float32(c.TexCoord[1])},
		})
	}
	return vertices
}

// Indices returns a copy of TileIndices.
func (t Tile) Indices() []uint16 {
	return append([]uint16(nil), TileIndices[:]...)
}

// BoundingSphere returns the centroid of the four corners and a radius reaching the farthest corner
// and the surface point at the middle of the tile, which bulges past the corners.
//
// Returns:
//   - [3]float32: the sphere centre in model space
//   - float32: the sphere radius
func (t Tile) BoundingSphere() ([3]float32, float32) {
	var center [3]float32
	corners := t.Vertices()
	for _, v := range corners {
		for i := range 3 {
			center[i] += v.Position[i] / float32(len(corners))
		}
	}

	var radius float32
	for _, v := range corners {
		dx := v.Position[0] - center[0]
		dy := v.Position[1] - center[1]
		dz := v.Position[2] - center[2]
		radius = max(radius, math32.Sqrt(dx*dx+dy*dy+dz*dz))
	}

	var midU, midV float64
	for _, c := range t.Corners() {
		midU += c.U / 4
		midV += c.V / 4
	}
	mid := t.PositionForParams(midU, midV)
	dx, dy, dz := mid[0]-center[0], mid[1]-center[1], mid[2]-center[2]
	radius = max(radius, math32.Sqrt(dx*dx+dy*dy+dz*dz))
	return center, radius
}
