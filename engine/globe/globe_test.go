package globe

import (
	"math"
	"runtime"
	"testing"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/oxy-globe/engine/mesh"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const eps = 1e-5

func TestSegmentsValidate(t *testing.T) {
	tests := []struct {
		name     string
		segments SegmentsInfo
		ok       bool
	}{
		{"small", SegmentsInfo{UParts: 4, VParts: 8}, true},
		{"max grid", SegmentsInfo{UParts: 255, VParts: 255}, true},
		{"zero u", SegmentsInfo{UParts: 0, VParts: 8}, false},
		{"negative v", SegmentsInfo{UParts: 4, VParts: -1}, false},
		{"too many vertices", SegmentsInfo{UParts: 256, VParts: 256}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.segments.Validate()
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrInvalidSegments)
			}
		})
	}
	assert.Equal(t, "4x8", SegmentsInfo{UParts: 4, VParts: 8}.String())
}

func TestParseSegments(t *testing.T) {
	seg, err := ParseSegments("32x64")
	require.NoError(t, err)
	assert.Equal(t, SegmentsInfo{UParts: 32, VParts: 64}, seg)

	seg, err = ParseSegments(" 4X8 ")
	require.NoError(t, err)
	assert.Equal(t, SegmentsInfo{UParts: 4, VParts: 8}, seg)

	for _, bad := range []string{"", "32", "ax8", "4xb", "0x8", "300x300"} {
		_, err := ParseSegments(bad)
		assert.ErrorIs(t, err, ErrInvalidSegments, bad)
	}
}

func TestSphereVertices(t *testing.T) {
	s, err := NewSphere(SegmentsInfo{UParts: 4, VParts: 8}, WithRadius(0.5))
	require.NoError(t, err)

	vertices := s.Vertices()
	require.Len(t, vertices, 32)

	// u = 0 is the north pole, lifted by the default z offset
	assert.InDelta(t, 0, vertices[0].Position[0], eps)
	assert.InDelta(t, 0.5, vertices[0].Position[1], eps)
	assert.InDelta(t, 1, vertices[0].Position[2], eps)

	// u = π/2, v = π/2 lies on +z
	p := vertices[2*8+2].Position
	assert.InDelta(t, 0, p[0], eps)
	assert.InDelta(t, 0, p[1], eps)
	assert.InDelta(t, 1.5, p[2], eps)

	for _, v := range vertices {
		n := v.Normal
		assert.InDelta(t, 1, math.Sqrt(float64(n[0]*n[0]+n[1]*n[1]+n[2]*n[2])), eps)
	}

	indices := s.Indices()
	require.Len(t, indices, 32)
	for i, idx := range indices {
		assert.Equal(t, uint16(i), idx)
	}
}

func TestSphereOffset(t *testing.T) {
	s, err := NewSphere(SegmentsInfo{UParts: 2, VParts: 2}, WithOffset([3]float32{0, 0, 0}))
	require.NoError(t, err)
	assert.Equal(t, [3]float32{0, 0, 0}, s.Offset())
	assert.Equal(t, float32(1), s.Radius())
	assert.InDelta(t, 1, s.PositionForParams(0, 0)[1], eps)
	assert.InDelta(t, 0, s.PositionForParams(0, 0)[2], eps)

	_, err = NewSphere(SegmentsInfo{})
	assert.ErrorIs(t, err, ErrInvalidSegments)
}

func TestGlobusSphereGrid(t *testing.T) {
	g, err := NewGlobusSphere(1, SegmentsInfo{UParts: 2, VParts: 3})
	require.NoError(t, err)

	vertices := g.Vertices()
	require.Len(t, vertices, 3*4)

	start := (math.Pi - 2*LimitAngle) / 2
	assert.InDelta(t, start, vertices[0].U, 1e-12)
	assert.InDelta(t, start+2*LimitAngle, vertices[len(vertices)-1].U, 1e-12)
	assert.InDelta(t, 2*math.Pi, vertices[3].V, 1e-12)
	assert.Equal(t, [2]float64{1, 0}, vertices[3].TexCoord)
	assert.InDelta(t, 0.5, vertices[4].TexCoord[1], 1e-12)

	assert.Equal(t, []uint16{
		0, 1, 4, 5,
		1, 2, 5, 6,
		2, 3, 6, 7,
		4, 5, 8, 9,
		5, 6, 9, 10,
		6, 7, 10, 11,
	}, g.Indices())
	assert.Len(t, g.RootTiles(), 6)
	assert.Equal(t, SegmentsInfo{UParts: 2, VParts: 3}, g.Segments())

	_, err = NewGlobusSphere(1, SegmentsInfo{UParts: 1000, VParts: 1000})
	assert.ErrorIs(t, err, ErrInvalidSegments)
}

func TestTileCorners(t *testing.T) {
	g, err := NewGlobusSphere(2, SegmentsInfo{UParts: 2, VParts: 3})
	require.NoError(t, err)

	tile := g.RootTiles()[4]
	v := g.Vertices()
	assert.Equal(t, v[5], tile.BottomRight)
	assert.Equal(t, v[6], tile.BottomLeft)
	assert.Equal(t, v[9], tile.TopRight)
	assert.Equal(t, v[10], tile.TopLeft)
	assert.Equal(t, 2.0, tile.Radius)
}

func TestTileVertices(t *testing.T) {
	g, err := NewGlobusSphere(2, SegmentsInfo{UParts: 4, VParts: 4})
	require.NoError(t, err)

	for _, tile := range g.RootTiles() {
		vertices := tile.Vertices()
		require.Len(t, vertices, 4)
		for i, vert := range vertices {
			p := vert.Position
			length := math.Sqrt(float64(p[0]*p[0] + p[1]*p[1] + p[2]*p[2]))
			assert.InDelta(t, 2, length, eps)
			for k := range 3 {
				assert.InDelta(t, p[k]/2, vert.Normal[k], eps)
			}
			c := tile.Corners()[i]
			assert.InDelta(t, c.TexCoord[0], vert.UV[0], eps)
			assert.InDelta(t, c.TexCoord[1], vert.UV[1], eps)
		}
		assert.Equal(t, []uint16{0, 1, 2, 2, 1, 3}, tile.Indices())
	}
}

func TestTileBoundingSphere(t *testing.T) {
	g, err := NewGlobusSphere(1, SegmentsInfo{UParts: 4, VParts: 8})
	require.NoError(t, err)

	for _, tile := range g.RootTiles() {
		center, radius := tile.BoundingSphere()
		assert.Greater(t, radius, float32(0))
		for _, vert := range tile.Vertices() {
			dx := vert.Position[0] - center[0]
			dy := vert.Position[1] - center[1]
			dz := vert.Position[2] - center[2]
			assert.LessOrEqual(t, math.Sqrt(float64(dx*dx+dy*dy+dz*dz)), float64(radius)+eps)
		}

		mid := tile.PositionForParams((tile.BottomRight.U+tile.TopLeft.U)/2, (tile.BottomRight.V+tile.TopLeft.V)/2)
		dx, dy, dz := mid[0]-center[0], mid[1]-center[1], mid[2]-center[2]
		assert.LessOrEqual(t, math.Sqrt(float64(dx*dx+dy*dy+dz*dz)), float64(radius)+eps)
	}
}

func TestBuildTileMeshes(t *testing.T) {
	g, err := NewGlobusSphere(1, SegmentsInfo{UParts: 6, VParts: 12})
	require.NoError(t, err)
	tiles := g.RootTiles()

	pool := worker.NewDynamicWorkerPool(3, 256, time.Second)
	t.Cleanup(pool.Stop)

	for _, kind := range []mesh.LayoutKind{mesh.LayoutPosition, mesh.LayoutPositionNormalUV, mesh.LayoutHomogeneous} {
		t.Run(kind.String(), func(t *testing.T) {
			meshes := BuildTileMeshes(pool, tiles, kind)
			require.Len(t, meshes, len(tiles))
			for i, m := range meshes {
				assert.Equal(t, mesh.Encode(kind, tiles[i].Vertices()), m.Vertices, "tile %d", i)
				assert.Len(t, m.Indices, 12)
				assert.Equal(t, uint32(6), m.IndexCount)
				center, radius := tiles[i].BoundingSphere()
				assert.Equal(t, center, m.Center)
				assert.Equal(t, radius, m.Radius)
			}
		})
	}

	assert.Empty(t, BuildTileMeshes(pool, nil, mesh.LayoutPosition))
	assert.Equal(t, BuildTileMeshes(pool, tiles, mesh.LayoutPosition), BuildTileMeshes(nil, tiles, mesh.LayoutPosition))
}

func TestBuildTileMeshesReusesPool(t *testing.T) {
	g, err := NewGlobusSphere(1, SegmentsInfo{UParts: 8, VParts: 16})
	require.NoError(t, err)
	tiles := g.RootTiles()

	pool := worker.NewDynamicWorkerPool(8, 256, time.Second)
	t.Cleanup(pool.Stop)

	before := runtime.NumGoroutine()
	for range 20 {
		require.Len(t, BuildTileMeshes(pool, tiles, mesh.DefaultLayout), len(tiles))
	}
	assert.LessOrEqual(t, runtime.NumGoroutine(), before, "builds must not start goroutines of their own")
}
