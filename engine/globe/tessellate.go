package globe

import (
	"sync"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/oxy-globe/engine/mesh"
)

// TileMesh is the upload-ready form of one tile.
type TileMesh struct {
	// Vertices is the vertex stream in the requested layout.
	Vertices []byte
	// Indices is the uint16 index stream padded to 4 bytes.
	Indices []byte
	// IndexCount is the number of indices to draw, excluding padding.
	IndexCount uint32
	// Center and Radius bound the tile in model space.
	Center [3]float32
	Radius float32
}

// BuildTileMeshes encodes every tile on pool. The result has one entry per tile, in tile order.
// The pool is owned by the caller and stays running; a nil pool encodes on the calling goroutine.
//
// Parameters:
//   - pool: the worker pool to encode on, or nil
//   - tiles: the tiles to encode
//   - kind: the vertex layout to encode into
//
// Returns:
//   - []TileMesh: the encoded tiles
func BuildTileMeshes(pool worker.DynamicWorkerPool, tiles []Tile, kind mesh.LayoutKind) []TileMesh {
	meshes := make([]TileMesh, len(tiles))
	if pool == nil {
		for i := range tiles {
			meshes[i] = encodeTile(tiles[i], kind)
		}
		return meshes
	}

	// pool.Wait only returns once workers idle-exit, so a WaitGroup marks completion
	var wg sync.WaitGroup
	for i := range tiles {
		wg.Add(1)
		id := i
		pool.SubmitTask(worker.Task{
			ID: id,
			Do: func() (any, error) {
				defer wg.Done()
				meshes[id] = encodeTile(tiles[id], kind)
				return nil, nil
			},
		})
	}
	wg.Wait()
	return meshes
}

func encodeTile(t Tile, kind mesh.LayoutKind) TileMesh {
	center, radius := t.BoundingSphere()
	return TileMesh{
		Vertices:   mesh.Encode(kind, t.Vertices()),
		Indices:    mesh.EncodeIndices(TileIndices[:]),
		IndexCount: uint32(len(TileIndices)),
		Center:     center,
		Radius:     radius,
	}
}
