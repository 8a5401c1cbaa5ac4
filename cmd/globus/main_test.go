package main

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-globe/common"
	"github.com/Carmen-Shannon/oxy-globe/engine/scene"
	"github.com/Carmen-Shannon/oxy-globe/engine/texture"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type rebindingScene struct {
	scene.Scene
	textures []*common.TextureStagingData
}

func (s *rebindingScene) SetTexture(tex *common.TextureStagingData) error {
	s.textures = append(s.textures, tex)
	return nil
}

func writePNG(t *testing.T, path string) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
}

func TestTextureReloader(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "earth.png"))

	textures := texture.NewController(texture.WithSearchDirs(dir))
	require.NotNil(t, textures.Texture("earth"))

	sc := &rebindingScene{}
	reload := textureReloader(textures, "earth", sc)

	// cached: nothing to do
	reload(0)
	assert.Empty(t, sc.textures)

	first := time.Now()
	textures.Evict("earth")
	reload(0)
	require.Len(t, sc.textures, 1)
	assert.Equal(t, uint32(2), sc.textures[0].Width)
	assert.True(t, textures.Cached("earth"))

	// a second eviction within the interval waits for the next attempt
	textures.Evict("earth")
	reload(0)
	if time.Since(first) < reloadInterval {
		assert.False(t, textures.Cached("earth"))
		assert.Len(t, sc.textures, 1)
	}
}
