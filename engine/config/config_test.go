package config

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/Carmen-Shannon/oxy-globe/common"
	"github.com/Carmen-Shannon/oxy-globe/engine/camera"
	"github.com/Carmen-Shannon/oxy-globe/engine/globe"
	"github.com/Carmen-Shannon/oxy-globe/engine/mesh"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, mesh.LayoutPositionNormalUV, cfg.Globe.Layout)
	assert.Equal(t, globe.SegmentsInfo{UParts: 32, VParts: 64}, cfg.Globe.Segments)
	assert.Equal(t, [4]float64{0.5, 0.5, 0.5, 1}, cfg.Render.ClearColor)
}

func TestDefaultGlobeFitsViewport(t *testing.T) {
	cfg := Default()
	cam := camera.NewCamera(
		camera.WithAspect(common.AspectRatio(uint32(cfg.Window.Width), uint32(cfg.Window.Height))),
		camera.WithNear(cfg.Camera.Near),
		camera.WithFar(cfg.Camera.Far),
		camera.WithDistance(cfg.Camera.Distance),
		camera.WithSpinRate(cfg.Camera.SpinRate),
	)
	g, err := globe.NewGlobusSphere(cfg.Globe.Radius, cfg.Globe.Segments)
	require.NoError(t, err)

	for _, ticks := range []float32{0, 37, 90} {
		cam.Advance(ticks)
		clip := cam.ClipMatrix()
		for _, tile := range g.RootTiles() {
			for _, v := range tile.Vertices() {
				p := common.MulVec4(clip[:], [4]float32{v.Position[0], v.Position[1], v.Position[2], 1})
				require.Greater(t, p[3], float32(0))
				assert.LessOrEqual(t, math.Abs(float64(p[0]/p[3])), 1.0, "x after %g ticks", ticks)
				assert.LessOrEqual(t, math.Abs(float64(p[1]/p[3])), 1.0, "y after %g ticks", ticks)
			}
		}
	}
}

func TestLoadYAML(t *testing.T) {
	path := writeFile(t, "globus.yaml", `
window:
  title: Earth
  width: 1024
  height: 768
globe:
  segments: {u: 16, v: 32}
  layout: b
  point_sphere: true
texture:
  file: earth.jpg
  search_dirs: [assets, textures]
  watch: true
camera:
  spin_rate: 0.5
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, WindowConfig{Title: "Earth", Width: 1024, Height: 768}, cfg.Window)
	assert.Equal(t, globe.SegmentsInfo{UParts: 16, VParts: 32}, cfg.Globe.Segments)
	assert.Equal(t, mesh.LayoutPositionNormal, cfg.Globe.Layout)
	assert.True(t, cfg.Globe.PointSphere)
	assert.Equal(t, []string{"assets", "textures"}, cfg.Texture.SearchDirs)
	assert.True(t, cfg.Texture.Watch)
	assert.Equal(t, float32(0.5), cfg.Camera.SpinRate)

	// untouched keys keep their defaults
	assert.Equal(t, globe.DefaultRadius, cfg.Globe.Radius)
	assert.Equal(t, float32(2), cfg.Camera.Far)
	assert.Equal(t, 60, cfg.Engine.TickRate)
}

func TestLoadTOML(t *testing.T) {
	path := writeFile(t, "globus.toml", `
[globe]
layout = "d"
radius = 2.5

[render]
clear_color = [0.0, 0.0, 0.0, 1.0]
msaa = 1
vsync = false

[engine]
tick_rate = 30
frame_limit = 144
profiling = true
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, mesh.LayoutHomogeneous, cfg.Globe.Layout)
	assert.Equal(t, 2.5, cfg.Globe.Radius)
	assert.Equal(t, RenderConfig{ClearColor: [4]float64{0, 0, 0, 1}, MSAA: 1}, cfg.Render)
	assert.Equal(t, EngineConfig{TickRate: 30, FrameLimit: 144, Profiling: true}, cfg.Engine)
	assert.Equal(t, "Globus", cfg.Window.Title)
}

func TestLoadEmptyYAMLKeepsDefaults(t *testing.T) {
	cfg, err := Load(writeFile(t, "empty.yml", ""))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		invalid bool
	}{
		{"unknown yaml key", "a.yaml", "globe:\n  colour: red\n", false},
		{"unknown toml key", "a.toml", "[globe]\ncolour = \"red\"\n", false},
		{"bad layout", "a.yaml", "globe:\n  layout: e\n", false},
		{"unsupported extension", "a.json", "{}", false},
		{"out of range", "a.toml", "[camera]\nnear = 3.0\n", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeFile(t, tt.file, tt.content))
			require.Error(t, err)
			if tt.invalid {
				assert.ErrorIs(t, err, ErrInvalidConfig)
			}
		})
	}

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestValidateCollectsProblems(t *testing.T) {
	cfg := Default()
	cfg.Window.Width = 0
	cfg.Globe.Segments = globe.SegmentsInfo{UParts: 0, VParts: 4}
	cfg.Render.MSAA = 8
	cfg.Render.ClearColor[3] = 2
	cfg.Engine.TickRate = 0

	err := cfg.Validate()
	require.ErrorIs(t, err, ErrInvalidConfig)
	for _, part := range []string{"window size", "segments", "msaa 8", "clear color channel 3", "tick rate"} {
		assert.Contains(t, err.Error(), part)
	}
}

func TestSaveLoad(t *testing.T) {
	cfg := Default()
	cfg.Globe.Layout = mesh.LayoutPosition
	cfg.Texture.SearchDirs = []string{"a", "b"}
	cfg.Engine.FrameLimit = 120

	for _, name := range []string{"out.yaml", "out.toml"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)
			require.NoError(t, cfg.Save(path))
			loaded, err := Load(path)
			require.NoError(t, err)
			assert.Equal(t, cfg, loaded)
		})
	}

	assert.Error(t, cfg.Save(filepath.Join(t.TempDir(), "out.ini")))
}
