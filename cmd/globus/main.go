// Command globus opens a window and draws a spinning, textured globe.
package main

import (
	"context"
	"flag"
	"log"
	"time"

	"github.com/Carmen-Shannon/oxy-globe/common"
	"github.com/Carmen-Shannon/oxy-globe/engine"
	"github.com/Carmen-Shannon/oxy-globe/engine/camera"
	"github.com/Carmen-Shannon/oxy-globe/engine/config"
	"github.com/Carmen-Shannon/oxy-globe/engine/globe"
	"github.com/Carmen-Shannon/oxy-globe/engine/mesh"
	"github.com/Carmen-Shannon/oxy-globe/engine/renderer"
	"github.com/Carmen-Shannon/oxy-globe/engine/scene"
	"github.com/Carmen-Shannon/oxy-globe/engine/texture"
	"github.com/Carmen-Shannon/oxy-globe/engine/window"
)

// reloadInterval throttles texture reload attempts after the file watcher evicts it.
const reloadInterval = time.Second

func main() {
	configPath := flag.String("config", "", "YAML or TOML config file")
	textureFile := flag.String("texture", "", "texture file, overrides the config")
	layout := flag.String("layout", "", "vertex layout: position, position_normal, position_normal_uv, homogeneous or a-d")
	segments := flag.String("segments", "", "tessellation as UxV, e.g. 32x64")
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		var err error
		if cfg, err = config.Load(*configPath); err != nil {
			log.Fatalf("[Globus] %v", err)
		}
	}
	if *textureFile != "" {
		cfg.Texture.File = *textureFile
	}
	if *layout != "" {
		kind, err := mesh.ParseLayoutKind(*layout)
		if err != nil {
			log.Fatalf("[Globus] -layout: %v", err)
		}
		cfg.Globe.Layout = kind
	}
	if *segments != "" {
		seg, err := globe.ParseSegments(*segments)
		if err != nil {
			log.Fatalf("[Globus] -segments: %v", err)
		}
		cfg.Globe.Segments = seg
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("[Globus] %v", err)
	}

	w := window.NewWindow(
		window.WithTitle(cfg.Window.Title),
		window.WithSize(cfg.Window.Width, cfg.Window.Height),
	)

	presentMode := renderer.PresentModeVSync
	if !cfg.Render.VSync {
		presentMode = renderer.PresentModeUncapped
	}
	r := renderer.NewRenderer(renderer.BackendTypeWGPU, w,
		renderer.WithMSAA(renderer.MSAASampleCount(cfg.Render.MSAA)),
		renderer.WithClearColor(cfg.Render.ClearColor),
		renderer.WithPresentMode(presentMode),
		renderer.WithForceSoftwareRenderer(cfg.Render.ForceSoftware),
	)

	cam := camera.NewCamera(
		camera.WithAspect(common.AspectRatio(uint32(w.Width()), uint32(w.Height()))),
		camera.WithNear(cfg.Camera.Near),
		camera.WithFar(cfg.Camera.Far),
		camera.WithDistance(cfg.Camera.Distance),
		camera.WithSpinRate(cfg.Camera.SpinRate),
	)

	textures := texture.NewController(texture.WithSearchDirs(cfg.Texture.SearchDirs...))
	var tex *common.TextureStagingData
	if cfg.Texture.File != "" {
		tex = textures.Texture(cfg.Texture.File)
	}

	options := []scene.SceneBuilderOption{
		scene.WithActive(true),
		scene.WithLayout(cfg.Globe.Layout),
		scene.WithSegments(cfg.Globe.Segments),
		scene.WithRadius(cfg.Globe.Radius),
		scene.WithTexture(tex),
		scene.WithPointSphere(cfg.Globe.PointSphere),
		scene.WithTickRate(float32(cfg.Engine.TickRate)),
	}
	if cfg.Globe.Workers > 0 {
		options = append(options, scene.WithWorkers(cfg.Globe.Workers))
	}
	sc, err := scene.NewScene("globe", cam, r, options...)
	if err != nil {
		log.Fatalf("[Globus] %v", err)
	}
	defer sc.Release()

	eng := engine.NewEngine(
		engine.WithWindow(w),
		engine.WithScene(0, sc),
		engine.WithTickRate(float64(cfg.Engine.TickRate)),
		engine.WithRenderFrameLimit(float64(cfg.Engine.FrameLimit)),
		engine.WithProfiling(cfg.Engine.Profiling),
	)

	if cfg.Texture.Watch {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		if err := textures.Watch(ctx); err != nil {
			log.Printf("[Globus] texture watch disabled: %v", err)
		} else {
			eng.SetTickCallback(textureReloader(textures, cfg.Texture.File, sc))
		}
	}

	eng.Run()
}

// textureReloader returns a tick callback that rebinds the texture once the watcher has evicted it.
//
// Parameters:
//   - textures: the controller the texture was loaded through
//   - file: the texture filename
//   - sc: the scene to rebind
//
// Returns:
//   - func(float32): the tick callback
func textureReloader(textures texture.Controller, file string, sc scene.Scene) func(float32) {
	var lastTry time.Time
	return func(float32) {
		if textures.Cached(file) {
			return
		}
		if time.Since(lastTry) < reloadInterval {
			return
		}
		lastTry = time.Now()
		tex := textures.Texture(file)
		if tex == nil {
			return
		}
		if err := sc.SetTexture(tex); err != nil {
			log.Printf("[Globus] rebinding %s: %v", file, err)
			return
		}
		log.Printf("[Globus] reloaded %s", file)
	}
}
