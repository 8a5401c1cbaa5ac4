package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/Carmen-Shannon/oxy-globe/engine/globe"
	"github.com/Carmen-Shannon/oxy-globe/engine/mesh"
	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig is returned by Validate and Load when a value is out of range.
var ErrInvalidConfig = errors.New("invalid config")

// Config is the file-level configuration of the globe viewer.
// Zero-valued sections in a file keep the values from Default.
type Config struct {
	Window  WindowConfig  `yaml:"window" toml:"window"`
	Globe   GlobeConfig   `yaml:"globe" toml:"globe"`
	Texture TextureConfig `yaml:"texture" toml:"texture"`
	Render  RenderConfig  `yaml:"render" toml:"render"`
	Camera  CameraConfig  `yaml:"camera" toml:"camera"`
	Engine  EngineConfig  `yaml:"engine" toml:"engine"`
}

// WindowConfig holds the initial window title and size.
type WindowConfig struct {
	Title  string `yaml:"title" toml:"title"`
	Width  int    `yaml:"width" toml:"width"`
	Height int    `yaml:"height" toml:"height"`
}

// GlobeConfig controls the tessellation and the vertex layout of the globe.
type GlobeConfig struct {
	Radius      float64            `yaml:"radius" toml:"radius"`
	Segments    globe.SegmentsInfo `yaml:"segments" toml:"segments"`
	Layout      mesh.LayoutKind    `yaml:"layout" toml:"layout"`
	PointSphere bool               `yaml:"point_sphere" toml:"point_sphere"`
	Workers     int                `yaml:"workers" toml:"workers"`
}

// TextureConfig names the main texture and where to look for it.
type TextureConfig struct {
	File       string   `yaml:"file" toml:"file"`
	SearchDirs []string `yaml:"search_dirs" toml:"search_dirs"`
	// Watch reloads the texture when its file changes on disk.
	Watch bool `yaml:"watch" toml:"watch"`
}

// RenderConfig holds the surface settings.
type RenderConfig struct {
	ClearColor    [4]float64 `yaml:"clear_color" toml:"clear_color"`
	MSAA          uint32     `yaml:"msaa" toml:"msaa"`
	VSync         bool       `yaml:"vsync" toml:"vsync"`
	ForceSoftware bool       `yaml:"force_software" toml:"force_software"`
}

// CameraConfig holds the projection planes, the eye distance and the spin.
type CameraConfig struct {
	Near     float32 `yaml:"near" toml:"near"`
	Far      float32 `yaml:"far" toml:"far"`
	Distance float32 `yaml:"distance" toml:"distance"`
	// SpinRate is in degrees per tick.
	SpinRate float32 `yaml:"spin_rate" toml:"spin_rate"`
}

// EngineConfig holds the loop rates. A zero FrameLimit leaves rendering uncapped.
type EngineConfig struct {
	TickRate   int  `yaml:"tick_rate" toml:"tick_rate"`
	FrameLimit int  `yaml:"frame_limit" toml:"frame_limit"`
	Profiling  bool `yaml:"profiling" toml:"profiling"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Window: WindowConfig{Title: "Globus", Width: 800, Height: 600},
		Globe: GlobeConfig{
			Radius:   globe.DefaultRadius,
			Segments: globe.SegmentsInfo{UParts: 32, VParts: 64},
			Layout:   mesh.DefaultLayout,
		},
		Texture: TextureConfig{File: "earth", SearchDirs: []string{"."}},
		Render: RenderConfig{
			ClearColor: [4]float64{0.5, 0.5, 0.5, 1},
			MSAA:       4,
			VSync:      true,
		},
		Camera: CameraConfig{Near: 1, Far: 2, Distance: 2, SpinRate: 1},
		Engine: EngineConfig{TickRate: 60},
	}
}

// Load reads a YAML (.yaml, .yml) or TOML (.toml) file over Default and validates the result.
// Unknown keys are rejected.
//
// Parameters:
//   - path: the config file
//
// Returns:
//   - Config: the merged configuration
//   - error: error if the file cannot be read, decoded or validated
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		// an empty document leaves the defaults untouched
		if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
			return cfg, fmt.Errorf("config %s: %w", path, err)
		}
	case ".toml":
		dec := toml.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&cfg); err != nil {
			return cfg, fmt.Errorf("config %s: %w", path, err)
		}
	default:
		return cfg, fmt.Errorf("config %s: unsupported extension %q", path, filepath.Ext(path))
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes the configuration in the format picked by the file extension.
func (c Config) Save(path string) error {
	var (
		data []byte
		err  error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err = yaml.Marshal(c)
	case ".toml":
		data, err = toml.Marshal(c)
	default:
		return fmt.Errorf("config %s: unsupported extension %q", path, filepath.Ext(path))
	}
	if err != nil {
		return fmt.Errorf("config %s: %w", path, err)
	}
	return os.WriteFile(path, data, 0o644)
}

// Validate reports every out-of-range value at once, wrapped in ErrInvalidConfig.
func (c Config) Validate() error {
	var problems []string
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		problems = append(problems, fmt.Sprintf("window size %dx%d must be positive", c.Window.Width, c.Window.Height))
	}
	if c.Globe.Radius <= 0 {
		problems = append(problems, fmt.Sprintf("globe radius %g must be positive", c.Globe.Radius))
	}
	if err := c.Globe.Segments.Validate(); err != nil {
		problems = append(problems, err.Error())
	}
	if !c.Globe.Layout.Valid() {
		problems = append(problems, fmt.Sprintf("unknown layout %s", c.Globe.Layout))
	}
	if c.Globe.Workers < 0 {
		problems = append(problems, "globe workers must not be negative")
	}
	if c.Texture.Watch && c.Texture.File == "" {
		problems = append(problems, "texture watch needs a texture file")
	}
	for i, ch := range c.Render.ClearColor {
		if ch < 0 || ch > 1 {
			problems = append(problems, fmt.Sprintf("clear color channel %d (%g) outside [0, 1]", i, ch))
		}
	}
	if c.Render.MSAA != 1 && c.Render.MSAA != 4 {
		problems = append(problems, fmt.Sprintf("msaa %d must be 1 or 4", c.Render.MSAA))
	}
	if c.Camera.Near <= 0 || c.Camera.Far <= c.Camera.Near {
		problems = append(problems, fmt.Sprintf("camera planes near %g far %g need 0 < near < far", c.Camera.Near, c.Camera.Far))
	}
	if c.Camera.Distance <= 0 {
		problems = append(problems, fmt.Sprintf("camera distance %g must be positive", c.Camera.Distance))
	}
	if c.Engine.TickRate <= 0 {
		problems = append(problems, fmt.Sprintf("tick rate %d must be positive", c.Engine.TickRate))
	}
	if c.Engine.FrameLimit < 0 {
		problems = append(problems, fmt.Sprintf("frame limit %d must not be negative", c.Engine.FrameLimit))
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(problems, "; "))
	}
	return nil
}
