package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/mitchellh/go-homedir"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"softengine/internal/engine"
	"softengine/internal/mathutil"
	"softengine/internal/raster"
)

// Config holds all configurable paths and render settings.
type Config struct {
	// Paths
	Scene     string `json:"scene" toml:"scene" yaml:"scene"`
	OutputDir string `json:"output_dir" toml:"output_dir" yaml:"output_dir"`

	// Render settings
	Width       int `json:"width" toml:"width" yaml:"width"`
	Height      int `json:"height" toml:"height" yaml:"height"`
	Frames      int `json:"frames" toml:"frames" yaml:"frames"`
	Scale       int `json:"scale" toml:"scale" yaml:"scale"`
	Workers     int `json:"workers" toml:"workers" yaml:"workers"`
	TextureSize int `json:"texture_size" toml:"texture_size" yaml:"texture_size"`

	// Scene settings; vectors are [x, y, z], background is [r, g, b] or [r, g, b, a] in 0..1
	CameraPosition []float64 `json:"camera_position" toml:"camera_position" yaml:"camera_position"`
	CameraTarget   []float64 `json:"camera_target" toml:"camera_target" yaml:"camera_target"`
	Light          []float64 `json:"light" toml:"light" yaml:"light"`
	Spin           []float64 `json:"spin" toml:"spin" yaml:"spin"`
	Background     []float64 `json:"background" toml:"background" yaml:"background"`
	Culling        *bool     `json:"culling" toml:"culling" yaml:"culling"`
}

// Load reads a config file. The format follows the extension: .json, .toml,
// .yaml or .yml. Fields not set in the file keep their zero values. Paths
// may start with ~ and are made absolute against the file's directory.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg Config
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		err = json.Unmarshal(data, &cfg)
	case ".toml":
		err = toml.Unmarshal(data, &cfg)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &cfg)
	default:
		return Config{}, fmt.Errorf("config: unsupported format %q for %s", ext, path)
	}
	if err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}

	base := filepath.Dir(path)
	if cfg.Scene, err = resolvePath(base, cfg.Scene); err != nil {
		return Config{}, fmt.Errorf("config: scene path: %w", err)
	}
	if cfg.OutputDir, err = resolvePath(base, cfg.OutputDir); err != nil {
		return Config{}, fmt.Errorf("config: output path: %w", err)
	}

	return cfg, nil
}

func resolvePath(base, p string) (string, error) {
	if p == "" {
		return "", nil
	}
	p, err := homedir.Expand(p)
	if err != nil {
		return "", err
	}
	if !filepath.IsAbs(p) {
		p = filepath.Join(base, p)
	}
	return p, nil
}

// Flags holds CLI flag values that override config file settings.
type Flags struct {
	Scene     string
	OutputDir string
	Frames    int
	Workers   int
	Width     int
	Height    int
	Scale     int
}

// Resolve applies flag overrides, then fills every unset field with its
// default. CLI flags take priority when non-zero/non-empty.
func (c *Config) Resolve(flags Flags) {
	if flags.Scene != "" {
		c.Scene = flags.Scene
	}
	if flags.OutputDir != "" {
		c.OutputDir = flags.OutputDir
	}
	if flags.Frames > 0 {
		c.Frames = flags.Frames
	}
	if flags.Workers > 0 {
		c.Workers = flags.Workers
	}
	if flags.Width > 0 {
		c.Width = flags.Width
	}
	if flags.Height > 0 {
		c.Height = flags.Height
	}
	if flags.Scale > 0 {
		c.Scale = flags.Scale
	}

	if c.OutputDir == "" {
		c.OutputDir = "renders"
	}
	if c.Width <= 0 {
		c.Width = 640
	}
	if c.Height <= 0 {
		c.Height = 480
	}
	if c.Frames <= 0 {
		c.Frames = 60
	}
	if c.Scale <= 0 {
		c.Scale = 1
	}
	if c.Workers <= 0 {
		c.Workers = runtime.NumCPU()
	}
	if c.TextureSize <= 0 {
		c.TextureSize = 512
	}
	if c.CameraPosition == nil {
		c.CameraPosition = []float64{0, 0, 10}
	}
	if c.CameraTarget == nil {
		c.CameraTarget = []float64{0, 0, 0}
	}
	if c.Light == nil {
		c.Light = append([]float64(nil), raster.DefaultLight[:]...)
	}
	if c.Spin == nil {
		c.Spin = append([]float64(nil), engine.DefaultSpin.Step[:]...)
	}
	if c.Background == nil {
		c.Background = []float64{0, 0, 0, 1}
	}
	if c.Culling == nil {
		on := true
		c.Culling = &on
	}
}

// Validate reports the first out-of-range or malformed setting.
func (c *Config) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("config: invalid size %dx%d", c.Width, c.Height)
	}
	if c.Frames <= 0 {
		return fmt.Errorf("config: frames must be positive, got %d", c.Frames)
	}
	if c.Scale < 1 || c.Scale > 16 {
		return fmt.Errorf("config: scale must be in 1..16, got %d", c.Scale)
	}
	if c.TextureSize <= 0 {
		return fmt.Errorf("config: texture_size must be positive, got %d", c.TextureSize)
	}
	for _, v := range []struct {
		name string
		val  []float64
	}{
		{"camera_position", c.CameraPosition},
		{"camera_target", c.CameraTarget},
		{"light", c.Light},
		{"spin", c.Spin},
	} {
		if len(v.val) != 3 {
			return fmt.Errorf("config: %s needs 3 components, got %d", v.name, len(v.val))
		}
	}
	if n := len(c.Background); n != 3 && n != 4 {
		return fmt.Errorf("config: background needs 3 or 4 components, got %d", n)
	}
	if vec3(c.CameraPosition) == vec3(c.CameraTarget) {
		return fmt.Errorf("config: camera_position equals camera_target")
	}
	return nil
}

// Camera returns the configured camera. Call after Validate.
func (c *Config) Camera() engine.Camera {
	return engine.Camera{Position: vec3(c.CameraPosition), Target: vec3(c.CameraTarget)}
}

func (c *Config) LightPosition() mathutil.Vec3 { return vec3(c.Light) }

func (c *Config) SpinRate() engine.Spin { return engine.Spin{Step: vec3(c.Spin)} }

// BackgroundColor returns the clear color; alpha defaults to opaque.
func (c *Config) BackgroundColor() mathutil.Color4 {
	col := mathutil.Color4{A: 1}
	if len(c.Background) >= 3 {
		col.R, col.G, col.B = c.Background[0], c.Background[1], c.Background[2]
	}
	if len(c.Background) == 4 {
		col.A = c.Background[3]
	}
	return col
}

// CullingEnabled reports whether back faces are skipped. Defaults to true.
func (c *Config) CullingEnabled() bool {
	return c.Culling == nil || *c.Culling
}

// EngineOptions maps the settings onto Device options.
func (c *Config) EngineOptions() []engine.Option {
	return []engine.Option{
		engine.WithWorkers(c.Workers),
		engine.WithCulling(c.CullingEnabled()),
		engine.WithLight(c.LightPosition()),
	}
}

func vec3(v []float64) mathutil.Vec3 {
	var out mathutil.Vec3
	copy(out[:], v)
	return out
}
