package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/mitchellh/go-homedir"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"softengine/internal/engine"
	"softengine/internal/mathutil"
	"softengine/internal/raster"
)

const jsonConfig = `{
  "scene": "assets/monkey.babylon",
  "output_dir": "out",
  "width": 320,
  "height": 200,
  "frames": 12,
  "camera_position": [0.0, 2.0, 8.0],
  "light": [1.0, -5.0, -5.0],
  "background": [0.5, 0.5, 0.5],
  "culling": false
}`

const tomlConfig = `
scene = "assets/monkey.babylon"
output_dir = "out"
width = 320
height = 200
frames = 12
camera_position = [0.0, 2.0, 8.0]
light = [1.0, -5.0, -5.0]
background = [0.5, 0.5, 0.5]
culling = false
`

const yamlConfig = `
scene: assets/monkey.babylon
output_dir: out
width: 320
height: 200
frames: 12
camera_position: [0.0, 2.0, 8.0]
light: [1.0, -5.0, -5.0]
background: [0.5, 0.5, 0.5]
culling: false
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0644))
	return p
}

func TestLoadFormats(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{
		"render.json": jsonConfig,
		"render.toml": tomlConfig,
		"render.yaml": yamlConfig,
		"render.yml":  yamlConfig,
	}
	for name, content := range files {
		t.Run(name, func(t *testing.T) {
			cfg, err := Load(writeFile(t, dir, name, content))
			require.NoError(t, err)

			assert.Equal(t, filepath.Join(dir, "assets", "monkey.babylon"), cfg.Scene)
			assert.Equal(t, filepath.Join(dir, "out"), cfg.OutputDir)
			assert.Equal(t, 320, cfg.Width)
			assert.Equal(t, 200, cfg.Height)
			assert.Equal(t, 12, cfg.Frames)
			assert.Equal(t, []float64{0, 2, 8}, cfg.CameraPosition)
			assert.Equal(t, mathutil.Vec3{1, -5, -5}, cfg.LightPosition())
			assert.Equal(t, mathutil.Color4{R: 0.5, G: 0.5, B: 0.5, A: 1}, cfg.BackgroundColor())
			assert.False(t, cfg.CullingEnabled())
			assert.Nil(t, cfg.CameraTarget)
		})
	}
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := Load(filepath.Join(dir, "missing.json"))
	assert.ErrorContains(t, err, "config: read")

	_, err = Load(writeFile(t, dir, "render.ini", "width=1"))
	assert.ErrorContains(t, err, "unsupported format")

	_, err = Load(writeFile(t, dir, "broken.json", "{"))
	assert.ErrorContains(t, err, "config: parse")

	_, err = Load(writeFile(t, dir, "broken.toml", "width = ["))
	assert.ErrorContains(t, err, "config: parse")
}

func TestLoadExpandsHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)
	homedir.DisableCache = true
	t.Cleanup(func() { homedir.DisableCache = false })

	p := writeFile(t, t.TempDir(), "render.json", `{"scene": "~/scenes/a.babylon", "output_dir": "/abs/out"}`)
	cfg, err := Load(p)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "scenes", "a.babylon"), cfg.Scene)
	assert.Equal(t, "/abs/out", cfg.OutputDir)
}

func TestResolveDefaults(t *testing.T) {
	var cfg Config
	cfg.Resolve(Flags{})
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "renders", cfg.OutputDir)
	assert.Equal(t, 640, cfg.Width)
	assert.Equal(t, 480, cfg.Height)
	assert.Equal(t, 60, cfg.Frames)
	assert.Equal(t, 1, cfg.Scale)
	assert.Positive(t, cfg.Workers)
	assert.Equal(t, engine.Camera{Position: mathutil.Vec3{0, 0, 10}}, cfg.Camera())
	assert.Equal(t, engine.DefaultSpin, cfg.SpinRate())
	assert.Equal(t, mathutil.Black, cfg.BackgroundColor())
	assert.True(t, cfg.CullingEnabled())
	assert.Len(t, cfg.EngineOptions(), 3)

	// Defaults are copies
	cfg.Light[0] = 99
	cfg.Spin[0] = 99
	assert.Equal(t, 0.0, raster.DefaultLight[0])
	assert.Equal(t, 0.01, engine.DefaultSpin.Step[0])
}

func TestResolveFlagsOverride(t *testing.T) {
	cfg := Config{Scene: "a.babylon", Width: 100, Frames: 5}
	cfg.Resolve(Flags{Scene: "b.babylon", Width: 50, Workers: 3, Scale: 2})

	assert.Equal(t, "b.babylon", cfg.Scene)
	assert.Equal(t, 50, cfg.Width)
	assert.Equal(t, 5, cfg.Frames)
	assert.Equal(t, 3, cfg.Workers)
	assert.Equal(t, 2, cfg.Scale)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
		msg    string
	}{
		{"size", func(c *Config) { c.Height = 0 }, "invalid size"},
		{"frames", func(c *Config) { c.Frames = -1 }, "frames"},
		{"scale", func(c *Config) { c.Scale = 17 }, "scale"},
		{"texture", func(c *Config) { c.TextureSize = 0 }, "texture_size"},
		{"light arity", func(c *Config) { c.Light = []float64{1, 2} }, "light needs 3"},
		{"spin arity", func(c *Config) { c.Spin = []float64{} }, "spin needs 3"},
		{"background arity", func(c *Config) { c.Background = []float64{1} }, "background"},
		{"camera", func(c *Config) { c.CameraTarget = []float64{0, 0, 10} }, "equals"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var cfg Config
			cfg.Resolve(Flags{})
			tc.mutate(&cfg)
			assert.ErrorContains(t, cfg.Validate(), tc.msg)
		})
	}
}
