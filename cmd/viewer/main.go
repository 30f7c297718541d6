package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/hajimehoshi/ebiten/v2"

	"softengine/internal/config"
	"softengine/internal/engine"
	"softengine/internal/logging"
	"softengine/internal/mesh"
	"softengine/internal/scene"
)

func main() {
	configFile := flag.String("config", "", "Path to a .json, .toml or .yaml config file")
	scenePath := flag.String("scene", "", "Babylon JSON scene (default: built-in cube)")
	width := flag.Int("width", 0, "Render width in pixels (default: 640)")
	height := flag.Int("height", 0, "Render height in pixels (default: 480)")
	workers := flag.Int("workers", 0, "Number of rasterizer goroutines (default: NumCPU)")
	watch := flag.Bool("watch", false, "Reload the scene when its file changes")
	verbose := flag.Bool("v", false, "Log per-frame statistics")

	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logging.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	var cfg config.Config
	if *configFile != "" {
		var err error
		cfg, err = config.Load(*configFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
	}
	cfg.Resolve(config.Flags{
		Scene:   *scenePath,
		Width:   *width,
		Height:  *height,
		Workers: *workers,
	})
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	load := func() ([]*mesh.Mesh, error) {
		if cfg.Scene == "" {
			return []*mesh.Mesh{scene.Cube()}, nil
		}
		return scene.Load(cfg.Scene, scene.Options{TextureSize: cfg.TextureSize})
	}
	meshes, err := load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading scene: %v\n", err)
		os.Exit(1)
	}

	g := &game{
		device:     engine.NewDevice(cfg.Width, cfg.Height, cfg.EngineOptions()...),
		camera:     cfg.Camera(),
		spin:       cfg.SpinRate(),
		background: cfg.BackgroundColor(),
		meshes:     meshes,
		reloads:    make(chan []*mesh.Mesh, 1),
	}

	if *watch && cfg.Scene != "" {
		stop, err := watchScene(cfg.Scene, load, g.reloads)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error watching scene: %v\n", err)
			os.Exit(1)
		}
		defer stop()
	}

	ebiten.SetWindowTitle(windowTitle)
	ebiten.SetWindowSize(cfg.Width, cfg.Height)
	ebiten.SetTPS(60)
	if err := ebiten.RunGame(g); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
