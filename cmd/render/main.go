package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"softengine/internal/batch"
	"softengine/internal/config"
	"softengine/internal/engine"
	"softengine/internal/logging"
	"softengine/internal/mesh"
	"softengine/internal/scene"
)

func main() {
	// CLI flags
	configFile := flag.String("config", "", "Path to a .json, .toml or .yaml config file")
	scenePath := flag.String("scene", "", "Babylon JSON scene (default: built-in cube)")
	outputDir := flag.String("output", "", "Output directory (default: renders)")
	frames := flag.Int("frames", 0, "Number of frames to render (default: 60)")
	workers := flag.Int("workers", 0, "Number of worker goroutines (default: NumCPU)")
	width := flag.Int("width", 0, "Frame width in pixels (default: 640)")
	height := flag.Int("height", 0, "Frame height in pixels (default: 480)")
	scale := flag.Int("scale", 0, "Integer upscale factor of written frames (default: 1)")
	verbose := flag.Bool("v", false, "Log per-frame statistics")

	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logging.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	// Load config
	var cfg config.Config
	if *configFile != "" {
		var err error
		cfg, err = config.Load(*configFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
	}

	// CLI flags override config file
	cfg.Resolve(config.Flags{
		Scene:     *scenePath,
		OutputDir: *outputDir,
		Frames:    *frames,
		Workers:   *workers,
		Width:     *width,
		Height:    *height,
		Scale:     *scale,
	})
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// Load meshes
	meshes := []*mesh.Mesh{scene.Cube()}
	source := "built-in cube"
	if cfg.Scene != "" {
		var err error
		meshes, err = scene.Load(cfg.Scene, scene.Options{TextureSize: cfg.TextureSize})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading scene: %v\n", err)
			os.Exit(1)
		}
		source = cfg.Scene
	}

	fmt.Printf("Software rasterizer → WebP\n")
	fmt.Printf("Scene: %s (%d meshes)\n", source, len(meshes))
	fmt.Printf("Frames: %d at %dx%d, Workers: %d\n", cfg.Frames, cfg.Width*cfg.Scale, cfg.Height*cfg.Scale, cfg.Workers)
	fmt.Printf("Output: %s\n", cfg.OutputDir)
	fmt.Println("------------------------------------------------------------")

	start := time.Now()

	// Encode in the background while frames render
	frameChan := make(chan batch.Frame, cfg.Workers*2)
	resultChan := make(chan []batch.Result, 1)
	go func() {
		resultChan <- batch.Run(batch.Config{
			OutputDir: cfg.OutputDir,
			Scale:     cfg.Scale,
			Workers:   cfg.Workers,
			Progress:  2 * time.Second,
		}, frameChan)
	}()

	device := engine.NewDevice(cfg.Width, cfg.Height, cfg.EngineOptions()...)
	camera := cfg.Camera()
	spin := cfg.SpinRate()
	background := cfg.BackgroundColor()

	var total engine.Stats
	for n := 0; n < cfg.Frames; n++ {
		rot := spin.At(n)
		for _, m := range meshes {
			m.Rotation = rot
		}

		device.Clear(background)
		st := device.Render(camera, meshes...)
		total.Drawn += st.Drawn
		total.Culled += st.Culled
		total.Skipped += st.Skipped

		frameChan <- batch.Frame{Index: n, Rotation: rot, Image: device.Image()}
	}
	close(frameChan)
	results := <-resultChan

	elapsed := time.Since(start)
	fmt.Println("------------------------------------------------------------")
	fmt.Printf("Done in %.1fs (%.1f frames/sec)\n", elapsed.Seconds(), float64(cfg.Frames)/elapsed.Seconds())
	fmt.Printf("Faces: %d drawn, %d culled, %d skipped\n", total.Drawn, total.Culled, total.Skipped)

	// Count results
	success, failed := 0, 0
	var errors []batch.Result
	for _, r := range results {
		if r.Success {
			success++
		} else {
			failed++
			errors = append(errors, r)
		}
	}

	fmt.Printf("Written: %d/%d\n", success, cfg.Frames)

	if len(errors) > 0 {
		fmt.Printf("\nFailed (%d):\n", failed)
		for _, e := range errors[:min(len(errors), 20)] {
			fmt.Printf("  %s: %s\n", e.File, e.Error)
		}
	}

	// Write manifest
	if manifestPath, err := writeManifest(cfg.OutputDir, results); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: manifest write failed: %v\n", err)
	} else {
		fmt.Printf("Manifest: %s\n", manifestPath)
	}

	if failed > 0 {
		os.Exit(1)
	}
}

// writeManifest writes manifest.json into dir, creating dir when no frame did.
func writeManifest(dir string, results []batch.Result) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}
	path := filepath.Join(dir, "manifest.json")
	return path, batch.WriteManifest(path, results)
}
