// Package batch encodes rendered frames to WebP files with a worker pool.
package batch

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/HugoSmits86/nativewebp"

	"softengine/internal/mathutil"
	"softengine/internal/postprocess"
)

// Config holds the shared settings of a batch run.
type Config struct {
	OutputDir string
	Scale     int
	Workers   int
	// Progress is how often a progress line is printed. Zero disables it.
	Progress time.Duration
}

// Frame is one rendered image waiting to be written.
type Frame struct {
	Index    int
	Rotation mathutil.Vec3
	Image    *image.NRGBA
}

// Result holds the outcome of writing one frame.
type Result struct {
	Index    int
	Rotation mathutil.Vec3
	File     string // relative to OutputDir
	Success  bool
	Error    string
}

// FileName is the output name of frame i.
func FileName(i int) string {
	return fmt.Sprintf("frame_%04d.webp", i)
}

// Run encodes frames until the channel is closed and returns the results
// ordered by frame index.
func Run(cfg Config, frames <-chan Frame) []Result {
	workers := cfg.Workers
	if workers <= 0 {
		workers = 1
	}

	var (
		mu        sync.Mutex
		results   []Result
		processed atomic.Int64
	)
	start := time.Now()

	// Progress reporter
	done := make(chan struct{})
	if cfg.Progress > 0 {
		go func() {
			ticker := time.NewTicker(cfg.Progress)
			defer ticker.Stop()
			for {
				select {
				case <-done:
					return
				case <-ticker.C:
					p := processed.Load()
					if p > 0 {
						elapsed := time.Since(start).Seconds()
						rate := float64(p) / elapsed
						fmt.Printf("  [%d] %.1f frames/sec\n", p, rate)
					}
				}
			}
		}()
	}

	// Worker pool
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for f := range frames {
				r := processFrame(cfg, f)
				mu.Lock()
				results = append(results, r)
				mu.Unlock()
				processed.Add(1)
			}
		}()
	}

	wg.Wait()
	close(done)

	slices.SortFunc(results, func(a, b Result) int { return a.Index - b.Index })
	return results
}

func processFrame(cfg Config, f Frame) Result {
	res := Result{Index: f.Index, Rotation: f.Rotation, File: FileName(f.Index)}
	if f.Image == nil {
		res.Error = "empty frame"
		return res
	}

	img := postprocess.Upscale(f.Image, cfg.Scale)

	outPath := filepath.Join(cfg.OutputDir, res.File)
	if err := os.MkdirAll(cfg.OutputDir, 0755); err != nil {
		res.Error = err.Error()
		return res
	}

	out, err := os.Create(outPath)
	if err != nil {
		res.Error = err.Error()
		return res
	}
	defer out.Close()

	if err := nativewebp.Encode(out, img, nil); err != nil {
		res.Error = fmt.Sprintf("WebP encode: %v", err)
		return res
	}

	res.Success = true
	return res
}
