package raster

import (
	"math"
	"sync"

	"softengine/internal/mathutil"
)

// TileSize is the edge length, in pixels, of the square regions that share
// one lock in a FrameBuffer.
const TileSize = 8

// FrameBuffer holds the rendering target as flat slices for cache locality.
//
// Put may be called from many goroutines at once. Each 8×8 tile has its own
// mutex guarding the depth compare and the color write, so writers to
// different tiles never contend. Clear and reads of Color/ZBuf must not run
// concurrently with Put.
type FrameBuffer struct {
	Width  int
	Height int
	Color  []uint8   // RGBA interleaved, len = W*H*4
	ZBuf   []float64 // depth per pixel, len = W*H, cleared to +Inf

	tilesX int
	locks  []sync.Mutex
}

// NewFrameBuffer allocates a transparent black color buffer and a +Inf z-buffer.
func NewFrameBuffer(w, h int) *FrameBuffer {
	n := w * h
	tilesX := (w + TileSize - 1) / TileSize
	tilesY := (h + TileSize - 1) / TileSize
	fb := &FrameBuffer{
		Width:  w,
		Height: h,
		Color:  make([]uint8, n*4),
		ZBuf:   make([]float64, n),
		tilesX: tilesX,
		locks:  make([]sync.Mutex, tilesX*tilesY),
	}
	fb.Clear(mathutil.Color4{})
	return fb
}

// Stride returns the row length in bytes.
func (fb *FrameBuffer) Stride() int {
	return fb.Width * 4
}

// Clear fills the color buffer with c and resets every depth to +Inf.
func (fb *FrameBuffer) Clear(c mathutil.Color4) {
	r, g, b, a := toRGBA8(c)
	for i := 0; i < len(fb.Color); i += 4 {
		fb.Color[i] = r
		fb.Color[i+1] = g
		fb.Color[i+2] = b
		fb.Color[i+3] = a
	}
	inf := math.Inf(1)
	for i := range fb.ZBuf {
		fb.ZBuf[i] = inf
	}
}

// Put writes color c at (x, y) if z is strictly closer than the stored depth.
// Pixels outside the buffer are dropped. Equal depth keeps the existing pixel.
func (fb *FrameBuffer) Put(x, y int, z float64, c mathutil.Color4) {
	if x < 0 || y < 0 || x >= fb.Width || y >= fb.Height {
		return
	}
	idx := x + y*fb.Width
	r, g, b, a := toRGBA8(c)

	mu := &fb.locks[(x/TileSize)+(y/TileSize)*fb.tilesX]
	mu.Lock()
	if z < fb.ZBuf[idx] {
		fb.ZBuf[idx] = z
		pxIdx := idx * 4
		fb.Color[pxIdx] = r
		fb.Color[pxIdx+1] = g
		fb.Color[pxIdx+2] = b
		fb.Color[pxIdx+3] = a
	}
	mu.Unlock()
}

// Depth returns the stored depth at (x, y), +Inf outside the buffer.
func (fb *FrameBuffer) Depth(x, y int) float64 {
	if x < 0 || y < 0 || x >= fb.Width || y >= fb.Height {
		return math.Inf(1)
	}
	return fb.ZBuf[x+y*fb.Width]
}

// RGBA returns the stored color bytes at (x, y).
func (fb *FrameBuffer) RGBA(x, y int) [4]uint8 {
	if x < 0 || y < 0 || x >= fb.Width || y >= fb.Height {
		return [4]uint8{}
	}
	i := (x + y*fb.Width) * 4
	return [4]uint8{fb.Color[i], fb.Color[i+1], fb.Color[i+2], fb.Color[i+3]}
}

func toRGBA8(c mathutil.Color4) (r, g, b, a uint8) {
	return clamp255(c.R * 255), clamp255(c.G * 255), clamp255(c.B * 255), clamp255(c.A * 255)
}

func clamp255(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v + 0.5)
}
