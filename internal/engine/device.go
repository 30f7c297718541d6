// Package engine drives a frame: it poses meshes, culls back faces, projects
// vertices and fans the triangles out to the rasterizer.
package engine

import (
	"image"
	"sync/atomic"
	"time"

	"softengine/internal/logging"
	"softengine/internal/mathutil"
	"softengine/internal/mesh"
	"softengine/internal/parallel"
	"softengine/internal/raster"
)

// Stats counts what happened to the faces of one Render call.
type Stats struct {
	Meshes  int
	Drawn   int
	Culled  int
	Skipped int // faces with out-of-range vertex indices
}

// Option configures a Device.
type Option func(*Device)

// WithWorkers sets the number of goroutines rasterizing faces.
// Zero or less means GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(d *Device) { d.workers = n }
}

// WithCulling enables or disables back-face culling. On by default.
func WithCulling(on bool) Option {
	return func(d *Device) { d.culling = on }
}

// WithLight moves the point light.
func WithLight(pos mathutil.Vec3) Option {
	return func(d *Device) { d.rast.Light = pos }
}

// Device owns the frame buffer of one render target.
//
// The buffer holds non-premultiplied RGBA.
//
// The host drives it once per frame: Clear, set mesh rotations, Render, then
// read the buffer back. Skipping Clear accumulates over the previous frame.
// A Device is not safe for concurrent Render calls.
type Device struct {
	fb      *raster.FrameBuffer
	rast    *raster.Rasterizer
	workers int
	culling bool
	color   mathutil.Color4
}

// NewDevice allocates a width×height target.
func NewDevice(width, height int, opts ...Option) *Device {
	fb := raster.NewFrameBuffer(width, height)
	d := &Device{
		fb:      fb,
		rast:    raster.NewRasterizer(fb),
		culling: true,
		color:   mathutil.White,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func (d *Device) Width() int  { return d.fb.Width }
func (d *Device) Height() int { return d.fb.Height }

// FrameBuffer exposes the raw target. Do not read it during Render.
func (d *Device) FrameBuffer() *raster.FrameBuffer {
	return d.fb
}

// Clear fills the color buffer with c and resets depth.
func (d *Device) Clear(c mathutil.Color4) {
	d.fb.Clear(c)
}

// Render rasterizes every mesh as seen from cam. Faces of a mesh are drawn
// in parallel; the depth test makes the result independent of their order.
func (d *Device) Render(cam Camera, meshes ...*mesh.Mesh) Stats {
	start := time.Now()
	w, h := d.fb.Width, d.fb.Height
	view := cam.View()
	proj := Projection(w, h)

	var drawn, culled, skipped atomic.Int64
	stats := Stats{}

	for _, m := range meshes {
		if m == nil {
			continue
		}
		stats.Meshes++

		world := WorldMatrix(m)
		worldView := mathutil.Mat4Mul(view, world)
		full := mathutil.Mat4Mul(proj, worldView)

		parallel.For(len(m.Faces), d.workers, func(i int) {
			f := m.Faces[i]
			a, okA := m.Vertex(f.A)
			b, okB := m.Vertex(f.B)
			c, okC := m.Vertex(f.C)
			if !okA || !okB || !okC {
				skipped.Add(1)
				return
			}

			// The view looks down -Z: a face toward the camera has n.z > 0
			if d.culling && worldView.TransformNormal(f.Normal)[2] <= 0 {
				culled.Add(1)
				return
			}

			pa := Project(a, full, world, w, h)
			pb := Project(b, full, world, w, h)
			pc := Project(c, full, world, w, h)
			d.rast.DrawTriangle(pa, pb, pc, d.color, m.Texture)
			drawn.Add(1)
		})
	}

	stats.Drawn = int(drawn.Load())
	stats.Culled = int(culled.Load())
	stats.Skipped = int(skipped.Load())

	logging.Logger().Debug("frame rendered",
		"meshes", stats.Meshes,
		"drawn", stats.Drawn,
		"culled", stats.Culled,
		"skipped", stats.Skipped,
		"elapsed", time.Since(start))
	return stats
}

// Image copies the frame buffer into a new image.
func (d *Device) Image() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, d.fb.Width, d.fb.Height))
	copy(img.Pix, d.fb.Color)
	return img
}
