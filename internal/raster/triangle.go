package raster

import (
	"math"

	"softengine/internal/mathutil"
	"softengine/internal/mesh"
	"softengine/internal/texture"
)

// Rasterizer fills projected triangles into a shared FrameBuffer.
// It holds no per-triangle state, so one Rasterizer may draw from many
// goroutines at once.
type Rasterizer struct {
	fb    *FrameBuffer
	Light mathutil.Vec3
}

// NewRasterizer returns a rasterizer writing to fb, lit by DefaultLight.
func NewRasterizer(fb *FrameBuffer) *Rasterizer {
	return &Rasterizer{fb: fb, Light: DefaultLight}
}

// FrameBuffer returns the target buffer.
func (r *Rasterizer) FrameBuffer() *FrameBuffer {
	return r.fb
}

// scanLineData carries the interpolation endpoints of one scanline: a and b
// are the ends of the left edge, c and d the ends of the right edge.
type scanLineData struct {
	currentY int

	ndotla, ndotlb, ndotlc, ndotld float64
	ua, ub, uc, ud                 float64
	va, vb, vc, vd                 float64
}

// shaded is a projected vertex with its Gouraud intensity.
type shaded struct {
	mesh.Vertex
	ndotl float64
}

func (d *scanLineData) load(a, b, c, e shaded) {
	d.ndotla, d.ndotlb, d.ndotlc, d.ndotld = a.ndotl, b.ndotl, c.ndotl, e.ndotl
	d.ua, d.ub, d.uc, d.ud = a.TextureCoordinates[0], b.TextureCoordinates[0], c.TextureCoordinates[0], e.TextureCoordinates[0]
	d.va, d.vb, d.vc, d.vd = a.TextureCoordinates[1], b.TextureCoordinates[1], c.TextureCoordinates[1], e.TextureCoordinates[1]
}

// spanEnd is one interpolated end of a scanline.
type spanEnd struct {
	x, z, ndotl, u, v float64
}

// span interpolates the left edge pa→pb and the right edge pc→pd at currentY.
func (d *scanLineData) span(pa, pb, pc, pd mathutil.Vec3) (left, right spanEnd) {
	y := float64(d.currentY)
	g1 := edgeGradient(y, pa[1], pb[1])
	g2 := edgeGradient(y, pc[1], pd[1])

	left = spanEnd{
		x:     interpolate(pa[0], pb[0], g1),
		z:     interpolate(pa[2], pb[2], g1),
		ndotl: interpolate(d.ndotla, d.ndotlb, g1),
		u:     interpolate(d.ua, d.ub, g1),
		v:     interpolate(d.va, d.vb, g1),
	}
	right = spanEnd{
		x:     interpolate(pc[0], pd[0], g2),
		z:     interpolate(pc[2], pd[2], g2),
		ndotl: interpolate(d.ndotlc, d.ndotld, g2),
		u:     interpolate(d.uc, d.ud, g2),
		v:     interpolate(d.vc, d.vd, g2),
	}
	return left, right
}

// edgeGradient is the vertical position of y between ay and by.
// A flat edge yields 1: use the second point.
func edgeGradient(y, ay, by float64) float64 {
	if ay == by {
		return 1
	}
	return (y - ay) / (by - ay)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func interpolate(lo, hi, gradient float64) float64 {
	return lo + (hi-lo)*clamp01(gradient)
}

// processScanLine fills the pixels of row data.currentY between the left
// edge a→b and the right edge c→d. The end pixel is exclusive.
func (r *Rasterizer) processScanLine(data *scanLineData, a, b, c, d shaded, color mathutil.Color4, tex *texture.Texture) {
	data.load(a, b, c, d)
	left, right := data.span(a.Coordinates, b.Coordinates, c.Coordinates, d.Coordinates)

	// Truncate and clip in float64: a far off-screen end must not overflow int
	sx := math.Trunc(left.x)
	ex := math.Trunc(right.x)
	if !(ex > sx) {
		return
	}
	width := ex - sx

	// Columns off the buffer would be dropped by Put anyway
	xs := int(math.Max(sx, 0))
	xe := int(math.Min(ex, float64(r.fb.Width)))

	for x := xs; x < xe; x++ {
		gradient := (float64(x) - sx) / width

		z := interpolate(left.z, right.z, gradient)
		ndotl := interpolate(left.ndotl, right.ndotl, gradient)

		texel := mathutil.White
		if tex != nil {
			u := interpolate(left.u, right.u, gradient)
			v := interpolate(left.v, right.v, gradient)
			texel = tex.Map(u, v)
		}

		r.fb.Put(x, data.currentY, z, color.Scale(ndotl).Mul(texel))
	}
}

// DrawTriangle scan-converts a projected triangle. Lighting is computed once
// per vertex and interpolated (Gouraud); texture coordinates are interpolated
// linearly in screen space. tex may be nil, which samples as opaque white.
func (r *Rasterizer) DrawTriangle(v1, v2, v3 mesh.Vertex, color mathutil.Color4, tex *texture.Texture) {
	// Sort by screen y: v1 on top
	if v1.Coordinates[1] > v2.Coordinates[1] {
		v1, v2 = v2, v1
	}
	if v2.Coordinates[1] > v3.Coordinates[1] {
		v2, v3 = v3, v2
	}
	if v1.Coordinates[1] > v2.Coordinates[1] {
		v1, v2 = v2, v1
	}

	s1 := shaded{v1, ComputeNDotL(v1.WorldCoordinates, v1.Normal, r.Light)}
	s2 := shaded{v2, ComputeNDotL(v2.WorldCoordinates, v2.Normal, r.Light)}
	s3 := shaded{v3, ComputeNDotL(v3.WorldCoordinates, v3.Normal, r.Light)}

	p1, p2, p3 := v1.Coordinates, v2.Coordinates, v3.Coordinates

	// Inverse slopes; a flat edge counts as 0
	var dP1P2, dP1P3 float64
	if p2[1]-p1[1] > 0 {
		dP1P2 = (p2[0] - p1[0]) / (p2[1] - p1[1])
	}
	if p3[1]-p1[1] > 0 {
		dP1P3 = (p3[0] - p1[0]) / (p3[1] - p1[1])
	}

	// v2 right of the long edge v1→v3?
	v2Right := dP1P2 > dP1P3
	if p2[1] == p1[1] {
		v2Right = p2[0] > p1[0]
	}

	// Rows off the buffer would be dropped by Put anyway
	if math.IsNaN(p1[1]) || math.IsNaN(p3[1]) {
		return
	}
	yStart := int(math.Max(p1[1], 0))
	yEnd := int(math.Min(p3[1], float64(r.fb.Height-1)))

	var data scanLineData
	for y := yStart; y <= yEnd; y++ {
		data.currentY = y
		upper := float64(y) < p2[1]

		switch {
		case v2Right && upper:
			r.processScanLine(&data, s1, s3, s1, s2, color, tex)
		case v2Right:
			r.processScanLine(&data, s1, s3, s2, s3, color, tex)
		case upper:
			r.processScanLine(&data, s1, s2, s1, s3, color, tex)
		default:
			r.processScanLine(&data, s2, s3, s1, s3, color, tex)
		}
	}
}
