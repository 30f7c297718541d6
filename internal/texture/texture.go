package texture

import "softengine/internal/mathutil"

// Texture is an immutable RGBA pixel grid, row-major, 4 bytes per texel.
// It is shared read-only by every rasterization task of a frame.
type Texture struct {
	width  int
	height int
	pix    []uint8
}

// New wraps an RGBA buffer. pix may be nil: such a texture samples white.
func New(width, height int, pix []uint8) *Texture {
	return &Texture{width: width, height: height, pix: pix}
}

func (t *Texture) Width() int  { return t.width }
func (t *Texture) Height() int { return t.height }

// HasData reports whether the texture has backing pixels.
func (t *Texture) HasData() bool { return t.pix != nil }

// Map samples the texel at (u, v) with wrap-around. Coordinates are scaled
// by the texture size, truncated toward zero, reduced modulo the size and
// made non-negative. Missing data samples white; an offset past the buffer
// samples black.
func (t *Texture) Map(u, v float64) mathutil.Color4 {
	if t.pix == nil || t.width <= 0 || t.height <= 0 {
		return mathutil.White
	}

	x := abs(int(u*float64(t.width)) % t.width)
	y := abs(int(v*float64(t.height)) % t.height)

	pos := (x + y*t.width) * 4
	if pos+3 >= len(t.pix) {
		return mathutil.Black
	}

	return mathutil.ColorFromRGBA8(t.pix[pos], t.pix[pos+1], t.pix[pos+2], t.pix[pos+3])
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
