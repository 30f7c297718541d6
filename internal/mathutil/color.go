package mathutil

// Color4 is a linear RGBA color with channels nominally in [0, 1].
type Color4 struct {
	R, G, B, A float64
}

var (
	White = Color4{1, 1, 1, 1}
	Black = Color4{0, 0, 0, 1}
)

// Mul modulates two colors channel-wise.
func (c Color4) Mul(o Color4) Color4 {
	return Color4{c.R * o.R, c.G * o.G, c.B * o.B, c.A * o.A}
}

// Scale multiplies the color channels by s. Alpha is kept, so a dark
// surface stays opaque.
func (c Color4) Scale(s float64) Color4 {
	return Color4{c.R * s, c.G * s, c.B * s, c.A}
}

// ColorFromRGBA8 converts 8-bit channels to a Color4.
func ColorFromRGBA8(r, g, b, a uint8) Color4 {
	return Color4{float64(r) / 255, float64(g) / 255, float64(b) / 255, float64(a) / 255}
}
