package postprocess

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUpscale(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	img.SetNRGBA(0, 0, color.NRGBA{R: 255, A: 255})
	img.SetNRGBA(1, 0, color.NRGBA{B: 255, A: 128})

	out := Upscale(img, 3)
	assert.Equal(t, image.Rect(0, 0, 6, 3), out.Bounds())
	for y := 0; y < 3; y++ {
		for x := 0; x < 3; x++ {
			assert.Equal(t, color.NRGBA{R: 255, A: 255}, out.NRGBAAt(x, y))
			assert.Equal(t, color.NRGBA{B: 255, A: 128}, out.NRGBAAt(x+3, y))
		}
	}
}

func TestUpscaleIdentity(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	assert.Same(t, img, Upscale(img, 1))
	assert.Same(t, img, Upscale(img, 0))
}
