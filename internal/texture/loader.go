package texture

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"

	_ "github.com/ftrvxmtrx/tga"
	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
)

// Load decodes an image file and returns it as a width×height texture.
// Images of a different size are rescaled.
func Load(path string, width, height int) (*Texture, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("texture: invalid size %dx%d for %s", width, height, path)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("texture: read %s: %w", path, err)
	}

	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("texture: decode %s: %w", path, err)
	}

	return FromImage(img, width, height), nil
}

// FromImage converts any image to a width×height RGBA texture.
func FromImage(src image.Image, width, height int) *Texture {
	dst := image.NewNRGBA(image.Rect(0, 0, width, height))
	b := src.Bounds()
	if b.Dx() == width && b.Dy() == height {
		draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)
	} else {
		draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Src, nil)
	}
	return New(width, height, dst.Pix)
}
