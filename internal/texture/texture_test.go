package texture

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"softengine/internal/logging"
	"softengine/internal/mathutil"
)

// checker builds a 4×4 texture whose texel (x, y) has R = x*10, G = y*10.
func checker() *Texture {
	pix := make([]uint8, 4*4*4)
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			i := (x + y*4) * 4
			pix[i] = uint8(x * 10)
			pix[i+1] = uint8(y * 10)
			pix[i+2] = 200
			pix[i+3] = 255
		}
	}
	return New(4, 4, pix)
}

func TestMapChannelOrder(t *testing.T) {
	got := checker().Map(0.25, 0.5) // texel (1, 2)
	assert.Equal(t, mathutil.ColorFromRGBA8(10, 20, 200, 255), got)
}

func TestMapWrapIdempotence(t *testing.T) {
	tex := checker()
	coords := []mathutil.Vec2{{0, 0}, {0.375, 0.625}, {0.875, 0.125}, {0.5, 0.75}}
	offsets := [][2]float64{{1, 0}, {0, 1}, {2, 3}, {5, 7}}

	for _, c := range coords {
		want := tex.Map(c[0], c[1])
		for _, o := range offsets {
			got := tex.Map(c[0]+o[0], c[1]+o[1])
			assert.Equal(t, want, got, "uv=%v offset=%v", c, o)
		}
	}
}

func TestMapNegativeCoordinates(t *testing.T) {
	// truncation toward zero then absolute value: -0.25*4 = -1 → texel 1
	tex := checker()
	assert.Equal(t, tex.Map(0.25, 0), tex.Map(-0.25, 0))
}

func TestMapWithoutData(t *testing.T) {
	assert.Equal(t, mathutil.White, New(8, 8, nil).Map(0.3, 0.7))
	assert.False(t, New(8, 8, nil).HasData())
}

func TestMapShortBuffer(t *testing.T) {
	// declared 4×4 but only one row of data
	tex := New(4, 4, make([]uint8, 16))
	assert.Equal(t, mathutil.Black, tex.Map(0, 0.5))
}

func writePNG(t *testing.T, path string, w, h int, c color.NRGBA) {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
}

func TestLoadResizes(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "red.png")
	writePNG(t, path, 16, 8, color.NRGBA{R: 255, A: 255})

	tex, err := Load(path, 4, 4)
	require.NoError(t, err)
	assert.Equal(t, 4, tex.Width())
	assert.Equal(t, 4, tex.Height())
	assert.True(t, tex.HasData())

	same, err := Load(path, 16, 8)
	require.NoError(t, err)
	assert.Equal(t, mathutil.Color4{R: 1, G: 0, B: 0, A: 1}, same.Map(0.5, 0.5))
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()
	_, err := Load(filepath.Join(dir, "missing.png"), 4, 4)
	assert.ErrorContains(t, err, "texture: read")

	bad := filepath.Join(dir, "bad.png")
	require.NoError(t, os.WriteFile(bad, []byte("not an image"), 0o644))
	_, err = Load(bad, 4, 4)
	assert.ErrorContains(t, err, "texture: decode")

	_, err = Load(bad, 0, 4)
	assert.ErrorContains(t, err, "invalid size")
}

func TestIndexAndCache(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "textures")
	require.NoError(t, os.MkdirAll(sub, 0o755))
	writePNG(t, filepath.Join(sub, "Crate.png"), 2, 2, color.NRGBA{G: 255, A: 255})
	require.NoError(t, os.WriteFile(filepath.Join(sub, "broken.png"), []byte("junk"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(sub, "notes.txt"), []byte("x"), 0o644))

	idx := BuildIndex(dir)
	assert.Equal(t, 2, idx.Len())

	path, ok := idx.ResolvePath(`assets\crate.jpg`)
	require.True(t, ok)
	assert.Equal(t, filepath.Join(sub, "Crate.png"), path)

	cache := NewCache(idx, 2, 2)
	crate := cache.Resolve("crate.png")
	require.NotNil(t, crate)
	assert.True(t, crate.HasData())
	assert.Same(t, crate, cache.Resolve("CRATE"))

	broken := cache.Resolve("broken.png")
	require.NotNil(t, broken)
	assert.False(t, broken.HasData())
	assert.Equal(t, mathutil.White, broken.Map(0, 0))

	assert.Nil(t, cache.Resolve("absent.png"))
	assert.Equal(t, 2, cache.Len())
}

func TestBuildIndexMissingDirWarns(t *testing.T) {
	orig := logging.Logger()
	t.Cleanup(func() { logging.SetLogger(orig) })
	var buf bytes.Buffer
	logging.SetLogger(slog.New(slog.NewTextHandler(&buf, nil)))

	missing := filepath.Join(t.TempDir(), "nope")
	idx := BuildIndex(missing)

	assert.Equal(t, 0, idx.Len())
	assert.Contains(t, buf.String(), "level=WARN")
	assert.Contains(t, buf.String(), "texture index")
	assert.Contains(t, buf.String(), "nope")
}
