package main

import (
	"fmt"
	"image"

	"github.com/hajimehoshi/ebiten/v2"
	"golang.org/x/image/draw"

	"softengine/internal/engine"
	"softengine/internal/mathutil"
	"softengine/internal/mesh"
)

const windowTitle = "softengine"

// game adapts a Device to ebiten's loop: Update advances the animation,
// Draw renders a frame and uploads it.
type game struct {
	device     *engine.Device
	camera     engine.Camera
	spin       engine.Spin
	background mathutil.Color4
	meshes     []*mesh.Mesh
	reloads    chan []*mesh.Mesh

	frame  int
	fbImg  *ebiten.Image
	upload *image.RGBA
	stats  engine.Stats
}

func (g *game) Update() error {
	select {
	case m := <-g.reloads:
		g.meshes = m
	default:
	}

	g.frame++
	rot := g.spin.At(g.frame)
	for _, m := range g.meshes {
		m.Rotation = rot
	}

	if g.frame%60 == 0 {
		ebiten.SetWindowTitle(fmt.Sprintf("%s - %.0f fps, %d faces", windowTitle, ebiten.ActualFPS(), g.stats.Drawn))
	}
	return nil
}

func (g *game) Draw(screen *ebiten.Image) {
	w, h := g.device.Width(), g.device.Height()
	if g.fbImg == nil {
		g.fbImg = ebiten.NewImage(w, h)
		g.upload = image.NewRGBA(image.Rect(0, 0, w, h))
	}

	g.device.Clear(g.background)
	g.stats = g.device.Render(g.camera, g.meshes...)

	// ebiten wants premultiplied alpha
	src := &image.NRGBA{Pix: g.device.FrameBuffer().Color, Stride: 4 * w, Rect: g.upload.Rect}
	draw.Draw(g.upload, g.upload.Rect, src, image.Point{}, draw.Src)
	g.fbImg.WritePixels(g.upload.Pix)
	screen.DrawImage(g.fbImg, nil)
}

func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.device.Width(), g.device.Height()
}
