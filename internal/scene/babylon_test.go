package scene

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"softengine/internal/mathutil"
	"softengine/internal/texture"
)

const quadScene = `{
  "materials": [
    {"id": "m0", "name": "wood", "diffuseTexture": {"name": "textures/Wood.jpg"}}
  ],
  "meshes": [
    {
      "name": "plain",
      "uvCount": 0,
      "position": [1, 2, 3],
      "vertices": [0,0,0, 0,0,1,  1,0,0, 0,0,1,  1,1,0, 0,0,1],
      "indices": [0, 1, 2]
    },
    {
      "name": "textured",
      "uvCount": 1,
      "materialId": "m0",
      "vertices": [0,0,0, 0,0,1, 0,0,  1,0,0, 0,0,1, 1,0,  1,1,0, 0,0,1, 1,1,  0,1,0, 0,0,1, 0,1],
      "indices": [0, 1, 2, 0, 2, 3]
    },
    {
      "name": "two sets",
      "uvCount": 2,
      "vertices": [0,0,0, 0,1,0, 0.5,0.25, 9,9,  1,0,0, 0,1,0, 1,0, 9,9,  0,0,1, 0,1,0, 0,1, 9,9],
      "indices": [2, 1, 0]
    }
  ]
}`

func TestParseAndBuild(t *testing.T) {
	f, err := Parse([]byte(quadScene))
	require.NoError(t, err)
	require.Len(t, f.Meshes, 3)

	meshes, err := f.Build(nil)
	require.NoError(t, err)
	require.Len(t, meshes, 3)

	plain := meshes[0]
	assert.Equal(t, "plain", plain.Name)
	assert.Equal(t, mathutil.Vec3{1, 2, 3}, plain.Position)
	assert.Len(t, plain.Vertices, 3)
	assert.Equal(t, mathutil.Vec3{0, 0, 1}, plain.Faces[0].Normal)
	assert.Nil(t, plain.Texture)

	textured := meshes[1]
	assert.Len(t, textured.Faces, 2)
	assert.Equal(t, mathutil.Vec2{1, 1}, textured.Vertices[2].TextureCoordinates)
	assert.Nil(t, textured.Texture, "no resolver")

	two := meshes[2]
	assert.Equal(t, mathutil.Vec2{0.5, 0.25}, two.Vertices[0].TextureCoordinates)
	assert.Equal(t, mathutil.Vec3{0, 1, 0}, two.Vertices[0].Normal)
	assert.Equal(t, 2, two.Faces[0].A)
}

func TestParseRejectsMalformed(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		msg  string
	}{
		{"syntax", `{"meshes": [`, "decode"},
		{"uv count", `{"meshes":[{"name":"a","uvCount":3,"vertices":[],"indices":[]}]}`, "uvCount 3"},
		{"stride", `{"meshes":[{"name":"a","vertices":[0,0,0,0,0],"indices":[]}]}`, "stride 6"},
		{"indices", `{"meshes":[{"name":"a","vertices":[0,0,0,0,0,1],"indices":[0,0]}]}`, "multiple of 3"},
		{"range", `{"meshes":[{"name":"a","vertices":[0,0,0,0,0,1],"indices":[0,0,1]}]}`, "out of range"},
		{"position", `{"meshes":[{"name":"a","vertices":[],"indices":[],"position":[1,2]}]}`, "position"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse([]byte(tc.doc))
			assert.ErrorContains(t, err, tc.msg)
		})
	}
}

func TestLoadResolvesTextures(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "textures"), 0755))

	img := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	for i := range 4 {
		img.Set(i%2, i/2, color.NRGBA{R: 200, G: 100, B: 50, A: 255})
	}
	out, err := os.Create(filepath.Join(dir, "textures", "wood.png"))
	require.NoError(t, err)
	require.NoError(t, png.Encode(out, img))
	require.NoError(t, out.Close())

	scenePath := filepath.Join(dir, "scene.babylon")
	require.NoError(t, os.WriteFile(scenePath, []byte(quadScene), 0644))

	meshes, err := Load(scenePath, Options{TextureSize: 2})
	require.NoError(t, err)
	require.Len(t, meshes, 3)

	tex := meshes[1].Texture
	require.NotNil(t, tex)
	assert.True(t, tex.HasData())
	assert.Equal(t, mathutil.ColorFromRGBA8(200, 100, 50, 255), tex.Map(0.5, 0.5))

	// Material texture only applies to meshes with uvs
	assert.Nil(t, meshes[0].Texture)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.babylon"), Options{})
	assert.ErrorContains(t, err, "scene: read")

	bad := filepath.Join(t.TempDir(), "bad.babylon")
	require.NoError(t, os.WriteFile(bad, []byte("not json"), 0644))
	_, err = Load(bad, Options{})
	assert.ErrorContains(t, err, "scene: parse")
}

type countingResolver struct{ calls chan string }

func (r countingResolver) Resolve(name string) *texture.Texture {
	r.calls <- name
	return nil
}

func TestBuildMissingTexture(t *testing.T) {
	f, err := Parse([]byte(quadScene))
	require.NoError(t, err)

	res := countingResolver{calls: make(chan string, 4)}
	meshes, err := f.Build(res)
	require.NoError(t, err)
	assert.Nil(t, meshes[1].Texture)
	assert.Equal(t, "textures/Wood.jpg", <-res.calls)
	assert.Len(t, res.calls, 0)
}

func TestCube(t *testing.T) {
	c := Cube()
	assert.Len(t, c.Vertices, 24)
	assert.Len(t, c.Faces, 12)

	for _, f := range c.Faces {
		a := c.Vertices[f.A].Coordinates
		// Every vertex of a side lies on the plane its normal points to
		assert.InDelta(t, 1, a.Dot(f.Normal), 1e-12)
		assert.InDelta(t, 1, f.Normal.Len(), 1e-12)
	}
}
