// Package scene loads meshes from Babylon-style JSON scene files.
package scene

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"golang.org/x/sync/errgroup"

	"softengine/internal/logging"
	"softengine/internal/mathutil"
	"softengine/internal/mesh"
	"softengine/internal/texture"
)

// File is the decoded scene document.
type File struct {
	Meshes    []MeshData     `json:"meshes"`
	Materials []MaterialData `json:"materials"`
}

// MeshData is one mesh record. Vertices is a flat array whose stride
// depends on UVCount: position and normal, then zero, one or two uv sets.
type MeshData struct {
	Name       string    `json:"name"`
	Vertices   []float64 `json:"vertices"`
	Indices    []int     `json:"indices"`
	UVCount    int       `json:"uvCount"`
	Position   []float64 `json:"position"`
	MaterialID string    `json:"materialId"`
}

// MaterialData is one material record.
type MaterialData struct {
	ID             string      `json:"id"`
	Name           string      `json:"name"`
	DiffuseTexture *TextureRef `json:"diffuseTexture"`
}

// TextureRef names a texture file.
type TextureRef struct {
	Name string `json:"name"`
}

// Stride returns the number of floats per vertex for a uv count.
func Stride(uvCount int) (int, error) {
	switch uvCount {
	case 0:
		return 6, nil
	case 1:
		return 8, nil
	case 2:
		return 10, nil
	}
	return 0, fmt.Errorf("unsupported uvCount %d", uvCount)
}

// Parse decodes and validates a scene document.
func Parse(data []byte) (*File, error) {
	var f File
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("scene: decode: %w", err)
	}
	for i := range f.Meshes {
		if _, err := f.Meshes[i].Geometry(); err != nil {
			return nil, fmt.Errorf("scene: mesh %d: %w", i, err)
		}
	}
	return &f, nil
}

// Geometry unpacks the flat vertex array into index-aligned attributes.
func (md *MeshData) Geometry() (mesh.Geometry, error) {
	stride, err := Stride(md.UVCount)
	if err != nil {
		return mesh.Geometry{}, fmt.Errorf("%s: %w", md.Name, err)
	}
	if len(md.Vertices)%stride != 0 {
		return mesh.Geometry{}, fmt.Errorf("%s: %d vertex floats not a multiple of stride %d", md.Name, len(md.Vertices), stride)
	}
	if len(md.Indices)%3 != 0 {
		return mesh.Geometry{}, fmt.Errorf("%s: %d indices not a multiple of 3", md.Name, len(md.Indices))
	}
	if len(md.Position) != 0 && len(md.Position) != 3 {
		return mesh.Geometry{}, fmt.Errorf("%s: position has %d components", md.Name, len(md.Position))
	}

	n := len(md.Vertices) / stride
	g := mesh.Geometry{
		Positions: make([]mathutil.Vec3, n),
		Normals:   make([]mathutil.Vec3, n),
		Indices:   make([][3]int, len(md.Indices)/3),
	}
	if md.UVCount > 0 {
		g.UVs = make([]mathutil.Vec2, n)
	}
	for i := 0; i < n; i++ {
		v := md.Vertices[i*stride:]
		g.Positions[i] = mathutil.Vec3{v[0], v[1], v[2]}
		g.Normals[i] = mathutil.Vec3{v[3], v[4], v[5]}
		// Only the first uv set is used
		if g.UVs != nil {
			g.UVs[i] = mathutil.Vec2{v[6], v[7]}
		}
	}
	for i := range g.Indices {
		tri := [3]int{md.Indices[i*3], md.Indices[i*3+1], md.Indices[i*3+2]}
		for _, vi := range tri {
			if vi < 0 || vi >= n {
				return mesh.Geometry{}, fmt.Errorf("%s: index %d out of range [0,%d)", md.Name, vi, n)
			}
		}
		g.Indices[i] = tri
	}
	return g, nil
}

// Material returns the material with the given id.
func (f *File) Material(id string) (MaterialData, bool) {
	for _, m := range f.Materials {
		if m.ID == id {
			return m, true
		}
	}
	return MaterialData{}, false
}

// Build constructs the meshes. Textures are looked up through res for meshes
// that carry uvs and whose material names a diffuse texture; res may be nil.
// Meshes are built concurrently and returned in document order.
func (f *File) Build(res texture.Resolver) ([]*mesh.Mesh, error) {
	meshes := make([]*mesh.Mesh, len(f.Meshes))

	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))

	for i := range f.Meshes {
		md := &f.Meshes[i]
		g.Go(func() error {
			geom, err := md.Geometry()
			if err != nil {
				return fmt.Errorf("scene: mesh %d: %w", i, err)
			}
			m, err := mesh.New(md.Name, geom)
			if err != nil {
				return fmt.Errorf("scene: %w", err)
			}
			if len(md.Position) == 3 {
				m.Position = mathutil.Vec3{md.Position[0], md.Position[1], md.Position[2]}
			}

			if res != nil && md.UVCount > 0 {
				if mat, ok := f.Material(md.MaterialID); ok && mat.DiffuseTexture != nil {
					m.Texture = res.Resolve(mat.DiffuseTexture.Name)
					if m.Texture == nil {
						logging.Logger().Warn("texture not found", "mesh", md.Name, "texture", mat.DiffuseTexture.Name)
					}
				}
			}

			meshes[i] = m
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return meshes, nil
}

// Options controls Load.
type Options struct {
	// TextureSize is the edge length every texture is resampled to.
	TextureSize int
}

// Load reads a scene file and builds its meshes. Textures are searched for
// in the scene file's directory tree.
func Load(path string, opts Options) ([]*mesh.Mesh, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("scene: read %s: %w", path, err)
	}
	f, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("scene: parse %s: %w", path, err)
	}

	var res texture.Resolver
	if opts.TextureSize > 0 {
		idx := texture.BuildIndex(filepath.Dir(path))
		res = texture.NewCache(idx, opts.TextureSize, opts.TextureSize)
	}

	meshes, err := f.Build(res)
	if err != nil {
		return nil, err
	}
	logging.Logger().Info("scene loaded", "path", path, "meshes", len(meshes))
	return meshes, nil
}
