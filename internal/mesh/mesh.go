// Package mesh holds the geometry consumed by the rasterizer.
package mesh

import (
	"fmt"

	"softengine/internal/mathutil"
	"softengine/internal/parallel"
	"softengine/internal/texture"
)

// Vertex carries object-space attributes before projection and screen-space
// coordinates (x, y in pixels, z = projected depth) after it.
type Vertex struct {
	Coordinates        mathutil.Vec3
	Normal             mathutil.Vec3
	WorldCoordinates   mathutil.Vec3
	TextureCoordinates mathutil.Vec2
}

// Face indexes three vertices of its mesh. Normal is derived from the vertex
// normals by ComputeFacesNormal.
type Face struct {
	A, B, C int
	Normal  mathutil.Vec3
}

// Mesh is a fixed-size triangle mesh with a pose and an optional texture.
// Rotation holds Euler angles: X = pitch, Y = yaw, Z = roll.
type Mesh struct {
	Name     string
	Vertices []Vertex
	Faces    []Face
	Position mathutil.Vec3
	Rotation mathutil.Vec3
	Texture  *texture.Texture
}

// Geometry is the validated, index-aligned input a loader hands to New.
// UVs may be nil.
type Geometry struct {
	Positions []mathutil.Vec3
	Normals   []mathutil.Vec3
	UVs       []mathutil.Vec2
	Indices   [][3]int
}

// New builds a mesh and derives its face normals.
func New(name string, g Geometry) (*Mesh, error) {
	nv := len(g.Positions)
	if len(g.Normals) != nv {
		return nil, fmt.Errorf("mesh: %s: %d normals for %d vertices", name, len(g.Normals), nv)
	}
	if g.UVs != nil && len(g.UVs) != nv {
		return nil, fmt.Errorf("mesh: %s: %d uvs for %d vertices", name, len(g.UVs), nv)
	}

	m := &Mesh{
		Name:     name,
		Vertices: make([]Vertex, nv),
		Faces:    make([]Face, len(g.Indices)),
	}
	for i := range m.Vertices {
		m.Vertices[i].Coordinates = g.Positions[i]
		m.Vertices[i].Normal = g.Normals[i]
		if g.UVs != nil {
			m.Vertices[i].TextureCoordinates = g.UVs[i]
		}
	}
	for i, tri := range g.Indices {
		for _, vi := range tri {
			if vi < 0 || vi >= nv {
				return nil, fmt.Errorf("mesh: %s: face %d index %d out of range [0,%d)", name, i, vi, nv)
			}
		}
		m.Faces[i] = Face{A: tri[0], B: tri[1], C: tri[2]}
	}

	m.ComputeFacesNormal()
	return m, nil
}

// SetNormals replaces the vertex normals and re-derives the face normals.
func (m *Mesh) SetNormals(normals []mathutil.Vec3) error {
	if len(normals) != len(m.Vertices) {
		return fmt.Errorf("mesh: %s: %d normals for %d vertices", m.Name, len(normals), len(m.Vertices))
	}
	for i := range m.Vertices {
		m.Vertices[i].Normal = normals[i]
	}
	m.ComputeFacesNormal()
	return nil
}

// ComputeFacesNormal sets every face normal to the normalized average of its
// vertex normals. Faces with out-of-range indices get a zero normal.
func (m *Mesh) ComputeFacesNormal() {
	parallel.For(len(m.Faces), 0, func(i int) {
		f := &m.Faces[i]
		a, okA := m.Vertex(f.A)
		b, okB := m.Vertex(f.B)
		c, okC := m.Vertex(f.C)
		if !okA || !okB || !okC {
			f.Normal = mathutil.Vec3{}
			return
		}
		f.Normal = a.Normal.Add(b.Normal).Add(c.Normal).Normalize()
	})
}

// Vertex returns vertex i with a bounds check.
func (m *Mesh) Vertex(i int) (Vertex, bool) {
	if i < 0 || i >= len(m.Vertices) {
		return Vertex{}, false
	}
	return m.Vertices[i], true
}
