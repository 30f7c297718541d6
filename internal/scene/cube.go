package scene

import (
	"softengine/internal/mathutil"
	"softengine/internal/mesh"
)

// cubeFaces lists each side as its outward normal and two in-plane axes.
var cubeFaces = [6][3]mathutil.Vec3{
	{{0, 0, 1}, {1, 0, 0}, {0, 1, 0}},
	{{0, 0, -1}, {-1, 0, 0}, {0, 1, 0}},
	{{1, 0, 0}, {0, 0, -1}, {0, 1, 0}},
	{{-1, 0, 0}, {0, 0, 1}, {0, 1, 0}},
	{{0, 1, 0}, {1, 0, 0}, {0, 0, -1}},
	{{0, -1, 0}, {1, 0, 0}, {0, 0, 1}},
}

// Cube returns a cube spanning [-1, 1] on every axis. Each side has its own
// four vertices, so normals are flat per side and every side maps the full
// texture.
func Cube() *mesh.Mesh {
	corners := [4][2]float64{{-1, -1}, {1, -1}, {1, 1}, {-1, 1}}
	uvs := [4]mathutil.Vec2{{0, 1}, {1, 1}, {1, 0}, {0, 0}}

	var g mesh.Geometry
	for _, f := range cubeFaces {
		n, u, v := f[0], f[1], f[2]
		base := len(g.Positions)
		for k, c := range corners {
			g.Positions = append(g.Positions, n.Add(u.Scale(c[0])).Add(v.Scale(c[1])))
			g.Normals = append(g.Normals, n)
			g.UVs = append(g.UVs, uvs[k])
		}
		g.Indices = append(g.Indices, [3]int{base, base + 1, base + 2}, [3]int{base, base + 2, base + 3})
	}

	m, err := mesh.New("Cube", g)
	if err != nil {
		panic(err) // static geometry
	}
	return m
}
