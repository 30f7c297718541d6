package engine

import (
	"softengine/internal/mathutil"
	"softengine/internal/mesh"
)

// WorldMatrix poses a mesh: rotation (yaw about Y, pitch about X, roll about
// Z) followed by translation to its position.
func WorldMatrix(m *mesh.Mesh) mathutil.Mat4 {
	rot := mathutil.YawPitchRoll(m.Rotation[1], m.Rotation[0], m.Rotation[2])
	return mathutil.FromMat3Translation(rot, m.Position)
}

// Project maps an object-space vertex to screen space.
//
// Coordinates become pixel x, pixel y (growing down the image) and the
// projected depth. Normal and WorldCoordinates are carried through the world
// matrix for lighting; the normal is transformed as a point, translation
// included. Texture coordinates pass through.
func Project(v mesh.Vertex, full, world mathutil.Mat4, width, height int) mesh.Vertex {
	p := full.TransformCoordinate(v.Coordinates)
	w, h := float64(width), float64(height)

	return mesh.Vertex{
		Coordinates:        mathutil.Vec3{p[0]*w + w/2, -p[1]*h + h/2, p[2]},
		Normal:             world.MulPoint(v.Normal),
		WorldCoordinates:   world.MulPoint(v.Coordinates),
		TextureCoordinates: v.TextureCoordinates,
	}
}
