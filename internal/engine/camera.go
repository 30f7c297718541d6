package engine

import "softengine/internal/mathutil"

// Up is the fixed camera up direction. Cameras do not roll.
var Up = mathutil.Vec3{0, 1, 0}

// Projection parameters shared by every Device.
const (
	FieldOfView = 0.78
	ZNear       = 0.01
	ZFar        = 1.0
)

// Camera looks from Position toward Target.
type Camera struct {
	Position mathutil.Vec3
	Target   mathutil.Vec3
}

// View returns the right-handed view matrix of the camera.
func (c Camera) View() mathutil.Mat4 {
	return mathutil.LookAtRH(c.Position, c.Target, Up)
}

// Projection returns the perspective matrix for a width×height target.
func Projection(width, height int) mathutil.Mat4 {
	aspect := 1.0
	if height > 0 {
		aspect = float64(width) / float64(height)
	}
	return mathutil.PerspectiveFovRH(FieldOfView, aspect, ZNear, ZFar)
}
