package engine

import "softengine/internal/mathutil"

// Spin is a constant angular step per frame, in radians (X pitch, Y yaw, Z roll).
type Spin struct {
	Step mathutil.Vec3
}

// DefaultSpin turns a mesh a little about every axis each frame.
var DefaultSpin = Spin{Step: mathutil.Vec3{0.01, 0.01, 0.01}}

// At returns the rotation reached after n frames.
func (s Spin) At(n int) mathutil.Vec3 {
	return s.Step.Scale(float64(n))
}
