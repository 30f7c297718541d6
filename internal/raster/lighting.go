package raster

import (
	"math"

	"softengine/internal/mathutil"
)

// DefaultLight is the point light used when a Rasterizer is built without one.
// The shading term below is lit on the side facing away from the light point,
// so this position lights surfaces that face up and toward a camera on +Z.
var DefaultLight = mathutil.Vec3{0, -10, -10}

// ComputeNDotL returns the Lambert intensity of a vertex:
// max(0, -dot(normalize(normal), normalize(light - worldPos))).
func ComputeNDotL(worldPos, normal, light mathutil.Vec3) float64 {
	lightDir := light.Sub(worldPos).Normalize()
	return math.Max(0, -normal.Normalize().Dot(lightDir))
}
