package mathutil

import "math"

// Mat4 is a 4×4 matrix stored row-major and applied to column vectors,
// so a chain written left to right applies right to left:
// Mat4Mul(proj, Mat4Mul(view, world)) maps object space to clip space.
type Mat4 [16]float64

func Mat4Identity() Mat4 {
	return Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// Mat4Mul returns a × b.
func Mat4Mul(a, b Mat4) Mat4 {
	var m Mat4
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			m[r*4+c] = a[r*4+0]*b[0*4+c] + a[r*4+1]*b[1*4+c] +
				a[r*4+2]*b[2*4+c] + a[r*4+3]*b[3*4+c]
		}
	}
	return m
}

// MulPoint transforms a 3D point (w=1) by the affine part of the matrix.
func (m Mat4) MulPoint(v Vec3) Vec3 {
	return Vec3{
		m[0]*v[0] + m[1]*v[1] + m[2]*v[2] + m[3],
		m[4]*v[0] + m[5]*v[1] + m[6]*v[2] + m[7],
		m[8]*v[0] + m[9]*v[1] + m[10]*v[2] + m[11],
	}
}

// TransformCoordinate transforms a point (w=1) and divides by the resulting w.
// A zero w leaves the coordinates undivided.
func (m Mat4) TransformCoordinate(v Vec3) Vec3 {
	p := m.MulPoint(v)
	w := m[12]*v[0] + m[13]*v[1] + m[14]*v[2] + m[15]
	if w == 0 {
		return p
	}
	return Vec3{p[0] / w, p[1] / w, p[2] / w}
}

// TransformNormal transforms a direction (w=0): rotation and scale only.
func (m Mat4) TransformNormal(v Vec3) Vec3 {
	return Vec3{
		m[0]*v[0] + m[1]*v[1] + m[2]*v[2],
		m[4]*v[0] + m[5]*v[1] + m[6]*v[2],
		m[8]*v[0] + m[9]*v[1] + m[10]*v[2],
	}
}

// FromMat3Translation builds a 4×4 affine matrix from a 3×3 rotation and translation.
func FromMat3Translation(r Mat3, t Vec3) Mat4 {
	return Mat4{
		r[0], r[1], r[2], t[0],
		r[3], r[4], r[5], t[1],
		r[6], r[7], r[8], t[2],
		0, 0, 0, 1,
	}
}

// LookAtRH builds a right-handed view matrix: the camera looks down its -Z axis.
func LookAtRH(eye, target, up Vec3) Mat4 {
	z := eye.Sub(target).Normalize()
	x := up.Cross(z).Normalize()
	y := z.Cross(x)
	return Mat4{
		x[0], x[1], x[2], -x.Dot(eye),
		y[0], y[1], y[2], -y.Dot(eye),
		z[0], z[1], z[2], -z.Dot(eye),
		0, 0, 0, 1,
	}
}

// PerspectiveFovRH builds a right-handed perspective projection that maps
// view depth -znear..-zfar to 0..1. fov is the vertical field of view in radians.
func PerspectiveFovRH(fov, aspect, znear, zfar float64) Mat4 {
	ys := 1 / math.Tan(fov/2)
	xs := ys / aspect
	q := zfar / (znear - zfar)
	return Mat4{
		xs, 0, 0, 0,
		0, ys, 0, 0,
		0, 0, q, q * znear,
		0, 0, -1, 0,
	}
}
