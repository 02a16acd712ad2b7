// Package scene holds the renderer-independent half of the demo: camera
// integration, the skybox geometry table, the starfield point set and the
// per-pass uniform functions. Nothing here touches the GPU or the window.
package scene

import (
	"github.com/EngoEngine/glm"
	"github.com/EngoEngine/math"
)

var (
	axisX = glm.Vec3{1, 0, 0}
	axisZ = glm.Vec3{0, 0, 1}
)

// RotateLocalX returns q rotated by angle radians about its own X axis.
func RotateLocalX(q glm.Quat, angle float32) glm.Quat {
	r := glm.QuatRotate(angle, &axisX)
	return q.Mul(&r)
}

// RotateLocalZ returns q rotated by angle radians about its own Z axis.
func RotateLocalZ(q glm.Quat, angle float32) glm.Quat {
	r := glm.QuatRotate(angle, &axisZ)
	return q.Mul(&r)
}

// QuatNorm is the euclidean length of q.
func QuatNorm(q glm.Quat) float32 {
	return math.Sqrt(q.W*q.W + q.V[0]*q.V[0] + q.V[1]*q.V[1] + q.V[2]*q.V[2])
}

// Transform rotates v by q.
func Transform(v glm.Vec3, q glm.Quat) glm.Vec3 {
	return q.Rotate(&v)
}

// Perspective builds an OpenGL-convention projection (clip depth -1..1).
func Perspective(fovy, aspect, near, far float32) glm.Mat4 {
	return glm.Perspective(fovy, aspect, near, far)
}

// Translation builds the matrix translating by v.
func Translation(v glm.Vec3) glm.Mat4 {
	return glm.Translate3D(v[0], v[1], v[2])
}

// Translate returns m * T(v), i.e. m with a translation applied first.
func Translate(m glm.Mat4, v glm.Vec3) glm.Mat4 {
	t := Translation(v)
	return m.Mul4(&t)
}

// RotationMatrix converts q to a 4x4 rotation matrix.
func RotationMatrix(q glm.Quat) glm.Mat4 {
	return q.Mat4()
}

// Inverse returns the inverse rotation of q.
func Inverse(q glm.Quat) glm.Quat {
	return q.Inverse()
}
