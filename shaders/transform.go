package shaders

import (
	"unsafe"

	"github.com/EngoEngine/glm"

	"starfield/scene"
)

// Transform mirrors the WGSL uniform block of both programs.
type Transform struct {
	View       [16]float32
	Projection [16]float32
	Viewport   [2]float32
	PointSize  float32
	_          float32
}

// TransformSize is the uniform buffer size in bytes.
const TransformSize = uint64(unsafe.Sizeof(Transform{}))

// clipCorrection maps OpenGL clip depth (-1..1) to WebGPU (0..1).
var clipCorrection = glm.Mat4{
	1, 0, 0, 0,
	0, 1, 0, 0,
	0, 0, 0.5, 0,
	0, 0, 0.5, 1,
}

// NewTransform packs u for upload.
func NewTransform(u scene.Uniforms, vp scene.Viewport, pointSize float32) Transform {
	proj := clipCorrection.Mul4(&u.Projection)
	return Transform{
		View:       u.View,
		Projection: proj,
		Viewport:   [2]float32{float32(max(vp.Width, 1)), float32(max(vp.Height, 1))},
		PointSize:  pointSize,
	}
}

// Bytes is the raw uniform data.
func (t *Transform) Bytes() []byte {
	return unsafe.Slice((*byte)(unsafe.Pointer(t)), unsafe.Sizeof(*t))
}
