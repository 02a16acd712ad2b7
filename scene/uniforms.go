package scene

import (
	"math"

	"github.com/EngoEngine/glm"
)

// FieldOfView is the vertical field of view shared by both passes.
const FieldOfView float32 = math.Pi / 4

// Clip planes for the two passes.
const (
	SkyboxNear    float32 = 0.01
	SkyboxFar     float32 = 1000
	StarfieldNear float32 = 0.05
	StarfieldFar  float32 = 30
)

// Viewport is the drawable size in pixels.
type Viewport struct {
	Width, Height int
}

// Aspect is width over height; a collapsed viewport reports 1.
func (v Viewport) Aspect() float32 {
	if v.Width <= 0 || v.Height <= 0 {
		return 1
	}
	return float32(v.Width) / float32(v.Height)
}

// Color is a clear colour in linear RGBA.
type Color struct {
	R, G, B, A float64
}

// Props are the dynamic values handed to a pass on every submission.
type Props struct {
	Camera      CameraState
	Viewport    Viewport
	Translation glm.Mat4 // camera matrix from Camera.Translation
}

// NewProps builds the props for one frame.
func NewProps(cam CameraState, vp Viewport) Props {
	return Props{Camera: cam, Viewport: vp, Translation: cam.Translation()}
}

// Uniforms are the matrices a pass feeds its vertex stage.
type Uniforms struct {
	View       glm.Mat4
	Projection glm.Mat4
}

// UniformFunc computes a pass's uniforms from live props.
type UniformFunc func(Props) Uniforms

// ViewMatrix is the rotation-only view: the inverse camera orientation.
func ViewMatrix(cam CameraState) glm.Mat4 {
	return RotationMatrix(Inverse(cam.Orientation))
}

// ApplyTranslation composes a view matrix with the camera translation.
func ApplyTranslation(view, translation glm.Mat4) glm.Mat4 {
	return view.Mul4(&translation)
}

func passUniforms(near, far float32, translate bool) UniformFunc {
	return func(p Props) Uniforms {
		view := ViewMatrix(p.Camera)
		if translate {
			view = ApplyTranslation(view, p.Translation)
		}
		return Uniforms{
			View:       view,
			Projection: Perspective(FieldOfView, p.Viewport.Aspect(), near, far),
		}
	}
}

// SkyboxUniforms is the uniform function of the skybox pass. A skybox
// normally ignores camera position, so translate is usually false.
func SkyboxUniforms(translate bool) UniformFunc {
	return passUniforms(SkyboxNear, SkyboxFar, translate)
}

// StarfieldUniforms is the uniform function of the starfield pass.
func StarfieldUniforms(translate bool) UniformFunc {
	return passUniforms(StarfieldNear, StarfieldFar, translate)
}
