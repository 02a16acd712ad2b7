package scene

import (
	"math"
	"testing"

	"github.com/EngoEngine/glm"
)

func near(a, b, tol float64) bool { return math.Abs(a-b) <= tol }

func TestPerspectiveFocalLength(t *testing.T) {
	m := Perspective(math.Pi/4, 1.0, 0.01, 1000)
	want := 1 / math.Tan(math.Pi/8)
	// Element [1][1] is index 5 in either storage order.
	if !near(float64(m[5]), want, 1e-4) {
		t.Errorf("m[1][1] = %v, want %v", m[5], want)
	}
	if !near(float64(m[0]), want, 1e-4) {
		t.Errorf("m[0][0] = %v, want %v at aspect 1", m[0], want)
	}
}

func TestViewportAspect(t *testing.T) {
	tests := []struct {
		vp   Viewport
		want float32
	}{
		{Viewport{640, 480}, 640.0 / 480.0},
		{Viewport{100, 100}, 1},
		{Viewport{0, 480}, 1},
		{Viewport{640, 0}, 1},
	}
	for _, tt := range tests {
		if got := tt.vp.Aspect(); got != tt.want {
			t.Errorf("%+v.Aspect() = %v, want %v", tt.vp, got, tt.want)
		}
	}
}

func TestViewMatrixIdentity(t *testing.T) {
	view := ViewMatrix(NewCameraState())
	if view != glm.Ident4() {
		t.Errorf("identity camera view = %v", view)
	}
}

func TestViewMatrixInvertsOrientation(t *testing.T) {
	cam := NewCameraState()
	for i := 0; i < 30; i++ {
		cam = Step(cam, Controls{PitchUp: true, YawLeft: true})
	}
	view := ViewMatrix(cam)
	rot := RotationMatrix(cam.Orientation)
	prod := view.Mul4(&rot)
	id := glm.Ident4()
	for i := range prod {
		if !near(float64(prod[i]), float64(id[i]), 1e-5) {
			t.Fatalf("view * rotation = %v, want identity", prod)
		}
	}
}

func TestTranslationToggle(t *testing.T) {
	cam := NewCameraState()
	cam.Position = glm.Vec3{1, 2, 3}
	props := NewProps(cam, Viewport{800, 600})

	tests := []struct {
		name string
		fn   UniformFunc
		want glm.Vec3
	}{
		{"skybox fixed", SkyboxUniforms(false), glm.Vec3{}},
		{"skybox translated", SkyboxUniforms(true), glm.Vec3{1, 2, 3}},
		{"starfield fixed", StarfieldUniforms(false), glm.Vec3{}},
		{"starfield translated", StarfieldUniforms(true), glm.Vec3{1, 2, 3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := tt.fn(props)
			got := glm.Vec3{u.View[12], u.View[13], u.View[14]}
			if got != tt.want {
				t.Errorf("view translation = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPassProjections(t *testing.T) {
	props := NewProps(NewCameraState(), Viewport{1024, 512})
	sky := SkyboxUniforms(false)(props)
	stars := StarfieldUniforms(true)(props)

	wantSky := Perspective(FieldOfView, 2, SkyboxNear, SkyboxFar)
	wantStars := Perspective(FieldOfView, 2, StarfieldNear, StarfieldFar)
	if sky.Projection != wantSky {
		t.Errorf("skybox projection = %v, want %v", sky.Projection, wantSky)
	}
	if stars.Projection != wantStars {
		t.Errorf("starfield projection = %v, want %v", stars.Projection, wantStars)
	}
	if sky.Projection == stars.Projection {
		t.Error("passes share clip planes")
	}
}

func TestTranslateMatchesApplyTranslation(t *testing.T) {
	cam := NewCameraState()
	cam = Step(cam, Controls{YawRight: true})
	cam.Position = glm.Vec3{-4, 0.5, 2}
	view := ViewMatrix(cam)
	if Translate(view, cam.Position) != ApplyTranslation(view, cam.Translation()) {
		t.Error("Translate and ApplyTranslation disagree")
	}
}
