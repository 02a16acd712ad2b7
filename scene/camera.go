package scene

import "github.com/EngoEngine/glm"

const (
	// RotationStep is the angle, in radians, one held key turns the camera
	// per frame.
	RotationStep float32 = 0.01
)

// ForwardStep is how far the camera drifts along its forward axis each
// frame, before rotation.
var ForwardStep = glm.Vec3{0, 0, 0.001}

// CameraState is the whole mutable state of the demo.
type CameraState struct {
	Orientation glm.Quat // look direction, unit length up to float drift
	Position    glm.Vec3 // world position, unbounded
}

// NewCameraState returns the camera at the origin looking down its
// initial axis.
func NewCameraState() CameraState {
	return CameraState{Orientation: glm.QuatIdent()}
}

// Controls is the set of steering keys held during one frame.
type Controls struct {
	PitchUp   bool
	PitchDown bool
	YawRight  bool
	YawLeft   bool
}

// Any reports whether at least one key is held.
func (c Controls) Any() bool {
	return c.PitchUp || c.PitchDown || c.YawRight || c.YawLeft
}

// Step integrates one frame: held keys rotate the orientation, then the
// camera advances by ForwardStep along the new orientation. Input only
// steers; the camera never stops.
func Step(s CameraState, c Controls) CameraState {
	q := s.Orientation
	if c.PitchUp {
		q = RotateLocalX(q, +RotationStep)
	}
	if c.PitchDown {
		q = RotateLocalX(q, -RotationStep)
	}
	if c.YawRight {
		q = RotateLocalZ(q, -RotationStep)
	}
	if c.YawLeft {
		q = RotateLocalZ(q, +RotationStep)
	}

	delta := Transform(ForwardStep, q)
	return CameraState{
		Orientation: q,
		Position:    s.Position.Add(&delta),
	}
}

// Translation is the camera matrix built from the current position.
func (s CameraState) Translation() glm.Mat4 {
	return Translation(s.Position)
}
