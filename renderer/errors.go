package renderer

import (
	"errors"
	"fmt"
	"strings"
)

// Stages of draw pass compilation a ShaderCompileError can come from.
const (
	StageValidate = "validate" // offline WGSL compilation
	StageModule   = "module"   // driver shader module creation
	StagePipeline = "pipeline" // linking stages into a render pipeline
)

// ShaderCompileError reports a draw pass whose shaders could not be
// compiled or linked. The demo cannot run without its passes, so callers
// treat it as fatal.
type ShaderCompileError struct {
	Label string
	Stage string
	Err   error
}

func (e *ShaderCompileError) Error() string {
	return fmt.Sprintf("renderer: compile %s (%s): %v", e.Label, e.Stage, e.Err)
}

func (e *ShaderCompileError) Unwrap() error { return e.Err }

var (
	// ErrSurfaceUnavailable is returned when the swap chain cannot hand out
	// a frame right now (timeout, outdated or lost surface). The frame
	// should be skipped, not treated as fatal.
	ErrSurfaceUnavailable = errors.New("renderer: surface unavailable")

	// ErrNoFrame is returned by Submit and Present outside ClearFrame.
	ErrNoFrame = errors.New("renderer: no frame in progress")
)

// surfaceError wraps err with ErrSurfaceUnavailable when it is one of the
// transient swap chain failures.
func surfaceError(err error) error {
	if err == nil {
		return nil
	}
	msg := err.Error()
	switch {
	case strings.Contains(msg, "Surface timed out"),
		strings.Contains(msg, "Surface is outdated"),
		strings.Contains(msg, "Surface was lost"):
		return fmt.Errorf("%w: %v", ErrSurfaceUnavailable, err)
	}
	return err
}
