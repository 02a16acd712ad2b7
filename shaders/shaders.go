// Package shaders embeds the WGSL programs of the two draw passes and
// mirrors their uniform block on the Go side.
package shaders

import (
	_ "embed"
	"errors"
	"fmt"
	"strings"

	"github.com/gogpu/naga"
)

// Entry points shared by every program in this package.
const (
	VertexEntry   = "vs_main"
	FragmentEntry = "fs_main"
)

//go:embed skybox.wgsl
var Skybox string

//go:embed starfield.wgsl
var Starfield string

// ErrUnsupported marks WGSL the offline compiler cannot handle yet. The
// source may still be valid for the driver.
var ErrUnsupported = errors.New("shaders: feature not supported by offline compiler")

// Validate compiles source offline so broken WGSL is reported with its
// label before any GPU object exists.
func Validate(label, source string) error {
	if strings.TrimSpace(source) == "" {
		return fmt.Errorf("shaders: %s: empty source", label)
	}
	spirv, err := naga.Compile(source)
	if err != nil {
		return compileError(label, err)
	}
	if len(spirv) == 0 {
		return fmt.Errorf("shaders: %s: compiler produced no output", label)
	}
	return nil
}

// compileError marks naga's own unimplemented paths as ErrUnsupported;
// anything else is a real compile error.
func compileError(label string, err error) error {
	if strings.Contains(err.Error(), "not yet implemented") {
		return fmt.Errorf("%w: %s: %v", ErrUnsupported, label, err)
	}
	return fmt.Errorf("shaders: %s: %w", label, err)
}
