package shaders

import (
	"errors"
	"strings"
	"testing"
)

func TestProgramsCompile(t *testing.T) {
	programs := []struct {
		name   string
		source string
	}{
		{"skybox", Skybox},
		{"starfield", Starfield},
	}
	for _, p := range programs {
		t.Run(p.name, func(t *testing.T) {
			if p.source == "" {
				t.Fatal("embedded source is empty")
			}
			if !strings.Contains(p.source, "fn "+VertexEntry) || !strings.Contains(p.source, "fn "+FragmentEntry) {
				t.Fatalf("%s lacks %s/%s entry points", p.name, VertexEntry, FragmentEntry)
			}
			err := Validate(p.name, p.source)
			if errors.Is(err, ErrUnsupported) {
				t.Skipf("offline compiler limitation: %v", err)
			}
			if err != nil {
				t.Fatalf("Validate: %v", err)
			}
		})
	}
}

func TestValidateRejectsBrokenSource(t *testing.T) {
	err := Validate("broken", "@vertex fn vs_main( -> {")
	if err == nil {
		t.Fatal("broken WGSL validated")
	}
	if !strings.Contains(err.Error(), "broken") {
		t.Errorf("error %q does not name the program", err)
	}
}

func TestValidateRejectsEmptySource(t *testing.T) {
	if err := Validate("empty", "  \n"); err == nil {
		t.Fatal("empty source validated")
	}
}

func TestCompileErrorClassification(t *testing.T) {
	tests := []struct {
		msg         string
		unsupported bool
	}{
		{"lowering for textureGather not yet implemented", true},
		{"storage format rgba16snorm is not supported", false},
		{"expected ')', found '->'", false},
	}
	for _, tt := range tests {
		t.Run(tt.msg, func(t *testing.T) {
			cause := errors.New(tt.msg)
			err := compileError("pass", cause)
			if got := errors.Is(err, ErrUnsupported); got != tt.unsupported {
				t.Errorf("errors.Is(ErrUnsupported) = %v, want %v", got, tt.unsupported)
			}
			if !strings.Contains(err.Error(), "pass") {
				t.Errorf("error %q does not name the program", err)
			}
			if !tt.unsupported && !errors.Is(err, cause) {
				t.Errorf("error %q does not wrap its cause", err)
			}
		})
	}
}
