package loop

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"starfield/scene"
)

type fakeRenderer struct {
	log       *[]string
	vp        scene.Viewport
	clearErrs []error // consumed one per frame
	clears    []scene.Color
}

func (r *fakeRenderer) ClearFrame(c scene.Color, depth float32) error {
	*r.log = append(*r.log, "clear")
	r.clears = append(r.clears, c)
	if len(r.clearErrs) > 0 {
		err := r.clearErrs[0]
		r.clearErrs = r.clearErrs[1:]
		return err
	}
	return nil
}

func (r *fakeRenderer) Viewport() scene.Viewport { return r.vp }

func (r *fakeRenderer) Present() error {
	*r.log = append(*r.log, "present")
	return nil
}

// fakeHost closes after a fixed number of polls.
type fakeHost struct {
	polls, limit int
	onPoll       func(n int)
}

func (h *fakeHost) ShouldClose() bool { return h.polls >= h.limit }

func (h *fakeHost) PollEvents() {
	h.polls++
	if h.onPoll != nil {
		h.onPoll(h.polls)
	}
}

type fixedInput scene.Controls

func (in fixedInput) Controls() scene.Controls { return scene.Controls(in) }

type recordingPass struct {
	name  string
	log   *[]string
	props []scene.Props
	err   error
}

func (p *recordingPass) Submit(props scene.Props) error {
	*p.log = append(*p.log, p.name)
	p.props = append(p.props, props)
	return p.err
}

func quiet() Option {
	return WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func closedChan() chan struct{} {
	c := make(chan struct{})
	close(c)
	return c
}

func TestRunSubmitsPassesInOrder(t *testing.T) {
	var log []string
	r := &fakeRenderer{log: &log, vp: scene.Viewport{Width: 640, Height: 480}}
	sky := &recordingPass{name: "skybox", log: &log}
	stars := &recordingPass{name: "starfield", log: &log}
	h := &fakeHost{limit: 3}

	l := New(r, h, fixedInput{}, quiet(), WithIdle(time.Millisecond))
	err := l.Run(context.Background(), closedChan(), func() ([]Pass, error) {
		return []Pass{sky, stars}, nil
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	// The first poll happens while waiting; the next two drive frames.
	want := []string{"clear", "skybox", "starfield", "present", "clear", "skybox", "starfield", "present"}
	if len(log) != len(want) {
		t.Fatalf("calls = %v, want %v", log, want)
	}
	for i := range want {
		if log[i] != want[i] {
			t.Fatalf("calls = %v, want %v", log, want)
		}
	}
	if l.Stage() != Stopped {
		t.Errorf("stage = %v, want stopped", l.Stage())
	}
	for _, c := range r.clears {
		if c != DefaultClearColor {
			t.Errorf("clear colour = %v, want %v", c, DefaultClearColor)
		}
	}
	if got := sky.props[0].Viewport; got != r.vp {
		t.Errorf("viewport = %v, want %v", got, r.vp)
	}
}

func TestNothingDrawnBeforeReady(t *testing.T) {
	var log []string
	r := &fakeRenderer{log: &log}
	ready := make(chan struct{})
	var l *Loop
	h := &fakeHost{limit: 12}
	h.onPoll = func(n int) {
		if n < 5 && l.Stage() != WaitingForAsset {
			t.Errorf("poll %d: stage = %v, want waiting", n, l.Stage())
		}
		if n == 5 {
			if len(log) != 0 {
				t.Errorf("renderer used before ready: %v", log)
			}
			close(ready)
		}
	}

	setupCalls := 0
	l = New(r, h, fixedInput{}, quiet(), WithIdle(time.Millisecond))
	err := l.Run(context.Background(), ready, func() ([]Pass, error) {
		setupCalls++
		return nil, nil
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if setupCalls != 1 {
		t.Errorf("setup called %d times", setupCalls)
	}
	if len(log) == 0 {
		t.Error("no frame drawn after ready")
	}
}

func TestCloseWhileWaiting(t *testing.T) {
	var log []string
	h := &fakeHost{limit: 2}
	l := New(&fakeRenderer{log: &log}, h, fixedInput{}, quiet(), WithIdle(time.Millisecond))

	err := l.Run(context.Background(), make(chan struct{}), func() ([]Pass, error) {
		t.Error("setup called although the asset never arrived")
		return nil, nil
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(log) != 0 {
		t.Errorf("renderer used: %v", log)
	}
	if l.Stage() != Stopped {
		t.Errorf("stage = %v", l.Stage())
	}
}

func TestCancelWhileWaiting(t *testing.T) {
	var log []string
	ctx, cancel := context.WithCancel(context.Background())
	h := &fakeHost{limit: 1 << 30, onPoll: func(n int) {
		if n == 3 {
			cancel()
		}
	}}
	l := New(&fakeRenderer{log: &log}, h, fixedInput{}, quiet(), WithIdle(time.Millisecond))
	if err := l.Run(ctx, make(chan struct{}), func() ([]Pass, error) { return nil, nil }); err != nil {
		t.Fatalf("Run: %v", err)
	}
}

func TestSetupError(t *testing.T) {
	var log []string
	boom := errors.New("shader did not compile")
	l := New(&fakeRenderer{log: &log}, &fakeHost{limit: 10}, fixedInput{}, quiet())

	err := l.Run(context.Background(), closedChan(), func() ([]Pass, error) { return nil, boom })
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want %v", err, boom)
	}
	if len(log) != 0 {
		t.Errorf("renderer used after failed setup: %v", log)
	}
}

func TestTransientErrorSkipsFrame(t *testing.T) {
	var log []string
	lost := errors.New("surface lost")
	r := &fakeRenderer{log: &log, clearErrs: []error{lost}}
	pass := &recordingPass{name: "stars", log: &log}

	l := New(r, &fakeHost{limit: 4}, fixedInput{}, quiet(), WithTransient(lost))
	err := l.Run(context.Background(), closedChan(), func() ([]Pass, error) { return []Pass{pass}, nil })
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	// Three frames, the first dropped after its clear.
	if len(pass.props) != 2 {
		t.Errorf("pass submitted %d times, want 2", len(pass.props))
	}
}

func TestFatalErrorStops(t *testing.T) {
	var log []string
	boom := errors.New("device lost")
	pass := &recordingPass{name: "stars", log: &log, err: boom}

	l := New(&fakeRenderer{log: &log}, &fakeHost{limit: 100}, fixedInput{}, quiet())
	err := l.Run(context.Background(), closedChan(), func() ([]Pass, error) { return []Pass{pass}, nil })
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want %v", err, boom)
	}
	if len(pass.props) != 1 {
		t.Errorf("pass submitted %d times, want 1", len(pass.props))
	}
}

func TestCameraDriftsWithoutInput(t *testing.T) {
	var log []string
	l := New(&fakeRenderer{log: &log}, &fakeHost{}, fixedInput{}, quiet())

	const frames = 500
	for range frames {
		if err := l.Frame(); err != nil {
			t.Fatal(err)
		}
	}
	cam := l.Camera()
	want := float32(frames) * scene.ForwardStep[2]
	if d := cam.Position[2] - want; d > 1e-4 || d < -1e-4 {
		t.Errorf("z = %v, want %v", cam.Position[2], want)
	}
	if cam.Position[0] != 0 || cam.Position[1] != 0 {
		t.Errorf("camera left its axis: %v", cam.Position)
	}
	if got := l.State().Translation[14]; got != cam.Position[2] {
		t.Errorf("translation z = %v, want %v", got, cam.Position[2])
	}
}

func TestSteeringReachesCamera(t *testing.T) {
	var log []string
	l := New(&fakeRenderer{log: &log}, &fakeHost{}, fixedInput{YawRight: true}, quiet())
	if err := l.Frame(); err != nil {
		t.Fatal(err)
	}
	if l.Camera().Orientation == scene.NewCameraState().Orientation {
		t.Error("held key did not rotate the camera")
	}
}

func TestStageString(t *testing.T) {
	tests := map[Stage]string{
		WaitingForAsset: "waiting for asset",
		Running:         "running",
		Stopped:         "stopped",
		Stage(9):        "Stage(9)",
	}
	for s, want := range tests {
		if got := s.String(); got != want {
			t.Errorf("%d.String() = %q, want %q", int(s), got, want)
		}
	}
}
