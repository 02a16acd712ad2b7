// Package loop drives the demo one frame at a time: it waits for the
// skybox to load, then integrates the camera and submits every pass in
// order until the window closes.
package loop

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"starfield/scene"
)

// Renderer is the part of the renderer context the loop drives.
type Renderer interface {
	ClearFrame(color scene.Color, depth float32) error
	Viewport() scene.Viewport
	Present() error
}

// Host is the window system.
type Host interface {
	ShouldClose() bool
	PollEvents()
}

// Input reports the steering keys held right now.
type Input interface {
	Controls() scene.Controls
}

// Pass is one compiled draw pass.
type Pass interface {
	Submit(props scene.Props) error
}

// Stage is where the loop is in its lifecycle.
type Stage int

const (
	WaitingForAsset Stage = iota
	Running
	Stopped
)

func (s Stage) String() string {
	switch s {
	case WaitingForAsset:
		return "waiting for asset"
	case Running:
		return "running"
	case Stopped:
		return "stopped"
	}
	return fmt.Sprintf("Stage(%d)", int(s))
}

// DefaultClearColor is the dark purple behind everything.
var DefaultClearColor = scene.Color{R: 0.1, G: 0, B: 0.1, A: 1}

// Loop owns the camera state and the pass list.
type Loop struct {
	renderer Renderer
	host     Host
	input    Input

	logger     *slog.Logger
	clear      scene.Color
	clearDepth float32
	idle       time.Duration
	transient  []error
	now        func() time.Time

	stage  Stage
	camera scene.CameraState
	props  scene.Props
	passes []Pass

	frames    int
	busy      time.Duration
	fpsSince  time.Time
	lastFrame int
}

// Option configures a Loop.
type Option func(*Loop)

// WithLogger sets the logger used for skipped frames and frame rate.
func WithLogger(l *slog.Logger) Option {
	return func(lp *Loop) { lp.logger = l }
}

// WithClearColor sets the colour each frame starts from.
func WithClearColor(c scene.Color) Option {
	return func(lp *Loop) { lp.clear = c }
}

// WithClearDepth sets the depth each frame starts from.
func WithClearDepth(d float32) Option {
	return func(lp *Loop) { lp.clearDepth = d }
}

// WithIdle sets how long the loop sleeps between event polls while it
// waits for assets.
func WithIdle(d time.Duration) Option {
	return func(lp *Loop) { lp.idle = d }
}

// WithTransient names errors after which the frame is dropped and the
// loop carries on. Matching uses errors.Is.
func WithTransient(errs ...error) Option {
	return func(lp *Loop) { lp.transient = append(lp.transient, errs...) }
}

// New returns a loop with the camera at its initial state.
func New(r Renderer, h Host, in Input, opts ...Option) *Loop {
	l := &Loop{
		renderer:   r,
		host:       h,
		input:      in,
		logger:     slog.Default(),
		clear:      DefaultClearColor,
		clearDepth: 1,
		idle:       10 * time.Millisecond,
		now:        time.Now,
		camera:     scene.NewCameraState(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Stage reports the lifecycle stage.
func (l *Loop) Stage() Stage { return l.stage }

// Camera is the camera after the last frame.
func (l *Loop) Camera() scene.CameraState { return l.camera }

// State is the props handed to the passes on the last frame.
func (l *Loop) State() scene.Props { return l.props }

// Run polls host events until ready closes, builds the passes with setup
// and then draws frames until the host asks to close or ctx ends. A
// cancelled context is not an error.
func (l *Loop) Run(ctx context.Context, ready <-chan struct{}, setup func() ([]Pass, error)) error {
	defer func() { l.stage = Stopped }()

	l.stage = WaitingForAsset
	if !l.wait(ctx, ready) {
		return nil
	}

	passes, err := setup()
	if err != nil {
		return fmt.Errorf("loop: setup: %w", err)
	}
	l.passes = passes
	l.stage = Running
	l.fpsSince = l.now()
	l.logger.Info("frame loop running", "passes", len(passes))

	for !l.host.ShouldClose() {
		if ctx.Err() != nil {
			return nil
		}
		l.host.PollEvents()

		if err := l.Frame(); err != nil {
			if !l.isTransient(err) {
				return err
			}
			l.logger.Warn("frame skipped", "frame", l.lastFrame, "err", err)
		}
	}
	return nil
}

// wait reports whether ready closed before the host or ctx gave up.
func (l *Loop) wait(ctx context.Context, ready <-chan struct{}) bool {
	for {
		if l.host.ShouldClose() {
			return false
		}
		l.host.PollEvents()
		select {
		case <-ready:
			return true
		case <-ctx.Done():
			return false
		case <-time.After(l.idle):
		}
	}
}

// Frame integrates the camera, clears the frame, submits every pass in
// order and presents.
func (l *Loop) Frame() error {
	start := l.now()
	l.lastFrame++

	l.camera = scene.Step(l.camera, l.input.Controls())
	l.props = scene.NewProps(l.camera, l.renderer.Viewport())

	if err := l.renderer.ClearFrame(l.clear, l.clearDepth); err != nil {
		return fmt.Errorf("loop: clear frame: %w", err)
	}
	for i, p := range l.passes {
		if err := p.Submit(l.props); err != nil {
			return fmt.Errorf("loop: submit pass %d: %w", i, err)
		}
	}
	if err := l.renderer.Present(); err != nil {
		return fmt.Errorf("loop: present: %w", err)
	}

	l.countFrame(start)
	return nil
}

func (l *Loop) countFrame(start time.Time) {
	end := l.now()
	l.frames++
	l.busy += end.Sub(start)

	elapsed := end.Sub(l.fpsSince)
	if elapsed < time.Second {
		return
	}
	l.logger.Debug("frame rate",
		"fps", float64(l.frames)/elapsed.Seconds(),
		"frame_time", l.busy/time.Duration(l.frames))
	l.frames = 0
	l.busy = 0
	l.fpsSince = end
}

func (l *Loop) isTransient(err error) bool {
	for _, t := range l.transient {
		if errors.Is(err, t) {
			return true
		}
	}
	return false
}
