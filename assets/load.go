package assets

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/schollz/progressbar/v3"
	"golang.org/x/term"
)

// Parser turns a decoded image into the loaded value.
type Parser[T any] func(image.Image) (T, error)

// LoadError reports a resource that could not be loaded after every
// attempt.
type LoadError struct {
	Name     string
	Attempts int
	Err      error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("assets: load %s: giving up after %d attempt(s): %v", e.Name, e.Attempts, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// Retry defaults.
const (
	DefaultAttempts  = 3
	DefaultBaseDelay = 100 * time.Millisecond
	DefaultMaxDelay  = 2 * time.Second
)

type options struct {
	attempts  int
	baseDelay time.Duration
	maxDelay  time.Duration
	logger    *slog.Logger
	progress  io.Writer
}

// Option configures Load.
type Option func(*options)

// WithRetry sets how many times a failed fetch or decode is tried and the
// exponential backoff between tries.
func WithRetry(attempts int, base, max time.Duration) Option {
	return func(o *options) {
		o.attempts = attempts
		o.baseDelay = base
		o.maxDelay = max
	}
}

// WithLogger sets the logger for retries and failures.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithProgress draws a progress bar on w while bytes are read. When w is
// a file that is not a terminal, no bar is drawn.
func WithProgress(w io.Writer) Option {
	return func(o *options) { o.progress = w }
}

// Load fetches, decodes and parses name in the background. The returned
// future completes exactly once, with either the parsed value or a
// *LoadError.
func Load[T any](ctx context.Context, f Fetcher, name string, parse Parser[T], opts ...Option) *Future[T] {
	o := options{
		attempts:  DefaultAttempts,
		baseDelay: DefaultBaseDelay,
		maxDelay:  DefaultMaxDelay,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.attempts < 1 {
		o.attempts = 1
	}

	fut := newFuture[T]()
	go func() {
		v, err := load(ctx, f, name, parse, &o)
		fut.complete(v, err)
	}()
	return fut
}

// retryPolicy is the backoff schedule for o: exponential from baseDelay,
// capped at maxDelay, at most attempts-1 retries and bound to ctx.
func retryPolicy(ctx context.Context, o *options) backoff.BackOff {
	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = o.baseDelay
	exp.MaxInterval = o.maxDelay
	exp.Multiplier = 2
	exp.RandomizationFactor = 0
	exp.MaxElapsedTime = 0
	exp.Reset()
	return backoff.WithContext(backoff.WithMaxRetries(exp, uint64(o.attempts-1)), ctx)
}

func load[T any](ctx context.Context, f Fetcher, name string, parse Parser[T], o *options) (T, error) {
	var (
		v       T
		attempt int
		lastErr error
	)
	op := func() error {
		attempt++
		img, err := fetchImage(ctx, f, name, o.progress)
		if err == nil {
			v, err = parse(img)
		}
		lastErr = err
		return err
	}
	notify := func(err error, delay time.Duration) {
		o.logger.Warn("asset load failed, retrying", "name", name, "attempt", attempt, "delay", delay, "err", err)
	}

	err := backoff.RetryNotify(op, retryPolicy(ctx, o), notify)
	if err == nil {
		o.logger.Debug("asset loaded", "name", name, "attempt", attempt)
		return v, nil
	}
	if lastErr != nil && !errors.Is(err, lastErr) {
		err = errors.Join(lastErr, err)
	}
	o.logger.Error("asset load failed", "name", name, "attempts", attempt, "err", err)
	var zero T
	return zero, &LoadError{Name: name, Attempts: attempt, Err: err}
}

func fetchImage(ctx context.Context, f Fetcher, name string, progress io.Writer) (image.Image, error) {
	rc, size, err := f.Fetch(ctx, name)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	var r io.Reader = rc
	if bar := newProgressBar(progress, size, name); bar != nil {
		defer bar.Close()
		r = io.TeeReader(rc, bar)
	}

	img, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", name, err)
	}
	return img, nil
}

func newProgressBar(w io.Writer, size int64, name string) *progressbar.ProgressBar {
	if w == nil {
		return nil
	}
	if f, ok := w.(*os.File); ok && !term.IsTerminal(int(f.Fd())) {
		return nil
	}
	return progressbar.NewOptions64(size,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription("loading "+name),
		progressbar.OptionShowBytes(true),
		progressbar.OptionClearOnFinish(),
	)
}
