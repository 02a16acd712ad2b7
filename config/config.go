// Package config holds the demo's settings. Defaults reproduce the
// classic look; a TOML or YAML file and a couple of environment variables
// can override them.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"starfield/res"
	"starfield/scene"
)

type Config struct {
	Window    Window    `toml:"window" yaml:"window"`
	Render    Render    `toml:"render" yaml:"render"`
	Log       Log       `toml:"log" yaml:"log"`
	Assets    Assets    `toml:"assets" yaml:"assets"`
	Skybox    Skybox    `toml:"skybox" yaml:"skybox"`
	Starfield Starfield `toml:"starfield" yaml:"starfield"`
}

type Window struct {
	Width  int    `toml:"width" yaml:"width"`
	Height int    `toml:"height" yaml:"height"`
	Title  string `toml:"title" yaml:"title"`
}

type Render struct {
	VSync                bool       `toml:"vsync" yaml:"vsync"`
	LowPower             bool       `toml:"low_power" yaml:"low_power"`
	ForceFallbackAdapter bool       `toml:"force_fallback_adapter" yaml:"force_fallback_adapter"`
	ClearColor           [4]float64 `toml:"clear_color" yaml:"clear_color"`
}

type Log struct {
	Level     string `toml:"level" yaml:"level"`           // slog level name
	WGPULevel string `toml:"wgpu_level" yaml:"wgpu_level"` // wgpu-native level name, empty to leave alone
}

type Assets struct {
	Dir       string        `toml:"dir" yaml:"dir"` // empty reads the bundled resources
	Skybox    string        `toml:"skybox" yaml:"skybox"`
	Attempts  int           `toml:"attempts" yaml:"attempts"`
	BaseDelay time.Duration `toml:"base_delay" yaml:"base_delay"`
	MaxDelay  time.Duration `toml:"max_delay" yaml:"max_delay"`
	Progress  bool          `toml:"progress" yaml:"progress"`
}

type Skybox struct {
	Translate bool `toml:"translate" yaml:"translate"`
}

type Starfield struct {
	Count      int     `toml:"count" yaml:"count"`
	HalfExtent float32 `toml:"half_extent" yaml:"half_extent"`
	Shape      string  `toml:"shape" yaml:"shape"`
	Seed       uint64  `toml:"seed" yaml:"seed"` // 0 picks a random seed
	PointSize  float32 `toml:"point_size" yaml:"point_size"`
	Translate  bool    `toml:"translate" yaml:"translate"`
}

// Default returns the settings the demo runs with when nothing is
// configured.
func Default() Config {
	return Config{
		Window: Window{Width: 640, Height: 480, Title: "starfield"},
		Render: Render{
			VSync:      true,
			ClearColor: [4]float64{0.1, 0, 0.1, 1},
		},
		Log: Log{Level: "info"},
		Assets: Assets{
			Skybox:    res.Skybox,
			Attempts:  3,
			BaseDelay: 100 * time.Millisecond,
			MaxDelay:  2 * time.Second,
			Progress:  true,
		},
		Starfield: Starfield{
			Count:      scene.DefaultStarCount,
			HalfExtent: scene.DefaultHalfExtent,
			Shape:      scene.ShapeCube.String(),
			PointSize:  3,
			Translate:  true,
		},
	}
}

// Load reads path over the defaults. The format follows the extension:
// .toml, .yaml or .yml. An empty path returns the defaults. Unknown keys
// are an error.
func Load(path string) (Config, error) {
	c := Default()
	if path == "" {
		return c, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return c, fmt.Errorf("config: %w", err)
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		md, err := toml.Decode(string(data), &c)
		if err != nil {
			return c, fmt.Errorf("config: %s: %w", path, err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return c, fmt.Errorf("config: %s: unknown keys %v", path, undecoded)
		}
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&c); err != nil && !errors.Is(err, io.EOF) {
			return c, fmt.Errorf("config: %s: %w", path, err)
		}
	default:
		return c, fmt.Errorf("config: %s: unsupported format %q", path, ext)
	}
	return c, nil
}

// ApplyEnv applies WGPU_LOG_LEVEL and WGPU_FORCE_FALLBACK_ADAPTER.
func (c *Config) ApplyEnv(getenv func(string) string) {
	if v := getenv("WGPU_LOG_LEVEL"); v != "" {
		c.Log.WGPULevel = v
	}
	if getenv("WGPU_FORCE_FALLBACK_ADAPTER") == "1" {
		c.Render.ForceFallbackAdapter = true
	}
}

var wgpuLevels = map[string]bool{
	"OFF": true, "ERROR": true, "WARN": true, "INFO": true, "DEBUG": true, "TRACE": true,
}

// Validate reports every setting the demo cannot run with.
func (c Config) Validate() error {
	var errs []error
	bad := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf(format, args...))
	}

	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		bad("window size %dx%d must be positive", c.Window.Width, c.Window.Height)
	}
	for i, v := range c.Render.ClearColor {
		if v < 0 || v > 1 {
			bad("clear_color[%d] = %v is outside [0, 1]", i, v)
		}
	}
	if _, err := c.SlogLevel(); err != nil {
		bad("log level: %v", err)
	}
	if c.Log.WGPULevel != "" && !wgpuLevels[strings.ToUpper(c.Log.WGPULevel)] {
		bad("unknown wgpu log level %q", c.Log.WGPULevel)
	}
	if c.Assets.Skybox == "" {
		bad("assets.skybox is empty")
	}
	if c.Assets.Attempts < 1 {
		bad("assets.attempts = %d, want at least 1", c.Assets.Attempts)
	}
	if c.Assets.BaseDelay < 0 || c.Assets.MaxDelay < c.Assets.BaseDelay {
		bad("retry delays %v..%v are out of order", c.Assets.BaseDelay, c.Assets.MaxDelay)
	}
	if c.Starfield.Count < 0 {
		bad("starfield.count = %d is negative", c.Starfield.Count)
	}
	if c.Starfield.HalfExtent <= 0 {
		bad("starfield.half_extent = %v must be positive", c.Starfield.HalfExtent)
	}
	if _, err := scene.ParseShape(c.Starfield.Shape); err != nil {
		bad("starfield.shape: %v", err)
	}
	if c.Starfield.PointSize <= 0 {
		bad("starfield.point_size = %v must be positive", c.Starfield.PointSize)
	}

	if len(errs) > 0 {
		return fmt.Errorf("config: %w", errors.Join(errs...))
	}
	return nil
}

// SlogLevel parses Log.Level (debug, info, warn, error).
func (c Config) SlogLevel() (slog.Level, error) {
	var l slog.Level
	err := l.UnmarshalText([]byte(c.Log.Level))
	return l, err
}

// AssetFS is where assets are read from: Assets.Dir on disk, or the
// resources bundled into the binary when Dir is empty.
func (c Config) AssetFS() fs.FS {
	if c.Assets.Dir == "" {
		return res.FS
	}
	return os.DirFS(c.Assets.Dir)
}

// ClearColor is Render.ClearColor as a scene colour.
func (c Config) ClearColor() scene.Color {
	cc := c.Render.ClearColor
	return scene.Color{R: cc[0], G: cc[1], B: cc[2], A: cc[3]}
}
