package main

import (
	"context"
	"flag"
	"fmt"
	"image"
	"log/slog"
	"math/rand/v2"
	"os"
	"os/signal"
	"runtime"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/rajveermalviya/go-webgpu/wgpu"
	wgpuext_glfw "github.com/rajveermalviya/go-webgpu/wgpuext/glfw"

	"starfield/assets"
	"starfield/config"
	"starfield/loop"
	"starfield/renderer"
	"starfield/scene"
	"starfield/shaders"
)

var (
	configPath = flag.String("config", "", "settings file (.toml, .yaml or .yml)")
	skyboxName = flag.String("skybox", "", "skybox atlas inside the asset directory")
	assetDir   = flag.String("assets", "", "asset directory (default: the bundled resources)")
)

func init() {
	runtime.LockOSThread()
}

func main() {
	flag.Parse()

	cfg, err := loadConfig()
	if err != nil {
		slog.Error("bad configuration", "err", err)
		os.Exit(1)
	}
	if err := run(cfg); err != nil {
		slog.Error("starfield stopped", "err", err)
		os.Exit(1)
	}
}

func loadConfig() (config.Config, error) {
	cfg, err := config.Load(*configPath)
	if err != nil {
		return cfg, err
	}
	cfg.ApplyEnv(os.Getenv)
	if *skyboxName != "" {
		cfg.Assets.Skybox = *skyboxName
	}
	if *assetDir != "" {
		cfg.Assets.Dir = *assetDir
	}
	return cfg, cfg.Validate()
}

func run(cfg config.Config) error {
	level, _ := cfg.SlogLevel()
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	renderer.SetLogger(logger.With("component", "renderer"))
	if err := renderer.SetNativeLogLevel(cfg.Log.WGPULevel); err != nil {
		return err
	}

	if err := glfw.Init(); err != nil {
		return fmt.Errorf("glfw: %w", err)
	}
	defer glfw.Terminate()

	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)
	win, err := glfw.CreateWindow(cfg.Window.Width, cfg.Window.Height, cfg.Window.Title, nil, nil)
	if err != nil {
		return fmt.Errorf("glfw: %w", err)
	}
	defer win.Destroy()

	width, height := win.GetSize()
	rc, err := renderer.New(wgpuext_glfw.GetSurfaceDescriptor(win), width, height, renderer.Options{
		ForceFallbackAdapter: cfg.Render.ForceFallbackAdapter,
		LowPower:             cfg.Render.LowPower,
		VSync:                cfg.Render.VSync,
	})
	if err != nil {
		return err
	}
	defer rc.Destroy()

	starPass, err := compileStarfield(rc, cfg.Starfield)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	loadOpts := []assets.Option{
		assets.WithRetry(cfg.Assets.Attempts, cfg.Assets.BaseDelay, cfg.Assets.MaxDelay),
		assets.WithLogger(logger.With("component", "assets")),
	}
	if cfg.Assets.Progress {
		loadOpts = append(loadOpts, assets.WithProgress(os.Stderr))
	}
	sky := assets.Load(ctx, assets.FSFetcher{FS: cfg.AssetFS()}, cfg.Assets.Skybox, skyboxParser(logger), loadOpts...)

	keys := newKeyboard()
	win.SetKeyCallback(keys.handle)
	win.SetSizeCallback(func(w *glfw.Window, width, height int) {
		if err := rc.Resize(width, height); err != nil {
			logger.Error("resize failed", "err", err)
		}
	})

	lp := loop.New(rc, window{win}, keys,
		loop.WithLogger(logger.With("component", "loop")),
		loop.WithClearColor(cfg.ClearColor()),
		loop.WithTransient(renderer.ErrSurfaceUnavailable),
	)
	return lp.Run(ctx, sky.Done(), func() ([]loop.Pass, error) {
		img, err := sky.Result()
		if err != nil {
			return nil, err
		}
		tex, err := rc.CreateTexture("skybox", img)
		if err != nil {
			return nil, err
		}
		skyPass, err := compileSkybox(rc, tex, cfg.Skybox)
		if err != nil {
			return nil, err
		}
		passes := []loop.Pass{skyPass}
		if starPass != nil {
			passes = append(passes, starPass)
		}
		return passes, nil
	})
}

// skyboxParser converts the decoded atlas for upload. A layout that is
// not 4:3 still loads, since it only skews the faces.
func skyboxParser(logger *slog.Logger) assets.Parser[*image.RGBA] {
	return func(img image.Image) (*image.RGBA, error) {
		if err := assets.ValidateAtlas(img); err != nil {
			logger.Warn("skybox atlas has an unexpected layout", "err", err)
		}
		return assets.DecodeRGBA(img)
	}
}

func compileSkybox(rc *renderer.Context, tex *renderer.Texture, cfg config.Skybox) (*renderer.DrawPass, error) {
	indices := scene.SkyboxIndices()
	return rc.CompileDrawPass(renderer.DrawPassDescriptor{
		Label:  "skybox",
		Shader: shaders.Skybox,
		Attributes: []renderer.Attribute{
			{
				Name:     "position",
				Location: 0,
				Format:   wgpu.VertexFormat_Float32x3,
				Stride:   3 * 4,
				StepMode: wgpu.VertexStepMode_Vertex,
				Data:     wgpu.ToBytes(scene.SkyboxPositions[:]),
			},
			{
				Name:     "uv",
				Location: 1,
				Format:   wgpu.VertexFormat_Float32x2,
				Stride:   2 * 4,
				StepMode: wgpu.VertexStepMode_Vertex,
				Data:     wgpu.ToBytes(scene.SkyboxUVs[:]),
			},
		},
		Elements:   indices,
		Count:      uint32(len(indices)),
		Topology:   wgpu.PrimitiveTopology_TriangleList,
		DepthWrite: false,
		Texture:    tex,
		Uniforms:   scene.SkyboxUniforms(cfg.Translate),
	})
}

// compileStarfield returns nil when there are no stars to draw.
func compileStarfield(rc *renderer.Context, cfg config.Starfield) (*renderer.DrawPass, error) {
	shape, err := scene.ParseShape(cfg.Shape)
	if err != nil {
		return nil, err
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}
	stars := scene.NewStarfield(rand.New(rand.NewPCG(seed, seed)), cfg.Count, cfg.HalfExtent, shape)
	slog.Debug("starfield generated", "stars", stars.Len(), "shape", shape, "seed", seed)
	if stars.Len() == 0 {
		return nil, nil
	}

	return rc.CompileDrawPass(renderer.DrawPassDescriptor{
		Label:  "starfield",
		Shader: shaders.Starfield,
		Attributes: []renderer.Attribute{
			{
				Name:     "position",
				Location: 0,
				Format:   wgpu.VertexFormat_Float32x3,
				Stride:   3 * 4,
				StepMode: wgpu.VertexStepMode_Instance,
				Data:     stars.Bytes(),
			},
		},
		Count:      4,
		Instances:  uint32(stars.Len()),
		Topology:   wgpu.PrimitiveTopology_TriangleStrip,
		Blend:      &renderer.AlphaBlending,
		DepthWrite: true,
		PointSize:  cfg.PointSize,
		Uniforms:   scene.StarfieldUniforms(cfg.Translate),
	})
}
