// Package renderer owns the WebGPU device and swap chain for the process
// and turns draw pass descriptors into pipelines that can be submitted
// once per frame.
package renderer

import (
	"fmt"
	"strings"

	"github.com/rajveermalviya/go-webgpu/wgpu"

	"starfield/scene"
)

// Options configure adapter selection and presentation.
type Options struct {
	ForceFallbackAdapter bool
	LowPower             bool
	VSync                bool
}

// Context is the single renderer instance of the process.
type Context struct {
	surface      *wgpu.Surface
	swapChain    *wgpu.SwapChain
	depth        *wgpu.RenderPassDepthStencilAttachment
	depthTexture *wgpu.Texture
	depthView    *wgpu.TextureView
	device       *wgpu.Device
	queue        *wgpu.Queue
	config       *wgpu.SwapChainDescriptor
	passes       []*DrawPass
	textures     []*Texture
	frame        *frame
}

// frame is the state between ClearFrame and Present.
type frame struct {
	view       *wgpu.TextureView
	encoder    *wgpu.CommandEncoder
	clear      wgpu.Color
	clearDepth float32
	cleared    bool
}

func (f *frame) release() {
	if f.encoder != nil {
		f.encoder.Release()
	}
	if f.view != nil {
		f.view.Release()
	}
}

// SetNativeLogLevel forwards a level name (OFF, ERROR, WARN, INFO, DEBUG,
// TRACE) to wgpu-native. An empty name leaves the level alone.
func SetNativeLogLevel(name string) error {
	switch strings.ToUpper(name) {
	case "":
	case "OFF":
		wgpu.SetLogLevel(wgpu.LogLevel_Off)
	case "ERROR":
		wgpu.SetLogLevel(wgpu.LogLevel_Error)
	case "WARN":
		wgpu.SetLogLevel(wgpu.LogLevel_Warn)
	case "INFO":
		wgpu.SetLogLevel(wgpu.LogLevel_Info)
	case "DEBUG":
		wgpu.SetLogLevel(wgpu.LogLevel_Debug)
	case "TRACE":
		wgpu.SetLogLevel(wgpu.LogLevel_Trace)
	default:
		return fmt.Errorf("renderer: unknown wgpu log level %q", name)
	}
	return nil
}

func createDepthAttachment(device *wgpu.Device, config *wgpu.SwapChainDescriptor) (*wgpu.Texture, error) {
	return device.CreateTexture(&wgpu.TextureDescriptor{
		Label: "Depth Texture",
		Size: wgpu.Extent3D{
			Width:              config.Width,
			Height:             config.Height,
			DepthOrArrayLayers: 1,
		},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     wgpu.TextureDimension_2D,
		Format:        wgpu.TextureFormat_Depth32Float,
		Usage:         wgpu.TextureUsage_RenderAttachment,
	})
}

func (c *Context) createRenderPassDepthAttachmentView() (*wgpu.RenderPassDepthStencilAttachment, error) {
	if c.depthTexture != nil {
		c.depthTexture.Release()
		c.depthTexture = nil
	}
	if c.depthView != nil {
		c.depthView.Release()
		c.depthView = nil
	}
	depth, err := createDepthAttachment(c.device, c.config)
	if err != nil {
		return nil, err
	}
	c.depthTexture = depth
	depthView, err := depth.CreateView(nil)
	if err != nil {
		return nil, err
	}
	c.depthView = depthView
	return &wgpu.RenderPassDepthStencilAttachment{
		View:              depthView,
		DepthLoadOp:       wgpu.LoadOp_Clear,
		DepthStoreOp:      wgpu.StoreOp_Store,
		DepthClearValue:   1.0,
		StencilLoadOp:     wgpu.LoadOp_Clear,
		StencilStoreOp:    wgpu.StoreOp_Store,
		StencilClearValue: wgpu.LimitU32Undefined,
		StencilReadOnly:   false,
	}, nil
}

// New creates the renderer for the surface described by desc.
func New(desc *wgpu.SurfaceDescriptor, width, height int, opts Options) (c *Context, err error) {
	defer func() {
		if err != nil {
			c.Destroy()
			c = nil
		}
	}()
	c = &Context{}

	instance := wgpu.CreateInstance(nil)
	defer instance.Release()

	c.surface = instance.CreateSurface(desc)

	power := wgpu.PowerPreference_HighPerformance
	if opts.LowPower {
		power = wgpu.PowerPreference_LowPower
	}
	adapter, err := instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		ForceFallbackAdapter: opts.ForceFallbackAdapter,
		CompatibleSurface:    c.surface,
		PowerPreference:      power,
	})
	if err != nil {
		return c, fmt.Errorf("renderer: request adapter: %w", err)
	}
	defer adapter.Release()

	c.device, err = adapter.RequestDevice(nil)
	if err != nil {
		return c, fmt.Errorf("renderer: request device: %w", err)
	}
	c.queue = c.device.GetQueue()

	caps := c.surface.GetCapabilities(adapter)
	if len(caps.Formats) == 0 || len(caps.AlphaModes) == 0 {
		return c, fmt.Errorf("renderer: surface is not compatible with the adapter")
	}

	present := wgpu.PresentMode_Immediate
	if opts.VSync {
		present = wgpu.PresentMode_Fifo
	}
	c.config = &wgpu.SwapChainDescriptor{
		Usage:       wgpu.TextureUsage_RenderAttachment,
		Format:      caps.Formats[0],
		Width:       uint32(max(width, 1)),
		Height:      uint32(max(height, 1)),
		PresentMode: present,
		AlphaMode:   caps.AlphaModes[0],
	}

	c.swapChain, err = c.device.CreateSwapChain(c.surface, c.config)
	if err != nil {
		return c, fmt.Errorf("renderer: create swap chain: %w", err)
	}
	c.depth, err = c.createRenderPassDepthAttachmentView()
	if err != nil {
		return c, fmt.Errorf("renderer: create depth buffer: %w", err)
	}

	Logger().Info("renderer ready",
		"format", c.config.Format,
		"width", c.config.Width,
		"height", c.config.Height,
		"vsync", opts.VSync)
	return c, nil
}

// Viewport is the current drawable size.
func (c *Context) Viewport() scene.Viewport {
	return scene.Viewport{Width: int(c.config.Width), Height: int(c.config.Height)}
}

// Resize rebuilds the swap chain and depth buffer. Zero sizes (minimised
// windows) are ignored.
func (c *Context) Resize(width, height int) error {
	if width <= 0 || height <= 0 {
		return nil
	}
	c.config.Width = uint32(width)
	c.config.Height = uint32(height)

	if c.swapChain != nil {
		c.swapChain.Release()
		c.swapChain = nil
	}
	var err error
	c.swapChain, err = c.device.CreateSwapChain(c.surface, c.config)
	if err != nil {
		return fmt.Errorf("renderer: resize swap chain: %w", err)
	}
	c.depth, err = c.createRenderPassDepthAttachmentView()
	if err != nil {
		return fmt.Errorf("renderer: resize depth buffer: %w", err)
	}
	Logger().Debug("resized", "width", width, "height", height)
	return nil
}

// ClearFrame starts a frame whose colour and depth are reset to the given
// values. The clear is carried out by the first pass submitted, or by
// Present if nothing is drawn.
func (c *Context) ClearFrame(color scene.Color, depth float32) error {
	if c.frame != nil {
		Logger().Warn("previous frame was never presented")
		c.frame.release()
		c.frame = nil
	}

	view, err := c.swapChain.GetCurrentTextureView()
	if err != nil {
		return surfaceError(err)
	}
	encoder, err := c.device.CreateCommandEncoder(nil)
	if err != nil {
		view.Release()
		return err
	}
	c.frame = &frame{
		view:       view,
		encoder:    encoder,
		clear:      clearValue(color, isSRGB(c.config.Format)),
		clearDepth: depth,
	}
	return nil
}

// passAttachments builds the attachments of the next pass of f. The first
// pass of a frame clears colour and depth; later ones load what is already
// there.
func passAttachments(f *frame, depth wgpu.RenderPassDepthStencilAttachment) (wgpu.RenderPassColorAttachment, wgpu.RenderPassDepthStencilAttachment) {
	load := wgpu.LoadOp_Load
	if !f.cleared {
		load = wgpu.LoadOp_Clear
	}
	depth.DepthLoadOp = load
	depth.DepthClearValue = f.clearDepth
	return wgpu.RenderPassColorAttachment{
		View:       f.view,
		LoadOp:     load,
		StoreOp:    wgpu.StoreOp_Store,
		ClearValue: f.clear,
	}, depth
}

// beginPass opens a render pass on the current frame.
func (c *Context) beginPass() (*wgpu.RenderPassEncoder, error) {
	f := c.frame
	if f == nil {
		return nil, ErrNoFrame
	}
	color, depth := passAttachments(f, *c.depth)
	pass := f.encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		ColorAttachments:       []wgpu.RenderPassColorAttachment{color},
		DepthStencilAttachment: &depth,
	})
	f.cleared = true
	return pass, nil
}

// Present submits the frame's commands and shows the result.
func (c *Context) Present() error {
	f := c.frame
	if f == nil {
		return ErrNoFrame
	}
	defer func() {
		f.release()
		c.frame = nil
	}()

	if !f.cleared {
		pass, err := c.beginPass()
		if err != nil {
			return err
		}
		pass.End()
		pass.Release()
	}

	cmdBuffer, err := f.encoder.Finish(nil)
	if err != nil {
		return err
	}
	defer cmdBuffer.Release()

	c.queue.Submit(cmdBuffer)
	c.swapChain.Present()
	return nil
}

// Destroy releases every GPU object owned by the context, including
// passes and textures created from it.
func (c *Context) Destroy() {
	if c == nil {
		return
	}
	if c.frame != nil {
		c.frame.release()
		c.frame = nil
	}
	for _, p := range c.passes {
		p.Release()
	}
	c.passes = nil
	for _, t := range c.textures {
		t.Release()
	}
	c.textures = nil
	if c.swapChain != nil {
		c.swapChain.Release()
		c.swapChain = nil
	}
	if c.depthView != nil {
		c.depthView.Release()
		c.depthView = nil
	}
	if c.depthTexture != nil {
		c.depthTexture.Release()
		c.depthTexture = nil
	}
	c.config = nil
	if c.queue != nil {
		c.queue.Release()
		c.queue = nil
	}
	if c.device != nil {
		c.device.Release()
		c.device = nil
	}
	if c.surface != nil {
		c.surface.Release()
		c.surface = nil
	}
}
