package renderer

import (
	"fmt"
	"image"

	"github.com/rajveermalviya/go-webgpu/wgpu"
)

// Texture is a sampled RGBA8 image resident on the GPU.
type Texture struct {
	Width, Height int

	texture *wgpu.Texture
	view    *wgpu.TextureView
	sampler *wgpu.Sampler
}

// CreateTexture uploads img in a format matching the surface and pairs it with a linear, edge-clamped
// sampler. The texture belongs to the context and is released by Destroy.
func (c *Context) CreateTexture(label string, img *image.RGBA) (t *Texture, err error) {
	b := img.Bounds()
	if b.Empty() {
		return nil, fmt.Errorf("renderer: texture %s: empty image", label)
	}
	t = &Texture{Width: b.Dx(), Height: b.Dy()}
	defer func() {
		if err != nil {
			t.Release()
			t = nil
		}
	}()

	extent := wgpu.Extent3D{
		Width:              uint32(t.Width),
		Height:             uint32(t.Height),
		DepthOrArrayLayers: 1,
	}
	t.texture, err = c.device.CreateTexture(&wgpu.TextureDescriptor{
		Label:         label,
		Size:          extent,
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     wgpu.TextureDimension_2D,
		Format:        textureFormat(c.config.Format),
		Usage:         wgpu.TextureUsage_TextureBinding | wgpu.TextureUsage_CopyDst,
	})
	if err != nil {
		return t, fmt.Errorf("renderer: texture %s: %w", label, err)
	}

	t.view, err = t.texture.CreateView(nil)
	if err != nil {
		return t, fmt.Errorf("renderer: texture %s view: %w", label, err)
	}

	start := img.PixOffset(b.Min.X, b.Min.Y)
	c.queue.WriteTexture(
		t.texture.AsImageCopy(),
		img.Pix[start:],
		&wgpu.TextureDataLayout{
			Offset:       0,
			BytesPerRow:  uint32(img.Stride),
			RowsPerImage: wgpu.CopyStrideUndefined,
		},
		&extent,
	)

	t.sampler, err = c.device.CreateSampler(&wgpu.SamplerDescriptor{
		Label:          label + " Sampler",
		AddressModeU:   wgpu.AddressMode_ClampToEdge,
		AddressModeV:   wgpu.AddressMode_ClampToEdge,
		AddressModeW:   wgpu.AddressMode_ClampToEdge,
		MagFilter:      wgpu.FilterMode_Linear,
		MinFilter:      wgpu.FilterMode_Linear,
		MaxAnisotrophy: 1,
	})
	if err != nil {
		return t, fmt.Errorf("renderer: texture %s sampler: %w", label, err)
	}

	c.textures = append(c.textures, t)
	Logger().Debug("texture uploaded", "label", label, "width", t.Width, "height", t.Height)
	return t, nil
}

// Release frees the GPU objects behind t.
func (t *Texture) Release() {
	if t == nil {
		return
	}
	if t.sampler != nil {
		t.sampler.Release()
		t.sampler = nil
	}
	if t.view != nil {
		t.view.Release()
		t.view = nil
	}
	if t.texture != nil {
		t.texture.Release()
		t.texture = nil
	}
}
