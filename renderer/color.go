package renderer

import (
	"math"

	"github.com/rajveermalviya/go-webgpu/wgpu"

	"starfield/scene"
)

// isSRGB reports whether writes to f are encoded from linear to sRGB.
func isSRGB(f wgpu.TextureFormat) bool {
	switch f {
	case wgpu.TextureFormat_RGBA8UnormSrgb, wgpu.TextureFormat_BGRA8UnormSrgb:
		return true
	}
	return false
}

// textureFormat picks the sampled texture format for a surface so texels
// reach the screen unchanged: sRGB decode on sample pairs with sRGB encode
// on write, and a plain surface gets a plain texture.
func textureFormat(surface wgpu.TextureFormat) wgpu.TextureFormat {
	if isSRGB(surface) {
		return wgpu.TextureFormat_RGBA8UnormSrgb
	}
	return wgpu.TextureFormat_RGBA8Unorm
}

// clearValue converts a display colour to the value the surface stores.
// Alpha is never encoded.
func clearValue(c scene.Color, srgb bool) wgpu.Color {
	if !srgb {
		return wgpu.Color{R: c.R, G: c.G, B: c.B, A: c.A}
	}
	return wgpu.Color{R: srgbToLinear(c.R), G: srgbToLinear(c.G), B: srgbToLinear(c.B), A: c.A}
}

func srgbToLinear(v float64) float64 {
	if v <= 0.04045 {
		return v / 12.92
	}
	return math.Pow((v+0.055)/1.055, 2.4)
}
