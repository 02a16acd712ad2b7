package assets

import (
	"errors"
	"fmt"
	"image"
	"image/draw"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/webp"

	"starfield/scene"
)

// MaxTextureSize is the largest edge uploaded as is; bigger images are
// scaled down to fit. WebGPU guarantees 8192 for 2D textures.
const MaxTextureSize = 8192

// ErrEmptyImage is returned for images with no pixels.
var ErrEmptyImage = errors.New("assets: empty image")

// DecodeRGBA converts img to tightly packed RGBA with its origin at (0, 0),
// scaling it down when an edge exceeds MaxTextureSize.
func DecodeRGBA(img image.Image) (*image.RGBA, error) {
	b := img.Bounds()
	if b.Empty() {
		return nil, ErrEmptyImage
	}

	w, h := b.Dx(), b.Dy()
	if w > MaxTextureSize || h > MaxTextureSize {
		scale := float64(MaxTextureSize) / float64(max(w, h))
		w = max(int(float64(w)*scale), 1)
		h = max(int(float64(h)*scale), 1)
		dst := image.NewRGBA(image.Rect(0, 0, w, h))
		xdraw.CatmullRom.Scale(dst, dst.Bounds(), img, b, xdraw.Src, nil)
		return dst, nil
	}

	if rgba, ok := img.(*image.RGBA); ok && b.Min == (image.Point{}) && rgba.Stride == 4*w {
		return rgba, nil
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return dst, nil
}

// ValidateAtlas checks that img can be split into the skybox atlas grid.
func ValidateAtlas(img image.Image) error {
	b := img.Bounds()
	if b.Empty() {
		return ErrEmptyImage
	}
	if b.Dx()*scene.AtlasRows != b.Dy()*scene.AtlasColumns {
		return fmt.Errorf("assets: atlas is %dx%d, want a %d:%d aspect", b.Dx(), b.Dy(), scene.AtlasColumns, scene.AtlasRows)
	}
	return nil
}
