// Package atlas paints a skybox texture: six cube faces laid out on the
// same 4x3 grid the skybox geometry samples from.
package atlas

import (
	"fmt"
	"image"
	"math/rand/v2"

	"github.com/gogpu/gg"

	"starfield/scene"
)

// Options control the generated atlas.
type Options struct {
	Cell  int    // edge of one face in pixels
	Seed  uint64 // star placement
	Stars int    // stars per face
}

// DefaultOptions produce a 512x384 atlas, the size bundled in res.
var DefaultOptions = Options{Cell: 128, Seed: 1, Stars: 120}

// Per-face sky gradients, top to bottom of each cell.
var facePalette = [scene.NumFaces][2]gg.RGBA{
	scene.FaceTop:    {gg.RGB(0.02, 0.01, 0.08), gg.RGB(0.05, 0.03, 0.15)},
	scene.FaceBottom: {gg.RGB(0.08, 0.02, 0.05), gg.RGB(0.01, 0.00, 0.02)},
	scene.FaceFront:  {gg.RGB(0.05, 0.03, 0.15), gg.RGB(0.15, 0.04, 0.12)},
	scene.FaceBack:   {gg.RGB(0.03, 0.05, 0.14), gg.RGB(0.10, 0.02, 0.08)},
	scene.FaceLeft:   {gg.RGB(0.04, 0.02, 0.12), gg.RGB(0.12, 0.03, 0.10)},
	scene.FaceRight:  {gg.RGB(0.06, 0.04, 0.16), gg.RGB(0.14, 0.05, 0.11)},
}

// CellRect is the pixel rectangle of grid cell (col, row) in an atlas of
// w by h pixels.
func CellRect(col, row, w, h int) image.Rectangle {
	cw, ch := w/scene.AtlasColumns, h/scene.AtlasRows
	return image.Rect(col*cw, row*ch, (col+1)*cw, (row+1)*ch)
}

// FaceRect is the pixel rectangle a face occupies.
func FaceRect(f scene.Face, w, h int) image.Rectangle {
	col, row := scene.FaceCell(f)
	return CellRect(col, row, w, h)
}

// Generate paints the atlas. Cells no face maps to stay transparent.
func Generate(o Options) (*image.RGBA, error) {
	if o.Cell <= 0 {
		return nil, fmt.Errorf("atlas: cell size %d must be positive", o.Cell)
	}
	if o.Stars < 0 {
		return nil, fmt.Errorf("atlas: star count %d is negative", o.Stars)
	}

	w, h := o.Cell*scene.AtlasColumns, o.Cell*scene.AtlasRows
	dc := gg.NewContext(w, h)
	defer dc.Close()

	rng := rand.New(rand.NewPCG(o.Seed, o.Seed^0x9e3779b97f4a7c15))
	for f := range scene.Face(scene.NumFaces) {
		if err := paintFace(dc, rng, f, FaceRect(f, w, h), o.Stars); err != nil {
			return nil, fmt.Errorf("atlas: %s face: %w", f, err)
		}
	}

	img, ok := dc.Image().(*image.RGBA)
	if !ok {
		return nil, fmt.Errorf("atlas: unexpected image type %T", dc.Image())
	}
	return img, nil
}

func paintFace(dc *gg.Context, rng *rand.Rand, f scene.Face, r image.Rectangle, stars int) error {
	x, y := float64(r.Min.X), float64(r.Min.Y)
	size := float64(r.Dx())
	pal := facePalette[f]

	dc.SetFillBrush(gg.NewLinearGradientBrush(x, y, x, y+size).
		AddColorStop(0, pal[0]).
		AddColorStop(1, pal[1]))
	dc.DrawRectangle(x, y, size, size)
	if err := dc.Fill(); err != nil {
		return err
	}

	for range stars {
		radius := 0.4 + 1.2*rng.Float64()*rng.Float64()
		sx := x + radius + rng.Float64()*(size-2*radius)
		sy := y + radius + rng.Float64()*(size-2*radius)
		dc.SetRGBA(1, 1, 1, 0.35+0.65*rng.Float64())
		dc.DrawCircle(sx, sy, radius)
		if err := dc.Fill(); err != nil {
			return err
		}
	}

	// Faint seam so face edges can be told apart while debugging.
	dc.SetRGBA(1, 1, 1, 0.06)
	dc.SetLineWidth(1)
	dc.DrawRectangle(x+0.5, y+0.5, size-1, size-1)
	return dc.Stroke()
}
