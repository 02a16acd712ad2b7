package assets

import (
	"errors"
	"image"
	"image/color"
	"testing"
)

func TestDecodeRGBA(t *testing.T) {
	src := image.NewNRGBA(image.Rect(10, 20, 14, 23))
	src.SetNRGBA(10, 20, color.NRGBA{0xff, 0, 0, 0xff})

	got, err := DecodeRGBA(src)
	if err != nil {
		t.Fatalf("DecodeRGBA: %v", err)
	}
	if got.Bounds() != image.Rect(0, 0, 4, 3) {
		t.Errorf("bounds = %v, want origin at 0,0", got.Bounds())
	}
	if c := got.RGBAAt(0, 0); c != (color.RGBA{0xff, 0, 0, 0xff}) {
		t.Errorf("pixel (0,0) = %v", c)
	}
	if len(got.Pix) != 4*3*4 {
		t.Errorf("len(Pix) = %d, want tightly packed", len(got.Pix))
	}
}

func TestDecodeRGBAPassesThrough(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 4, 3))
	got, err := DecodeRGBA(src)
	if err != nil {
		t.Fatal(err)
	}
	if got != src {
		t.Error("packed RGBA image was copied")
	}
}

func TestDecodeRGBADownscales(t *testing.T) {
	src := image.NewGray(image.Rect(0, 0, MaxTextureSize*2, 6))
	got, err := DecodeRGBA(src)
	if err != nil {
		t.Fatal(err)
	}
	if got.Bounds().Dx() != MaxTextureSize || got.Bounds().Dy() != 3 {
		t.Errorf("size = %v, want %dx3", got.Bounds().Size(), MaxTextureSize)
	}
}

func TestDecodeRGBAEmpty(t *testing.T) {
	if _, err := DecodeRGBA(image.NewRGBA(image.Rectangle{})); !errors.Is(err, ErrEmptyImage) {
		t.Errorf("err = %v, want ErrEmptyImage", err)
	}
}

func TestValidateAtlas(t *testing.T) {
	tests := []struct {
		w, h int
		ok   bool
	}{
		{4, 3, true},
		{1024, 768, true},
		{2048, 1536, true},
		{1024, 1024, false},
		{3, 4, false},
	}
	for _, tt := range tests {
		err := ValidateAtlas(image.NewRGBA(image.Rect(0, 0, tt.w, tt.h)))
		if (err == nil) != tt.ok {
			t.Errorf("ValidateAtlas(%dx%d) = %v, want ok=%v", tt.w, tt.h, err, tt.ok)
		}
	}
	if err := ValidateAtlas(image.NewRGBA(image.Rectangle{})); !errors.Is(err, ErrEmptyImage) {
		t.Errorf("empty: %v", err)
	}
}
