// skyboxgen writes a procedural skybox atlas the demo can load.
package main

import (
	"flag"
	"fmt"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"

	"starfield/atlas"
)

func main() {
	out := flag.String("o", filepath.Join("res", "skybox.png"), "output PNG path")
	cell := flag.Int("cell", atlas.DefaultOptions.Cell, "face edge in pixels")
	seed := flag.Uint64("seed", atlas.DefaultOptions.Seed, "star placement seed")
	stars := flag.Int("stars", atlas.DefaultOptions.Stars, "stars per face")
	flag.Parse()

	if err := run(*out, atlas.Options{Cell: *cell, Seed: *seed, Stars: *stars}); err != nil {
		slog.Error("skyboxgen failed", "err", err)
		os.Exit(1)
	}
}

func run(out string, o atlas.Options) error {
	img, err := atlas.Generate(o)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
		return err
	}
	f, err := os.Create(out)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", out, err)
	}
	if err := f.Close(); err != nil {
		return err
	}
	slog.Info("wrote skybox atlas", "path", out, "width", img.Bounds().Dx(), "height", img.Bounds().Dy())
	return nil
}
