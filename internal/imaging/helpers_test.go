package imaging_test

import (
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"autoavif/internal/avif"
	"autoavif/internal/hooks"
	"autoavif/internal/imaging"
	"autoavif/internal/variant"
)

func writePNG(t *testing.T, path string, w, h int) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 200, A: 255})
		}
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
}

// sizeRecorder counts the dimensions of images handed to it.
type sizeRecorder struct {
	mu    sync.Mutex
	sizes []image.Point
}

func (r *sizeRecorder) Name() string                    { return "recorder" }
func (r *sizeRecorder) Available(context.Context) error { return nil }
func (r *sizeRecorder) Encode(_ context.Context, img image.Image, path string, _ avif.Params) error {
	r.mu.Lock()
	r.sizes = append(r.sizes, img.Bounds().Size())
	r.mu.Unlock()
	return os.WriteFile(path, []byte("avif"), 0o644)
}

func (r *sizeRecorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sizes)
}

type harness struct {
	dir    string
	source variant.Source
	reg    *hooks.Registry
	gen    *imaging.Generator
	enc    *sizeRecorder
}

func newHarness(t *testing.T, backfill bool) *harness {
	t.Helper()
	dir := t.TempDir()
	src := variant.Source{Path: filepath.Join(dir, "photo.png"), Field: "images", Record: "7"}
	writePNG(t, src.Path, 60, 40)

	reg := hooks.NewRegistry(nil)
	gen := imaging.NewGenerator(reg, imaging.NewRaster())
	enc := &sizeRecorder{}
	settings := avif.DefaultSettings()
	settings.CreateForExisting = backfill
	mgr, err := avif.New(settings, avif.WithRasterEncoder(enc))
	if err != nil {
		t.Fatalf("avif.New: %v", err)
	}
	mgr.Attach(reg, gen)
	return &harness{dir: dir, source: src, reg: reg, gen: gen, enc: enc}
}

func (h *harness) path(name string) string {
	return filepath.Join(h.dir, name)
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
