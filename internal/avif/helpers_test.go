package avif_test

import (
	"context"
	"errors"
	"image"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"autoavif/internal/avif"
	"autoavif/internal/fileutil"
	"autoavif/internal/hooks"
	"autoavif/internal/magick"
	"autoavif/internal/services"
	"autoavif/internal/variant"
)

type fakeEncoder[H any] struct {
	name        string
	unavailable bool
	err         error
	panicMsg    string
	block       bool
	// hangProbe makes Available wait for its context to end.
	hangProbe bool

	mu          sync.Mutex
	calls       int
	params      avif.Params
	sawExisting bool
}

func (f *fakeEncoder[H]) Name() string { return f.name }

func (f *fakeEncoder[H]) Available(ctx context.Context) error {
	if f.hangProbe {
		<-ctx.Done()
		return ctx.Err()
	}
	if f.unavailable {
		return services.Wrap(services.ErrCapability, "test", "available", "disabled", nil)
	}
	return nil
}

func (f *fakeEncoder[H]) Encode(ctx context.Context, _ H, path string, p avif.Params) error {
	f.mu.Lock()
	f.calls++
	f.params = p
	if fileutil.IsFile(path) {
		f.sawExisting = true
	}
	f.mu.Unlock()

	switch {
	case f.panicMsg != "":
		panic(f.panicMsg)
	case f.block:
		<-ctx.Done()
		return ctx.Err()
	case f.err != nil:
		return f.err
	}
	return os.WriteFile(path, []byte("avif"), 0o644)
}

func (f *fakeEncoder[H]) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func (f *fakeEncoder[H]) SawExisting() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sawExisting
}

// fakeHost is a minimal generator: it fires the hook points around a fake
// resize that writes the variant file.
type fakeHost struct {
	reg *hooks.Registry
	// engine selects which save-ready point fires: "raster", "magick", or "" for none.
	engine string

	mu       sync.Mutex
	requests []variant.Request
	forced   []bool
	events   []*hooks.ResizeEvent
}

func (h *fakeHost) Size(ctx context.Context, req variant.Request) (*variant.Variant, error) {
	h.mu.Lock()
	h.requests = append(h.requests, req)
	h.forced = append(h.forced, avif.IsForcedPass(ctx))
	h.mu.Unlock()

	ev := h.reg.NewResizeEvent(req)
	h.mu.Lock()
	h.events = append(h.events, ev)
	h.mu.Unlock()

	h.reg.FireBeforeResize(ctx, ev)
	target := ev.Target
	if fileutil.IsFile(target.Path) && !req.Options.Bool(variant.OptionForceNew, false) {
		ev.Result = &target
		h.reg.FireAfterResize(ctx, ev)
		return &target, nil
	}

	switch h.engine {
	case "raster":
		ev.FireRasterSaveReady(ctx, image.NewRGBA(image.Rect(0, 0, 2, 2)), target.Path)
	case "magick":
		ev.FireMagickSaveReady(ctx, &magick.Image{Blob: []byte("blob"), Format: "JPEG"}, target.Path)
	}
	if err := os.WriteFile(target.Path, []byte("variant"), 0o644); err != nil {
		return nil, err
	}
	ev.Result = &target
	h.reg.FireAfterResize(ctx, ev)
	return &target, nil
}

func (h *fakeHost) Variations(src variant.Source) ([]variant.Variant, error) {
	entries, err := os.ReadDir(src.Dir())
	if err != nil {
		return nil, err
	}
	var out []variant.Variant
	for _, entry := range entries {
		if v, ok := variant.Parse(src, entry.Name()); ok {
			out = append(out, v)
		}
	}
	return out, nil
}

func (h *fakeHost) Requests() []variant.Request {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]variant.Request(nil), h.requests...)
}

func (h *fakeHost) lastEvent() *hooks.ResizeEvent {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.events[len(h.events)-1]
}

type fixture struct {
	dir    string
	source variant.Source
	reg    *hooks.Registry
	host   *fakeHost
	raster *fakeEncoder[image.Image]
	magick *fakeEncoder[*magick.Image]
	mgr    *avif.Manager
}

func newFixture(t *testing.T, settings avif.Settings, opts ...avif.Option) *fixture {
	t.Helper()
	dir := t.TempDir()
	src := variant.Source{Path: filepath.Join(dir, "photo.jpg"), Field: "images", Record: "1001"}
	if err := os.WriteFile(src.Path, []byte("original"), 0o644); err != nil {
		t.Fatalf("write source: %v", err)
	}
	reg := hooks.NewRegistry(nil)
	f := &fixture{
		dir:    dir,
		source: src,
		reg:    reg,
		host:   &fakeHost{reg: reg, engine: "raster"},
		raster: &fakeEncoder[image.Image]{name: "raster"},
		magick: &fakeEncoder[*magick.Image]{name: "magick"},
	}
	all := append([]avif.Option{avif.WithRasterEncoder(f.raster), avif.WithMagickEncoder(f.magick)}, opts...)
	mgr, err := avif.New(settings, all...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	f.mgr = mgr
	mgr.Attach(reg, f.host)
	return f
}

func (f *fixture) path(name string) string {
	return filepath.Join(f.dir, name)
}

func (f *fixture) size(t *testing.T, w, h int, admin bool) *variant.Variant {
	t.Helper()
	v, err := f.host.Size(context.Background(), variant.Request{Source: f.source, Width: w, Height: h, Admin: admin})
	if err != nil {
		t.Fatalf("Size(%d, %d): %v", w, h, err)
	}
	return v
}

func testSettings() avif.Settings {
	s := avif.DefaultSettings()
	s.EncodeTimeout = 2 * time.Second
	return s
}

func writeFile(t *testing.T, path, contents string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return string(data)
}

func mustNotExist(t *testing.T, path string) {
	t.Helper()
	if fileutil.IsFile(path) {
		t.Fatalf("expected %s to be absent", path)
	}
}

func mustExist(t *testing.T, path string) {
	t.Helper()
	if !fileutil.IsFile(path) {
		t.Fatalf("expected %s to exist", path)
	}
}

var errBoom = errors.New("boom")
