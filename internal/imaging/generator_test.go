package imaging_test

import (
	"context"
	"errors"
	"image"
	"os"
	"testing"

	"autoavif/internal/hooks"
	"autoavif/internal/imaging"
	"autoavif/internal/services"
	"autoavif/internal/variant"
)

func TestGeneratorCreatesVariantAndSibling(t *testing.T) {
	h := newHarness(t, false)

	v, err := h.gen.Size(context.Background(), variant.Request{Source: h.source, Width: 30, Height: 20})
	if err != nil {
		t.Fatalf("Size: %v", err)
	}
	if v.Basename() != "photo.30x20.png" {
		t.Fatalf("unexpected variant %q", v.Basename())
	}
	cfg, format, err := imaging.DecodeConfig(v.Path)
	if err != nil {
		t.Fatalf("decode variant: %v", err)
	}
	if format != "png" || cfg.Width != 30 || cfg.Height != 20 {
		t.Fatalf("unexpected variant %s %dx%d", format, cfg.Width, cfg.Height)
	}
	if !exists(h.path("photo.30x20.avif")) {
		t.Fatal("expected avif sibling")
	}
	if h.enc.sizes[0] != image.Pt(30, 20) {
		t.Fatalf("encoder received %v, want resized image", h.enc.sizes[0])
	}
}

func TestGeneratorCropSuffix(t *testing.T) {
	h := newHarness(t, false)
	v, err := h.gen.Size(context.Background(), variant.Request{
		Source:  h.source,
		Width:   20,
		Height:  20,
		Options: variant.ParseOptionString("north"),
	})
	if err != nil {
		t.Fatalf("Size: %v", err)
	}
	if v.Basename() != "photo.20x20-n.png" {
		t.Fatalf("unexpected variant %q", v.Basename())
	}
	if !exists(h.path("photo.20x20-n.avif")) {
		t.Fatal("expected avif sibling")
	}
}

func TestGeneratorServesExistingVariant(t *testing.T) {
	h := newHarness(t, false)
	req := variant.Request{Source: h.source, Width: 30, Height: 20}
	if _, err := h.gen.Size(context.Background(), req); err != nil {
		t.Fatalf("Size: %v", err)
	}
	if _, err := h.gen.Size(context.Background(), req); err != nil {
		t.Fatalf("Size: %v", err)
	}
	if h.enc.count() != 1 {
		t.Fatalf("expected a single encode, got %d", h.enc.count())
	}

	req.Options = variant.Options{variant.OptionForceNew: "true"}
	if _, err := h.gen.Size(context.Background(), req); err != nil {
		t.Fatalf("Size: %v", err)
	}
	if h.enc.count() != 2 {
		t.Fatalf("forceNew must regenerate, got %d encodes", h.enc.count())
	}
}

func TestGeneratorBackfillsExistingVariant(t *testing.T) {
	h := newHarness(t, true)
	req := variant.Request{Source: h.source, Width: 40, Height: 30}
	if _, err := h.gen.Size(context.Background(), req); err != nil {
		t.Fatalf("Size: %v", err)
	}
	if err := os.Remove(h.path("photo.40x30.avif")); err != nil {
		t.Fatalf("remove sibling: %v", err)
	}

	var after int
	h.reg.OnAfterResize(func(context.Context, *hooks.ResizeEvent) { after++ })
	if _, err := h.gen.Size(context.Background(), req); err != nil {
		t.Fatalf("Size: %v", err)
	}
	if !exists(h.path("photo.40x30.avif")) {
		t.Fatal("expected backfilled sibling")
	}
	if h.enc.count() != 2 {
		t.Fatalf("expected one extra encode, got %d total", h.enc.count())
	}
	if after != 2 {
		t.Fatalf("expected original call plus one forced pass, got %d after-resize events", after)
	}
}

func TestGeneratorAdminThumbnailHasNoSibling(t *testing.T) {
	h := newHarness(t, true)
	writePNG(t, h.source.Path, 600, 400)
	if _, err := h.gen.Size(context.Background(), variant.Request{Source: h.source, Width: 260, Height: 260, Admin: true}); err != nil {
		t.Fatalf("Size: %v", err)
	}
	if exists(h.path("photo.260x260.avif")) {
		t.Fatal("admin thumbnail must not get a sibling")
	}
	if h.enc.count() != 0 {
		t.Fatalf("expected no encode, got %d", h.enc.count())
	}
}

func TestGeneratorErrors(t *testing.T) {
	h := newHarness(t, false)
	_, err := h.gen.Size(context.Background(), variant.Request{Source: h.source})
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}

	missing := variant.Source{Path: h.path("missing.png")}
	_, err = h.gen.Size(context.Background(), variant.Request{Source: missing, Width: 10})
	if !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	webp := variant.Source{Path: h.path("photo.webp")}
	if err := os.WriteFile(webp.Path, []byte("not really webp"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	var failed bool
	h.reg.OnAfterResize(func(_ context.Context, ev *hooks.ResizeEvent) {
		failed = ev.Result == nil
	})
	_, err = h.gen.Size(context.Background(), variant.Request{Source: webp, Width: 10})
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error for webp output, got %v", err)
	}
	if !failed {
		t.Fatal("after-resize must see a nil result on failure")
	}
}

func TestGeneratorStampsCorrelationID(t *testing.T) {
	h := newHarness(t, false)
	var seen string
	h.reg.OnBeforeResize(func(ctx context.Context, _ *hooks.ResizeEvent) {
		seen, _ = services.RequestIDFromContext(ctx)
	})
	if _, err := h.gen.Size(context.Background(), variant.Request{Source: h.source, Width: 10}); err != nil {
		t.Fatalf("Size: %v", err)
	}
	if seen == "" {
		t.Fatal("expected correlation id on the event context")
	}

	ctx := services.WithRequestID(context.Background(), "fixed")
	if _, err := h.gen.Size(ctx, variant.Request{Source: h.source, Width: 12}); err != nil {
		t.Fatalf("Size: %v", err)
	}
	if seen != "fixed" {
		t.Fatalf("expected caller correlation id, got %q", seen)
	}
}

// diskFullEngine announces the resized image and then fails to write it.
type diskFullEngine struct{}

func (diskFullEngine) Name() string { return "diskfull" }

func (diskFullEngine) Render(ctx context.Context, ev *hooks.ResizeEvent, spec imaging.Spec) error {
	ev.FireRasterSaveReady(ctx, image.NewRGBA(image.Rect(0, 0, spec.Width, spec.Height)), spec.Target)
	return errors.New("no space left on device")
}

func (diskFullEngine) Announce(context.Context, *hooks.ResizeEvent, string) error { return nil }

func TestGeneratorFailedWriteDropsSibling(t *testing.T) {
	h := newHarness(t, false)
	gen := imaging.NewGenerator(h.reg, diskFullEngine{})

	_, err := gen.Size(context.Background(), variant.Request{Source: h.source, Width: 30, Height: 20})
	if err == nil {
		t.Fatal("expected render error")
	}
	if h.enc.count() != 1 {
		t.Fatalf("expected the sibling to be encoded before the write, got %d encodes", h.enc.count())
	}
	if exists(h.path("photo.30x20.png")) {
		t.Fatal("variant must not exist after a failed write")
	}
	if exists(h.path("photo.30x20.avif")) {
		t.Fatal("sibling must not outlive a variant that was never written")
	}
}

func TestGeneratorFailedRenderKeepsUnrelatedSibling(t *testing.T) {
	h := newHarness(t, false)
	if _, err := h.gen.Size(context.Background(), variant.Request{Source: h.source, Width: 30, Height: 20}); err != nil {
		t.Fatalf("Size: %v", err)
	}
	webp := variant.Source{Path: h.path("photo.webp")}
	if err := os.WriteFile(webp.Path, []byte("not really webp"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := h.gen.Size(context.Background(), variant.Request{Source: webp, Width: 30, Height: 20}); err == nil {
		t.Fatal("expected render error")
	}
	if !exists(h.path("photo.30x20.avif")) {
		t.Fatal("a render that never reached save-ready must leave other siblings alone")
	}
}

func TestGeneratorReannounceEncodesStoredVariant(t *testing.T) {
	h := newHarness(t, false)
	v, err := h.gen.Size(context.Background(), variant.Request{
		Source:  h.source,
		Width:   30,
		Height:  30,
		Options: variant.Options{variant.OptionCropping: "false"},
	})
	if err != nil {
		t.Fatalf("Size: %v", err)
	}
	if err := os.Remove(h.path("photo.30x30-fit.avif")); err != nil {
		t.Fatalf("remove sibling: %v", err)
	}
	before, err := os.ReadFile(v.Path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var afterFired bool
	h.reg.OnAfterResize(func(context.Context, *hooks.ResizeEvent) { afterFired = true })

	if err := h.gen.Reannounce(context.Background(), *v); err != nil {
		t.Fatalf("Reannounce: %v", err)
	}

	if !exists(h.path("photo.30x30-fit.avif")) {
		t.Fatal("expected sibling rebuilt from the stored variant")
	}
	if got := h.enc.sizes[len(h.enc.sizes)-1]; got != image.Pt(30, 20) {
		t.Fatalf("encoder received %v, want the stored 30x20 variant", got)
	}
	after, err := os.ReadFile(v.Path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(before) != string(after) {
		t.Fatal("variant file must not be rewritten")
	}
	if afterFired {
		t.Fatal("after-resize must not fire for a reannounce")
	}

	missing := *v
	missing.Path = h.path("photo.99x99.png")
	if err := h.gen.Reannounce(context.Background(), missing); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
