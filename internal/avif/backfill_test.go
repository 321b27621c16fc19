package avif_test

import (
	"os"
	"testing"

	"autoavif/internal/avif"
	"autoavif/internal/variant"
)

func backfillSettings() avif.Settings {
	s := testSettings()
	s.CreateForExisting = true
	return s
}

func TestBackfillCreatesMissingSiblingOnce(t *testing.T) {
	f := newFixture(t, backfillSettings())
	writeFile(t, f.path("photo.400x300.jpg"), "existing")

	f.size(t, 400, 300, false)

	mustExist(t, f.path("photo.400x300.avif"))
	reqs := f.host.Requests()
	if len(reqs) != 2 {
		t.Fatalf("expected original call plus one forced pass, got %d calls", len(reqs))
	}
	forced := reqs[1]
	if !forced.Options.Bool(variant.OptionForceNew, false) || !forced.Options.Bool(variant.OptionNoDelay, false) {
		t.Fatalf("forced pass must set forceNew and noDelay: %+v", forced.Options)
	}
	if forced.Width != 400 || forced.Height != 300 || forced.Source != f.source {
		t.Fatalf("forced pass must regenerate the same variant from the original: %+v", forced)
	}
	if !f.host.forced[1] || f.host.forced[0] {
		t.Fatalf("unexpected forced-pass markers: %v", f.host.forced)
	}
	if f.raster.Calls() != 1 {
		t.Fatalf("expected one encode, got %d", f.raster.Calls())
	}
}

func TestBackfillPreservesCallerOptions(t *testing.T) {
	f := newFixture(t, backfillSettings())
	writeFile(t, f.path("photo.400x300-n.jpg"), "existing")

	_, err := f.host.Size(t.Context(), variant.Request{
		Source:  f.source,
		Width:   400,
		Height:  300,
		Options: variant.Options{variant.OptionCropping: "north"},
	})
	if err != nil {
		t.Fatalf("Size: %v", err)
	}
	mustExist(t, f.path("photo.400x300-n.avif"))
	reqs := f.host.Requests()
	if got := reqs[len(reqs)-1].Options.Get(variant.OptionCropping); got != "north" {
		t.Fatalf("forced pass dropped cropping option: %q", got)
	}
	if reqs[0].Options.Get(variant.OptionForceNew) != "" {
		t.Fatal("caller options must not be mutated")
	}
}

func TestBackfillSkipsWhenSiblingExists(t *testing.T) {
	f := newFixture(t, backfillSettings())
	writeFile(t, f.path("photo.400x300.jpg"), "existing")
	writeFile(t, f.path("photo.400x300.avif"), "existing")

	f.size(t, 400, 300, false)

	if got := len(f.host.Requests()); got != 1 {
		t.Fatalf("expected no forced pass, got %d calls", got)
	}
}

func TestBackfillSkipsWhenAttemptAlreadyMade(t *testing.T) {
	f := newFixture(t, backfillSettings())
	f.raster.err = errBoom

	f.size(t, 300, 200, false)

	mustNotExist(t, f.path("photo.300x200.avif"))
	if got := len(f.host.Requests()); got != 1 {
		t.Fatalf("failed attempt must not trigger a forced pass, got %d calls", got)
	}
}

func TestBackfillDisabled(t *testing.T) {
	f := newFixture(t, testSettings())
	writeFile(t, f.path("photo.400x300.jpg"), "existing")

	f.size(t, 400, 300, false)

	mustNotExist(t, f.path("photo.400x300.avif"))
	if got := len(f.host.Requests()); got != 1 {
		t.Fatalf("expected no forced pass with backfill disabled, got %d calls", got)
	}
}

func TestBackfillSkipsAdminThumbnail(t *testing.T) {
	f := newFixture(t, backfillSettings())
	writeFile(t, f.path("photo.260x260.jpg"), "existing")

	f.size(t, 260, 260, true)

	if got := len(f.host.Requests()); got != 1 {
		t.Fatalf("expected no forced pass for admin thumbnail, got %d calls", got)
	}
}

func TestBackfillForcedPassCannotRecurse(t *testing.T) {
	f := newFixture(t, backfillSettings())
	// No save-ready point fires, so no pass ever records an attempt.
	f.host.engine = ""
	writeFile(t, f.path("photo.400x300.jpg"), "existing")

	f.size(t, 400, 300, false)

	if got := len(f.host.Requests()); got != 2 {
		t.Fatalf("expected exactly one forced pass, got %d calls", got)
	}
	mustNotExist(t, f.path("photo.400x300.avif"))
}

func TestBackfillIgnoresFailedGeneration(t *testing.T) {
	f := newFixture(t, backfillSettings())
	ev := f.reg.NewResizeEvent(variant.Request{Source: f.source, Width: 300, Height: 200})
	f.reg.FireAfterResize(t.Context(), ev)
	if got := len(f.host.Requests()); got != 0 {
		t.Fatalf("after-resize without a result must not regenerate, got %d calls", got)
	}
}

func TestBackfillFromFreshVariantDoesNothingExtra(t *testing.T) {
	f := newFixture(t, backfillSettings())
	f.size(t, 300, 200, false)
	if got := len(f.host.Requests()); got != 1 {
		t.Fatalf("fresh variant with sibling must not regenerate, got %d calls", got)
	}
	if _, err := os.Stat(f.path("photo.300x200.avif")); err != nil {
		t.Fatalf("expected sibling: %v", err)
	}
}
