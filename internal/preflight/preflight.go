package preflight

import (
	"context"

	"autoavif/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// Capability is anything that can report whether it runs in this environment.
type Capability interface {
	Name() string
	Available(ctx context.Context) error
}

// MinFreeBytes is the free space below which the state directory check fails.
const MinFreeBytes = 64 << 20

// RunAll executes all applicable preflight checks for the given config. The
// encoder checks cover only the engine the configuration selects.
func RunAll(ctx context.Context, cfg *config.Config, raster, magick Capability) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{
		CheckDirectoryAccess("Log directory", cfg.Paths.LogDir),
		CheckDirectoryAccess("State directory", cfg.Paths.StateDir),
		CheckFreeSpace("State directory space", cfg.Paths.StateDir, MinFreeBytes),
	}

	if !cfg.AVIF.Enabled {
		results = append(results, Result{Name: "AVIF generation", Passed: true, Detail: "disabled by avif.enabled"})
		return results
	}

	switch cfg.Images.Engine {
	case config.EngineImagick:
		results = append(results, CheckEncoder(ctx, magick, "The ImageMagick installation does not support AVIF format"))
	default:
		results = append(results, CheckEncoder(ctx, raster, "Your environment does not support AVIF format"))
	}
	return results
}
