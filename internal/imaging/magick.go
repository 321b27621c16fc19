package imaging

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"autoavif/internal/fileutil"
	"autoavif/internal/hooks"
	"autoavif/internal/magick"
	"autoavif/internal/services"
)

// MagickResizer is the subset of the ImageMagick client the engine needs.
type MagickResizer interface {
	Resize(ctx context.Context, spec magick.ResizeSpec) (*magick.Image, error)
}

// Magick is the ImageMagick engine.
type Magick struct {
	client MagickResizer
}

// NewMagick constructs the engine around client.
func NewMagick(client MagickResizer) *Magick {
	return &Magick{client: client}
}

// Name identifies the engine.
func (m *Magick) Name() string {
	return "imagick"
}

// Render resizes to an in-memory blob, announces it, and writes it.
func (m *Magick) Render(ctx context.Context, ev *hooks.ResizeEvent, spec Spec) error {
	format := formatForExt(filepath.Ext(spec.Target))
	if format == "" {
		return services.Wrap(services.ErrValidation, "imaging", "magick", fmt.Sprintf("cannot write %s files", filepath.Ext(spec.Target)), nil)
	}
	img, err := m.client.Resize(ctx, magick.ResizeSpec{
		Source:  spec.Source,
		Width:   spec.Width,
		Height:  spec.Height,
		Crop:    spec.Crop,
		Gravity: spec.Gravity,
		Upscale: spec.Upscale,
		Quality: spec.Quality,
		Format:  format,
	})
	if err != nil {
		if errors.Is(err, magick.ErrNotInstalled) {
			return services.Wrap(services.ErrConfiguration, "imaging", "magick resize", "", err)
		}
		return services.Wrap(services.ErrTransient, "imaging", "magick resize", "", err)
	}

	ev.FireMagickSaveReady(ctx, img, spec.Target)

	if err := fileutil.WriteFileAtomic(spec.Target, img.Blob, 0o644); err != nil {
		return services.Wrap(services.ErrTransient, "imaging", "magick write", "", err)
	}
	return nil
}

// Announce reads the variant at path as a blob and hands it to the
// ImageMagick observers.
func (m *Magick) Announce(ctx context.Context, ev *hooks.ResizeEvent, path string) error {
	format := formatForExt(filepath.Ext(path))
	if format == "" {
		return services.Wrap(services.ErrValidation, "imaging", "magick", fmt.Sprintf("cannot read %s files", filepath.Ext(path)), nil)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return services.Wrap(services.ErrNotFound, "imaging", "magick read", path, err)
		}
		return services.Wrap(services.ErrTransient, "imaging", "magick read", path, err)
	}
	ev.FireMagickSaveReady(ctx, &magick.Image{Blob: data, Format: format}, path)
	return nil
}
