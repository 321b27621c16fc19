package encoder

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"github.com/google/uuid"

	avifcore "autoavif/internal/avif"
	"autoavif/internal/magick"
	"autoavif/internal/services"
)

// MagickWriter is the subset of the ImageMagick client the encoder needs.
type MagickWriter interface {
	SupportsWrite(ctx context.Context, format string) (bool, error)
	Write(ctx context.Context, img *magick.Image, path string, spec magick.WriteSpec) error
}

// Magick encodes ImageMagick blobs to AVIF.
type Magick struct {
	client MagickWriter

	mu       sync.Mutex
	checked  bool
	availErr error
}

// NewMagick constructs an encoder around client.
func NewMagick(client MagickWriter) *Magick {
	return &Magick{client: client}
}

// Name identifies the encoder in logs.
func (m *Magick) Name() string {
	return "magick"
}

// Available reports whether the installation can write AVIF. A definitive
// answer is cached; probe errors caused by ctx are retried next time.
func (m *Magick) Available(ctx context.Context) error {
	if m.client == nil {
		return services.Wrap(services.ErrCapability, "encoder", "magick probe", "no client", nil)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.checked {
		return m.availErr
	}
	ok, err := m.client.SupportsWrite(ctx, "AVIF")
	switch {
	case err != nil && ctx.Err() != nil:
		return services.Wrap(services.ErrCapability, "encoder", "magick probe", "", err)
	case err != nil:
		m.availErr = services.Wrap(services.ErrCapability, "encoder", "magick probe", "", err)
	case !ok:
		m.availErr = services.Wrap(services.ErrCapability, "encoder", "magick probe", "installed ImageMagick cannot write AVIF", nil)
	}
	m.checked = true
	return m.availErr
}

// Encode writes the blob as AVIF through a temporary file in the target
// directory, then renames it into place.
func (m *Magick) Encode(ctx context.Context, img *magick.Image, path string, p avifcore.Params) error {
	if img == nil || len(img.Blob) == 0 {
		return services.Wrap(services.ErrEncode, "encoder", "magick encode", "empty image", nil)
	}
	tmp := filepath.Join(filepath.Dir(path), "."+filepath.Base(path)+"."+uuid.NewString()+".tmp")
	spec := magick.WriteSpec{
		Format:  "AVIF",
		Quality: p.Quality,
		Defines: map[string]string{"heic:speed": strconv.Itoa(p.Speed)},
	}
	if err := m.client.Write(ctx, img, tmp, spec); err != nil {
		_ = os.Remove(tmp)
		if errors.Is(err, magick.ErrNotInstalled) {
			return services.Wrap(services.ErrCapability, "encoder", "magick encode", "", err)
		}
		return services.Wrap(services.ErrEncode, "encoder", "magick encode", "", err)
	}
	if err := ctx.Err(); err != nil {
		_ = os.Remove(tmp)
		return services.Wrap(services.ErrTimeout, "encoder", "magick encode", "abandoned before rename", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return services.Wrap(services.ErrEncode, "encoder", "magick rename", "", err)
	}
	return nil
}
