package encoder

import (
	"bytes"
	"context"
	"image"
	"io"
	"sync"

	"github.com/gen2brain/avif"

	avifcore "autoavif/internal/avif"
	"autoavif/internal/fileutil"
	"autoavif/internal/services"
)

var avifEncode = avif.Encode

// Raster encodes image.Image values with libavif, loaded dynamically when a
// shared library is present and through the bundled WebAssembly build
// otherwise.
type Raster struct {
	once     sync.Once
	availErr error
}

// NewRaster constructs a raster encoder.
func NewRaster() *Raster {
	return &Raster{}
}

// Name identifies the encoder in logs.
func (r *Raster) Name() string {
	return "raster"
}

// Available probes the codec once by encoding a single pixel.
func (r *Raster) Available(context.Context) error {
	r.once.Do(func() {
		probe := image.NewRGBA(image.Rect(0, 0, 1, 1))
		if err := avifEncode(io.Discard, probe, avif.Options{Quality: 50, Speed: 10}); err != nil {
			r.availErr = services.Wrap(services.ErrCapability, "encoder", "raster probe", "avif codec unavailable", err)
		}
	})
	return r.availErr
}

// Backend reports whether the codec runs from a shared library or the bundled
// WebAssembly build.
func (r *Raster) Backend() string {
	if avif.Dynamic() == nil {
		return "libavif"
	}
	return "wasm"
}

// Encode buffers the AVIF stream and writes it atomically. Nothing is written
// once ctx is done.
func (r *Raster) Encode(ctx context.Context, img image.Image, path string, p avifcore.Params) error {
	if img == nil {
		return services.Wrap(services.ErrEncode, "encoder", "raster encode", "nil image", nil)
	}
	var buf bytes.Buffer
	opts := avif.Options{
		Quality:           p.Quality,
		QualityAlpha:      p.Quality,
		Speed:             p.Speed,
		ChromaSubsampling: image.YCbCrSubsampleRatio420,
	}
	if err := avifEncode(&buf, img, opts); err != nil {
		return services.Wrap(services.ErrEncode, "encoder", "raster encode", "", err)
	}
	if err := ctx.Err(); err != nil {
		return services.Wrap(services.ErrTimeout, "encoder", "raster encode", "abandoned before write", err)
	}
	if err := fileutil.WriteFileAtomic(path, buf.Bytes(), 0o644); err != nil {
		return services.Wrap(services.ErrEncode, "encoder", "raster write", "", err)
	}
	return nil
}
