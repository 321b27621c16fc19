package imaging

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"

	"golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	"golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"autoavif/internal/fileutil"
	"autoavif/internal/hooks"
	"autoavif/internal/services"
)

// Raster is the pure-Go engine.
type Raster struct {
	scaler draw.Scaler
}

// NewRaster constructs the raster engine with Catmull-Rom resampling.
func NewRaster() *Raster {
	return &Raster{scaler: draw.CatmullRom}
}

// Name identifies the engine.
func (r *Raster) Name() string {
	return "raster"
}

// Render decodes, scales, crops, announces, encodes, and writes.
func (r *Raster) Render(ctx context.Context, ev *hooks.ResizeEvent, spec Spec) error {
	format := formatForExt(filepath.Ext(spec.Target))
	if format == "" || format == "WEBP" {
		return services.Wrap(services.ErrValidation, "imaging", "raster", fmt.Sprintf("cannot write %s files", filepath.Ext(spec.Target)), nil)
	}
	src, err := decodeFile(spec.Source)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	out := r.resize(src, spec)
	ev.FireRasterSaveReady(ctx, out, spec.Target)

	data, err := encodeRaster(out, format, spec.Quality)
	if err != nil {
		return services.Wrap(services.ErrEncode, "imaging", "raster encode", format, err)
	}
	if err := fileutil.WriteFileAtomic(spec.Target, data, 0o644); err != nil {
		return services.Wrap(services.ErrTransient, "imaging", "raster write", "", err)
	}
	return nil
}

// Announce decodes the variant at path and hands it to the raster observers.
func (r *Raster) Announce(ctx context.Context, ev *hooks.ResizeEvent, path string) error {
	img, err := decodeFile(path)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	ev.FireRasterSaveReady(ctx, img, path)
	return nil
}

func (r *Raster) resize(src image.Image, spec Spec) image.Image {
	plan := planLayout(src.Bounds().Size(), spec.Width, spec.Height, spec.Crop, spec.Gravity, spec.Upscale)
	scaled := image.NewRGBA(image.Rectangle{Max: plan.scaled})
	r.scaler.Scale(scaled, scaled.Bounds(), src, src.Bounds(), draw.Src, nil)
	if plan.crop == scaled.Bounds() {
		return scaled
	}
	out := image.NewRGBA(image.Rectangle{Max: plan.crop.Size()})
	draw.Draw(out, out.Bounds(), scaled, plan.crop.Min, draw.Src)
	return out
}

func decodeFile(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, services.Wrap(services.ErrNotFound, "imaging", "open source", path, err)
		}
		return nil, services.Wrap(services.ErrTransient, "imaging", "open source", path, err)
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, services.Wrap(services.ErrValidation, "imaging", "decode source", path, err)
	}
	return img, nil
}

// DecodeConfig reads the dimensions of an image file without decoding pixels.
func DecodeConfig(path string) (image.Config, string, error) {
	f, err := os.Open(path)
	if err != nil {
		return image.Config{}, "", err
	}
	defer f.Close()
	return image.DecodeConfig(f)
}

func encodeRaster(img image.Image, format string, quality int) ([]byte, error) {
	var buf bytes.Buffer
	var err error
	switch format {
	case "JPEG":
		if quality <= 0 {
			quality = jpeg.DefaultQuality
		}
		err = jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality})
	case "PNG":
		err = png.Encode(&buf, img)
	case "GIF":
		err = gif.Encode(&buf, img, nil)
	case "BMP":
		err = bmp.Encode(&buf, img)
	case "TIFF":
		err = tiff.Encode(&buf, img, &tiff.Options{Compression: tiff.Deflate})
	default:
		err = fmt.Errorf("unsupported format %s", format)
	}
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
