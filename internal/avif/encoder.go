package avif

import (
	"context"
	"image"

	"autoavif/internal/magick"
)

// Params are the encoder settings taken from configuration.
type Params struct {
	Quality int
	Speed   int
}

// Encoder writes an AVIF file at path from an engine-specific image handle.
type Encoder[H any] interface {
	Name() string
	// Available returns an error wrapping services.ErrCapability when the
	// encoder cannot run in this environment.
	Available(ctx context.Context) error
	Encode(ctx context.Context, handle H, path string, p Params) error
}

// RasterEncoder encodes decoded raster images.
type RasterEncoder = Encoder[image.Image]

// MagickEncoder encodes ImageMagick blobs.
type MagickEncoder = Encoder[*magick.Image]
