// Package encoder provides the AVIF encoders the lifecycle manager drives:
// Raster for decoded images and Magick for ImageMagick blobs.
package encoder
