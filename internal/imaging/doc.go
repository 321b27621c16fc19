// Package imaging is the host side of the variant lifecycle: a Generator that
// produces resized variants through a pluggable engine and a Store that lists
// and deletes them. Both fire the hooks.Registry extension points so
// subscribers such as the AVIF lifecycle manager stay in step.
//
// Two engines exist and an installation uses exactly one of them: the pure-Go
// raster engine (golang.org/x/image) and the ImageMagick engine.
package imaging
