// Package magick wraps the ImageMagick command-line tool.
//
// Images travel as in-memory blobs: Resize returns the resized image encoded in
// the source format, and Write re-encodes a blob to a file in any format the
// installation supports. The binary is executed through a package-level
// command seam so tests can substitute a helper process.
package magick
