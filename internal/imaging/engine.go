package imaging

import (
	"context"
	"strings"

	"autoavif/internal/hooks"
)

// Spec is a single resize-and-save operation.
type Spec struct {
	Source  string
	Target  string
	Width   int
	Height  int
	Crop    bool
	Gravity string
	Upscale bool
	Quality int
}

// Engine resizes a source image, announces the result on the event's
// save-ready point, and writes the target file.
type Engine interface {
	Name() string
	Render(ctx context.Context, ev *hooks.ResizeEvent, spec Spec) error
	// Announce loads the variant already written at path and fires the
	// save-ready point with it. The file is not rewritten.
	Announce(ctx context.Context, ev *hooks.ResizeEvent, path string) error
}

// formatForExt maps a file extension to an upper-case format name.
func formatForExt(ext string) string {
	switch strings.ToLower(strings.TrimPrefix(ext, ".")) {
	case "jpg", "jpeg":
		return "JPEG"
	case "png":
		return "PNG"
	case "gif":
		return "GIF"
	case "webp":
		return "WEBP"
	case "bmp":
		return "BMP"
	case "tif", "tiff":
		return "TIFF"
	default:
		return ""
	}
}
