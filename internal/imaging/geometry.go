package imaging

import (
	"image"
	"math"
)

// layout is the outcome of planning a resize: the size the source is scaled
// to and the window of the scaled image that is kept.
type layout struct {
	scaled image.Point
	crop   image.Rectangle
}

// planLayout computes the resize for a source of size src. A zero width or
// height is derived from the aspect ratio. Without upscale the source is never
// enlarged, so the output may be smaller than requested.
func planLayout(src image.Point, width, height int, crop bool, gravity string, upscale bool) layout {
	if src.X <= 0 || src.Y <= 0 {
		return layout{}
	}
	sw, sh := float64(src.X), float64(src.Y)
	crop = crop && width > 0 && height > 0
	if width <= 0 {
		width = max(1, int(math.Round(sw*float64(height)/sh)))
	}
	if height <= 0 {
		height = max(1, int(math.Round(sh*float64(width)/sw)))
	}

	sx, sy := float64(width)/sw, float64(height)/sh
	scale := math.Min(sx, sy)
	if crop {
		scale = math.Max(sx, sy)
	}
	if !upscale && scale > 1 {
		scale = 1
	}
	scaled := image.Pt(max(1, int(math.Round(sw*scale))), max(1, int(math.Round(sh*scale))))
	if !crop {
		return layout{scaled: scaled, crop: image.Rectangle{Max: scaled}}
	}

	out := image.Pt(min(width, scaled.X), min(height, scaled.Y))
	dx, dy := scaled.X-out.X, scaled.Y-out.Y
	var off image.Point
	switch gravity {
	case "northwest":
		off = image.Pt(0, 0)
	case "north":
		off = image.Pt(dx/2, 0)
	case "northeast":
		off = image.Pt(dx, 0)
	case "west":
		off = image.Pt(0, dy/2)
	case "east":
		off = image.Pt(dx, dy/2)
	case "southwest":
		off = image.Pt(0, dy)
	case "south":
		off = image.Pt(dx/2, dy)
	case "southeast":
		off = image.Pt(dx, dy)
	default:
		off = image.Pt(dx/2, dy/2)
	}
	return layout{scaled: scaled, crop: image.Rectangle{Min: off, Max: off.Add(out)}}
}
