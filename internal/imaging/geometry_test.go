package imaging

import (
	"image"
	"testing"
)

func TestPlanLayout(t *testing.T) {
	cases := []struct {
		name    string
		src     image.Point
		w, h    int
		crop    bool
		gravity string
		upscale bool
		scaled  image.Point
		crop2   image.Rectangle
	}{
		{"exact aspect", image.Pt(600, 400), 300, 200, true, "center", false, image.Pt(300, 200), image.Rect(0, 0, 300, 200)},
		{"auto height", image.Pt(600, 400), 300, 0, true, "center", false, image.Pt(300, 200), image.Rect(0, 0, 300, 200)},
		{"auto width", image.Pt(600, 400), 0, 100, true, "center", false, image.Pt(150, 100), image.Rect(0, 0, 150, 100)},
		{"crop center", image.Pt(600, 400), 200, 200, true, "center", false, image.Pt(300, 200), image.Rect(50, 0, 250, 200)},
		{"crop west", image.Pt(600, 400), 200, 200, true, "west", false, image.Pt(300, 200), image.Rect(0, 0, 200, 200)},
		{"crop southeast", image.Pt(400, 600), 200, 200, true, "southeast", false, image.Pt(200, 300), image.Rect(0, 100, 200, 300)},
		{"fit", image.Pt(600, 400), 200, 200, false, "", false, image.Pt(200, 133), image.Rect(0, 0, 200, 133)},
		{"no upscale", image.Pt(100, 50), 400, 200, true, "center", false, image.Pt(100, 50), image.Rect(0, 0, 100, 50)},
		{"upscale", image.Pt(100, 50), 400, 200, true, "center", true, image.Pt(400, 200), image.Rect(0, 0, 400, 200)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := planLayout(tc.src, tc.w, tc.h, tc.crop, tc.gravity, tc.upscale)
			if got.scaled != tc.scaled {
				t.Fatalf("scaled = %v, want %v", got.scaled, tc.scaled)
			}
			if got.crop != tc.crop2 {
				t.Fatalf("crop = %v, want %v", got.crop, tc.crop2)
			}
		})
	}
}

func TestPlanLayoutEmptySource(t *testing.T) {
	if got := planLayout(image.Point{}, 10, 10, true, "", false); got != (layout{}) {
		t.Fatalf("expected zero layout, got %+v", got)
	}
}

func TestFormatForExt(t *testing.T) {
	cases := map[string]string{".jpg": "JPEG", "JPEG": "JPEG", ".png": "PNG", "webp": "WEBP", ".tif": "TIFF", ".svg": ""}
	for ext, want := range cases {
		if got := formatForExt(ext); got != want {
			t.Errorf("formatForExt(%q) = %q, want %q", ext, got, want)
		}
	}
}
