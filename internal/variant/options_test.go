package variant

import (
	"reflect"
	"testing"
)

func TestNormalizeOptions(t *testing.T) {
	cases := []struct {
		name string
		raw  any
		want Options
	}{
		{"nil", nil, Options{}},
		{"quality int", 80, Options{OptionQuality: "80"}},
		{"cropping bool", false, Options{OptionCropping: "false"}},
		{"quality string", "75", Options{OptionQuality: "75"}},
		{"gravity string", "North", Options{OptionCropping: "north"}},
		{"pairs", "quality=60, upscaling=false,forceNew", Options{OptionQuality: "60", OptionUpscaling: "false", OptionForceNew: "true"}},
		{"any map", map[string]any{"quality": 50, "noDelay": true}, Options{OptionQuality: "50", OptionNoDelay: "true"}},
		{"suffix slice", []string{"a", "b"}, Options{OptionSuffix: "a b"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := NormalizeOptions(tc.raw)
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("NormalizeOptions(%v) = %v, want %v", tc.raw, got, tc.want)
			}
		})
	}
}

func TestWithDoesNotMutateReceiver(t *testing.T) {
	base := Options{OptionQuality: "70"}
	forced := base.With(OptionForceNew, "true")
	if _, ok := base[OptionForceNew]; ok {
		t.Fatal("With mutated the receiver")
	}
	if !forced.Bool(OptionForceNew, false) {
		t.Fatal("expected forced option on copy")
	}
	var empty Options
	if got := empty.With(OptionNoDelay, "true"); got.Get(OptionNoDelay) != "true" {
		t.Fatalf("With on nil options = %v", got)
	}
}

func TestTypedAccessors(t *testing.T) {
	o := Options{OptionQuality: "x", OptionUpscaling: "false", "width": " 12 "}
	if o.Int(OptionQuality, 90) != 90 {
		t.Fatal("expected default for unparsable int")
	}
	if o.Int("width", 0) != 12 {
		t.Fatal("expected trimmed int")
	}
	if o.Bool(OptionUpscaling, true) {
		t.Fatal("expected upscaling false")
	}
	if !o.Bool("missing", true) {
		t.Fatal("expected default for missing bool")
	}
}

func TestCroppingAndSuffixes(t *testing.T) {
	if on, gravity := (Options{}).Cropping(); !on || gravity != "center" {
		t.Fatalf("default cropping = %v %q", on, gravity)
	}
	if on, _ := (Options{OptionCropping: "false"}).Cropping(); on {
		t.Fatal("expected cropping disabled")
	}
	got := Options{OptionCropping: "southeast", OptionSuffix: "big big,Hi-Res!"}.Suffixes()
	want := []string{"se", "big", "hires"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Suffixes = %v, want %v", got, want)
	}
	if s := (Options{OptionCropping: "false"}).Suffixes(); !reflect.DeepEqual(s, []string{"fit"}) {
		t.Fatalf("expected fit suffix, got %v", s)
	}
	if s := (Options{}).Suffixes(); len(s) != 0 {
		t.Fatalf("expected no suffixes for center crop, got %v", s)
	}
}

func TestOptionsFromSuffixes(t *testing.T) {
	got := OptionsFromSuffixes([]string{"nw", "thumb"})
	want := Options{OptionCropping: "northwest", OptionSuffix: "thumb"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("OptionsFromSuffixes = %v, want %v", got, want)
	}
	if got := OptionsFromSuffixes(nil); len(got) != 0 {
		t.Fatalf("expected empty options, got %v", got)
	}
	if got := OptionsFromSuffixes([]string{"fit", "thumb"}); !reflect.DeepEqual(got, Options{OptionCropping: "false", OptionSuffix: "thumb"}) {
		t.Fatalf("fit suffix not mapped back to cropping=false: %v", got)
	}
	round := OptionsFromSuffixes(Options{OptionCropping: "south", OptionSuffix: "x"}.Suffixes())
	if !reflect.DeepEqual(round.Suffixes(), []string{"s", "x"}) {
		t.Fatalf("round trip suffixes = %v", round.Suffixes())
	}
}
