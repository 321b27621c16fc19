package variant

import (
	"fmt"
	"maps"
	"regexp"
	"slices"
	"strconv"
	"strings"
)

// Reserved option names.
const (
	OptionForceNew  = "forceNew"
	OptionNoDelay   = "noDelay"
	OptionQuality   = "quality"
	OptionCropping  = "cropping"
	OptionUpscaling = "upscaling"
	OptionSuffix    = "suffix"
)

// Options is the normalized option bag attached to a variant request.
type Options map[string]string

var gravityCodes = map[string]string{
	"center":    "",
	"north":     "n",
	"south":     "s",
	"east":      "e",
	"west":      "w",
	"northwest": "nw",
	"northeast": "ne",
	"southwest": "sw",
	"southeast": "se",
}

// fitSuffix marks variants resized without cropping so they never share a
// filename with the center-cropped variant of the same size.
const fitSuffix = "fit"

var suffixSanitizer = regexp.MustCompile(`[^a-z0-9]+`)

// NormalizeOptions converts the loosely typed option values hosts pass around
// into an Options map. Integers mean quality, booleans mean cropping, and
// strings are parsed with ParseOptionString.
func NormalizeOptions(raw any) Options {
	switch v := raw.(type) {
	case nil:
		return Options{}
	case Options:
		return v.Clone()
	case map[string]string:
		return Options(maps.Clone(v))
	case map[string]any:
		out := make(Options, len(v))
		for key, value := range v {
			out[key] = fmt.Sprint(value)
		}
		return out
	case int:
		return Options{OptionQuality: strconv.Itoa(v)}
	case bool:
		return Options{OptionCropping: strconv.FormatBool(v)}
	case string:
		return ParseOptionString(v)
	case []string:
		return Options{OptionSuffix: strings.Join(v, " ")}
	default:
		return Options{}
	}
}

// ParseOptionString parses the short string forms of an option bag: a bare
// integer (quality), "true"/"false" (cropping), a gravity word (cropping
// position), or comma separated key=value pairs.
func ParseOptionString(value string) Options {
	value = strings.TrimSpace(value)
	if value == "" {
		return Options{}
	}
	if _, err := strconv.Atoi(value); err == nil {
		return Options{OptionQuality: value}
	}
	lower := strings.ToLower(value)
	if lower == "true" || lower == "false" {
		return Options{OptionCropping: lower}
	}
	if _, ok := gravityCodes[lower]; ok {
		return Options{OptionCropping: lower}
	}
	out := Options{}
	for _, part := range strings.Split(value, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		key, val, found := strings.Cut(part, "=")
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		if !found {
			out[key] = "true"
			continue
		}
		out[key] = strings.TrimSpace(val)
	}
	return out
}

// Clone returns a copy that can be modified without affecting o.
func (o Options) Clone() Options {
	if o == nil {
		return Options{}
	}
	return maps.Clone(o)
}

// With returns a copy of o with key set to value.
func (o Options) With(key, value string) Options {
	out := o.Clone()
	out[key] = value
	return out
}

// Get returns the raw value for key.
func (o Options) Get(key string) string {
	return o[key]
}

// Bool interprets key as a boolean, returning def when unset or unparsable.
func (o Options) Bool(key string, def bool) bool {
	raw, ok := o[key]
	if !ok {
		return def
	}
	parsed, err := strconv.ParseBool(strings.TrimSpace(raw))
	if err != nil {
		return def
	}
	return parsed
}

// Int interprets key as an integer, returning def when unset or unparsable.
func (o Options) Int(key string, def int) int {
	raw, ok := o[key]
	if !ok {
		return def
	}
	parsed, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return def
	}
	return parsed
}

// Cropping reports whether crop-to-fill is enabled and which gravity applies.
// Cropping is on by default with center gravity.
func (o Options) Cropping() (bool, string) {
	raw := strings.ToLower(strings.TrimSpace(o[OptionCropping]))
	switch raw {
	case "", "true", "1":
		return true, "center"
	case "false", "0":
		return false, ""
	}
	if _, ok := gravityCodes[raw]; ok {
		return true, raw
	}
	return true, "center"
}

// Suffixes returns the filename suffixes that distinguish this option set:
// the cropping gravity code (or "fit" when cropping is off) followed by any
// sanitized user suffixes.
func (o Options) Suffixes() []string {
	var out []string
	if enabled, gravity := o.Cropping(); !enabled {
		out = append(out, fitSuffix)
	} else if code := gravityCodes[gravity]; code != "" {
		out = append(out, code)
	}
	for _, field := range strings.FieldsFunc(o[OptionSuffix], func(r rune) bool {
		return r == ',' || r == ' '
	}) {
		clean := strings.Trim(suffixSanitizer.ReplaceAllString(strings.ToLower(field), ""), "-")
		if clean == "" || slices.Contains(out, clean) {
			continue
		}
		out = append(out, clean)
	}
	return out
}

// OptionsFromSuffixes rebuilds the option bag encoded in a parsed variant's
// suffix list.
func OptionsFromSuffixes(suffixes []string) Options {
	out := Options{}
	var rest []string
	for i, suffix := range suffixes {
		if i == 0 {
			if suffix == fitSuffix {
				out[OptionCropping] = "false"
				continue
			}
			if gravity, ok := gravityForCode(suffix); ok {
				out[OptionCropping] = gravity
				continue
			}
		}
		rest = append(rest, suffix)
	}
	if len(rest) > 0 {
		out[OptionSuffix] = strings.Join(rest, " ")
	}
	return out
}

func gravityForCode(code string) (string, bool) {
	if code == "" {
		return "", false
	}
	for gravity, c := range gravityCodes {
		if c == code {
			return gravity, true
		}
	}
	return "", false
}
