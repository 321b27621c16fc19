package variant

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
)

// Name builds the variant filename for a source, size and suffix list.
func Name(src Source, width, height int, suffixes []string) string {
	var b strings.Builder
	b.WriteString(src.Stem())
	fmt.Fprintf(&b, ".%dx%d", width, height)
	for _, suffix := range suffixes {
		b.WriteByte('-')
		b.WriteString(suffix)
	}
	if ext := src.Ext(); ext != "" {
		b.WriteByte('.')
		b.WriteString(ext)
	}
	return b.String()
}

// Parse reads a variant filename produced by Name back into a Variant. It
// reports false for any basename that is not a variant of src, including the
// source itself and derived siblings with a different extension.
func Parse(src Source, basename string) (Variant, bool) {
	m := pattern(src).FindStringSubmatch(basename)
	if m == nil {
		return Variant{}, false
	}
	width, err := strconv.Atoi(m[1])
	if err != nil {
		return Variant{}, false
	}
	height, err := strconv.Atoi(m[2])
	if err != nil {
		return Variant{}, false
	}
	var suffixes []string
	if m[3] != "" {
		suffixes = strings.Split(strings.TrimPrefix(m[3], "-"), "-")
	}
	return Variant{
		Source:   src,
		Width:    width,
		Height:   height,
		Suffixes: suffixes,
		Path:     filepath.Join(src.Dir(), basename),
	}, true
}

func pattern(src Source) *regexp.Regexp {
	expr := "^" + regexp.QuoteMeta(src.Stem()) + `\.(\d+)x(\d+)((?:-[a-z0-9]+)*)`
	if ext := src.Ext(); ext != "" {
		expr += `\.` + regexp.QuoteMeta(ext)
	}
	return regexp.MustCompile(expr + "$")
}
