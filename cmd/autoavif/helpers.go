package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"autoavif/internal/avif"
	"autoavif/internal/fileutil"
	"autoavif/internal/variant"
)

func resolveSource(arg, field, record string) (variant.Source, error) {
	path := strings.TrimSpace(arg)
	if path == "" {
		return variant.Source{}, fmt.Errorf("source image path required")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return variant.Source{}, fmt.Errorf("resolve %s: %w", path, err)
	}
	return variant.Source{Path: abs, Field: field, Record: record}, nil
}

func parseOptionFlags(values []string) variant.Options {
	opts := variant.Options{}
	for _, value := range values {
		for key, val := range variant.ParseOptionString(value) {
			opts[key] = val
		}
	}
	return opts
}

func siblingSummary(v variant.Variant) string {
	sibling := avif.SiblingFor(v)
	if !fileutil.IsFile(sibling) {
		return "-"
	}
	return fileutil.FormatBytes(uint64(fileutil.FileSize(sibling)))
}

func dimensions(width, height int) string {
	w, h := "auto", "auto"
	if width > 0 {
		w = fmt.Sprint(width)
	}
	if height > 0 {
		h = fmt.Sprint(height)
	}
	return w + "x" + h
}
