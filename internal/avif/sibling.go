package avif

import (
	"path/filepath"
	"strings"

	"autoavif/internal/variant"
)

// Extension is the filename extension of every derived sibling.
const Extension = ".avif"

// SiblingPath maps a variant path to its AVIF sibling in the same directory.
func SiblingPath(variantPath string) string {
	return filepath.Join(filepath.Dir(variantPath), SiblingName(filepath.Base(variantPath)))
}

// SiblingName maps a variant basename to the sibling basename.
func SiblingName(basename string) string {
	return strings.TrimSuffix(basename, filepath.Ext(basename)) + Extension
}

// SiblingFor returns the sibling path of v.
func SiblingFor(v variant.Variant) string {
	return SiblingPath(v.Path)
}

// siblingIn places the sibling for filename in dir. Save-ready notifications
// carry the engine's output filename; the sibling always lands next to the
// variant.
func siblingIn(dir, filename string) string {
	return filepath.Join(dir, SiblingName(filepath.Base(filename)))
}
