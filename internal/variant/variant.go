package variant

import (
	"errors"
	"path/filepath"
	"strings"
)

// Source is an original image plus the host metadata a filter may consult.
type Source struct {
	Path   string
	Field  string
	Record string
}

// Dir returns the directory holding the source and all of its variants.
func (s Source) Dir() string {
	return filepath.Dir(s.Path)
}

// Basename returns the source filename.
func (s Source) Basename() string {
	return filepath.Base(s.Path)
}

// Stem returns the source filename without its extension.
func (s Source) Stem() string {
	base := filepath.Base(s.Path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Ext returns the source extension without the leading dot, as written.
func (s Source) Ext() string {
	return strings.TrimPrefix(filepath.Ext(s.Path), ".")
}

// Variant is one resized derivative of a source image.
type Variant struct {
	Source   Source
	Width    int
	Height   int
	Suffixes []string
	Path     string
}

// Basename returns the variant filename.
func (v Variant) Basename() string {
	return filepath.Base(v.Path)
}

// Ext returns the variant extension without the leading dot, lower-cased.
func (v Variant) Ext() string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(v.Path), "."))
}

// Request asks the generator to produce (or return) a variant.
type Request struct {
	Source  Source
	Width   int
	Height  int
	Options Options
	// Admin marks requests issued by the administrative editing UI.
	Admin bool
}

// Validate checks the request dimensions. Zero means "auto" on one axis.
func (r Request) Validate() error {
	if strings.TrimSpace(r.Source.Path) == "" {
		return errors.New("source path required")
	}
	if r.Width < 0 || r.Height < 0 {
		return errors.New("width and height must not be negative")
	}
	if r.Width == 0 && r.Height == 0 {
		return errors.New("width or height required")
	}
	return nil
}

// New returns the variant a request resolves to. It does not touch the filesystem.
func New(req Request) Variant {
	suffixes := req.Options.Suffixes()
	return Variant{
		Source:   req.Source,
		Width:    req.Width,
		Height:   req.Height,
		Suffixes: suffixes,
		Path:     filepath.Join(req.Source.Dir(), Name(req.Source, req.Width, req.Height, suffixes)),
	}
}
