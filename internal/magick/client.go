package magick

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os/exec"
	"slices"
	"strconv"
	"strings"
)

var commandContext = exec.CommandContext

// DefaultBinary is the ImageMagick 7 entry point.
const DefaultBinary = "magick"

// Image is an encoded image held in memory.
type Image struct {
	Blob   []byte
	Format string
}

// Option configures the client.
type Option func(*Client)

// WithBinary overrides the default binary name.
func WithBinary(binary string) Option {
	return func(c *Client) {
		if strings.TrimSpace(binary) != "" {
			c.binary = strings.TrimSpace(binary)
		}
	}
}

// Client runs ImageMagick commands.
type Client struct {
	binary string
}

// NewClient constructs a Client using defaults.
func NewClient(opts ...Option) *Client {
	c := &Client{binary: DefaultBinary}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Formats lists the upper-case format names the installation can write.
func (c *Client) Formats(ctx context.Context) ([]string, error) {
	cmd := commandContext(ctx, c.binary, "-list", "format") //nolint:gosec
	out, err := cmd.Output()
	if err != nil {
		return nil, commandError("list formats", err)
	}
	return parseFormats(out), nil
}

// SupportsWrite reports whether format appears as writable in `-list format`.
func (c *Client) SupportsWrite(ctx context.Context, format string) (bool, error) {
	formats, err := c.Formats(ctx)
	if err != nil {
		return false, err
	}
	return slices.Contains(formats, strings.ToUpper(strings.TrimSpace(format))), nil
}

// ResizeSpec describes a resize of a source file.
type ResizeSpec struct {
	Source  string
	Width   int
	Height  int
	Crop    bool
	Gravity string
	Upscale bool
	Quality int
	// Format is the output format name, e.g. "JPEG".
	Format string
}

// Resize runs the resize and returns the encoded result without writing it.
func (c *Client) Resize(ctx context.Context, spec ResizeSpec) (*Image, error) {
	if strings.TrimSpace(spec.Source) == "" {
		return nil, errors.New("source path required")
	}
	format := strings.ToUpper(strings.TrimSpace(spec.Format))
	if format == "" {
		return nil, errors.New("output format required")
	}
	args := resizeArgs(spec, format)
	cmd := commandContext(ctx, c.binary, args...) //nolint:gosec
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		return nil, commandError("resize", withStderr(err, stderr.String()))
	}
	if len(out) == 0 {
		return nil, errors.New("magick resize produced no output")
	}
	return &Image{Blob: out, Format: format}, nil
}

// WriteSpec describes how to encode an in-memory image to a file.
type WriteSpec struct {
	Format  string
	Quality int
	Defines map[string]string
}

// Write encodes img to path in the requested format.
func (c *Client) Write(ctx context.Context, img *Image, path string, spec WriteSpec) error {
	if img == nil || len(img.Blob) == 0 {
		return errors.New("image blob required")
	}
	if strings.TrimSpace(path) == "" {
		return errors.New("output path required")
	}
	args := writeArgs(img, path, spec)
	cmd := commandContext(ctx, c.binary, args...) //nolint:gosec
	cmd.Stdin = bytes.NewReader(img.Blob)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return commandError("write", withStderr(err, stderr.String()))
	}
	return nil
}

func resizeArgs(spec ResizeSpec, format string) []string {
	args := []string{spec.Source, "-auto-orient"}
	geometry := dimension(spec.Width) + "x" + dimension(spec.Height)
	crop := spec.Crop && spec.Width > 0 && spec.Height > 0
	switch {
	case crop:
		args = append(args, "-resize", geometry+"^", "-gravity", gravityName(spec.Gravity), "-extent", geometry)
	case spec.Upscale:
		args = append(args, "-resize", geometry)
	default:
		args = append(args, "-resize", geometry+">")
	}
	if spec.Quality > 0 {
		args = append(args, "-quality", strconv.Itoa(spec.Quality))
	}
	return append(args, format+":-")
}

func writeArgs(img *Image, path string, spec WriteSpec) []string {
	in := "-"
	if img.Format != "" {
		in = strings.ToUpper(img.Format) + ":-"
	}
	args := []string{in}
	if spec.Quality > 0 {
		args = append(args, "-quality", strconv.Itoa(spec.Quality))
	}
	keys := make([]string, 0, len(spec.Defines))
	for key := range spec.Defines {
		keys = append(keys, key)
	}
	slices.Sort(keys)
	for _, key := range keys {
		args = append(args, "-define", key+"="+spec.Defines[key])
	}
	out := path
	if spec.Format != "" {
		out = strings.ToUpper(spec.Format) + ":" + path
	}
	return append(args, out)
}

func dimension(v int) string {
	if v <= 0 {
		return ""
	}
	return strconv.Itoa(v)
}

func gravityName(gravity string) string {
	switch strings.ToLower(strings.TrimSpace(gravity)) {
	case "north":
		return "North"
	case "south":
		return "South"
	case "east":
		return "East"
	case "west":
		return "West"
	case "northwest":
		return "NorthWest"
	case "northeast":
		return "NorthEast"
	case "southwest":
		return "SouthWest"
	case "southeast":
		return "SouthEast"
	default:
		return "Center"
	}
}

// parseFormats reads `magick -list format` output. Each format row looks like
//
//	AVIF  HEIC      rw+   AV1 Image File Format (1.17.6)
//
// where the mode column must include "w" for the format to be writable.
func parseFormats(out []byte) []string {
	var formats []string
	scanner := bufio.NewScanner(bytes.NewReader(out))
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) < 3 {
			continue
		}
		name := strings.TrimSuffix(fields[0], "*")
		if name == "" || name != strings.ToUpper(name) || strings.HasPrefix(name, "-") {
			continue
		}
		mode := fields[1]
		if !isMode(mode) {
			if len(fields) < 4 || !isMode(fields[2]) {
				continue
			}
			mode = fields[2]
		}
		if strings.Contains(mode, "w") && !slices.Contains(formats, name) {
			formats = append(formats, name)
		}
	}
	return formats
}

func isMode(s string) bool {
	if len(s) != 3 {
		return false
	}
	for _, r := range s {
		if r != 'r' && r != 'w' && r != '+' && r != '-' {
			return false
		}
	}
	return true
}

func withStderr(err error, stderr string) error {
	stderr = strings.TrimSpace(stderr)
	if stderr == "" {
		return err
	}
	return fmt.Errorf("%w: %s", err, stderr)
}

func commandError(op string, err error) error {
	var execErr *exec.Error
	if errors.As(err, &execErr) || errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("magick %s: %w: %w", op, ErrNotInstalled, err)
	}
	return fmt.Errorf("magick %s: %w", op, err)
}

// ErrNotInstalled marks failures caused by a missing ImageMagick binary.
var ErrNotInstalled = errors.New("imagemagick not installed")
