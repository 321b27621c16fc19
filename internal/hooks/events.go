package hooks

import (
	"context"
	"image"
	"log/slog"
	"sync"

	"autoavif/internal/magick"
	"autoavif/internal/variant"
)

type (
	// RasterSaveReadyHandler observes a decoded raster image about to be written to filename.
	RasterSaveReadyHandler func(ctx context.Context, img image.Image, filename string)
	// MagickSaveReadyHandler observes an ImageMagick blob about to be written to filename.
	MagickSaveReadyHandler func(ctx context.Context, img *magick.Image, filename string)
)

// ResizeEvent is one produce-variant call. It lives from the before-resize
// point until the after-resize point returns.
type ResizeEvent struct {
	Request variant.Request
	// Target is the variant the request resolves to.
	Target variant.Variant
	// Result is set before the after-resize point; nil when generation failed.
	Result *variant.Variant

	logger *slog.Logger

	mu     sync.Mutex
	values map[any]any
	raster []RasterSaveReadyHandler
	magick []MagickSaveReadyHandler
}

// NewResizeEvent creates the event for req.
func (r *Registry) NewResizeEvent(req variant.Request) *ResizeEvent {
	ev := &ResizeEvent{
		Request: req,
		Target:  variant.New(req),
	}
	if r != nil {
		ev.logger = r.logger
	}
	return ev
}

// SetValue stores per-event state under key. Keys should be unexported types
// owned by the caller.
func (e *ResizeEvent) SetValue(key, value any) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.values == nil {
		e.values = make(map[any]any)
	}
	e.values[key] = value
}

// Value returns state stored with SetValue.
func (e *ResizeEvent) Value(key any) any {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.values[key]
}

// OnceRasterSaveReady attaches a one-shot observer to the raster engine's
// save-ready point for this event only.
func (e *ResizeEvent) OnceRasterSaveReady(fn RasterSaveReadyHandler) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.raster = append(e.raster, fn)
}

// OnceMagickSaveReady attaches a one-shot observer to the ImageMagick engine's
// save-ready point for this event only.
func (e *ResizeEvent) OnceMagickSaveReady(fn MagickSaveReadyHandler) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.magick = append(e.magick, fn)
}

// FireRasterSaveReady runs and detaches the raster observers.
func (e *ResizeEvent) FireRasterSaveReady(ctx context.Context, img image.Image, filename string) {
	e.mu.Lock()
	handlers := e.raster
	e.raster = nil
	e.mu.Unlock()
	for _, fn := range handlers {
		recoverHandler(ctx, e.logger, RasterSaveReady, "", func() { fn(ctx, img, filename) })
	}
}

// FireMagickSaveReady runs and detaches the ImageMagick observers.
func (e *ResizeEvent) FireMagickSaveReady(ctx context.Context, img *magick.Image, filename string) {
	e.mu.Lock()
	handlers := e.magick
	e.magick = nil
	e.mu.Unlock()
	for _, fn := range handlers {
		recoverHandler(ctx, e.logger, MagickSaveReady, "", func() { fn(ctx, img, filename) })
	}
}

// DeleteAllEvent precedes deletion of every variant of a source.
type DeleteAllEvent struct {
	Source   variant.Source
	Variants []variant.Variant
}

// DeleteSelectedEvent precedes deletion of the variants a user selected by
// basename in the editing UI. Basenames are unvalidated input.
type DeleteSelectedEvent struct {
	Source    variant.Source
	Basenames []string
}
