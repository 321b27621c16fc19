package hooks

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"slices"
	"sync"

	"autoavif/internal/logging"
)

// Point names an extension point.
type Point string

const (
	BeforeResize         Point = "variant.resize.before"
	RasterSaveReady      Point = "engine.raster.save_ready"
	MagickSaveReady      Point = "engine.magick.save_ready"
	AfterResize          Point = "variant.resize.after"
	BeforeDeleteAll      Point = "variant.delete_all.before"
	BeforeDeleteSelected Point = "variant.delete_selected.before"
)

// Points lists every extension point in lifecycle order.
func Points() []Point {
	return []Point{BeforeResize, RasterSaveReady, MagickSaveReady, AfterResize, BeforeDeleteAll, BeforeDeleteSelected}
}

// DefaultPriority is used when a handler is registered without WithPriority.
const DefaultPriority = 100

type (
	ResizeHandler         func(ctx context.Context, ev *ResizeEvent)
	DeleteAllHandler      func(ctx context.Context, ev *DeleteAllEvent)
	DeleteSelectedHandler func(ctx context.Context, ev *DeleteSelectedEvent)
)

// RegisterOption tunes a registration.
type RegisterOption func(*registration)

// WithPriority orders handlers on the same point; higher runs first.
func WithPriority(priority int) RegisterOption {
	return func(r *registration) {
		r.priority = priority
	}
}

// WithName labels a handler in panic logs.
func WithName(name string) RegisterOption {
	return func(r *registration) {
		r.name = name
	}
}

type registration struct {
	priority int
	name     string
	seq      int
}

type entry[H any] struct {
	registration
	handler H
}

// Registry holds registry-wide handlers. It is safe for concurrent use.
type Registry struct {
	mu     sync.RWMutex
	logger *slog.Logger
	seq    int

	beforeResize         []entry[ResizeHandler]
	afterResize          []entry[ResizeHandler]
	beforeDeleteAll      []entry[DeleteAllHandler]
	beforeDeleteSelected []entry[DeleteSelectedHandler]
}

// NewRegistry constructs an empty registry.
func NewRegistry(logger *slog.Logger) *Registry {
	return &Registry{logger: logging.NewComponentLogger(logger, "hooks")}
}

// OnBeforeResize runs fn before the generator resizes and saves a variant.
func (r *Registry) OnBeforeResize(fn ResizeHandler, opts ...RegisterOption) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.beforeResize = insert(r.beforeResize, fn, r.nextRegistration(opts))
}

// OnAfterResize runs fn after the generator returns a variant.
func (r *Registry) OnAfterResize(fn ResizeHandler, opts ...RegisterOption) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.afterResize = insert(r.afterResize, fn, r.nextRegistration(opts))
}

// OnBeforeDeleteAll runs fn before every variant of a source is deleted.
func (r *Registry) OnBeforeDeleteAll(fn DeleteAllHandler, opts ...RegisterOption) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.beforeDeleteAll = insert(r.beforeDeleteAll, fn, r.nextRegistration(opts))
}

// OnBeforeDeleteSelected runs fn before selected variants are deleted.
func (r *Registry) OnBeforeDeleteSelected(fn DeleteSelectedHandler, opts ...RegisterOption) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.beforeDeleteSelected = insert(r.beforeDeleteSelected, fn, r.nextRegistration(opts))
}

// Count reports how many registry-wide handlers are attached to p.
func (r *Registry) Count(p Point) int {
	if r == nil {
		return 0
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	switch p {
	case BeforeResize:
		return len(r.beforeResize)
	case AfterResize:
		return len(r.afterResize)
	case BeforeDeleteAll:
		return len(r.beforeDeleteAll)
	case BeforeDeleteSelected:
		return len(r.beforeDeleteSelected)
	default:
		return 0
	}
}

// FireBeforeResize runs the before-resize handlers.
func (r *Registry) FireBeforeResize(ctx context.Context, ev *ResizeEvent) {
	if r == nil {
		return
	}
	r.mu.RLock()
	handlers := slices.Clone(r.beforeResize)
	r.mu.RUnlock()
	for _, e := range handlers {
		r.safely(ctx, BeforeResize, e.name, func() { e.handler(ctx, ev) })
	}
}

// FireAfterResize runs the after-resize handlers.
func (r *Registry) FireAfterResize(ctx context.Context, ev *ResizeEvent) {
	if r == nil {
		return
	}
	r.mu.RLock()
	handlers := slices.Clone(r.afterResize)
	r.mu.RUnlock()
	for _, e := range handlers {
		r.safely(ctx, AfterResize, e.name, func() { e.handler(ctx, ev) })
	}
}

// FireBeforeDeleteAll runs the bulk deletion handlers.
func (r *Registry) FireBeforeDeleteAll(ctx context.Context, ev *DeleteAllEvent) {
	if r == nil {
		return
	}
	r.mu.RLock()
	handlers := slices.Clone(r.beforeDeleteAll)
	r.mu.RUnlock()
	for _, e := range handlers {
		r.safely(ctx, BeforeDeleteAll, e.name, func() { e.handler(ctx, ev) })
	}
}

// FireBeforeDeleteSelected runs the selective deletion handlers.
func (r *Registry) FireBeforeDeleteSelected(ctx context.Context, ev *DeleteSelectedEvent) {
	if r == nil {
		return
	}
	r.mu.RLock()
	handlers := slices.Clone(r.beforeDeleteSelected)
	r.mu.RUnlock()
	for _, e := range handlers {
		r.safely(ctx, BeforeDeleteSelected, e.name, func() { e.handler(ctx, ev) })
	}
}

func (r *Registry) nextRegistration(opts []RegisterOption) registration {
	r.seq++
	reg := registration{priority: DefaultPriority, seq: r.seq}
	for _, opt := range opts {
		opt(&reg)
	}
	return reg
}

func (r *Registry) safely(ctx context.Context, point Point, name string, fn func()) {
	recoverHandler(ctx, r.logger, point, name, fn)
}

func recoverHandler(ctx context.Context, logger *slog.Logger, point Point, name string, fn func()) {
	defer func() {
		if rec := recover(); rec != nil {
			logging.ErrorWithContext(
				logging.WithContext(ctx, logger),
				"hook handler panicked",
				"hook_panic",
				logging.String("point", string(point)),
				logging.String("handler", name),
				logging.String("panic", fmt.Sprint(rec)),
				logging.String("stack", string(debug.Stack())),
				logging.String(logging.FieldErrorHint, "the handler was skipped; the host operation continued"),
			)
		}
	}()
	fn()
}

func insert[H any](list []entry[H], fn H, reg registration) []entry[H] {
	list = append(list, entry[H]{registration: reg, handler: fn})
	slices.SortStableFunc(list, func(a, b entry[H]) int {
		if a.priority != b.priority {
			return b.priority - a.priority
		}
		return a.seq - b.seq
	})
	return list
}
