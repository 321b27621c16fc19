package imaging

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"autoavif/internal/avif"
	"autoavif/internal/fileutil"
	"autoavif/internal/hooks"
	"autoavif/internal/logging"
	"autoavif/internal/services"
	"autoavif/internal/variant"
)

// Generator produces variants and fires the resize extension points.
type Generator struct {
	registry *hooks.Registry
	engine   Engine
	store    *Store
	quality  int
	logger   *slog.Logger
}

// GeneratorOption configures a Generator.
type GeneratorOption func(*Generator)

// WithQuality sets the primary variant quality used when a request has none.
func WithQuality(quality int) GeneratorOption {
	return func(g *Generator) {
		if quality > 0 {
			g.quality = quality
		}
	}
}

// WithLogger sets the base logger.
func WithLogger(logger *slog.Logger) GeneratorOption {
	return func(g *Generator) {
		g.logger = logger
	}
}

// NewGenerator builds a generator bound to registry, rendering with engine.
func NewGenerator(registry *hooks.Registry, engine Engine, opts ...GeneratorOption) *Generator {
	g := &Generator{
		registry: registry,
		engine:   engine,
		quality:  90,
	}
	for _, opt := range opts {
		opt(g)
	}
	g.store = NewStore(registry, g.logger)
	g.logger = logging.NewComponentLogger(g.logger, "imaging")
	return g
}

// Store returns the variant store sharing the generator's registry.
func (g *Generator) Store() *Store {
	return g.store
}

// Engine returns the active engine.
func (g *Generator) Engine() Engine {
	return g.engine
}

// Size returns the variant for req, rendering it when it does not exist yet
// or when the forceNew option is set.
func (g *Generator) Size(ctx context.Context, req variant.Request) (*variant.Variant, error) {
	if err := req.Validate(); err != nil {
		return nil, services.Wrap(services.ErrValidation, "imaging", "size", "", err)
	}
	if !fileutil.IsFile(req.Source.Path) {
		return nil, services.Wrap(services.ErrNotFound, "imaging", "size", req.Source.Path, nil)
	}
	if _, ok := services.RequestIDFromContext(ctx); !ok {
		ctx = services.WithRequestID(ctx, uuid.NewString())
	}

	ev := g.registry.NewResizeEvent(req)
	target := ev.Target
	ctx = services.WithVariant(ctx, target.Basename())
	logger := logging.WithContext(ctx, g.logger)

	g.registry.FireBeforeResize(ctx, ev)

	if fileutil.IsFile(target.Path) && !req.Options.Bool(variant.OptionForceNew, false) {
		logger.Debug("variant exists; serving from disk")
		ev.Result = &target
		g.registry.FireAfterResize(ctx, ev)
		return &target, nil
	}

	crop, gravity := req.Options.Cropping()
	spec := Spec{
		Source:  req.Source.Path,
		Target:  target.Path,
		Width:   req.Width,
		Height:  req.Height,
		Crop:    crop,
		Gravity: gravity,
		Upscale: req.Options.Bool(variant.OptionUpscaling, false),
		Quality: req.Options.Int(variant.OptionQuality, g.quality),
	}
	if err := g.engine.Render(ctx, ev, spec); err != nil {
		g.discardSibling(logger, ev)
		g.registry.FireAfterResize(ctx, ev)
		return nil, err
	}

	logger.Info("variant created",
		logging.String("engine", g.engine.Name()),
		logging.Int64("bytes", fileutil.FileSize(target.Path)),
	)
	ev.Result = &target
	g.registry.FireAfterResize(ctx, ev)
	return &target, nil
}

// discardSibling removes a sibling encoded during a render whose variant was
// never written.
func (g *Generator) discardSibling(logger *slog.Logger, ev *hooks.ResizeEvent) {
	if !avif.Attempted(ev) {
		return
	}
	sibling := avif.SiblingFor(ev.Target)
	removed, err := fileutil.RemoveIfExists(sibling)
	if err != nil {
		logging.WarnWithContext(logger, "remove avif of failed render", "avif_remove_failed",
			logging.String("avif_path", sibling),
			logging.Error(err),
			logging.String(logging.FieldImpact, "avif file may not match its variant"),
		)
		return
	}
	if removed {
		logger.Debug("removed avif of failed render", logging.String("avif_path", sibling))
	}
}

// Reannounce fires the before-resize and save-ready points for a variant
// that already exists on disk, without rendering or rewriting it. Observers
// armed by the before-resize point receive the stored pixels. The
// after-resize point does not fire.
func (g *Generator) Reannounce(ctx context.Context, v variant.Variant) error {
	if !fileutil.IsFile(v.Path) {
		return services.Wrap(services.ErrNotFound, "imaging", "reannounce", v.Path, nil)
	}
	if _, ok := services.RequestIDFromContext(ctx); !ok {
		ctx = services.WithRequestID(ctx, uuid.NewString())
	}
	ctx = services.WithVariant(ctx, v.Basename())

	ev := g.registry.NewResizeEvent(variant.Request{
		Source:  v.Source,
		Width:   v.Width,
		Height:  v.Height,
		Options: variant.OptionsFromSuffixes(v.Suffixes),
	})
	ev.Target = v
	g.registry.FireBeforeResize(ctx, ev)
	if err := g.engine.Announce(ctx, ev, v.Path); err != nil {
		return err
	}
	logging.WithContext(ctx, g.logger).Debug("variant reannounced", logging.String("engine", g.engine.Name()))
	return nil
}

// Variations lists the current variants of src.
func (g *Generator) Variations(src variant.Source) ([]variant.Variant, error) {
	return g.store.Variations(src)
}
