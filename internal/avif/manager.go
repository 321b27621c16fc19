package avif

import (
	"context"
	"log/slog"

	"autoavif/internal/hooks"
	"autoavif/internal/logging"
	"autoavif/internal/variant"
)

// Host is the variant generator and store the manager calls back into.
type Host interface {
	// Size runs the generator's top-level produce-variant operation.
	Size(ctx context.Context, req variant.Request) (*variant.Variant, error)
	// Variations lists the current variants of src.
	Variations(src variant.Source) ([]variant.Variant, error)
}

// BeforeResizePriority places the creation handler ahead of default handlers
// so observers are armed before anything else touches the event.
const BeforeResizePriority = 200

// Manager is the derived-format lifecycle manager.
type Manager struct {
	settings Settings
	params   Params
	raster   RasterEncoder
	magick   MagickEncoder
	allow    AllowFunc
	logger   *slog.Logger
	host     Host
}

// Option configures a Manager.
type Option func(*Manager)

// WithRasterEncoder sets the encoder used for raster engine output.
func WithRasterEncoder(enc RasterEncoder) Option {
	return func(m *Manager) {
		m.raster = enc
	}
}

// WithMagickEncoder sets the encoder used for ImageMagick engine output.
func WithMagickEncoder(enc MagickEncoder) Option {
	return func(m *Manager) {
		m.magick = enc
	}
}

// WithAllow replaces the default eligibility predicate.
func WithAllow(fn AllowFunc) Option {
	return func(m *Manager) {
		if fn != nil {
			m.allow = fn
		}
	}
}

// WithLogger sets the base logger.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// New validates settings and builds a manager.
func New(settings Settings, opts ...Option) (*Manager, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	m := &Manager{
		settings: settings,
		params:   settings.Params(),
		allow:    AllowAll,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.logger = logging.NewComponentLogger(m.logger, "avif")
	return m, nil
}

// Settings returns the settings the manager was built with.
func (m *Manager) Settings() Settings {
	return m.settings
}

// Attach registers the lifecycle handlers on reg. Nothing is registered when
// the master switch is off. The backfill handler is registered only when
// backfill is enabled and a host is supplied.
func (m *Manager) Attach(reg *hooks.Registry, host Host) {
	if reg == nil {
		return
	}
	if !m.settings.Enabled {
		m.logger.Debug("avif disabled; lifecycle hooks not registered")
		return
	}
	m.host = host

	reg.OnBeforeResize(m.beforeResize, hooks.WithPriority(BeforeResizePriority), hooks.WithName("avif.create"))
	reg.OnBeforeDeleteAll(m.beforeDeleteAll, hooks.WithName("avif.delete_all"))
	reg.OnBeforeDeleteSelected(m.beforeDeleteSelected, hooks.WithName("avif.delete_selected"))

	if m.settings.CreateForExisting {
		if host == nil {
			logging.WarnWithContext(m.logger, "avif backfill requested without a host; skipping", "avif_backfill_unavailable",
				logging.String(logging.FieldErrorHint, "attach the manager with a variant generator"),
				logging.String(logging.FieldImpact, "existing variants will not receive AVIF siblings"),
			)
		} else {
			reg.OnAfterResize(m.afterResize, hooks.WithName("avif.backfill"))
		}
	}

	m.logger.Debug("avif lifecycle hooks registered",
		logging.Int("quality", m.settings.Quality),
		logging.Int("speed", m.settings.Speed),
		logging.Bool("create_for_existing", m.settings.CreateForExisting),
	)
}

func (m *Manager) eventLogger(ctx context.Context) *slog.Logger {
	return logging.WithContext(ctx, m.logger)
}
