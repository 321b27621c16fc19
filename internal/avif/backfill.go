package avif

import (
	"context"

	"autoavif/internal/fileutil"
	"autoavif/internal/hooks"
	"autoavif/internal/logging"
	"autoavif/internal/variant"
)

type forcedPassKey struct{}

// WithForcedPass marks ctx as carrying a regeneration issued to create a
// missing sibling. The after-resize handler never starts another pass from
// inside one, so the recursion depth is one regardless of what the nested
// pass does.
func WithForcedPass(ctx context.Context) context.Context {
	return context.WithValue(ctx, forcedPassKey{}, true)
}

// IsForcedPass reports whether ctx belongs to a backfill regeneration.
func IsForcedPass(ctx context.Context) bool {
	forced, _ := ctx.Value(forcedPassKey{}).(bool)
	return forced
}

func (m *Manager) afterResize(ctx context.Context, ev *hooks.ResizeEvent) {
	if ev.Result == nil || m.host == nil {
		return
	}
	req := ev.Request
	// Only the thumbnail guard is reapplied here, not the full filter.
	if IsAdminThumbnail(req.Admin, req.Width, req.Height) {
		return
	}
	if Attempted(ev) {
		return
	}
	logger := m.eventLogger(ctx).With(logging.String(logging.FieldVariant, ev.Result.Basename()))
	if IsForcedPass(ctx) {
		logger.Debug("forced pass produced no avif attempt; not retrying")
		return
	}

	sibling := SiblingFor(*ev.Result)
	if fileutil.IsFile(sibling) {
		return
	}

	forced := req
	forced.Source = ev.Result.Source
	forced.Options = req.Options.
		With(variant.OptionForceNew, "true").
		With(variant.OptionNoDelay, "true")

	logger.Info("backfilling missing avif sibling", logging.String("avif_path", sibling))
	if _, err := m.host.Size(WithForcedPass(ctx), forced); err != nil {
		logging.WarnWithContext(logger, "forced regeneration failed", "avif_backfill_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "inspect the variant generator error"),
			logging.String(logging.FieldImpact, "variant served without avif sibling"),
		)
	}
}
