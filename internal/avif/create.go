package avif

import (
	"context"
	"errors"
	"fmt"
	"image"
	"time"

	"autoavif/internal/fileutil"
	"autoavif/internal/hooks"
	"autoavif/internal/logging"
	"autoavif/internal/magick"
	"autoavif/internal/services"
)

// attemptKey stores the per-event creation-attempt flag on a ResizeEvent.
type attemptKey struct{}

// Attempted reports whether an encode attempt was made during ev, whether or
// not it succeeded.
func Attempted(ev *hooks.ResizeEvent) bool {
	attempted, _ := ev.Value(attemptKey{}).(bool)
	return attempted
}

func markAttempted(ev *hooks.ResizeEvent) {
	ev.SetValue(attemptKey{}, true)
}

func (m *Manager) beforeResize(ctx context.Context, ev *hooks.ResizeEvent) {
	dir := ev.Target.Source.Dir()
	if !m.Eligible(candidateFor(ev.Request, ev.Target)) {
		m.eventLogger(ctx).Debug("variant not eligible for avif",
			logging.String(logging.FieldVariant, ev.Target.Basename()),
		)
		return
	}

	ev.SetValue(attemptKey{}, false)

	ev.OnceRasterSaveReady(func(ctx context.Context, img image.Image, filename string) {
		markAttempted(ev)
		encodeSibling(ctx, m, m.raster, img, siblingIn(dir, filename))
	})
	ev.OnceMagickSaveReady(func(ctx context.Context, img *magick.Image, filename string) {
		markAttempted(ev)
		encodeSibling(ctx, m, m.magick, img, siblingIn(dir, filename))
	})
}

// encodeSibling replaces the sibling at target. Every failure is logged and
// swallowed.
func encodeSibling[H any](ctx context.Context, m *Manager, enc Encoder[H], handle H, target string) {
	logger := m.eventLogger(ctx).With(logging.String("avif_path", target))
	if enc == nil {
		logger.Debug("no avif encoder configured for engine")
		return
	}
	if err := runBounded(ctx, m.settings.EncodeTimeout, "probe", enc.Available); err != nil {
		logger.Debug("avif encoder unavailable", logging.String("encoder", enc.Name()), logging.Error(err))
		return
	}

	if removed, err := fileutil.RemoveIfExists(target); err != nil {
		logging.WarnWithContext(logger, "remove stale avif failed", "avif_remove_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check permissions on the variant directory"),
			logging.String(logging.FieldImpact, "stale avif may remain if the encode fails"),
		)
	} else if removed {
		logger.Debug("removed stale avif")
	}

	start := time.Now()
	err := runBounded(ctx, m.settings.EncodeTimeout, "encode", func(ctx context.Context) error {
		return enc.Encode(ctx, handle, target, m.params)
	})
	if err != nil {
		hint := "check encoder support for AVIF"
		if errors.Is(err, services.ErrTimeout) {
			hint = "raise avif.speed or avif.encode_timeout_seconds"
		}
		logging.WarnWithContext(logger, "avif encode failed", "avif_encode_failed",
			logging.String("encoder", enc.Name()),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, hint),
			logging.String(logging.FieldImpact, "variant served without avif sibling"),
		)
		return
	}
	logger.Info("avif sibling created",
		logging.String("encoder", enc.Name()),
		logging.Int64("bytes", fileutil.FileSize(target)),
		logging.Duration("elapsed", time.Since(start)),
	)
}

// runBounded runs fn with a deadline and converts panics to errors. When the
// deadline passes first the call is abandoned; encoders must check ctx before
// writing.
func runBounded(ctx context.Context, timeout time.Duration, op string, fn func(context.Context) error) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- services.Wrap(services.ErrEncode, "avif", op, fmt.Sprintf("panic: %v", r), nil)
			}
		}()
		done <- fn(ctx)
	}()

	select {
	case err := <-done:
		if err != nil && !errors.Is(err, services.ErrEncode) && !errors.Is(err, services.ErrCapability) && !errors.Is(err, services.ErrTimeout) {
			err = services.Wrap(services.ErrEncode, "avif", op, "", err)
		}
		return err
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return services.Wrap(services.ErrTimeout, "avif", op, fmt.Sprintf("exceeded %s", timeout), ctx.Err())
		}
		return services.Wrap(services.ErrEncode, "avif", op, "cancelled", ctx.Err())
	}
}
