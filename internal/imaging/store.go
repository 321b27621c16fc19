package imaging

import (
	"context"
	"log/slog"
	"os"
	"slices"
	"strings"

	"autoavif/internal/fileutil"
	"autoavif/internal/hooks"
	"autoavif/internal/logging"
	"autoavif/internal/services"
	"autoavif/internal/variant"
)

// Store lists and deletes the variants stored next to a source image.
type Store struct {
	registry *hooks.Registry
	logger   *slog.Logger
}

// NewStore constructs a store bound to registry.
func NewStore(registry *hooks.Registry, logger *slog.Logger) *Store {
	return &Store{
		registry: registry,
		logger:   logging.NewComponentLogger(logger, "store"),
	}
}

// Variations returns the variants of src found on disk, ordered by basename.
func (s *Store) Variations(src variant.Source) ([]variant.Variant, error) {
	entries, err := os.ReadDir(src.Dir())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, services.Wrap(services.ErrNotFound, "store", "list variations", src.Dir(), err)
		}
		return nil, services.Wrap(services.ErrTransient, "store", "list variations", src.Dir(), err)
	}
	var out []variant.Variant
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if v, ok := variant.Parse(src, entry.Name()); ok {
			out = append(out, v)
		}
	}
	slices.SortFunc(out, func(a, b variant.Variant) int {
		return strings.Compare(a.Basename(), b.Basename())
	})
	return out, nil
}

// DeleteResult lists what a deletion removed.
type DeleteResult struct {
	Removed []string
	Failed  []string
}

// DeleteAll removes every variant of src and, unless keepOriginal is set, the
// source itself. Subscribers are notified before anything is removed.
func (s *Store) DeleteAll(ctx context.Context, src variant.Source, keepOriginal bool) (DeleteResult, error) {
	variants, err := s.Variations(src)
	if err != nil {
		return DeleteResult{}, err
	}
	s.registry.FireBeforeDeleteAll(ctx, &hooks.DeleteAllEvent{Source: src, Variants: slices.Clone(variants)})

	var result DeleteResult
	for _, v := range variants {
		s.remove(ctx, v.Path, &result)
	}
	if !keepOriginal {
		s.remove(ctx, src.Path, &result)
	}
	return result, nil
}

// DeleteSelected removes the variants of src named by basenames. Names that
// do not match a current variant are ignored.
func (s *Store) DeleteSelected(ctx context.Context, src variant.Source, basenames []string) (DeleteResult, error) {
	if len(basenames) == 0 {
		return DeleteResult{}, nil
	}
	s.registry.FireBeforeDeleteSelected(ctx, &hooks.DeleteSelectedEvent{Source: src, Basenames: slices.Clone(basenames)})

	variants, err := s.Variations(src)
	if err != nil {
		return DeleteResult{}, err
	}
	var result DeleteResult
	for _, v := range variants {
		if slices.Contains(basenames, v.Basename()) {
			s.remove(ctx, v.Path, &result)
		}
	}
	return result, nil
}

func (s *Store) remove(ctx context.Context, path string, result *DeleteResult) {
	removed, err := fileutil.RemoveIfExists(path)
	if err != nil {
		logging.WarnWithContext(logging.WithContext(ctx, s.logger), "remove file failed", "store_remove_failed",
			logging.String("path", path),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check permissions on the image directory"),
			logging.String(logging.FieldImpact, "file left on disk"),
		)
		result.Failed = append(result.Failed, path)
		return
	}
	if removed {
		result.Removed = append(result.Removed, path)
	}
}
