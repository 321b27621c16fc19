package avif

import (
	"context"

	"autoavif/internal/fileutil"
	"autoavif/internal/hooks"
	"autoavif/internal/logging"
	"autoavif/internal/variant"
)

func (m *Manager) beforeDeleteAll(ctx context.Context, ev *hooks.DeleteAllEvent) {
	for _, v := range ev.Variants {
		m.removeSibling(ctx, v)
	}
}

func (m *Manager) beforeDeleteSelected(ctx context.Context, ev *hooks.DeleteSelectedEvent) {
	if len(ev.Basenames) == 0 {
		return
	}
	byName, err := m.currentVariants(ev.Source, ev.Basenames)
	if err != nil {
		logging.WarnWithContext(m.eventLogger(ctx), "list variants failed", "avif_delete_lookup_failed",
			logging.String("source", ev.Source.Path),
			logging.Error(err),
			logging.String(logging.FieldImpact, "selected avif siblings left in place"),
		)
		return
	}
	for _, name := range ev.Basenames {
		v, ok := byName[name]
		if !ok {
			continue
		}
		m.removeSibling(ctx, v)
	}
}

// currentVariants indexes the variants of src by basename. Without a host the
// requested names are parsed and kept only when the variant file exists.
func (m *Manager) currentVariants(src variant.Source, names []string) (map[string]variant.Variant, error) {
	byName := make(map[string]variant.Variant)
	if m.host != nil {
		current, err := m.host.Variations(src)
		if err != nil {
			return nil, err
		}
		for _, v := range current {
			byName[v.Basename()] = v
		}
		return byName, nil
	}
	for _, name := range names {
		if v, ok := variant.Parse(src, name); ok && fileutil.IsFile(v.Path) {
			byName[name] = v
		}
	}
	return byName, nil
}

func (m *Manager) removeSibling(ctx context.Context, v variant.Variant) {
	sibling := SiblingFor(v)
	removed, err := fileutil.RemoveIfExists(sibling)
	if err != nil {
		logging.WarnWithContext(m.eventLogger(ctx), "remove avif sibling failed", "avif_remove_failed",
			logging.String("avif_path", sibling),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check permissions on the variant directory"),
			logging.String(logging.FieldImpact, "orphaned avif file remains"),
		)
		return
	}
	if removed {
		m.eventLogger(ctx).Debug("removed avif sibling", logging.String("avif_path", sibling))
	}
}
