package sweep

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/gofrs/flock"

	"autoavif/internal/avif"
	"autoavif/internal/fileutil"
	"autoavif/internal/logging"
	"autoavif/internal/services"
	"autoavif/internal/variant"
)

// ErrBusy is returned when another sweep holds the lock.
var ErrBusy = errors.New("another sweep is running")

// LockName is the lock file created in the state directory.
const LockName = "sweep.lock"

var imageExts = []string{"jpg", "jpeg", "png", "gif", "webp", "bmp", "tif", "tiff"}

// Report summarizes a sweep.
type Report struct {
	Sources    int
	Variants   int
	Present    int
	Missing    int
	Backfilled int
	Failed     int
}

// Options tune a sweep.
type Options struct {
	// DryRun counts missing siblings without encoding anything.
	DryRun bool
}

// Host lists variants and replays the save-ready point for an existing one.
type Host interface {
	Variations(src variant.Source) ([]variant.Variant, error)
	Reannounce(ctx context.Context, v variant.Variant) error
}

// Sweeper walks directory trees for variants lacking a sibling. Variants are
// never re-rendered; their siblings are built from the files on disk.
type Sweeper struct {
	host     Host
	lockPath string
	logger   *slog.Logger
}

// New constructs a sweeper. The lock file lives in stateDir.
func New(host Host, stateDir string, logger *slog.Logger) *Sweeper {
	return &Sweeper{
		host:     host,
		lockPath: filepath.Join(stateDir, LockName),
		logger:   logging.NewComponentLogger(logger, "sweep"),
	}
}

// Run sweeps root.
func (s *Sweeper) Run(ctx context.Context, root string, opts Options) (Report, error) {
	if err := os.MkdirAll(filepath.Dir(s.lockPath), 0o755); err != nil {
		return Report{}, fmt.Errorf("create state directory: %w", err)
	}
	lock := flock.New(s.lockPath)
	ok, err := lock.TryLock()
	if err != nil {
		return Report{}, fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return Report{}, fmt.Errorf("%w (lock %s)", ErrBusy, s.lockPath)
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			s.logger.Warn("failed to release sweep lock", logging.Error(err))
		}
	}()

	sources, err := findSources(root)
	if err != nil {
		return Report{}, err
	}

	var report Report
	for _, src := range sources {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		report.Sources++
		if err := s.sweepSource(ctx, src, opts, &report); err != nil {
			return report, err
		}
	}
	s.logger.Info("sweep complete",
		logging.String("root", root),
		logging.Int("sources", report.Sources),
		logging.Int("variants", report.Variants),
		logging.Int("missing", report.Missing),
		logging.Int("backfilled", report.Backfilled),
		logging.Int("failed", report.Failed),
	)
	return report, nil
}

func (s *Sweeper) sweepSource(ctx context.Context, src variant.Source, opts Options, report *Report) error {
	variants, err := s.host.Variations(src)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return nil
		}
		return err
	}
	for _, v := range variants {
		report.Variants++
		if fileutil.IsFile(avif.SiblingFor(v)) {
			report.Present++
			continue
		}
		report.Missing++
		if opts.DryRun {
			continue
		}
		if err := s.host.Reannounce(ctx, v); err != nil {
			report.Failed++
			logging.WarnWithContext(s.logger, "sweep reannounce failed", "sweep_reannounce_failed",
				logging.String(logging.FieldVariant, v.Basename()),
				logging.Error(err),
				logging.String(logging.FieldImpact, "variant left without avif sibling"),
			)
			continue
		}
		if fileutil.IsFile(avif.SiblingFor(v)) {
			report.Backfilled++
		} else {
			report.Failed++
		}
	}
	return nil
}

// findSources returns the images under root that are not themselves variants
// of another image in the same directory.
func findSources(root string) ([]variant.Source, error) {
	byDir := make(map[string][]string)
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != root && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(d.Name()), "."))
		if slices.Contains(imageExts, ext) {
			byDir[filepath.Dir(path)] = append(byDir[filepath.Dir(path)], d.Name())
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", root, err)
	}

	var sources []variant.Source
	for dir, names := range byDir {
		for _, name := range names {
			candidate := variant.Source{Path: filepath.Join(dir, name)}
			if !isVariantOfAny(candidate, dir, names) {
				sources = append(sources, candidate)
			}
		}
	}
	slices.SortFunc(sources, func(a, b variant.Source) int {
		return strings.Compare(a.Path, b.Path)
	})
	return sources, nil
}

func isVariantOfAny(candidate variant.Source, dir string, names []string) bool {
	for _, other := range names {
		if other == candidate.Basename() {
			continue
		}
		if _, ok := variant.Parse(variant.Source{Path: filepath.Join(dir, other)}, candidate.Basename()); ok {
			return true
		}
	}
	return false
}
