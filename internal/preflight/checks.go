package preflight

import (
	"context"
	"errors"
	"fmt"
	"os"

	"golang.org/x/sys/unix"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"autoavif/internal/fileutil"
	"autoavif/internal/magick"
)

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckFreeSpace verifies that the filesystem holding path has at least
// minBytes available to unprivileged users.
func CheckFreeSpace(name, path string, minBytes uint64) Result {
	var stat unix.Statfs_t
	if err := unix.Statfs(path, &stat); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: statfs: %v)", path, err)}
	}
	free := stat.Bavail * uint64(stat.Bsize)
	if free < minBytes {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: %s free, need %s)", path, fileutil.FormatBytes(free), fileutil.FormatBytes(minBytes))}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (%s free)", path, fileutil.FormatBytes(free))}
}

// CheckEncoder reports whether enc can produce AVIF. warning is the operator
// message shown when it cannot.
func CheckEncoder(ctx context.Context, enc Capability, warning string) Result {
	if enc == nil {
		return Result{Name: "AVIF encoder", Detail: warning + " (no encoder configured)"}
	}
	name := displayName(enc.Name()) + " AVIF encoder"
	if err := enc.Available(ctx); err != nil {
		if errors.Is(err, magick.ErrNotInstalled) {
			warning = "The ImageMagick engine is selected but the magick binary is not installed"
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (%v)", warning, err)}
	}
	return Result{Name: name, Passed: true, Detail: "available"}
}

func displayName(name string) string {
	return cases.Title(language.Und).String(name)
}
