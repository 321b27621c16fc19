// Package preflight provides readiness checks for the environment autoavif
// runs in.
//
// The lifecycle pipelines never surface capability problems; an encoder that
// cannot run is skipped silently. These checks are where such problems become
// visible: the CLI "autoavif check" command runs RunAll and prints a warning
// for each failed check.
package preflight
