// Package services defines shared utilities consumed by the image pipeline, the
// lifecycle manager, and the CLI.
//
// Key responsibilities:
//   - Context helpers that stamp correlation identifiers and variant names for
//     logging.
//   - Structured error markers plus the Wrap helper so callers can tell a
//     degraded derived artifact apart from a failed host operation.
//
// Use these helpers when wiring new pipeline logic so error classification and
// observability stay uniform.
package services
