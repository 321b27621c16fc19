// Package sweep backfills missing AVIF siblings across a directory tree.
//
// A sweep finds every source image under a root, lists its variants, and
// replays the save-ready point once per variant whose sibling is missing, so
// the sibling is encoded from the variant file as stored. Variants themselves
// are never rewritten. A lock file in the state directory keeps two sweeps
// from running at once.
package sweep
