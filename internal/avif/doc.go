// Package avif keeps an AVIF sibling in lockstep with every resized image
// variant.
//
// A Manager attaches handlers to a hooks.Registry. Before a variant is
// resized it decides eligibility and arms one-shot save-ready observers that
// encode the sibling next to the variant. After a resize it optionally
// backfills a missing sibling with a single forced regeneration. Before
// variants are deleted it removes their siblings.
//
// Encode failures never reach the host: they cost the sibling, never the
// primary variant.
package avif
