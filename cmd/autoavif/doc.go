// Package main hosts the autoavif CLI entrypoint and command graph.
//
// The Cobra command tree plays the part of the host application: it produces
// and deletes image variants through internal/imaging while the AVIF
// lifecycle manager, attached to the same hook registry, keeps the AVIF
// siblings in step. It also exposes the environment check, the batch sweep,
// and configuration scaffolding.
//
// Keep this package lean: add new functionality by extending the internal
// packages first, then surface it through dedicated commands or flags here.
package main
