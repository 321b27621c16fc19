// Package hooks is the observer registry connecting the image host to plugins
// such as the AVIF lifecycle manager.
//
// The host exposes six named points. Four are registry-wide (before and after a
// resize, before bulk deletion, before selective deletion) and run in priority
// order. The two save-ready points belong to a single ResizeEvent: observers
// attached to an event fire at most once and are never visible to any other
// event. A panicking handler is recovered and logged so a plugin can never
// abort the host operation.
package hooks
