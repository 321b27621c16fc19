// Package variant models source images, their resized variants, and the option
// bag used to request them.
//
// Variant filenames are deterministic: `<stem>.<W>x<H>[-<suffix>...].<ext>` in
// the source directory. Name builds a filename from a request and Parse reads
// one back, so the store can enumerate variants from a directory listing alone.
package variant
