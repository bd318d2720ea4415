// Package assets models the binary files a creator supplies alongside a
// manifest.
//
// A File carries a display name used for correlation, a content type, and a
// coarse Kind (image, video, audio, other) inferred from the content type or
// extension. Payloads are opened lazily so large asset directories are not
// read into memory up front.
package assets
