// Package services defines shared utilities consumed by the inspection and
// extraction workflows and the mkvtoolnix integration.
//
// Key responsibilities:
//   - Context helpers that stamp run IDs, stage names, and file paths for
//     logging.
//   - Structured error markers plus the Wrap helper that translate failures
//     into consistent per-file statuses.
//
// Subpackage mkvtoolnix wraps the mkvinfo and mkvextract executables behind a
// testable Executor.
package services
