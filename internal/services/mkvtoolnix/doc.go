// Package mkvtoolnix mediates access to the mkvinfo and mkvextract
// executables.
//
// It normalizes command invocation, applies per-call timeouts, forces the C
// locale when asked so reports match the English marker set, and exposes an
// Executor seam so tests never launch real processes. mkvextract exits with
// status 1 when it finished with warnings; Extract treats that as success.
package mkvtoolnix
