// Package config loads, normalizes, and validates mkvcleaver configuration
// data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours the MKVCLEAVER_TOOLNIX_DIR
// environment fallback. The Config type centralizes the workspace location,
// the mkvtoolnix install, report marker profiles, and extraction settings so
// the CLI resolves everything in one pass.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
