// Package config loads, normalizes, and validates discset configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment overrides such as
// DISCSET_ROMS_DIR and DISCSET_DRY_RUN. The Config type centralizes every knob
// the engine and CLI need: where ROM platforms live, which platforms keep a
// catalog instead of playlists, and where run state is kept.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, lowercase extensions, and clear validation errors.
package config
