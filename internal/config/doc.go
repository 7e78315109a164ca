// Package config loads, normalizes, and validates presenvid configuration.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), and reads TOML files. The Config type centralizes every knob
// the CLI needs: storage backend selection, library/staging/log directories,
// export container format, and the ffmpeg binaries driving the assembly
// pipeline.
//
// Always obtain settings through this package so downstream code receives
// sanitized absolute paths, canonical backend/format tags, and clear
// validation errors.
package config
