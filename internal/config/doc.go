// Package config loads, normalizes, and validates autoavif configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours the AUTOAVIF_ENABLED environment
// override for the plugin master switch. The Config type centralizes every
// knob the lifecycle manager, the image engines, and the CLI need.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical engine names, and clear validation errors.
package config
