// Package config loads, normalizes, and validates layerpage configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), and reads TOML files. The Config type centralizes every knob the
// build pipeline and CLI need: where pages and assets are written, which page
// template renders them, where build history lives, and how logs are shaped.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
