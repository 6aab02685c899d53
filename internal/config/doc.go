// Package config loads, normalizes, and validates docbridge configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// MARKITDOWN_BINARY and DOCBRIDGE_API_TOKEN. The Config type centralizes every
// knob the CLI and the HTTP API need, so staging/log directories and the
// converter binary are discovered in one pass.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
