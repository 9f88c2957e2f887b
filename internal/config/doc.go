// Package config loads, normalizes, and validates scribe configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// HF_TOKEN and SCRIBE_DEVICE. The Config type replaces the process-wide
// constants a prediction would otherwise need (model path, device, compute
// precision) so a single predictor instance owns its settings.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
