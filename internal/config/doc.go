// Package config loads, normalizes, and validates mintforge configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks for service
// credentials such as MINTFORGE_LEDGER_TOKEN. The Config type centralizes every
// knob the CLI and the batch executor need, so storage, ledger and record
// endpoints are discovered in one pass.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
