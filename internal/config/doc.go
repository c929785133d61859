// Package config loads, normalizes, and validates catalogid configuration.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), and reads TOML files. The Config type centralizes the snapshot,
// id cache, and output directories together with the identity-matching
// thresholds and the curated tables (department renames, generic titles,
// override split specs) that the engine loads once at startup.
//
// Always obtain settings through this package so downstream code receives
// expanded paths, canonical log formats, and clear validation errors.
package config
