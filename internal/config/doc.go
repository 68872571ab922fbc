// Package config loads, normalizes, and validates tweetr configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment overrides such as
// TWEETR_CONFIG_DIR. The Config type centralizes the knobs the daemon and CLI
// need: where the credential, user, and queue files live, how long the daemon
// sleeps between cycles, and how the Twitter API and logs are reached.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
