// Package config loads, normalizes, and validates the cardsort TOML
// configuration file.
package config
