// Package config handles configuration management for wsltoolbar.
// It layers the embedded defaults, an optional TOML or YAML user file, an
// optional dotenv file, WSLTOOLBAR_ environment variables and command-line
// overrides, in that order.
package config
