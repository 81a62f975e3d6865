// Package ui renders run summaries and manifests for the terminal, as plain
// text, or as YAML/TOML for scripts.
package ui
