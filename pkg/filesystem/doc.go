// Package filesystem provides the filesystem abstraction used by the pipeline.
//
// Production code runs on afero's OS filesystem; tests swap in an in-memory
// afero filesystem. The package also carries the atomic and exclusive write
// helpers the pipeline relies on and the best-effort hidden-attribute marker.
package filesystem
