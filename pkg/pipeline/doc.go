// Package pipeline drives one install run: flatten the menu, then for every
// entry resolve and convert its icon, write its launch wrappers, assemble the
// shortcut descriptor and persist it.
//
// Entries are independent. They are processed by a bounded worker pool and
// a failure in one entry is recorded against that entry only. Only problems
// that make every entry impossible (no menu, no install directory, no write
// access) abort the run.
package pipeline
