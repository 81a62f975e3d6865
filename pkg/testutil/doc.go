// Package testutil provides fixtures for testing wsltoolbar components.
//
// Key components:
//   - TestEnvironment: an in-memory host with a mounted C: drive, a user
//     profile and XDG directories, plus a ready-to-use Config
//   - Fixture writers for desktop entries, menu files and icon themes
//   - Assertions on generated files
//
// Usage guidelines:
//   - Prefer EnvMemoryOnly; it never touches the real disk
//   - Define fixture content inline in the test that uses it
package testutil
