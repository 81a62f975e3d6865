// Package launcher writes the helper scripts a shortcut runs: the shared
// silent VBScript stub and, per entry, a bash wrapper inside the distribution
// plus the batch file Windows starts it with.
package launcher
