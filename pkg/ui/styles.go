package ui

import (
	"github.com/pterm/pterm"

	"github.com/arthur-debert/wsltoolbar/pkg/manifest"
)

var (
	titleStyle = pterm.NewStyle(pterm.Bold)
	mutedStyle = pterm.NewStyle(pterm.FgGray)
)

// StatusStyle returns the style used for an entry status
func StatusStyle(status string) *pterm.Style {
	switch status {
	case manifest.StatusOK:
		return pterm.NewStyle(pterm.FgGreen)
	case manifest.StatusIconless:
		return pterm.NewStyle(pterm.FgYellow)
	case manifest.StatusFailed:
		return pterm.NewStyle(pterm.FgRed, pterm.Bold)
	case manifest.StatusPlanned:
		return pterm.NewStyle(pterm.FgCyan)
	default:
		return mutedStyle
	}
}

// StatusSymbol is the one-character marker printed before each entry
func StatusSymbol(status string) string {
	switch status {
	case manifest.StatusOK:
		return "✓"
	case manifest.StatusIconless:
		return "○"
	case manifest.StatusFailed:
		return "✗"
	case manifest.StatusPlanned:
		return "→"
	default:
		return "?"
	}
}
