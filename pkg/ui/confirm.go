package ui

import (
	"os"

	"github.com/mattn/go-isatty"
	"github.com/pterm/pterm"

	"github.com/arthur-debert/wsltoolbar/pkg/errors"
)

// Confirm asks a yes/no question. assumeYes answers it without asking; a
// non-interactive stdin without assumeYes is an error.
func Confirm(question string, assumeYes bool) (bool, error) {
	if assumeYes {
		return true, nil
	}
	if !isatty.IsTerminal(os.Stdin.Fd()) && !isatty.IsCygwinTerminal(os.Stdin.Fd()) {
		return false, errors.New(errors.ErrInvalidInput, "confirmation required but stdin is not a terminal; pass --yes")
	}
	return pterm.DefaultInteractiveConfirm.WithDefaultValue(false).Show(question)
}
