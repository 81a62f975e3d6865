package wsltoolbar

import (
	"context"
	stderrors "errors"
	"fmt"
	"sort"
	"strings"

	"github.com/arthur-debert/wsltoolbar/pkg/errors"
)

// Process exit codes
const (
	ExitFailure     = 1
	ExitFatal       = 2
	ExitInterrupted = 130
)

// ExitCode maps a command error to the process exit status. Errors that
// abort a whole run (unreadable menu, unwritable install tree, bad config)
// exit with ExitFatal so scripts can tell them from usage mistakes.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case stderrors.Is(err, context.Canceled):
		return ExitInterrupted
	case errors.IsFatal(err):
		return ExitFatal
	default:
		return ExitFailure
	}
}

// FormatError renders err with any structured details on indented lines
func FormatError(err error) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Error: %v", err)

	details := errors.GetErrorDetails(err)
	keys := make([]string, 0, len(details))
	for k := range details {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&b, "\n  %s: %v", k, details[k])
	}
	return b.String()
}

// ShowUsage reports whether err was caused by how the command was invoked
func ShowUsage(err error) bool {
	code := errors.GetErrorCode(err)
	return code == errors.ErrConfigValid || code == errors.ErrInvalidInput
}
