package filesystem

import (
	"context"
	"os/exec"
	"time"

	"github.com/arthur-debert/wsltoolbar/pkg/logging"
)

// Hider marks generated files as hidden so the Windows search indexer skips them
type Hider interface {
	Hide(ctx context.Context, path string) error
}

// NoopHider leaves files untouched
type NoopHider struct{}

// Hide does nothing
func (NoopHider) Hide(context.Context, string) error { return nil }

// AttribHider runs attrib.exe on the Windows view of a path
type AttribHider struct {
	// Executable is the attrib binary, usually "attrib.exe"
	Executable string
	// ToWindows converts a local path to the Windows path attrib expects
	ToWindows func(string) (string, error)
	Timeout   time.Duration
}

// Hide sets the hidden and system attributes on path
func (h AttribHider) Hide(ctx context.Context, path string) error {
	winPath, err := h.ToWindows(path)
	if err != nil {
		return err
	}

	timeout := h.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	args := []string{"+h", "+s", winPath}
	logging.LogCommand(h.Executable, args)
	return exec.CommandContext(ctx, h.Executable, args...).Run()
}
