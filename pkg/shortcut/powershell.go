package shortcut

import (
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/arthur-debert/wsltoolbar/pkg/errors"
	"github.com/arthur-debert/wsltoolbar/pkg/filesystem"
	"github.com/arthur-debert/wsltoolbar/pkg/logging"
	"github.com/arthur-debert/wsltoolbar/pkg/types"
)

// DefaultPersistTimeout bounds one powershell invocation
const DefaultPersistTimeout = 30 * time.Second

// CommandRunner executes an external command; it is swapped out in tests
type CommandRunner func(ctx context.Context, name string, args ...string) ([]byte, error)

func execRunner(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).CombinedOutput()
}

// PowerShellPersister creates shortcuts through the WScript.Shell COM object
type PowerShellPersister struct {
	FS         filesystem.FS
	Executable string
	// ToWindows converts the local link path into the path Windows sees
	ToWindows func(string) (string, error)
	Timeout   time.Duration
	Run       CommandRunner
}

// NewPowerShellPersister creates a persister invoking executable
func NewPowerShellPersister(fsys filesystem.FS, executable string, toWindows func(string) (string, error), timeout time.Duration) *PowerShellPersister {
	return &PowerShellPersister{
		FS:         fsys,
		Executable: executable,
		ToWindows:  toWindows,
		Timeout:    timeout,
		Run:        execRunner,
	}
}

// Persist runs one powershell process that saves the shortcut
func (p *PowerShellPersister) Persist(ctx context.Context, d types.ShortcutDescriptor) (string, error) {
	logger := logging.GetLogger("shortcut.powershell")

	if err := p.FS.MkdirAll(filepath.Dir(d.LinkPath), 0755); err != nil {
		return "", errors.Wrapf(err, errors.ErrDirCreate, "failed to create %s", filepath.Dir(d.LinkPath))
	}

	winLink, err := p.ToWindows(d.LinkPath)
	if err != nil {
		return "", errors.Wrap(err, errors.ErrShortcutPersist, "cannot translate link path")
	}

	timeout := p.Timeout
	if timeout <= 0 {
		timeout = DefaultPersistTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	args := []string{"-NoLogo", "-NoProfile", "-NonInteractive", "-ExecutionPolicy", "Bypass",
		"-Command", ShortcutScript(winLink, d)}
	logging.LogCommand(p.Executable, args[:len(args)-1])

	run := p.Run
	if run == nil {
		run = execRunner
	}
	out, err := run(ctx, p.Executable, args...)
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrShortcutPersist, "%s failed", p.Executable).
			WithDetail("output", strings.TrimSpace(string(out)))
	}

	logger.Debug().Str("link", d.LinkPath).Msg("Shortcut saved through WScript.Shell")
	return d.LinkPath, nil
}

// ShortcutScript returns the PowerShell program saving d at winLink
func ShortcutScript(winLink string, d types.ShortcutDescriptor) string {
	var b strings.Builder
	b.WriteString("$s = (New-Object -ComObject WScript.Shell).CreateShortcut(" + psQuote(winLink) + ");")
	b.WriteString("$s.TargetPath = " + psQuote(d.TargetExecutable) + ";")
	if d.Arguments != "" {
		b.WriteString("$s.Arguments = " + psQuote(d.Arguments) + ";")
	}
	if d.Comment != "" {
		b.WriteString("$s.Description = " + psQuote(d.Comment) + ";")
	}
	if d.WorkingDirectory != "" {
		b.WriteString("$s.WorkingDirectory = " + psQuote(d.WorkingDirectory) + ";")
	}
	if d.IconPath != "" {
		b.WriteString("$s.IconLocation = " + psQuote(fmt.Sprintf("%s,%d", d.IconPath, d.IconIndex)) + ";")
	}
	b.WriteString("$s.Save()")
	return b.String()
}

// psQuote single-quotes s; inside single quotes only the quote itself needs doubling
func psQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
