package launcher

import (
	"path/filepath"

	"github.com/arthur-debert/wsltoolbar/pkg/errors"
	"github.com/arthur-debert/wsltoolbar/pkg/filesystem"
	"github.com/arthur-debert/wsltoolbar/pkg/logging"
	"github.com/arthur-debert/wsltoolbar/pkg/paths"
)

// StubContent starts the program named by its first argument with a hidden window
const StubContent = `CreateObject("Wscript.Shell").Run """" & WScript.Arguments(0) & """", 0, False`

// EnsureStub creates the silent launcher in dir unless it already exists.
// Concurrent callers and repeated runs are safe: finding the file is success.
func EnsureStub(fsys filesystem.FS, dir string) (string, bool, error) {
	path := filepath.Join(dir, paths.SilentLauncherName)
	created, err := filesystem.EnsureFile(fsys, path, []byte(StubContent), 0644)
	if err != nil {
		return "", false, errors.Wrapf(err, errors.ErrLauncherWrite, "cannot create %s", path)
	}
	if created {
		logger := logging.GetLogger("launcher")
		logger.Info().Str("path", path).Msg("Created silent launcher")
	}
	return path, created, nil
}
