//go:build unix

package paths

import (
	"io/fs"
	"path/filepath"

	"github.com/arthur-debert/wsltoolbar/pkg/errors"
	"github.com/arthur-debert/wsltoolbar/pkg/logging"
	"golang.org/x/sys/unix"
)

// CheckWritable verifies that root and everything below it is writable by the current user
func CheckWritable(root string) error {
	logger := logging.GetLogger("paths")
	var denied []string

	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if accessErr := unix.Access(p, unix.W_OK); accessErr != nil {
			logger.Error().Str("path", p).Err(accessErr).Msg("Cannot write")
			denied = append(denied, p)
			return nil
		}
		logger.Trace().Str("path", p).Msg("Can write")
		return nil
	})
	if err != nil {
		return errors.Wrapf(err, errors.ErrPermission, "cannot inspect %s", root)
	}
	if len(denied) > 0 {
		return errors.Newf(errors.ErrPermission, "could not confirm write access to all contents of %s", root).
			WithDetail("denied", denied)
	}
	return nil
}
