package filesystem

import (
	"errors"
	"io/fs"
	"path/filepath"
)

// WriteFileAtomic writes data to a temporary sibling of name and renames it into place,
// so readers never observe a partially written file.
func WriteFileAtomic(fsys FS, name string, data []byte, perm fs.FileMode) error {
	dir := filepath.Dir(name)
	if err := fsys.MkdirAll(dir, 0755); err != nil {
		return err
	}

	tmp, err := fsys.TempFile(dir, "."+filepath.Base(name)+".*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	_, writeErr := tmp.Write(data)
	closeErr := tmp.Close()
	if err := errors.Join(writeErr, closeErr); err != nil {
		_ = fsys.Remove(tmpName)
		return err
	}

	if err := fsys.Chmod(tmpName, perm); err != nil {
		_ = fsys.Remove(tmpName)
		return err
	}

	if err := fsys.Rename(tmpName, name); err != nil {
		_ = fsys.Remove(tmpName)
		return err
	}
	return nil
}

// EnsureFile creates name with data unless it already exists.
// It reports whether this call created the file; an existing file is not an error.
func EnsureFile(fsys FS, name string, data []byte, perm fs.FileMode) (bool, error) {
	if err := fsys.MkdirAll(filepath.Dir(name), 0755); err != nil {
		return false, err
	}
	err := fsys.CreateExclusive(name, data, perm)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrExist) {
		return false, nil
	}
	return false, err
}

// Exists reports whether name can be stat'ed
func Exists(fsys FS, name string) bool {
	_, err := fsys.Stat(name)
	return err == nil
}
