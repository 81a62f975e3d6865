package testutil

import (
	"io/fs"
	"path/filepath"
	"strings"
	"testing"

	"github.com/arthur-debert/wsltoolbar/pkg/filesystem"
)

// AssertFileExists fails the test when path is missing
func AssertFileExists(t *testing.T, fsys filesystem.FS, path string) {
	t.Helper()
	if _, err := fsys.Stat(path); err != nil {
		t.Errorf("Expected file %s to exist: %v", path, err)
	}
}

// AssertNoFile fails the test when path exists
func AssertNoFile(t *testing.T, fsys filesystem.FS, path string) {
	t.Helper()
	if _, err := fsys.Stat(path); err == nil {
		t.Errorf("Expected %s not to exist", path)
	}
}

// AssertFileContains fails the test unless path contains substr
func AssertFileContains(t *testing.T, fsys filesystem.FS, path, substr string) {
	t.Helper()
	data, err := fsys.ReadFile(path)
	if err != nil {
		t.Errorf("Failed to read %s: %v", path, err)
		return
	}
	if !strings.Contains(string(data), substr) {
		t.Errorf("File %s does not contain %q:\n%s", path, substr, data)
	}
}

// Files lists every regular file below root, relative to root and slash separated
func Files(t *testing.T, fsys filesystem.FS, root string) []string {
	t.Helper()
	var out []string
	var walk func(dir string)
	walk = func(dir string) {
		entries, err := fsys.ReadDir(dir)
		if err != nil {
			return
		}
		for _, e := range entries {
			full := filepath.Join(dir, e.Name())
			if e.IsDir() {
				walk(full)
				continue
			}
			if e.Type()&fs.ModeType == 0 {
				rel, _ := filepath.Rel(root, full)
				out = append(out, filepath.ToSlash(rel))
			}
		}
	}
	walk(root)
	return out
}
