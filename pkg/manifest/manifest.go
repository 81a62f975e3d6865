// Package manifest records what the last install run produced.
package manifest

import (
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/arthur-debert/wsltoolbar/pkg/errors"
	"github.com/arthur-debert/wsltoolbar/pkg/filesystem"
)

// Entry status values
const (
	StatusOK       = "ok"
	StatusIconless = "iconless"
	StatusFailed   = "failed"
	StatusPlanned  = "planned"
)

// Entry is one flattened menu path and what happened to it
type Entry struct {
	Path   string `toml:"path" yaml:"path"`
	ID     string `toml:"id,omitempty" yaml:"id,omitempty"`
	Status string `toml:"status" yaml:"status"`
	Link   string `toml:"link,omitempty" yaml:"link,omitempty"`
	Icon   string `toml:"icon,omitempty" yaml:"icon,omitempty"`
	Stage  string `toml:"stage,omitempty" yaml:"stage,omitempty"`
	Error  string `toml:"error,omitempty" yaml:"error,omitempty"`
}

// Manifest is written to the metadata directory after every run
type Manifest struct {
	RunID             string    `toml:"run_id" yaml:"run_id"`
	Version           string    `toml:"version" yaml:"version"`
	GeneratedAt       time.Time `toml:"generated_at" yaml:"generated_at"`
	Target            string    `toml:"target" yaml:"target"`
	MenuFile          string    `toml:"menu_file" yaml:"menu_file"`
	InstallDirectory  string    `toml:"install_directory" yaml:"install_directory"`
	MetadataDirectory string    `toml:"metadata_directory" yaml:"metadata_directory"`
	Attempted         int       `toml:"attempted" yaml:"attempted"`
	Succeeded         int       `toml:"succeeded" yaml:"succeeded"`
	Failed            int       `toml:"failed" yaml:"failed"`
	Iconless          int       `toml:"iconless" yaml:"iconless"`
	Entries           []Entry   `toml:"entry" yaml:"entries"`
}

// Write stores m at path, replacing the previous manifest atomically
func Write(fsys filesystem.FS, path string, m *Manifest) error {
	data, err := toml.Marshal(m)
	if err != nil {
		return errors.Wrap(err, errors.ErrInternal, "cannot encode manifest")
	}
	if err := filesystem.WriteFileAtomic(fsys, path, data, 0644); err != nil {
		return errors.Wrapf(err, errors.ErrFileWrite, "cannot write manifest %s", path)
	}
	return nil
}

// Read loads the manifest at path
func Read(fsys filesystem.FS, path string) (*Manifest, error) {
	data, err := fsys.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrNotFound, "no manifest at %s", path)
	}
	var m Manifest
	if err := toml.Unmarshal(data, &m); err != nil {
		return nil, errors.Wrapf(err, errors.ErrFileAccess, "invalid manifest %s", path)
	}
	return &m, nil
}

// Counts returns the number of entries per status
func (m *Manifest) Counts() map[string]int {
	counts := make(map[string]int)
	for _, e := range m.Entries {
		counts[e.Status]++
	}
	return counts
}
