package config

import (
	"path/filepath"
	"time"

	"github.com/arthur-debert/wsltoolbar/pkg/errors"
	"github.com/arthur-debert/wsltoolbar/pkg/hostenv"
	"github.com/arthur-debert/wsltoolbar/pkg/paths"
)

// Persister names accepted by the persister key
const (
	PersisterLnk        = "lnk"
	PersisterPowerShell = "powershell"
)

// Config is the fully merged configuration for one run
type Config struct {
	TargetName        string        `koanf:"target_name"`
	MenuFile          string        `koanf:"menu_file"`
	InstallDirectory  string        `koanf:"install_directory"`
	MetadataDirectory string        `koanf:"metadata_directory"`
	Distribution      string        `koanf:"distribution"`
	User              string        `koanf:"user"`
	WSLExecutable     string        `koanf:"wsl_executable"`
	WScriptExecutable string        `koanf:"wscript_executable"`
	LaunchDirectory   string        `koanf:"launch_directory"`
	RCFile            string        `koanf:"rc_file"`
	BatchEncoding     string        `koanf:"batch_encoding"`
	BatchCRLF         bool          `koanf:"batch_crlf"`
	Concurrency       int           `koanf:"concurrency"`
	ConvertTimeout    time.Duration `koanf:"convert_timeout"`
	PersistTimeout    time.Duration `koanf:"persist_timeout"`
	Persister         string        `koanf:"persister"`
	HideMetadata      bool          `koanf:"hide_metadata"`
	VectorRasterizer  bool          `koanf:"vector_rasterizer"`
	Strict            bool          `koanf:"strict"`
	DryRun            bool          `koanf:"dry_run"`
	AssumeYes         bool          `koanf:"assume_yes"`

	Theme     ThemeConfig    `koanf:"theme"`
	Templates TemplateConfig `koanf:"templates"`
}

// ThemeConfig selects icon themes
type ThemeConfig struct {
	Preferred string   `koanf:"preferred"`
	Fallbacks []string `koanf:"fallbacks"`
	IconSize  int      `koanf:"icon_size"`
}

// TemplateConfig points at optional launcher template overrides
type TemplateConfig struct {
	Batch string `koanf:"batch"`
	Shell string `koanf:"shell"`
}

// Validate checks values that cannot be corrected automatically
func (c *Config) Validate() error {
	if c.TargetName == "" {
		return errors.New(errors.ErrConfigValid, "target_name must not be empty")
	}
	if c.Concurrency < 1 {
		return errors.Newf(errors.ErrConfigValid, "concurrency must be at least 1, got %d", c.Concurrency)
	}
	if c.Persister != PersisterLnk && c.Persister != PersisterPowerShell {
		return errors.Newf(errors.ErrConfigValid, "unknown persister %q (want %q or %q)",
			c.Persister, PersisterLnk, PersisterPowerShell)
	}
	if c.Theme.IconSize < 16 || c.Theme.IconSize > 256 {
		return errors.Newf(errors.ErrConfigValid, "theme.icon_size must be between 16 and 256, got %d", c.Theme.IconSize)
	}
	if c.ConvertTimeout <= 0 || c.PersistTimeout <= 0 {
		return errors.New(errors.ErrConfigValid, "timeouts must be positive")
	}
	return nil
}

// Resolve fills in values derived from the probed host and expands user paths.
// Install and metadata directories gain a target_name component so several
// distributions can be installed side by side.
func (c *Config) Resolve(env *hostenv.Environment) error {
	if c.Distribution == "" {
		c.Distribution = env.Distro
	}
	if c.User == "" {
		c.User = env.User
	}
	if c.MenuFile == "" {
		c.MenuFile = paths.DefaultMenuFile()
	}

	if c.InstallDirectory == "" || c.MetadataDirectory == "" {
		if env.UserProfile == "" {
			return errors.New(errors.ErrConfigValid,
				"could not locate the Windows user profile; set install_directory and metadata_directory")
		}
		root := paths.WindowsConfigRoot(env.UserProfile)
		if c.InstallDirectory == "" {
			c.InstallDirectory = filepath.Join(root, "menus")
		}
		if c.MetadataDirectory == "" {
			c.MetadataDirectory = filepath.Join(root, "metadata")
		}
	}

	c.InstallDirectory = filepath.Join(paths.ExpandHome(c.InstallDirectory), c.TargetName)
	c.MetadataDirectory = filepath.Join(paths.ExpandHome(c.MetadataDirectory), c.TargetName)
	c.MenuFile = paths.ExpandHome(c.MenuFile)
	c.LaunchDirectory = paths.ExpandHome(c.LaunchDirectory)
	c.RCFile = paths.ExpandHome(c.RCFile)
	c.Templates.Batch = paths.ExpandHome(c.Templates.Batch)
	c.Templates.Shell = paths.ExpandHome(c.Templates.Shell)

	if c.Distribution == "" {
		return errors.New(errors.ErrConfigValid, "distribution is unknown; set it or run inside WSL")
	}
	return nil
}
