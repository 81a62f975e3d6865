package testutil

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/arthur-debert/wsltoolbar/pkg/config"
	"github.com/arthur-debert/wsltoolbar/pkg/filesystem"
	"github.com/arthur-debert/wsltoolbar/pkg/paths"
)

// EnvType defines the type of test environment
type EnvType int

const (
	EnvMemoryOnly EnvType = iota // Pure in-memory, no real filesystem
	EnvIsolated                  // Real filesystem in temp directory
)

// Distro is the distribution name every test environment reports
const Distro = "Ubuntu"

// TestEnvironment is a fake WSL host
type TestEnvironment struct {
	// Root is "/" in memory and a temp dir when isolated
	Root string
	// DriveMount is where C: is mounted
	DriveMount  string
	UserProfile string
	HomeDir     string
	DataHome    string
	ConfigHome  string

	FS         filesystem.FS
	Translator *paths.Translator
	Config     *config.Config

	Type EnvType
	t    *testing.T
}

// NewTestEnvironment creates the directories and a resolved Config whose
// install and metadata directories live under the user profile
func NewTestEnvironment(t *testing.T, envType EnvType) *TestEnvironment {
	t.Helper()

	env := &TestEnvironment{t: t, Type: envType, Root: "/"}
	switch envType {
	case EnvMemoryOnly:
		env.FS = filesystem.NewMemory()
	case EnvIsolated:
		env.Root = t.TempDir()
		env.FS = filesystem.NewOS()
	}

	env.DriveMount = filepath.Join(env.Root, "mnt", "c")
	env.UserProfile = filepath.Join(env.DriveMount, "Users", "tester")
	env.HomeDir = filepath.Join(env.Root, "home", "tester")
	env.DataHome = filepath.Join(env.HomeDir, ".local", "share")
	env.ConfigHome = filepath.Join(env.HomeDir, ".config")

	for _, dir := range []string{env.UserProfile, env.DataHome, env.ConfigHome} {
		if err := env.FS.MkdirAll(dir, 0755); err != nil {
			t.Fatalf("Failed to create %s: %v", dir, err)
		}
	}

	env.Translator = paths.NewTranslator([]paths.Mount{{Drive: "C", Point: env.DriveMount, FSType: "9p"}}, Distro)
	env.Config = env.newConfig()
	return env
}

func (env *TestEnvironment) newConfig() *config.Config {
	root := paths.WindowsConfigRoot(env.UserProfile)
	return &config.Config{
		TargetName:        "WSL",
		MenuFile:          filepath.Join(env.ConfigHome, "menus", "applications.menu"),
		InstallDirectory:  filepath.Join(root, "menus", "WSL"),
		MetadataDirectory: filepath.Join(root, "metadata", "WSL"),
		Distribution:      Distro,
		User:              "tester",
		WSLExecutable:     `C:\Windows\System32\wsl.exe`,
		WScriptExecutable: `C:\Windows\System32\wscript.exe`,
		LaunchDirectory:   env.HomeDir,
		RCFile:            filepath.Join(env.HomeDir, ".bashrc"),
		Concurrency:       2,
		ConvertTimeout:    5 * time.Second,
		PersistTimeout:    5 * time.Second,
		Persister:         config.PersisterLnk,
		HideMetadata:      true,
		VectorRasterizer:  true,
		Theme: config.ThemeConfig{
			Preferred: "Adwaita",
			Fallbacks: []string{"Papirus"},
			IconSize:  48,
		},
	}
}

// ApplicationsDir is the user applications directory
func (env *TestEnvironment) ApplicationsDir() string {
	return filepath.Join(env.DataHome, "applications")
}

// DirectoriesDir is the user desktop-directories directory
func (env *TestEnvironment) DirectoriesDir() string {
	return filepath.Join(env.DataHome, "desktop-directories")
}

// IconsDir is the user icon theme root
func (env *TestEnvironment) IconsDir() string {
	return filepath.Join(env.DataHome, "icons")
}

// PixmapsDir is the unthemed icon directory
func (env *TestEnvironment) PixmapsDir() string {
	return filepath.Join(env.Root, "usr", "share", "pixmaps")
}
