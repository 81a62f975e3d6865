package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/arthur-debert/wsltoolbar/pkg/errors"
	"github.com/arthur-debert/wsltoolbar/pkg/hostenv"
	"github.com/arthur-debert/wsltoolbar/pkg/paths"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate points the config search at an empty directory and clears WSLTOOLBAR_ variables
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	for _, kv := range os.Environ() {
		name, _, _ := strings.Cut(kv, "=")
		if strings.HasPrefix(name, EnvPrefix) {
			t.Setenv(name, "")
			require.NoError(t, os.Unsetenv(name))
		}
	}
	t.Setenv(paths.EnvConfigDir, dir)
	return dir
}

func TestLoadDefaults(t *testing.T) {
	isolate(t)

	cfg, err := LoadConfiguration(LoadOptions{})
	require.NoError(t, err)

	assert.Equal(t, "WSL", cfg.TargetName)
	assert.Equal(t, `C:\Windows\System32\wsl.exe`, cfg.WSLExecutable)
	assert.Equal(t, "Adwaita", cfg.Theme.Preferred)
	assert.Equal(t, []string{"Papirus", "Humanity", "elementary-xfce"}, cfg.Theme.Fallbacks)
	assert.Equal(t, 48, cfg.Theme.IconSize)
	assert.Equal(t, 30*time.Second, cfg.ConvertTimeout)
	assert.Equal(t, PersisterLnk, cfg.Persister)
	assert.Equal(t, 4, cfg.Concurrency)
	assert.True(t, cfg.HideMetadata)
}

func TestLoadUserTOML(t *testing.T) {
	dir := isolate(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(`
target_name = "Debian"
concurrency = 2

[theme]
preferred = "Papirus"
fallbacks = ["Breeze"]
`), 0644))

	cfg, err := LoadConfiguration(LoadOptions{})
	require.NoError(t, err)

	assert.Equal(t, "Debian", cfg.TargetName)
	assert.Equal(t, 2, cfg.Concurrency)
	assert.Equal(t, "Papirus", cfg.Theme.Preferred)
	assert.Equal(t, []string{"Breeze"}, cfg.Theme.Fallbacks)
	assert.Equal(t, 48, cfg.Theme.IconSize, "unset nested keys keep their defaults")
}

func TestLoadExplicitYAML(t *testing.T) {
	isolate(t)
	file := filepath.Join(t.TempDir(), "custom.yaml")
	require.NoError(t, os.WriteFile(file, []byte("persister: powershell\nconvert_timeout: 5s\n"), 0644))

	cfg, err := LoadConfiguration(LoadOptions{ConfigFile: file})
	require.NoError(t, err)

	assert.Equal(t, PersisterPowerShell, cfg.Persister)
	assert.Equal(t, 5*time.Second, cfg.ConvertTimeout)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	isolate(t)

	_, err := LoadConfiguration(LoadOptions{ConfigFile: "/does/not/exist.toml"})
	assert.True(t, errors.IsErrorCode(err, errors.ErrConfigLoad))
}

func TestLayerPrecedence(t *testing.T) {
	dir := isolate(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"),
		[]byte("target_name = \"FromFile\"\nconcurrency = 2\nuser = \"file-user\"\n"), 0644))

	envFile := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(envFile,
		[]byte("WSLTOOLBAR_CONCURRENCY=3\nWSLTOOLBAR_USER=dotenv-user\nUNRELATED=1\n"), 0644))

	t.Setenv("WSLTOOLBAR_USER", "env-user")
	t.Setenv("WSLTOOLBAR_THEME__FALLBACKS", "Breeze,Oxygen")

	cfg, err := LoadConfiguration(LoadOptions{
		EnvFile:   envFile,
		Overrides: map[string]interface{}{"target_name": "FromFlag"},
	})
	require.NoError(t, err)

	assert.Equal(t, "FromFlag", cfg.TargetName)
	assert.Equal(t, 3, cfg.Concurrency)
	assert.Equal(t, "env-user", cfg.User)
	assert.Equal(t, []string{"Breeze", "Oxygen"}, cfg.Theme.Fallbacks)
}

func TestValidate(t *testing.T) {
	isolate(t)

	tests := []struct {
		name     string
		override map[string]interface{}
	}{
		{"zero concurrency", map[string]interface{}{"concurrency": 0}},
		{"unknown persister", map[string]interface{}{"persister": "zip"}},
		{"tiny icons", map[string]interface{}{"theme.icon_size": 8}},
		{"empty target", map[string]interface{}{"target_name": ""}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfiguration(LoadOptions{Overrides: tt.override})
			assert.True(t, errors.IsErrorCode(err, errors.ErrConfigValid), "got %v", err)
		})
	}
}

func TestResolve(t *testing.T) {
	isolate(t)
	t.Setenv(paths.EnvHome, "/home/me")

	cfg, err := LoadConfiguration(LoadOptions{Overrides: map[string]interface{}{"menu_file": "/etc/xdg/menus/test.menu"}})
	require.NoError(t, err)

	env := &hostenv.Environment{UserProfile: "/mnt/c/Users/me", Distro: "Ubuntu", User: "me"}
	require.NoError(t, cfg.Resolve(env))

	root := "/mnt/c/Users/me/.config/wsl-windows-toolbar-launcher"
	assert.Equal(t, filepath.Join(root, "menus", "WSL"), cfg.InstallDirectory)
	assert.Equal(t, filepath.Join(root, "metadata", "WSL"), cfg.MetadataDirectory)
	assert.Equal(t, "Ubuntu", cfg.Distribution)
	assert.Equal(t, "me", cfg.User)
	assert.Equal(t, "/home/me/.bashrc", cfg.RCFile)
	assert.Equal(t, "/home/me", cfg.LaunchDirectory)
}

func TestResolveWithoutUserProfile(t *testing.T) {
	isolate(t)

	cfg, err := LoadConfiguration(LoadOptions{})
	require.NoError(t, err)

	err = cfg.Resolve(&hostenv.Environment{Distro: "Ubuntu"})
	assert.True(t, errors.IsErrorCode(err, errors.ErrConfigValid))
}

func TestEnvKey(t *testing.T) {
	assert.Equal(t, "theme.icon_size", envKey("WSLTOOLBAR_THEME__ICON_SIZE"))
	assert.Equal(t, "install_directory", envKey("WSLTOOLBAR_INSTALL_DIRECTORY"))
}
