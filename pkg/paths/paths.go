package paths

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
)

// Environment variable names
const (
	// EnvConfigDir overrides the XDG config directory for wsltoolbar
	EnvConfigDir = "WSLTOOLBAR_CONFIG_DIR"

	// EnvHome is the standard home directory variable
	EnvHome = "HOME"
)

// Fixed names used for generated files
const (
	// AppDirName is the directory name used under XDG and Windows config roots
	AppDirName = "wsltoolbar"

	// WindowsConfigDirName is the directory created under %USERPROFILE%\.config
	WindowsConfigDirName = "wsl-windows-toolbar-launcher"

	// ConfigFileBase is the user config file name without extension
	ConfigFileBase = "config"

	// SilentLauncherName is the shared VBScript stub in the metadata directory
	SilentLauncherName = "silent-launcher.vbs"

	// ManifestName is the run manifest in the metadata directory
	ManifestName = "manifest.toml"

	// LinkExtension is appended to every flattened path in the install directory
	LinkExtension = ".lnk"
)

// ExpandHome expands a leading ~ to the user's home directory
func ExpandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home := os.Getenv(EnvHome)
	if home == "" {
		home = xdg.Home
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}

// ConfigDir returns the directory holding the user configuration file
func ConfigDir() string {
	if dir := os.Getenv(EnvConfigDir); dir != "" {
		return ExpandHome(dir)
	}
	return filepath.Join(xdg.ConfigHome, AppDirName)
}

// ConfigFileCandidates returns the user config files to try, in order
func ConfigFileCandidates() []string {
	dir := ConfigDir()
	return []string{
		filepath.Join(dir, ConfigFileBase+".toml"),
		filepath.Join(dir, ConfigFileBase+".yaml"),
		filepath.Join(dir, ConfigFileBase+".yml"),
	}
}

// DefaultMenuFile returns the first applications menu found in the XDG config dirs
func DefaultMenuFile() string {
	dirs := append([]string{xdg.ConfigHome}, xdg.ConfigDirs...)
	for _, name := range []string{"applications.menu", "gnome-applications.menu"} {
		for _, dir := range dirs {
			candidate := filepath.Join(dir, "menus", name)
			if _, err := os.Stat(candidate); err == nil {
				return candidate
			}
		}
	}
	return "/etc/xdg/menus/gnome-applications.menu"
}

// DataDirs returns $XDG_DATA_HOME followed by $XDG_DATA_DIRS
func DataDirs() []string {
	return append([]string{xdg.DataHome}, xdg.DataDirs...)
}

// ApplicationDirs returns the default desktop-file directories in priority order
func ApplicationDirs() []string {
	return appendEach(DataDirs(), "applications")
}

// DesktopDirectoryDirs returns the default .directory file locations
func DesktopDirectoryDirs() []string {
	return appendEach(DataDirs(), "desktop-directories")
}

// MenuMergeDirs returns the applications-merged directories behind <DefaultMergeDirs/>
func MenuMergeDirs() []string {
	dirs := append([]string{xdg.ConfigHome}, xdg.ConfigDirs...)
	return appendEach(dirs, filepath.Join("menus", "applications-merged"))
}

// IconBaseDirs returns the icon theme base directories in lookup order:
// $HOME/.icons, then each data dir's icons directory.
func IconBaseDirs() []string {
	dirs := []string{filepath.Join(xdg.Home, ".icons")}
	return append(dirs, appendEach(DataDirs(), "icons")...)
}

// PixmapDirs returns the locations of unthemed icons
func PixmapDirs() []string {
	return []string{"/usr/share/pixmaps"}
}

// WindowsConfigRoot returns the local view of %USERPROFILE%\.config\wsl-windows-toolbar-launcher
func WindowsConfigRoot(userProfile string) string {
	return filepath.Join(userProfile, ".config", WindowsConfigDirName)
}

// LinkPath maps a flattened menu path to its shortcut location
func LinkPath(installDir, flattened string) string {
	return filepath.Join(installDir, filepath.FromSlash(flattened)+LinkExtension)
}

// MetadataPrefix maps a flattened menu path to its metadata file prefix
func MetadataPrefix(metadataDir, flattened string) string {
	return filepath.Join(metadataDir, filepath.FromSlash(flattened))
}

func appendEach(dirs []string, elem string) []string {
	out := make([]string, 0, len(dirs))
	for _, d := range dirs {
		out = append(out, filepath.Join(d, elem))
	}
	return out
}

// windowsReserved lists characters Windows refuses in file names
var windowsReserved = strings.NewReplacer(
	`/`, "_", `\`, "_", `:`, "_", `*`, "_", `?`, "_",
	`"`, "_", `<`, "_", `>`, "_", `|`, "_",
)

// SanitizeName makes a menu or entry name usable as a single Windows path component
func SanitizeName(name string) string {
	name = windowsReserved.Replace(strings.TrimSpace(name))
	return strings.TrimRight(name, ". ")
}
