package menu

import (
	"io/fs"
	"path/filepath"
	"strings"

	"gopkg.in/ini.v1"

	"github.com/arthur-debert/wsltoolbar/pkg/errors"
	"github.com/arthur-debert/wsltoolbar/pkg/filesystem"
	"github.com/arthur-debert/wsltoolbar/pkg/logging"
	"github.com/arthur-debert/wsltoolbar/pkg/types"
)

const (
	desktopSection   = "Desktop Entry"
	desktopExtension = ".desktop"
)

var iniOptions = ini.LoadOptions{
	IgnoreInlineComment:     true,
	IgnoreContinuation:      true,
	PreserveSurroundedQuote: true,
	SkipUnrecognizableLines: true,
}

func loadDesktopSection(data []byte) (*ini.Section, error) {
	file, err := ini.LoadSources(iniOptions, data)
	if err != nil {
		return nil, err
	}
	section, err := file.GetSection(desktopSection)
	if err != nil {
		return nil, err
	}
	return section, nil
}

// ParseDesktopEntry reads a .desktop file.
// The boolean is false for entries marked Hidden or NoDisplay.
func ParseDesktopEntry(data []byte, id, sourcePath string) (*types.LaunchEntry, bool, error) {
	section, err := loadDesktopSection(data)
	if err != nil {
		return nil, false, errors.Wrapf(err, errors.ErrMenuParse, "invalid desktop entry %s", sourcePath)
	}

	entry := &types.LaunchEntry{
		ID:         id,
		Name:       section.Key("Name").String(),
		Exec:       section.Key("Exec").String(),
		Icon:       section.Key("Icon").String(),
		WorkingDir: section.Key("Path").String(),
		Comment:    section.Key("Comment").String(),
		Terminal:   section.Key("Terminal").MustBool(false),
		Type:       section.Key("Type").String(),
		Categories: splitList(section.Key("Categories").String()),
		SourcePath: sourcePath,
	}
	if entry.Name == "" {
		return nil, false, errors.Newf(errors.ErrMenuParse, "desktop entry %s has no Name", sourcePath)
	}

	visible := !section.Key("Hidden").MustBool(false) && !section.Key("NoDisplay").MustBool(false)
	return entry, visible, nil
}

// DirectoryInfo is the display data of a .directory file
type DirectoryInfo struct {
	Name      string
	Icon      string
	NoDisplay bool
}

// ParseDirectoryEntry reads a .directory file
func ParseDirectoryEntry(data []byte) (DirectoryInfo, error) {
	section, err := loadDesktopSection(data)
	if err != nil {
		return DirectoryInfo{}, errors.Wrap(err, errors.ErrMenuParse, "invalid directory entry")
	}
	return DirectoryInfo{
		Name:      section.Key("Name").String(),
		Icon:      section.Key("Icon").String(),
		NoDisplay: section.Key("NoDisplay").MustBool(false) || section.Key("Hidden").MustBool(false),
	}, nil
}

// splitList splits a semicolon separated desktop-entry list
func splitList(value string) []string {
	var out []string
	for _, item := range strings.Split(value, ";") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// desktopFileID derives the id of a desktop file from its path below an
// applications directory: "kde/foo.desktop" becomes "kde-foo.desktop"
func desktopFileID(rel string) string {
	return strings.ReplaceAll(filepath.ToSlash(rel), "/", "-")
}

// scanApplications reads every visible .desktop file below dirs.
// Later directories take precedence over earlier ones for the same id.
func scanApplications(fsys filesystem.FS, dirs []string) map[string]*types.LaunchEntry {
	logger := logging.GetLogger("menu.scan")
	pool := make(map[string]*types.LaunchEntry)

	for _, dir := range dirs {
		err := walkFiles(fsys, dir, "", func(rel string) {
			if !strings.HasSuffix(rel, desktopExtension) {
				return
			}
			full := filepath.Join(dir, rel)
			data, err := fsys.ReadFile(full)
			if err != nil {
				logger.Debug().Err(err).Str("file", full).Msg("Skipping unreadable desktop file")
				return
			}
			id := desktopFileID(rel)
			entry, visible, err := ParseDesktopEntry(data, id, full)
			if err != nil {
				logger.Debug().Err(err).Str("file", full).Msg("Skipping invalid desktop file")
				return
			}
			if !visible {
				// a hidden entry still shadows the same id from lower priority dirs
				delete(pool, id)
				return
			}
			pool[id] = entry
		})
		if err != nil {
			logger.Trace().Err(err).Str("dir", dir).Msg("Application directory not readable")
		}
	}
	return pool
}

// walkFiles calls fn with the path of every regular file below root, relative to root
func walkFiles(fsys filesystem.FS, root, rel string, fn func(rel string)) error {
	entries, err := fsys.ReadDir(filepath.Join(root, rel))
	if err != nil {
		return err
	}
	for _, e := range entries {
		child := filepath.Join(rel, e.Name())
		if e.IsDir() {
			_ = walkFiles(fsys, root, child, fn)
			continue
		}
		if e.Type()&fs.ModeType == 0 || e.Type()&fs.ModeSymlink != 0 {
			fn(child)
		}
	}
	return nil
}

// lookupDirectory finds a .directory file in dirs; later dirs take precedence
func lookupDirectory(fsys filesystem.FS, dirs []string, name string) (DirectoryInfo, bool) {
	for i := len(dirs) - 1; i >= 0; i-- {
		data, err := fsys.ReadFile(filepath.Join(dirs[i], name))
		if err != nil {
			continue
		}
		info, err := ParseDirectoryEntry(data)
		if err != nil {
			continue
		}
		return info, true
	}
	return DirectoryInfo{}, false
}
