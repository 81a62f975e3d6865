package menu

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/wsltoolbar/pkg/errors"
	"github.com/arthur-debert/wsltoolbar/pkg/filesystem"
	"github.com/arthur-debert/wsltoolbar/pkg/types"
)

const (
	menuDir     = "/etc/xdg/menus"
	systemApps  = "/usr/share/applications"
	userApps    = "/home/jo/.local/share/applications"
	directories = "/usr/share/desktop-directories"
)

const rootMenu = `<!DOCTYPE Menu PUBLIC "-//freedesktop//DTD Menu 1.0//EN"
 "http://www.freedesktop.org/standards/menu-spec/1.0/menu.dtd">
<Menu>
  <Name>Applications</Name>
  <DefaultAppDirs/>
  <DefaultDirectoryDirs/>
  <Layout><Merge type="menus"/></Layout>
  <Menu>
    <Name>Development</Name>
    <Directory>dev.directory</Directory>
    <Include><Category>Development</Category></Include>
    <Exclude><Filename>hidden-ide.desktop</Filename></Exclude>
  </Menu>
  <Menu>
    <Name>Accessories</Name>
    <Include>
      <And>
        <Category>Utility</Category>
        <Not><Category>System</Category></Not>
      </And>
    </Include>
  </Menu>
  <Menu>
    <Name>Empty</Name>
    <Include><Category>Nothing</Category></Include>
  </Menu>
  <Menu>
    <Name>Other</Name>
    <OnlyUnallocated/>
    <Include><All/></Include>
  </Menu>
  <Menu>
    <Name>Retired</Name>
    <Include><Category>Game</Category></Include>
    <Deleted/>
  </Menu>
  <Menu>
    <Name>Development</Name>
    <Include><Filename>kde-konsole.desktop</Filename></Include>
  </Menu>
  <MergeFile>extra.menu</MergeFile>
  <MergeFile>missing.menu</MergeFile>
</Menu>
`

const extraMenu = `<Menu>
  <Name>Ignored</Name>
  <Menu>
    <Name>Games</Name>
    <Include><Category>Game</Category></Include>
  </Menu>
  <MergeFile>applications.menu</MergeFile>
</Menu>
`

func desktopFile(name, categories, extra string) string {
	return "[Desktop Entry]\nType=Application\nName=" + name + "\nExec=" + name + "\nCategories=" + categories + "\n" + extra
}

func writeFiles(t *testing.T, fs filesystem.FS, files map[string]string) {
	t.Helper()
	for path, content := range files {
		require.NoError(t, filesystem.WriteFileAtomic(fs, path, []byte(content), 0644))
	}
}

func menuFixture(t *testing.T) filesystem.FS {
	t.Helper()
	fs := filesystem.NewMemory()
	writeFiles(t, fs, map[string]string{
		menuDir + "/applications.menu":      rootMenu,
		menuDir + "/extra.menu":             extraMenu,
		systemApps + "/gedit.desktop":       desktopFile("Text Editor", "Development;Utility;", ""),
		systemApps + "/code.desktop":        desktopFile("Code", "Development;IDE;", ""),
		systemApps + "/kde/konsole.desktop": desktopFile("Konsole", "System;TerminalEmulator;", ""),
		systemApps + "/calc.desktop":        desktopFile("Calculator", "Utility;", ""),
		systemApps + "/top.desktop":         desktopFile("Top", "System;Monitor;", "Terminal=true\n"),
		systemApps + "/secret.desktop":      desktopFile("Secret", "Utility;", "NoDisplay=true\n"),
		systemApps + "/hidden-ide.desktop":  desktopFile("Hidden IDE", "Development;", ""),
		systemApps + "/chess.desktop":       desktopFile("Chess", "Game;", ""),
		systemApps + "/README.txt":          "not a desktop file",
		userApps + "/calc.desktop":          desktopFile("My Calculator", "Utility;", ""),
		directories + "/dev.directory":      "[Desktop Entry]\nType=Directory\nName=Programming\n",
	})
	return fs
}

func testOptions() Options {
	return Options{
		ApplicationDirs: []string{userApps, systemApps},
		DirectoryDirs:   []string{directories},
	}
}

func childNames(c *types.Category) []string {
	var names []string
	for _, child := range c.Children {
		switch n := child.(type) {
		case *types.Category:
			names = append(names, n.Name)
		case *types.LaunchEntry:
			names = append(names, n.Name)
		}
	}
	return names
}

func subCategory(t *testing.T, c *types.Category, name string) *types.Category {
	t.Helper()
	for _, child := range c.Children {
		if sub, ok := child.(*types.Category); ok && sub.Name == name {
			return sub
		}
	}
	t.Fatalf("category %q not found in %v", name, childNames(c))
	return nil
}

func TestLoad(t *testing.T) {
	root, err := Load(menuFixture(t), menuDir+"/applications.menu", testOptions())
	require.NoError(t, err)

	assert.Equal(t, "Applications", root.Name)
	assert.Equal(t, []string{"Programming", "Accessories", "Other", "Games"}, childNames(root))

	assert.Equal(t, []string{"Code", "Konsole", "Text Editor"}, childNames(subCategory(t, root, "Programming")))
	assert.Equal(t, []string{"My Calculator", "Text Editor"}, childNames(subCategory(t, root, "Accessories")))
	assert.Equal(t, []string{"Hidden IDE", "Top"}, childNames(subCategory(t, root, "Other")))
	assert.Equal(t, []string{"Chess"}, childNames(subCategory(t, root, "Games")))

	konsole := subCategory(t, root, "Programming").Children[1].(*types.LaunchEntry)
	assert.Equal(t, "kde-konsole.desktop", konsole.ID)
	assert.Equal(t, systemApps+"/kde/konsole.desktop", konsole.SourcePath)
}

func TestLoadFlattenRoundTrip(t *testing.T) {
	root, err := Load(menuFixture(t), menuDir+"/applications.menu", testOptions())
	require.NoError(t, err)

	flat, err := Flatten(root)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"Programming/Code",
		"Programming/Konsole",
		"Programming/Text Editor",
		"Accessories/My Calculator",
		"Accessories/Text Editor",
		"Other/Hidden IDE",
		"Other/Top",
		"Games/Chess",
	}, flat.Keys())
}

func TestLoadErrors(t *testing.T) {
	fs := filesystem.NewMemory()
	writeFiles(t, fs, map[string]string{
		"/menus/broken.menu":  "<Menu><</Menu>",
		"/menus/notmenu.menu": "<Foo/>",
	})

	for _, file := range []string{"/menus/absent.menu", "/menus/broken.menu", "/menus/notmenu.menu"} {
		t.Run(file, func(t *testing.T) {
			_, err := Load(fs, file, Options{})
			require.Error(t, err)
			assert.True(t, errors.IsErrorCode(err, errors.ErrMenuParse))
			assert.True(t, errors.IsFatal(err))
		})
	}
}

func TestLoadAppDirPrecedence(t *testing.T) {
	fs := filesystem.NewMemory()
	writeFiles(t, fs, map[string]string{
		"/m/app.menu": `<Menu><Name>Root</Name>
  <AppDir>/first</AppDir>
  <AppDir>../second</AppDir>
  <Include><All/></Include>
</Menu>`,
		"/first/tool.desktop":  desktopFile("Old Tool", "X;", ""),
		"/second/tool.desktop": desktopFile("New Tool", "X;", ""),
	})

	root, err := Load(fs, "/m/app.menu", Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"New Tool"}, childNames(root))
}

func TestLoadMergeDir(t *testing.T) {
	fs := filesystem.NewMemory()
	writeFiles(t, fs, map[string]string{
		"/m/app.menu": `<Menu><Name>Root</Name>
  <AppDir>/apps</AppDir>
  <DefaultMergeDirs/>
</Menu>`,
		"/merged/tools.menu":  `<Menu><Name>Root</Name><Menu><Name>Tools</Name><Include><Category>X</Category></Include></Menu></Menu>`,
		"/apps/tool.desktop":  desktopFile("Tool", "X;", ""),
		"/apps/other.desktop": desktopFile("Other", "Y;", ""),
	})

	root, err := Load(fs, "/m/app.menu", Options{MergeDirs: []string{"/merged"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"Tools"}, childNames(root))
	assert.Equal(t, []string{"Tool"}, childNames(subCategory(t, root, "Tools")))
}
