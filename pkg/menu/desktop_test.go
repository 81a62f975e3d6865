package menu

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/wsltoolbar/pkg/errors"
)

func TestParseDesktopEntry(t *testing.T) {
	data := []byte(`# generated
[Desktop Entry]
Type=Application
Name=Text Editor
Name[de]=Texteditor
Comment=Edit text files
Exec=gedit %U
Icon=org.gnome.gedit
Path=/home/jo/src
Terminal=false
Categories=GNOME;GTK;Utility;TextEditor;

[Desktop Action new-window]
Name=New Window
Exec=gedit --new-window
`)

	entry, visible, err := ParseDesktopEntry(data, "org.gnome.gedit.desktop", "/usr/share/applications/org.gnome.gedit.desktop")
	require.NoError(t, err)
	assert.True(t, visible)
	assert.Equal(t, "org.gnome.gedit.desktop", entry.ID)
	assert.Equal(t, "Text Editor", entry.Name)
	assert.Equal(t, "gedit %U", entry.Exec)
	assert.Equal(t, "org.gnome.gedit", entry.Icon)
	assert.Equal(t, "/home/jo/src", entry.WorkingDir)
	assert.Equal(t, "Edit text files", entry.Comment)
	assert.False(t, entry.Terminal)
	assert.True(t, entry.Launchable())
	assert.Equal(t, []string{"GNOME", "GTK", "Utility", "TextEditor"}, entry.Categories)
}

func TestParseDesktopEntryVisibility(t *testing.T) {
	tests := []struct {
		name    string
		extra   string
		visible bool
	}{
		{"plain", "", true},
		{"no display", "NoDisplay=true\n", false},
		{"hidden", "Hidden=true\n", false},
		{"explicitly shown", "NoDisplay=false\n", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := []byte("[Desktop Entry]\nType=Application\nName=App\nExec=app\n" + tt.extra)
			_, visible, err := ParseDesktopEntry(data, "app.desktop", "app.desktop")
			require.NoError(t, err)
			assert.Equal(t, tt.visible, visible)
		})
	}
}

func TestParseDesktopEntryErrors(t *testing.T) {
	_, _, err := ParseDesktopEntry([]byte("[Other]\nName=x\n"), "x.desktop", "x.desktop")
	assert.True(t, errors.IsErrorCode(err, errors.ErrMenuParse))

	_, _, err = ParseDesktopEntry([]byte("[Desktop Entry]\nType=Application\n"), "x.desktop", "x.desktop")
	assert.True(t, errors.IsErrorCode(err, errors.ErrMenuParse))
}

func TestParseDesktopEntryTerminalAndType(t *testing.T) {
	data := []byte("[Desktop Entry]\nType=Link\nName=Docs\nURL=https://example.org\nTerminal=true\n")
	entry, _, err := ParseDesktopEntry(data, "docs.desktop", "docs.desktop")
	require.NoError(t, err)
	assert.True(t, entry.Terminal)
	assert.False(t, entry.Launchable())
}

func TestParseDirectoryEntry(t *testing.T) {
	info, err := ParseDirectoryEntry([]byte("[Desktop Entry]\nType=Directory\nName=Programming\nIcon=applications-development\n"))
	require.NoError(t, err)
	assert.Equal(t, DirectoryInfo{Name: "Programming", Icon: "applications-development"}, info)
}

func TestDesktopFileID(t *testing.T) {
	assert.Equal(t, "gedit.desktop", desktopFileID("gedit.desktop"))
	assert.Equal(t, "kde-konsole.desktop", desktopFileID("kde/konsole.desktop"))
	assert.Equal(t, "a-b-c.desktop", desktopFileID("a/b/c.desktop"))
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"A", "B"}, splitList("A;B;"))
	assert.Equal(t, []string{"A"}, splitList(" A ;;"))
	assert.Nil(t, splitList(""))
}
