package shortcut

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/wsltoolbar/pkg/errors"
	"github.com/arthur-debert/wsltoolbar/pkg/types"
)

func TestStripFieldCodes(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"gedit %U", "gedit"},
		{"code --new-window %F", "code --new-window"},
		{"app %f --flag", "app --flag"},
		{"%U app", "app"},
		{"app --icon %i --caption %c %k", "app --icon --caption"},
		{"echo 100%%", "echo 100%"},
		{"app --file=%f", "app --file="},
		{"app %x", "app %x"},
		{"plain", "plain"},
		{"trailing %", "trailing %"},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, StripFieldCodes(tt.in))
		})
	}
}

func TestAssemble(t *testing.T) {
	entry := &types.LaunchEntry{Name: "Gedit", Comment: "Edit text files", Type: types.EntryTypeApplication}

	desc, err := Assemble(AssembleInput{
		Entry:            entry,
		LinkPath:         "/mnt/c/Users/jo/menus/WSL/Dev/Editor.lnk",
		TargetExecutable: `C:\Windows\System32\wscript.exe`,
		Arguments:        `"C:\m\silent-launcher.vbs" "C:\m\Dev\Editor.bat"`,
		IconPath:         `C:\m\Dev\Editor.ico`,
	})
	require.NoError(t, err)

	want := types.ShortcutDescriptor{
		LinkPath:         "/mnt/c/Users/jo/menus/WSL/Dev/Editor.lnk",
		TargetExecutable: `C:\Windows\System32\wscript.exe`,
		Arguments:        `"C:\m\silent-launcher.vbs" "C:\m\Dev\Editor.bat"`,
		Comment:          "Edit text files",
		IconPath:         `C:\m\Dev\Editor.ico`,
		WorkingDirectory: DefaultWorkingDirectory,
		PathSegments: []types.PathSegment{
			{Kind: types.SegmentDrive, Name: "C:"},
			{Kind: types.SegmentFolder, Name: "Windows"},
			{Kind: types.SegmentFolder, Name: "System32"},
			{Kind: types.SegmentFile, Name: "wscript.exe", SizeHint: SpoofedFileSize},
		},
	}
	if diff := cmp.Diff(want, desc); diff != "" {
		t.Errorf("descriptor mismatch (-want +got):\n%s", diff)
	}
}

func TestAssembleIconlessAndOverrides(t *testing.T) {
	desc, err := Assemble(AssembleInput{
		Entry:            &types.LaunchEntry{Name: "Terminal", Comment: "from entry"},
		LinkPath:         "/tmp/Terminal.lnk",
		TargetExecutable: `C:\m\Terminal.bat`,
		Comment:          "override",
		WorkingDirectory: `C:\work`,
	})
	require.NoError(t, err)
	assert.Empty(t, desc.IconPath)
	assert.Empty(t, desc.Arguments)
	assert.Equal(t, "override", desc.Comment)
	assert.Equal(t, `C:\work`, desc.WorkingDirectory)
	assert.Equal(t, 0, desc.IconIndex)
}

func TestAssembleErrors(t *testing.T) {
	_, err := Assemble(AssembleInput{TargetExecutable: `C:\x.exe`})
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))

	_, err = Assemble(AssembleInput{LinkPath: "/tmp/a.lnk", TargetExecutable: `C:\`})
	assert.True(t, errors.IsErrorCode(err, errors.ErrMalformedPath))
}

func TestAssembleUsesGivenSegments(t *testing.T) {
	segments, err := Decompose(`C:\m\Dev\Editor.bat`)
	require.NoError(t, err)

	desc, err := Assemble(AssembleInput{
		LinkPath:         "/tmp/Editor.lnk",
		TargetExecutable: `C:\m\Dev\Editor.bat`,
		PathSegments:     segments,
	})
	require.NoError(t, err)
	assert.Equal(t, segments, desc.PathSegments)
}
