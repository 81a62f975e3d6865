package shortcut

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/wsltoolbar/pkg/errors"
	"github.com/arthur-debert/wsltoolbar/pkg/types"
)

func TestDecompose(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		expected []types.PathSegment
	}{
		{
			name: "system executable",
			path: `C:\Windows\System32\wscript.exe`,
			expected: []types.PathSegment{
				{Kind: types.SegmentDrive, Name: "C:"},
				{Kind: types.SegmentFolder, Name: "Windows"},
				{Kind: types.SegmentFolder, Name: "System32"},
				{Kind: types.SegmentFile, Name: "wscript.exe", SizeHint: SpoofedFileSize},
			},
		},
		{
			name: "file at drive root",
			path: `D:\a.bat`,
			expected: []types.PathSegment{
				{Kind: types.SegmentDrive, Name: "D:"},
				{Kind: types.SegmentFile, Name: "a.bat", SizeHint: SpoofedFileSize},
			},
		},
		{
			name: "names with spaces",
			path: `C:\Users\Jo Smith\.config\run me.bat`,
			expected: []types.PathSegment{
				{Kind: types.SegmentDrive, Name: "C:"},
				{Kind: types.SegmentFolder, Name: "Users"},
				{Kind: types.SegmentFolder, Name: "Jo Smith"},
				{Kind: types.SegmentFolder, Name: ".config"},
				{Kind: types.SegmentFile, Name: "run me.bat", SizeHint: SpoofedFileSize},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			segments, err := Decompose(tt.path)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, segments)
		})
	}
}

func TestDecomposeMalformed(t *testing.T) {
	for _, path := range []string{``, `C:`, `C:\`, `C:\\x.exe`, `C:\dir\`, `\x.exe`} {
		t.Run(path, func(t *testing.T) {
			_, err := Decompose(path)
			require.Error(t, err)
			assert.True(t, errors.IsErrorCode(err, errors.ErrMalformedPath))
		})
	}
}

func TestDecomposeShape(t *testing.T) {
	paths := []string{
		`C:\x`,
		`C:\a\b\c\d\e\f.exe`,
		`Z:\one\two`,
		`\\server\share`,
	}
	for _, p := range paths {
		components := strings.Split(p, Separator)
		segments, err := Decompose(p)
		if strings.Contains(p, `\\`) {
			require.Error(t, err)
			continue
		}
		require.NoError(t, err)
		require.Len(t, segments, len(components))

		for i, seg := range segments {
			assert.Equal(t, components[i], seg.Name)
			switch {
			case i == 0:
				assert.Equal(t, types.SegmentDrive, seg.Kind)
				assert.Zero(t, seg.SizeHint)
			case i == len(segments)-1:
				assert.Equal(t, types.SegmentFile, seg.Kind)
				assert.Equal(t, SpoofedFileSize, seg.SizeHint)
			default:
				assert.Equal(t, types.SegmentFolder, seg.Kind)
				assert.Zero(t, seg.SizeHint)
			}
		}
	}
}
