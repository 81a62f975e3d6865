package shortcut

import (
	"strings"

	"github.com/arthur-debert/wsltoolbar/pkg/errors"
	"github.com/arthur-debert/wsltoolbar/pkg/types"
)

// Separator is the Windows directory separator used by shortcut targets
const Separator = `\`

// SpoofedFileSize is the size written into the File segment of every target.
// It is a cosmetic constant, not a measured size: some shortcut validators
// reject a file item that reports zero bytes.
const SpoofedFileSize uint32 = 170496

// Decompose splits a Windows path into its drive, folder and file levels.
// The last component is always a File segment, even if it names a directory.
func Decompose(path string) ([]types.PathSegment, error) {
	components := strings.Split(path, Separator)
	if len(components) < 2 {
		return nil, errors.Newf(errors.ErrMalformedPath, "path %q needs a drive and a file", path)
	}
	for i, c := range components {
		if c == "" {
			return nil, errors.Newf(errors.ErrMalformedPath, "path %q has an empty component", path).
				WithDetail("index", i)
		}
	}

	last := len(components) - 1
	segments := make([]types.PathSegment, 0, len(components))
	segments = append(segments, types.PathSegment{Kind: types.SegmentDrive, Name: components[0]})
	for _, folder := range components[1:last] {
		segments = append(segments, types.PathSegment{Kind: types.SegmentFolder, Name: folder})
	}
	segments = append(segments, types.PathSegment{
		Kind:     types.SegmentFile,
		Name:     components[last],
		SizeHint: SpoofedFileSize,
	})
	return segments, nil
}
