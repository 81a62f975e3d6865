package shortcut

import (
	"context"
	"strings"

	"github.com/arthur-debert/wsltoolbar/pkg/errors"
	"github.com/arthur-debert/wsltoolbar/pkg/types"
)

// DefaultWorkingDirectory is used when the entry does not name one
const DefaultWorkingDirectory = "%USERPROFILE%"

// fieldCodes are the desktop-entry Exec placeholders (%f, %U, ...) that mean
// nothing once the command is frozen into a static shortcut
const fieldCodes = "fFuUdDnNickvm"

// Persister writes a descriptor as a native shortcut and returns where it landed
type Persister interface {
	Persist(ctx context.Context, d types.ShortcutDescriptor) (string, error)
}

// StripFieldCodes removes launcher placeholders from an Exec line.
// A literal "%%" becomes "%"; separators left by a removed code are dropped.
func StripFieldCodes(cmd string) string {
	out := make([]byte, 0, len(cmd))
	for i := 0; i < len(cmd); i++ {
		c := cmd[i]
		if c != '%' || i+1 >= len(cmd) {
			out = append(out, c)
			continue
		}
		next := cmd[i+1]
		if next == '%' {
			out = append(out, '%')
			i++
			continue
		}
		if strings.IndexByte(fieldCodes, next) < 0 {
			out = append(out, c)
			continue
		}
		i++
		standalone := (len(out) == 0 || out[len(out)-1] == ' ') && (i+1 == len(cmd) || cmd[i+1] == ' ')
		if !standalone {
			continue
		}
		if len(out) > 0 {
			out = out[:len(out)-1]
		} else if i+1 < len(cmd) {
			i++
		}
	}
	return strings.TrimSpace(string(out))
}

// AssembleInput carries everything a descriptor is built from
type AssembleInput struct {
	Entry            *types.LaunchEntry
	LinkPath         string
	TargetExecutable string
	Arguments        string
	// Comment overrides Entry.Comment when set
	Comment string
	// IconPath is the Windows path of the icon; empty produces an iconless shortcut
	IconPath         string
	WorkingDirectory string
	// PathSegments are decomposed from TargetExecutable when nil
	PathSegments []types.PathSegment
}

// Assemble builds the descriptor for one entry
func Assemble(in AssembleInput) (types.ShortcutDescriptor, error) {
	if in.LinkPath == "" {
		return types.ShortcutDescriptor{}, errors.New(errors.ErrInvalidInput, "shortcut needs a link path")
	}

	segments := in.PathSegments
	if segments == nil {
		var err error
		if segments, err = Decompose(in.TargetExecutable); err != nil {
			return types.ShortcutDescriptor{}, err
		}
	}

	comment := in.Comment
	if comment == "" && in.Entry != nil {
		comment = in.Entry.Comment
	}
	workDir := in.WorkingDirectory
	if workDir == "" {
		workDir = DefaultWorkingDirectory
	}

	return types.ShortcutDescriptor{
		LinkPath:         in.LinkPath,
		TargetExecutable: in.TargetExecutable,
		Arguments:        in.Arguments,
		Comment:          comment,
		IconPath:         in.IconPath,
		IconIndex:        0,
		WorkingDirectory: workDir,
		PathSegments:     segments,
	}, nil
}
