package pipeline

import (
	"github.com/arthur-debert/wsltoolbar/pkg/manifest"
	"github.com/arthur-debert/wsltoolbar/pkg/types"
)

// EntryResult is the record of one flattened path
type EntryResult struct {
	Path  string
	Entry *types.LaunchEntry
	// FailedAt is the stage that failed; only meaningful when Err is set
	FailedAt   Stage
	Err        error
	Icon       types.IconAsset
	Descriptor types.ShortcutDescriptor
	LinkPath   string
}

// Succeeded reports whether a shortcut was produced (or planned, in a dry run)
func (r EntryResult) Succeeded() bool { return r.Err == nil }

// Iconless reports a successful entry whose shortcut has no icon
func (r EntryResult) Iconless() bool { return r.Err == nil && r.Descriptor.IconPath == "" }

// Summary is what a run reports when it reaches Done
type Summary struct {
	Attempted int
	Succeeded int
	Failed    int
	// Iconless counts successful entries without an icon; they are included in Succeeded
	Iconless int
	// Results are in flatten order, followed by entries that lost a duplicate path
	Results []EntryResult
	DryRun  bool
}

func (r EntryResult) manifestEntry(dryRun bool) manifest.Entry {
	e := manifest.Entry{Path: r.Path, Link: r.LinkPath, Icon: r.Icon.FinalIconPath}
	if r.Entry != nil {
		e.ID = r.Entry.ID
	}
	switch {
	case r.Err != nil:
		e.Status = manifest.StatusFailed
		e.Stage = r.FailedAt.String()
		e.Error = r.Err.Error()
	case dryRun:
		e.Status = manifest.StatusPlanned
	case r.Iconless():
		e.Status = manifest.StatusIconless
	default:
		e.Status = manifest.StatusOK
	}
	return e
}

// Entries converts every result to its manifest form
func (s Summary) Entries() []manifest.Entry {
	out := make([]manifest.Entry, 0, len(s.Results))
	for _, r := range s.Results {
		out = append(out, r.manifestEntry(s.DryRun))
	}
	return out
}
