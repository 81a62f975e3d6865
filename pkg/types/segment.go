package types

// SegmentKind tags one level of a decomposed Windows path
type SegmentKind int

const (
	SegmentDrive SegmentKind = iota
	SegmentFolder
	SegmentFile
)

// String returns the kind name used in logs
func (k SegmentKind) String() string {
	switch k {
	case SegmentDrive:
		return "drive"
	case SegmentFolder:
		return "folder"
	case SegmentFile:
		return "file"
	default:
		return "unknown"
	}
}

// PathSegment is one level (drive, folder or file) of a shortcut target.
// SizeHint is only set for File segments.
type PathSegment struct {
	Kind     SegmentKind
	Name     string
	SizeHint uint32
}
