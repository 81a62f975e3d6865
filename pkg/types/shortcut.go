package types

// ShortcutDescriptor describes one native shortcut artifact.
// It is built once per entry and handed to a persister unchanged.
type ShortcutDescriptor struct {
	// LinkPath is where the artifact is written (local filesystem path)
	LinkPath string
	// TargetExecutable is the Windows path of the program the shortcut runs
	TargetExecutable string
	Arguments        string
	Comment          string
	// IconPath is the Windows path of the .ico file, empty for iconless shortcuts
	IconPath         string
	IconIndex        int
	WorkingDirectory string
	PathSegments     []PathSegment
}
