package types

// IconAttempt records one conversion strategy run
type IconAttempt struct {
	Strategy string
	Err      error
}

// Succeeded reports whether the strategy produced its output
func (a IconAttempt) Succeeded() bool { return a.Err == nil }

// IconAsset tracks one entry's icon from the theme file to the final .ico.
// An empty FinalIconPath means the shortcut is created without an icon.
type IconAsset struct {
	SourcePath           string
	DetectedFormat       string
	NormalizedRasterPath string
	FinalIconPath        string
	Attempts             []IconAttempt
}

// HasIcon reports whether a final icon file was produced
func (a IconAsset) HasIcon() bool { return a.FinalIconPath != "" }
