package pipeline

// RunState is the coarse state of a run
type RunState int

const (
	StateInit RunState = iota
	StateScanning
	StatePerEntry
	StateDone
)

func (s RunState) String() string {
	switch s {
	case StateInit:
		return "Init"
	case StateScanning:
		return "Scanning"
	case StatePerEntry:
		return "PerEntry"
	case StateDone:
		return "Done"
	default:
		return "Unknown"
	}
}

// Stage is the step an entry is in. A failing step jumps straight to StageRecorded.
type Stage int

const (
	StageResolveIcon Stage = iota
	StageConvertIcon
	StageDecompose
	StageAssemble
	StagePersist
	StageRecorded
)

func (s Stage) String() string {
	switch s {
	case StageResolveIcon:
		return "ResolveIcon"
	case StageConvertIcon:
		return "ConvertIcon"
	case StageDecompose:
		return "Decompose"
	case StageAssemble:
		return "Assemble"
	case StagePersist:
		return "Persist"
	case StageRecorded:
		return "Recorded"
	default:
		return "Unknown"
	}
}
