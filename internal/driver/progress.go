package driver

// Stage identifies one phase of a batch translation.
type Stage uint8

const (
	StageTranslate Stage = iota
	StageTransform
	StageResolve
)

func (s Stage) String() string {
	switch s {
	case StageTranslate:
		return "translate"
	case StageTransform:
		return "transform"
	case StageResolve:
		return "resolve"
	default:
		return "unknown"
	}
}

// Status reports where a file (or a file-less stage) stands.
type Status uint8

const (
	StatusQueued Status = iota
	StatusWorking
	StatusDone
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusQueued:
		return "queued"
	case StatusWorking:
		return "working"
	case StatusDone:
		return "done"
	default:
		return "error"
	}
}

// Event is one progress notification. File is empty for stage-level
// events (the pipeline stages run over the whole library at once).
type Event struct {
	File   string
	Stage  Stage
	Status Status
}

// Progress consumes events. Implementations must be safe for calls from
// multiple translation goroutines.
type Progress func(Event)
