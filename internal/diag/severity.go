package diag

// Severity defines the importance of a diagnostic.
//
// Ignored and Note never affect processing. Warning means output was
// produced but may be incomplete. Error marks the declaration's
// translation as unreliable while processing continues. Fatal stops the
// containing file outright.
type Severity uint8

const (
	// SevIgnored is for informational diagnostics about expected skips.
	SevIgnored Severity = iota
	// SevNote supplies context for an earlier diagnostic.
	SevNote
	// SevWarning is for warning diagnostics.
	SevWarning
	SevError
	SevFatal
)

func (s Severity) String() string {
	switch s {
	case SevIgnored:
		return "IGNORED"
	case SevNote:
		return "NOTE"
	case SevWarning:
		return "WARNING"
	case SevError:
		return "ERROR"
	case SevFatal:
		return "FATAL"
	}
	return "UNKNOWN"
}
