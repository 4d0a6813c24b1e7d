// Package diagfmt renders diagnostic bags for people (pretty, colored,
// with source context) and for tools (JSON).
package diagfmt

// PrettyOpts configures pretty-printing of diagnostics.
type PrettyOpts struct {
	Color bool
	// ShowIgnored includes Ignored-severity diagnostics, normally
	// suppressed.
	ShowIgnored bool
	ShowNotes   bool
	// ShowSource prints the offending line with a caret underline.
	ShowSource bool
}

// JSONOpts configures JSON output of diagnostics.
type JSONOpts struct {
	IncludePositions bool
	IncludeNotes     bool
	// Max truncates the output, not the bag. 0 means everything.
	Max int
}
