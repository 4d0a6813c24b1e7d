package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"graft/internal/diag"
	"graft/internal/source"
)

var (
	ignoredColor = color.New(color.FgHiBlack)
	noteColor    = color.New(color.FgCyan)
	warningColor = color.New(color.FgYellow, color.Bold)
	errorColor   = color.New(color.FgRed, color.Bold)
	fatalColor   = color.New(color.FgMagenta, color.Bold)
)

func severityColor(s diag.Severity) *color.Color {
	switch s {
	case diag.SevIgnored:
		return ignoredColor
	case diag.SevNote:
		return noteColor
	case diag.SevWarning:
		return warningColor
	case diag.SevError:
		return errorColor
	default:
		return fatalColor
	}
}

// Pretty writes every diagnostic of the bag as
//
//	<path>:<line>:<col>: <SEV> <CODE>: <message>
//
// followed, under ShowSource, by the offending line and a ^~~~ underline
// sized by display width, and under ShowNotes by the notes indented
// beneath it. Sort the bag first for deterministic output.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	for _, d := range bag.Items() {
		if d.Severity == diag.SevIgnored && !opts.ShowIgnored {
			continue
		}
		printOne(w, d, fs, opts)
	}
}

func printOne(w io.Writer, d diag.Diagnostic, fs *source.FileSet, opts PrettyOpts) {
	sev := d.Severity.String()
	if opts.Color {
		sev = severityColor(d.Severity).Sprint(sev)
	}
	fmt.Fprintf(w, "%s: %s %s: %s\n", location(d.Primary, fs), sev, d.Code, d.Message)

	if opts.ShowSource {
		printSource(w, d.Primary, d.Severity, fs, opts)
	}
	if opts.ShowNotes {
		for _, n := range d.Notes {
			fmt.Fprintf(w, "  note: %s (%s)\n", n.Msg, location(n.Span, fs))
		}
	}
}

func location(span source.Span, fs *source.FileSet) string {
	if span.IsNone() || fs == nil {
		return "<no location>"
	}
	f := fs.Get(span.File)
	if f == nil {
		return "<no location>"
	}
	start, _ := fs.Resolve(span)
	return fmt.Sprintf("%s:%d:%d", f.Path, start.Line, start.Col)
}

// printSource shows the first line the span touches with an underline.
// Multi-line spans underline to the end of the first line.
func printSource(w io.Writer, span source.Span, sev diag.Severity, fs *source.FileSet, opts PrettyOpts) {
	if span.IsNone() || fs == nil {
		return
	}
	f := fs.Get(span.File)
	if f == nil {
		return
	}
	start, end := fs.Resolve(span)
	line := f.GetLine(start.Line)
	if line == "" {
		return
	}
	fmt.Fprintf(w, "  %s\n", line)

	// Underline width in display cells, not bytes.
	prefix := line[:min(int(start.Col)-1, len(line))]
	pad := runewidth.StringWidth(prefix)
	spanEnd := len(line)
	if end.Line == start.Line {
		spanEnd = min(int(end.Col)-1, len(line))
	}
	marked := line[min(int(start.Col)-1, len(line)):min(spanEnd, len(line))]
	width := max(runewidth.StringWidth(marked), 1)

	underline := "^" + strings.Repeat("~", width-1)
	if opts.Color {
		underline = severityColor(sev).Sprint(underline)
	}
	fmt.Fprintf(w, "  %s%s\n", strings.Repeat(" ", pad), underline)
}
