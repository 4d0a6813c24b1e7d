package source

import (
	"fmt"
)

// Span is a half-open byte range inside a file. The zero Span (File 0,
// Start == End == 0) doubles as "no location" for declarations the front
// end cannot place; use IsNone to test for it.
type Span struct {
	File  FileID
	Start uint32 // inclusive, in bytes
	End   uint32 // exclusive, in bytes
}

// None returns the sentinel "no location" span.
func None() Span {
	return Span{File: NoFileID}
}

func (s Span) IsNone() bool {
	return s.File == NoFileID
}

func (s Span) Empty() bool {
	return s.Start == s.End
}

func (s Span) Len() uint32 {
	return s.End - s.Start
}

func (s Span) String() string {
	if s.IsNone() {
		return "<none>"
	}
	return fmt.Sprintf("%d:%d-%d", s.File, s.Start, s.End)
}

// Cover extends the span to include other. Spans from different files
// are not merged.
func (s Span) Cover(other Span) Span {
	if s.File != other.File {
		return s
	}
	if other.Start < s.Start {
		s.Start = other.Start
	}
	if other.End > s.End {
		s.End = other.End
	}
	return s
}
