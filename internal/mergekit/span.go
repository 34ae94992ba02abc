// Package mergekit holds the format-independent scaffolding shared by the
// merge engine: line spans, side-tagged analysis errors, and the freeze-marker
// pattern builder. Nothing in here knows about the dotenv syntax itself.
package mergekit

import "fmt"

// Span is an inclusive, 1-indexed range of source lines. A single-line
// statement has Start == End.
type Span struct {
	Start int
	End   int
}

// SpanAt returns the span covering exactly one line.
func SpanAt(line int) Span {
	return Span{Start: line, End: line}
}

// Covers reports whether line n falls inside the span.
func (s Span) Covers(n int) bool {
	return n >= s.Start && n <= s.End
}

// Lines returns the number of lines the span covers.
func (s Span) Lines() int {
	if s.End < s.Start {
		return 0
	}
	return s.End - s.Start + 1
}

func (s Span) String() string {
	if s.Start == s.End {
		return fmt.Sprintf("line %d", s.Start)
	}
	return fmt.Sprintf("lines %d-%d", s.Start, s.End)
}
