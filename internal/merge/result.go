package merge

import (
	"strings"

	"github.com/google/uuid"

	"envmerge/internal/mergekit"
)

// DecisionKind classifies one audit-trail record.
type DecisionKind int

const (
	FromTemplate DecisionKind = iota
	FromDestination
	FrozenPreserved
	Appended
	// Raw marks verbatim passthrough of unparsed regions. The dotenv
	// resolver never produces it; formats that re-emit opaque spans do.
	Raw
)

// DecisionKinds lists all kinds in a fixed render order.
var DecisionKinds = []DecisionKind{FromTemplate, FromDestination, FrozenPreserved, Appended, Raw}

func (k DecisionKind) String() string {
	switch k {
	case FromTemplate:
		return "from-template"
	case FromDestination:
		return "from-destination"
	case FrozenPreserved:
		return "frozen-preserved"
	case Appended:
		return "appended"
	case Raw:
		return "raw"
	default:
		return "unknown"
	}
}

// Decision is one audit record: which side contributed, from where, and how
// many output lines it produced. It is immutable once appended.
type Decision struct {
	Kind      DecisionKind
	Side      mergekit.Side
	Index     int
	Span      mergekit.Span
	LineCount int
}

// Result accumulates output lines and their decision trail for one merge
// call. Both buffers are append-only during the merge; create a fresh
// Result per call and never share one across calls.
type Result struct {
	id        string
	lines     []string
	decisions []Decision
}

// NewResult creates an empty result stamped with a unique run identifier.
func NewResult() *Result {
	return &Result{id: uuid.NewString()}
}

// ID returns the merge-run identifier.
func (r *Result) ID() string { return r.id }

// Append records emitted lines together with their decision.
func (r *Result) Append(lines []string, d Decision) {
	d.LineCount = len(lines)
	r.lines = append(r.lines, lines...)
	r.decisions = append(r.decisions, d)
}

// Lines returns the accumulated output lines.
func (r *Result) Lines() []string { return r.lines }

// Decisions returns the audit trail in emission order.
func (r *Result) Decisions() []Decision { return r.decisions }

// Render joins the output with newlines. Non-empty output ends with exactly
// one trailing newline; empty output renders to the empty string.
func (r *Result) Render() string {
	if len(r.lines) == 0 {
		return ""
	}
	return strings.Join(r.lines, "\n") + "\n"
}

// Summary aggregates the decision trail for observability and tests.
type Summary struct {
	ID        string
	Decisions int
	Lines     int
	ByKind    map[DecisionKind]int
}

// Summary computes per-kind decision counts and totals.
func (r *Result) Summary() Summary {
	s := Summary{
		ID:        r.id,
		Decisions: len(r.decisions),
		Lines:     len(r.lines),
		ByKind:    make(map[DecisionKind]int),
	}
	for _, d := range r.decisions {
		s.ByKind[d.Kind]++
	}
	return s
}
