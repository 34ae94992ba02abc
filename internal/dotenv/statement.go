// Package dotenv parses line-oriented KEY=value configuration text into an
// ordered statement sequence, detects freeze-marker pairs, and collapses
// frozen line ranges into opaque blocks. It is the format half the merge
// engine is parameterized over.
package dotenv

import (
	"strings"

	"envmerge/internal/mergekit"
)

// Kind discriminates the statement variants. The set is closed: every
// consumer switches over it exhaustively, so adding a kind means updating
// the parser, the alignment engine, and the resolver together.
type Kind int

const (
	KindBlank Kind = iota
	KindComment
	KindAssignment
	KindInvalid
	KindFrozen
)

func (k Kind) String() string {
	switch k {
	case KindBlank:
		return "blank"
	case KindComment:
		return "comment"
	case KindAssignment:
		return "assignment"
	case KindInvalid:
		return "invalid"
	case KindFrozen:
		return "frozen"
	default:
		return "unknown"
	}
}

// Statement is one logical entry of a parsed file. Raw always holds the
// original source text verbatim; Key/Value/Export are set only for
// KindAssignment, Block only for KindFrozen.
type Statement struct {
	Kind   Kind
	Span   mergekit.Span
	Raw    string
	Key    string
	Value  string
	Export bool
	Block  *FrozenBlock
}

// Lines returns the output lines this statement contributes: the raw line
// for single-line statements, the full original span for a frozen block.
func (s Statement) Lines() []string {
	if s.Kind == KindFrozen && s.Block != nil {
		return s.Block.Lines
	}
	return []string{s.Raw}
}

// FrozenBlock is an immutable contiguous span of original lines, markers
// included, that must survive merges verbatim.
type FrozenBlock struct {
	Span   mergekit.Span
	Lines  []string
	Reason string
}

// Content returns the block's lines joined with newlines.
func (b *FrozenBlock) Content() string {
	return strings.Join(b.Lines, "\n")
}

// normalizedContent is the block's self-identification key: per-line
// trimmed content. It never participates in cross-file assignment matching.
func (b *FrozenBlock) normalizedContent() string {
	trimmed := make([]string, len(b.Lines))
	for i, l := range b.Lines {
		trimmed[i] = strings.TrimSpace(l)
	}
	return strings.Join(trimmed, "\n")
}

// SigKind namespaces signatures so an assignment key can never collide with
// a frozen block's content key.
type SigKind int

const (
	SigEnv SigKind = iota
	SigFrozen
)

// Signature identifies "the same logical entry" across two parsed files.
type Signature struct {
	Kind SigKind
	Key  string
}

// SigVerdict is what a SignatureFunc decided about a statement.
type SigVerdict int

const (
	// SigBuiltin keeps the built-in per-kind signature.
	SigBuiltin SigVerdict = iota
	// SigReplace substitutes the returned signature.
	SigReplace
	// SigOmit makes the statement unmatchable.
	SigOmit
)

// SignatureFunc lets a caller override signature generation per statement.
type SignatureFunc func(Statement) (Signature, SigVerdict)
