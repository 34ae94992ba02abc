package mergekit

import (
	"errors"
	"fmt"
)

// Side identifies which input a statement, decision, or error belongs to.
// The zero value is SideDestination so that an unconfigured preference
// defaults to keeping the maintained file's content.
type Side int

const (
	SideDestination Side = iota
	SideTemplate
)

func (s Side) String() string {
	switch s {
	case SideTemplate:
		return "template"
	case SideDestination:
		return "destination"
	default:
		return fmt.Sprintf("side(%d)", int(s))
	}
}

// Sentinel categories for the two caller-visible analysis failures. The
// line-oriented analyzer never actually fails, but stricter formats sharing
// this scaffolding do, so callers match on these with errors.Is.
var (
	ErrTemplateAnalysis    = errors.New("template could not be analyzed")
	ErrDestinationAnalysis = errors.New("destination could not be analyzed")
)

// AnalysisError wraps a parse failure with the side it occurred on.
type AnalysisError struct {
	Side Side
	Err  error
}

func (e *AnalysisError) Error() string {
	return fmt.Sprintf("%s: analysis failed: %v", e.Side, e.Err)
}

func (e *AnalysisError) Unwrap() error { return e.Err }

// Is makes the error match its side's sentinel category.
func (e *AnalysisError) Is(target error) bool {
	switch target {
	case ErrTemplateAnalysis:
		return e.Side == SideTemplate
	case ErrDestinationAnalysis:
		return e.Side == SideDestination
	}
	return false
}

// WrapAnalysis tags err with the side it came from. Returns nil if err is nil.
func WrapAnalysis(side Side, err error) error {
	if err == nil {
		return nil
	}
	return &AnalysisError{Side: side, Err: err}
}
