// Package preview computes the line changes a merge would apply to the
// destination file, for display before anything is written.
package preview

import (
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// ChangeType classifies one preview line.
type ChangeType int

const (
	Unchanged ChangeType = iota
	Added
	Removed
)

// Change is a single line of the preview.
type Change struct {
	Type ChangeType
	Line string
}

// Changes diffs the current destination text against the merge output at
// line granularity. The char-level reduction keeps newline boundaries
// intact when converting back to line operations.
func Changes(before, after string) []Change {
	if before == after {
		return nil
	}

	dmp := diffmatchpatch.New()
	dmp.DiffTimeout = 0
	a, b, lineArray := dmp.DiffLinesToChars(before, after)
	diffs := dmp.DiffMain(a, b, false)
	diffs = dmp.DiffCleanupSemantic(diffs)
	diffs = dmp.DiffCharsToLines(diffs, lineArray)

	var changes []Change
	for _, d := range diffs {
		typ := Unchanged
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			typ = Added
		case diffmatchpatch.DiffDelete:
			typ = Removed
		}
		for _, line := range splitDiffLines(d.Text) {
			changes = append(changes, Change{Type: typ, Line: line})
		}
	}
	return changes
}

// splitDiffLines splits a diff chunk into lines, dropping the empty element
// a trailing newline produces.
func splitDiffLines(text string) []string {
	if text == "" {
		return nil
	}
	lines := strings.Split(text, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// Render formats the changes with conventional +/- prefixes.
func Render(changes []Change) string {
	if len(changes) == 0 {
		return ""
	}
	var sb strings.Builder
	for _, c := range changes {
		switch c.Type {
		case Added:
			sb.WriteString("+ ")
		case Removed:
			sb.WriteString("- ")
		default:
			sb.WriteString("  ")
		}
		sb.WriteString(c.Line)
		sb.WriteByte('\n')
	}
	return sb.String()
}

// Stats counts added and removed lines.
func Stats(changes []Change) (added, removed int) {
	for _, c := range changes {
		switch c.Type {
		case Added:
			added++
		case Removed:
			removed++
		}
	}
	return added, removed
}
