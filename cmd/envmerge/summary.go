package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"envmerge/internal/merge"
)

var (
	summaryTitleStyle = lipgloss.NewStyle().Bold(true)
	summaryKindStyle  = lipgloss.NewStyle().Width(18).Foreground(lipgloss.Color("6"))
	summaryDimStyle   = lipgloss.NewStyle().Faint(true)
)

// renderSummary formats the decision trail totals, kinds in fixed order so
// the output is stable across runs.
func renderSummary(s merge.Summary) string {
	var sb strings.Builder
	sb.WriteString(summaryTitleStyle.Render("merge summary"))
	sb.WriteByte('\n')

	for _, kind := range merge.DecisionKinds {
		n := s.ByKind[kind]
		if n == 0 {
			continue
		}
		sb.WriteString(fmt.Sprintf("  %s %d\n", summaryKindStyle.Render(kind.String()), n))
	}

	sb.WriteString(fmt.Sprintf("  %s %d decision(s), %d line(s)\n",
		summaryKindStyle.Render("total"), s.Decisions, s.Lines))
	sb.WriteString(summaryDimStyle.Render("  run "+s.ID) + "\n")
	return sb.String()
}
