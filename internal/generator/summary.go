package generator

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/example/mdxgen/internal/model"
)

var (
	styleLabel = lipgloss.NewStyle().Bold(true)
	styleWarn  = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	styleOK    = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
)

// summaryOrder is the order categories are reported in.
var summaryOrder = []model.Category{
	model.CategoryClasses,
	model.CategoryFunctions,
	model.CategoryHooks,
	model.CategoryComponents,
	model.CategoryInterfaces,
	model.CategoryTypes,
	model.CategoryEnums,
	model.CategoryConstants,
}

// Summary reports the outcome of a run.
type Summary struct {
	Package string
	// Files is the number of source files extracted.
	Files   int
	Skipped int
	// Missing counts source paths that matched nothing.
	Missing int
	Counts  map[model.Category]int
	// Invalid counts rendered documents that failed validation.
	Invalid   int
	Written   []string
	Unchanged []string
	// Drift lists files that differ from their rendering, in check mode.
	Drift []string
}

// String returns the plain summary line.
func (s *Summary) String() string {
	parts := make([]string, 0, len(summaryOrder))
	for _, c := range summaryOrder {
		parts = append(parts, fmt.Sprintf("%s %d", c, s.Counts[c]))
	}
	return fmt.Sprintf("Summary: %d files processed, %d skipped; %s", s.Files, s.Skipped, strings.Join(parts, ", "))
}

// Render returns the styled summary for the terminal.
func (s *Summary) Render() string {
	line := strings.TrimPrefix(s.String(), "Summary: ")
	var sb strings.Builder
	sb.WriteString(styleLabel.Render("Summary:") + " " + line)

	var notes []string
	if s.Missing > 0 {
		notes = append(notes, fmt.Sprintf("%d source paths matched nothing", s.Missing))
	}
	if s.Invalid > 0 {
		notes = append(notes, fmt.Sprintf("%d documents failed validation", s.Invalid))
	}
	if len(notes) > 0 {
		sb.WriteString("\n" + styleWarn.Render(strings.Join(notes, "; ")))
	}
	if len(s.Written) > 0 {
		sb.WriteString("\n" + styleOK.Render(fmt.Sprintf("%d documents written, %d unchanged", len(s.Written), len(s.Unchanged))))
	}
	return sb.String()
}
