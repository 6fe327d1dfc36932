// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/jonathan/ats-optimizer/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		// Truncate long lines
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintBreakdown outputs a human-readable summary of a score breakdown.
func (p *Printer) PrintBreakdown(b types.ScoreBreakdown) {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Base score:        %d\n", b.Base))
	sb.WriteString(fmt.Sprintf("Suggestion points: %+d\n", b.SuggestionPoints))
	sb.WriteString(fmt.Sprintf("Keyword points:    %+d\n", b.KeywordPoints))
	sb.WriteString(fmt.Sprintf("Total:             %d\n", b.Total))
	sb.WriteString(fmt.Sprintf("Potential:         %d", b.Potential))

	if len(b.SectionScores) > 0 {
		sb.WriteString("\n\nSections:\n")
		names := make([]string, 0, len(b.SectionScores))
		for name := range b.SectionScores {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			sb.WriteString(fmt.Sprintf("  %-15s %d\n", name, b.SectionScores[name]))
		}
	}

	p.printBox("SCORE BREAKDOWN", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintSuggestions outputs the top suggestions with severity and point impact.
func (p *Printer) PrintSuggestions(suggestions []*types.Suggestion) {
	if len(suggestions) == 0 {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Total suggestions: %d\n\n", len(suggestions)))

	count := min(len(suggestions), maxItemsToShow)
	for i := 0; i < count; i++ {
		s := suggestions[i]
		text := s.Text
		if len(text) > 50 {
			text = text[:47] + "..."
		}
		marker := " "
		if s.IsApplied {
			marker = "✓"
		}
		sb.WriteString(fmt.Sprintf("%s %s\n", marker, text))
		sb.WriteString(fmt.Sprintf("  [%s] severity %d, %+.1f pts\n", s.Category, s.SeverityScore, s.PointImpact))
		if i < count-1 {
			sb.WriteString("\n")
		}
	}

	if len(suggestions) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("\n... and %d more suggestions", len(suggestions)-maxItemsToShow))
	}

	p.printBox("SUGGESTIONS", sb.String())
}

// PrintKeywords outputs the keyword list with categories and impacts.
func (p *Printer) PrintKeywords(keywords []*types.Keyword) {
	if len(keywords) == 0 {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Total keywords: %d\n\n", len(keywords)))

	count := min(len(keywords), maxItemsToShow)
	for i := 0; i < count; i++ {
		k := keywords[i]
		marker := " "
		if k.IsApplied {
			marker = "✓"
		}
		sb.WriteString(fmt.Sprintf("%s %s\n", marker, k.Text))
		sb.WriteString(fmt.Sprintf("  [%s] %+.1f pts\n", k.Category, k.PointImpact))
		if i < count-1 {
			sb.WriteString("\n")
		}
	}

	if len(keywords) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("\n... and %d more keywords", len(keywords)-maxItemsToShow))
	}

	p.printBox("KEYWORDS", sb.String())
}
