package scoring

import (
	"regexp"
	"strings"

	"github.com/jonathan/ats-optimizer/internal/types"
)

// StandardSections are the canonical section ids the evaluator scores.
var StandardSections = []string{
	"summary",
	"experience",
	"education",
	"skills",
	"projects",
	"certifications",
}

// metricPattern matches quantifiable achievements: percentages, currency
// amounts, or "N times"/"Nx" multipliers.
var metricPattern = regexp.MustCompile(`(?i)(\d+(\.\d+)?\s*%|[$€£]\s?\d|\d+\s*(times|x)\b)`)

// bulletLinePrefixes mark a line as a list item in extracted plain text.
var bulletLinePrefixes = []string{"- ", "* ", "• ", "· "}

// EvaluateSections scores each standard resume section on a 0-100 quality
// scale from presence, text length, bullet density, and quantifiable
// metrics. Sections absent from the content score 0. The result is
// independent of which suggestions or keywords are applied.
func EvaluateSections(content types.ResumeContent) map[string]int {
	scores := make(map[string]int, len(StandardSections))
	for _, id := range StandardSections {
		scores[id] = scoreSection(content.Sections[id])
	}
	return scores
}

func scoreSection(text string) int {
	text = strings.TrimSpace(text)
	if text == "" {
		return 0
	}

	score := 50

	// Highest length threshold wins.
	switch n := len(text); {
	case n > 500:
		score += 15
	case n > 200:
		score += 10
	case n > 100:
		score += 5
	}

	if hasListItem(text) {
		score += 10
	}
	if metricPattern.MatchString(text) {
		score += 15
	}

	if score > 100 {
		score = 100
	}
	return score
}

func hasListItem(text string) bool {
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimLeft(line, " \t")
		for _, prefix := range bulletLinePrefixes {
			if strings.HasPrefix(trimmed, prefix) {
				return true
			}
		}
	}
	return false
}
