package scoring

import (
	"math"
	"strings"

	"github.com/jonathan/ats-optimizer/internal/types"
)

// categoryWeight returns the weight for a suggestion category, falling back
// to the default for unknown or missing categories.
func categoryWeight(category string) float64 {
	if w, ok := suggestionCategoryWeights[strings.ToLower(strings.TrimSpace(category))]; ok {
		return w
	}
	return defaultCategoryWeight
}

// ClassifySuggestionSeverity derives a severity score in [1,10] for a
// suggestion from its category and impact description, caching the result
// (and the point impact) on the suggestion. Repeated calls return the
// cached value.
//
// The computation: start from round(categoryWeight*10), nudge halfway
// toward the first matching severity word in the description, then add +1
// for a quantifiable-impact phrase and +1 for ATS-specific terms.
func ClassifySuggestionSeverity(s *types.Suggestion) int {
	if s.Scored {
		return s.SeverityScore
	}

	weight := categoryWeight(s.Category)
	severity := math.Round(weight * 10)

	desc := strings.ToLower(s.ImpactDescription)
	for _, sw := range severityWords {
		if strings.Contains(desc, sw.Word) {
			severity += (float64(sw.Value) - severity) * 0.5
			break
		}
	}

	if quantifiablePattern.MatchString(desc) {
		severity++
	}
	if atsTermPattern.MatchString(desc) {
		severity++
	}

	score := int(math.Round(severity))
	if score < 1 {
		score = 1
	}
	if score > 10 {
		score = 10
	}

	s.SeverityScore = score
	s.PointImpact = pointImpactFromSeverity(score, s.Category)
	s.Scored = true
	return score
}

// SuggestionPointImpact returns the point contribution of a suggestion
// before diminishing returns, in [0.1, 3.0]. Uses the cached severity if
// present; classifies and caches otherwise.
func SuggestionPointImpact(s *types.Suggestion) float64 {
	if !s.Scored {
		ClassifySuggestionSeverity(s)
	}
	return s.PointImpact
}

func pointImpactFromSeverity(severity int, category string) float64 {
	basePoints := float64(severity) / 10 * 3
	impact := math.Round(basePoints*categoryWeight(category)*10) / 10
	if impact < 0.1 {
		impact = 0.1
	}
	if impact > 3.0 {
		impact = 3.0
	}
	return impact
}
