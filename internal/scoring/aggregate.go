package scoring

import (
	"math"

	"github.com/jonathan/ats-optimizer/internal/types"
)

// CalculateDetailedScore composes the base score with the point impacts of
// every applied suggestion and keyword, scaled by a diminishing-returns
// factor derived from the base score, and reports the result as a bounded
// ScoreBreakdown.
//
// The per-category SuggestionPoints/KeywordPoints fields are rounded
// independently for display; Total is computed from the unrounded scaled
// sums so the two roundings never compound.
func CalculateDetailedScore(baseScore int, suggestions []*types.Suggestion, keywords []*types.Keyword, content types.ResumeContent) types.ScoreBreakdown {
	suggestionRaw := 0.0
	var unappliedSuggestions []*types.Suggestion
	for _, s := range suggestions {
		if s.IsApplied {
			suggestionRaw += SuggestionPointImpact(s)
		} else {
			unappliedSuggestions = append(unappliedSuggestions, s)
		}
	}

	keywordRaw := 0.0
	var unappliedKeywords []*types.Keyword
	for _, k := range keywords {
		if k.IsApplied {
			keywordRaw += KeywordPointImpact(k, content.Text)
		} else {
			unappliedKeywords = append(unappliedKeywords, k)
		}
	}

	// The closer the base score is to the ceiling, the less each applied
	// improvement moves it.
	factor := 1 - float64(baseScore)/120
	if factor < 0.1 {
		factor = 0.1
	}

	total := clampScore(math.Round(float64(baseScore) + suggestionRaw*factor + keywordRaw*factor))

	potentialPoints := CalculatePotential(unappliedSuggestions, unappliedKeywords, content.Text)
	potential := clampScore(float64(total + potentialPoints))
	if potential < total {
		potential = total
	}

	return types.ScoreBreakdown{
		Base:             baseScore,
		SuggestionPoints: int(math.Round(suggestionRaw * factor)),
		KeywordPoints:    int(math.Round(keywordRaw * factor)),
		Total:            total,
		Potential:        potential,
		SectionScores:    EvaluateSections(content),
	}
}

// CalculatePotential returns the whole points still obtainable from the
// given unapplied items. A count-based diminishing factor keeps long
// suggestion lists from promising an unrealistic ceiling.
func CalculatePotential(unappliedSuggestions []*types.Suggestion, unappliedKeywords []*types.Keyword, resumeText string) int {
	count := len(unappliedSuggestions) + len(unappliedKeywords)
	if count == 0 {
		return 0
	}

	raw := 0.0
	for _, s := range unappliedSuggestions {
		raw += SuggestionPointImpact(s)
	}
	for _, k := range unappliedKeywords {
		raw += KeywordPointImpact(k, resumeText)
	}

	factor := 1 / (1 + float64(count)/20)
	return int(math.Round(raw * factor))
}

func clampScore(v float64) int {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return int(v)
}
