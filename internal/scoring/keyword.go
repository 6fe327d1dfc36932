package scoring

import (
	"math"
	"regexp"
	"strings"

	"github.com/jonathan/ats-optimizer/internal/types"
)

// ClassifyKeyword determines the category and impact weight for a keyword
// against the given resume content. The weight is reduced when the resume
// already contains the term as a whole word (case-insensitive), and is
// clamped to [0.1, 1.0].
func ClassifyKeyword(text, resumeContent string) (category string, impactWeight float64) {
	category = CategoryGeneral
	for _, kp := range keywordCascade {
		if kp.Pattern.MatchString(text) {
			category = kp.Category
			break
		}
	}

	impactWeight = keywordCategoryWeights[category]
	if wholeWordMatch(text, resumeContent) {
		impactWeight -= alreadyPresentPenalty
	}
	if impactWeight < 0.1 {
		impactWeight = 0.1
	}
	if impactWeight > 1.0 {
		impactWeight = 1.0
	}
	return category, impactWeight
}

// KeywordPointImpact returns the point contribution of a keyword before
// diminishing returns, in [0.1, 2.0]. Derived values are cached on the
// keyword; callers must clear the cache (Classified=false) when the resume
// content changes, since the weight depends on it.
func KeywordPointImpact(k *types.Keyword, resumeContent string) float64 {
	if !k.Classified {
		k.Category, k.ImpactWeight = ClassifyKeyword(k.Text, resumeContent)
		k.PointImpact = pointImpactFromWeight(k.ImpactWeight)
		k.Classified = true
	}
	return k.PointImpact
}

// KeywordPointImpactText computes the point impact for a bare keyword
// string. Produces the same value as KeywordPointImpact for the same
// text and content pair.
func KeywordPointImpactText(text, resumeContent string) float64 {
	_, weight := ClassifyKeyword(text, resumeContent)
	return pointImpactFromWeight(weight)
}

func pointImpactFromWeight(weight float64) float64 {
	impact := math.Round(weight*2*10) / 10
	if impact < 0.1 {
		impact = 0.1
	}
	if impact > 2.0 {
		impact = 2.0
	}
	return impact
}

// wholeWordMatch reports whether term occurs in content as a whole word,
// case-insensitively. Multi-word terms match as whole phrases. Terms ending
// in a non-word character ("C++") never match, since the trailing \b needs
// a word-character edge.
func wholeWordMatch(term, content string) bool {
	term = strings.TrimSpace(term)
	if term == "" || content == "" {
		return false
	}
	re, err := regexp.Compile(`(?i)\b` + regexp.QuoteMeta(term) + `\b`)
	if err != nil {
		return false
	}
	return re.MatchString(content)
}
