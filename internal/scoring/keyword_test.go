package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jonathan/ats-optimizer/internal/types"
)

const sampleResume = "Senior engineer with five years building backend services in Go. " +
	"Led a team of four and shipped three product launches."

func TestClassifyKeyword_TechnicalNotPresent(t *testing.T) {
	category, weight := ClassifyKeyword("Python", sampleResume)

	assert.Equal(t, CategoryTechnical, category)
	assert.InDelta(t, 0.9, weight, 0.001)
}

func TestClassifyKeyword_TechnicalAlreadyPresent(t *testing.T) {
	content := sampleResume + " Experienced Python developer."

	category, weight := ClassifyKeyword("Python", content)

	assert.Equal(t, CategoryTechnical, category)
	// 0.9 - 0.3 already-present penalty
	assert.InDelta(t, 0.6, weight, 0.001)
}

func TestClassifyKeyword_WholeWordMatchOnly(t *testing.T) {
	// "JavaScript" in the resume must not count as presence of "Java".
	_, weight := ClassifyKeyword("Java", "Senior JavaScript developer")

	assert.InDelta(t, 0.9, weight, 0.001)
}

func TestClassifyKeyword_CaseInsensitivePresence(t *testing.T) {
	_, weight := ClassifyKeyword("python", "Expert in PYTHON scripting")

	assert.InDelta(t, 0.6, weight, 0.001)
}

func TestClassifyKeyword_Categories(t *testing.T) {
	cases := []struct {
		keyword  string
		category string
		weight   float64
	}{
		{"Kubernetes", CategoryTechnical, 0.9},
		{"leadership", CategorySoftSkill, 0.6},
		{"spearheaded", CategoryActionVerb, 0.5},
		{"agile", CategoryIndustry, 0.8},
		{"synergy", CategoryGeneral, 0.4},
	}

	for _, tc := range cases {
		t.Run(tc.keyword, func(t *testing.T) {
			category, weight := ClassifyKeyword(tc.keyword, "")
			assert.Equal(t, tc.category, category)
			assert.InDelta(t, tc.weight, weight, 0.001)
		})
	}
}

func TestClassifyKeyword_CascadeOrder(t *testing.T) {
	// Technical is checked before soft-skill, so a phrase containing both
	// classifies as technical.
	category, _ := ClassifyKeyword("Python leadership", "")
	assert.Equal(t, CategoryTechnical, category)

	// Soft-skill is checked before industry-specific.
	category, _ = ClassifyKeyword("agile communication", "")
	assert.Equal(t, CategorySoftSkill, category)
}

func TestKeywordPointImpact_NotPresent(t *testing.T) {
	k := &types.Keyword{Text: "Python"}

	impact := KeywordPointImpact(k, sampleResume)

	assert.InDelta(t, 1.8, impact, 0.001)
	assert.Equal(t, CategoryTechnical, k.Category)
	assert.True(t, k.Classified)
}

func TestKeywordPointImpact_AlreadyPresent(t *testing.T) {
	k := &types.Keyword{Text: "Python"}

	impact := KeywordPointImpact(k, sampleResume+" Python enthusiast.")

	assert.InDelta(t, 1.2, impact, 0.001)
}

func TestKeywordPointImpact_MatchesBareStringForm(t *testing.T) {
	for _, text := range []string{"Python", "leadership", "spearheaded", "synergy"} {
		k := &types.Keyword{Text: text}
		assert.InDelta(t, KeywordPointImpactText(text, sampleResume), KeywordPointImpact(k, sampleResume), 0.0001, text)
	}
}

func TestKeywordPointImpact_CachedUntilInvalidated(t *testing.T) {
	k := &types.Keyword{Text: "Python"}

	first := KeywordPointImpact(k, sampleResume)
	assert.InDelta(t, 1.8, first, 0.001)

	// Cached value sticks even when the content changes...
	second := KeywordPointImpact(k, sampleResume+" Python everywhere")
	assert.InDelta(t, 1.8, second, 0.001)

	// ...until the cache is explicitly invalidated.
	k.Classified = false
	third := KeywordPointImpact(k, sampleResume+" Python everywhere")
	assert.InDelta(t, 1.2, third, 0.001)
}

func TestKeywordPointImpact_Range(t *testing.T) {
	for _, text := range []string{"", "x", "Kubernetes", "teamwork", "some very generic phrase"} {
		impact := KeywordPointImpactText(text, sampleResume)
		assert.GreaterOrEqual(t, impact, 0.1, text)
		assert.LessOrEqual(t, impact, 2.0, text)
	}
}

func TestWholeWordMatch_MultiWordPhrase(t *testing.T) {
	assert.True(t, wholeWordMatch("machine learning", "Built machine learning pipelines"))
	assert.False(t, wholeWordMatch("machine learning", "Built machines for learning"))
}

func TestClassifyKeyword_SymbolSuffixedTerms(t *testing.T) {
	// A trailing symbol defeats the \b in the technical pattern, so these
	// fall through to general.
	category, weight := ClassifyKeyword("C++", "")
	assert.Equal(t, CategoryGeneral, category)
	assert.InDelta(t, 0.4, weight, 0.001)

	// Same for the already-present discount: the term never whole-word
	// matches the resume text.
	assert.False(t, wholeWordMatch("C++", "Expert in C++ since 2015"))
	_, weight = ClassifyKeyword("C#", "Shipped C# services")
	assert.InDelta(t, 0.4, weight, 0.001)
}
