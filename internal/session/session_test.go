package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/ats-optimizer/internal/types"
)

func testPass() types.OptimizationPass {
	return FromRaw(65,
		[]types.RawSuggestion{
			{Type: "skills", Text: "Add a skills section", Impact: "This is a critical improvement"},
			{Type: "formatting", Text: "Use standard headings", Impact: "helpful for parsing"},
			{Text: "Tighten the summary"}, // missing type and impact
		},
		[]string{"Python", "leadership", ""},
	)
}

func testContent() types.ResumeContent {
	return types.ResumeContent{
		Text: "Senior engineer building Go services.",
		Sections: map[string]string{
			"summary": "Senior engineer building Go services.",
		},
	}
}

func TestNew_InitialBreakdown(t *testing.T) {
	s := New(testPass(), testContent())

	assert.Equal(t, 65, s.Breakdown.Base)
	assert.Equal(t, 65, s.Breakdown.Total)
	assert.GreaterOrEqual(t, s.Breakdown.Potential, s.Breakdown.Total)
	assert.Equal(t, 0, s.Breakdown.SuggestionPoints)
	assert.Equal(t, 0, s.Breakdown.KeywordPoints)
}

func TestFromRaw_Defaults(t *testing.T) {
	s := New(testPass(), testContent())

	require.Len(t, s.Suggestions, 3)
	assert.Equal(t, "general", s.Suggestions[2].Category)
	assert.NotEmpty(t, s.Suggestions[2].ID)

	// Blank keyword strings are dropped
	require.Len(t, s.Keywords, 2)
}

func TestNew_ClampsDegenerateBaseScore(t *testing.T) {
	s := New(FromRaw(-20, nil, nil), types.ResumeContent{})
	assert.Equal(t, 0, s.BaseScore)
	assert.Equal(t, 0, s.Breakdown.Total)

	s = New(FromRaw(140, nil, nil), types.ResumeContent{})
	assert.Equal(t, 100, s.BaseScore)
	assert.Equal(t, 100, s.Breakdown.Total)
}

func TestApplySuggestion_TogglesAndScores(t *testing.T) {
	s := New(testPass(), testContent())

	breakdown, err := s.ApplySuggestion(0)
	require.NoError(t, err)

	assert.True(t, s.Suggestions[0].IsApplied)
	// Scenario from the scoring engine: skills/critical at base 65 moves
	// the total to 66.
	assert.Equal(t, 66, breakdown.Total)
}

func TestApplySuggestion_SecondCallUnapplies(t *testing.T) {
	s := New(testPass(), testContent())
	original := s.Breakdown

	_, err := s.ApplySuggestion(1)
	require.NoError(t, err)
	restored, err := s.ApplySuggestion(1)
	require.NoError(t, err)

	assert.False(t, s.Suggestions[1].IsApplied)
	assert.Equal(t, original, restored)
}

func TestApplyKeyword_TogglesAndScores(t *testing.T) {
	s := New(testPass(), testContent())

	breakdown, err := s.ApplyKeyword(0)
	require.NoError(t, err)

	assert.True(t, s.Keywords[0].IsApplied)
	assert.Greater(t, breakdown.Total, 65)
}

func TestApplySuggestion_InvalidIndex(t *testing.T) {
	s := New(testPass(), testContent())
	before := s.Breakdown

	for _, index := range []int{-1, 3, 99} {
		_, err := s.ApplySuggestion(index)

		var invalidErr *InvalidIndexError
		require.ErrorAs(t, err, &invalidErr)
		assert.Equal(t, "suggestion", invalidErr.Kind)
		assert.Equal(t, index, invalidErr.Index)
	}

	// Failed toggles leave the session untouched
	assert.Equal(t, before, s.Breakdown)
}

func TestApplyKeyword_InvalidIndex(t *testing.T) {
	s := New(testPass(), testContent())

	_, err := s.ApplyKeyword(2)

	var invalidErr *InvalidIndexError
	require.ErrorAs(t, err, &invalidErr)
	assert.Equal(t, "keyword", invalidErr.Kind)
}

func TestResetAll_RestoresBaseScore(t *testing.T) {
	s := New(testPass(), testContent())
	s.ApplyAll()
	require.Greater(t, s.Breakdown.Total, 65)

	breakdown := s.ResetAll()

	assert.Equal(t, 65, breakdown.Total)
	assert.Equal(t, 0, breakdown.SuggestionPoints)
	assert.Equal(t, 0, breakdown.KeywordPoints)
	for _, sg := range s.Suggestions {
		assert.False(t, sg.IsApplied)
	}
	for _, k := range s.Keywords {
		assert.False(t, k.IsApplied)
	}
}

func TestApplyAll_AppliesEverything(t *testing.T) {
	s := New(testPass(), testContent())

	breakdown := s.ApplyAll()

	for _, sg := range s.Suggestions {
		assert.True(t, sg.IsApplied)
	}
	for _, k := range s.Keywords {
		assert.True(t, k.IsApplied)
	}
	// Everything applied leaves no remaining potential
	assert.Equal(t, breakdown.Total, breakdown.Potential)
	assert.GreaterOrEqual(t, breakdown.Total, 65)
	assert.LessOrEqual(t, breakdown.Total, 100)
}

func TestUpdateResumeContent_RecomputesKeywordWeights(t *testing.T) {
	s := New(testPass(), testContent())
	_, err := s.ApplyKeyword(0) // "Python", not present in the content
	require.NoError(t, err)
	before := s.Breakdown

	severityBefore := s.Suggestions[0].SeverityScore

	// New content now contains the keyword, so its weight drops and the
	// total shrinks.
	breakdown := s.UpdateResumeContent(types.ResumeContent{
		Text: "Senior Python engineer building Go services.",
	})

	assert.LessOrEqual(t, breakdown.Total, before.Total)
	assert.InDelta(t, 1.2, s.Keywords[0].PointImpact, 0.001)

	// Suggestion severities are content-independent and keep their cache
	assert.Equal(t, severityBefore, s.Suggestions[0].SeverityScore)
	assert.True(t, s.Suggestions[0].Scored)
}

func TestSession_ToggleIsIdempotentOnBreakdown(t *testing.T) {
	s := New(testPass(), testContent())
	original := s.Breakdown

	for i := range s.Keywords {
		_, err := s.ApplyKeyword(i)
		require.NoError(t, err)
	}
	for i := range s.Keywords {
		_, err := s.ApplyKeyword(i)
		require.NoError(t, err)
	}

	assert.Equal(t, original, s.Breakdown)
}

func TestRestore_KeepsIDAndAppliedFlags(t *testing.T) {
	s := New(testPass(), testContent())
	_, err := s.ApplySuggestion(0)
	require.NoError(t, err)
	_, err = s.ApplyKeyword(0)
	require.NoError(t, err)

	restored := Restore(s.ID, s.BaseScore, s.Suggestions, s.Keywords, s.Content)

	assert.Equal(t, s.ID, restored.ID)
	assert.True(t, restored.Suggestions[0].IsApplied)
	assert.True(t, restored.Keywords[0].IsApplied)
	assert.Equal(t, s.Breakdown, restored.Breakdown)
}

func TestRestore_RecomputesKeywordCachesAgainstContent(t *testing.T) {
	s := New(testPass(), testContent())
	_, err := s.ApplyKeyword(0)
	require.NoError(t, err)
	assert.InDelta(t, 1.8, s.Keywords[0].PointImpact, 1e-9)

	content := testContent()
	content.Text += " Python."
	restored := Restore(s.ID, s.BaseScore, s.Suggestions, s.Keywords, content)

	assert.InDelta(t, 1.2, restored.Keywords[0].PointImpact, 1e-9)
}
