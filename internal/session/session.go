// Package session holds the mutable optimization state for one user's
// resume: the current pass, the applied/unapplied flags, and the score
// breakdown recomputed on every mutation.
package session

import (
	"strings"

	"github.com/google/uuid"

	"github.com/jonathan/ats-optimizer/internal/scoring"
	"github.com/jonathan/ats-optimizer/internal/types"
)

// Session is one user's live optimization state. Sessions are independent
// instances; nothing here is shared across sessions or resumes. A session
// must not be mutated from two call sites concurrently.
type Session struct {
	ID          uuid.UUID            `json:"id"`
	BaseScore   int                  `json:"base_score"`
	Content     types.ResumeContent  `json:"content"`
	Suggestions []*types.Suggestion  `json:"suggestions"`
	Keywords    []*types.Keyword     `json:"keywords"`
	Breakdown   types.ScoreBreakdown `json:"breakdown"`
}

// New creates a session from an optimization pass and the current resume
// content, normalizing raw items and computing the initial breakdown.
func New(pass types.OptimizationPass, content types.ResumeContent) *Session {
	s := &Session{
		ID:          uuid.New(),
		BaseScore:   pass.BaseScore,
		Content:     content,
		Suggestions: pass.Suggestions,
		Keywords:    pass.Keywords,
	}
	normalize(s)
	s.recompute()
	return s
}

// Restore rebuilds a session under its original id from persisted pass
// state, keeping the stored applied flags. Cached derived values are
// recomputed against the given content.
func Restore(id uuid.UUID, baseScore int, suggestions []*types.Suggestion, keywords []*types.Keyword, content types.ResumeContent) *Session {
	s := &Session{
		ID:          id,
		BaseScore:   baseScore,
		Content:     content,
		Suggestions: suggestions,
		Keywords:    keywords,
	}
	for _, k := range s.Keywords {
		k.Classified = false
	}
	normalize(s)
	s.recompute()
	return s
}

// FromRaw builds an optimization pass from the loose tuples an AI provider
// produces. Missing categories default to "general" and missing impact
// descriptions to the empty string; blank keyword strings are dropped.
func FromRaw(baseScore int, raw []types.RawSuggestion, keywords []string) types.OptimizationPass {
	suggestions := make([]*types.Suggestion, 0, len(raw))
	for _, r := range raw {
		suggestions = append(suggestions, &types.Suggestion{
			ID:                uuid.New().String(),
			Category:          r.Type,
			Text:              r.Text,
			ImpactDescription: r.Impact,
		})
	}
	kws := make([]*types.Keyword, 0, len(keywords))
	for _, text := range keywords {
		if strings.TrimSpace(text) == "" {
			continue
		}
		kws = append(kws, &types.Keyword{Text: text})
	}
	return types.OptimizationPass{BaseScore: baseScore, Suggestions: suggestions, Keywords: kws}
}

// ApplySuggestion toggles the applied flag of the suggestion at index and
// returns the recomputed breakdown. Applying an already-applied suggestion
// un-applies it.
func (s *Session) ApplySuggestion(index int) (types.ScoreBreakdown, error) {
	if index < 0 || index >= len(s.Suggestions) {
		return s.Breakdown, &InvalidIndexError{Kind: "suggestion", Index: index, Length: len(s.Suggestions)}
	}
	s.Suggestions[index].IsApplied = !s.Suggestions[index].IsApplied
	s.recompute()
	return s.Breakdown, nil
}

// ApplyKeyword toggles the applied flag of the keyword at index and returns
// the recomputed breakdown.
func (s *Session) ApplyKeyword(index int) (types.ScoreBreakdown, error) {
	if index < 0 || index >= len(s.Keywords) {
		return s.Breakdown, &InvalidIndexError{Kind: "keyword", Index: index, Length: len(s.Keywords)}
	}
	s.Keywords[index].IsApplied = !s.Keywords[index].IsApplied
	s.recompute()
	return s.Breakdown, nil
}

// ResetAll un-applies every suggestion and keyword. The resulting total
// equals the base score.
func (s *Session) ResetAll() types.ScoreBreakdown {
	for _, sg := range s.Suggestions {
		sg.IsApplied = false
	}
	for _, k := range s.Keywords {
		k.IsApplied = false
	}
	s.recompute()
	return s.Breakdown
}

// ApplyAll applies every suggestion and keyword.
func (s *Session) ApplyAll() types.ScoreBreakdown {
	for _, sg := range s.Suggestions {
		sg.IsApplied = true
	}
	for _, k := range s.Keywords {
		k.IsApplied = true
	}
	s.recompute()
	return s.Breakdown
}

// UpdateResumeContent swaps in new resume content and recomputes the
// breakdown with the existing applied flags. Keyword weights depend on the
// content, so their caches are invalidated; suggestion severities are
// content-independent and survive.
func (s *Session) UpdateResumeContent(content types.ResumeContent) types.ScoreBreakdown {
	s.Content = content
	for _, k := range s.Keywords {
		k.Classified = false
	}
	s.recompute()
	return s.Breakdown
}

func (s *Session) recompute() {
	s.Breakdown = scoring.CalculateDetailedScore(s.BaseScore, s.Suggestions, s.Keywords, s.Content)
}

// normalize clamps a degenerate base score and defaults missing categories
// so a malformed pass still yields a bounded, deterministic session.
func normalize(s *Session) {
	if s.BaseScore < 0 {
		s.BaseScore = 0
	}
	if s.BaseScore > 100 {
		s.BaseScore = 100
	}
	for _, sg := range s.Suggestions {
		if strings.TrimSpace(sg.Category) == "" {
			sg.Category = "general"
		}
		if sg.ID == "" {
			sg.ID = uuid.New().String()
		}
	}
}
