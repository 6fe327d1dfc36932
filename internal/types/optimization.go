// Package types provides type definitions for structured data used throughout the ATS optimizer.
//
//nolint:revive // types is a standard Go package name pattern
package types

// Suggestion is an AI-generated, resume-wide improvement recommendation.
// SeverityScore and PointImpact are derived by the scoring package the first
// time the suggestion is touched and cached here; Scored guards the cache.
type Suggestion struct {
	ID                string `json:"id"`
	Category          string `json:"category"`
	Text              string `json:"text"`
	ImpactDescription string `json:"impact_description"`
	IsApplied         bool   `json:"is_applied"`

	// Cached derived values (see scoring.ClassifySuggestionSeverity)
	SeverityScore int     `json:"severity_score,omitempty"`
	PointImpact   float64 `json:"point_impact,omitempty"`
	Scored        bool    `json:"scored,omitempty"`
}

// Keyword is a single recommended term whose presence in the resume affects
// the ATS score. Category, ImpactWeight and PointImpact are derived against
// a specific resume content and cached; Classified guards the cache and must
// be cleared whenever the resume content changes.
type Keyword struct {
	Text      string `json:"text"`
	IsApplied bool   `json:"is_applied"`

	// Cached derived values (see scoring.ClassifyKeyword)
	Category     string  `json:"category,omitempty"`
	ImpactWeight float64 `json:"impact_weight,omitempty"`
	PointImpact  float64 `json:"point_impact,omitempty"`
	Classified   bool    `json:"classified,omitempty"`
}

// ResumeContent is the section-addressable representation of a resume that
// the scoring engine consumes. Text is the whole-document plain text used
// for keyword presence detection; Sections maps canonical section ids
// (summary, experience, education, skills, projects, certifications) to
// per-section plain text.
type ResumeContent struct {
	Text     string            `json:"text"`
	Sections map[string]string `json:"sections,omitempty"`
}

// ScoreBreakdown is the aggregate scoring result for one resume state.
type ScoreBreakdown struct {
	Base             int            `json:"base"`
	SuggestionPoints int            `json:"suggestion_points"`
	KeywordPoints    int            `json:"keyword_points"`
	Total            int            `json:"total"`
	Potential        int            `json:"potential"`
	SectionScores    map[string]int `json:"section_scores,omitempty"`
}

// OptimizationPass is one AI optimization round: a base score plus the
// suggestions and keywords generated for it. A new pass replaces the
// previous one wholesale.
type OptimizationPass struct {
	BaseScore   int           `json:"base_score"`
	Suggestions []*Suggestion `json:"suggestions"`
	Keywords    []*Keyword    `json:"keywords"`
}

// RawSuggestion is the shape produced by the AI provider before
// normalization: {type, text, impact} tuples with possibly missing fields.
type RawSuggestion struct {
	Type   string `json:"type"`
	Text   string `json:"text"`
	Impact string `json:"impact"`
}
