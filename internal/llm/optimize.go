package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"golang.org/x/sync/errgroup"

	"github.com/jonathan/ats-optimizer/internal/schemas"
	"github.com/jonathan/ats-optimizer/internal/types"
)

const analysisPrompt = `You are an expert ATS (Applicant Tracking System) analyst.
Analyze the resume below and respond with JSON only, in this shape:
{
  "base_score": <integer 0-100, the resume's current ATS compatibility>,
  "suggestions": [
    {"type": "<structure|content|skills|formatting|language|keywords|ats>",
     "text": "<the improvement to make>",
     "impact": "<one sentence describing the benefit>"}
  ]
}
Produce 3-8 specific, actionable suggestions.

RESUME:
%s`

const keywordsPrompt = `You are an expert ATS analyst. List keywords that would
strengthen the resume below for automated screening: technical terms, soft
skills, action verbs, and industry terms the resume is missing or underusing.
Respond with JSON only: {"keywords": ["<term>", ...]} with 5-15 terms.

RESUME:
%s`

// analysisResponse is the JSON shape of the suggestion/score call.
type analysisResponse struct {
	BaseScore   int                   `json:"base_score"`
	Suggestions []types.RawSuggestion `json:"suggestions"`
}

// keywordsResponse is the JSON shape of the keyword call.
type keywordsResponse struct {
	Keywords []string `json:"keywords"`
}

// GenerateRawPass runs one optimization round against the LLM: a suggestion
// and base-score call and a keyword call, issued concurrently. The result
// is the raw provider output; callers normalize it (defaulting missing
// categories) when building a session.
func GenerateRawPass(ctx context.Context, client Client, resumeText string) (int, []types.RawSuggestion, []string, error) {
	var analysis analysisResponse
	var keywords keywordsResponse

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		response, err := client.GenerateJSON(gctx, fmt.Sprintf(analysisPrompt, resumeText), TierStandard)
		if err != nil {
			return fmt.Errorf("analysis call failed: %w", err)
		}
		if err := json.Unmarshal([]byte(response), &analysis); err != nil {
			return fmt.Errorf("failed to parse analysis response: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		response, err := client.GenerateJSON(gctx, fmt.Sprintf(keywordsPrompt, resumeText), TierLite)
		if err != nil {
			return fmt.Errorf("keyword call failed: %w", err)
		}
		if err := json.Unmarshal([]byte(response), &keywords); err != nil {
			return fmt.Errorf("failed to parse keyword response: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return 0, nil, nil, err
	}

	if err := validatePass(analysis, keywords); err != nil {
		return 0, nil, nil, err
	}

	return analysis.BaseScore, analysis.Suggestions, keywords.Keywords, nil
}

// validatePass checks the assembled pass against the optimization-pass JSON
// Schema. Validation is skipped with a warning when the schema file cannot
// be located (e.g. a binary deployed without the repo tree).
func validatePass(analysis analysisResponse, keywords keywordsResponse) error {
	schemaPath := schemas.ResolveSchemaPath("schemas/optimization_pass.schema.json")
	if schemaPath == "" {
		log.Printf("Warning: optimization pass schema not found, skipping validation")
		return nil
	}

	payload := map[string]any{
		"base_score":  analysis.BaseScore,
		"suggestions": analysis.Suggestions,
		"keywords":    keywords.Keywords,
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal pass for validation: %w", err)
	}

	if err := schemas.ValidateBytes(schemaPath, data); err != nil {
		return fmt.Errorf("LLM produced an invalid optimization pass: %w", err)
	}
	return nil
}
