package db

import (
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/ats-optimizer/internal/types"
)

// PassRow is the stored representation of an optimization pass.
type PassRow struct {
	ID          uuid.UUID           `json:"id"`
	BaseScore   int                 `json:"base_score"`
	Suggestions []*types.Suggestion `json:"suggestions"`
	Keywords    []*types.Keyword    `json:"keywords"`
	ResumeText  string              `json:"resume_text"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
}

// ScoreSnapshotRow is one recorded score recomputation for a pass.
type ScoreSnapshotRow struct {
	ID        int64                `json:"id"`
	PassID    uuid.UUID            `json:"pass_id"`
	Total     int                  `json:"total"`
	Potential int                  `json:"potential"`
	Breakdown types.ScoreBreakdown `json:"breakdown"`
	CreatedAt time.Time            `json:"created_at"`
}
