package db

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jonathan/ats-optimizer/internal/types"
)

// SavePass stores an optimization pass, including the current applied
// state of every suggestion and keyword. Saving an existing id replaces
// the stored items wholesale.
func (db *DB) SavePass(ctx context.Context, id uuid.UUID, pass types.OptimizationPass, resumeText string) error {
	suggestions, err := json.Marshal(pass.Suggestions)
	if err != nil {
		return fmt.Errorf("failed to marshal suggestions: %w", err)
	}
	keywords, err := json.Marshal(pass.Keywords)
	if err != nil {
		return fmt.Errorf("failed to marshal keywords: %w", err)
	}

	_, err = db.pool.Exec(ctx,
		`INSERT INTO optimization_passes (id, base_score, suggestions, keywords, resume_text)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (id) DO UPDATE SET
		   base_score = $2, suggestions = $3, keywords = $4, resume_text = $5, updated_at = NOW()`,
		id, pass.BaseScore, suggestions, keywords, resumeText,
	)
	if err != nil {
		return fmt.Errorf("failed to save pass %s: %w", id, err)
	}
	return nil
}

// GetPass retrieves an optimization pass by id. Returns nil without error
// when the pass does not exist.
func (db *DB) GetPass(ctx context.Context, id uuid.UUID) (*PassRow, error) {
	var row PassRow
	var suggestions, keywords []byte

	err := db.pool.QueryRow(ctx,
		`SELECT id, base_score, suggestions, keywords, resume_text, created_at, updated_at
		 FROM optimization_passes WHERE id = $1`,
		id,
	).Scan(&row.ID, &row.BaseScore, &suggestions, &keywords, &row.ResumeText, &row.CreatedAt, &row.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get pass %s: %w", id, err)
	}

	if err := json.Unmarshal(suggestions, &row.Suggestions); err != nil {
		return nil, fmt.Errorf("failed to unmarshal suggestions for pass %s: %w", id, err)
	}
	if err := json.Unmarshal(keywords, &row.Keywords); err != nil {
		return nil, fmt.Errorf("failed to unmarshal keywords for pass %s: %w", id, err)
	}
	return &row, nil
}

// SaveAppliedState persists the applied flags after a toggle so a session
// can be rebuilt after the live store expires.
func (db *DB) SaveAppliedState(ctx context.Context, id uuid.UUID, suggestions []*types.Suggestion, keywords []*types.Keyword) error {
	suggestionsJSON, err := json.Marshal(suggestions)
	if err != nil {
		return fmt.Errorf("failed to marshal suggestions: %w", err)
	}
	keywordsJSON, err := json.Marshal(keywords)
	if err != nil {
		return fmt.Errorf("failed to marshal keywords: %w", err)
	}

	tag, err := db.pool.Exec(ctx,
		`UPDATE optimization_passes SET suggestions = $1, keywords = $2, updated_at = NOW() WHERE id = $3`,
		suggestionsJSON, keywordsJSON, id,
	)
	if err != nil {
		return fmt.Errorf("failed to save applied state for pass %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("pass %s not found", id)
	}
	return nil
}

// SaveScoreSnapshot records the breakdown produced by a recomputation.
func (db *DB) SaveScoreSnapshot(ctx context.Context, id uuid.UUID, breakdown types.ScoreBreakdown) error {
	breakdownJSON, err := json.Marshal(breakdown)
	if err != nil {
		return fmt.Errorf("failed to marshal breakdown: %w", err)
	}

	_, err = db.pool.Exec(ctx,
		`INSERT INTO score_snapshots (pass_id, total, potential, breakdown) VALUES ($1, $2, $3, $4)`,
		id, breakdown.Total, breakdown.Potential, breakdownJSON,
	)
	if err != nil {
		return fmt.Errorf("failed to save score snapshot for pass %s: %w", id, err)
	}
	return nil
}

// ListScoreHistory returns snapshots for a pass, oldest first, capped at limit.
func (db *DB) ListScoreHistory(ctx context.Context, id uuid.UUID, limit int) ([]ScoreSnapshotRow, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := db.pool.Query(ctx,
		`SELECT id, pass_id, total, potential, breakdown, created_at
		 FROM score_snapshots WHERE pass_id = $1 ORDER BY created_at ASC LIMIT $2`,
		id, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list score history for pass %s: %w", id, err)
	}
	defer rows.Close()

	var snapshots []ScoreSnapshotRow
	for rows.Next() {
		var snap ScoreSnapshotRow
		var breakdown []byte
		if err := rows.Scan(&snap.ID, &snap.PassID, &snap.Total, &snap.Potential, &breakdown, &snap.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan score snapshot: %w", err)
		}
		if err := json.Unmarshal(breakdown, &snap.Breakdown); err != nil {
			return nil, fmt.Errorf("failed to unmarshal snapshot breakdown: %w", err)
		}
		snapshots = append(snapshots, snap)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate score snapshots: %w", err)
	}
	return snapshots, nil
}

// DeletePass removes a pass and, via cascade, its snapshots.
func (db *DB) DeletePass(ctx context.Context, id uuid.UUID) error {
	if _, err := db.pool.Exec(ctx, `DELETE FROM optimization_passes WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete pass %s: %w", id, err)
	}
	return nil
}
