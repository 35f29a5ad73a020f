package repository

import (
	"context"
	"database/sql"
	"fmt"

	"cfp-engine/internal/models"
)

// DecisionRepository stores append-only accept/reject records
type DecisionRepository struct {
	db DBTX
}

// NewDecisionRepository creates a new decision repository
func NewDecisionRepository(db DBTX) *DecisionRepository {
	return &DecisionRepository{db: db}
}

// WithTx returns a copy of the repository bound to tx
func (r *DecisionRepository) WithTx(tx *sql.Tx) *DecisionRepository {
	return &DecisionRepository{db: tx}
}

// Create appends a decision record
func (r *DecisionRepository) Create(ctx context.Context, rec *models.DecisionRecord) error {
	query := `
		INSERT INTO decision_records (submission_id, decision, notes, decided_by)
		VALUES ($1, $2, $3, $4)
		RETURNING id, decided_at
	`
	err := r.db.QueryRowContext(ctx, query, rec.SubmissionID, rec.Decision, rec.Notes, rec.DecidedBy).
		Scan(&rec.ID, &rec.DecidedAt)
	if err != nil {
		return fmt.Errorf("failed to create decision record: %w", err)
	}
	return nil
}

// ListBySubmission returns all decisions for a submission, oldest first
func (r *DecisionRepository) ListBySubmission(ctx context.Context, submissionID uint) ([]models.DecisionRecord, error) {
	query := `
		SELECT id, submission_id, decision, notes, decided_by, decided_at
		FROM decision_records
		WHERE submission_id = $1
		ORDER BY id
	`
	rows, err := r.db.QueryContext(ctx, query, submissionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list decision records: %w", err)
	}
	defer rows.Close()

	records := []models.DecisionRecord{}
	for rows.Next() {
		var rec models.DecisionRecord
		if err := rows.Scan(&rec.ID, &rec.SubmissionID, &rec.Decision, &rec.Notes, &rec.DecidedBy, &rec.DecidedAt); err != nil {
			return nil, fmt.Errorf("failed to scan decision record: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}
