package repository

import (
	"context"
	"database/sql"
	"fmt"

	"cfp-engine/internal/models"
)

// StatusHistoryRepository stores the append-only submission status trail
type StatusHistoryRepository struct {
	db DBTX
}

// NewStatusHistoryRepository creates a new status history repository
func NewStatusHistoryRepository(db DBTX) *StatusHistoryRepository {
	return &StatusHistoryRepository{db: db}
}

// WithTx returns a copy of the repository bound to tx
func (r *StatusHistoryRepository) WithTx(tx *sql.Tx) *StatusHistoryRepository {
	return &StatusHistoryRepository{db: tx}
}

// Create appends a status change
func (r *StatusHistoryRepository) Create(ctx context.Context, entry *models.StatusHistoryEntry) error {
	query := `
		INSERT INTO submission_status_history (submission_id, from_status, to_status, source, reason, changed_by)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, changed_at
	`
	err := r.db.QueryRowContext(ctx, query,
		entry.SubmissionID,
		entry.FromStatus,
		entry.ToStatus,
		entry.Source,
		entry.Reason,
		entry.ChangedBy,
	).Scan(&entry.ID, &entry.ChangedAt)
	if err != nil {
		return fmt.Errorf("failed to create status history entry: %w", err)
	}
	return nil
}

// ListBySubmission returns the status trail of a submission in order
func (r *StatusHistoryRepository) ListBySubmission(ctx context.Context, submissionID uint) ([]models.StatusHistoryEntry, error) {
	query := `
		SELECT id, submission_id, from_status, to_status, source, reason, changed_by, changed_at
		FROM submission_status_history
		WHERE submission_id = $1
		ORDER BY id
	`
	rows, err := r.db.QueryContext(ctx, query, submissionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list status history: %w", err)
	}
	defer rows.Close()

	entries := []models.StatusHistoryEntry{}
	for rows.Next() {
		var e models.StatusHistoryEntry
		if err := rows.Scan(
			&e.ID,
			&e.SubmissionID,
			&e.FromStatus,
			&e.ToStatus,
			&e.Source,
			&e.Reason,
			&e.ChangedBy,
			&e.ChangedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan status history entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
