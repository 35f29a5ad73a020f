package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"cfp-engine/internal/models"

	"github.com/lib/pq"
)

// ScheduledEmailRepository persists the notification queue
type ScheduledEmailRepository struct {
	db DBTX
}

// NewScheduledEmailRepository creates a new scheduled email repository
func NewScheduledEmailRepository(db DBTX) *ScheduledEmailRepository {
	return &ScheduledEmailRepository{db: db}
}

// WithTx returns a copy of the repository bound to tx
func (r *ScheduledEmailRepository) WithTx(tx *sql.Tx) *ScheduledEmailRepository {
	return &ScheduledEmailRepository{db: tx}
}

const scheduledEmailColumns = `id, submission_id, template, recipient, payload, fire_at, sent_at,
	cancelled_at, attempts, last_error, created_at`

func scanScheduledEmail(s scanner) (*models.ScheduledEmail, error) {
	var e models.ScheduledEmail
	var payload []byte
	err := s.Scan(
		&e.ID,
		&e.SubmissionID,
		&e.Template,
		&e.Recipient,
		&payload,
		&e.FireAt,
		&e.SentAt,
		&e.CancelledAt,
		&e.Attempts,
		&e.LastError,
		&e.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	e.Payload = payload
	return &e, nil
}

// Create enqueues a notification
func (r *ScheduledEmailRepository) Create(ctx context.Context, e *models.ScheduledEmail) error {
	payload := "{}"
	if len(e.Payload) > 0 {
		payload = string(e.Payload)
	}
	query := `
		INSERT INTO scheduled_emails (submission_id, template, recipient, payload, fire_at)
		VALUES ($1, $2, $3, $4::jsonb, $5)
		RETURNING id, attempts, created_at
	`
	err := r.db.QueryRowContext(ctx, query, e.SubmissionID, e.Template, e.Recipient, payload, e.FireAt).
		Scan(&e.ID, &e.Attempts, &e.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create scheduled email: %w", err)
	}
	e.Payload = []byte(payload)
	return nil
}

// GetByID retrieves a scheduled email, returning nil when absent
func (r *ScheduledEmailRepository) GetByID(ctx context.Context, id uint) (*models.ScheduledEmail, error) {
	return r.getOne(ctx, `SELECT `+scheduledEmailColumns+` FROM scheduled_emails WHERE id = $1`, id)
}

// LockByID retrieves a scheduled email with a row lock; must be called inside a transaction
func (r *ScheduledEmailRepository) LockByID(ctx context.Context, id uint) (*models.ScheduledEmail, error) {
	return r.getOne(ctx, `SELECT `+scheduledEmailColumns+` FROM scheduled_emails WHERE id = $1 FOR UPDATE`, id)
}

func (r *ScheduledEmailRepository) getOne(ctx context.Context, query string, id uint) (*models.ScheduledEmail, error) {
	e, err := scanScheduledEmail(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get scheduled email: %w", err)
	}
	return e, nil
}

// SetCancelled stamps cancelled_at on a pending email and reports whether it changed
func (r *ScheduledEmailRepository) SetCancelled(ctx context.Context, id uint) (bool, error) {
	query := `
		UPDATE scheduled_emails SET cancelled_at = NOW()
		WHERE id = $1 AND sent_at IS NULL AND cancelled_at IS NULL
	`
	return r.execMaybe(ctx, query, id)
}

// SetSent stamps sent_at on a pending email and reports whether it changed
func (r *ScheduledEmailRepository) SetSent(ctx context.Context, id uint) (bool, error) {
	query := `
		UPDATE scheduled_emails SET sent_at = NOW()
		WHERE id = $1 AND sent_at IS NULL AND cancelled_at IS NULL
	`
	return r.execMaybe(ctx, query, id)
}

// RecordFailure counts a failed delivery attempt; the entry stays pending
func (r *ScheduledEmailRepository) RecordFailure(ctx context.Context, id uint, message string) error {
	query := `
		UPDATE scheduled_emails SET attempts = attempts + 1, last_error = $2
		WHERE id = $1
	`
	res, err := r.db.ExecContext(ctx, query, id, message)
	if err != nil {
		return fmt.Errorf("failed to record delivery failure: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *ScheduledEmailRepository) execMaybe(ctx context.Context, query string, args ...any) (bool, error) {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("failed to update scheduled email: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// ListPending returns unsent, uncancelled emails due at or before the given time
func (r *ScheduledEmailRepository) ListPending(ctx context.Context, before time.Time, limit int) ([]models.ScheduledEmail, error) {
	query := `
		SELECT ` + scheduledEmailColumns + `
		FROM scheduled_emails
		WHERE sent_at IS NULL AND cancelled_at IS NULL AND fire_at <= $1
		ORDER BY fire_at, id
		LIMIT $2
	`
	return r.list(ctx, query, before, limit)
}

// ListDeliverable is ListPending restricted to emails with fewer than
// maxAttempts failed attempts. maxAttempts <= 0 disables the filter.
func (r *ScheduledEmailRepository) ListDeliverable(ctx context.Context, before time.Time, maxAttempts, limit int) ([]models.ScheduledEmail, error) {
	query := `
		SELECT ` + scheduledEmailColumns + `
		FROM scheduled_emails
		WHERE sent_at IS NULL AND cancelled_at IS NULL AND fire_at <= $1
		  AND ($2 <= 0 OR attempts < $2)
		ORDER BY fire_at, id
		LIMIT $3
	`
	return r.list(ctx, query, before, maxAttempts, limit)
}

// ListBySubmission returns every email queued for a submission
func (r *ScheduledEmailRepository) ListBySubmission(ctx context.Context, submissionID uint) ([]models.ScheduledEmail, error) {
	query := `
		SELECT ` + scheduledEmailColumns + `
		FROM scheduled_emails
		WHERE submission_id = $1
		ORDER BY created_at, id
	`
	return r.list(ctx, query, submissionID)
}

func (r *ScheduledEmailRepository) list(ctx context.Context, query string, args ...any) ([]models.ScheduledEmail, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list scheduled emails: %w", err)
	}
	defer rows.Close()

	emails := []models.ScheduledEmail{}
	for rows.Next() {
		e, err := scanScheduledEmail(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan scheduled email: %w", err)
		}
		emails = append(emails, *e)
	}
	return emails, rows.Err()
}

// CancelPendingForSubmission cancels every pending email of a submission using one of the templates
func (r *ScheduledEmailRepository) CancelPendingForSubmission(ctx context.Context, submissionID uint, templates []string) (int64, error) {
	query := `
		UPDATE scheduled_emails SET cancelled_at = NOW()
		WHERE submission_id = $1
		  AND template = ANY($2)
		  AND sent_at IS NULL AND cancelled_at IS NULL
	`
	res, err := r.db.ExecContext(ctx, query, submissionID, pq.Array(templates))
	if err != nil {
		return 0, fmt.Errorf("failed to cancel pending emails: %w", err)
	}
	return res.RowsAffected()
}
