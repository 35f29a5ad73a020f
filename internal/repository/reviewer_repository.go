package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"cfp-engine/internal/models"
)

// ReviewerRepository handles database operations for reviewers
type ReviewerRepository struct {
	db DBTX
}

// NewReviewerRepository creates a new reviewer repository
func NewReviewerRepository(db DBTX) *ReviewerRepository {
	return &ReviewerRepository{db: db}
}

// WithTx returns a copy of the repository bound to tx
func (r *ReviewerRepository) WithTx(tx *sql.Tx) *ReviewerRepository {
	return &ReviewerRepository{db: tx}
}

const reviewerColumns = `id, email, name, role, can_see_speaker_identity, invite_token_hash,
	invited_at, accepted_at, deactivated_at, created_at, updated_at`

func scanReviewer(s scanner) (*models.Reviewer, error) {
	var rv models.Reviewer
	err := s.Scan(
		&rv.ID,
		&rv.Email,
		&rv.Name,
		&rv.Role,
		&rv.CanSeeSpeakerIdentity,
		&rv.InviteTokenHash,
		&rv.InvitedAt,
		&rv.AcceptedAt,
		&rv.DeactivatedAt,
		&rv.CreatedAt,
		&rv.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &rv, nil
}

// Create inserts an invited reviewer. A duplicate email surfaces as a unique violation.
func (r *ReviewerRepository) Create(ctx context.Context, rv *models.Reviewer) error {
	query := `
		INSERT INTO reviewers (email, name, role, can_see_speaker_identity, invite_token_hash)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, invited_at, created_at, updated_at
	`
	return r.db.QueryRowContext(ctx, query,
		rv.Email,
		rv.Name,
		rv.Role,
		rv.CanSeeSpeakerIdentity,
		rv.InviteTokenHash,
	).Scan(&rv.ID, &rv.InvitedAt, &rv.CreatedAt, &rv.UpdatedAt)
}

// GetByID retrieves a reviewer, returning nil when absent
func (r *ReviewerRepository) GetByID(ctx context.Context, id uint) (*models.Reviewer, error) {
	return r.getOne(ctx, `SELECT `+reviewerColumns+` FROM reviewers WHERE id = $1`, id)
}

// GetByEmail retrieves a reviewer by case-insensitive email, returning nil when absent
func (r *ReviewerRepository) GetByEmail(ctx context.Context, email string) (*models.Reviewer, error) {
	return r.getOne(ctx, `SELECT `+reviewerColumns+` FROM reviewers WHERE LOWER(email) = LOWER($1)`, email)
}

func (r *ReviewerRepository) getOne(ctx context.Context, query string, arg any) (*models.Reviewer, error) {
	rv, err := scanReviewer(r.db.QueryRowContext(ctx, query, arg))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get reviewer: %w", err)
	}
	return rv, nil
}

// List returns all reviewers ordered by email
func (r *ReviewerRepository) List(ctx context.Context) ([]models.Reviewer, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+reviewerColumns+` FROM reviewers ORDER BY LOWER(email)`)
	if err != nil {
		return nil, fmt.Errorf("failed to list reviewers: %w", err)
	}
	defer rows.Close()

	reviewers := []models.Reviewer{}
	for rows.Next() {
		rv, err := scanReviewer(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan reviewer: %w", err)
		}
		reviewers = append(reviewers, *rv)
	}
	return reviewers, rows.Err()
}

// UpdateAccess changes role and identity visibility
func (r *ReviewerRepository) UpdateAccess(ctx context.Context, id uint, role string, canSee bool) error {
	query := `
		UPDATE reviewers SET role = $2, can_see_speaker_identity = $3, updated_at = NOW()
		WHERE id = $1
	`
	return r.execOne(ctx, query, id, role, canSee)
}

// SetInviteToken rotates the invite token hash and resets invited_at
func (r *ReviewerRepository) SetInviteToken(ctx context.Context, id uint, hash string) error {
	query := `
		UPDATE reviewers SET invite_token_hash = $2, invited_at = NOW(), updated_at = NOW()
		WHERE id = $1
	`
	return r.execOne(ctx, query, id, hash)
}

// MarkAccepted stamps accepted_at once; later calls keep the first timestamp
func (r *ReviewerRepository) MarkAccepted(ctx context.Context, id uint) error {
	query := `
		UPDATE reviewers SET accepted_at = COALESCE(accepted_at, NOW()), updated_at = NOW()
		WHERE id = $1
	`
	return r.execOne(ctx, query, id)
}

// Deactivate soft-deactivates a reviewer; repeated calls keep the first timestamp
func (r *ReviewerRepository) Deactivate(ctx context.Context, id uint) error {
	query := `
		UPDATE reviewers SET deactivated_at = COALESCE(deactivated_at, NOW()), updated_at = NOW()
		WHERE id = $1
	`
	return r.execOne(ctx, query, id)
}

func (r *ReviewerRepository) execOne(ctx context.Context, query string, args ...any) error {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update reviewer: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
