package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"cfp-engine/internal/models"

	"github.com/lib/pq"
)

// SpeakerRepository handles database operations for speakers
type SpeakerRepository struct {
	db DBTX
}

// NewSpeakerRepository creates a new speaker repository
func NewSpeakerRepository(db DBTX) *SpeakerRepository {
	return &SpeakerRepository{db: db}
}

// WithTx returns a copy of the repository bound to tx
func (r *SpeakerRepository) WithTx(tx *sql.Tx) *SpeakerRepository {
	return &SpeakerRepository{db: tx}
}

const speakerColumns = `id, email, first_name, last_name, bio, company, job_title, linkedin_url,
	twitter_handle, github_handle, website_url, is_disabled, created_at, updated_at`

func scanSpeaker(s scanner) (*models.Speaker, error) {
	var sp models.Speaker
	err := s.Scan(
		&sp.ID,
		&sp.Email,
		&sp.FirstName,
		&sp.LastName,
		&sp.Bio,
		&sp.Company,
		&sp.JobTitle,
		&sp.LinkedInURL,
		&sp.TwitterHandle,
		&sp.GitHubHandle,
		&sp.WebsiteURL,
		&sp.IsDisabled,
		&sp.CreatedAt,
		&sp.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &sp, nil
}

// EnsureByEmail returns the speaker with the given email, creating it on first sight
func (r *SpeakerRepository) EnsureByEmail(ctx context.Context, email string) (*models.Speaker, error) {
	query := `
		INSERT INTO speakers (email) VALUES ($1)
		ON CONFLICT ((LOWER(email))) DO UPDATE SET email = speakers.email
		RETURNING ` + speakerColumns

	sp, err := scanSpeaker(r.db.QueryRowContext(ctx, query, email))
	if err != nil {
		return nil, fmt.Errorf("failed to ensure speaker: %w", err)
	}
	return sp, nil
}

// GetByID retrieves a speaker, returning nil when absent
func (r *SpeakerRepository) GetByID(ctx context.Context, id uint) (*models.Speaker, error) {
	query := `SELECT ` + speakerColumns + ` FROM speakers WHERE id = $1`
	sp, err := scanSpeaker(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get speaker: %w", err)
	}
	return sp, nil
}

// GetByIDs returns the speakers with the given ids keyed by id
func (r *SpeakerRepository) GetByIDs(ctx context.Context, ids []uint) (map[uint]*models.Speaker, error) {
	result := make(map[uint]*models.Speaker, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	query := `SELECT ` + speakerColumns + ` FROM speakers WHERE id = ANY($1)`
	rows, err := r.db.QueryContext(ctx, query, pq.Array(toInt64s(ids)))
	if err != nil {
		return nil, fmt.Errorf("failed to get speakers: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		sp, err := scanSpeaker(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan speaker: %w", err)
		}
		result[sp.ID] = sp
	}
	return result, rows.Err()
}

// LockByID retrieves a speaker with a row lock; must be called inside a transaction
func (r *SpeakerRepository) LockByID(ctx context.Context, id uint) (*models.Speaker, error) {
	query := `SELECT ` + speakerColumns + ` FROM speakers WHERE id = $1 FOR UPDATE`
	sp, err := scanSpeaker(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to lock speaker: %w", err)
	}
	return sp, nil
}

// UpdateProfile persists the editable profile fields
func (r *SpeakerRepository) UpdateProfile(ctx context.Context, sp *models.Speaker) error {
	query := `
		UPDATE speakers
		SET first_name = $2, last_name = $3, bio = $4, company = $5, job_title = $6,
		    linkedin_url = $7, twitter_handle = $8, github_handle = $9, website_url = $10,
		    updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`
	err := r.db.QueryRowContext(ctx, query,
		sp.ID,
		sp.FirstName,
		sp.LastName,
		sp.Bio,
		sp.Company,
		sp.JobTitle,
		sp.LinkedInURL,
		sp.TwitterHandle,
		sp.GitHubHandle,
		sp.WebsiteURL,
	).Scan(&sp.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to update speaker: %w", err)
	}
	return nil
}

// SetDisabled toggles the soft-disable flag
func (r *SpeakerRepository) SetDisabled(ctx context.Context, id uint, disabled bool) error {
	res, err := r.db.ExecContext(ctx, `UPDATE speakers SET is_disabled = $2, updated_at = NOW() WHERE id = $1`, id, disabled)
	if err != nil {
		return fmt.Errorf("failed to update speaker: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
