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

// SubmissionRepository handles database operations for submissions and their tag links
type SubmissionRepository struct {
	db DBTX
}

// NewSubmissionRepository creates a new submission repository
func NewSubmissionRepository(db DBTX) *SubmissionRepository {
	return &SubmissionRepository{db: db}
}

// WithTx returns a copy of the repository bound to tx
func (r *SubmissionRepository) WithTx(tx *sql.Tx) *SubmissionRepository {
	return &SubmissionRepository{db: tx}
}

const submissionColumns = `id, speaker_id, title, abstract, type, level, outline, status,
	created_at, updated_at, submitted_at`

func scanSubmission(s scanner) (*models.Submission, error) {
	var sub models.Submission
	err := s.Scan(
		&sub.ID,
		&sub.SpeakerID,
		&sub.Title,
		&sub.Abstract,
		&sub.Type,
		&sub.Level,
		&sub.Outline,
		&sub.Status,
		&sub.CreatedAt,
		&sub.UpdatedAt,
		&sub.SubmittedAt,
	)
	if err != nil {
		return nil, err
	}
	sub.Tags = []models.Tag{}
	return &sub, nil
}

// Create inserts a new draft submission
func (r *SubmissionRepository) Create(ctx context.Context, sub *models.Submission) error {
	query := `
		INSERT INTO submissions (speaker_id, title, abstract, type, level, outline, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRowContext(ctx, query,
		sub.SpeakerID,
		sub.Title,
		sub.Abstract,
		sub.Type,
		sub.Level,
		sub.Outline,
		sub.Status,
	).Scan(&sub.ID, &sub.CreatedAt, &sub.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create submission: %w", err)
	}
	return nil
}

// GetByID retrieves a submission with its tags, returning nil when absent
func (r *SubmissionRepository) GetByID(ctx context.Context, id uint) (*models.Submission, error) {
	return r.get(ctx, `SELECT `+submissionColumns+` FROM submissions WHERE id = $1`, id)
}

// LockByID retrieves a submission with a row lock; must be called inside a transaction
func (r *SubmissionRepository) LockByID(ctx context.Context, id uint) (*models.Submission, error) {
	return r.get(ctx, `SELECT `+submissionColumns+` FROM submissions WHERE id = $1 FOR UPDATE`, id)
}

func (r *SubmissionRepository) get(ctx context.Context, query string, id uint) (*models.Submission, error) {
	sub, err := scanSubmission(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get submission: %w", err)
	}

	tags, err := r.tagsFor(ctx, []uint{sub.ID})
	if err != nil {
		return nil, err
	}
	if t, ok := tags[sub.ID]; ok {
		sub.Tags = t
	}
	return sub, nil
}

// UpdateContent persists the speaker-editable fields
func (r *SubmissionRepository) UpdateContent(ctx context.Context, sub *models.Submission) error {
	query := `
		UPDATE submissions
		SET title = $2, abstract = $3, type = $4, level = $5, outline = $6, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`
	err := r.db.QueryRowContext(ctx, query,
		sub.ID,
		sub.Title,
		sub.Abstract,
		sub.Type,
		sub.Level,
		sub.Outline,
	).Scan(&sub.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to update submission: %w", err)
	}
	return nil
}

// UpdateStatus sets the status and, when given, the submitted_at stamp
func (r *SubmissionRepository) UpdateStatus(ctx context.Context, id uint, status string, submittedAt *time.Time) error {
	query := `
		UPDATE submissions
		SET status = $2, submitted_at = COALESCE($3, submitted_at), updated_at = NOW()
		WHERE id = $1
	`
	res, err := r.db.ExecContext(ctx, query, id, status, submittedAt)
	if err != nil {
		return fmt.Errorf("failed to update submission status: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes a submission row
func (r *SubmissionRepository) Delete(ctx context.Context, id uint) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM submissions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete submission: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// CountActiveBySpeaker counts a speaker's non-withdrawn submissions, optionally excluding one id
func (r *SubmissionRepository) CountActiveBySpeaker(ctx context.Context, speakerID uint, excludeID uint) (int, error) {
	query := `
		SELECT COUNT(*) FROM submissions
		WHERE speaker_id = $1 AND status <> 'withdrawn' AND id <> $2
	`
	var count int
	if err := r.db.QueryRowContext(ctx, query, speakerID, excludeID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count submissions: %w", err)
	}
	return count, nil
}

// ListBySpeaker returns all submissions owned by a speaker, newest first
func (r *SubmissionRepository) ListBySpeaker(ctx context.Context, speakerID uint) ([]models.Submission, error) {
	query := `SELECT ` + submissionColumns + ` FROM submissions WHERE speaker_id = $1 ORDER BY created_at DESC, id DESC`
	return r.list(ctx, query, speakerID)
}

// ListByStatuses returns submissions in any of the given statuses, oldest first
func (r *SubmissionRepository) ListByStatuses(ctx context.Context, statuses []string) ([]models.Submission, error) {
	query := `SELECT ` + submissionColumns + ` FROM submissions WHERE status = ANY($1) ORDER BY id`
	return r.list(ctx, query, pq.Array(statuses))
}

func (r *SubmissionRepository) list(ctx context.Context, query string, args ...any) ([]models.Submission, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list submissions: %w", err)
	}
	defer rows.Close()

	subs := []models.Submission{}
	var ids []uint
	for rows.Next() {
		sub, err := scanSubmission(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan submission: %w", err)
		}
		subs = append(subs, *sub)
		ids = append(ids, sub.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	tags, err := r.tagsFor(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range subs {
		if t, ok := tags[subs[i].ID]; ok {
			subs[i].Tags = t
		}
	}
	return subs, nil
}

// ReplaceTags sets the tag links of a submission to exactly tagIDs
func (r *SubmissionRepository) ReplaceTags(ctx context.Context, submissionID uint, tagIDs []uint) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM submission_tags WHERE submission_id = $1`, submissionID); err != nil {
		return fmt.Errorf("failed to clear submission tags: %w", err)
	}
	if len(tagIDs) == 0 {
		return nil
	}

	query := `
		INSERT INTO submission_tags (submission_id, tag_id)
		SELECT $1, t FROM UNNEST($2::bigint[]) AS t
		ON CONFLICT DO NOTHING
	`
	if _, err := r.db.ExecContext(ctx, query, submissionID, pq.Array(toInt64s(tagIDs))); err != nil {
		return fmt.Errorf("failed to link submission tags: %w", err)
	}
	return nil
}

func (r *SubmissionRepository) tagsFor(ctx context.Context, submissionIDs []uint) (map[uint][]models.Tag, error) {
	result := make(map[uint][]models.Tag)
	if len(submissionIDs) == 0 {
		return result, nil
	}

	query := `
		SELECT st.submission_id, t.id, t.name, t.is_suggested, t.created_at
		FROM submission_tags st
		JOIN tags t ON t.id = st.tag_id
		WHERE st.submission_id = ANY($1)
		ORDER BY t.name
	`
	rows, err := r.db.QueryContext(ctx, query, pq.Array(toInt64s(submissionIDs)))
	if err != nil {
		return nil, fmt.Errorf("failed to load submission tags: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var subID uint
		var t models.Tag
		if err := rows.Scan(&subID, &t.ID, &t.Name, &t.IsSuggested, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan submission tag: %w", err)
		}
		result[subID] = append(result[subID], t)
	}
	return result, rows.Err()
}
