package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"cfp-engine/internal/models"

	"github.com/lib/pq"
)

// ReviewRow is a review joined with its author's email
type ReviewRow struct {
	models.Review
	ReviewerEmail string
}

// ReviewStat is the per-submission review state seen by one reviewer
type ReviewStat struct {
	Count       int
	HasReviewed bool
}

// ReviewRepository handles database operations for reviews
type ReviewRepository struct {
	db DBTX
}

// NewReviewRepository creates a new review repository
func NewReviewRepository(db DBTX) *ReviewRepository {
	return &ReviewRepository{db: db}
}

// WithTx returns a copy of the repository bound to tx
func (r *ReviewRepository) WithTx(tx *sql.Tx) *ReviewRepository {
	return &ReviewRepository{db: tx}
}

const reviewColumns = `rv.id, rv.submission_id, rv.reviewer_id, rv.score_overall, rv.score_relevance,
	rv.score_technical_depth, rv.score_clarity, rv.score_diversity, rv.private_notes,
	rv.feedback_to_speaker, rv.created_at, rv.updated_at`

func scanReview(s scanner, extra ...any) (*models.Review, error) {
	var rev models.Review
	dest := []any{
		&rev.ID,
		&rev.SubmissionID,
		&rev.ReviewerID,
		&rev.Overall,
		&rev.Relevance,
		&rev.TechnicalDepth,
		&rev.Clarity,
		&rev.Diversity,
		&rev.PrivateNotes,
		&rev.FeedbackToSpeaker,
		&rev.CreatedAt,
		&rev.UpdatedAt,
	}
	if err := s.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}
	return &rev, nil
}

// Upsert inserts the review or replaces the reviewer's existing one for the submission.
// It reports whether a new row was created.
func (r *ReviewRepository) Upsert(ctx context.Context, rev *models.Review) (bool, error) {
	query := `
		INSERT INTO reviews (
			submission_id, reviewer_id, score_overall, score_relevance, score_technical_depth,
			score_clarity, score_diversity, private_notes, feedback_to_speaker
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (submission_id, reviewer_id) DO UPDATE SET
			score_overall = EXCLUDED.score_overall,
			score_relevance = EXCLUDED.score_relevance,
			score_technical_depth = EXCLUDED.score_technical_depth,
			score_clarity = EXCLUDED.score_clarity,
			score_diversity = EXCLUDED.score_diversity,
			private_notes = EXCLUDED.private_notes,
			feedback_to_speaker = EXCLUDED.feedback_to_speaker,
			updated_at = NOW()
		RETURNING id, created_at, updated_at, (xmax = 0) AS inserted
	`
	var inserted bool
	err := r.db.QueryRowContext(ctx, query,
		rev.SubmissionID,
		rev.ReviewerID,
		rev.Overall,
		rev.Relevance,
		rev.TechnicalDepth,
		rev.Clarity,
		rev.Diversity,
		rev.PrivateNotes,
		rev.FeedbackToSpeaker,
	).Scan(&rev.ID, &rev.CreatedAt, &rev.UpdatedAt, &inserted)
	if err != nil {
		return false, fmt.Errorf("failed to upsert review: %w", err)
	}
	return inserted, nil
}

// GetBySubmissionAndReviewer returns a reviewer's review of a submission, or nil
func (r *ReviewRepository) GetBySubmissionAndReviewer(ctx context.Context, submissionID, reviewerID uint) (*models.Review, error) {
	query := `SELECT ` + reviewColumns + ` FROM reviews rv WHERE rv.submission_id = $1 AND rv.reviewer_id = $2`
	rev, err := scanReview(r.db.QueryRowContext(ctx, query, submissionID, reviewerID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get review: %w", err)
	}
	return rev, nil
}

// ListBySubmission returns every review of a submission with the author's email
func (r *ReviewRepository) ListBySubmission(ctx context.Context, submissionID uint) ([]ReviewRow, error) {
	query := `
		SELECT ` + reviewColumns + `, rr.email
		FROM reviews rv
		JOIN reviewers rr ON rr.id = rv.reviewer_id
		WHERE rv.submission_id = $1
		ORDER BY rv.created_at, rv.id
	`
	rows, err := r.db.QueryContext(ctx, query, submissionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}
	defer rows.Close()

	result := []ReviewRow{}
	for rows.Next() {
		var email string
		rev, err := scanReview(rows, &email)
		if err != nil {
			return nil, fmt.Errorf("failed to scan review: %w", err)
		}
		result = append(result, ReviewRow{Review: *rev, ReviewerEmail: email})
	}
	return result, rows.Err()
}

// Aggregates computes the review count and per-dimension averages. Averages ignore
// null scores and are null when nothing was scored.
func (r *ReviewRepository) Aggregates(ctx context.Context, submissionID uint) (*models.ReviewAggregates, error) {
	query := `
		SELECT COUNT(*),
		       AVG(score_overall)::float8,
		       AVG(score_relevance)::float8,
		       AVG(score_technical_depth)::float8,
		       AVG(score_clarity)::float8,
		       AVG(score_diversity)::float8
		FROM reviews
		WHERE submission_id = $1
	`
	agg := &models.ReviewAggregates{SubmissionID: submissionID}
	err := r.db.QueryRowContext(ctx, query, submissionID).Scan(
		&agg.ReviewCount,
		&agg.AvgOverall,
		&agg.AvgRelevance,
		&agg.AvgTechnicalDepth,
		&agg.AvgClarity,
		&agg.AvgDiversity,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to compute review aggregates: %w", err)
	}
	return agg, nil
}

// Stats returns review counts per submission and whether reviewerID has reviewed each
func (r *ReviewRepository) Stats(ctx context.Context, reviewerID uint) (map[uint]ReviewStat, error) {
	query := `
		SELECT submission_id, COUNT(*), BOOL_OR(reviewer_id = $1)
		FROM reviews
		GROUP BY submission_id
	`
	rows, err := r.db.QueryContext(ctx, query, reviewerID)
	if err != nil {
		return nil, fmt.Errorf("failed to load review stats: %w", err)
	}
	defer rows.Close()

	stats := make(map[uint]ReviewStat)
	for rows.Next() {
		var id uint
		var st ReviewStat
		if err := rows.Scan(&id, &st.Count, &st.HasReviewed); err != nil {
			return nil, fmt.Errorf("failed to scan review stats: %w", err)
		}
		stats[id] = st
	}
	return stats, rows.Err()
}

// NextUnreviewed picks the undecided submission with the fewest reviews that
// reviewerID has not reviewed yet, skipping the excluded ids. Ties go to the lowest id.
// It returns nil when nothing is left.
func (r *ReviewRepository) NextUnreviewed(ctx context.Context, reviewerID uint, statuses []string, exclude []uint) (*uint, error) {
	query := `
		SELECT s.id
		FROM submissions s
		LEFT JOIN (
			SELECT submission_id, COUNT(*) AS n FROM reviews GROUP BY submission_id
		) c ON c.submission_id = s.id
		WHERE s.status = ANY($2)
		  AND NOT (s.id = ANY($3::bigint[]))
		  AND NOT EXISTS (
			SELECT 1 FROM reviews mine
			WHERE mine.submission_id = s.id AND mine.reviewer_id = $1
		  )
		ORDER BY COALESCE(c.n, 0) ASC, s.id ASC
		LIMIT 1
	`
	var id uint
	err := r.db.QueryRowContext(ctx, query, reviewerID, pq.Array(statuses), pq.Array(toInt64s(exclude))).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find next unreviewed submission: %w", err)
	}
	return &id, nil
}
