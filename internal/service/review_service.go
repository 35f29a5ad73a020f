package service

import (
	"context"
	"database/sql"
	"fmt"

	"cfp-engine/internal/apperr"
	"cfp-engine/internal/database"
	"cfp-engine/internal/logger"
	"cfp-engine/internal/models"
	"cfp-engine/internal/repository"
	"cfp-engine/internal/vault"
	"cfp-engine/pkg/validator"
)

// ReviewInput is a reviewer's assessment of one submission
type ReviewInput struct {
	models.Scores
	PrivateNotes      *string `json:"private_notes,omitempty"`
	FeedbackToSpeaker *string `json:"feedback_to_speaker,omitempty"`
}

// ReviewService handles the review ledger and the reviewer's filtered view of submissions
type ReviewService struct {
	db             *sql.DB
	reviewRepo     *repository.ReviewRepository
	submissionRepo *repository.SubmissionRepository
	speakerRepo    *repository.SpeakerRepository
	historyRepo    *repository.StatusHistoryRepository
	sealer         vault.Sealer
	scoreMax       int
}

// NewReviewService creates a new review service
func NewReviewService(db *sql.DB, sealer vault.Sealer, scoreMax int) *ReviewService {
	if sealer == nil {
		sealer = vault.PlainSealer{}
	}
	return &ReviewService{
		db:             db,
		reviewRepo:     repository.NewReviewRepository(db),
		submissionRepo: repository.NewSubmissionRepository(db),
		speakerRepo:    repository.NewSpeakerRepository(db),
		historyRepo:    repository.NewStatusHistoryRepository(db),
		sealer:         sealer,
		scoreMax:       scoreMax,
	}
}

// SubmitReview creates or replaces the reviewer's review. The first review of a
// submitted proposal moves it to under_review.
func (s *ReviewService) SubmitReview(ctx context.Context, reviewer *models.Reviewer, submissionID uint, in ReviewInput) (*models.Review, error) {
	if err := requireActive(reviewer); err != nil {
		return nil, err
	}
	if reviewer.Role == models.RoleReadonly {
		return nil, apperr.Forbidden("readonly reviewers cannot submit reviews")
	}
	if fields := s.validateScores(in.Scores); len(fields) > 0 {
		return nil, apperr.Validation(fields)
	}

	in.FeedbackToSpeaker = trimmedPtr(in.FeedbackToSpeaker)
	plainNotes := trimmedPtr(in.PrivateNotes)
	var sealedNotes *string
	if plainNotes != nil {
		sealed, err := s.sealer.Seal(ctx, *plainNotes)
		if err != nil {
			return nil, apperr.Internal(err, "failed to seal private notes")
		}
		sealedNotes = &sealed
	}

	review := &models.Review{
		SubmissionID:      submissionID,
		ReviewerID:        reviewer.ID,
		Scores:            in.Scores,
		PrivateNotes:      sealedNotes,
		FeedbackToSpeaker: in.FeedbackToSpeaker,
	}

	var inserted bool
	err := database.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		sub, err := s.submissionRepo.WithTx(tx).LockByID(ctx, submissionID)
		if err != nil {
			return apperr.Internal(err, "failed to lock submission")
		}
		if sub == nil || !models.Contains(models.ReviewableStatuses, sub.Status) {
			return apperr.NotFound("submission not found")
		}

		inserted, err = s.reviewRepo.WithTx(tx).Upsert(ctx, review)
		if err != nil {
			return apperr.FromDB(err, "review")
		}

		if sub.Status == models.StatusSubmitted {
			return applyTransition(ctx, s.submissionRepo.WithTx(tx), s.historyRepo.WithTx(tx),
				sub, models.StatusUnderReview, nil, models.SourceSystem, nil, SystemActor)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Info("Review saved",
		"submission_id", submissionID, "reviewer_id", reviewer.ID, "created", inserted)
	review.PrivateNotes = plainNotes
	return review, nil
}

// GetSubmissionForReview returns the submission shaped by the reviewer's access level
func (s *ReviewService) GetSubmissionForReview(ctx context.Context, reviewer *models.Reviewer, submissionID uint) (*models.SubmissionForReview, error) {
	if err := requireActive(reviewer); err != nil {
		return nil, err
	}

	sub, err := s.submissionRepo.GetByID(ctx, submissionID)
	if err != nil {
		return nil, apperr.Internal(err, "failed to load submission")
	}
	if sub == nil || !models.Contains(models.ReviewableStatuses, sub.Status) {
		return nil, apperr.NotFound("submission not found")
	}

	shaped := models.NewSubmissionForReview(sub, ResolveAccessLevel(reviewer.Role, reviewer.CanSeeSpeakerIdentity))
	view := &shaped

	if view.AccessLevel == models.AccessFullAccess {
		view.Speaker, err = s.speakerRepo.GetByID(ctx, sub.SpeakerID)
		if err != nil {
			return nil, apperr.Internal(err, "failed to load speaker")
		}
	}

	agg, err := s.reviewRepo.Aggregates(ctx, sub.ID)
	if err != nil {
		return nil, apperr.Internal(err, "failed to load review count")
	}
	view.ReviewCount = agg.ReviewCount

	own, err := s.reviewRepo.GetBySubmissionAndReviewer(ctx, sub.ID, reviewer.ID)
	if err != nil {
		return nil, apperr.Internal(err, "failed to load own review")
	}
	view.HasReviewed = own != nil

	return view, nil
}

// Dashboard lists every reviewable submission for the reviewer, shaped by access level
func (s *ReviewService) Dashboard(ctx context.Context, reviewer *models.Reviewer) ([]models.SubmissionForReview, error) {
	if err := requireActive(reviewer); err != nil {
		return nil, err
	}

	subs, err := s.submissionRepo.ListByStatuses(ctx, models.ReviewableStatuses)
	if err != nil {
		return nil, apperr.Internal(err, "failed to list submissions")
	}
	stats, err := s.reviewRepo.Stats(ctx, reviewer.ID)
	if err != nil {
		return nil, apperr.Internal(err, "failed to load review stats")
	}

	access := ResolveAccessLevel(reviewer.Role, reviewer.CanSeeSpeakerIdentity)
	var speakers map[uint]*models.Speaker
	if access == models.AccessFullAccess {
		ids := make([]uint, 0, len(subs))
		for _, sub := range subs {
			ids = append(ids, sub.SpeakerID)
		}
		speakers, err = s.speakerRepo.GetByIDs(ctx, ids)
		if err != nil {
			return nil, apperr.Internal(err, "failed to load speakers")
		}
	}

	rows := make([]models.SubmissionForReview, 0, len(subs))
	for _, sub := range subs {
		st := stats[sub.ID]
		row := models.NewSubmissionForReview(&sub, access)
		row.HasReviewed = st.HasReviewed
		row.ReviewCount = st.Count
		if speakers != nil {
			row.Speaker = speakers[sub.SpeakerID]
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// ListReviews returns the reviews of a submission as seen by the viewer. A nil
// reviewer stands for a generic administrator.
func (s *ReviewService) ListReviews(ctx context.Context, viewer *models.Reviewer, submissionID uint) ([]models.ReviewView, error) {
	fullView := viewer == nil || viewer.Role == models.RoleSuperAdmin
	if viewer != nil {
		if err := requireActive(viewer); err != nil {
			return nil, err
		}
	}

	sub, err := s.submissionRepo.GetByID(ctx, submissionID)
	if err != nil {
		return nil, apperr.Internal(err, "failed to load submission")
	}
	if sub == nil || (!fullView && !models.Contains(models.ReviewableStatuses, sub.Status)) {
		return nil, apperr.NotFound("submission not found")
	}

	rows, err := s.reviewRepo.ListBySubmission(ctx, submissionID)
	if err != nil {
		return nil, apperr.Internal(err, "failed to list reviews")
	}

	views := make([]models.ReviewView, 0, len(rows))
	for _, row := range rows {
		own := viewer != nil && row.ReviewerID == viewer.ID
		v := models.ReviewView{
			ID:                row.ID,
			SubmissionID:      row.SubmissionID,
			IsOwn:             own,
			Scores:            row.Scores,
			FeedbackToSpeaker: row.FeedbackToSpeaker,
			CreatedAt:         row.CreatedAt,
			UpdatedAt:         row.UpdatedAt,
		}
		if fullView || own {
			reviewerID := row.ReviewerID
			email := row.ReviewerEmail
			v.ReviewerID = &reviewerID
			v.ReviewerEmail = &email
			if row.PrivateNotes != nil {
				notes, err := s.sealer.Open(ctx, *row.PrivateNotes)
				if err != nil {
					return nil, apperr.Internal(err, "failed to open private notes")
				}
				v.PrivateNotes = &notes
			}
		}
		views = append(views, v)
	}
	return views, nil
}

// GetAggregates returns the review count and averages of a submission
func (s *ReviewService) GetAggregates(ctx context.Context, submissionID uint) (*models.ReviewAggregates, error) {
	sub, err := s.submissionRepo.GetByID(ctx, submissionID)
	if err != nil {
		return nil, apperr.Internal(err, "failed to load submission")
	}
	if sub == nil {
		return nil, apperr.NotFound("submission not found")
	}
	agg, err := s.reviewRepo.Aggregates(ctx, submissionID)
	if err != nil {
		return nil, apperr.Internal(err, "failed to compute aggregates")
	}
	return agg, nil
}

// NextUnreviewed suggests the least-reviewed undecided submission the reviewer has not reviewed
func (s *ReviewService) NextUnreviewed(ctx context.Context, reviewer *models.Reviewer, exclude []uint) (*uint, error) {
	if err := requireActive(reviewer); err != nil {
		return nil, err
	}
	id, err := s.reviewRepo.NextUnreviewed(ctx, reviewer.ID, models.UndecidedStatuses, exclude)
	if err != nil {
		return nil, apperr.Internal(err, "failed to find next submission")
	}
	return id, nil
}

func (s *ReviewService) validateScores(sc models.Scores) map[string]string {
	fields := map[string]string{}
	check := func(name string, v *int) {
		if v != nil && (*v < 0 || *v > s.scoreMax) {
			fields[name] = fmt.Sprintf("must be between 0 and %d", s.scoreMax)
		}
	}
	check("score_overall", sc.Overall)
	check("score_relevance", sc.Relevance)
	check("score_technical_depth", sc.TechnicalDepth)
	check("score_clarity", sc.Clarity)
	check("score_diversity", sc.Diversity)
	return fields
}

// requireActive rejects reviewers that never activated or were deactivated
func requireActive(rv *models.Reviewer) error {
	if rv == nil || !rv.IsActive() {
		return apperr.NotAuthorized("reviewer account is not active")
	}
	return nil
}

func trimmedPtr(p *string) *string {
	if p == nil {
		return nil
	}
	return stringPtr(validator.SanitizeString(*p))
}
