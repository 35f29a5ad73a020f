package service

import (
	"context"
	"database/sql"
	"time"

	"cfp-engine/internal/analytics"
	"cfp-engine/internal/apperr"
	"cfp-engine/internal/database"
	"cfp-engine/internal/logger"
	"cfp-engine/internal/models"
	"cfp-engine/internal/repository"
	"cfp-engine/pkg/validator"
)

// SubmissionInput holds the speaker-editable submission fields
type SubmissionInput struct {
	Title    string   `json:"title" validate:"required,max=300"`
	Abstract string   `json:"abstract" validate:"max=5000"`
	Type     string   `json:"type" validate:"required,oneof=lightning standard workshop"`
	Level    string   `json:"level" validate:"required,oneof=beginner intermediate advanced"`
	Outline  string   `json:"outline" validate:"max=10000"`
	Tags     []string `json:"tags" validate:"max=10"`
}

// OverrideInput is an admin status change outside the normal flow
type OverrideInput struct {
	Status string `json:"status"`
	Reason string `json:"reason"`
}

// SubmissionService owns the submission lifecycle
type SubmissionService struct {
	db             *sql.DB
	speakerRepo    *repository.SpeakerRepository
	submissionRepo *repository.SubmissionRepository
	tagRepo        *repository.TagRepository
	historyRepo    *repository.StatusHistoryRepository
	emailRepo      *repository.ScheduledEmailRepository
	analytics      analytics.Sink
	maxSubmissions int
}

// NewSubmissionService creates a new submission service
func NewSubmissionService(db *sql.DB, sink analytics.Sink, maxSubmissions int) *SubmissionService {
	return &SubmissionService{
		db:             db,
		speakerRepo:    repository.NewSpeakerRepository(db),
		submissionRepo: repository.NewSubmissionRepository(db),
		tagRepo:        repository.NewTagRepository(db),
		historyRepo:    repository.NewStatusHistoryRepository(db),
		emailRepo:      repository.NewScheduledEmailRepository(db),
		analytics:      sink,
		maxSubmissions: maxSubmissions,
	}
}

// CreateDraft creates a new draft. The quota is checked under the speaker's row lock.
func (s *SubmissionService) CreateDraft(ctx context.Context, speakerID uint, in SubmissionInput) (*models.Submission, error) {
	in, err := s.validateInput(in)
	if err != nil {
		return nil, err
	}

	var created *models.Submission
	err = database.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		speaker, err := s.speakerRepo.WithTx(tx).LockByID(ctx, speakerID)
		if err != nil {
			return apperr.Internal(err, "failed to lock speaker")
		}
		if speaker == nil {
			return apperr.NotFound("speaker not found")
		}

		count, err := s.submissionRepo.WithTx(tx).CountActiveBySpeaker(ctx, speakerID, 0)
		if err != nil {
			return apperr.Internal(err, "failed to count submissions")
		}
		if count >= s.maxSubmissions {
			return apperr.QuotaExceeded(s.maxSubmissions)
		}

		sub := &models.Submission{
			SpeakerID: speakerID,
			Title:     in.Title,
			Abstract:  in.Abstract,
			Type:      in.Type,
			Level:     in.Level,
			Outline:   in.Outline,
			Status:    models.StatusDraft,
		}
		if err := s.submissionRepo.WithTx(tx).Create(ctx, sub); err != nil {
			return apperr.Internal(err, "failed to create submission")
		}
		if err := s.setTags(ctx, tx, sub.ID, in.Tags); err != nil {
			return err
		}

		created, err = s.submissionRepo.WithTx(tx).GetByID(ctx, sub.ID)
		if err != nil {
			return apperr.Internal(err, "failed to reload submission")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Info("Draft created", "submission_id", created.ID, "speaker_id", speakerID)
	return created, nil
}

// UpdateDraft replaces the content of a draft
func (s *SubmissionService) UpdateDraft(ctx context.Context, speakerID, id uint, in SubmissionInput) (*models.Submission, error) {
	in, err := s.validateInput(in)
	if err != nil {
		return nil, err
	}

	var updated *models.Submission
	err = database.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		sub, err := s.lockOwned(ctx, tx, speakerID, id)
		if err != nil {
			return err
		}
		if sub.Status != models.StatusDraft {
			return apperr.InvalidState("submission in status %s can no longer be edited", sub.Status)
		}

		sub.Title = in.Title
		sub.Abstract = in.Abstract
		sub.Type = in.Type
		sub.Level = in.Level
		sub.Outline = in.Outline
		if err := s.submissionRepo.WithTx(tx).UpdateContent(ctx, sub); err != nil {
			return apperr.Internal(err, "failed to update submission")
		}
		if err := s.setTags(ctx, tx, sub.ID, in.Tags); err != nil {
			return err
		}

		updated, err = s.submissionRepo.WithTx(tx).GetByID(ctx, sub.ID)
		if err != nil {
			return apperr.Internal(err, "failed to reload submission")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// DeleteDraft physically removes a draft that was never submitted. A draft
// reverted by an admin override keeps its history and cannot be deleted.
func (s *SubmissionService) DeleteDraft(ctx context.Context, speakerID, id uint) error {
	return database.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		sub, err := s.lockOwned(ctx, tx, speakerID, id)
		if err != nil {
			return err
		}
		if sub.Status != models.StatusDraft {
			return apperr.InvalidState("only drafts can be deleted, submission is %s", sub.Status)
		}
		if sub.SubmittedAt != nil {
			return apperr.InvalidState("submission %d was submitted before and cannot be deleted", sub.ID)
		}
		if err := s.submissionRepo.WithTx(tx).Delete(ctx, id); err != nil {
			return apperr.FromDB(err, "submission")
		}
		return nil
	})
}

// Submit moves a draft to submitted after the profile and quota checks
func (s *SubmissionService) Submit(ctx context.Context, speakerID, id uint) (*models.Submission, error) {
	var result *models.Submission
	err := database.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		speaker, err := s.speakerRepo.WithTx(tx).LockByID(ctx, speakerID)
		if err != nil {
			return apperr.Internal(err, "failed to lock speaker")
		}
		if speaker == nil {
			return apperr.NotFound("submission not found")
		}

		sub, err := s.lockOwned(ctx, tx, speakerID, id)
		if err != nil {
			return err
		}
		if sub.Status != models.StatusDraft {
			return apperr.InvalidTransition(sub.Status, models.StatusSubmitted)
		}
		if missing := MissingProfileFields(speaker); len(missing) > 0 {
			return apperr.ProfileIncomplete(missing)
		}

		count, err := s.submissionRepo.WithTx(tx).CountActiveBySpeaker(ctx, speakerID, sub.ID)
		if err != nil {
			return apperr.Internal(err, "failed to count submissions")
		}
		if count >= s.maxSubmissions {
			return apperr.QuotaExceeded(s.maxSubmissions)
		}

		now := time.Now().UTC()
		if err := s.transition(ctx, tx, sub, models.StatusSubmitted, &now, models.SourceSpeaker, nil, speaker.Email); err != nil {
			return err
		}
		result = sub
		return nil
	})
	if err != nil {
		return nil, err
	}

	analytics.Emit(ctx, s.analytics, analytics.EventSubmissionSubmitted, analytics.Props{
		"submission_id": result.ID,
		"speaker_id":    speakerID,
		"type":          result.Type,
		"level":         result.Level,
	})
	return result, nil
}

// Withdraw lets the speaker pull a submitted proposal out of consideration
func (s *SubmissionService) Withdraw(ctx context.Context, speakerID, id uint) (*models.Submission, error) {
	var result *models.Submission
	var from string
	err := database.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		sub, err := s.lockOwned(ctx, tx, speakerID, id)
		if err != nil {
			return err
		}
		if sub.Status == models.StatusDraft || sub.Status == models.StatusWithdrawn {
			return apperr.InvalidTransition(sub.Status, models.StatusWithdrawn)
		}

		speaker, err := s.speakerRepo.WithTx(tx).GetByID(ctx, speakerID)
		if err != nil {
			return apperr.Internal(err, "failed to load speaker")
		}
		if speaker == nil {
			return apperr.NotFound("submission not found")
		}

		from = sub.Status
		if err := s.transition(ctx, tx, sub, models.StatusWithdrawn, nil, models.SourceSpeaker, nil, speaker.Email); err != nil {
			return err
		}
		if from == models.StatusAccepted || from == models.StatusRejected {
			if _, err := s.emailRepo.WithTx(tx).CancelPendingForSubmission(ctx, sub.ID, decisionTemplates); err != nil {
				return apperr.Internal(err, "failed to cancel decision emails")
			}
		}
		result = sub
		return nil
	})
	if err != nil {
		return nil, err
	}

	analytics.Emit(ctx, s.analytics, analytics.EventSubmissionWithdrawn, analytics.Props{
		"submission_id": result.ID,
		"from_status":   from,
	})
	return result, nil
}

// ListOwn returns the speaker's submissions
func (s *SubmissionService) ListOwn(ctx context.Context, speakerID uint) ([]models.Submission, error) {
	subs, err := s.submissionRepo.ListBySpeaker(ctx, speakerID)
	if err != nil {
		return nil, apperr.Internal(err, "failed to list submissions")
	}
	return subs, nil
}

// GetOwn returns one of the speaker's submissions
func (s *SubmissionService) GetOwn(ctx context.Context, speakerID, id uint) (*models.Submission, error) {
	sub, err := s.submissionRepo.GetByID(ctx, id)
	if err != nil {
		return nil, apperr.Internal(err, "failed to load submission")
	}
	if err := checkOwner(ctx, sub, speakerID, id); err != nil {
		return nil, err
	}
	return sub, nil
}

// GetHistory returns the status trail of one of the speaker's submissions
func (s *SubmissionService) GetHistory(ctx context.Context, speakerID, id uint) ([]models.StatusHistoryEntry, error) {
	if _, err := s.GetOwn(ctx, speakerID, id); err != nil {
		return nil, err
	}
	entries, err := s.historyRepo.ListBySubmission(ctx, id)
	if err != nil {
		return nil, apperr.Internal(err, "failed to load status history")
	}
	return entries, nil
}

// ListByStatus returns submissions for administrators, optionally filtered by status
func (s *SubmissionService) ListByStatus(ctx context.Context, status string) ([]models.Submission, error) {
	statuses := models.AllStatuses
	if status != "" {
		if !models.Contains(models.AllStatuses, status) {
			return nil, apperr.Validation(map[string]string{"status": "unknown status"})
		}
		statuses = []string{status}
	}
	subs, err := s.submissionRepo.ListByStatuses(ctx, statuses)
	if err != nil {
		return nil, apperr.Internal(err, "failed to list submissions")
	}
	return subs, nil
}

// AdminOverride moves a submission to any non-decision status with a mandatory reason
func (s *SubmissionService) AdminOverride(ctx context.Context, id uint, in OverrideInput, actor string) (*models.Submission, error) {
	reason := validator.SanitizeString(in.Reason)
	fields := map[string]string{}
	if !models.Contains(models.AllStatuses, in.Status) {
		fields["status"] = "unknown status"
	}
	if reason == "" {
		fields["reason"] = "is required"
	}
	if len(fields) > 0 {
		return nil, apperr.Validation(fields)
	}

	var result *models.Submission
	var from string
	err := database.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		sub, err := s.submissionRepo.WithTx(tx).LockByID(ctx, id)
		if err != nil {
			return apperr.Internal(err, "failed to lock submission")
		}
		if sub == nil {
			return apperr.NotFound("submission not found")
		}

		from = sub.Status
		if in.Status == models.StatusAccepted || in.Status == models.StatusRejected || in.Status == from {
			return apperr.InvalidTransition(from, in.Status)
		}

		var submittedAt *time.Time
		if from == models.StatusDraft && sub.SubmittedAt == nil {
			now := time.Now().UTC()
			submittedAt = &now
		}
		if err := s.transition(ctx, tx, sub, in.Status, submittedAt, models.SourceOverride, &reason, actor); err != nil {
			return err
		}

		if from == models.StatusAccepted || from == models.StatusRejected {
			n, err := s.emailRepo.WithTx(tx).CancelPendingForSubmission(ctx, sub.ID, decisionTemplates)
			if err != nil {
				return apperr.Internal(err, "failed to cancel decision emails")
			}
			if n > 0 {
				logger.FromContext(ctx).Info("Cancelled pending decision emails", "submission_id", sub.ID, "count", n)
			}
		}
		result = sub
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Info("Submission status overridden",
		"submission_id", id, "from", from, "to", result.Status, "actor", actor)
	analytics.Emit(ctx, s.analytics, analytics.EventSubmissionStatusOverridden, analytics.Props{
		"submission_id": id,
		"from_status":   from,
		"to_status":     result.Status,
	})
	return result, nil
}

// transition writes the new status and its history row inside tx and updates sub in place
func (s *SubmissionService) transition(ctx context.Context, tx *sql.Tx, sub *models.Submission, to string, submittedAt *time.Time, source string, reason *string, actor string) error {
	return applyTransition(ctx, s.submissionRepo.WithTx(tx), s.historyRepo.WithTx(tx), sub, to, submittedAt, source, reason, actor)
}

func applyTransition(ctx context.Context, subs *repository.SubmissionRepository, history *repository.StatusHistoryRepository, sub *models.Submission, to string, submittedAt *time.Time, source string, reason *string, actor string) error {
	from := sub.Status
	if err := subs.UpdateStatus(ctx, sub.ID, to, submittedAt); err != nil {
		return apperr.FromDB(err, "submission")
	}
	entry := &models.StatusHistoryEntry{
		SubmissionID: sub.ID,
		FromStatus:   from,
		ToStatus:     to,
		Source:       source,
		Reason:       reason,
		ChangedBy:    actor,
	}
	if err := history.Create(ctx, entry); err != nil {
		return apperr.Internal(err, "failed to record status change")
	}

	sub.Status = to
	if submittedAt != nil {
		sub.SubmittedAt = submittedAt
	}
	return nil
}

// lockOwned locks a submission and verifies ownership
func (s *SubmissionService) lockOwned(ctx context.Context, tx *sql.Tx, speakerID, id uint) (*models.Submission, error) {
	sub, err := s.submissionRepo.WithTx(tx).LockByID(ctx, id)
	if err != nil {
		return nil, apperr.Internal(err, "failed to lock submission")
	}
	if err := checkOwner(ctx, sub, speakerID, id); err != nil {
		return nil, err
	}
	return sub, nil
}

// checkOwner hides foreign submissions behind NotFound but logs why
func checkOwner(ctx context.Context, sub *models.Submission, speakerID, id uint) error {
	switch {
	case sub == nil:
		logger.FromContext(ctx).Info("Submission access denied", "reason", "not_found", "submission_id", id, "speaker_id", speakerID)
		return apperr.NotFound("submission not found")
	case sub.SpeakerID != speakerID:
		logger.FromContext(ctx).Warn("Submission access denied", "reason", "cross_tenant", "submission_id", id, "speaker_id", speakerID)
		return apperr.NotFound("submission not found")
	}
	return nil
}

func (s *SubmissionService) validateInput(in SubmissionInput) (SubmissionInput, error) {
	in.Title = validator.SanitizeString(in.Title)
	in.Abstract = validator.SanitizeString(in.Abstract)
	in.Outline = validator.SanitizeString(in.Outline)
	in.Tags = normalizeTagNames(in.Tags)
	if err := validator.ValidateStruct(&in); err != nil {
		return in, validationError(err)
	}
	for _, t := range in.Tags {
		if len([]rune(t)) > 100 {
			return in, apperr.Validation(map[string]string{"tags": "tag names must be at most 100 characters"})
		}
	}
	return in, nil
}

func (s *SubmissionService) setTags(ctx context.Context, tx *sql.Tx, submissionID uint, names []string) error {
	tags, err := s.tagRepo.WithTx(tx).EnsureByNames(ctx, names)
	if err != nil {
		return apperr.Internal(err, "failed to ensure tags")
	}
	if err := s.submissionRepo.WithTx(tx).ReplaceTags(ctx, submissionID, tagIDs(tags)); err != nil {
		return apperr.Internal(err, "failed to set submission tags")
	}
	return nil
}
