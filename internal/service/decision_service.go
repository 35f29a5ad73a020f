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

// DecisionInput is an accept/reject request
type DecisionInput struct {
	Decision string  `json:"decision"`
	Notes    *string `json:"notes,omitempty"`
}

// DecisionEmailInput requests the speaker notification for a decided submission
type DecisionEmailInput struct {
	Template string     `json:"template,omitempty"`
	FireAt   *time.Time `json:"fire_at,omitempty"`
}

// DecisionOutcome is the result of MakeDecision
type DecisionOutcome struct {
	SubmissionID    uint                  `json:"submission_id"`
	PreviousStatus  string                `json:"previous_status"`
	Status          string                `json:"status"`
	Record          models.DecisionRecord `json:"record"`
	CancelledEmails int64                 `json:"cancelled_emails"`
}

// DecisionService turns review signal into accept/reject outcomes
type DecisionService struct {
	db             *sql.DB
	submissionRepo *repository.SubmissionRepository
	speakerRepo    *repository.SpeakerRepository
	decisionRepo   *repository.DecisionRepository
	historyRepo    *repository.StatusHistoryRepository
	emailRepo      *repository.ScheduledEmailRepository
	reviewRepo     *repository.ReviewRepository
	analytics      analytics.Sink
	conferenceURL  string
}

// NewDecisionService creates a new decision service
func NewDecisionService(db *sql.DB, sink analytics.Sink, conferenceURL string) *DecisionService {
	return &DecisionService{
		db:             db,
		submissionRepo: repository.NewSubmissionRepository(db),
		speakerRepo:    repository.NewSpeakerRepository(db),
		decisionRepo:   repository.NewDecisionRepository(db),
		historyRepo:    repository.NewStatusHistoryRepository(db),
		emailRepo:      repository.NewScheduledEmailRepository(db),
		reviewRepo:     repository.NewReviewRepository(db),
		analytics:      sink,
		conferenceURL:  conferenceURL,
	}
}

// MakeDecision records an accept/reject decision under the submission's row lock.
// It never schedules an email; a changed outcome cancels pending decision emails.
func (s *DecisionService) MakeDecision(ctx context.Context, submissionID uint, in DecisionInput, decidedBy string) (*DecisionOutcome, error) {
	if in.Decision != models.StatusAccepted && in.Decision != models.StatusRejected {
		return nil, apperr.Validation(map[string]string{"decision": "must be accepted or rejected"})
	}
	notes := trimmedPtr(in.Notes)

	var out *DecisionOutcome
	err := database.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		sub, err := s.submissionRepo.WithTx(tx).LockByID(ctx, submissionID)
		if err != nil {
			return apperr.Internal(err, "failed to lock submission")
		}
		if sub == nil {
			return apperr.NotFound("submission not found")
		}
		if sub.Status == models.StatusDraft || sub.Status == models.StatusWithdrawn {
			return apperr.InvalidTransition(sub.Status, in.Decision)
		}

		out = &DecisionOutcome{SubmissionID: sub.ID, PreviousStatus: sub.Status, Status: in.Decision}
		if err := applyTransition(ctx, s.submissionRepo.WithTx(tx), s.historyRepo.WithTx(tx),
			sub, in.Decision, nil, models.SourceDecision, notes, decidedBy); err != nil {
			return err
		}

		out.Record = models.DecisionRecord{
			SubmissionID: sub.ID,
			Decision:     in.Decision,
			Notes:        notes,
			DecidedBy:    decidedBy,
		}
		if err := s.decisionRepo.WithTx(tx).Create(ctx, &out.Record); err != nil {
			return apperr.Internal(err, "failed to record decision")
		}

		if out.PreviousStatus != in.Decision {
			out.CancelledEmails, err = s.emailRepo.WithTx(tx).CancelPendingForSubmission(ctx, sub.ID, decisionTemplates)
			if err != nil {
				return apperr.Internal(err, "failed to cancel decision emails")
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Info("Decision made",
		"submission_id", submissionID,
		"from", out.PreviousStatus,
		"decision", out.Status,
		"decided_by", decidedBy,
		"cancelled_emails", out.CancelledEmails,
	)
	analytics.Emit(ctx, s.analytics, analytics.EventDecisionMade, analytics.Props{
		"submission_id":   submissionID,
		"decision":        out.Status,
		"previous_status": out.PreviousStatus,
	})
	return out, nil
}

// GetDecisionStatus gathers everything an admin needs about a submission's decision
func (s *DecisionService) GetDecisionStatus(ctx context.Context, submissionID uint) (*models.DecisionStatus, error) {
	sub, err := s.submissionRepo.GetByID(ctx, submissionID)
	if err != nil {
		return nil, apperr.Internal(err, "failed to load submission")
	}
	if sub == nil {
		return nil, apperr.NotFound("submission not found")
	}

	decisions, err := s.decisionRepo.ListBySubmission(ctx, submissionID)
	if err != nil {
		return nil, apperr.Internal(err, "failed to load decisions")
	}
	history, err := s.historyRepo.ListBySubmission(ctx, submissionID)
	if err != nil {
		return nil, apperr.Internal(err, "failed to load status history")
	}
	emails, err := s.emailRepo.ListBySubmission(ctx, submissionID)
	if err != nil {
		return nil, apperr.Internal(err, "failed to load scheduled emails")
	}
	agg, err := s.reviewRepo.Aggregates(ctx, submissionID)
	if err != nil {
		return nil, apperr.Internal(err, "failed to compute aggregates")
	}

	return &models.DecisionStatus{
		SubmissionID:    sub.ID,
		Status:          sub.Status,
		Decisions:       decisions,
		History:         history,
		ScheduledEmails: emails,
		Aggregates:      *agg,
	}, nil
}

// ScheduleDecisionEmail enqueues the speaker notification for an accepted or rejected
// submission. The submission row stays locked until the email is stored.
func (s *DecisionService) ScheduleDecisionEmail(ctx context.Context, submissionID uint, in DecisionEmailInput, actor string) (*models.ScheduledEmail, error) {
	var email *models.ScheduledEmail
	err := database.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		sub, err := s.submissionRepo.WithTx(tx).LockByID(ctx, submissionID)
		if err != nil {
			return apperr.Internal(err, "failed to lock submission")
		}
		if sub == nil {
			return apperr.NotFound("submission not found")
		}

		var template string
		switch sub.Status {
		case models.StatusAccepted:
			template = models.TemplateDecisionAccepted
		case models.StatusRejected:
			template = models.TemplateDecisionRejected
		default:
			return apperr.InvalidState("submission in status %s has no decision to announce", sub.Status)
		}
		if t := validator.SanitizeString(in.Template); t != "" {
			if !models.Contains(decisionTemplates, t) {
				return apperr.Validation(map[string]string{"template": "must be a decision template"})
			}
			template = t
		}

		speaker, err := s.speakerRepo.WithTx(tx).GetByID(ctx, sub.SpeakerID)
		if err != nil {
			return apperr.Internal(err, "failed to load speaker")
		}
		if speaker == nil {
			return apperr.NotFound("speaker not found")
		}

		submissionRef := sub.ID
		email, err = newScheduledEmail(ScheduleInput{
			SubmissionID: &submissionRef,
			Template:     template,
			Recipient:    speaker.Email,
			FireAt:       in.FireAt,
			Payload: mustPayload(map[string]any{
				"submission_id":  sub.ID,
				"title":          sub.Title,
				"speaker_name":   speaker.FullName(),
				"decision":       sub.Status,
				"conference_url": s.conferenceURL,
				"scheduled_by":   actor,
			}),
		})
		if err != nil {
			return err
		}
		if err := s.emailRepo.WithTx(tx).Create(ctx, email); err != nil {
			return apperr.Internal(err, "failed to schedule decision email")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Info("Decision email scheduled",
		"submission_id", submissionID, "email_id", email.ID, "template", email.Template, "fire_at", email.FireAt, "actor", actor)
	return email, nil
}
