package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"
	"time"
	"unicode/utf8"

	"cfp-engine/internal/apperr"
	"cfp-engine/internal/database"
	"cfp-engine/internal/logger"
	"cfp-engine/internal/models"
	"cfp-engine/internal/repository"
	"cfp-engine/pkg/validator"
)

const (
	defaultPendingLimit = 50
	maxPendingLimit     = 500
	maxErrorLength      = 2000
)

// KnownTemplates are the templates the delivery worker can render
var KnownTemplates = []string{
	models.TemplateReviewerInvitation,
	models.TemplateDecisionAccepted,
	models.TemplateDecisionRejected,
}

// ScheduleInput describes a notification to enqueue
type ScheduleInput struct {
	SubmissionID *uint           `json:"submission_id,omitempty"`
	Template     string          `json:"template"`
	Recipient    string          `json:"recipient"`
	Payload      json.RawMessage `json:"payload,omitempty"`
	FireAt       *time.Time      `json:"fire_at,omitempty"`
}

// NotificationService manages the scheduled email queue
type NotificationService struct {
	db        *sql.DB
	emailRepo *repository.ScheduledEmailRepository
}

// NewNotificationService creates a new notification service
func NewNotificationService(db *sql.DB) *NotificationService {
	return &NotificationService{
		db:        db,
		emailRepo: repository.NewScheduledEmailRepository(db),
	}
}

// Schedule validates and enqueues a notification
func (s *NotificationService) Schedule(ctx context.Context, in ScheduleInput) (*models.ScheduledEmail, error) {
	email, err := newScheduledEmail(in)
	if err != nil {
		return nil, err
	}
	if err := s.emailRepo.Create(ctx, email); err != nil {
		return nil, apperr.FromDB(err, "scheduled email")
	}
	logger.FromContext(ctx).Info("Notification scheduled",
		"email_id", email.ID, "template", email.Template, "fire_at", email.FireAt)
	return email, nil
}

// Get returns a scheduled email by id
func (s *NotificationService) Get(ctx context.Context, id uint) (*models.ScheduledEmail, error) {
	email, err := s.emailRepo.GetByID(ctx, id)
	if err != nil {
		return nil, apperr.Internal(err, "failed to load scheduled email")
	}
	if email == nil {
		return nil, apperr.NotFound("scheduled email not found")
	}
	return email, nil
}

// Cancel stops a pending email. Cancelling a sent or already cancelled email is a no-op.
func (s *NotificationService) Cancel(ctx context.Context, id uint) (*models.ScheduledEmail, error) {
	return s.update(ctx, id, func(ctx context.Context, repo *repository.ScheduledEmailRepository, email *models.ScheduledEmail) error {
		if !email.IsPending() {
			return nil
		}
		_, err := repo.SetCancelled(ctx, id)
		return err
	})
}

// MarkSent records a successful delivery. Repeated calls are no-ops; cancelled emails are rejected.
func (s *NotificationService) MarkSent(ctx context.Context, id uint) (*models.ScheduledEmail, error) {
	return s.update(ctx, id, func(ctx context.Context, repo *repository.ScheduledEmailRepository, email *models.ScheduledEmail) error {
		if email.CancelledAt != nil {
			return apperr.InvalidState("scheduled email %d was cancelled", id)
		}
		if email.SentAt != nil {
			return nil
		}
		_, err := repo.SetSent(ctx, id)
		return err
	})
}

// RecordFailure counts a failed attempt and keeps the email pending
func (s *NotificationService) RecordFailure(ctx context.Context, id uint, message string) (*models.ScheduledEmail, error) {
	message = truncateError(message, maxErrorLength)
	return s.update(ctx, id, func(ctx context.Context, repo *repository.ScheduledEmailRepository, email *models.ScheduledEmail) error {
		if !email.IsPending() {
			return apperr.InvalidState("scheduled email %d is no longer pending", id)
		}
		return repo.RecordFailure(ctx, id, message)
	})
}

// truncateError returns valid UTF-8 of at most maxBytes bytes, cut on a rune boundary
func truncateError(message string, maxBytes int) string {
	message = strings.ToValidUTF8(message, "\uFFFD")
	if len(message) <= maxBytes {
		return message
	}
	cut := maxBytes
	for cut > 0 && !utf8.RuneStart(message[cut]) {
		cut--
	}
	return message[:cut]
}

// ListPending returns due emails in delivery order
func (s *NotificationService) ListPending(ctx context.Context, before time.Time, limit int) ([]models.ScheduledEmail, error) {
	if limit <= 0 {
		limit = defaultPendingLimit
	}
	if limit > maxPendingLimit {
		limit = maxPendingLimit
	}
	emails, err := s.emailRepo.ListPending(ctx, before, limit)
	if err != nil {
		return nil, apperr.Internal(err, "failed to list pending emails")
	}
	return emails, nil
}

// ListDeliverable returns due emails that still have delivery attempts left
func (s *NotificationService) ListDeliverable(ctx context.Context, before time.Time, maxAttempts, limit int) ([]models.ScheduledEmail, error) {
	if limit <= 0 {
		limit = defaultPendingLimit
	}
	if limit > maxPendingLimit {
		limit = maxPendingLimit
	}
	emails, err := s.emailRepo.ListDeliverable(ctx, before, maxAttempts, limit)
	if err != nil {
		return nil, apperr.Internal(err, "failed to list deliverable emails")
	}
	return emails, nil
}

func (s *NotificationService) update(ctx context.Context, id uint, fn func(context.Context, *repository.ScheduledEmailRepository, *models.ScheduledEmail) error) (*models.ScheduledEmail, error) {
	var result *models.ScheduledEmail
	err := database.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		repo := s.emailRepo.WithTx(tx)
		email, err := repo.LockByID(ctx, id)
		if err != nil {
			return apperr.Internal(err, "failed to lock scheduled email")
		}
		if email == nil {
			return apperr.NotFound("scheduled email not found")
		}
		if err := fn(ctx, repo, email); err != nil {
			return apperr.FromDB(err, "scheduled email")
		}
		result, err = repo.GetByID(ctx, id)
		if err != nil {
			return apperr.Internal(err, "failed to reload scheduled email")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// newScheduledEmail validates input and builds the queue entry
func newScheduledEmail(in ScheduleInput) (*models.ScheduledEmail, error) {
	fields := map[string]string{}
	recipient := validator.SanitizeEmail(in.Recipient)
	if err := validator.ValidateEmail(recipient); err != nil {
		fields["recipient"] = "must be a valid email"
	}
	if !models.Contains(KnownTemplates, in.Template) {
		fields["template"] = "unknown template"
	}

	payload := in.Payload
	if len(payload) == 0 {
		payload = json.RawMessage(`{}`)
	} else {
		var obj map[string]any
		if err := json.Unmarshal(payload, &obj); err != nil || obj == nil {
			fields["payload"] = "must be a JSON object"
		}
	}
	if len(fields) > 0 {
		return nil, apperr.Validation(fields)
	}

	fireAt := time.Now().UTC()
	if in.FireAt != nil {
		fireAt = in.FireAt.UTC()
	}

	return &models.ScheduledEmail{
		SubmissionID: in.SubmissionID,
		Template:     in.Template,
		Recipient:    recipient,
		Payload:      payload,
		FireAt:       fireAt,
	}, nil
}

// mustPayload encodes a payload map built by the services themselves
func mustPayload(v map[string]any) json.RawMessage {
	b, err := json.Marshal(v)
	if err != nil {
		return json.RawMessage(`{}`)
	}
	return b
}
