package service

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"

	"cfp-engine/internal/apperr"
	"cfp-engine/internal/auth"
	"cfp-engine/internal/database"
	"cfp-engine/internal/logger"
	"cfp-engine/internal/models"
	"cfp-engine/internal/repository"
	"cfp-engine/pkg/validator"
)

// TokenIssuer mints access tokens for activated reviewers
type TokenIssuer interface {
	GenerateToken(kind, email string) (string, error)
}

// InviteInput describes a reviewer invitation
type InviteInput struct {
	Email                 string  `json:"email" validate:"required,email,max=255"`
	Name                  *string `json:"name,omitempty" validate:"max=200"`
	Role                  string  `json:"role" validate:"required,oneof=super_admin reviewer readonly"`
	CanSeeSpeakerIdentity bool    `json:"can_see_speaker_identity"`
}

// UpdateReviewerInput changes a reviewer's access
type UpdateReviewerInput struct {
	Role                  string `json:"role" validate:"required,oneof=super_admin reviewer readonly"`
	CanSeeSpeakerIdentity bool   `json:"can_see_speaker_identity"`
}

// ActivationResult is returned to a reviewer completing their invitation
type ActivationResult struct {
	Reviewer    *models.Reviewer `json:"reviewer"`
	AccessLevel string           `json:"access_level"`
	Token       string           `json:"token"`
}

// ResolveAccessLevel is the single mapping from role and visibility flag to what a reviewer sees
func ResolveAccessLevel(role string, canSeeSpeakerIdentity bool) string {
	switch role {
	case models.RoleSuperAdmin:
		return models.AccessFullAccess
	case models.RoleReviewer:
		if canSeeSpeakerIdentity {
			return models.AccessFullAccess
		}
		return models.AccessAnonymous
	default:
		return models.AccessReadonly
	}
}

// ReviewerService manages reviewer accounts and invitations
type ReviewerService struct {
	db            *sql.DB
	reviewerRepo  *repository.ReviewerRepository
	emailRepo     *repository.ScheduledEmailRepository
	tokens        TokenIssuer
	activationURL string
}

// NewReviewerService creates a new reviewer service
func NewReviewerService(db *sql.DB, tokens TokenIssuer, activationURL string) *ReviewerService {
	return &ReviewerService{
		db:            db,
		reviewerRepo:  repository.NewReviewerRepository(db),
		emailRepo:     repository.NewScheduledEmailRepository(db),
		tokens:        tokens,
		activationURL: activationURL,
	}
}

// Invite creates an inactive reviewer and enqueues the invitation email
func (s *ReviewerService) Invite(ctx context.Context, in InviteInput, invitedBy string) (*models.Reviewer, error) {
	in.Email = validator.SanitizeEmail(in.Email)
	if in.Name != nil {
		name := validator.SanitizeString(*in.Name)
		in.Name = stringPtr(name)
	}
	if err := validator.ValidateStruct(&in); err != nil {
		return nil, validationError(err)
	}

	token, hash, err := newInviteToken()
	if err != nil {
		return nil, apperr.Internal(err, "failed to create invite token")
	}

	rv := &models.Reviewer{
		Email:                 in.Email,
		Name:                  in.Name,
		Role:                  in.Role,
		CanSeeSpeakerIdentity: in.CanSeeSpeakerIdentity,
		InviteTokenHash:       hash,
	}

	err = database.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		if err := s.reviewerRepo.WithTx(tx).Create(ctx, rv); err != nil {
			if apperr.IsUniqueViolation(err) {
				return apperr.Conflict("reviewer %s already exists", rv.Email)
			}
			return apperr.Internal(err, "failed to create reviewer")
		}
		return s.enqueueInvitation(ctx, s.emailRepo.WithTx(tx), rv, token, invitedBy)
	})
	if err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Info("Reviewer invited", "reviewer_id", rv.ID, "role", rv.Role, "invited_by", invitedBy)
	return rv, nil
}

// ResendInvite rotates the invite token and enqueues a new invitation
func (s *ReviewerService) ResendInvite(ctx context.Context, id uint, invitedBy string) (*models.Reviewer, error) {
	var rv *models.Reviewer
	err := database.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		var err error
		rv, err = s.reviewerRepo.WithTx(tx).GetByID(ctx, id)
		if err != nil {
			return apperr.Internal(err, "failed to load reviewer")
		}
		if rv == nil {
			return apperr.NotFound("reviewer not found")
		}
		if rv.AcceptedAt != nil {
			return apperr.AlreadyAccepted("reviewer %s already accepted the invitation", rv.Email)
		}
		if rv.DeactivatedAt != nil {
			return apperr.Forbidden("reviewer %s is deactivated", rv.Email)
		}

		token, hash, err := newInviteToken()
		if err != nil {
			return apperr.Internal(err, "failed to create invite token")
		}
		if err := s.reviewerRepo.WithTx(tx).SetInviteToken(ctx, id, hash); err != nil {
			return apperr.FromDB(err, "reviewer")
		}
		rv.InviteTokenHash = hash
		return s.enqueueInvitation(ctx, s.emailRepo.WithTx(tx), rv, token, invitedBy)
	})
	if err != nil {
		return nil, err
	}
	return rv, nil
}

// Activate verifies an invite token, marks the reviewer accepted and issues an access token
func (s *ReviewerService) Activate(ctx context.Context, email, token string) (*ActivationResult, error) {
	rv, err := s.reviewerRepo.GetByEmail(ctx, validator.SanitizeEmail(email))
	if err != nil {
		return nil, apperr.Internal(err, "failed to load reviewer")
	}
	if rv == nil || rv.InviteTokenHash == "" || auth.VerifyToken(rv.InviteTokenHash, token) != nil {
		logger.FromContext(ctx).Warn("Reviewer activation rejected", "reason", "invalid_token")
		return nil, apperr.NotAuthorized("invalid invitation")
	}
	if rv.DeactivatedAt != nil {
		return nil, apperr.Forbidden("reviewer is deactivated")
	}

	if err := s.reviewerRepo.MarkAccepted(ctx, rv.ID); err != nil {
		return nil, apperr.FromDB(err, "reviewer")
	}
	rv, err = s.reviewerRepo.GetByID(ctx, rv.ID)
	if err != nil {
		return nil, apperr.Internal(err, "failed to reload reviewer")
	}

	accessToken, err := s.tokens.GenerateToken(auth.KindReviewer, rv.Email)
	if err != nil {
		return nil, apperr.Internal(err, "failed to issue token")
	}

	logger.FromContext(ctx).Info("Reviewer activated", "reviewer_id", rv.ID)
	return &ActivationResult{
		Reviewer:    rv,
		AccessLevel: ResolveAccessLevel(rv.Role, rv.CanSeeSpeakerIdentity),
		Token:       accessToken,
	}, nil
}

// Deactivate soft-deactivates a reviewer
func (s *ReviewerService) Deactivate(ctx context.Context, id uint) (*models.Reviewer, error) {
	if err := s.reviewerRepo.Deactivate(ctx, id); err != nil {
		return nil, apperr.FromDB(err, "reviewer")
	}
	return s.Get(ctx, id)
}

// Update changes role and identity visibility
func (s *ReviewerService) Update(ctx context.Context, id uint, in UpdateReviewerInput) (*models.Reviewer, error) {
	if err := validator.ValidateStruct(&in); err != nil {
		return nil, validationError(err)
	}
	if err := s.reviewerRepo.UpdateAccess(ctx, id, in.Role, in.CanSeeSpeakerIdentity); err != nil {
		return nil, apperr.FromDB(err, "reviewer")
	}
	return s.Get(ctx, id)
}

// List returns all reviewers
func (s *ReviewerService) List(ctx context.Context) ([]models.Reviewer, error) {
	reviewers, err := s.reviewerRepo.List(ctx)
	if err != nil {
		return nil, apperr.Internal(err, "failed to list reviewers")
	}
	return reviewers, nil
}

// Get returns a reviewer by id
func (s *ReviewerService) Get(ctx context.Context, id uint) (*models.Reviewer, error) {
	rv, err := s.reviewerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, apperr.Internal(err, "failed to load reviewer")
	}
	if rv == nil {
		return nil, apperr.NotFound("reviewer not found")
	}
	return rv, nil
}

// GetByEmail returns the reviewer for an authenticated email, or nil
func (s *ReviewerService) GetByEmail(ctx context.Context, email string) (*models.Reviewer, error) {
	rv, err := s.reviewerRepo.GetByEmail(ctx, validator.SanitizeEmail(email))
	if err != nil {
		return nil, apperr.Internal(err, "failed to load reviewer")
	}
	return rv, nil
}

func (s *ReviewerService) enqueueInvitation(ctx context.Context, repo *repository.ScheduledEmailRepository, rv *models.Reviewer, token, invitedBy string) error {
	name := ""
	if rv.Name != nil {
		name = *rv.Name
	}
	email, err := newScheduledEmail(ScheduleInput{
		Template:  models.TemplateReviewerInvitation,
		Recipient: rv.Email,
		Payload: mustPayload(map[string]any{
			"reviewer_id":    rv.ID,
			"name":           name,
			"role":           rv.Role,
			"access_level":   ResolveAccessLevel(rv.Role, rv.CanSeeSpeakerIdentity),
			"token":          token,
			"activation_url": s.activationLink(rv.Email, token),
			"invited_by":     invitedBy,
		}),
	})
	if err != nil {
		return err
	}
	if err := repo.Create(ctx, email); err != nil {
		return apperr.Internal(err, "failed to enqueue invitation")
	}
	return nil
}

func (s *ReviewerService) activationLink(email, token string) string {
	q := url.Values{}
	q.Set("email", email)
	q.Set("token", token)
	return fmt.Sprintf("%s?%s", s.activationURL, q.Encode())
}

func newInviteToken() (token, hash string, err error) {
	token, err = auth.GenerateRandomToken(32)
	if err != nil {
		return "", "", err
	}
	hash, err = auth.HashToken(token)
	if err != nil {
		return "", "", err
	}
	return token, hash, nil
}
