package service

import (
	"context"
	"database/sql"
	"strings"

	"cfp-engine/internal/apperr"
	"cfp-engine/internal/models"
	"cfp-engine/internal/repository"
	"cfp-engine/pkg/validator"
)

// Eligibility describes whether a speaker may add another submission
type Eligibility struct {
	Allowed     bool     `json:"allowed"`
	Reason      string   `json:"reason,omitempty"`
	Missing     []string `json:"missing_fields,omitempty"`
	ActiveCount int      `json:"active_count"`
	Limit       int      `json:"limit"`
}

// ProfileInput holds the speaker-editable profile fields
type ProfileInput struct {
	FirstName     string `json:"first_name" validate:"max=100"`
	LastName      string `json:"last_name" validate:"max=100"`
	Bio           string `json:"bio" validate:"max=5000"`
	Company       string `json:"company" validate:"max=200"`
	JobTitle      string `json:"job_title" validate:"max=200"`
	LinkedInURL   string `json:"linkedin_url" validate:"url,max=500"`
	TwitterHandle string `json:"twitter_handle" validate:"max=100"`
	GitHubHandle  string `json:"github_handle" validate:"max=100"`
	WebsiteURL    string `json:"website_url" validate:"url,max=500"`
}

// IsProfileComplete reports whether first name, last name and bio are all set
func IsProfileComplete(sp *models.Speaker) bool {
	return len(MissingProfileFields(sp)) == 0
}

// MissingProfileFields lists the required profile fields that are blank
func MissingProfileFields(sp *models.Speaker) []string {
	var missing []string
	if strings.TrimSpace(sp.FirstName) == "" {
		missing = append(missing, "first_name")
	}
	if strings.TrimSpace(sp.LastName) == "" {
		missing = append(missing, "last_name")
	}
	if strings.TrimSpace(sp.Bio) == "" {
		missing = append(missing, "bio")
	}
	return missing
}

// SpeakerService handles speaker profiles and the submission quota
type SpeakerService struct {
	speakerRepo    *repository.SpeakerRepository
	submissionRepo *repository.SubmissionRepository
	maxSubmissions int
}

// NewSpeakerService creates a new speaker service
func NewSpeakerService(db *sql.DB, maxSubmissions int) *SpeakerService {
	return &SpeakerService{
		speakerRepo:    repository.NewSpeakerRepository(db),
		submissionRepo: repository.NewSubmissionRepository(db),
		maxSubmissions: maxSubmissions,
	}
}

// EnsureSpeaker returns the speaker for an authenticated email, creating it on first sight
func (s *SpeakerService) EnsureSpeaker(ctx context.Context, email string) (*models.Speaker, error) {
	email = validator.SanitizeEmail(email)
	if err := validator.ValidateEmail(email); err != nil {
		return nil, apperr.Validation(map[string]string{"email": err.Error()})
	}
	sp, err := s.speakerRepo.EnsureByEmail(ctx, email)
	if err != nil {
		return nil, apperr.Internal(err, "failed to ensure speaker")
	}
	return sp, nil
}

// GetSpeaker returns a speaker by id
func (s *SpeakerService) GetSpeaker(ctx context.Context, id uint) (*models.Speaker, error) {
	sp, err := s.speakerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, apperr.Internal(err, "failed to load speaker")
	}
	if sp == nil {
		return nil, apperr.NotFound("speaker not found")
	}
	return sp, nil
}

// UpdateProfile replaces the editable profile fields
func (s *SpeakerService) UpdateProfile(ctx context.Context, id uint, in ProfileInput) (*models.Speaker, error) {
	in = sanitizeProfile(in)
	if err := validator.ValidateStruct(&in); err != nil {
		return nil, validationError(err)
	}

	sp, err := s.GetSpeaker(ctx, id)
	if err != nil {
		return nil, err
	}

	sp.FirstName = in.FirstName
	sp.LastName = in.LastName
	sp.Bio = in.Bio
	sp.Company = in.Company
	sp.JobTitle = in.JobTitle
	sp.LinkedInURL = in.LinkedInURL
	sp.TwitterHandle = in.TwitterHandle
	sp.GitHubHandle = in.GitHubHandle
	sp.WebsiteURL = in.WebsiteURL

	if err := s.speakerRepo.UpdateProfile(ctx, sp); err != nil {
		return nil, apperr.Internal(err, "failed to update speaker profile")
	}
	return sp, nil
}

// CanSubmit reports the speaker's quota and profile state
func (s *SpeakerService) CanSubmit(ctx context.Context, speakerID uint) (*Eligibility, error) {
	sp, err := s.GetSpeaker(ctx, speakerID)
	if err != nil {
		return nil, err
	}

	count, err := s.submissionRepo.CountActiveBySpeaker(ctx, speakerID, 0)
	if err != nil {
		return nil, apperr.Internal(err, "failed to count submissions")
	}

	el := &Eligibility{Allowed: true, ActiveCount: count, Limit: s.maxSubmissions}
	switch {
	case count >= s.maxSubmissions:
		el.Allowed = false
		el.Reason = string(apperr.KindQuotaExceeded)
	case !IsProfileComplete(sp):
		el.Allowed = false
		el.Reason = string(apperr.KindProfileIncomplete)
		el.Missing = MissingProfileFields(sp)
	}
	return el, nil
}

func sanitizeProfile(in ProfileInput) ProfileInput {
	in.FirstName = validator.SanitizeString(in.FirstName)
	in.LastName = validator.SanitizeString(in.LastName)
	in.Bio = validator.SanitizeString(in.Bio)
	in.Company = validator.SanitizeString(in.Company)
	in.JobTitle = validator.SanitizeString(in.JobTitle)
	in.LinkedInURL = validator.SanitizeString(in.LinkedInURL)
	in.TwitterHandle = strings.TrimPrefix(validator.SanitizeString(in.TwitterHandle), "@")
	in.GitHubHandle = strings.TrimPrefix(validator.SanitizeString(in.GitHubHandle), "@")
	in.WebsiteURL = validator.SanitizeString(in.WebsiteURL)
	return in
}
