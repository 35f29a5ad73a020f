package models

import (
	"encoding/json"
	"time"
)

// Submission statuses
const (
	StatusDraft       = "draft"
	StatusSubmitted   = "submitted"
	StatusUnderReview = "under_review"
	StatusShortlisted = "shortlisted"
	StatusWaitlisted  = "waitlisted"
	StatusAccepted    = "accepted"
	StatusRejected    = "rejected"
	StatusWithdrawn   = "withdrawn"
)

// Submission types
const (
	TypeLightning = "lightning"
	TypeStandard  = "standard"
	TypeWorkshop  = "workshop"
)

// Submission levels
const (
	LevelBeginner     = "beginner"
	LevelIntermediate = "intermediate"
	LevelAdvanced     = "advanced"
)

// Reviewer roles
const (
	RoleSuperAdmin = "super_admin"
	RoleReviewer   = "reviewer"
	RoleReadonly   = "readonly"
)

// Access levels derived from a reviewer's role and visibility flag
const (
	AccessFullAccess = "full_access"
	AccessAnonymous  = "anonymous"
	AccessReadonly   = "readonly"
)

// Status change sources recorded in the status history
const (
	SourceSpeaker  = "speaker"
	SourceSystem   = "system"
	SourceOverride = "override"
	SourceDecision = "decision"
)

// Email templates understood by the delivery worker
const (
	TemplateReviewerInvitation = "reviewer_invitation"
	TemplateDecisionAccepted   = "decision_accepted"
	TemplateDecisionRejected   = "decision_rejected"
)

// AllStatuses lists every submission status
var AllStatuses = []string{
	StatusDraft, StatusSubmitted, StatusUnderReview, StatusShortlisted,
	StatusWaitlisted, StatusAccepted, StatusRejected, StatusWithdrawn,
}

// ReviewableStatuses are the statuses in which a submission is visible to reviewers
var ReviewableStatuses = []string{
	StatusSubmitted, StatusUnderReview, StatusShortlisted, StatusWaitlisted, StatusAccepted, StatusRejected,
}

// UndecidedStatuses are candidates for the next-unreviewed hint
var UndecidedStatuses = []string{
	StatusSubmitted, StatusUnderReview, StatusShortlisted, StatusWaitlisted,
}

// Speaker represents a conference speaker
type Speaker struct {
	ID            uint      `json:"id" db:"id"`
	Email         string    `json:"email" db:"email"`
	FirstName     string    `json:"first_name" db:"first_name"`
	LastName      string    `json:"last_name" db:"last_name"`
	Bio           string    `json:"bio" db:"bio"`
	Company       string    `json:"company" db:"company"`
	JobTitle      string    `json:"job_title" db:"job_title"`
	LinkedInURL   string    `json:"linkedin_url" db:"linkedin_url"`
	TwitterHandle string    `json:"twitter_handle" db:"twitter_handle"`
	GitHubHandle  string    `json:"github_handle" db:"github_handle"`
	WebsiteURL    string    `json:"website_url" db:"website_url"`
	IsDisabled    bool      `json:"is_disabled" db:"is_disabled"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time `json:"updated_at" db:"updated_at"`
}

// FullName returns the speaker's display name
func (s *Speaker) FullName() string {
	switch {
	case s.FirstName == "":
		return s.LastName
	case s.LastName == "":
		return s.FirstName
	default:
		return s.FirstName + " " + s.LastName
	}
}

// Tag is a topic label attached to submissions
type Tag struct {
	ID          uint      `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	IsSuggested bool      `json:"is_suggested" db:"is_suggested"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// Submission is a talk or workshop proposal
type Submission struct {
	ID          uint       `json:"id" db:"id"`
	SpeakerID   uint       `json:"speaker_id" db:"speaker_id"`
	Title       string     `json:"title" db:"title"`
	Abstract    string     `json:"abstract" db:"abstract"`
	Type        string     `json:"type" db:"type"`
	Level       string     `json:"level" db:"level"`
	Outline     string     `json:"outline" db:"outline"`
	Status      string     `json:"status" db:"status"`
	Tags        []Tag      `json:"tags"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" db:"updated_at"`
	SubmittedAt *time.Time `json:"submitted_at,omitempty" db:"submitted_at"`
}

// StatusHistoryEntry records a single status change of a submission
type StatusHistoryEntry struct {
	ID           uint      `json:"id" db:"id"`
	SubmissionID uint      `json:"submission_id" db:"submission_id"`
	FromStatus   string    `json:"from_status" db:"from_status"`
	ToStatus     string    `json:"to_status" db:"to_status"`
	Source       string    `json:"source" db:"source"`
	Reason       *string   `json:"reason,omitempty" db:"reason"`
	ChangedBy    string    `json:"changed_by" db:"changed_by"`
	ChangedAt    time.Time `json:"changed_at" db:"changed_at"`
}

// Reviewer is an account that may score submissions
type Reviewer struct {
	ID                    uint       `json:"id" db:"id"`
	Email                 string     `json:"email" db:"email"`
	Name                  *string    `json:"name,omitempty" db:"name"`
	Role                  string     `json:"role" db:"role"`
	CanSeeSpeakerIdentity bool       `json:"can_see_speaker_identity" db:"can_see_speaker_identity"`
	InviteTokenHash       string     `json:"-" db:"invite_token_hash"`
	InvitedAt             time.Time  `json:"invited_at" db:"invited_at"`
	AcceptedAt            *time.Time `json:"accepted_at,omitempty" db:"accepted_at"`
	DeactivatedAt         *time.Time `json:"deactivated_at,omitempty" db:"deactivated_at"`
	CreatedAt             time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt             time.Time  `json:"updated_at" db:"updated_at"`
}

// IsActive reports whether the reviewer completed activation and was not deactivated
func (r *Reviewer) IsActive() bool {
	return r.AcceptedAt != nil && r.DeactivatedAt == nil
}

// Scores holds the nullable review dimensions
type Scores struct {
	Overall        *int `json:"score_overall"`
	Relevance      *int `json:"score_relevance"`
	TechnicalDepth *int `json:"score_technical_depth"`
	Clarity        *int `json:"score_clarity"`
	Diversity      *int `json:"score_diversity"`
}

// Review is one reviewer's assessment of one submission
type Review struct {
	ID                uint      `json:"id" db:"id"`
	SubmissionID      uint      `json:"submission_id" db:"submission_id"`
	ReviewerID        uint      `json:"reviewer_id" db:"reviewer_id"`
	Scores                      // flattened score_* fields
	PrivateNotes      *string   `json:"private_notes,omitempty" db:"private_notes"`
	FeedbackToSpeaker *string   `json:"feedback_to_speaker,omitempty" db:"feedback_to_speaker"`
	CreatedAt         time.Time `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time `json:"updated_at" db:"updated_at"`
}

// ReviewView is a review as shown to a particular viewer
type ReviewView struct {
	ID                uint      `json:"id"`
	SubmissionID      uint      `json:"submission_id"`
	ReviewerID        *uint     `json:"reviewer_id,omitempty"`
	ReviewerEmail     *string   `json:"reviewer_email,omitempty"`
	IsOwn             bool      `json:"is_own"`
	Scores                      // flattened score_* fields
	PrivateNotes      *string   `json:"private_notes,omitempty"`
	FeedbackToSpeaker *string   `json:"feedback_to_speaker,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// ReviewAggregates summarizes all reviews of a submission
type ReviewAggregates struct {
	SubmissionID      uint     `json:"submission_id"`
	ReviewCount       int      `json:"review_count"`
	AvgOverall        *float64 `json:"avg_overall"`
	AvgRelevance      *float64 `json:"avg_relevance"`
	AvgTechnicalDepth *float64 `json:"avg_technical_depth"`
	AvgClarity        *float64 `json:"avg_clarity"`
	AvgDiversity      *float64 `json:"avg_diversity"`
}

// SubmissionForReview is the access-shaped view of a submission handed to reviewers.
// SpeakerID and Speaker are only set for full access, so an anonymous view
// carries nothing that links proposals of the same speaker.
type SubmissionForReview struct {
	ID          uint       `json:"id"`
	Title       string     `json:"title"`
	Abstract    string     `json:"abstract"`
	Type        string     `json:"type"`
	Level       string     `json:"level"`
	Outline     string     `json:"outline"`
	Status      string     `json:"status"`
	Tags        []Tag      `json:"tags"`
	SubmittedAt *time.Time `json:"submitted_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	SpeakerID   *uint      `json:"speaker_id,omitempty"`
	Speaker     *Speaker   `json:"speaker,omitempty"`
	AccessLevel string     `json:"access_level"`
	HasReviewed bool       `json:"has_reviewed"`
	ReviewCount int        `json:"review_count"`
}

// NewSubmissionForReview copies the reviewable fields of sub. The speaker
// reference is kept only when access is full_access.
func NewSubmissionForReview(sub *Submission, access string) SubmissionForReview {
	view := SubmissionForReview{
		ID:          sub.ID,
		Title:       sub.Title,
		Abstract:    sub.Abstract,
		Type:        sub.Type,
		Level:       sub.Level,
		Outline:     sub.Outline,
		Status:      sub.Status,
		Tags:        sub.Tags,
		SubmittedAt: sub.SubmittedAt,
		CreatedAt:   sub.CreatedAt,
		UpdatedAt:   sub.UpdatedAt,
		AccessLevel: access,
	}
	if access == AccessFullAccess {
		id := sub.SpeakerID
		view.SpeakerID = &id
	}
	return view
}

// DecisionRecord is an append-only record of an accept/reject decision
type DecisionRecord struct {
	ID           uint      `json:"id" db:"id"`
	SubmissionID uint      `json:"submission_id" db:"submission_id"`
	Decision     string    `json:"decision" db:"decision"`
	Notes        *string   `json:"notes,omitempty" db:"notes"`
	DecidedBy    string    `json:"decided_by" db:"decided_by"`
	DecidedAt    time.Time `json:"decided_at" db:"decided_at"`
}

// DecisionStatus combines everything an admin needs before acting on a submission
type DecisionStatus struct {
	SubmissionID    uint                 `json:"submission_id"`
	Status          string               `json:"status"`
	Decisions       []DecisionRecord     `json:"decisions"`
	History         []StatusHistoryEntry `json:"history"`
	ScheduledEmails []ScheduledEmail     `json:"scheduled_emails"`
	Aggregates      ReviewAggregates     `json:"aggregates"`
}

// ScheduledEmail is a durable notification intent awaiting external delivery
type ScheduledEmail struct {
	ID           uint            `json:"id" db:"id"`
	SubmissionID *uint           `json:"submission_id,omitempty" db:"submission_id"`
	Template     string          `json:"template" db:"template"`
	Recipient    string          `json:"recipient" db:"recipient"`
	Payload      json.RawMessage `json:"payload" db:"payload"`
	FireAt       time.Time       `json:"fire_at" db:"fire_at"`
	SentAt       *time.Time      `json:"sent_at,omitempty" db:"sent_at"`
	CancelledAt  *time.Time      `json:"cancelled_at,omitempty" db:"cancelled_at"`
	Attempts     int             `json:"attempts" db:"attempts"`
	LastError    *string         `json:"last_error,omitempty" db:"last_error"`
	CreatedAt    time.Time       `json:"created_at" db:"created_at"`
}

// IsPending reports whether the email still awaits delivery
func (e *ScheduledEmail) IsPending() bool {
	return e.SentAt == nil && e.CancelledAt == nil
}

// secretPayloadKeys hold credentials that only the delivery worker may read
var secretPayloadKeys = []string{"token", "activation_url"}

// RedactedPayloadValue replaces secret payload values in API responses
const RedactedPayloadValue = "[redacted]"

// Redacted returns a copy of e with secret payload values replaced. The
// stored payload is untouched so the worker can still render the email.
func (e ScheduledEmail) Redacted() ScheduledEmail {
	if len(e.Payload) == 0 {
		return e
	}
	var payload map[string]any
	if err := json.Unmarshal(e.Payload, &payload); err != nil {
		e.Payload = nil
		return e
	}
	changed := false
	for _, key := range secretPayloadKeys {
		if _, ok := payload[key]; ok {
			payload[key] = RedactedPayloadValue
			changed = true
		}
	}
	if !changed {
		return e
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		e.Payload = nil
		return e
	}
	e.Payload = raw
	return e
}

// RedactEmails applies Redacted to every email
func RedactEmails(emails []ScheduledEmail) []ScheduledEmail {
	out := make([]ScheduledEmail, len(emails))
	for i, e := range emails {
		out[i] = e.Redacted()
	}
	return out
}

// AuditLog represents an audit log entry for admin actions
type AuditLog struct {
	ID         uint      `json:"id" db:"id"`
	ActorKind  string    `json:"actor_kind" db:"actor_kind"`
	ActorEmail string    `json:"actor_email" db:"actor_email"`
	Action     string    `json:"action" db:"action"`
	Resource   string    `json:"resource" db:"resource"`
	Details    string    `json:"details,omitempty" db:"details"`
	IPAddress  string    `json:"ip_address,omitempty" db:"ip_address"`
	UserAgent  string    `json:"user_agent,omitempty" db:"user_agent"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}

// Contains reports whether status is one of the given statuses
func Contains(statuses []string, status string) bool {
	for _, s := range statuses {
		if s == status {
			return true
		}
	}
	return false
}
