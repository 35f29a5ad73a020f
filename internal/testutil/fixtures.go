package testutil

import (
	"database/sql"
	"fmt"
	"testing"
	"time"

	"cfp-engine/internal/models"
)

// CreateSpeaker inserts a speaker. A complete speaker has first name, last name and bio set.
func CreateSpeaker(t *testing.T, db *sql.DB, email string, complete bool) *models.Speaker {
	t.Helper()

	sp := &models.Speaker{Email: email}
	if complete {
		sp.FirstName = "Ada"
		sp.LastName = "Lovelace"
		sp.Bio = "Writes programs for analytical engines."
	}

	err := db.QueryRow(
		`INSERT INTO speakers (email, first_name, last_name, bio)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at, updated_at`,
		sp.Email, sp.FirstName, sp.LastName, sp.Bio,
	).Scan(&sp.ID, &sp.CreatedAt, &sp.UpdatedAt)
	if err != nil {
		t.Fatalf("Failed to create speaker %s: %v", email, err)
	}
	return sp
}

// CreateReviewer inserts a reviewer, activated unless active is false
func CreateReviewer(t *testing.T, db *sql.DB, email, role string, canSee, active bool) *models.Reviewer {
	t.Helper()

	rv := &models.Reviewer{Email: email, Role: role, CanSeeSpeakerIdentity: canSee}
	var acceptedAt *time.Time
	if active {
		now := time.Now()
		acceptedAt = &now
	}

	err := db.QueryRow(
		`INSERT INTO reviewers (email, role, can_see_speaker_identity, accepted_at)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, invited_at, accepted_at, created_at, updated_at`,
		email, role, canSee, acceptedAt,
	).Scan(&rv.ID, &rv.InvitedAt, &rv.AcceptedAt, &rv.CreatedAt, &rv.UpdatedAt)
	if err != nil {
		t.Fatalf("Failed to create reviewer %s: %v", email, err)
	}
	return rv
}

// CreateSubmission inserts a submission owned by speakerID directly in the given status
func CreateSubmission(t *testing.T, db *sql.DB, speakerID uint, status string) *models.Submission {
	t.Helper()

	sub := &models.Submission{
		SpeakerID: speakerID,
		Title:     fmt.Sprintf("Talk %d", time.Now().UnixNano()),
		Abstract:  "An abstract.",
		Type:      models.TypeStandard,
		Level:     models.LevelIntermediate,
		Status:    status,
		Tags:      []models.Tag{},
	}
	var submittedAt *time.Time
	if status != models.StatusDraft {
		now := time.Now()
		submittedAt = &now
	}

	err := db.QueryRow(
		`INSERT INTO submissions (speaker_id, title, abstract, type, level, status, submitted_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id, created_at, updated_at, submitted_at`,
		sub.SpeakerID, sub.Title, sub.Abstract, sub.Type, sub.Level, sub.Status, submittedAt,
	).Scan(&sub.ID, &sub.CreatedAt, &sub.UpdatedAt, &sub.SubmittedAt)
	if err != nil {
		t.Fatalf("Failed to create submission: %v", err)
	}
	return sub
}

// CreateReview inserts a review with only the overall score set (nil leaves it null)
func CreateReview(t *testing.T, db *sql.DB, submissionID, reviewerID uint, overall *int) {
	t.Helper()

	_, err := db.Exec(
		`INSERT INTO reviews (submission_id, reviewer_id, score_overall) VALUES ($1, $2, $3)`,
		submissionID, reviewerID, overall,
	)
	if err != nil {
		t.Fatalf("Failed to create review: %v", err)
	}
}

// IntPtr returns a pointer to v
func IntPtr(v int) *int {
	return &v
}

// StringPtr returns a pointer to v
func StringPtr(v string) *string {
	return &v
}
