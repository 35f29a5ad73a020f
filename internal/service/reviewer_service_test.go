package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"cfp-engine/internal/apperr"
	"cfp-engine/internal/models"
	"cfp-engine/internal/testutil"
)

// invitationToken pulls the plaintext token from the newest queued invitation
func invitationToken(t *testing.T, svc *services) string {
	t.Helper()

	emails, err := svc.notifications.ListPending(context.Background(), time.Now().Add(time.Minute), 0)
	if err != nil {
		t.Fatalf("ListPending failed: %v", err)
	}
	var token string
	for _, e := range emails {
		if e.Template != models.TemplateReviewerInvitation {
			continue
		}
		var payload map[string]any
		if err := json.Unmarshal(e.Payload, &payload); err != nil {
			t.Fatalf("Invalid payload: %v", err)
		}
		token, _ = payload["token"].(string)
	}
	if token == "" {
		t.Fatal("No invitation email queued")
	}
	return token
}

func TestInviteAndActivate(t *testing.T) {
	svc := setup(t)
	ctx := context.Background()

	rv, err := svc.reviewers.Invite(ctx, InviteInput{
		Email: "  Grace@Example.com ",
		Name:  testutil.StringPtr("Grace"),
		Role:  models.RoleReviewer,
	}, "chair@example.com")
	if err != nil {
		t.Fatalf("Invite failed: %v", err)
	}
	if rv.Email != "grace@example.com" || rv.IsActive() {
		t.Errorf("Expected inactive normalized reviewer, got %+v", rv)
	}

	token := invitationToken(t, svc)

	if _, err := svc.reviewers.Activate(ctx, rv.Email, "wrong"); !errors.Is(err, apperr.ErrNotAuthorized) {
		t.Errorf("Expected NotAuthorized for a bad token, got %v", err)
	}

	res, err := svc.reviewers.Activate(ctx, "GRACE@example.com", token)
	if err != nil {
		t.Fatalf("Activate failed: %v", err)
	}
	if !res.Reviewer.IsActive() || res.AccessLevel != models.AccessAnonymous || res.Token == "" {
		t.Errorf("Unexpected activation result %+v", res)
	}

	if _, err := svc.reviewers.ResendInvite(ctx, rv.ID, "chair@example.com"); !errors.Is(err, apperr.ErrAlreadyAccepted) {
		t.Errorf("Expected AlreadyAccepted, got %v", err)
	}
}

func TestInviteDuplicateEmail(t *testing.T) {
	svc := setup(t)
	ctx := context.Background()

	in := InviteInput{Email: "dup@example.com", Role: models.RoleReviewer}
	if _, err := svc.reviewers.Invite(ctx, in, "chair"); err != nil {
		t.Fatalf("Invite failed: %v", err)
	}
	in.Email = "DUP@example.com"
	if _, err := svc.reviewers.Invite(ctx, in, "chair"); !errors.Is(err, apperr.ErrConflict) {
		t.Errorf("Expected Conflict, got %v", err)
	}

	if _, err := svc.reviewers.Invite(ctx, InviteInput{Email: "x@example.com", Role: "owner"}, "chair"); !errors.Is(err, apperr.ErrValidation) {
		t.Errorf("Expected validation error for unknown role, got %v", err)
	}
}

func TestResendInviteRotatesToken(t *testing.T) {
	svc := setup(t)
	ctx := context.Background()

	rv, err := svc.reviewers.Invite(ctx, InviteInput{Email: "rot@example.com", Role: models.RoleReadonly}, "chair")
	if err != nil {
		t.Fatalf("Invite failed: %v", err)
	}
	first := invitationToken(t, svc)

	if _, err := svc.reviewers.ResendInvite(ctx, rv.ID, "chair"); err != nil {
		t.Fatalf("ResendInvite failed: %v", err)
	}
	second := invitationToken(t, svc)
	if first == second {
		t.Fatal("Expected a new token")
	}

	if _, err := svc.reviewers.Activate(ctx, rv.Email, first); !errors.Is(err, apperr.ErrNotAuthorized) {
		t.Errorf("Expected old token to be rejected, got %v", err)
	}
	if _, err := svc.reviewers.Activate(ctx, rv.Email, second); err != nil {
		t.Errorf("Expected new token to work, got %v", err)
	}

	if _, err := svc.reviewers.ResendInvite(ctx, rv.ID+1000, "chair"); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("Expected NotFound, got %v", err)
	}
}

func TestDeactivatedReviewerCannotActivate(t *testing.T) {
	svc := setup(t)
	ctx := context.Background()

	rv, err := svc.reviewers.Invite(ctx, InviteInput{Email: "gone@example.com", Role: models.RoleReviewer}, "chair")
	if err != nil {
		t.Fatalf("Invite failed: %v", err)
	}
	token := invitationToken(t, svc)

	deactivated, err := svc.reviewers.Deactivate(ctx, rv.ID)
	if err != nil {
		t.Fatalf("Deactivate failed: %v", err)
	}
	if deactivated.DeactivatedAt == nil {
		t.Error("Expected deactivated_at to be set")
	}

	if _, err := svc.reviewers.Activate(ctx, rv.Email, token); !errors.Is(err, apperr.ErrForbidden) {
		t.Errorf("Expected Forbidden, got %v", err)
	}
	if _, err := svc.reviewers.ResendInvite(ctx, rv.ID, "chair"); !errors.Is(err, apperr.ErrForbidden) {
		t.Errorf("Expected Forbidden on resend, got %v", err)
	}
}

func TestUpdateReviewerAccess(t *testing.T) {
	svc := setup(t)
	ctx := context.Background()
	rv := testutil.CreateReviewer(t, testDB.DB, "r@example.com", models.RoleReviewer, false, true)

	updated, err := svc.reviewers.Update(ctx, rv.ID, UpdateReviewerInput{Role: models.RoleReviewer, CanSeeSpeakerIdentity: true})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if ResolveAccessLevel(updated.Role, updated.CanSeeSpeakerIdentity) != models.AccessFullAccess {
		t.Errorf("Expected full access after update, got %+v", updated)
	}

	if _, err := svc.reviewers.Update(ctx, rv.ID+1000, UpdateReviewerInput{Role: models.RoleReadonly}); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("Expected NotFound, got %v", err)
	}

	list, err := svc.reviewers.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(list) != 1 {
		t.Errorf("Expected 1 reviewer, got %d", len(list))
	}

	missing, err := svc.reviewers.GetByEmail(ctx, "nobody@example.com")
	if err != nil || missing != nil {
		t.Errorf("Expected nil reviewer, got %v %v", missing, err)
	}
}
