package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"cfp-engine/internal/analytics"
	"cfp-engine/internal/apperr"
	"cfp-engine/internal/models"
	"cfp-engine/internal/testutil"
)

func TestCreateDraftQuota(t *testing.T) {
	svc := setup(t)
	ctx := context.Background()
	sp := testutil.CreateSpeaker(t, testDB.DB, "quota@example.com", true)

	for i := 0; i < 5; i++ {
		if _, err := svc.submissions.CreateDraft(ctx, sp.ID, validInput(fmt.Sprintf("Talk %d", i))); err != nil {
			t.Fatalf("CreateDraft %d failed: %v", i, err)
		}
	}

	_, err := svc.submissions.CreateDraft(ctx, sp.ID, validInput("Sixth"))
	if !errors.Is(err, apperr.ErrQuotaExceeded) {
		t.Fatalf("Expected QuotaExceeded on the sixth draft, got %v", err)
	}
	if apperr.HTTPStatus(apperr.KindOf(err)) != 422 {
		t.Errorf("Expected 422, got %d", apperr.HTTPStatus(apperr.KindOf(err)))
	}
}

func TestWithdrawnSubmissionsDoNotCountTowardsQuota(t *testing.T) {
	svc := setup(t)
	ctx := context.Background()
	sp := testutil.CreateSpeaker(t, testDB.DB, "withdrawn@example.com", true)

	for i := 0; i < 4; i++ {
		testutil.CreateSubmission(t, testDB.DB, sp.ID, models.StatusSubmitted)
	}
	testutil.CreateSubmission(t, testDB.DB, sp.ID, models.StatusWithdrawn)

	if _, err := svc.submissions.CreateDraft(ctx, sp.ID, validInput("Fifth active")); err != nil {
		t.Fatalf("Expected draft to be allowed, got %v", err)
	}
}

func TestCreateDraftValidation(t *testing.T) {
	svc := setup(t)
	ctx := context.Background()
	sp := testutil.CreateSpeaker(t, testDB.DB, "v@example.com", true)

	in := validInput("")
	in.Type = "keynote"
	_, err := svc.submissions.CreateDraft(ctx, sp.ID, in)

	var appErr *apperr.Error
	if !errors.As(err, &appErr) || appErr.Kind != apperr.KindValidation {
		t.Fatalf("Expected validation error, got %v", err)
	}
	if _, ok := appErr.Fields["title"]; !ok {
		t.Errorf("Expected title field error, got %v", appErr.Fields)
	}
	if _, ok := appErr.Fields["type"]; !ok {
		t.Errorf("Expected type field error, got %v", appErr.Fields)
	}
}

func TestCreateDraftDeduplicatesTags(t *testing.T) {
	svc := setup(t)
	ctx := context.Background()
	sp := testutil.CreateSpeaker(t, testDB.DB, "tags@example.com", true)

	in := validInput("Tags")
	in.Tags = []string{"Go", "go", " GO ", "postgres"}
	sub, err := svc.submissions.CreateDraft(ctx, sp.ID, in)
	if err != nil {
		t.Fatalf("CreateDraft failed: %v", err)
	}
	if len(sub.Tags) != 2 {
		t.Fatalf("Expected 2 tags, got %+v", sub.Tags)
	}

	other := testutil.CreateSpeaker(t, testDB.DB, "tags2@example.com", true)
	in.Tags = []string{"GO"}
	sub2, err := svc.submissions.CreateDraft(ctx, other.ID, in)
	if err != nil {
		t.Fatalf("CreateDraft failed: %v", err)
	}
	if len(sub2.Tags) != 1 || sub2.Tags[0].ID != sub.Tags[0].ID {
		t.Errorf("Expected the existing go tag to be reused, got %+v vs %+v", sub2.Tags, sub.Tags)
	}
}

func TestSubmitFlow(t *testing.T) {
	svc := setup(t)
	ctx := context.Background()
	sp := testutil.CreateSpeaker(t, testDB.DB, "submit@example.com", true)

	draft, err := svc.submissions.CreateDraft(ctx, sp.ID, validInput("Submit me"))
	if err != nil {
		t.Fatalf("CreateDraft failed: %v", err)
	}

	sub, err := svc.submissions.Submit(ctx, sp.ID, draft.ID)
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	if sub.Status != models.StatusSubmitted || sub.SubmittedAt == nil {
		t.Errorf("Expected submitted with timestamp, got %s %v", sub.Status, sub.SubmittedAt)
	}

	_, err = svc.submissions.Submit(ctx, sp.ID, draft.ID)
	if !errors.Is(err, apperr.ErrInvalidTransition) {
		t.Errorf("Expected InvalidTransition on double submit, got %v", err)
	}

	history, err := svc.submissions.GetHistory(ctx, sp.ID, draft.ID)
	if err != nil {
		t.Fatalf("GetHistory failed: %v", err)
	}
	if len(history) != 1 || history[0].FromStatus != models.StatusDraft || history[0].Source != models.SourceSpeaker {
		t.Errorf("Expected one speaker history entry, got %+v", history)
	}

	if len(svc.sink.events) != 1 || svc.sink.events[0] != analytics.EventSubmissionSubmitted {
		t.Errorf("Expected a submitted event, got %v", svc.sink.events)
	}
}

func TestSubmitRequiresCompleteProfile(t *testing.T) {
	svc := setup(t)
	ctx := context.Background()
	sp := testutil.CreateSpeaker(t, testDB.DB, "incomplete@example.com", false)

	draft, err := svc.submissions.CreateDraft(ctx, sp.ID, validInput("Needs profile"))
	if err != nil {
		t.Fatalf("Drafts should not require a complete profile: %v", err)
	}

	_, err = svc.submissions.Submit(ctx, sp.ID, draft.ID)
	var appErr *apperr.Error
	if !errors.As(err, &appErr) || appErr.Kind != apperr.KindProfileIncomplete {
		t.Fatalf("Expected ProfileIncomplete, got %v", err)
	}
	if _, ok := appErr.Fields["bio"]; !ok {
		t.Errorf("Expected bio in missing fields, got %v", appErr.Fields)
	}
}

func TestSubmitRechecksQuota(t *testing.T) {
	svc := setup(t)
	ctx := context.Background()
	sp := testutil.CreateSpeaker(t, testDB.DB, "recheck@example.com", true)

	draft, err := svc.submissions.CreateDraft(ctx, sp.ID, validInput("Early draft"))
	if err != nil {
		t.Fatalf("CreateDraft failed: %v", err)
	}
	for i := 0; i < 5; i++ {
		testutil.CreateSubmission(t, testDB.DB, sp.ID, models.StatusSubmitted)
	}

	if _, err := svc.submissions.Submit(ctx, sp.ID, draft.ID); !errors.Is(err, apperr.ErrQuotaExceeded) {
		t.Errorf("Expected QuotaExceeded on submit, got %v", err)
	}
}

func TestCrossTenantAccessIsNotFound(t *testing.T) {
	svc := setup(t)
	ctx := context.Background()
	owner := testutil.CreateSpeaker(t, testDB.DB, "owner@example.com", true)
	intruder := testutil.CreateSpeaker(t, testDB.DB, "intruder@example.com", true)

	draft, err := svc.submissions.CreateDraft(ctx, owner.ID, validInput("Mine"))
	if err != nil {
		t.Fatalf("CreateDraft failed: %v", err)
	}

	checks := map[string]error{}
	_, checks["get"] = svc.submissions.GetOwn(ctx, intruder.ID, draft.ID)
	_, checks["update"] = svc.submissions.UpdateDraft(ctx, intruder.ID, draft.ID, validInput("Hijacked"))
	_, checks["submit"] = svc.submissions.Submit(ctx, intruder.ID, draft.ID)
	checks["delete"] = svc.submissions.DeleteDraft(ctx, intruder.ID, draft.ID)
	_, checks["missing"] = svc.submissions.GetOwn(ctx, owner.ID, draft.ID+1000)

	for op, err := range checks {
		if !errors.Is(err, apperr.ErrNotFound) {
			t.Errorf("%s: expected NotFound, got %v", op, err)
		}
	}

	got, err := svc.submissions.GetOwn(ctx, owner.ID, draft.ID)
	if err != nil || got.Title != "Mine" {
		t.Errorf("Owner should still see the untouched draft, got %v %v", got, err)
	}
}

func TestDraftOnlyEditsAndDelete(t *testing.T) {
	svc := setup(t)
	ctx := context.Background()
	sp := testutil.CreateSpeaker(t, testDB.DB, "edit@example.com", true)

	draft, err := svc.submissions.CreateDraft(ctx, sp.ID, validInput("Original"))
	if err != nil {
		t.Fatalf("CreateDraft failed: %v", err)
	}

	in := validInput("Renamed")
	in.Tags = nil
	updated, err := svc.submissions.UpdateDraft(ctx, sp.ID, draft.ID, in)
	if err != nil {
		t.Fatalf("UpdateDraft failed: %v", err)
	}
	if updated.Title != "Renamed" || len(updated.Tags) != 0 {
		t.Errorf("Expected renamed draft without tags, got %q %+v", updated.Title, updated.Tags)
	}

	if _, err := svc.submissions.Submit(ctx, sp.ID, draft.ID); err != nil {
		t.Fatalf("Submit failed: %v", err)
	}

	if _, err := svc.submissions.UpdateDraft(ctx, sp.ID, draft.ID, validInput("Too late")); !errors.Is(err, apperr.ErrInvalidTransition) {
		t.Errorf("Expected InvalidTransition on edit after submit, got %v", err)
	}
	if err := svc.submissions.DeleteDraft(ctx, sp.ID, draft.ID); !errors.Is(err, apperr.ErrInvalidTransition) {
		t.Errorf("Expected InvalidTransition on delete after submit, got %v", err)
	}

	other, err := svc.submissions.CreateDraft(ctx, sp.ID, validInput("Disposable"))
	if err != nil {
		t.Fatalf("CreateDraft failed: %v", err)
	}
	if err := svc.submissions.DeleteDraft(ctx, sp.ID, other.ID); err != nil {
		t.Fatalf("DeleteDraft failed: %v", err)
	}
	if _, err := svc.submissions.GetOwn(ctx, sp.ID, other.ID); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("Expected deleted draft to be gone, got %v", err)
	}
}

func TestRevertedDraftCannotBeDeleted(t *testing.T) {
	svc := setup(t)
	ctx := context.Background()
	sp := testutil.CreateSpeaker(t, testDB.DB, "revert@example.com", true)
	rv := testutil.CreateReviewer(t, testDB.DB, "revert-reviewer@example.com", models.RoleReviewer, true, true)

	draft, err := svc.submissions.CreateDraft(ctx, sp.ID, validInput("Reverted"))
	if err != nil {
		t.Fatalf("CreateDraft failed: %v", err)
	}
	if _, err := svc.submissions.Submit(ctx, sp.ID, draft.ID); err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	testutil.CreateReview(t, testDB.DB, draft.ID, rv.ID, testutil.IntPtr(7))

	if _, err := svc.submissions.AdminOverride(ctx, draft.ID, OverrideInput{Status: models.StatusDraft, Reason: "fix typo"}, "admin@example.com"); err != nil {
		t.Fatalf("AdminOverride failed: %v", err)
	}

	if err := svc.submissions.DeleteDraft(ctx, sp.ID, draft.ID); !errors.Is(err, apperr.ErrInvalidTransition) {
		t.Fatalf("Expected InvalidTransition deleting a reverted draft, got %v", err)
	}

	history, err := svc.submissions.GetHistory(ctx, sp.ID, draft.ID)
	if err != nil {
		t.Fatalf("GetHistory failed: %v", err)
	}
	found := false
	for _, h := range history {
		if h.Source == models.SourceOverride && h.ToStatus == models.StatusDraft {
			found = true
		}
	}
	if !found {
		t.Errorf("Override history should survive the delete attempt, got %+v", history)
	}

	// Edits are still allowed so the speaker can resubmit
	if _, err := svc.submissions.UpdateDraft(ctx, sp.ID, draft.ID, validInput("Reverted, fixed")); err != nil {
		t.Errorf("UpdateDraft on reverted draft failed: %v", err)
	}
}

func TestWithdraw(t *testing.T) {
	svc := setup(t)
	ctx := context.Background()
	sp := testutil.CreateSpeaker(t, testDB.DB, "withdraw@example.com", true)

	draft := testutil.CreateSubmission(t, testDB.DB, sp.ID, models.StatusDraft)
	if _, err := svc.submissions.Withdraw(ctx, sp.ID, draft.ID); !errors.Is(err, apperr.ErrInvalidTransition) {
		t.Errorf("Expected InvalidTransition from draft, got %v", err)
	}

	for _, status := range []string{
		models.StatusSubmitted, models.StatusUnderReview, models.StatusShortlisted,
		models.StatusWaitlisted, models.StatusAccepted, models.StatusRejected,
	} {
		sub := testutil.CreateSubmission(t, testDB.DB, sp.ID, status)
		got, err := svc.submissions.Withdraw(ctx, sp.ID, sub.ID)
		if err != nil {
			t.Errorf("Withdraw from %s failed: %v", status, err)
			continue
		}
		if got.Status != models.StatusWithdrawn {
			t.Errorf("Expected withdrawn, got %s", got.Status)
		}
		if _, err := svc.submissions.Withdraw(ctx, sp.ID, sub.ID); !errors.Is(err, apperr.ErrInvalidTransition) {
			t.Errorf("Expected InvalidTransition on second withdraw, got %v", err)
		}
	}
}

func TestAdminOverride(t *testing.T) {
	svc := setup(t)
	ctx := context.Background()
	sp := testutil.CreateSpeaker(t, testDB.DB, "override@example.com", true)
	sub := testutil.CreateSubmission(t, testDB.DB, sp.ID, models.StatusSubmitted)

	t.Run("reason required", func(t *testing.T) {
		_, err := svc.submissions.AdminOverride(ctx, sub.ID, OverrideInput{Status: models.StatusShortlisted, Reason: "  "}, "admin@example.com")
		if !errors.Is(err, apperr.ErrValidation) {
			t.Errorf("Expected validation error, got %v", err)
		}
	})

	t.Run("decision targets rejected", func(t *testing.T) {
		for _, to := range []string{models.StatusAccepted, models.StatusRejected, models.StatusSubmitted} {
			_, err := svc.submissions.AdminOverride(ctx, sub.ID, OverrideInput{Status: to, Reason: "because"}, "admin@example.com")
			if !errors.Is(err, apperr.ErrInvalidTransition) {
				t.Errorf("Expected InvalidTransition for %s, got %v", to, err)
			}
		}
	})

	t.Run("missing submission", func(t *testing.T) {
		_, err := svc.submissions.AdminOverride(ctx, sub.ID+999, OverrideInput{Status: models.StatusShortlisted, Reason: "x"}, "admin@example.com")
		if !errors.Is(err, apperr.ErrNotFound) {
			t.Errorf("Expected NotFound, got %v", err)
		}
	})

	t.Run("writes history", func(t *testing.T) {
		got, err := svc.submissions.AdminOverride(ctx, sub.ID, OverrideInput{Status: models.StatusShortlisted, Reason: "strong reviews"}, "admin@example.com")
		if err != nil {
			t.Fatalf("AdminOverride failed: %v", err)
		}
		if got.Status != models.StatusShortlisted {
			t.Errorf("Expected shortlisted, got %s", got.Status)
		}

		status, err := svc.decisions.GetDecisionStatus(ctx, sub.ID)
		if err != nil {
			t.Fatalf("GetDecisionStatus failed: %v", err)
		}
		last := status.History[len(status.History)-1]
		if last.Source != models.SourceOverride || last.Reason == nil || *last.Reason != "strong reviews" || last.ChangedBy != "admin@example.com" {
			t.Errorf("Unexpected history entry %+v", last)
		}
	})

	t.Run("leaving a decision cancels pending decision emails", func(t *testing.T) {
		if _, err := svc.decisions.MakeDecision(ctx, sub.ID, DecisionInput{Decision: models.StatusAccepted}, "admin@example.com"); err != nil {
			t.Fatalf("MakeDecision failed: %v", err)
		}
		future := time.Now().Add(24 * time.Hour)
		email, err := svc.decisions.ScheduleDecisionEmail(ctx, sub.ID, DecisionEmailInput{FireAt: &future}, "admin@example.com")
		if err != nil {
			t.Fatalf("ScheduleDecisionEmail failed: %v", err)
		}

		if _, err := svc.submissions.AdminOverride(ctx, sub.ID, OverrideInput{Status: models.StatusWaitlisted, Reason: "budget"}, "admin@example.com"); err != nil {
			t.Fatalf("AdminOverride failed: %v", err)
		}

		got, err := svc.notifications.Get(ctx, email.ID)
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if got.CancelledAt == nil {
			t.Error("Expected the pending decision email to be cancelled")
		}
	})
}
