package service

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"cfp-engine/internal/analytics"
	"cfp-engine/internal/apperr"
	"cfp-engine/internal/models"
	"cfp-engine/internal/testutil"
)

func TestMakeDecisionDoesNotScheduleEmail(t *testing.T) {
	svc := setup(t)
	ctx := context.Background()
	sp := testutil.CreateSpeaker(t, testDB.DB, "s@example.com", true)
	sub := testutil.CreateSubmission(t, testDB.DB, sp.ID, models.StatusUnderReview)

	out, err := svc.decisions.MakeDecision(ctx, sub.ID, DecisionInput{
		Decision: models.StatusAccepted,
		Notes:    testutil.StringPtr("great talk"),
	}, "admin@example.com")
	if err != nil {
		t.Fatalf("MakeDecision failed: %v", err)
	}
	if out.PreviousStatus != models.StatusUnderReview || out.Status != models.StatusAccepted {
		t.Errorf("Unexpected outcome %+v", out)
	}

	status, err := svc.decisions.GetDecisionStatus(ctx, sub.ID)
	if err != nil {
		t.Fatalf("GetDecisionStatus failed: %v", err)
	}
	if len(status.ScheduledEmails) != 0 {
		t.Errorf("Expected no scheduled emails, got %d", len(status.ScheduledEmails))
	}
	if len(status.Decisions) != 1 || status.Decisions[0].DecidedBy != "admin@example.com" {
		t.Errorf("Expected one decision record, got %+v", status.Decisions)
	}
	last := status.History[len(status.History)-1]
	if last.Source != models.SourceDecision || last.Reason == nil || *last.Reason != "great talk" {
		t.Errorf("Unexpected history entry %+v", last)
	}
	if svc.sink.count(analytics.EventDecisionMade) != 1 {
		t.Errorf("Expected one decision event, got %v", svc.sink.events)
	}
}

func TestMakeDecisionRejectsInvalidInput(t *testing.T) {
	svc := setup(t)
	ctx := context.Background()
	sp := testutil.CreateSpeaker(t, testDB.DB, "s@example.com", true)
	draft := testutil.CreateSubmission(t, testDB.DB, sp.ID, models.StatusDraft)
	withdrawn := testutil.CreateSubmission(t, testDB.DB, sp.ID, models.StatusWithdrawn)
	sub := testutil.CreateSubmission(t, testDB.DB, sp.ID, models.StatusSubmitted)

	if _, err := svc.decisions.MakeDecision(ctx, sub.ID, DecisionInput{Decision: models.StatusShortlisted}, "a"); !errors.Is(err, apperr.ErrValidation) {
		t.Errorf("Expected validation error, got %v", err)
	}
	for _, id := range []uint{draft.ID, withdrawn.ID} {
		if _, err := svc.decisions.MakeDecision(ctx, id, DecisionInput{Decision: models.StatusAccepted}, "a"); !errors.Is(err, apperr.ErrInvalidTransition) {
			t.Errorf("Expected InvalidTransition for %d, got %v", id, err)
		}
	}
	if _, err := svc.decisions.MakeDecision(ctx, sub.ID+1000, DecisionInput{Decision: models.StatusAccepted}, "a"); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("Expected NotFound, got %v", err)
	}
}

func TestConcurrentDecisionsAreSerialized(t *testing.T) {
	svc := setup(t)
	ctx := context.Background()
	sp := testutil.CreateSpeaker(t, testDB.DB, "s@example.com", true)
	sub := testutil.CreateSubmission(t, testDB.DB, sp.ID, models.StatusUnderReview)

	var wg sync.WaitGroup
	var failures atomic.Int32
	for _, decision := range []string{models.StatusAccepted, models.StatusRejected} {
		wg.Add(1)
		go func(decision string) {
			defer wg.Done()
			if _, err := svc.decisions.MakeDecision(ctx, sub.ID, DecisionInput{Decision: decision}, "admin-"+decision); err != nil {
				failures.Add(1)
			}
		}(decision)
	}
	wg.Wait()

	if failures.Load() != 0 {
		t.Fatalf("Expected both decisions to succeed, %d failed", failures.Load())
	}

	status, err := svc.decisions.GetDecisionStatus(ctx, sub.ID)
	if err != nil {
		t.Fatalf("GetDecisionStatus failed: %v", err)
	}
	if len(status.Decisions) != 2 {
		t.Fatalf("Expected 2 decision records, got %d", len(status.Decisions))
	}
	last := status.Decisions[len(status.Decisions)-1]
	if status.Status != last.Decision {
		t.Errorf("Final status %s does not match last decision %s", status.Status, last.Decision)
	}
	if len(status.History) != 2 || status.History[1].FromStatus != status.History[0].ToStatus {
		t.Errorf("Expected a chained history, got %+v", status.History)
	}
}

func TestReDecisionCancelsPendingEmails(t *testing.T) {
	svc := setup(t)
	ctx := context.Background()
	sp := testutil.CreateSpeaker(t, testDB.DB, "s@example.com", true)
	sub := testutil.CreateSubmission(t, testDB.DB, sp.ID, models.StatusUnderReview)

	if _, err := svc.decisions.MakeDecision(ctx, sub.ID, DecisionInput{Decision: models.StatusAccepted}, "a"); err != nil {
		t.Fatalf("MakeDecision failed: %v", err)
	}
	future := time.Now().Add(48 * time.Hour)
	email, err := svc.decisions.ScheduleDecisionEmail(ctx, sub.ID, DecisionEmailInput{FireAt: &future}, "a")
	if err != nil {
		t.Fatalf("ScheduleDecisionEmail failed: %v", err)
	}

	// Same outcome again keeps the email
	out, err := svc.decisions.MakeDecision(ctx, sub.ID, DecisionInput{Decision: models.StatusAccepted}, "a")
	if err != nil {
		t.Fatalf("MakeDecision failed: %v", err)
	}
	if out.CancelledEmails != 0 {
		t.Errorf("Expected no cancellations for a repeated outcome, got %d", out.CancelledEmails)
	}

	out, err = svc.decisions.MakeDecision(ctx, sub.ID, DecisionInput{Decision: models.StatusRejected}, "a")
	if err != nil {
		t.Fatalf("MakeDecision failed: %v", err)
	}
	if out.CancelledEmails != 1 {
		t.Errorf("Expected 1 cancelled email, got %d", out.CancelledEmails)
	}

	got, err := svc.notifications.Get(ctx, email.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.CancelledAt == nil {
		t.Error("Expected accepted email to be cancelled")
	}
}

func TestScheduleDecisionEmail(t *testing.T) {
	svc := setup(t)
	ctx := context.Background()
	sp := testutil.CreateSpeaker(t, testDB.DB, "speaker@example.com", true)
	open := testutil.CreateSubmission(t, testDB.DB, sp.ID, models.StatusUnderReview)
	rejected := testutil.CreateSubmission(t, testDB.DB, sp.ID, models.StatusRejected)

	if _, err := svc.decisions.ScheduleDecisionEmail(ctx, open.ID, DecisionEmailInput{}, "a"); !errors.Is(err, apperr.ErrInvalidTransition) {
		t.Errorf("Expected invalid state for undecided submission, got %v", err)
	}
	if _, err := svc.decisions.ScheduleDecisionEmail(ctx, rejected.ID, DecisionEmailInput{Template: models.TemplateReviewerInvitation}, "a"); !errors.Is(err, apperr.ErrValidation) {
		t.Errorf("Expected validation error for non-decision template, got %v", err)
	}

	email, err := svc.decisions.ScheduleDecisionEmail(ctx, rejected.ID, DecisionEmailInput{}, "chair@example.com")
	if err != nil {
		t.Fatalf("ScheduleDecisionEmail failed: %v", err)
	}
	if email.Template != models.TemplateDecisionRejected || email.Recipient != sp.Email {
		t.Errorf("Unexpected email %+v", email)
	}
	if time.Since(email.FireAt) > time.Minute {
		t.Errorf("Expected fire_at to default to now, got %v", email.FireAt)
	}

	var payload map[string]any
	if err := json.Unmarshal(email.Payload, &payload); err != nil {
		t.Fatalf("Invalid payload: %v", err)
	}
	if payload["speaker_name"] != "Ada Lovelace" || payload["decision"] != models.StatusRejected || payload["scheduled_by"] != "chair@example.com" {
		t.Errorf("Unexpected payload %v", payload)
	}
}

func TestScheduleDecisionEmailWaitsForConcurrentDecision(t *testing.T) {
	svc := setup(t)
	ctx := context.Background()
	sp := testutil.CreateSpeaker(t, testDB.DB, "speaker@example.com", true)
	sub := testutil.CreateSubmission(t, testDB.DB, sp.ID, models.StatusAccepted)

	// Hold the row lock the way MakeDecision does while it flips the outcome
	tx, err := testDB.DB.BeginTx(ctx, nil)
	if err != nil {
		t.Fatalf("BeginTx failed: %v", err)
	}
	defer tx.Rollback()
	if _, err := tx.ExecContext(ctx, `SELECT id FROM submissions WHERE id = $1 FOR UPDATE`, sub.ID); err != nil {
		t.Fatalf("Lock failed: %v", err)
	}

	type result struct {
		email *models.ScheduledEmail
		err   error
	}
	done := make(chan result, 1)
	go func() {
		email, err := svc.decisions.ScheduleDecisionEmail(ctx, sub.ID, DecisionEmailInput{}, "chair@example.com")
		done <- result{email, err}
	}()

	select {
	case r := <-done:
		t.Fatalf("ScheduleDecisionEmail returned while the submission was locked: %+v %v", r.email, r.err)
	case <-time.After(300 * time.Millisecond):
	}

	if _, err := tx.ExecContext(ctx, `UPDATE submissions SET status = $2 WHERE id = $1`, sub.ID, models.StatusRejected); err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if err := tx.Commit(); err != nil {
		t.Fatalf("Commit failed: %v", err)
	}

	select {
	case r := <-done:
		if r.err != nil {
			t.Fatalf("ScheduleDecisionEmail failed: %v", r.err)
		}
		if r.email.Template != models.TemplateDecisionRejected {
			t.Errorf("Expected the email to follow the committed outcome, got %s", r.email.Template)
		}
	case <-time.After(10 * time.Second):
		t.Fatal("ScheduleDecisionEmail did not finish after the lock was released")
	}
}

func TestConcurrentDecisionAndEmailStayConsistent(t *testing.T) {
	svc := setup(t)
	ctx := context.Background()
	sp := testutil.CreateSpeaker(t, testDB.DB, "speaker@example.com", true)

	for i := 0; i < 10; i++ {
		sub := testutil.CreateSubmission(t, testDB.DB, sp.ID, models.StatusAccepted)

		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, _ = svc.decisions.ScheduleDecisionEmail(ctx, sub.ID, DecisionEmailInput{}, "chair@example.com")
		}()
		go func() {
			defer wg.Done()
			if _, err := svc.decisions.MakeDecision(ctx, sub.ID, DecisionInput{Decision: models.StatusRejected}, "chair@example.com"); err != nil {
				t.Errorf("MakeDecision failed: %v", err)
			}
		}()
		wg.Wait()

		status, err := svc.decisions.GetDecisionStatus(ctx, sub.ID)
		if err != nil {
			t.Fatalf("GetDecisionStatus failed: %v", err)
		}
		for _, e := range status.ScheduledEmails {
			if e.IsPending() && e.Template != models.TemplateDecisionRejected {
				t.Errorf("Round %d: pending %s email for a rejected submission", i, e.Template)
			}
		}
	}
}
