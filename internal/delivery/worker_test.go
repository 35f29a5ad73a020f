package delivery

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"cfp-engine/internal/config"
	"cfp-engine/internal/models"
)

type fakeQueue struct {
	mu     sync.Mutex
	emails []*models.ScheduledEmail
}

func (q *fakeQueue) ListDeliverable(_ context.Context, before time.Time, maxAttempts, limit int) ([]models.ScheduledEmail, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	var out []models.ScheduledEmail
	for _, e := range q.emails {
		if maxAttempts > 0 && e.Attempts >= maxAttempts {
			continue
		}
		if e.IsPending() && !e.FireAt.After(before) && len(out) < limit {
			out = append(out, *e)
		}
	}
	return out, nil
}

func (q *fakeQueue) find(id uint) *models.ScheduledEmail {
	for _, e := range q.emails {
		if e.ID == id {
			return e
		}
	}
	return nil
}

func (q *fakeQueue) MarkSent(_ context.Context, id uint) (*models.ScheduledEmail, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	e := q.find(id)
	now := time.Now()
	e.SentAt = &now
	return e, nil
}

func (q *fakeQueue) RecordFailure(_ context.Context, id uint, message string) (*models.ScheduledEmail, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	e := q.find(id)
	e.Attempts++
	e.LastError = &message
	return e, nil
}

type fakeSender struct {
	mu      sync.Mutex
	sent    []string
	failFor string
}

func (s *fakeSender) Send(to, subject, _ string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if to == s.failFor {
		return errors.New("mailbox unavailable")
	}
	s.sent = append(s.sent, to+"|"+subject)
	return nil
}

func newEmail(id uint, template, recipient string, fireAt time.Time) *models.ScheduledEmail {
	return &models.ScheduledEmail{
		ID:        id,
		Template:  template,
		Recipient: recipient,
		Payload:   json.RawMessage(`{"title":"Go at scale","speaker_name":"Ada"}`),
		FireAt:    fireAt,
	}
}

func TestRunOnce(t *testing.T) {
	now := time.Now()
	queue := &fakeQueue{emails: []*models.ScheduledEmail{
		newEmail(1, models.TemplateDecisionAccepted, "ok@example.com", now.Add(-time.Minute)),
		newEmail(2, models.TemplateDecisionRejected, "bounce@example.com", now.Add(-time.Minute)),
		newEmail(3, models.TemplateDecisionAccepted, "later@example.com", now.Add(time.Hour)),
		newEmail(4, "newsletter", "unknown@example.com", now.Add(-time.Minute)),
	}}
	exhausted := newEmail(5, models.TemplateDecisionAccepted, "tired@example.com", now.Add(-time.Minute))
	exhausted.Attempts = 3
	queue.emails = append(queue.emails, exhausted)

	sender := &fakeSender{failFor: "bounce@example.com"}
	w := NewWorker(queue, sender, &config.DeliveryConfig{PollInterval: time.Second, BatchSize: 10, MaxAttempts: 3})

	stats, err := w.RunOnce(context.Background())
	if err != nil {
		t.Fatalf("RunOnce failed: %v", err)
	}
	if stats.Sent != 1 || stats.Failed != 2 {
		t.Errorf("Unexpected stats %+v", stats)
	}

	if len(sender.sent) != 1 || sender.sent[0] != "ok@example.com|Accepted: Go at scale" {
		t.Errorf("Unexpected sends %v", sender.sent)
	}
	if queue.find(1).SentAt == nil {
		t.Error("Expected email 1 to be marked sent")
	}

	bounced := queue.find(2)
	if bounced.SentAt != nil || bounced.Attempts != 1 || !strings.Contains(*bounced.LastError, "mailbox unavailable") {
		t.Errorf("Expected failure to be recorded, got %+v", bounced)
	}
	if queue.find(3).SentAt != nil {
		t.Error("Future email must not be sent")
	}
	if queue.find(4).Attempts != 1 {
		t.Error("Unknown template should count as a failed attempt")
	}

	// A second pass only retries the failures that still have attempts left
	stats, err = w.RunOnce(context.Background())
	if err != nil {
		t.Fatalf("RunOnce failed: %v", err)
	}
	if stats.Sent != 0 || stats.Failed != 2 {
		t.Errorf("Unexpected stats on second pass %+v", stats)
	}
	if queue.find(5).Attempts != 3 || queue.find(5).SentAt != nil {
		t.Errorf("Exhausted email must be left alone, got %+v", queue.find(5))
	}
}

func TestExhaustedEmailsDoNotBlockTheBatch(t *testing.T) {
	now := time.Now()
	var emails []*models.ScheduledEmail
	for i := uint(1); i <= 2; i++ {
		e := newEmail(i, models.TemplateDecisionAccepted, "dead@example.com", now.Add(-time.Hour))
		e.Attempts = 5
		emails = append(emails, e)
	}
	emails = append(emails, newEmail(3, models.TemplateDecisionAccepted, "fresh@example.com", now.Add(-time.Minute)))
	queue := &fakeQueue{emails: emails}

	sender := &fakeSender{}
	w := NewWorker(queue, sender, &config.DeliveryConfig{PollInterval: time.Second, BatchSize: 2, MaxAttempts: 5})

	stats, err := w.RunOnce(context.Background())
	if err != nil {
		t.Fatalf("RunOnce failed: %v", err)
	}
	if stats.Sent != 1 || queue.find(3).SentAt == nil {
		t.Errorf("Fresh email should be delivered despite exhausted ones ahead of it, stats %+v", stats)
	}
	if len(sender.sent) != 1 || !strings.HasPrefix(sender.sent[0], "fresh@example.com|") {
		t.Errorf("Unexpected sends %v", sender.sent)
	}
}

func TestRunStopsOnContextCancel(t *testing.T) {
	queue := &fakeQueue{}
	w := NewWorker(queue, &fakeSender{}, &config.DeliveryConfig{PollInterval: 10 * time.Millisecond, BatchSize: 10})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Run(ctx)
		close(done)
	}()

	time.Sleep(30 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestStop(t *testing.T) {
	w := NewWorker(&fakeQueue{}, &fakeSender{}, &config.DeliveryConfig{PollInterval: time.Hour, BatchSize: 10})

	done := make(chan struct{})
	go func() {
		w.Run(context.Background())
		close(done)
	}()
	w.Stop()
	w.Stop()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after Stop")
	}
}
