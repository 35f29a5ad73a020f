// Package delivery drains the scheduled email queue.
package delivery

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"cfp-engine/internal/config"
	"cfp-engine/internal/email"
	"cfp-engine/internal/models"
)

// Queue is the subset of the notification service the worker needs
type Queue interface {
	ListDeliverable(ctx context.Context, before time.Time, maxAttempts, limit int) ([]models.ScheduledEmail, error)
	MarkSent(ctx context.Context, id uint) (*models.ScheduledEmail, error)
	RecordFailure(ctx context.Context, id uint, message string) (*models.ScheduledEmail, error)
}

// Sender delivers a rendered message
type Sender interface {
	Send(to, subject, body string) error
}

// Stats summarizes one pass over the queue
type Stats struct {
	Sent   int `json:"sent"`
	Failed int `json:"failed"`
}

// Worker polls the queue and sends due emails
type Worker struct {
	queue    Queue
	sender   Sender
	config   *config.DeliveryConfig
	stopChan chan struct{}
	stopOnce sync.Once
	now      func() time.Time
}

// NewWorker creates a new delivery worker
func NewWorker(queue Queue, sender Sender, cfg *config.DeliveryConfig) *Worker {
	return &Worker{
		queue:    queue,
		sender:   sender,
		config:   cfg,
		stopChan: make(chan struct{}),
		now:      time.Now,
	}
}

// Run processes the queue immediately and then on every poll interval until
// ctx is done or Stop is called.
func (w *Worker) Run(ctx context.Context) {
	slog.Info("Starting delivery worker",
		"poll_interval", w.config.PollInterval,
		"batch_size", w.config.BatchSize,
		"max_attempts", w.config.MaxAttempts)

	ticker := time.NewTicker(w.config.PollInterval)
	defer ticker.Stop()

	w.runLogged(ctx)
	for {
		select {
		case <-ticker.C:
			w.runLogged(ctx)
		case <-ctx.Done():
			slog.Info("Delivery worker stopped", "reason", ctx.Err())
			return
		case <-w.stopChan:
			slog.Info("Delivery worker stopped")
			return
		}
	}
}

// Stop ends Run
func (w *Worker) Stop() {
	w.stopOnce.Do(func() { close(w.stopChan) })
}

func (w *Worker) runLogged(ctx context.Context) {
	stats, err := w.RunOnce(ctx)
	if err != nil {
		slog.Error("Delivery pass failed", "error", err)
		return
	}
	if stats.Sent+stats.Failed > 0 {
		slog.Info("Delivery pass finished", "sent", stats.Sent, "failed", stats.Failed)
	}
}

// RunOnce sends one batch of due emails. Emails that exhausted their attempts
// are not fetched, stay pending and are left for an operator.
func (w *Worker) RunOnce(ctx context.Context) (Stats, error) {
	var stats Stats

	emails, err := w.queue.ListDeliverable(ctx, w.now(), w.config.MaxAttempts, w.config.BatchSize)
	if err != nil {
		return stats, err
	}

	for _, e := range emails {
		if ctx.Err() != nil {
			return stats, ctx.Err()
		}
		if err := w.deliver(e); err != nil {
			slog.Warn("Email delivery failed", "email_id", e.ID, "template", e.Template, "attempt", e.Attempts+1, "error", err)
			if _, ferr := w.queue.RecordFailure(ctx, e.ID, err.Error()); ferr != nil {
				slog.Error("Failed to record delivery failure", "email_id", e.ID, "error", ferr)
			}
			stats.Failed++
			continue
		}

		if _, err := w.queue.MarkSent(ctx, e.ID); err != nil {
			// The email went out; only the bookkeeping failed
			slog.Error("Failed to mark email as sent", "email_id", e.ID, "error", err)
		}
		stats.Sent++
	}
	return stats, nil
}

func (w *Worker) deliver(e models.ScheduledEmail) error {
	msg, err := email.Render(e.Template, e.Payload)
	if err != nil {
		return err
	}
	return w.sender.Send(e.Recipient, msg.Subject, msg.Body)
}
