// Package analytics forwards domain events to an external analytics sink.
package analytics

import (
	"context"
	"log/slog"
)

// Event names emitted by the services
const (
	EventSubmissionSubmitted        = "submission.submitted"
	EventSubmissionWithdrawn        = "submission.withdrawn"
	EventSubmissionStatusOverridden = "submission.status_overridden"
	EventDecisionMade               = "decision.made"
)

// Props are the event properties
type Props map[string]any

// Sink receives analytics events
type Sink interface {
	Track(ctx context.Context, event string, props Props) error
}

// LogSink writes events as structured log records
type LogSink struct {
	logger *slog.Logger
}

// NewLogSink creates a sink that logs to logger, or the default logger when nil
func NewLogSink(logger *slog.Logger) *LogSink {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogSink{logger: logger}
}

func (s *LogSink) Track(ctx context.Context, event string, props Props) error {
	attrs := make([]any, 0, len(props)*2+2)
	attrs = append(attrs, "event", event)
	for k, v := range props {
		attrs = append(attrs, k, v)
	}
	s.logger.InfoContext(ctx, "Analytics event", attrs...)
	return nil
}

// NopSink drops every event
type NopSink struct{}

func (NopSink) Track(context.Context, string, Props) error { return nil }

// New returns a LogSink when enabled and a NopSink otherwise
func New(enabled bool, logger *slog.Logger) Sink {
	if !enabled {
		return NopSink{}
	}
	return NewLogSink(logger)
}

// Emit tracks an event and logs, never returns, a sink failure
func Emit(ctx context.Context, sink Sink, event string, props Props) {
	if sink == nil {
		return
	}
	if err := sink.Track(ctx, event, props); err != nil {
		slog.WarnContext(ctx, "Failed to emit analytics event", "event", event, "error", err)
	}
}
