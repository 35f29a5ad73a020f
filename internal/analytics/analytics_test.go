package analytics

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

type failingSink struct{ calls int }

func (f *failingSink) Track(context.Context, string, Props) error {
	f.calls++
	return errors.New("sink down")
}

func TestLogSinkWritesEvent(t *testing.T) {
	var buf bytes.Buffer
	sink := NewLogSink(slog.New(slog.NewJSONHandler(&buf, nil)))

	if err := sink.Track(context.Background(), EventDecisionMade, Props{"submission_id": 7}); err != nil {
		t.Fatalf("Track returned error: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, `"event":"decision.made"`) {
		t.Errorf("Expected event name in log output, got %s", out)
	}
	if !strings.Contains(out, `"submission_id":7`) {
		t.Errorf("Expected props in log output, got %s", out)
	}
}

func TestNewDisabledReturnsNop(t *testing.T) {
	if _, ok := New(false, nil).(NopSink); !ok {
		t.Error("Expected NopSink when analytics is disabled")
	}
	if _, ok := New(true, nil).(*LogSink); !ok {
		t.Error("Expected LogSink when analytics is enabled")
	}
}

func TestEmitSwallowsErrors(t *testing.T) {
	sink := &failingSink{}
	Emit(context.Background(), sink, EventSubmissionSubmitted, nil)
	if sink.calls != 1 {
		t.Errorf("Expected one call, got %d", sink.calls)
	}

	Emit(context.Background(), nil, EventSubmissionSubmitted, nil)
}
