package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestSetupJSON(t *testing.T) {
	var buf bytes.Buffer
	l := Setup(Config{Level: "warn", Output: &buf})

	l.Info("hidden")
	l.Warn("shown", "submission_id", 7)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected 1 log line, got %d: %q", len(lines), buf.String())
	}

	var entry map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("log line is not JSON: %v", err)
	}
	if entry["msg"] != "shown" {
		t.Errorf("msg = %v", entry["msg"])
	}
	if entry["submission_id"] != float64(7) {
		t.Errorf("submission_id = %v", entry["submission_id"])
	}
}

func TestSetupText(t *testing.T) {
	var buf bytes.Buffer
	l := Setup(Config{Level: "debug", Format: "text", Output: &buf})
	l.Debug("debugging")
	if !strings.Contains(buf.String(), "msg=debugging") {
		t.Errorf("unexpected text output %q", buf.String())
	}
}

func TestFromContext(t *testing.T) {
	var buf bytes.Buffer
	base := slog.New(slog.NewJSONHandler(&buf, nil)).With("request_id", "abc")

	ctx := WithContext(context.Background(), base)
	FromContext(ctx).Info("hello")

	if !strings.Contains(buf.String(), `"request_id":"abc"`) {
		t.Errorf("request-scoped attributes missing: %q", buf.String())
	}

	if FromContext(context.Background()) != slog.Default() {
		t.Error("expected default logger without a stored one")
	}
}

func TestGetLevel(t *testing.T) {
	cases := map[string]string{"debug": "DEBUG", "Warn": "WARN", "bogus": "INFO", "": "INFO"}
	for in, want := range cases {
		if got := GetLevel(in); got != want {
			t.Errorf("GetLevel(%q) = %q, want %q", in, got, want)
		}
	}
}
