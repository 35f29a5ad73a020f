package email

import (
	"encoding/json"
	"errors"
	"net"
	"net/textproto"
	"strings"
	"testing"
	"time"

	"cfp-engine/internal/config"
	"cfp-engine/internal/models"
)

func TestRenderTemplates(t *testing.T) {
	tests := []struct {
		name        string
		template    string
		payload     string
		wantSubject string
		wantBody    []string
	}{
		{
			name:        "invitation",
			template:    models.TemplateReviewerInvitation,
			payload:     `{"name":"Grace","role":"reviewer","activation_url":"https://cfp.example.com/activate?token=abc"}`,
			wantSubject: "You're invited to review talks",
			wantBody:    []string{"Hello Grace,", "<strong>reviewer</strong>", "https://cfp.example.com/activate?token=abc"},
		},
		{
			name:        "accepted",
			template:    models.TemplateDecisionAccepted,
			payload:     `{"title":"Go at scale","speaker_name":"Ada Lovelace","conference_url":"https://conf.example.com"}`,
			wantSubject: "Accepted: Go at scale",
			wantBody:    []string{"Hello Ada Lovelace,", "<strong>Go at scale</strong> was accepted", "https://conf.example.com"},
		},
		{
			name:        "rejected",
			template:    models.TemplateDecisionRejected,
			payload:     `{"title":"Go at scale","speaker_name":"Ada Lovelace"}`,
			wantSubject: "Your submission: Go at scale",
			wantBody:    []string{"Thank you for proposing <strong>Go at scale</strong>"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Render(tt.template, json.RawMessage(tt.payload))
			if err != nil {
				t.Fatalf("Render failed: %v", err)
			}
			if got.Subject != tt.wantSubject {
				t.Errorf("Subject = %q, want %q", got.Subject, tt.wantSubject)
			}
			for _, want := range tt.wantBody {
				if !strings.Contains(got.Body, want) {
					t.Errorf("Body missing %q:\n%s", want, got.Body)
				}
			}
		})
	}
}

func TestRenderEscapesPayload(t *testing.T) {
	got, err := Render(models.TemplateDecisionAccepted, json.RawMessage(`{"title":"<script>alert(1)</script>","speaker_name":"x"}`))
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if strings.Contains(got.Body, "<script>") {
		t.Error("Expected title to be HTML-escaped")
	}
}

func TestRenderErrors(t *testing.T) {
	if _, err := Render("newsletter", nil); !errors.Is(err, ErrUnknownTemplate) {
		t.Errorf("Expected ErrUnknownTemplate, got %v", err)
	}
	if _, err := Render(models.TemplateDecisionAccepted, json.RawMessage(`[1,2]`)); err == nil {
		t.Error("Expected error for non-object payload")
	}
	if _, err := Render(models.TemplateDecisionRejected, nil); err != nil {
		t.Errorf("Empty payload should render, got %v", err)
	}
}

// fakeSMTP accepts one message and hands its DATA section to the returned channel
func fakeSMTP(t *testing.T) (string, string, <-chan string) {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("Failed to listen: %v", err)
	}
	t.Cleanup(func() { ln.Close() })

	received := make(chan string, 1)
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()

		tp := textproto.NewConn(conn)
		tp.PrintfLine("220 localhost ESMTP test")
		for {
			line, err := tp.ReadLine()
			if err != nil {
				return
			}
			cmd := strings.ToUpper(line)
			switch {
			case strings.HasPrefix(cmd, "EHLO"), strings.HasPrefix(cmd, "HELO"):
				tp.PrintfLine("250 localhost")
			case strings.HasPrefix(cmd, "DATA"):
				tp.PrintfLine("354 end with <CR><LF>.<CR><LF>")
				lines, err := tp.ReadDotLines()
				if err != nil {
					return
				}
				received <- strings.Join(lines, "\n")
				tp.PrintfLine("250 queued")
			case strings.HasPrefix(cmd, "QUIT"):
				tp.PrintfLine("221 bye")
				return
			default:
				tp.PrintfLine("250 OK")
			}
		}
	}()

	host, port, _ := net.SplitHostPort(ln.Addr().String())
	return host, port, received
}

func TestSendDeliversMessage(t *testing.T) {
	host, port, received := fakeSMTP(t)
	svc := NewService(&config.EmailConfig{SMTPHost: host, SMTPPort: port, SMTPFrom: "cfp@example.com"})

	if err := svc.Send("ada@example.com", "Accepted: Go at scale", "<p>hello</p>"); err != nil {
		t.Fatalf("Send failed: %v", err)
	}

	select {
	case data := <-received:
		for _, want := range []string{"To: ada@example.com", "Subject: Accepted: Go at scale", "<p>hello</p>"} {
			if !strings.Contains(data, want) {
				t.Errorf("Message missing %q:\n%s", want, data)
			}
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Timed out waiting for message")
	}
}

func TestBuildMessageHeaders(t *testing.T) {
	now := time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)
	msg := buildMessage("cfp@conf.example.org", "ada@example.com", "Hello", "<p>body</p>", now).String()

	head, body, ok := strings.Cut(msg, "\r\n\r\n")
	if !ok {
		t.Fatalf("Missing header separator:\n%s", msg)
	}
	if body != "<p>body</p>" {
		t.Errorf("body = %q", body)
	}

	lines := strings.Split(head, "\r\n")
	wantOrder := []string{"From:", "To:", "Subject:", "Date:", "Message-ID:", "MIME-Version:", "Content-Type:"}
	if len(lines) != len(wantOrder) {
		t.Fatalf("Got %d header lines, want %d", len(lines), len(wantOrder))
	}
	for i, prefix := range wantOrder {
		if !strings.HasPrefix(lines[i], prefix) {
			t.Errorf("header %d = %q, want prefix %q", i, lines[i], prefix)
		}
	}
	if !strings.HasSuffix(lines[4], "@conf.example.org>") {
		t.Errorf("Message-ID should use the sender domain: %q", lines[4])
	}
	if lines[3] != "Date: Sun, 01 Mar 2026 09:30:00 +0000" {
		t.Errorf("Date header = %q", lines[3])
	}
}

func TestSendFailsWithoutServer(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("Failed to listen: %v", err)
	}
	host, port, _ := net.SplitHostPort(ln.Addr().String())
	ln.Close()

	svc := NewService(&config.EmailConfig{SMTPHost: host, SMTPPort: port, SMTPFrom: "cfp@example.com"})
	if err := svc.Send("ada@example.com", "s", "b"); err == nil {
		t.Error("Expected connection error")
	}
}
