package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"cfp-engine/internal/auth"
	"cfp-engine/internal/config"
	"cfp-engine/internal/logger"
	"cfp-engine/internal/models"

	"github.com/google/uuid"
)

type stubTokens struct {
	claims map[string]*auth.JWTClaims
}

func (s *stubTokens) ValidateToken(token string) (*auth.JWTClaims, error) {
	if token == "expired" {
		return nil, auth.ErrExpiredToken
	}
	c, ok := s.claims[token]
	if !ok {
		return nil, auth.ErrInvalidToken
	}
	return c, nil
}

type stubSpeakers struct {
	disabled bool
}

func (s *stubSpeakers) EnsureSpeaker(_ context.Context, email string) (*models.Speaker, error) {
	return &models.Speaker{ID: 7, Email: email, IsDisabled: s.disabled}, nil
}

type stubReviewers struct {
	byEmail map[string]*models.Reviewer
}

func (s *stubReviewers) GetByEmail(_ context.Context, email string) (*models.Reviewer, error) {
	if email == "broken@example.com" {
		return nil, errors.New("db down")
	}
	return s.byEmail[email], nil
}

func newTestAuth(speakerDisabled bool) *AuthMiddleware {
	now := time.Now()
	tokens := &stubTokens{claims: map[string]*auth.JWTClaims{
		"speaker":  {Kind: auth.KindSpeaker, Email: "ada@example.com"},
		"reviewer": {Kind: auth.KindReviewer, Email: "rev@example.com"},
		"pending":  {Kind: auth.KindReviewer, Email: "pending@example.com"},
		"super":    {Kind: auth.KindReviewer, Email: "super@example.com"},
		"admin":    {Kind: auth.KindAdmin, Email: "chair@example.com"},
		"stranger": {Kind: auth.KindReviewer, Email: "nobody@example.com"},
		"broken":   {Kind: auth.KindReviewer, Email: "broken@example.com"},
	}}
	reviewers := &stubReviewers{byEmail: map[string]*models.Reviewer{
		"rev@example.com":     {ID: 1, Email: "rev@example.com", Role: models.RoleReviewer, AcceptedAt: &now},
		"pending@example.com": {ID: 2, Email: "pending@example.com", Role: models.RoleReviewer},
		"super@example.com":   {ID: 3, Email: "super@example.com", Role: models.RoleSuperAdmin, AcceptedAt: &now},
	}}
	return NewAuthMiddleware(tokens, &stubSpeakers{disabled: speakerDisabled}, reviewers)
}

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func serve(h http.Handler, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/anything", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestAuthenticateRejections(t *testing.T) {
	m := newTestAuth(false)
	h := m.Authenticate(okHandler)

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic abc", http.StatusUnauthorized},
		{"invalid token", "Bearer nope", http.StatusUnauthorized},
		{"expired token", "Bearer expired", http.StatusUnauthorized},
		{"unknown reviewer", "Bearer stranger", http.StatusUnauthorized},
		{"lookup failure", "Bearer broken", http.StatusInternalServerError},
		{"valid speaker", "Bearer speaker", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, req)
			if rr.Code != tt.want {
				t.Errorf("status = %d, want %d (body %s)", rr.Code, tt.want, rr.Body.String())
			}
		})
	}
}

func TestDisabledSpeakerIsForbidden(t *testing.T) {
	m := newTestAuth(true)
	if rr := serve(m.Authenticate(okHandler), "speaker"); rr.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403", rr.Code)
	}
}

func TestAuthenticateStoresPrincipal(t *testing.T) {
	m := newTestAuth(false)
	var got *Principal
	h := m.Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = GetPrincipal(r)
	}))

	serve(h, "speaker")
	if got == nil || got.Speaker == nil || got.Speaker.ID != 7 || got.Kind != auth.KindSpeaker {
		t.Errorf("Unexpected principal %+v", got)
	}

	serve(h, "reviewer")
	if got == nil || got.Reviewer == nil || got.Reviewer.ID != 1 || got.Speaker != nil {
		t.Errorf("Unexpected principal %+v", got)
	}
}

func TestRoleGates(t *testing.T) {
	m := newTestAuth(false)

	tests := []struct {
		name  string
		gate  func(http.Handler) http.Handler
		token string
		want  int
	}{
		{"speaker gate allows speaker", RequireSpeaker, "speaker", http.StatusOK},
		{"speaker gate rejects reviewer", RequireSpeaker, "reviewer", http.StatusForbidden},
		{"reviewer gate allows pending reviewer", RequireReviewer, "pending", http.StatusOK},
		{"reviewer gate rejects admin", RequireReviewer, "admin", http.StatusForbidden},
		{"active gate rejects pending reviewer", RequireActiveReviewer, "pending", http.StatusForbidden},
		{"active gate allows active reviewer", RequireActiveReviewer, "reviewer", http.StatusOK},
		{"admin gate allows admin", RequireAdmin, "admin", http.StatusOK},
		{"admin gate allows super admin", RequireAdmin, "super", http.StatusOK},
		{"admin gate rejects reviewer", RequireAdmin, "reviewer", http.StatusForbidden},
		{"admin gate rejects speaker", RequireAdmin, "speaker", http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := serve(m.Authenticate(tt.gate(okHandler)), tt.token)
			if rr.Code != tt.want {
				t.Errorf("status = %d, want %d", rr.Code, tt.want)
			}
		})
	}

	// Gates without Authenticate in front reject the request outright
	if rr := serve(RequireAdmin(okHandler), ""); rr.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rr.Code)
	}
}

func TestLoggingMiddlewareRequestID(t *testing.T) {
	var seen string
	h := LoggingMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if logger.FromContext(r.Context()) == nil {
			t.Error("Expected request logger in context")
		}
		seen = w.Header().Get(RequestIDHeader)
	}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))
	generated := rr.Header().Get(RequestIDHeader)
	if _, err := uuid.Parse(generated); err != nil {
		t.Fatalf("Expected generated uuid, got %q", generated)
	}
	if seen != generated {
		t.Errorf("Handler saw %q, response has %q", seen, generated)
	}

	incoming := uuid.NewString()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(RequestIDHeader, incoming)
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Header().Get(RequestIDHeader) != incoming {
		t.Errorf("Expected incoming id to be echoed, got %q", rr.Header().Get(RequestIDHeader))
	}

	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(RequestIDHeader, "not a uuid\r\n")
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Header().Get(RequestIDHeader) == "not a uuid\r\n" {
		t.Error("Expected malformed id to be replaced")
	}
}

type memoryAudit struct {
	mu      sync.Mutex
	entries []*models.AuditLog
}

func (m *memoryAudit) Log(_ context.Context, e *models.AuditLog) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, e)
}

func TestAuditMiddleware(t *testing.T) {
	store := &memoryAudit{}
	audit := NewAuditMiddleware(store)
	m := newTestAuth(false)

	h := m.Authenticate(audit.Log("decision.make", "submission")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
	})))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/submissions/4/decision", nil)
	req.Header.Set("Authorization", "Bearer admin")
	req.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")
	h.ServeHTTP(httptest.NewRecorder(), req)

	if len(store.entries) != 1 {
		t.Fatalf("Expected one audit entry, got %d", len(store.entries))
	}
	e := store.entries[0]
	if e.ActorKind != auth.KindAdmin || e.ActorEmail != "chair@example.com" || e.Action != "decision.make" {
		t.Errorf("Unexpected entry %+v", e)
	}
	if e.IPAddress != "203.0.113.9" || !strings.HasSuffix(e.Details, "-> 409") {
		t.Errorf("Unexpected ip/details %q %q", e.IPAddress, e.Details)
	}
}

func TestCORSPreflight(t *testing.T) {
	cors := NewCORSMiddleware(&config.CORSConfig{
		AllowedOrigins: []string{"http://localhost:3000"},
		AllowedMethods: []string{"GET", "POST"},
		AllowedHeaders: []string{"Authorization"},
		MaxAge:         300,
	})
	called := false
	h := cors.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { called = true }))

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/tags", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK || called {
		t.Errorf("Expected preflight to be answered directly, status %d called %v", rr.Code, called)
	}
	if rr.Header().Get("Access-Control-Allow-Methods") != "GET, POST" {
		t.Errorf("Unexpected methods header %q", rr.Header().Get("Access-Control-Allow-Methods"))
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/tags", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Header().Get("Access-Control-Allow-Origin") != "" {
		t.Error("Unexpected CORS header for foreign origin")
	}
}

func TestRateLimiter(t *testing.T) {
	rl := NewRateLimiter(&config.RateLimitConfig{Enabled: true, Requests: 2, Duration: time.Minute})
	defer rl.Close()
	h := rl.Limit(okHandler)

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "192.0.2.1:1234"
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		codes = append(codes, rr.Code)
	}
	if codes[0] != 200 || codes[1] != 200 || codes[2] != http.StatusTooManyRequests {
		t.Errorf("Unexpected status sequence %v", codes)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.0.2.2:1234"
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Errorf("Other clients must not be limited, got %d", rr.Code)
	}

	if !rl.allow("192.0.2.1", time.Now().Add(2*time.Minute)) {
		t.Error("Expected a new window after the duration")
	}
}

func TestSecurityHeaders(t *testing.T) {
	h := SecurityHeaders(okHandler)

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/tags", nil))
	if rr.Header().Get("X-Frame-Options") != "DENY" || rr.Header().Get("Cache-Control") != "no-store" {
		t.Errorf("Missing headers: %v", rr.Header())
	}

	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rr.Header().Get("Cache-Control") != "" {
		t.Error("Non-API responses should not be marked no-store")
	}
}
