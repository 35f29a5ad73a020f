package middleware

import (
	"context"
	"fmt"
	"net/http"

	"cfp-engine/internal/models"
)

// AuditLogger persists audit entries without failing the request
type AuditLogger interface {
	Log(ctx context.Context, entry *models.AuditLog)
}

// AuditMiddleware records admin actions
type AuditMiddleware struct {
	audit AuditLogger
}

// NewAuditMiddleware creates a new audit middleware
func NewAuditMiddleware(audit AuditLogger) *AuditMiddleware {
	return &AuditMiddleware{audit: audit}
}

// Log records action on resource after the handler ran. Rejected requests
// (4xx/5xx) are recorded too, with their status in the details.
func (m *AuditMiddleware) Log(action, resource string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)

			entry := &models.AuditLog{
				ActorKind: "anonymous",
				Action:    action,
				Resource:  resource,
				Details:   fmt.Sprintf("%s %s -> %d", r.Method, r.URL.Path, rec.status),
				IPAddress: getIP(r),
				UserAgent: r.UserAgent(),
			}
			if p, ok := GetPrincipal(r); ok {
				entry.ActorKind = p.Kind
				entry.ActorEmail = p.Email
			}
			m.audit.Log(r.Context(), entry)
		})
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func (s *statusRecorder) WriteHeader(code int) {
	if !s.wroteHeader {
		s.status = code
		s.wroteHeader = true
	}
	s.ResponseWriter.WriteHeader(code)
}
