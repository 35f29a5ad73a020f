package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"cfp-engine/internal/auth"
	"cfp-engine/internal/logger"
	"cfp-engine/internal/models"
)

type contextKey string

const principalKey contextKey = "principal"

// Principal is the authenticated caller of a request
type Principal struct {
	Kind     string
	Email    string
	Speaker  *models.Speaker
	Reviewer *models.Reviewer
}

// IsAdmin reports whether the principal may use admin operations: a generic
// admin token or an active super_admin reviewer.
func (p *Principal) IsAdmin() bool {
	if p.Kind == auth.KindAdmin {
		return true
	}
	return p.Reviewer != nil && p.Reviewer.IsActive() && p.Reviewer.Role == models.RoleSuperAdmin
}

// TokenValidator validates bearer tokens
type TokenValidator interface {
	ValidateToken(token string) (*auth.JWTClaims, error)
}

// SpeakerResolver finds or creates the speaker behind an email
type SpeakerResolver interface {
	EnsureSpeaker(ctx context.Context, email string) (*models.Speaker, error)
}

// ReviewerResolver finds the reviewer behind an email, returning nil when unknown
type ReviewerResolver interface {
	GetByEmail(ctx context.Context, email string) (*models.Reviewer, error)
}

// AuthMiddleware validates JWT tokens and resolves the principal
type AuthMiddleware struct {
	tokens    TokenValidator
	speakers  SpeakerResolver
	reviewers ReviewerResolver
}

// NewAuthMiddleware creates a new auth middleware
func NewAuthMiddleware(tokens TokenValidator, speakers SpeakerResolver, reviewers ReviewerResolver) *AuthMiddleware {
	return &AuthMiddleware{
		tokens:    tokens,
		speakers:  speakers,
		reviewers: reviewers,
	}
}

// Authenticate validates the bearer token and stores the Principal in the request context
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			respondWithError(w, http.StatusUnauthorized, "not_authenticated", "Missing authorization header")
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			respondWithError(w, http.StatusUnauthorized, "not_authenticated", "Invalid authorization header format")
			return
		}

		claims, err := m.tokens.ValidateToken(parts[1])
		if err != nil {
			msg := "Invalid token"
			if errors.Is(err, auth.ErrExpiredToken) {
				msg = "Token has expired"
			}
			respondWithError(w, http.StatusUnauthorized, "not_authenticated", msg)
			return
		}

		ctx := r.Context()
		p := &Principal{Kind: claims.Kind, Email: claims.Email}

		switch claims.Kind {
		case auth.KindSpeaker:
			sp, err := m.speakers.EnsureSpeaker(ctx, claims.Email)
			if err != nil {
				logger.FromContext(ctx).Error("Failed to resolve speaker", "error", err)
				respondWithError(w, http.StatusInternalServerError, "internal", "Failed to resolve speaker")
				return
			}
			if sp.IsDisabled {
				respondWithError(w, http.StatusForbidden, "forbidden", "Speaker account is disabled")
				return
			}
			p.Speaker = sp
		case auth.KindReviewer:
			rv, err := m.reviewers.GetByEmail(ctx, claims.Email)
			if err != nil {
				logger.FromContext(ctx).Error("Failed to resolve reviewer", "error", err)
				respondWithError(w, http.StatusInternalServerError, "internal", "Failed to resolve reviewer")
				return
			}
			if rv == nil {
				respondWithError(w, http.StatusUnauthorized, "not_authenticated", "Unknown reviewer")
				return
			}
			p.Reviewer = rv
		}

		l := logger.FromContext(ctx).With("principal_kind", p.Kind, "principal_email", p.Email)
		ctx = logger.WithContext(context.WithValue(ctx, principalKey, p), l)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetPrincipal retrieves the principal from the request context
func GetPrincipal(r *http.Request) (*Principal, bool) {
	p, ok := r.Context().Value(principalKey).(*Principal)
	return p, ok && p != nil
}

// WithPrincipal returns a copy of ctx carrying p
func WithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, principalKey, p)
}

func require(check func(*Principal) (int, string, string)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, ok := GetPrincipal(r)
			if !ok {
				respondWithError(w, http.StatusUnauthorized, "not_authenticated", "User not authenticated")
				return
			}
			if status, code, msg := check(p); status != 0 {
				respondWithError(w, status, code, msg)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireSpeaker allows speaker tokens only
func RequireSpeaker(next http.Handler) http.Handler {
	return require(func(p *Principal) (int, string, string) {
		if p.Speaker == nil {
			return http.StatusForbidden, "forbidden", "Speaker access required"
		}
		return 0, "", ""
	})(next)
}

// RequireReviewer allows any known reviewer, active or not
func RequireReviewer(next http.Handler) http.Handler {
	return require(func(p *Principal) (int, string, string) {
		if p.Reviewer == nil {
			return http.StatusForbidden, "forbidden", "Reviewer access required"
		}
		return 0, "", ""
	})(next)
}

// RequireActiveReviewer allows reviewers that accepted their invitation and are not deactivated
func RequireActiveReviewer(next http.Handler) http.Handler {
	return require(func(p *Principal) (int, string, string) {
		if p.Reviewer == nil {
			return http.StatusForbidden, "forbidden", "Reviewer access required"
		}
		if !p.Reviewer.IsActive() {
			return http.StatusForbidden, "not_authorized", "Reviewer account is not active"
		}
		return 0, "", ""
	})(next)
}

// RequireAdmin allows generic admins and active super_admin reviewers
func RequireAdmin(next http.Handler) http.Handler {
	return require(func(p *Principal) (int, string, string) {
		if !p.IsAdmin() {
			return http.StatusForbidden, "forbidden", "Insufficient permissions"
		}
		return 0, "", ""
	})(next)
}

func respondWithError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message, "code": code})
}
