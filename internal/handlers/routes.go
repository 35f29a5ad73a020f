package handlers

import (
	"context"
	"net/http"

	"cfp-engine/internal/middleware"
)

// HealthChecker reports whether a backing store is reachable
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// Router holds every handler and the middleware guarding them
type Router struct {
	Auth          *middleware.AuthMiddleware
	Audit         *middleware.AuditMiddleware
	Health        HealthChecker
	Version       string
	Config        *ConfigHandler
	Speakers      *SpeakerHandler
	Submissions   *SubmissionHandler
	Tags          *TagHandler
	Reviews       *ReviewHandler
	Reviewers     *ReviewerHandler
	Admin         *AdminHandler
	Notifications *NotificationHandler
	AuditLogs     *AuditHandler
}

// Register adds every API route to mux
func (rt *Router) Register(mux *http.ServeMux) {
	authed := func(gate func(http.Handler) http.Handler, h http.HandlerFunc) http.Handler {
		return rt.Auth.Authenticate(gate(h))
	}
	speaker := func(h http.HandlerFunc) http.Handler { return authed(middleware.RequireSpeaker, h) }
	reviewer := func(h http.HandlerFunc) http.Handler { return authed(middleware.RequireReviewer, h) }
	activeReviewer := func(h http.HandlerFunc) http.Handler { return authed(middleware.RequireActiveReviewer, h) }
	admin := func(h http.HandlerFunc) http.Handler { return authed(middleware.RequireAdmin, h) }
	audited := func(action, resource string, h http.HandlerFunc) http.Handler {
		return rt.Auth.Authenticate(middleware.RequireAdmin(rt.Audit.Log(action, resource)(h)))
	}
	anyone := func(h http.HandlerFunc) http.Handler {
		return rt.Auth.Authenticate(h)
	}

	// Public routes
	mux.HandleFunc("GET /health", rt.health)
	mux.HandleFunc("GET "+APIBasePath+"/config/app", rt.Config.GetAppConfig)
	mux.Handle("POST "+APIBasePath+"/reviewers/activate",
		rt.Audit.Log(AuditActionReviewerActive, "reviewers")(http.HandlerFunc(rt.Reviewers.Activate)))

	// Speaker routes
	mux.Handle("GET "+APIBasePath+"/speakers/me", speaker(rt.Speakers.GetProfile))
	mux.Handle("PUT "+APIBasePath+"/speakers/me", speaker(rt.Speakers.UpdateProfile))
	mux.Handle("GET "+APIBasePath+"/speakers/me/eligibility", speaker(rt.Speakers.GetEligibility))
	mux.Handle("GET "+APIBasePath+"/submissions", speaker(rt.Submissions.List))
	mux.Handle("POST "+APIBasePath+"/submissions", speaker(rt.Submissions.Create))
	mux.Handle("GET "+APIBasePath+"/submissions/{id}", speaker(rt.Submissions.Get))
	mux.Handle("PUT "+APIBasePath+"/submissions/{id}", speaker(rt.Submissions.Update))
	mux.Handle("DELETE "+APIBasePath+"/submissions/{id}", speaker(rt.Submissions.Delete))
	mux.Handle("GET "+APIBasePath+"/submissions/{id}/history", speaker(rt.Submissions.History))
	mux.Handle("POST "+APIBasePath+"/submissions/{id}/submit", speaker(rt.Submissions.Submit))
	mux.Handle("POST "+APIBasePath+"/submissions/{id}/withdraw", speaker(rt.Submissions.Withdraw))

	// Any authenticated caller
	mux.Handle("GET "+APIBasePath+"/tags", anyone(rt.Tags.Search))

	// Reviewer routes
	mux.Handle("GET "+APIBasePath+"/review/me", reviewer(rt.Reviews.Me))
	mux.Handle("GET "+APIBasePath+"/review/submissions", activeReviewer(rt.Reviews.Dashboard))
	mux.Handle("GET "+APIBasePath+"/review/submissions/next", activeReviewer(rt.Reviews.Next))
	mux.Handle("GET "+APIBasePath+"/review/submissions/{id}", activeReviewer(rt.Reviews.GetSubmission))
	mux.Handle("PUT "+APIBasePath+"/review/submissions/{id}/review", activeReviewer(rt.Reviews.SubmitReview))
	mux.Handle("GET "+APIBasePath+"/review/submissions/{id}/reviews", activeReviewer(rt.Reviews.ListReviews))

	// Admin routes
	mux.Handle("GET "+AdminBasePath+"/submissions", admin(rt.Admin.ListSubmissions))
	mux.Handle("PUT "+AdminBasePath+"/submissions/{id}/status",
		audited(AuditActionStatusOverride, "submissions", rt.Admin.OverrideStatus))
	mux.Handle("POST "+AdminBasePath+"/submissions/{id}/decision",
		audited(AuditActionDecisionMake, "submissions", rt.Admin.MakeDecision))
	mux.Handle("GET "+AdminBasePath+"/submissions/{id}/decision", admin(rt.Admin.DecisionStatus))
	mux.Handle("POST "+AdminBasePath+"/submissions/{id}/decision-email",
		audited(AuditActionDecisionEmail, "scheduled_emails", rt.Admin.ScheduleDecisionEmail))
	mux.Handle("GET "+AdminBasePath+"/submissions/{id}/reviews", admin(rt.Admin.ListReviews))
	mux.Handle("GET "+AdminBasePath+"/submissions/{id}/aggregates", admin(rt.Admin.Aggregates))

	mux.Handle("POST "+AdminBasePath+"/notifications",
		audited(AuditActionEmailSchedule, "scheduled_emails", rt.Notifications.Schedule))
	mux.Handle("GET "+AdminBasePath+"/notifications/pending", admin(rt.Notifications.ListPending))
	mux.Handle("POST "+AdminBasePath+"/notifications/{id}/cancel",
		audited(AuditActionEmailCancel, "scheduled_emails", rt.Notifications.Cancel))
	mux.Handle("POST "+AdminBasePath+"/notifications/{id}/sent",
		audited(AuditActionEmailSent, "scheduled_emails", rt.Notifications.MarkSent))
	mux.Handle("POST "+AdminBasePath+"/notifications/{id}/failed",
		audited(AuditActionEmailFailed, "scheduled_emails", rt.Notifications.RecordFailure))

	mux.Handle("GET "+AdminBasePath+"/reviewers", admin(rt.Reviewers.List))
	mux.Handle("POST "+AdminBasePath+"/reviewers",
		audited(AuditActionReviewerInvite, "reviewers", rt.Reviewers.Invite))
	mux.Handle("PUT "+AdminBasePath+"/reviewers/{id}",
		audited(AuditActionReviewerUpdate, "reviewers", rt.Reviewers.Update))
	mux.Handle("POST "+AdminBasePath+"/reviewers/{id}/resend-invite",
		audited(AuditActionReviewerResend, "reviewers", rt.Reviewers.ResendInvite))
	mux.Handle("POST "+AdminBasePath+"/reviewers/{id}/deactivate",
		audited(AuditActionReviewerDeact, "reviewers", rt.Reviewers.Deactivate))

	mux.Handle("POST "+AdminBasePath+"/tags", audited(AuditActionTagCreate, "tags", rt.Tags.Create))
	mux.Handle("DELETE "+AdminBasePath+"/tags/{id}", audited(AuditActionTagDelete, "tags", rt.Tags.Delete))
	mux.Handle("GET "+AdminBasePath+"/audit-logs", admin(rt.AuditLogs.ListAuditLogs))
}

func (rt *Router) health(w http.ResponseWriter, r *http.Request) {
	if err := rt.Health.HealthCheck(r.Context()); err != nil {
		respondWithJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status":   "unhealthy",
			"database": "error",
		})
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"version": rt.Version,
	})
}
