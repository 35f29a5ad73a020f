package handlers

import (
	"net/http"

	"cfp-engine/internal/middleware"
	"cfp-engine/internal/models"
	"cfp-engine/internal/service"
)

// AdminHandler handles program committee operations on submissions
type AdminHandler struct {
	submissionService *service.SubmissionService
	reviewService     *service.ReviewService
	decisionService   *service.DecisionService
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(
	submissionService *service.SubmissionService,
	reviewService *service.ReviewService,
	decisionService *service.DecisionService,
) *AdminHandler {
	return &AdminHandler{
		submissionService: submissionService,
		reviewService:     reviewService,
		decisionService:   decisionService,
	}
}

// ListSubmissions lists submissions, optionally filtered by status
// @Summary List submissions
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param status query string false "Status filter"
// @Success 200 {array} models.Submission "Submissions"
// @Failure 400 {object} ErrorResponse "Unknown status"
// @Failure 403 {object} ErrorResponse "Forbidden - admin only"
// @Router /admin/submissions [get]
func (h *AdminHandler) ListSubmissions(w http.ResponseWriter, r *http.Request) {
	subs, err := h.submissionService.ListByStatus(r.Context(), r.URL.Query().Get("status"))
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, subs)
}

// OverrideStatus moves a submission to any non-decision status
// @Summary Override submission status
// @Description Free-form status change with a mandatory reason. accepted and rejected are set through decisions only.
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Submission ID"
// @Param request body service.OverrideInput true "Target status and reason"
// @Success 200 {object} models.Submission "Updated submission"
// @Failure 400 {object} ErrorResponse "Validation failed"
// @Failure 404 {object} ErrorResponse "Not found"
// @Router /admin/submissions/{id}/status [put]
func (h *AdminHandler) OverrideStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req service.OverrideInput
	if !decodeJSON(w, r, &req) {
		return
	}

	sub, err := h.submissionService.AdminOverride(r.Context(), id, req, actorEmail(r))
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, sub)
}

// MakeDecision records an accept/reject decision
// @Summary Make decision
// @Description Records a decision and moves the submission to accepted or rejected. No email is scheduled.
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Submission ID"
// @Param request body service.DecisionInput true "Decision"
// @Success 200 {object} service.DecisionOutcome "Outcome"
// @Failure 400 {object} ErrorResponse "Validation failed"
// @Failure 409 {object} ErrorResponse "Submission not decidable"
// @Router /admin/submissions/{id}/decision [post]
func (h *AdminHandler) MakeDecision(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req service.DecisionInput
	if !decodeJSON(w, r, &req) {
		return
	}

	outcome, err := h.decisionService.MakeDecision(r.Context(), id, req, actorEmail(r))
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, outcome)
}

// DecisionStatus returns decisions, history, emails and aggregates of a submission
// @Summary Get decision status
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param id path int true "Submission ID"
// @Success 200 {object} models.DecisionStatus "Decision status"
// @Failure 404 {object} ErrorResponse "Not found"
// @Router /admin/submissions/{id}/decision [get]
func (h *AdminHandler) DecisionStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	status, err := h.decisionService.GetDecisionStatus(r.Context(), id)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	status.ScheduledEmails = models.RedactEmails(status.ScheduledEmails)
	respondWithJSON(w, http.StatusOK, status)
}

// ScheduleDecisionEmail queues the decision email for the speaker
// @Summary Schedule decision email
// @Description Queues the email matching the current decision. template and fire_at are optional.
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Submission ID"
// @Param request body service.DecisionEmailInput false "Template and fire time"
// @Success 201 {object} models.ScheduledEmail "Scheduled email"
// @Failure 409 {object} ErrorResponse "Submission not decided"
// @Router /admin/submissions/{id}/decision-email [post]
func (h *AdminHandler) ScheduleDecisionEmail(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req service.DecisionEmailInput
	if r.ContentLength != 0 && !decodeJSON(w, r, &req) {
		return
	}

	email, err := h.decisionService.ScheduleDecisionEmail(r.Context(), id, req, actorEmail(r))
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, email)
}

// ListReviews lists every review of a submission with reviewer identities
// @Summary List reviews (admin)
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param id path int true "Submission ID"
// @Success 200 {array} models.ReviewView "Reviews"
// @Router /admin/submissions/{id}/reviews [get]
func (h *AdminHandler) ListReviews(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	// nil viewer is a generic admin
	var viewer *models.Reviewer
	if p, ok := middleware.GetPrincipal(r); ok {
		viewer = p.Reviewer
	}
	views, err := h.reviewService.ListReviews(r.Context(), viewer, id)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, views)
}

// Aggregates returns review counts and averages of a submission
// @Summary Get review aggregates
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param id path int true "Submission ID"
// @Success 200 {object} models.ReviewAggregates "Aggregates"
// @Failure 404 {object} ErrorResponse "Not found"
// @Router /admin/submissions/{id}/aggregates [get]
func (h *AdminHandler) Aggregates(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	agg, err := h.reviewService.GetAggregates(r.Context(), id)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, agg)
}
