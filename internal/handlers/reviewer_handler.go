package handlers

import (
	"net/http"

	"cfp-engine/internal/middleware"
	"cfp-engine/internal/service"
)

// ReviewerHandler handles reviewer administration and activation
type ReviewerHandler struct {
	reviewerService *service.ReviewerService
}

// NewReviewerHandler creates a new reviewer handler
func NewReviewerHandler(reviewerService *service.ReviewerService) *ReviewerHandler {
	return &ReviewerHandler{
		reviewerService: reviewerService,
	}
}

// ActivateRequest represents a reviewer activation request
type ActivateRequest struct {
	Email string `json:"email"`
	Token string `json:"token"`
}

// Activate exchanges an invitation token for an access token
// @Summary Activate reviewer account
// @Description Verifies the invitation token and returns a reviewer access token
// @Tags Reviewers
// @Accept json
// @Produce json
// @Param request body ActivateRequest true "Invitation"
// @Success 200 {object} service.ActivationResult "Activated"
// @Failure 403 {object} ErrorResponse "Invalid invitation or deactivated"
// @Router /reviewers/activate [post]
func (h *ReviewerHandler) Activate(w http.ResponseWriter, r *http.Request) {
	var req ActivateRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := h.reviewerService.Activate(r.Context(), req.Email, req.Token)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, result)
}

// List lists all reviewers
// @Summary List reviewers
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.Reviewer "Reviewers"
// @Failure 403 {object} ErrorResponse "Forbidden - admin only"
// @Router /admin/reviewers [get]
func (h *ReviewerHandler) List(w http.ResponseWriter, r *http.Request) {
	reviewers, err := h.reviewerService.List(r.Context())
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, reviewers)
}

// Invite invites a new reviewer and queues the invitation email
// @Summary Invite reviewer
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body service.InviteInput true "Invitation"
// @Success 201 {object} models.Reviewer "Invited reviewer"
// @Failure 400 {object} ErrorResponse "Validation failed"
// @Failure 409 {object} ErrorResponse "Email already invited"
// @Router /admin/reviewers [post]
func (h *ReviewerHandler) Invite(w http.ResponseWriter, r *http.Request) {
	var req service.InviteInput
	if !decodeJSON(w, r, &req) {
		return
	}

	rv, err := h.reviewerService.Invite(r.Context(), req, actorEmail(r))
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, rv)
}

// Update changes a reviewer's role and visibility
// @Summary Update reviewer access
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Reviewer ID"
// @Param request body service.UpdateReviewerInput true "Access"
// @Success 200 {object} models.Reviewer "Updated reviewer"
// @Failure 404 {object} ErrorResponse "Not found"
// @Router /admin/reviewers/{id} [put]
func (h *ReviewerHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req service.UpdateReviewerInput
	if !decodeJSON(w, r, &req) {
		return
	}

	rv, err := h.reviewerService.Update(r.Context(), id, req)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, rv)
}

// ResendInvite rotates the invitation token and queues a new invitation
// @Summary Resend reviewer invitation
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param id path int true "Reviewer ID"
// @Success 200 {object} models.Reviewer "Reviewer"
// @Failure 409 {object} ErrorResponse "Already accepted"
// @Router /admin/reviewers/{id}/resend-invite [post]
func (h *ReviewerHandler) ResendInvite(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	rv, err := h.reviewerService.ResendInvite(r.Context(), id, actorEmail(r))
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, rv)
}

// Deactivate deactivates a reviewer
// @Summary Deactivate reviewer
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param id path int true "Reviewer ID"
// @Success 200 {object} models.Reviewer "Reviewer"
// @Failure 404 {object} ErrorResponse "Not found"
// @Router /admin/reviewers/{id}/deactivate [post]
func (h *ReviewerHandler) Deactivate(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	rv, err := h.reviewerService.Deactivate(r.Context(), id)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, rv)
}

// actorEmail identifies the caller in history rows and invitations
func actorEmail(r *http.Request) string {
	if p, ok := middleware.GetPrincipal(r); ok {
		return p.Email
	}
	return "system"
}
