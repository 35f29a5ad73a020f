package handlers

import (
	"net/http"

	"cfp-engine/internal/apperr"
	"cfp-engine/internal/middleware"
	"cfp-engine/internal/models"
	"cfp-engine/internal/service"
)

// ReviewHandler handles reviewer-facing requests
type ReviewHandler struct {
	reviewService *service.ReviewService
}

// NewReviewHandler creates a new review handler
func NewReviewHandler(reviewService *service.ReviewService) *ReviewHandler {
	return &ReviewHandler{
		reviewService: reviewService,
	}
}

// ReviewerMeResponse describes the calling reviewer
type ReviewerMeResponse struct {
	Reviewer    *models.Reviewer `json:"reviewer"`
	AccessLevel string           `json:"access_level"`
	Active      bool             `json:"active"`
}

// NextSubmissionResponse carries the next-unreviewed hint; SubmissionID is null when nothing is left
type NextSubmissionResponse struct {
	SubmissionID *uint `json:"submission_id"`
}

func currentReviewer(w http.ResponseWriter, r *http.Request) (*models.Reviewer, bool) {
	p, ok := middleware.GetPrincipal(r)
	if !ok || p.Reviewer == nil {
		respondWithError(w, http.StatusForbidden, apperr.KindForbidden, ErrMsgReviewerRequired)
		return nil, false
	}
	return p.Reviewer, true
}

// Me returns the calling reviewer and their access level
// @Summary Get reviewer account
// @Tags Review
// @Produce json
// @Security BearerAuth
// @Success 200 {object} ReviewerMeResponse "Reviewer"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Router /review/me [get]
func (h *ReviewHandler) Me(w http.ResponseWriter, r *http.Request) {
	rv, ok := currentReviewer(w, r)
	if !ok {
		return
	}

	respondWithJSON(w, http.StatusOK, ReviewerMeResponse{
		Reviewer:    rv,
		AccessLevel: service.ResolveAccessLevel(rv.Role, rv.CanSeeSpeakerIdentity),
		Active:      rv.IsActive(),
	})
}

// Dashboard lists reviewable submissions
// @Summary Reviewer dashboard
// @Description Lists reviewable submissions shaped by the reviewer's access level
// @Tags Review
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.SubmissionForReview "Submissions"
// @Failure 403 {object} ErrorResponse "Reviewer not active"
// @Router /review/submissions [get]
func (h *ReviewHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	rv, ok := currentReviewer(w, r)
	if !ok {
		return
	}

	rows, err := h.reviewService.Dashboard(r.Context(), rv)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, rows)
}

// Next suggests the next submission to review
// @Summary Next unreviewed submission
// @Description Returns the least-reviewed undecided submission the reviewer has not reviewed yet
// @Tags Review
// @Produce json
// @Security BearerAuth
// @Param exclude query string false "Comma separated submission IDs to skip"
// @Success 200 {object} NextSubmissionResponse "Hint"
// @Router /review/submissions/next [get]
func (h *ReviewHandler) Next(w http.ResponseWriter, r *http.Request) {
	rv, ok := currentReviewer(w, r)
	if !ok {
		return
	}

	id, err := h.reviewService.NextUnreviewed(r.Context(), rv, queryIDs(r, "exclude"))
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, NextSubmissionResponse{SubmissionID: id})
}

// GetSubmission returns a submission shaped by the reviewer's access level
// @Summary Get submission for review
// @Tags Review
// @Produce json
// @Security BearerAuth
// @Param id path int true "Submission ID"
// @Success 200 {object} models.SubmissionForReview "Submission"
// @Failure 404 {object} ErrorResponse "Not found"
// @Router /review/submissions/{id} [get]
func (h *ReviewHandler) GetSubmission(w http.ResponseWriter, r *http.Request) {
	rv, ok := currentReviewer(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	sub, err := h.reviewService.GetSubmissionForReview(r.Context(), rv, id)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, sub)
}

// SubmitReview creates or replaces the reviewer's review
// @Summary Submit review
// @Description Creates or replaces the caller's review. The first review moves the submission to under_review.
// @Tags Review
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Submission ID"
// @Param request body service.ReviewInput true "Scores and notes"
// @Success 200 {object} models.Review "Review"
// @Failure 400 {object} ErrorResponse "Score out of range"
// @Failure 403 {object} ErrorResponse "Read-only reviewer"
// @Router /review/submissions/{id}/review [put]
func (h *ReviewHandler) SubmitReview(w http.ResponseWriter, r *http.Request) {
	rv, ok := currentReviewer(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req service.ReviewInput
	if !decodeJSON(w, r, &req) {
		return
	}

	review, err := h.reviewService.SubmitReview(r.Context(), rv, id, req)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, review)
}

// ListReviews lists the reviews of a submission as visible to the caller
// @Summary List reviews
// @Description Peers' identities and private notes are hidden unless the caller is a super admin
// @Tags Review
// @Produce json
// @Security BearerAuth
// @Param id path int true "Submission ID"
// @Success 200 {array} models.ReviewView "Reviews"
// @Router /review/submissions/{id}/reviews [get]
func (h *ReviewHandler) ListReviews(w http.ResponseWriter, r *http.Request) {
	rv, ok := currentReviewer(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	views, err := h.reviewService.ListReviews(r.Context(), rv, id)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, views)
}
