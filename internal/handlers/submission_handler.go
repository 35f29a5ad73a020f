package handlers

import (
	"net/http"

	"cfp-engine/internal/service"
)

// SubmissionHandler handles a speaker's own submissions
type SubmissionHandler struct {
	submissionService *service.SubmissionService
}

// NewSubmissionHandler creates a new submission handler
func NewSubmissionHandler(submissionService *service.SubmissionService) *SubmissionHandler {
	return &SubmissionHandler{
		submissionService: submissionService,
	}
}

// List returns the speaker's submissions
// @Summary List own submissions
// @Tags Submissions
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.Submission "Submissions"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Router /submissions [get]
func (h *SubmissionHandler) List(w http.ResponseWriter, r *http.Request) {
	sp, ok := currentSpeaker(w, r)
	if !ok {
		return
	}

	subs, err := h.submissionService.ListOwn(r.Context(), sp.ID)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, subs)
}

// Create creates a new draft
// @Summary Create draft submission
// @Description Create a draft. Fails when the speaker already has the maximum number of active submissions.
// @Tags Submissions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body service.SubmissionInput true "Submission"
// @Success 201 {object} models.Submission "Created draft"
// @Failure 400 {object} ErrorResponse "Validation failed"
// @Failure 422 {object} ErrorResponse "Quota exceeded"
// @Router /submissions [post]
func (h *SubmissionHandler) Create(w http.ResponseWriter, r *http.Request) {
	sp, ok := currentSpeaker(w, r)
	if !ok {
		return
	}

	var req service.SubmissionInput
	if !decodeJSON(w, r, &req) {
		return
	}

	sub, err := h.submissionService.CreateDraft(r.Context(), sp.ID, req)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, sub)
}

// Get returns one of the speaker's submissions
// @Summary Get own submission
// @Tags Submissions
// @Produce json
// @Security BearerAuth
// @Param id path int true "Submission ID"
// @Success 200 {object} models.Submission "Submission"
// @Failure 404 {object} ErrorResponse "Not found"
// @Router /submissions/{id} [get]
func (h *SubmissionHandler) Get(w http.ResponseWriter, r *http.Request) {
	sp, ok := currentSpeaker(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	sub, err := h.submissionService.GetOwn(r.Context(), sp.ID, id)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, sub)
}

// Update edits a draft
// @Summary Update draft submission
// @Tags Submissions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Submission ID"
// @Param request body service.SubmissionInput true "Submission"
// @Success 200 {object} models.Submission "Updated draft"
// @Failure 400 {object} ErrorResponse "Validation failed"
// @Failure 404 {object} ErrorResponse "Not found"
// @Failure 409 {object} ErrorResponse "Not a draft"
// @Router /submissions/{id} [put]
func (h *SubmissionHandler) Update(w http.ResponseWriter, r *http.Request) {
	sp, ok := currentSpeaker(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req service.SubmissionInput
	if !decodeJSON(w, r, &req) {
		return
	}

	sub, err := h.submissionService.UpdateDraft(r.Context(), sp.ID, id, req)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, sub)
}

// Delete removes a draft
// @Summary Delete draft submission
// @Tags Submissions
// @Security BearerAuth
// @Param id path int true "Submission ID"
// @Success 204 "Deleted"
// @Failure 404 {object} ErrorResponse "Not found"
// @Failure 409 {object} ErrorResponse "Not a draft"
// @Router /submissions/{id} [delete]
func (h *SubmissionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	sp, ok := currentSpeaker(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.submissionService.DeleteDraft(r.Context(), sp.ID, id); err != nil {
		respondWithAppError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Submit moves a draft to submitted
// @Summary Submit draft
// @Description Requires a complete speaker profile and a free quota slot
// @Tags Submissions
// @Produce json
// @Security BearerAuth
// @Param id path int true "Submission ID"
// @Success 200 {object} models.Submission "Submitted"
// @Failure 409 {object} ErrorResponse "Not a draft"
// @Failure 422 {object} ErrorResponse "Profile incomplete or quota exceeded"
// @Router /submissions/{id}/submit [post]
func (h *SubmissionHandler) Submit(w http.ResponseWriter, r *http.Request) {
	sp, ok := currentSpeaker(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	sub, err := h.submissionService.Submit(r.Context(), sp.ID, id)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, sub)
}

// Withdraw withdraws a submission
// @Summary Withdraw submission
// @Tags Submissions
// @Produce json
// @Security BearerAuth
// @Param id path int true "Submission ID"
// @Success 200 {object} models.Submission "Withdrawn"
// @Failure 409 {object} ErrorResponse "Already withdrawn"
// @Router /submissions/{id}/withdraw [post]
func (h *SubmissionHandler) Withdraw(w http.ResponseWriter, r *http.Request) {
	sp, ok := currentSpeaker(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	sub, err := h.submissionService.Withdraw(r.Context(), sp.ID, id)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, sub)
}

// History returns the status history of one of the speaker's submissions
// @Summary Get submission status history
// @Tags Submissions
// @Produce json
// @Security BearerAuth
// @Param id path int true "Submission ID"
// @Success 200 {array} models.StatusHistoryEntry "History"
// @Failure 404 {object} ErrorResponse "Not found"
// @Router /submissions/{id}/history [get]
func (h *SubmissionHandler) History(w http.ResponseWriter, r *http.Request) {
	sp, ok := currentSpeaker(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	entries, err := h.submissionService.GetHistory(r.Context(), sp.ID, id)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, entries)
}
