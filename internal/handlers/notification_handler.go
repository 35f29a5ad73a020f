package handlers

import (
	"net/http"
	"time"

	"cfp-engine/internal/apperr"
	"cfp-engine/internal/models"
	"cfp-engine/internal/service"
)

const defaultPendingLimit = 100

// NotificationHandler exposes the scheduled email queue
type NotificationHandler struct {
	notificationService *service.NotificationService
}

// NewNotificationHandler creates a new notification handler
func NewNotificationHandler(notificationService *service.NotificationService) *NotificationHandler {
	return &NotificationHandler{
		notificationService: notificationService,
	}
}

// FailureRequest reports a failed delivery attempt
type FailureRequest struct {
	Error string `json:"error"`
}

// Schedule queues an email
// @Summary Schedule notification
// @Tags Notifications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body service.ScheduleInput true "Email"
// @Success 201 {object} models.ScheduledEmail "Scheduled email"
// @Failure 400 {object} ErrorResponse "Validation failed"
// @Router /admin/notifications [post]
func (h *NotificationHandler) Schedule(w http.ResponseWriter, r *http.Request) {
	var req service.ScheduleInput
	if !decodeJSON(w, r, &req) {
		return
	}

	email, err := h.notificationService.Schedule(r.Context(), req)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, email.Redacted())
}

// ListPending lists emails due for delivery. Invitation tokens are redacted.
// @Summary List pending notifications
// @Tags Notifications
// @Produce json
// @Security BearerAuth
// @Param before query string false "RFC3339 cutoff, defaults to now"
// @Param limit query int false "Maximum entries" default(100)
// @Success 200 {array} models.ScheduledEmail "Pending emails"
// @Failure 400 {object} ErrorResponse "Invalid cutoff"
// @Router /admin/notifications/pending [get]
func (h *NotificationHandler) ListPending(w http.ResponseWriter, r *http.Request) {
	before := time.Now()
	if raw := r.URL.Query().Get("before"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, apperr.KindValidation, "before must be an RFC3339 timestamp")
			return
		}
		before = t
	}

	limit := queryInt(r, "limit", defaultPendingLimit)
	if limit <= 0 || limit > 1000 {
		limit = defaultPendingLimit
	}

	emails, err := h.notificationService.ListPending(r.Context(), before, limit)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, models.RedactEmails(emails))
}

// Cancel cancels a pending email; cancelling twice is a no-op
// @Summary Cancel notification
// @Tags Notifications
// @Produce json
// @Security BearerAuth
// @Param id path int true "Email ID"
// @Success 200 {object} models.ScheduledEmail "Email"
// @Failure 404 {object} ErrorResponse "Not found"
// @Router /admin/notifications/{id}/cancel [post]
func (h *NotificationHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	email, err := h.notificationService.Cancel(r.Context(), id)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, email.Redacted())
}

// MarkSent records a successful delivery
// @Summary Mark notification sent
// @Tags Notifications
// @Produce json
// @Security BearerAuth
// @Param id path int true "Email ID"
// @Success 200 {object} models.ScheduledEmail "Email"
// @Failure 409 {object} ErrorResponse "Cancelled"
// @Router /admin/notifications/{id}/sent [post]
func (h *NotificationHandler) MarkSent(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	email, err := h.notificationService.MarkSent(r.Context(), id)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, email.Redacted())
}

// RecordFailure records a failed delivery attempt and keeps the email pending
// @Summary Record notification failure
// @Tags Notifications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Email ID"
// @Param request body FailureRequest true "Failure"
// @Success 200 {object} models.ScheduledEmail "Email"
// @Failure 409 {object} ErrorResponse "Not pending"
// @Router /admin/notifications/{id}/failed [post]
func (h *NotificationHandler) RecordFailure(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req FailureRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	email, err := h.notificationService.RecordFailure(r.Context(), id, req.Error)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, email.Redacted())
}
