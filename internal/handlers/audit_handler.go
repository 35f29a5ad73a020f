package handlers

import (
	"net/http"

	"cfp-engine/internal/repository"
	"cfp-engine/internal/service"
)

// AuditHandler handles audit log requests
type AuditHandler struct {
	auditService *service.AuditService
}

// NewAuditHandler creates a new audit handler
func NewAuditHandler(auditService *service.AuditService) *AuditHandler {
	return &AuditHandler{
		auditService: auditService,
	}
}

// ListAuditLogs lists audit logs with pagination (admin only)
// @Summary List audit logs
// @Description Get a paginated list of audit logs, newest first
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number" default(1)
// @Param page_size query int false "Items per page" default(50)
// @Param actor query string false "Actor email"
// @Param action query string false "Action"
// @Param resource query string false "Resource"
// @Success 200 {object} service.AuditPage "Audit logs"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 403 {object} ErrorResponse "Forbidden - admin only"
// @Router /admin/audit-logs [get]
func (h *AuditHandler) ListAuditLogs(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := repository.AuditFilter{
		ActorEmail: q.Get("actor"),
		Action:     q.Get("action"),
		Resource:   q.Get("resource"),
	}

	page, err := h.auditService.List(r.Context(), filter, queryInt(r, "page", 1), queryInt(r, "page_size", 0))
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, page)
}
