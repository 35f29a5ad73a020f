package service

import (
	"context"
	"database/sql"

	"cfp-engine/internal/apperr"
	"cfp-engine/internal/logger"
	"cfp-engine/internal/models"
	"cfp-engine/internal/repository"
)

const (
	defaultAuditPageSize = 50
	maxAuditPageSize     = 200
)

// AuditPage is one page of audit log entries
type AuditPage struct {
	Logs     []models.AuditLog `json:"logs"`
	Total    int               `json:"total"`
	Page     int               `json:"page"`
	PageSize int               `json:"page_size"`
}

// AuditService handles audit logging
type AuditService struct {
	auditRepo *repository.AuditRepository
}

// NewAuditService creates a new audit service
func NewAuditService(db *sql.DB) *AuditService {
	return &AuditService{
		auditRepo: repository.NewAuditRepository(db),
	}
}

// Log creates an audit log entry. Failures are logged and never fail the main operation.
func (s *AuditService) Log(ctx context.Context, entry *models.AuditLog) {
	if err := s.auditRepo.Create(ctx, entry); err != nil {
		logger.FromContext(ctx).Error("Failed to write audit log", "action", entry.Action, "error", err)
	}
}

// List returns a page of audit logs, newest first
func (s *AuditService) List(ctx context.Context, filter repository.AuditFilter, page, pageSize int) (*AuditPage, error) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = defaultAuditPageSize
	}
	if pageSize > maxAuditPageSize {
		pageSize = maxAuditPageSize
	}

	logs, err := s.auditRepo.List(ctx, filter, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, apperr.Internal(err, "failed to list audit logs")
	}
	total, err := s.auditRepo.Count(ctx, filter)
	if err != nil {
		return nil, apperr.Internal(err, "failed to count audit logs")
	}

	return &AuditPage{Logs: logs, Total: total, Page: page, PageSize: pageSize}, nil
}
