package repository

import (
	"context"
	"fmt"

	"cfp-engine/internal/models"
)

// AuditRepository handles audit log database operations
type AuditRepository struct {
	db DBTX
}

// NewAuditRepository creates a new audit repository
func NewAuditRepository(db DBTX) *AuditRepository {
	return &AuditRepository{db: db}
}

// AuditFilter narrows an audit log listing; empty fields match everything
type AuditFilter struct {
	ActorEmail string
	Action     string
	Resource   string
}

// Create creates a new audit log entry
func (r *AuditRepository) Create(ctx context.Context, log *models.AuditLog) error {
	query := `
		INSERT INTO audit_logs (actor_kind, actor_email, action, resource, details, ip_address, user_agent)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at
	`

	err := r.db.QueryRowContext(ctx, query,
		log.ActorKind,
		log.ActorEmail,
		log.Action,
		log.Resource,
		log.Details,
		log.IPAddress,
		log.UserAgent,
	).Scan(&log.ID, &log.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to create audit log: %w", err)
	}

	return nil
}

// List retrieves audit logs matching the filter, newest first, with pagination
func (r *AuditRepository) List(ctx context.Context, filter AuditFilter, limit, offset int) ([]models.AuditLog, error) {
	query := `
		SELECT id, actor_kind, actor_email, action, resource, details, ip_address, user_agent, created_at
		FROM audit_logs
		WHERE ($1::text = '' OR LOWER(actor_email) = LOWER($1))
		  AND ($2::text = '' OR action = $2)
		  AND ($3::text = '' OR resource = $3)
		ORDER BY created_at DESC, id DESC
		LIMIT $4 OFFSET $5
	`

	rows, err := r.db.QueryContext(ctx, query, filter.ActorEmail, filter.Action, filter.Resource, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to get audit logs: %w", err)
	}
	defer rows.Close()

	logs := []models.AuditLog{}
	for rows.Next() {
		var log models.AuditLog
		if err := rows.Scan(
			&log.ID,
			&log.ActorKind,
			&log.ActorEmail,
			&log.Action,
			&log.Resource,
			&log.Details,
			&log.IPAddress,
			&log.UserAgent,
			&log.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan audit log: %w", err)
		}
		logs = append(logs, log)
	}

	return logs, rows.Err()
}

// Count returns the number of audit logs matching the filter
func (r *AuditRepository) Count(ctx context.Context, filter AuditFilter) (int, error) {
	query := `
		SELECT COUNT(*) FROM audit_logs
		WHERE ($1::text = '' OR LOWER(actor_email) = LOWER($1))
		  AND ($2::text = '' OR action = $2)
		  AND ($3::text = '' OR resource = $3)
	`
	var count int
	if err := r.db.QueryRowContext(ctx, query, filter.ActorEmail, filter.Action, filter.Resource).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count audit logs: %w", err)
	}
	return count, nil
}
