// internal/domain/audit/service.go
package audit

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type actorKey struct{}

// WithActor returns a context carrying the acting operator's display name
func WithActor(ctx context.Context, actor string) context.Context {
	return context.WithValue(ctx, actorKey{}, actor)
}

// ActorFrom extracts the acting operator from the context
func ActorFrom(ctx context.Context) string {
	if actor, ok := ctx.Value(actorKey{}).(string); ok && actor != "" {
		return actor
	}
	return "system"
}

// Service persists the dashboard action trail
type Service struct {
	db     *gorm.DB
	logger *logrus.Logger
}

// NewService creates a new audit service
func NewService(db *gorm.DB, logger *logrus.Logger) *Service {
	return &Service{db: db, logger: logger}
}

// Record writes one action entry. Audit failures are logged, never propagated:
// a broken trail must not block the workflow that triggered it.
func (s *Service) Record(ctx context.Context, action, entityType string, entityID uint, entityCode, detail string) {
	if s.db == nil {
		return
	}

	entry := &ActionLog{
		Reference:  uuid.NewString(),
		Actor:      ActorFrom(ctx),
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		EntityCode: entityCode,
		Detail:     detail,
	}

	if err := s.db.WithContext(ctx).Create(entry).Error; err != nil {
		s.logger.WithError(err).WithFields(logrus.Fields{
			"action":      action,
			"entity_type": entityType,
			"entity_id":   entityID,
		}).Error("Failed to record audit entry")
	}
}

// ListRequest filters the audit listing
type ListRequest struct {
	EntityType string `form:"entity_type"`
	Actor      string `form:"actor"`
	Page       int    `form:"page"`
	PerPage    int    `form:"per_page"`
}

// List returns a page of audit entries, newest first
func (s *Service) List(ctx context.Context, req *ListRequest) ([]ActionLog, int64, error) {
	query := s.db.WithContext(ctx).Model(&ActionLog{})

	if req.EntityType != "" {
		query = query.Where("entity_type = ?", req.EntityType)
	}
	if req.Actor != "" {
		query = query.Where("actor = ?", req.Actor)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count audit entries: %w", err)
	}

	page := req.Page
	if page < 1 {
		page = 1
	}
	perPage := req.PerPage
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	var entries []ActionLog
	if err := query.Order("created_at DESC").
		Offset((page - 1) * perPage).
		Limit(perPage).
		Find(&entries).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list audit entries: %w", err)
	}

	return entries, total, nil
}
