package service

import (
	"context"
	"fmt"

	"github.com/xela07ax/hrsd-compliance-prototype/internal/audit"
)

// AuditLogProvider описывает контракт для чтения данных аудита.
// Мы используем структуру AuditEvent из пакета audit, чтобы сохранить единую модель данных.
type AuditLogProvider interface {
	GetRecentAuditEvents(ctx context.Context, limit int) ([]audit.AuditEvent, error)
}

type AuditService struct {
	repo AuditLogProvider
}

func NewAuditService(repo AuditLogProvider) *AuditService {
	return &AuditService{
		repo: repo,
	}
}

// FetchRecent запрашивает последние события журнала.
// Ограничение limit зажимается на уровне репозитория.
func (s *AuditService) FetchRecent(ctx context.Context, limit int) ([]audit.AuditEvent, error) {
	logs, err := s.repo.GetRecentAuditEvents(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("audit_service: failed to fetch logs: %w", err)
	}
	return logs, nil
}
