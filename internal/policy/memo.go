package policy

import (
	"context"
	"sync"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/xela07ax/hrsd-compliance-prototype/internal/domain"
)

type DocumentRepository interface {
	GetAllDocuments(ctx context.Context) ([]domain.PolicyDocument, error)
}

// MemoDocuments — потокобезопасный In-memory кэш коллекции документов.
// Проекция соответствия читает только из RAM (Hot Path); синхронизация
// с Postgres идет через Refresh() по сигналу из Redis или при старте.
type MemoDocuments struct {
	mu sync.RWMutex
	// Снимок коллекции в порядке выдачи репозитория
	docs []domain.PolicyDocument

	repo   DocumentRepository // Используется только для Refresh()
	rdb    *redis.Client
	logger *zap.Logger
}

func NewMemoDocuments(repo DocumentRepository, rdb *redis.Client, logger *zap.Logger) *MemoDocuments {
	return &MemoDocuments{
		repo:   repo,
		rdb:    rdb,
		logger: logger.Named("doc-cache"),
	}
}

// Snapshot отдает копию коллекции: вызывающая сторона может спокойно
// фильтровать и сортировать, не трогая кэш.
func (m *MemoDocuments) Snapshot() []domain.PolicyDocument {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]domain.PolicyDocument, len(m.docs))
	copy(out, m.docs)
	return out
}

// Prime заполняет кэш готовой коллекцией (например, из Redis-снапшота),
// не трогая БД. Используется на холодном старте.
func (m *MemoDocuments) Prime(docs []domain.PolicyDocument) {
	m.mu.Lock()
	m.docs = docs
	m.mu.Unlock()

	m.logger.Info("document cache primed from snapshot", zap.Int("count", len(docs)))
}

// Refresh выполняет «холодную загрузку» всей коллекции из PostgreSQL в память
func (m *MemoDocuments) Refresh(ctx context.Context) error {
	docs, err := m.repo.GetAllDocuments(ctx)
	if err != nil {
		return err
	}

	m.mu.Lock()
	m.docs = docs
	m.mu.Unlock()

	m.logger.Info("document cache refreshed", zap.Int("count", len(docs)))
	return nil
}
