package rediscache

/*
Снапшот коллекции документов в Redis — второй уровень кэша (L2).
Блоб лежит под ключом с локалью: консоль на холодном старте читает его
вместо полной выборки из Postgres, а другие инстансы узнают об изменениях
через Pub/Sub сигнал.
*/

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/xela07ax/hrsd-compliance-prototype/internal/domain"
	"github.com/xela07ax/hrsd-compliance-prototype/internal/infra"
)

type SnapshotStore struct {
	rdb    *redis.Client
	locale string
	logger *zap.Logger
}

func NewSnapshotStore(rdb *redis.Client, locale string, logger *zap.Logger) *SnapshotStore {
	return &SnapshotStore{
		rdb:    rdb,
		locale: locale,
		logger: logger.Named("snapshot-store"),
	}
}

// Key — ключ снапшота для текущей локали
func (s *SnapshotStore) Key() string {
	return infra.GetSnapshotKey(s.locale)
}

// Save сериализует коллекцию и перезаписывает снапшот целиком.
// После записи публикует сигнал, чтобы подписчики перечитали кэш.
func (s *SnapshotStore) Save(ctx context.Context, docs []domain.PolicyDocument) error {
	payload, err := json.Marshal(docs)
	if err != nil {
		return err
	}

	if err := s.rdb.Set(ctx, s.Key(), payload, 0).Err(); err != nil {
		return err
	}

	if err := s.rdb.Publish(ctx, infra.RedisChanDocumentUpdates, s.locale).Err(); err != nil {
		// Сигнал не критичен: подписчики догонят состояние при следующем чтении
		s.logger.Warn("failed to publish document update signal", zap.Error(err))
	}
	return nil
}

// Load читает снапшот. Любой сбой чтения или битый блоб трактуется как
// отсутствие снапшота: вызывающая сторона уходит на холодную загрузку из БД.
func (s *SnapshotStore) Load(ctx context.Context) ([]domain.PolicyDocument, bool) {
	raw, err := s.rdb.Get(ctx, s.Key()).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			s.logger.Warn("snapshot read failed, falling back to DB", zap.Error(err))
		}
		return nil, false
	}

	var docs []domain.PolicyDocument
	if err := json.Unmarshal(raw, &docs); err != nil {
		s.logger.Warn("snapshot payload is corrupt, falling back to DB", zap.Error(err))
		return nil, false
	}
	return docs, true
}
