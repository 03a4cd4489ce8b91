package engine

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// WarmupSnapshot — прогрев снапшота коллекции документов в Redis (L2).
// Если снапшот отсутствует, а в БД данные есть — заливаем сериализованный
// блоб под распределенной блокировкой, чтобы только один инстанс грел кэш.
func WarmupSnapshot(
	ctx context.Context,
	rdb *redis.Client,
	logger *zap.Logger,
	snapshotKey string,
	lockKey string,
	payload []byte,
) error {
	if len(payload) == 0 {
		return nil // Нечего греть
	}

	// Распределенная блокировка (SetNX): один инстанс — один прогрев
	ok, err := rdb.SetNX(ctx, lockKey, "processing", 30*time.Second).Result()
	if err != nil || !ok {
		return nil // Либо ошибка сети, либо другой инстанс уже греет
	}

	exists, err := rdb.Exists(ctx, snapshotKey).Result()
	if err != nil {
		exists = 0
		logger.Warn("could not check snapshot presence, proceeding with warm-up",
			zap.String("key", snapshotKey), zap.Error(err))
	}

	if exists == 0 {
		logger.Info("snapshot cache is empty, performing warm-up from DB...",
			zap.String("key", snapshotKey), zap.Int("bytes", len(payload)))
		if err := rdb.Set(ctx, snapshotKey, payload, 0).Err(); err != nil {
			logger.Error("snapshot warm-up failed", zap.String("key", snapshotKey), zap.Error(err))
			return err
		}
	}

	// Снимаем блокировку сразу: TTL — только страховка от падения инстанса
	rdb.Del(ctx, lockKey)
	return nil
}
