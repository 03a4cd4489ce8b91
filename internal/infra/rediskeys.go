package infra

import "fmt"

const (
	// RedisNamespace Базовый префикс для изоляции данных проекта в Redis
	RedisNamespace = "hrsd"
)

// Ключи для снапшотов и блокировок
const (
	// RedisKeySnapshotPrefix — снапшот коллекции документов, по ключу на локаль.
	// Консоль читает его на холодном старте, чтобы не ждать БД.
	RedisKeySnapshotPrefix = RedisNamespace + ":documents:snapshot:"
	RedisKeyLockWarmup     = RedisNamespace + ":lock:warmup:documents"
)

// Каналы Pub/Sub (события)
const (
	// RedisChanDocumentUpdates — сигнал об изменении коллекции документов.
	// Подписчики инвалидируют локальный кеш и перечитывают снапшот.
	RedisChanDocumentUpdates = RedisNamespace + ":documents:updated"
)

// GetSnapshotKey — ключ снапшота документов для конкретной локали (en, ar, ...)
func GetSnapshotKey(locale string) string {
	return RedisKeySnapshotPrefix + locale
}

// GetWarmupLockKey Генератор ключей для блокировок (если нужны динамические)
func GetWarmupLockKey(resource string) string {
	return fmt.Sprintf("%s:lock:warmup:%s", RedisNamespace, resource)
}
