// Сидер — одноразовая утилита наполнения реестра соответствия.
// Генерирует документы по каталогу политик, греет Redis-снапшот и при
// необходимости заводит административного пользователя консоли.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/xela07ax/hrsd-compliance-prototype/internal/audit"
	"github.com/xela07ax/hrsd-compliance-prototype/internal/domain"
	"github.com/xela07ax/hrsd-compliance-prototype/internal/engine"
	"github.com/xela07ax/hrsd-compliance-prototype/internal/generator"
	"github.com/xela07ax/hrsd-compliance-prototype/internal/infra"
	"github.com/xela07ax/hrsd-compliance-prototype/internal/policy"
	"github.com/xela07ax/hrsd-compliance-prototype/internal/repository/postgres"
	"github.com/xela07ax/hrsd-compliance-prototype/internal/repository/rediscache"
)

func main() {
	force := flag.Bool("force", false, "regenerate documents even if the store is not empty")
	adminUser := flag.String("admin-user", "admin", "console admin username to provision")
	flag.Parse()

	cfg, err := infra.LoadConfig()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	logger, err := infra.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer logger.Sync()
	logger = logger.Named("seeder")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Minute)
	defer cancel()

	pgRepo, err := postgres.NewRepo(ctx, cfg.Database.URL, cfg.Database.MaxConns, cfg.Database.MinConns)
	if err != nil {
		logger.Fatal("failed to init postgres pool", zap.Error(err))
	}
	defer pgRepo.Close()
	if err := pgRepo.Ping(ctx); err != nil {
		logger.Fatal("database unreachable", zap.Error(err))
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer rdb.Close()

	// 1. Административный доступ: пароль приходит только через ENV
	if password := os.Getenv("SEED_ADMIN_PASSWORD"); password != "" {
		if err := ensureAdmin(ctx, pgRepo, *adminUser, password, cfg.Auth.BcryptCost); err != nil {
			logger.Fatal("failed to provision admin user", zap.Error(err))
		}
		logger.Info("admin user ensured", zap.String("username", *adminUser))
	}

	// 2. Генерация документов по каталогу
	count, err := pgRepo.CountDocuments(ctx)
	if err != nil {
		logger.Fatal("failed to check document store", zap.Error(err))
	}
	if count > 0 && !*force {
		logger.Info("document store is not empty, skipping generation (use -force to override)",
			zap.Int("documents", count))
		return
	}

	catalog, err := policy.LoadCatalog(cfg.Policies.CatalogPath)
	if err != nil {
		logger.Fatal("failed to load policy catalog", zap.Error(err))
	}

	var gen generator.Generator
	if cfg.Generator.UseMock || cfg.Generator.APIKey == "" {
		logger.Warn("generator API key is not set, using mock generator")
		gen = &generator.MockGenerator{Latency: 200 * time.Millisecond}
	} else {
		gen = generator.NewOpenAIGenerator(cfg.Generator.APIKey, cfg.Generator.Model, logger)
	}
	safeGen := generator.NewReliabilityWrapper(gen, generator.ReliabilityConfig{
		RatePerSecond: cfg.Generator.RatePerSecond,
		Burst:         cfg.Generator.Burst,
		Attempts:      cfg.Generator.Attempts,
		CBMaxRequests: cfg.Generator.CBMaxRequests,
		CBInterval:    cfg.Generator.CBInterval,
		CBTimeout:     cfg.Generator.CBTimeout,
	})

	// Аудит пишем синхронно с теми же гарантиями, что и консоль
	trail := audit.NewTrail(pgRepo, logger, cfg.Engine.AuditBufferSize)
	trail.Start()
	defer trail.Stop()

	orch := engine.NewOrchestrator(safeGen, trail, engine.NewMetrics(nil), logger, cfg.Generator.ItemTimeout)
	docs, err := orch.Initialize(ctx, catalog)
	if err != nil {
		logger.Fatal("generation failed completely", zap.Error(err))
	}

	for i := range docs {
		if err := pgRepo.SaveDocument(ctx, &docs[i]); err != nil {
			logger.Fatal("failed to persist document", zap.String("id", docs[i].ID), zap.Error(err))
		}
	}
	logger.Info("documents persisted", zap.Int("count", len(docs)), zap.Int("policies", len(catalog)))

	// 3. Прогрев Redis-снапшота свежей коллекцией
	all, err := pgRepo.GetAllDocuments(ctx)
	if err != nil {
		logger.Fatal("failed to re-read collection", zap.Error(err))
	}
	snapshots := rediscache.NewSnapshotStore(rdb, cfg.Policies.Locale, logger)
	if *force {
		// Принудительный пересев перезаписывает снапшот и будит подписчиков
		if err := snapshots.Save(ctx, all); err != nil {
			logger.Error("failed to overwrite snapshot", zap.Error(err))
		}
	} else {
		payload, _ := json.Marshal(all)
		if err := engine.WarmupSnapshot(ctx, rdb, logger, snapshots.Key(), infra.RedisKeyLockWarmup, payload); err != nil {
			logger.Error("snapshot warm-up failed", zap.Error(err))
		}
	}

	logger.Info("seeding complete")
}

// ensureAdmin заводит пользователя с полными правами, если его еще нет
func ensureAdmin(ctx context.Context, repo *postgres.Repo, username, password string, bcryptCost int) error {
	existing, err := repo.GetUserByUsername(ctx, username)
	if err != nil {
		return err
	}
	if existing != nil {
		return nil // Уже есть, пароль не трогаем
	}

	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return err
	}

	return repo.CreateUser(ctx, &domain.User{
		ID:           uuid.NewString(),
		Email:        username + "@localhost",
		Username:     username,
		PasswordHash: string(hash),
		Role:         "admin",
		Scopes:       map[string]bool{"admin": true, "risks.approve": true},
	})
}
