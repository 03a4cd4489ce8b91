package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/xela07ax/hrsd-compliance-prototype/internal/audit"
	"github.com/xela07ax/hrsd-compliance-prototype/internal/console/handler"
	"github.com/xela07ax/hrsd-compliance-prototype/internal/console/server"
	"github.com/xela07ax/hrsd-compliance-prototype/internal/console/service"
	"github.com/xela07ax/hrsd-compliance-prototype/internal/engine"
	"github.com/xela07ax/hrsd-compliance-prototype/internal/generator"
	"github.com/xela07ax/hrsd-compliance-prototype/internal/infra"
	"github.com/xela07ax/hrsd-compliance-prototype/internal/infra/auth"
	"github.com/xela07ax/hrsd-compliance-prototype/internal/policy"
	"github.com/xela07ax/hrsd-compliance-prototype/internal/repository/postgres"
	"github.com/xela07ax/hrsd-compliance-prototype/internal/repository/rediscache"
	"github.com/xela07ax/hrsd-compliance-prototype/internal/risk"
)

func main() {
	// 1. Конфигурация и логгер
	cfg, err := infra.LoadConfig()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	logger, err := infra.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer logger.Sync()

	// Контекст для управления жизненным циклом фоновых горутин
	appCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 2. Инфраструктура и ресурсы
	pingCtx, pingCancel := context.WithTimeout(appCtx, 5*time.Second)
	pgRepo, err := postgres.NewRepo(pingCtx, cfg.Database.URL, cfg.Database.MaxConns, cfg.Database.MinConns)
	if err != nil {
		logger.Fatal("failed to init postgres pool", zap.Error(err))
	}
	if err := pgRepo.Ping(pingCtx); err != nil {
		logger.Fatal("database unreachable", zap.Error(err))
	}
	pingCancel()
	defer pgRepo.Close()

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer rdb.Close()

	// 3. Ключи и проверка токенов (RS256)
	pubKey, err := auth.ParseRSAPublicKey(cfg.Auth.PublicKey)
	if err != nil {
		logger.Fatal("failed to parse public key", zap.Error(err))
	}
	privKey, err := auth.ParseRSAPrivateKey(cfg.Auth.PrivateKey)
	if err != nil {
		logger.Fatal("failed to parse private key", zap.Error(err))
	}
	validator := auth.NewBaseValidator(pubKey)

	// 4. Метрики: отдельный реестр и отдельный порт
	reg := prometheus.NewRegistry()
	metrics := engine.NewMetrics(reg)
	go func() {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
		addr := fmt.Sprintf(":%d", cfg.Server.MetricsPort)
		logger.Info("metrics endpoint started", zap.String("addr", addr))
		if err := http.ListenAndServe(addr, mux); err != nil {
			logger.Error("metrics server stopped", zap.Error(err))
		}
	}()

	// 5. Audit Trail: асинхронная пакетная запись в Postgres
	trail := audit.NewTrail(pgRepo, logger, cfg.Engine.AuditBufferSize)
	trail.Start()
	defer trail.Stop()

	// 6. Генератор контента + контур надежности
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

	// Фоновая выгрузка Saturation-метрик: состояние CB и заполненность буфера
	go func() {
		ticker := time.NewTicker(5 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-appCtx.Done():
				return
			case <-ticker.C:
				state := 0.0
				if safeGen.State() == gobreaker.StateOpen {
					state = 1.0
				}
				metrics.CircuitBreakerState.Set(state)
				metrics.AuditBufferFill.Set(float64(trail.Depth()))
			}
		}
	}()

	// 7. Каталог политик и кэши коллекции документов
	catalog, err := policy.LoadCatalog(cfg.Policies.CatalogPath)
	if err != nil {
		logger.Fatal("failed to load policy catalog", zap.Error(err))
	}
	cache := policy.NewMemoDocuments(pgRepo, rdb, logger)
	snapshots := rediscache.NewSnapshotStore(rdb, cfg.Policies.Locale, logger)

	// Холодный старт: снапшот из Redis быстрее полной выборки из Postgres
	if docs, ok := snapshots.Load(appCtx); ok {
		cache.Prime(docs)
	} else {
		if err := cache.Refresh(appCtx); err != nil {
			logger.Fatal("failed to load documents from DB", zap.Error(err))
		}
		// Снапшота не было — греем его текущим состоянием под блокировкой
		if payload, err := json.Marshal(cache.Snapshot()); err == nil {
			if err := engine.WarmupSnapshot(appCtx, rdb, logger, snapshots.Key(), infra.RedisKeyLockWarmup, payload); err != nil {
				logger.Warn("snapshot warm-up failed", zap.Error(err))
			}
		}
	}

	// 8. Сервисный слой (Dependency Injection)
	docService := service.NewDocumentService(pgRepo, cache, snapshots, safeGen, trail, metrics, cfg.Engine.StrictTransitions, logger)
	riskService := service.NewRiskService(pgRepo, risk.NewAnalyzer(safeGen, logger), trail, metrics, logger)
	dashService := service.NewDashboardService(catalog, cache, safeGen, logger)
	auditService := service.NewAuditService(pgRepo)
	authService := service.NewAuthService(pgRepo, validator, privKey, cfg.Auth.TokenTTL)

	// 9. Автосид: пустой реестр наполняется документами из каталога
	if count, err := pgRepo.CountDocuments(appCtx); err == nil && count == 0 && len(catalog) > 0 {
		logger.Info("document store is empty, generating initial collection...",
			zap.Int("policies", len(catalog)))
		orch := engine.NewOrchestrator(safeGen, trail, metrics, logger, cfg.Generator.ItemTimeout)
		docs, err := orch.Initialize(appCtx, catalog)
		if err != nil {
			// Стартуем с пустым реестром: генерацию можно повторить сидером
			logger.Error("initial generation failed completely", zap.Error(err))
		} else if err := docService.ImportGenerated(appCtx, docs); err != nil {
			logger.Error("failed to persist initial collection", zap.Error(err))
		}
	}

	// 10. Подписка на сигналы об изменении коллекции (другие инстансы)
	go engine.ListenUpdatesResilient(appCtx, rdb, logger, infra.RedisChanDocumentUpdates,
		func() error { return cache.Refresh(appCtx) },
		func(payload string) {
			if err := cache.Refresh(appCtx); err != nil {
				logger.Error("cache refresh on signal failed", zap.Error(err))
			}
		})

	// 11. HTTP Server
	consoleSrv := server.NewConsoleServer(cfg, logger, authService,
		handler.NewAuthHandler(authService),
		handler.NewDocumentHandler(docService),
		handler.NewRiskHandler(riskService),
		handler.NewDashboardHandler(dashService, riskService),
		handler.NewAuditHandler(auditService),
	)

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      consoleSrv,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// 12. Graceful Shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		logger.Info("console API started", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("listen failed", zap.Error(err))
		}
	}()

	<-stop // Ждем сигнал
	logger.Info("console stopping...")

	// Даем 5 секунд на завершение запросов
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", zap.Error(err))
	}
	cancel() // Останавливаем фоновые горутины до финального сброса аудита
	logger.Info("console exited properly")
}
