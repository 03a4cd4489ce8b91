package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/xela07ax/hrsd-compliance-prototype/internal/console/handler"
	"github.com/xela07ax/hrsd-compliance-prototype/internal/infra"
	"github.com/xela07ax/hrsd-compliance-prototype/internal/infra/auth"
)

type ConsoleServer struct {
	router *chi.Mux
	logger *zap.Logger
	cfg    *infra.Config

	// Интерфейс для проверки токенов (RS256)
	// Реализуется через embedding BaseValidator в AuthService
	authValidator auth.TokenValidator

	// Обработчики бизнес-доменов
	authHandler     *handler.AuthHandler      // /auth/token
	documentHandler *handler.DocumentHandler  // /v1/documents
	riskHandler     *handler.RiskHandler      // /v1/risks + /v1/workflow
	dashHandler     *handler.DashboardHandler // /api/v1/compliance
	auditHandler    *handler.AuditHandler     // /v1/audit (Logs)
}

// NewConsoleServer инициализирует сервер консоли со всеми зависимостями
func NewConsoleServer(
	cfg *infra.Config,
	logger *zap.Logger,
	validator auth.TokenValidator,
	authH *handler.AuthHandler,
	documentH *handler.DocumentHandler,
	riskH *handler.RiskHandler,
	dashH *handler.DashboardHandler,
	auditH *handler.AuditHandler,
) *ConsoleServer {
	s := &ConsoleServer{
		router:          chi.NewRouter(),
		logger:          logger.Named("console-api"),
		cfg:             cfg,
		authValidator:   validator,
		authHandler:     authH,
		documentHandler: documentH,
		riskHandler:     riskH,
		dashHandler:     dashH,
		auditHandler:    auditH,
	}

	s.routes()
	return s
}

func (s *ConsoleServer) routes() {
	r := s.router

	// --- 1. Глобальные инфраструктурные Middleware (для всех) ---
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// --- 2. ПУБЛИЧНЫЕ РОУТЫ (Открыты для всех) ---
	r.Group(func(r chi.Router) {
		// Логин должен быть доступен без токена
		r.Post("/auth/token", s.authHandler.Login)

		// Healthcheck для мониторинга
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		})
	})

	// --- 3. ЗАЩИЩЕННЫЙ ПЕРИМЕТР (Требуют RS256 токен) ---
	r.Group(func(r chi.Router) {
		// Подключаем универсальный Middleware только для этой группы
		r.Use(auth.NewMiddleware(s.authValidator, s.logger))

		// Проекция соответствия «политики → документы» и агрегаты реестра
		r.Get("/api/v1/compliance", s.dashHandler.GetCompliance)
		r.Post("/api/v1/compliance/{policyId}/plan", s.dashHandler.GeneratePlan)
		r.Get("/api/v1/overview", s.dashHandler.GetOverview)

		// Документы политик (жизненный цикл)
		r.Route("/v1/documents", func(r chi.Router) {
			r.Get("/", s.documentHandler.List) // Вся коллекция
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.documentHandler.Get)                   // Детали документа
				r.Post("/transition", s.documentHandler.Transition) // Переход статуса
				r.Get("/export", s.documentHandler.Export)          // Скачивание JSON
				r.Get("/speech", s.documentHandler.Speech)          // Озвучка описания
			})
		})

		// Реестр рисков и воркфлоу согласования
		r.Route("/v1/risks", func(r chi.Router) {
			r.Get("/", s.riskHandler.List)            // Весь реестр с уровнями
			r.Post("/", s.riskHandler.Create)         // Новая запись (ID от аллокатора)
			r.Post("/analyze", s.riskHandler.Analyze) // Генеративный анализ реестра
			r.Route("/{id}", func(r chi.Router) {
				r.Post("/submit", s.riskHandler.Submit) // Черновик → на согласование
				r.With(auth.RequireScope("risks.approve")).
					Post("/approve", s.riskHandler.Approve) // Одобрение (отдельное право)
				r.With(auth.RequireScope("risks.approve")).
					Post("/reject", s.riskHandler.Reject) // Отклонение с комментарием
			})
		})

		// Сводка очереди согласования
		r.Get("/v1/workflow/stats", s.riskHandler.WorkflowStats)

		// Аудит и Логи (Observability)
		r.Get("/v1/audit", s.auditHandler.GetLogs)
	})
}

// ServeHTTP позволяет использовать ConsoleServer как стандартный http.Handler
func (s *ConsoleServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}
