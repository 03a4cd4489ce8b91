package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/xela07ax/hrsd-compliance-prototype/internal/audit"
	"github.com/xela07ax/hrsd-compliance-prototype/internal/domain"
	"github.com/xela07ax/hrsd-compliance-prototype/internal/engine"
	"github.com/xela07ax/hrsd-compliance-prototype/internal/risk"
)

// RiskRepository описывает требования сервиса к хранилищу реестра рисков
type RiskRepository interface {
	GetRiskByID(ctx context.Context, id string) (*domain.RiskItem, error)
	GetAllRisks(ctx context.Context) ([]domain.RiskItem, error)
	SaveRisk(ctx context.Context, item *domain.RiskItem) error
}

// RiskView — запись реестра с производным уровнем серьезности.
// Уровень не хранится в БД и всегда пересчитывается на чтении.
type RiskView struct {
	domain.RiskItem
	RiskLevel domain.RiskLevel `json:"riskLevel"`
}

// AnalysisResult — результат генеративного анализа реестра
type AnalysisResult struct {
	Items   []RiskView `json:"items"`
	Summary string     `json:"summary"`
}

type RiskService struct {
	repo     RiskRepository
	analyzer *risk.Analyzer
	auditor  audit.Auditor
	metrics  *engine.Metrics
	logger   *zap.Logger
}

func NewRiskService(repo RiskRepository, analyzer *risk.Analyzer, auditor audit.Auditor, metrics *engine.Metrics, logger *zap.Logger) *RiskService {
	return &RiskService{
		repo:     repo,
		analyzer: analyzer,
		auditor:  auditor,
		metrics:  metrics,
		logger:   logger.Named("risk-service"),
	}
}

// List возвращает весь реестр с вычисленными уровнями
func (s *RiskService) List(ctx context.Context) ([]RiskView, error) {
	items, err := s.repo.GetAllRisks(ctx)
	if err != nil {
		return nil, fmt.Errorf("service: could not fetch risks: %w", err)
	}
	return s.withLevels(items), nil
}

// Create заводит новую запись: ID выдает аллокатор по категории,
// запись рождается черновиком со статусом соответствия Non-Compliant.
func (s *RiskService) Create(ctx context.Context, item domain.RiskItem) (*RiskView, error) {
	if item.Category == "" || item.RiskDescription == "" {
		return nil, domain.ErrMissingRiskFields
	}
	if _, err := risk.Classify(item.Likelihood, item.Impact); err != nil {
		return nil, err
	}

	existing, err := s.repo.GetAllRisks(ctx)
	if err != nil {
		return nil, fmt.Errorf("service: could not allocate risk id: %w", err)
	}

	item.ID = risk.NextID(existing, item.Category)
	item.ApprovalStatus = domain.ApprovalDraft
	if item.ComplianceStatus == "" {
		item.ComplianceStatus = domain.ComplianceNonCompliant
	}
	item.ManagementComments = nil

	if err := s.repo.SaveRisk(ctx, &item); err != nil {
		return nil, fmt.Errorf("service: could not save risk: %w", err)
	}

	s.logger.Info("risk item created",
		zap.String("id", item.ID), zap.String("category", item.Category))
	view := s.withLevels([]domain.RiskItem{item})[0]
	return &view, nil
}

// Submit отправляет черновик (или отклоненную запись) на согласование
func (s *RiskService) Submit(ctx context.Context, id, actor string) (*RiskView, error) {
	return s.decide(ctx, id, actor, "submit", "", func(item *domain.RiskItem) error {
		return item.Submit()
	})
}

// Approve фиксирует одобрение. Требует отдельного скоупа risks.approve —
// проверка прав выполняется периметром роутера.
func (s *RiskService) Approve(ctx context.Context, id, actor string) (*RiskView, error) {
	return s.decide(ctx, id, actor, "approve", "", func(item *domain.RiskItem) error {
		return item.Approve()
	})
}

// Reject отклоняет запись с обязательным комментарием руководства
func (s *RiskService) Reject(ctx context.Context, id, actor, comments string) (*RiskView, error) {
	return s.decide(ctx, id, actor, "reject", comments, func(item *domain.RiskItem) error {
		return item.Reject(comments)
	})
}

// decide — унифицированный механизм решений воркфлоу.
// Обновляет БД, пишет метрику и событие аудита.
func (s *RiskService) decide(ctx context.Context, id, actor, decision, notes string, mutate func(*domain.RiskItem) error) (*RiskView, error) {
	start := time.Now()

	item, err := s.repo.GetRiskByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := mutate(item); err != nil {
		s.logAudit(id, decision, notes, actor, start, err)
		return nil, err
	}

	if err := s.repo.SaveRisk(ctx, item); err != nil {
		s.logger.Error("failed to persist risk decision",
			zap.String("id", id), zap.String("decision", decision), zap.Error(err))
		s.logAudit(id, decision, notes, actor, start, err)
		return nil, fmt.Errorf("%s database error: %w", decision, err)
	}

	s.metrics.RiskDecisions.WithLabelValues(decision).Inc()
	s.logAudit(id, decision, notes, actor, start, nil)
	s.logger.Info("risk decision processed",
		zap.String("id", id),
		zap.String("decision", decision),
		zap.String("actor", actor))

	view := s.withLevels([]domain.RiskItem{*item})[0]
	return &view, nil
}

// WorkflowStats — агрегаты очереди согласования для дашборда
func (s *RiskService) WorkflowStats(ctx context.Context) (*domain.WorkflowStats, error) {
	items, err := s.repo.GetAllRisks(ctx)
	if err != nil {
		return nil, err
	}
	return &domain.WorkflowStats{
		Counts: domain.CountsByStatus(items),
		Total:  len(items),
	}, nil
}

// Analyze прогоняет реестр через генеративный анализ и сохраняет уточненные
// записи. Шкалы и категории записей при этом неприкосновенны (гарантия Analyzer).
func (s *RiskService) Analyze(ctx context.Context) (*AnalysisResult, error) {
	start := time.Now()

	items, err := s.repo.GetAllRisks(ctx)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return &AnalysisResult{Items: []RiskView{}}, nil
	}

	updated, summary, err := s.analyzer.Run(ctx, items)
	if err != nil {
		s.logAudit("register", "analyze", "", "Agent AI", start, err)
		return nil, fmt.Errorf("register analysis failed: %w", err)
	}

	for i := range updated {
		if err := s.repo.SaveRisk(ctx, &updated[i]); err != nil {
			return nil, fmt.Errorf("failed to persist analyzed risk %s: %w", updated[i].ID, err)
		}
	}

	s.logAudit("register", "analyze", summary, "Agent AI", start, nil)
	s.logger.Info("risk register analyzed", zap.Int("count", len(updated)))
	return &AnalysisResult{Items: s.withLevels(updated), Summary: summary}, nil
}

func (s *RiskService) withLevels(items []domain.RiskItem) []RiskView {
	views := make([]RiskView, 0, len(items))
	for _, item := range items {
		views = append(views, RiskView{
			RiskItem:  item,
			RiskLevel: risk.MustClassify(item.Likelihood, item.Impact),
		})
	}
	return views
}

func (s *RiskService) logAudit(id, action, notes, actor string, start time.Time, opErr error) {
	event := audit.AuditEvent{
		ID:         uuid.NewString(),
		EntityType: audit.EntityRisk,
		EntityID:   id,
		Action:     action,
		Status:     "OK",
		Notes:      notes,
		Actor:      actor,
		Timestamp:  time.Now().UTC(),
		DurationMs: time.Since(start).Milliseconds(),
	}
	if opErr != nil {
		event.Status = "ERROR"
		event.Error = opErr.Error()
	}
	s.auditor.Log(event)
}
