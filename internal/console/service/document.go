package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/xela07ax/hrsd-compliance-prototype/internal/audit"
	"github.com/xela07ax/hrsd-compliance-prototype/internal/domain"
	"github.com/xela07ax/hrsd-compliance-prototype/internal/engine"
	"github.com/xela07ax/hrsd-compliance-prototype/internal/generator"
	"github.com/xela07ax/hrsd-compliance-prototype/internal/policy"
)

// DocumentRepository описывает требования сервиса к хранилищу документов
type DocumentRepository interface {
	GetDocumentByID(ctx context.Context, id string) (*domain.PolicyDocument, error)
	GetAllDocuments(ctx context.Context) ([]domain.PolicyDocument, error)
	SaveDocument(ctx context.Context, doc *domain.PolicyDocument) error
}

// SnapshotWriter — второй уровень кэша (Redis) с сигналом об обновлении
type SnapshotWriter interface {
	Save(ctx context.Context, docs []domain.PolicyDocument) error
}

type DocumentService struct {
	repo      DocumentRepository
	cache     *policy.MemoDocuments
	snapshots SnapshotWriter
	gen       generator.Generator
	auditor   audit.Auditor
	metrics   *engine.Metrics
	logger    *zap.Logger

	// strict включает проверку переходов по таблице смежности.
	// По умолчанию выключено: применяется любой запрошенный статус.
	strict bool
}

func NewDocumentService(
	repo DocumentRepository,
	cache *policy.MemoDocuments,
	snapshots SnapshotWriter,
	gen generator.Generator,
	auditor audit.Auditor,
	metrics *engine.Metrics,
	strict bool,
	logger *zap.Logger,
) *DocumentService {
	return &DocumentService{
		repo:      repo,
		cache:     cache,
		snapshots: snapshots,
		gen:       gen,
		auditor:   auditor,
		metrics:   metrics,
		strict:    strict,
		logger:    logger.Named("document-service"),
	}
}

// List отдает коллекцию из RAM-кэша (Hot Path, без похода в БД)
func (s *DocumentService) List(ctx context.Context) ([]domain.PolicyDocument, error) {
	docs := s.cache.Snapshot()
	if docs == nil {
		docs = []domain.PolicyDocument{}
	}
	return docs, nil
}

func (s *DocumentService) Get(ctx context.Context, id string) (*domain.PolicyDocument, error) {
	return s.repo.GetDocumentByID(ctx, id)
}

// Transition применяет переход статуса документа.
// Порядок фиксирован: валидация → мутация → Postgres → кэши → аудит.
// Если запись в БД упала, мутация не публикуется — кэш и снапшот не трогаем.
func (s *DocumentService) Transition(ctx context.Context, id string, next domain.DocumentStatus, notes, actor string) (*domain.PolicyDocument, error) {
	start := time.Now()

	doc, err := s.repo.GetDocumentByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if s.strict {
		if err := doc.CanTransitionTo(next); err != nil {
			s.logAudit(id, "transition", notes, actor, start, err)
			return nil, err
		}
	}

	if err := doc.ApplyTransition(next, notes, actor, time.Now().UTC()); err != nil {
		s.logAudit(id, "transition", notes, actor, start, err)
		return nil, err
	}

	if err := s.repo.SaveDocument(ctx, doc); err != nil {
		s.logger.Error("failed to persist document transition",
			zap.String("id", id), zap.Error(err))
		s.logAudit(id, "transition", notes, actor, start, err)
		return nil, fmt.Errorf("transition database error: %w", err)
	}

	s.metrics.DocumentTransitions.WithLabelValues(string(next)).Inc()
	s.logAudit(id, "transition", notes, actor, start, nil)

	if err := s.refreshCaches(ctx); err != nil {
		// Состояние в БД уже корректно: кэши догонят при следующем обновлении
		s.logger.Warn("cache refresh after transition failed", zap.Error(err))
	}

	s.logger.Info("document transitioned",
		zap.String("id", id),
		zap.String("status", string(next)),
		zap.String("actor", actor))
	return doc, nil
}

// ImportGenerated сохраняет пачку документов от оркестратора и прогревает кэши.
// Используется автосидом при старте и CLI-сидером.
func (s *DocumentService) ImportGenerated(ctx context.Context, docs []domain.PolicyDocument) error {
	for i := range docs {
		if err := s.repo.SaveDocument(ctx, &docs[i]); err != nil {
			return fmt.Errorf("failed to persist generated document %s: %w", docs[i].ID, err)
		}
	}
	return s.refreshCaches(ctx)
}

// Speak озвучивает описание документа (байты аудио для ассистента консоли)
func (s *DocumentService) Speak(ctx context.Context, id string) ([]byte, error) {
	doc, err := s.repo.GetDocumentByID(ctx, id)
	if err != nil {
		return nil, err
	}

	audio, err := s.gen.GenerateSpeech(ctx, doc.Content.Description)
	if err != nil {
		s.logger.Error("speech generation failed", zap.String("id", id), zap.Error(err))
		return nil, fmt.Errorf("speech for %s: %w", id, err)
	}
	return audio, nil
}

// refreshCaches перечитывает коллекцию из БД в RAM и перезаписывает Redis-снапшот
func (s *DocumentService) refreshCaches(ctx context.Context) error {
	if err := s.cache.Refresh(ctx); err != nil {
		return err
	}
	return s.snapshots.Save(ctx, s.cache.Snapshot())
}

func (s *DocumentService) logAudit(id, action, notes, actor string, start time.Time, opErr error) {
	event := audit.AuditEvent{
		ID:         uuid.NewString(),
		EntityType: audit.EntityDocument,
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

// IsNotFound — хелпер для маппинга доменной ошибки в 404 на уровне хендлера
func IsNotFound(err error) bool {
	return errors.Is(err, domain.ErrDocumentNotFound) || errors.Is(err, domain.ErrRiskNotFound)
}
