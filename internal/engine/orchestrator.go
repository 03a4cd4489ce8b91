package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/xela07ax/hrsd-compliance-prototype/internal/audit"
	"github.com/xela07ax/hrsd-compliance-prototype/internal/domain"
	"github.com/xela07ax/hrsd-compliance-prototype/internal/generator"

	"github.com/google/uuid"
)

// ErrAllGenerationsFailed возвращается, когда непустой каталог политик
// не дал ни одного документа. Одиночные сбои никогда не валят пакет.
var ErrAllGenerationsFailed = errors.New("all document generations failed")

// SeedNote — фиксированная запись истории для сгенерированного документа
const (
	SeedNote  = "Document automatically generated by Agent AI."
	SeedActor = "Agent AI"
)

// Orchestrator управляет пакетной генерацией стартового набора документов:
// один документ на каждую политику каталога, с устойчивостью к частичным
// сбоям провайдера.
type Orchestrator struct {
	gen     generator.Generator
	auditor audit.Auditor
	metrics *Metrics
	logger  *zap.Logger

	// Таймаут на один вызов генератора. Пакет целиком не ограничивается:
	// отмена — только через внешний контекст.
	itemTimeout time.Duration

	// Подменяется в тестах для детерминированных таймстемпов
	now func() time.Time
}

func NewOrchestrator(gen generator.Generator, auditor audit.Auditor, metrics *Metrics, logger *zap.Logger, itemTimeout time.Duration) *Orchestrator {
	if itemTimeout == 0 {
		itemTimeout = 90 * time.Second
	}
	return &Orchestrator{
		gen:         gen,
		auditor:     auditor,
		metrics:     metrics,
		logger:      logger.Named("orchestrator"),
		itemTimeout: itemTimeout,
		now:         time.Now,
	}
}

// Initialize последовательно генерирует документы в порядке каталога.
// Последовательный проход — осознанный выбор: стабильный порядок результата
// и предсказуемая нагрузка на провайдера важнее пропускной способности.
//
// Контракт отказов: сбой одной политики логируется и пропускается;
// ErrAllGenerationsFailed возвращается только если не удалось ничего.
func (o *Orchestrator) Initialize(ctx context.Context, policies []domain.Policy) ([]domain.PolicyDocument, error) {
	base := o.now()
	docs := make([]domain.PolicyDocument, 0, len(policies))
	failed := 0

	for i, policy := range policies {
		start := o.now()
		content, err := o.generateOne(ctx, policy)
		if o.metrics != nil {
			o.metrics.GenerationDuration.WithLabelValues(statusLabel(err)).
				Observe(o.now().Sub(start).Seconds())
		}

		if err != nil {
			failed++
			o.logger.Error("failed to generate document, continuing batch",
				zap.String("policy", policy.Title),
				zap.Int("index", i),
				zap.Error(err))
			if o.metrics != nil {
				o.metrics.GenerationErrors.WithLabelValues("generator").Inc()
			}
			o.logAudit(policy, start, err)
			if ctx.Err() != nil {
				// Внешний контекст отменен: дальше идти бессмысленно
				break
			}
			continue
		}

		// Таймстемпы монотонно растут по индексу, чтобы порядок отображения
		// был стабилен даже при совпадении wall-clock времени.
		ts := base.Add(time.Duration(i) * time.Second)
		doc := domain.PolicyDocument{
			ID:          fmt.Sprintf("HRSD-%d", base.UnixMilli()+int64(i)),
			PolicyTitle: policy.Title,
			Content:     content,
			Status:      domain.DocStatusDraft,
			Version:     1.0,
			CreatedAt:   ts,
			UpdatedAt:   ts,
			History: []domain.HistoryEntry{{
				Timestamp: ts,
				Status:    domain.DocStatusDraft,
				Notes:     SeedNote,
				Actor:     SeedActor,
			}},
		}
		docs = append(docs, doc)
		o.logAudit(policy, start, nil)

		if o.metrics != nil {
			o.metrics.DocumentsGenerated.Inc()
		}
	}

	if len(docs) == 0 && len(policies) > 0 {
		return nil, fmt.Errorf("%w: %d of %d policies failed", ErrAllGenerationsFailed, failed, len(policies))
	}
	return docs, nil
}

func (o *Orchestrator) generateOne(ctx context.Context, policy domain.Policy) (domain.DocumentContent, error) {
	itemCtx, cancel := context.WithTimeout(ctx, o.itemTimeout)
	defer cancel()
	return o.gen.GeneratePolicyDocument(itemCtx, policy.Title, policy.FrameworkText)
}

func (o *Orchestrator) logAudit(policy domain.Policy, start time.Time, genErr error) {
	if o.auditor == nil {
		return
	}
	event := audit.AuditEvent{
		ID:         uuid.New().String(),
		EntityType: audit.EntityDocument,
		EntityID:   policy.ID,
		Action:     "generate",
		Status:     string(domain.DocStatusDraft),
		Notes:      SeedNote,
		Actor:      SeedActor,
		Timestamp:  start,
		DurationMs: o.now().Sub(start).Milliseconds(),
	}
	if genErr != nil {
		event.Status = "FAILED"
		event.Error = genErr.Error()
	}
	o.auditor.Log(event)
}

func statusLabel(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
