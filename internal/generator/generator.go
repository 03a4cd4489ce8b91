package generator

import (
	"context"
	"errors"
	"fmt"

	"github.com/xela07ax/hrsd-compliance-prototype/internal/domain"
)

// ErrGeneration маркирует любой отказ внешнего провайдера контента.
// Ядро зависит только от формы успех/ошибка, не от конкретного провайдера.
var ErrGeneration = errors.New("content generation failed")

// Generator — контракт внешнего генеративного провайдера.
// Все вызовы сетевые и могут зависать: таймауты навешивает ReliabilityWrapper.
type Generator interface {
	// GeneratePolicyDocument строит структурированное тело документа
	// по названию политики и тексту регуляторной рамки.
	GeneratePolicyDocument(ctx context.Context, policyTitle, frameworkText string) (domain.DocumentContent, error)

	// GenerateCompliancePlan сравнивает текущий документ с рамкой
	// и возвращает пошаговый план устранения разрывов.
	GenerateCompliancePlan(ctx context.Context, policy domain.Policy, content domain.DocumentContent) (domain.CompliancePlan, error)

	// AnalyzeRisks возвращает уточненные записи реестра и текстовую сводку
	AnalyzeRisks(ctx context.Context, items []domain.RiskItem) ([]domain.RiskItem, string, error)

	// GenerateSpeech озвучивает текст (байты аудио для Live-ассистента)
	GenerateSpeech(ctx context.Context, text string) ([]byte, error)
}

func wrapErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrGeneration, op, err)
}
