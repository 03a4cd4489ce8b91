package risk

import (
	"context"

	"go.uber.org/zap"

	"github.com/xela07ax/hrsd-compliance-prototype/internal/domain"
	"github.com/xela07ax/hrsd-compliance-prototype/internal/generator"
)

// Analyzer прогоняет реестр через генеративный анализ и защищает его
// от некорректного ответа провайдера: ID и шкалы записей неприкосновенны.
type Analyzer struct {
	gen    generator.Generator
	logger *zap.Logger
}

func NewAnalyzer(gen generator.Generator, logger *zap.Logger) *Analyzer {
	return &Analyzer{gen: gen, logger: logger.Named("analyzer")}
}

// Run возвращает уточненный реестр и текстовую сводку.
// Записи, которые провайдер потерял или испортил (чужой ID, битые enum-поля),
// остаются в исходном виде — анализ не имеет права ломать реестр.
func (a *Analyzer) Run(ctx context.Context, items []domain.RiskItem) ([]domain.RiskItem, string, error) {
	updated, summary, err := a.gen.AnalyzeRisks(ctx, items)
	if err != nil {
		return nil, "", err
	}

	byID := make(map[string]domain.RiskItem, len(updated))
	for _, item := range updated {
		byID[item.ID] = item
	}

	result := make([]domain.RiskItem, 0, len(items))
	for _, original := range items {
		candidate, ok := byID[original.ID]
		if !ok {
			a.logger.Warn("analysis dropped a risk item, keeping original",
				zap.String("id", original.ID))
			result = append(result, original)
			continue
		}

		if _, err := Classify(candidate.Likelihood, candidate.Impact); err != nil {
			a.logger.Warn("analysis returned invalid scale values, keeping original",
				zap.String("id", original.ID), zap.Error(err))
			result = append(result, original)
			continue
		}

		// Неизменяемые поля ядра: категория и шкалы остаются исходными
		candidate.Category = original.Category
		candidate.Likelihood = original.Likelihood
		candidate.Impact = original.Impact
		result = append(result, candidate)
	}

	return result, summary, nil
}
