package risk

import (
	"errors"
	"fmt"

	"github.com/xela07ax/hrsd-compliance-prototype/internal/domain"
)

var ErrInvalidEnumValue = errors.New("likelihood and impact must be one of Low/Medium/High")

// classifyTable — матрица 3×3: impact → likelihood → level.
// Полностью повторяет шкалу исходного регистра рисков.
var classifyTable = map[domain.RiskImpact]map[domain.RiskLikelihood]domain.RiskLevel{
	domain.ImpactHigh: {
		domain.LikelihoodLow:    domain.RiskLevelModerate,
		domain.LikelihoodMedium: domain.RiskLevelHigh,
		domain.LikelihoodHigh:   domain.RiskLevelSevere,
	},
	domain.ImpactMedium: {
		domain.LikelihoodLow:    domain.RiskLevelLow,
		domain.LikelihoodMedium: domain.RiskLevelModerate,
		domain.LikelihoodHigh:   domain.RiskLevelHigh,
	},
	domain.ImpactLow: {
		domain.LikelihoodLow:    domain.RiskLevelLow,
		domain.LikelihoodMedium: domain.RiskLevelLow,
		domain.LikelihoodHigh:   domain.RiskLevelModerate,
	},
}

// Classify возвращает производный уровень риска.
// Значение вне трехбалльной шкалы — ошибка программирования вызывающей стороны:
// не подставляем дефолт молча, а возвращаем ErrInvalidEnumValue.
func Classify(likelihood domain.RiskLikelihood, impact domain.RiskImpact) (domain.RiskLevel, error) {
	row, ok := classifyTable[impact]
	if !ok {
		return "", fmt.Errorf("%w: impact %q", ErrInvalidEnumValue, impact)
	}
	level, ok := row[likelihood]
	if !ok {
		return "", fmt.Errorf("%w: likelihood %q", ErrInvalidEnumValue, likelihood)
	}
	return level, nil
}

// MustClassify — для read-path таблиц, где поля уже прошли валидацию при записи.
// На битых данных возвращает пустой уровень, не панику.
func MustClassify(likelihood domain.RiskLikelihood, impact domain.RiskImpact) domain.RiskLevel {
	level, err := Classify(likelihood, impact)
	if err != nil {
		return ""
	}
	return level
}
