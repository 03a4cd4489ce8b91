package risk

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xela07ax/hrsd-compliance-prototype/internal/domain"
)

func TestClassifyMatrix(t *testing.T) {
	cases := []struct {
		likelihood domain.RiskLikelihood
		impact     domain.RiskImpact
		want       domain.RiskLevel
	}{
		{domain.LikelihoodHigh, domain.ImpactHigh, domain.RiskLevelSevere},
		{domain.LikelihoodMedium, domain.ImpactHigh, domain.RiskLevelHigh},
		{domain.LikelihoodLow, domain.ImpactHigh, domain.RiskLevelModerate},
		{domain.LikelihoodHigh, domain.ImpactMedium, domain.RiskLevelHigh},
		{domain.LikelihoodMedium, domain.ImpactMedium, domain.RiskLevelModerate},
		{domain.LikelihoodLow, domain.ImpactMedium, domain.RiskLevelLow},
		{domain.LikelihoodHigh, domain.ImpactLow, domain.RiskLevelModerate},
		{domain.LikelihoodMedium, domain.ImpactLow, domain.RiskLevelLow},
		{domain.LikelihoodLow, domain.ImpactLow, domain.RiskLevelLow},
	}

	for _, tc := range cases {
		got, err := Classify(tc.likelihood, tc.impact)
		require.NoError(t, err)
		assert.Equal(t, tc.want, got, "%s x %s", tc.likelihood, tc.impact)
	}
}

func TestClassifyInvalidEnum(t *testing.T) {
	_, err := Classify("Critical", domain.ImpactHigh)
	assert.ErrorIs(t, err, ErrInvalidEnumValue)

	_, err = Classify(domain.LikelihoodLow, "Extreme")
	assert.ErrorIs(t, err, ErrInvalidEnumValue)
}

func TestMustClassifySwallowsBadData(t *testing.T) {
	// Импортированные извне данные не должны ронять выдачу реестра
	assert.Equal(t, domain.RiskLevel(""), MustClassify("", ""))
	assert.Equal(t, domain.RiskLevelSevere, MustClassify(domain.LikelihoodHigh, domain.ImpactHigh))
}
