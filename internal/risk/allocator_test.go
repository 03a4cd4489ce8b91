package risk

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/xela07ax/hrsd-compliance-prototype/internal/domain"
)

func TestCategoryPrefix(t *testing.T) {
	assert.Equal(t, "PERFO", CategoryPrefix("Performance Management"))
	assert.Equal(t, "HR", CategoryPrefix("HR"))
	assert.Equal(t, "HRPL", CategoryPrefix("HR Pl"))
	assert.Equal(t, "", CategoryPrefix(""))
}

func TestNextIDFirstInCategory(t *testing.T) {
	existing := []domain.RiskItem{
		{ID: "RECRU-001"},
		{ID: "RECRU-002"},
	}
	assert.Equal(t, "PERFO-001", NextID(existing, "Performance Management"))
}

func TestNextIDIncrementsMaxSuffix(t *testing.T) {
	existing := []domain.RiskItem{
		{ID: "PERFO-001"},
		{ID: "PERFO-007"},
		{ID: "PERFO-003"},
		{ID: "RECRU-009"}, // Чужая категория не участвует
	}
	assert.Equal(t, "PERFO-008", NextID(existing, "Performance Management"))
}

func TestNextIDTreatsMalformedSuffixAsZero(t *testing.T) {
	existing := []domain.RiskItem{
		{ID: "PERFO-abc"},
		{ID: "PERFO-"},
	}
	assert.Equal(t, "PERFO-001", NextID(existing, "Performance Management"))
}

func TestNextIDZeroPadsToThree(t *testing.T) {
	existing := []domain.RiskItem{{ID: "PERFO-099"}}
	assert.Equal(t, "PERFO-100", NextID(existing, "Performance Management"))

	existing = []domain.RiskItem{{ID: "PERFO-999"}}
	assert.Equal(t, "PERFO-1000", NextID(existing, "Performance Management"))
}
