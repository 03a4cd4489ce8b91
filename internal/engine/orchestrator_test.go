package engine

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/xela07ax/hrsd-compliance-prototype/internal/domain"
	"github.com/xela07ax/hrsd-compliance-prototype/internal/generator"
)

func testCatalog(n int) []domain.Policy {
	policies := make([]domain.Policy, 0, n)
	for i := 0; i < n; i++ {
		title := fmt.Sprintf("Policy %c", 'A'+i)
		policies = append(policies, domain.Policy{
			ID:            fmt.Sprintf("policy-%d", i),
			Title:         title,
			FrameworkText: "Article No. (1): framework text.",
		})
	}
	return policies
}

func testOrchestrator(gen generator.Generator) *Orchestrator {
	o := NewOrchestrator(gen, nil, NewMetrics(nil), zap.NewNop(), time.Minute)
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	o.now = func() time.Time { return base }
	return o
}

func TestInitializeGeneratesAllPolicies(t *testing.T) {
	o := testOrchestrator(&generator.MockGenerator{})

	docs, err := o.Initialize(context.Background(), testCatalog(3))
	require.NoError(t, err)
	require.Len(t, docs, 3)

	for i, doc := range docs {
		assert.Equal(t, fmt.Sprintf("Policy %c", 'A'+i), doc.PolicyTitle)
		assert.Equal(t, domain.DocStatusDraft, doc.Status)
		assert.Equal(t, 1.0, doc.Version)
		require.Len(t, doc.History, 1)
		assert.Equal(t, SeedNote, doc.History[0].Notes)
		assert.Equal(t, SeedActor, doc.History[0].Actor)
		assert.NotEmpty(t, doc.Content.Description)
	}
}

func TestInitializeIDsAndTimestampsAreMonotonic(t *testing.T) {
	o := testOrchestrator(&generator.MockGenerator{})

	docs, err := o.Initialize(context.Background(), testCatalog(4))
	require.NoError(t, err)
	require.Len(t, docs, 4)

	for i := 1; i < len(docs); i++ {
		assert.True(t, docs[i].CreatedAt.After(docs[i-1].CreatedAt),
			"timestamps must strictly grow with catalog index")
		assert.NotEqual(t, docs[i].ID, docs[i-1].ID)
	}
	assert.Equal(t, time.Second, docs[1].CreatedAt.Sub(docs[0].CreatedAt))
}

func TestInitializeContinuesAfterSingleFailure(t *testing.T) {
	o := testOrchestrator(&generator.MockGenerator{
		FailTitles: map[string]bool{"Policy B": true},
	})

	docs, err := o.Initialize(context.Background(), testCatalog(3))
	require.NoError(t, err)
	require.Len(t, docs, 2)

	// Порядок выживших совпадает с порядком каталога
	assert.Equal(t, "Policy A", docs[0].PolicyTitle)
	assert.Equal(t, "Policy C", docs[1].PolicyTitle)
}

func TestInitializeFailsWhenNothingGenerated(t *testing.T) {
	o := testOrchestrator(&generator.MockGenerator{
		FailTitles: map[string]bool{"Policy A": true, "Policy B": true},
	})

	docs, err := o.Initialize(context.Background(), testCatalog(2))
	require.ErrorIs(t, err, ErrAllGenerationsFailed)
	assert.Nil(t, docs)
}

func TestInitializeEmptyCatalog(t *testing.T) {
	o := testOrchestrator(&generator.MockGenerator{})

	docs, err := o.Initialize(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, docs)
}
