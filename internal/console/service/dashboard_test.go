package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/xela07ax/hrsd-compliance-prototype/internal/domain"
	"github.com/xela07ax/hrsd-compliance-prototype/internal/generator"
	"github.com/xela07ax/hrsd-compliance-prototype/internal/policy"
)

func testDashboard(catalog []domain.Policy, docs []domain.PolicyDocument) *DashboardService {
	cache := policy.NewMemoDocuments(nil, nil, zap.NewNop())
	cache.Prime(docs)
	return NewDashboardService(catalog, cache, &generator.MockGenerator{}, zap.NewNop())
}

func docWithStatus(title string, status domain.DocumentStatus, updated time.Time) domain.PolicyDocument {
	return domain.PolicyDocument{
		ID:          "HRSD-" + title,
		PolicyTitle: title,
		Status:      status,
		Version:     1.0,
		UpdatedAt:   updated,
	}
}

func TestProjectPercentageScale(t *testing.T) {
	now := time.Now()
	cases := []struct {
		status domain.DocumentStatus
		want   int
	}{
		{domain.DocStatusPublished, 100},
		{domain.DocStatusApproved, 80},
		{domain.DocStatusPendingApproval, 60},
		{domain.DocStatusRevisionsRequested, 40},
		{domain.DocStatusDraft, 20},
		{domain.DocStatusArchived, 0},
	}

	for _, tc := range cases {
		catalog := []domain.Policy{{ID: "p1", Title: "Performance Management"}}
		s := testDashboard(catalog, []domain.PolicyDocument{
			docWithStatus("Performance Management", tc.status, now),
		})

		entries, err := s.Project(context.Background())
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, tc.status, entries[0].Status)
		assert.Equal(t, tc.want, entries[0].Percentage, "status %s", tc.status)
		require.NotNil(t, entries[0].Document)
	}
}

func TestProjectMissingDocument(t *testing.T) {
	catalog := []domain.Policy{
		{ID: "p1", Title: "Performance Management"},
		{ID: "p2", Title: "Human Resources Planning"},
	}
	s := testDashboard(catalog, []domain.PolicyDocument{
		docWithStatus("Performance Management", domain.DocStatusPublished, time.Now()),
	})

	entries, err := s.Project(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, domain.DocStatusNotGenerated, entries[1].Status)
	assert.Equal(t, 0, entries[1].Percentage)
	assert.Nil(t, entries[1].Document)
}

func TestProjectPicksMostRecentDuplicate(t *testing.T) {
	old := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	fresh := old.Add(48 * time.Hour)

	catalog := []domain.Policy{{ID: "p1", Title: "Performance Management"}}
	docs := []domain.PolicyDocument{
		docWithStatus("Performance Management", domain.DocStatusDraft, old),
		docWithStatus("Performance Management", domain.DocStatusApproved, fresh),
	}
	docs[1].ID = "HRSD-fresh"

	s := testDashboard(catalog, docs)
	entries, err := s.Project(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 1)

	require.NotNil(t, entries[0].Document)
	assert.Equal(t, "HRSD-fresh", entries[0].Document.ID)
	assert.Equal(t, domain.DocStatusApproved, entries[0].Status)
}

func TestProjectIsIdempotent(t *testing.T) {
	catalog := []domain.Policy{
		{ID: "p1", Title: "Performance Management"},
		{ID: "p2", Title: "Human Resources Planning"},
	}
	s := testDashboard(catalog, []domain.PolicyDocument{
		docWithStatus("Performance Management", domain.DocStatusPendingApproval, time.Now()),
	})

	first, err := s.Project(context.Background())
	require.NoError(t, err)
	second, err := s.Project(context.Background())
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestPlanRequiresPolicyAndDocument(t *testing.T) {
	catalog := []domain.Policy{{ID: "p1", Title: "Performance Management", FrameworkText: "Article 1."}}
	s := testDashboard(catalog, nil)

	_, err := s.Plan(context.Background(), "p404")
	assert.ErrorIs(t, err, domain.ErrPolicyNotFound)

	// Политика есть, документа еще нет — плану нечего сравнивать
	_, err = s.Plan(context.Background(), "p1")
	assert.ErrorIs(t, err, domain.ErrDocumentNotFound)

	s = testDashboard(catalog, []domain.PolicyDocument{
		docWithStatus("Performance Management", domain.DocStatusDraft, time.Now()),
	})
	plan, err := s.Plan(context.Background(), "p1")
	require.NoError(t, err)
	assert.NotEmpty(t, plan.Steps)
}

func TestOverviewAggregates(t *testing.T) {
	catalog := []domain.Policy{{ID: "p1", Title: "Performance Management"}}
	s := testDashboard(catalog, []domain.PolicyDocument{
		docWithStatus("Performance Management", domain.DocStatusPublished, time.Now()),
		docWithStatus("Human Resources Planning", domain.DocStatusDraft, time.Now()),
	})

	risks := []domain.RiskItem{
		{ComplianceStatus: domain.ComplianceNonCompliant},
		{ComplianceStatus: domain.ComplianceCompliant},
	}
	overview := s.Overview(context.Background(), risks)

	assert.Equal(t, 2, overview.Documents)
	assert.Equal(t, 1, overview.Published)
	assert.Equal(t, 2, overview.RisksTotal)
	assert.Equal(t, 1, overview.RisksNonCompliant)
}
