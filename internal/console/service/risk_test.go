package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/xela07ax/hrsd-compliance-prototype/internal/audit"
	"github.com/xela07ax/hrsd-compliance-prototype/internal/domain"
	"github.com/xela07ax/hrsd-compliance-prototype/internal/engine"
	"github.com/xela07ax/hrsd-compliance-prototype/internal/risk"
)

// memRiskRepo — In-memory реализация RiskRepository для тестов сервиса
type memRiskRepo struct {
	items map[string]domain.RiskItem
	order []string
}

func newMemRiskRepo(items ...domain.RiskItem) *memRiskRepo {
	r := &memRiskRepo{items: make(map[string]domain.RiskItem)}
	for _, item := range items {
		r.items[item.ID] = item
		r.order = append(r.order, item.ID)
	}
	return r
}

func (r *memRiskRepo) GetRiskByID(ctx context.Context, id string) (*domain.RiskItem, error) {
	item, ok := r.items[id]
	if !ok {
		return nil, domain.ErrRiskNotFound
	}
	return &item, nil
}

func (r *memRiskRepo) GetAllRisks(ctx context.Context) ([]domain.RiskItem, error) {
	out := make([]domain.RiskItem, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.items[id])
	}
	return out, nil
}

func (r *memRiskRepo) SaveRisk(ctx context.Context, item *domain.RiskItem) error {
	if _, ok := r.items[item.ID]; !ok {
		r.order = append(r.order, item.ID)
	}
	r.items[item.ID] = *item
	return nil
}

// nopAuditor — аудит в тестах не проверяем, только что он не падает
type nopAuditor struct{}

func (nopAuditor) Log(audit.AuditEvent) {}

func newRiskService(repo RiskRepository) *RiskService {
	return NewRiskService(repo, nil, nopAuditor{}, engine.NewMetrics(nil), zap.NewNop())
}

func TestCreateAllocatesSequentialIDs(t *testing.T) {
	repo := newMemRiskRepo()
	s := newRiskService(repo)

	first, err := s.Create(context.Background(), domain.RiskItem{
		Category:        "Performance Management",
		RiskDescription: "charters prepared late",
		Likelihood:      domain.LikelihoodMedium,
		Impact:          domain.ImpactHigh,
	})
	require.NoError(t, err)
	assert.Equal(t, "PERFO-001", first.ID)
	assert.Equal(t, domain.ApprovalDraft, first.ApprovalStatus)
	assert.Equal(t, domain.ComplianceNonCompliant, first.ComplianceStatus)
	assert.Equal(t, domain.RiskLevelHigh, first.RiskLevel)

	second, err := s.Create(context.Background(), domain.RiskItem{
		Category:        "Performance Management",
		RiskDescription: "no grievance channel",
		Likelihood:      domain.LikelihoodLow,
		Impact:          domain.ImpactLow,
	})
	require.NoError(t, err)
	assert.Equal(t, "PERFO-002", second.ID)
}

func TestCreateValidatesInput(t *testing.T) {
	s := newRiskService(newMemRiskRepo())

	_, err := s.Create(context.Background(), domain.RiskItem{Category: "X"})
	assert.ErrorIs(t, err, domain.ErrMissingRiskFields)

	_, err = s.Create(context.Background(), domain.RiskItem{
		Category:        "X",
		RiskDescription: "y",
		Likelihood:      "Never",
		Impact:          domain.ImpactLow,
	})
	assert.ErrorIs(t, err, risk.ErrInvalidEnumValue)
}

func TestApprovalWorkflowRoundTrip(t *testing.T) {
	repo := newMemRiskRepo(domain.RiskItem{
		ID:              "PERFO-001",
		Category:        "Performance Management",
		RiskDescription: "charters prepared late",
		Likelihood:      domain.LikelihoodMedium,
		Impact:          domain.ImpactHigh,
		ApprovalStatus:  domain.ApprovalDraft,
	})
	s := newRiskService(repo)
	ctx := context.Background()

	view, err := s.Submit(ctx, "PERFO-001", "officer")
	require.NoError(t, err)
	assert.Equal(t, domain.ApprovalPending, view.ApprovalStatus)

	// Отклонение требует комментария и сохраняет его
	_, err = s.Reject(ctx, "PERFO-001", "manager", "")
	assert.ErrorIs(t, err, domain.ErrEmptyComments)

	view, err = s.Reject(ctx, "PERFO-001", "manager", "mitigation too vague")
	require.NoError(t, err)
	assert.Equal(t, domain.ApprovalRejected, view.ApprovalStatus)
	require.NotNil(t, view.ManagementComments)

	// Повторная подача и одобрение очищают комментарии
	_, err = s.Submit(ctx, "PERFO-001", "officer")
	require.NoError(t, err)
	view, err = s.Approve(ctx, "PERFO-001", "manager")
	require.NoError(t, err)
	assert.Equal(t, domain.ApprovalApproved, view.ApprovalStatus)
	assert.Nil(t, view.ManagementComments)

	// Одобренная запись финальна
	_, err = s.Approve(ctx, "PERFO-001", "manager")
	assert.ErrorIs(t, err, domain.ErrAlreadyProcessed)
}

func TestDecideUnknownRisk(t *testing.T) {
	s := newRiskService(newMemRiskRepo())
	_, err := s.Submit(context.Background(), "PERFO-404", "officer")
	assert.ErrorIs(t, err, domain.ErrRiskNotFound)
}

func TestWorkflowStatsCountsAllStatuses(t *testing.T) {
	repo := newMemRiskRepo(
		domain.RiskItem{ID: "A-001", ApprovalStatus: domain.ApprovalPending},
		domain.RiskItem{ID: "A-002", ApprovalStatus: domain.ApprovalPending},
		domain.RiskItem{ID: "A-003", ApprovalStatus: domain.ApprovalApproved},
	)
	s := newRiskService(repo)

	stats, err := s.WorkflowStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Total)
	assert.Equal(t, 2, stats.Counts[domain.ApprovalPending])
	assert.Equal(t, 1, stats.Counts[domain.ApprovalApproved])
	assert.Equal(t, 0, stats.Counts[domain.ApprovalRejected])
}
