package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/xela07ax/hrsd-compliance-prototype/internal/domain"
	"github.com/xela07ax/hrsd-compliance-prototype/internal/generator"
	"github.com/xela07ax/hrsd-compliance-prototype/internal/policy"
)

// completionByStatus — процент готовности политики по статусу её документа.
// Шкала дашборда соответствия: от черновика к публикации.
var completionByStatus = map[domain.DocumentStatus]int{
	domain.DocStatusPublished:          100,
	domain.DocStatusApproved:           80,
	domain.DocStatusPendingApproval:    60,
	domain.DocStatusRevisionsRequested: 40,
	domain.DocStatusDraft:              20,
	domain.DocStatusArchived:           0,
	domain.DocStatusNotGenerated:       0,
}

type DashboardService struct {
	catalog []domain.Policy
	cache   *policy.MemoDocuments
	gen     generator.Generator
	logger  *zap.Logger
}

func NewDashboardService(catalog []domain.Policy, cache *policy.MemoDocuments, gen generator.Generator, logger *zap.Logger) *DashboardService {
	return &DashboardService{
		catalog: catalog,
		cache:   cache,
		gen:     gen,
		logger:  logger.Named("dashboard-service"),
	}
}

// Project строит проекцию «каталог политик → документы».
// Чистая функция от текущего состояния кэша: не мутирует ни каталог, ни
// коллекцию, повторный вызов на том же состоянии дает тот же результат.
// Политика без документа попадает в проекцию со статусом Not Generated.
func (s *DashboardService) Project(ctx context.Context) ([]domain.ComplianceEntry, error) {
	docs := s.cache.Snapshot()

	entries := make([]domain.ComplianceEntry, 0, len(s.catalog))
	for _, p := range s.catalog {
		entry := domain.ComplianceEntry{
			Policy: p,
			Status: domain.DocStatusNotGenerated,
		}

		if doc := matchDocument(p.Title, docs); doc != nil {
			entry.Document = doc
			entry.Status = doc.Status
		}
		entry.Percentage = completionByStatus[entry.Status]
		entries = append(entries, entry)
	}
	return entries, nil
}

// Overview — агрегаты реестра для стартового экрана консоли
func (s *DashboardService) Overview(ctx context.Context, risks []domain.RiskItem) *domain.RegisterOverview {
	docs := s.cache.Snapshot()

	overview := &domain.RegisterOverview{
		Documents:  len(docs),
		RisksTotal: len(risks),
	}
	for _, d := range docs {
		if d.Status == domain.DocStatusPublished {
			overview.Published++
		}
	}
	for _, r := range risks {
		if r.ComplianceStatus == domain.ComplianceNonCompliant {
			overview.RisksNonCompliant++
		}
	}
	return overview
}

// Plan строит пошаговый план устранения разрывов для политики:
// текущий документ сравнивается с регуляторной рамкой генератором.
// Требует уже сгенерированного документа — плану нужно что сравнивать.
func (s *DashboardService) Plan(ctx context.Context, policyID string) (*domain.CompliancePlan, error) {
	var found *domain.Policy
	for i := range s.catalog {
		if s.catalog[i].ID == policyID {
			found = &s.catalog[i]
			break
		}
	}
	if found == nil {
		return nil, domain.ErrPolicyNotFound
	}

	doc := matchDocument(found.Title, s.cache.Snapshot())
	if doc == nil {
		return nil, domain.ErrDocumentNotFound
	}

	plan, err := s.gen.GenerateCompliancePlan(ctx, *found, doc.Content)
	if err != nil {
		s.logger.Error("compliance plan generation failed",
			zap.String("policy", policyID), zap.Error(err))
		return nil, fmt.Errorf("compliance plan for %s: %w", policyID, err)
	}
	return &plan, nil
}

// matchDocument ищет документ по точному совпадению заголовка политики.
// При дубликатах заголовка берем самый свежий по updatedAt: это актуальная
// ревизия, остальные — исторический шум.
func matchDocument(title string, docs []domain.PolicyDocument) *domain.PolicyDocument {
	var found *domain.PolicyDocument
	for i := range docs {
		if docs[i].PolicyTitle != title {
			continue
		}
		if found == nil || docs[i].UpdatedAt.After(found.UpdatedAt) {
			found = &docs[i]
		}
	}
	return found
}
