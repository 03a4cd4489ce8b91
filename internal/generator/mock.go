package generator

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/xela07ax/hrsd-compliance-prototype/internal/domain"
)

// MockGenerator — детерминированный провайдер для локальной разработки и тестов.
// Имитирует сетевую задержку и падает на политиках с маркером "unstable".
type MockGenerator struct {
	// FailTitles — названия политик, для которых генерация должна упасть
	FailTitles map[string]bool

	// Latency=0 отключает имитацию задержки (юнит-тесты)
	Latency time.Duration
}

func (m *MockGenerator) sleep(ctx context.Context) error {
	if m.Latency == 0 {
		return nil
	}
	// Имитируем задержку с джиттером 50-300мс
	latency := m.Latency + time.Duration(rand.Intn(250))*time.Millisecond

	select {
	case <-time.After(latency):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (m *MockGenerator) GeneratePolicyDocument(ctx context.Context, policyTitle, frameworkText string) (domain.DocumentContent, error) {
	if err := m.sleep(ctx); err != nil {
		return domain.DocumentContent{}, err
	}
	if m.FailTitles[policyTitle] || strings.Contains(policyTitle, "unstable") {
		return domain.DocumentContent{}, wrapErr("generate_policy_document", fmt.Errorf("provider internal error"))
	}

	return domain.DocumentContent{
		Description: fmt.Sprintf("Policy document for %s, generated from the regulatory framework.", policyTitle),
		Scope:       "All employees of the government agency.",
		Purpose:     fmt.Sprintf("Establish the rules governing %s.", policyTitle),
		Articles: []domain.PolicyArticle{
			{Title: "Article 1", Content: []string{firstLine(frameworkText)}},
		},
	}, nil
}

func (m *MockGenerator) GenerateCompliancePlan(ctx context.Context, policy domain.Policy, content domain.DocumentContent) (domain.CompliancePlan, error) {
	if err := m.sleep(ctx); err != nil {
		return domain.CompliancePlan{}, err
	}
	return domain.CompliancePlan{
		Steps: []domain.ComplianceStep{
			{Title: "Gap review", Description: fmt.Sprintf("Review %s against the framework.", policy.Title)},
			{Title: "Remediation", Description: "Close the identified gaps and re-assess."},
		},
	}, nil
}

func (m *MockGenerator) AnalyzeRisks(ctx context.Context, items []domain.RiskItem) ([]domain.RiskItem, string, error) {
	if err := m.sleep(ctx); err != nil {
		return nil, "", err
	}
	// Возвращаем реестр как есть: сводка фиксированная, записи не трогаем
	out := make([]domain.RiskItem, len(items))
	copy(out, items)
	return out, fmt.Sprintf("Reviewed %d risk items, no changes proposed.", len(items)), nil
}

func (m *MockGenerator) GenerateSpeech(ctx context.Context, text string) ([]byte, error) {
	if err := m.sleep(ctx); err != nil {
		return nil, err
	}
	return []byte("RIFF" + text), nil
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
