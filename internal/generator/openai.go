package generator

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/xela07ax/hrsd-compliance-prototype/internal/domain"
)

// OpenAIGenerator — реализация Generator поверх Chat Completions API.
// Все структурные ответы запрашиваются в JSON-режиме и валидируются по форме.
type OpenAIGenerator struct {
	client *openai.Client
	model  string
	logger *zap.Logger
}

func NewOpenAIGenerator(apiKey, model string, logger *zap.Logger) *OpenAIGenerator {
	if model == "" {
		model = openai.GPT4oMini
	}
	return &OpenAIGenerator{
		client: openai.NewClient(apiKey),
		model:  model,
		logger: logger.Named("openai-generator"),
	}
}

// completeJSON — общий путь для всех структурных запросов:
// system-роль + JSON-режим + анмаршал в целевую структуру.
func (g *OpenAIGenerator) completeJSON(ctx context.Context, op, system, prompt string, out interface{}) error {
	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: g.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		g.logger.Error("openai call failed", zap.String("op", op), zap.Error(err))
		return wrapErr(op, err)
	}
	if len(resp.Choices) == 0 {
		return wrapErr(op, fmt.Errorf("empty choices"))
	}

	raw := strings.TrimSpace(resp.Choices[0].Message.Content)
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		g.logger.Error("generated JSON does not match the expected format",
			zap.String("op", op), zap.Error(err))
		return wrapErr(op, err)
	}
	return nil
}

func (g *OpenAIGenerator) GeneratePolicyDocument(ctx context.Context, policyTitle, frameworkText string) (domain.DocumentContent, error) {
	prompt := fmt.Sprintf(`Based on the following HRSD regulatory framework text for %q, generate a structured policy document as JSON.

CRITICAL INSTRUCTION: identify the language of the framework text below and generate the 'description', 'scope', 'purpose' and 'articles' content IN THE SAME LANGUAGE.

The JSON object must include:
1. "description" — a single, well-crafted paragraph summarizing the policy's core intent, primary purpose and legal basis.
2. "scope" — who the policy applies to.
3. "purpose" — the policy's objective.
4. "articles" — a list of objects with "title" and "content" (array of strings). The content must be an exact, verbatim copy of the source article text with original line breaks preserved. Do not summarize, alter or rephrase any part of it.

Framework Text:
---
%s
---`, policyTitle, frameworkText)

	var content domain.DocumentContent
	err := g.completeJSON(ctx, "generate_policy_document",
		"You are an expert HRSD compliance agent. Reply with a single JSON object.", prompt, &content)
	if err != nil {
		return domain.DocumentContent{}, err
	}

	// Базовая валидация формы: генератор обязан заполнить все секции
	if content.Description == "" || content.Scope == "" || content.Purpose == "" || content.Articles == nil {
		return domain.DocumentContent{}, wrapErr("generate_policy_document",
			fmt.Errorf("generated JSON does not match the expected format"))
	}
	return content, nil
}

func (g *OpenAIGenerator) GenerateCompliancePlan(ctx context.Context, policy domain.Policy, content domain.DocumentContent) (domain.CompliancePlan, error) {
	current, _ := json.MarshalIndent(content, "", "  ")
	prompt := fmt.Sprintf(`Create a step-by-step compliance action plan for an organization.
Analyze the current document against the regulatory framework, identify gaps, and generate concrete steps.
Detect the language of the inputs: the output plan MUST be in the same language.
Reply as JSON: {"steps": [{"title": "...", "description": "..."}]}.

Policy Title: %q

Regulatory Framework:
---
%s
---

Current Document Content:
---
%s
---`, policy.Title, policy.FrameworkText, current)

	var plan domain.CompliancePlan
	err := g.completeJSON(ctx, "generate_compliance_plan",
		"You are an expert HRSD compliance agent. Reply with a single JSON object.", prompt, &plan)
	if err != nil {
		return domain.CompliancePlan{}, err
	}
	if plan.Steps == nil {
		return domain.CompliancePlan{}, wrapErr("generate_compliance_plan",
			fmt.Errorf("generated JSON does not match the expected format"))
	}
	return plan, nil
}

func (g *OpenAIGenerator) AnalyzeRisks(ctx context.Context, items []domain.RiskItem) ([]domain.RiskItem, string, error) {
	register, _ := json.Marshal(items)
	prompt := fmt.Sprintf(`You are a risk management expert. Review the following risk register.
Refine the mitigation controls and action items where they are vague, and reassess the compliance status of each item.
Do not change item ids, categories, likelihood or impact. Keep the same language as the register.
Reply as JSON: {"updatedRisks": [<full risk items>], "summary": "<short narrative of the changes>"}.

Risk Register:
---
%s
---`, register)

	var result struct {
		UpdatedRisks []domain.RiskItem `json:"updatedRisks"`
		Summary      string            `json:"summary"`
	}
	err := g.completeJSON(ctx, "analyze_risks",
		"You are an expert HRSD compliance agent. Reply with a single JSON object.", prompt, &result)
	if err != nil {
		return nil, "", err
	}
	if result.UpdatedRisks == nil {
		return nil, "", wrapErr("analyze_risks", fmt.Errorf("generated JSON does not match the expected format"))
	}
	return result.UpdatedRisks, result.Summary, nil
}

func (g *OpenAIGenerator) GenerateSpeech(ctx context.Context, text string) ([]byte, error) {
	resp, err := g.client.CreateSpeech(ctx, openai.CreateSpeechRequest{
		Model: openai.TTSModel1,
		Input: text,
		Voice: openai.VoiceAlloy,
	})
	if err != nil {
		return nil, wrapErr("generate_speech", err)
	}
	defer resp.Close()

	audio, err := io.ReadAll(resp)
	if err != nil {
		return nil, wrapErr("generate_speech", err)
	}
	return audio, nil
}
