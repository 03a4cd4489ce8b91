package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/xela07ax/hrsd-compliance-prototype/internal/console/service"
	"github.com/xela07ax/hrsd-compliance-prototype/internal/domain"
	"github.com/xela07ax/hrsd-compliance-prototype/internal/infra/auth"
	"github.com/xela07ax/hrsd-compliance-prototype/internal/risk"
)

type RiskHandler struct {
	service *service.RiskService
}

func NewRiskHandler(s *service.RiskService) *RiskHandler {
	return &RiskHandler{service: s}
}

// rejectRequest — тело POST /v1/risks/{id}/reject
type rejectRequest struct {
	Comments string `json:"comments"`
}

// List возвращает весь реестр с вычисленными уровнями риска
// GET /v1/risks
func (h *RiskHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.List(r.Context())
	if err != nil {
		http.Error(w, "Failed to fetch risks", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

// Create заводит новую запись реестра. ID выдает сервер, клиентский игнорируется.
// POST /v1/risks
func (h *RiskHandler) Create(w http.ResponseWriter, r *http.Request) {
	var item domain.RiskItem
	if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	view, err := h.service.Create(r.Context(), item)
	if err != nil {
		if errors.Is(err, domain.ErrMissingRiskFields) || errors.Is(err, risk.ErrInvalidEnumValue) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		http.Error(w, "Failed to create risk", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, view)
}

// Submit отправляет запись на согласование
// POST /v1/risks/{id}/submit
func (h *RiskHandler) Submit(w http.ResponseWriter, r *http.Request) {
	view, err := h.service.Submit(r.Context(), chi.URLParam(r, "id"), auth.UserIDFromContext(r.Context()))
	h.respondDecision(w, view, err)
}

// Approve фиксирует одобрение (периметр требует скоуп risks.approve)
// POST /v1/risks/{id}/approve
func (h *RiskHandler) Approve(w http.ResponseWriter, r *http.Request) {
	view, err := h.service.Approve(r.Context(), chi.URLParam(r, "id"), auth.UserIDFromContext(r.Context()))
	h.respondDecision(w, view, err)
}

// Reject отклоняет запись с обязательным комментарием
// POST /v1/risks/{id}/reject
func (h *RiskHandler) Reject(w http.ResponseWriter, r *http.Request) {
	var req rejectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	view, err := h.service.Reject(r.Context(), chi.URLParam(r, "id"), auth.UserIDFromContext(r.Context()), req.Comments)
	h.respondDecision(w, view, err)
}

// Analyze запускает генеративный анализ всего реестра
// POST /v1/risks/analyze
func (h *RiskHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.Analyze(r.Context())
	if err != nil {
		http.Error(w, "Register analysis failed", http.StatusBadGateway)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// WorkflowStats — сводка очереди согласования
// GET /v1/workflow/stats
func (h *RiskHandler) WorkflowStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.WorkflowStats(r.Context())
	if err != nil {
		http.Error(w, "Failed to fetch workflow stats", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// respondDecision — единый маппинг доменных ошибок воркфлоу в HTTP-статусы
func (h *RiskHandler) respondDecision(w http.ResponseWriter, view *service.RiskView, err error) {
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRiskNotFound):
			http.Error(w, "Risk item not found", http.StatusNotFound)
		case errors.Is(err, domain.ErrEmptyComments):
			http.Error(w, "Rejection comments must not be empty", http.StatusBadRequest)
		case errors.Is(err, domain.ErrAlreadyProcessed), errors.Is(err, domain.ErrNotSubmittable):
			http.Error(w, err.Error(), http.StatusConflict)
		default:
			http.Error(w, "Failed to process decision", http.StatusInternalServerError)
		}
		return
	}
	writeJSON(w, http.StatusOK, view)
}
