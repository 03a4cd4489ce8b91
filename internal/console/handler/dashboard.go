package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/xela07ax/hrsd-compliance-prototype/internal/console/service"
	"github.com/xela07ax/hrsd-compliance-prototype/internal/domain"
)

type DashboardHandler struct {
	dashboards *service.DashboardService
	risks      *service.RiskService
}

func NewDashboardHandler(dashboards *service.DashboardService, risks *service.RiskService) *DashboardHandler {
	return &DashboardHandler{dashboards: dashboards, risks: risks}
}

// GetCompliance — проекция «каталог политик → документы» с процентами готовности
// GET /api/v1/compliance
func (h *DashboardHandler) GetCompliance(w http.ResponseWriter, r *http.Request) {
	entries, err := h.dashboards.Project(r.Context())
	if err != nil {
		http.Error(w, "Failed to build compliance projection", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

// GeneratePlan строит план устранения разрывов для политики каталога
// POST /api/v1/compliance/{policyId}/plan
func (h *DashboardHandler) GeneratePlan(w http.ResponseWriter, r *http.Request) {
	policyID := chi.URLParam(r, "policyId")

	plan, err := h.dashboards.Plan(r.Context(), policyID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrPolicyNotFound):
			http.Error(w, "Policy not found", http.StatusNotFound)
		case errors.Is(err, domain.ErrDocumentNotFound):
			http.Error(w, "Policy has no generated document yet", http.StatusConflict)
		default:
			http.Error(w, "Plan generation failed", http.StatusBadGateway)
		}
		return
	}
	writeJSON(w, http.StatusOK, plan)
}

// GetOverview — агрегаты реестра для стартового экрана
// GET /api/v1/overview
func (h *DashboardHandler) GetOverview(w http.ResponseWriter, r *http.Request) {
	views, err := h.risks.List(r.Context())
	if err != nil {
		http.Error(w, "Failed to fetch risks", http.StatusInternalServerError)
		return
	}

	items := make([]domain.RiskItem, 0, len(views))
	for _, v := range views {
		items = append(items, v.RiskItem)
	}
	writeJSON(w, http.StatusOK, h.dashboards.Overview(r.Context(), items))
}
