package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/xela07ax/hrsd-compliance-prototype/internal/console/service"
	"github.com/xela07ax/hrsd-compliance-prototype/internal/domain"
	"github.com/xela07ax/hrsd-compliance-prototype/internal/infra/auth"
)

type DocumentHandler struct {
	service *service.DocumentService
}

func NewDocumentHandler(s *service.DocumentService) *DocumentHandler {
	return &DocumentHandler{service: s}
}

// transitionRequest — тело POST /v1/documents/{id}/transition
type transitionRequest struct {
	Status domain.DocumentStatus `json:"status"`
	Notes  string                `json:"notes"`
	Actor  string                `json:"actor"`
}

// List возвращает всю коллекцию документов
// GET /v1/documents
func (h *DocumentHandler) List(w http.ResponseWriter, r *http.Request) {
	docs, err := h.service.List(r.Context())
	if err != nil {
		http.Error(w, "Failed to fetch documents", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, docs)
}

// Get возвращает детали конкретного документа по его ID.
// GET /v1/documents/{id}
func (h *DocumentHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		http.Error(w, "Document ID is required", http.StatusBadRequest)
		return
	}

	doc, err := h.service.Get(r.Context(), id)
	if err != nil {
		if service.IsNotFound(err) {
			http.Error(w, "Document not found", http.StatusNotFound)
			return
		}
		http.Error(w, "Failed to retrieve document", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

// Transition применяет переход статуса документа
// POST /v1/documents/{id}/transition
func (h *DocumentHandler) Transition(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req transitionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	// Актор из токена надежнее, чем из тела запроса
	if actorID := auth.UserIDFromContext(r.Context()); actorID != "" && req.Actor == "" {
		req.Actor = actorID
	}

	doc, err := h.service.Transition(r.Context(), id, req.Status, req.Notes, req.Actor)
	if err != nil {
		switch {
		case service.IsNotFound(err):
			http.Error(w, "Document not found", http.StatusNotFound)
		case errors.Is(err, domain.ErrEmptyNotes):
			http.Error(w, "Transition notes must not be empty", http.StatusBadRequest)
		case errors.Is(err, domain.ErrInvalidTransition), errors.Is(err, domain.ErrUnknownDocumentStatus):
			http.Error(w, err.Error(), http.StatusConflict)
		default:
			http.Error(w, "Failed to apply transition", http.StatusInternalServerError)
		}
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

// Export отдает документ как скачиваемый JSON-файл
// GET /v1/documents/{id}/export
func (h *DocumentHandler) Export(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	doc, err := h.service.Get(r.Context(), id)
	if err != nil {
		if service.IsNotFound(err) {
			http.Error(w, "Document not found", http.StatusNotFound)
			return
		}
		http.Error(w, "Failed to retrieve document", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf(`attachment; filename="%s-v%.1f.json"`, doc.ID, doc.Version))
	json.NewEncoder(w).Encode(doc)
}

// Speech озвучивает описание документа
// GET /v1/documents/{id}/speech
func (h *DocumentHandler) Speech(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	audio, err := h.service.Speak(r.Context(), id)
	if err != nil {
		if service.IsNotFound(err) {
			http.Error(w, "Document not found", http.StatusNotFound)
			return
		}
		http.Error(w, "Speech generation failed", http.StatusBadGateway)
		return
	}

	w.Header().Set("Content-Type", "audio/mpeg")
	w.Write(audio)
}

// writeJSON — общий ответ для всех хендлеров пакета
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, "Encoding error", http.StatusInternalServerError)
	}
}
