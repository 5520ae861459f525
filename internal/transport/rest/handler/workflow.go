package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/Acurioustractor/barkly-research-platform-sub002/internal/cache"
	"github.com/Acurioustractor/barkly-research-platform-sub002/internal/model"
	"github.com/Acurioustractor/barkly-research-platform-sub002/internal/repository"
)

// WorkflowHandler handles workflow catalog endpoints
type WorkflowHandler struct {
	repo  repository.WorkflowRepo
	cache cache.WorkflowCache
}

// NewWorkflowHandler creates a new workflow handler
func NewWorkflowHandler(repo repository.WorkflowRepo, c cache.WorkflowCache) *WorkflowHandler {
	return &WorkflowHandler{repo: repo, cache: c}
}

// Get handles GET /v1/workflows/{contentType}
func (h *WorkflowHandler) Get(w http.ResponseWriter, r *http.Request) {
	contentType := model.ContentType(mux.Vars(r)["contentType"])

	cfg, err := h.cache.GetByContentType(r.Context(), contentType)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if cfg == nil {
		writeError(w, http.StatusNotFound, "workflow not found")
		return
	}

	writeJSON(w, http.StatusOK, cfg)
}

// List handles GET /v1/workflows
func (h *WorkflowHandler) List(w http.ResponseWriter, r *http.Request) {
	configs, err := h.repo.ListAll(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"workflows": configs})
}

// Upsert handles PUT /v1/workflows/{contentType} (admin only)
func (h *WorkflowHandler) Upsert(w http.ResponseWriter, r *http.Request) {
	contentType := model.ContentType(mux.Vars(r)["contentType"])
	if !model.IsValidContentType(contentType) {
		writeError(w, http.StatusBadRequest, "unknown content type")
		return
	}

	var cfg model.WorkflowConfig
	if err := json.NewDecoder(r.Body).Decode(&cfg); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	cfg.ContentType = contentType

	if existing, err := h.repo.GetByContentType(r.Context(), contentType); err == nil && existing != nil {
		cfg.ID = existing.ID
	}
	if err := h.repo.Upsert(r.Context(), &cfg); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.cache.Invalidate(r.Context(), contentType)

	writeJSON(w, http.StatusOK, &cfg)
}
