package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/Acurioustractor/barkly-research-platform-sub002/internal/model"
	"github.com/Acurioustractor/barkly-research-platform-sub002/internal/service"
)

// ValidatorHandler handles validator registry endpoints
type ValidatorHandler struct {
	registrySvc *service.RegistryService
	authSvc     *service.AuthService
}

// NewValidatorHandler creates a new validator handler
func NewValidatorHandler(registrySvc *service.RegistryService, authSvc *service.AuthService) *ValidatorHandler {
	return &ValidatorHandler{
		registrySvc: registrySvc,
		authSvc:     authSvc,
	}
}

// Register handles POST /v1/validators (admin only)
func (h *ValidatorHandler) Register(w http.ResponseWriter, r *http.Request) {
	var v model.Validator
	if err := json.NewDecoder(r.Body).Decode(&v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	id, err := h.registrySvc.Register(r.Context(), &v)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	token, err := h.authSvc.IssueValidatorToken(id, v.CommunityAffiliation)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, model.ValidatorTokenResponse{
		Token:       token,
		ValidatorID: id,
	})
}

// Get handles GET /v1/validators/{validatorId}
func (h *ValidatorHandler) Get(w http.ResponseWriter, r *http.Request) {
	validatorID := mux.Vars(r)["validatorId"]

	v, err := h.registrySvc.Get(r.Context(), validatorID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if v == nil {
		writeError(w, http.StatusNotFound, "validator not found")
		return
	}

	writeJSON(w, http.StatusOK, v)
}

// List handles GET /v1/validators?communityId=...
func (h *ValidatorHandler) List(w http.ResponseWriter, r *http.Request) {
	communityID := r.URL.Query().Get("communityId")
	if communityID == "" {
		communityID = model.CommunityAll
	}

	validators, err := h.registrySvc.ListByCommunity(r.Context(), communityID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"validators": validators})
}
