package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/Acurioustractor/barkly-research-platform-sub002/internal/model"
	"github.com/Acurioustractor/barkly-research-platform-sub002/internal/service"
	"github.com/Acurioustractor/barkly-research-platform-sub002/internal/transport/rest/middleware"
)

// RequestHandler handles validation request endpoints
type RequestHandler struct {
	validationSvc *service.ValidationService
	revisionSvc   *service.RevisionService
}

// NewRequestHandler creates a new request handler
func NewRequestHandler(validationSvc *service.ValidationService, revisionSvc *service.RevisionService) *RequestHandler {
	return &RequestHandler{
		validationSvc: validationSvc,
		revisionSvc:   revisionSvc,
	}
}

// SubmitRequest is the request body for submitting content for validation
type SubmitRequest struct {
	ContentID                    string               `json:"contentId"`
	ContentType                  model.ContentType    `json:"contentType"`
	CommunityID                  string               `json:"communityId"`
	Content                      model.ContentPayload `json:"content"`
	Priority                     model.Priority       `json:"priority"`
	SubmittedBy                  string               `json:"submittedBy"`
	Deadline                     *time.Time           `json:"deadline,omitempty"`
	TraditionalKnowledgeInvolved bool                 `json:"traditionalKnowledgeInvolved"`
	ElderReviewRequired          bool                 `json:"elderReviewRequired"`
}

// Submit handles POST /v1/requests
func (h *RequestHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var body SubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	req := &model.ValidationRequest{
		ContentID:                    body.ContentID,
		ContentType:                  body.ContentType,
		CommunityID:                  body.CommunityID,
		Content:                      body.Content,
		Priority:                     body.Priority,
		SubmittedBy:                  body.SubmittedBy,
		Deadline:                     body.Deadline,
		TraditionalKnowledgeInvolved: body.TraditionalKnowledgeInvolved,
		ElderReviewRequired:          body.ElderReviewRequired,
	}

	created, err := h.validationSvc.SubmitForValidation(r.Context(), req)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, created)
}

// Get handles GET /v1/requests/{requestId}
func (h *RequestHandler) Get(w http.ResponseWriter, r *http.Request) {
	requestID := mux.Vars(r)["requestId"]

	req, err := h.validationSvc.GetRequest(r.Context(), requestID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if req == nil {
		writeError(w, http.StatusNotFound, "request not found")
		return
	}

	writeJSON(w, http.StatusOK, req)
}

// List handles GET /v1/requests?status=...&communityId=...
func (h *RequestHandler) List(w http.ResponseWriter, r *http.Request) {
	status := model.RequestStatus(r.URL.Query().Get("status"))
	if status == "" {
		status = model.RequestInReview
	}
	communityID := r.URL.Query().Get("communityId")

	requests, err := h.validationSvc.ListRequests(r.Context(), status, communityID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"requests": requests})
}

// SubmitValidation handles POST /v1/requests/{requestId}/validations
func (h *RequestHandler) SubmitValidation(w http.ResponseWriter, r *http.Request) {
	requestID := mux.Vars(r)["requestId"]
	validatorID := middleware.GetValidatorID(r.Context())
	if validatorID == "" {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var v model.CommunityValidation
	if err := json.NewDecoder(r.Body).Decode(&v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	v.ValidatorID = validatorID

	if err := h.validationSvc.SubmitValidation(r.Context(), requestID, &v); err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"validationId": v.ID})
}

// AddFeedback handles POST /v1/requests/{requestId}/feedback
func (h *RequestHandler) AddFeedback(w http.ResponseWriter, r *http.Request) {
	requestID := mux.Vars(r)["requestId"]

	var fb model.ValidationFeedback
	if err := json.NewDecoder(r.Body).Decode(&fb); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if fb.SubmittedBy == "" {
		fb.SubmittedBy = middleware.GetValidatorID(r.Context())
	}

	if err := h.validationSvc.AddFeedback(r.Context(), requestID, &fb); err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, fb)
}

// Revise handles POST /v1/requests/{requestId}/revisions
func (h *RequestHandler) Revise(w http.ResponseWriter, r *http.Request) {
	requestID := mux.Vars(r)["requestId"]

	var revision model.ContentRevision
	if err := json.NewDecoder(r.Body).Decode(&revision); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if revision.ApprovedBy == "" {
		revision.ApprovedBy = middleware.GetAdminID(r.Context())
	}

	if err := h.revisionSvc.ReviseContent(r.Context(), requestID, &revision); err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"revision": revision.Number,
	})
}

// Reject handles POST /v1/requests/{requestId}/reject (admin only)
func (h *RequestHandler) Reject(w http.ResponseWriter, r *http.Request) {
	requestID := mux.Vars(r)["requestId"]
	adminID := middleware.GetAdminID(r.Context())
	if adminID == "" {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var body struct {
		Reason string `json:"reason"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.validationSvc.Reject(r.Context(), requestID, adminID, body.Reason); err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": string(model.RequestRejected)})
}

// ListOverdue handles GET /v1/requests/overdue (admin only)
func (h *RequestHandler) ListOverdue(w http.ResponseWriter, r *http.Request) {
	overdue, err := h.validationSvc.ListOverdue(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"overdue": overdue})
}
