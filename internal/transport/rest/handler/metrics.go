package handler

import (
	"net/http"
	"time"

	"github.com/Acurioustractor/barkly-research-platform-sub002/internal/model"
	"github.com/Acurioustractor/barkly-research-platform-sub002/internal/service"
)

// MetricsHandler handles metrics endpoints
type MetricsHandler struct {
	metricsSvc *service.MetricsService
}

// NewMetricsHandler creates a new metrics handler
func NewMetricsHandler(metricsSvc *service.MetricsService) *MetricsHandler {
	return &MetricsHandler{metricsSvc: metricsSvc}
}

// Get handles GET /v1/metrics?timeframe=30d&communityId=...
func (h *MetricsHandler) Get(w http.ResponseWriter, r *http.Request) {
	timeframe := parseTimeframe(r.URL.Query().Get("timeframe"))
	communityID := r.URL.Query().Get("communityId")

	metrics, err := h.metricsSvc.GetMetrics(r.Context(), timeframe, communityID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, metrics)
}

// parseTimeframe turns "7d" / "30d" / "90d" into a window ending now;
// unknown values default to 30 days
func parseTimeframe(raw string) model.Timeframe {
	days := 30
	switch raw {
	case "7d":
		days = 7
	case "30d":
		days = 30
	case "90d":
		days = 90
	}
	end := time.Now()
	return model.Timeframe{
		Start: end.AddDate(0, 0, -days),
		End:   end,
	}
}
