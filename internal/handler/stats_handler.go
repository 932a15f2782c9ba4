package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hostelops/hostel-desk-api/internal/service"
	"github.com/hostelops/hostel-desk-api/pkg/response"
)

// StatsHandler exposes the pre-aggregated dashboard metric endpoints.
type StatsHandler struct {
	service *service.StatsService
}

// NewStatsHandler creates a new handler.
func NewStatsHandler(svc *service.StatsService) *StatsHandler {
	return &StatsHandler{service: svc}
}

func cacheMeta(cached bool) map[string]interface{} {
	return map[string]interface{}{"cached": cached}
}

// StatusSummary godoc
// @Summary Per-status record counts
// @Tags Stats
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /metrics/status-summary [get]
func (h *StatsHandler) StatusSummary(c *gin.Context) {
	summary, cached, err := h.service.StatusSummary(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, summary, nil, cacheMeta(cached))
}

// ResolutionRate godoc
// @Summary Unified resolution percentage
// @Tags Stats
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /metrics/resolution-rate [get]
func (h *StatsHandler) ResolutionRate(c *gin.Context) {
	rate, cached, err := h.service.ResolutionRate(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, rate, nil, cacheMeta(cached))
}

// PendingCount godoc
// @Summary Records awaiting action
// @Tags Stats
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /metrics/pending-count [get]
func (h *StatsHandler) PendingCount(c *gin.Context) {
	count, cached, err := h.service.PendingCount(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, count, nil, cacheMeta(cached))
}

// Trend godoc
// @Summary Monthly creation trend
// @Description Dense trailing months series across complaints and apologies
// @Tags Stats
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /metrics/monthly-trend [get]
func (h *StatsHandler) Trend(c *gin.Context) {
	trend, cached, err := h.service.Trend(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, trend, nil, cacheMeta(cached))
}
