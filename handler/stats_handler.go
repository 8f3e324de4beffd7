package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pustakalab/pustaka-be/service"
)

type StatsHandler struct {
	stats *service.StatsService
}

func NewStatsHandler(stats *service.StatsService) *StatsHandler {
	return &StatsHandler{stats: stats}
}

// HandleStats returns knowledge base counters for the curator dashboard.
func (h *StatsHandler) HandleStats(c *gin.Context) {
	stats, err := h.stats.Stats(c.Request.Context())
	if err != nil {
		sendError(c, err)
		return
	}
	sendSuccess(c, http.StatusOK, stats)
}
