package handler

import (
	"net/http"

	"sauna-locker-desk/internal/service"

	"github.com/gin-gonic/gin"
)

type StatsHandler struct {
	service service.StatsService
}

func NewStatsHandler(service service.StatsService) *StatsHandler {
	return &StatsHandler{service: service}
}

func (h *StatsHandler) RegisterRoutes(r *gin.Engine) {
	router := r.Group("/api/v1")
	{
		router.GET("stats/:day", h.GetDailyStats)
	}
}

func (h *StatsHandler) GetDailyStats(c *gin.Context) {
	stats, err := h.service.Daily(c, c.Param("day"))
	if err != nil {
		handleError(c, err, "GetDailyStats")
		return
	}

	handleSuccess(c, stats, http.StatusOK)
}
