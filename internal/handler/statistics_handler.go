package handler

import (
	"net/http"

	"timebill/internal/service"
	"timebill/pkg/response"

	"github.com/gin-gonic/gin"
)

type StatisticsHandler struct {
	statisticsService service.StatisticsService
}

func NewStatisticsHandler(statisticsService service.StatisticsService) *StatisticsHandler {
	return &StatisticsHandler{statisticsService: statisticsService}
}

func (h *StatisticsHandler) RegisterRoutes(router *gin.RouterGroup) {
	statsGroup := router.Group("/api/statistics")
	{
		statsGroup.GET("/dashboard", h.GetDashboard)
	}
}

// GetDashboard returns the billing dashboard numbers
// @Summary      Get dashboard statistics
// @Description  Returns active company count, unbilled backlog totals, invoice totals per status and the companies with the largest unbilled backlog
// @Tags         statistics
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Response{data=service.DashboardResponse}
// @Failure      500  {object}  response.Response
// @Router       /api/statistics/dashboard [get]
func (h *StatisticsHandler) GetDashboard(c *gin.Context) {
	stats, err := h.statisticsService.GetDashboard(c.Request.Context())
	if err != nil {
		writeError(c, err, http.StatusInternalServerError)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, stats))
}
