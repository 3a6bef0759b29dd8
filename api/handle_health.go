package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/healthinsights/health-insights-backend/dto"
)

const serviceName = "Health Insights AI"

func handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, dto.HealthResponse{
		Status:  "ok",
		Service: serviceName,
	})
}
