package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/healthinsights/health-insights-backend/dto"
	"github.com/healthinsights/health-insights-backend/usecases"
)

// handleLivenessProbe answers 503 when redis cannot be reached, since no chat request can be served then.
func handleLivenessProbe(uc usecases.Usecases) func(c *gin.Context) {
	return func(c *gin.Context) {
		usecase := uc.NewLivenessUsecase()
		err := usecase.Liveness(c.Request.Context())
		if presentError(c, err) {
			return
		}

		c.JSON(http.StatusOK, dto.LivenessResponse{Status: "ok"})
	}
}
