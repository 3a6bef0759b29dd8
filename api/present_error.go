package api

import (
	"net/http"

	"github.com/cockroachdb/errors"
	"github.com/gin-gonic/gin"

	"github.com/healthinsights/health-insights-backend/dto"
	"github.com/healthinsights/health-insights-backend/models"
	"github.com/healthinsights/health-insights-backend/utils"
)

var errorStatuses = []struct {
	kind   error
	status int
}{
	{models.BadParameterError, http.StatusBadRequest},
	{models.NotFoundError, http.StatusNotFound},
	{models.ConflictError, http.StatusConflict},
	{models.PayloadTooLargeError, http.StatusRequestEntityTooLarge},
	{models.RateLimitedError, http.StatusTooManyRequests},
	{models.UnavailableError, http.StatusServiceUnavailable},
}

// presentError writes the error response matching err and reports whether there was one.
func presentError(c *gin.Context, err error) bool {
	if err == nil {
		return false
	}
	ctx := c.Request.Context()
	logger := utils.LoggerFromContext(ctx)

	for _, known := range errorStatuses {
		if errors.Is(err, known.kind) {
			if known.status == http.StatusServiceUnavailable {
				logger.WarnContext(ctx, "service unavailable", "error", err.Error())
			} else {
				logger.InfoContext(ctx, "client error", "status", known.status, "error", err.Error())
			}
			c.AbortWithStatusJSON(known.status, dto.APIErrorResponse{Detail: err.Error()})
			return true
		}
	}

	utils.LogAndReportSentryError(ctx, err)
	c.AbortWithStatusJSON(http.StatusInternalServerError, dto.APIErrorResponse{Detail: "Internal server error"})
	return true
}
