package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/healthinsights/health-insights-backend/dto"
	"github.com/healthinsights/health-insights-backend/models"
	"github.com/healthinsights/health-insights-backend/usecases"
)

var errMissingSessionHeader = models.UserFacingError("Missing "+dto.SessionIdHeader+" header", models.BadParameterError)

func sessionIdFromHeader(c *gin.Context) (string, error) {
	sessionId := strings.TrimSpace(c.GetHeader(dto.SessionIdHeader))
	if sessionId == "" {
		return "", errMissingSessionHeader
	}
	return sessionId, nil
}

func handleGetSession(uc usecases.Usecases) func(c *gin.Context) {
	return func(c *gin.Context) {
		sessionId, err := sessionIdFromHeader(c)
		if presentError(c, err) {
			return
		}

		usecase := uc.NewSessionUsecase()
		session, err := usecase.GetSession(c.Request.Context(), sessionId)
		if presentError(c, err) {
			return
		}

		c.Header(dto.SessionIdHeader, session.SessionId)
		c.JSON(http.StatusOK, dto.AdaptSessionDto(session))
	}
}

func handleDeleteSession(uc usecases.Usecases) func(c *gin.Context) {
	return func(c *gin.Context) {
		sessionId, err := sessionIdFromHeader(c)
		if presentError(c, err) {
			return
		}

		usecase := uc.NewSessionUsecase()
		err = usecase.DeleteSession(c.Request.Context(), sessionId)
		if presentError(c, err) {
			return
		}

		c.Status(http.StatusNoContent)
	}
}
