package api

import (
	limits "github.com/gin-contrib/size"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/healthinsights/health-insights-backend/api/middleware"
	"github.com/healthinsights/health-insights-backend/usecases"
)

func addRoutes(r *gin.Engine, conf Configuration, uc usecases.Usecases) error {
	openapiDocument, err := NewOpenApiDocument(conf)
	if err != nil {
		return err
	}

	r.GET("/health", handleHealth)
	r.GET("/liveness", handleLivenessProbe(uc))
	r.GET("/openapi.json", handleOpenApi(openapiDocument))
	r.GET("/docs", handleDocs)
	if conf.EnablePrometheus {
		r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}

	chatHandlers := []gin.HandlerFunc{}
	if conf.RateLimitPerMinute > 0 {
		chatHandlers = append(chatHandlers, middleware.NewRateLimiter(conf.RateLimitPerMinute))
	}
	chatHandlers = append(chatHandlers,
		limits.RequestSizeLimiter(conf.maxRequestBodySize()),
		handleChat(uc, conf),
	)
	r.POST("/chat", chatHandlers...)

	r.GET("/session", handleGetSession(uc))
	r.DELETE("/session", handleDeleteSession(uc))

	return nil
}
