package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"slices"
	"time"

	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/healthinsights/health-insights-backend/api/middleware"
	"github.com/healthinsights/health-insights-backend/dto"
	"github.com/healthinsights/health-insights-backend/infra"
	"github.com/healthinsights/health-insights-backend/utils"
)

func corsOption(ctx context.Context, conf Configuration) cors.Config {
	logger := utils.LoggerFromContext(ctx)
	allowedOrigins := []string{}
	for _, s := range conf.CorsAllowedOrigins {
		parsedUrl, err := url.Parse(s)
		switch {
		case err != nil:
			logger.Error("Failed to parse a CORS allowed origin. Requests made from the browser from this url to the API will be rejected.",
				"url", s)
		case !slices.Contains([]string{"http", "https"}, parsedUrl.Scheme):
			logger.Error(
				fmt.Sprintf("The url %s does not contain a scheme (http or https), so it cannot be used for CORS.", s),
				"url", s)
		default:
			u := url.URL{
				Scheme: parsedUrl.Scheme,
				Host:   parsedUrl.Host,
			}
			allowedOrigins = append(allowedOrigins, u.String())
		}
	}

	config := cors.Config{
		AllowMethods: []string{
			http.MethodOptions, http.MethodHead, http.MethodGet,
			http.MethodPost, http.MethodDelete,
		},
		AllowHeaders:     []string{"Content-Type", dto.SessionIdHeader, "baggage", "sentry-trace"},
		ExposeHeaders:    []string{dto.SessionIdHeader},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}

	// sessions are anonymous and carried by a header, any origin may call the API when none is configured
	if len(allowedOrigins) == 0 {
		config.AllowAllOrigins = true
		return config
	}
	if conf.Env == "development" {
		allowedOrigins = append(allowedOrigins,
			"http://localhost:3000", "http://localhost:5173", "http://127.0.0.1:8000")
	}
	config.AllowOrigins = allowedOrigins
	return config
}

var unloggedPaths = []string{"/health", "/liveness", "/metrics"}

func InitRouterMiddlewares(
	ctx context.Context,
	conf Configuration,
	telemetryRessources infra.TelemetryRessources,
) *gin.Engine {
	if conf.Env != "development" {
		gin.SetMode(gin.ReleaseMode)
	}

	logger := utils.LoggerFromContext(ctx)

	loggingOptions := []middleware.LoggerOption{middleware.WithIgnorePath(unloggedPaths)}
	if conf.RequestLoggingLevel != "" {
		level, err := utils.ParseLogLevel(conf.RequestLoggingLevel)
		if err != nil {
			logger.WarnContext(ctx, "invalid request logging level, using info", "error", err.Error())
		} else {
			loggingOptions = append(loggingOptions, middleware.WithDefaultLevel(level))
		}
	}

	r := gin.New()

	r.Use(gin.Recovery())
	r.Use(sentrygin.New(sentrygin.Options{Repanic: true}))
	r.Use(cors.New(corsOption(ctx, conf)))
	r.Use(middleware.NewLogging(logger, loggingOptions...))
	r.Use(utils.StoreLoggerInContextMiddleware(logger))
	r.Use(otelgin.Middleware(
		conf.AppName,
		otelgin.WithTracerProvider(telemetryRessources.TracerProvider),
		otelgin.WithPropagators(telemetryRessources.TextMapPropagator),
	))
	r.Use(utils.StoreOpenTelemetryTracerInContextMiddleware(telemetryRessources.Tracer))

	return r
}
