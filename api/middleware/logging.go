package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

type config struct {
	logger     *slog.Logger
	ignorePath []string

	defaultLevel     slog.Level
	clientErrorLevel slog.Level
	serverErrorLevel slog.Level
}

type LoggerOption func(*config)

// WithIgnorePath skips the logging of probe and scraping routes.
func WithIgnorePath(s []string) LoggerOption {
	return func(c *config) {
		c.ignorePath = s
	}
}

// WithDefaultLevel sets the level of successful requests. Errors keep the warn and error levels.
func WithDefaultLevel(level slog.Level) LoggerOption {
	return func(c *config) {
		c.defaultLevel = level
	}
}

func NewLogging(logger *slog.Logger, options ...LoggerOption) gin.HandlerFunc {
	l := &config{
		logger:           logger,
		defaultLevel:     slog.LevelInfo,
		clientErrorLevel: slog.LevelWarn,
		serverErrorLevel: slog.LevelError,
	}

	for _, option := range options {
		option(l)
	}

	ignore := make(map[string]struct{}, len(l.ignorePath))
	for _, path := range l.ignorePath {
		ignore[path] = struct{}{}
	}

	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if _, ok := ignore[path]; ok {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()
		latency := time.Since(start).Milliseconds()
		status := c.Writer.Status()
		dataLength := max(c.Writer.Size(), 0)

		level := l.defaultLevel
		switch {
		case status >= http.StatusInternalServerError:
			level = l.serverErrorLevel
		case status >= http.StatusBadRequest:
			level = l.clientErrorLevel
		}

		attributes := []slog.Attr{
			slog.Int("status", status),
			slog.Int64("latency", latency),
			slog.String("client_ip", c.ClientIP()),
			slog.String("method", c.Request.Method),
			slog.String("path", path),
			slog.Int("data_length", dataLength),
			slog.String("user_agent", c.Request.UserAgent()),
		}
		// set by the chat and session handlers, also for brand new sessions
		if sessionId := c.Writer.Header().Get("X-Session-ID"); sessionId != "" {
			attributes = append(attributes, slog.String("session_id", sessionId))
		}
		if len(c.Errors) > 0 {
			attributes = append(attributes, slog.String("error", c.Errors.String()))
		}
		l.logger.LogAttrs(c.Request.Context(), level,
			fmt.Sprintf("%s %s", c.Request.Method, path), attributes...)
	}
}
