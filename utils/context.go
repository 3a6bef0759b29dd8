package utils

import (
	"context"
	"log/slog"

	"github.com/gin-gonic/gin"
)

// LoggerFromContext never returns nil: without a stored logger, the default slog logger is used.
func LoggerFromContext(ctx context.Context) *slog.Logger {
	if ctx == nil {
		return slog.Default()
	}
	logger, ok := ctx.Value(ContextKeyLogger).(*slog.Logger)
	if !ok || logger == nil {
		return slog.Default()
	}
	return logger
}

func StoreLoggerInContext(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, ContextKeyLogger, logger)
}

func StoreLoggerInContextMiddleware(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctxWithLogger := StoreLoggerInContext(c.Request.Context(), logger)
		c.Request = c.Request.WithContext(ctxWithLogger)
		c.Next()
	}
}

// WithSessionId returns a context whose logger tags every line with the chat session id.
func WithSessionId(ctx context.Context, sessionId string) context.Context {
	logger := LoggerFromContext(ctx).With(slog.String("session_id", sessionId))
	ctx = context.WithValue(ctx, ContextKeySessionId, sessionId)
	return StoreLoggerInContext(ctx, logger)
}

func SessionIdFromContext(ctx context.Context) string {
	sessionId, _ := ctx.Value(ContextKeySessionId).(string)
	return sessionId
}
