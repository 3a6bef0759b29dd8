package utils

import (
	"context"
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/getsentry/sentry-go"
)

func LogAndReportSentryError(ctx context.Context, err error) {
	logger := LoggerFromContext(ctx)

	// Canceled requests are the client going away, not something to report
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		logger.WarnContext(ctx, fmt.Sprintf("deadline exceeded or context canceled: %v", err))
		return
	}

	logger.ErrorContext(ctx, fmt.Sprintf("%+v", err))

	if hub := sentry.GetHubFromContext(ctx); hub != nil {
		if sessionId := SessionIdFromContext(ctx); sessionId != "" {
			hub.Scope().SetTag("session_id", sessionId)
		}
		hub.CaptureException(err)
	} else {
		sentry.CaptureException(err)
	}
}
