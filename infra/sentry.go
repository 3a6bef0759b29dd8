package infra

import (
	"github.com/cockroachdb/errors"
	"github.com/getsentry/sentry-go"
)

func SetupSentry(dsn, env, apiVersion string) error {
	return sentry.Init(sentry.ClientOptions{
		Dsn:           dsn,
		EnableTracing: true,
		Release:       apiVersion,
		Environment:   env,
		TracesSampler: sentry.TracesSampler(func(ctx sentry.SamplingContext) float64 {
			switch ctx.Span.Name {
			case "GET /health", "GET /liveness", "GET /metrics", "GET /docs", "GET /openapi.json":
				return 0.0
			case "POST /chat":
				return 0.5
			}
			return 0.2
		}),
		// Requests carry health data: never send bodies, cookies or query strings
		SendDefaultPII: false,
		BeforeSend: func(event *sentry.Event, hint *sentry.EventHint) *sentry.Event {
			if event.Request != nil {
				event.Request.Data = ""
				event.Request.Cookies = ""
				event.Request.QueryString = ""
			}
			if hint != nil && len(event.Exception) > 0 && hint.OriginalException != nil {
				originalErr := errors.UnwrapAll(hint.OriginalException)
				event.Exception[len(event.Exception)-1].Type = originalErr.Error()
			}
			return event
		},
	})
}
