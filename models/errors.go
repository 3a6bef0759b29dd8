package models

import (
	"github.com/cockroachdb/errors"
)

// Base errors, related to default API status codes
var (
	// BadParameterError is rendered with the http status code 400
	BadParameterError = errors.New("bad parameter")

	// NotFoundError is rendered with the http status code 404
	NotFoundError = errors.New("not found")

	// ConflictError is rendered with the http status code 409
	ConflictError = errors.New("conflict")

	// PayloadTooLargeError is rendered with the http status code 413
	PayloadTooLargeError = errors.New("payload too large")

	// RateLimitedError is rendered with the http status code 429
	RateLimitedError = errors.New("too many requests")

	// UnavailableError is rendered with the http status code 503
	UnavailableError = errors.New("service unavailable")
)

// Chat input related errors
var (
	ErrMissingChatInput = errors.Mark(errors.New("Must provide either a message or a file"), BadParameterError)
	ErrSessionBusy      = errors.Mark(errors.New("another request is already being processed for this session"), ConflictError)
)

// UserFacingError keeps msg as the error text, so that it can be shown as is, while still matching kind
// with errors.Is.
func UserFacingError(msg string, kind error) error {
	return errors.Mark(errors.New(msg), kind)
}

// Workflow related errors
var (
	ErrRecursionLimit = errors.New("workflow exceeded the maximum number of steps")
	ErrInvalidGraph   = errors.New("invalid workflow graph")
)
