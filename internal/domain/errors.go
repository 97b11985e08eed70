package domain

import (
	"errors"
	"net/http"
)

// HTTPError defines errors that can be mapped to HTTP status codes.
type HTTPError interface {
	error
	StatusCode() int
}

type (
	// NotFoundError indicates a resource was not found or is not owned by the caller
	NotFoundError struct {
		Message string
	}

	// ValidationError indicates invalid input
	ValidationError struct {
		Message string
	}

	// UnauthorizedError indicates authentication failure
	UnauthorizedError struct {
		Message string
	}
)

func (e *NotFoundError) Error() string     { return e.Message }
func (e *ValidationError) Error() string   { return e.Message }
func (e *UnauthorizedError) Error() string { return e.Message }

func (e *NotFoundError) StatusCode() int     { return http.StatusNotFound }
func (e *ValidationError) StatusCode() int   { return http.StatusBadRequest }
func (e *UnauthorizedError) StatusCode() int { return http.StatusUnauthorized }

func (e *NotFoundError) Is(target error) bool     { return target == ErrNotFound }
func (e *ValidationError) Is(target error) bool   { return target == ErrValidation }
func (e *UnauthorizedError) Is(target error) bool { return target == ErrUnauthorized }

// Sentinel errors - use with errors.Is()
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("already exists")
	ErrValidation   = errors.New("validation failed")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
)

// Generation path errors, returned synchronously to the caller.
var (
	// ErrInvalidDocumentType is returned for a document type tag outside the supported set
	ErrInvalidDocumentType = errors.New("invalid document type")

	// ErrMissingFormData is returned when regeneration is requested for a document
	// that never stored the form data it was generated from
	ErrMissingFormData = errors.New("document has no stored form data")

	// ErrUpstreamUnavailable is returned when the generation backend cannot be reached
	// or answers with a non-success status
	ErrUpstreamUnavailable = errors.New("generation service unavailable")

	// ErrEmptyResponse is returned when the generation backend answers without a text block
	ErrEmptyResponse = errors.New("generation service returned no text")

	// ErrStorage wraps persistence failures that happen after a successful generation
	ErrStorage = errors.New("storage failure")

	// ErrQuotaExceeded is returned when the owner used up the monthly generation allowance
	ErrQuotaExceeded = errors.New("monthly generation limit reached")
)

// Webhook path errors. These are recorded but never surfaced to the signature provider,
// except ErrAuthenticity which causes the request to be rejected.
var (
	ErrMalformedWebhookEvent = errors.New("malformed webhook event")
	ErrAuthenticity          = errors.New("webhook signature mismatch")
)

// ConflictError represents a resource conflict with details about the existing resource
type ConflictError struct {
	Message      string
	ResourceType string
	ResourceID   string
}

// Error implements the error interface
func (e *ConflictError) Error() string {
	return e.Message
}

// StatusCode implements the HTTPError interface
func (e *ConflictError) StatusCode() int {
	return http.StatusConflict
}

// Is allows errors.Is() to match against ErrConflict
func (e *ConflictError) Is(target error) bool {
	return target == ErrConflict
}
