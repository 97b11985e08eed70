package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"leasedoc/internal/domain"
	"leasedoc/internal/httputil"
)

// handleError converts domain errors to RFC 7807 responses.
// Server-side failures are logged and their detail is not exposed.
func handleError(w http.ResponseWriter, logger *slog.Logger, err error) {
	var conflictErr *domain.ConflictError

	switch {
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidDocumentType),
		errors.Is(err, domain.ErrMissingFormData):
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		httputil.RespondError(w, http.StatusNotFound, "document not found")
	case errors.Is(err, domain.ErrUnauthorized):
		httputil.RespondError(w, http.StatusUnauthorized, "unauthorized")
	case errors.Is(err, domain.ErrForbidden):
		httputil.RespondError(w, http.StatusForbidden, "forbidden")
	case errors.As(err, &conflictErr):
		httputil.RespondErrorWithExtras(w, http.StatusConflict, conflictErr.Error(), map[string]any{
			"resource_type": conflictErr.ResourceType,
			"resource_id":   conflictErr.ResourceID,
		})
	case errors.Is(err, domain.ErrConflict):
		httputil.RespondError(w, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrQuotaExceeded):
		httputil.RespondError(w, http.StatusTooManyRequests, domain.ErrQuotaExceeded.Error())
	case errors.Is(err, domain.ErrUpstreamUnavailable), errors.Is(err, domain.ErrEmptyResponse):
		logger.Error("upstream failure", "error", err)
		httputil.RespondError(w, http.StatusBadGateway, upstreamDetail(err))
	default:
		logger.Error("request failed", "error", err)
		httputil.RespondError(w, http.StatusInternalServerError, "internal server error")
	}
}

// upstreamDetail names the failing sentinel without the wrapped transport detail
func upstreamDetail(err error) string {
	if errors.Is(err, domain.ErrEmptyResponse) {
		return domain.ErrEmptyResponse.Error()
	}
	return domain.ErrUpstreamUnavailable.Error()
}

// requireUser returns the authenticated user id, writing a 401 when absent
func requireUser(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID := httputil.GetUserID(r)
	if userID == "" {
		httputil.RespondError(w, http.StatusUnauthorized, "unauthorized")
		return "", false
	}
	return userID, true
}

// documentID reads the {id} path value. A malformed id is reported as not found,
// the same answer a missing or foreign document gets.
func documentID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		httputil.RespondError(w, http.StatusNotFound, "document not found")
		return "", false
	}
	return id.String(), true
}
