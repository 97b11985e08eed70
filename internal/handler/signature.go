package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"leasedoc/internal/config"
	"leasedoc/internal/domain/services"
	"leasedoc/internal/httputil"
	"leasedoc/internal/service/signature"
)

// SignatureHandler sends documents for signature and receives provider callbacks
type SignatureHandler struct {
	signatureService services.SignatureService // nil when no provider is configured
	webhooks         services.WebhookHandler   // nil when no webhook secret is configured
	logger           *slog.Logger
}

// NewSignatureHandler creates a new signature handler
func NewSignatureHandler(
	signatureService services.SignatureService,
	webhooks services.WebhookHandler,
	logger *slog.Logger,
) *SignatureHandler {
	return &SignatureHandler{
		signatureService: signatureService,
		webhooks:         webhooks,
		logger:           logger,
	}
}

// SendForSignature sends a document to its signers
// POST /api/documents/{id}/signature-request
func (h *SignatureHandler) SendForSignature(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	id, ok := documentID(w, r)
	if !ok {
		return
	}
	if h.signatureService == nil {
		httputil.RespondError(w, http.StatusServiceUnavailable, "signature provider is not configured")
		return
	}

	var req services.SendForSignatureRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		handleError(w, h.logger, err)
		return
	}

	doc, err := h.signatureService.SendForSignature(r.Context(), userID, id, &req)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, doc)
}

// Webhook receives signature provider event callbacks. The answer is whatever
// acknowledgement the processor decides; the body is plain text.
// POST /api/webhooks/signature
func (h *SignatureHandler) Webhook(w http.ResponseWriter, r *http.Request) {
	if h.webhooks == nil {
		h.logger.Warn("signature webhook received but no webhook secret is configured")
		httputil.RespondText(w, http.StatusServiceUnavailable, "webhook not configured")
		return
	}

	body, err := httputil.ReadBody(w, r, config.MaxWebhookBodyBytes)
	if err != nil {
		h.logger.Warn("unreadable webhook body", "error", err)
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			httputil.RespondText(w, http.StatusRequestEntityTooLarge, "request body too large")
			return
		}
		httputil.RespondText(w, http.StatusBadRequest, "unreadable request body")
		return
	}

	ack := h.webhooks.Handle(r.Context(), &services.WebhookRequest{
		Body:        body,
		ContentType: r.Header.Get("Content-Type"),
		Signature:   r.Header.Get(signature.SignatureHeader),
	})

	httputil.RespondText(w, ack.StatusCode, ack.Body)
}
