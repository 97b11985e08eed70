// Package signature sends documents for electronic signature and folds the
// provider's callbacks into each document's signature status.
package signature

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"leasedoc/internal/domain"
	"leasedoc/internal/domain/models"
	"leasedoc/internal/domain/repositories"
	"leasedoc/internal/domain/services"
	"leasedoc/internal/metrics"
)

// AckBody is the literal response Dropbox Sign expects from a callback URL
const AckBody = "Hello API Event Received"

// maxUpdateAttempts bounds the compare-and-set retries when events for the
// same document are processed concurrently
const maxUpdateAttempts = 3

// Outcome says what processing an event did
type Outcome string

const (
	OutcomeHandshake      Outcome = "handshake"       // plaintext verification probe
	OutcomeCallbackTest   Outcome = "callback_test"   // connectivity test, storage untouched
	OutcomeUnknownRequest Outcome = "unknown_request" // no document tracks the request id
	OutcomeNoChange       Outcome = "no_change"       // event type implies no status, or status already set
	OutcomeStale          Outcome = "stale"           // would move the status backwards
	OutcomeApplied        Outcome = "applied"
)

// Result describes a processed event
type Result struct {
	Outcome            Outcome
	EventType          string
	SignatureRequestID string
	DocumentID         string
	Status             *models.SignatureStatus // status after processing
}

// Processor handles signature provider callbacks.
//
// Process is the fallible core and returns typed errors. Handle wraps it with
// the acknowledgement policy the provider needs.
type Processor struct {
	docRepo  repositories.DocumentRepository
	verifier *Verifier
	metrics  *metrics.Metrics
	logger   *slog.Logger
}

var _ services.WebhookHandler = (*Processor)(nil)

// NewProcessor creates a webhook processor
func NewProcessor(
	docRepo repositories.DocumentRepository,
	verifier *Verifier,
	m *metrics.Metrics,
	logger *slog.Logger,
) *Processor {
	return &Processor{
		docRepo:  docRepo,
		verifier: verifier,
		metrics:  m,
		logger:   logger,
	}
}

// Process verifies and applies one callback.
//
// Errors: domain.ErrAuthenticity when the signature does not match,
// domain.ErrMalformedWebhookEvent when the payload cannot be read, or a
// storage error. An unknown request id is not an error.
func (p *Processor) Process(ctx context.Context, req *services.WebhookRequest) (*Result, error) {
	if err := p.verifier.Verify(req.Body, req.Signature); err != nil {
		return nil, err
	}

	data, err := extractJSON(req.ContentType, req.Body)
	if err != nil {
		return nil, err
	}

	if !json.Valid(data) {
		if isProbe(data) {
			return &Result{Outcome: OutcomeHandshake}, nil
		}
		return nil, fmt.Errorf("%w: body is not JSON", domain.ErrMalformedWebhookEvent)
	}

	payload, err := decodeEvent(data)
	if err != nil {
		return nil, err
	}
	event := payload.toEvent()

	if event.EventType == models.EventCallbackTest {
		return &Result{Outcome: OutcomeCallbackTest, EventType: event.EventType}, nil
	}

	if event.SignatureRequestID == "" {
		return nil, fmt.Errorf("%w: %s event without signature_request_id", domain.ErrMalformedWebhookEvent, event.EventType)
	}

	return p.apply(ctx, event)
}

// apply folds event into the document tracking its signature request
func (p *Processor) apply(ctx context.Context, event models.SignatureEvent) (*Result, error) {
	result := &Result{
		EventType:          event.EventType,
		SignatureRequestID: event.SignatureRequestID,
	}

	for attempt := 1; ; attempt++ {
		doc, err := p.docRepo.GetBySignatureRequestID(ctx, event.SignatureRequestID)
		if errors.Is(err, domain.ErrNotFound) {
			result.Outcome = OutcomeUnknownRequest
			return result, nil
		}
		if err != nil {
			return nil, fmt.Errorf("resolve signature request %s: %w", event.SignatureRequestID, err)
		}
		result.DocumentID = doc.ID
		result.Status = doc.SignatureStatus

		next, ok := event.NextStatus()
		if !ok || (doc.SignatureStatus != nil && *doc.SignatureStatus == next) {
			result.Outcome = OutcomeNoChange
			return result, nil
		}
		if !models.CanTransition(doc.SignatureStatus, next) {
			result.Outcome = OutcomeStale
			return result, nil
		}

		applied, err := p.docRepo.UpdateSignatureStatus(ctx, doc.ID, doc.SignatureStatus, next)
		if err != nil {
			return nil, fmt.Errorf("update signature status of %s: %w", doc.ID, err)
		}
		if applied {
			result.Outcome = OutcomeApplied
			result.Status = &next
			return result, nil
		}

		// another event changed the status between read and write
		if attempt == maxUpdateAttempts {
			return nil, fmt.Errorf("update signature status of %s: %w after %d attempts", doc.ID, domain.ErrConflict, attempt)
		}
	}
}

// Handle processes a callback and always acknowledges it, except when the
// request is not authentic. Failures are recorded in logs and metrics.
func (p *Processor) Handle(ctx context.Context, req *services.WebhookRequest) services.Acknowledgement {
	result, err := p.Process(ctx, req)

	switch {
	case errors.Is(err, domain.ErrAuthenticity):
		p.logger.Warn("signature webhook rejected: authenticity check failed",
			"content_length", len(req.Body),
			"signature_present", req.Signature != "",
		)
		p.metrics.WebhookEvents.WithLabelValues("unknown", "rejected").Inc()
		return services.Acknowledgement{StatusCode: http.StatusUnauthorized, Body: "invalid signature"}

	case errors.Is(err, domain.ErrMalformedWebhookEvent):
		p.logger.Warn("signature webhook malformed", "error", err)
		p.metrics.WebhookEvents.WithLabelValues("unknown", "malformed").Inc()

	case err != nil:
		p.logger.Error("signature webhook failed", "error", err)
		p.metrics.WebhookEvents.WithLabelValues("unknown", "error").Inc()

	default:
		p.record(result)
	}

	return services.Acknowledgement{StatusCode: http.StatusOK, Body: AckBody}
}

func (p *Processor) record(result *Result) {
	eventLabel := eventTypeLabel(result.EventType)
	p.metrics.WebhookEvents.WithLabelValues(eventLabel, string(result.Outcome)).Inc()

	attrs := []any{
		"outcome", result.Outcome,
		"event_type", result.EventType,
	}
	if result.SignatureRequestID != "" {
		attrs = append(attrs, "signature_request_id", result.SignatureRequestID)
	}
	if result.DocumentID != "" {
		attrs = append(attrs, "document_id", result.DocumentID)
	}
	if result.Status != nil {
		attrs = append(attrs, "status", *result.Status)
	}

	switch result.Outcome {
	case OutcomeUnknownRequest:
		// not an authenticity problem: the signature was valid
		p.logger.Info("signature webhook for untracked request", attrs...)
	case OutcomeStale:
		p.logger.Warn("signature webhook ignored: would move status backwards", attrs...)
	default:
		p.logger.Info("signature webhook processed", attrs...)
	}
}

// eventTypeLabel keeps the metric label set bounded
func eventTypeLabel(eventType string) string {
	switch eventType {
	case "":
		return "none"
	case models.EventSignatureRequestSent, models.EventSignatureRequestViewed,
		models.EventSignatureRequestSigned, models.EventSignatureRequestAllSigned,
		models.EventSignatureRequestDeclined, models.EventSignatureRequestCanceled,
		models.EventSignatureRequestExpired, models.EventSignatureRequestInvalid,
		models.EventCallbackTest:
		return eventType
	default:
		return "other"
	}
}
