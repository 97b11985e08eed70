package signature

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/url"

	"leasedoc/internal/domain"
	"leasedoc/internal/domain/models"
)

// formField is the form field Dropbox Sign puts the event JSON in
const formField = "json"

// eventPayload is the subset of a Dropbox Sign callback the processor reads
type eventPayload struct {
	Event struct {
		EventType string `json:"event_type"`
		EventTime string `json:"event_time"`
	} `json:"event"`
	SignatureRequest *struct {
		SignatureRequestID string `json:"signature_request_id"`
		IsComplete         bool   `json:"is_complete"`
	} `json:"signature_request"`
}

func (p *eventPayload) toEvent() models.SignatureEvent {
	event := models.SignatureEvent{EventType: p.Event.EventType}
	if p.SignatureRequest != nil {
		event.SignatureRequestID = p.SignatureRequest.SignatureRequestID
		event.AllSigned = p.SignatureRequest.IsComplete
	}
	return event
}

// extractJSON returns the event document carried by body. Form posts carry it
// in the "json" field; anything else is taken as the document itself.
func extractJSON(contentType string, body []byte) ([]byte, error) {
	mediaType, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		return body, nil
	}

	switch mediaType {
	case "application/x-www-form-urlencoded":
		values, err := url.ParseQuery(string(body))
		if err != nil {
			return nil, fmt.Errorf("%w: form body: %v", domain.ErrMalformedWebhookEvent, err)
		}
		if !values.Has(formField) {
			return body, nil
		}
		return []byte(values.Get(formField)), nil

	case "multipart/form-data":
		reader := multipart.NewReader(bytes.NewReader(body), params["boundary"])
		for {
			part, err := reader.NextPart()
			if err == io.EOF {
				return nil, fmt.Errorf("%w: multipart body has no %q field", domain.ErrMalformedWebhookEvent, formField)
			}
			if err != nil {
				return nil, fmt.Errorf("%w: multipart body: %v", domain.ErrMalformedWebhookEvent, err)
			}
			if part.FormName() != formField {
				continue
			}
			data, err := io.ReadAll(part)
			if err != nil {
				return nil, fmt.Errorf("%w: multipart body: %v", domain.ErrMalformedWebhookEvent, err)
			}
			return data, nil
		}

	default:
		return body, nil
	}
}

// isProbe reports whether a non-JSON body is the provider's plaintext
// verification request
func isProbe(body []byte) bool {
	trimmed := bytes.TrimSpace(body)
	return len(trimmed) == 0 || bytes.Contains(trimmed, []byte(models.EventCallbackTest))
}

// decodeEvent parses an event document
func decodeEvent(data []byte) (*eventPayload, error) {
	var payload eventPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedWebhookEvent, err)
	}
	if payload.Event.EventType == "" {
		return nil, fmt.Errorf("%w: missing event.event_type", domain.ErrMalformedWebhookEvent)
	}
	return &payload, nil
}
