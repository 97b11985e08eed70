package services

import (
	"context"

	"leasedoc/internal/domain/models"
)

// SignatureService sends generated documents out for electronic signature
type SignatureService interface {
	// SendForSignature creates a signature request at the provider and records its id.
	// The document's status becomes pending.
	SendForSignature(ctx context.Context, ownerID, documentID string, req *SendForSignatureRequest) (*models.Document, error)
}

// Signer is one party asked to sign a document
type Signer struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// SendForSignatureRequest represents a request to send a document for signature
type SendForSignatureRequest struct {
	Signers []Signer `json:"signers"`
	Subject string   `json:"subject,omitempty"`
	Message string   `json:"message,omitempty"`
}

// SignatureProvider is the external e-signature service
type SignatureProvider interface {
	// CreateSignatureRequest uploads the document and returns the provider's request id
	CreateSignatureRequest(ctx context.Context, req *ProviderSignatureRequest) (string, error)
}

// ProviderSignatureRequest is what gets sent to the signature provider
type ProviderSignatureRequest struct {
	Title    string
	Subject  string
	Message  string
	Filename string
	Content  []byte
	Signers  []Signer
	Metadata map[string]string
}

// WebhookRequest carries a raw signature provider callback
type WebhookRequest struct {
	Body        []byte
	ContentType string
	Signature   string
}

// Acknowledgement is what the webhook endpoint answers to the provider
type Acknowledgement struct {
	StatusCode int
	Body       string
}

// WebhookHandler turns provider callbacks into signature status updates.
// It never fails: application errors become a success acknowledgement so the
// provider does not retry, and only authenticity failures are refused.
type WebhookHandler interface {
	Handle(ctx context.Context, req *WebhookRequest) Acknowledgement
}
