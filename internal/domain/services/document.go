package services

import (
	"context"
	"encoding/json"

	"leasedoc/internal/domain/models"
)

// DocumentService generates landlord documents and regenerates them from
// the form data captured at creation time.
type DocumentService interface {
	// Generate builds a prompt for the requested document type, calls the
	// generation backend and persists a new document owned by req.OwnerID.
	Generate(ctx context.Context, req *GenerateDocumentRequest) (*models.Document, error)

	// Regenerate rebuilds the document content from its stored form data.
	// Only the content changes; form data and signature fields are untouched.
	Regenerate(ctx context.Context, ownerID, documentID string) (*models.Document, error)

	// GetDocument retrieves one of the owner's documents
	GetDocument(ctx context.Context, ownerID, documentID string) (*models.Document, error)

	// ListDocuments lists the owner's documents without content
	ListDocuments(ctx context.Context, ownerID string) ([]models.Document, error)
}

// GenerateDocumentRequest represents a document generation request
type GenerateDocumentRequest struct {
	OwnerID      string          `json:"-"` // Set by handler from auth context
	DocumentType string          `json:"document_type"`
	FormData     json.RawMessage `json:"form_data"`
	PropertyID   *string         `json:"property_id,omitempty"`
	TenantID     *string         `json:"tenant_id,omitempty"`
}
