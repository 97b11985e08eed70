package repositories

import (
	"context"

	"leasedoc/internal/domain/models"
)

// DocumentRepository defines data access operations for generated documents.
// Every owner-facing method is scoped by ownerID; a document owned by someone
// else is reported as domain.ErrNotFound.
type DocumentRepository interface {
	// Create inserts a new document and fills in ID and timestamps
	Create(ctx context.Context, doc *models.Document) error

	// GetByID retrieves a document owned by ownerID
	GetByID(ctx context.Context, id, ownerID string) (*models.Document, error)

	// ListByOwner lists the owner's documents, newest first, without content
	ListByOwner(ctx context.Context, ownerID string) ([]models.Document, error)

	// UpdateContent overwrites only the content column
	UpdateContent(ctx context.Context, id, ownerID, content string) error

	// SetSignatureRequest records the provider request id and moves the status to pending.
	// Fails with domain.ErrConflict if the document was already sent.
	SetSignatureRequest(ctx context.Context, id, ownerID, signatureRequestID string) error

	// GetBySignatureRequestID resolves a webhook event to its document.
	// Not owner scoped: the webhook path has no authenticated user.
	GetBySignatureRequestID(ctx context.Context, signatureRequestID string) (*models.Document, error)

	// UpdateSignatureStatus sets signature_status to `to` only if it still equals `from`
	// (nil meaning NULL). Returns false when another writer got there first.
	UpdateSignatureStatus(ctx context.Context, id string, from *models.SignatureStatus, to models.SignatureStatus) (bool, error)
}
