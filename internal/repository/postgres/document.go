package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"leasedoc/internal/domain"
	"leasedoc/internal/domain/models"
	"leasedoc/internal/domain/repositories"
)

// PostgresDocumentRepository implements the DocumentRepository interface
type PostgresDocumentRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewDocumentRepository creates a new document repository
func NewDocumentRepository(config *RepositoryConfig) repositories.DocumentRepository {
	return &PostgresDocumentRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

const documentColumns = `id, owner_id, document_type, title, content, form_data,
	property_id, tenant_id, signature_request_id, signature_status, created_at, updated_at`

// Create inserts a new document
func (r *PostgresDocumentRepository) Create(ctx context.Context, doc *models.Document) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (owner_id, document_type, title, content, form_data, property_id, tenant_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`, r.tables.Documents)

	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		doc.OwnerID,
		string(doc.DocumentType),
		doc.Title,
		doc.Content,
		formDataParam(doc),
		doc.PropertyID,
		doc.TenantID,
	).Scan(&doc.ID, &doc.CreatedAt, &doc.UpdatedAt)

	if err != nil {
		if isPgCheckViolation(err) || isPgInvalidText(err) {
			return fmt.Errorf("create document: %w: %v", domain.ErrValidation, err)
		}
		return fmt.Errorf("create document: %w", err)
	}

	return nil
}

// GetByID retrieves a document owned by ownerID
func (r *PostgresDocumentRepository) GetByID(ctx context.Context, id, ownerID string) (*models.Document, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE id = $1 AND owner_id = $2
	`, documentColumns, r.tables.Documents)

	executor := GetExecutor(ctx, r.pool)
	doc, err := scanDocument(executor.QueryRow(ctx, query, id, ownerID))
	if err != nil {
		if isPgNoRowsError(err) || isPgInvalidText(err) {
			return nil, fmt.Errorf("document %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get document: %w", err)
	}

	return doc, nil
}

// ListByOwner lists the owner's documents, newest first. Content is left empty.
func (r *PostgresDocumentRepository) ListByOwner(ctx context.Context, ownerID string) ([]models.Document, error) {
	query := fmt.Sprintf(`
		SELECT id, owner_id, document_type, title, '' AS content, form_data,
			property_id, tenant_id, signature_request_id, signature_status, created_at, updated_at
		FROM %s
		WHERE owner_id = $1
		ORDER BY created_at DESC
	`, r.tables.Documents)

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer rows.Close()

	docs := []models.Document{}
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		docs = append(docs, *doc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate documents: %w", err)
	}

	return docs, nil
}

// UpdateContent overwrites only the content column
func (r *PostgresDocumentRepository) UpdateContent(ctx context.Context, id, ownerID, content string) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET content = $1, updated_at = now()
		WHERE id = $2 AND owner_id = $3
	`, r.tables.Documents)

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, content, id, ownerID)
	if err != nil {
		return fmt.Errorf("update document content: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("document %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

// SetSignatureRequest records the provider request id once and marks the document pending
func (r *PostgresDocumentRepository) SetSignatureRequest(ctx context.Context, id, ownerID, signatureRequestID string) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET signature_request_id = $1, signature_status = $2, updated_at = now()
		WHERE id = $3 AND owner_id = $4 AND signature_request_id IS NULL
	`, r.tables.Documents)

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query,
		signatureRequestID,
		string(models.SignatureStatusPending),
		id,
		ownerID,
	)
	if err != nil {
		if isPgDuplicateError(err) {
			return &domain.ConflictError{
				Message:      fmt.Sprintf("signature request %s is already attached to another document", signatureRequestID),
				ResourceType: "signature_request",
				ResourceID:   signatureRequestID,
			}
		}
		return fmt.Errorf("set signature request: %w", err)
	}

	if result.RowsAffected() == 0 {
		// either missing/not owned, or already sent
		if _, err := r.GetByID(ctx, id, ownerID); err != nil {
			return err
		}
		return &domain.ConflictError{
			Message:      fmt.Sprintf("document %s was already sent for signature", id),
			ResourceType: "document",
			ResourceID:   id,
		}
	}

	return nil
}

// GetBySignatureRequestID resolves a provider request id to its document
func (r *PostgresDocumentRepository) GetBySignatureRequestID(ctx context.Context, signatureRequestID string) (*models.Document, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE signature_request_id = $1
	`, documentColumns, r.tables.Documents)

	executor := GetExecutor(ctx, r.pool)
	doc, err := scanDocument(executor.QueryRow(ctx, query, signatureRequestID))
	if err != nil {
		if isPgNoRowsError(err) {
			return nil, fmt.Errorf("signature request %s: %w", signatureRequestID, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get document by signature request: %w", err)
	}

	return doc, nil
}

// UpdateSignatureStatus is a compare-and-set on signature_status.
// It writes only that column (plus updated_at).
func (r *PostgresDocumentRepository) UpdateSignatureStatus(ctx context.Context, id string, from *models.SignatureStatus, to models.SignatureStatus) (bool, error) {
	query := fmt.Sprintf(`
		UPDATE %s
		SET signature_status = $1, updated_at = now()
		WHERE id = $2 AND signature_status IS NOT DISTINCT FROM $3
	`, r.tables.Documents)

	var previous *string
	if from != nil {
		s := string(*from)
		previous = &s
	}

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, string(to), id, previous)
	if err != nil {
		return false, fmt.Errorf("update signature status: %w", err)
	}

	return result.RowsAffected() == 1, nil
}

// scanDocument reads one row selected with documentColumns
func scanDocument(row pgx.Row) (*models.Document, error) {
	var (
		doc          models.Document
		documentType string
		formData     []byte
		status       *string
	)

	err := row.Scan(
		&doc.ID,
		&doc.OwnerID,
		&documentType,
		&doc.Title,
		&doc.Content,
		&formData,
		&doc.PropertyID,
		&doc.TenantID,
		&doc.SignatureRequestID,
		&status,
		&doc.CreatedAt,
		&doc.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	doc.DocumentType = models.DocumentType(documentType)
	doc.FormData = formData
	if status != nil {
		s := models.SignatureStatus(*status)
		doc.SignatureStatus = &s
	}

	return &doc, nil
}

// formDataParam maps an absent form to SQL NULL
func formDataParam(doc *models.Document) any {
	if !doc.HasFormData() {
		return nil
	}
	return []byte(doc.FormData)
}
