package signature

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"

	"leasedoc/internal/domain"
	"leasedoc/internal/domain/models"
	"leasedoc/internal/domain/services"
)

// mockDocumentRepo is an in-memory DocumentRepository that counts every call
type mockDocumentRepo struct {
	mu        sync.Mutex
	docs      map[string]models.Document
	calls     int
	statusErr error
	setErr    error

	// beforeUpdate runs inside UpdateSignatureStatus before the compare, to
	// simulate a concurrent writer
	beforeUpdate func(docs map[string]models.Document)
}

func newMockDocumentRepo(docs ...models.Document) *mockDocumentRepo {
	r := &mockDocumentRepo{docs: make(map[string]models.Document)}
	for _, d := range docs {
		r.docs[d.ID] = d
	}
	return r
}

func (r *mockDocumentRepo) Create(ctx context.Context, doc *models.Document) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	r.docs[doc.ID] = *doc
	return nil
}

func (r *mockDocumentRepo) GetByID(ctx context.Context, id, ownerID string) (*models.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	doc, ok := r.docs[id]
	if !ok || doc.OwnerID != ownerID {
		return nil, &domain.NotFoundError{Message: "document not found"}
	}
	return &doc, nil
}

func (r *mockDocumentRepo) ListByOwner(ctx context.Context, ownerID string) ([]models.Document, error) {
	return nil, errors.New("not used")
}

func (r *mockDocumentRepo) UpdateContent(ctx context.Context, id, ownerID, content string) error {
	return errors.New("not used")
}

func (r *mockDocumentRepo) SetSignatureRequest(ctx context.Context, id, ownerID, signatureRequestID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	if r.setErr != nil {
		return r.setErr
	}
	doc, ok := r.docs[id]
	if !ok || doc.OwnerID != ownerID {
		return &domain.NotFoundError{Message: "document not found"}
	}
	if doc.SignatureRequestID != nil {
		return &domain.ConflictError{Message: "already sent"}
	}
	pending := models.SignatureStatusPending
	doc.SignatureRequestID = &signatureRequestID
	doc.SignatureStatus = &pending
	r.docs[id] = doc
	return nil
}

func (r *mockDocumentRepo) GetBySignatureRequestID(ctx context.Context, signatureRequestID string) (*models.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	for _, doc := range r.docs {
		if doc.SignatureRequestID != nil && *doc.SignatureRequestID == signatureRequestID {
			return &doc, nil
		}
	}
	return nil, &domain.NotFoundError{Message: "no document for signature request"}
}

func (r *mockDocumentRepo) UpdateSignatureStatus(ctx context.Context, id string, from *models.SignatureStatus, to models.SignatureStatus) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	if r.statusErr != nil {
		return false, r.statusErr
	}
	if r.beforeUpdate != nil {
		r.beforeUpdate(r.docs)
		r.beforeUpdate = nil
	}
	doc, ok := r.docs[id]
	if !ok {
		return false, nil
	}
	if (doc.SignatureStatus == nil) != (from == nil) ||
		(from != nil && *doc.SignatureStatus != *from) {
		return false, nil
	}
	doc.SignatureStatus = &to
	r.docs[id] = doc
	return true, nil
}

func (r *mockDocumentRepo) status(id string) *models.SignatureStatus {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.docs[id].SignatureStatus
}

func (r *mockDocumentRepo) callCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls
}

// mockProvider records signature requests
type mockProvider struct {
	requests []*services.ProviderSignatureRequest
	id       string
	err      error
}

func (p *mockProvider) CreateSignatureRequest(ctx context.Context, req *services.ProviderSignatureRequest) (string, error) {
	p.requests = append(p.requests, req)
	if p.err != nil {
		return "", p.err
	}
	return p.id, nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
