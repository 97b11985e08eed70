package document

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"leasedoc/internal/domain"
	"leasedoc/internal/domain/models"
	"leasedoc/internal/domain/repositories"
)

// mockDocumentRepo is an in-memory DocumentRepository
type mockDocumentRepo struct {
	mu        sync.Mutex
	docs      map[string]models.Document
	createErr error
	updateErr error
	updates   int
}

func newMockDocumentRepo() *mockDocumentRepo {
	return &mockDocumentRepo{docs: make(map[string]models.Document)}
}

func (r *mockDocumentRepo) Create(ctx context.Context, doc *models.Document) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	doc.ID = uuid.NewString()
	doc.CreatedAt = time.Now()
	doc.UpdatedAt = doc.CreatedAt
	r.docs[doc.ID] = *doc
	return nil
}

func (r *mockDocumentRepo) GetByID(ctx context.Context, id, ownerID string) (*models.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	doc, ok := r.docs[id]
	if !ok || doc.OwnerID != ownerID {
		return nil, &domain.NotFoundError{Message: fmt.Sprintf("document %s not found", id)}
	}
	return &doc, nil
}

func (r *mockDocumentRepo) ListByOwner(ctx context.Context, ownerID string) ([]models.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Document
	for _, doc := range r.docs {
		if doc.OwnerID == ownerID {
			doc.Content = ""
			out = append(out, doc)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *mockDocumentRepo) UpdateContent(ctx context.Context, id, ownerID, content string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.updateErr != nil {
		return r.updateErr
	}
	doc, ok := r.docs[id]
	if !ok || doc.OwnerID != ownerID {
		return &domain.NotFoundError{Message: "document not found"}
	}
	doc.Content = content
	r.docs[id] = doc
	r.updates++
	return nil
}

func (r *mockDocumentRepo) SetSignatureRequest(ctx context.Context, id, ownerID, signatureRequestID string) error {
	return errors.New("not used")
}

func (r *mockDocumentRepo) GetBySignatureRequestID(ctx context.Context, signatureRequestID string) (*models.Document, error) {
	return nil, errors.New("not used")
}

func (r *mockDocumentRepo) UpdateSignatureStatus(ctx context.Context, id string, from *models.SignatureStatus, to models.SignatureStatus) (bool, error) {
	return false, errors.New("not used")
}

func (r *mockDocumentRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.docs)
}

// put stores a document as-is, bypassing the service
func (r *mockDocumentRepo) put(doc models.Document) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.docs[doc.ID] = doc
}

// mockUsageRepo counts increments per owner and period
type mockUsageRepo struct {
	mu     sync.Mutex
	counts map[string]int
	incErr error
}

func newMockUsageRepo() *mockUsageRepo {
	return &mockUsageRepo{counts: make(map[string]int)}
}

func (r *mockUsageRepo) Increment(ctx context.Context, ownerID, period string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.incErr != nil {
		return 0, r.incErr
	}
	r.counts[ownerID+"/"+period]++
	return r.counts[ownerID+"/"+period], nil
}

func (r *mockUsageRepo) Get(ctx context.Context, ownerID, period string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.counts[ownerID+"/"+period], nil
}

// mockTxManager runs fn directly and discards writes made by the mock
// repos when fn fails, mimicking a rollback.
type mockTxManager struct {
	docs  *mockDocumentRepo
	usage *mockUsageRepo
}

func (m *mockTxManager) ExecTx(ctx context.Context, fn repositories.TxFn) error {
	m.docs.mu.Lock()
	docSnapshot := make(map[string]models.Document, len(m.docs.docs))
	for k, v := range m.docs.docs {
		docSnapshot[k] = v
	}
	m.docs.mu.Unlock()

	m.usage.mu.Lock()
	usageSnapshot := make(map[string]int, len(m.usage.counts))
	for k, v := range m.usage.counts {
		usageSnapshot[k] = v
	}
	m.usage.mu.Unlock()

	if err := fn(ctx); err != nil {
		m.docs.mu.Lock()
		m.docs.docs = docSnapshot
		m.docs.mu.Unlock()
		m.usage.mu.Lock()
		m.usage.counts = usageSnapshot
		m.usage.mu.Unlock()
		return err
	}
	return nil
}

// mockClient records prompts and returns a canned reply
type mockClient struct {
	mu      sync.Mutex
	prompts []string
	systems []string
	reply   string
	err     error

	// onComplete runs during each call, before the reply is returned
	onComplete func()
}

func (c *mockClient) Name() string { return "mock" }

func (c *mockClient) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.prompts = append(c.prompts, userPrompt)
	c.systems = append(c.systems, systemPrompt)
	if c.onComplete != nil {
		c.onComplete()
	}
	if c.err != nil {
		return "", c.err
	}
	return c.reply, nil
}

func (c *mockClient) calls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.prompts)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
