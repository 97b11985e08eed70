package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"leasedoc/internal/capabilities"
	"leasedoc/internal/config"
	"leasedoc/internal/domain"
	"leasedoc/internal/domain/models"
	"leasedoc/internal/domain/services"
	"leasedoc/internal/httputil"
)

const (
	ownerID = "5f8c7a9e-3b2d-4c1a-9e8f-7d6c5b4a3f21"
	docID   = "0b9e1c4d-2f6a-4e8b-9c7d-1a2b3c4d5e6f"
)

type fakeDocumentService struct {
	doc       *models.Document
	err       error
	lastReq   *services.GenerateDocumentRequest
	lastOwner string
	lastID    string
}

func (f *fakeDocumentService) Generate(_ context.Context, req *services.GenerateDocumentRequest) (*models.Document, error) {
	f.lastReq = req
	return f.doc, f.err
}

func (f *fakeDocumentService) Regenerate(_ context.Context, owner, id string) (*models.Document, error) {
	f.lastOwner, f.lastID = owner, id
	return f.doc, f.err
}

func (f *fakeDocumentService) GetDocument(_ context.Context, owner, id string) (*models.Document, error) {
	f.lastOwner, f.lastID = owner, id
	return f.doc, f.err
}

func (f *fakeDocumentService) ListDocuments(_ context.Context, owner string) ([]models.Document, error) {
	f.lastOwner = owner
	if f.err != nil || f.doc == nil {
		return nil, f.err
	}
	return []models.Document{*f.doc}, nil
}

type fakeSignatureService struct {
	doc     *models.Document
	err     error
	lastReq *services.SendForSignatureRequest
}

func (f *fakeSignatureService) SendForSignature(_ context.Context, _, _ string, req *services.SendForSignatureRequest) (*models.Document, error) {
	f.lastReq = req
	return f.doc, f.err
}

type fakeWebhooks struct {
	last *services.WebhookRequest
	ack  services.Acknowledgement
}

func (f *fakeWebhooks) Handle(_ context.Context, req *services.WebhookRequest) services.Acknowledgement {
	f.last = req
	return f.ack
}

type testServer struct {
	docs     *fakeDocumentService
	sigs     *fakeSignatureService
	webhooks *fakeWebhooks
	handler  http.Handler
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	registry, err := capabilities.NewRegistry()
	require.NoError(t, err)

	ts := &testServer{
		docs:     &fakeDocumentService{},
		sigs:     &fakeSignatureService{},
		webhooks: &fakeWebhooks{ack: services.Acknowledgement{StatusCode: http.StatusOK, Body: "Hello API Event Received"}},
	}
	cfg := &config.Config{GenerationProvider: "anthropic", GenerationModel: "claude-haiku-4-5", GenerationMaxTokens: 1 << 20}

	mux := NewRouter(Routes{
		Documents:  NewDocumentHandler(ts.docs, logger),
		Signatures: NewSignatureHandler(ts.sigs, ts.webhooks, logger),
		Models:     NewModelsHandler(cfg, logger, registry),
	})

	// stands in for the auth middleware
	ts.handler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if user := r.Header.Get("X-Test-User"); user != "" {
			r = httputil.WithUserID(r, user)
		}
		mux.ServeHTTP(w, r)
	})
	return ts
}

func (ts *testServer) do(method, path, body string, authed bool) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if authed {
		req.Header.Set("X-Test-User", ownerID)
	}
	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)
	return rec
}

func sampleDocument() *models.Document {
	return &models.Document{
		ID:           docID,
		OwnerID:      ownerID,
		DocumentType: models.DocumentTypeLateRent,
		Title:        "Late Rent Notice - J. Smith",
		Content:      "NOTICE OF LATE RENT",
	}
}

func TestGenerateDocument(t *testing.T) {
	ts := newTestServer(t)
	ts.docs.doc = sampleDocument()

	rec := ts.do(http.MethodPost, "/api/documents",
		`{"document_type":"late_rent","form_data":{"tenantName":"J. Smith","amountDue":450,"daysLate":5}}`, true)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	require.NotNil(t, ts.docs.lastReq)
	assert.Equal(t, ownerID, ts.docs.lastReq.OwnerID)
	assert.Equal(t, "late_rent", ts.docs.lastReq.DocumentType)
	assert.JSONEq(t, `{"tenantName":"J. Smith","amountDue":450,"daysLate":5}`, string(ts.docs.lastReq.FormData))

	var got models.Document
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, docID, got.ID)
}

func TestGenerateDocument_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantDetail string
	}{
		{"invalid type", fmt.Errorf("%w: %q", domain.ErrInvalidDocumentType, "eviction"), http.StatusBadRequest, "invalid document type"},
		{"validation", &domain.ValidationError{Message: "tenantName: cannot be blank"}, http.StatusBadRequest, "tenantName"},
		{"quota", domain.ErrQuotaExceeded, http.StatusTooManyRequests, "monthly generation limit"},
		{"upstream", fmt.Errorf("%w: status 529", domain.ErrUpstreamUnavailable), http.StatusBadGateway, "generation service unavailable"},
		{"empty", domain.ErrEmptyResponse, http.StatusBadGateway, "no text"},
		{"storage", fmt.Errorf("%w: connection reset", domain.ErrStorage), http.StatusInternalServerError, "internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newTestServer(t)
			ts.docs.err = tt.err

			rec := ts.do(http.MethodPost, "/api/documents", `{"document_type":"late_rent","form_data":{}}`, true)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, "application/problem+json", rec.Header().Get("Content-Type"))
			assert.Contains(t, rec.Body.String(), tt.wantDetail)
			assert.NotContains(t, rec.Body.String(), "connection reset")
			assert.NotContains(t, rec.Body.String(), "529")
		})
	}
}

func TestGenerateDocument_BadRequests(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(http.MethodPost, "/api/documents", `{"document_type":`, true)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Nil(t, ts.docs.lastReq)

	rec = ts.do(http.MethodPost, "/api/documents", `{"document_type":"late_rent"}`, false)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Nil(t, ts.docs.lastReq)
}

func TestGetDocument(t *testing.T) {
	ts := newTestServer(t)
	ts.docs.doc = sampleDocument()

	rec := ts.do(http.MethodGet, "/api/documents/"+docID, "", true)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, ownerID, ts.docs.lastOwner)
	assert.Equal(t, docID, ts.docs.lastID)
	assert.Contains(t, rec.Body.String(), "NOTICE OF LATE RENT")
}

func TestGetDocument_NotFoundIsUniform(t *testing.T) {
	ts := newTestServer(t)
	ts.docs.err = &domain.NotFoundError{Message: "document " + docID + " not found"}

	missing := ts.do(http.MethodGet, "/api/documents/"+docID, "", true)
	malformed := ts.do(http.MethodGet, "/api/documents/not-a-uuid", "", true)

	assert.Equal(t, http.StatusNotFound, missing.Code)
	assert.Equal(t, http.StatusNotFound, malformed.Code)
	assert.Equal(t, missing.Body.String(), malformed.Body.String())
}

func TestListDocuments(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(http.MethodGet, "/api/documents", "", true)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"documents":[]}`, rec.Body.String())

	ts.docs.doc = sampleDocument()
	rec = ts.do(http.MethodGet, "/api/documents", "", true)
	var resp ListDocumentsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Documents, 1)
	assert.Equal(t, ownerID, ts.docs.lastOwner)
}

func TestRegenerateDocument(t *testing.T) {
	ts := newTestServer(t)
	ts.docs.err = fmt.Errorf("document %s: %w", docID, domain.ErrMissingFormData)

	rec := ts.do(http.MethodPost, "/api/documents/"+docID+"/regenerate", "", true)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "no stored form data")

	ts.docs.err = nil
	ts.docs.doc = sampleDocument()
	rec = ts.do(http.MethodPost, "/api/documents/"+docID+"/regenerate", "", true)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, docID, ts.docs.lastID)
}

func TestSendForSignature(t *testing.T) {
	ts := newTestServer(t)
	doc := sampleDocument()
	pending := models.SignatureStatusPending
	doc.SignatureStatus = &pending
	ts.sigs.doc = doc

	rec := ts.do(http.MethodPost, "/api/documents/"+docID+"/signature-request",
		`{"signers":[{"name":"J. Smith","email":"j.smith@example.com"}],"subject":"Please sign"}`, true)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.NotNil(t, ts.sigs.lastReq)
	assert.Equal(t, "j.smith@example.com", ts.sigs.lastReq.Signers[0].Email)
	assert.Contains(t, rec.Body.String(), `"signature_status":"pending"`)
}

func TestSendForSignature_Conflict(t *testing.T) {
	ts := newTestServer(t)
	ts.sigs.err = &domain.ConflictError{
		Message:      "document already sent for signature",
		ResourceType: "signature_request",
		ResourceID:   "sr_123",
	}

	rec := ts.do(http.MethodPost, "/api/documents/"+docID+"/signature-request", `{"signers":[]}`, true)

	assert.Equal(t, http.StatusConflict, rec.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "sr_123", body["resource_id"])
}

func TestSendForSignature_NotConfigured(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := NewSignatureHandler(nil, nil, logger)

	req := httptest.NewRequest(http.MethodPost, "/api/documents/"+docID+"/signature-request", strings.NewReader(`{}`))
	req.SetPathValue("id", docID)
	req = httputil.WithUserID(req, ownerID)
	rec := httptest.NewRecorder()
	h.SendForSignature(rec, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestWebhook(t *testing.T) {
	ts := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/webhooks/signature", strings.NewReader("json=%7B%7D"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("X-Signature", "abc123")
	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Hello API Event Received", rec.Body.String())
	assert.Equal(t, "text/plain; charset=utf-8", rec.Header().Get("Content-Type"))

	require.NotNil(t, ts.webhooks.last)
	assert.Equal(t, []byte("json=%7B%7D"), ts.webhooks.last.Body)
	assert.Equal(t, "abc123", ts.webhooks.last.Signature)
	assert.Equal(t, "application/x-www-form-urlencoded", ts.webhooks.last.ContentType)
}

func TestWebhook_Rejected(t *testing.T) {
	ts := newTestServer(t)
	ts.webhooks.ack = services.Acknowledgement{StatusCode: http.StatusUnauthorized, Body: "invalid signature"}

	rec := ts.do(http.MethodPost, "/api/webhooks/signature", `{}`, false)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "invalid signature", rec.Body.String())
}

func TestWebhook_BodyTooLarge(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(http.MethodPost, "/api/webhooks/signature", strings.Repeat("a", config.MaxWebhookBodyBytes+1), false)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	assert.Nil(t, ts.webhooks.last)
}

func TestGetCapabilities(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(http.MethodGet, "/api/models/capabilities", "", true)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp CapabilitiesResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "anthropic", resp.Provider)
	assert.Equal(t, "claude-haiku-4-5", resp.ActiveModel)
	assert.NotEmpty(t, resp.Models)
	assert.Less(t, resp.MaxTokens, 1<<20)
	assert.Len(t, resp.DocumentTypes, len(models.DocumentTypes))
}

func TestHealthCheck(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(http.MethodGet, "/health", "", false)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
}
