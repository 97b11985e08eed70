package handler

import (
	"log/slog"
	"net/http"

	"leasedoc/internal/domain/models"
	"leasedoc/internal/domain/services"
	"leasedoc/internal/httputil"
)

// DocumentHandler handles document generation HTTP requests
type DocumentHandler struct {
	docService services.DocumentService
	logger     *slog.Logger
}

// NewDocumentHandler creates a new document handler
func NewDocumentHandler(docService services.DocumentService, logger *slog.Logger) *DocumentHandler {
	return &DocumentHandler{
		docService: docService,
		logger:     logger,
	}
}

// ListDocumentsResponse wraps the caller's documents
type ListDocumentsResponse struct {
	Documents []models.Document `json:"documents"`
}

// GenerateDocument generates and stores a new document
// POST /api/documents
func (h *DocumentHandler) GenerateDocument(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req services.GenerateDocumentRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		handleError(w, h.logger, err)
		return
	}
	req.OwnerID = userID

	doc, err := h.docService.Generate(r.Context(), &req)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, doc)
}

// ListDocuments lists the caller's documents without content
// GET /api/documents
func (h *DocumentHandler) ListDocuments(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	docs, err := h.docService.ListDocuments(r.Context(), userID)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}
	if docs == nil {
		docs = []models.Document{}
	}

	httputil.RespondJSON(w, http.StatusOK, ListDocumentsResponse{Documents: docs})
}

// GetDocument retrieves a document by ID
// GET /api/documents/{id}
func (h *DocumentHandler) GetDocument(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	id, ok := documentID(w, r)
	if !ok {
		return
	}

	doc, err := h.docService.GetDocument(r.Context(), userID, id)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, doc)
}

// RegenerateDocument rebuilds a document's content from its stored form data
// POST /api/documents/{id}/regenerate
func (h *DocumentHandler) RegenerateDocument(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	id, ok := documentID(w, r)
	if !ok {
		return
	}

	doc, err := h.docService.Regenerate(r.Context(), userID, id)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, doc)
}
