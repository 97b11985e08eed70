package handler

import "net/http"

// Routes groups the handlers mounted by NewRouter
type Routes struct {
	Documents  *DocumentHandler
	Signatures *SignatureHandler
	Models     *ModelsHandler
	Metrics    http.Handler
}

// NewRouter registers every API route on a Go 1.22 pattern mux
func NewRouter(routes Routes) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", HealthCheck)
	if routes.Metrics != nil {
		mux.Handle("GET /metrics", routes.Metrics)
	}

	// Document routes
	mux.HandleFunc("POST /api/documents", routes.Documents.GenerateDocument)
	mux.HandleFunc("GET /api/documents", routes.Documents.ListDocuments)
	mux.HandleFunc("GET /api/documents/{id}", routes.Documents.GetDocument)
	mux.HandleFunc("POST /api/documents/{id}/regenerate", routes.Documents.RegenerateDocument)

	// Signature routes
	mux.HandleFunc("POST /api/documents/{id}/signature-request", routes.Signatures.SendForSignature)
	mux.HandleFunc("POST /api/webhooks/signature", routes.Signatures.Webhook)

	if routes.Models != nil {
		mux.HandleFunc("GET /api/models/capabilities", routes.Models.GetCapabilities)
	}

	return mux
}
