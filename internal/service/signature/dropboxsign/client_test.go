package dropboxsign

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"leasedoc/internal/domain"
	"leasedoc/internal/domain/services"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(Config{APIKey: "ds-secret", BaseURL: server.URL, TestMode: true},
		slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	return client
}

func sampleRequest() *services.ProviderSignatureRequest {
	return &services.ProviderSignatureRequest{
		Title:    "Residential Lease Agreement - Ana Ruiz",
		Subject:  "Please sign your lease",
		Filename: "residential-lease-agreement-ana-ruiz.txt",
		Content:  []byte("RESIDENTIAL LEASE AGREEMENT"),
		Signers: []services.Signer{
			{Name: "Ana Ruiz", Email: "ana@example.com"},
			{Name: "Lone Star Rentals", Email: "owner@example.com"},
		},
		Metadata: map[string]string{"document_id": "doc-1"},
	}
}

func TestCreateSignatureRequest(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/signature_request/send", r.URL.Path)
		user, pass, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "ds-secret", user)
		assert.Empty(t, pass)

		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "Residential Lease Agreement - Ana Ruiz", r.FormValue("title"))
		assert.Equal(t, "1", r.FormValue("test_mode"))
		assert.Equal(t, "ana@example.com", r.FormValue("signers[0][email_address]"))
		assert.Equal(t, "Lone Star Rentals", r.FormValue("signers[1][name]"))
		assert.Equal(t, "doc-1", r.FormValue("metadata[document_id]"))
		assert.Empty(t, r.FormValue("message"))

		file, header, err := r.FormFile("files[0]")
		require.NoError(t, err)
		defer file.Close()
		assert.Equal(t, "residential-lease-agreement-ana-ruiz.txt", header.Filename)
		content, _ := io.ReadAll(file)
		assert.Equal(t, "RESIDENTIAL LEASE AGREEMENT", string(content))

		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"signature_request": {"signature_request_id": "fa5c8a0b0f492d768749333ad6fcc214c111e967", "is_complete": false}}`)
	})

	id, err := client.CreateSignatureRequest(t.Context(), sampleRequest())
	require.NoError(t, err)
	assert.Equal(t, "fa5c8a0b0f492d768749333ad6fcc214c111e967", id)
}

func TestCreateSignatureRequest_Errors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
	}{
		{"bad request", http.StatusBadRequest, `{"error": {"error_msg": "Invalid email address", "error_name": "bad_request"}}`, domain.ErrValidation},
		{"unauthorized", http.StatusUnauthorized, `{"error": {"error_msg": "Unauthorized api key", "error_name": "unauthorized"}}`, domain.ErrUpstreamUnavailable},
		{"server error", http.StatusInternalServerError, `oops`, domain.ErrUpstreamUnavailable},
		{"missing id", http.StatusOK, `{"signature_request": {}}`, domain.ErrUpstreamUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				io.WriteString(w, tt.body)
			})

			_, err := client.CreateSignatureRequest(t.Context(), sampleRequest())
			require.ErrorIs(t, err, tt.wantErr)
			assert.NotContains(t, err.Error(), "ds-secret")
		})
	}
}

func TestNewClient_Defaults(t *testing.T) {
	_, err := NewClient(Config{}, slog.Default())
	assert.Error(t, err)

	client, err := NewClient(Config{APIKey: "k"}, slog.Default())
	require.NoError(t, err)
	assert.Equal(t, DefaultBaseURL, client.baseURL)
}
