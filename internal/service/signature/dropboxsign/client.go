// Package dropboxsign is a minimal client for the Dropbox Sign (formerly
// HelloSign) v3 signature request API.
package dropboxsign

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"sort"
	"strings"
	"time"

	"leasedoc/internal/domain"
	"leasedoc/internal/domain/services"
)

// DefaultBaseURL is the production API endpoint
const DefaultBaseURL = "https://api.hellosign.com/v3"

// Config holds the client settings
type Config struct {
	APIKey   string
	BaseURL  string
	TestMode bool // requests are not legally binding and not billed
	Timeout  time.Duration
}

// Client implements services.SignatureProvider
type Client struct {
	apiKey     string
	baseURL    string
	testMode   bool
	httpClient *http.Client
	logger     *slog.Logger
}

var _ services.SignatureProvider = (*Client)(nil)

// NewClient creates a Dropbox Sign client
func NewClient(cfg Config, logger *slog.Logger) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("dropbox sign API key is required")
	}
	baseURL := strings.TrimSuffix(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &Client{
		apiKey:     cfg.APIKey,
		baseURL:    baseURL,
		testMode:   cfg.TestMode,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}, nil
}

type sendResponse struct {
	SignatureRequest struct {
		SignatureRequestID string `json:"signature_request_id"`
	} `json:"signature_request"`
}

type errorResponse struct {
	Error struct {
		ErrorMsg  string `json:"error_msg"`
		ErrorName string `json:"error_name"`
	} `json:"error"`
}

// CreateSignatureRequest sends the document to its signers and returns the request id
func (c *Client) CreateSignatureRequest(ctx context.Context, req *services.ProviderSignatureRequest) (string, error) {
	body, contentType, err := c.encode(req)
	if err != nil {
		return "", fmt.Errorf("encode signature request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/signature_request/send", body)
	if err != nil {
		return "", fmt.Errorf("build signature request: %w", err)
	}
	httpReq.Header.Set("Content-Type", contentType)
	httpReq.Header.Set("Accept", "application/json")
	httpReq.SetBasicAuth(c.apiKey, "")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.logger.Error("signature provider unreachable", "error_type", fmt.Sprintf("%T", err))
		return "", fmt.Errorf("%w: signature provider unreachable", domain.ErrUpstreamUnavailable)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("%w: read signature provider response: %v", domain.ErrUpstreamUnavailable, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErr errorResponse
		_ = json.Unmarshal(data, &apiErr)
		c.logger.Error("signature provider rejected request",
			"status", resp.StatusCode,
			"error_name", apiErr.Error.ErrorName,
			"error_msg", apiErr.Error.ErrorMsg,
		)
		if resp.StatusCode == http.StatusBadRequest && apiErr.Error.ErrorMsg != "" {
			return "", fmt.Errorf("%w: %s", domain.ErrValidation, apiErr.Error.ErrorMsg)
		}
		return "", fmt.Errorf("%w: signature provider status %d", domain.ErrUpstreamUnavailable, resp.StatusCode)
	}

	var sent sendResponse
	if err := json.Unmarshal(data, &sent); err != nil {
		return "", fmt.Errorf("%w: decode signature provider response: %v", domain.ErrUpstreamUnavailable, err)
	}
	if sent.SignatureRequest.SignatureRequestID == "" {
		return "", fmt.Errorf("%w: signature provider returned no request id", domain.ErrUpstreamUnavailable)
	}

	return sent.SignatureRequest.SignatureRequestID, nil
}

// encode builds the multipart body of /signature_request/send
func (c *Client) encode(req *services.ProviderSignatureRequest) (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	fields := [][2]string{
		{"title", req.Title},
		{"subject", req.Subject},
		{"message", req.Message},
	}
	if c.testMode {
		fields = append(fields, [2]string{"test_mode", "1"})
	}
	for i, signer := range req.Signers {
		fields = append(fields,
			[2]string{fmt.Sprintf("signers[%d][name]", i), signer.Name},
			[2]string{fmt.Sprintf("signers[%d][email_address]", i), signer.Email},
			[2]string{fmt.Sprintf("signers[%d][order]", i), fmt.Sprintf("%d", i)},
		)
	}

	keys := make([]string, 0, len(req.Metadata))
	for k := range req.Metadata {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fields = append(fields, [2]string{fmt.Sprintf("metadata[%s]", k), req.Metadata[k]})
	}

	for _, f := range fields {
		if f[1] == "" {
			continue
		}
		if err := w.WriteField(f[0], f[1]); err != nil {
			return nil, "", err
		}
	}

	part, err := w.CreateFormFile("files[0]", req.Filename)
	if err != nil {
		return nil, "", err
	}
	if _, err := part.Write(req.Content); err != nil {
		return nil, "", err
	}

	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}
