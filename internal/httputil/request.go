package httputil

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"leasedoc/internal/domain"
)

// maxJSONBodyBytes bounds API request bodies. Form data is small; lease agreements
// with many addenda stay well under this.
const maxJSONBodyBytes = 1 << 20

// ParseJSON decodes a JSON request body into dest. Decoding failures wrap
// domain.ErrValidation so handlers answer 400.
func ParseJSON(w http.ResponseWriter, r *http.Request, dest any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBodyBytes)

	if err := json.NewDecoder(r.Body).Decode(dest); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return fmt.Errorf("%w: request body exceeds %d bytes", domain.ErrValidation, tooLarge.Limit)
		}
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("%w: request body is empty", domain.ErrValidation)
		}
		return fmt.Errorf("%w: invalid JSON: %w", domain.ErrValidation, err)
	}
	return nil
}

// ReadBody reads the raw request body, refusing anything over limit bytes
func ReadBody(w http.ResponseWriter, r *http.Request, limit int64) ([]byte, error) {
	r.Body = http.MaxBytesReader(w, r.Body, limit)
	body, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, fmt.Errorf("read request body: %w", err)
	}
	return body, nil
}
