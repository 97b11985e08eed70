package signature

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"leasedoc/internal/domain"
)

// SignatureHeader carries the hex HMAC-SHA256 of the raw webhook body
const SignatureHeader = "X-Signature"

// Verifier checks webhook bodies against the shared secret
type Verifier struct {
	secret []byte
}

// NewVerifier creates a verifier. An empty secret is refused so that a
// misconfigured deployment cannot accept unsigned callbacks.
func NewVerifier(secret string) (*Verifier, error) {
	if secret == "" {
		return nil, fmt.Errorf("webhook secret is required")
	}
	return &Verifier{secret: []byte(secret)}, nil
}

// Sign returns the hex signature of body
func (v *Verifier) Sign(body []byte) string {
	return hex.EncodeToString(v.mac(body))
}

// Verify reports domain.ErrAuthenticity unless signature matches body.
// The header value may carry a "sha256=" prefix.
func (v *Verifier) Verify(body []byte, signature string) error {
	signature = strings.TrimPrefix(strings.TrimSpace(signature), "sha256=")
	if signature == "" {
		return fmt.Errorf("%w: missing %s header", domain.ErrAuthenticity, SignatureHeader)
	}

	given, err := hex.DecodeString(signature)
	if err != nil {
		return fmt.Errorf("%w: signature is not hex", domain.ErrAuthenticity)
	}
	if !hmac.Equal(given, v.mac(body)) {
		return domain.ErrAuthenticity
	}
	return nil
}

func (v *Verifier) mac(body []byte) []byte {
	h := hmac.New(sha256.New, v.secret)
	h.Write(body)
	return h.Sum(nil)
}
