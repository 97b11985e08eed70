package auth

import "leasedoc/internal/domain/models"

// JWTVerifier validates bearer tokens issued by the identity provider.
// The middleware only depends on this interface.
type JWTVerifier interface {
	// VerifyToken returns the claims of a valid, signed, unexpired token
	VerifyToken(tokenString string) (*models.SupabaseClaims, error)

	// Close releases resources held by the verifier
	Close() error
}
