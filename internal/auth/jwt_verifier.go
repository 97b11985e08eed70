package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/MicahParks/keyfunc/v3"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"leasedoc/internal/domain"
	"leasedoc/internal/domain/models"
)

// allowedAlgorithms prevents algorithm confusion attacks
var allowedAlgorithms = []string{"RS256", "ES256"}

// SupabaseJWTVerifier implements JWTVerifier with keys from Supabase's JWKS endpoint
type SupabaseJWTVerifier struct {
	keyfunc jwt.Keyfunc
	cancel  context.CancelFunc
	logger  *slog.Logger
}

// NewJWTVerifier fetches and caches the JWKS at jwksURL. keyfunc refreshes
// the key set in the background until Close is called.
func NewJWTVerifier(jwksURL string, logger *slog.Logger) (JWTVerifier, error) {
	if jwksURL == "" {
		return nil, errors.New("JWKS URL cannot be empty")
	}

	ctx, cancel := context.WithCancel(context.Background())
	jwks, err := keyfunc.NewDefaultCtx(ctx, []string{jwksURL})
	if err != nil {
		cancel()
		return nil, fmt.Errorf("failed to create JWKS client: %w", err)
	}

	logger.Info("JWT verifier initialized", "jwks_url", jwksURL)

	return &SupabaseJWTVerifier{
		keyfunc: jwks.Keyfunc,
		cancel:  cancel,
		logger:  logger,
	}, nil
}

// NewJWTVerifierWithKeyfunc builds a verifier around a fixed key lookup
func NewJWTVerifierWithKeyfunc(kf jwt.Keyfunc, logger *slog.Logger) JWTVerifier {
	return &SupabaseJWTVerifier{
		keyfunc: kf,
		cancel:  func() {},
		logger:  logger,
	}
}

// VerifyToken validates a token and extracts its Supabase claims.
// Every failure is reported as domain.ErrUnauthorized.
func (v *SupabaseJWTVerifier) VerifyToken(tokenString string) (*models.SupabaseClaims, error) {
	claims := &models.SupabaseClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, v.keyfunc,
		jwt.WithValidMethods(allowedAlgorithms),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !token.Valid {
		v.logger.Debug("token rejected", "error", err)
		return nil, domain.ErrUnauthorized
	}

	if _, err := uuid.Parse(claims.Subject); err != nil {
		v.logger.Debug("token subject is not a user id", "subject", claims.Subject)
		return nil, domain.ErrUnauthorized
	}

	// reject anonymous sessions
	if claims.Role != "authenticated" || claims.IsAnonymous {
		v.logger.Warn("token has invalid role",
			"role", claims.Role,
			"user_id", claims.Subject,
		)
		return nil, domain.ErrUnauthorized
	}

	return claims, nil
}

// Close stops the background JWKS refresh
func (v *SupabaseJWTVerifier) Close() error {
	v.cancel()
	return nil
}
