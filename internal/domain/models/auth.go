package models

import "github.com/golang-jwt/jwt/v5"

// SupabaseClaims is the subset of Supabase Auth JWT claims the service reads.
// See: https://supabase.com/docs/guides/auth/jwts
type SupabaseClaims struct {
	jwt.RegisteredClaims        // sub, iss, aud, exp, iat
	Email                string `json:"email"`
	Role                 string `json:"role"` // "authenticated" or "anon"
	SessionID            string `json:"session_id"`
	IsAnonymous          bool   `json:"is_anonymous"`
}

// GetUserID returns the user ID from the JWT subject claim.
// It is the owner id of every document the user generates.
func (c *SupabaseClaims) GetUserID() string {
	return c.Subject
}
