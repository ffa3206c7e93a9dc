package ports

import (
	"time"

	"github.com/google/uuid"
)

type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
}

// AuthClaims is the verified content of a session token.
type AuthClaims struct {
	AccountID uuid.UUID `json:"account_id"`
	Email     string    `json:"email"`
	IssuedAt  time.Time `json:"issued_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// TokenSigner issues and verifies signed, time-bound session tokens.
// The signing secret is process-wide configuration loaded once at startup.
type TokenSigner interface {
	Sign(claims AuthClaims) (string, error)
	ParseAndValidate(token string) (AuthClaims, error)
}
