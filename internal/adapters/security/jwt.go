package security

import (
	"crypto/rand"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/amani-patrick/Amnii-WAF/internal/domain"
	"github.com/amani-patrick/Amnii-WAF/internal/ports"
)

// JWTSigner implements HS256 session tokens. The secret is process-wide
// configuration loaded once at startup; nothing here is derived per request.
type JWTSigner struct {
	secret []byte
}

// NewJWTSigner builds a signer from the configured secret.
func NewJWTSigner(secret string) (*JWTSigner, error) {
	if len(secret) < 32 {
		return nil, errors.New("token signing secret must be at least 32 bytes")
	}
	return &JWTSigner{secret: []byte(secret)}, nil
}

// NewEphemeralJWTSigner generates an in-memory secret for local/dev runs.
// Tokens do not survive a restart, which is acceptable only there.
func NewEphemeralJWTSigner() (*JWTSigner, error) {
	secret := make([]byte, 32)
	if _, err := rand.Read(secret); err != nil {
		return nil, err
	}
	return &JWTSigner{secret: secret}, nil
}

type sessionClaims struct {
	AccountID string `json:"account_id"`
	Email     string `json:"email"`
	jwt.RegisteredClaims
}

func (s *JWTSigner) Sign(claims ports.AuthClaims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, sessionClaims{
		AccountID: claims.AccountID.String(),
		Email:     claims.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(claims.IssuedAt),
			ExpiresAt: jwt.NewNumericDate(claims.ExpiresAt),
		},
	})
	return token.SignedString(s.secret)
}

func (s *JWTSigner) ParseAndValidate(raw string) (ports.AuthClaims, error) {
	parsed, err := jwt.ParseWithClaims(raw, &sessionClaims{}, func(token *jwt.Token) (any, error) {
		if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, fmt.Errorf("unexpected signing method: %s", token.Method.Alg())
		}
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithLeeway(30*time.Second))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return ports.AuthClaims{}, fmt.Errorf("%w: %v", domain.ErrTokenExpired, err)
		}
		return ports.AuthClaims{}, fmt.Errorf("%w: %v", domain.ErrTokenInvalid, err)
	}

	claims, ok := parsed.Claims.(*sessionClaims)
	if !ok || !parsed.Valid {
		return ports.AuthClaims{}, domain.ErrTokenInvalid
	}
	accountID, err := uuid.Parse(claims.AccountID)
	if err != nil {
		return ports.AuthClaims{}, fmt.Errorf("%w: bad account_id claim", domain.ErrTokenInvalid)
	}
	if claims.IssuedAt == nil || claims.ExpiresAt == nil {
		return ports.AuthClaims{}, fmt.Errorf("%w: missing time claims", domain.ErrTokenInvalid)
	}

	return ports.AuthClaims{
		AccountID: accountID,
		Email:     claims.Email,
		IssuedAt:  claims.IssuedAt.Time.UTC(),
		ExpiresAt: claims.ExpiresAt.Time.UTC(),
	}, nil
}
