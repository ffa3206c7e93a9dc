package application

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"time"

	"github.com/amani-patrick/Amnii-WAF/internal/domain"
	"github.com/amani-patrick/Amnii-WAF/internal/ports"
)

// Service holds the identity and payment use-cases behind the HTTP/gRPC
// adapters. It keeps no per-request state; everything mutable lives behind
// the injected ports.
type Service struct {
	cfg           Config
	accounts      ports.AccountRepository
	payments      ports.PaymentRepository
	loginAttempts ports.LoginAttemptRepository
	outbox        ports.OutboxRepository
	idempotency   ports.IdempotencyRepository
	lockouts      ports.LockoutStore
	chargeGuard   ports.ChargeGuard
	catalog       ports.PlanCatalog
	gateway       ports.PaymentGateway
	hasher        ports.PasswordHasher
	tokenSigner   ports.TokenSigner
	nowFn         func() time.Time
}

type Dependencies struct {
	Config        Config
	Accounts      ports.AccountRepository
	Payments      ports.PaymentRepository
	LoginAttempts ports.LoginAttemptRepository
	Outbox        ports.OutboxRepository
	Idempotency   ports.IdempotencyRepository
	Lockouts      ports.LockoutStore
	ChargeGuard   ports.ChargeGuard
	Catalog       ports.PlanCatalog
	Gateway       ports.PaymentGateway
	Hasher        ports.PasswordHasher
	TokenSigner   ports.TokenSigner
}

func NewService(deps Dependencies) *Service {
	return &Service{
		cfg:           deps.Config,
		accounts:      deps.Accounts,
		payments:      deps.Payments,
		loginAttempts: deps.LoginAttempts,
		outbox:        deps.Outbox,
		idempotency:   deps.Idempotency,
		lockouts:      deps.Lockouts,
		chargeGuard:   deps.ChargeGuard,
		catalog:       deps.Catalog,
		gateway:       deps.Gateway,
		hasher:        deps.Hasher,
		tokenSigner:   deps.TokenSigner,
		nowFn:         func() time.Time { return time.Now().UTC() },
	}
}

// ValidateToken verifies a bearer token and returns its claims. The signer
// splits expiry from every other verification failure so callers can tell a
// stale session from a forged token.
func (s *Service) ValidateToken(_ context.Context, raw string) (ports.AuthClaims, error) {
	claims, err := s.tokenSigner.ParseAndValidate(raw)
	if err != nil {
		if errors.Is(err, domain.ErrTokenExpired) {
			return ports.AuthClaims{}, domain.ErrTokenExpired
		}
		return ports.AuthClaims{}, domain.ErrTokenInvalid
	}
	return claims, nil
}

// ListPlans exposes the read-only catalog for the dashboard pricing page.
func (s *Service) ListPlans(_ context.Context) []PlanView {
	plans := s.catalog.List()
	out := make([]PlanView, 0, len(plans))
	for _, p := range plans {
		out = append(out, toPlanView(p))
	}
	return out
}

func appLogger() *slog.Logger {
	return slog.Default().With(
		"service", serviceName,
		"module", "application",
		"layer", "application",
	)
}

const serviceName = "amnii-waf-billing"

// normalizeEmail canonicalizes and validates email format before persistence/comparison.
func normalizeEmail(email string) (string, error) {
	trimmed := strings.ToLower(strings.TrimSpace(email))
	if trimmed == "" {
		return "", fmt.Errorf("%w: email is required", domain.ErrInvalidInput)
	}
	if _, err := mail.ParseAddress(trimmed); err != nil {
		return "", fmt.Errorf("%w: invalid email", domain.ErrInvalidInput)
	}
	return trimmed, nil
}

// hashRequest fingerprints a request payload so idempotency replays can detect
// a reused key with a different body.
func hashRequest(v any) string {
	raw, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:])
}
