package application

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/amani-patrick/Amnii-WAF/internal/domain"
	"github.com/amani-patrick/Amnii-WAF/internal/ports"
)

// enumerationGuardHash is a throwaway bcrypt hash compared against when the
// email is unknown, so login latency does not reveal whether an account exists.
const enumerationGuardHash = "$2a$12$R9h/cIPz0gi.URNNX3kh2OPST9/PgBkqquzi.Ss7KIUgO2t0jWMUW"

// Register creates a tenant account with a hashed secret. Email uniqueness is
// enforced by the account store's unique constraint; a violation surfaces as
// ErrDuplicateAccount without a racy pre-check.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (AccountView, error) {
	email, err := normalizeEmail(req.Email)
	if err != nil {
		return AccountView{}, err
	}
	if req.CompanyName == "" {
		return AccountView{}, fmt.Errorf("%w: company_name is required", domain.ErrInvalidInput)
	}
	if err := domain.ValidatePassword(req.Password); err != nil {
		return AccountView{}, err
	}

	passwordHash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return AccountView{}, fmt.Errorf("hash password: %w", err)
	}

	now := s.nowFn()
	payload, _ := json.Marshal(map[string]any{
		"email":         email,
		"company_name":  req.CompanyName,
		"registered_at": now,
	})

	account, err := s.accounts.CreateWithOutboxTx(ctx, ports.CreateAccountTxParams{
		CompanyName:  req.CompanyName,
		Email:        email,
		PasswordHash: passwordHash,
		RegisteredAt: now,
	}, ports.OutboxEvent{
		EventID:      uuid.New(),
		EventType:    "account.registered",
		PartitionKey: email,
		Payload:      payload,
		OccurredAt:   now,
	})
	if err != nil {
		return AccountView{}, err
	}

	return toAccountView(account), nil
}

// Login verifies credentials and mints a session token. Unknown email and
// wrong password are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, req LoginRequest) (LoginResponse, error) {
	email, err := normalizeEmail(req.Email)
	if err != nil {
		return LoginResponse{}, err
	}
	if req.Password == "" {
		return LoginResponse{}, fmt.Errorf("%w: password is required", domain.ErrInvalidInput)
	}

	lockKey := "login:" + email
	if state, lockErr := s.lockouts.Get(ctx, lockKey); lockErr == nil &&
		state.LockedUntil != nil && state.LockedUntil.After(s.nowFn()) {
		return LoginResponse{}, domain.ErrAccountLocked
	}

	account, err := s.accounts.GetByEmail(ctx, email)
	if err != nil {
		// Burn a comparison anyway so the miss is not observably faster.
		_ = s.hasher.Compare(enumerationGuardHash, req.Password)
		s.recordLoginFailure(ctx, nil, req, "ACCOUNT_NOT_FOUND")
		return LoginResponse{}, domain.ErrInvalidCredentials
	}

	if err := s.hasher.Compare(account.PasswordHash, req.Password); err != nil {
		s.recordLoginFailure(ctx, &account.AccountID, req, "INVALID_PASSWORD")
		_, _ = s.lockouts.RecordFailure(ctx, lockKey, s.nowFn(), s.cfg.FailedLoginThreshold, s.cfg.LockoutDuration)
		return LoginResponse{}, domain.ErrInvalidCredentials
	}

	_ = s.lockouts.Clear(ctx, lockKey)

	now := s.nowFn()
	if err := s.loginAttempts.Insert(ctx, domain.LoginAttempt{
		AccountID: &account.AccountID,
		AttemptAt: now,
		IPAddress: req.IPAddress,
		Status:    "SUCCESS",
		UserAgent: req.UserAgent,
	}); err != nil {
		appLogger().WarnContext(ctx, "login attempt audit write failed",
			"operation", "login",
			"outcome", "success",
			"account_id", account.AccountID,
			"error", err,
		)
	}

	token, err := s.tokenSigner.Sign(ports.AuthClaims{
		AccountID: account.AccountID,
		Email:     account.Email,
		IssuedAt:  now,
		ExpiresAt: now.Add(s.cfg.TokenTTL),
	})
	if err != nil {
		return LoginResponse{}, fmt.Errorf("sign token: %w", err)
	}

	return LoginResponse{
		Token:     token,
		ExpiresIn: int64(s.cfg.TokenTTL.Seconds()),
	}, nil
}

func (s *Service) recordLoginFailure(ctx context.Context, accountID *uuid.UUID, req LoginRequest, reason string) {
	if err := s.loginAttempts.Insert(ctx, domain.LoginAttempt{
		AccountID:     accountID,
		AttemptAt:     s.nowFn(),
		IPAddress:     req.IPAddress,
		Status:        "FAILED",
		FailureReason: reason,
		UserAgent:     req.UserAgent,
	}); err != nil {
		appLogger().WarnContext(ctx, "login attempt audit write failed",
			"operation", "login",
			"outcome", "failure",
			"reason", reason,
			"error", err,
		)
	}
}
