package http_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	httpadapter "github.com/amani-patrick/Amnii-WAF/internal/adapters/http"
	"github.com/amani-patrick/Amnii-WAF/internal/application"
	"github.com/amani-patrick/Amnii-WAF/internal/domain"
	"github.com/amani-patrick/Amnii-WAF/internal/ports"
)

func TestAuthGateRejectsMissingHeaderWithoutVerifying(t *testing.T) {
	t.Parallel()

	stub := newStub()
	router := newTestRouter(stub)

	req := httptest.NewRequest(http.MethodGet, "/payments", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status %d, want 401", rec.Code)
	}
	if stub.parseCalls() != 0 {
		t.Fatalf("token verification ran %d times for a missing header, want 0", stub.parseCalls())
	}
}

func TestAuthGateRejectsGarbageToken(t *testing.T) {
	t.Parallel()

	stub := newStub()
	router := newTestRouter(stub)

	req := httptest.NewRequest(http.MethodGet, "/payments", nil)
	req.Header.Set("Authorization", "Bearer not-a-real-token")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status %d, want 401", rec.Code)
	}
	var body map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	if body["message"] == "" {
		t.Fatalf("error body must carry a message")
	}
}

func TestRegisterEndpoint(t *testing.T) {
	t.Parallel()

	stub := newStub()
	router := newTestRouter(stub)

	req := httptest.NewRequest(http.MethodPost, "/register",
		strings.NewReader(`{"company_name":"Acme","email":"a@b.test","password":"pw123"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status %d, want 201, body %s", rec.Code, rec.Body.String())
	}
	var body struct {
		Message string `json:"message"`
		Account struct {
			ID    string `json:"id"`
			Email string `json:"email"`
		} `json:"account"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.Account.Email != "a@b.test" {
		t.Fatalf("account email %q, want a@b.test", body.Account.Email)
	}
	if body.Account.ID == "" || body.Message == "" {
		t.Fatalf("response missing account id or message: %s", rec.Body.String())
	}
}

func TestRegisterRejectsUnknownFields(t *testing.T) {
	t.Parallel()

	stub := newStub()
	router := newTestRouter(stub)

	req := httptest.NewRequest(http.MethodPost, "/register",
		strings.NewReader(`{"company_name":"Acme","email":"a@b.test","password":"pw123","admin":true}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status %d, want 400", rec.Code)
	}
}

func TestRegisterDuplicateEmailReturnsBadRequest(t *testing.T) {
	t.Parallel()

	stub := newStub()
	router := newTestRouter(stub)

	body := `{"company_name":"Acme","email":"dup@b.test","password":"pw123"}`
	first := httptest.NewRecorder()
	router.ServeHTTP(first, httptest.NewRequest(http.MethodPost, "/register", strings.NewReader(body)))
	if first.Code != http.StatusCreated {
		t.Fatalf("first register status %d, want 201", first.Code)
	}

	second := httptest.NewRecorder()
	router.ServeHTTP(second, httptest.NewRequest(http.MethodPost, "/register", strings.NewReader(body)))
	if second.Code != http.StatusBadRequest {
		t.Fatalf("duplicate register status %d, want 400", second.Code)
	}
	var errBody struct {
		Code string `json:"code"`
	}
	if err := json.NewDecoder(second.Body).Decode(&errBody); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if errBody.Code != "DUPLICATE_ACCOUNT" {
		t.Fatalf("error code %q, want DUPLICATE_ACCOUNT", errBody.Code)
	}
}

func TestLoginInvalidCredentials(t *testing.T) {
	t.Parallel()

	stub := newStub()
	router := newTestRouter(stub)

	req := httptest.NewRequest(http.MethodPost, "/login",
		strings.NewReader(`{"email":"ghost@b.test","password":"nope"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status %d, want 401", rec.Code)
	}
	var body struct {
		Code string `json:"code"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.Code != "INVALID_CREDENTIALS" {
		t.Fatalf("error code %q, want INVALID_CREDENTIALS", body.Code)
	}
}

func TestChargeWithBearerToken(t *testing.T) {
	t.Parallel()

	stub := newStub()
	router := newTestRouter(stub)

	// Register then login through the surface to get a real token from the stub signer.
	regReq := httptest.NewRequest(http.MethodPost, "/register",
		strings.NewReader(`{"company_name":"Acme","email":"pay@b.test","password":"pw123"}`))
	regRec := httptest.NewRecorder()
	router.ServeHTTP(regRec, regReq)
	if regRec.Code != http.StatusCreated {
		t.Fatalf("register status %d, body %s", regRec.Code, regRec.Body.String())
	}

	loginReq := httptest.NewRequest(http.MethodPost, "/login",
		strings.NewReader(`{"email":"pay@b.test","password":"pw123"}`))
	loginRec := httptest.NewRecorder()
	router.ServeHTTP(loginRec, loginReq)
	if loginRec.Code != http.StatusOK {
		t.Fatalf("login status %d, body %s", loginRec.Code, loginRec.Body.String())
	}
	var loginBody struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(loginRec.Body).Decode(&loginBody); err != nil {
		t.Fatalf("decode login body: %v", err)
	}
	if loginBody.Token == "" {
		t.Fatalf("login returned no token")
	}

	chargeReq := httptest.NewRequest(http.MethodPost, "/payment",
		strings.NewReader(`{"planId":"pro","paymentMethod":{"type":"card","token":"pm_1"}}`))
	chargeReq.Header.Set("Authorization", "Bearer "+loginBody.Token)
	chargeRec := httptest.NewRecorder()
	router.ServeHTTP(chargeRec, chargeReq)

	if chargeRec.Code != http.StatusOK {
		t.Fatalf("charge status %d, body %s", chargeRec.Code, chargeRec.Body.String())
	}
	var chargeBody struct {
		Message string `json:"message"`
		Payment struct {
			Status string `json:"status"`
			Amount int64  `json:"amount"`
		} `json:"payment"`
	}
	if err := json.NewDecoder(chargeRec.Body).Decode(&chargeBody); err != nil {
		t.Fatalf("decode charge body: %v", err)
	}
	if chargeBody.Payment.Status != "succeeded" {
		t.Fatalf("payment status %q, want succeeded", chargeBody.Payment.Status)
	}
	if chargeBody.Payment.Amount != 9900 {
		t.Fatalf("payment amount %d, want 9900", chargeBody.Payment.Amount)
	}
}

func TestChargeDeclinedSurfacesServerError(t *testing.T) {
	t.Parallel()

	stub := newStub()
	router := newTestRouter(stub)
	stub.failCharges(fmt.Errorf("%w: card_declined", domain.ErrChargeDeclined))

	token := registerAndLogin(t, router, "decline@b.test")

	chargeReq := httptest.NewRequest(http.MethodPost, "/payment",
		strings.NewReader(`{"planId":"pro","paymentMethod":{"type":"card","token":"pm_1"}}`))
	chargeReq.Header.Set("Authorization", "Bearer "+token)
	chargeRec := httptest.NewRecorder()
	router.ServeHTTP(chargeRec, chargeReq)

	if chargeRec.Code != http.StatusInternalServerError {
		t.Fatalf("declined charge status %d, want 500", chargeRec.Code)
	}
	var errBody struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}
	if err := json.NewDecoder(chargeRec.Body).Decode(&errBody); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if errBody.Code != "PAYMENT_FAILED" {
		t.Fatalf("error code %q, want PAYMENT_FAILED", errBody.Code)
	}
	if strings.Contains(errBody.Message, "card_declined") {
		t.Fatalf("gateway internals leaked to the client: %q", errBody.Message)
	}
}

func TestListPlansPublic(t *testing.T) {
	t.Parallel()

	stub := newStub()
	router := newTestRouter(stub)

	req := httptest.NewRequest(http.MethodGet, "/plans", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status %d, want 200", rec.Code)
	}
	var body struct {
		Plans []struct {
			ID string `json:"id"`
		} `json:"plans"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if len(body.Plans) == 0 {
		t.Fatalf("expected at least one plan")
	}
}

// --- test wiring ---

func registerAndLogin(t *testing.T, router http.Handler, email string) string {
	t.Helper()

	regBody := fmt.Sprintf(`{"company_name":"Acme","email":%q,"password":"pw123"}`, email)
	regRec := httptest.NewRecorder()
	router.ServeHTTP(regRec, httptest.NewRequest(http.MethodPost, "/register", strings.NewReader(regBody)))
	if regRec.Code != http.StatusCreated {
		t.Fatalf("register status %d, body %s", regRec.Code, regRec.Body.String())
	}

	loginBody := fmt.Sprintf(`{"email":%q,"password":"pw123"}`, email)
	loginRec := httptest.NewRecorder()
	router.ServeHTTP(loginRec, httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(loginBody)))
	if loginRec.Code != http.StatusOK {
		t.Fatalf("login status %d, body %s", loginRec.Code, loginRec.Body.String())
	}
	var res struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(loginRec.Body).Decode(&res); err != nil {
		t.Fatalf("decode login body: %v", err)
	}
	if res.Token == "" {
		t.Fatalf("login returned no token")
	}
	return res.Token
}

func newTestRouter(stub *stub) http.Handler {
	svc := application.NewService(application.Dependencies{
		Config: application.Config{
			TokenTTL:             time.Hour,
			FailedLoginThreshold: 3,
			LockoutDuration:      30 * time.Minute,
			DefaultCurrency:      "usd",
			IdempotencyTTL:       time.Hour,
			ChargeGuardTTL:       time.Minute,
		},
		Accounts:      stub,
		Payments:      stub,
		LoginAttempts: stub,
		Outbox:        stub,
		Idempotency:   &stubIdempotency{},
		Lockouts:      stub,
		ChargeGuard:   stub,
		Catalog:       stub,
		Gateway:       stub,
		Hasher:        stub,
		TokenSigner:   stub,
	})
	return httpadapter.NewRouter(httpadapter.NewHandler(svc))
}

// stub implements the ports the surface tests exercise, so they can run the
// real application service end to end. Idempotency lives in its own type
// because its Get signature collides with the lockout store's.
type stub struct {
	mu          sync.Mutex
	accounts    map[string]domain.Account
	payments    []domain.Payment
	tokens      map[string]ports.AuthClaims
	parseCount  int
	gatewayRefs int
	chargeErr   error
}

func newStub() *stub {
	return &stub{
		accounts: map[string]domain.Account{},
		tokens:   map[string]ports.AuthClaims{},
	}
}

type stubIdempotency struct{}

func (s *stubIdempotency) Get(context.Context, string) (*ports.IdempotencyRecord, error) {
	return nil, nil
}
func (s *stubIdempotency) Reserve(context.Context, string, string, time.Time) error { return nil }
func (s *stubIdempotency) Complete(context.Context, string, int, []byte, time.Time) error {
	return nil
}

func (s *stub) parseCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.parseCount
}

func (s *stub) CreateWithOutboxTx(_ context.Context, params ports.CreateAccountTxParams, _ ports.OutboxEvent) (domain.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.accounts[params.Email]; exists {
		return domain.Account{}, domain.ErrDuplicateAccount
	}
	account := domain.Account{
		AccountID:    uuid.New(),
		CompanyName:  params.CompanyName,
		Email:        params.Email,
		PasswordHash: params.PasswordHash,
		CreatedAt:    params.RegisteredAt,
	}
	s.accounts[account.Email] = account
	return account, nil
}

func (s *stub) GetByEmail(_ context.Context, email string) (domain.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	account, ok := s.accounts[email]
	if !ok {
		return domain.Account{}, domain.ErrNotFound
	}
	return account, nil
}

func (s *stub) GetByID(_ context.Context, accountID uuid.UUID) (domain.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.accounts {
		if a.AccountID == accountID {
			return a, nil
		}
	}
	return domain.Account{}, domain.ErrNotFound
}

func (s *stub) Create(_ context.Context, payment domain.Payment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.payments = append(s.payments, payment)
	return nil
}

func (s *stub) ListByAccount(_ context.Context, accountID uuid.UUID, _, _ int) ([]domain.Payment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.Payment
	for _, p := range s.payments {
		if p.AccountID == accountID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *stub) Insert(context.Context, domain.LoginAttempt) error { return nil }

func (s *stub) Enqueue(context.Context, ports.OutboxEvent) error { return nil }
func (s *stub) ClaimUnpublished(context.Context, int, string, time.Time) ([]ports.OutboxRecord, error) {
	return nil, nil
}
func (s *stub) MarkPublished(context.Context, uuid.UUID, string, time.Time) error { return nil }
func (s *stub) MarkFailed(context.Context, uuid.UUID, string, string, time.Time) error {
	return nil
}
func (s *stub) MarkDeadLettered(context.Context, uuid.UUID, string, string, time.Time) error {
	return nil
}

func (s *stub) Get(context.Context, string) (ports.LockoutState, error) {
	return ports.LockoutState{}, nil
}
func (s *stub) RecordFailure(context.Context, string, time.Time, int, time.Duration) (ports.LockoutState, error) {
	return ports.LockoutState{}, nil
}
func (s *stub) Clear(context.Context, string) error { return nil }

func (s *stub) Acquire(context.Context, string, time.Duration) (bool, error) { return true, nil }
func (s *stub) Release(context.Context, string) error                        { return nil }

func (s *stub) Resolve(planID string) (domain.Plan, error) {
	for _, p := range s.List() {
		if p.PlanID == planID {
			return p, nil
		}
	}
	return domain.Plan{}, domain.ErrInvalidPlan
}

func (s *stub) List() []domain.Plan {
	return []domain.Plan{
		{PlanID: "starter", Name: "Starter", PriceMinor: 4900, Currency: "usd"},
		{PlanID: "pro", Name: "Pro", PriceMinor: 9900, Currency: "usd"},
	}
}

func (s *stub) failCharges(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.chargeErr = err
}

func (s *stub) Charge(_ context.Context, _ ports.ChargeParams) (ports.ChargeResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.chargeErr != nil {
		return ports.ChargeResult{}, s.chargeErr
	}
	s.gatewayRefs++
	return ports.ChargeResult{TransactionRef: uuid.NewString()}, nil
}

func (s *stub) Hash(password string) (string, error) { return "hash:" + password, nil }
func (s *stub) Compare(hash, password string) error {
	if hash != "hash:"+password {
		return domain.ErrInvalidCredentials
	}
	return nil
}

func (s *stub) Sign(claims ports.AuthClaims) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	token := uuid.NewString()
	s.tokens[token] = claims
	return token, nil
}

func (s *stub) ParseAndValidate(token string) (ports.AuthClaims, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.parseCount++
	claims, ok := s.tokens[token]
	if !ok {
		return ports.AuthClaims{}, domain.ErrTokenInvalid
	}
	return claims, nil
}
