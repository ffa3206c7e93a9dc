package domain

import "errors"

var (
	// ErrNotFound is returned when the requested resource does not exist.
	// Keeping this sentinel in domain allows adapters to map it consistently to 404.
	ErrNotFound = errors.New("resource not found")
	// ErrInvalidCredentials hides whether email or password failed.
	// The reason is to prevent account-enumeration side channels.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrDuplicateAccount signals registration against an email that already exists.
	ErrDuplicateAccount = errors.New("account already exists")
	// ErrAccountLocked signals temporary lockout after repeated failed logins.
	ErrAccountLocked = errors.New("account locked")
	// ErrUnauthenticated is returned when a protected call carries no usable bearer token.
	ErrUnauthenticated = errors.New("unauthenticated")
	// ErrTokenInvalid covers malformed tokens and bad signatures.
	ErrTokenInvalid = errors.New("token invalid")
	// ErrTokenExpired covers well-signed tokens whose expiry has passed.
	// Kept distinct from ErrTokenInvalid so clients can re-login instead of treating it as forgery.
	ErrTokenExpired = errors.New("token expired")
	ErrInvalidInput = errors.New("invalid input")
	ErrConflict     = errors.New("conflict")

	// ErrInvalidPlan is returned when a charge references a plan the catalog does not know.
	ErrInvalidPlan = errors.New("invalid plan")
	// ErrUnsupportedPaymentMethod rejects method types outside the supported set.
	ErrUnsupportedPaymentMethod = errors.New("unsupported payment method")
	// ErrChargeDeclined marks a definitive gateway refusal: no money moved.
	ErrChargeDeclined = errors.New("charge declined")
	// ErrPaymentFailed is the caller-facing outcome for a declined charge.
	ErrPaymentFailed = errors.New("payment failed")
	// ErrPaymentInconsistent marks attempts whose gateway and ledger states may disagree:
	// unknown gateway outcome, or ledger write failure after a confirmed charge.
	// It must stay distinguishable from ErrPaymentFailed for reconciliation tooling.
	ErrPaymentInconsistent = errors.New("payment state inconsistent")
	// ErrPersistenceUnavailable signals datastore failure on a required read/write.
	ErrPersistenceUnavailable = errors.New("persistence unavailable")
	// ErrIdempotencyConflict rejects a duplicate charge attempt under the same idempotency key.
	ErrIdempotencyConflict = errors.New("idempotency conflict")
)
