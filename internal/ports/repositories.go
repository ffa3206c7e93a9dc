package ports

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/amani-patrick/Amnii-WAF/internal/domain"
)

// CreateAccountTxParams captures atomic account-creation inputs.
// Email uniqueness is enforced by the storage layer (unique constraint), so
// concurrent registrations cannot race a check-then-insert.
type CreateAccountTxParams struct {
	CompanyName  string
	Email        string
	PasswordHash string
	RegisteredAt time.Time
}

// AccountRepository defines persistence operations for tenant identities.
// The transactional create method exists to enforce account+outbox consistency.
type AccountRepository interface {
	CreateWithOutboxTx(ctx context.Context, params CreateAccountTxParams, outboxEvent OutboxEvent) (domain.Account, error)
	GetByEmail(ctx context.Context, email string) (domain.Account, error)
	GetByID(ctx context.Context, accountID uuid.UUID) (domain.Account, error)
}

// PaymentRepository is the durable payment ledger. Rows are insert-only in
// this service; refunds and voids are out of scope.
type PaymentRepository interface {
	Create(ctx context.Context, payment domain.Payment) error
	ListByAccount(ctx context.Context, accountID uuid.UUID, limit, offset int) ([]domain.Payment, error)
}

// LoginAttemptRepository stores login outcomes used by audit and lockout controls.
type LoginAttemptRepository interface {
	Insert(ctx context.Context, attempt domain.LoginAttempt) error
}

// OutboxEvent is the write-side event payload prior to storage.
// It is adapter-neutral to keep application code independent of broker specifics.
type OutboxEvent struct {
	EventID      uuid.UUID
	EventType    string
	PartitionKey string
	Payload      []byte
	OccurredAt   time.Time
}

// OutboxRecord represents durable outbox state, including retry/error metadata.
type OutboxRecord struct {
	OutboxID       uuid.UUID
	EventType      string
	PartitionKey   string
	Payload        []byte
	RetryCount     int
	LastError      *string
	CreatedAt      time.Time
	PublishedAt    *time.Time
	LastErrorAt    *time.Time
	ClaimToken     *string
	ClaimUntil     *time.Time
	DeadLetteredAt *time.Time
}

// OutboxRepository controls the publish-retry workflow for domain events.
// Payment reconciliation depends on this: an attempt whose gateway and ledger
// states disagree is enqueued here and never silently dropped.
type OutboxRepository interface {
	Enqueue(ctx context.Context, event OutboxEvent) error
	ClaimUnpublished(ctx context.Context, limit int, claimToken string, claimUntil time.Time) ([]OutboxRecord, error)
	MarkPublished(ctx context.Context, outboxID uuid.UUID, claimToken string, at time.Time) error
	MarkFailed(ctx context.Context, outboxID uuid.UUID, claimToken, errMsg string, at time.Time) error
	MarkDeadLettered(ctx context.Context, outboxID uuid.UUID, claimToken, errMsg string, at time.Time) error
}

// IdempotencyRecord tracks a previously accepted mutating request.
// Storing response metadata lets handlers return stable replay responses.
type IdempotencyRecord struct {
	Key          string
	RequestHash  string
	Status       string
	ResponseCode int
	ResponseBody []byte
	ExpiresAt    time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IdempotencyRepository enforces idempotent mutation semantics for charges.
type IdempotencyRepository interface {
	Get(ctx context.Context, key string) (*IdempotencyRecord, error)
	Reserve(ctx context.Context, key, requestHash string, expiresAt time.Time) error
	Complete(ctx context.Context, key string, responseCode int, responseBody []byte, at time.Time) error
}
