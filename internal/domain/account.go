package domain

import (
	"time"

	"github.com/google/uuid"
)

// Account is the tenant identity for the WAF dashboard.
// PasswordHash never crosses the HTTP boundary; only the postgres adapter and the
// identity flows in application read it.
type Account struct {
	AccountID    uuid.UUID
	CompanyName  string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

// LoginAttempt records authentication outcomes for audit and lockout controls.
type LoginAttempt struct {
	ID            int64
	AccountID     *uuid.UUID
	AttemptAt     time.Time
	IPAddress     string
	Status        string
	FailureReason string
	UserAgent     string
}
