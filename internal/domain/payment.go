package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusSucceeded PaymentStatus = "succeeded"
	PaymentStatusFailed    PaymentStatus = "failed"
)

// PaymentMethodType is the closed set of supported instruments. Unknown types
// are rejected before any gateway traffic.
type PaymentMethodType string

const (
	PaymentMethodCard   PaymentMethodType = "card"
	PaymentMethodPayPal PaymentMethodType = "paypal"
	PaymentMethodMoMo   PaymentMethodType = "momo"
)

// ParsePaymentMethodType validates a raw method type against the closed set.
func ParsePaymentMethodType(raw string) (PaymentMethodType, error) {
	switch PaymentMethodType(strings.ToLower(strings.TrimSpace(raw))) {
	case PaymentMethodCard:
		return PaymentMethodCard, nil
	case PaymentMethodPayPal:
		return PaymentMethodPayPal, nil
	case PaymentMethodMoMo:
		return PaymentMethodMoMo, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedPaymentMethod, raw)
	}
}

// PaymentMethod is the caller-supplied instrument selector. Instrument details
// are opaque to the core and forwarded to the gateway as-is.
type PaymentMethod struct {
	Type            PaymentMethodType
	InstrumentToken string
	Details         map[string]string
}

// Payment is one ledger row per settled charge attempt. Rows are insert-only:
// a succeeded row means the gateway confirmed the charge, a failed row means
// the gateway definitively declined it.
type Payment struct {
	PaymentID   uuid.UUID
	AccountID   uuid.UUID
	PlanID      string
	AmountMinor int64
	Currency    string
	Method      PaymentMethodType
	GatewayRef  string
	Status      PaymentStatus
	CreatedAt   time.Time
}
