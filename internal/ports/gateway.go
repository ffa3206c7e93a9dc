package ports

import (
	"context"

	"github.com/amani-patrick/Amnii-WAF/internal/domain"
)

// ChargeParams is a single immediate-confirmation charge request.
// AttemptID doubles as the gateway-side idempotency key, so a retried attempt
// with the same ID cannot double-charge.
type ChargeParams struct {
	AttemptID       string
	AmountMinor     int64
	Currency        string
	Method          domain.PaymentMethodType
	InstrumentToken string
}

// ChargeResult carries the gateway's transaction reference, stored verbatim
// in the ledger.
type ChargeResult struct {
	TransactionRef string
}

// PaymentGateway is the outbound port to the third-party payment API.
// A definitive refusal surfaces as domain.ErrChargeDeclined; any other error
// means the outcome is unknown and must be treated as inconsistent, not failed.
type PaymentGateway interface {
	Charge(ctx context.Context, params ChargeParams) (ChargeResult, error)
}
