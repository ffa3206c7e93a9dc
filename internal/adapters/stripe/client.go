// Package stripe adapts the Stripe PaymentIntents API to the payment gateway
// port. It is the only package that knows gateway wire details.
package stripe

import (
	"context"
	"errors"
	"fmt"

	stripeapi "github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"

	"github.com/amani-patrick/Amnii-WAF/internal/domain"
	"github.com/amani-patrick/Amnii-WAF/internal/ports"
)

// Client drives immediate-confirmation charges against Stripe.
type Client struct {
	api *client.API
}

// NewClient initializes the Stripe SDK with the configured API key.
func NewClient(secretKey string) (*Client, error) {
	if secretKey == "" {
		return nil, errors.New("stripe secret key is required")
	}
	api := &client.API{}
	api.Init(secretKey, nil)
	return &Client{api: api}, nil
}

// Charge creates and confirms one PaymentIntent. The attempt ID is forwarded
// as the Stripe idempotency key, so a retried attempt settles to the same
// intent instead of charging twice.
func (c *Client) Charge(ctx context.Context, p ports.ChargeParams) (ports.ChargeResult, error) {
	params := &stripeapi.PaymentIntentParams{
		Amount:             stripeapi.Int64(p.AmountMinor),
		Currency:           stripeapi.String(p.Currency),
		PaymentMethodTypes: stripeapi.StringSlice([]string{string(p.Method)}),
		Confirm:            stripeapi.Bool(true),
	}
	params.Context = ctx
	if p.InstrumentToken != "" {
		params.PaymentMethod = stripeapi.String(p.InstrumentToken)
	}
	if p.AttemptID != "" {
		params.SetIdempotencyKey(p.AttemptID)
	}

	intent, err := c.api.PaymentIntents.New(params)
	if err != nil {
		return ports.ChargeResult{}, classify(err)
	}

	// Confirm:true should settle synchronously; anything else is a refusal of
	// the immediate-charge contract, with no follow-up flow in this service.
	if intent.Status != stripeapi.PaymentIntentStatusSucceeded {
		return ports.ChargeResult{}, fmt.Errorf("%w: intent status %s", domain.ErrChargeDeclined, intent.Status)
	}

	return ports.ChargeResult{TransactionRef: intent.ID}, nil
}

// classify splits definitive declines from unknown-outcome failures. Only
// errors Stripe itself returned are definitive; transport errors mean the
// charge may or may not have gone through.
func classify(err error) error {
	var stripeErr *stripeapi.Error
	if errors.As(err, &stripeErr) {
		switch stripeErr.Type {
		case stripeapi.ErrorTypeCard, stripeapi.ErrorTypeInvalidRequest:
			return fmt.Errorf("%w: %s", domain.ErrChargeDeclined, stripeErr.Code)
		}
	}
	return fmt.Errorf("gateway call failed: %w", err)
}
