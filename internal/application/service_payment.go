package application

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"github.com/amani-patrick/Amnii-WAF/internal/domain"
	"github.com/amani-patrick/Amnii-WAF/internal/ports"
)

// Charge validates the requested plan and method, drives one immediate
// gateway charge, and records the outcome in the payment ledger.
//
// Ordering is strict: the gateway call completes (success or definitive
// decline) before any ledger write. Gateway and ledger operations run detached
// from the inbound request's cancellation so an aborted request cannot orphan
// a confirmed charge.
func (s *Service) Charge(ctx context.Context, accountID uuid.UUID, req ChargeRequest) (PaymentView, error) {
	plan, err := s.catalog.Resolve(req.PlanID)
	if err != nil {
		return PaymentView{}, err
	}

	method, err := domain.ParsePaymentMethodType(req.PaymentMethod.Type)
	if err != nil {
		return PaymentView{}, err
	}

	currency := req.Currency
	if currency == "" {
		currency = plan.Currency
	}
	if currency == "" {
		currency = s.cfg.DefaultCurrency
	}

	// The caller's idempotency key doubles as the gateway attempt ID, so a
	// retried request cannot double-charge at the gateway boundary either.
	attemptID := req.IdempotencyKey
	if attemptID == "" {
		attemptID = uuid.NewString()
	}

	if req.IdempotencyKey != "" {
		if view, replayed, err := s.replayCharge(ctx, accountID, req); err != nil {
			return PaymentView{}, err
		} else if replayed {
			return view, nil
		}
	}

	guardKey := fmt.Sprintf("%s:%s:%s", accountID, plan.PlanID, attemptID)
	acquired, err := s.chargeGuard.Acquire(ctx, guardKey, s.cfg.ChargeGuardTTL)
	if err != nil {
		return PaymentView{}, fmt.Errorf("%w: charge guard: %v", domain.ErrPersistenceUnavailable, err)
	}
	if !acquired {
		return PaymentView{}, domain.ErrIdempotencyConflict
	}

	// Detach: the charge must settle and be recorded even if the caller goes away.
	opCtx := context.WithoutCancel(ctx)
	defer func() { _ = s.chargeGuard.Release(opCtx, guardKey) }()

	result, gatewayErr := s.gateway.Charge(opCtx, ports.ChargeParams{
		AttemptID:       attemptID,
		AmountMinor:     plan.PriceMinor,
		Currency:        currency,
		Method:          method,
		InstrumentToken: req.PaymentMethod.Token,
	})

	now := s.nowFn()
	payment := domain.Payment{
		PaymentID:   uuid.New(),
		AccountID:   accountID,
		PlanID:      plan.PlanID,
		AmountMinor: plan.PriceMinor,
		Currency:    currency,
		Method:      method,
		CreatedAt:   now,
	}

	if gatewayErr != nil {
		if errors.Is(gatewayErr, domain.ErrChargeDeclined) {
			// Declines are settled outcomes: persist a failed-status row for audit.
			payment.Status = domain.PaymentStatusFailed
			if createErr := s.payments.Create(opCtx, payment); createErr != nil {
				s.enqueueReconciliation(opCtx, accountID, plan.PlanID, attemptID, "",
					"failed-status ledger write failed: "+createErr.Error())
				return PaymentView{}, domain.ErrPaymentInconsistent
			}
			s.enqueuePaymentEvent(opCtx, "payment.failed", payment, attemptID)
			// Settle the idempotency record too, so a retry under the same key
			// replays the decline instead of conflicting forever.
			if req.IdempotencyKey != "" {
				if body, marshalErr := json.Marshal(toPaymentView(payment)); marshalErr == nil {
					_ = s.idempotency.Complete(opCtx, req.IdempotencyKey, http.StatusInternalServerError, body, s.nowFn())
				}
			}
			return PaymentView{}, domain.ErrPaymentFailed
		}

		// Anything else means the gateway outcome is unknown. Do not guess a
		// ledger status; hand the attempt to reconciliation.
		appLogger().ErrorContext(ctx, "gateway outcome unknown",
			"operation", "charge",
			"outcome", "failure",
			"error_code", "RECONCILIATION_REQUIRED",
			"account_id", accountID,
			"plan_id", plan.PlanID,
			"attempt_id", attemptID,
			"error", gatewayErr,
		)
		s.enqueueReconciliation(opCtx, accountID, plan.PlanID, attemptID, "",
			"gateway outcome unknown: "+gatewayErr.Error())
		return PaymentView{}, domain.ErrPaymentInconsistent
	}

	payment.Status = domain.PaymentStatusSucceeded
	payment.GatewayRef = result.TransactionRef

	if err := s.payments.Create(opCtx, payment); err != nil {
		// Money moved but the ledger write failed. This must never be reported
		// as a plain payment failure.
		appLogger().ErrorContext(ctx, "ledger write failed after confirmed charge",
			"operation", "charge",
			"outcome", "failure",
			"error_code", "RECONCILIATION_REQUIRED",
			"account_id", accountID,
			"plan_id", plan.PlanID,
			"gateway_ref", result.TransactionRef,
			"error", err,
		)
		s.enqueueReconciliation(opCtx, accountID, plan.PlanID, attemptID, result.TransactionRef,
			"ledger write failed after confirmed charge: "+err.Error())
		return PaymentView{}, domain.ErrPaymentInconsistent
	}

	s.enqueuePaymentEvent(opCtx, "payment.succeeded", payment, attemptID)

	view := toPaymentView(payment)
	if req.IdempotencyKey != "" {
		if body, marshalErr := json.Marshal(view); marshalErr == nil {
			_ = s.idempotency.Complete(opCtx, req.IdempotencyKey, http.StatusOK, body, s.nowFn())
		}
	}
	return view, nil
}

// ListPayments returns the account's ledger rows, newest first.
func (s *Service) ListPayments(ctx context.Context, accountID uuid.UUID, limit, offset int) ([]PaymentView, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	payments, err := s.payments.ListByAccount(ctx, accountID, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]PaymentView, 0, len(payments))
	for _, p := range payments {
		out = append(out, toPaymentView(p))
	}
	return out, nil
}

// replayCharge resolves a caller-supplied idempotency key against the durable
// store. A completed record returns the stored response; a pending record or a
// key reuse with a different body is a conflict.
func (s *Service) replayCharge(ctx context.Context, accountID uuid.UUID, req ChargeRequest) (PaymentView, bool, error) {
	requestHash := hashRequest(struct {
		AccountID uuid.UUID
		Request   ChargeRequest
	}{accountID, req})

	record, err := s.idempotency.Get(ctx, req.IdempotencyKey)
	if err != nil {
		return PaymentView{}, false, fmt.Errorf("%w: idempotency lookup: %v", domain.ErrPersistenceUnavailable, err)
	}
	if record != nil {
		if record.RequestHash != requestHash {
			return PaymentView{}, false, fmt.Errorf("%w: key reused with different request", domain.ErrIdempotencyConflict)
		}
		if record.Status != "COMPLETED" {
			return PaymentView{}, false, domain.ErrIdempotencyConflict
		}
		if record.ResponseCode != http.StatusOK {
			// The stored outcome is a settled decline; replay it without a
			// second gateway attempt.
			return PaymentView{}, false, domain.ErrPaymentFailed
		}
		var view PaymentView
		if err := json.Unmarshal(record.ResponseBody, &view); err != nil {
			return PaymentView{}, false, fmt.Errorf("%w: stored response unreadable", domain.ErrIdempotencyConflict)
		}
		return view, true, nil
	}

	if err := s.idempotency.Reserve(ctx, req.IdempotencyKey, requestHash, s.nowFn().Add(s.cfg.IdempotencyTTL)); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return PaymentView{}, false, domain.ErrIdempotencyConflict
		}
		return PaymentView{}, false, fmt.Errorf("%w: idempotency reserve: %v", domain.ErrPersistenceUnavailable, err)
	}
	return PaymentView{}, false, nil
}

func (s *Service) enqueuePaymentEvent(ctx context.Context, eventType string, payment domain.Payment, attemptID string) {
	payload, _ := json.Marshal(map[string]any{
		"payment_id":  payment.PaymentID,
		"account_id":  payment.AccountID,
		"plan_id":     payment.PlanID,
		"amount":      payment.AmountMinor,
		"currency":    payment.Currency,
		"method":      payment.Method,
		"gateway_ref": payment.GatewayRef,
		"status":      payment.Status,
		"attempt_id":  attemptID,
		"occurred_at": payment.CreatedAt,
	})
	if err := s.outbox.Enqueue(ctx, ports.OutboxEvent{
		EventID:      uuid.New(),
		EventType:    eventType,
		PartitionKey: payment.AccountID.String(),
		Payload:      payload,
		OccurredAt:   payment.CreatedAt,
	}); err != nil {
		appLogger().WarnContext(ctx, "outbox enqueue failed",
			"operation", "charge",
			"outcome", "failure",
			"event_type", eventType,
			"payment_id", payment.PaymentID,
			"error", err,
		)
	}
}

// enqueueReconciliation records an attempt whose gateway and ledger states may
// disagree. The event carries everything an operator needs to settle it.
func (s *Service) enqueueReconciliation(ctx context.Context, accountID uuid.UUID, planID, attemptID, gatewayRef, reason string) {
	now := s.nowFn()
	payload, _ := json.Marshal(map[string]any{
		"account_id":  accountID,
		"plan_id":     planID,
		"attempt_id":  attemptID,
		"gateway_ref": gatewayRef,
		"reason":      reason,
		"occurred_at": now,
	})
	if err := s.outbox.Enqueue(ctx, ports.OutboxEvent{
		EventID:      uuid.New(),
		EventType:    "payment.reconciliation_required",
		PartitionKey: accountID.String(),
		Payload:      payload,
		OccurredAt:   now,
	}); err != nil {
		// Last resort: the log line is the only remaining breadcrumb.
		appLogger().ErrorContext(ctx, "reconciliation event enqueue failed",
			"operation", "charge",
			"outcome", "failure",
			"error_code", "RECONCILIATION_REQUIRED",
			"account_id", accountID,
			"plan_id", planID,
			"attempt_id", attemptID,
			"gateway_ref", gatewayRef,
			"reason", reason,
			"error", err,
		)
	}
}
