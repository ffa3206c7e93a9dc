package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/amani-patrick/Amnii-WAF/internal/domain"
)

type paymentRepository struct {
	db *gorm.DB
}

func (r *paymentRepository) Create(ctx context.Context, payment domain.Payment) error {
	rec := paymentModel{
		PaymentID:   payment.PaymentID,
		AccountID:   payment.AccountID,
		PlanID:      payment.PlanID,
		AmountMinor: payment.AmountMinor,
		Currency:    payment.Currency,
		Method:      string(payment.Method),
		GatewayRef:  payment.GatewayRef,
		Status:      string(payment.Status),
		CreatedAt:   payment.CreatedAt,
	}
	if err := r.db.WithContext(ctx).Create(&rec).Error; err != nil {
		if isUniqueViolation(err) {
			return domain.ErrConflict
		}
		return fmt.Errorf("%w: insert payment: %v", domain.ErrPersistenceUnavailable, err)
	}
	return nil
}

func (r *paymentRepository) ListByAccount(ctx context.Context, accountID uuid.UUID, limit, offset int) ([]domain.Payment, error) {
	var recs []paymentModel
	err := r.db.WithContext(ctx).
		Where("account_id = ?", accountID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&recs).Error
	if err != nil {
		return nil, fmt.Errorf("%w: list payments: %v", domain.ErrPersistenceUnavailable, err)
	}
	out := make([]domain.Payment, 0, len(recs))
	for _, rec := range recs {
		out = append(out, toDomainPayment(rec))
	}
	return out, nil
}
