package postgres

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/amani-patrick/Amnii-WAF/internal/domain"
	"github.com/amani-patrick/Amnii-WAF/internal/ports"
)

type accountRepository struct {
	db *gorm.DB
}

// CreateWithOutboxTx writes the account row and its registration event in one
// transaction. The email unique constraint makes check-then-insert races
// impossible; a violation maps to ErrDuplicateAccount.
func (r *accountRepository) CreateWithOutboxTx(ctx context.Context, params ports.CreateAccountTxParams, outboxEvent ports.OutboxEvent) (domain.Account, error) {
	var result domain.Account
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		rec := accountModel{
			CompanyName:  params.CompanyName,
			Email:        params.Email,
			PasswordHash: params.PasswordHash,
			CreatedAt:    params.RegisteredAt,
		}
		if err := tx.Create(&rec).Error; err != nil {
			if isUniqueViolation(err) {
				return domain.ErrDuplicateAccount
			}
			return err
		}

		payload := outboxEvent.Payload
		if len(payload) == 0 {
			payload = []byte(`{}`)
		}
		var payloadObj map[string]any
		if err := json.Unmarshal(payload, &payloadObj); err == nil {
			payloadObj["account_id"] = rec.AccountID.String()
			if adjusted, mErr := json.Marshal(payloadObj); mErr == nil {
				payload = adjusted
			}
		}

		outbox := billingOutboxModel{
			OutboxID:     outboxEvent.EventID,
			EventType:    outboxEvent.EventType,
			PartitionKey: rec.AccountID.String(),
			Payload:      string(payload),
			CreatedAt:    outboxEvent.OccurredAt,
			FirstSeenAt:  outboxEvent.OccurredAt,
		}
		if err := tx.Create(&outbox).Error; err != nil {
			return err
		}

		result = toDomainAccount(rec)
		return nil
	})
	if err != nil {
		return domain.Account{}, err
	}
	return result, nil
}

func (r *accountRepository) GetByEmail(ctx context.Context, email string) (domain.Account, error) {
	var rec accountModel
	if err := r.db.WithContext(ctx).Where("email = ?", email).Take(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Account{}, domain.ErrNotFound
		}
		return domain.Account{}, err
	}
	return toDomainAccount(rec), nil
}

func (r *accountRepository) GetByID(ctx context.Context, accountID uuid.UUID) (domain.Account, error) {
	var rec accountModel
	if err := r.db.WithContext(ctx).Where("account_id = ?", accountID).Take(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Account{}, domain.ErrNotFound
		}
		return domain.Account{}, err
	}
	return toDomainAccount(rec), nil
}
