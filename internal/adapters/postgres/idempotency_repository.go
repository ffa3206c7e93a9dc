package postgres

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/amani-patrick/Amnii-WAF/internal/domain"
	"github.com/amani-patrick/Amnii-WAF/internal/ports"
)

type idempotencyRepository struct {
	db *gorm.DB
}

// Get returns the live record for a key. Expired records are treated as
// absent so a stale key can be reused after its retention window.
func (r *idempotencyRepository) Get(ctx context.Context, key string) (*ports.IdempotencyRecord, error) {
	var rec billingIdempotencyModel
	err := r.db.WithContext(ctx).
		Where("idempotency_key = ?", key).
		Where("expires_at > ?", time.Now().UTC()).
		Take(&rec).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	out := ports.IdempotencyRecord{
		Key:          rec.IdempotencyKey,
		RequestHash:  rec.RequestHash,
		Status:       rec.Status,
		ResponseCode: rec.ResponseCode,
		ExpiresAt:    rec.ExpiresAt,
		CreatedAt:    rec.CreatedAt,
		UpdatedAt:    rec.UpdatedAt,
	}
	if rec.ResponseBody != nil {
		out.ResponseBody = []byte(*rec.ResponseBody)
	}
	return &out, nil
}

// Reserve claims a key for one in-flight request. A live row under the same
// key is a conflict; an expired row is reclaimed in place.
func (r *idempotencyRepository) Reserve(ctx context.Context, key, requestHash string, expiresAt time.Time) error {
	rec := billingIdempotencyModel{
		IdempotencyKey: key,
		RequestHash:    requestHash,
		Status:         "PENDING",
		ExpiresAt:      expiresAt,
	}
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "idempotency_key"}},
			Where: clause.Where{Exprs: []clause.Expression{
				clause.Expr{SQL: "billing_idempotency.expires_at <= ?", Vars: []any{time.Now().UTC()}},
			}},
			DoUpdates: clause.Assignments(map[string]any{
				"request_hash":  requestHash,
				"status":        "PENDING",
				"response_code": 0,
				"response_body": nil,
				"expires_at":    expiresAt,
			}),
		}).
		Create(&rec)
	if res.Error != nil {
		if isUniqueViolation(res.Error) {
			return domain.ErrConflict
		}
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrConflict
	}
	return nil
}

func (r *idempotencyRepository) Complete(ctx context.Context, key string, responseCode int, responseBody []byte, at time.Time) error {
	var body *string
	if len(responseBody) > 0 {
		raw := string(responseBody)
		body = &raw
	}
	return r.db.WithContext(ctx).
		Model(&billingIdempotencyModel{}).
		Where("idempotency_key = ?", key).
		Updates(map[string]any{
			"status":        "COMPLETED",
			"response_code": responseCode,
			"response_body": body,
			"updated_at":    at,
		}).Error
}
