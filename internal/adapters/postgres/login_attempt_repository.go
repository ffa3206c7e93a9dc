package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/amani-patrick/Amnii-WAF/internal/domain"
)

type loginAttemptRepository struct {
	db *gorm.DB
}

func (r *loginAttemptRepository) Insert(ctx context.Context, attempt domain.LoginAttempt) error {
	rec := loginAttemptModel{
		AccountID:     attempt.AccountID,
		AttemptAt:     attempt.AttemptAt,
		Status:        attempt.Status,
		FailureReason: attempt.FailureReason,
		UserAgent:     attempt.UserAgent,
	}
	if attempt.IPAddress != "" {
		ip := attempt.IPAddress
		rec.IPAddress = &ip
	}
	return r.db.WithContext(ctx).Create(&rec).Error
}
