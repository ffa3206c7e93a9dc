package postgres

import (
	"errors"

	"gorm.io/gorm"

	"github.com/amani-patrick/Amnii-WAF/internal/domain"
	"github.com/amani-patrick/Amnii-WAF/internal/ports"
)

type Repositories struct {
	Accounts      ports.AccountRepository
	Payments      ports.PaymentRepository
	LoginAttempts ports.LoginAttemptRepository
	Outbox        ports.OutboxRepository
	Idempotency   ports.IdempotencyRepository
}

func NewRepositories(db *gorm.DB) Repositories {
	return Repositories{
		Accounts:      &accountRepository{db: db},
		Payments:      &paymentRepository{db: db},
		LoginAttempts: &loginAttemptRepository{db: db},
		Outbox:        &outboxRepository{db: db},
		Idempotency:   &idempotencyRepository{db: db},
	}
}

// isUniqueViolation relies on gorm's TranslateError mode so unique-constraint
// races surface as one portable sentinel instead of driver-specific codes.
func isUniqueViolation(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}

func toDomainAccount(m accountModel) domain.Account {
	return domain.Account{
		AccountID:    m.AccountID,
		CompanyName:  m.CompanyName,
		Email:        m.Email,
		PasswordHash: m.PasswordHash,
		CreatedAt:    m.CreatedAt,
	}
}

func toDomainPayment(m paymentModel) domain.Payment {
	return domain.Payment{
		PaymentID:   m.PaymentID,
		AccountID:   m.AccountID,
		PlanID:      m.PlanID,
		AmountMinor: m.AmountMinor,
		Currency:    m.Currency,
		Method:      domain.PaymentMethodType(m.Method),
		GatewayRef:  m.GatewayRef,
		Status:      domain.PaymentStatus(m.Status),
		CreatedAt:   m.CreatedAt,
	}
}
