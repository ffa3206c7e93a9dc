package application

import (
	"time"

	"github.com/google/uuid"

	"github.com/amani-patrick/Amnii-WAF/internal/domain"
)

type Config struct {
	TokenTTL             time.Duration
	FailedLoginThreshold int
	LockoutDuration      time.Duration
	DefaultCurrency      string
	IdempotencyTTL       time.Duration
	ChargeGuardTTL       time.Duration
}

type RegisterRequest struct {
	CompanyName string `json:"company_name"`
	Email       string `json:"email"`
	Password    string `json:"password"`

	IPAddress string `json:"-"`
}

// AccountView is the public projection of an account. The password hash never
// appears here.
type AccountView struct {
	AccountID   uuid.UUID `json:"id"`
	CompanyName string    `json:"company_name"`
	Email       string    `json:"email"`
	CreatedAt   time.Time `json:"created_at"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`

	IPAddress string `json:"-"`
	UserAgent string `json:"-"`
}

type LoginResponse struct {
	Token     string `json:"token"`
	ExpiresIn int64  `json:"expires_in"`
}

// PaymentMethodInput selects the instrument for a charge. Token and Details
// are opaque to this service and forwarded to the gateway unchanged.
type PaymentMethodInput struct {
	Type    string            `json:"type"`
	Token   string            `json:"token,omitempty"`
	Details map[string]string `json:"details,omitempty"`
}

type ChargeRequest struct {
	PlanID        string             `json:"planId"`
	Currency      string             `json:"currency"`
	PaymentMethod PaymentMethodInput `json:"paymentMethod"`

	IdempotencyKey string `json:"-"`
}

type PaymentView struct {
	PaymentID  uuid.UUID            `json:"id"`
	AccountID  uuid.UUID            `json:"account_id"`
	PlanID     string               `json:"plan_id"`
	Amount     int64                `json:"amount"`
	Currency   string               `json:"currency"`
	Method     string               `json:"payment_method"`
	GatewayRef string               `json:"gateway_ref,omitempty"`
	Status     domain.PaymentStatus `json:"status"`
	CreatedAt  time.Time            `json:"created_at"`
}

type PlanView struct {
	PlanID   string `json:"id"`
	Name     string `json:"name"`
	Price    int64  `json:"price"`
	Currency string `json:"currency"`
}

func toAccountView(a domain.Account) AccountView {
	return AccountView{
		AccountID:   a.AccountID,
		CompanyName: a.CompanyName,
		Email:       a.Email,
		CreatedAt:   a.CreatedAt,
	}
}

func toPaymentView(p domain.Payment) PaymentView {
	return PaymentView{
		PaymentID:  p.PaymentID,
		AccountID:  p.AccountID,
		PlanID:     p.PlanID,
		Amount:     p.AmountMinor,
		Currency:   p.Currency,
		Method:     string(p.Method),
		GatewayRef: p.GatewayRef,
		Status:     p.Status,
		CreatedAt:  p.CreatedAt,
	}
}

func toPlanView(p domain.Plan) PlanView {
	return PlanView{
		PlanID:   p.PlanID,
		Name:     p.Name,
		Price:    p.PriceMinor,
		Currency: p.Currency,
	}
}
