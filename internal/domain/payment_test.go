package domain_test

import (
	"errors"
	"testing"

	"github.com/amani-patrick/Amnii-WAF/internal/domain"
)

func TestParsePaymentMethodType(t *testing.T) {
	t.Parallel()

	cases := []struct {
		raw  string
		want domain.PaymentMethodType
	}{
		{"card", domain.PaymentMethodCard},
		{"CARD", domain.PaymentMethodCard},
		{" paypal ", domain.PaymentMethodPayPal},
		{"momo", domain.PaymentMethodMoMo},
	}
	for _, tc := range cases {
		got, err := domain.ParsePaymentMethodType(tc.raw)
		if err != nil {
			t.Fatalf("%q: unexpected error: %v", tc.raw, err)
		}
		if got != tc.want {
			t.Fatalf("%q: got %s, want %s", tc.raw, got, tc.want)
		}
	}

	for _, raw := range []string{"", "bitcoin", "wallet1", "bank_transfer"} {
		if _, err := domain.ParsePaymentMethodType(raw); !errors.Is(err, domain.ErrUnsupportedPaymentMethod) {
			t.Fatalf("%q: got %v, want ErrUnsupportedPaymentMethod", raw, err)
		}
	}
}
