package security_test

import (
	"errors"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/amani-patrick/Amnii-WAF/internal/adapters/security"
	"github.com/amani-patrick/Amnii-WAF/internal/domain"
)

func TestBcryptHashAndCompare(t *testing.T) {
	t.Parallel()

	hasher := security.NewBcryptHasher(4)
	hash, err := hasher.Hash("pw123")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if hash == "pw123" {
		t.Fatalf("hash must not equal the plaintext")
	}

	if err := hasher.Compare(hash, "pw123"); err != nil {
		t.Fatalf("compare with correct password: %v", err)
	}
	if err := hasher.Compare(hash, "wrong"); err == nil {
		t.Fatalf("compare with wrong password should fail")
	}
}

func TestBcryptRejectsOverlongPassword(t *testing.T) {
	t.Parallel()

	hasher := security.NewBcryptHasher(4)
	if _, err := hasher.Hash(strings.Repeat("x", 73)); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("73-byte password got %v, want ErrInvalidInput", err)
	}
	if _, err := hasher.Hash(strings.Repeat("x", 72)); err != nil {
		t.Fatalf("72-byte password should hash: %v", err)
	}
}

func TestBcryptCostOutOfRangeFallsBack(t *testing.T) {
	t.Parallel()

	hasher := security.NewBcryptHasher(bcrypt.MaxCost + 1)
	hash, err := hasher.Hash("pw123")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	cost, err := bcrypt.Cost([]byte(hash))
	if err != nil {
		t.Fatalf("read cost: %v", err)
	}
	if cost != 12 {
		t.Fatalf("cost %d, want the 12 fallback", cost)
	}
}
