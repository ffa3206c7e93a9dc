package security

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/amani-patrick/Amnii-WAF/internal/domain"
)

// bcrypt truncates anything past 72 bytes, so longer inputs are rejected
// instead of silently hashing a prefix.
const maxPasswordBytes = 72

const defaultHashCost = 12

// BcryptHasher hashes account passwords for the credential store. The same
// instance backs the login dummy compare, so hash and compare cost stay
// symmetric and failed logins take as long as real ones.
type BcryptHasher struct {
	cost int
}

// NewBcryptHasher builds a hasher at the given cost. Out-of-range costs fall
// back to the service default rather than erroring at wire-up time.
func NewBcryptHasher(cost int) *BcryptHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = defaultHashCost
	}
	return &BcryptHasher{cost: cost}
}

func (h *BcryptHasher) Hash(password string) (string, error) {
	if len(password) > maxPasswordBytes {
		return "", fmt.Errorf("%w: password exceeds %d bytes", domain.ErrInvalidInput, maxPasswordBytes)
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", fmt.Errorf("bcrypt hash: %w", err)
	}
	return string(hashed), nil
}

func (h *BcryptHasher) Compare(hash, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}
