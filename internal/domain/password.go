package domain

import "fmt"

// bcrypt rejects inputs longer than 72 bytes, so the cap is enforced here
// rather than surfacing a hasher error as a 500.
const maxPasswordLength = 72

// ValidatePassword enforces the registration password policy.
func ValidatePassword(password string) error {
	if password == "" {
		return fmt.Errorf("%w: password is required", ErrInvalidInput)
	}
	if len(password) > maxPasswordLength {
		return fmt.Errorf("%w: password must be <= %d bytes", ErrInvalidInput, maxPasswordLength)
	}
	return nil
}
