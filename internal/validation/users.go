package validation

import (
	"fmt"
	"net/mail"
	"strings"
)

const (
	maxNameLength  = 255
	maxEmailLength = 255
	// bcrypt only uses the first 72 bytes of a password.
	minPasswordLength = 6
	maxPasswordLength = 72
)

// ValidateName validates a user display name.
func ValidateName(name string) error {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return fmt.Errorf("name cannot be empty")
	}
	if len(trimmed) > maxNameLength {
		return fmt.Errorf("name cannot exceed %d characters", maxNameLength)
	}
	if err := ValidateUnicodeSecurity(trimmed); err != nil {
		return fmt.Errorf("name contains invalid characters: %w", err)
	}
	return nil
}

// ValidateEmail validates an email address.
func ValidateEmail(email string) error {
	if email == "" {
		return fmt.Errorf("email cannot be empty")
	}
	if len(email) > maxEmailLength {
		return fmt.Errorf("email cannot exceed %d characters", maxEmailLength)
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return fmt.Errorf("email is not a valid address")
	}
	return nil
}

// ValidatePassword validates a plaintext password before hashing.
func ValidatePassword(password string) error {
	if len(password) < minPasswordLength {
		return fmt.Errorf("password must be at least %d characters", minPasswordLength)
	}
	if len(password) > maxPasswordLength {
		return fmt.Errorf("password cannot exceed %d characters", maxPasswordLength)
	}
	return nil
}
