package auth

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

const (
	// MinPasswordLength is the shortest accepted password.
	MinPasswordLength = 6
	// maxPasswordBytes is the longest input bcrypt hashes without truncation.
	maxPasswordBytes = 72
)

var (
	ErrPasswordTooShort = errors.New("password must be at least 6 characters")
	ErrPasswordTooLong  = errors.New("password must be at most 72 bytes")
)

// ValidatePassword checks a new password against the length rules.
func ValidatePassword(plain string) error {
	switch {
	case len(plain) < MinPasswordLength:
		return ErrPasswordTooShort
	case len(plain) > maxPasswordBytes:
		return ErrPasswordTooLong
	}
	return nil
}

// HashPassword hashes a new password. A cost outside bcrypt's range falls
// back to bcrypt.DefaultCost.
func HashPassword(password string, cost int) (string, error) {
	if err := ValidatePassword(password); err != nil {
		return "", err
	}
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// ComparePassword verifies a password against its stored hash.
func ComparePassword(hashed, plain string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain))
}
