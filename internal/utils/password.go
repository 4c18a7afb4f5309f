package utils

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// MinPasswordLen is the marketplace-wide minimum for account passwords,
// enforced on registration and on password change.
const MinPasswordLen = 8

// bcrypt hashes only the first 72 bytes of its input; anything longer is
// rejected up front instead of being silently truncated.
const maxPasswordBytes = 72

var (
	ErrPasswordTooShort = errors.New("password must be at least 8 characters")
	ErrPasswordTooLong  = errors.New("password must be at most 72 characters")
)

// ValidatePassword checks a plaintext password against the account policy.
// The returned error message is safe to show to the user.
func ValidatePassword(plain string) error {
	if len(plain) < MinPasswordLen {
		return ErrPasswordTooShort
	}
	if len(plain) > maxPasswordBytes {
		return ErrPasswordTooLong
	}
	return nil
}

// HashPassword returns the bcrypt hash of a plaintext password at the given
// cost. Policy checks happen in ValidatePassword before this is called.
func HashPassword(plain string, cost int) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// VerifyPassword reports whether plain matches the stored bcrypt hash.
func VerifyPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
