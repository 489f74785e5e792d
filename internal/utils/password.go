package utils

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// MinPasswordLength applies to staff passwords hashed by the CLI.
const MinPasswordLength = 8

var ErrWeakPassword = fmt.Errorf("password must be at least %d characters", MinPasswordLength)

// HashPassword returns the bcrypt hash stored in STAFF_PASSWORD_HASH.
func HashPassword(password string) (string, error) {
	if len(password) < MinPasswordLength {
		return "", ErrWeakPassword
	}
	b, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(b), err
}

// CheckPassword reports a mismatch, or a missing hash, as an error.
func CheckPassword(hash, password string) error {
	if hash == "" {
		return errors.New("no password hash configured")
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}
