// Package authutil provides password hashing and validation helpers.
package authutil

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// MinPasswordLength is the minimum accepted password length.
const MinPasswordLength = 8

// HashPassword returns the bcrypt hash of a plaintext password.
func HashPassword(plain string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// CheckPassword reports whether plain matches the stored bcrypt hash.
func CheckPassword(plain, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

// ValidatePassword enforces the password policy for new passwords.
func ValidatePassword(plain string) error {
	if len(plain) < MinPasswordLength {
		return errors.New("password must be at least 8 characters")
	}
	return nil
}

// PasswordRules describes the password policy for client display.
func PasswordRules() string {
	return "Passwords must be at least 8 characters long."
}
