package utils

import (
	"errors"
	"unicode"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrPasswordTooShort = errors.New("password must be at least 8 characters")
	ErrPasswordNoDigit  = errors.New("password must contain at least one digit")
	ErrPasswordNoUpper  = errors.New("password must contain at least one uppercase letter")
	ErrPasswordMismatch = errors.New("passwords do not match")
)

// HashPassword hashes a password with bcrypt at the default cost.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyPassword reports whether password matches the stored bcrypt hash.
func VerifyPassword(password, hashedPassword string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password)) == nil
}

// ValidatePassword enforces the registration password policy: at least
// 8 characters, one digit, one uppercase letter, and a matching
// confirmation.
func ValidatePassword(password, confirmation string) error {
	if len(password) < 8 {
		return ErrPasswordTooShort
	}
	var hasDigit, hasUpper bool
	for _, r := range password {
		switch {
		case unicode.IsDigit(r):
			hasDigit = true
		case unicode.IsUpper(r):
			hasUpper = true
		}
	}
	if !hasDigit {
		return ErrPasswordNoDigit
	}
	if !hasUpper {
		return ErrPasswordNoUpper
	}
	if password != confirmation {
		return ErrPasswordMismatch
	}
	return nil
}
