package auth

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"unicode"

	"golang.org/x/crypto/bcrypt"
)

const (
	minPasswordLength = 8
	// bcrypt ignores everything past 72 bytes.
	maxPasswordBytes = 72
)

// ValidatePassword enforces the strength rules: at least 8 characters, at
// least one digit, one uppercase and one lowercase letter. The returned error
// wraps ErrWeakPassword and names every failed rule.
func ValidatePassword(password string) error {
	var hasDigit, hasUpper, hasLower bool
	for _, r := range password {
		switch {
		case unicode.IsDigit(r):
			hasDigit = true
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		}
	}

	var failed []string
	if len([]rune(password)) < minPasswordLength {
		failed = append(failed, fmt.Sprintf("at least %d characters", minPasswordLength))
	}
	if len(password) > maxPasswordBytes {
		failed = append(failed, fmt.Sprintf("at most %d bytes", maxPasswordBytes))
	}
	if !hasDigit {
		failed = append(failed, "a digit")
	}
	if !hasUpper {
		failed = append(failed, "an uppercase letter")
	}
	if !hasLower {
		failed = append(failed, "a lowercase letter")
	}
	if len(failed) > 0 {
		return fmt.Errorf("%w: password must contain %s", ErrWeakPassword, strings.Join(failed, ", "))
	}
	return nil
}

// HashPassword returns a salted bcrypt hash.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword returns ErrInvalidCredentials on mismatch.
func CheckPassword(hash, password string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return ErrInvalidCredentials
		}
		return fmt.Errorf("compare password: %w", err)
	}
	return nil
}

var dummyHash = sync.OnceValue(func() string {
	hash, _ := HashPassword("Dummy-password-0")
	return hash
})

// CheckMissingUser burns the same bcrypt work as CheckPassword so that an
// unknown nickname takes as long to reject as a wrong password.
func CheckMissingUser(password string) error {
	_ = bcrypt.CompareHashAndPassword([]byte(dummyHash()), []byte(password))
	return ErrInvalidCredentials
}
