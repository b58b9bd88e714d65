// Package cryptox hashes and verifies local account passwords.
package cryptox

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// bcryptCost matches the cost the rest of our services use.
const bcryptCost = 10

// ErrMismatch is returned by CheckPassword when the password does not match.
var ErrMismatch = errors.New("password mismatch")

// HashPassword returns the bcrypt hash of password.
func HashPassword(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// IsHash reports whether s looks like a bcrypt hash.
func IsHash(s string) bool {
	_, err := bcrypt.Cost([]byte(s))
	return err == nil
}

// CheckPassword compares password against the stored credential.
// Stored values that are not bcrypt hashes (snapshots written before
// hashing was introduced) are compared verbatim.
func CheckPassword(stored, password string) error {
	if stored == "" {
		return ErrMismatch
	}
	if !IsHash(stored) {
		if stored != password {
			return ErrMismatch
		}
		return nil
	}
	err := bcrypt.CompareHashAndPassword([]byte(stored), []byte(password))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return ErrMismatch
	}
	return err
}
