package auth

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// PasswordService hashes and verifies credentials with bcrypt. The salt is
// embedded in the produced hash, so equal inputs yield different hashes.
type PasswordService struct {
	cost int
}

func NewPasswordService(cost int) *PasswordService {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return &PasswordService{cost: cost}
}

// Hash returns the one-way transform of plaintext. Empty input is rejected
// by caller-level validation, not here.
func (s *PasswordService) Hash(plaintext string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(plaintext), s.cost)
	if err != nil {
		return "", fmt.Errorf("error hashing password: %w", err)
	}
	return string(h), nil
}

// Verify reports whether plaintext matches the stored hash. A mismatch is
// (false, nil); an error is returned only when the stored hash itself is
// structurally invalid.
func (s *PasswordService) Verify(plaintext, hash string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return false, nil
	}
	return false, fmt.Errorf("invalid password hash: %w", err)
}
