package auth

import (
	"golang.org/x/crypto/bcrypt"
)

// BcryptCost is the adaptive cost used for new hashes
const BcryptCost = 12

// MinPasswordLength applies to every password a user or admin sets
const MinPasswordLength = 6

// PasswordHasher hashes with a configurable cost; tests use bcrypt.MinCost
type PasswordHasher struct {
	Cost int
}

// DefaultHasher uses BcryptCost
var DefaultHasher = PasswordHasher{Cost: BcryptCost}

// Hash returns the bcrypt hash of password
func (h PasswordHasher) Hash(password string) (string, error) {
	cost := h.Cost
	if cost == 0 {
		cost = BcryptCost
	}
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

// Verify compares password against hash
func (h PasswordHasher) Verify(password, hash string) bool {
	return CheckPassword(hash, password)
}

// HashPassword hashes with the default cost
func HashPassword(password string) (string, error) {
	return DefaultHasher.Hash(password)
}

// CheckPassword verifies a password against its hash
func CheckPassword(hashedPassword, password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
	return err == nil
}
