package auth

import (
	"golang.org/x/crypto/bcrypt"
)

// MaxPasswordLength is the longest password, in bytes, bcrypt accepts.
const MaxPasswordLength = 72

// ErrPasswordTooLong is returned by Hash for passwords over MaxPasswordLength.
var ErrPasswordTooLong = bcrypt.ErrPasswordTooLong

// PasswordHasher hashes and verifies passwords with bcrypt.
type PasswordHasher struct {
	cost  int
	dummy []byte
}

// NewPasswordHasher returns a hasher using the given bcrypt cost. Costs outside
// bcrypt's accepted range fall back to bcrypt.DefaultCost.
func NewPasswordHasher(cost int) *PasswordHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	// Compared against when the account does not exist, so both login
	// failure paths spend the same time in bcrypt.
	dummy, err := bcrypt.GenerateFromPassword([]byte("taskify-dummy-password"), cost)
	if err != nil {
		panic(err)
	}
	return &PasswordHasher{cost: cost, dummy: dummy}
}

// Hash generates a bcrypt digest of the given password.
func (h *PasswordHasher) Hash(password string) (string, error) {
	if len(password) > MaxPasswordLength {
		return "", ErrPasswordTooLong
	}
	digest, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", err
	}
	return string(digest), nil
}

// Verify checks if the password matches the digest.
func (h *PasswordHasher) Verify(password, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(password)) == nil
}

// VerifyMissing burns the same bcrypt work as Verify and always reports false.
func (h *PasswordHasher) VerifyMissing(password string) bool {
	_ = bcrypt.CompareHashAndPassword(h.dummy, []byte(password))
	return false
}
