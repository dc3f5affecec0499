package auth

import (
	"unicode"

	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 8

// ValidatePassword checks the password policy. Rules run in a fixed order and
// the first failure wins: length, lowercase, uppercase, digit. A nil return
// means the password satisfies every rule. Pure function; no length cap here.
func ValidatePassword(password string) error {
	if len(password) < minPasswordLength {
		return &ValidationError{Message: "password must be at least 8 characters"}
	}
	if !containsClass(password, unicode.IsLower) {
		return &ValidationError{Message: "password must have a lowercase letter"}
	}
	if !containsClass(password, unicode.IsUpper) {
		return &ValidationError{Message: "password must have an uppercase letter"}
	}
	if !containsClass(password, unicode.IsDigit) {
		return &ValidationError{Message: "password must have a number"}
	}
	return nil
}

func containsClass(s string, in func(rune) bool) bool {
	for _, r := range s {
		if in(r) {
			return true
		}
	}
	return false
}

// PasswordHasher performs salted, adaptive password hashing with a bounded
// number of concurrent operations. bcrypt is deliberately CPU-expensive; the
// semaphore keeps a burst of login attempts from starving other request
// handling.
type PasswordHasher struct {
	cost int
	sem  chan struct{}
}

// NewPasswordHasher constructs a hasher with the given work factor and
// concurrency bound. Out-of-range costs fall back to bcrypt defaults.
func NewPasswordHasher(cost, workers int) *PasswordHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	if workers < 1 {
		workers = 1
	}
	return &PasswordHasher{
		cost: cost,
		sem:  make(chan struct{}, workers),
	}
}

// Hash returns a salted bcrypt hash of plaintext. Each call draws a fresh
// random salt, so two hashes of the same plaintext never compare equal.
func (h *PasswordHasher) Hash(plaintext string) (string, error) {
	h.sem <- struct{}{}
	defer func() { <-h.sem }()

	hashed, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// Verify recomputes the hash using the salt and cost embedded in hash and
// compares in constant time. Hashes produced under an older work factor keep
// verifying after a cost change.
func (h *PasswordHasher) Verify(plaintext, hash string) bool {
	h.sem <- struct{}{}
	defer func() { <-h.sem }()

	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)) == nil
}
