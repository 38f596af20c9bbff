package auth

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// MaxSecretBytes is the longest secret bcrypt accepts.
const MaxSecretBytes = 72

// ErrSecretTooLong is returned by Hash for secrets over MaxSecretBytes.
var ErrSecretTooLong = errors.New("secret exceeds 72 bytes")

// dummySecret is hashed once per hasher so unknown clients still pay for a compare.
const dummySecret = "statistic-api-dummy-secret"

// SecretHasher hashes and verifies client secrets with bcrypt.
type SecretHasher struct {
	cost      int
	dummyHash []byte
}

// NewSecretHasher builds a hasher for the given cost. Out-of-range costs fall
// back to bcrypt.DefaultCost.
func NewSecretHasher(cost int) (*SecretHasher, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	dummy, err := bcrypt.GenerateFromPassword([]byte(dummySecret), cost)
	if err != nil {
		return nil, err
	}
	return &SecretHasher{cost: cost, dummyHash: dummy}, nil
}

// Hash hashes a plaintext secret with the configured cost.
func (h *SecretHasher) Hash(secret string) (string, error) {
	if len(secret) > MaxSecretBytes {
		return "", ErrSecretTooLong
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(secret), h.cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// Compare reports whether plain matches the stored hash.
func (h *SecretHasher) Compare(hashed, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain)) == nil
}

// CompareDummy burns the same work as Compare and always reports false.
func (h *SecretHasher) CompareDummy(plain string) bool {
	_ = bcrypt.CompareHashAndPassword(h.dummyHash, []byte(plain))
	return false
}
