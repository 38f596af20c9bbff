package auth

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// TokenBytes is the amount of randomness in an access token.
const TokenBytes = 32

// TokenGenerator produces new opaque token values.
type TokenGenerator func() (string, error)

// GenerateToken returns TokenBytes of crypto/rand output as lowercase hex.
func GenerateToken() (string, error) {
	buf := make([]byte, TokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
