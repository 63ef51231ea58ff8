package auth

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// GenerateState produces the random value bound to one OAuth round trip via
// the state cookie.
func GenerateState() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate state: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
