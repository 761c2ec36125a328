package gateway

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

const (
	// idempotency keys carry 128 bits of randomness, enough for the
	// provider to deduplicate retried submissions
	idempotencyKeyLength = 16
	// client tokens carry 256 bits of randomness
	clientTokenLength = 32
)

// randomHex generates n bytes of cryptographically strong randomness and
// returns them hex encoded
func randomHex(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}
	return hex.EncodeToString(b), nil
}
