package utils

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

const (
	oauthStateBytes     = 16
	unusableSecretBytes = 32
)

// RandomHex reads n bytes from crypto/rand and returns them hex encoded.
func RandomHex(n int) (string, error) {
	if n <= 0 {
		return "", fmt.Errorf("random length %d is not positive", n)
	}
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

// NewOAuthState returns the value round-tripped through Google's consent screen.
func NewOAuthState() (string, error) {
	return RandomHex(oauthStateBytes)
}

// NewUnusableSecret is the credential stored for identities that only sign in with Google.
// It fits under bcrypt's input limit.
func NewUnusableSecret() (string, error) {
	return RandomHex(unusableSecretBytes)
}
