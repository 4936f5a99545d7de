package utils

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

// TempPasswordBytes is the entropy of generated temporary passwords.
const TempPasswordBytes = 16

// GenerateTempPassword returns a one-time password: 16 bytes of
// cryptographically secure randomness, base64url-encoded without padding.
func GenerateTempPassword() (string, error) {
	buf := make([]byte, TempPasswordBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate random password: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
