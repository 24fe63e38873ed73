package auth

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// NewOpaqueToken returns a 64-character hex token for refresh flows.
func NewOpaqueToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate opaque token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
