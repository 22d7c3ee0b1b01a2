// Package token generates the random secrets handed out by the API.
package token

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"math/big"
)

const codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// NewResetToken generates a cryptographically random 64-character hex token.
func NewResetToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate reset token: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// NewOTP returns a uniformly random 6-digit code, zero-padded.
func NewOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", fmt.Errorf("generate otp: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

// NewSessionCode returns n characters drawn uniformly from [A-Z0-9].
func NewSessionCode(n int) (string, error) {
	b := make([]byte, n)
	max := big.NewInt(int64(len(codeAlphabet)))
	for i := range b {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("generate session code: %w", err)
		}
		b[i] = codeAlphabet[idx.Int64()]
	}
	return string(b), nil
}
