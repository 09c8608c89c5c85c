package utils

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"math/big"
	"strings"
)

const tokenCharset = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// GenerateRandomHex returns length hex characters read from crypto/rand
func GenerateRandomHex(length int) (string, error) {
	b := make([]byte, (length+1)/2)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}
	return strings.ToUpper(hex.EncodeToString(b))[:length], nil
}

// GenerateToken returns an uppercase alphanumeric code without look-alike
// characters (0/O, 1/I), suitable for attendance tokens typed by hand
func GenerateToken(length int) (string, error) {
	max := big.NewInt(int64(len(tokenCharset)))
	code := make([]byte, length)
	for i := range code {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("failed to generate token: %w", err)
		}
		code[i] = tokenCharset[n.Int64()]
	}
	return string(code), nil
}

// MaskEmail keeps the first two characters of the local part
func MaskEmail(email string) string {
	local, domain, ok := strings.Cut(email, "@")
	if !ok {
		return email
	}
	if len(local) <= 2 {
		return email
	}
	return local[:2] + strings.Repeat("*", len(local)-2) + "@" + domain
}
