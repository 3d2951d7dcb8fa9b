package util

import (
	"crypto/rand"
	"encoding/base32"
	"fmt"
	"io"
)

var encoding = base32.StdEncoding.WithPadding(base32.NoPadding)

// RandBase32 generates a random base32 string of n raw bytes, without padding
func RandBase32(n int) (string, error) {
	b := make([]byte, n)
	if _, err := io.ReadFull(rand.Reader, b); err != nil {
		return "", err
	}
	return encoding.EncodeToString(b), nil
}

// Code generates a random uppercase code of exactly n base32 characters
func Code(n int) (string, error) {
	if n <= 0 {
		return "", fmt.Errorf("code length %d must be positive", n)
	}
	s, err := RandBase32((n*5 + 7) / 8)
	if err != nil {
		return "", err
	}
	return s[:n], nil
}
