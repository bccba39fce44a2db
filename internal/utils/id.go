package utils

import (
	"crypto/rand"
	"encoding/hex"
)

// RandomSuffix returns n random bytes hex-encoded, used to de-duplicate
// generated filenames. Hex keeps the result safe for any filesystem.
func RandomSuffix(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
