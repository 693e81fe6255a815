package utils

import (
	"crypto/sha256"
	"encoding/hex"
)

// HashPhone returns a short SHA-256 digest of a phone number so log lines
// can correlate a claimant without exposing the raw number.
func HashPhone(phone string) string {
	h := sha256.New()
	h.Write([]byte(phone))

	return hex.EncodeToString(h.Sum(nil))[:8]
}
