package urlnorm

import (
	"crypto/sha256"
	"encoding/hex"
)

// Hash normalizes raw and returns the SHA-256 hex digest of the result.
// Equivalent URLs share a hash; the digest is always 64 characters.
func Hash(raw string, opts Options) (string, error) {
	normalized, err := Normalize(raw, opts)
	if err != nil {
		return "", err
	}
	return HashNormalized(normalized), nil
}

// HashNormalized hashes a URL that is already in normalized form.
func HashNormalized(normalized string) string {
	sum := sha256.Sum256([]byte(normalized))
	return hex.EncodeToString(sum[:])
}
