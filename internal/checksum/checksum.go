// Package checksum computes the content hashes used for duplicate detection.
package checksum

import (
	"crypto/sha256"
	"encoding/hex"
)

// Sum returns the hex-encoded SHA-256 digest of data.
func Sum(data []byte) string {
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:])
}

// Text returns the digest of the UTF-8 bytes of s. Callers hash
// normalized text so the same capture always produces the same key.
func Text(s string) string {
	return Sum([]byte(s))
}
