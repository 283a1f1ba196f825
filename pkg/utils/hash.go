// Package utils holds small helpers shared across packages.
package utils

import (
	"crypto/sha256"
	"encoding/hex"
)

// HashString returns a stable hex digest of the input, used to key cached
// embeddings by question text.
func HashString(input string) string {
	sum := sha256.Sum256([]byte(input))
	return hex.EncodeToString(sum[:])
}
