package utils

import (
	"crypto/sha256"
	"encoding/hex"
)

// ContentHash returns the hex encoded SHA-256 digest of data.
//
// Used as the integrity tag of remote module versions and to recognise
// module files that were rewritten with unchanged content.
//
// Example usage:
//
//	tag := utils.ContentHash([]byte(`{"steps":1200}`))
func ContentHash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
