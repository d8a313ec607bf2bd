package adapter

import (
	"crypto/subtle"

	"github.com/MKhiriev/life-sync/internal/utils"
)

// IntegrityTag returns the hex encoded SHA-256 digest of content.
func IntegrityTag(content []byte) string {
	return utils.ContentHash(content)
}

// verifyIntegrity reports whether content matches the stored tag. Versions
// written without a tag are accepted.
func verifyIntegrity(content []byte, tag string) bool {
	if tag == "" {
		return true
	}
	return subtle.ConstantTimeCompare([]byte(IntegrityTag(content)), []byte(tag)) == 1
}
