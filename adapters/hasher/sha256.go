package hasher

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/satriahrh/nova-ai/domain"
)

const fingerprintLength = 12

// New returns a domain.Fingerprinter backed by SHA‑256.
func New() domain.Fingerprinter { return sha256Fingerprinter{} }

type sha256Fingerprinter struct{}

// Fingerprint returns the first hex characters of the secret's SHA-256 sum.
// An empty secret yields an empty fingerprint.
func (sha256Fingerprinter) Fingerprint(secret string) string {
	if secret == "" {
		return ""
	}
	sum := sha256.Sum256([]byte(secret))
	return hex.EncodeToString(sum[:])[:fingerprintLength]
}
