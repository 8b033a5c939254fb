package domain

// Fingerprinter derives a short, log-safe identifier from a secret such as
// an API key.
type Fingerprinter interface {
	Fingerprint(secret string) string
}
