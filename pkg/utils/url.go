package utils

import (
	"crypto/sha256"
	"encoding/hex"
	"net/url"
)

// HashKey creates a SHA256 hash of an identifier, giving consistent, safe
// Redis keys regardless of what callers put in session IDs.
func HashKey(s string) string {
	h := sha256.New()
	h.Write([]byte(s))
	return hex.EncodeToString(h.Sum(nil))
}

// Netloc extracts the network location (host and, where present, port) that
// identifies a rate-limit bucket. Two different netlocs never share a timer.
func Netloc(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	return u.Host
}
