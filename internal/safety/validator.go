package safety

import (
	"net/url"
	"strings"
)

// ValidateURL checks a candidate URL against the policy before any network
// activity. Checks run in order and short-circuit on the first failure.
// Pure function of (url, policy): no DNS lookups, no side effects.
func ValidateURL(raw string, policy Policy) error {
	if raw == "" {
		return reject(KindInvalidURL, "URL cannot be empty")
	}

	if len(raw) > policy.MaxURLLength {
		return reject(KindInvalidURL, "URL exceeds maximum length of %d characters", policy.MaxURLLength)
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return reject(KindInvalidURL, "invalid URL format: %v", err)
	}

	allowed := false
	for _, scheme := range policy.AllowedSchemes {
		if parsed.Scheme == scheme {
			allowed = true
			break
		}
	}
	if !allowed {
		return reject(KindInvalidURL, "URL scheme must be one of: %s", strings.Join(policy.AllowedSchemes, ", "))
	}

	if parsed.Host == "" {
		return reject(KindInvalidURL, "URL must include a host")
	}

	hostname := strings.ToLower(parsed.Hostname())
	for _, blocked := range policy.BlockedHosts {
		if strings.Contains(hostname, blocked) {
			return reject(KindInvalidURL, "access to %q is not allowed", parsed.Hostname())
		}
	}

	return nil
}
