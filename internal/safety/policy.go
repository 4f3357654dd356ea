// Package safety implements the request-safety gates that run before any
// network activity: syntactic/policy URL validation and SSRF protection
// based on resolved addresses.
package safety

import "fmt"

// Kind classifies a policy rejection.
type Kind int

const (
	// KindInvalidURL covers syntax and URL-policy failures.
	KindInvalidURL Kind = iota
	// KindSSRFBlocked covers URLs resolving to disallowed address space.
	KindSSRFBlocked
	// KindUnresolvable covers DNS resolution failures. Treated as a subtype
	// of SSRF-blocked: an unresolvable target fails closed.
	KindUnresolvable
)

func (k Kind) String() string {
	switch k {
	case KindInvalidURL:
		return "invalid_url"
	case KindSSRFBlocked:
		return "ssrf_blocked"
	case KindUnresolvable:
		return "unresolvable"
	}
	return "unknown"
}

// PolicyError reports why a URL was rejected by a safety gate.
type PolicyError struct {
	Kind   Kind
	Reason string
}

func (e *PolicyError) Error() string {
	return e.Reason
}

func reject(kind Kind, format string, args ...any) *PolicyError {
	return &PolicyError{Kind: kind, Reason: fmt.Sprintf(format, args...)}
}

// Policy holds the fixed security configuration for both gates.
type Policy struct {
	MaxURLLength      int
	AllowedSchemes    []string
	BlockedHosts      []string
	BlockedIPPrefixes []string
}

// DefaultPolicy returns the stock security policy.
func DefaultPolicy() Policy {
	return Policy{
		MaxURLLength:   2048,
		AllowedSchemes: []string{"http", "https"},
		// Substring match on the hostname, not exact labels. "corp" blocks
		// "corporate.example.com" too; over-blocking is accepted in exchange
		// for never under-blocking.
		BlockedHosts: []string{"localhost", "internal", "intranet", "corp", "local"},
		BlockedIPPrefixes: []string{
			"127.",     // loopback
			"10.",      // private class A
			"172.16.", "172.17.", "172.18.", "172.19.",
			"172.20.", "172.21.", "172.22.", "172.23.",
			"172.24.", "172.25.", "172.26.", "172.27.",
			"172.28.", "172.29.", "172.30.", "172.31.", // private class B
			"192.168.", // private class C
			"0.",       // reserved
			"169.254.", // link-local
			"::1",      // IPv6 loopback
			"fc00:",    // IPv6 unique-local
			"fe80:",    // IPv6 link-local
		},
	}
}
