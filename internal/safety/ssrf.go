package safety

import (
	"context"
	"log/slog"
	"net"
	"net/netip"
	"net/url"
	"strings"
)

// Resolver is the DNS lookup dependency of the SSRF guard. net.Resolver
// satisfies it; tests substitute a fake.
type Resolver interface {
	LookupIPAddr(ctx context.Context, host string) ([]net.IPAddr, error)
}

// Guard rejects URLs whose hostname resolves to disallowed address space.
// It runs after ValidateURL and strictly before any network fetch, so a
// disallowed target is never contacted, even transiently.
type Guard struct {
	policy   Policy
	resolver Resolver
}

// NewGuard creates a Guard. A nil resolver defaults to net.DefaultResolver.
func NewGuard(policy Policy, resolver Resolver) *Guard {
	if resolver == nil {
		resolver = net.DefaultResolver
	}
	return &Guard{policy: policy, resolver: resolver}
}

// Check resolves the URL's hostname and verifies every returned address,
// both families, against the blocked-prefix table and the address-semantics
// classification. A single unsafe address vetoes the whole URL. Resolution
// failure rejects as well: the guard fails closed.
func (g *Guard) Check(ctx context.Context, raw string) error {
	parsed, err := url.Parse(raw)
	if err != nil || parsed.Hostname() == "" {
		return reject(KindUnresolvable, "cannot resolve hostname from URL")
	}
	hostname := parsed.Hostname()

	addrs, err := g.resolver.LookupIPAddr(ctx, hostname)
	if err != nil {
		slog.Warn("DNS resolution failed", "host", hostname, "error", err)
		return reject(KindUnresolvable, "cannot resolve hostname: %s", hostname)
	}

	for _, addr := range addrs {
		ip := addr.IP.String()

		for _, prefix := range g.policy.BlockedIPPrefixes {
			if strings.HasPrefix(ip, prefix) {
				slog.Warn("SSRF protection blocked address", "ip", ip, "host", hostname)
				return reject(KindSSRFBlocked, "access to internal network addresses is not allowed")
			}
		}

		// The semantic classification is the authoritative gate; the prefix
		// table above is only the configured fast path.
		if isDisallowedAddress(addr.IP) {
			slog.Warn("SSRF protection blocked private address", "ip", ip, "host", hostname)
			return reject(KindSSRFBlocked, "access to private network addresses is not allowed")
		}
	}

	return nil
}

// reservedV4 covers 240.0.0.0/4, the IPv4 reserved block including the
// limited-broadcast address. None of the netip predicates classify it.
var reservedV4 = netip.MustParsePrefix("240.0.0.0/4")

// isDisallowedAddress classifies an address as private, loopback, link-local,
// multicast, reserved, or otherwise unroutable from a scraping standpoint.
// Unparseable addresses are disallowed.
func isDisallowedAddress(ip net.IP) bool {
	addr, ok := netip.AddrFromSlice(ip)
	if !ok {
		return true
	}
	addr = addr.Unmap()
	return addr.IsLoopback() ||
		addr.IsPrivate() ||
		addr.IsLinkLocalUnicast() ||
		addr.IsLinkLocalMulticast() ||
		addr.IsInterfaceLocalMulticast() ||
		addr.IsMulticast() ||
		addr.IsUnspecified() ||
		reservedV4.Contains(addr) ||
		!addr.IsGlobalUnicast()
}
