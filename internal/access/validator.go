// Package access decides which clients may reach the actuator endpoints:
// an IP allowlist with CIDR support and an HTTP middleware that enforces it.
package access

import (
	"net/netip"
	"strings"
	"sync"
	"sync/atomic"
)

// maxCachedDecisions bounds the decision cache. Client IPs come from
// request headers, so the set of keys is attacker controlled.
const maxCachedDecisions = 4096

// Localhost is the allowlist entry that matches every loopback spelling.
const Localhost = "localhost"

// localhost matches these two addresses only, not all of 127.0.0.0/8.
var (
	loopbackV4 = netip.AddrFrom4([4]byte{127, 0, 0, 1})
	loopbackV6 = netip.IPv6Loopback()
)

// Validator checks client IPs against an allowlist of exact addresses,
// "localhost" and CIDR prefixes. Decisions are cached per parsed address.
// A Validator is safe for concurrent use.
type Validator struct {
	enabled bool
	allowed []string
	// prefixes holds the parsed CIDR entries; invalid ones are absent and
	// never match.
	prefixes map[string]netip.Prefix

	cache  sync.Map // netip.Addr -> bool
	cached atomic.Int64
}

// NewValidator returns a validator for allowed. When enabled is false every
// non-empty IP is allowed.
func NewValidator(enabled bool, allowed []string) *Validator {
	v := &Validator{
		enabled:  enabled,
		prefixes: make(map[string]netip.Prefix),
	}
	for _, entry := range allowed {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		v.allowed = append(v.allowed, entry)
		if strings.Contains(entry, "/") {
			if p, err := netip.ParsePrefix(entry); err == nil {
				v.prefixes[entry] = p.Masked()
			}
		}
	}
	return v
}

// Enabled reports whether the allowlist is enforced.
func (v *Validator) Enabled() bool {
	return v.enabled
}

// Allowed reports whether ip may access the guarded endpoints. An empty ip
// is never allowed.
func (v *Validator) Allowed(ip string) bool {
	ip = strings.TrimSpace(ip)
	if ip == "" {
		return false
	}
	if !v.enabled {
		return true
	}

	addr, err := netip.ParseAddr(ip)
	if err != nil {
		// Unparsable values can only match an identical entry; not cached.
		return v.check(ip)
	}
	addr = addr.Unmap()

	if cached, ok := v.cache.Load(addr); ok {
		return cached.(bool)
	}

	allowed := v.check(ip)
	if v.cached.Load() >= maxCachedDecisions {
		v.ClearCache()
	}
	if _, loaded := v.cache.LoadOrStore(addr, allowed); !loaded {
		v.cached.Add(1)
	}
	return allowed
}

// ClearCache drops every cached decision.
func (v *Validator) ClearCache() {
	v.cache.Range(func(key, _ any) bool {
		v.cache.Delete(key)
		return true
	})
	v.cached.Store(0)
}

// cacheSize returns the number of cached decisions.
func (v *Validator) cacheSize() int {
	return int(v.cached.Load())
}

func (v *Validator) check(ip string) bool {
	addr, addrErr := netip.ParseAddr(ip)
	if addrErr == nil {
		addr = addr.Unmap()
	}

	for _, entry := range v.allowed {
		if strings.Contains(entry, "/") {
			p, ok := v.prefixes[entry]
			if ok && addrErr == nil && p.Contains(addr) {
				return true
			}
			continue
		}
		if exactMatch(ip, addr, addrErr == nil, entry) {
			return true
		}
	}
	return false
}

func exactMatch(ip string, addr netip.Addr, parsed bool, entry string) bool {
	if ip == entry {
		return true
	}
	if entry == Localhost {
		return parsed && (addr == loopbackV4 || addr == loopbackV6)
	}
	if !parsed {
		return false
	}
	other, err := netip.ParseAddr(entry)
	return err == nil && other.Unmap() == addr
}
