package doctor

import (
	"context"
	"fmt"
	"net/netip"
	"strings"

	"github.com/rileyhilliard/actop/internal/config"
)

// ProxyFilterCheck flags proxy settings that leave the actuator open or
// shut everyone out.
type ProxyFilterCheck struct {
	Proxy config.ProxyConfig
}

func (c *ProxyFilterCheck) Name() string     { return "proxy_filter" }
func (c *ProxyFilterCheck) Category() string { return "PROXY" }

func (c *ProxyFilterCheck) Run(context.Context) CheckResult {
	if !c.Proxy.FilterEnabled {
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusWarn,
			Message:    "IP filter is disabled, every client can reach the actuator through the proxy",
			Suggestion: "Set proxy.filter_enabled: true and list trusted addresses under proxy.allowed_ips",
		}
	}

	if len(c.Proxy.AllowedIPs) == 0 {
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusWarn,
			Message:    "Allowlist is empty, the proxy will refuse every actuator request",
			Suggestion: "Add at least 127.0.0.1 under proxy.allowed_ips",
		}
	}

	var open []string
	for _, entry := range c.Proxy.AllowedIPs {
		entry = strings.TrimSpace(entry)
		if p, err := netip.ParsePrefix(entry); err == nil && p.Bits() == 0 {
			open = append(open, entry)
		}
	}
	if len(open) > 0 {
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusWarn,
			Message:    fmt.Sprintf("Allowlist contains %s, which matches every address", strings.Join(open, ", ")),
			Suggestion: "Narrow the prefix to the networks that need the actuator",
		}
	}

	return CheckResult{
		Name:    c.Name(),
		Status:  StatusPass,
		Message: fmt.Sprintf("%d allowlist entr%s", len(c.Proxy.AllowedIPs), plural(len(c.Proxy.AllowedIPs), "y", "ies")),
	}
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

// NewProxyChecks creates proxy-related checks.
func NewProxyChecks(p config.ProxyConfig) []Check {
	return []Check{&ProxyFilterCheck{Proxy: p}}
}
