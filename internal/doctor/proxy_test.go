package doctor

import (
	"context"
	"testing"

	"github.com/rileyhilliard/actop/internal/config"
	"github.com/stretchr/testify/assert"
)

func TestProxyFilterCheck(t *testing.T) {
	tests := []struct {
		name    string
		proxy   config.ProxyConfig
		status  CheckStatus
		message string
	}{
		{
			name:    "defaults",
			proxy:   config.DefaultConfig().Proxy,
			status:  StatusPass,
			message: "1 allowlist entry",
		},
		{
			name:    "several entries",
			proxy:   config.ProxyConfig{FilterEnabled: true, AllowedIPs: []string{"localhost", "10.0.0.0/8"}},
			status:  StatusPass,
			message: "2 allowlist entries",
		},
		{
			name:    "filter off",
			proxy:   config.ProxyConfig{FilterEnabled: false, AllowedIPs: []string{"127.0.0.1"}},
			status:  StatusWarn,
			message: "disabled",
		},
		{
			name:    "empty allowlist",
			proxy:   config.ProxyConfig{FilterEnabled: true},
			status:  StatusWarn,
			message: "refuse every actuator request",
		},
		{
			name:    "match-all prefix",
			proxy:   config.ProxyConfig{FilterEnabled: true, AllowedIPs: []string{"127.0.0.1", "0.0.0.0/0", "::/0"}},
			status:  StatusWarn,
			message: "0.0.0.0/0, ::/0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checks := NewProxyChecks(tt.proxy)
			got := checks[0].Run(context.Background())
			assert.Equal(t, tt.status, got.Status)
			assert.Contains(t, got.Message, tt.message)
		})
	}
}
