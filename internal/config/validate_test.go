package config

import (
	"testing"
	"time"

	"github.com/rileyhilliard/actop/internal/errors"
	"github.com/stretchr/testify/assert"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{
			name:   "defaults are valid",
			mutate: func(c *Config) {},
		},
		{
			name:    "future version",
			mutate:  func(c *Config) { c.Version = CurrentConfigVersion + 1 },
			wantErr: "from the future",
		},
		{
			name:    "empty base url",
			mutate:  func(c *Config) { c.BaseURL = "" },
			wantErr: "base_url is empty",
		},
		{
			name:    "base url without scheme",
			mutate:  func(c *Config) { c.BaseURL = "localhost:8080/actuator" },
			wantErr: "http:// or https://",
		},
		{
			name:    "interval too short",
			mutate:  func(c *Config) { c.Interval = 100 * time.Millisecond },
			wantErr: "too short",
		},
		{
			name:    "zero timeout",
			mutate:  func(c *Config) { c.Timeout = 0 },
			wantErr: "must be positive",
		},
		{
			name:    "threshold out of range",
			mutate:  func(c *Config) { c.Thresholds.Critical = 120 },
			wantErr: "thresholds.critical needs to be 0-100",
		},
		{
			name:    "warning above critical",
			mutate:  func(c *Config) { c.Thresholds.Warning = 90 },
			wantErr: "other way around",
		},
		{
			name:    "bad log level",
			mutate:  func(c *Config) { c.Log.Level = "chatty" },
			wantErr: "log.level",
		},
		{
			name:    "bad proxy target",
			mutate:  func(c *Config) { c.Proxy.Target = "ftp://x" },
			wantErr: "proxy.target",
		},
		{
			name:    "bad allowlist entry",
			mutate:  func(c *Config) { c.Proxy.AllowedIPs = []string{"10.0.0.0/33"} },
			wantErr: "valid CIDR",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)

			err := Validate(cfg)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			if assert.Error(t, err) {
				assert.Contains(t, err.Error(), tt.wantErr)
				assert.True(t, errors.IsCode(err, errors.ErrConfig))
			}
		})
	}
}

func TestValidate_Nil(t *testing.T) {
	assert.Error(t, Validate(nil))
}

func TestValidateAllowEntry(t *testing.T) {
	tests := []struct {
		entry string
		valid bool
	}{
		{"127.0.0.1", true},
		{"::1", true},
		{"localhost", true},
		{"192.168.0.0/16", true},
		{"fd00::/8", true},
		{"", false},
		{"  ", false},
		{"not-an-ip", false},
		{"10.0.0.0/40", false},
		{"300.1.1.1", false},
	}

	for _, tt := range tests {
		t.Run(tt.entry, func(t *testing.T) {
			err := ValidateAllowEntry(tt.entry)
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}
