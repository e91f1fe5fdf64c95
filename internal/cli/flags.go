package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/rileyhilliard/actop/internal/config"
	"github.com/rileyhilliard/actop/internal/errors"
	"github.com/spf13/cobra"
)

// MonitorFlags holds the flags shared by the root command and monitor.
type MonitorFlags struct {
	URL      string
	Interval string
	Timeout  string
}

// AddMonitorFlags registers --url, --interval and --timeout on a command.
func AddMonitorFlags(cmd *cobra.Command, flags *MonitorFlags) {
	cmd.Flags().StringVar(&flags.URL, "url", "", "actuator base URL (e.g., http://localhost:8080/actuator)")
	cmd.Flags().StringVar(&flags.Interval, "interval", "", "refresh interval (e.g., 2s, 5s, 1m)")
	cmd.Flags().StringVar(&flags.Timeout, "timeout", "", "deadline for a whole refresh (e.g., 10s)")
}

// Apply layers non-empty flags over cfg.
func (f *MonitorFlags) Apply(cfg *config.Config) error {
	if f.URL != "" {
		cfg.BaseURL = strings.TrimRight(strings.TrimSpace(f.URL), "/")
	}
	if f.Interval != "" {
		d, err := ParseDuration("interval", f.Interval)
		if err != nil {
			return err
		}
		cfg.Interval = d
	}
	if f.Timeout != "" {
		d, err := ParseDuration("timeout", f.Timeout)
		if err != nil {
			return err
		}
		cfg.Timeout = d
	}
	return nil
}

// ProxyFlags holds the proxy command's flags.
type ProxyFlags struct {
	Listen   string
	Target   string
	Prefix   string
	Allow    []string
	NoFilter bool
}

// Apply layers non-empty flags over cfg.Proxy. --allow replaces the
// configured allowlist rather than extending it.
func (f *ProxyFlags) Apply(cfg *config.Config) error {
	if f.Listen != "" {
		cfg.Proxy.Listen = f.Listen
	}
	if f.Target != "" {
		cfg.Proxy.Target = strings.TrimRight(strings.TrimSpace(f.Target), "/")
	}
	if len(f.Allow) > 0 {
		cfg.Proxy.AllowedIPs = f.Allow
	}
	if f.NoFilter {
		cfg.Proxy.FilterEnabled = false
	}
	return nil
}

// ParseDuration parses a duration flag with a friendly error.
func ParseDuration(flag, value string) (time.Duration, error) {
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, errors.WrapWithCode(err, errors.ErrConfig,
			fmt.Sprintf("'%s' doesn't look like a valid --%s", value, flag),
			"Try something like 5s, 2m, or 500ms.")
	}
	return d, nil
}
