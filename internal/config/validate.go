package config

import (
	"fmt"
	"net/netip"
	"net/url"
	"strings"

	"github.com/rileyhilliard/actop/internal/errors"
)

// Validate checks the config for errors and returns structured error messages.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errors.New(errors.ErrConfig,
			"Config is nil",
			"This is unexpected - try reloading the configuration.")
	}

	if cfg.Version > CurrentConfigVersion {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("This config is from the future (version %d, but actop only knows up to %d)", cfg.Version, CurrentConfigVersion),
			"Grab the latest actop release.")
	}

	if err := ValidateBaseURL(cfg.BaseURL); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig, err.Error(),
			"Set base_url to the actuator root, e.g. http://localhost:8080/actuator")
	}

	if cfg.Interval < MinInterval {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("interval %v is too short", cfg.Interval),
			fmt.Sprintf("Minimum interval is %v to avoid overwhelming the application", MinInterval))
	}

	if cfg.Timeout <= 0 {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("timeout %v must be positive", cfg.Timeout),
			"Use a duration like 5s or 10s")
	}

	if err := validateThresholds(cfg.Thresholds); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig, err.Error(), "Check the 'thresholds' section in your .actop.yaml.")
	}

	if err := validateLog(cfg.Log); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig, err.Error(), "Check the 'log' section in your .actop.yaml.")
	}

	if err := validateProxy(cfg.Proxy); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig, err.Error(), "Check the 'proxy' section in your .actop.yaml.")
	}

	return nil
}

// ValidateBaseURL checks that raw is an absolute http(s) URL.
func ValidateBaseURL(raw string) error {
	if strings.TrimSpace(raw) == "" {
		return fmt.Errorf("base_url is empty")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("base_url '%s' isn't a valid URL: %v", raw, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("base_url '%s' needs an http:// or https:// scheme", raw)
	}
	if u.Host == "" {
		return fmt.Errorf("base_url '%s' is missing a host", raw)
	}
	return nil
}

// validateThresholds checks threshold configuration.
func validateThresholds(thresh ThresholdConfig) error {
	if thresh.Warning < 0 || thresh.Warning > 100 {
		return fmt.Errorf("thresholds.warning needs to be 0-100 (got %d)", thresh.Warning)
	}
	if thresh.Critical < 0 || thresh.Critical > 100 {
		return fmt.Errorf("thresholds.critical needs to be 0-100 (got %d)", thresh.Critical)
	}
	if thresh.Warning >= thresh.Critical {
		return fmt.Errorf("thresholds.warning (%d%%) is not below critical (%d%%) - should be the other way around", thresh.Warning, thresh.Critical)
	}
	return nil
}

// validateLog checks log configuration.
func validateLog(l LogConfig) error {
	valid := map[string]bool{"debug": true, "info": true, "warn": true, "error": true, "": true}
	if !valid[strings.ToLower(l.Level)] {
		return fmt.Errorf("log.level '%s' isn't valid - use 'debug', 'info', 'warn', or 'error'", l.Level)
	}
	return nil
}

// validateProxy checks proxy configuration.
func validateProxy(p ProxyConfig) error {
	if p.Target != "" {
		if err := ValidateBaseURL(p.Target); err != nil {
			return fmt.Errorf("proxy.target: %v", strings.TrimPrefix(err.Error(), "base_url "))
		}
	}
	for _, entry := range p.AllowedIPs {
		if err := ValidateAllowEntry(entry); err != nil {
			return err
		}
	}
	return nil
}

// ValidateAllowEntry checks one proxy.allowed_ips entry: an IP, "localhost",
// or a CIDR prefix.
func ValidateAllowEntry(entry string) error {
	entry = strings.TrimSpace(entry)
	switch {
	case entry == "":
		return fmt.Errorf("proxy.allowed_ips has an empty entry - remove it or add an address")
	case entry == "localhost":
		return nil
	case strings.Contains(entry, "/"):
		if _, err := netip.ParsePrefix(entry); err != nil {
			return fmt.Errorf("proxy.allowed_ips entry '%s' isn't a valid CIDR prefix", entry)
		}
	default:
		if _, err := netip.ParseAddr(entry); err != nil {
			return fmt.Errorf("proxy.allowed_ips entry '%s' isn't a valid IP address", entry)
		}
	}
	return nil
}
