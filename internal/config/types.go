package config

import "time"

// CurrentConfigVersion is the schema version for the config file.
// Increment when making breaking changes to the config structure.
const CurrentConfigVersion = 1

// Defaults mirror the constants the dashboard has always shipped with.
const (
	DefaultBaseURL  = "http://localhost:8080/actuator"
	DefaultInterval = 5 * time.Second
	DefaultTimeout  = 10 * time.Second
	// MinInterval keeps the dashboard from hammering the management port.
	MinInterval = 500 * time.Millisecond
)

// Config represents the complete .actop.yaml configuration file.
type Config struct {
	Version int `yaml:"version" mapstructure:"version"`

	// BaseURL is the actuator root, e.g. http://localhost:8080/actuator.
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`

	// Interval is the auto-refresh period.
	Interval time.Duration `yaml:"interval" mapstructure:"interval"`

	// Timeout bounds a whole refresh batch. A batch that exceeds it counts
	// as a failed refresh.
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`

	Thresholds ThresholdConfig `yaml:"thresholds" mapstructure:"thresholds"`
	Log        LogConfig       `yaml:"log" mapstructure:"log"`
	Proxy      ProxyConfig     `yaml:"proxy" mapstructure:"proxy"`
}

// ThresholdConfig controls progress bar coloring, in percent.
type ThresholdConfig struct {
	// Warning is the level above which a bar turns amber.
	Warning int `yaml:"warning" mapstructure:"warning"`

	// Critical is the level above which a bar turns red.
	Critical int `yaml:"critical" mapstructure:"critical"`
}

// LogConfig controls the diagnostic log.
type LogConfig struct {
	// Level: debug, info, warn or error.
	Level string `yaml:"level" mapstructure:"level"`

	// File receives dashboard logs while the TUI owns the terminal.
	// Empty means $TMPDIR/actop.log.
	File string `yaml:"file" mapstructure:"file"`
}

// ProxyConfig controls the guarded actuator proxy.
type ProxyConfig struct {
	// Listen is the proxy bind address.
	Listen string `yaml:"listen" mapstructure:"listen"`

	// Target is the application root the proxy forwards to.
	Target string `yaml:"target" mapstructure:"target"`

	// FilterEnabled toggles the IP allowlist. When false every client is allowed.
	FilterEnabled bool `yaml:"filter_enabled" mapstructure:"filter_enabled"`

	// AllowedIPs lists exact addresses, "localhost", or CIDR prefixes.
	AllowedIPs []string `yaml:"allowed_ips" mapstructure:"allowed_ips"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Version:  CurrentConfigVersion,
		BaseURL:  DefaultBaseURL,
		Interval: DefaultInterval,
		Timeout:  DefaultTimeout,
		Thresholds: ThresholdConfig{
			Warning:  60,
			Critical: 80,
		},
		Log: LogConfig{
			Level: "info",
		},
		Proxy: ProxyConfig{
			Listen:        "127.0.0.1:9091",
			Target:        "http://localhost:8080",
			FilterEnabled: true,
			AllowedIPs:    []string{"127.0.0.1"},
		},
	}
}
