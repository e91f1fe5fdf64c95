package cli

import (
	"os"

	"github.com/rileyhilliard/actop/internal/errors"
	"github.com/rileyhilliard/actop/internal/proxy"
	"github.com/spf13/cobra"
)

// Command-specific flags
var (
	monitorFlags  = &MonitorFlags{}
	snapshotFlags = &MonitorFlags{}
	snapshotJSON  bool
	proxyFlags    = &ProxyFlags{}
	initOpts      InitOptions
	initNoCheck   bool
	doctorFlags   = &MonitorFlags{}
	doctorJSON    bool
)

// monitorCmd starts the TUI dashboard
var monitorCmd = &cobra.Command{
	Use:   "monitor",
	Short: "Live dashboard for a Spring Boot application",
	Long: `Open a live dashboard showing the application's health, memory, CPU,
HTTP status codes, threads and garbage collection, refreshed on an interval.

The dashboard pauses auto refresh while the terminal is unfocused and
refreshes as soon as it gets focus back. Without a terminal, a single
snapshot is printed instead.

Keyboard shortcuts:
  q / Ctrl+C  Quit
  r           Refresh now
  p           Pause / resume auto refresh
  up/k        Scroll up
  down/j      Scroll down
  ?           Show help

Examples:
  actop monitor
  actop monitor --url http://orders.internal:8080/actuator
  actop monitor --interval 2s --timeout 5s`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return monitorCommand(cmd.Context(), monitorFlags)
	},
}

// snapshotCmd prints one refresh and exits
var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Print one refresh and exit",
	Long: `Fetch every dashboard region once and print the result, either as text
or, with --json, as a machine-readable envelope.

Exits non-zero when the refresh as a whole fails (for example, the
deadline passes). A single failed region is reported in place and does not
change the exit code.

Examples:
  actop snapshot
  actop snapshot --json | jq .data.regions.health`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return snapshotCommand(cmd.Context(), snapshotFlags, snapshotJSON, cmd.OutOrStdout())
	},
}

// proxyCmd runs the guarded reverse proxy
var proxyCmd = &cobra.Command{
	Use:   "proxy",
	Short: "Guard the actuator behind an IP allowlist",
	Long: `Run a reverse proxy in front of the application. Requests under the
actuator path are only forwarded for allowlisted client IPs; everything
else passes straight through. Denied requests get a 403 with a JSON body.

Allowlist entries are exact addresses, CIDR prefixes, or "localhost".
The client IP is the first X-Forwarded-For entry, then X-Real-IP, then
the connection address.

Proxy counters are served at ` + proxy.MetricsPath + `.

Examples:
  actop proxy
  actop proxy --listen :9091 --target http://localhost:8080
  actop proxy --allow 10.0.0.0/8,localhost`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return proxyCommand(cmd.Context(), proxyFlags)
	},
}

// initCmd creates a new .actop.yaml configuration
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create .actop.yaml configuration",
	Long: `Create a .actop.yaml file in the current directory.

Prompts for the actuator URL and refresh interval, then checks that the
health endpoint answers before saving.

Examples:
  actop init
  actop init --url http://localhost:8081/actuator
  actop init --non-interactive --no-check`,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := initOpts
		opts.SkipCheck = initNoCheck
		opts.Out = cmd.OutOrStdout()
		return initCommand(opts)
	},
}

// doctorCmd diagnoses config and actuator problems
var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Diagnose configuration and actuator issues",
	Long: `Check the config file, whether the actuator answers, which dashboard
metrics it exposes, and whether the proxy allowlist is sensible.

Exits non-zero when any check fails. Warnings don't change the exit code.

Examples:
  actop doctor
  actop doctor --url http://orders.internal:8080/actuator
  actop doctor --json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return doctorCommand(cmd.Context(), doctorFlags, doctorJSON, cmd.OutOrStdout())
	},
}

// completionCmd generates shell completion scripts
var completionCmd = &cobra.Command{
	Use:   "completion [bash|zsh|fish|powershell]",
	Short: "Generate shell completion script",
	Long: `Generate shell completion scripts for actop.

Examples:
  # Bash
  actop completion bash > /etc/bash_completion.d/actop

  # Zsh
  actop completion zsh > "${fpath[1]}/_actop"

  # Fish
  actop completion fish > ~/.config/fish/completions/actop.fish`,
	ValidArgs: []string{"bash", "zsh", "fish", "powershell"},
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	RunE: func(cmd *cobra.Command, args []string) error {
		switch args[0] {
		case "bash":
			return rootCmd.GenBashCompletion(os.Stdout)
		case "zsh":
			return rootCmd.GenZshCompletion(os.Stdout)
		case "fish":
			return rootCmd.GenFishCompletion(os.Stdout, true)
		case "powershell":
			return rootCmd.GenPowerShellCompletion(os.Stdout)
		default:
			return errors.New(errors.ErrConfig,
				"Unknown shell: "+args[0],
				"Supported shells: bash, zsh, fish, powershell")
		}
	},
}

func init() {
	// monitor command flags
	AddMonitorFlags(monitorCmd, monitorFlags)

	// snapshot command flags
	snapshotCmd.Flags().StringVar(&snapshotFlags.URL, "url", "", "actuator base URL")
	snapshotCmd.Flags().StringVar(&snapshotFlags.Timeout, "timeout", "", "deadline for the refresh (e.g., 10s)")
	snapshotCmd.Flags().BoolVar(&snapshotJSON, "json", false, "print a JSON envelope")

	// proxy command flags
	proxyCmd.Flags().StringVar(&proxyFlags.Listen, "listen", "", "bind address (default from config, 127.0.0.1:9091)")
	proxyCmd.Flags().StringVar(&proxyFlags.Target, "target", "", "application root to forward to")
	proxyCmd.Flags().StringVar(&proxyFlags.Prefix, "prefix", proxy.DefaultPrefix, "guarded path prefix")
	proxyCmd.Flags().StringSliceVar(&proxyFlags.Allow, "allow", nil, "allowed IPs or CIDRs (comma-separated, replaces config)")
	proxyCmd.Flags().BoolVar(&proxyFlags.NoFilter, "no-filter", false, "turn IP filtering off")

	// init command flags
	initCmd.Flags().StringVar(&initOpts.URL, "url", "", "actuator base URL")
	initCmd.Flags().StringVar(&initOpts.Interval, "interval", "", "refresh interval")
	initCmd.Flags().BoolVarP(&initOpts.Overwrite, "force", "f", false, "overwrite existing config")
	initCmd.Flags().BoolVar(&initOpts.NonInteractive, "non-interactive", false, "skip prompts, use flags and defaults")
	initCmd.Flags().BoolVar(&initNoCheck, "no-check", false, "don't check the actuator before saving")

	// doctor command flags
	doctorCmd.Flags().StringVar(&doctorFlags.URL, "url", "", "actuator base URL")
	doctorCmd.Flags().StringVar(&doctorFlags.Timeout, "timeout", "", "per-request timeout (e.g., 5s)")
	doctorCmd.Flags().BoolVar(&doctorJSON, "json", false, "output in JSON format")

	// Register all commands
	rootCmd.AddCommand(monitorCmd)
	rootCmd.AddCommand(snapshotCmd)
	rootCmd.AddCommand(proxyCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(doctorCmd)
	rootCmd.AddCommand(completionCmd)
}
