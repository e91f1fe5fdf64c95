package cli

import (
	"context"
	stderrors "errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/rileyhilliard/actop/internal/config"
	"github.com/rileyhilliard/actop/internal/ui"
	"github.com/spf13/cobra"
)

// Global flags
var (
	cfgFile   string
	debugFlag bool
	noColor   bool
)

// rootCmd runs the dashboard when no subcommand is given.
var rootCmd = &cobra.Command{
	Use:   "actop",
	Short: "Live terminal dashboard for Spring Boot Actuator",
	Long: `actop polls a Spring Boot application's actuator endpoints and shows
health, memory, CPU, HTTP, thread and GC metrics in a live dashboard.

Running actop with no subcommand is the same as 'actop monitor'.

Examples:
  actop
  actop --url http://orders.internal:8080/actuator --interval 2s
  actop snapshot --json`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if noColor {
			ui.DisableColors()
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return monitorCommand(cmd.Context(), rootMonitorFlags)
	},
}

// rootMonitorFlags lets the bare command accept the monitor flags.
var rootMonitorFlags = &MonitorFlags{}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: .actop.yaml, searched upward)")
	rootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false, "log at debug level")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
	AddMonitorFlags(rootCmd, rootMonitorFlags)
}

// Execute runs the root command and exits non-zero on error.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		var exit exitError
		if stderrors.As(err, &exit) {
			stop()
			os.Exit(exit.code)
		}
		if isUnknownCommandError(err) {
			if name := extractUnknownCommand(err); name != "" {
				fmt.Fprintf(os.Stderr, "%s '%s' isn't an actop command.\n\n", ui.SymbolFail, name)
				fmt.Fprintln(os.Stderr, "Run 'actop --help' to see what's available.")
				stop()
				os.Exit(1)
			}
		}
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

// isUnknownCommandError reports whether cobra rejected the command line.
func isUnknownCommandError(err error) bool {
	msg := err.Error()
	return strings.HasPrefix(msg, "unknown command") || strings.HasPrefix(msg, "unknown flag")
}

// extractUnknownCommand pulls the quoted command name out of cobra's
// `unknown command "foo" for "actop"` message.
func extractUnknownCommand(err error) string {
	msg := err.Error()
	start := strings.Index(msg, `"`)
	if start < 0 {
		return ""
	}
	end := strings.Index(msg[start+1:], `"`)
	if end < 0 {
		return ""
	}
	return msg[start+1 : start+1+end]
}

// loadConfig resolves the config file (or defaults) and validates it after
// apply has layered flag overrides on top.
func loadConfig(apply func(cfg *config.Config) error) (*config.Config, string, error) {
	cfg, path, err := config.LoadOrDefault(cfgFile)
	if err != nil {
		return nil, "", err
	}
	if apply != nil {
		if err := apply(cfg); err != nil {
			return nil, "", err
		}
	}
	if debugFlag {
		cfg.Log.Level = "debug"
	}
	if err := config.Validate(cfg); err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}
