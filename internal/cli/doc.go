// Package cli implements the actop command-line interface.
//
// Each cobra command is a thin shell: it parses flags, loads config through
// loadConfig, and hands off to a function that does the work and can be
// called directly from tests (monitorCommand, Snapshot, proxyCommand, Init).
//
// # Command Structure
//
//	actop                 - Live dashboard (same as "actop monitor")
//	actop monitor         - Live dashboard for one actuator
//	actop snapshot        - One refresh, printed as text or --json
//	actop proxy           - Reverse proxy with an IP allowlist on /actuator
//	actop init            - Create .actop.yaml
//	actop doctor          - Diagnose config and actuator issues
//	actop version         - Show version info
//
// # Flag Handling
//
// Global flags (--config, --debug, --no-color) live on the root command.
// Command flags are layered over the loaded config by MonitorFlags.Apply or
// ProxyFlags.Apply before validation, so a bad flag value fails the same way
// a bad config value does.
//
// # Exit Codes
//
// Commands that already printed their own report return exitError, which
// Execute turns into an exit code without printing anything else.
package cli
