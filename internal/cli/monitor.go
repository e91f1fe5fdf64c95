package cli

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rileyhilliard/actop/internal/actuator"
	"github.com/rileyhilliard/actop/internal/dashboard"
	"github.com/rileyhilliard/actop/internal/errors"
	"github.com/rileyhilliard/actop/internal/logger"
	"github.com/rileyhilliard/actop/internal/ui"
	"golang.org/x/term"
)

// isTerminal is swapped in tests.
var isTerminal = func() bool {
	return term.IsTerminal(int(os.Stdout.Fd())) && term.IsTerminal(int(os.Stdin.Fd()))
}

// monitorCommand starts the TUI dashboard. Without a terminal it prints a
// single snapshot instead.
func monitorCommand(ctx context.Context, flags *MonitorFlags) error {
	if ctx == nil {
		ctx = context.Background()
	}

	if !isTerminal() {
		ui.PrintWarning("stdout isn't a terminal, printing a single snapshot instead")
		return snapshotCommand(ctx, flags, false, os.Stdout)
	}

	cfg, _, err := loadConfig(flags.Apply)
	if err != nil {
		return err
	}

	// The TUI owns the terminal, so logs go to a file.
	log, closeLog, err := logger.NewFile(cfg.LogFile(), logger.Options{Level: cfg.Log.Level, Name: "dashboard"})
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Couldn't open the log file "+cfg.LogFile(),
			"Set log.file in .actop.yaml to a writable path")
	}
	defer func() { _ = closeLog() }()

	log.Info("monitoring %s every %v (timeout %v)", cfg.BaseURL, cfg.Interval, cfg.Timeout)

	client := actuator.NewClient(cfg.BaseURL, cfg.Timeout)
	client.SetUserAgent(userAgent())

	disp := dashboard.NewProgramDisplay()
	coord := dashboard.NewCoordinator(dashboard.DefaultGroups(client, log), disp, cfg.Interval)
	coord.SetTimeout(cfg.Timeout)
	coord.SetLogger(log)
	defer coord.Stop()

	model := dashboard.NewModel(coord, dashboard.Options{
		BaseURL:    cfg.BaseURL,
		Thresholds: thresholdsFrom(cfg.Thresholds),
		Context:    ctx,
	})

	p := tea.NewProgram(model,
		tea.WithAltScreen(),
		tea.WithReportFocus(),
		tea.WithContext(ctx),
	)
	disp.Attach(p)

	if _, err := p.Run(); err != nil && ctx.Err() == nil {
		log.Error("dashboard exited: %v", err)
		return err
	}
	return nil
}
