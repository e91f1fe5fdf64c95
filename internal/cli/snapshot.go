package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/rileyhilliard/actop/internal/actuator"
	"github.com/rileyhilliard/actop/internal/config"
	"github.com/rileyhilliard/actop/internal/dashboard"
	"github.com/rileyhilliard/actop/internal/errors"
	"github.com/rileyhilliard/actop/internal/logger"
	"github.com/rileyhilliard/actop/internal/ui"
)

// SnapshotOptions configures a one-shot refresh.
type SnapshotOptions struct {
	Source  dashboard.Source
	BaseURL string
	Timeout time.Duration
	JSON    bool
	Out     io.Writer
	Log     logger.Logger
	Now     func() time.Time
}

// SnapshotResult is the --json payload. Regions are keyed by short name
// (health, memory, ...); a failed region renders as {"error": "..."}.
type SnapshotResult struct {
	BaseURL string                      `json:"base_url"`
	Online  bool                        `json:"online"`
	TakenAt time.Time                   `json:"taken_at"`
	Regions map[string]dashboard.Region `json:"regions"`
}

// exitError ends the process with code without printing anything more;
// the command has already written its own output.
type exitError struct{ code int }

func (e exitError) Error() string { return fmt.Sprintf("exit status %d", e.code) }

// Snapshot runs exactly one refresh through the coordinator and prints the
// result. An offline refresh is reported and turned into a non-zero exit.
func Snapshot(ctx context.Context, opts SnapshotOptions) error {
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	rec := dashboard.NewRecorder()
	coord := dashboard.NewCoordinator(dashboard.DefaultGroups(opts.Source, opts.Log), rec, dashboard.DefaultInterval)
	coord.SetTimeout(opts.Timeout)
	coord.SetLogger(opts.Log)
	coord.Refresh(ctx)

	online, _ := rec.Online()
	result := SnapshotResult{
		BaseURL: opts.BaseURL,
		Online:  online,
		TakenAt: now().UTC(),
		Regions: make(map[string]dashboard.Region),
	}
	for _, region := range rec.Regions() {
		result.Regions[region.Kind().String()] = region
	}

	if opts.JSON {
		if !online {
			if err := WriteJSONError(opts.Out, ErrCodeRefreshFailed, rec.Banner(), "Check that the application is running and base_url is right.", result); err != nil {
				return err
			}
			return exitError{code: 1}
		}
		return WriteJSONSuccess(opts.Out, result)
	}

	status := ui.SuccessStyle().Render("online")
	if !online {
		status = ui.ErrorStyle().Render("offline")
	}
	fmt.Fprint(opts.Out, ui.RenderHeader(ui.HeaderInfo{
		Version: formatVersion(version),
		Target:  opts.BaseURL,
		Status:  status,
	}))
	if banner := rec.Banner(); banner != "" {
		fmt.Fprintln(opts.Out, ui.WarningStyle().Render(ui.SymbolWarning+" "+banner))
	}
	fmt.Fprintln(opts.Out)
	fmt.Fprint(opts.Out, ui.RenderSections(snapshotSections(rec.Regions())))

	if !online {
		return exitError{code: 1}
	}
	return nil
}

func snapshotSections(regions []dashboard.Region) []ui.Section {
	sections := make([]ui.Section, 0, len(regions))
	for _, region := range regions {
		_, failed := region.(dashboard.ErrorRegion)
		fields := dashboard.Fields(region)
		rows := make([]ui.Row, len(fields))
		for i, f := range fields {
			rows[i] = ui.Row{Label: f.Label, Value: f.Value}
		}
		sections = append(sections, ui.Section{
			Title:  region.Kind().Title(),
			Failed: failed,
			Rows:   rows,
		})
	}
	return sections
}

// snapshotCommand is the implementation called by the cobra command.
func snapshotCommand(ctx context.Context, flags *MonitorFlags, asJSON bool, out io.Writer) error {
	cfg, _, err := loadConfig(flags.Apply)
	if err != nil {
		if asJSON {
			_ = WriteJSONFromError(out, err)
			return exitError{code: 1}
		}
		return err
	}

	log, err := logger.New(logger.Options{Level: cfg.Log.Level, Name: "snapshot"})
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig, "Couldn't set up logging", "")
	}
	defer logger.Sync(log)

	client := actuator.NewClient(cfg.BaseURL, cfg.Timeout)
	client.SetUserAgent(userAgent())

	return Snapshot(ctx, SnapshotOptions{
		Source:  client,
		BaseURL: cfg.BaseURL,
		Timeout: cfg.Timeout,
		JSON:    asJSON,
		Out:     out,
		Log:     log,
	})
}

// thresholdsFrom converts config thresholds to the dashboard's.
func thresholdsFrom(t config.ThresholdConfig) dashboard.Thresholds {
	return dashboard.Thresholds{Warning: float64(t.Warning), Critical: float64(t.Critical)}
}

func userAgent() string {
	return "actop/" + version
}
