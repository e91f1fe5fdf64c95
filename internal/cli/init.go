package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/rileyhilliard/actop/internal/actuator"
	"github.com/rileyhilliard/actop/internal/config"
	"github.com/rileyhilliard/actop/internal/errors"
	"github.com/rileyhilliard/actop/internal/ui"
	"gopkg.in/yaml.v3"
)

// checkTimeout bounds the health check init runs before saving.
const checkTimeout = 5 * time.Second

// InitOptions holds options for the init command.
type InitOptions struct {
	URL            string // Pre-specified actuator base URL
	Interval       string // Pre-specified refresh interval
	Overwrite      bool   // Overwrite existing config without asking
	NonInteractive bool   // Skip prompts, use defaults
	SkipCheck      bool   // Don't check the actuator before saving

	Dir string    // Where to write the config; defaults to the working directory
	Out io.Writer // Defaults to stdout

	// CheckHealth checks the actuator and returns its health status. Defaults to
	// a real health request.
	CheckHealth func(ctx context.Context, baseURL string) (string, error)
}

// initDefaults are values picked up from the environment.
type initDefaults struct {
	URL            string
	Interval       string
	NonInteractive bool
}

// getInitDefaults reads ACTOP_URL, ACTOP_INTERVAL, ACTOP_NON_INTERACTIVE
// and CI.
func getInitDefaults() initDefaults {
	return initDefaults{
		URL:            os.Getenv("ACTOP_URL"),
		Interval:       os.Getenv("ACTOP_INTERVAL"),
		NonInteractive: os.Getenv("ACTOP_NON_INTERACTIVE") != "" || os.Getenv("CI") != "",
	}
}

// mergeInitOptions fills empty flags from the environment. Flags win.
func mergeInitOptions(opts InitOptions) InitOptions {
	defaults := getInitDefaults()
	if opts.URL == "" {
		opts.URL = defaults.URL
	}
	if opts.Interval == "" {
		opts.Interval = defaults.Interval
	}
	if defaults.NonInteractive {
		opts.NonInteractive = true
	}
	return opts
}

// Init creates a new .actop.yaml configuration file.
func Init(opts InitOptions) error {
	opts = mergeInitOptions(opts)
	out := opts.Out
	if out == nil {
		out = os.Stdout
	}
	dir := opts.Dir
	if dir == "" {
		dir = "."
	}
	configPath := filepath.Join(dir, config.ConfigFileName)

	// Check for existing config
	if _, err := os.Stat(configPath); err == nil && !opts.Overwrite {
		if opts.NonInteractive {
			return errors.New(errors.ErrConfig,
				fmt.Sprintf("Config file already exists: %s", configPath),
				"Use --force to overwrite")
		}

		var overwrite bool
		form := huh.NewForm(
			huh.NewGroup(
				huh.NewConfirm().
					Title(fmt.Sprintf("Config file '%s' already exists. Overwrite?", config.ConfigFileName)).
					Value(&overwrite),
			),
		)
		if err := form.Run(); err != nil {
			return errors.WrapWithCode(err, errors.ErrConfig,
				"Failed to get user input",
				"Try running with --force to overwrite")
		}
		if !overwrite {
			fmt.Fprintln(out, "Cancelled.")
			return nil
		}
	}

	baseURL := opts.URL
	if baseURL == "" {
		baseURL = config.DefaultBaseURL
	}
	interval := opts.Interval
	if interval == "" {
		interval = config.DefaultInterval.String()
	}

	if !opts.NonInteractive {
		form := huh.NewForm(
			huh.NewGroup(
				huh.NewInput().
					Title("Actuator base URL").
					Description("The application's actuator root").
					Placeholder(config.DefaultBaseURL).
					Value(&baseURL).
					Validate(config.ValidateBaseURL),
			),
			huh.NewGroup(
				huh.NewInput().
					Title("Refresh interval").
					Description("How often the dashboard polls (e.g., 2s, 5s, 1m)").
					Placeholder(config.DefaultInterval.String()).
					Value(&interval).
					Validate(validateInterval),
			),
		)
		if err := form.Run(); err != nil {
			return errors.WrapWithCode(err, errors.ErrConfig,
				"Failed to get user input",
				"Check terminal compatibility or use --non-interactive flag")
		}
	}

	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if err := config.ValidateBaseURL(baseURL); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig, err.Error(),
			"Pass the actuator root, e.g. --url http://localhost:8080/actuator")
	}
	if err := validateInterval(interval); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig, err.Error(),
			"Use a duration like 2s, 5s, or 1m")
	}
	parsedInterval, _ := time.ParseDuration(strings.TrimSpace(interval))

	if !opts.SkipCheck {
		if err := checkBeforeSave(opts, baseURL, out); err != nil {
			return err
		}
	}

	cfg := config.DefaultConfig()
	cfg.BaseURL = baseURL
	cfg.Interval = parsedInterval

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to generate config",
			"This shouldn't happen - please report this bug")
	}

	header := `# actop configuration
# Run 'actop' to open the dashboard, 'actop snapshot' for a one-shot view.

`
	if err := os.WriteFile(configPath, []byte(header+string(data)), 0644); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			fmt.Sprintf("Failed to write config file: %s", configPath),
			"Check directory permissions")
	}

	fmt.Fprintf(out, "%s Created %s\n\n", ui.SuccessStyle().Render(ui.SymbolSuccess), configPath)
	fmt.Fprintln(out, "Next steps:")
	fmt.Fprintln(out, "  actop           - Open the live dashboard")
	fmt.Fprintln(out, "  actop snapshot  - Print one refresh and exit")
	fmt.Fprintln(out, "  actop proxy     - Guard the actuator behind an IP allowlist")

	return nil
}

// checkBeforeSave checks the actuator health endpoint. Interactive users can
// save anyway when it fails.
func checkBeforeSave(opts InitOptions, baseURL string, out io.Writer) error {
	check := opts.CheckHealth
	if check == nil {
		check = checkHealth
	}

	spinner := ui.NewSpinner("Checking " + baseURL)
	spinner.SetOutput(out)
	if out != os.Stdout {
		spinner.SetAnimated(false)
	}
	spinner.Start()

	ctx, cancel := context.WithTimeout(context.Background(), checkTimeout)
	defer cancel()

	status, err := check(ctx, baseURL)
	if err == nil {
		spinner.SetDetail(status)
		spinner.Success()
		return nil
	}
	spinner.Fail()

	failure := errors.WrapWithCode(err, errors.ErrHTTP,
		fmt.Sprintf("Couldn't reach the actuator at %s", baseURL),
		"Start the application, or pass --no-check to save the config anyway")

	if opts.NonInteractive {
		return failure
	}

	fmt.Fprintf(out, "\n%s %s\n\n", ui.SymbolFail, errors.Short(err))
	var saveAnyway bool
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Save config anyway? (You can start the application later)").
				Value(&saveAnyway),
		),
	)
	if formErr := form.Run(); formErr != nil || !saveAnyway {
		return failure
	}
	return nil
}

func checkHealth(ctx context.Context, baseURL string) (string, error) {
	client := actuator.NewClient(baseURL, checkTimeout)
	client.SetUserAgent(userAgent())
	health, err := client.Health(ctx)
	if err != nil {
		return "", err
	}
	return health.Status, nil
}

func validateInterval(s string) error {
	d, err := time.ParseDuration(strings.TrimSpace(s))
	if err != nil {
		return fmt.Errorf("'%s' isn't a duration", s)
	}
	if d < config.MinInterval {
		return fmt.Errorf("interval %v is too short (minimum %v)", d, config.MinInterval)
	}
	return nil
}

// initCommand is the implementation called by the cobra command.
func initCommand(opts InitOptions) error {
	return Init(opts)
}
