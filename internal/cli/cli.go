package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/vk/meepgen/internal/app"
	"github.com/vk/meepgen/internal/config"
	"github.com/vk/meepgen/internal/notify"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// Parse processes command-line arguments. It returns a populated app.Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
// Values come from the built-in defaults, then the -config file, then any
// flag given explicitly.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet := flag.NewFlagSet("meepgen", flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprint(output, `
meepgen - Generates a Meep FDTD simulation script from a 2D photonic scene.

Usage:
  meepgen [options] SCENE_PATH

Arguments:
  SCENE_PATH
    Path to a scene file (.hcl, .yaml, .yml, .json) or a directory of them.

Options:
`)
		flagSet.PrintDefaults()
	}

	defaults := config.Default()
	outputFlag := flagSet.String("o", "", "Output script path. '-' writes to stdout; empty derives the name from the title.")
	configFlag := flagSet.String("config", "", "Path to a TOML configuration file.")
	watchFlag := flagSet.Bool("watch", false, "Keep running and regenerate changed sections when scene files change.")
	statusPortFlag := flagSet.Int("status-port", 0, "Port for the HTTP status server. 0 is disabled.")
	workersFlag := flagSet.Int("workers", 0, "Number of concurrent section generators. 0 uses GOMAXPROCS.")
	titleFlag := flagSet.String("title", "", "Project title, overrides the scene title.")
	notifyFlag := flagSet.String("notify-url", "", "Socket.IO URL of a live editor to push progress to.")
	debounceFlag := flagSet.Duration("debounce", defaults.Watch.Debounce, "Quiet period before a watched change is regenerated.")
	logFormatFlag := flagSet.String("log-format", defaults.Logging.Format, "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", defaults.Logging.Level, "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.")

	path := flagSet.Arg(0)
	if path == "" {
		slog.Debug("No scene path provided, printing usage and exiting.")
		flagSet.Usage()
		return nil, true, nil
	}
	if flagSet.NArg() > 1 {
		return nil, false, &ExitError{Code: 2, Message: fmt.Sprintf("expected one scene path, got %d", flagSet.NArg())}
	}

	cfg := defaults
	if *configFlag != "" {
		loaded, err := config.Load(*configFlag)
		if err != nil {
			return nil, false, &ExitError{Code: 2, Message: err.Error()}
		}
		cfg = loaded
		slog.Debug("Configuration file loaded.", "path", *configFlag)
	}

	set := make(map[string]bool)
	flagSet.Visit(func(f *flag.Flag) { set[f.Name] = true })
	if set["o"] {
		cfg.Output.Path = *outputFlag
	}
	if set["title"] {
		cfg.Output.Title = *titleFlag
	}
	if set["status-port"] {
		cfg.Server.StatusPort = *statusPortFlag
	}
	if set["workers"] {
		cfg.Engine.Workers = *workersFlag
	}
	if set["notify-url"] {
		cfg.Notify.URL = *notifyFlag
	}
	if set["debounce"] {
		cfg.Watch.Debounce = *debounceFlag
	}
	if set["log-format"] {
		cfg.Logging.Format = strings.ToLower(*logFormatFlag)
	}
	if set["log-level"] {
		cfg.Logging.Level = strings.ToLower(*logLevelFlag)
	}
	if err := cfg.Validate(); err != nil {
		return nil, false, &ExitError{Code: 2, Message: "invalid options: " + err.Error()}
	}
	slog.Debug("CLI parameter validation complete.")

	appConfig, err := app.NewConfig(app.Config{
		ScenePath:  path,
		OutputPath: cfg.Output.Path,
		Title:      cfg.Output.Title,
		Watch:      *watchFlag,
		Debounce:   cfg.Watch.Debounce,
		StatusPort: cfg.Server.StatusPort,
		Workers:    cfg.Engine.Workers,
		Notify: notify.Options{
			URL:                cfg.Notify.URL,
			Namespace:          cfg.Notify.Namespace,
			ConnectTimeout:     cfg.Notify.Timeout,
			InsecureSkipVerify: cfg.Notify.InsecureSkipVerify,
		},
		LogFormat: cfg.Logging.Format,
		LogLevel:  cfg.Logging.Level,
	})
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.", "config", appConfig)
	return appConfig, false, nil
}

