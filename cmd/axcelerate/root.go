package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/jsamuelsen/axcelerate-go/internal/platform/config"
	"github.com/jsamuelsen/axcelerate-go/internal/platform/logging"
	"github.com/jsamuelsen/axcelerate-go/internal/platform/telemetry"
	"github.com/jsamuelsen/axcelerate-go/pkg/axcelerate"
)

// errReported marks failures the command already printed.
var errReported = errors.New("reported")

// cli holds what the subcommands share once the root has initialized.
type cli struct {
	stdout io.Writer
	stderr io.Writer

	// flags
	configDir string
	profile   string
	logLevel  string

	cfg       *config.Config
	logger    *slog.Logger
	telemetry *telemetry.Provider
}

func newCLI(stdout, stderr io.Writer) *cli {
	return &cli{stdout: stdout, stderr: stderr}
}

func (c *cli) rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "axcelerate",
		Short: "Talk to an aXcelerate LMS tenant",
		Long: `axcelerate calls the aXcelerate LMS REST API with the tenant URL and the
WS and API tokens taken from configs/ and the AXCELERATE_* environment.`,
		Version:           fmt.Sprintf("%s (commit %s, built %s)", Version, Commit, BuildTime),
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: c.initialize,
	}

	root.SetOut(c.stdout)
	root.SetErr(c.stderr)

	profile := os.Getenv("APP_ENVIRONMENT")
	if profile == "" {
		profile = "local"
	}

	root.PersistentFlags().StringVar(&c.configDir, "config-dir", config.DefaultConfigDir, "directory holding base.yaml and profile files")
	root.PersistentFlags().StringVarP(&c.profile, "profile", "p", profile, "configuration profile")
	root.PersistentFlags().StringVar(&c.logLevel, "log-level", "", "override log.level (trace, debug, info, warn, error)")

	root.AddCommand(
		c.testCommand(),
		c.coursesCommand(),
		c.instancesCommand(),
		c.serveCommand(),
	)

	return root
}

// initialize loads and validates configuration, then sets up logging and
// telemetry.
func (c *cli) initialize(cmd *cobra.Command, _ []string) error {
	cfg, err := config.LoadFrom(c.configDir, c.profile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if c.logLevel != "" {
		cfg.Log.Level = c.logLevel
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	c.cfg = cfg
	c.logger = logging.NewWithWriter(&logging.Config{
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		Service: cfg.App.Name,
		Version: Version,
		File: logging.FileConfig{
			Enabled:    cfg.Log.File.Enabled,
			Path:       cfg.Log.File.Path,
			MaxSizeMB:  cfg.Log.File.MaxSizeMB,
			MaxBackups: cfg.Log.File.MaxBackups,
			MaxAgeDays: cfg.Log.File.MaxAgeDays,
			Compress:   cfg.Log.File.Compress,
		},
	}, c.stderr)
	logging.SetDefault(c.logger)

	ctx := logging.WithContext(cmd.Context(), c.logger)
	ctx = logging.WithCommand(ctx, cmd.Name())
	cmd.SetContext(ctx)

	c.telemetry, err = telemetry.New(ctx, &telemetry.Config{
		Enabled:      cfg.Telemetry.Enabled,
		Endpoint:     cfg.Telemetry.Endpoint,
		ServiceName:  cfg.Telemetry.ServiceName,
		Version:      Version,
		Environment:  cfg.App.Environment,
		SamplingRate: cfg.Telemetry.SamplingRate,
	})
	if err != nil {
		return fmt.Errorf("initializing telemetry: %w", err)
	}

	c.logger.Debug("configuration loaded",
		slog.String("profile", c.profile),
		slog.String("environment", cfg.App.Environment),
		slog.String("base_url", cfg.Axcelerate.BaseURL),
	)

	return nil
}

// client builds the LMS client from the loaded configuration.
func (c *cli) client() (*axcelerate.Client, error) {
	return axcelerate.New(c.cfg.ClientConfig(c.logger))
}

// close flushes telemetry. It is safe to call when initialize never ran.
func (c *cli) close(ctx context.Context) {
	if c.telemetry == nil {
		return
	}

	if err := c.telemetry.Shutdown(ctx); err != nil && c.logger != nil {
		c.logger.Error("telemetry shutdown error", slog.Any("error", err))
	}
}

// printJSON writes v as indented JSON on stdout.
func (c *cli) printJSON(v any) error {
	enc := json.NewEncoder(c.stdout)
	enc.SetIndent("", "  ")

	return enc.Encode(v)
}
