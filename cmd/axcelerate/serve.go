package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jsamuelsen/axcelerate-go/internal/adapters/http"
	"github.com/jsamuelsen/axcelerate-go/internal/adapters/http/handlers"
	"github.com/jsamuelsen/axcelerate-go/internal/ports"
)

func (c *cli) serveCommand() *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the probe server",
		Long: `Serve /-/live, /-/ready, /-/build and /-/metrics, plus the LMS diagnostics
under /-/lms, until interrupted. Readiness runs the LMS connectivity check.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Flags().Changed("port") {
				c.cfg.Server.Port = port
			}

			client, err := c.client()
			if err != nil {
				return err
			}

			registry := ports.NewHealthRegistry(c.cfg.Server.CheckTimeout)
			if err := registry.Register(client); err != nil {
				return fmt.Errorf("registering LMS health check: %w", err)
			}

			buildInfo := handlers.NewBuildInfo(Version, Commit, BuildTime)

			server := http.New(&c.cfg.Server, c.logger)
			http.SetupRouter(server.Engine(), http.RouterConfig{
				Logger:        c.logger,
				ServiceName:   c.cfg.App.Name,
				HealthHandler: handlers.NewHealthHandler(registry, buildInfo),
				LMSHandler:    handlers.NewLMSHandler(client, client),
			})

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			c.logger.Info("probe server ready",
				slog.String("addr", server.Addr()),
				slog.String("lms", client.BaseURL()),
				slog.String("version", Version),
			)

			return server.Run(ctx)
		},
	}

	cmd.Flags().IntVar(&port, "port", 0, "override server.port")

	return cmd
}
