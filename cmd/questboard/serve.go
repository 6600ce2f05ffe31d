package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/jsamuelsen/questboard/internal/adapters/http"
	"github.com/jsamuelsen/questboard/internal/adapters/http/handlers"
	"github.com/jsamuelsen/questboard/internal/platform/telemetry"
	"github.com/jsamuelsen/questboard/internal/ports"
)

func newServeCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP gateway",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.serve(cmd)
		},
	}
}

// serve wires telemetry, health checks and the gateway routes, then serves
// until the command context is cancelled.
func (c *cli) serve(cmd *cobra.Command) error {
	ctx := cmd.Context()
	cfg := c.cfg
	logger := c.logger

	logger.Info("starting gateway",
		slog.String("version", Version),
		slog.String("commit", Commit),
		slog.String("environment", cfg.App.Environment),
		slog.String("api_url", cfg.API.URL),
	)

	telProvider, err := telemetry.New(ctx, &telemetry.Config{
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

	defer func() {
		if shutdownErr := telProvider.Shutdown(context.WithoutCancel(ctx)); shutdownErr != nil {
			logger.Error("telemetry shutdown error", slog.Any("error", shutdownErr))
		}
	}()

	healthRegistry := ports.NewHealthRegistry(ports.DefaultCheckTimeout)
	for _, checker := range []ports.HealthChecker{c.quests, c.items, c.users, c.achievements} {
		if err := healthRegistry.Register(checker); err != nil {
			return fmt.Errorf("registering %s health check: %w", checker.Name(), err)
		}
	}

	server := http.New(&cfg.Server, logger)

	http.SetupRouter(server.Engine(), http.RouterConfig{
		Logger:      logger,
		ServiceName: cfg.Telemetry.ServiceName,
		Server:      &cfg.Server,
		Health:      handlers.NewHealthHandler(healthRegistry, handlers.NewBuildInfo(Version, Commit, BuildTime)),
		Dashboard:   handlers.NewDashboardHandler(c.dashboard),
		Actions:     handlers.NewActionHandler(c.actions),
		Catalog:     handlers.NewCatalogHandler(c.quests, c.items),

		Achievements: handlers.NewAchievementHandler(c.badges),
	})

	if err := server.Run(ctx); err != nil {
		return fmt.Errorf("gateway: %w", err)
	}

	logger.Info("shutdown complete")

	return nil
}
