package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/jsamuelsen/questboard/internal/adapters/clients"
	"github.com/jsamuelsen/questboard/internal/adapters/clients/acl"
	"github.com/jsamuelsen/questboard/internal/adapters/http/middleware"
	"github.com/jsamuelsen/questboard/internal/app"
	"github.com/jsamuelsen/questboard/internal/platform/config"
	"github.com/jsamuelsen/questboard/internal/platform/logging"
	"github.com/jsamuelsen/questboard/internal/ports"
)

// cli holds the global flags and the services built from them. Every
// command except version goes through setup first.
type cli struct {
	profile string
	output  string
	apiURL  string

	stdout io.Writer
	stderr io.Writer
	now    func() time.Time

	cfg    *config.Config
	logger *slog.Logger
	client *clients.Client

	quests *acl.QuestClient
	items  *acl.ItemClient
	users  *acl.UserClient

	achievements *acl.AchievementClient
	auth         *acl.AuthClient

	dashboard *app.DashboardService
	actions   *app.ActionService
	badges    *app.AchievementService
}

func newCLI(stdout, stderr io.Writer) *cli {
	return &cli{stdout: stdout, stderr: stderr, now: time.Now}
}

func newRootCmd(c *cli) *cobra.Command {
	root := &cobra.Command{
		Use:   "questboard",
		Short: "Quest board client for the quest backend",
		Long: `questboard talks to the quest backend: browse quests and items, start,
complete and abandon quests, buy items, wear achievement titles, and
render the player dashboard.
"questboard serve" exposes the same operations through an HTTP gateway.`,
		Version:           fmt.Sprintf("%s (commit %s, built %s)", Version, Commit, BuildTime),
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error { return c.setup(cmd) },
	}

	root.SetOut(c.stdout)
	root.SetErr(c.stderr)

	flags := root.PersistentFlags()
	flags.StringVar(&c.profile, "profile", "", "config profile (default $APP_ENVIRONMENT or local)")
	flags.StringVarP(&c.output, "output", "o", outputTable, "output format: json, yaml or table")
	flags.StringVar(&c.apiURL, "api-url", "", "quest backend base URL")

	root.AddCommand(
		newQuestsCmd(c),
		newItemsCmd(c),
		newUsersCmd(c),
		newHomeCmd(c),
		newProfileCmd(c),
		newAchievementsCmd(c),
		newAuthCmd(c),
		newServeCmd(c),
	)

	return root
}

// setup loads configuration and builds the client, adapters and services.
func (c *cli) setup(cmd *cobra.Command) error {
	if err := validateOutput(c.output); err != nil {
		return err
	}

	profile := c.profile
	if profile == "" {
		profile = os.Getenv("APP_ENVIRONMENT")
	}

	if profile == "" {
		profile = "local"
	}

	cfg, err := config.Load(profile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if c.apiURL != "" {
		cfg.API.URL = c.apiURL
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	logger := logging.NewWithWriter(&logging.Config{
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
	logging.SetDefault(logger)

	client, err := clients.New(clients.ConfigFrom(cfg, logger))
	if err != nil {
		return fmt.Errorf("creating API client: %w", err)
	}

	c.cfg = cfg
	c.logger = logger
	c.client = client

	c.quests = acl.NewQuestClient(client, acl.WithProgress(c.progress))
	c.items = acl.NewItemClient(client)
	c.users = acl.NewUserClient(client)
	c.achievements = acl.NewAchievementClient(client)
	c.auth = acl.NewAuthClient(client)

	c.dashboard = app.NewDashboardService(app.DashboardConfig{
		Quests: c.quests,
		Items:  c.items,
		Users:  c.users,
		Logger: logger,
		Now:    c.now,
	})
	c.actions = app.NewActionService(app.ActionConfig{
		Quests: c.quests,
		Items:  c.items,
		Users:  c.users,
		Logger: logger,
		Now:    c.now,
	})
	c.badges = app.NewAchievementService(app.AchievementConfig{
		Achievements: c.achievements,
		Logger:       logger,
	})

	logger.Debug("cli ready",
		slog.String("command", cmd.CommandPath()),
		slog.String("profile", profile),
		slog.String("api_url", cfg.API.URL),
	)

	return nil
}

// commandContext tags the command's context with a fresh request ID, which
// the client forwards to the backend and the logger records.
func (c *cli) commandContext(cmd *cobra.Command) context.Context {
	id := uuid.NewString()

	ctx := middleware.ContextWithRequestID(cmd.Context(), id)

	return logging.WithContext(ctx, c.logger.With(
		slog.String("request_id", id),
		slog.String("command", cmd.CommandPath()),
	))
}

// progress reports quest action steps on stderr for interactive output.
func (c *cli) progress(_ context.Context, action string, step ports.ProgressStep) {
	if c.output != outputTable {
		return
	}

	fmt.Fprintf(c.stderr, "%s: %s\n", action, step)
}
