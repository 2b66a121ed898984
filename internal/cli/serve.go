package cli

import (
	"context"
	"fmt"
	"log"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"trainingevents/internal/adapters/discord"
	"trainingevents/internal/adapters/rest"
	"trainingevents/internal/adapters/scheduler"
	"trainingevents/internal/config"
	"trainingevents/internal/infrastructure/database"
)

// ServeOptions holds flags for the serve command.
type ServeOptions struct {
	*RootOptions
	Migrate bool
}

func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ServeOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API, the periodic assignment and the Discord bot",
		Long: `Run the HTTP API on HTTP_ADDR. Lesson plans are assigned every
ASSIGN_INTERVAL. When DISCORD_TOKEN is set the bot answers slash commands and
posts announcements to DISCORD_CHANNEL_ID.

Example:
  trainingevents serve --migrate`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), opts)
		},
	}
	cmd.Flags().BoolVar(&opts.Migrate, "migrate", false, "apply pending migrations before serving")
	return cmd
}

func runServe(ctx context.Context, opts *ServeOptions) error {
	cfg := opts.Config
	if err := cfg.RequireJWTSecret(); err != nil {
		return err
	}
	if opts.Migrate && cfg.Storage == config.StoragePostgres {
		if err := database.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath); err != nil {
			return err
		}
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.close()

	go scheduler.Run(ctx, a.assignment, cfg.AssignInterval)

	if a.session != nil {
		handler := discord.NewHandler(a.events, a.participant, a.users, a.translator, a.location)
		bot := discord.NewBot(a.session, handler)
		go func() {
			if err := bot.Run(ctx); err != nil {
				log.Printf("❌ discord bot: %v", err)
			}
		}()
	}

	server := rest.NewServer(rest.Services{
		Events:       a.events,
		Participants: a.participant,
		Votes:        a.votes,
		Assignment:   a.assignment,
	}, a.users, a.translator, cfg.JWTSecret)
	if err := server.Run(ctx, cfg.HTTPAddr); err != nil {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}
