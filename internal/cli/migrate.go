package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"trainingevents/internal/config"
	"trainingevents/internal/infrastructure/database"
)

// MigrateOptions holds flags for the migrate command.
type MigrateOptions struct {
	*RootOptions
	Steps  int
	Status bool
}

func NewMigrateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &MigrateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations",
		Long: `Apply pending migrations from MIGRATIONS_PATH.

Examples:
  trainingevents migrate
  trainingevents migrate --steps -1
  trainingevents migrate --status --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMigrate(cmd.OutOrStdout(), opts)
		},
	}
	cmd.Flags().IntVar(&opts.Steps, "steps", 0, "migrate n steps up (n > 0) or down (n < 0) instead of all the way up")
	cmd.Flags().BoolVar(&opts.Status, "status", false, "print the current version without migrating")
	return cmd
}

func runMigrate(w io.Writer, opts *MigrateOptions) error {
	cfg := opts.Config
	if cfg.Storage != config.StoragePostgres {
		return fmt.Errorf("migrate needs STORAGE=%s", config.StoragePostgres)
	}
	mg, err := database.NewMigrator(cfg.DatabaseURL, cfg.MigrationsPath)
	if err != nil {
		return err
	}
	defer mg.Close()

	var status database.MigrationStatus
	switch {
	case opts.Status:
		status, err = mg.Status()
	case opts.Steps != 0:
		status, err = mg.Steps(opts.Steps)
	default:
		status, err = mg.Up()
	}
	if err != nil {
		return err
	}
	return writeMigrationStatus(w, opts.Format, status)
}

func writeMigrationStatus(w io.Writer, format string, status database.MigrationStatus) error {
	if format == "json" {
		return json.NewEncoder(w).Encode(status)
	}
	_, err := fmt.Fprintf(w, "version %d (dirty=%v)\n", status.Version, status.Dirty)
	return err
}
