// Package cli holds the dashctl operator commands.
package cli

import (
	"context"
	"database/sql"

	"github.com/spf13/cobra"

	"github.com/nextdash/dashboard-backend/internal/logging"
)

// Opener connects to the dashboard database.
type Opener func(ctx context.Context) (*sql.DB, error)

var logLevel string

// NewRootCmd builds the dashctl command tree around open.
func NewRootCmd(open Opener) *cobra.Command {
	root := &cobra.Command{
		Use:   "dashctl",
		Short: "Operator tasks for the dashboard database",
		Long: `dashctl applies the dashboard schema and loads development data.

Connection settings are read from the same environment as the API server.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if cmd.Flags().Changed("log-level") {
				logging.SetLevel(logLevel)
			}
		},
	}

	root.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")

	root.AddCommand(newMigrateCmd(open))
	root.AddCommand(newSeedCmd(open))
	return root
}

func withDB(cmd *cobra.Command, open Opener, fn func(ctx context.Context, db *sql.DB) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	db, err := open(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	return fn(ctx, db)
}
